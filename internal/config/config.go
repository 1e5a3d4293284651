// Package config reads the configuration of the API server and the sync
// worker from the environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// HTTP server
	GinMode          string
	LogFormat        string // "human" for console output, JSON otherwise
	APIURL           string
	Port             string
	CORSAllowOrigins []string
	EnablePprof      bool

	// Database
	DBPath string

	// Cloud backup, disabled if GCSBucket is empty
	GCSBucket          string
	GCSObject          string
	GCSCredentialsFile string // Application default credentials are used if empty

	// Sync requests, disabled if AMQPURL is empty
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// Load reads the configuration. Variables from a .env file in the working
// directory are used for those not set in the environment.
func Load() *Config {
	// A missing .env file is fine
	_ = godotenv.Load()

	return &Config{
		GinMode:          getEnv("GIN_MODE", "release"),
		LogFormat:        os.Getenv("LOG_FORMAT"),
		APIURL:           getEnv("API_URL", "http://localhost:8080"),
		Port:             getEnv("PORT", "8080"),
		CORSAllowOrigins: strings.Fields(os.Getenv("CORS_ALLOW_ORIGINS")),
		EnablePprof:      getEnvBool("ENABLE_PPROF", false),

		DBPath: getEnv("DB_PATH", "data/ledger.db"),

		GCSBucket:          os.Getenv("GCS_BUCKET"),
		GCSObject:          getEnv("GCS_OBJECT", "budget-backup.json"),
		GCSCredentialsFile: os.Getenv("GCS_CREDENTIALS_FILE"),

		AMQPURL:      os.Getenv("AMQP_URL"),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "ledger"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "sync_requests"),
	}
}

// Validate returns an error listing every invalid setting.
func (c *Config) Validate() error {
	var errs []string

	switch c.GinMode {
	case "debug", "release", "test":
	default:
		errs = append(errs, fmt.Sprintf("invalid GIN_MODE '%s': must be one of debug, release, test", c.GinMode))
	}

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if u, err := url.Parse(c.APIURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Sprintf("invalid API_URL '%s': must be an absolute URL", c.APIURL))
	}

	if c.DBPath == "" {
		errs = append(errs, "DB_PATH cannot be empty")
	} else if dir := filepath.Dir(c.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			errs = append(errs, fmt.Sprintf("cannot create database directory '%s': %v", dir, err))
		}
	}

	if c.GCSBucket != "" && c.GCSObject == "" {
		errs = append(errs, "GCS_OBJECT cannot be empty when GCS_BUCKET is set")
	}

	if c.GCSCredentialsFile != "" {
		if _, err := os.Stat(c.GCSCredentialsFile); err != nil {
			errs = append(errs, fmt.Sprintf("GCS credentials file cannot be read: %s", c.GCSCredentialsFile))
		}
	}

	if c.AMQPURL != "" {
		if u, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if u.Scheme != "amqp" && u.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", u.Scheme))
		}

		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	return nil
}

// BaseURL returns the parsed API URL. It must only be called after
// Validate succeeded.
func (c *Config) BaseURL() *url.URL {
	u, _ := url.Parse(c.APIURL)
	return u
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
