package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/envelope-ledger/backend/internal/config"
	"github.com/envelope-ledger/backend/pkg/backup"
	"github.com/envelope-ledger/backend/pkg/budgets"
	"github.com/envelope-ledger/backend/pkg/cloudsync"
	v1 "github.com/envelope-ledger/backend/pkg/controllers/v1"
	"github.com/envelope-ledger/backend/pkg/ledger"
	"github.com/envelope-ledger/backend/pkg/router"
	"github.com/envelope-ledger/backend/pkg/store"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// This is set at build time with -ldflags "-X main.version=..."
var version = "0.0.0"

func setupLogging(cfg *config.Config) {
	gin.SetMode(cfg.GinMode)

	// Log format can be explicitly set.
	// If it is not set, it defaults to human readable for development
	// and JSON for release
	output := io.Writer(os.Stdout)
	if (cfg.LogFormat == "" && gin.IsDebugging()) || cfg.LogFormat == "human" {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if gin.IsDebugging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(output).With().Timestamp().Logger()
}

func main() {
	cfg := config.Load()
	setupLogging(cfg)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := store.Connect(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("Database connection")
	}
	defer db.Close()

	manager := budgets.New(db)
	if _, err := manager.MigrateLegacy(ctx); err != nil {
		log.Fatal().Err(err).Msg("Legacy data migration")
	}

	co := v1.Controller{
		Engine:  ledger.New(db),
		Budgets: manager,
		Backup:  backup.New(db, manager),
	}

	opts := router.Options{
		Version:          version,
		CORSAllowOrigins: cfg.CORSAllowOrigins,
		EnablePprof:      cfg.EnablePprof,
	}

	if cfg.GCSBucket != "" {
		remote, err := cloudsync.NewGCSRemote(ctx, cfg.GCSBucket, cfg.GCSObject, cfg.GCSCredentialsFile)
		if err != nil {
			log.Fatal().Err(err).Msg("Cloud storage")
		}
		defer remote.Close()

		co.Sync = cloudsync.NewSyncer(db, co.Backup, remote)
		log.Info().Str("bucket", cfg.GCSBucket).Str("object", cfg.GCSObject).Msg("Cloud sync enabled")
	}

	if cfg.AMQPURL != "" {
		client, err := cloudsync.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			log.Fatal().Err(err).Msg("AMQP connection")
		}
		defer client.Close()

		opts.Publisher = client
		log.Info().Str("exchange", cfg.AMQPExchange).Str("queue", cfg.AMQPQueue).Msg("Sync requests enabled")
	}

	r, err := router.Config(cfg.BaseURL(), opts)
	if err != nil {
		log.Fatal().Err(err).Msg("Router")
	}
	defer router.UnregisterMetrics()

	router.AttachRoutes(co, db, r.Group("/"), opts)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Msg("Server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server")
	}
}
