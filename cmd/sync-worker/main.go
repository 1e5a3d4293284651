// The sync worker consumes sync requests from AMQP and pushes the backup
// of all budgets to cloud storage.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/envelope-ledger/backend/internal/config"
	"github.com/envelope-ledger/backend/pkg/backup"
	"github.com/envelope-ledger/backend/pkg/budgets"
	"github.com/envelope-ledger/backend/pkg/cloudsync"
	"github.com/envelope-ledger/backend/pkg/store"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg := config.Load()

	if cfg.LogFormat == "human" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}
	log.Logger = log.With().Timestamp().Str("process", "sync-worker").Logger()

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Configuration")
	}

	if cfg.GCSBucket == "" || cfg.AMQPURL == "" {
		log.Fatal().Msg("The sync worker needs GCS_BUCKET and AMQP_URL to be set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := store.Connect(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("Database connection")
	}
	defer db.Close()

	remote, err := cloudsync.NewGCSRemote(ctx, cfg.GCSBucket, cfg.GCSObject, cfg.GCSCredentialsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Cloud storage")
	}
	defer remote.Close()

	client, err := cloudsync.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		log.Fatal().Err(err).Msg("AMQP connection")
	}
	defer client.Close()

	syncer := cloudsync.NewSyncer(db, backup.New(db, budgets.New(db)), remote)
	worker := cloudsync.NewWorker(syncer)

	g, ctx := errgroup.WithContext(ctx)

	// Pick up changes made while no worker was running
	g.Go(func() error {
		if _, err := syncer.Push(ctx); err != nil {
			log.Error().Err(err).Msg("Startup push failed")
		}
		return nil
	})

	g.Go(func() error {
		log.Info().Str("queue", cfg.AMQPQueue).Msg("Consuming sync requests")
		err := client.ConsumeSyncRequests(ctx, worker.HandleSyncRequest)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Sync worker stopped")
		os.Exit(1)
	}

	log.Info().Msg("Sync worker stopped")
}
