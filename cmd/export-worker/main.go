package main

import (
	"context"
	"errors"
	"os"
	"time"

	"expensetracker/internal/amqp"
	"expensetracker/internal/cli"
	"expensetracker/internal/ledger"
	"expensetracker/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger()
	logger.Info("Starting export-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	sqliteRepo := cli.InitSQLite(logger, cfg.SQLiteDBPath)

	// AMQP client for consuming ledger change events
	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		sqliteRepo.Close()
		os.Exit(1)
	}

	exportWorker := worker.NewExportWorker(sqliteRepo, ledger.NewService(sqliteRepo), cfg.ExportDir)

	// A fatal consume error cancels the root context, which drives the same
	// shutdown path as a signal.
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	ctx, done := cli.GracefulShutdown(rootCtx, logger, 30*time.Second, func() {
		amqpClient.Close()
		sqliteRepo.Close()
	})

	// On startup, rebuild every user's snapshots so exports reflect
	// anything written while the worker was down.
	logger.Info("Performing startup export refresh...")
	if err := exportWorker.RefreshAll(ctx); err != nil {
		logger.Error("Startup export refresh failed", "error", err)
		// Don't exit - continue with normal operation
	}

	go func() {
		if err := amqpClient.ConsumeLedgerEvents(ctx, exportWorker.HandleLedgerEvent); err != nil {
			if !errors.Is(err, context.Canceled) {
				logger.Error("Message consumption failed", "error", err)
			}
			rootCancel()
		}
	}()

	// Periodic full refresh covers events lost while disconnected.
	ticker := time.NewTicker(cfg.RefreshInterval)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := exportWorker.RefreshAll(ctx); err != nil {
					logger.Error("Periodic export refresh failed", "error", err)
				}
			}
		}
	}()

	cli.WaitForShutdown(ctx, done)
}
