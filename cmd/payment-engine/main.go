package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/matangottesman/payment-engine/internal/admin"
	"github.com/matangottesman/payment-engine/internal/config"
	"github.com/matangottesman/payment-engine/internal/csvio"
	"github.com/matangottesman/payment-engine/internal/engine"
	"github.com/matangottesman/payment-engine/internal/events"
	"github.com/matangottesman/payment-engine/internal/ledger"
	"github.com/matangottesman/payment-engine/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"log/slog"
)

var cfgFile string

func main() {
	rootCmd := &cobra.Command{
		Use:           "payment-engine [transactions.csv]",
		Short:         "Stream a transactions CSV and emit account balances as CSV",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0])
		},
	}
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "set the config file path")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(inputPath string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	logger := logging.NewLogger(cfg.LogLevel, cfg.ServiceName, cfg.Env)

	if cfg.Env == "dev" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	engineMetrics := engine.NewMetrics(registry)
	readerMetrics := csvio.NewReaderMetrics(registry)

	status := admin.NewStatus()

	var httpServer *http.Server
	if cfg.Admin.Enabled {
		httpServer = admin.NewServer(cfg, status, registry, logger)
		go func() {
			logger.Info("admin http starting", "addr", httpServer.Addr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("admin http error", "error", err)
			}
		}()
	}

	var publisher events.Publisher
	topics := engine.Topics{}
	if cfg.Kafka.Enabled {
		producerMetrics := events.NewProducerMetrics(registry)
		producer, err := events.NewSyncProducer(cfg.Kafka.Brokers, logger, producerMetrics)
		if err != nil {
			return fmt.Errorf("kafka producer init: %w", err)
		}
		defer producer.Close()
		publisher = producer
		topics = engine.Topics{
			TransactionsRejected: cfg.Kafka.Topics.TransactionsRejected,
			AccountsLocked:       cfg.Kafka.Topics.AccountsLocked,
		}
	}

	store := ledger.NewStore()
	eng := engine.New(store, publisher, topics, logger, engineMetrics)

	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("open input %s: %w", inputPath, err)
	}
	defer file.Close()

	status.BeginRun()
	start := time.Now()

	reader := csvio.NewReader(file, logger, readerMetrics)
	processed, applied := 0, 0
	ctx := context.Background()
	for {
		tx, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		processed++
		if err := eng.Apply(ctx, tx); err == nil {
			applied++
		}
	}

	accounts := eng.Accounts()
	if err := csvio.WriteAccounts(os.Stdout, accounts); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	logger.Info("run complete",
		slog.Int("processed", processed),
		slog.Int("applied", applied),
		slog.Int("rejected", processed-applied),
		slog.Int("skipped_rows", reader.Skipped()),
		slog.Int("accounts", len(accounts)),
		slog.Duration("duration", time.Since(start)),
	)

	status.EndRun()
	if httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("admin http shutdown error", "error", err)
		}
	}
	return nil
}
