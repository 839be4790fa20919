package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/hermanjons/OrderScout-sub000/internal/adapter"
	"github.com/hermanjons/OrderScout-sub000/internal/config"
	"github.com/hermanjons/OrderScout-sub000/internal/logger"
	"github.com/hermanjons/OrderScout-sub000/internal/store"
	"github.com/hermanjons/OrderScout-sub000/internal/writer"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

// order-writer reads one order batch on stdin, persists it and prints one
// result line on stdout. Logs go to stderr.
func main() {
	flag.Parse()
	os.Exit(run())
}

func run() int {
	config.ChdirRepoRoot()
	cfg, err := config.LoadOrderWriterConfig(*configFile, *envPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return writer.Reject(context.Background(), os.Stdout, err, writer.ServeOptions{})
	}

	ctx := context.Background()

	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "order-writer",
		},
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return writer.Reject(ctx, os.Stdout, err, writer.ServeOptions{Language: cfg.Language})
	}
	defer logger.Flush(2 * time.Second)

	opts := writer.ServeOptions{
		Language: cfg.Language,
		JSON:     adapter.NewJSON(),
	}

	db, err := store.Open(cfg.Database)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to open database", zap.String("driver", cfg.Database.Driver))
		return writer.Reject(ctx, os.Stdout, err, opts)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()

	if err := store.Migrate(db); err != nil {
		return writer.Reject(ctx, os.Stdout, err, opts)
	}

	st := store.NewStore(db, cfg.Store)
	return writer.Serve(ctx, os.Stdin, os.Stdout, st, opts)
}
