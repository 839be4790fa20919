package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/hermanjons/OrderScout-sub000/internal/adapter"
	"github.com/hermanjons/OrderScout-sub000/internal/config"
	"github.com/hermanjons/OrderScout-sub000/internal/domain"
	"github.com/hermanjons/OrderScout-sub000/internal/fetcher"
	"github.com/hermanjons/OrderScout-sub000/internal/logger"
	"github.com/hermanjons/OrderScout-sub000/internal/marketplace"
	"github.com/hermanjons/OrderScout-sub000/internal/messaging"
	"github.com/hermanjons/OrderScout-sub000/internal/providers/jetstream"
	"github.com/hermanjons/OrderScout-sub000/internal/ratelimit"
	"github.com/hermanjons/OrderScout-sub000/internal/store"
	"github.com/hermanjons/OrderScout-sub000/internal/syncer"
	"github.com/hermanjons/OrderScout-sub000/internal/writer"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
	once       = flag.Bool("once", false, "Run a single sync cycle and exit")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadOrderSyncConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service":  "order-sync",
			"platform": cfg.Marketplace.Platform,
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting order sync")

	statuses, err := domain.ParseOrderStatuses(cfg.Sync.Statuses)
	if err != nil {
		logger.FatalCtx(ctx, "Invalid sync statuses", zap.Error(err), zap.Strings("statuses", cfg.Sync.Statuses))
	}

	// Connect to database
	db, err := store.Open(cfg.Database)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("driver", cfg.Database.Driver))
	}
	if err := store.Migrate(db); err != nil {
		logger.FatalCtx(ctx, "Failed to migrate database", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database", zap.String("driver", cfg.Database.Driver))

	credentials := store.NewCredentialsProvider(db)

	// Initialize adapters
	jsonAdapter := adapter.NewJSON()
	clock := adapter.NewClock()
	retry := adapter.DefaultRetryConfig()
	if cfg.Marketplace.MaxRetryElapsed > 0 {
		retry.MaxElapsedTime = cfg.Marketplace.MaxRetryElapsed
	}
	httpClient := adapter.NewHTTPClient(cfg.Marketplace.Timeout, retry)

	// Per-account rate limiting for marketplace calls
	rateLimitProxy, err := ratelimit.NewProxy(ratelimit.Config{
		RequestsPerSecond: cfg.Marketplace.RequestsPerSecond,
		Burst:             cfg.Marketplace.Burst,
		MaxQueueTime:      cfg.Marketplace.Timeout,
	})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create rate limit proxy", zap.Error(err))
	}
	defer func() {
		if err := rateLimitProxy.Close(); err != nil {
			logger.Error(err, zap.String("component", "ratelimit"))
		}
	}()

	clientFactory := marketplace.NewClientFactory(httpClient, rateLimitProxy, jsonAdapter, marketplace.Options{
		BaseURL:          cfg.Marketplace.BaseURL,
		PageSize:         cfg.Marketplace.PageSize,
		OrderByField:     cfg.Marketplace.OrderByField,
		OrderByDirection: cfg.Marketplace.OrderByDirection,
	})
	orchestrator := fetcher.NewOrchestrator(clientFactory, fetcher.Config{MaxPages: cfg.Fetcher.MaxPages})

	delegate := writer.NewProcessDelegate(adapter.NewCommandRunner(), jsonAdapter, writer.ProcessConfig{
		Command:  cfg.Writer.Command,
		Args:     cfg.Writer.Args,
		Timeout:  cfg.Writer.Timeout,
		Language: cfg.Writer.Language,
	})

	// Change notifications: in-process bus, plus JetStream when configured
	bus := messaging.NewLocalBus()
	events, unsubscribe := bus.Subscribe(16)
	defer unsubscribe()
	go logChanges(events)

	publishers := []messaging.Publisher{bus}
	if cfg.NATS.URL != "" {
		natsPublisher, err := jetstream.NewPublisher(ctx, jetstream.Config{
			URL:            cfg.NATS.URL,
			StreamName:     cfg.NATS.StreamName,
			SubjectPrefix:  cfg.NATS.SubjectPrefix,
			MaxReconnects:  cfg.NATS.MaxReconnects,
			ReconnectWait:  cfg.NATS.ReconnectWait,
			ConnectionName: cfg.NATS.ConnectionName,
		}, adapter.NewNatsJetStream(), jsonAdapter)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to create NATS publisher", zap.Error(err))
		}
		publishers = append(publishers, natsPublisher)
	} else {
		logger.WarnCtx(ctx, "NATS URL not configured, change events stay in process")
	}
	publisher := messaging.Fanout(publishers...)
	defer publisher.Close()

	orderSyncer := syncer.NewSyncer(credentials, orchestrator, delegate, publisher, syncer.Config{
		Platform: cfg.Marketplace.Platform,
		Statuses: statuses,
		Lookback: cfg.Sync.Lookback,
	}, clock)

	if *once || cfg.Sync.Schedule == "" {
		outcome, err := orderSyncer.Run(ctx, logProgress)
		if err != nil {
			logger.FatalCtx(ctx, "Sync failed", zap.Error(err))
		}
		if outcome.Result != nil {
			logger.InfoCtx(ctx, outcome.Result.Message)
		}
		return
	}

	scheduler, err := syncer.NewScheduler(orderSyncer, cfg.Sync.Schedule)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create sync scheduler", zap.Error(err))
	}

	if cfg.Sync.RunOnStart {
		go func() {
			outcome := <-orderSyncer.RunAsync(ctx, logProgress)
			if outcome.Err != nil {
				logger.WarnCtx(ctx, "Initial sync failed", zap.Error(outcome.Err))
			}
		}()
	}

	scheduler.Start(ctx)
	logger.InfoCtx(ctx, "Order sync scheduled", zap.String("schedule", cfg.Sync.Schedule))

	// Wait for interrupt signal to gracefully shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
	cancel()

	scheduler.Stop()

	// Use non-context logger for final message since original ctx is canceled
	logger.Info("Order sync stopped")
}

func logProgress(completed, total int) {
	logger.Debug("Fetch progress", zap.Int("completed", completed), zap.Int("total", total))
}

func logChanges(events <-chan *domain.OrdersChangedEvent) {
	for event := range events {
		logger.Info("Orders changed",
			zap.String("event_id", event.ID),
			zap.String("run_id", event.RunID),
			zap.Int("orders", len(event.Orders)),
			zap.Int64("snapshots", event.Snapshots),
			zap.Int64("line_items", event.LineItems))
	}
}
