// cmd/worker-manager/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"readiness-workers/internal/assessment"
	"readiness-workers/internal/common/aws"
	"readiness-workers/internal/common/camunda"
	"readiness-workers/internal/common/config"
	"readiness-workers/internal/common/database"
	"readiness-workers/internal/common/logger"
	"readiness-workers/internal/common/observability"
	"readiness-workers/internal/indicators"
	"readiness-workers/internal/scoring"

	crs "readiness-workers/internal/workers/assessment/compute-readiness-score"
	car "readiness-workers/internal/workers/assessment/create-assessment-record"
	sad "readiness-workers/internal/workers/assessment/save-assessment-draft"
	sas "readiness-workers/internal/workers/communication/send-assessment-summary"
	fci "readiness-workers/internal/workers/indicators/fetch-country-indicators"
	rci "readiness-workers/internal/workers/indicators/refresh-country-indicators"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.Build(logger.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Output:      cfg.Logging.Output,
		Service:     cfg.App.Name,
		Environment: cfg.App.Environment,
	})
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	catalog := scoring.DefaultCatalog()
	if cfg.Scoring.CatalogPath != "" {
		catalog, err = scoring.LoadCatalog(cfg.Scoring.CatalogPath)
		if err != nil {
			zapLog.Fatal("question catalog load failed", zap.String("path", cfg.Scoring.CatalogPath), zap.Error(err))
		}
	}
	zapLog.Info("question catalog loaded", zap.Int("questions", catalog.Len()))

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(camunda.ConfigFromSettings(cfg.Camunda))
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	defer zeebe.Close()
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()

	if err := pg.Migrate(ctx, append(assessment.Schema, indicators.Schema...)...); err != nil {
		zapLog.Fatal("postgres migration failed", zap.Error(err))
	}
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init Elasticsearch; the dashboard index is optional ---
	var indexer car.Indexer
	var es *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return es.Ping(ctx)
	}, 5, 2*time.Second, zapLog, "Elasticsearch connection")
	if err != nil {
		zapLog.Warn("elasticsearch unavailable, assessments will not be indexed", zap.Error(err))
	} else {
		idx := assessment.NewIndexer(es, cfg.Database.Elasticsearch.AssessmentsIdx)
		if err := idx.EnsureIndex(ctx); err != nil {
			zapLog.Warn("assessment index setup failed", zap.String("index", idx.IndexName()), zap.Error(err))
		}
		indexer = idx
		zapLog.Info("Elasticsearch connected successfully")
	}

	// --- Domain services ---
	repo := assessment.NewRepository(pg.GetDB(), log)
	drafts := assessment.NewDraftStore(rdb.GetClient(), config.GetSeconds(cfg.Drafts.TTL), catalog)

	indicatorStore := indicators.NewStore(pg.GetDB())
	indicatorCache := indicators.NewCache(rdb.GetClient(), config.GetSeconds(cfg.Indicators.CacheTTL))
	notifier := indicators.NewNotifier(rdb.GetClient(), cfg.Indicators.Channel, log)
	provider := indicators.NewSimulatedProvider(time.Now().UnixNano(), cfg.Indicators.Volatility)
	refresher := indicators.NewRefresher(indicatorStore, indicatorCache, notifier, provider, log)

	if cfg.Indicators.SeedOnStart {
		if err := indicatorStore.Seed(ctx, indicators.Baseline()); err != nil {
			zapLog.Fatal("indicator baseline seed failed", zap.Error(err))
		}
		zapLog.Info("indicator baseline seeded", zap.Strings("countries", indicators.BaselineCountries()))
	}
	if err := refresher.Start(cfg.Indicators.RefreshCron); err != nil {
		zapLog.Fatal("indicator refresher failed to start", zap.Error(err))
	}

	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	go watchIndicatorChanges(watchCtx, notifier, zapLog)

	var (
		emailSender    sas.EmailSender
		eventPublisher sas.EventPublisher
	)
	if cfg.Notifications.Email.Enabled {
		ses, err := aws.NewSESClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("ses client init failed", zap.Error(err))
		}
		emailSender = ses
	}
	if cfg.Notifications.SNS.Enabled {
		sns, err := aws.NewSNSClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("sns client init failed", zap.Error(err))
		}
		eventPublisher = sns
	}

	// --- Register workers ---
	manager := camunda.NewWorkerManager(zeebe.GetClient(), log, obs)

	manager.Register(crs.TaskType, config.GetWorkerConfig(cfg, crs.TaskType),
		crs.NewHandler(crs.LoadConfig(), catalog, log).Handle)

	manager.Register(sad.TaskType, config.GetWorkerConfig(cfg, sad.TaskType),
		sad.NewHandler(sad.LoadConfig(), drafts, catalog, log).Handle)

	manager.Register(car.TaskType, config.GetWorkerConfig(cfg, car.TaskType),
		car.NewHandler(car.LoadConfig(), catalog, repo, indexer, drafts, log).Handle)

	manager.Register(sas.TaskType, config.GetWorkerConfig(cfg, sas.TaskType),
		sas.NewHandler(sas.LoadConfig(cfg.Notifications, 0), emailSender, eventPublisher, log).Handle)

	manager.Register(fci.TaskType, config.GetWorkerConfig(cfg, fci.TaskType),
		fci.NewHandler(fci.LoadConfig(), indicatorStore, indicatorCache, log).Handle)

	manager.Register(rci.TaskType, config.GetWorkerConfig(cfg, rci.TaskType),
		rci.NewHandler(rci.LoadConfig(), refresher, indicatorStore, log).Handle)

	zapLog.Info("workers registered", zap.Strings("taskTypes", manager.TaskTypes()))

	// --- Health, readiness and metrics ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		rctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if err := readiness(rctx, zeebe, pg, rdb); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("READY"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("health server listening", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("health server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("health server shutdown failed", zap.Error(err))
	}
	manager.Close()
	refresher.Stop()
	stopWatch()

	zapLog.Info("Worker manager stopped")
}

func readiness(ctx context.Context, zeebe *camunda.Client, pg *database.PostgresClient, rdb *database.RedisClient) error {
	if err := zeebe.HealthCheck(ctx); err != nil {
		return fmt.Errorf("zeebe: %w", err)
	}
	if err := pg.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	if err := rdb.Ping(ctx); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	return nil
}

// watchIndicatorChanges logs the change feed the dashboard subscribes to.
func watchIndicatorChanges(ctx context.Context, notifier *indicators.Notifier, log *zap.Logger) {
	changes, err := notifier.Subscribe(ctx)
	if err != nil {
		log.Error("indicator change subscription failed", zap.Error(err))
		return
	}
	for change := range changes {
		log.Info("indicator changed",
			zap.String("country", change.Country),
			zap.String("code", change.Code),
			zap.Float64("old", change.Old),
			zap.Float64("new", change.New),
		)
	}
}
