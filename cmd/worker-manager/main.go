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

	"go.uber.org/zap"

	"loan-advisor/internal/advisory/chat"
	"loan-advisor/internal/advisory/intent"
	"loan-advisor/internal/advisory/session"
	"loan-advisor/internal/analytics"
	"loan-advisor/internal/api"
	"loan-advisor/internal/common/aws"
	"loan-advisor/internal/common/camunda"
	"loan-advisor/internal/common/config"
	"loan-advisor/internal/common/database"
	"loan-advisor/internal/common/logger"
	"loan-advisor/internal/common/observability"
	"loan-advisor/internal/loan/catalog"
	"loan-advisor/internal/loan/recommend"

	pcm "loan-advisor/internal/workers/advisory/process-chat-message"
	cl "loan-advisor/internal/workers/loan/calculate-loan"
	glr "loan-advisor/internal/workers/loan/generate-recommendations"
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
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting loan advisor",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	readiness := map[string]api.ReadinessCheck{}

	// --- Init PostgreSQL (catalog source) ---
	var pg *database.PostgresClient
	if cfg.Engine.CatalogSource == config.CatalogSourcePostgres {
		pg, err = connectPostgres(ctx, func() (*database.PostgresClient, error) {
			return database.NewPostgres(cfg.Database.Postgres)
		}, 15, 2*time.Second, zapLog)
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()
		readiness["postgres"] = pg.Ping
		zapLog.Info("PostgreSQL connected successfully")
	}

	// --- Init Redis (sessions, recommendation cache) ---
	var rdb *database.RedisClient
	if cfg.Chat.SessionStore == config.SessionStoreRedis || cfg.Engine.CacheEnabled {
		rdb = database.NewRedis(cfg.Database.Redis)
		err = retryWithBackoff(func() error {
			return rdb.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer rdb.Close()
		readiness["redis"] = rdb.Ping
		zapLog.Info("Redis connected successfully")
	}

	// --- Loan catalog and recommendation engine ---
	cat, err := loadCatalog(ctx, cfg, pg)
	if err != nil {
		zapLog.Fatal("catalog load failed", zap.Error(err))
	}
	zapLog.Info("Loan catalog loaded",
		zap.String("source", cfg.Engine.CatalogSource),
		zap.Int("products", cat.Len()),
	)

	engine := recommend.NewEngine(cat,
		recommend.WithTermYears(cfg.Engine.TermYears),
		recommend.WithMaxResults(cfg.Engine.MaxResults),
		recommend.WithViabilityThreshold(cfg.Engine.ViabilityThreshold),
	)
	var recommender recommend.Recommender = engine
	if cfg.Engine.CacheEnabled {
		cache := recommend.NewRedisCache(rdb.Client, config.GetDuration(cfg.Engine.CacheTTL))
		recommender = recommend.NewCachedEngine(engine, cache, log)
		zapLog.Info("Recommendation cache enabled", zap.Int("ttl_ms", cfg.Engine.CacheTTL))
	}

	// --- Analytics ---
	var tracker *analytics.Tracker
	if cfg.Analytics.Enabled {
		sink, err := newSink(ctx, cfg.Analytics)
		if err != nil {
			zapLog.Fatal("analytics sink init failed", zap.Error(err))
		}
		tracker = analytics.NewTracker(sink, log)
		zapLog.Info("Analytics enabled", zap.String("sink", cfg.Analytics.Sink))
	}

	// --- Chat sessions ---
	storeOpts := []session.Option{session.WithTTL(config.GetDuration(cfg.Chat.SessionTTL))}
	var store session.Store
	switch cfg.Chat.SessionStore {
	case config.SessionStoreRedis:
		store = session.NewRedisStore(rdb.Client, storeOpts...)
	default:
		mem := session.NewMemoryStore(storeOpts...)
		go sweepSessions(ctx, mem, config.GetDuration(cfg.Chat.SessionTTL)/2, log)
		store = mem
	}

	chatService := chat.NewService(store, intent.Default(), log,
		chat.WithTracker(tracker),
		chat.WithObservability(obs),
		chat.WithDefaultLanguage(session.Language(cfg.Chat.DefaultLanguage)),
	)

	// --- Camunda workers ---
	var pool *camunda.WorkerPool
	var zeebe *camunda.Client
	if cfg.Camunda.Enabled {
		zeebe, err = camunda.Connect(ctx, &camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
		}, log)
		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}
		readiness["zeebe"] = zeebe.HealthCheck
		zapLog.Info("Zeebe client connected successfully")

		pool = camunda.NewWorkerPool(zeebe.GetClient(), log)
		if err := startWorkers(pool, cfg, recommender, tracker, chatService, log); err != nil {
			zapLog.Fatal("worker registration failed", zap.Error(err))
		}
		zapLog.Info("Workers registered", zap.Int("running", pool.Running()))
	} else {
		zapLog.Info("Camunda disabled, serving HTTP API only")
	}

	// --- HTTP API ---
	var limiter *api.RateLimiter
	if cfg.Server.RateLimit > 0 {
		limiter = api.NewRateLimiter(cfg.Server.RateLimit, config.GetDuration(cfg.Server.RateLimitWindow))
		defer limiter.Stop()
	}

	server := &http.Server{
		Addr: cfg.Server.Address,
		Handler: api.NewRouter(api.Options{
			Catalog:        cat,
			Recommender:    recommender,
			Chat:           chatService,
			Tracker:        tracker,
			Logger:         log,
			RateLimiter:    limiter,
			AllowedOrigins: cfg.Server.AllowedOrigins,
			Readiness:      readiness,
		}),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("HTTP server failed", zap.Error(err))
			cancel()
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	select {
	case <-sigCh:
		zapLog.Info("Shutdown signal received, stopping...")
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("HTTP server shutdown failed", zap.Error(err))
	}

	if pool != nil {
		pool.Close()
	}
	if zeebe != nil {
		if err := zeebe.Close(); err != nil {
			zapLog.Warn("zeebe client close failed", zap.Error(err))
		}
	}
	if err := tracker.Close(); err != nil {
		zapLog.Warn("analytics sink close failed", zap.Error(err))
	}

	zapLog.Info("Shutdown complete")
}

// connectPostgres opens the pool once and retries only the ping. The pool is
// closed if it never answers.
func connectPostgres(ctx context.Context, open func() (*database.PostgresClient, error), maxRetries int, initialDelay time.Duration, log *zap.Logger) (*database.PostgresClient, error) {
	pg, err := open()
	if err != nil {
		return nil, err
	}
	err = retryWithBackoff(func() error {
		return pg.Ping(ctx)
	}, maxRetries, initialDelay, log, "PostgreSQL connection")
	if err != nil {
		pg.Close()
		return nil, err
	}
	return pg, nil
}

func loadCatalog(ctx context.Context, cfg *config.Config, pg *database.PostgresClient) (*catalog.Catalog, error) {
	switch cfg.Engine.CatalogSource {
	case config.CatalogSourceFile:
		return catalog.LoadFile(cfg.Engine.CatalogPath)
	case config.CatalogSourcePostgres:
		loadCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		return catalog.NewPostgresSource(pg.DB).Load(loadCtx)
	default:
		return catalog.Builtin(), nil
	}
}

func newSink(ctx context.Context, cfg config.AnalyticsConfig) (analytics.Sink, error) {
	if cfg.Sink == config.AnalyticsSinkSNS {
		client, err := aws.NewSNSClient(ctx, cfg.Region)
		if err != nil {
			return nil, err
		}
		return analytics.NewSNSSink(client, cfg.TopicARN), nil
	}
	return analytics.NewMemorySink(cfg.BufferSize), nil
}

func startWorkers(
	pool *camunda.WorkerPool,
	cfg *config.Config,
	recommender recommend.Recommender,
	tracker *analytics.Tracker,
	chatService *chat.Service,
	log logger.Logger,
) error {
	if wc := config.GetWorkerConfig(cfg, glr.TaskType); wc.Enabled {
		handler, err := glr.NewHandler(glr.ConfigFromWorker(wc), recommender, tracker, log)
		if err != nil {
			return fmt.Errorf("%s: %w", glr.TaskType, err)
		}
		pool.Start(glr.TaskType, wc, handler.Handle)
	}

	if wc := config.GetWorkerConfig(cfg, cl.TaskType); wc.Enabled {
		handler, err := cl.NewHandler(cl.ConfigFromWorker(wc), tracker, log)
		if err != nil {
			return fmt.Errorf("%s: %w", cl.TaskType, err)
		}
		pool.Start(cl.TaskType, wc, handler.Handle)
	}

	if wc := config.GetWorkerConfig(cfg, pcm.TaskType); wc.Enabled {
		handler, err := pcm.NewHandler(pcm.ConfigFromWorker(wc), chatService, log)
		if err != nil {
			return fmt.Errorf("%s: %w", pcm.TaskType, err)
		}
		pool.Start(pcm.TaskType, wc, handler.Handle)
	}

	return nil
}

// sweepSessions evicts idle in-memory sessions until ctx is done.
func sweepSessions(ctx context.Context, store *session.MemoryStore, every time.Duration, log logger.Logger) {
	if every <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := store.Sweep(); n > 0 {
				log.Debug("Expired chat sessions evicted", map[string]interface{}{"count": n})
			}
		}
	}
}
