package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/xavierca1/messenger-reviews/internal/config"
	"github.com/xavierca1/messenger-reviews/internal/infra/cache"
	"github.com/xavierca1/messenger-reviews/internal/infra/database"
	"github.com/xavierca1/messenger-reviews/internal/infra/http/handlers"
	"github.com/xavierca1/messenger-reviews/internal/infra/http/middleware"
	"github.com/xavierca1/messenger-reviews/internal/infra/integration/catalog"
	"github.com/xavierca1/messenger-reviews/internal/infra/integration/messenger"
	"github.com/xavierca1/messenger-reviews/internal/infra/integration/sentiment"
	"github.com/xavierca1/messenger-reviews/internal/infra/queue"
	"github.com/xavierca1/messenger-reviews/internal/logger"
	"github.com/xavierca1/messenger-reviews/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewDBConnection(cfg.DatabaseURL, database.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
	})
	if err != nil {
		log.WithError(err).Fatal("database unavailable")
	}
	defer db.Close()

	rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
	if err != nil {
		log.WithError(err).Fatal("rabbitmq unavailable")
	}
	defer rabbitMQ.Close()

	var rdb *redis.Client
	var dedup cache.Deduplicator = cache.NoopDeduplicator{}
	if cfg.RedisURL != "" {
		rdb, err = cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.WithError(err).Warn("redis unavailable, duplicate deliveries will not be filtered")
			rdb = nil
		} else {
			defer rdb.Close()
			dedup = cache.NewRedisDeduplicator(rdb, cfg.DedupTTL)
		}
	}

	// 1. Repositories
	personRepo := database.NewPersonRepository(db)
	conversationRepo := database.NewConversationRepository(db)
	reviewRepo := database.NewReviewRepository(db)

	// 2. Gateways
	gateway := messenger.NewClient(cfg.GraphAPIURL, cfg.PageAccessToken, cfg.OutboundTimeout, log)
	classifier := sentiment.NewClient(cfg.SentimentURL, cfg.SentimentAPIToken, cfg.OutboundTimeout)

	var catalogProvider usecase.CatalogProvider = database.NewProductRepository(db)
	if cfg.CatalogURL != "" {
		catalogProvider = catalog.NewClient(cfg.CatalogURL, cfg.OutboundTimeout)
	}

	// 3. Engine shared by the webhook and the solicitation worker
	engine := usecase.NewConversationEngine(
		personRepo,
		conversationRepo,
		reviewRepo,
		gateway,
		catalogProvider,
		classifier,
		log,
	)

	producer := queue.NewProducer(rabbitMQ.Ch)
	if cfg.WorkerEnabled {
		worker := queue.NewWorker(rabbitMQ.Ch, engine, log)
		worker.OnResult = middleware.RecordSolicitation
		go func() {
			if err := worker.Start(ctx); err != nil {
				log.WithError(err).Error("solicitation worker stopped")
			}
		}()
	}

	// 4. Handlers
	webhookHandler := handlers.NewWebhookHandler(cfg.AppSecret, cfg.VerifyToken, engine, dedup, log)
	solicitationHandler := handlers.NewSolicitationHandler(producer, log)
	healthHandler := handlers.NewHealthHandler(db, rabbitMQ, rdb)

	limiter := handlers.NewRateLimiter(cfg.SolicitationRateLimit, time.Minute)
	go limiter.Cleanup(ctx, 10*time.Minute)

	// 5. Router
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	if cfg.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
	}))

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/messenger-webhooks", webhookHandler.HandleVerification)
	r.Post("/messenger-webhooks", webhookHandler.Handle)
	r.With(limiter.Middleware, handlers.RequireBearer(cfg.SolicitationToken)).Post("/solicitations/{personId}", solicitationHandler.Handle)

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.Addr()).Info("messenger review bot listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("forced shutdown")
	}
}
