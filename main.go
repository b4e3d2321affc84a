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

	goredis "github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"ms-booths/internal/api"
	"ms-booths/internal/archive"
	"ms-booths/internal/auth"
	"ms-booths/internal/config"
	"ms-booths/internal/kafka"
	"ms-booths/internal/logger"
	"ms-booths/internal/middleware"
	"ms-booths/internal/order"
	"ms-booths/internal/pickup"
	"ms-booths/internal/redis"
	"ms-booths/internal/store"
)

// connectGuard returns the duplicate-submission guard, or nil when Redis is
// disabled or unreachable. Ordering never depends on Redis being up.
func connectGuard(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) *redis.Guard {
	if !cfg.Enabled {
		log.Info("REDIS", "Duplicate-submission guard disabled")
		return nil
	}
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	guard := redis.NewGuard(client, cfg.DedupTTL, log)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := guard.Ping(pingCtx); err != nil {
		log.Warn("REDIS", fmt.Sprintf("Redis at %s unreachable, running without duplicate guard: %v", cfg.Addr, err))
		_ = guard.Close()
		return nil
	}
	log.Info("REDIS", fmt.Sprintf("✅ Redis connection successful to %s (DB: %d)", cfg.Addr, cfg.DB))
	return guard
}

func connectKafka(ctx context.Context, cfg config.KafkaConfig, log *logger.Logger) *kafka.Producer {
	if !cfg.Enabled {
		log.Info("KAFKA", "Reservation event stream disabled")
		return nil
	}
	if cfg.CreateTopics {
		topicCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := kafka.EnsureTopicsExist(topicCtx, cfg.Brokers, []string{cfg.Topics.ReservationEvents}, log); err != nil {
			log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
		}
	}
	log.Info("KAFKA", fmt.Sprintf("Kafka producer initialized for topic %s", cfg.Topics.ReservationEvents))
	return kafka.NewProducer(cfg.Brokers, cfg.Topics.ReservationEvents, log)
}

func writeArchive(path string, st *store.Store, log *logger.Logger) {
	if path == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := archive.Open(ctx, path, log)
	if err != nil {
		log.Error("ARCHIVE", fmt.Sprintf("Failed to open archive %s: %v", path, err))
		return
	}
	defer db.Close()

	if err := db.WriteSnapshot(ctx, st.Snapshot()); err != nil {
		log.Error("ARCHIVE", fmt.Sprintf("Failed to write snapshot: %v", err))
		return
	}
	log.Info("ARCHIVE", fmt.Sprintf("✅ Snapshot written to %s", path))
}

func main() {
	envErr := godotenv.Load()
	cfg := config.Load()

	appLogger, err := logger.New(logger.Options{
		Dir:        cfg.Log.Dir,
		FilePrefix: "booth-service",
		MinLevel:   logger.ParseLevel(cfg.Log.Level),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Close()

	appLogger.Info("APP", "Starting Booth Service initialization")
	if envErr != nil {
		appLogger.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		appLogger.Info("CONFIG", "Loaded environment variables from .env file")
	}

	ctx := context.Background()
	st := store.New()

	var guard order.SubmissionGuard
	if g := connectGuard(ctx, cfg.Redis, appLogger); g != nil {
		guard = g
		defer g.Close()
	}

	var events order.KafkaPublisher = kafka.NoopProducer{}
	if p := connectKafka(ctx, cfg.Kafka, appLogger); p != nil {
		events = p
		defer p.Close()
	}

	secret := cfg.Pickup.QRSecret
	if secret == "" {
		secret = uuid.NewString()
		appLogger.Warn("CONFIG", "PICKUP_QR_SECRET not set, pickup codes will not survive a restart")
	}

	uploads, err := api.NewUploader(cfg.Upload.Dir, cfg.Upload.MaxBytes)
	if err != nil {
		appLogger.Fatal("CONFIG", fmt.Sprintf("Upload directory unavailable: %v", err))
	}

	handler := &api.Handler{
		Store:   st,
		Orders:  order.NewOrderService(st, guard, events, pickup.NewQRGenerator(secret), appLogger),
		Uploads: uploads,
		Logger:  appLogger,
	}

	appLogger.Info("HTTP", "Setting up router and middleware")
	router := api.NewRouter(api.RouterConfig{
		Handler:        handler,
		Gate:           auth.NewGate(cfg.Auth.MasterKey, st),
		Logger:         appLogger,
		OrderLimiter:   middleware.NewRateLimiter(cfg.RateLimit.OrdersPerSecond, cfg.RateLimit.Burst, appLogger),
		AllowedOrigins: cfg.Server.AllowedOrigins,
		StaticDir:      cfg.Upload.StaticDir,
		UploadDir:      cfg.Upload.Dir,
	})

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		appLogger.Info("HTTP", fmt.Sprintf("🚀 Booth Service running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	appLogger.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-stop

	appLogger.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctxShutdown, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		appLogger.Error("HTTP", fmt.Sprintf("Server Shutdown Failed: %v", err))
	} else {
		appLogger.Info("HTTP", "✅ Booth Service shutdown complete")
	}

	writeArchive(cfg.Archive.Path, st, appLogger)
}
