// cmd/assistant-manager/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"shopping-assistant/internal/assistant"
	"shopping-assistant/internal/cart"
	"shopping-assistant/internal/catalog"
	"shopping-assistant/internal/common/camunda"
	"shopping-assistant/internal/common/config"
	"shopping-assistant/internal/common/database"
	"shopping-assistant/internal/common/logger"
	"shopping-assistant/internal/common/observability"
	"shopping-assistant/internal/server"
	"shopping-assistant/pkg/registry"

	psm "shopping-assistant/internal/workers/assistant/process-shopping-message"
	atc "shopping-assistant/internal/workers/cart/add-to-cart"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)
	zapLog.Info("Starting assistant manager...", zap.String("environment", cfg.App.Environment))

	obs := observability.New(cfg.App.Name, log)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Redis backs the catalog cache and the cart store ---
	var redis *database.RedisClient
	if cfg.Cache.Enabled || cfg.Cart.Store == "redis" {
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err == nil {
			err = redis.Ping(ctx)
		}
		if err != nil {
			zapLog.Fatal("redis connection failed", zap.Error(err))
		}
		defer redis.Close()
		zapLog.Info("Redis connected successfully", zap.String("address", cfg.Database.Redis.Address))
	}

	// --- Catalog ---
	var provider catalog.Provider = catalog.NewFakeStoreProvider(cfg.Catalog, log)
	var cache server.CacheInvalidator
	if cfg.Cache.Enabled {
		cached := catalog.NewCachedProvider(provider, redis, time.Duration(cfg.Cache.TTL)*time.Second, log)
		provider, cache = cached, cached
	}

	session := assistant.NewSession(provider,
		assistant.WithLogger(log),
		assistant.WithRecorder(obs),
		assistant.WithSourceLabel(cfg.Catalog.SourceLabel),
		assistant.WithRandSource(assistant.NewRandSource(cfg.Assistant.Seed)),
	)
	session.Initialize(ctx)

	// --- Cart ---
	var store cart.Store = cart.NewMemoryStore()
	if cfg.Cart.Store == "redis" {
		store = cart.NewRedisStore(redis, time.Duration(cfg.Cart.TTL)*time.Second)
	}
	carts := cart.NewService(provider, store, cfg.Cart, log)

	reg, err := registry.LoadOrDefault(cfg.Registry.Path)
	if err != nil {
		zapLog.Fatal("activity registry load failed", zap.Error(err), zap.String("path", cfg.Registry.Path))
	}

	// --- Zeebe workers ---
	var zeebe *camunda.Client
	var workers *camunda.WorkerGroup
	if cfg.Camunda.Enabled {
		zeebe, err = camunda.Connect(ctx, &camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
		}, log)
		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}
		zapLog.Info("Zeebe client connected successfully")

		workers = camunda.NewWorkerGroup(zeebe.GetClient(), log)

		messageHandler, err := psm.NewHandler(psm.HandlerOptions{
			AppConfig: cfg,
			Assistant: session,
			Registry:  reg,
			Recorder:  obs,
			Logger:    log,
		})
		if err != nil {
			zapLog.Fatal("worker setup failed", zap.String("taskType", psm.TaskType), zap.Error(err))
		}
		workers.Start(psm.TaskType, config.GetWorkerConfig(cfg, psm.TaskType), messageHandler)

		cartHandler, err := atc.NewHandler(atc.HandlerOptions{
			AppConfig: cfg,
			Carts:     carts,
			Registry:  reg,
			Recorder:  obs,
			Logger:    log,
		})
		if err != nil {
			zapLog.Fatal("worker setup failed", zap.String("taskType", atc.TaskType), zap.Error(err))
		}
		workers.Start(atc.TaskType, config.GetWorkerConfig(cfg, atc.TaskType), cartHandler)

		zapLog.Info("Workers registered", zap.Strings("taskTypes", workers.Running()))
	}

	// --- HTTP API ---
	var engine server.HealthChecker
	if zeebe != nil {
		engine = zeebe
	}
	srv, err := server.New(server.Config{
		Port:           cfg.Server.Port,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RequestTimeout: config.GetDuration(cfg.Server.RequestTimeout),
	}, server.Deps{
		Assistant:      session,
		Catalog:        provider,
		Cart:           carts,
		Registry:       reg,
		Cache:          cache,
		WorkflowEngine: engine,
		Logger:         log,
	})
	if err != nil {
		zapLog.Fatal("http server setup failed", zap.Error(err))
	}

	go func() {
		if err := srv.Start(); err != nil {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping http server", zap.Error(err))
	}
	if workers != nil {
		workers.Stop()
	}
	if zeebe != nil {
		if err := zeebe.Close(); err != nil {
			zapLog.Error("Error closing Zeebe client", zap.Error(err))
		}
	}

	zapLog.Info("Assistant manager stopped")
}
