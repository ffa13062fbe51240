package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"car-advisor/config"
	httpLayer "car-advisor/http"
	"car-advisor/repository"
	"car-advisor/service"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (optional)")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("loading config failed", "error", err)
		os.Exit(1)
	}

	var cache repository.CacheRepository = repository.NewMemoryCache()
	if cfg.Redis.Enabled {
		redisCache := repository.NewRedisCache(cfg.Redis.Addr)
		if err := redisCache.Ping(); err != nil {
			logger.Warn("redis unreachable, using in-memory cache", "addr", cfg.Redis.Addr, "error", err)
		} else {
			cache = redisCache
		}
	}

	decisionRepo := repository.NewDecisionRepositoryMemory()

	decisionService := service.NewDecisionService(decisionRepo,
		service.WithLogger(logger),
		service.WithPolicy(cfg.DecisionPolicy()),
		service.WithCache(cache, cfg.Redis.TTL),
	)
	decisionHandler := httpLayer.NewDecisionHandler(decisionService, logger)

	explainerService := service.NewExplainerService(cfg.AI.APIKey,
		service.WithExplainerLogger(logger),
		service.WithModel(cfg.AI.Model),
	)
	explainHandler := httpLayer.NewExplainHandler(explainerService, logger)

	rateLimiter := httpLayer.NewRateLimiter(httpLayer.RateLimiterConfig{
		Capacity:       cfg.RateLimit.Capacity,
		RefillInterval: cfg.RateLimit.RefillInterval,
	})
	defer rateLimiter.Stop()

	wrap := func(h http.HandlerFunc) http.Handler {
		return httpLayer.RequestIDMiddleware(logger,
			httpLayer.RateLimitMiddleware(rateLimiter, h))
	}

	mux := http.NewServeMux()
	mux.Handle("/decision/evaluate", wrap(decisionHandler.Evaluate))
	mux.Handle("/decision/explain", wrap(explainHandler.Explain))

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		logger.Error("server failed", "error", err)
		return
	case <-quit:
		logger.Info("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}

	logger.Info("server exited")
}
