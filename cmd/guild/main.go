package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/absurd-industries/guild/internal/cache"
	"github.com/absurd-industries/guild/internal/config"
	"github.com/absurd-industries/guild/internal/database"
	"github.com/absurd-industries/guild/internal/email"
	"github.com/absurd-industries/guild/internal/logging"
	"github.com/absurd-industries/guild/internal/server"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.LogLevel)

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Session cache: Redis when configured and reachable, otherwise the
	// in-process fallback. Sessions stay durable in sqlite either way.
	var sessionCache cache.SessionCache = cache.NewMemory()
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			logger.Warn("redis unreachable, falling back to in-memory session cache", "addr", cfg.RedisAddr, "error", err)
		} else {
			logger.Info("connected to redis", "addr", cfg.RedisAddr)
			sessionCache = cache.NewRedis(rdb)
		}
		cancel()
		defer rdb.Close()
	}

	var mailer email.Mailer = email.NewLogMailer(logger.With("component", "mailer"))
	if cfg.PostmarkToken != "" {
		mailer = email.NewClient(cfg.PostmarkToken, cfg.EmailFrom)
	}

	srv := server.New(db, sessionCache, mailer, cfg, logger)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Background cleanup goroutine
	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n, err := srv.SessionStore().DeleteExpired(); err != nil {
					logger.Error("cleanup expired sessions", "error", err)
				} else if n > 0 {
					logger.Info("cleaned up expired sessions", "count", n)
				}
				if n, err := srv.MagicLinkStore().DeleteExpired(); err != nil {
					logger.Error("cleanup expired magic links", "error", err)
				} else if n > 0 {
					logger.Info("cleaned up expired magic links", "count", n)
				}
				srv.RateLimiter().Cleanup()
			case <-cleanupCtx.Done():
				return
			}
		}
	}()

	go func() {
		logger.Info("guild starting", "addr", ":"+cfg.Port, "base_url", cfg.BaseURL)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	cleanupCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
