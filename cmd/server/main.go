package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"

	"github.com/Adama-mariko/notejour/internal/auth"
	"github.com/Adama-mariko/notejour/internal/config"
	"github.com/Adama-mariko/notejour/internal/db"
	internalhttp "github.com/Adama-mariko/notejour/internal/http"
	"github.com/Adama-mariko/notejour/internal/repository"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("db connection failed", "error", err)
	}
	defer pool.Close()

	// Without redis the revocation list falls back to process memory, which
	// is what a single-instance deployment needs anyway.
	var revoked auth.RevocationList
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			cancel()
			log.Fatal("redis ping failed", "error", err)
		}
		cancel()
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("redis close error", "error", err)
			}
		}()
		revoked = auth.NewRedisRevocationList(redisClient)
	}

	store := repository.NewStore(pool)
	server := internalhttp.NewServer(cfg, store, revoked)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("notejour listening", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server error", "error", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
}
