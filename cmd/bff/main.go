package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"mayorista-bff/internal/cart"
	"mayorista-bff/internal/cartstore"
	"mayorista-bff/internal/config"
	"mayorista-bff/internal/db"
	"mayorista-bff/internal/httpserver"
	"mayorista-bff/internal/session"
	"mayorista-bff/internal/upstream"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[bff] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	store, cleanup, err := buildCartStore(ctx, cfg)
	if err != nil {
		logger.Fatalf("init cart store: %v", err)
	}
	defer cleanup()
	logger.Printf("cart store backend: %s", cfg.CartStore)

	sessions := session.NewStore(cfg.SessionTTL)
	api := upstream.New(cfg.APIBaseURL, logger)
	carts := cart.NewService(store, logger)
	defer carts.Close()

	srv, err := httpserver.New(cfg.HTTPAddr, logger, httpserver.Deps{
		Sessions:       sessions,
		Upstream:       api,
		Carts:          carts,
		CartStore:      store,
		CookieName:     cfg.CookieName,
		FrontendOrigin: cfg.FrontendOrigin,
		APIBaseURL:     cfg.APIBaseURL,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}

func buildCartStore(ctx context.Context, cfg config.Config) (cartstore.Store, func(), error) {
	switch cfg.CartStore {
	case "memory", "":
		return cartstore.NewMemory(), func() {}, nil
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		store := cartstore.NewRedis(client)
		if err := store.Ping(ctx); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("ping redis: %w", err)
		}
		return store, func() { client.Close() }, nil
	case "postgres":
		pool, err := db.Connect(ctx, cfg.DBConnString)
		if err != nil {
			return nil, nil, fmt.Errorf("connect db: %w", err)
		}
		return cartstore.NewPostgres(pool), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown cart store %q", cfg.CartStore)
	}
}
