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

	"github.com/tablefind/tablefind/internal/api"
	"github.com/tablefind/tablefind/internal/auth"
	"github.com/tablefind/tablefind/internal/config"
	"github.com/tablefind/tablefind/internal/db"
	"github.com/tablefind/tablefind/internal/logger"
	"github.com/tablefind/tablefind/internal/metrics"
	"github.com/tablefind/tablefind/internal/middleware"
	"github.com/tablefind/tablefind/internal/repository/postgres"
	"github.com/tablefind/tablefind/internal/services"
	"github.com/tablefind/tablefind/internal/web"
	"github.com/tablefind/tablefind/internal/worker"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug(".env not found, using environment")
	}

	cfg := config.Load()
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if os.Getenv("APP_MIGRATE") == "true" {
		if err := db.RunMigrations(ctx, pool); err != nil {
			log.Error("migrations", "err", err)
			os.Exit(1)
		}
	}

	metrics.Init()

	repos := postgres.NewRepositories(pool)
	wp := worker.NewPool(4)
	defer wp.Stop()

	tm := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiry)
	resolver := middleware.NewResolver(tm)

	userSvc := services.NewUserService(repos.Users, tm)
	restaurantSvc := services.NewRestaurantService(repos.Restaurants, repos.AuditLogs, wp)

	pages := web.NewHandler(restaurantSvc, cfg, pool)
	r := api.NewRouter(cfg, userSvc, restaurantSvc, resolver, pages)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.HTTPPort, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server", "err", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
