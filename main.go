package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/notekeep/backend/internal/config"
	"github.com/notekeep/backend/internal/db"
	"github.com/notekeep/backend/internal/events"
	"github.com/notekeep/backend/internal/handler"
	"github.com/notekeep/backend/internal/metrics"
	"github.com/notekeep/backend/internal/pagination"
	"github.com/notekeep/backend/internal/service"
	"github.com/notekeep/backend/internal/telemetry"
)

// @title notekeep API
// @version 1.0
// @description Multi-tenant notes API with bearer token sessions.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPEndpoint)
	if err != nil {
		log.Fatalf("failed to set up tracing: %v", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Printf("failed to shut down tracing: %v", err)
		}
	}()

	dsn, err := cfg.Postgres.DSN()
	if err != nil {
		log.Fatalf("invalid database config: %v", err)
	}

	if cfg.Postgres.RunMigrations {
		if err := db.RunMigrations(dsn); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
	}

	pool, err := db.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()
	repo := db.New(pool)

	publisher := events.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Printf("failed to close event publisher: %v", err)
		}
	}()

	authService, err := service.NewAuthService(repo, cfg.Auth, publisher)
	if err != nil {
		log.Fatalf("failed to init auth service: %v", err)
	}
	pages := pagination.NewResolver(pagination.Config{
		Page:       cfg.Pagination.Page,
		PerPage:    cfg.Pagination.PerPage,
		MaxPerPage: cfg.Pagination.MaxPerPage,
	})
	noteService := service.NewNoteService(repo, pages, publisher)
	categoryService := service.NewCategoryService(repo, pages, publisher)

	go service.NewTokenSweeper(authService, cfg.Auth.SweepInterval).Run(ctx)

	metrics.Init()
	router := handler.NewRouter(handler.RouterConfig{
		Auth:            authService,
		Notes:           noteService,
		Categories:      categoryService,
		CORSOrigins:     cfg.Server.CORSOrigins,
		CORSCredentials: cfg.Server.CORSCredentials,
		MetricsPath:     cfg.Telemetry.MetricsPath,
	})

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		log.Printf("notekeep API listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
