package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/srgjo27/transport_ticket/internal/adapter/handler"
	redispublisher "github.com/srgjo27/transport_ticket/internal/adapter/publisher/redis"
	"github.com/srgjo27/transport_ticket/internal/adapter/repository/memory"
	"github.com/srgjo27/transport_ticket/internal/adapter/repository/postgres"
	"github.com/srgjo27/transport_ticket/internal/core/ports"
	"github.com/srgjo27/transport_ticket/internal/core/services"
	"github.com/srgjo27/transport_ticket/internal/platform/config"
	"github.com/srgjo27/transport_ticket/internal/platform/database"
	"github.com/srgjo27/transport_ticket/internal/platform/logger"
	"github.com/srgjo27/transport_ticket/internal/platform/metrics"
	"github.com/srgjo27/transport_ticket/internal/platform/redis"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.App.Environment, cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zlog.Sync()

	if err := run(cfg, zlog); err != nil {
		zlog.Fatal("server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, zlog *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loc, err := cfg.Ticket.Location()
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	var repo ports.TicketRepository
	switch cfg.Ticket.Store {
	case config.StorePostgres:
		db, err := database.NewPostgresDB(ctx, database.Config{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			DBName:   cfg.Database.DBName,
			SSLMode:  cfg.Database.SSLMode,
		}, zlog)
		if err != nil {
			return err
		}
		defer db.Close()

		pgRepo := postgres.NewTicketRepository(db, loc)
		if err := pgRepo.EnsureSchema(ctx); err != nil {
			return err
		}
		repo = pgRepo
	default:
		repo = memory.NewTicketRepository()
	}
	zlog.Info("ticket store ready", zap.String("store", cfg.Ticket.Store))

	opts := []services.Option{
		services.WithLogger(zlog.Named("tickets")),
		services.WithMetrics(m),
		services.WithLocation(loc),
	}

	if cfg.Redis.Enabled {
		zlog.Info("connecting to redis", zap.String("addr", cfg.Redis.Addr()))

		redisClient, err := redis.NewClient(ctx, redis.Config{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer redisClient.Close()

		opts = append(opts, services.WithPublisher(redispublisher.NewTicketPublisher(redisClient, cfg.Redis.Channel)))
		zlog.Info("redis connected", zap.String("channel", cfg.Redis.Channel))
	}

	ticketService := services.NewTicketService(repo, opts...)
	ticketHandler := handler.NewTicketHandler(ticketService)

	if cfg.Ticket.ExpiryWatchInterval > 0 {
		go ticketService.RunExpiryWatcher(ctx, cfg.Ticket.ExpiryWatchInterval)
	}

	server := &http.Server{
		Addr: cfg.Server.Addr(),
		Handler: handler.NewRouter(ticketHandler, handler.RouterConfig{
			Logger:         zlog.Named("http"),
			Metrics:        m,
			Gatherer:       reg,
			AllowedOrigins: cfg.CORS.AllowedOrigins,
		}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		zlog.Info("server starting", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	zlog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	zlog.Info("server exiting")

	return nil
}
