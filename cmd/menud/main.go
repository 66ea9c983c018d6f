package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/restaurant/services/menu/internal/bootstrap"
	"github.com/restaurant/services/menu/internal/config"
	grpcserver "github.com/restaurant/services/menu/internal/grpc"
	"github.com/restaurant/services/menu/internal/httpapi"
	"github.com/restaurant/services/menu/internal/metrics"
	"github.com/restaurant/services/menu/internal/repo"
	"github.com/restaurant/services/menu/internal/seed"
	"github.com/restaurant/services/menu/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg.ServiceName, cfg.LogLevel)
	defer log.Sync()

	log.Info("Menu service starting", zap.String("store_driver", cfg.StoreDriver))

	// Connect to the store
	connectCtx, cancel := context.WithTimeout(context.Background(), cfg.StoreTimeout)
	menuStore, err := bootstrap.OpenStore(connectCtx, cfg, log)
	cancel()
	if err != nil {
		log.Fatal("Failed to open store", zap.Error(err))
	}
	defer menuStore.Close(context.Background())

	accessor := repo.NewMenuItemAccessor(menuStore)

	if cfg.SeedOnStart {
		seedCtx, cancel := context.WithTimeout(context.Background(), cfg.StoreTimeout)
		err := accessor.Rebuild(seedCtx, seed.Items())
		cancel()
		if err != nil {
			log.Fatal("Failed to seed menu", zap.Error(err))
		}
		log.Info("Menu seeded", zap.Int("items", len(seed.Items())))
	}

	// Connect to RabbitMQ
	publisher, err := bootstrap.OpenPublisher(cfg, log)
	if err != nil {
		log.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
	}
	defer publisher.Close()

	// Create gRPC server
	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(grpcserver.LoggingInterceptor(log)),
	)

	// Register health service
	healthServer := grpcserver.NewHealthServer(menuStore, publisher, log)
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)

	// Enable reflection for grpcurl/grpcui
	reflection.Register(grpcServer)

	grpcListener, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.GRPCPort))
	if err != nil {
		log.Fatal("Failed to listen on gRPC port", zap.Error(err))
	}

	go func() {
		log.Info("Starting gRPC server", zap.String("address", grpcListener.Addr().String()))
		if err := grpcServer.Serve(grpcListener); err != nil {
			log.Fatal("Failed to serve gRPC", zap.Error(err))
		}
	}()

	// Start HTTP API
	gin.SetMode(gin.ReleaseMode)
	api := httpapi.NewServer(
		accessor,
		menuStore,
		publisher,
		metrics.New(accessor, cfg.StoreTimeout),
		log,
		cfg.StoreTimeout,
	)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      api.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("Starting HTTP server", zap.String("address", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to serve HTTP", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	}

	grpcServer.GracefulStop()

	log.Info("Server stopped")
}
