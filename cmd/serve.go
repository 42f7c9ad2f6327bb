package main

import (
	"cart_service/config"
	"cart_service/internal/delivery"
	grpchandler "cart_service/internal/delivery/grpc"
	"cart_service/internal/domain"
	"cart_service/internal/metrics"
	"cart_service/internal/middleware"
	"cart_service/internal/usecase"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the cart page, JSON API and gRPC health server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	logger := newLogger(os.Stdout)
	cfg := config.LoadConfig(logger)
	applyLogLevel(logger, cfg.LogLevel)
	logger.Info("Starting Cart Service...")

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	source, closeSource, err := newCatalogSource(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeSource()

	// --- Dependency Injection ---
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.New(registry)

	cartUseCase := usecase.NewCartUseCase(domain.QuantityPolicy(cfg.QuantityPolicy), recorder, logger)
	loader := usecase.NewCatalogLoader(source, cartUseCase, recorder, logger)
	defer loader.Close()
	logger.Info("Use cases initialized.")

	healthReporter := grpchandler.NewHealthReporter(loader, logger)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.RedirectTrailingSlash = false
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(logger))

	delivery.NewPageHandler(cartUseCase, loader, logger).RegisterRoutes(router)
	delivery.NewCartHandler(cartUseCase, logger).RegisterRoutes(router)
	delivery.NewCatalogHandler(cartUseCase, loader, cfg.CatalogFile, logger).RegisterRoutes(router)
	delivery.NewEventsHandler(cartUseCase, logger).RegisterRoutes(router)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	logger.Info("Routes registered.")

	httpServer := &http.Server{
		Addr:    cfg.HTTPPort,
		Handler: router,
		// Open event streams end when shutdown starts.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	grpcServer := grpc.NewServer()
	healthReporter.Register(grpcServer)

	// Both listeners are bound before the first catalog fetch, so a catalog
	// served from this process's own /products.json is reachable.
	httpLis, err := net.Listen("tcp", cfg.HTTPPort)
	if err != nil {
		return fmt.Errorf("listen on HTTP port %s: %w", cfg.HTTPPort, err)
	}
	grpcLis, err := net.Listen("tcp", cfg.GrpcPort)
	if err != nil {
		httpLis.Close()
		return fmt.Errorf("listen on gRPC port %s: %w", cfg.GrpcPort, err)
	}

	// --- Start Servers ---
	serveErr := make(chan error, 2)
	go func() {
		logger.Infof("Starting HTTP server on %s", httpLis.Addr())
		if err := httpServer.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- fmt.Errorf("http server: %w", err)
		}
	}()
	go func() {
		logger.Infof("Starting gRPC health server on %s", grpcLis.Addr())
		if err := grpcServer.Serve(grpcLis); err != nil {
			serveErr <- fmt.Errorf("grpc server: %w", err)
		}
	}()

	loader.Start(ctx)

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err = <-serveErr:
		logger.Errorf("Server failed: %v", err)
		stop()
	}

	healthReporter.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if shutdownErr := httpServer.Shutdown(shutdownCtx); shutdownErr != nil {
		logger.Errorf("HTTP server shutdown: %v", shutdownErr)
	}
	grpcServer.GracefulStop()
	loader.Close()
	logger.Info("Cart Service stopped")
	return err
}
