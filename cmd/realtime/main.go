package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wavelink/internal/core/services"
	httphandlers "wavelink/internal/handlers/http"
	"wavelink/internal/infrastructure/middleware"
	"wavelink/internal/infrastructure/monitoring"
	"wavelink/internal/infrastructure/realtime"
	"wavelink/internal/infrastructure/reliability"
	repositories "wavelink/internal/infrastructure/repositories"
	"wavelink/internal/infrastructure/repositories/memory"
	"wavelink/pkg/circuitbreaker"
	"wavelink/pkg/config"
	"wavelink/pkg/logger"
	"wavelink/pkg/tracing"
	"wavelink/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	startTime := time.Now()

	// Try multiple config paths
	configPaths := []string{
		"configs/config.yaml",
		"./configs/config.yaml",
		"/etc/wavelink/config.yaml",
		"config.yaml",
	}

	var cfg *config.Config
	var err error

	for _, path := range configPaths {
		cfg, err = config.Load(path)
		if err == nil {
			break
		}
	}

	if err != nil {
		// Fallback to defaults if config cannot be loaded
		cfg = config.DefaultConfig()
	}

	// Initialize logger
	zapLogger := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLogger.Sync()

	log := zapLogger.Sugar()

	if err := cfg.Validate(); err != nil {
		log.Fatalw("invalid configuration", "error", err)
	}

	// Initialize tracing
	tracerProvider, err := tracing.Init(tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: "wavelink",
		JaegerURL:   cfg.Tracing.JaegerURL,
		Environment: cfg.Tracing.Environment,
		SampleRate:  cfg.Tracing.SampleRate,
	})
	if err != nil {
		log.Fatalw("failed to initialize tracing", "error", err)
	}

	// Initialize collaborator stores
	repoFactory, err := repositories.NewRepositoryFactory(cfg, log)
	if err != nil {
		log.Fatalw("failed to create repository factory", "error", err)
	}
	defer repoFactory.Close()

	lastSeenStore := reliability.NewLastSeenStoreWrapper(
		repoFactory.CreateLastSeenStore(),
		circuitbreaker.DefaultConfig(),
		log,
	)
	statusStore := reliability.NewMessageStatusStoreWrapper(
		repoFactory.CreateMessageStatusStore(),
		circuitbreaker.DefaultConfig(),
		log,
	)
	groupDirectory := repositories.NewCachedGroupDirectory(
		repoFactory.CreateGroupDirectory(),
		cfg.Realtime.MembershipCacheTTL,
	)
	defer groupDirectory.Stop()

	registry := memory.NewConnectionRegistry()

	// Initialize monitoring and the realtime hub
	collector := monitoring.NewPrometheusCollector()
	hub := realtime.NewHub(collector)

	// Initialize services
	presenceService := services.NewPresenceService(registry, lastSeenStore, hub, log)
	rosterService := services.NewRosterService(groupDirectory)
	typingService := services.NewTypingService(hub)
	callService := services.NewCallService(hub, log)
	deliveryService := services.NewDeliveryService(registry, statusStore, hub, log)
	authService := services.NewAuthService(
		cfg.Auth.JWTSecret,
		cfg.Auth.AccessTokenTTL,
		cfg.Auth.RefreshTokenTTL,
	)

	// WebSocket transport options from config
	opts := realtime.DefaultOptions()
	opts.PingInterval = cfg.Realtime.PingInterval
	opts.PongTimeout = cfg.Realtime.PongTimeout
	opts.WriteTimeout = cfg.Realtime.WriteTimeout
	opts.SendBuffer = cfg.Realtime.SendBuffer
	opts.AllowedOrigins = cfg.Auth.AllowedOrigins
	if cfg.RateLimiting.Enabled {
		opts.MessagesPerSecond = cfg.RateLimiting.WebSocket.MessagesPerSecond
		opts.MessageBurst = cfg.RateLimiting.WebSocket.Burst
		opts.MaxMessageSize = cfg.RateLimiting.WebSocket.MaxMessageSizeBytes
	}

	wsServer := realtime.NewServer(
		hub,
		presenceService,
		rosterService,
		typingService,
		callService,
		deliveryService,
		authService,
		collector,
		opts,
		log,
	)

	// Initialize HTTP handlers
	authHandler := httphandlers.NewAuthHandler(authService, cfg.Auth.AccessTokenTTL)
	presenceHandler := httphandlers.NewPresenceHandler(presenceService, lastSeenStore)
	callHandler := httphandlers.NewCallHandler(
		callService,
		cfg.CallToken.AppID,
		cfg.CallToken.ServerSecret,
		cfg.CallToken.TTL,
	)
	deliveryHandler := httphandlers.NewDeliveryHandler(deliveryService)

	// Configure Gin
	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.ErrorHandlerMiddleware(log))
	if cfg.Tracing.Enabled {
		router.Use(middleware.TracingMiddleware())
	}

	// Global HTTP rate limiting (if enabled)
	router.Use(middleware.NewHTTPRateLimitMiddleware(cfg))

	// Setup auth routes (public)
	authHandler.SetupRoutes(router)

	// Setup API routes with authentication
	authMW := middleware.AuthMiddleware(authService)
	presenceHandler.SetupRoutes(router, authMW)
	callHandler.SetupRoutes(router, authMW)
	deliveryHandler.SetupRoutes(router, authMW)

	// WebSocket endpoint; the handshake carries its own token
	router.GET("/ws", gin.WrapF(wsServer.HandleWebSocket))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"uptime":    utils.FormatDuration(time.Since(startTime)),
		})
	})

	// Readiness endpoint
	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := repoFactory.HealthCheck(ctx); err != nil {
			c.JSON(503, gin.H{
				"status":       "not_ready",
				"timestamp":    time.Now(),
				"dependencies": "unhealthy",
				"error":        err.Error(),
			})
			return
		}

		c.JSON(200, gin.H{
			"status":       "ready",
			"timestamp":    time.Now(),
			"dependencies": "ok",
		})
	})

	// Prometheus metrics endpoint
	if cfg.Monitoring.PrometheusEnabled {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
		log.Info("Prometheus metrics enabled")
	}

	// Create HTTP server with timeouts
	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		log.Infof("Starting Wavelink realtime server on %s", cfg.Server.Address)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Wait for shutdown signals or server error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Fatalw("Server failed", "error", err)
	case sig := <-sigChan:
		log.Infow("Received shutdown signal", "signal", sig)
	}

	log.Info("Shutting down Wavelink realtime server...")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	// Shutdown HTTP server gracefully
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Error during server shutdown", "error", err)
		if closeErr := srv.Close(); closeErr != nil {
			log.Errorw("Error force closing server", "error", closeErr)
		}
	} else {
		log.Info("Server shutdown gracefully")
	}

	// Flush traces before exit
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Error shutting down tracer provider", "error", err)
	}

	if err := repoFactory.Close(); err != nil {
		log.Errorw("Error closing repository factory", "error", err)
	}

	log.Info("Wavelink realtime server stopped")
}
