package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/draftsheet/internal/api"
	"github.com/jstittsworth/draftsheet/internal/api/handlers"
	"github.com/jstittsworth/draftsheet/internal/api/middleware"
	"github.com/jstittsworth/draftsheet/internal/league"
	"github.com/jstittsworth/draftsheet/internal/providers"
	"github.com/jstittsworth/draftsheet/internal/services"
	"github.com/jstittsworth/draftsheet/pkg/config"
	"github.com/jstittsworth/draftsheet/pkg/database"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Setup logging
	setupLogging(cfg)

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Connect to Redis; the server runs without it, just uncached
	cacheService := services.NewCacheService(connectRedis(cfg))

	// Load the league profile; a sheet built on the wrong scoring is
	// worse than no sheet, so profile problems are fatal
	profile, err := league.Load(cfg.LeagueConfigPath, cfg.LeagueProfile)
	if err != nil {
		logrus.Fatalf("Failed to load league profile: %v", err)
	}
	profile.ResolvePaths(cfg.DataDir)

	profileNames, err := league.ProfileNames(cfg.LeagueConfigPath)
	if err != nil {
		logrus.Warnf("Failed to list profiles: %v", err)
	}

	// Initialize services
	sheetService := services.NewSheetService(profile, cacheService,
		time.Duration(cfg.CacheTTLSeconds)*time.Second, logrus.StandardLogger())
	if _, err := sheetService.Current(); err != nil {
		logrus.Warnf("Initial sheet build failed, API will retry on demand: %v", err)
	}

	injuryClient := providers.NewInjuryClient(providers.InjuryClientConfig{
		URL:            cfg.InjuryFeedURL,
		Timeout:        cfg.ExternalAPITimeout,
		RequestsPerMin: cfg.InjuryFeedRateLimit,
		Cache:          cacheService,
	}, logrus.StandardLogger())
	injuryService := services.NewInjuryService(injuryClient, logrus.StandardLogger())

	webSocketHub := services.NewWebSocketHub(logrus.StandardLogger())
	go webSocketHub.Run()

	refreshInterval, err := time.ParseDuration(cfg.RefreshInterval)
	if err != nil {
		logrus.Warnf("Invalid refresh interval, using default 5m: %v", err)
		refreshInterval = 5 * time.Minute
	}
	refresher := services.NewRefreshService(sheetService, webSocketHub, refreshInterval, logrus.StandardLogger())
	if cfg.RefreshEnabled {
		if err := refresher.Start(); err != nil {
			logrus.Errorf("Failed to start sheet refresher: %v", err)
		}
		defer refresher.Stop()
	}

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logrus.StandardLogger()))
	router.Use(middleware.CORS(cfg.CorsOrigins))

	rateLimiter := middleware.NewClientRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	router.Use(rateLimiter.Middleware())

	// Health and readiness probes
	healthHandler := handlers.NewHealthHandler(db, sheetService, webSocketHub)
	router.GET("/health", healthHandler.GetHealth)
	router.GET("/ready", healthHandler.GetReady)

	// Setup API routes under /api/v1
	apiV1 := router.Group("/api/v1")
	api.SetupRoutes(apiV1, db, sheetService, injuryService, webSocketHub, cfg, profileNames)

	// WebSocket endpoint at root level (not under /api/v1)
	router.GET("/ws", webSocketHub.HandleConnection)

	// Setup server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logrus.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}

// setupLogging applies LOG_LEVEL and picks the formatter: JSON in
// production, text everywhere else.
func setupLogging(cfg *config.Config) {
	if cfg.IsProduction() {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	if cfg.LogLevel != "" {
		level, err := logrus.ParseLevel(cfg.LogLevel)
		if err != nil {
			logrus.Warnf("Invalid log level %q, using info: %v", cfg.LogLevel, err)
			level = logrus.InfoLevel
		}
		logrus.SetLevel(level)
	} else if cfg.IsDevelopment() {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}

	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
}

// connectRedis returns a live client or nil when Redis is unreachable.
func connectRedis(cfg *config.Config) *redis.Client {
	if cfg.RedisURL == "" {
		return nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logrus.Warnf("Invalid Redis URL, caching disabled: %v", err)
		return nil
	}

	client := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logrus.Warnf("Redis unavailable, caching disabled: %v", err)
		client.Close()
		return nil
	}
	return client
}
