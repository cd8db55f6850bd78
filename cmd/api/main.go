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
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/productdash_api/internal/cache"
	"github.com/GTDGit/productdash_api/internal/config"
	"github.com/GTDGit/productdash_api/internal/handler"
	"github.com/GTDGit/productdash_api/internal/middleware"
	"github.com/GTDGit/productdash_api/internal/repository"
	"github.com/GTDGit/productdash_api/internal/service"
	"github.com/GTDGit/productdash_api/internal/sse"
	"github.com/GTDGit/productdash_api/internal/worker"
	"github.com/GTDGit/productdash_api/pkg/github"
)

// main is the application entrypoint for the ProductDash catalog API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env, cfg.LogLevel)
	log.Info().
		Str("env", cfg.Env).
		Str("repo", cfg.GitHub.Repo).
		Str("branch", cfg.GitHub.Branch).
		Str("path", cfg.GitHub.FilePath).
		Msg("starting productdash api")

	// 3. Initialize GitHub client and catalog repository
	ghClient := github.NewClient(github.Config{
		BaseURL: cfg.GitHub.APIURL,
		Token:   cfg.GitHub.Token,
		Repo:    cfg.GitHub.Repo,
		Timeout: cfg.GitHub.Timeout,
		Debug:   cfg.Env == "development",
	})
	catalogRepo := repository.NewCatalogRepository(ghClient, &cfg.GitHub)

	// 4. Initialize services
	catalogSvc := service.NewCatalogService(catalogRepo)

	// 4a. Optional Redis snapshot cache
	cacheEnabled := false
	if cfg.CacheEnabled() {
		redisClient, err := cache.NewRedisClient(context.Background(), &cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("redis connection failed - catalog cache will be disabled")
		} else {
			defer redisClient.Close()
			catalogSvc.SetCache(cache.NewCatalogCache(redisClient, cfg.GitHub.Repo, cfg.GitHub.Branch, cfg.GitHub.FilePath, cfg.Cache.TTL))
			cacheEnabled = true
			log.Info().Dur("ttl", cfg.Cache.TTL).Msg("catalog cache enabled")
		}
	}

	// 4b. Optional S3 snapshot archive
	if cfg.S3.Enabled {
		s3Svc, err := service.NewS3Service(context.Background(), &cfg.S3)
		if err != nil {
			log.Warn().Err(err).Msg("S3 service initialization failed - snapshot archive will be disabled")
		} else {
			catalogSvc.SetArchiver(s3Svc)
		}
	}

	// 4c. SSE hub for catalog change events
	hub := sse.NewHub()
	catalogSvc.SetNotifier(sse.NewHubNotifier(hub))

	// 5. Initialize handlers
	handlers := &Handlers{
		Health:  handler.NewHealthHandler(ghClient, cfg.GitHub.Repo),
		Product: handler.NewProductHandler(catalogSvc),
		SSE:     handler.NewSSEHandler(hub),
	}

	// 6. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 7. Initialize middleware
	var writeLimiter *middleware.WriteRateLimiter
	if cfg.RateLimit.WritesPerMinute > 0 {
		writeLimiter = middleware.NewWriteRateLimiter(ctx, cfg.RateLimit.WritesPerMinute)
	}

	// 8. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := newRouter(handlers, writeLimiter)

	// 9. Start workers
	if cacheEnabled && cfg.Cache.RefreshInterval > 0 {
		go worker.NewCatalogRefreshWorker(catalogSvc, cfg.Cache.RefreshInterval).Start(ctx)
	}

	// 10. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 11. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 12. Cancel context to stop workers, the limiter sweep and SSE streams
	cancel()

	// 13. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health  *handler.HealthHandler
	Product *handler.ProductHandler
	SSE     *handler.SSEHandler
}

// newRouter builds the gin engine with middleware and routes.
func newRouter(handlers *Handlers, writeLimiter *middleware.WriteRateLimiter) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.NoMethod(handlers.Product.MethodNotAllowed)
	setupRoutes(router, handlers, writeLimiter)
	return router
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, writeLimiter *middleware.WriteRateLimiter) {
	router.GET("/health", handlers.Health.GetHealth)

	products := router.Group("/api/products")
	products.GET("", handlers.Product.ListProducts)
	products.GET("/events", handlers.SSE.Stream)

	writes := products.Group("")
	if writeLimiter != nil {
		writes.Use(middleware.WriteRateLimit(writeLimiter))
	}
	{
		writes.POST("", handlers.Product.CreateProduct)
		writes.PUT("", handlers.Product.UpdateProduct)
		writes.DELETE("", handlers.Product.DeleteProduct)
	}
}

func setupLogger(env, level string) {
	lvl := zerolog.DebugLevel
	if env == "production" {
		lvl = zerolog.InfoLevel
	}
	if level != "" {
		if parsed, err := zerolog.ParseLevel(level); err == nil {
			lvl = parsed
		}
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
