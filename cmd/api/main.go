package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ubuntu-connect/internal/access"
	"ubuntu-connect/internal/auth"
	"ubuntu-connect/internal/cache"
	"ubuntu-connect/internal/config"
	"ubuntu-connect/internal/database"
	"ubuntu-connect/internal/handlers"
	"ubuntu-connect/internal/logger"
	"ubuntu-connect/internal/middleware"
	"ubuntu-connect/internal/repository"
	"ubuntu-connect/internal/scheduler"
	"ubuntu-connect/internal/service"

	_ "ubuntu-connect/docs" // This is for Swagger

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title Ubuntu Connect API
// @version 1.0
// @description Backend API for the Ubuntu Connect submission pipeline and contribution scoring

// @contact.name API Support
// @contact.email support@ubuntuconnect.community

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logger
	logger.Setup(logger.Config{
		Level: cfg.Log.Level,
	})

	slog.Info("Starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"env", cfg.App.Env,
		"log_level", cfg.Log.Level,
	)

	// Initialize database
	db, err := database.New(&cfg.Database)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func(db *database.Database) {
		err := db.Close()
		if err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}(db)

	slog.Info("Database connection established")

	// Run database migrations
	migrator := database.NewMigrationExecutor(db.DB)
	if err := migrator.RunMigrations("./migrations"); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database migrations completed")

	// Initialize Redis (optional; leaderboard falls back to the database)
	redisClient, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer func() {
			if err := redisClient.Close(); err != nil {
				slog.Error("Failed to close Redis connection", "error", err)
			}
		}()
		slog.Info("Redis connection established", "address", cfg.Redis.Address)
	} else {
		slog.Warn("Redis is disabled - leaderboard caching is off")
	}

	// Initialize repositories
	submissionRepo := repository.NewSubmissionRepository(db.DB)
	contributionRepo := repository.NewContributionRepository(db.DB)
	sourceRepo := repository.NewSourceRepository(db.DB)
	outboxRepo := repository.NewOutboxRepository(db.DB)

	// Initialize services
	authService := auth.NewService(&cfg.JWT)
	policy := access.FromConfig(&cfg.Policy)
	leaderboardCache := cache.NewLeaderboardCache(redisClient, cfg.Redis.CacheTTL)
	scoringService := service.NewScoringService(contributionRepo, leaderboardCache)
	syncService := service.NewSyncService(sourceRepo, outboxRepo, cfg.Scheduler.SyncMaxAttempts)
	pipelineService := service.NewPipelineService(db.DB, submissionRepo, outboxRepo, syncService, scoringService, policy)

	// Initialize scheduler
	schedulerService := scheduler.NewScheduler(syncService, &cfg.Scheduler)
	schedulerService.Start()
	defer schedulerService.Stop()

	// Initialize middleware
	authMw := middleware.NewAuthMiddleware(authService)
	rbacMw := middleware.NewRBACMiddleware()
	corsMw := middleware.NewCORSMiddleware(&cfg.CORS)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit)

	// Initialize handlers
	pipelineHandler := handlers.NewPipelineHandler(pipelineService)
	scoringHandler := handlers.NewScoringHandler(scoringService)

	// Setup router
	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("GET /api/v1/leaderboard", scoringHandler.Leaderboard)

	// Pipeline routes - any authenticated user; per-type authorization
	// happens in the service against the capability policy
	mux.Handle("GET /api/v1/submissions",
		authMw.Authenticate(http.HandlerFunc(pipelineHandler.ListAccessible)))
	mux.Handle("GET /api/v1/submissions/stats",
		authMw.Authenticate(http.HandlerFunc(pipelineHandler.Stats)))
	mux.Handle("GET /api/v1/submissions/{type}",
		authMw.Authenticate(http.HandlerFunc(pipelineHandler.ListByType)))
	mux.Handle("PUT /api/v1/submissions/{id}/status",
		authMw.Authenticate(http.HandlerFunc(pipelineHandler.UpdateStatus)))
	mux.Handle("POST /api/v1/submissions/{id}/award",
		authMw.Authenticate(http.HandlerFunc(pipelineHandler.Award)))

	// Personal routes
	mux.Handle("GET /api/v1/my/submissions",
		authMw.Authenticate(http.HandlerFunc(pipelineHandler.MySubmissions)))
	mux.Handle("GET /api/v1/my/score",
		authMw.Authenticate(http.HandlerFunc(scoringHandler.MyScore)))

	// Admin routes
	mux.Handle("POST /api/v1/admin/contributions",
		authMw.Authenticate(
			rbacMw.RequireAdmin(
				http.HandlerFunc(scoringHandler.RecordContribution),
			),
		),
	)
	mux.Handle("GET /api/v1/admin/contributions/{userId}",
		authMw.Authenticate(
			rbacMw.RequireAdmin(
				http.HandlerFunc(scoringHandler.UserContributions),
			),
		),
	)

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.HealthCheck(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, err := w.Write([]byte(`{"status":"unhealthy","database":"error"}`))
			if err != nil {
				slog.Error("Failed to write health check response", "error", err)
				return
			}
			return
		}
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte(`{"status":"healthy","version":"` + cfg.App.Version + `"}`))
		if err != nil {
			slog.Error("Failed to write health check response", "error", err)
			return
		}
	})

	// Prometheus metrics endpoint
	mux.Handle("GET /metrics", promhttp.Handler())

	// Swagger documentation
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	// Apply global middleware
	handler := middleware.LoggingMiddleware(
		middleware.SecurityHeaders(
			corsMw.Handler(
				rateLimiter.Limit(
					middleware.MetricsMiddleware(mux)(mux),
				),
			),
		),
	)

	// Create server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.TimeoutRead,
		WriteTimeout: cfg.Server.TimeoutWrite,
		IdleTimeout:  cfg.Server.TimeoutIdle,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Server starting", "address", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Server shutting down...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	// One final outbox drain so approved work synced before we exit
	if processed, err := syncService.ProcessPending(cfg.Scheduler.SyncBatchSize); err != nil {
		slog.Warn("Final sync drain failed", "error", err)
	} else if processed > 0 {
		slog.Info("Final sync drain completed", "processed", processed)
	}

	slog.Info("Server stopped")
}
