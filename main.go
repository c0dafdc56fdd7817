package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"societyhub/config"
	"societyhub/database"
	"societyhub/gemini"
	"societyhub/handlers"
	"societyhub/metrics"
	"societyhub/middleware"
	"societyhub/models"
	"societyhub/state"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load .env if present
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	if cfg.GeminiAPIKey == "" {
		log.Warn("GEMINI_API_KEY is not set; AI audits will fall back to manual review and voice notes will be kept without transcripts")
	}

	// Database connection
	db, err := setupDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize database schema
	if err := database.InitializeSchema(db); err != nil {
		log.Fatalf("Failed to initialize database schema: %v", err)
	}

	// Register metrics collectors
	metrics.Register()

	// Rehydrate the application state from the snapshot
	store := database.NewMySQLStore(db)
	service, err := state.NewService(context.Background(), store, cfg.JWTSecret, cfg.DefaultPIN, state.Seed{
		House: cfg.SeedSuperAdminHouse,
		Phone: cfg.SeedSuperAdminPhone,
		PIN:   cfg.SeedSuperAdminPIN,
	})
	if err != nil {
		log.Fatalf("Failed to initialize state: %v", err)
	}

	// Initialize the AI collaborator
	ai := gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel)

	// Setup Gin router
	router := setupRouter(service, handlers.NewHandlers(service, ai), cfg)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Infof("SocietyHub service starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}

func setupDatabase(cfg *config.Config) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&multiStatements=true",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, err
	}

	return db, nil
}

func setupRouter(service *state.Service, h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	router := gin.Default()

	// Set trusted proxies from config
	router.SetTrustedProxies(cfg.TrustedProxies)

	// Apply global middleware
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.RateLimitMiddleware(120, time.Minute))

	// Root level health check and metrics (not under /api/v3)
	router.GET("/health", h.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public routes
	public := router.Group("/api/v3")
	{
		auth := public.Group("/auth")
		{
			auth.POST("/login", h.Login)
			auth.POST("/signup", h.Signup)
		}
		public.GET("/health", h.HealthCheck)
	}

	// Protected routes
	protected := router.Group("/api/v3")
	protected.Use(middleware.AuthMiddleware(service))
	{
		protected.POST("/auth/change-pin", h.ChangePIN)
		protected.POST("/auth/reset-pin",
			middleware.RequireRole(models.RoleSuperAdmin), h.ResetPIN)

		protected.GET("/users/me", h.GetMe)
		protected.GET("/users",
			middleware.RequireRole(models.RoleSuperAdmin), h.ListUsers)
		protected.PUT("/users/:house/role",
			middleware.RequireRole(models.RoleSuperAdmin), h.UpdateUserRole)

		protected.POST("/queries",
			middleware.RequireRole(models.RoleResident), h.CreateQuery)
		protected.GET("/queries", h.ListQueries)
		protected.GET("/queries/:id", h.GetQuery)
		protected.POST("/queries/:id/on-it",
			middleware.RequireRole(models.RoleAdmin), h.MarkOnIt)
		protected.POST("/queries/:id/big-issue",
			middleware.RequireRole(models.RoleAdmin), h.MarkBigIssue)
		protected.POST("/queries/:id/resolve",
			middleware.RequireRole(models.RoleAdmin), h.ResolveQuery)

		protected.GET("/notices", h.ListNotices)
		protected.POST("/notices",
			middleware.RequireRole(models.RoleAdmin, models.RoleSuperAdmin), h.PostNotice)
		protected.DELETE("/notices/:id",
			middleware.RequireRole(models.RoleAdmin, models.RoleSuperAdmin), h.DeleteNotice)

		protected.POST("/messages", h.PostMessage)
		protected.GET("/messages", h.ListMessages)
	}

	return router
}
