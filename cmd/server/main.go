package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/carboard/internal/config"
	"github.com/carboard/internal/handler"
	"github.com/carboard/internal/middleware"
	"github.com/carboard/internal/models"
	"github.com/carboard/internal/repository"
	"github.com/carboard/internal/service"
	"github.com/carboard/pkg/keygen"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Build info (injected at build time via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := middleware.InitLogger("logs"); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// A missing JWT secret gets a generated one; sessions then survive only
	// until the process restarts, which is fine for local runs.
	if cfg.JWT.Secret == "" {
		secret, err := keygen.GenerateSecret(32)
		if err != nil {
			log.Fatalf("Failed to generate JWT secret: %v", err)
		}
		cfg.JWT.Secret = secret
		log.Println("JWT secret not configured, generated an ephemeral one")
	}

	// Set Gin mode
	gin.SetMode(cfg.Server.Mode)

	// Initialize database
	db, err := initDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Initialize Redis
	rdb := initRedis(cfg)

	// Auto migrate database
	if err := autoMigrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	adRepo := repository.NewAdvertisementRepository(db)
	favRepo := repository.NewFavoriteRepository(db)

	// Initialize services
	sessions := service.NewRedisSessionStore(rdb)
	authService := service.NewAuthService(userRepo, sessions, cfg.JWT)
	listingService := service.NewListingService(adRepo, cfg.Upload.MaxImageBytes)
	favoriteService := service.NewFavoriteService(favRepo, adRepo)

	// Seed the admin account if none exists
	if admin, err := authService.EnsureAdmin(cfg.Admin); err != nil {
		log.Fatalf("Failed to seed admin account: %v", err)
	} else if admin != nil {
		log.Printf("Seeded admin account %q", admin.Username)
	}

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	listingHandler := handler.NewListingHandler(listingService, favoriteService)
	favoriteHandler := handler.NewFavoriteHandler(favoriteService)
	adminHandler := handler.NewAdminHandler(listingService)

	// Create Gin router
	router := gin.Default()

	router.Use(middleware.RequestLoggerMiddleware())
	router.Use(corsMiddleware())

	// Uploaded images are read fully into memory; keep the multipart
	// buffer in the same ballpark as the configured image cap.
	router.MaxMultipartMemory = cfg.Upload.MaxImageBytes

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":     "ok",
			"version":    Version,
			"commit":     Commit,
			"build_time": BuildTime,
			"time":       time.Now().Unix(),
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		anonOnly := middleware.RequireAnonymous(authService)
		authRequired := middleware.RequireAuth(authService)
		optionalAuth := middleware.OptionalAuth(authService)
		adminOnly := middleware.RequireAdmin(authService)

		authHandler.RegisterRoutes(v1, anonOnly, authRequired)
		listingHandler.RegisterRoutes(v1, optionalAuth, authRequired)
		favoriteHandler.RegisterRoutes(v1, authRequired)
		adminHandler.RegisterRoutes(v1, adminOnly)
	}

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with 10 second timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	// Close Redis connection
	if err := rdb.Close(); err != nil {
		log.Printf("Error closing Redis connection: %v", err)
	}

	log.Println("Server exited properly")
}

func initDatabase(cfg *config.Config) (*gorm.DB, error) {
	gormLogger := logger.Default.LogMode(logger.Info)
	if cfg.Server.Mode == "release" {
		gormLogger = logger.Default.LogMode(logger.Warn)
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Advertisement{},
		&models.Favorite{},
	)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
