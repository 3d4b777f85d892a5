package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/freshtrack/backend/config"
	"github.com/freshtrack/backend/internal/auth"
	httpDelivery "github.com/freshtrack/backend/internal/delivery/http"
	"github.com/freshtrack/backend/internal/domain"
	"github.com/freshtrack/backend/internal/infrastructure/cache"
	"github.com/freshtrack/backend/internal/infrastructure/gemini"
	"github.com/freshtrack/backend/internal/infrastructure/ocr"
	"github.com/freshtrack/backend/internal/infrastructure/openfoodfacts"
	"github.com/freshtrack/backend/internal/infrastructure/postgres"
	"github.com/freshtrack/backend/internal/metrics"
	"github.com/freshtrack/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting FreshTrack Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Cache Type: %s", cfg.Cache.Type)

	ctx := context.Background()

	// Database
	pool, err := postgres.Connect(ctx, postgres.Config{
		URL:             cfg.Database.URL,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	itemRepo := postgres.NewItemRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	discountRepo := postgres.NewDiscountRepository(pool)

	// Cache backend
	var cacheRepo domain.CacheRepository
	if cfg.Cache.Type == "redis" {
		redisCache, err := cache.NewRedisCache(cfg.Cache.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisCache.Close()
		cacheRepo = redisCache
	} else {
		cacheRepo = cache.NewMemoryCache()
	}
	log.Printf("Cache TTL: %s", cfg.Cache.TTL)

	// External collaborators
	offClient := openfoodfacts.NewClient(cfg.OpenFoodFacts.BaseURL, cfg.OpenFoodFacts.UserAgent)
	if cfg.Server.Environment == "development" {
		offClient.SetDebug(true)
		log.Printf("Open Food Facts client debug mode enabled")
	}

	classifier := gemini.NewClassifier(cfg.Gemini.APIKey, cfg.Gemini.Model)
	if classifier == nil {
		log.Printf("WARNING: Gemini API key not configured - routing uses the deterministic fallback")
	}

	ocrEngine := ocr.NewTesseractEngine(cfg.OCR.Languages...)

	// Metrics
	m := metrics.New()

	// Usecase layer
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authService := usecase.NewAuthService(userRepo, tokens)
	scanService := usecase.NewScanService(ocrEngine, usecase.ScanServiceConfig{
		EnableDebugLogging: cfg.Scan.EnableDebugLogging,
	})
	inventoryService := usecase.NewInventoryService(itemRepo)
	nutritionService := usecase.NewNutritionService(cacheRepo, offClient, usecase.NutritionServiceConfig{
		CacheTTL: cfg.Cache.TTL,
	})

	var retailClassifier domain.FreshnessClassifier
	if classifier != nil {
		retailClassifier = classifier
	}
	retailService := usecase.NewRetailService(itemRepo, discountRepo, retailClassifier)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(authService, scanService, inventoryService, nutritionService, retailService, m)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler, tokens)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
