package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aislemate/backend/config"
	httpDelivery "github.com/aislemate/backend/internal/delivery/http"
	"github.com/aislemate/backend/internal/domain"
	"github.com/aislemate/backend/internal/infrastructure/cache"
	"github.com/aislemate/backend/internal/infrastructure/catalog"
	"github.com/aislemate/backend/internal/infrastructure/openai"
	"github.com/aislemate/backend/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting AisleMate Backend v%s", httpDelivery.Version)
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Cache Type: %s (TTL %s)", cfg.Cache.Type, cfg.Cache.TTL)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Catalog is loaded once; a missing catalog leaves the API up but answering 503
	products, err := catalog.LoadFile(cfg.Catalog.Path)
	if err != nil {
		log.Printf("WARNING: %v", err)
	}
	catalogs := domain.NewStaticCatalog(products)

	extractionCache, err := cache.New(ctx, cache.Options{
		Type:       cfg.Cache.Type,
		RedisURL:   cfg.Cache.RedisURL,
		BadgerPath: cfg.Cache.BadgerPath,
	})
	if err != nil {
		log.Fatalf("Failed to initialize cache: %v", err)
	}
	defer extractionCache.Close()

	extractor := openai.NewClient(
		openai.Config{
			APIKey:             cfg.LLM.APIKey,
			BaseURL:            cfg.LLM.BaseURL,
			Model:              cfg.LLM.Model,
			Temperature:        cfg.LLM.Temperature,
			Timeout:            cfg.LLM.Timeout,
			MaxRetries:         cfg.LLM.MaxRetries,
			RateLimitPerMinute: cfg.LLM.RateLimitPerMinute,
		},
		usecase.NewIngredientPreprocessor(cfg.Matching.EnableDebugLogging),
		domain.NewStaticFallback(cfg.Extraction.Fallback),
	)

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		extractor.SetDebug(true)
		log.Printf("Extractor debug mode enabled")
	}

	if cfg.LLM.APIKey != "" {
		log.Printf("LLM configured: %s model %s (key: %s)", cfg.LLM.BaseURL, cfg.LLM.Model, config.MaskSecret(cfg.LLM.APIKey))
	} else {
		log.Printf("WARNING: LLM API key not configured - every request will use the fallback ingredient list")
	}

	shoppingService := usecase.NewShoppingService(
		extractionCache,
		extractor,
		catalogs,
		usecase.ShoppingServiceConfig{
			CacheTTL:           cfg.Cache.TTL,
			MaxResultsPerItem:  cfg.Matching.MaxResultsPerItem,
			EnableDebugLogging: cfg.Matching.EnableDebugLogging,
		},
	)
	dealsService := usecase.NewDealsService(catalogs)

	log.Printf("Matching: max_results_per_item=%d, debug=%v",
		cfg.Matching.MaxResultsPerItem,
		cfg.Matching.EnableDebugLogging)

	handler := httpDelivery.NewHandler(shoppingService, dealsService)
	router := httpDelivery.SetupRouter(cfg, handler)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	log.Printf("Server stopped")
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
