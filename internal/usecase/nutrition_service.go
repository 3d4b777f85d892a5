package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/freshtrack/backend/internal/domain"
	"github.com/freshtrack/backend/internal/infrastructure/openfoodfacts"
)

// Package-level compiled regex patterns for cache key normalization
var (
	nonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9\s]`)
	multipleSpacesRegex  = regexp.MustCompile(`\s+`)
)

// NutritionServiceConfig holds configuration for the nutrition service
type NutritionServiceConfig struct {
	CacheTTL time.Duration
}

// NutritionService handles nutrition lookup with caching.
// Flow: check cache -> fetch Open Food Facts -> map -> cache -> return.
type NutritionService struct {
	cache    domain.CacheRepository
	barcodes domain.BarcodeClient
	cacheTTL time.Duration
}

// NewNutritionService creates a new nutrition service with dependencies
func NewNutritionService(cache domain.CacheRepository, barcodes domain.BarcodeClient, config NutritionServiceConfig) *NutritionService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 720 * time.Hour // Default 30 days; nutrition facts rarely change
	}
	return &NutritionService{
		cache:    cache,
		barcodes: barcodes,
		cacheTTL: cacheTTL,
	}
}

// LookupBarcode returns nutrition data for a scanned barcode
func (s *NutritionService) LookupBarcode(ctx context.Context, barcode string) (*domain.NutritionData, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, domain.ErrInvalidRequest
	}

	cacheKey := fmt.Sprintf("nutrition:barcode:%s", barcode)
	if cached, err := s.getFromCache(ctx, cacheKey); err == nil && cached != nil {
		cached.Source = "Cache"
		return cached, nil
	}

	product, err := s.barcodes.GetProduct(ctx, barcode)
	if err != nil {
		return nil, err
	}

	data := openfoodfacts.MapToNutritionData(product)
	// Caching is best effort; a miss next time just refetches
	_ = s.setInCache(ctx, cacheKey, data)
	return data, nil
}

// SearchByName returns nutrition data for the best-named product matching query
func (s *NutritionService) SearchByName(ctx context.Context, query string) (*domain.NutritionData, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrInvalidRequest
	}

	cacheKey := fmt.Sprintf("nutrition:search:%s", normalizeForCacheKey(query))
	if cached, err := s.getFromCache(ctx, cacheKey); err == nil && cached != nil {
		cached.Source = "Cache"
		return cached, nil
	}

	products, err := s.barcodes.SearchProducts(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, domain.ErrProductNotFound
	}

	// Prefer the first result that actually carries a name; the search
	// endpoint returns partially-filled records for some regions.
	best := &products[0]
	for i := range products {
		if products[i].BestName() != "" {
			best = &products[i]
			break
		}
	}

	data := openfoodfacts.MapToNutritionData(best)
	// Best effort, see above
	_ = s.setInCache(ctx, cacheKey, data)
	return data, nil
}

// getFromCache retrieves nutrition data from cache. Both cache backends hand
// back JSON-shaped values, so a remarshal recovers the typed struct.
func (s *NutritionService) getFromCache(ctx context.Context, key string) (*domain.NutritionData, error) {
	value, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if data, ok := value.(*domain.NutritionData); ok {
		return data, nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, domain.ErrCacheMiss
	}
	var data domain.NutritionData
	if err := json.Unmarshal(raw, &data); err != nil || data.ProductName == "" {
		return nil, domain.ErrCacheMiss
	}
	return &data, nil
}

// setInCache stores nutrition data in cache
func (s *NutritionService) setInCache(ctx context.Context, key string, data *domain.NutritionData) error {
	data.CachedAt = time.Now()
	return s.cache.Set(ctx, key, data, s.cacheTTL)
}

// normalizeForCacheKey lowercases and strips special characters so equivalent
// queries share one cache entry.
func normalizeForCacheKey(s string) string {
	result := strings.ToLower(s)
	result = nonAlphanumericRegex.ReplaceAllString(result, "")
	result = multipleSpacesRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}
