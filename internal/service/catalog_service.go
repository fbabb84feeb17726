package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/mellobo05/diet-ai-recommender/internal/entity"
	"github.com/mellobo05/diet-ai-recommender/internal/pricing"
)

const (
	productListCacheKey = "products:all"
	productCacheTTL     = 1 * time.Minute
	maxSyncedProducts   = 20
	maxDiscountPct      = 30
)

// ProductStore is the product store surface the catalog needs.
type ProductStore interface {
	GetProducts(ctx context.Context) ([]*entity.Product, error)
	GetProductsByIDs(ctx context.Context, ids []int) ([]*entity.Product, error)
	UpsertProduct(ctx context.Context, product *entity.Product) (*entity.Product, error)
}

// CatalogService syncs products from the external catalog source and serves
// the product listing through a redis read-through cache.
type CatalogService struct {
	products  ProductStore
	rdb       *redis.Client
	sourceURL string
}

// NewCatalogService creates a new instance of CatalogService. rdb may be nil,
// disabling the listing cache.
func NewCatalogService(products ProductStore, rdb *redis.Client, sourceURL string) *CatalogService {
	return &CatalogService{products: products, rdb: rdb, sourceURL: sourceURL}
}

type sourceProduct struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
}

// SyncCatalog pulls raw records from the catalog source and upserts them with
// a derived final price. The source carries no nutrition facts, so synthetic
// ones are generated on sync, matching the upstream seeding behavior.
func (s *CatalogService) SyncCatalog(ctx context.Context) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.sourceURL, nil)
	if err != nil {
		return 0, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		logger.Error().Err(err).Msg("Error fetching catalog source")
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("catalog source returned status %d", resp.StatusCode)
	}

	var raw []sourceProduct
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		logger.Error().Err(err).Msg("Error decoding catalog source response")
		return 0, err
	}

	if len(raw) > maxSyncedProducts {
		raw = raw[:maxSyncedProducts]
	}

	count := 0
	for _, src := range raw {
		discountPct := float64(rand.Intn(maxDiscountPct))

		product := &entity.Product{
			ExternalID:   fmt.Sprintf("%d", src.ID),
			Title:        src.Title,
			Description:  src.Description,
			Category:     src.Category,
			Price:        src.Price,
			DiscountPct:  discountPct,
			FinalPrice:   pricing.FinalPrice(src.Price, discountPct),
			Calories:     50 + rand.Intn(450),
			ProteinGrams: float64(int(rand.Float64()*300)) / 10,
			FatGrams:     float64(int(rand.Float64()*250)) / 10,
			CarbsGrams:   float64(int(rand.Float64()*600)) / 10,
		}
		if src.Category != "" {
			product.Keywords = []string{src.Category}
		}

		if _, err := s.products.UpsertProduct(ctx, product); err != nil {
			logger.Error().Err(err).Msgf("Error upserting product %s", product.ExternalID)
			return count, err
		}
		count++
	}

	s.invalidateListing(ctx)

	logger.Info().Msgf("Synced %d products from catalog source", count)
	return count, nil
}

// ListProducts returns the full catalog, served from the redis cache when
// fresh.
func (s *CatalogService) ListProducts(ctx context.Context) ([]*entity.Product, error) {
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, productListCacheKey).Result()
		if err != nil && err != redis.Nil {
			logger.Error().Err(err).Msg("Error reading product listing from cache")
		}
		if cached != "" {
			var products []*entity.Product
			if err := json.Unmarshal([]byte(cached), &products); err == nil {
				return products, nil
			}
			logger.Warn().Msg("Discarding unreadable product listing cache entry")
		}
	}

	products, err := s.products.GetProducts(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error getting products")
		return nil, err
	}

	if s.rdb != nil {
		data, err := json.Marshal(products)
		if err == nil {
			if err := s.rdb.Set(ctx, productListCacheKey, data, productCacheTTL).Err(); err != nil {
				logger.Error().Err(err).Msg("Error writing product listing to cache")
			}
		}
	}

	return products, nil
}

// WarmProducts refreshes the per-product cache entries for the given ids.
// Invoked by the order event consumer so recently ordered products stay warm.
func (s *CatalogService) WarmProducts(ctx context.Context, ids []int) error {
	if s.rdb == nil || len(ids) == 0 {
		return nil
	}

	products, err := s.products.GetProductsByIDs(ctx, ids)
	if err != nil {
		return err
	}

	for _, product := range products {
		key := fmt.Sprintf("product:%d", product.ID)
		data, err := json.Marshal(product)
		if err != nil {
			continue
		}
		if err := s.rdb.Set(ctx, key, data, productCacheTTL).Err(); err != nil {
			logger.Error().Err(err).Msgf("Error setting product %d in cache", product.ID)
		}
	}
	return nil
}

func (s *CatalogService) invalidateListing(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, productListCacheKey).Err(); err != nil {
		logger.Error().Err(err).Msg("Error invalidating product listing cache")
	}
}
