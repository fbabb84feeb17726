package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/mellobo05/diet-ai-recommender/internal/entity"
)

const (
	defaultRecommendLimit = 10
	defaultCalories       = 300
	proteinSoftCapGrams   = 50.0
)

// ProductCatalog is the product store surface the recommender needs.
type ProductCatalog interface {
	GetProducts(ctx context.Context) ([]*entity.Product, error)
	UpdateDietFlag(ctx context.Context, id int, isDiet bool) error
}

// Classifier returns a diet verdict per product id for one batch.
type Classifier interface {
	ClassifyBatch(ctx context.Context, products []*entity.Product) (map[int]bool, error)
}

// RecommendService produces top-N diet product recommendations backed by the
// external classifier.
type RecommendService struct {
	products   ProductCatalog
	classifier Classifier
}

// NewRecommendService creates a new instance of RecommendService.
func NewRecommendService(products ProductCatalog, classifier Classifier) *RecommendService {
	return &RecommendService{products: products, classifier: classifier}
}

// ClassifyAndCache sends the batch to the classifier in one exchange and
// persists the verdict onto each product. A product missing from the response
// is cached as not-diet rather than left stale. When the classifier call
// fails, nothing is written and previous cached values stay untouched. The
// per-product writes fan out concurrently; the returned error names every
// product whose write failed.
func (s *RecommendService) ClassifyAndCache(ctx context.Context, products []*entity.Product) error {
	if len(products) == 0 {
		return nil
	}

	verdicts, err := s.classifier.ClassifyBatch(ctx, products)
	if err != nil {
		logger.Error().Err(err).Msg("Error classifying product batch")
		return err
	}

	resultCh := make(chan struct {
		ProductID int
		Error     error
	}, len(products))

	for _, product := range products {
		product.IsDiet = verdicts[product.ID]

		go func(id int, isDiet bool) {
			err := s.products.UpdateDietFlag(ctx, id, isDiet)
			resultCh <- struct {
				ProductID int
				Error     error
			}{ProductID: id, Error: err}
		}(product.ID, product.IsDiet)
	}

	var failed []int
	for range products {
		result := <-resultCh
		if result.Error != nil {
			logger.Error().Err(result.Error).Msgf("Error caching classification for product %d", result.ProductID)
			failed = append(failed, result.ProductID)
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("caching classification failed for products %v", failed)
	}
	return nil
}

// ClassifyCatalog refreshes the classification cache for the whole catalog
// and returns the number of products classified.
func (s *RecommendService) ClassifyCatalog(ctx context.Context) (int, error) {
	products, err := s.products.GetProducts(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error loading products for classification")
		return 0, err
	}

	if err := s.ClassifyAndCache(ctx, products); err != nil {
		return 0, err
	}
	return len(products), nil
}

// TopDiet loads the catalog, refreshes its classification cache and returns
// the top diet products. Ranking always reads the batch it just classified,
// never a partially-updated cache.
func (s *RecommendService) TopDiet(ctx context.Context, limit int) ([]*entity.Product, error) {
	products, err := s.products.GetProducts(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error loading products for recommendation")
		return nil, err
	}

	if err := s.ClassifyAndCache(ctx, products); err != nil {
		return nil, err
	}

	return RankTopDiet(products, limit), nil
}

// RankTopDiet filters products whose cached diet flag is true, orders them by
// descending desirability score and returns at most limit of them. Ties keep
// catalog order. A non-positive limit falls back to the default of 10.
func RankTopDiet(products []*entity.Product, limit int) []*entity.Product {
	if limit <= 0 {
		limit = defaultRecommendLimit
	}

	diet := make([]*entity.Product, 0, len(products))
	for _, p := range products {
		if p.IsDiet {
			diet = append(diet, p)
		}
	}

	sort.SliceStable(diet, func(i, j int) bool {
		return ScoreProduct(diet[i]) > ScoreProduct(diet[j])
	})

	if len(diet) > limit {
		diet = diet[:limit]
	}
	return diet
}

// ScoreProduct computes the composite desirability score. Cheaper and
// lower-calorie products score higher; protein is rewarded linearly against a
// 50 g soft cap and may push the term above 1 for exceptional products.
// Unknown calories count as 300.
func ScoreProduct(p *entity.Product) float64 {
	calories := p.Calories
	if calories == 0 {
		calories = defaultCalories
	}

	priceScore := 1 / (1 + p.FinalPrice)
	caloricScore := 1 / (1 + float64(calories))
	proteinScore := p.ProteinGrams / proteinSoftCapGrams

	return 0.5*priceScore + 0.3*caloricScore + 0.2*proteinScore
}
