package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mellobo05/diet-ai-recommender/internal/entity"
)

type fakeCatalog struct {
	mu       sync.Mutex
	products []*entity.Product
	flags    map[int]bool
	failIDs  map[int]bool
}

func newFakeCatalog(products ...*entity.Product) *fakeCatalog {
	return &fakeCatalog{products: products, flags: map[int]bool{}, failIDs: map[int]bool{}}
}

func (f *fakeCatalog) GetProducts(ctx context.Context) ([]*entity.Product, error) {
	return f.products, nil
}

func (f *fakeCatalog) UpdateDietFlag(ctx context.Context, id int, isDiet bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failIDs[id] {
		return errors.New("write failed")
	}
	f.flags[id] = isDiet
	return nil
}

type fakeClassifier struct {
	verdicts map[int]bool
	err      error
	calls    int
}

func (f *fakeClassifier) ClassifyBatch(ctx context.Context, products []*entity.Product) (map[int]bool, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.verdicts, nil
}

func TestClassifyAndCache(t *testing.T) {
	products := []*entity.Product{
		{ID: 1, Title: "Salad"},
		{ID: 2, Title: "Cake"},
	}
	catalog := newFakeCatalog(products...)
	cls := &fakeClassifier{verdicts: map[int]bool{1: true, 2: false}}
	svc := NewRecommendService(catalog, cls)

	err := svc.ClassifyAndCache(context.Background(), products)
	require.NoError(t, err)

	assert.Equal(t, map[int]bool{1: true, 2: false}, catalog.flags)
	assert.True(t, products[0].IsDiet)
	assert.False(t, products[1].IsDiet)
}

func TestClassifyAndCacheMissingEntryDefaultsFalse(t *testing.T) {
	// Product 2 previously classified as diet; the classifier no longer
	// returns it, so it must be re-cached as false, not left stale-true.
	products := []*entity.Product{
		{ID: 1, Title: "Salad"},
		{ID: 2, Title: "Cake", IsDiet: true},
	}
	catalog := newFakeCatalog(products...)
	cls := &fakeClassifier{verdicts: map[int]bool{1: true}}
	svc := NewRecommendService(catalog, cls)

	err := svc.ClassifyAndCache(context.Background(), products)
	require.NoError(t, err)

	got, ok := catalog.flags[2]
	require.True(t, ok, "missing classifier entry must still be persisted")
	assert.False(t, got)
	assert.False(t, products[1].IsDiet)
}

func TestClassifyAndCacheClassifierFailureWritesNothing(t *testing.T) {
	products := []*entity.Product{{ID: 1}, {ID: 2}}
	catalog := newFakeCatalog(products...)
	cls := &fakeClassifier{err: errors.New("classifier unavailable")}
	svc := NewRecommendService(catalog, cls)

	err := svc.ClassifyAndCache(context.Background(), products)
	require.Error(t, err)
	assert.Empty(t, catalog.flags, "no partial classification may be cached")
}

func TestClassifyAndCacheReportsFailedWrites(t *testing.T) {
	products := []*entity.Product{{ID: 1}, {ID: 2}, {ID: 3}}
	catalog := newFakeCatalog(products...)
	catalog.failIDs[2] = true
	cls := &fakeClassifier{verdicts: map[int]bool{1: true, 2: true, 3: true}}
	svc := NewRecommendService(catalog, cls)

	err := svc.ClassifyAndCache(context.Background(), products)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2")
	// The other writes still completed.
	assert.True(t, catalog.flags[1])
	assert.True(t, catalog.flags[3])
}

func TestScoreProduct(t *testing.T) {
	base := &entity.Product{FinalPrice: 10, Calories: 200, ProteinGrams: 10}

	t.Run("decreasing in price", func(t *testing.T) {
		pricier := &entity.Product{FinalPrice: 20, Calories: 200, ProteinGrams: 10}
		assert.Greater(t, ScoreProduct(base), ScoreProduct(pricier))
	})

	t.Run("decreasing in calories", func(t *testing.T) {
		heavier := &entity.Product{FinalPrice: 10, Calories: 400, ProteinGrams: 10}
		assert.Greater(t, ScoreProduct(base), ScoreProduct(heavier))
	})

	t.Run("increasing in protein", func(t *testing.T) {
		richer := &entity.Product{FinalPrice: 10, Calories: 200, ProteinGrams: 30}
		assert.Greater(t, ScoreProduct(richer), ScoreProduct(base))
	})

	t.Run("unknown calories count as 300", func(t *testing.T) {
		unknown := &entity.Product{FinalPrice: 10, ProteinGrams: 10}
		assumed := &entity.Product{FinalPrice: 10, Calories: 300, ProteinGrams: 10}
		assert.InDelta(t, ScoreProduct(assumed), ScoreProduct(unknown), 1e-12)
	})

	t.Run("protein term may exceed one", func(t *testing.T) {
		monster := &entity.Product{FinalPrice: 0, Calories: 1, ProteinGrams: 500}
		assert.Greater(t, ScoreProduct(monster), 1.0)
	})
}

func TestRankTopDiet(t *testing.T) {
	a := &entity.Product{ID: 1, FinalPrice: 5, Calories: 100, ProteinGrams: 20, IsDiet: true}
	b := &entity.Product{ID: 2, FinalPrice: 50, Calories: 500, ProteinGrams: 0, IsDiet: true}
	junk := &entity.Product{ID: 3, FinalPrice: 1, Calories: 50, ProteinGrams: 40, IsDiet: false}

	t.Run("orders by descending score", func(t *testing.T) {
		got := RankTopDiet([]*entity.Product{b, a}, 2)
		require.Len(t, got, 2)
		assert.Equal(t, a.ID, got[0].ID)
		assert.Equal(t, b.ID, got[1].ID)
	})

	t.Run("excludes non-diet products", func(t *testing.T) {
		got := RankTopDiet([]*entity.Product{a, junk, b}, 10)
		require.Len(t, got, 2)
		for _, p := range got {
			assert.True(t, p.IsDiet)
		}
	})

	t.Run("respects limit", func(t *testing.T) {
		got := RankTopDiet([]*entity.Product{a, b}, 1)
		require.Len(t, got, 1)
		assert.Equal(t, a.ID, got[0].ID)
	})

	t.Run("non-positive limit falls back to default", func(t *testing.T) {
		products := make([]*entity.Product, 0, 15)
		for i := 0; i < 15; i++ {
			products = append(products, &entity.Product{ID: i + 1, FinalPrice: float64(i), IsDiet: true})
		}
		got := RankTopDiet(products, 0)
		assert.Len(t, got, 10)
	})

	t.Run("ties keep catalog order", func(t *testing.T) {
		first := &entity.Product{ID: 7, FinalPrice: 10, Calories: 100, IsDiet: true}
		second := &entity.Product{ID: 8, FinalPrice: 10, Calories: 100, IsDiet: true}
		got := RankTopDiet([]*entity.Product{first, second}, 2)
		require.Len(t, got, 2)
		assert.Equal(t, 7, got[0].ID)
		assert.Equal(t, 8, got[1].ID)
	})
}

func TestTopDietClassifiesBeforeRanking(t *testing.T) {
	products := []*entity.Product{
		{ID: 1, FinalPrice: 5, Calories: 100, ProteinGrams: 20},
		{ID: 2, FinalPrice: 50, Calories: 500},
		{ID: 3, FinalPrice: 2, Calories: 80, IsDiet: true}, // stale cache entry
	}
	catalog := newFakeCatalog(products...)
	cls := &fakeClassifier{verdicts: map[int]bool{1: true, 2: true}}
	svc := NewRecommendService(catalog, cls)

	got, err := svc.TopDiet(context.Background(), 10)
	require.NoError(t, err)
	require.Equal(t, 1, cls.calls)

	// Product 3 lost its stale diet flag in this run and must not appear.
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].ID)
	assert.Equal(t, 2, got[1].ID)
}
