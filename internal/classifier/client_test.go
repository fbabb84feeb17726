package classifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mellobo05/diet-ai-recommender/internal/entity"
)

func testProducts() []*entity.Product {
	return []*entity.Product{
		{ID: 1, Title: "Greek Salad", Keywords: []string{"salad"}, Calories: 150, ProteinGrams: 8},
		{ID: 2, Title: "Chocolate Cake", Keywords: []string{"cake"}, Calories: 550, ProteinGrams: 4},
	}
}

func TestClassifyBatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/classify/batch", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req batchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Products, 2)
		assert.Equal(t, 150, req.Products[0].Nutrition.Calories)

		json.NewEncoder(w).Encode(batchResponse{Results: []batchResult{
			{ID: 1, IsDiet: true},
			{ID: 2, IsDiet: false},
		}})
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second)
	verdicts, err := client.ClassifyBatch(context.Background(), testProducts())
	require.NoError(t, err)
	assert.Equal(t, map[int]bool{1: true, 2: false}, verdicts)
}

func TestClassifyBatchMissingEntry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(batchResponse{Results: []batchResult{{ID: 1, IsDiet: true}}})
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second)
	verdicts, err := client.ClassifyBatch(context.Background(), testProducts())
	require.NoError(t, err)

	// The absent product is simply not in the map; the caller defaults it.
	_, ok := verdicts[2]
	assert.False(t, ok)
}

func TestClassifyBatchMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second)
	_, err := client.ClassifyBatch(context.Background(), testProducts())
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestClassifyBatchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second)
	_, err := client.ClassifyBatch(context.Background(), testProducts())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClassifyBatchUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	client := New(srv.URL, time.Second)
	_, err := client.ClassifyBatch(context.Background(), testProducts())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClassifyBatchTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	client := New(srv.URL, 50*time.Millisecond)
	_, err := client.ClassifyBatch(context.Background(), testProducts())
	assert.ErrorIs(t, err, ErrTimeout)
	assert.NotErrorIs(t, err, ErrMalformedResponse)
}
