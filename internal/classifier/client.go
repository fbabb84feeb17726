// Package classifier talks to the external diet classification service.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/mellobo05/diet-ai-recommender/internal/entity"
)

var (
	// ErrUnavailable means the classifier could not be reached or refused the batch.
	ErrUnavailable = errors.New("classifier unavailable")
	// ErrTimeout means the batch call exceeded its deadline.
	ErrTimeout = errors.New("classifier timed out")
	// ErrMalformedResponse means the classifier answered with an unparseable payload.
	ErrMalformedResponse = errors.New("malformed classifier response")
)

// Client is an HTTP client for the classifier's batch endpoint.
type Client struct {
	baseURL string
	httpc   *http.Client
	timeout time.Duration
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{},
		timeout: timeout,
	}
}

type nutritionPayload struct {
	Calories     int     `json:"calories"`
	ProteinGrams float64 `json:"proteinGrams"`
	FatGrams     float64 `json:"fatGrams"`
	CarbsGrams   float64 `json:"carbsGrams"`
}

type productPayload struct {
	ID          int              `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Keywords    []string         `json:"keywords"`
	Nutrition   nutritionPayload `json:"nutrition"`
}

type batchRequest struct {
	Products []productPayload `json:"products"`
}

type batchResult struct {
	ID     int  `json:"id"`
	IsDiet bool `json:"is_diet"`
}

type batchResponse struct {
	Results []batchResult `json:"results"`
}

// ClassifyBatch submits the whole product batch in one request and returns the
// verdict per product id. Products missing from the response are simply absent
// from the returned map; callers decide the fail-safe default.
func (c *Client) ClassifyBatch(ctx context.Context, products []*entity.Product) (map[int]bool, error) {
	payload := batchRequest{Products: make([]productPayload, 0, len(products))}
	for _, p := range products {
		payload.Products = append(payload.Products, productPayload{
			ID:          p.ID,
			Title:       p.Title,
			Description: p.Description,
			Keywords:    p.Keywords,
			Nutrition: nutritionPayload{
				Calories:     p.Calories,
				ProteinGrams: p.ProteinGrams,
				FatGrams:     p.FatGrams,
				CarbsGrams:   p.CarbsGrams,
			},
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/classify/batch", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var out batchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	verdicts := make(map[int]bool, len(out.Results))
	for _, r := range out.Results {
		verdicts[r.ID] = r.IsDiet
	}
	return verdicts, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
