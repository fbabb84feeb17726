package api

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/mellobo05/diet-ai-recommender/internal/classifier"
	"github.com/mellobo05/diet-ai-recommender/internal/service"
)

type RecommendHandler struct {
	recommendService *service.RecommendService
}

func NewRecommendHandler(recommendService *service.RecommendService) *RecommendHandler {
	return &RecommendHandler{recommendService: recommendService}
}

// ClassifyCatalog refreshes the classification cache --> POST /products/classify
func (h *RecommendHandler) ClassifyCatalog(c echo.Context) error {
	count, err := h.recommendService.ClassifyCatalog(c.Request().Context())
	if err != nil {
		return classifierErrorResponse(c, err)
	}

	return c.JSON(200, map[string]int{"count": count})
}

// TopDiet returns the top diet products --> GET /recommendations/top?limit=N
func (h *RecommendHandler) TopDiet(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return c.JSON(400, map[string]string{"error": "Invalid limit"})
		}
		limit = parsed
	}

	products, err := h.recommendService.TopDiet(c.Request().Context(), limit)
	if err != nil {
		return classifierErrorResponse(c, err)
	}

	return c.JSON(200, map[string]interface{}{"items": products})
}

func classifierErrorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, classifier.ErrTimeout):
		return c.JSON(504, map[string]string{"error": err.Error()})
	case errors.Is(err, classifier.ErrUnavailable), errors.Is(err, classifier.ErrMalformedResponse):
		return c.JSON(502, map[string]string{"error": err.Error()})
	default:
		return c.JSON(500, map[string]string{"error": err.Error()})
	}
}
