package api

import (
	"github.com/labstack/echo/v4"

	"github.com/mellobo05/diet-ai-recommender/internal/service"
)

type ProductHandler struct {
	catalogService *service.CatalogService
}

func NewProductHandler(catalogService *service.CatalogService) *ProductHandler {
	return &ProductHandler{catalogService: catalogService}
}

// SyncCatalog pulls the external catalog into the store --> POST /products/sync
func (h *ProductHandler) SyncCatalog(c echo.Context) error {
	count, err := h.catalogService.SyncCatalog(c.Request().Context())
	if err != nil {
		return c.JSON(502, map[string]string{"error": err.Error()})
	}

	return c.JSON(200, map[string]int{"count": count})
}

// ListProducts lists the catalog --> GET /products
func (h *ProductHandler) ListProducts(c echo.Context) error {
	products, err := h.catalogService.ListProducts(c.Request().Context())
	if err != nil {
		return c.JSON(500, map[string]string{"error": err.Error()})
	}

	return c.JSON(200, products)
}
