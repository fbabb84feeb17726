package api

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/mellobo05/diet-ai-recommender/internal/entity"
	"github.com/mellobo05/diet-ai-recommender/internal/service"
)

type OrderHandler struct {
	orderService *service.OrderService
}

func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// CreateOrder creates a new order --> POST /orders
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	req := entity.OrderRequest{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}
	req.IdempotentKey = c.Request().Header.Get("Idempotent-Key")

	createdOrder, err := h.orderService.CreateOrder(ctx, &req)
	if err != nil {
		var notFound *service.ProductNotFoundError
		var dietEval *service.DietEvaluationError
		switch {
		case errors.As(err, &dietEval):
			// The order exists; only the follow-up flag evaluation failed.
			return c.JSON(201, map[string]interface{}{
				"order":   createdOrder,
				"warning": dietEval.Error(),
			})
		case errors.As(err, &notFound):
			return c.JSON(400, map[string]string{"error": err.Error()})
		case errors.Is(err, service.ErrEmptyOrder), errors.Is(err, service.ErrInvalidQuantity):
			return c.JSON(400, map[string]string{"error": err.Error()})
		case errors.Is(err, service.ErrDuplicateRequest):
			return c.JSON(409, map[string]string{"error": err.Error()})
		default:
			return c.JSON(500, map[string]string{"error": err.Error()})
		}
	}

	return c.JSON(201, createdOrder)
}

// ListOrdersForUser lists a user's orders --> GET /orders/user/:userId
func (h *OrderHandler) ListOrdersForUser(c echo.Context) error {
	userID, err := strconv.Atoi(c.Param("userId"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid user ID"})
	}

	orders, err := h.orderService.ListOrdersForUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(500, map[string]string{"error": err.Error()})
	}

	return c.JSON(200, orders)
}
