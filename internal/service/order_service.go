package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/mellobo05/diet-ai-recommender/internal/entity"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// dietOrderThreshold is the number of diet-containing orders after which a
// user is durably flagged as on a diet.
const dietOrderThreshold = 3

// ProductReader resolves products for order lines.
type ProductReader interface {
	GetProductsByIDs(ctx context.Context, ids []int) ([]*entity.Product, error)
}

// OrderStore persists and reads back orders.
type OrderStore interface {
	CreateOrder(ctx context.Context, order *entity.Order) (*entity.Order, error)
	ListOrdersByUser(ctx context.Context, userID int) ([]*entity.Order, error)
	CountDietOrdersByUser(ctx context.Context, userID int) (int, error)
}

// UserFlagStore flips the durable on-diet flag.
type UserFlagStore interface {
	MarkOnDiet(ctx context.Context, id int) error
}

// EventWriter is satisfied by *kafka.Writer.
type EventWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// OrderService is a service that provides order-related operations.
type OrderService struct {
	products ProductReader
	orders   OrderStore
	users    UserFlagStore
	guard    IdempotencyGuard
	events   EventWriter

	mu        sync.Mutex
	userLocks map[int]*sync.Mutex
}

// NewOrderService creates a new instance of OrderService. guard and events may
// be nil, disabling idempotency checks and event publishing respectively.
func NewOrderService(products ProductReader, orders OrderStore, users UserFlagStore, guard IdempotencyGuard, events EventWriter) *OrderService {
	return &OrderService{
		products:  products,
		orders:    orders,
		users:     users,
		guard:     guard,
		events:    events,
		userLocks: make(map[int]*sync.Mutex),
	}
}

// CreateOrder validates the requested lines against known products, freezes
// unit price and diet flag per line, persists the order atomically and then
// evaluates the user's diet threshold. When the order was created but the
// evaluation failed, the order is returned together with a
// *DietEvaluationError.
func (s *OrderService) CreateOrder(ctx context.Context, req *entity.OrderRequest) (*entity.Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	for _, line := range req.Items {
		if line.Quantity < 0 {
			return nil, ErrInvalidQuantity
		}
	}

	if s.guard != nil && req.IdempotentKey != "" {
		claimed, err := s.guard.Claim(ctx, req.IdempotentKey)
		if err != nil {
			return nil, err
		}
		if !claimed {
			return nil, ErrDuplicateRequest
		}
	}

	ids := make([]int, 0, len(req.Items))
	seen := map[int]bool{}
	for _, line := range req.Items {
		if !seen[line.ProductID] {
			seen[line.ProductID] = true
			ids = append(ids, line.ProductID)
		}
	}

	products, err := s.products.GetProductsByIDs(ctx, ids)
	if err != nil {
		logger.Error().Err(err).Msg("Error resolving products for order")
		return nil, err
	}
	byID := make(map[int]*entity.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	order := &entity.Order{UserID: req.UserID}
	for _, line := range req.Items {
		product, ok := byID[line.ProductID]
		if !ok {
			return nil, &ProductNotFoundError{ProductID: line.ProductID}
		}

		quantity := line.Quantity
		if quantity == 0 {
			quantity = 1
		}

		item := entity.OrderItem{
			ProductID: product.ID,
			Quantity:  quantity,
			UnitPrice: product.FinalPrice,
			IsDiet:    product.IsDiet,
		}
		order.Items = append(order.Items, item)
		order.Total += item.LineTotal()
	}

	createdOrder, err := s.orders.CreateOrder(ctx, order)
	if err != nil {
		logger.Error().Err(err).Msg("Error creating order")
		return nil, err
	}

	s.publishOrderEvent(ctx, createdOrder, "created")

	if err := s.evaluateDietThreshold(ctx, createdOrder.UserID); err != nil {
		logger.Error().Err(err).Msgf("Error evaluating diet threshold for user %d", createdOrder.UserID)
		return createdOrder, &DietEvaluationError{UserID: createdOrder.UserID, Err: err}
	}

	return createdOrder, nil
}

// ListOrdersForUser returns the user's orders, newest first.
func (s *OrderService) ListOrdersForUser(ctx context.Context, userID int) ([]*entity.Order, error) {
	orders, err := s.orders.ListOrdersByUser(ctx, userID)
	if err != nil {
		logger.Error().Err(err).Msgf("Error listing orders for user %d", userID)
		return nil, err
	}
	return orders, nil
}

// evaluateDietThreshold counts the user's diet-containing orders and flips the
// durable on-diet flag once the threshold is reached. The count-then-set runs
// under a per-user lock and the write itself is conditional, so the flag only
// ever moves from false to true.
func (s *OrderService) evaluateDietThreshold(ctx context.Context, userID int) error {
	lock := s.lockFor(userID)
	lock.Lock()
	defer lock.Unlock()

	count, err := s.orders.CountDietOrdersByUser(ctx, userID)
	if err != nil {
		return err
	}

	if count >= dietOrderThreshold {
		if err := s.users.MarkOnDiet(ctx, userID); err != nil {
			return err
		}
		logger.Info().Msgf("User %d reached %d diet orders, flagged on diet", userID, count)
	}

	return nil
}

func (s *OrderService) lockFor(userID int) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.userLocks[userID] = lock
	}
	return lock
}

// OrderEvent is the payload published to the order topic.
type OrderEvent struct {
	EventID string        `json:"event_id"`
	Order   *entity.Order `json:"order"`
}

func (s *OrderService) publishOrderEvent(ctx context.Context, order *entity.Order, key string) {
	if s.events == nil {
		return
	}

	event := OrderEvent{EventID: uuid.New().String(), Order: order}
	eventJSON, err := json.Marshal(event)
	if err != nil {
		logger.Error().Err(err).Msg("Error marshalling order event")
		return
	}

	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("order-%s-%d", key, order.ID)),
		Value: eventJSON,
	}

	if err := s.events.WriteMessages(ctx, msg); err != nil {
		logger.Error().Err(err).Msgf("Error publishing order event for order %d", order.ID)
	}
}
