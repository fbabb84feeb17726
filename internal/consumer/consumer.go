package consumer

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/mellobo05/diet-ai-recommender/internal/config"
	"github.com/mellobo05/diet-ai-recommender/internal/service"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Consumer listens for order lifecycle events and keeps the product cache
// warm for recently ordered products.
type Consumer struct {
	catalogSvc *service.CatalogService
}

func NewConsumer(catalogSvc *service.CatalogService) *Consumer {
	return &Consumer{catalogSvc: catalogSvc}
}

// StartKafkaConsumer blocks reading the order topic. Run it in a goroutine.
func (c *Consumer) StartKafkaConsumer() {
	orderReader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  config.KafkaBrokerURLs(),
		Topic:    config.OrderTopic,
		GroupID:  "catalog-cache-group",
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
	})

	for {
		ctx := context.Background()
		msg, err := orderReader.ReadMessage(ctx)
		if err != nil {
			logger.Error().Msgf("Error reading message: %v", err)
			continue
		}

		c.processMessage(ctx, msg)
	}
}

func (c *Consumer) processMessage(ctx context.Context, msg kafka.Message) {
	var event service.OrderEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		logger.Error().Msgf("Error unmarshalling message: %v", err)
		return
	}
	if event.Order == nil {
		logger.Error().Msgf("Order event %s carries no order", event.EventID)
		return
	}

	// key -> "order-created-<id>"
	parts := strings.Split(string(msg.Key), "-")
	if len(parts) < 2 {
		logger.Error().Msgf("Unexpected event key: %s", msg.Key)
		return
	}
	eventType := parts[1]

	switch eventType {
	case "created":
		ids := make([]int, 0, len(event.Order.Items))
		for _, item := range event.Order.Items {
			ids = append(ids, item.ProductID)
		}
		if err := c.catalogSvc.WarmProducts(ctx, ids); err != nil {
			logger.Error().Msgf("Error warming cache for order %d: %v", event.Order.ID, err)
		}
	default:
		logger.Error().Msgf("Unknown order event type: %s", eventType)
	}
}
