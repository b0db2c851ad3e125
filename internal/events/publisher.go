package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Raj-3200/depthndecoy/internal/domain"
	"github.com/segmentio/kafka-go"
)

const orderConfirmedTopic = "order-confirmed"

// messageWriter is the slice of kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher emits storefront events to Kafka. Messages are keyed
// by order id so consumers see one order's events in order.
type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  orderConfirmedTopic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w}
}

type orderConfirmedPayload struct {
	OrderID     string             `json:"order_id"`
	UserID      string             `json:"user_id"`
	Items       []orderItemPayload `json:"items"`
	Subtotal    float64            `json:"subtotal"`
	Shipping    float64            `json:"shipping"`
	Tax         float64            `json:"tax"`
	Total       float64            `json:"total"`
	ConfirmedAt time.Time          `json:"confirmed_at"`
}

type orderItemPayload struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Size      string  `json:"size"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

func (p *KafkaPublisher) PublishOrderConfirmed(ctx context.Context, order *domain.Order, items []domain.OrderItem) error {
	payload := orderConfirmedPayload{
		OrderID:     order.ID.String(),
		UserID:      order.UserID,
		Items:       make([]orderItemPayload, len(items)),
		Subtotal:    order.Subtotal,
		Shipping:    order.ShippingCost,
		Tax:         order.Tax,
		Total:       order.Total,
		ConfirmedAt: time.Now().UTC(),
	}
	for i, item := range items {
		payload.Items[i] = orderItemPayload{
			ProductID: item.ProductID,
			Name:      item.ProductName,
			Size:      item.Size,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}

	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal order confirmed payload: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(order.ID.String()),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("order.confirmed")},
		},
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
