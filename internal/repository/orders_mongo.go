package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Raj-3200/depthndecoy/internal/domain"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type orderMongoRepository struct {
	orders *mongo.Collection
	items  *mongo.Collection
}

func NewOrderMongoRepository(db *mongo.Database) OrderRepository {
	return &orderMongoRepository{
		orders: db.Collection("orders"),
		items:  db.Collection("order_items"),
	}
}

func (r orderMongoRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	now := time.Now()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now

	if _, err := r.orders.InsertOne(ctx, order); err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

func (r orderMongoRepository) CreateOrderItems(ctx context.Context, items []domain.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	now := time.Now()
	docs := make([]interface{}, len(items))
	for i := range items {
		if items[i].CreatedAt.IsZero() {
			items[i].CreatedAt = now
		}
		docs[i] = items[i]
	}

	// Ordered insert: either the whole batch lands or the caller compensates.
	if _, err := r.items.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true)); err != nil {
		return fmt.Errorf("failed to insert order items: %w", err)
	}
	return nil
}

func (r orderMongoRepository) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	if _, err := r.items.DeleteMany(ctx, bson.M{"order_id": id}); err != nil {
		return fmt.Errorf("failed to delete order items: %w", err)
	}

	result, err := r.orders.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r orderMongoRepository) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	var order domain.Order
	err := r.orders.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &order, nil
}

func (r orderMongoRepository) GetOrderItems(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error) {
	cursor, err := r.items.Find(ctx, bson.M{"order_id": orderID})
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer cursor.Close(ctx)

	var items []domain.OrderItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode order items: %w", err)
	}
	return items, nil
}

func (r orderMongoRepository) ListOrdersByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	cursor, err := r.orders.Find(ctx,
		bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []*domain.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	return orders, nil
}

func (r *orderMongoRepository) CreateIndexes(ctx context.Context) error {
	orderIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
		},
	}
	if _, err := r.orders.Indexes().CreateMany(ctx, orderIndexes); err != nil {
		return fmt.Errorf("failed to create order indexes: %w", err)
	}

	itemIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "order_id", Value: 1}},
		},
	}
	if _, err := r.items.Indexes().CreateMany(ctx, itemIndexes); err != nil {
		return fmt.Errorf("failed to create order item indexes: %w", err)
	}
	return nil
}
