package domain

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusConfirmed OrderStatus = "confirmed"
)

type PaymentStatus string

const (
	PaymentStatusPaid PaymentStatus = "paid"
)

// Order is created only after a successful payment confirmation and is
// immutable afterwards.
type Order struct {
	ID               uuid.UUID     `bson:"_id" json:"id"`
	UserID           string        `bson:"user_id" json:"user_id"`
	Status           OrderStatus   `bson:"status" json:"status"`
	Subtotal         float64       `bson:"subtotal" json:"subtotal"`
	ShippingCost     float64       `bson:"shipping_cost" json:"shipping_cost"`
	Tax              float64       `bson:"tax" json:"tax"`
	Total            float64       `bson:"total" json:"total"`
	ShippingAddress  Address       `bson:"shipping_address" json:"shipping_address"`
	BillingAddress   Address       `bson:"billing_address" json:"billing_address"`
	PaymentStatus    PaymentStatus `bson:"payment_status" json:"payment_status"`
	PaymentReference string        `bson:"payment_reference,omitempty" json:"payment_reference,omitempty"`
	Notes            string        `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt        time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time     `bson:"updated_at" json:"updated_at"`
}

// OrderItem is a child of Order, written in the same logical transaction
// as the header.
type OrderItem struct {
	ID           uuid.UUID `bson:"_id" json:"id"`
	OrderID      uuid.UUID `bson:"order_id" json:"order_id"`
	ProductID    string    `bson:"product_id,omitempty" json:"product_id,omitempty"`
	ProductName  string    `bson:"product_name" json:"product_name"`
	ProductImage string    `bson:"product_image,omitempty" json:"product_image,omitempty"`
	Size         string    `bson:"size,omitempty" json:"size,omitempty"`
	Color        string    `bson:"color,omitempty" json:"color,omitempty"`
	Quantity     int       `bson:"quantity" json:"quantity"`
	UnitPrice    float64   `bson:"unit_price" json:"unit_price"`
	LineTotal    float64   `bson:"total_price" json:"total_price"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}
