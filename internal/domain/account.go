package domain

import "time"

// Address is a shipping/billing address. Validation tags follow the
// checkout address schema; the same shape is embedded in Order documents.
type Address struct {
	ID           string    `bson:"_id,omitempty" json:"id,omitempty"`
	UserID       string    `bson:"user_id,omitempty" json:"-"`
	FullName     string    `bson:"full_name" json:"full_name" validate:"required,min=2"`
	AddressLine1 string    `bson:"address_line_1" json:"address_line_1" validate:"required,min=5"`
	AddressLine2 string    `bson:"address_line_2,omitempty" json:"address_line_2,omitempty"`
	City         string    `bson:"city" json:"city" validate:"required,min=2"`
	State        string    `bson:"state" json:"state" validate:"required,min=2"`
	PostalCode   string    `bson:"postal_code" json:"postal_code" validate:"required,min=4"`
	Country      string    `bson:"country" json:"country" validate:"required,min=2"`
	Phone        string    `bson:"phone" json:"phone" validate:"required,min=10"`
	IsDefault    bool      `bson:"is_default" json:"is_default"`
	CreatedAt    time.Time `bson:"created_at,omitempty" json:"created_at,omitempty"`
}

type Profile struct {
	UserID    string    `bson:"_id" json:"user_id"`
	Email     string    `bson:"email,omitempty" json:"email,omitempty"`
	FullName  string    `bson:"full_name,omitempty" json:"full_name,omitempty"`
	AvatarURL string    `bson:"avatar_url,omitempty" json:"avatar_url,omitempty"`
	Phone     string    `bson:"phone,omitempty" json:"phone,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

type WishlistItem struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	UserID    string    `bson:"user_id" json:"-"`
	ProductID string    `bson:"product_id" json:"product_id"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`

	// Joined after query, not stored.
	Product *Product `bson:"-" json:"product,omitempty"`
}
