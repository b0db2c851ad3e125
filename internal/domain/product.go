package domain

import "time"

type Product struct {
	ID            string    `bson:"_id,omitempty" json:"id"`
	Name          string    `bson:"name" json:"name"`
	Slug          string    `bson:"slug" json:"slug"`
	Price         float64   `bson:"price" json:"price"`
	Description   string    `bson:"description,omitempty" json:"description,omitempty"`
	Images        []string  `bson:"images,omitempty" json:"images,omitempty"`
	Colors        []string  `bson:"colors,omitempty" json:"colors,omitempty"`
	Sizes         []string  `bson:"sizes,omitempty" json:"sizes,omitempty"`
	Details       []string  `bson:"details,omitempty" json:"details,omitempty"`
	CategoryID    string    `bson:"category_id,omitempty" json:"category_id,omitempty"`
	Featured      bool      `bson:"featured" json:"featured"`
	IsNew         bool      `bson:"is_new" json:"is_new"`
	InStock       bool      `bson:"in_stock" json:"in_stock"`
	StockQuantity int       `bson:"stock_quantity" json:"stock_quantity"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at" json:"updated_at"`
}

type Category struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Slug        string    `bson:"slug" json:"slug"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}

// ProductFilter narrows catalog listings. Zero value means "all in-stock products".
type ProductFilter struct {
	CategorySlug string
	Featured     bool
	IsNew        bool
}
