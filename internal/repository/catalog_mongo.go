package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Raj-3200/depthndecoy/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type catalogMongoRepository struct {
	products   *mongo.Collection
	categories *mongo.Collection
}

func NewCatalogMongoRepository(db *mongo.Database) CatalogRepository {
	return &catalogMongoRepository{
		products:   db.Collection("products"),
		categories: db.Collection("categories"),
	}
}

// ListProducts always restricts to in-stock products; the storefront
// never shows anything it cannot sell.
func (c catalogMongoRepository) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error) {
	query := bson.M{"in_stock": true}

	if filter.CategorySlug != "" && filter.CategorySlug != "all" {
		category, err := c.GetCategoryBySlug(ctx, filter.CategorySlug)
		if err != nil {
			if errors.Is(err, ErrCategoryNotFound) {
				return []*domain.Product{}, nil
			}
			return nil, err
		}
		query["category_id"] = category.ID
	}
	if filter.Featured {
		query["featured"] = true
	}
	if filter.IsNew {
		query["is_new"] = true
	}

	cursor, err := c.products.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []*domain.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

func (c catalogMongoRepository) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	var product domain.Product
	err := c.products.FindOne(ctx, bson.M{"slug": slug}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product by slug: %w", err)
	}
	return &product, nil
}

func (c catalogMongoRepository) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	var product domain.Product
	err := c.products.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &product, nil
}

func (c catalogMongoRepository) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	cursor, err := c.categories.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer cursor.Close(ctx)

	var categories []*domain.Category
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}
	return categories, nil
}

func (c catalogMongoRepository) GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	var category domain.Category
	err := c.categories.FindOne(ctx, bson.M{"slug": slug}).Decode(&category)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category by slug: %w", err)
	}
	return &category, nil
}

func (c *catalogMongoRepository) CreateIndexes(ctx context.Context) error {
	productIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "category_id", Value: 1}, {Key: "in_stock", Value: 1}},
		},
	}
	if _, err := c.products.Indexes().CreateMany(ctx, productIndexes); err != nil {
		return fmt.Errorf("failed to create product indexes: %w", err)
	}

	categoryIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := c.categories.Indexes().CreateMany(ctx, categoryIndexes); err != nil {
		return fmt.Errorf("failed to create category indexes: %w", err)
	}
	return nil
}
