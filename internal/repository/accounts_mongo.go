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

type addressMongoRepository struct {
	collection *mongo.Collection
}

func NewAddressMongoRepository(db *mongo.Database) AddressRepository {
	return &addressMongoRepository{collection: db.Collection("addresses")}
}

func (r addressMongoRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Address, error) {
	cursor, err := r.collection.Find(ctx,
		bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query addresses: %w", err)
	}
	defer cursor.Close(ctx)

	var addresses []*domain.Address
	if err := cursor.All(ctx, &addresses); err != nil {
		return nil, fmt.Errorf("failed to decode addresses: %w", err)
	}
	return addresses, nil
}

func (r addressMongoRepository) Create(ctx context.Context, addr *domain.Address) (string, error) {
	addr.ID = uuid.NewString()
	addr.CreatedAt = time.Now()

	// The user's first address becomes the default automatically.
	count, err := r.collection.CountDocuments(ctx, bson.M{"user_id": addr.UserID})
	if err != nil {
		return "", fmt.Errorf("failed to count addresses: %w", err)
	}
	addr.IsDefault = count == 0

	if _, err := r.collection.InsertOne(ctx, addr); err != nil {
		return "", fmt.Errorf("failed to insert address: %w", err)
	}
	return addr.ID, nil
}

func (r addressMongoRepository) Delete(ctx context.Context, userID, addressID string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": addressID, "user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete address: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrAddressNotFound
	}
	return nil
}

// SetDefault flips every address of the user off, then the chosen one on,
// mirroring the original batched write.
func (r addressMongoRepository) SetDefault(ctx context.Context, userID, addressID string) error {
	if _, err := r.collection.UpdateMany(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{"is_default": false}},
	); err != nil {
		return fmt.Errorf("failed to unset default addresses: %w", err)
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": addressID, "user_id": userID},
		bson.M{"$set": bson.M{"is_default": true}},
	)
	if err != nil {
		return fmt.Errorf("failed to set default address: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrAddressNotFound
	}
	return nil
}

type wishlistMongoRepository struct {
	collection *mongo.Collection
}

func NewWishlistMongoRepository(db *mongo.Database) WishlistRepository {
	return &wishlistMongoRepository{collection: db.Collection("wishlist")}
}

func (r wishlistMongoRepository) ListByUser(ctx context.Context, userID string) ([]*domain.WishlistItem, error) {
	cursor, err := r.collection.Find(ctx,
		bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query wishlist: %w", err)
	}
	defer cursor.Close(ctx)

	var items []*domain.WishlistItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode wishlist: %w", err)
	}
	return items, nil
}

// Add is idempotent per (user, product): re-adding returns the existing entry.
func (r wishlistMongoRepository) Add(ctx context.Context, userID, productID string) (string, error) {
	var existing domain.WishlistItem
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID, "product_id": productID}).Decode(&existing)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return "", fmt.Errorf("failed to check wishlist: %w", err)
	}

	item := domain.WishlistItem{
		ID:        uuid.NewString(),
		UserID:    userID,
		ProductID: productID,
		CreatedAt: time.Now(),
	}
	if _, err := r.collection.InsertOne(ctx, item); err != nil {
		return "", fmt.Errorf("failed to insert wishlist item: %w", err)
	}
	return item.ID, nil
}

func (r wishlistMongoRepository) Remove(ctx context.Context, userID, itemID string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": itemID, "user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete wishlist item: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrWishlistNotFound
	}
	return nil
}

type profileMongoRepository struct {
	collection *mongo.Collection
}

func NewProfileMongoRepository(db *mongo.Database) ProfileRepository {
	return &profileMongoRepository{collection: db.Collection("profiles")}
}

func (r profileMongoRepository) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	var profile domain.Profile
	err := r.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

// Ensure creates the profile document on first sign-in and leaves an
// existing one untouched.
func (r profileMongoRepository) Ensure(ctx context.Context, profile *domain.Profile) error {
	now := time.Now()
	update := bson.M{
		"$setOnInsert": bson.M{
			"email":      profile.Email,
			"full_name":  profile.FullName,
			"avatar_url": profile.AvatarURL,
			"phone":      profile.Phone,
			"created_at": now,
			"updated_at": now,
		},
	}
	opts := options.Update().SetUpsert(true)

	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": profile.UserID}, update, opts); err != nil {
		return fmt.Errorf("failed to ensure profile: %w", err)
	}
	return nil
}
