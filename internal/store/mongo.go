package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Ammark2003/Pizzeria-app/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoStore struct {
	collection *mongo.Collection
}

// NewMongoStore returns a cart store backed by the "shoppingcart" collection.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		collection: db.Collection("shoppingcart"),
	}
}

func ConnectMongoDB(ctx context.Context, uri, database string) (*mongo.Database, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(100).
		SetMinPoolSize(10)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client.Database(database), nil
}

// CreateIndexes sets up the unique name index that enforces the
// one-line-item-per-name invariant at the store boundary, plus a TTL
// index so abandoned carts expire.
func (m *MongoStore) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "updated_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(90 * 24 * 60 * 60), // 90 days TTL
		},
	}

	_, err := m.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}

func (m *MongoStore) List(ctx context.Context) ([]domain.CartLineItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := m.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart: %w", err)
	}
	defer cursor.Close(ctx)

	var items []domain.CartLineItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode cart items: %w", err)
	}

	return items, nil
}

func (m *MongoStore) Create(ctx context.Context, item domain.CartLineItem) (domain.CartLineItem, error) {
	if err := validate(item); err != nil {
		return domain.CartLineItem{}, err
	}

	now := time.Now().UTC()
	item.ID = primitive.NewObjectID().Hex()
	item.CreatedAt = now
	item.UpdatedAt = now
	if item.Toppings == nil {
		item.Toppings = []string{}
	}

	_, err := m.collection.InsertOne(ctx, item)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.CartLineItem{}, fmt.Errorf("%w: %q", ErrDuplicateName, item.Name)
		}
		return domain.CartLineItem{}, fmt.Errorf("failed to insert cart item: %w", err)
	}

	return item, nil
}

func (m *MongoStore) UpdateQuantity(ctx context.Context, id string, quantity int) (domain.CartLineItem, error) {
	if quantity < 1 {
		return domain.CartLineItem{}, fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	}

	filter := bson.M{"_id": id}
	update := bson.M{
		"$set": bson.M{
			"quantity":   quantity,
			"updated_at": time.Now().UTC(),
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated domain.CartLineItem
	err := m.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.CartLineItem{}, ErrNotFound
		}
		return domain.CartLineItem{}, fmt.Errorf("failed to update quantity: %w", err)
	}

	return updated, nil
}

func (m *MongoStore) Delete(ctx context.Context, id string) error {
	result, err := m.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrNotFound
	}

	return nil
}
