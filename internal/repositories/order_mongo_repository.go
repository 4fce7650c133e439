package repositories

import (
	"context"
	"fmt"

	"storefront/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoOrderRepository stores orders in the "orders" collection.
type MongoOrderRepository struct {
	coll *mongo.Collection
}

// NewMongoOrderRepository creates a new instance of MongoOrderRepository.
func NewMongoOrderRepository(db *mongo.Database) *MongoOrderRepository {
	return &MongoOrderRepository{coll: db.Collection(OrdersCollection)}
}

// Create inserts order.
func (r *MongoOrderRepository) Create(ctx context.Context, order *models.Order) error {
	if order.ID == "" {
		order.ID = primitive.NewObjectID().Hex()
	}
	if _, err := r.coll.InsertOne(ctx, order); err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// ListByUser returns the orders whose user reference equals userID.
func (r *MongoOrderRepository) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	cursor, err := r.coll.Find(ctx, userFilter(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to list orders for user %s: %w", userID, err)
	}
	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders for user %s: %w", userID, err)
	}
	return orders, nil
}

// userFilter matches the user reference stored either as a hex string or,
// for older documents, as an ObjectID.
func userFilter(userID string) bson.M {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return bson.M{"user": userID}
	}
	return bson.M{"user": bson.M{"$in": bson.A{userID, oid}}}
}
