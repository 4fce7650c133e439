package repositories

import (
	"context"
	"fmt"

	"storefront/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoContactRepository stores contact messages in the "forms" collection.
type MongoContactRepository struct {
	coll *mongo.Collection
}

// NewMongoContactRepository creates a new instance of MongoContactRepository.
func NewMongoContactRepository(db *mongo.Database) *MongoContactRepository {
	return &MongoContactRepository{coll: db.Collection(ContactsCollection)}
}

// Create inserts msg. The unique email index turns a repeat into ErrDuplicate.
func (r *MongoContactRepository) Create(ctx context.Context, msg *models.ContactMessage) error {
	if msg.ID == "" {
		msg.ID = primitive.NewObjectID().Hex()
	}
	if _, err := r.coll.InsertOne(ctx, msg); err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("contact message from %s: %w", msg.Email, ErrDuplicate)
		}
		return fmt.Errorf("failed to create contact message: %w", err)
	}
	return nil
}
