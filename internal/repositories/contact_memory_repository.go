package repositories

import (
	"context"
	"fmt"
	"sync"

	"storefront/internal/models"

	"github.com/google/uuid"
)

// MemoryContactRepository is an in-memory implementation of ContactRepository.
type MemoryContactRepository struct {
	messages map[string]models.ContactMessage // keyed by email
	mu       sync.Mutex
}

// NewMemoryContactRepository creates a new instance of MemoryContactRepository.
func NewMemoryContactRepository() *MemoryContactRepository {
	return &MemoryContactRepository{
		messages: make(map[string]models.ContactMessage),
	}
}

// Create stores msg unless its email was used before.
func (r *MemoryContactRepository) Create(_ context.Context, msg *models.ContactMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.messages[msg.Email]; ok {
		return fmt.Errorf("contact message from %s: %w", msg.Email, ErrDuplicate)
	}
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	r.messages[msg.Email] = *msg
	return nil
}
