package repositories

import (
	"context"

	"storefront/internal/models"
)

// ContactRepository stores contact form submissions.
type ContactRepository interface {
	Create(ctx context.Context, msg *models.ContactMessage) error
}
