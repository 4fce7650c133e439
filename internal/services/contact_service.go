package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/pkg/logger"

	"github.com/go-playground/validator/v10"
)

// ContactReceivedRoutingKey is published after a contact message is stored.
const ContactReceivedRoutingKey = "contact.received"

// ContactService stores messages left through the contact form.
type ContactService struct {
	contactRepo repositories.ContactRepository
	publisher   EventPublisher
	validate    *validator.Validate
	log         *logger.Logger
	now         func() time.Time
}

// NewContactService creates a new ContactService. publisher may be nil.
func NewContactService(contactRepo repositories.ContactRepository, publisher EventPublisher, log *logger.Logger) *ContactService {
	return &ContactService{
		contactRepo: contactRepo,
		publisher:   publisher,
		validate:    newValidator(),
		log:         log,
		now:         time.Now,
	}
}

// SubmitMessage stores one message per email address.
func (s *ContactService) SubmitMessage(ctx context.Context, email, message string) (*models.ContactMessage, error) {
	now := s.now().UTC()
	msg := &models.ContactMessage{
		Email:     email,
		Message:   message,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.validate.Struct(msg); err != nil {
		return nil, validationError(err)
	}

	if err := s.contactRepo.Create(ctx, msg); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrDuplicateMessage
		}
		return nil, fmt.Errorf("failed to save contact message: %w", err)
	}

	publishEvent(ctx, s.log, s.publisher, ContactReceivedRoutingKey, msg)
	return msg, nil
}
