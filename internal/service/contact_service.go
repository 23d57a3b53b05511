package service

import (
	"context"
	"time"

	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/domain"
	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/repository"

	"github.com/google/uuid"
)

// ContactService defines the interface for the partner ledger.
type ContactService interface {
	Create(ctx context.Context, contact *domain.Contact) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Contact, error)
	List(ctx context.Context, contactType string) ([]*domain.Contact, error)
}

type contactService struct {
	contactRepo repository.ContactRepository
}

// NewContactService creates a new instance of ContactService
func NewContactService(contactRepo repository.ContactRepository) ContactService {
	return &contactService{contactRepo: contactRepo}
}

// Create registers a standalone contact (e.g. a vendor) not linked to a user
// account.
func (s *contactService) Create(ctx context.Context, contact *domain.Contact) error {
	contact.ID = uuid.New()
	contact.CreatedAt = time.Now()
	if contact.Type == "" {
		contact.Type = domain.ContactVendor
	}
	return s.contactRepo.Create(ctx, contact)
}

func (s *contactService) Get(ctx context.Context, id uuid.UUID) (*domain.Contact, error) {
	return s.contactRepo.FindByID(ctx, id)
}

func (s *contactService) List(ctx context.Context, contactType string) ([]*domain.Contact, error) {
	return s.contactRepo.List(ctx, contactType)
}
