package service

import (
	"context"
	"time"

	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/domain"
	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/repository"

	"github.com/google/uuid"
)

// LookupService wraps one master-data resource (brand, color, size, style,
// type, category).
type LookupService interface {
	Create(ctx context.Context, name string) (*domain.Lookup, error)
	List(ctx context.Context, search string) ([]*domain.Lookup, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type lookupService struct {
	repo repository.LookupRepository
}

// NewLookupService creates a new instance of LookupService
func NewLookupService(repo repository.LookupRepository) LookupService {
	return &lookupService{repo: repo}
}

func (s *lookupService) Create(ctx context.Context, name string) (*domain.Lookup, error) {
	record := &domain.Lookup{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now(),
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *lookupService) List(ctx context.Context, search string) ([]*domain.Lookup, error) {
	return s.repo.List(ctx, search)
}

func (s *lookupService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
