package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/domain"
	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/repository"
)

// SettingsService holds the single-row system settings in memory so the order
// workflow reads flags without a query per request. One instance is shared by
// reference across the server.
type SettingsService interface {
	Load(ctx context.Context) error
	Get() domain.SystemSettings
	Update(ctx context.Context, automaticInvoicing bool) (domain.SystemSettings, error)
}

type settingsService struct {
	repo repository.SettingsRepository

	mu       sync.RWMutex
	settings domain.SystemSettings
}

// NewSettingsService creates a new instance of SettingsService
func NewSettingsService(repo repository.SettingsRepository) SettingsService {
	return &settingsService{repo: repo}
}

// Load reads the settings row into memory, seeding the default if missing.
// Called once at startup.
func (s *settingsService) Load(ctx context.Context) error {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to load system settings: %w", err)
	}

	s.mu.Lock()
	s.settings = *settings
	s.mu.Unlock()
	return nil
}

// Get returns the cached settings.
func (s *settingsService) Get() domain.SystemSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// Update persists the new flags and refreshes the cached copy.
func (s *settingsService) Update(ctx context.Context, automaticInvoicing bool) (domain.SystemSettings, error) {
	settings := &domain.SystemSettings{AutomaticInvoicing: automaticInvoicing}
	if err := s.repo.Save(ctx, settings); err != nil {
		return domain.SystemSettings{}, fmt.Errorf("failed to save system settings: %w", err)
	}

	s.mu.Lock()
	s.settings = *settings
	s.mu.Unlock()
	return *settings, nil
}
