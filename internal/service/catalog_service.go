package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/domain"
	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrNoVariants     = errors.New("product requires at least one variant")
	ErrDuplicateSKU   = errors.New("variant SKUs must be unique")
	ErrStockUnchanged = errors.New("new stock equals current stock")
	ErrNegativeStock  = errors.New("stock cannot be negative")
)

// CatalogService defines the interface for product and inventory business logic.
type CatalogService interface {
	CreateProduct(ctx context.Context, product *domain.Product) error
	UpdateProduct(ctx context.Context, product *domain.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	ListPublishedProducts(ctx context.Context, filter repository.ProductFilter) ([]*domain.Product, error)

	Inventory(ctx context.Context) ([]*domain.InventoryRow, error)
	AdjustStock(ctx context.Context, adminID uuid.UUID, sku string, newStock int, reason, notes string) (*domain.InventoryLedgerEntry, error)
	StockHistory(ctx context.Context, sku string) ([]*domain.InventoryLedgerEntry, error)
}

type catalogService struct {
	productRepo repository.ProductRepository
	ledgerRepo  repository.LedgerRepository
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(
	productRepo repository.ProductRepository,
	ledgerRepo repository.LedgerRepository,
) CatalogService {
	return &catalogService{
		productRepo: productRepo,
		ledgerRepo:  ledgerRepo,
	}
}

// CreateProduct validates the variant set and persists the product.
func (s *catalogService) CreateProduct(ctx context.Context, product *domain.Product) error {
	if err := validateVariants(product.Variants); err != nil {
		return err
	}

	product.ID = uuid.New()
	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()

	if err := s.productRepo.Create(ctx, product); err != nil {
		return err
	}
	return nil
}

// UpdateProduct validates the variant set and saves the whole product form.
func (s *catalogService) UpdateProduct(ctx context.Context, product *domain.Product) error {
	if err := validateVariants(product.Variants); err != nil {
		return err
	}

	product.UpdatedAt = time.Now()
	return s.productRepo.Update(ctx, product)
}

func (s *catalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.productRepo.Delete(ctx, id)
}

func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

func (s *catalogService) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.productRepo.List(ctx)
}

func (s *catalogService) ListPublishedProducts(ctx context.Context, filter repository.ProductFilter) ([]*domain.Product, error) {
	return s.productRepo.ListPublished(ctx, filter)
}

func (s *catalogService) Inventory(ctx context.Context) ([]*domain.InventoryRow, error) {
	return s.productRepo.Inventory(ctx)
}

// AdjustStock sets a variant's stock to an exact level and writes an audit
// ledger entry recording who changed what and why.
func (s *catalogService) AdjustStock(ctx context.Context, adminID uuid.UUID, sku string, newStock int, reason, notes string) (*domain.InventoryLedgerEntry, error) {
	if newStock < 0 {
		return nil, ErrNegativeStock
	}

	product, err := s.productRepo.FindBySKU(ctx, sku)
	if err != nil {
		if err == repository.ErrProductNotFound {
			return nil, repository.ErrVariantNotFound
		}
		return nil, err
	}

	var previous int
	found := false
	for _, v := range product.Variants {
		if v.SKU == sku {
			previous = v.Stock
			found = true
			break
		}
	}
	if !found {
		return nil, repository.ErrVariantNotFound
	}
	if previous == newStock {
		return nil, ErrStockUnchanged
	}

	if err := s.productRepo.SetStock(ctx, sku, newStock); err != nil {
		return nil, err
	}

	entry := &domain.InventoryLedgerEntry{
		ID:              uuid.New(),
		SKU:             sku,
		ProductID:       product.ID,
		AdminID:         adminID,
		PreviousStock:   previous,
		QuantityChanged: newStock - previous,
		NewStock:        newStock,
		Reason:          reason,
		Notes:           notes,
		CreatedAt:       time.Now(),
	}
	if err := s.ledgerRepo.Record(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to record stock adjustment: %w", err)
	}

	return entry, nil
}

func (s *catalogService) StockHistory(ctx context.Context, sku string) ([]*domain.InventoryLedgerEntry, error) {
	return s.ledgerRepo.ListBySKU(ctx, sku)
}

func validateVariants(variants []domain.Variant) error {
	if len(variants) == 0 {
		return ErrNoVariants
	}

	seen := make(map[string]bool, len(variants))
	for _, v := range variants {
		if seen[v.SKU] {
			return ErrDuplicateSKU
		}
		seen[v.SKU] = true
	}
	return nil
}
