package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrLookupNotFound      = errors.New("record not found")
	ErrLookupAlreadyExists = errors.New("record with this name already exists")
)

// LookupDescriptor binds a master-data resource to its table and declares its
// search column explicitly, instead of assuming every table has a "name".
type LookupDescriptor struct {
	Table  string
	Search string
}

// Descriptors for each master-data resource.
var (
	Brands     = LookupDescriptor{Table: "brands", Search: "name"}
	Colors     = LookupDescriptor{Table: "colors", Search: "name"}
	Sizes      = LookupDescriptor{Table: "sizes", Search: "name"}
	Styles     = LookupDescriptor{Table: "styles", Search: "name"}
	Types      = LookupDescriptor{Table: "product_types", Search: "name"}
	Categories = LookupDescriptor{Table: "categories", Search: "name"}
)

// LookupRepository is the shared data access for the master-data tables
// (brand, color, size, style, type, category). All of them share the
// {id, name, created_at} shape.
type LookupRepository interface {
	Create(ctx context.Context, record *domain.Lookup) error
	List(ctx context.Context, search string) ([]*domain.Lookup, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Lookup, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type lookupRepository struct {
	db   Querier
	desc LookupDescriptor
}

// NewLookupRepository creates a LookupRepository bound to one descriptor.
func NewLookupRepository(db Querier, desc LookupDescriptor) LookupRepository {
	return &lookupRepository{db: db, desc: desc}
}

func (r *lookupRepository) Create(ctx context.Context, record *domain.Lookup) error {
	query := fmt.Sprintf(
		`INSERT INTO %s (id, name, created_at) VALUES ($1, $2, $3)`,
		r.desc.Table,
	)

	_, err := r.db.ExecContext(ctx, query, record.ID, record.Name, record.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrLookupAlreadyExists
		}
		return fmt.Errorf("failed to create %s record: %w", r.desc.Table, err)
	}

	return nil
}

func (r *lookupRepository) List(ctx context.Context, search string) ([]*domain.Lookup, error) {
	query := fmt.Sprintf(`SELECT id, name, created_at FROM %s`, r.desc.Table)
	args := []any{}
	if search != "" {
		query += fmt.Sprintf(` WHERE %s ILIKE $1`, r.desc.Search)
		args = append(args, "%"+search+"%")
	}
	query += ` ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s records: %w", r.desc.Table, err)
	}
	defer rows.Close()

	records := []*domain.Lookup{}
	for rows.Next() {
		record := &domain.Lookup{}
		if err := rows.Scan(&record.ID, &record.Name, &record.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan %s record: %w", r.desc.Table, err)
		}
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s records: %w", r.desc.Table, err)
	}

	return records, nil
}

func (r *lookupRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Lookup, error) {
	query := fmt.Sprintf(`SELECT id, name, created_at FROM %s WHERE id = $1`, r.desc.Table)

	record := &domain.Lookup{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&record.ID, &record.Name, &record.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrLookupNotFound
		}
		return nil, fmt.Errorf("failed to find %s record: %w", r.desc.Table, err)
	}

	return record, nil
}

func (r *lookupRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.desc.Table)

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete %s record: %w", r.desc.Table, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrLookupNotFound
	}

	return nil
}
