package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/domain"

	"github.com/google/uuid"
)

var ErrContactNotFound = errors.New("contact not found")

// ContactRepository defines the interface for contact data access
type ContactRepository interface {
	Create(ctx context.Context, contact *domain.Contact) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Contact, error)
	FindByLinkedUser(ctx context.Context, userID uuid.UUID) (*domain.Contact, error)
	List(ctx context.Context, contactType string) ([]*domain.Contact, error)
}

type contactRepository struct {
	db Querier
}

// NewContactRepository creates a new instance of ContactRepository
func NewContactRepository(db Querier) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, contact *domain.Contact) error {
	query := `
		INSERT INTO contacts (id, name, type, email, mobile, city, state, pincode, linked_user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		contact.ID,
		contact.Name,
		contact.Type,
		contact.Email,
		contact.Mobile,
		contact.City,
		contact.State,
		contact.Pincode,
		contact.LinkedUserID,
		contact.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}

	return nil
}

func (r *contactRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Contact, error) {
	query := `
		SELECT id, name, type, email, mobile, city, state, pincode, linked_user_id, created_at
		FROM contacts
		WHERE id = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// FindByLinkedUser retrieves the contact profile linked to a user account.
func (r *contactRepository) FindByLinkedUser(ctx context.Context, userID uuid.UUID) (*domain.Contact, error) {
	query := `
		SELECT id, name, type, email, mobile, city, state, pincode, linked_user_id, created_at
		FROM contacts
		WHERE linked_user_id = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, userID))
}

// List retrieves contacts, optionally filtered by type.
func (r *contactRepository) List(ctx context.Context, contactType string) ([]*domain.Contact, error) {
	query := `
		SELECT id, name, type, email, mobile, city, state, pincode, linked_user_id, created_at
		FROM contacts
	`
	args := []any{}
	if contactType != "" {
		query += ` WHERE type = $1`
		args = append(args, contactType)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	contacts := []*domain.Contact{}
	for rows.Next() {
		contact := &domain.Contact{}
		err := rows.Scan(
			&contact.ID,
			&contact.Name,
			&contact.Type,
			&contact.Email,
			&contact.Mobile,
			&contact.City,
			&contact.State,
			&contact.Pincode,
			&contact.LinkedUserID,
			&contact.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, contact)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contacts: %w", err)
	}

	return contacts, nil
}

func (r *contactRepository) scanOne(row *sql.Row) (*domain.Contact, error) {
	contact := &domain.Contact{}
	err := row.Scan(
		&contact.ID,
		&contact.Name,
		&contact.Type,
		&contact.Email,
		&contact.Mobile,
		&contact.City,
		&contact.State,
		&contact.Pincode,
		&contact.LinkedUserID,
		&contact.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("failed to find contact: %w", err)
	}

	return contact, nil
}
