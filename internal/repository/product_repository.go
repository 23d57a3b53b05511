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
	ErrProductNotFound   = errors.New("product not found")
	ErrVariantNotFound   = errors.New("variant not found")
	ErrSKUAlreadyExists  = errors.New("variant with this SKU already exists")
	ErrInsufficientStock = errors.New("insufficient stock for variant")
)

// ProductFilter narrows public product listings.
type ProductFilter struct {
	CategoryID  *uuid.UUID
	TypeID      *uuid.UUID
	Material    string
	Search      string
	InStockOnly bool
}

// ProductRepository defines the interface for catalog data access.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Product, error)
	FindBySKU(ctx context.Context, sku string) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
	ListPublished(ctx context.Context, filter ProductFilter) ([]*domain.Product, error)
	FindVariant(ctx context.Context, productID uuid.UUID, sku string) (*domain.Variant, error)
	AdjustStock(ctx context.Context, q Querier, productID uuid.UUID, sku string, delta int) error
	SetStock(ctx context.Context, sku string, stock int) error
	Inventory(ctx context.Context) ([]*domain.InventoryRow, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

// Create inserts a product together with its variants and images.
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO products (id, name, category_id, brand_id, style_id, type_id, material, published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		product.ID,
		product.Name,
		product.CategoryID,
		product.BrandID,
		product.StyleID,
		product.TypeID,
		product.Material,
		product.Published,
		product.CreatedAt,
		product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	if err := r.insertChildren(ctx, tx, product); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit product: %w", err)
	}
	return nil
}

// Update replaces the product's own fields and rewrites its variants and
// images wholesale, matching the save-the-whole-form admin flow.
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE products
		SET name = $2, category_id = $3, brand_id = $4, style_id = $5,
		    type_id = $6, material = $7, published = $8, updated_at = $9
		WHERE id = $1
	`,
		product.ID,
		product.Name,
		product.CategoryID,
		product.BrandID,
		product.StyleID,
		product.TypeID,
		product.Material,
		product.Published,
		product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM variants WHERE product_id = $1`, product.ID); err != nil {
		return fmt.Errorf("failed to clear variants: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM product_images WHERE product_id = $1`, product.ID); err != nil {
		return fmt.Errorf("failed to clear images: %w", err)
	}

	if err := r.insertChildren(ctx, tx, product); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit product update: %w", err)
	}
	return nil
}

func (r *productRepository) insertChildren(ctx context.Context, q Querier, product *domain.Product) error {
	for i := range product.Variants {
		v := &product.Variants[i]
		if v.ID == uuid.Nil {
			v.ID = uuid.New()
		}
		v.ProductID = product.ID

		_, err := q.ExecContext(ctx, `
			INSERT INTO variants (id, product_id, sku, color, size, stock, sales_price, sales_tax, purchase_price, purchase_tax)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`,
			v.ID, v.ProductID, v.SKU, v.Color, v.Size, v.Stock,
			v.SalesPrice, v.SalesTax, v.PurchasePrice, v.PurchaseTax,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrSKUAlreadyExists
			}
			return fmt.Errorf("failed to create variant %s: %w", v.SKU, err)
		}
	}

	for _, img := range product.Images {
		_, err := q.ExecContext(ctx, `
			INSERT INTO product_images (product_id, url, color)
			VALUES ($1, $2, $3)
		`, product.ID, img.URL, img.Color)
		if err != nil {
			return fmt.Errorf("failed to create product image: %w", err)
		}
	}

	return nil
}

// Delete removes a product and, via cascade, its variants and images.
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

const productColumns = `id, name, category_id, brand_id, style_id, type_id, material, published, created_at, updated_at`

// FindByID retrieves a product with its variants and images.
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}

	if err := r.attachChildren(ctx, []*domain.Product{product}); err != nil {
		return nil, err
	}
	return product, nil
}

// FindByIDs retrieves a batch of products with their variants. Used by the
// discount engine to verify cart prices against the catalog.
func (r *productRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Product, error) {
	if len(ids) == 0 {
		return []*domain.Product{}, nil
	}

	placeholders := ""
	args := make([]any, len(ids))
	for i, id := range ids {
		if i > 0 {
			placeholders += ", "
		}
		placeholders += fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := fmt.Sprintf(`SELECT %s FROM products WHERE id IN (%s)`, productColumns, placeholders)
	products, err := r.queryProducts(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if err := r.attachChildren(ctx, products); err != nil {
		return nil, err
	}
	return products, nil
}

// FindBySKU retrieves the product owning the given variant SKU.
func (r *productRepository) FindBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM products
		WHERE id = (SELECT product_id FROM variants WHERE sku = $1)
	`, productColumns)

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, sku))
	if err != nil {
		return nil, err
	}
	if err := r.attachChildren(ctx, []*domain.Product{product}); err != nil {
		return nil, err
	}
	return product, nil
}

// List retrieves every product for the admin catalog table.
func (r *productRepository) List(ctx context.Context) ([]*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products ORDER BY created_at DESC`, productColumns)
	products, err := r.queryProducts(ctx, query)
	if err != nil {
		return nil, err
	}
	if err := r.attachChildren(ctx, products); err != nil {
		return nil, err
	}
	return products, nil
}

// ListPublished retrieves published products for the storefront, optionally
// requiring at least one in-stock variant.
func (r *productRepository) ListPublished(ctx context.Context, filter ProductFilter) ([]*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE published`, productColumns)
	args := []any{}
	argIndex := 1

	if filter.CategoryID != nil {
		query += fmt.Sprintf(` AND category_id = $%d`, argIndex)
		args = append(args, *filter.CategoryID)
		argIndex++
	}
	if filter.TypeID != nil {
		query += fmt.Sprintf(` AND type_id = $%d`, argIndex)
		args = append(args, *filter.TypeID)
		argIndex++
	}
	if filter.Material != "" {
		query += fmt.Sprintf(` AND material = $%d`, argIndex)
		args = append(args, filter.Material)
		argIndex++
	}
	if filter.Search != "" {
		query += fmt.Sprintf(` AND (name ILIKE $%d OR material ILIKE $%d)`, argIndex, argIndex)
		args = append(args, "%"+filter.Search+"%")
		argIndex++
	}
	if filter.InStockOnly {
		query += ` AND EXISTS (SELECT 1 FROM variants v WHERE v.product_id = products.id AND v.stock > 0)`
	}
	query += ` ORDER BY created_at DESC`

	products, err := r.queryProducts(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if err := r.attachChildren(ctx, products); err != nil {
		return nil, err
	}
	return products, nil
}

// FindVariant retrieves one variant by product id and SKU.
func (r *productRepository) FindVariant(ctx context.Context, productID uuid.UUID, sku string) (*domain.Variant, error) {
	query := `
		SELECT id, product_id, sku, color, size, stock, sales_price, sales_tax, purchase_price, purchase_tax
		FROM variants
		WHERE product_id = $1 AND sku = $2
	`

	v := &domain.Variant{}
	err := r.db.QueryRowContext(ctx, query, productID, sku).Scan(
		&v.ID, &v.ProductID, &v.SKU, &v.Color, &v.Size, &v.Stock,
		&v.SalesPrice, &v.SalesTax, &v.PurchasePrice, &v.PurchaseTax,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrVariantNotFound
		}
		return nil, fmt.Errorf("failed to find variant %s: %w", sku, err)
	}

	return v, nil
}

// AdjustStock applies an atomic filtered increment to one variant's stock.
// The WHERE clause refuses to drive the counter below zero, so concurrent
// orders cannot over-sell a variant.
func (r *productRepository) AdjustStock(ctx context.Context, q Querier, productID uuid.UUID, sku string, delta int) error {
	query := `
		UPDATE variants
		SET stock = stock + $3
		WHERE product_id = $1 AND sku = $2 AND stock + $3 >= 0
	`

	result, err := q.ExecContext(ctx, query, productID, sku, delta)
	if err != nil {
		return fmt.Errorf("failed to adjust stock for %s: %w", sku, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		// Either the variant is missing or the decrement would go negative.
		var exists bool
		err := q.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM variants WHERE product_id = $1 AND sku = $2)`,
			productID, sku,
		).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check variant %s: %w", sku, err)
		}
		if !exists {
			return ErrVariantNotFound
		}
		return ErrInsufficientStock
	}

	return nil
}

// SetStock overwrites one variant's stock level for manual inventory
// adjustments.
func (r *productRepository) SetStock(ctx context.Context, sku string, stock int) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE variants SET stock = $2 WHERE sku = $1`, sku, stock)
	if err != nil {
		return fmt.Errorf("failed to set stock for %s: %w", sku, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrVariantNotFound
	}

	return nil
}

// Inventory returns one flattened row per variant with resolved master-data
// names for the inventory screen.
func (r *productRepository) Inventory(ctx context.Context) ([]*domain.InventoryRow, error) {
	query := `
		SELECT p.id, p.name,
		       COALESCE(b.name, ''),
		       COALESCE(c.name, ''),
		       v.sku, v.color, v.size, v.stock
		FROM variants v
		JOIN products p ON p.id = v.product_id
		LEFT JOIN brands b ON b.id = p.brand_id
		LEFT JOIN categories c ON c.id = p.category_id
		ORDER BY p.name, v.sku
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	defer rows.Close()

	inventory := []*domain.InventoryRow{}
	for rows.Next() {
		row := &domain.InventoryRow{}
		err := rows.Scan(
			&row.ProductID, &row.ProductName, &row.Brand, &row.Category,
			&row.SKU, &row.Color, &row.Size, &row.Stock,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inventory row: %w", err)
		}
		inventory = append(inventory, row)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating inventory: %w", err)
	}

	return inventory, nil
}

func (r *productRepository) queryProducts(ctx context.Context, query string, args ...any) ([]*domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product := &domain.Product{}
		err := rows.Scan(
			&product.ID, &product.Name, &product.CategoryID, &product.BrandID,
			&product.StyleID, &product.TypeID, &product.Material,
			&product.Published, &product.CreatedAt, &product.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// attachChildren loads variants and images for the given products.
func (r *productRepository) attachChildren(ctx context.Context, products []*domain.Product) error {
	for _, p := range products {
		p.Variants = []domain.Variant{}
		p.Images = []domain.ProductImage{}

		rows, err := r.db.QueryContext(ctx, `
			SELECT id, product_id, sku, color, size, stock, sales_price, sales_tax, purchase_price, purchase_tax
			FROM variants WHERE product_id = $1 ORDER BY sku
		`, p.ID)
		if err != nil {
			return fmt.Errorf("failed to load variants: %w", err)
		}

		for rows.Next() {
			v := domain.Variant{}
			err := rows.Scan(
				&v.ID, &v.ProductID, &v.SKU, &v.Color, &v.Size, &v.Stock,
				&v.SalesPrice, &v.SalesTax, &v.PurchasePrice, &v.PurchaseTax,
			)
			if err != nil {
				rows.Close()
				return fmt.Errorf("failed to scan variant: %w", err)
			}
			p.Variants = append(p.Variants, v)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return fmt.Errorf("error iterating variants: %w", err)
		}
		rows.Close()

		imgRows, err := r.db.QueryContext(ctx,
			`SELECT url, COALESCE(color, '') FROM product_images WHERE product_id = $1`, p.ID)
		if err != nil {
			return fmt.Errorf("failed to load images: %w", err)
		}
		for imgRows.Next() {
			img := domain.ProductImage{}
			if err := imgRows.Scan(&img.URL, &img.Color); err != nil {
				imgRows.Close()
				return fmt.Errorf("failed to scan image: %w", err)
			}
			p.Images = append(p.Images, img)
		}
		if err := imgRows.Err(); err != nil {
			imgRows.Close()
			return fmt.Errorf("error iterating images: %w", err)
		}
		imgRows.Close()
	}

	return nil
}

func scanProduct(row *sql.Row) (*domain.Product, error) {
	product := &domain.Product{}
	err := row.Scan(
		&product.ID, &product.Name, &product.CategoryID, &product.BrandID,
		&product.StyleID, &product.TypeID, &product.Material,
		&product.Published, &product.CreatedAt, &product.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return product, nil
}
