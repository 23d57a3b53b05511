package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrVendorBillNotFound = errors.New("vendor bill not found")
	ErrInvoiceNotFound    = errors.New("customer invoice not found")
)

// VendorBillRepository defines the interface for vendor bill data access.
type VendorBillRepository interface {
	Create(ctx context.Context, q Querier, bill *domain.VendorBill) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.VendorBill, error)
	List(ctx context.Context) ([]*domain.VendorBill, error)
	ApplyPayment(ctx context.Context, q Querier, id uuid.UUID, amount decimal.Decimal) error
}

type vendorBillRepository struct {
	db *sql.DB
}

// NewVendorBillRepository creates a new instance of VendorBillRepository
func NewVendorBillRepository(db *sql.DB) VendorBillRepository {
	return &vendorBillRepository{db: db}
}

// Create inserts a bill with its items. It takes a Querier so purchase
// receipt can write the bill inside its transaction.
func (r *vendorBillRepository) Create(ctx context.Context, q Querier, bill *domain.VendorBill) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO vendor_bills (id, bill_number, purchase_order_id, vendor_id, invoice_date, due_date,
		                          total_amount, paid_amount, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		bill.ID,
		bill.BillNumber,
		bill.PurchaseOrderID,
		bill.VendorID,
		bill.InvoiceDate,
		bill.DueDate,
		bill.TotalAmount,
		bill.PaidAmount,
		bill.Status,
		bill.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create vendor bill: %w", err)
	}

	for _, item := range bill.Items {
		_, err := q.ExecContext(ctx, `
			INSERT INTO vendor_bill_items (bill_id, product_id, sku, name, quantity, unit_price, tax, line_total)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`,
			bill.ID, item.ProductID, item.SKU, item.Name,
			item.Quantity, item.UnitPrice, item.Tax, item.LineTotal,
		)
		if err != nil {
			return fmt.Errorf("failed to create vendor bill item %s: %w", item.SKU, err)
		}
	}

	return nil
}

func (r *vendorBillRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.VendorBill, error) {
	bill := &domain.VendorBill{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, bill_number, purchase_order_id, vendor_id, invoice_date, due_date,
		       total_amount, paid_amount, status, created_at
		FROM vendor_bills
		WHERE id = $1
	`, id).Scan(
		&bill.ID, &bill.BillNumber, &bill.PurchaseOrderID, &bill.VendorID,
		&bill.InvoiceDate, &bill.DueDate, &bill.TotalAmount, &bill.PaidAmount,
		&bill.Status, &bill.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrVendorBillNotFound
		}
		return nil, fmt.Errorf("failed to find vendor bill: %w", err)
	}

	if err := r.attachItems(ctx, []*domain.VendorBill{bill}); err != nil {
		return nil, err
	}
	return bill, nil
}

func (r *vendorBillRepository) List(ctx context.Context) ([]*domain.VendorBill, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, bill_number, purchase_order_id, vendor_id, invoice_date, due_date,
		       total_amount, paid_amount, status, created_at
		FROM vendor_bills
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list vendor bills: %w", err)
	}
	defer rows.Close()

	bills := []*domain.VendorBill{}
	for rows.Next() {
		bill := &domain.VendorBill{}
		err := rows.Scan(
			&bill.ID, &bill.BillNumber, &bill.PurchaseOrderID, &bill.VendorID,
			&bill.InvoiceDate, &bill.DueDate, &bill.TotalAmount, &bill.PaidAmount,
			&bill.Status, &bill.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vendor bill: %w", err)
		}
		bills = append(bills, bill)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vendor bills: %w", err)
	}

	if err := r.attachItems(ctx, bills); err != nil {
		return nil, err
	}
	return bills, nil
}

// ApplyPayment increases paid_amount and recomputes the status in one
// statement so concurrent registrations cannot interleave.
func (r *vendorBillRepository) ApplyPayment(ctx context.Context, q Querier, id uuid.UUID, amount decimal.Decimal) error {
	result, err := q.ExecContext(ctx, `
		UPDATE vendor_bills
		SET paid_amount = paid_amount + $2,
		    status = CASE WHEN paid_amount + $2 >= total_amount THEN 'paid' ELSE 'partially_paid' END
		WHERE id = $1
	`, id, amount)
	if err != nil {
		return fmt.Errorf("failed to apply payment to vendor bill: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrVendorBillNotFound
	}
	return nil
}

func (r *vendorBillRepository) attachItems(ctx context.Context, bills []*domain.VendorBill) error {
	for _, bill := range bills {
		items, err := loadBillingItems(ctx, r.db, "vendor_bill_items", "bill_id", bill.ID)
		if err != nil {
			return err
		}
		bill.Items = items
	}
	return nil
}

// InvoiceRepository defines the interface for customer invoice data access.
type InvoiceRepository interface {
	Create(ctx context.Context, q Querier, invoice *domain.CustomerInvoice) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.CustomerInvoice, error)
	FindByOrder(ctx context.Context, orderID uuid.UUID) (*domain.CustomerInvoice, error)
	List(ctx context.Context) ([]*domain.CustomerInvoice, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*domain.CustomerInvoice, error)
	ApplyPayment(ctx context.Context, q Querier, id uuid.UUID, amount decimal.Decimal) error
	MarkPaid(ctx context.Context, q Querier, id uuid.UUID) error
}

type invoiceRepository struct {
	db *sql.DB
}

// NewInvoiceRepository creates a new instance of InvoiceRepository
func NewInvoiceRepository(db *sql.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

// Create inserts an invoice with its items. It takes a Querier so order
// placement can write the invoice inside the placement transaction.
func (r *invoiceRepository) Create(ctx context.Context, q Querier, invoice *domain.CustomerInvoice) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO customer_invoices (id, invoice_number, customer_id, order_id, invoice_date, due_date,
		                               total_amount, discount_amount, paid_amount, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		invoice.ID,
		invoice.InvoiceNumber,
		invoice.CustomerID,
		invoice.OrderID,
		invoice.InvoiceDate,
		invoice.DueDate,
		invoice.TotalAmount,
		invoice.DiscountAmount,
		invoice.PaidAmount,
		invoice.Status,
		invoice.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create customer invoice: %w", err)
	}

	for _, item := range invoice.Items {
		_, err := q.ExecContext(ctx, `
			INSERT INTO customer_invoice_items (invoice_id, product_id, sku, name, quantity, unit_price, tax, line_total)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`,
			invoice.ID, item.ProductID, item.SKU, item.Name,
			item.Quantity, item.UnitPrice, item.Tax, item.LineTotal,
		)
		if err != nil {
			return fmt.Errorf("failed to create customer invoice item %s: %w", item.SKU, err)
		}
	}

	return nil
}

const invoiceColumns = `
	id, invoice_number, customer_id, order_id, invoice_date, due_date,
	total_amount, discount_amount, paid_amount, status, created_at
`

func (r *invoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.CustomerInvoice, error) {
	query := fmt.Sprintf(`SELECT %s FROM customer_invoices WHERE id = $1`, invoiceColumns)
	return r.findOne(ctx, query, id)
}

// FindByOrder retrieves the invoice raised for a sales order.
func (r *invoiceRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) (*domain.CustomerInvoice, error) {
	query := fmt.Sprintf(`SELECT %s FROM customer_invoices WHERE order_id = $1`, invoiceColumns)
	return r.findOne(ctx, query, orderID)
}

func (r *invoiceRepository) findOne(ctx context.Context, query string, arg any) (*domain.CustomerInvoice, error) {
	invoice := &domain.CustomerInvoice{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&invoice.ID, &invoice.InvoiceNumber, &invoice.CustomerID, &invoice.OrderID,
		&invoice.InvoiceDate, &invoice.DueDate, &invoice.TotalAmount,
		&invoice.DiscountAmount, &invoice.PaidAmount, &invoice.Status, &invoice.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("failed to find customer invoice: %w", err)
	}

	if err := r.attachItems(ctx, []*domain.CustomerInvoice{invoice}); err != nil {
		return nil, err
	}
	return invoice, nil
}

func (r *invoiceRepository) List(ctx context.Context) ([]*domain.CustomerInvoice, error) {
	query := fmt.Sprintf(`SELECT %s FROM customer_invoices ORDER BY created_at DESC`, invoiceColumns)
	return r.queryInvoices(ctx, query)
}

// ListByCustomer retrieves a customer's own invoices, newest first.
func (r *invoiceRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*domain.CustomerInvoice, error) {
	query := fmt.Sprintf(`SELECT %s FROM customer_invoices WHERE customer_id = $1 ORDER BY created_at DESC`, invoiceColumns)
	return r.queryInvoices(ctx, query, customerID)
}

func (r *invoiceRepository) queryInvoices(ctx context.Context, query string, args ...any) ([]*domain.CustomerInvoice, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list customer invoices: %w", err)
	}
	defer rows.Close()

	invoices := []*domain.CustomerInvoice{}
	for rows.Next() {
		invoice := &domain.CustomerInvoice{}
		err := rows.Scan(
			&invoice.ID, &invoice.InvoiceNumber, &invoice.CustomerID, &invoice.OrderID,
			&invoice.InvoiceDate, &invoice.DueDate, &invoice.TotalAmount,
			&invoice.DiscountAmount, &invoice.PaidAmount, &invoice.Status, &invoice.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer invoice: %w", err)
		}
		invoices = append(invoices, invoice)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating customer invoices: %w", err)
	}

	if err := r.attachItems(ctx, invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}

// ApplyPayment increases paid_amount and recomputes the status in one
// statement.
func (r *invoiceRepository) ApplyPayment(ctx context.Context, q Querier, id uuid.UUID, amount decimal.Decimal) error {
	result, err := q.ExecContext(ctx, `
		UPDATE customer_invoices
		SET paid_amount = paid_amount + $2,
		    status = CASE WHEN paid_amount + $2 >= total_amount THEN 'paid' ELSE 'partially_paid' END
		WHERE id = $1
	`, id, amount)
	if err != nil {
		return fmt.Errorf("failed to apply payment to invoice: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrInvoiceNotFound
	}
	return nil
}

// MarkPaid settles the invoice in full, used when the gateway confirms an
// online payment for the whole amount.
func (r *invoiceRepository) MarkPaid(ctx context.Context, q Querier, id uuid.UUID) error {
	result, err := q.ExecContext(ctx, `
		UPDATE customer_invoices
		SET paid_amount = total_amount, status = 'paid'
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("failed to mark invoice paid: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrInvoiceNotFound
	}
	return nil
}

func (r *invoiceRepository) attachItems(ctx context.Context, invoices []*domain.CustomerInvoice) error {
	for _, invoice := range invoices {
		items, err := loadBillingItems(ctx, r.db, "customer_invoice_items", "invoice_id", invoice.ID)
		if err != nil {
			return err
		}
		invoice.Items = items
	}
	return nil
}

func loadBillingItems(ctx context.Context, q Querier, table, fk string, parentID uuid.UUID) ([]domain.BillingItem, error) {
	query := fmt.Sprintf(`
		SELECT product_id, sku, name, quantity, unit_price, tax, line_total
		FROM %s
		WHERE %s = $1
		ORDER BY sku
	`, table, fk)

	rows, err := q.QueryContext(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", table, err)
	}
	defer rows.Close()

	items := []domain.BillingItem{}
	for rows.Next() {
		item := domain.BillingItem{}
		err := rows.Scan(
			&item.ProductID, &item.SKU, &item.Name, &item.Quantity,
			&item.UnitPrice, &item.Tax, &item.LineTotal,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s: %w", table, err)
	}
	return items, nil
}
