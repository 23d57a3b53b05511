package service

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"sync"
	"time"

	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/domain"
	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/payments"
	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// The transactional services only hand the *sql.Tx through to repositories,
// which are all mocked here. A driver whose transactions are no-ops lets the
// services run their real commit/rollback flow without a database.

type stubDriver struct{}

func (stubDriver) Open(name string) (driver.Conn, error) { return stubConn{}, nil }

type stubConn struct{}

func (stubConn) Prepare(query string) (driver.Stmt, error) { return nil, driver.ErrSkip }
func (stubConn) Close() error                              { return nil }
func (stubConn) Begin() (driver.Tx, error)                 { return stubTx{}, nil }

type stubTx struct{}

func (stubTx) Commit() error   { return nil }
func (stubTx) Rollback() error { return nil }

var registerStubDriver sync.Once

func newStubDB() *sql.DB {
	registerStubDriver.Do(func() {
		sql.Register("servicetest", stubDriver{})
	})
	db, _ := sql.Open("servicetest", "")
	return db
}

// Mock repositories for testing

type mockProductRepository struct {
	products map[uuid.UUID]*domain.Product
}

func newMockProductRepository(products ...*domain.Product) *mockProductRepository {
	m := &mockProductRepository{products: make(map[uuid.UUID]*domain.Product)}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	if _, ok := m.products[product.ID]; !ok {
		return repository.ErrProductNotFound
	}
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return product, nil
}

func (m *mockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Product, error) {
	var out []*domain.Product
	for _, id := range ids {
		if product, ok := m.products[id]; ok {
			out = append(out, product)
		}
	}
	return out, nil
}

func (m *mockProductRepository) FindBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	for _, product := range m.products {
		for _, v := range product.Variants {
			if v.SKU == sku {
				return product, nil
			}
		}
	}
	return nil, repository.ErrProductNotFound
}

func (m *mockProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	var out []*domain.Product
	for _, product := range m.products {
		out = append(out, product)
	}
	return out, nil
}

func (m *mockProductRepository) ListPublished(ctx context.Context, filter repository.ProductFilter) ([]*domain.Product, error) {
	var out []*domain.Product
	for _, product := range m.products {
		if product.Published {
			out = append(out, product)
		}
	}
	return out, nil
}

func (m *mockProductRepository) FindVariant(ctx context.Context, productID uuid.UUID, sku string) (*domain.Variant, error) {
	product, ok := m.products[productID]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	for i := range product.Variants {
		if product.Variants[i].SKU == sku {
			return &product.Variants[i], nil
		}
	}
	return nil, repository.ErrVariantNotFound
}

func (m *mockProductRepository) AdjustStock(ctx context.Context, q repository.Querier, productID uuid.UUID, sku string, delta int) error {
	product, ok := m.products[productID]
	if !ok {
		return repository.ErrVariantNotFound
	}
	for i := range product.Variants {
		if product.Variants[i].SKU == sku {
			if product.Variants[i].Stock+delta < 0 {
				return repository.ErrInsufficientStock
			}
			product.Variants[i].Stock += delta
			return nil
		}
	}
	return repository.ErrVariantNotFound
}

func (m *mockProductRepository) SetStock(ctx context.Context, sku string, stock int) error {
	for _, product := range m.products {
		for i := range product.Variants {
			if product.Variants[i].SKU == sku {
				product.Variants[i].Stock = stock
				return nil
			}
		}
	}
	return repository.ErrVariantNotFound
}

func (m *mockProductRepository) Inventory(ctx context.Context) ([]*domain.InventoryRow, error) {
	return nil, nil
}

func (m *mockProductRepository) stockOf(sku string) int {
	for _, product := range m.products {
		for _, v := range product.Variants {
			if v.SKU == sku {
				return v.Stock
			}
		}
	}
	return -1
}

type mockCouponRepository struct {
	coupons map[uuid.UUID]*domain.Coupon
}

func newMockCouponRepository(coupons ...*domain.Coupon) *mockCouponRepository {
	m := &mockCouponRepository{coupons: make(map[uuid.UUID]*domain.Coupon)}
	for _, c := range coupons {
		m.coupons[c.ID] = c
	}
	return m
}

func (m *mockCouponRepository) Create(ctx context.Context, coupon *domain.Coupon) error {
	for _, existing := range m.coupons {
		if existing.Code == coupon.Code {
			return repository.ErrCouponAlreadyExists
		}
	}
	m.coupons[coupon.ID] = coupon
	return nil
}

func (m *mockCouponRepository) Update(ctx context.Context, coupon *domain.Coupon) error {
	if _, ok := m.coupons[coupon.ID]; !ok {
		return repository.ErrCouponNotFound
	}
	m.coupons[coupon.ID] = coupon
	return nil
}

func (m *mockCouponRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.coupons[id]; !ok {
		return repository.ErrCouponNotFound
	}
	delete(m.coupons, id)
	return nil
}

func (m *mockCouponRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Coupon, error) {
	coupon, ok := m.coupons[id]
	if !ok {
		return nil, repository.ErrCouponNotFound
	}
	return coupon, nil
}

func (m *mockCouponRepository) FindByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	for _, coupon := range m.coupons {
		if coupon.Code == code {
			return coupon, nil
		}
	}
	return nil, repository.ErrCouponNotFound
}

func (m *mockCouponRepository) List(ctx context.Context) ([]*domain.Coupon, error) {
	var out []*domain.Coupon
	for _, coupon := range m.coupons {
		out = append(out, coupon)
	}
	return out, nil
}

func (m *mockCouponRepository) IncrementUsage(ctx context.Context, q repository.Querier, id uuid.UUID) error {
	coupon, ok := m.coupons[id]
	if !ok {
		return repository.ErrCouponNotFound
	}
	if coupon.UsageLimit > 0 && coupon.UsedCount >= coupon.UsageLimit {
		return repository.ErrCouponExhausted
	}
	coupon.UsedCount++
	if coupon.UsageLimit > 0 && coupon.UsedCount >= coupon.UsageLimit {
		coupon.Status = domain.CouponUsed
	}
	return nil
}

type mockOfferRepository struct {
	offers map[uuid.UUID]*domain.DiscountOffer
}

func newMockOfferRepository(offers ...*domain.DiscountOffer) *mockOfferRepository {
	m := &mockOfferRepository{offers: make(map[uuid.UUID]*domain.DiscountOffer)}
	for _, o := range offers {
		m.offers[o.ID] = o
	}
	return m
}

func (m *mockOfferRepository) Create(ctx context.Context, offer *domain.DiscountOffer) error {
	m.offers[offer.ID] = offer
	return nil
}

func (m *mockOfferRepository) Update(ctx context.Context, offer *domain.DiscountOffer) error {
	if _, ok := m.offers[offer.ID]; !ok {
		return repository.ErrOfferNotFound
	}
	m.offers[offer.ID] = offer
	return nil
}

func (m *mockOfferRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.offers[id]; !ok {
		return repository.ErrOfferNotFound
	}
	delete(m.offers, id)
	return nil
}

func (m *mockOfferRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.DiscountOffer, error) {
	offer, ok := m.offers[id]
	if !ok {
		return nil, repository.ErrOfferNotFound
	}
	return offer, nil
}

func (m *mockOfferRepository) List(ctx context.Context) ([]*domain.DiscountOffer, error) {
	var out []*domain.DiscountOffer
	for _, offer := range m.offers {
		out = append(out, offer)
	}
	return out, nil
}

type mockContactRepository struct {
	contacts      map[uuid.UUID]*domain.Contact
	findLinkedErr error
}

func newMockContactRepository(contacts ...*domain.Contact) *mockContactRepository {
	m := &mockContactRepository{contacts: make(map[uuid.UUID]*domain.Contact)}
	for _, c := range contacts {
		m.contacts[c.ID] = c
	}
	return m
}

func (m *mockContactRepository) Create(ctx context.Context, contact *domain.Contact) error {
	m.contacts[contact.ID] = contact
	return nil
}

func (m *mockContactRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Contact, error) {
	contact, ok := m.contacts[id]
	if !ok {
		return nil, repository.ErrContactNotFound
	}
	return contact, nil
}

func (m *mockContactRepository) FindByLinkedUser(ctx context.Context, userID uuid.UUID) (*domain.Contact, error) {
	if m.findLinkedErr != nil {
		return nil, m.findLinkedErr
	}
	for _, contact := range m.contacts {
		if contact.LinkedUserID != nil && *contact.LinkedUserID == userID {
			return contact, nil
		}
	}
	return nil, repository.ErrContactNotFound
}

func (m *mockContactRepository) List(ctx context.Context, contactType string) ([]*domain.Contact, error) {
	var out []*domain.Contact
	for _, contact := range m.contacts {
		if contactType == "" || contact.Type == contactType {
			out = append(out, contact)
		}
	}
	return out, nil
}

type mockUserRepository struct {
	users      map[uuid.UUID]*domain.User
	paidOrders map[uuid.UUID]int
}

func newMockUserRepository(users ...*domain.User) *mockUserRepository {
	m := &mockUserRepository{
		users:      make(map[uuid.UUID]*domain.User),
		paidOrders: make(map[uuid.UUID]int),
	}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return repository.ErrUserAlreadyExists
		}
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserRepository) SetContact(ctx context.Context, userID, contactID uuid.UUID) error {
	user, ok := m.users[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.ContactID = &contactID
	return nil
}

func (m *mockUserRepository) CountPaidOrders(ctx context.Context, userID uuid.UUID) (int, error) {
	return m.paidOrders[userID], nil
}

type mockRefreshTokenRepository struct {
	tokens map[string]*domain.RefreshToken
}

func newMockRefreshTokenRepository() *mockRefreshTokenRepository {
	return &mockRefreshTokenRepository{tokens: make(map[string]*domain.RefreshToken)}
}

func (m *mockRefreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	m.tokens[token.Token] = token
	return nil
}

func (m *mockRefreshTokenRepository) FindByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	refreshToken, ok := m.tokens[token]
	if !ok {
		return nil, repository.ErrRefreshTokenNotFound
	}
	if refreshToken.Revoked {
		return nil, repository.ErrRefreshTokenRevoked
	}
	return refreshToken, nil
}

func (m *mockRefreshTokenRepository) Revoke(ctx context.Context, token string) error {
	refreshToken, ok := m.tokens[token]
	if !ok {
		return repository.ErrRefreshTokenNotFound
	}
	refreshToken.Revoked = true
	return nil
}

type mockCartRepository struct {
	carts   map[uuid.UUID]*domain.Cart
	cleared int
}

func newMockCartRepository() *mockCartRepository {
	return &mockCartRepository{carts: make(map[uuid.UUID]*domain.Cart)}
}

func (m *mockCartRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*domain.Cart, error) {
	cart, ok := m.carts[userID]
	if !ok {
		return nil, repository.ErrCartNotFound
	}
	return cart, nil
}

func (m *mockCartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	m.carts[cart.UserID] = cart
	return nil
}

func (m *mockCartRepository) Clear(ctx context.Context, q repository.Querier, userID uuid.UUID) error {
	delete(m.carts, userID)
	m.cleared++
	return nil
}

type mockOrderRepository struct {
	orders map[uuid.UUID]*domain.Order
}

func newMockOrderRepository(orders ...*domain.Order) *mockOrderRepository {
	m := &mockOrderRepository{orders: make(map[uuid.UUID]*domain.Order)}
	for _, o := range orders {
		m.orders[o.ID] = o
	}
	return m
}

func (m *mockOrderRepository) Create(ctx context.Context, q repository.Querier, order *domain.Order) error {
	m.orders[order.ID] = order
	return nil
}

func (m *mockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	return order, nil
}

func (m *mockOrderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, order := range m.orders {
		if order.UserID == userID {
			out = append(out, order)
		}
	}
	return out, nil
}

func (m *mockOrderRepository) List(ctx context.Context) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, order := range m.orders {
		out = append(out, order)
	}
	return out, nil
}

func (m *mockOrderRepository) MarkPaid(ctx context.Context, q repository.Querier, id uuid.UUID, paidAt time.Time, result *domain.PaymentResult) error {
	order, ok := m.orders[id]
	if !ok {
		return repository.ErrOrderNotFound
	}
	order.IsPaid = true
	order.PaidAt = &paidAt
	order.PaymentResult = result
	return nil
}

func (m *mockOrderRepository) MarkDelivered(ctx context.Context, id uuid.UUID, deliveredAt time.Time) error {
	order, ok := m.orders[id]
	if !ok {
		return repository.ErrOrderNotFound
	}
	order.IsDelivered = true
	order.DeliveredAt = &deliveredAt
	return nil
}

func (m *mockOrderRepository) SetPaymentIntent(ctx context.Context, id uuid.UUID, intentID string) error {
	order, ok := m.orders[id]
	if !ok {
		return repository.ErrOrderNotFound
	}
	order.PaymentResult = &domain.PaymentResult{IntentID: intentID}
	return nil
}

type mockInvoiceRepository struct {
	invoices map[uuid.UUID]*domain.CustomerInvoice
}

func newMockInvoiceRepository(invoices ...*domain.CustomerInvoice) *mockInvoiceRepository {
	m := &mockInvoiceRepository{invoices: make(map[uuid.UUID]*domain.CustomerInvoice)}
	for _, inv := range invoices {
		m.invoices[inv.ID] = inv
	}
	return m
}

func (m *mockInvoiceRepository) Create(ctx context.Context, q repository.Querier, invoice *domain.CustomerInvoice) error {
	m.invoices[invoice.ID] = invoice
	return nil
}

func (m *mockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.CustomerInvoice, error) {
	invoice, ok := m.invoices[id]
	if !ok {
		return nil, repository.ErrInvoiceNotFound
	}
	return invoice, nil
}

func (m *mockInvoiceRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) (*domain.CustomerInvoice, error) {
	for _, invoice := range m.invoices {
		if invoice.OrderID == orderID {
			return invoice, nil
		}
	}
	return nil, repository.ErrInvoiceNotFound
}

func (m *mockInvoiceRepository) List(ctx context.Context) ([]*domain.CustomerInvoice, error) {
	var out []*domain.CustomerInvoice
	for _, invoice := range m.invoices {
		out = append(out, invoice)
	}
	return out, nil
}

func (m *mockInvoiceRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*domain.CustomerInvoice, error) {
	var out []*domain.CustomerInvoice
	for _, invoice := range m.invoices {
		if invoice.CustomerID == customerID {
			out = append(out, invoice)
		}
	}
	return out, nil
}

func (m *mockInvoiceRepository) ApplyPayment(ctx context.Context, q repository.Querier, id uuid.UUID, amount decimal.Decimal) error {
	invoice, ok := m.invoices[id]
	if !ok {
		return repository.ErrInvoiceNotFound
	}
	invoice.PaidAmount = invoice.PaidAmount.Add(amount)
	if invoice.PaidAmount.GreaterThanOrEqual(invoice.TotalAmount) {
		invoice.Status = domain.BillingPaid
	} else {
		invoice.Status = domain.BillingPartiallyPaid
	}
	return nil
}

func (m *mockInvoiceRepository) MarkPaid(ctx context.Context, q repository.Querier, id uuid.UUID) error {
	invoice, ok := m.invoices[id]
	if !ok {
		return repository.ErrInvoiceNotFound
	}
	invoice.PaidAmount = invoice.TotalAmount
	invoice.Status = domain.BillingPaid
	return nil
}

type mockVendorBillRepository struct {
	bills map[uuid.UUID]*domain.VendorBill
}

func newMockVendorBillRepository(bills ...*domain.VendorBill) *mockVendorBillRepository {
	m := &mockVendorBillRepository{bills: make(map[uuid.UUID]*domain.VendorBill)}
	for _, b := range bills {
		m.bills[b.ID] = b
	}
	return m
}

func (m *mockVendorBillRepository) Create(ctx context.Context, q repository.Querier, bill *domain.VendorBill) error {
	m.bills[bill.ID] = bill
	return nil
}

func (m *mockVendorBillRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.VendorBill, error) {
	bill, ok := m.bills[id]
	if !ok {
		return nil, repository.ErrVendorBillNotFound
	}
	return bill, nil
}

func (m *mockVendorBillRepository) List(ctx context.Context) ([]*domain.VendorBill, error) {
	var out []*domain.VendorBill
	for _, bill := range m.bills {
		out = append(out, bill)
	}
	return out, nil
}

func (m *mockVendorBillRepository) ApplyPayment(ctx context.Context, q repository.Querier, id uuid.UUID, amount decimal.Decimal) error {
	bill, ok := m.bills[id]
	if !ok {
		return repository.ErrVendorBillNotFound
	}
	bill.PaidAmount = bill.PaidAmount.Add(amount)
	if bill.PaidAmount.GreaterThanOrEqual(bill.TotalAmount) {
		bill.Status = domain.BillingPaid
	} else {
		bill.Status = domain.BillingPartiallyPaid
	}
	return nil
}

type mockPurchaseOrderRepository struct {
	orders map[uuid.UUID]*domain.PurchaseOrder
}

func newMockPurchaseOrderRepository() *mockPurchaseOrderRepository {
	return &mockPurchaseOrderRepository{orders: make(map[uuid.UUID]*domain.PurchaseOrder)}
}

func (m *mockPurchaseOrderRepository) Create(ctx context.Context, po *domain.PurchaseOrder) error {
	m.orders[po.ID] = po
	return nil
}

func (m *mockPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.PurchaseOrder, error) {
	po, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrPurchaseOrderNotFound
	}
	return po, nil
}

func (m *mockPurchaseOrderRepository) List(ctx context.Context) ([]*domain.PurchaseOrder, error) {
	var out []*domain.PurchaseOrder
	for _, po := range m.orders {
		out = append(out, po)
	}
	return out, nil
}

func (m *mockPurchaseOrderRepository) UpdateStatus(ctx context.Context, q repository.Querier, id uuid.UUID, status string) error {
	po, ok := m.orders[id]
	if !ok {
		return repository.ErrPurchaseOrderNotFound
	}
	po.Status = status
	return nil
}

func (m *mockPurchaseOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.orders[id]; !ok {
		return repository.ErrPurchaseOrderNotFound
	}
	delete(m.orders, id)
	return nil
}

type mockPaymentRepository struct {
	payments map[uuid.UUID]*domain.Payment
}

func newMockPaymentRepository() *mockPaymentRepository {
	return &mockPaymentRepository{payments: make(map[uuid.UUID]*domain.Payment)}
}

func (m *mockPaymentRepository) Create(ctx context.Context, q repository.Querier, payment *domain.Payment) error {
	m.payments[payment.ID] = payment
	return nil
}

func (m *mockPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	payment, ok := m.payments[id]
	if !ok {
		return nil, repository.ErrPaymentNotFound
	}
	return payment, nil
}

func (m *mockPaymentRepository) List(ctx context.Context, paymentType string) ([]*domain.Payment, error) {
	var out []*domain.Payment
	for _, payment := range m.payments {
		if paymentType == "" || payment.Type == paymentType {
			out = append(out, payment)
		}
	}
	return out, nil
}

func (m *mockPaymentRepository) Count(ctx context.Context) (int, error) {
	return len(m.payments), nil
}

type mockPaymentTermRepository struct {
	terms map[uuid.UUID]*domain.PaymentTerm
}

func newMockPaymentTermRepository(terms ...*domain.PaymentTerm) *mockPaymentTermRepository {
	m := &mockPaymentTermRepository{terms: make(map[uuid.UUID]*domain.PaymentTerm)}
	for _, t := range terms {
		m.terms[t.ID] = t
	}
	return m
}

func (m *mockPaymentTermRepository) Create(ctx context.Context, term *domain.PaymentTerm) error {
	m.terms[term.ID] = term
	return nil
}

func (m *mockPaymentTermRepository) Update(ctx context.Context, term *domain.PaymentTerm) error {
	if _, ok := m.terms[term.ID]; !ok {
		return repository.ErrPaymentTermNotFound
	}
	m.terms[term.ID] = term
	return nil
}

func (m *mockPaymentTermRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.terms[id]; !ok {
		return repository.ErrPaymentTermNotFound
	}
	delete(m.terms, id)
	return nil
}

func (m *mockPaymentTermRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.PaymentTerm, error) {
	term, ok := m.terms[id]
	if !ok {
		return nil, repository.ErrPaymentTermNotFound
	}
	return term, nil
}

func (m *mockPaymentTermRepository) FindByName(ctx context.Context, name string) (*domain.PaymentTerm, error) {
	for _, term := range m.terms {
		if term.Name == name {
			return term, nil
		}
	}
	return nil, repository.ErrPaymentTermNotFound
}

func (m *mockPaymentTermRepository) List(ctx context.Context) ([]*domain.PaymentTerm, error) {
	var out []*domain.PaymentTerm
	for _, term := range m.terms {
		out = append(out, term)
	}
	return out, nil
}

type mockLedgerRepository struct {
	entries []*domain.InventoryLedgerEntry
}

func newMockLedgerRepository() *mockLedgerRepository {
	return &mockLedgerRepository{}
}

func (m *mockLedgerRepository) Record(ctx context.Context, entry *domain.InventoryLedgerEntry) error {
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockLedgerRepository) ListBySKU(ctx context.Context, sku string) ([]*domain.InventoryLedgerEntry, error) {
	var out []*domain.InventoryLedgerEntry
	for _, entry := range m.entries {
		if entry.SKU == sku {
			out = append(out, entry)
		}
	}
	return out, nil
}

type mockSettingsRepository struct {
	settings domain.SystemSettings
}

func (m *mockSettingsRepository) Get(ctx context.Context) (*domain.SystemSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsRepository) Save(ctx context.Context, settings *domain.SystemSettings) error {
	m.settings = *settings
	return nil
}

// mockGateway is an in-memory payment gateway.
type mockGateway struct {
	intents map[string]*payments.Intent
	created int
}

func newMockGateway() *mockGateway {
	return &mockGateway{intents: make(map[string]*payments.Intent)}
}

func (m *mockGateway) CreateIntent(ctx context.Context, amount decimal.Decimal, email, orderID string) (*payments.Intent, error) {
	m.created++
	intent := &payments.Intent{
		ID:           "pi_" + uuid.NewString(),
		ClientSecret: "secret_" + uuid.NewString(),
		Status:       "requires_payment_method",
		Amount:       amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart(),
		ReceiptEmail: email,
		OrderID:      orderID,
	}
	m.intents[intent.ID] = intent
	return intent, nil
}

func (m *mockGateway) GetIntent(ctx context.Context, intentID string) (*payments.Intent, error) {
	intent, ok := m.intents[intentID]
	if !ok {
		return nil, errors.New("intent not found")
	}
	return intent, nil
}

func (m *mockGateway) succeed(intentID string) {
	if intent, ok := m.intents[intentID]; ok {
		intent.Status = "succeeded"
	}
}
