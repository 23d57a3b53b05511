package transport

import (
	"net/http"

	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/domain"
	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/middleware"
	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/repository"
	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RegisterPaymentRequest represents a manual payment registration payload
type RegisterPaymentRequest struct {
	ContactID uuid.UUID       `json:"contact" validate:"required"`
	Type      string          `json:"payment_type" validate:"required,oneof=inbound outbound"`
	Amount    decimal.Decimal `json:"amount" validate:"required"`
	Method    string          `json:"payment_method" validate:"required"`
	InvoiceID *uuid.UUID      `json:"linked_invoice"`
	BillID    *uuid.UUID      `json:"linked_bill"`
	Notes     string          `json:"notes"`
}

// PaymentTermRequest represents the create/update payment term payload
type PaymentTermRequest struct {
	Name                 string          `json:"name" validate:"required"`
	EarlyPaymentDiscount bool            `json:"early_payment_discount"`
	DiscountPercentage   decimal.Decimal `json:"discount_percentage"`
	DiscountDays         int             `json:"discount_days" validate:"gte=0"`
	Computation          string          `json:"early_pay_discount_computation" validate:"omitempty,oneof=base_amount total_amount"`
}

// BillingHandler handles HTTP requests for invoices, bills, payments and
// payment terms
type BillingHandler struct {
	billingService service.BillingService
	logger         *zap.Logger
}

// NewBillingHandler creates a new BillingHandler
func NewBillingHandler(billingService service.BillingService, logger *zap.Logger) *BillingHandler {
	return &BillingHandler{
		billingService: billingService,
		logger:         logger,
	}
}

// RegisterRoutes registers all billing routes. Customers can see their own
// invoices; everything else is back-office.
func (h *BillingHandler) RegisterRoutes(r chi.Router, authMiddleware, adminOnly func(http.Handler) http.Handler) {
	r.Route("/api/invoices", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/mine", h.MyInvoices)

		r.Group(func(r chi.Router) {
			r.Use(adminOnly)
			r.Get("/", h.ListInvoices)
			r.Get("/{id}", h.GetInvoice)
		})
	})

	r.Route("/api/bills", func(r chi.Router) {
		r.Use(authMiddleware, adminOnly)
		r.Get("/", h.ListBills)
		r.Get("/{id}", h.GetBill)
	})

	r.Route("/api/payments", func(r chi.Router) {
		r.Use(authMiddleware, adminOnly)
		r.Get("/", h.ListPayments)
		r.Post("/", h.RegisterPayment)
	})

	r.Route("/api/payment-terms", func(r chi.Router) {
		r.Use(authMiddleware, adminOnly)
		r.Get("/", h.ListPaymentTerms)
		r.Post("/", h.CreatePaymentTerm)
		r.Put("/{id}", h.UpdatePaymentTerm)
		r.Delete("/{id}", h.DeletePaymentTerm)
	})
}

// ListInvoices handles the back-office invoice listing
func (h *BillingHandler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.billingService.ListInvoices(r.Context())
	if err != nil {
		h.logger.Error("Failed to list invoices", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list invoices")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, invoices)
}

// MyInvoices handles listing the caller's own invoices. A user whose account
// has no linked contact simply has none.
func (h *BillingHandler) MyInvoices(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	invoices, err := h.billingService.MyInvoices(r.Context(), identity.UserID)
	if err != nil {
		h.logger.Error("Failed to list invoices", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list invoices")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, invoices)
}

// GetInvoice handles fetching one customer invoice
func (h *BillingHandler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid invoice id")
		return
	}

	invoice, err := h.billingService.GetInvoice(r.Context(), id)
	if err != nil {
		if err == repository.ErrInvoiceNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "invoice not found")
			return
		}
		h.logger.Error("Failed to get invoice", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get invoice")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, invoice)
}

// ListBills handles the vendor bill listing
func (h *BillingHandler) ListBills(w http.ResponseWriter, r *http.Request) {
	bills, err := h.billingService.ListBills(r.Context())
	if err != nil {
		h.logger.Error("Failed to list bills", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list bills")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, bills)
}

// GetBill handles fetching one vendor bill
func (h *BillingHandler) GetBill(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid bill id")
		return
	}

	bill, err := h.billingService.GetBill(r.Context(), id)
	if err != nil {
		if err == repository.ErrVendorBillNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "bill not found")
			return
		}
		h.logger.Error("Failed to get bill", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get bill")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, bill)
}

// RegisterPayment handles registering a manual payment against an invoice
// and/or a bill
func (h *BillingHandler) RegisterPayment(w http.ResponseWriter, r *http.Request) {
	var req RegisterPaymentRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Payment validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	payment, err := h.billingService.RegisterPayment(r.Context(), service.RegisterPaymentInput{
		ContactID: req.ContactID,
		Type:      req.Type,
		Amount:    req.Amount,
		Method:    req.Method,
		InvoiceID: req.InvoiceID,
		BillID:    req.BillID,
		Notes:     req.Notes,
	})
	if err != nil {
		switch err {
		case service.ErrPaymentTarget, service.ErrInvalidAmount:
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		case repository.ErrContactNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "contact not found")
		case repository.ErrInvoiceNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "invoice not found")
		case repository.ErrVendorBillNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "bill not found")
		default:
			h.logger.Error("Failed to register payment", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to register payment")
		}
		return
	}

	h.logger.Info("Payment registered",
		zap.String("payment_number", payment.PaymentNumber),
		zap.String("amount", payment.Amount.String()),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, payment)
}

// ListPayments handles the payment listing, optionally filtered by direction
func (h *BillingHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	paymentType := r.URL.Query().Get("type")
	if paymentType != "" && paymentType != domain.PaymentInbound && paymentType != domain.PaymentOutbound {
		middleware.RespondWithError(w, http.StatusBadRequest, "type must be inbound or outbound")
		return
	}

	payments, err := h.billingService.ListPayments(r.Context(), paymentType)
	if err != nil {
		h.logger.Error("Failed to list payments", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list payments")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, payments)
}

// ListPaymentTerms handles the payment term listing
func (h *BillingHandler) ListPaymentTerms(w http.ResponseWriter, r *http.Request) {
	terms, err := h.billingService.ListPaymentTerms(r.Context())
	if err != nil {
		h.logger.Error("Failed to list payment terms", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list payment terms")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, terms)
}

// CreatePaymentTerm handles creating a payment term
func (h *BillingHandler) CreatePaymentTerm(w http.ResponseWriter, r *http.Request) {
	var req PaymentTermRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Payment term validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	term := paymentTermFromRequest(&req)
	if err := h.billingService.CreatePaymentTerm(r.Context(), term); err != nil {
		h.logger.Error("Failed to create payment term", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create payment term")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, term)
}

// UpdatePaymentTerm handles updating a payment term
func (h *BillingHandler) UpdatePaymentTerm(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid payment term id")
		return
	}

	var req PaymentTermRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Payment term validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	term := paymentTermFromRequest(&req)
	term.ID = id
	if err := h.billingService.UpdatePaymentTerm(r.Context(), term); err != nil {
		if err == repository.ErrPaymentTermNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "payment term not found")
			return
		}
		h.logger.Error("Failed to update payment term", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update payment term")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, term)
}

// DeletePaymentTerm handles deleting a payment term. The default term is
// protected.
func (h *BillingHandler) DeletePaymentTerm(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid payment term id")
		return
	}

	if err := h.billingService.DeletePaymentTerm(r.Context(), id); err != nil {
		switch err {
		case repository.ErrPaymentTermNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "payment term not found")
		case service.ErrDefaultTermProtected:
			middleware.RespondWithError(w, http.StatusConflict, err.Error())
		default:
			h.logger.Error("Failed to delete payment term", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete payment term")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "payment term deleted"})
}

func paymentTermFromRequest(req *PaymentTermRequest) *domain.PaymentTerm {
	return &domain.PaymentTerm{
		Name:                 req.Name,
		EarlyPaymentDiscount: req.EarlyPaymentDiscount,
		DiscountPercentage:   req.DiscountPercentage,
		DiscountDays:         req.DiscountDays,
		Computation:          req.Computation,
	}
}
