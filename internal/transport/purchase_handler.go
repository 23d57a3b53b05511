package transport

import (
	"net/http"

	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/middleware"
	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/repository"
	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PurchaseItemRequest is one inbound line on a new purchase order.
type PurchaseItemRequest struct {
	ProductID uuid.UUID       `json:"product_id" validate:"required"`
	SKU       string          `json:"sku" validate:"required"`
	Quantity  int             `json:"quantity" validate:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"required"`
	Tax       decimal.Decimal `json:"tax"`
}

// CreatePurchaseOrderRequest represents the purchase order payload
type CreatePurchaseOrderRequest struct {
	VendorID uuid.UUID             `json:"vendor" validate:"required"`
	Items    []PurchaseItemRequest `json:"items" validate:"required,min=1,dive"`
}

// PurchaseHandler handles HTTP requests for the purchasing workflow
type PurchaseHandler struct {
	purchaseService service.PurchaseService
	logger          *zap.Logger
}

// NewPurchaseHandler creates a new PurchaseHandler
func NewPurchaseHandler(purchaseService service.PurchaseService, logger *zap.Logger) *PurchaseHandler {
	return &PurchaseHandler{
		purchaseService: purchaseService,
		logger:          logger,
	}
}

// RegisterRoutes registers all purchasing routes. Purchasing is admin-only.
func (h *PurchaseHandler) RegisterRoutes(r chi.Router, authMiddleware, adminOnly func(http.Handler) http.Handler) {
	r.Route("/api/purchases", func(r chi.Router) {
		r.Use(authMiddleware, adminOnly)
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Post("/{id}/receive", h.ReceiveAndBill)
	})
}

// Create handles drafting a purchase order to a vendor
func (h *PurchaseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreatePurchaseOrderRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Purchase order validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	items := make([]service.PurchaseItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.PurchaseItemInput{
			ProductID: item.ProductID,
			SKU:       item.SKU,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Tax:       item.Tax,
		})
	}

	po, err := h.purchaseService.CreateOrder(r.Context(), req.VendorID, items)
	if err != nil {
		switch err {
		case service.ErrEmptyPurchaseOrder:
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		case repository.ErrContactNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "vendor not found")
		case repository.ErrProductNotFound, repository.ErrVariantNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "variant not found")
		default:
			h.logger.Error("Failed to create purchase order", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create purchase order")
		}
		return
	}

	h.logger.Info("Purchase order created",
		zap.String("order_number", po.OrderNumber),
		zap.String("vendor_id", po.VendorID.String()),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, po)
}

// ReceiveAndBill handles receiving a draft purchase order: stock goes up and
// a vendor bill is raised.
func (h *PurchaseHandler) ReceiveAndBill(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid purchase order id")
		return
	}

	bill, err := h.purchaseService.ReceiveAndBill(r.Context(), id)
	if err != nil {
		switch err {
		case repository.ErrPurchaseOrderNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "purchase order not found")
		case service.ErrPONotDraft:
			middleware.RespondWithError(w, http.StatusConflict, err.Error())
		default:
			h.logger.Error("Failed to receive purchase order", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to receive purchase order")
		}
		return
	}

	h.logger.Info("Purchase order received",
		zap.String("purchase_order_id", id.String()),
		zap.String("bill_number", bill.BillNumber),
	)
	middleware.RespondWithJSON(w, http.StatusOK, bill)
}

// Get handles fetching one purchase order
func (h *PurchaseHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid purchase order id")
		return
	}

	po, err := h.purchaseService.GetOrder(r.Context(), id)
	if err != nil {
		if err == repository.ErrPurchaseOrderNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "purchase order not found")
			return
		}
		h.logger.Error("Failed to get purchase order", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get purchase order")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, po)
}

// List handles listing all purchase orders
func (h *PurchaseHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.purchaseService.ListOrders(r.Context())
	if err != nil {
		h.logger.Error("Failed to list purchase orders", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list purchase orders")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, orders)
}
