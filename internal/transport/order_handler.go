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

// OrderItemRequest is one checkout line in the place-order payload.
type OrderItemRequest struct {
	ProductID uuid.UUID       `json:"product_id" validate:"required"`
	SKU       string          `json:"sku" validate:"required"`
	Qty       int             `json:"qty" validate:"required,gt=0"`
	Price     decimal.Decimal `json:"price"`
}

// ShippingAddressRequest is the delivery destination in the payload.
type ShippingAddressRequest struct {
	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
	Country    string `json:"country" validate:"required"`
}

// PlaceOrderRequest represents the checkout payload
type PlaceOrderRequest struct {
	Items           []OrderItemRequest     `json:"order_items" validate:"required,min=1,dive"`
	ShippingAddress ShippingAddressRequest `json:"shipping_address" validate:"required"`
	PaymentMethod   string                 `json:"payment_method"`
	CouponCode      string                 `json:"coupon_code"`
}

// OrderHandler handles HTTP requests for the order workflow
type OrderHandler struct {
	orderService service.OrderService
	logger       *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// RegisterRoutes registers all order routes
func (h *OrderHandler) RegisterRoutes(r chi.Router, authMiddleware, adminOnly func(http.Handler) http.Handler) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Use(authMiddleware)

		r.Post("/", h.Place)
		r.Get("/mine", h.MyOrders)
		r.Get("/{id}", h.Get)
		r.Post("/{id}/verify-payment", h.VerifyPayment)

		r.Group(func(r chi.Router) {
			r.Use(adminOnly)
			r.Get("/", h.List)
			r.Post("/{id}/deliver", h.MarkDelivered)
		})
	})
}

// Place handles checkout: it creates the unpaid order and returns it with the
// gateway client secret.
func (h *OrderHandler) Place(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req PlaceOrderRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Place order validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := service.PlaceOrderInput{
		ShippingAddress: domainShippingAddress(req.ShippingAddress),
		PaymentMethod:   req.PaymentMethod,
		CouponCode:      req.CouponCode,
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, service.OrderItemInput{
			ProductID: item.ProductID,
			SKU:       item.SKU,
			Qty:       item.Qty,
			Price:     item.Price,
		})
	}

	placed, err := h.orderService.Place(r.Context(), identity.UserID, input)
	if err != nil {
		h.respondPlaceError(w, err)
		return
	}

	h.logger.Info("Order placed",
		zap.String("order_id", placed.Order.ID.String()),
		zap.String("user_id", identity.UserID.String()),
		zap.String("total", placed.Order.TotalPrice.String()),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, placed)
}

// VerifyPayment handles confirming a succeeded gateway charge. Verifying an
// already-paid order is a no-op.
func (h *OrderHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	order, err := h.orderService.GetOrder(r.Context(), id)
	if err != nil {
		if err == repository.ErrOrderNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "order not found")
			return
		}
		h.logger.Error("Failed to get order", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get order")
		return
	}
	if order.UserID != identity.UserID && !identity.IsAdmin() {
		middleware.RespondWithError(w, http.StatusForbidden, "insufficient permissions")
		return
	}

	verified, err := h.orderService.VerifyPayment(r.Context(), id)
	if err != nil {
		switch err {
		case service.ErrPaymentNotSucceeded:
			middleware.RespondWithError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			h.logger.Error("Payment verification failed", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to verify payment")
		}
		return
	}

	h.logger.Info("Payment verified", zap.String("order_id", verified.ID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, verified)
}

// Get handles fetching a single order. Customers can only see their own;
// admins can see any.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	order, err := h.orderService.GetOrder(r.Context(), id)
	if err != nil {
		if err == repository.ErrOrderNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "order not found")
			return
		}
		h.logger.Error("Failed to get order", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get order")
		return
	}

	if order.UserID != identity.UserID && !identity.IsAdmin() {
		middleware.RespondWithError(w, http.StatusForbidden, "insufficient permissions")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, order)
}

// MyOrders handles listing the caller's own orders
func (h *OrderHandler) MyOrders(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	orders, err := h.orderService.MyOrders(r.Context(), identity.UserID)
	if err != nil {
		h.logger.Error("Failed to list orders", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

// List handles the admin listing of all orders
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderService.ListOrders(r.Context())
	if err != nil {
		h.logger.Error("Failed to list orders", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

// MarkDelivered handles flipping an order's delivered flag
func (h *OrderHandler) MarkDelivered(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	order, err := h.orderService.MarkDelivered(r.Context(), id)
	if err != nil {
		if err == repository.ErrOrderNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "order not found")
			return
		}
		h.logger.Error("Failed to mark order delivered", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to mark order delivered")
		return
	}

	h.logger.Info("Order delivered", zap.String("order_id", order.ID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, order)
}

func domainShippingAddress(req ShippingAddressRequest) domain.ShippingAddress {
	return domain.ShippingAddress{
		Address:    req.Address,
		City:       req.City,
		PostalCode: req.PostalCode,
		Country:    req.Country,
	}
}

func (h *OrderHandler) respondPlaceError(w http.ResponseWriter, err error) {
	switch err {
	case service.ErrEmptyOrder:
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
	case repository.ErrProductNotFound, repository.ErrVariantNotFound:
		middleware.RespondWithError(w, http.StatusNotFound, "variant not found")
	case repository.ErrInsufficientStock:
		middleware.RespondWithError(w, http.StatusConflict, err.Error())
	case repository.ErrCouponNotFound:
		middleware.RespondWithError(w, http.StatusNotFound, "coupon not found")
	case repository.ErrCouponExhausted,
		service.ErrCouponInactive,
		service.ErrCouponExpired,
		service.ErrCouponUsageReached,
		service.ErrCouponNotApplicable,
		service.ErrCartBelowMinimum,
		service.ErrCouponContactLock,
		service.ErrOfferNotStarted,
		service.ErrOfferEnded,
		service.ErrOfferSalesOnly,
		service.ErrNotFirstTimeBuyer:
		middleware.RespondWithError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		h.logger.Error("Failed to place order", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to place order")
	}
}
