package transport

import (
	"net/http"
	"time"

	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/domain"
	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/middleware"
	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/repository"
	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ValidateCouponItemRequest is one cart line in a validation payload.
type ValidateCouponItemRequest struct {
	ProductID uuid.UUID       `json:"product_id" validate:"required"`
	SKU       string          `json:"sku" validate:"required"`
	Qty       int             `json:"qty" validate:"required,gt=0"`
	Price     decimal.Decimal `json:"price"`
}

// ValidateCouponRequest represents the coupon validation payload
type ValidateCouponRequest struct {
	Code  string                      `json:"code" validate:"required"`
	Items []ValidateCouponItemRequest `json:"items" validate:"required,min=1,dive"`
}

// OfferRequest represents the create/update offer payload
type OfferRequest struct {
	Name          string          `json:"name" validate:"required"`
	DiscountType  string          `json:"discount_type" validate:"required,oneof=percentage flat"`
	DiscountValue decimal.Decimal `json:"discount_value" validate:"required"`
	StartDate     time.Time       `json:"start_date" validate:"required"`
	EndDate       time.Time       `json:"end_date" validate:"required"`
	AvailableOn   string          `json:"available_on" validate:"required,oneof=both sales website"`
}

// CouponRequest represents the create/update coupon payload
type CouponRequest struct {
	Code             string          `json:"code" validate:"required"`
	OfferID          uuid.UUID       `json:"discount_offer" validate:"required"`
	ContactID        *uuid.UUID      `json:"contact"`
	ApplicableRules  []uuid.UUID     `json:"applicable_rules"`
	MinCartValue     decimal.Decimal `json:"min_cart_value"`
	IsFirstTimeBuyer bool            `json:"is_first_time_user_only"`
	UsageLimit       int             `json:"usage_limit" validate:"gte=0"`
	ExpiryDate       time.Time       `json:"expiry_date" validate:"required"`
	IsActive         bool            `json:"is_active"`
}

// DiscountHandler handles HTTP requests for the discount engine
type DiscountHandler struct {
	discountService service.DiscountService
	logger          *zap.Logger
}

// NewDiscountHandler creates a new DiscountHandler
func NewDiscountHandler(discountService service.DiscountService, logger *zap.Logger) *DiscountHandler {
	return &DiscountHandler{
		discountService: discountService,
		logger:          logger,
	}
}

// RegisterRoutes registers validation for customers and offer/coupon CRUD for
// admins.
func (h *DiscountHandler) RegisterRoutes(r chi.Router, authMiddleware, adminOnly func(http.Handler) http.Handler) {
	r.Route("/api/discounts", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/validate", h.Validate)

		r.Group(func(r chi.Router) {
			r.Use(adminOnly)

			r.Route("/offers", func(r chi.Router) {
				r.Get("/", h.ListOffers)
				r.Post("/", h.CreateOffer)
				r.Get("/{id}", h.GetOffer)
				r.Put("/{id}", h.UpdateOffer)
				r.Delete("/{id}", h.DeleteOffer)
			})

			r.Route("/coupons", func(r chi.Router) {
				r.Get("/", h.ListCoupons)
				r.Post("/", h.CreateCoupon)
				r.Get("/{id}", h.GetCoupon)
				r.Put("/{id}", h.UpdateCoupon)
				r.Delete("/{id}", h.DeleteCoupon)
			})
		})
	})
}

// Validate handles evaluating a coupon code against the submitted cart. It
// never mutates the coupon; redemption happens at checkout.
func (h *DiscountHandler) Validate(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req ValidateCouponRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Coupon validation payload invalid", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	items := make([]service.ValidationItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.ValidationItem{
			ProductID: item.ProductID,
			SKU:       item.SKU,
			Qty:       item.Qty,
			Price:     item.Price,
		})
	}

	result, err := h.discountService.Validate(r.Context(), req.Code, items, identity.UserID)
	if err != nil {
		h.respondValidationError(w, err)
		return
	}

	h.logger.Info("Coupon validated",
		zap.String("code", result.Coupon.Code),
		zap.String("discount", result.Discount.String()),
	)
	middleware.RespondWithJSON(w, http.StatusOK, result)
}

// ListOffers handles listing all discount offers
func (h *DiscountHandler) ListOffers(w http.ResponseWriter, r *http.Request) {
	offers, err := h.discountService.ListOffers(r.Context())
	if err != nil {
		h.logger.Error("Failed to list offers", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list offers")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, offers)
}

// CreateOffer handles creating a discount offer
func (h *DiscountHandler) CreateOffer(w http.ResponseWriter, r *http.Request) {
	var req OfferRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Offer validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	offer := offerFromRequest(&req)
	if err := h.discountService.CreateOffer(r.Context(), offer); err != nil {
		h.logger.Error("Failed to create offer", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create offer")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, offer)
}

// GetOffer handles fetching one discount offer
func (h *DiscountHandler) GetOffer(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid offer id")
		return
	}

	offer, err := h.discountService.GetOffer(r.Context(), id)
	if err != nil {
		if err == repository.ErrOfferNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "offer not found")
			return
		}
		h.logger.Error("Failed to get offer", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get offer")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, offer)
}

// UpdateOffer handles updating a discount offer
func (h *DiscountHandler) UpdateOffer(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid offer id")
		return
	}

	var req OfferRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Offer validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	offer := offerFromRequest(&req)
	offer.ID = id
	if err := h.discountService.UpdateOffer(r.Context(), offer); err != nil {
		if err == repository.ErrOfferNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "offer not found")
			return
		}
		h.logger.Error("Failed to update offer", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update offer")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, offer)
}

// DeleteOffer handles deleting a discount offer
func (h *DiscountHandler) DeleteOffer(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid offer id")
		return
	}

	if err := h.discountService.DeleteOffer(r.Context(), id); err != nil {
		if err == repository.ErrOfferNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "offer not found")
			return
		}
		h.logger.Error("Failed to delete offer", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete offer")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "offer deleted"})
}

// ListCoupons handles listing all coupons
func (h *DiscountHandler) ListCoupons(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.discountService.ListCoupons(r.Context())
	if err != nil {
		h.logger.Error("Failed to list coupons", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list coupons")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, coupons)
}

// CreateCoupon handles issuing a coupon under an offer
func (h *DiscountHandler) CreateCoupon(w http.ResponseWriter, r *http.Request) {
	var req CouponRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Coupon validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	coupon := couponFromRequest(&req)
	if err := h.discountService.CreateCoupon(r.Context(), coupon); err != nil {
		h.respondCouponError(w, err)
		return
	}

	h.logger.Info("Coupon created", zap.String("code", coupon.Code))
	middleware.RespondWithJSON(w, http.StatusCreated, coupon)
}

// GetCoupon handles fetching one coupon with its parent offer
func (h *DiscountHandler) GetCoupon(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid coupon id")
		return
	}

	coupon, err := h.discountService.GetCoupon(r.Context(), id)
	if err != nil {
		if err == repository.ErrCouponNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "coupon not found")
			return
		}
		h.logger.Error("Failed to get coupon", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get coupon")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, coupon)
}

// UpdateCoupon handles updating a coupon
func (h *DiscountHandler) UpdateCoupon(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid coupon id")
		return
	}

	var req CouponRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Coupon validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	coupon := couponFromRequest(&req)
	coupon.ID = id
	if err := h.discountService.UpdateCoupon(r.Context(), coupon); err != nil {
		h.respondCouponError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, coupon)
}

// DeleteCoupon handles deleting a coupon
func (h *DiscountHandler) DeleteCoupon(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid coupon id")
		return
	}

	if err := h.discountService.DeleteCoupon(r.Context(), id); err != nil {
		if err == repository.ErrCouponNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "coupon not found")
			return
		}
		h.logger.Error("Failed to delete coupon", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete coupon")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "coupon deleted"})
}

// respondValidationError maps every distinct rejection reason to its own
// message so the storefront can tell the customer exactly why.
func (h *DiscountHandler) respondValidationError(w http.ResponseWriter, err error) {
	switch err {
	case repository.ErrCouponNotFound:
		middleware.RespondWithError(w, http.StatusNotFound, "coupon not found")
	case service.ErrCouponInactive,
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
		h.logger.Error("Coupon validation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to validate coupon")
	}
}

func (h *DiscountHandler) respondCouponError(w http.ResponseWriter, err error) {
	switch err {
	case repository.ErrCouponNotFound:
		middleware.RespondWithError(w, http.StatusNotFound, "coupon not found")
	case repository.ErrOfferNotFound:
		middleware.RespondWithError(w, http.StatusBadRequest, "offer not found")
	case repository.ErrCouponAlreadyExists:
		middleware.RespondWithError(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error("Failed to save coupon", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to save coupon")
	}
}

func offerFromRequest(req *OfferRequest) *domain.DiscountOffer {
	return &domain.DiscountOffer{
		Name:          req.Name,
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		AvailableOn:   req.AvailableOn,
	}
}

func couponFromRequest(req *CouponRequest) *domain.Coupon {
	return &domain.Coupon{
		Code:             req.Code,
		OfferID:          req.OfferID,
		ContactID:        req.ContactID,
		ApplicableRules:  req.ApplicableRules,
		MinCartValue:     req.MinCartValue,
		IsFirstTimeBuyer: req.IsFirstTimeBuyer,
		UsageLimit:       req.UsageLimit,
		ExpiryDate:       req.ExpiryDate,
		IsActive:         req.IsActive,
	}
}
