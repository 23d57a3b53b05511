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

// VariantRequest is one sellable combination on a product payload.
type VariantRequest struct {
	SKU           string          `json:"sku" validate:"required"`
	Color         string          `json:"color"`
	Size          string          `json:"size"`
	Stock         int             `json:"stock" validate:"gte=0"`
	SalesPrice    decimal.Decimal `json:"sales_price"`
	SalesTax      decimal.Decimal `json:"sales_tax"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	PurchaseTax   decimal.Decimal `json:"purchase_tax"`
}

// ProductImageRequest is an uploaded image reference on a product payload.
type ProductImageRequest struct {
	URL   string `json:"url" validate:"required"`
	Color string `json:"color"`
}

// ProductRequest represents the create/update product payload
type ProductRequest struct {
	Name       string                `json:"name" validate:"required"`
	CategoryID uuid.UUID             `json:"category_id" validate:"required"`
	BrandID    *uuid.UUID            `json:"brand_id"`
	StyleID    *uuid.UUID            `json:"style_id"`
	TypeID     *uuid.UUID            `json:"type_id"`
	Material   string                `json:"material"`
	Published  bool                  `json:"published"`
	Variants   []VariantRequest      `json:"variants" validate:"required,min=1,dive"`
	Images     []ProductImageRequest `json:"images" validate:"dive"`
}

// AdjustStockRequest represents a manual stock adjustment payload
type AdjustStockRequest struct {
	SKU      string `json:"sku" validate:"required"`
	NewStock int    `json:"new_stock" validate:"gte=0"`
	Reason   string `json:"reason" validate:"required"`
	Notes    string `json:"notes"`
}

// ProductHandler handles HTTP requests for catalog and inventory operations
type ProductHandler struct {
	catalogService service.CatalogService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(catalogService service.CatalogService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// RegisterRoutes registers all catalog and inventory routes
func (h *ProductHandler) RegisterRoutes(r chi.Router, authMiddleware, adminOnly func(http.Handler) http.Handler) {
	r.Route("/api/products", func(r chi.Router) {
		// Public storefront browse
		r.Get("/", h.ListPublished)
		r.Get("/{id}", h.Get)

		// Admin catalog management
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware, adminOnly)
			r.Get("/all", h.ListAll)
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)

			r.Get("/inventory", h.Inventory)
			r.Post("/inventory/adjust", h.AdjustStock)
			r.Get("/inventory/{sku}/history", h.StockHistory)
		})
	})
}

// ListPublished handles the public catalog listing with optional filters
func (h *ProductHandler) ListPublished(w http.ResponseWriter, r *http.Request) {
	filter := repository.ProductFilter{
		Material:    r.URL.Query().Get("material"),
		Search:      r.URL.Query().Get("search"),
		InStockOnly: r.URL.Query().Get("in_stock") == "true",
	}
	if raw := r.URL.Query().Get("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid category_id")
			return
		}
		filter.CategoryID = &id
	}
	if raw := r.URL.Query().Get("type_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid type_id")
			return
		}
		filter.TypeID = &id
	}

	products, err := h.catalogService.ListPublishedProducts(r.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// ListAll handles the admin listing of all products, published or not
func (h *ProductHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalogService.ListProducts(r.Context())
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// Get handles fetching a single product
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := h.catalogService.GetProduct(r.Context(), id)
	if err != nil {
		if err == repository.ErrProductNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to get product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Create handles product creation
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Product validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product := productFromRequest(&req)
	if err := h.catalogService.CreateProduct(r.Context(), product); err != nil {
		h.logger.Error("Failed to create product", zap.Error(err))
		h.respondProductError(w, err)
		return
	}

	h.logger.Info("Product created", zap.String("product_id", product.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// Update handles product updates; variants are replaced wholesale
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req ProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Product validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product := productFromRequest(&req)
	product.ID = id
	if err := h.catalogService.UpdateProduct(r.Context(), product); err != nil {
		h.logger.Error("Failed to update product", zap.Error(err))
		h.respondProductError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Delete handles product deletion
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := h.catalogService.DeleteProduct(r.Context(), id); err != nil {
		if err == repository.ErrProductNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to delete product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

// Inventory handles the flattened per-variant stock listing
func (h *ProductHandler) Inventory(w http.ResponseWriter, r *http.Request) {
	rows, err := h.catalogService.Inventory(r.Context())
	if err != nil {
		h.logger.Error("Failed to load inventory", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load inventory")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, rows)
}

// AdjustStock handles a manual stock correction with an audit trail entry
func (h *ProductHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req AdjustStockRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Stock adjustment validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.catalogService.AdjustStock(r.Context(), identity.UserID, req.SKU, req.NewStock, req.Reason, req.Notes)
	if err != nil {
		switch err {
		case repository.ErrProductNotFound, repository.ErrVariantNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "variant not found")
		case service.ErrStockUnchanged, service.ErrNegativeStock:
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("Failed to adjust stock", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to adjust stock")
		}
		return
	}

	h.logger.Info("Stock adjusted",
		zap.String("sku", req.SKU),
		zap.Int("new_stock", req.NewStock),
		zap.String("admin_id", identity.UserID.String()),
	)
	middleware.RespondWithJSON(w, http.StatusOK, entry)
}

// StockHistory handles the adjustment audit trail for one SKU
func (h *ProductHandler) StockHistory(w http.ResponseWriter, r *http.Request) {
	sku := chi.URLParam(r, "sku")

	entries, err := h.catalogService.StockHistory(r.Context(), sku)
	if err != nil {
		h.logger.Error("Failed to load stock history", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load stock history")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, entries)
}

func (h *ProductHandler) respondProductError(w http.ResponseWriter, err error) {
	switch err {
	case repository.ErrProductNotFound:
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
	case repository.ErrSKUAlreadyExists:
		middleware.RespondWithError(w, http.StatusConflict, err.Error())
	case service.ErrNoVariants, service.ErrDuplicateSKU:
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
	default:
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to save product")
	}
}

func productFromRequest(req *ProductRequest) *domain.Product {
	product := &domain.Product{
		Name:       req.Name,
		CategoryID: req.CategoryID,
		BrandID:    req.BrandID,
		StyleID:    req.StyleID,
		TypeID:     req.TypeID,
		Material:   req.Material,
		Published:  req.Published,
	}
	for _, v := range req.Variants {
		product.Variants = append(product.Variants, domain.Variant{
			SKU:           v.SKU,
			Color:         v.Color,
			Size:          v.Size,
			Stock:         v.Stock,
			SalesPrice:    v.SalesPrice,
			SalesTax:      v.SalesTax,
			PurchasePrice: v.PurchasePrice,
			PurchaseTax:   v.PurchaseTax,
		})
	}
	for _, img := range req.Images {
		product.Images = append(product.Images, domain.ProductImage{URL: img.URL, Color: img.Color})
	}
	return product
}
