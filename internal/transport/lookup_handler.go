package transport

import (
	"net/http"

	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/middleware"
	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/repository"
	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LookupRequest represents the create payload shared by all master-data
// resources
type LookupRequest struct {
	Name string `json:"name" validate:"required"`
}

// LookupHandler handles HTTP requests for one master-data resource (brand,
// color, size, style, type, category). One instance is mounted per resource.
type LookupHandler struct {
	lookupService service.LookupService
	resource      string
	logger        *zap.Logger
}

// NewLookupHandler creates a LookupHandler bound to one resource path.
func NewLookupHandler(lookupService service.LookupService, resource string, logger *zap.Logger) *LookupHandler {
	return &LookupHandler{
		lookupService: lookupService,
		resource:      resource,
		logger:        logger,
	}
}

// RegisterRoutes registers the routes for this resource. Listing is public so
// the storefront can render filters; mutation is admin-only.
func (h *LookupHandler) RegisterRoutes(r chi.Router, authMiddleware, adminOnly func(http.Handler) http.Handler) {
	r.Route("/api/"+h.resource, func(r chi.Router) {
		r.Get("/", h.List)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware, adminOnly)
			r.Post("/", h.Create)
			r.Delete("/{id}", h.Delete)
		})
	})
}

// List handles listing records, optionally filtered by a search term
func (h *LookupHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.lookupService.List(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		h.logger.Error("Failed to list records", zap.String("resource", h.resource), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list records")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, records)
}

// Create handles creating a record
func (h *LookupHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req LookupRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Lookup validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record, err := h.lookupService.Create(r.Context(), req.Name)
	if err != nil {
		if err == repository.ErrLookupAlreadyExists {
			middleware.RespondWithError(w, http.StatusConflict, err.Error())
			return
		}
		h.logger.Error("Failed to create record", zap.String("resource", h.resource), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create record")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, record)
}

// Delete handles deleting a record
func (h *LookupHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.lookupService.Delete(r.Context(), id); err != nil {
		if err == repository.ErrLookupNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "record not found")
			return
		}
		h.logger.Error("Failed to delete record", zap.String("resource", h.resource), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete record")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "record deleted"})
}
