package transport

import (
	"net/http"

	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/domain"
	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/middleware"
	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/repository"
	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ContactRequest represents the create contact payload
type ContactRequest struct {
	Name    string `json:"name" validate:"required"`
	Type    string `json:"type" validate:"omitempty,oneof=customer vendor admin"`
	Email   string `json:"email" validate:"omitempty,email"`
	Mobile  string `json:"mobile"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
}

// ContactHandler handles HTTP requests for the partner ledger
type ContactHandler struct {
	contactService service.ContactService
	logger         *zap.Logger
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(contactService service.ContactService, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
		logger:         logger,
	}
}

// RegisterRoutes registers the contact routes. Contacts are back-office data.
func (h *ContactHandler) RegisterRoutes(r chi.Router, authMiddleware, adminOnly func(http.Handler) http.Handler) {
	r.Route("/api/contacts", func(r chi.Router) {
		r.Use(authMiddleware, adminOnly)
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
	})
}

// Create handles registering a standalone contact such as a vendor
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Contact validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	contact := &domain.Contact{
		Name:    req.Name,
		Type:    req.Type,
		Email:   req.Email,
		Mobile:  req.Mobile,
		City:    req.City,
		State:   req.State,
		Pincode: req.Pincode,
	}
	if err := h.contactService.Create(r.Context(), contact); err != nil {
		h.logger.Error("Failed to create contact", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create contact")
		return
	}

	h.logger.Info("Contact created",
		zap.String("contact_id", contact.ID.String()),
		zap.String("type", contact.Type),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, contact)
}

// Get handles fetching one contact
func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid contact id")
		return
	}

	contact, err := h.contactService.Get(r.Context(), id)
	if err != nil {
		if err == repository.ErrContactNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "contact not found")
			return
		}
		h.logger.Error("Failed to get contact", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get contact")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, contact)
}

// List handles the contact listing, optionally filtered by type
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	contactType := r.URL.Query().Get("type")
	if contactType != "" {
		switch contactType {
		case domain.ContactCustomer, domain.ContactVendor, domain.ContactAdmin:
		default:
			middleware.RespondWithError(w, http.StatusBadRequest, "type must be customer, vendor or admin")
			return
		}
	}

	contacts, err := h.contactService.List(r.Context(), contactType)
	if err != nil {
		h.logger.Error("Failed to list contacts", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list contacts")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, contacts)
}
