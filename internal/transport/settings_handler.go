package transport

import (
	"net/http"

	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/middleware"
	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// UpdateSettingsRequest represents the settings update payload
type UpdateSettingsRequest struct {
	AutomaticInvoicing bool `json:"automatic_invoicing"`
}

// SettingsHandler handles HTTP requests for the global system settings
type SettingsHandler struct {
	settingsService service.SettingsService
	logger          *zap.Logger
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService service.SettingsService, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
		logger:          logger,
	}
}

// RegisterRoutes registers the settings routes. Settings are admin-only.
func (h *SettingsHandler) RegisterRoutes(r chi.Router, authMiddleware, adminOnly func(http.Handler) http.Handler) {
	r.Route("/api/settings", func(r chi.Router) {
		r.Use(authMiddleware, adminOnly)
		r.Get("/", h.Get)
		r.Put("/", h.Update)
	})
}

// Get handles reading the current settings
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, h.settingsService.Get())
}

// Update handles overwriting the settings singleton
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateSettingsRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Settings validation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	settings, err := h.settingsService.Update(r.Context(), req.AutomaticInvoicing)
	if err != nil {
		h.logger.Error("Failed to update settings", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update settings")
		return
	}

	h.logger.Info("Settings updated", zap.Bool("automatic_invoicing", settings.AutomaticInvoicing))
	middleware.RespondWithJSON(w, http.StatusOK, settings)
}
