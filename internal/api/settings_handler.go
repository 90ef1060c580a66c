package api

import (
	"net/http"

	"github.com/content-distributor/internal/models"
	"github.com/content-distributor/internal/service"
	"github.com/content-distributor/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// SettingsHandler handles the summarizer key endpoints
type SettingsHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(services *service.Services, log zerolog.Logger) *SettingsHandler {
	return &SettingsHandler{
		services: services,
		log:      log.With().Str("handler", "settings").Logger(),
	}
}

// Get handles GET /v1/settings. The key itself is never returned.
func (h *SettingsHandler) Get(c *gin.Context) {
	status, err := h.services.Settings.Status(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to read settings")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read settings"})
		return
	}
	c.JSON(http.StatusOK, status)
}

// SetAPIKey handles PUT /v1/settings/api-key
func (h *SettingsHandler) SetAPIKey(c *gin.Context) {
	var req models.APIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.services.Settings.SetAPIKey(c.Request.Context(), req.APIKey); err != nil {
		if vErr, ok := validation.AsValidationError(err); ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Message, "field": vErr.Field})
			return
		}
		h.log.Error().Err(err).Msg("Failed to store API key")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store api key"})
		return
	}

	h.Get(c)
}

// ClearAPIKey handles DELETE /v1/settings/api-key
func (h *SettingsHandler) ClearAPIKey(c *gin.Context) {
	if err := h.services.Settings.ClearAPIKey(c.Request.Context()); err != nil {
		h.log.Error().Err(err).Msg("Failed to delete API key")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete api key"})
		return
	}
	c.Status(http.StatusNoContent)
}
