package api

import (
	"context"
	"net/http"

	"github.com/content-distributor/internal/models"
	"github.com/content-distributor/internal/service"
	"github.com/content-distributor/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// PageHandler renders the submission page
type PageHandler struct {
	services *service.Services
	log      zerolog.Logger
}

type pageData struct {
	ArticleURL     string
	FieldError     string
	SetupError     string
	Toast          *models.Toast
	Settings       *models.SettingsStatus
	PollIntervalMs int64
}

// NewPageHandler creates a new PageHandler
func NewPageHandler(services *service.Services, log zerolog.Logger) *PageHandler {
	return &PageHandler{
		services: services,
		log:      log.With().Str("handler", "page").Logger(),
	}
}

// Index handles GET /
func (h *PageHandler) Index(c *gin.Context) {
	h.render(c, http.StatusOK, pageData{})
}

// Submit handles POST /submit from the HTML form
func (h *PageHandler) Submit(c *gin.Context) {
	var req models.SubmitRequest
	if err := c.ShouldBind(&req); err != nil {
		h.render(c, http.StatusBadRequest, pageData{FieldError: "Please enter a valid URL"})
		return
	}
	req.Source = models.SourceWebApp

	result, err := h.services.Submission.Submit(context.WithoutCancel(c.Request.Context()), &req)
	if err != nil {
		if vErr, ok := validation.AsValidationError(err); ok {
			h.render(c, http.StatusBadRequest, pageData{ArticleURL: req.ArticleURL, FieldError: vErr.Message})
			return
		}
		h.log.Error().Err(err).Msg("Failed to record submission")
		h.render(c, http.StatusInternalServerError, pageData{
			ArticleURL: req.ArticleURL,
			Toast: &models.Toast{
				Title:       "Error",
				Description: "Failed to submit URL. Please try again.",
				Variant:     models.ToastDestructive,
			},
		})
		return
	}

	data := pageData{Toast: &result.Toast}
	if !result.ClearInput {
		data.ArticleURL = req.ArticleURL
	}
	h.render(c, http.StatusOK, data)
}

// Setup handles POST /setup, the one-time API key form
func (h *PageHandler) Setup(c *gin.Context) {
	var req models.APIKeyRequest
	if err := c.ShouldBind(&req); err != nil {
		h.render(c, http.StatusBadRequest, pageData{SetupError: "Please enter an API key"})
		return
	}

	if err := h.services.Settings.SetAPIKey(c.Request.Context(), req.APIKey); err != nil {
		if vErr, ok := validation.AsValidationError(err); ok {
			h.render(c, http.StatusBadRequest, pageData{SetupError: vErr.Message})
			return
		}
		h.log.Error().Err(err).Msg("Failed to store API key")
		h.render(c, http.StatusInternalServerError, pageData{SetupError: "Failed to save the API key"})
		return
	}

	c.Redirect(http.StatusSeeOther, "/")
}

func (h *PageHandler) render(c *gin.Context, status int, data pageData) {
	settings, err := h.services.Settings.Status(c.Request.Context())
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to read settings for page")
		settings = &models.SettingsStatus{}
	}
	data.Settings = settings
	data.PollIntervalMs = h.services.History.PollInterval().Milliseconds()

	c.HTML(status, "index.tmpl", data)
}
