package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/content-distributor/internal/models"
	"github.com/content-distributor/internal/service"
	"github.com/content-distributor/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// streamHeartbeat is how often an idle event stream gets a comment line
var streamHeartbeat = 15 * time.Second

// SubmissionHandler handles submission endpoints
type SubmissionHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewSubmissionHandler creates a new SubmissionHandler
func NewSubmissionHandler(services *service.Services, log zerolog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		services: services,
		log:      log.With().Str("handler", "submission").Logger(),
	}
}

// Create handles POST /v1/submissions
func (h *SubmissionHandler) Create(c *gin.Context) {
	var req models.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	req.Source = models.SourceWebApp

	// A client that goes away must not abort a submission half way.
	ctx := context.WithoutCancel(c.Request.Context())

	result, err := h.services.Submission.Submit(ctx, &req)
	if err != nil {
		if vErr, ok := validation.AsValidationError(err); ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Message, "field": vErr.Field})
			return
		}
		h.log.Error().Err(err).Msg("Failed to record submission")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record submission"})
		return
	}

	status := http.StatusCreated
	if result.Submission.Status != models.StatusSuccess {
		status = http.StatusBadGateway
	}
	c.JSON(status, result)
}

// List handles GET /v1/submissions
func (h *SubmissionHandler) List(c *gin.Context) {
	list, err := h.services.History.List(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to read history")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read history"})
		return
	}

	c.JSON(http.StatusOK, models.HistoryResponse{
		Submissions:    list,
		PollIntervalMs: h.services.History.PollInterval().Milliseconds(),
	})
}

// Clear handles DELETE /v1/submissions
func (h *SubmissionHandler) Clear(c *gin.Context) {
	if err := h.services.History.Clear(c.Request.Context()); err != nil {
		h.log.Error().Err(err).Msg("Failed to clear history")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear history"})
		return
	}
	c.Status(http.StatusNoContent)
}

// Stream handles GET /v1/submissions/stream as server-sent events.
// One "submissions" event carries the full list on connect and after every change.
func (h *SubmissionHandler) Stream(c *gin.Context) {
	ctx := c.Request.Context()

	updates, unsubscribe := h.services.History.Subscribe()
	defer unsubscribe()

	list, err := h.services.History.List(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to read history")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read history"})
		return
	}

	// The stream outlives the server's WriteTimeout.
	rc := http.NewResponseController(c.Writer)
	if err := rc.SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		h.log.Warn().Err(err).Msg("Failed to clear write deadline for stream")
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	c.SSEvent("submissions", list)
	c.Writer.Flush()

	heartbeat := time.NewTicker(streamHeartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case list, ok := <-updates:
			if !ok {
				return
			}
			c.SSEvent("submissions", list)
			c.Writer.Flush()
		case <-heartbeat.C:
			if _, err := c.Writer.WriteString(": keep-alive\n\n"); err != nil {
				return
			}
			c.Writer.Flush()
		}
	}
}
