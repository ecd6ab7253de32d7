package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"postdesk/internal/domain/models"
	"postdesk/internal/domain/services"
	"postdesk/internal/httputil"
)

// PublishHandler handles post publish and schedule requests
type PublishHandler struct {
	publishService services.PublishService
	logger         *slog.Logger
}

// NewPublishHandler creates a new publish handler
func NewPublishHandler(publishService services.PublishService, logger *slog.Logger) *PublishHandler {
	return &PublishHandler{
		publishService: publishService,
		logger:         logger,
	}
}

type publishResponse struct {
	Success          bool              `json:"success"`
	Status           models.PostStatus `json:"status"`
	PublishedAt      *time.Time        `json:"publishedAt,omitempty"`
	ScheduledFor     *time.Time        `json:"scheduledFor,omitempty"`
	ShopifyArticleID *string           `json:"shopifyArticleId,omitempty"`
	Post             *models.Post      `json:"post"`
}

// PublishPost publishes a post now or schedules it
// POST /api/posts/{id}/publish
func (h *PublishHandler) PublishPost(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "post ID is required")
		return
	}

	var req services.PublishPostRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil && !errors.Is(err, httputil.ErrEmptyBody) {
		handleBodyError(w, err)
		return
	}
	req.EditorID = httputil.GetEditorID(r)

	result, err := h.publishService.PublishPost(r.Context(), id, &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, publishResponse{
		Success:          true,
		Status:           result.Status,
		PublishedAt:      result.PublishedAt,
		ScheduledFor:     result.ScheduledFor,
		ShopifyArticleID: result.ExternalID,
		Post:             result.Post,
	})
}
