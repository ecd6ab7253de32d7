package handler

import (
	"log/slog"
	"net/http"

	"postdesk/internal/domain/models"
	"postdesk/internal/domain/services"
	"postdesk/internal/httputil"
)

// PostHandler handles the post collection endpoints
type PostHandler struct {
	postService services.PostService
	logger      *slog.Logger
}

// NewPostHandler creates a new post handler
func NewPostHandler(postService services.PostService, logger *slog.Logger) *PostHandler {
	return &PostHandler{
		postService: postService,
		logger:      logger,
	}
}

// ListPosts returns a filtered page of posts
// GET /api/posts?status=&clusterId=&authorId=&search=&page=&limit=
func (h *PostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &services.ListPostsRequest{
		Status:    query.Get("status"),
		ClusterID: query.Get("clusterId"),
		AuthorID:  query.Get("authorId"),
		Search:    query.Get("search"),
		Page:      httputil.QueryInt(r, "page"),
		Limit:     httputil.QueryInt(r, "limit"),
	}

	page, err := h.postService.ListPosts(r.Context(), req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, page)
}

type postResponse struct {
	Post *models.Post `json:"post"`
}

// CreatePost creates a new post
// POST /api/posts
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req services.CreatePostRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleBodyError(w, err)
		return
	}
	req.EditorID = httputil.GetEditorID(r)

	post, err := h.postService.CreatePost(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, postResponse{Post: post})
}
