package posts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"postdesk/internal/config"
	"postdesk/internal/domain"
	"postdesk/internal/domain/models"
	"postdesk/internal/domain/repositories"
	"postdesk/internal/domain/services"

	"github.com/google/uuid"
)

// postService implements the PostService interface
type postService struct {
	postRepo        repositories.PostRepository
	authorRepo      repositories.AuthorRepository
	txManager       repositories.TransactionManager
	contentAnalyzer services.ContentAnalyzer
	logger          *slog.Logger
	now             func() time.Time
}

// NewPostService creates a new post service
func NewPostService(
	postRepo repositories.PostRepository,
	authorRepo repositories.AuthorRepository,
	txManager repositories.TransactionManager,
	contentAnalyzer services.ContentAnalyzer,
	logger *slog.Logger,
) services.PostService {
	return &postService{
		postRepo:        postRepo,
		authorRepo:      authorRepo,
		txManager:       txManager,
		contentAnalyzer: contentAnalyzer,
		logger:          logger,
		now:             time.Now,
	}
}

// ListPosts returns one page of posts matching every provided filter.
// The total is counted separately and may be slightly stale under concurrent writes.
func (s *postService) ListPosts(ctx context.Context, req *services.ListPostsRequest) (*services.PostPage, error) {
	req.Search = strings.TrimSpace(req.Search)
	if err := validateListPostsRequest(req); err != nil {
		return nil, asValidationError(err)
	}

	page, limit := normalizePaging(req.Page, req.Limit)
	offset := (page - 1) * limit

	filter := &models.PostFilter{
		Status:    models.PostStatus(req.Status),
		ClusterID: req.ClusterID,
		AuthorID:  req.AuthorID,
		Search:    req.Search,
	}

	posts, err := s.postRepo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, err
	}

	total, err := s.postRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("posts listed",
		"status", req.Status,
		"page", page,
		"limit", limit,
		"returned", len(posts),
		"total", total,
	)

	return &services.PostPage{
		Posts: posts,
		Pagination: services.Pagination{
			Page:    page,
			Limit:   limit,
			Total:   total,
			HasMore: offset+len(posts) < total,
		},
	}, nil
}

// normalizePaging applies defaults to non-positive values and caps the limit
func normalizePaging(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = config.DefaultPageLimit
	}
	if limit > config.MaxPageLimit {
		limit = config.MaxPageLimit
	}
	return page, limit
}

// CreatePost validates the request, enforces the author and slug rules and inserts one post
func (s *postService) CreatePost(ctx context.Context, req *services.CreatePostRequest) (*models.Post, error) {
	normalizeCreateRequest(req)
	if err := validateCreatePostRequest(req); err != nil {
		return nil, asValidationError(err)
	}

	status := models.PostStatusDraft
	if req.Status != "" {
		status, _ = models.ParsePostStatus(req.Status)
	}

	now := s.now().UTC()

	var scheduledFor *time.Time
	if status == models.PostStatusScheduled {
		t, err := parseTimestamp(*req.ScheduledFor)
		if err != nil {
			return nil, domain.NewValidationError([]domain.FieldError{{Field: "scheduledFor", Message: "must be an RFC 3339 timestamp"}})
		}
		if !t.After(now) {
			return nil, domain.NewRuleViolation("scheduledFor must be in the future")
		}
		scheduledFor = &t
	}

	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}

	sections := make([]models.Section, len(req.Sections))
	for i, section := range req.Sections {
		sections[i] = models.Section{Heading: strings.TrimSpace(section.Heading), Body: section.Body}
	}

	wordCount := countPostWords(s.contentAnalyzer, req.HeroAnswer, req.Sections)

	post := &models.Post{
		ID:              id,
		Slug:            req.Slug,
		Title:           req.Title,
		PrimaryKeyword:  req.PrimaryKeyword,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		HeroAnswer:      req.HeroAnswer,
		Sections:        sections,
		Status:          status,
		AuthorID:        req.AuthorID,
		ClusterID:       req.ClusterID,
		WordCount:       wordCount,
		ReadingTimeMins: s.contentAnalyzer.ReadingTimeMinutes(wordCount),
		ScheduledFor:    scheduledFor,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		author, err := s.authorRepo.GetByID(txCtx, req.AuthorID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.NewRuleViolation(fmt.Sprintf("author '%s' does not exist", req.AuthorID))
			}
			return err
		}

		exists, err := s.postRepo.SlugExists(txCtx, req.Slug)
		if err != nil {
			return err
		}
		if exists {
			return slugTaken(req.Slug)
		}

		post.ArticleSchema = models.NewArticleSchema(post.Title, deref(post.MetaDescription), author.Name)
		if status == models.PostStatusPublished {
			post.PublishedAt = &now
			post.ArticleSchema.Stamp(now)
		}

		if err := s.postRepo.Create(txCtx, post); err != nil {
			var conflict *domain.ConflictError
			if errors.As(err, &conflict) && conflict.ResourceID == req.Slug {
				return slugTaken(req.Slug)
			}
			if errors.Is(err, domain.ErrNotFound) {
				return domain.NewRuleViolation(fmt.Sprintf("author '%s' does not exist", req.AuthorID))
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("post created",
		"id", post.ID,
		"slug", post.Slug,
		"status", post.Status,
		"word_count", post.WordCount,
		"editor_id", req.EditorID,
	)

	return post, nil
}

func slugTaken(slug string) error {
	return domain.NewRuleViolation(fmt.Sprintf("slug '%s' already exists", slug))
}

// normalizeCreateRequest trims identifiers and drops empty optional fields
func normalizeCreateRequest(req *services.CreatePostRequest) {
	req.ID = strings.TrimSpace(req.ID)
	req.AuthorID = strings.TrimSpace(req.AuthorID)
	req.Slug = strings.TrimSpace(req.Slug)
	req.Title = strings.TrimSpace(req.Title)
	req.PrimaryKeyword = strings.TrimSpace(req.PrimaryKeyword)
	req.Status = strings.TrimSpace(req.Status)
	req.ClusterID = emptyToNil(req.ClusterID)
	req.MetaTitle = emptyToNil(req.MetaTitle)
	req.MetaDescription = emptyToNil(req.MetaDescription)
	req.ScheduledFor = emptyToNil(req.ScheduledFor)
}

func emptyToNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
