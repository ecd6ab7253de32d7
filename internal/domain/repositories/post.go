package repositories

import (
	"context"

	"postdesk/internal/domain/models"
)

// PostRepository defines data access operations for posts
type PostRepository interface {
	// Create inserts a post. Returns *domain.ConflictError when the slug or id is taken
	// and domain.ErrNotFound when the author does not exist.
	Create(ctx context.Context, post *models.Post) error

	// GetByID retrieves a post by ID (domain.ErrNotFound if absent)
	GetByID(ctx context.Context, id string) (*models.Post, error)

	// SlugExists reports whether any post already uses slug
	SlugExists(ctx context.Context, slug string) (bool, error)

	// List returns one page of posts matching filter, most recently updated first,
	// each joined with its author and cluster
	List(ctx context.Context, filter *models.PostFilter, limit, offset int) ([]models.PostWithRelations, error)

	// Count returns the number of posts matching filter, ignoring pagination
	Count(ctx context.Context, filter *models.PostFilter) (int, error)

	// UpdatePublishState applies patch to a single post and returns the updated row
	UpdatePublishState(ctx context.Context, id string, patch *models.PublishPatch) (*models.Post, error)
}
