package repositories

import (
	"context"

	"postdesk/internal/domain/models"
)

// AuthorRepository defines data access operations for authors
type AuthorRepository interface {
	// Create creates an author and fills in the generated ID and timestamp
	Create(ctx context.Context, author *models.Author) error

	// GetByID retrieves an author by ID (domain.ErrNotFound if absent)
	GetByID(ctx context.Context, id string) (*models.Author, error)
}

// ClusterRepository defines data access operations for topic clusters
type ClusterRepository interface {
	// Create creates a cluster and fills in the generated ID and timestamp
	Create(ctx context.Context, cluster *models.Cluster) error
}
