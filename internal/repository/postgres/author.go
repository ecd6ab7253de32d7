package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"postdesk/internal/domain"
	"postdesk/internal/domain/models"
	"postdesk/internal/domain/repositories"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresAuthorRepository implements the AuthorRepository interface
type PostgresAuthorRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewAuthorRepository creates a new author repository
func NewAuthorRepository(config *RepositoryConfig) repositories.AuthorRepository {
	return &PostgresAuthorRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create creates a new author
func (r *PostgresAuthorRepository) Create(ctx context.Context, author *models.Author) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, slug)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, r.tables.Authors)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, author.Name, author.Slug).Scan(&author.ID, &author.CreatedAt)
	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("author '%s' already exists", author.Slug),
				ResourceType: "author",
				ResourceID:   author.Slug,
			}
		}
		return fmt.Errorf("create author: %w", err)
	}

	return nil
}

// GetByID retrieves an author by ID
func (r *PostgresAuthorRepository) GetByID(ctx context.Context, id string) (*models.Author, error) {
	query := fmt.Sprintf(`
		SELECT id, name, slug, created_at
		FROM %s
		WHERE id = $1
	`, r.tables.Authors)

	var author models.Author
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(
		&author.ID,
		&author.Name,
		&author.Slug,
		&author.CreatedAt,
	)

	if err != nil {
		if IsPgNoRowsError(err) || IsPgInvalidInputError(err) {
			return nil, fmt.Errorf("author %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get author: %w", err)
	}

	return &author, nil
}

// PostgresClusterRepository implements the ClusterRepository interface
type PostgresClusterRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewClusterRepository creates a new cluster repository
func NewClusterRepository(config *RepositoryConfig) repositories.ClusterRepository {
	return &PostgresClusterRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create creates a new cluster
func (r *PostgresClusterRepository) Create(ctx context.Context, cluster *models.Cluster) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, slug, pillar_keyword)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, r.tables.Clusters)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, cluster.Name, cluster.Slug, cluster.PillarKeyword).Scan(&cluster.ID, &cluster.CreatedAt)
	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("cluster '%s' already exists", cluster.Slug),
				ResourceType: "cluster",
				ResourceID:   cluster.Slug,
			}
		}
		return fmt.Errorf("create cluster: %w", err)
	}

	return nil
}
