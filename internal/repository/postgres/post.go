package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"postdesk/internal/domain"
	"postdesk/internal/domain/models"
	"postdesk/internal/domain/repositories"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postColumns = `p.id, p.slug, p.title, p.primary_keyword, p.meta_title, p.meta_description,
	p.hero_answer, p.sections, p.status, p.author_id, p.cluster_id, p.word_count,
	p.reading_time_mins, p.scheduled_for, p.published_at, p.article_schema,
	p.created_at, p.updated_at`

// PostgresPostRepository implements the PostRepository interface
type PostgresPostRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewPostRepository creates a new post repository
func NewPostRepository(config *RepositoryConfig) repositories.PostRepository {
	return &PostgresPostRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a new post
func (r *PostgresPostRepository) Create(ctx context.Context, post *models.Post) error {
	sections, err := json.Marshal(post.Sections)
	if err != nil {
		return fmt.Errorf("encode sections: %w", err)
	}
	schema, err := json.Marshal(post.ArticleSchema)
	if err != nil {
		return fmt.Errorf("encode article schema: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (
			id, slug, title, primary_keyword, meta_title, meta_description, hero_answer,
			sections, status, author_id, cluster_id, word_count, reading_time_mins,
			scheduled_for, published_at, article_schema, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING created_at, updated_at
	`, r.tables.Posts)

	executor := GetExecutor(ctx, r.pool)
	err = executor.QueryRow(ctx, query,
		post.ID,
		post.Slug,
		post.Title,
		post.PrimaryKeyword,
		post.MetaTitle,
		post.MetaDescription,
		post.HeroAnswer,
		sections,
		string(post.Status),
		post.AuthorID,
		post.ClusterID,
		post.WordCount,
		post.ReadingTimeMins,
		post.ScheduledFor,
		post.PublishedAt,
		schema,
		post.CreatedAt,
		post.UpdatedAt,
	).Scan(&post.CreatedAt, &post.UpdatedAt)

	if err != nil {
		switch {
		case IsPgDuplicateError(err) && PgConstraintName(err) == r.tables.postsSlugConstraint():
			return &domain.ConflictError{
				Message:      fmt.Sprintf("slug '%s' already exists", post.Slug),
				ResourceType: "post",
				ResourceID:   post.Slug,
			}
		case IsPgDuplicateError(err):
			return &domain.ConflictError{
				Message:      fmt.Sprintf("post '%s' already exists", post.ID),
				ResourceType: "post",
				ResourceID:   post.ID,
			}
		case IsPgForeignKeyError(err):
			return fmt.Errorf("author %s: %w", post.AuthorID, domain.ErrNotFound)
		}
		return fmt.Errorf("create post: %w", err)
	}

	return nil
}

// GetByID retrieves a post by ID
func (r *PostgresPostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s p
		WHERE p.id = $1
	`, postColumns, r.tables.Posts)

	executor := GetExecutor(ctx, r.pool)
	post, err := scanPost(executor.QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) || IsPgInvalidInputError(err) {
			return nil, fmt.Errorf("post %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get post: %w", err)
	}

	return post, nil
}

// SlugExists reports whether a post with the given slug exists
func (r *PostgresPostRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE slug = $1)`, r.tables.Posts)

	var exists bool
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, slug).Scan(&exists); err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}

	return exists, nil
}

// List returns a page of posts with their author and cluster, newest update first
func (r *PostgresPostRepository) List(ctx context.Context, filter *models.PostFilter, limit, offset int) ([]models.PostWithRelations, error) {
	where, args := buildPostWhere(filter)
	args = append(args, limit, offset)

	query := fmt.Sprintf(`
		SELECT %s,
			a.id, a.name, a.slug,
			c.id, c.name, c.slug
		FROM %s p
		LEFT JOIN %s a ON a.id = p.author_id
		LEFT JOIN %s c ON c.id = p.cluster_id
		%s
		ORDER BY p.updated_at DESC, p.id DESC
		LIMIT $%d OFFSET $%d
	`, postColumns, r.tables.Posts, r.tables.Authors, r.tables.Clusters, where, len(args)-1, len(args))

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := []models.PostWithRelations{}
	for rows.Next() {
		var (
			row                                 postRow
			authorID, authorName, authorSlug    *string
			clusterID, clusterName, clusterSlug *string
		)
		dest := append(row.dest(), &authorID, &authorName, &authorSlug, &clusterID, &clusterName, &clusterSlug)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}

		post, err := row.toModel()
		if err != nil {
			return nil, err
		}

		item := models.PostWithRelations{Post: *post}
		if authorID != nil {
			item.Author = &models.AuthorSummary{ID: *authorID, Name: deref(authorName), Slug: deref(authorSlug)}
		}
		if clusterID != nil {
			item.Cluster = &models.ClusterSummary{ID: *clusterID, Name: deref(clusterName), Slug: deref(clusterSlug)}
		}
		posts = append(posts, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}

	return posts, nil
}

// Count returns the number of posts matching filter
func (r *PostgresPostRepository) Count(ctx context.Context, filter *models.PostFilter) (int, error) {
	where, args := buildPostWhere(filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s p %s`, r.tables.Posts, where)

	var total int
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}

	return total, nil
}

// UpdatePublishState writes a status transition in one statement and returns the new row
func (r *PostgresPostRepository) UpdatePublishState(ctx context.Context, id string, patch *models.PublishPatch) (*models.Post, error) {
	schema, err := json.Marshal(patch.ArticleSchema)
	if err != nil {
		return nil, fmt.Errorf("encode article schema: %w", err)
	}

	query := fmt.Sprintf(`
		UPDATE %s p
		SET status = $1, scheduled_for = $2, published_at = $3, article_schema = $4, updated_at = $5
		WHERE p.id = $6
		RETURNING %s
	`, r.tables.Posts, postColumns)

	executor := GetExecutor(ctx, r.pool)
	post, err := scanPost(executor.QueryRow(ctx, query,
		string(patch.Status),
		patch.ScheduledFor,
		patch.PublishedAt,
		schema,
		patch.UpdatedAt,
		id,
	))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("post %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("update post publish state: %w", err)
	}

	r.logger.Debug("post publish state written", "id", id, "status", patch.Status)

	return post, nil
}

// postRow mirrors postColumns; JSONB columns are scanned raw and decoded in toModel
type postRow struct {
	post     models.Post
	status   string
	sections []byte
	schema   []byte
}

func (pr *postRow) dest() []interface{} {
	p := &pr.post
	return []interface{}{
		&p.ID,
		&p.Slug,
		&p.Title,
		&p.PrimaryKeyword,
		&p.MetaTitle,
		&p.MetaDescription,
		&p.HeroAnswer,
		&pr.sections,
		&pr.status,
		&p.AuthorID,
		&p.ClusterID,
		&p.WordCount,
		&p.ReadingTimeMins,
		&p.ScheduledFor,
		&p.PublishedAt,
		&pr.schema,
		&p.CreatedAt,
		&p.UpdatedAt,
	}
}

func (pr *postRow) toModel() (*models.Post, error) {
	post := pr.post
	post.Status = models.PostStatus(pr.status)

	post.Sections = []models.Section{}
	if len(pr.sections) > 0 {
		if err := json.Unmarshal(pr.sections, &post.Sections); err != nil {
			return nil, fmt.Errorf("decode sections for post %s: %w", post.ID, err)
		}
	}
	if len(pr.schema) > 0 {
		if err := json.Unmarshal(pr.schema, &post.ArticleSchema); err != nil {
			return nil, fmt.Errorf("decode article schema for post %s: %w", post.ID, err)
		}
	}

	post.CreatedAt = post.CreatedAt.UTC()
	post.UpdatedAt = post.UpdatedAt.UTC()
	post.ScheduledFor = utcPtr(post.ScheduledFor)
	post.PublishedAt = utcPtr(post.PublishedAt)

	return &post, nil
}

func scanPost(row pgx.Row) (*models.Post, error) {
	var pr postRow
	if err := row.Scan(pr.dest()...); err != nil {
		return nil, err
	}
	return pr.toModel()
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
