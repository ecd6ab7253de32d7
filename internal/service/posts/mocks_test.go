package posts

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"postdesk/internal/domain"
	"postdesk/internal/domain/models"
	"postdesk/internal/domain/repositories"
	"postdesk/internal/domain/services"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockPostRepo is an in-memory PostRepository
type mockPostRepo struct {
	mu      sync.Mutex
	posts   map[string]*models.Post
	authors map[string]*models.Author

	listErr   error
	countErr  error
	createErr error
	updateErr error

	// slugRace makes SlugExists report false even for taken slugs
	slugRace bool

	creates int
	updates int
}

func newMockPostRepo() *mockPostRepo {
	return &mockPostRepo{
		posts:   make(map[string]*models.Post),
		authors: make(map[string]*models.Author),
	}
}

func (m *mockPostRepo) put(post *models.Post) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *post
	m.posts[post.ID] = &cp
}

func (m *mockPostRepo) get(id string) *models.Post {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.posts[id]; ok {
		cp := *p
		return &cp
	}
	return nil
}

func (m *mockPostRepo) Create(ctx context.Context, post *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	for _, p := range m.posts {
		if p.Slug == post.Slug {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("slug '%s' already exists", post.Slug),
				ResourceType: "post",
				ResourceID:   post.Slug,
			}
		}
	}
	cp := *post
	m.posts[post.ID] = &cp
	m.creates++
	return nil
}

func (m *mockPostRepo) GetByID(ctx context.Context, id string) (*models.Post, error) {
	if p := m.get(id); p != nil {
		return p, nil
	}
	return nil, fmt.Errorf("post %s: %w", id, domain.ErrNotFound)
}

func (m *mockPostRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.slugRace {
		return false, nil
	}
	for _, p := range m.posts {
		if p.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockPostRepo) matching(filter *models.PostFilter) []*models.Post {
	search := strings.ToLower(filter.Search)
	var out []*models.Post
	for _, p := range m.posts {
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.AuthorID != "" && p.AuthorID != filter.AuthorID {
			continue
		}
		if filter.ClusterID != "" && (p.ClusterID == nil || *p.ClusterID != filter.ClusterID) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Title), search) &&
			!strings.Contains(strings.ToLower(p.PrimaryKeyword), search) &&
			!strings.Contains(strings.ToLower(p.Slug), search) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (m *mockPostRepo) List(ctx context.Context, filter *models.PostFilter, limit, offset int) ([]models.PostWithRelations, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	all := m.matching(filter)
	result := []models.PostWithRelations{}
	for i := offset; i < len(all) && i < offset+limit; i++ {
		item := models.PostWithRelations{Post: *all[i]}
		if a, ok := m.authors[all[i].AuthorID]; ok {
			item.Author = &models.AuthorSummary{ID: a.ID, Name: a.Name, Slug: a.Slug}
		}
		result = append(result, item)
	}
	return result, nil
}

func (m *mockPostRepo) Count(ctx context.Context, filter *models.PostFilter) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.countErr != nil {
		return 0, m.countErr
	}
	return len(m.matching(filter)), nil
}

func (m *mockPostRepo) UpdatePublishState(ctx context.Context, id string, patch *models.PublishPatch) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	p, ok := m.posts[id]
	if !ok {
		return nil, fmt.Errorf("post %s: %w", id, domain.ErrNotFound)
	}
	p.Status = patch.Status
	p.ScheduledFor = patch.ScheduledFor
	p.PublishedAt = patch.PublishedAt
	p.ArticleSchema = patch.ArticleSchema
	p.UpdatedAt = patch.UpdatedAt
	m.updates++
	cp := *p
	return &cp, nil
}

// mockAuthorRepo serves authors from a map
type mockAuthorRepo struct {
	authors map[string]*models.Author
	getErr  error
}

func (m *mockAuthorRepo) Create(ctx context.Context, author *models.Author) error {
	m.authors[author.ID] = author
	return nil
}

func (m *mockAuthorRepo) GetByID(ctx context.Context, id string) (*models.Author, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if a, ok := m.authors[id]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("author %s: %w", id, domain.ErrNotFound)
}

// mockTxManager runs fn inline and counts calls
type mockTxManager struct {
	calls int
}

func (m *mockTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	m.calls++
	return fn(ctx)
}

// mockReadiness returns a fixed report
type mockReadiness struct {
	report services.ReadinessReport
	calls  int
}

func (m *mockReadiness) Check(post *models.Post) services.ReadinessReport {
	m.calls++
	return m.report
}

// mockPublisher records external publish calls
type mockPublisher struct {
	externalID string
	err        error
	calls      int
}

func (m *mockPublisher) Publish(ctx context.Context, post *models.Post) (string, error) {
	m.calls++
	return m.externalID, m.err
}

func (m *mockPublisher) Name() string { return "mock" }
