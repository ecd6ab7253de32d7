package posts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"postdesk/internal/domain"
	"postdesk/internal/domain/models"
	"postdesk/internal/domain/services"
)

const (
	testAuthorID  = "11111111-1111-4111-8111-111111111111"
	testClusterID = "22222222-2222-4222-8222-222222222222"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type postFixture struct {
	svc     *postService
	posts   *mockPostRepo
	authors *mockAuthorRepo
	tx      *mockTxManager
}

func newPostFixture() *postFixture {
	posts := newMockPostRepo()
	author := &models.Author{ID: testAuthorID, Name: "Ada Writer", Slug: "ada-writer"}
	posts.authors[author.ID] = author
	authors := &mockAuthorRepo{authors: map[string]*models.Author{author.ID: author}}
	tx := &mockTxManager{}

	svc := NewPostService(posts, authors, tx, NewContentAnalyzer(), discardLogger()).(*postService)
	svc.now = func() time.Time { return fixedNow }

	return &postFixture{svc: svc, posts: posts, authors: authors, tx: tx}
}

func validCreateRequest() *services.CreatePostRequest {
	return &services.CreatePostRequest{
		AuthorID:       testAuthorID,
		Slug:           "how-to-brew-coffee",
		Title:          "How to Brew Coffee",
		PrimaryKeyword: "brew coffee",
		HeroAnswer:     "Use fresh beans and hot water.",
		Sections: []services.SectionInput{
			{Heading: "Beans", Body: "Buy whole beans."},
			{Heading: "Water", Body: "Heat to 94 degrees."},
		},
	}
}

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func strPtr(s string) *string { return &s }

func TestCreatePost_DerivedFields(t *testing.T) {
	tests := []struct {
		name        string
		hero        string
		bodies      []string
		wantWords   int
		wantMinutes int
	}{
		{
			name:        "counts hero and every section body",
			hero:        "one two  three",
			bodies:      []string{"four five", "\tsix\nseven  "},
			wantWords:   7,
			wantMinutes: 1,
		},
		{
			name:        "exactly one minute of reading",
			hero:        words(100),
			bodies:      []string{words(100)},
			wantWords:   200,
			wantMinutes: 1,
		},
		{
			name:        "rounds reading time up",
			hero:        words(1),
			bodies:      []string{words(200), words(200)},
			wantWords:   401,
			wantMinutes: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPostFixture()
			req := validCreateRequest()
			req.HeroAnswer = tt.hero
			req.Sections = nil
			for _, body := range tt.bodies {
				req.Sections = append(req.Sections, services.SectionInput{Body: body})
			}

			post, err := f.svc.CreatePost(context.Background(), req)
			if err != nil {
				t.Fatalf("CreatePost() error = %v", err)
			}
			if post.WordCount != tt.wantWords {
				t.Errorf("WordCount = %d, want %d", post.WordCount, tt.wantWords)
			}
			if post.ReadingTimeMins != tt.wantMinutes {
				t.Errorf("ReadingTimeMins = %d, want %d", post.ReadingTimeMins, tt.wantMinutes)
			}
		})
	}
}

func TestCreatePost_Defaults(t *testing.T) {
	f := newPostFixture()
	req := validCreateRequest()
	req.MetaDescription = strPtr("A short guide.")

	post, err := f.svc.CreatePost(context.Background(), req)
	if err != nil {
		t.Fatalf("CreatePost() error = %v", err)
	}

	if post.Status != models.PostStatusDraft {
		t.Errorf("Status = %q, want draft", post.Status)
	}
	if post.ID == "" {
		t.Error("expected a generated ID")
	}
	if post.PublishedAt != nil || post.ScheduledFor != nil {
		t.Errorf("draft should carry no timestamps, got publishedAt=%v scheduledFor=%v", post.PublishedAt, post.ScheduledFor)
	}
	if post.ArticleSchema.Headline != req.Title {
		t.Errorf("schema headline = %q, want %q", post.ArticleSchema.Headline, req.Title)
	}
	if post.ArticleSchema.Description != "A short guide." {
		t.Errorf("schema description = %q", post.ArticleSchema.Description)
	}
	if post.ArticleSchema.Author == nil || post.ArticleSchema.Author.Name != "Ada Writer" {
		t.Errorf("schema author = %+v, want Ada Writer", post.ArticleSchema.Author)
	}
	if post.ArticleSchema.DatePublished != nil {
		t.Error("draft schema should not have datePublished")
	}
	if f.posts.creates != 1 {
		t.Errorf("creates = %d, want 1", f.posts.creates)
	}
	if f.tx.calls != 1 {
		t.Errorf("tx calls = %d, want 1", f.tx.calls)
	}
}

func TestCreatePost_KeepsClientID(t *testing.T) {
	f := newPostFixture()
	req := validCreateRequest()
	req.ID = "33333333-3333-4333-8333-333333333333"

	post, err := f.svc.CreatePost(context.Background(), req)
	if err != nil {
		t.Fatalf("CreatePost() error = %v", err)
	}
	if post.ID != req.ID {
		t.Errorf("ID = %q, want %q", post.ID, req.ID)
	}
}

func TestCreatePost_GeneratedIDsAreUnique(t *testing.T) {
	f := newPostFixture()
	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		req := validCreateRequest()
		req.Slug = fmt.Sprintf("post-%d", i)
		post, err := f.svc.CreatePost(context.Background(), req)
		if err != nil {
			t.Fatalf("CreatePost() error = %v", err)
		}
		if seen[post.ID] {
			t.Fatalf("duplicate generated ID %s", post.ID)
		}
		seen[post.ID] = true
	}
}

func TestCreatePost_BusinessRules(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(f *postFixture)
		mutate  func(req *services.CreatePostRequest)
		wantMsg string
	}{
		{
			name: "unknown author",
			mutate: func(req *services.CreatePostRequest) {
				req.AuthorID = "99999999-9999-4999-8999-999999999999"
			},
			wantMsg: "does not exist",
		},
		{
			name: "slug already taken",
			setup: func(f *postFixture) {
				f.posts.put(&models.Post{ID: "existing", Slug: "how-to-brew-coffee", AuthorID: testAuthorID})
			},
			wantMsg: "already exists",
		},
		{
			name: "slug taken between check and insert",
			setup: func(f *postFixture) {
				f.posts.put(&models.Post{ID: "existing", Slug: "how-to-brew-coffee", AuthorID: testAuthorID})
				f.posts.slugRace = true
			},
			wantMsg: "already exists",
		},
		{
			name: "scheduledFor in the past",
			mutate: func(req *services.CreatePostRequest) {
				req.Status = "scheduled"
				req.ScheduledFor = strPtr(fixedNow.Add(-time.Hour).Format(time.RFC3339))
			},
			wantMsg: "in the future",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPostFixture()
			if tt.setup != nil {
				tt.setup(f)
			}
			before := len(f.posts.posts)

			req := validCreateRequest()
			if tt.mutate != nil {
				tt.mutate(req)
			}

			_, err := f.svc.CreatePost(context.Background(), req)
			if !errors.Is(err, domain.ErrRuleViolation) {
				t.Fatalf("error = %v, want rule violation", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want it to mention %q", err.Error(), tt.wantMsg)
			}
			if len(f.posts.posts) != before {
				t.Errorf("row count changed from %d to %d", before, len(f.posts.posts))
			}
		})
	}
}

func TestCreatePost_AuthorLookupFailureIsInternal(t *testing.T) {
	f := newPostFixture()
	f.authors.getErr = errors.New("connection reset")

	_, err := f.svc.CreatePost(context.Background(), validCreateRequest())
	if err == nil {
		t.Fatal("expected error")
	}
	var httpErr domain.HTTPError
	if errors.As(err, &httpErr) {
		t.Errorf("store failure should not map to a client error, got %T", err)
	}
}

func TestCreatePost_ValidationErrors(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(req *services.CreatePostRequest)
		wantField string
	}{
		{"missing author", func(r *services.CreatePostRequest) { r.AuthorID = "" }, "authorId"},
		{"author not a uuid", func(r *services.CreatePostRequest) { r.AuthorID = "abc" }, "authorId"},
		{"client id not a uuid", func(r *services.CreatePostRequest) { r.ID = "post-1" }, "id"},
		{"missing slug", func(r *services.CreatePostRequest) { r.Slug = "  " }, "slug"},
		{"slug with spaces", func(r *services.CreatePostRequest) { r.Slug = "Brew Coffee" }, "slug"},
		{"missing title", func(r *services.CreatePostRequest) { r.Title = "" }, "title"},
		{"missing keyword", func(r *services.CreatePostRequest) { r.PrimaryKeyword = "" }, "primaryKeyword"},
		{"missing hero answer", func(r *services.CreatePostRequest) { r.HeroAnswer = "" }, "heroAnswer"},
		{"no sections", func(r *services.CreatePostRequest) { r.Sections = nil }, "sections"},
		{"empty section body", func(r *services.CreatePostRequest) { r.Sections[1].Body = "" }, "sections.1.body"},
		{"unknown status", func(r *services.CreatePostRequest) { r.Status = "archived" }, "status"},
		{"scheduled without date", func(r *services.CreatePostRequest) { r.Status = "scheduled" }, "scheduledFor"},
		{"date without scheduled status", func(r *services.CreatePostRequest) {
			r.ScheduledFor = strPtr("2030-01-01T00:00:00Z")
		}, "scheduledFor"},
		{"malformed date", func(r *services.CreatePostRequest) {
			r.Status = "scheduled"
			r.ScheduledFor = strPtr("next tuesday")
		}, "scheduledFor"},
		{"cluster not a uuid", func(r *services.CreatePostRequest) { r.ClusterID = strPtr("seo") }, "clusterId"},
		{"meta description too long", func(r *services.CreatePostRequest) {
			r.MetaDescription = strPtr(strings.Repeat("x", 501))
		}, "metaDescription"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPostFixture()
			req := validCreateRequest()
			tt.mutate(req)

			_, err := f.svc.CreatePost(context.Background(), req)

			var vErr *domain.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("error = %v, want *domain.ValidationError", err)
			}
			found := false
			for _, fe := range vErr.Fields {
				if fe.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("fields = %+v, want one for %q", vErr.Fields, tt.wantField)
			}
			if f.tx.calls != 0 || f.posts.creates != 0 {
				t.Errorf("validation failure touched the store: tx=%d creates=%d", f.tx.calls, f.posts.creates)
			}
		})
	}
}

func TestCreatePost_StatusTimestamps(t *testing.T) {
	t.Run("scheduled in the future", func(t *testing.T) {
		f := newPostFixture()
		req := validCreateRequest()
		req.Status = "scheduled"
		when := fixedNow.Add(48 * time.Hour)
		req.ScheduledFor = strPtr(when.Format(time.RFC3339))

		post, err := f.svc.CreatePost(context.Background(), req)
		if err != nil {
			t.Fatalf("CreatePost() error = %v", err)
		}
		if post.Status != models.PostStatusScheduled {
			t.Errorf("Status = %q, want scheduled", post.Status)
		}
		if post.ScheduledFor == nil || !post.ScheduledFor.Equal(when) {
			t.Errorf("ScheduledFor = %v, want %v", post.ScheduledFor, when)
		}
		if post.PublishedAt != nil {
			t.Errorf("PublishedAt = %v, want nil", post.PublishedAt)
		}
	})

	t.Run("published now", func(t *testing.T) {
		f := newPostFixture()
		req := validCreateRequest()
		req.Status = "published"

		post, err := f.svc.CreatePost(context.Background(), req)
		if err != nil {
			t.Fatalf("CreatePost() error = %v", err)
		}
		if post.PublishedAt == nil || !post.PublishedAt.Equal(fixedNow) {
			t.Errorf("PublishedAt = %v, want %v", post.PublishedAt, fixedNow)
		}
		schema := post.ArticleSchema
		if schema.DatePublished == nil || !schema.DatePublished.Equal(fixedNow) {
			t.Errorf("schema datePublished = %v, want %v", schema.DatePublished, fixedNow)
		}
		if schema.DateModified == nil || !schema.DateModified.Equal(fixedNow) {
			t.Errorf("schema dateModified = %v, want %v", schema.DateModified, fixedNow)
		}
	})
}

func seedPosts(repo *mockPostRepo, n int, mutate func(i int, p *models.Post)) {
	for i := 0; i < n; i++ {
		p := &models.Post{
			ID:             fmt.Sprintf("post-%03d", i),
			Slug:           fmt.Sprintf("post-%03d", i),
			Title:          fmt.Sprintf("Post %d", i),
			PrimaryKeyword: "keyword",
			Status:         models.PostStatusDraft,
			AuthorID:       testAuthorID,
			UpdatedAt:      fixedNow.Add(time.Duration(i) * time.Minute),
		}
		if mutate != nil {
			mutate(i, p)
		}
		repo.put(p)
	}
}

func TestListPosts_Pagination(t *testing.T) {
	tests := []struct {
		name        string
		rows        int
		page        int
		limit       int
		wantRows    int
		wantHasMore bool
		wantPage    int
		wantLimit   int
	}{
		{"second page of 25", 25, 2, 20, 5, false, 2, 20},
		{"second page of 45", 45, 2, 20, 20, true, 2, 20},
		{"defaults", 30, 0, 0, 20, true, 1, 20},
		{"negative values fall back", 5, -3, -1, 5, false, 1, 20},
		{"limit capped", 150, 1, 500, 100, true, 1, 100},
		{"page past the end", 10, 5, 20, 0, false, 5, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPostFixture()
			seedPosts(f.posts, tt.rows, nil)

			page, err := f.svc.ListPosts(context.Background(), &services.ListPostsRequest{Page: tt.page, Limit: tt.limit})
			if err != nil {
				t.Fatalf("ListPosts() error = %v", err)
			}
			if len(page.Posts) != tt.wantRows {
				t.Errorf("rows = %d, want %d", len(page.Posts), tt.wantRows)
			}
			if page.Pagination.HasMore != tt.wantHasMore {
				t.Errorf("hasMore = %v, want %v", page.Pagination.HasMore, tt.wantHasMore)
			}
			if page.Pagination.Total != tt.rows {
				t.Errorf("total = %d, want %d", page.Pagination.Total, tt.rows)
			}
			if page.Pagination.Page != tt.wantPage || page.Pagination.Limit != tt.wantLimit {
				t.Errorf("page/limit = %d/%d, want %d/%d", page.Pagination.Page, page.Pagination.Limit, tt.wantPage, tt.wantLimit)
			}
		})
	}
}

func TestListPosts_NewestUpdateFirst(t *testing.T) {
	f := newPostFixture()
	seedPosts(f.posts, 3, nil)

	page, err := f.svc.ListPosts(context.Background(), &services.ListPostsRequest{})
	if err != nil {
		t.Fatalf("ListPosts() error = %v", err)
	}
	got := []string{}
	for _, p := range page.Posts {
		got = append(got, p.ID)
	}
	want := "post-002,post-001,post-000"
	if strings.Join(got, ",") != want {
		t.Errorf("order = %v, want %s", got, want)
	}
	if page.Posts[0].Author == nil || page.Posts[0].Author.Name != "Ada Writer" {
		t.Errorf("author = %+v, want joined author", page.Posts[0].Author)
	}
}

func TestListPosts_Filters(t *testing.T) {
	cluster := testClusterID
	f := newPostFixture()
	seedPosts(f.posts, 6, func(i int, p *models.Post) {
		if i%2 == 0 {
			p.Status = models.PostStatusPublished
		}
		if i < 3 {
			p.ClusterID = &cluster
		}
		if i == 4 {
			p.PrimaryKeyword = "Cold Brew"
		}
	})

	tests := []struct {
		name string
		req  services.ListPostsRequest
		want int
	}{
		{"status", services.ListPostsRequest{Status: "published"}, 3},
		{"cluster", services.ListPostsRequest{ClusterID: testClusterID}, 3},
		{"status and cluster", services.ListPostsRequest{Status: "published", ClusterID: testClusterID}, 2},
		{"search is case-insensitive", services.ListPostsRequest{Search: "cold BREW"}, 1},
		{"search matches slug", services.ListPostsRequest{Search: "post-005"}, 1},
		{"author", services.ListPostsRequest{AuthorID: testAuthorID}, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			page, err := f.svc.ListPosts(context.Background(), &req)
			if err != nil {
				t.Fatalf("ListPosts() error = %v", err)
			}
			if page.Pagination.Total != tt.want {
				t.Errorf("total = %d, want %d", page.Pagination.Total, tt.want)
			}
		})
	}
}

func TestListPosts_InvalidFilters(t *testing.T) {
	tests := []struct {
		name      string
		req       services.ListPostsRequest
		wantField string
	}{
		{"unknown status", services.ListPostsRequest{Status: "archived"}, "status"},
		{"cluster not a uuid", services.ListPostsRequest{ClusterID: "abc"}, "clusterId"},
		{"author not a uuid", services.ListPostsRequest{AuthorID: "abc"}, "authorId"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPostFixture()
			req := tt.req
			_, err := f.svc.ListPosts(context.Background(), &req)

			var vErr *domain.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("error = %v, want *domain.ValidationError", err)
			}
			if len(vErr.Fields) != 1 || vErr.Fields[0].Field != tt.wantField {
				t.Errorf("fields = %+v, want %q", vErr.Fields, tt.wantField)
			}
		})
	}
}

func TestListPosts_StoreFailure(t *testing.T) {
	f := newPostFixture()
	f.posts.countErr = errors.New("timeout")

	page, err := f.svc.ListPosts(context.Background(), &services.ListPostsRequest{})
	if err == nil {
		t.Fatal("expected error")
	}
	if page != nil {
		t.Errorf("expected no partial result, got %+v", page)
	}
}
