package services

import (
	"context"

	"postdesk/internal/domain/models"
)

// ListPostsRequest carries the optional list filters and pagination.
// Page and Limit are raw query values; zero means "use the default".
type ListPostsRequest struct {
	Status    string
	ClusterID string
	AuthorID  string
	Search    string
	Page      int
	Limit     int
}

// Pagination describes one page of a listing
type Pagination struct {
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	Total   int  `json:"total"`
	HasMore bool `json:"hasMore"`
}

// PostPage is the result of a list call
type PostPage struct {
	Posts      []models.PostWithRelations `json:"posts"`
	Pagination Pagination                 `json:"pagination"`
}

// SectionInput is one section of a create request
type SectionInput struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// CreatePostRequest is the post-creation payload.
// Derived fields (wordCount, readingTimeMins) are not accepted from clients.
type CreatePostRequest struct {
	ID              string         `json:"id"`
	AuthorID        string         `json:"authorId"`
	ClusterID       *string        `json:"clusterId"`
	Slug            string         `json:"slug"`
	Title           string         `json:"title"`
	PrimaryKeyword  string         `json:"primaryKeyword"`
	MetaTitle       *string        `json:"metaTitle"`
	MetaDescription *string        `json:"metaDescription"`
	HeroAnswer      string         `json:"heroAnswer"`
	Sections        []SectionInput `json:"sections"`
	Status          string         `json:"status"`
	ScheduledFor    *string        `json:"scheduledFor"`

	// EditorID is the authenticated caller, set from the request context
	EditorID string `json:"-"`
}

// PostService defines the post collection operations
type PostService interface {
	// ListPosts returns one filtered page of posts plus the total match count
	ListPosts(ctx context.Context, req *ListPostsRequest) (*PostPage, error)

	// CreatePost validates req, checks the author and slug rules and inserts the post
	CreatePost(ctx context.Context, req *CreatePostRequest) (*models.Post, error)
}
