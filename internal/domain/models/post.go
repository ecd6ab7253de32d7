package models

import (
	"time"
)

// PostStatus is the publishing state of a post
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusScheduled PostStatus = "scheduled"
	PostStatusPublished PostStatus = "published"
)

// PostStatuses lists every valid status, in lifecycle order
var PostStatuses = []PostStatus{PostStatusDraft, PostStatusScheduled, PostStatusPublished}

// ParsePostStatus returns the status for s and whether it is one of the known values
func ParsePostStatus(s string) (PostStatus, bool) {
	for _, status := range PostStatuses {
		if string(status) == s {
			return status, true
		}
	}
	return "", false
}

// Section is one ordered block of post content
type Section struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// Post is a blog post.
//
// Status and the timestamp fields move together:
//   - scheduled: ScheduledFor set (in the future at write time), PublishedAt nil
//   - published: PublishedAt set, ScheduledFor nil
//
// WordCount and ReadingTimeMins are derived from HeroAnswer and Sections.
type Post struct {
	ID              string        `json:"id" db:"id"`
	Slug            string        `json:"slug" db:"slug"`
	Title           string        `json:"title" db:"title"`
	PrimaryKeyword  string        `json:"primaryKeyword" db:"primary_keyword"`
	MetaTitle       *string       `json:"metaTitle" db:"meta_title"`
	MetaDescription *string       `json:"metaDescription" db:"meta_description"`
	HeroAnswer      string        `json:"heroAnswer" db:"hero_answer"`
	Sections        []Section     `json:"sections" db:"sections"`
	Status          PostStatus    `json:"status" db:"status"`
	AuthorID        string        `json:"authorId" db:"author_id"`
	ClusterID       *string       `json:"clusterId" db:"cluster_id"`
	WordCount       int           `json:"wordCount" db:"word_count"`
	ReadingTimeMins int           `json:"readingTimeMins" db:"reading_time_mins"`
	ScheduledFor    *time.Time    `json:"scheduledFor" db:"scheduled_for"`
	PublishedAt     *time.Time    `json:"publishedAt" db:"published_at"`
	ArticleSchema   ArticleSchema `json:"articleSchema" db:"article_schema"`
	CreatedAt       time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time     `json:"updatedAt" db:"updated_at"`
}

// IsPublished returns true if the post is in published status
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}

// AuthorSummary is the author projection joined into list results
type AuthorSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// ClusterSummary is the cluster projection joined into list results
type ClusterSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// PostWithRelations is a post enriched with its author and cluster (read-only)
type PostWithRelations struct {
	Post
	Author  *AuthorSummary  `json:"author"`
	Cluster *ClusterSummary `json:"cluster"`
}

// PostFilter is a conjunctive filter over posts. Empty fields do not filter.
type PostFilter struct {
	Status    PostStatus
	ClusterID string
	AuthorID  string
	// Search matches title, primary keyword or slug, case-insensitively
	Search string
}

// PublishPatch is the set of columns written by a publish-state transition
type PublishPatch struct {
	Status        PostStatus
	ScheduledFor  *time.Time
	PublishedAt   *time.Time
	ArticleSchema ArticleSchema
	UpdatedAt     time.Time
}
