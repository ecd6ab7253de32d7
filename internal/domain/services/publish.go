package services

import (
	"context"
	"time"

	"postdesk/internal/domain/models"
)

// PublishTarget selects where a publish is propagated
type PublishTarget string

const (
	PublishToDatabase PublishTarget = "database"
	PublishToShopify  PublishTarget = "shopify"
	PublishToBoth     PublishTarget = "both"
)

// External reports whether the target includes the external storefront
func (t PublishTarget) External() bool {
	return t == PublishToShopify || t == PublishToBoth
}

// PublishPostRequest is the body of a publish call
type PublishPostRequest struct {
	PublishTo    string  `json:"publishTo"`
	ScheduledFor *string `json:"scheduledFor"`
	EditorID     string  `json:"-"`
}

// PublishResult is the outcome of a publish call
type PublishResult struct {
	Status       models.PostStatus
	PublishedAt  *time.Time
	ScheduledFor *time.Time
	// ExternalID is the storefront reference, set only when the external publish succeeded
	ExternalID *string
	Post       *models.Post
}

// PublishService moves a post to scheduled or published
type PublishService interface {
	PublishPost(ctx context.Context, id string, req *PublishPostRequest) (*PublishResult, error)
}

// ReadinessReport is the verdict of a readiness check
type ReadinessReport struct {
	Ready    bool     `json:"ready"`
	Blockers []string `json:"blockers"`
}

// ReadinessChecker decides whether a post may be published
type ReadinessChecker interface {
	Check(post *models.Post) ReadinessReport
}

// ExternalPublisher propagates a publish event to an external storefront.
// Failures never abort the primary publish.
type ExternalPublisher interface {
	// Publish returns the external reference ID, or "" when the target keeps none
	Publish(ctx context.Context, post *models.Post) (string, error)

	// Name identifies the target in logs
	Name() string
}
