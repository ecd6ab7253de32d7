package publishing

import (
	"context"
	"log/slog"

	"postdesk/internal/domain/models"
	"postdesk/internal/domain/services"
)

// NoopPublisher logs the publish event and keeps no external reference
type NoopPublisher struct {
	logger *slog.Logger
}

// NewNoopPublisher creates a publisher that only logs
func NewNoopPublisher(logger *slog.Logger) services.ExternalPublisher {
	return &NoopPublisher{logger: logger}
}

// Publish implements ExternalPublisher
func (p *NoopPublisher) Publish(ctx context.Context, post *models.Post) (string, error) {
	p.logger.Info("external publish skipped, no storefront configured",
		"id", post.ID,
		"slug", post.Slug,
		"status", post.Status,
	)
	return "", nil
}

// Name implements ExternalPublisher
func (p *NoopPublisher) Name() string { return "noop" }
