package posts

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"postdesk/internal/domain"
	"postdesk/internal/domain/models"
	"postdesk/internal/domain/repositories"
	"postdesk/internal/domain/services"
)

// publishService implements the PublishService interface
type publishService struct {
	postRepo  repositories.PostRepository
	readiness services.ReadinessChecker
	publisher services.ExternalPublisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewPublishService creates a new publish service.
// publisher receives best-effort propagation for external targets.
func NewPublishService(
	postRepo repositories.PostRepository,
	readiness services.ReadinessChecker,
	publisher services.ExternalPublisher,
	logger *slog.Logger,
) services.PublishService {
	return &publishService{
		postRepo:  postRepo,
		readiness: readiness,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// PublishPost moves a draft or scheduled post to scheduled (future scheduledFor)
// or published (no scheduledFor). The write is a single update by id.
func (s *publishService) PublishPost(ctx context.Context, id string, req *services.PublishPostRequest) (*services.PublishResult, error) {
	if req == nil {
		req = &services.PublishPostRequest{}
	}
	req.PublishTo = strings.TrimSpace(req.PublishTo)
	if req.PublishTo == "" {
		req.PublishTo = string(services.PublishToDatabase)
	}
	req.ScheduledFor = emptyToNil(req.ScheduledFor)

	if err := validatePublishPostRequest(req); err != nil {
		return nil, asValidationError(err)
	}
	target := services.PublishTarget(req.PublishTo)

	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if post.IsPublished() {
		return nil, domain.NewRuleViolation("post is already published")
	}

	report := s.readiness.Check(post)
	if !report.Ready {
		s.logger.Info("publish blocked by readiness check",
			"id", post.ID,
			"blockers", len(report.Blockers),
		)
		return nil, &domain.RuleViolationError{
			Message:  "post is not ready to publish",
			Blockers: report.Blockers,
		}
	}

	now := s.now().UTC()
	patch := &models.PublishPatch{
		ArticleSchema: post.ArticleSchema,
		UpdatedAt:     now,
	}

	if req.ScheduledFor != nil {
		scheduledFor, err := parseTimestamp(*req.ScheduledFor)
		if err != nil {
			return nil, domain.NewValidationError([]domain.FieldError{{Field: "scheduledFor", Message: "must be an RFC 3339 timestamp"}})
		}
		if !scheduledFor.After(now) {
			return nil, domain.NewRuleViolation("scheduledFor must be in the future")
		}
		patch.Status = models.PostStatusScheduled
		patch.ScheduledFor = &scheduledFor
		patch.PublishedAt = post.PublishedAt
	} else {
		patch.Status = models.PostStatusPublished
		patch.PublishedAt = &now
		patch.ArticleSchema.Stamp(now)
	}

	updated, err := s.postRepo.UpdatePublishState(ctx, post.ID, patch)
	if err != nil {
		return nil, err
	}

	s.logger.Info("post publish state changed",
		"id", updated.ID,
		"from", post.Status,
		"to", updated.Status,
		"publish_to", target,
		"editor_id", req.EditorID,
	)

	result := &services.PublishResult{
		Status: updated.Status,
		Post:   updated,
	}
	if updated.Status == models.PostStatusScheduled {
		result.ScheduledFor = updated.ScheduledFor
	} else {
		result.PublishedAt = updated.PublishedAt
	}

	if target.External() {
		result.ExternalID = s.publishExternal(ctx, updated)
	}

	return result, nil
}

// publishExternal propagates the post to the external target. Failures are logged only.
func (s *publishService) publishExternal(ctx context.Context, post *models.Post) *string {
	if s.publisher == nil {
		s.logger.Warn("external publish requested but no publisher is configured", "id", post.ID)
		return nil
	}

	externalID, err := s.publisher.Publish(ctx, post)
	if err != nil {
		s.logger.Warn("external publish failed",
			"id", post.ID,
			"target", s.publisher.Name(),
			"error", err,
		)
		return nil
	}
	if externalID == "" {
		return nil
	}

	s.logger.Info("post published externally",
		"id", post.ID,
		"target", s.publisher.Name(),
		"external_id", externalID,
	)
	return &externalID
}
