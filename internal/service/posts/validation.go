package posts

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"postdesk/internal/config"
	"postdesk/internal/domain"
	"postdesk/internal/domain/models"
	"postdesk/internal/domain/services"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

func statusValues() []interface{} {
	values := make([]interface{}, len(models.PostStatuses))
	for i, status := range models.PostStatuses {
		values[i] = string(status)
	}
	return values
}

func validateCreatePostRequest(req *services.CreatePostRequest) error {
	scheduled := req.Status == string(models.PostStatusScheduled)

	return validation.ValidateStruct(req,
		validation.Field(&req.ID, is.UUID),
		validation.Field(&req.AuthorID, validation.Required, is.UUID),
		validation.Field(&req.ClusterID, validation.NilOrNotEmpty, is.UUID),
		validation.Field(&req.Slug,
			validation.Required,
			validation.Length(1, config.MaxSlugLength),
			validation.Match(slugPattern).Error("must be lowercase letters, digits and single hyphens"),
		),
		validation.Field(&req.Title, validation.Required, validation.Length(1, config.MaxTitleLength)),
		validation.Field(&req.PrimaryKeyword, validation.Required, validation.Length(1, config.MaxKeywordLength)),
		validation.Field(&req.MetaTitle, validation.Length(0, config.MaxMetaTitleLength)),
		validation.Field(&req.MetaDescription, validation.Length(0, config.MaxMetaDescriptionLength)),
		validation.Field(&req.HeroAnswer, validation.Required),
		validation.Field(&req.Sections,
			validation.Required,
			validation.Length(1, config.MaxSections),
			validation.Each(validation.By(validateSection)),
		),
		validation.Field(&req.Status, validation.In(statusValues()...)),
		validation.Field(&req.ScheduledFor,
			validation.When(scheduled, validation.Required.Error("is required when status is scheduled")),
			validation.When(!scheduled, validation.Nil.Error("is only allowed when status is scheduled")),
			validation.By(validateTimestamp),
		),
	)
}

func validateSection(value interface{}) error {
	section, ok := value.(services.SectionInput)
	if !ok {
		return fmt.Errorf("invalid section type")
	}
	return validation.ValidateStruct(&section,
		validation.Field(&section.Heading, validation.Length(0, config.MaxTitleLength)),
		validation.Field(&section.Body, validation.Required),
	)
}

func validateListPostsRequest(req *services.ListPostsRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Status, validation.In(statusValues()...)),
		validation.Field(&req.ClusterID, is.UUID),
		validation.Field(&req.AuthorID, is.UUID),
		validation.Field(&req.Search, validation.Length(0, config.MaxSearchLength)),
	)
}

// validatePublishPostRequest checks only the target; scheduledFor is parsed after
// the post is loaded and found ready.
func validatePublishPostRequest(req *services.PublishPostRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.PublishTo,
			validation.Required,
			validation.In(string(services.PublishToDatabase), string(services.PublishToShopify), string(services.PublishToBoth)),
		),
	)
}

// validateTimestamp accepts a nil pointer or an RFC 3339 string
func validateTimestamp(value interface{}) error {
	s, _ := value.(*string)
	if s == nil || *s == "" {
		return nil
	}
	if _, err := parseTimestamp(*s); err != nil {
		return errors.New("must be an RFC 3339 timestamp")
	}
	return nil
}

func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// asValidationError converts ozzo errors into a domain.ValidationError with
// flattened, sorted field paths. Internal rule errors are returned unchanged.
func asValidationError(err error) error {
	if err == nil {
		return nil
	}

	var internal validation.InternalError
	if errors.As(err, &internal) {
		return fmt.Errorf("validate request: %w", err)
	}

	var errs validation.Errors
	if !errors.As(err, &errs) {
		return domain.NewValidationError([]domain.FieldError{{Field: "body", Message: err.Error()}})
	}

	fields := flattenErrors("", errs, nil)
	sort.Slice(fields, func(i, j int) bool { return fields[i].Field < fields[j].Field })
	return domain.NewValidationError(fields)
}

func flattenErrors(prefix string, errs validation.Errors, out []domain.FieldError) []domain.FieldError {
	for key, err := range errs {
		if err == nil {
			continue
		}
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}

		var nested validation.Errors
		if errors.As(err, &nested) {
			out = flattenErrors(path, nested, out)
			continue
		}
		out = append(out, domain.FieldError{Field: path, Message: err.Error()})
	}
	return out
}
