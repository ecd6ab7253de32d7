package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"postdesk/internal/domain"
	"postdesk/internal/httputil"
)

// handleError converts domain errors to HTTP responses.
// Anything unrecognised is logged and reduced to a generic 500.
func handleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var (
		validationErr *domain.ValidationError
		ruleErr       *domain.RuleViolationError
		httpErr       domain.HTTPError
	)

	switch {
	case errors.As(err, &validationErr):
		httputil.RespondErrorWithExtras(w, validationErr.StatusCode(), validationErr.Error(), map[string]interface{}{
			"details": validationErr.Fields,
		})
	case errors.As(err, &ruleErr):
		var extras map[string]interface{}
		if len(ruleErr.Blockers) > 0 {
			extras = map[string]interface{}{"blockers": ruleErr.Blockers}
		}
		httputil.RespondErrorWithExtras(w, ruleErr.StatusCode(), ruleErr.Error(), extras)
	case errors.As(err, &httpErr):
		httputil.RespondError(w, httpErr.StatusCode(), httpErr.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	default:
		logger.Error("request failed", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// handleBodyError reports a body that could not be decoded as a validation failure
func handleBodyError(w http.ResponseWriter, err error) {
	httputil.RespondErrorWithExtras(w, http.StatusBadRequest, "invalid request body", map[string]interface{}{
		"details": []domain.FieldError{{Field: "body", Message: err.Error()}},
	})
}
