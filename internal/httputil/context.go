package httputil

import (
	"context"
	"net/http"
)

// Context key type to avoid collisions
type contextKey string

const (
	editorIDKey contextKey = "editorID"
)

// WithEditorID adds the authenticated editor's ID to the request context
func WithEditorID(r *http.Request, editorID string) *http.Request {
	ctx := context.WithValue(r.Context(), editorIDKey, editorID)
	return r.WithContext(ctx)
}

// GetEditorID retrieves the editor ID from context, returns empty string if not found
func GetEditorID(r *http.Request) string {
	editorID, _ := r.Context().Value(editorIDKey).(string)
	return editorID
}
