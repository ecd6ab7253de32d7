package models

import "time"

const (
	schemaOrgContext  = "https://schema.org"
	articleSchemaType = "Article"
	personSchemaType  = "Person"
)

// SchemaPerson is the schema.org Person embedded as an article author
type SchemaPerson struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

// ArticleSchema is the schema.org Article description stored with each post.
// DatePublished and DateModified are only written through Stamp so they always
// move together.
type ArticleSchema struct {
	Context       string        `json:"@context"`
	Type          string        `json:"@type"`
	Headline      string        `json:"headline"`
	Description   string        `json:"description,omitempty"`
	Author        *SchemaPerson `json:"author,omitempty"`
	DatePublished *time.Time    `json:"datePublished,omitempty"`
	DateModified  *time.Time    `json:"dateModified,omitempty"`
}

// NewArticleSchema builds an unpublished article description
func NewArticleSchema(headline, description, authorName string) ArticleSchema {
	schema := ArticleSchema{
		Context:     schemaOrgContext,
		Type:        articleSchemaType,
		Headline:    headline,
		Description: description,
	}
	if authorName != "" {
		schema.Author = &SchemaPerson{Type: personSchemaType, Name: authorName}
	}
	return schema
}

// Stamp sets both the publish and modify timestamps to t
func (a *ArticleSchema) Stamp(t time.Time) {
	published := t
	modified := t
	a.DatePublished = &published
	a.DateModified = &modified
}
