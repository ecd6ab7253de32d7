package config

const (
	// MaxTitleLength is the maximum length for post titles.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255).
	MaxTitleLength = 255

	// MaxSlugLength is the maximum length for post slugs.
	// Slugs end up in URLs, so they are kept well below typical URL limits.
	MaxSlugLength = 200

	// MaxKeywordLength is the maximum length for the primary keyword.
	MaxKeywordLength = 120

	// MaxMetaTitleLength and MaxMetaDescriptionLength bound the SEO fields.
	// Readiness rules apply the stricter search-engine display limits.
	MaxMetaTitleLength       = 255
	MaxMetaDescriptionLength = 500

	// MaxSections is the maximum number of content sections in a post.
	MaxSections = 100

	// MaxSearchLength bounds the free-text list filter.
	MaxSearchLength = 200
)

const (
	// DefaultPageLimit is the page size used when none is requested.
	DefaultPageLimit = 20

	// MaxPageLimit caps the page size a client can request.
	MaxPageLimit = 100

	// WordsPerMinute is the reading speed used for reading-time estimates.
	WordsPerMinute = 200
)
