package services

// ContentAnalyzer derives the computed content fields of a post
type ContentAnalyzer interface {
	// CountWords counts maximal runs of non-whitespace characters
	CountWords(text string) int

	// ReadingTimeMinutes estimates reading time for a word count, rounded up
	ReadingTimeMinutes(wordCount int) int
}
