package posts

import (
	"strings"

	"postdesk/internal/config"
	"postdesk/internal/domain/services"
)

type contentAnalyzerService struct {
	wordsPerMinute int
}

// NewContentAnalyzer creates a new content analyzer service
func NewContentAnalyzer() services.ContentAnalyzer {
	return &contentAnalyzerService{wordsPerMinute: config.WordsPerMinute}
}

// CountWords counts maximal runs of non-whitespace characters
func (s *contentAnalyzerService) CountWords(text string) int {
	return len(strings.Fields(text))
}

// ReadingTimeMinutes returns ceil(wordCount / wordsPerMinute)
func (s *contentAnalyzerService) ReadingTimeMinutes(wordCount int) int {
	if wordCount <= 0 {
		return 0
	}
	return (wordCount + s.wordsPerMinute - 1) / s.wordsPerMinute
}

// countPostWords sums the hero answer and every section body
func countPostWords(analyzer services.ContentAnalyzer, heroAnswer string, sections []services.SectionInput) int {
	total := analyzer.CountWords(heroAnswer)
	for _, section := range sections {
		total += analyzer.CountWords(section.Body)
	}
	return total
}
