package posts

import (
	"embed"
	"fmt"
	"os"
	"strings"

	"postdesk/internal/domain/models"
	"postdesk/internal/domain/services"

	"gopkg.in/yaml.v3"
)

//go:embed config/readiness.yaml
var readinessFiles embed.FS

// ReadinessRules are the thresholds a post must meet before it can be published.
// Zero values disable the corresponding check.
type ReadinessRules struct {
	MinWordCount             int  `yaml:"min_word_count"`
	MinSections              int  `yaml:"min_sections"`
	MinHeroAnswerWords       int  `yaml:"min_hero_answer_words"`
	RequireMetaTitle         bool `yaml:"require_meta_title"`
	RequireMetaDescription   bool `yaml:"require_meta_description"`
	MaxMetaTitleLength       int  `yaml:"max_meta_title_length"`
	MaxMetaDescriptionLength int  `yaml:"max_meta_description_length"`
	RequireSectionHeadings   bool `yaml:"require_section_headings"`
}

// LoadReadinessRules reads rules from path, or the embedded defaults when path is empty
func LoadReadinessRules(path string) (*ReadinessRules, error) {
	var (
		data []byte
		err  error
	)
	if path == "" {
		data, err = readinessFiles.ReadFile("config/readiness.yaml")
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read readiness rules: %w", err)
	}

	var rules ReadinessRules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to unmarshal readiness rules: %w", err)
	}
	return &rules, nil
}

type readinessChecker struct {
	rules           ReadinessRules
	contentAnalyzer services.ContentAnalyzer
}

// NewReadinessChecker creates a rule-based readiness checker
func NewReadinessChecker(rules *ReadinessRules, contentAnalyzer services.ContentAnalyzer) services.ReadinessChecker {
	return &readinessChecker{
		rules:           *rules,
		contentAnalyzer: contentAnalyzer,
	}
}

// Check returns every rule the post fails, in a fixed order
func (c *readinessChecker) Check(post *models.Post) services.ReadinessReport {
	r := c.rules
	blockers := []string{}

	if strings.TrimSpace(post.HeroAnswer) == "" {
		blockers = append(blockers, "hero answer is empty")
	} else if r.MinHeroAnswerWords > 0 {
		if words := c.contentAnalyzer.CountWords(post.HeroAnswer); words < r.MinHeroAnswerWords {
			blockers = append(blockers, fmt.Sprintf("hero answer has %d words, needs at least %d", words, r.MinHeroAnswerWords))
		}
	}

	if r.MinWordCount > 0 && post.WordCount < r.MinWordCount {
		blockers = append(blockers, fmt.Sprintf("word count is %d, needs at least %d", post.WordCount, r.MinWordCount))
	}

	if r.MinSections > 0 && len(post.Sections) < r.MinSections {
		blockers = append(blockers, fmt.Sprintf("post has %d sections, needs at least %d", len(post.Sections), r.MinSections))
	}

	if r.RequireSectionHeadings {
		for i, section := range post.Sections {
			if strings.TrimSpace(section.Heading) == "" {
				blockers = append(blockers, fmt.Sprintf("section %d has no heading", i+1))
			}
		}
	}

	blockers = append(blockers, checkMeta("meta title", post.MetaTitle, r.RequireMetaTitle, r.MaxMetaTitleLength)...)
	blockers = append(blockers, checkMeta("meta description", post.MetaDescription, r.RequireMetaDescription, r.MaxMetaDescriptionLength)...)

	return services.ReadinessReport{
		Ready:    len(blockers) == 0,
		Blockers: blockers,
	}
}

func checkMeta(name string, value *string, required bool, maxLen int) []string {
	text := strings.TrimSpace(deref(value))
	if text == "" {
		if required {
			return []string{name + " is missing"}
		}
		return nil
	}
	if n := len([]rune(text)); maxLen > 0 && n > maxLen {
		return []string{fmt.Sprintf("%s is %d characters, max %d", name, n, maxLen)}
	}
	return nil
}
