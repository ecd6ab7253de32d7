package publishing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"postdesk/internal/domain/models"
	"postdesk/internal/domain/services"

	"github.com/microcosm-cc/bluemonday"
)

const (
	// DefaultShopifyTimeout is the HTTP timeout for storefront requests
	DefaultShopifyTimeout = 15 * time.Second

	shopifyTokenHeader = "X-Shopify-Access-Token"
)

// contentPolicy keeps inline formatting authors write in answers and section
// bodies and strips scripts, event handlers and javascript: URLs.
var contentPolicy = bluemonday.UGCPolicy()

// ShopifyConfig identifies the store and blog articles are written to
type ShopifyConfig struct {
	StoreDomain string
	AccessToken string
	BlogID      string
	APIVersion  string
	// BaseURL overrides https://<StoreDomain>; used by tests
	BaseURL string
	Timeout time.Duration
}

// ShopifyPublisher creates blog articles through the Shopify Admin REST API
type ShopifyPublisher struct {
	cfg        ShopifyConfig
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewShopifyPublisher creates a Shopify publisher
func NewShopifyPublisher(cfg ShopifyConfig, logger *slog.Logger) services.ExternalPublisher {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://" + strings.TrimSuffix(cfg.StoreDomain, "/")
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultShopifyTimeout
	}
	return &ShopifyPublisher{
		cfg:     cfg,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Name implements ExternalPublisher
func (p *ShopifyPublisher) Name() string { return "shopify" }

// Publish creates the article and returns its Shopify ID.
// Scheduled posts are sent unpublished with their future publish date.
func (p *ShopifyPublisher) Publish(ctx context.Context, post *models.Post) (string, error) {
	payload := shopifyArticleRequest{Article: newShopifyArticle(post)}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal article: %w", err)
	}

	url := fmt.Sprintf("%s/admin/api/%s/blogs/%s/articles.json", p.baseURL, p.cfg.APIVersion, p.cfg.BlogID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payloadBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(shopifyTokenHeader, p.cfg.AccessToken)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("shopify API error (status %d): %s", resp.StatusCode, string(body))
	}

	var created shopifyArticleResponse
	if err := json.Unmarshal(body, &created); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if created.Article.ID == 0 {
		return "", fmt.Errorf("shopify response has no article id")
	}

	p.logger.Debug("shopify article created",
		"post_id", post.ID,
		"article_id", created.Article.ID,
	)

	return strconv.FormatInt(created.Article.ID, 10), nil
}

type shopifyArticleRequest struct {
	Article shopifyArticle `json:"article"`
}

type shopifyArticle struct {
	Title       string     `json:"title"`
	Handle      string     `json:"handle"`
	Author      string     `json:"author,omitempty"`
	BodyHTML    string     `json:"body_html"`
	SummaryHTML string     `json:"summary_html,omitempty"`
	Tags        string     `json:"tags,omitempty"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

type shopifyArticleResponse struct {
	Article struct {
		ID int64 `json:"id"`
	} `json:"article"`
}

func newShopifyArticle(post *models.Post) shopifyArticle {
	article := shopifyArticle{
		Title:       post.Title,
		Handle:      post.Slug,
		BodyHTML:    renderBodyHTML(post),
		SummaryHTML: "<p>" + contentPolicy.Sanitize(post.HeroAnswer) + "</p>",
		Tags:        post.PrimaryKeyword,
	}
	if post.ArticleSchema.Author != nil {
		article.Author = post.ArticleSchema.Author.Name
	}

	switch post.Status {
	case models.PostStatusPublished:
		article.Published = true
		article.PublishedAt = post.PublishedAt
	case models.PostStatusScheduled:
		article.PublishedAt = post.ScheduledFor
	}
	return article
}

func renderBodyHTML(post *models.Post) string {
	var b strings.Builder
	b.WriteString("<p>")
	b.WriteString(contentPolicy.Sanitize(post.HeroAnswer))
	b.WriteString("</p>")
	for _, section := range post.Sections {
		if section.Heading != "" {
			b.WriteString("<h2>")
			b.WriteString(html.EscapeString(section.Heading))
			b.WriteString("</h2>")
		}
		for _, para := range strings.Split(section.Body, "\n\n") {
			if para = strings.TrimSpace(para); para == "" {
				continue
			}
			b.WriteString("<p>")
			b.WriteString(contentPolicy.Sanitize(para))
			b.WriteString("</p>")
		}
	}
	return b.String()
}
