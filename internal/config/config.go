package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	CORSOrigins string
	TablePrefix string
	// AuthJWKSURL enables bearer-token auth on /api routes when set
	AuthJWKSURL string
	// ReadinessRulesPath overrides the embedded readiness rules file
	ReadinessRulesPath string
	// External storefront
	ShopifyStoreDomain string
	ShopifyAccessToken string
	ShopifyBlogID      string
	ShopifyAPIVersion  string
	// Logging
	LogDir      string
	LogMaxFiles int
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:               getEnv("PORT", "8080"),
		Environment:        env,
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		CORSOrigins:        getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix:        getTablePrefix(env),
		AuthJWKSURL:        getEnv("AUTH_JWKS_URL", ""),
		ReadinessRulesPath: getEnv("READINESS_RULES_PATH", ""),
		ShopifyStoreDomain: getEnv("SHOPIFY_STORE_DOMAIN", ""),
		ShopifyAccessToken: getEnv("SHOPIFY_ACCESS_TOKEN", ""),
		ShopifyBlogID:      getEnv("SHOPIFY_BLOG_ID", ""),
		ShopifyAPIVersion:  getEnv("SHOPIFY_API_VERSION", "2024-10"),
		LogDir:             getEnv("LOG_DIR", ""),
		LogMaxFiles:        getEnvInt("LOG_MAX_FILES", 10),
	}
}

// ShopifyEnabled reports whether enough storefront settings are present to publish externally
func (c *Config) ShopifyEnabled() bool {
	return c.ShopifyStoreDomain != "" && c.ShopifyAccessToken != "" && c.ShopifyBlogID != ""
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}
