package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"postdesk/internal/auth"
	"postdesk/internal/config"
	"postdesk/internal/domain/services"
	"postdesk/internal/handler"
	"postdesk/internal/middleware"
	"postdesk/internal/repository/postgres"
	"postdesk/internal/service/posts"
	"postdesk/internal/service/publishing"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging (stdout plus optional log file)
	logger, logCloser, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to setup logging: %v", err)
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Create pgx connection pool
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	// Create table names and make sure they exist
	tables := postgres.NewTableNames(cfg.TablePrefix)
	if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	postRepo := postgres.NewPostRepository(repoConfig)
	authorRepo := postgres.NewAuthorRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	// Readiness rules (embedded defaults unless overridden)
	rules, err := posts.LoadReadinessRules(cfg.ReadinessRulesPath)
	if err != nil {
		log.Fatalf("Failed to load readiness rules: %v", err)
	}

	// Create services
	contentAnalyzer := posts.NewContentAnalyzer()
	readiness := posts.NewReadinessChecker(rules, contentAnalyzer)
	publisher := newExternalPublisher(cfg, logger)
	postService := posts.NewPostService(postRepo, authorRepo, txManager, contentAnalyzer, logger)
	publishService := posts.NewPublishService(postRepo, readiness, publisher, logger)

	// Create handlers
	postHandler := handler.NewPostHandler(postService, logger)
	publishHandler := handler.NewPublishHandler(publishService, logger)
	healthHandler := handler.NewHealthHandler(pool, logger)

	logger.Info("services initialized", "external_publisher", publisher.Name())

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", healthHandler.HealthCheck)

	// Post routes
	mux.HandleFunc("GET /api/posts", postHandler.ListPosts)
	mux.HandleFunc("POST /api/posts", postHandler.CreatePost)
	mux.HandleFunc("POST /api/posts/{id}/publish", publishHandler.PublishPost)

	// Build middleware chain
	// Order: CORS → Recovery → Auth (/api only, when configured) → Routes
	var h http.Handler = mux

	if cfg.AuthJWKSURL != "" {
		jwtVerifier, err := auth.NewJWTVerifier(cfg.AuthJWKSURL, logger)
		if err != nil {
			log.Fatalf("Failed to create JWT verifier: %v", err)
		}
		defer jwtVerifier.Close()
		h = middleware.Prefix("/api/", middleware.Auth(jwtVerifier, logger))(h)
	} else {
		logger.Warn("AUTH_JWKS_URL not set, /api routes are unauthenticated")
	}

	h = middleware.Recovery(logger)(h)

	// CORS - Must be outermost to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		log.Fatalf("Failed to listen on %s: %v", server.Addr, err)
	}
	logger.Info("server listening", "port", cfg.Port)
	if err := runServer(ctx, server, ln, logger); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
	logger.Info("server stopped")
}

// runServer serves on ln until ctx is cancelled, then shuts down gracefully.
// It returns only after in-flight requests have drained or the shutdown
// timeout expired.
func runServer(ctx context.Context, server *http.Server, ln net.Listener, logger *slog.Logger) error {
	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
		}
	}()

	if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	// Serve returns as soon as Shutdown starts; wait for the drain
	<-shutdownDone
	return nil
}

// newExternalPublisher returns the Shopify publisher when the store is configured, else a no-op
func newExternalPublisher(cfg *config.Config, logger *slog.Logger) services.ExternalPublisher {
	if !cfg.ShopifyEnabled() {
		return publishing.NewNoopPublisher(logger)
	}
	return publishing.NewShopifyPublisher(publishing.ShopifyConfig{
		StoreDomain: cfg.ShopifyStoreDomain,
		AccessToken: cfg.ShopifyAccessToken,
		BlogID:      cfg.ShopifyBlogID,
		APIVersion:  cfg.ShopifyAPIVersion,
	}, logger)
}
