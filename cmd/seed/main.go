package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"postdesk/internal/config"
	"postdesk/internal/domain/models"
	"postdesk/internal/domain/repositories"
	"postdesk/internal/domain/services"
	"postdesk/internal/repository/postgres"
	"postdesk/internal/service/posts"

	"github.com/joho/godotenv"
)

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed posts")
	clearData := flag.Bool("clear-data", false, "Clear all posts, authors and clusters (keep schema)")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatalf("BLOCKED: cannot run destructive operations (--drop-tables or --clear-data) in production environment")
	}

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	switch {
	case *clearData:
		log.Printf("Clearing data only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	case *schemaOnly:
		log.Printf("Setting up schema only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	default:
		log.Printf("Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	}

	// Create database connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Create table names
	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Drop tables if requested
	if *dropTables {
		log.Println("Dropping all tables...")
		if err := postgres.DropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("Tables dropped")
	}

	// Run schema to ensure tables exist
	log.Println("Ensuring database schema is up to date...")
	if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("Schema ready")

	if *schemaOnly {
		log.Println("Schema setup complete (schema-only mode)")
		return
	}

	// Clear existing data; seeding always starts from empty tables
	if err := postgres.ClearData(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to clear data: %v", err)
	}
	if *clearData {
		log.Println("Data cleared successfully")
		return
	}

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	authorRepo := postgres.NewAuthorRepository(repoConfig)
	clusterRepo := postgres.NewClusterRepository(repoConfig)
	postRepo := postgres.NewPostRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	// Create services
	postService := posts.NewPostService(postRepo, authorRepo, txManager, posts.NewContentAnalyzer(), logger)

	authorIDs, err := seedAuthors(ctx, authorRepo)
	if err != nil {
		log.Fatalf("Failed to seed authors: %v", err)
	}
	clusterIDs, err := seedClusters(ctx, clusterRepo)
	if err != nil {
		log.Fatalf("Failed to seed clusters: %v", err)
	}

	log.Println("Seeding posts...")
	created := 0
	for _, sp := range seedPosts {
		req := sp.request(authorIDs, clusterIDs)
		post, err := postService.CreatePost(ctx, req)
		if err != nil {
			log.Fatalf("Failed to seed post %q: %v", sp.Slug, err)
		}
		created++
		log.Printf("  %s (%s, %d words)", post.Slug, post.Status, post.WordCount)
	}

	log.Printf("Seed complete: %d authors, %d clusters, %d posts", len(authorIDs), len(clusterIDs), created)
}

func seedAuthors(ctx context.Context, repo repositories.AuthorRepository) (map[string]string, error) {
	ids := make(map[string]string, len(seedAuthorList))
	for _, a := range seedAuthorList {
		author := a
		if err := repo.Create(ctx, &author); err != nil {
			return nil, fmt.Errorf("author %s: %w", author.Slug, err)
		}
		ids[author.Slug] = author.ID
	}
	return ids, nil
}

func seedClusters(ctx context.Context, repo repositories.ClusterRepository) (map[string]string, error) {
	ids := make(map[string]string, len(seedClusterList))
	for _, c := range seedClusterList {
		cluster := c
		if err := repo.Create(ctx, &cluster); err != nil {
			return nil, fmt.Errorf("cluster %s: %w", cluster.Slug, err)
		}
		ids[cluster.Slug] = cluster.ID
	}
	return ids, nil
}

var seedAuthorList = []models.Author{
	{Name: "Ada Writer", Slug: "ada-writer"},
	{Name: "Sam Editor", Slug: "sam-editor"},
}

var seedClusterList = []models.Cluster{
	{Name: "Coffee Brewing", Slug: "coffee-brewing", PillarKeyword: "how to brew coffee"},
	{Name: "Home Espresso", Slug: "home-espresso", PillarKeyword: "espresso at home"},
}

// seedPost is a draft post keyed by author and cluster slug
type seedPost struct {
	Author          string
	Cluster         string
	Slug            string
	Title           string
	PrimaryKeyword  string
	MetaTitle       string
	MetaDescription string
	HeroAnswer      string
	Sections        []services.SectionInput
}

func (sp seedPost) request(authorIDs, clusterIDs map[string]string) *services.CreatePostRequest {
	req := &services.CreatePostRequest{
		AuthorID:       authorIDs[sp.Author],
		Slug:           sp.Slug,
		Title:          sp.Title,
		PrimaryKeyword: sp.PrimaryKeyword,
		HeroAnswer:     sp.HeroAnswer,
		Sections:       sp.Sections,
	}
	if id, ok := clusterIDs[sp.Cluster]; ok {
		req.ClusterID = &id
	}
	if sp.MetaTitle != "" {
		req.MetaTitle = &sp.MetaTitle
	}
	if sp.MetaDescription != "" {
		req.MetaDescription = &sp.MetaDescription
	}
	return req
}

var seedPosts = []seedPost{
	{
		Author:          "ada-writer",
		Cluster:         "coffee-brewing",
		Slug:            "how-to-brew-pour-over-coffee",
		Title:           "How to Brew Pour-Over Coffee",
		PrimaryKeyword:  "pour over coffee",
		MetaTitle:       "Pour-Over Coffee: A Step-by-Step Guide",
		MetaDescription: "Brew a clean, sweet cup of pour-over coffee with the right grind, ratio and pour.",
		HeroAnswer: "Use a 1:16 coffee-to-water ratio, a medium-fine grind and water just off the boil. " +
			"Bloom the grounds for 30 seconds, then pour slowly in circles until you reach your target weight.",
		Sections: []services.SectionInput{
			{Heading: "What you need", Body: "A dripper, paper filter, kettle, scale and freshly roasted whole beans."},
			{Heading: "Dial in the grind", Body: "Aim for the texture of table salt. Finer grinds extract faster and taste more bitter.\n\nCoarser grinds run fast and taste sour."},
			{Heading: "Pour in stages", Body: "Pour in three or four stages, keeping the bed level. Total brew time should land near three minutes."},
		},
	},
	{
		Author:         "ada-writer",
		Cluster:        "coffee-brewing",
		Slug:           "cold-brew-ratio",
		Title:          "The Best Cold Brew Ratio",
		PrimaryKeyword: "cold brew ratio",
		HeroAnswer:     "Start with one part coarse-ground coffee to eight parts cold water and steep for 16 hours.",
		Sections: []services.SectionInput{
			{Heading: "Concentrate or ready to drink", Body: "A 1:4 ratio makes a concentrate you dilute later. A 1:8 ratio is ready to pour over ice."},
		},
	},
	{
		Author:          "sam-editor",
		Cluster:         "home-espresso",
		Slug:            "espresso-grind-size",
		Title:           "Finding the Right Espresso Grind Size",
		PrimaryKeyword:  "espresso grind size",
		MetaTitle:       "Espresso Grind Size Explained",
		MetaDescription: "How to adjust your grinder until shots run in 25 to 30 seconds.",
		HeroAnswer:      "Grind fine enough that an 18 gram dose yields 36 grams of espresso in 25 to 30 seconds.",
		Sections: []services.SectionInput{
			{Heading: "Start from a recipe", Body: "Fix your dose and yield first so grind is the only variable you change."},
			{Heading: "Adjust in small steps", Body: "Move one step at a time and pull a shot after each change."},
		},
	},
	{
		Author:         "sam-editor",
		Slug:           "descaling-your-kettle",
		Title:          "Descaling Your Kettle",
		PrimaryKeyword: "descale kettle",
		HeroAnswer:     "Fill the kettle with equal parts water and white vinegar, boil, and let it sit for an hour.",
		Sections: []services.SectionInput{
			{Body: "Rinse twice with fresh water before brewing again."},
		},
	},
}
