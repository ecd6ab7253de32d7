package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Constraint names are fixed so insert conflicts can be told apart
func (t *TableNames) postsSlugConstraint() string { return t.Posts + "_slug_key" }
func (t *TableNames) postsPKeyConstraint() string { return t.Posts + "_pkey" }

// schemaStatements returns the idempotent DDL for all tables and indexes
func schemaStatements(t *TableNames) []string {
	return []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				name TEXT NOT NULL,
				slug TEXT NOT NULL UNIQUE,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`, t.Authors),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				name TEXT NOT NULL,
				slug TEXT NOT NULL UNIQUE,
				pillar_keyword TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`, t.Clusters),
		// cluster_id has no foreign key; clusters only drive filtering
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %[1]s (
				id UUID NOT NULL,
				slug TEXT NOT NULL,
				title TEXT NOT NULL,
				primary_keyword TEXT NOT NULL,
				meta_title TEXT,
				meta_description TEXT,
				hero_answer TEXT NOT NULL,
				sections JSONB NOT NULL DEFAULT '[]'::jsonb,
				status TEXT NOT NULL DEFAULT 'draft',
				author_id UUID NOT NULL REFERENCES %[2]s(id),
				cluster_id UUID,
				word_count INTEGER NOT NULL DEFAULT 0,
				reading_time_mins INTEGER NOT NULL DEFAULT 0,
				scheduled_for TIMESTAMPTZ,
				published_at TIMESTAMPTZ,
				article_schema JSONB NOT NULL DEFAULT '{}'::jsonb,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				CONSTRAINT %[3]s PRIMARY KEY (id),
				CONSTRAINT %[4]s UNIQUE (slug),
				CONSTRAINT %[1]s_status_check CHECK (status IN ('draft', 'scheduled', 'published')),
				CONSTRAINT %[1]s_scheduled_check CHECK (status <> 'scheduled' OR (scheduled_for IS NOT NULL AND published_at IS NULL)),
				CONSTRAINT %[1]s_published_check CHECK (status <> 'published' OR (published_at IS NOT NULL AND scheduled_for IS NULL))
			)`, t.Posts, t.Authors, t.postsPKeyConstraint(), t.postsSlugConstraint()),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%[1]s_updated_at ON %[1]s (updated_at DESC, id DESC)`, t.Posts),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%[1]s_status ON %[1]s (status)`, t.Posts),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%[1]s_author_id ON %[1]s (author_id)`, t.Posts),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%[1]s_cluster_id ON %[1]s (cluster_id) WHERE cluster_id IS NOT NULL`, t.Posts),
	}
}

// EnsureSchema creates tables and indexes that do not exist yet
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	for _, stmt := range schemaStatements(tables) {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// DropAllTables drops every table in reverse dependency order
func DropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	all := tables.All()
	for i := len(all) - 1; i >= 0; i-- {
		if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS "+all[i]+" CASCADE"); err != nil {
			return fmt.Errorf("drop %s: %w", all[i], err)
		}
	}
	return nil
}

// ClearData removes all rows while keeping the schema
func ClearData(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	all := tables.All()
	for i := len(all) - 1; i >= 0; i-- {
		if _, err := pool.Exec(ctx, "DELETE FROM "+all[i]); err != nil {
			return fmt.Errorf("clear %s: %w", all[i], err)
		}
	}
	return nil
}
