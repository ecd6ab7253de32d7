package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"postdesk/internal/domain/repositories"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	maxPoolConns = 25
	minPoolConns = 5
)

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds dynamically prefixed table names
type TableNames struct {
	Prefix   string
	Posts    string
	Authors  string
	Clusters string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Prefix:   prefix,
		Posts:    fmt.Sprintf("%sposts", prefix),
		Authors:  fmt.Sprintf("%sauthors", prefix),
		Clusters: fmt.Sprintf("%sclusters", prefix),
	}
}

// All returns every table in dependency order (referenced tables first)
func (t *TableNames) All() []string {
	return []string{t.Authors, t.Clusters, t.Posts}
}

// CreateConnectionPool creates a pgx connection pool.
//
// Port 6543 is the conventional transaction-pooler port (PgBouncer), which does not
// support prepared statements. Unless the connection string sets
// default_query_exec_mode explicitly, such connections use QueryExecModeCacheDescribe:
// extended protocol with cached descriptions and no server-side prepared statements.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = maxPoolConns
	config.MinConns = minPoolConns

	if config.ConnConfig.Port == 6543 && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		slog.Debug("auto-configured cache_describe mode for PgBouncer compatibility", "port", 6543)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the transaction stored in ctx if there is one, otherwise the pool.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	return pool
}
