package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
	"github.com/yukikurage/todo-api/internal/config"
	_ "modernc.org/sqlite"
)

// SQL dialects understood by Rebind and the sql repositories.
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// OpenSQL opens a database/sql pool for the hand-written SQL repositories and
// applies the embedded goose migrations.
func OpenSQL(ctx context.Context, cfg config.Database, log zerolog.Logger) (*sql.DB, string, error) {
	var (
		driver, dsn, dialect, gooseDialect string
	)
	switch cfg.Type {
	case config.DBTypePostgres:
		driver, dsn, dialect, gooseDialect = "pgx", cfg.DSN, DialectPostgres, "postgres"
	case config.DBTypeSQLite:
		driver, dsn, dialect, gooseDialect = "sqlite", cfg.Path, DialectSQLite, "sqlite3"
	default:
		return nil, "", fmt.Errorf("sql repositories do not support DB_TYPE %q", cfg.Type)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open database: %w", err)
	}
	if dialect == DialectSQLite {
		// sqlite allows a single writer
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, "", fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := runGoose(db, gooseDialect); err != nil {
		db.Close()
		return nil, "", err
	}

	log.Info().Str("db_type", cfg.Type).Str("orm", config.ORMSQL).Msg("Database connection established")
	return db, dialect, nil
}

func runGoose(db *sql.DB, dialect string) error {
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Rebind rewrites ? placeholders into the dialect's bind syntax.
func Rebind(dialect, query string) string {
	if dialect != DialectPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
