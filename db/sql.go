package db

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

// sqliteSchema creates the posts table in a local development sqlite file.
// Postgres tables are managed elsewhere and left untouched.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS %[1]s (
	id TEXT PRIMARY KEY,
	title TEXT,
	summary TEXT,
	excerpt TEXT,
	category TEXT,
	tags TEXT,
	r2_image_url TEXT,
	notion_url TEXT,
	notion_last_edited_at TIMESTAMP,
	mins_read INTEGER,
	created_at TIMESTAMP,
	content TEXT
);

CREATE INDEX IF NOT EXISTS idx_%[1]s_created_at ON %[1]s(created_at);
`

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidIdentifier reports whether name is safe to splice into SQL as a table name.
func ValidIdentifier(name string) bool {
	return identifierPattern.MatchString(name)
}

// OpenSQL opens a database/sql pool for driver ("pgx" or "sqlite3") and pings it.
// For sqlite3 the posts table is created when missing.
func OpenSQL(ctx context.Context, driver, dsn, table string) (*sql.DB, error) {
	if !ValidIdentifier(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	switch driver {
	case "sqlite3":
		// sqlite has a single writer
		db.SetMaxOpenConns(1)
		if _, err := db.ExecContext(ctx, fmt.Sprintf(sqliteSchema, table)); err != nil {
			db.Close()
			return nil, fmt.Errorf("init schema: %w", err)
		}
	default:
		db.SetMaxOpenConns(10)
		db.SetConnMaxIdleTime(5 * time.Minute)
	}
	return db, nil
}
