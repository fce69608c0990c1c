package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/erpdesk/internal/client/migrations"

	_ "modernc.org/sqlite"
)

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens the local database file at dsn and migrates it. It is
// the medium for data that outlives the process.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// OpenSessionDatabase creates a private in-memory database that lives as
// long as the returned handle: the session-scoped medium.
func OpenSessionDatabase(ctx context.Context) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:session-%s?mode=memory&cache=shared", uuid.NewString())
	return InitDatabase(ctx, dsn)
}
