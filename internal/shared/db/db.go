package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

func ConnectPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return db, nil
}

// schema das sessões persistidas do cliente, uma linha por perfil
const sessionsSchema = `
	CREATE TABLE IF NOT EXISTS client_sessions (
		profile    TEXT PRIMARY KEY,
		token      TEXT NOT NULL DEFAULT '',
		user_json  JSONB,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`

// Migrate cria as tabelas usadas pelo store de sessão em Postgres
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, sessionsSchema); err != nil {
		return fmt.Errorf("migrate client_sessions: %w", err)
	}
	return nil
}
