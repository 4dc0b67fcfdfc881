package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/radieske/yegame-client/internal/api/dto"
)

// PostgresStore persiste a sessão na tabela client_sessions, uma linha por perfil
// A tabela é criada por db.Migrate
type PostgresStore struct {
	DB      *sql.DB
	Profile string
}

func NewPostgresStore(db *sql.DB, profile string) *PostgresStore {
	return &PostgresStore{DB: db, Profile: profile}
}

func (p *PostgresStore) Load(ctx context.Context) (Session, error) {
	const q = `SELECT token, user_json, updated_at FROM client_sessions WHERE profile = $1`

	var (
		s        Session
		userJSON []byte
	)
	err := p.DB.QueryRowContext(ctx, q, p.Profile).Scan(&s.Token, &userJSON, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, nil
	}
	if err != nil {
		return Session{}, fmt.Errorf("select session: %w", err)
	}
	if len(userJSON) > 0 {
		var u dto.User
		if err := json.Unmarshal(userJSON, &u); err != nil {
			return Session{}, fmt.Errorf("decode session user: %w", err)
		}
		s.User = &u
	}
	return s, nil
}

// Save grava token e usuário na mesma linha com ON CONFLICT, num único statement
func (p *PostgresStore) Save(ctx context.Context, s Session) error {
	const q = `
		INSERT INTO client_sessions (profile, token, user_json, updated_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (profile) DO UPDATE SET
		  token      = EXCLUDED.token,
		  user_json  = EXCLUDED.user_json,
		  updated_at = EXCLUDED.updated_at
	`
	var userJSON any
	if s.User != nil {
		b, err := json.Marshal(s.User)
		if err != nil {
			return fmt.Errorf("encode session user: %w", err)
		}
		userJSON = string(b)
	}
	if _, err := p.DB.ExecContext(ctx, q, p.Profile, s.Token, userJSON, s.UpdatedAt); err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

func (p *PostgresStore) Clear(ctx context.Context) error {
	const q = `DELETE FROM client_sessions WHERE profile = $1`
	if _, err := p.DB.ExecContext(ctx, q, p.Profile); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
