// Package session guarda o token de autenticação e o perfil em cache do
// usuário num único registro, gravado de forma atômica.
package session

import (
	"context"
	"time"

	"github.com/radieske/yegame-client/internal/api/dto"
)

// Session é o registro persistido: token presente ⇔ cliente autenticado.
// User é um cache do último perfil conhecido e pode estar defasado em relação ao servidor.
type Session struct {
	Token     string    `json:"token,omitempty"`
	User      *dto.User `json:"user,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Authenticated informa se existe token
func (s Session) Authenticated() bool { return s.Token != "" }

// Store persiste um único registro de sessão.
// Load de um store vazio devolve Session{} sem erro.
type Store interface {
	Load(ctx context.Context) (Session, error)
	Save(ctx context.Context, s Session) error
	Clear(ctx context.Context) error
}

func cloneUser(u *dto.User) *dto.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

func (s Session) clone() Session {
	s.User = cloneUser(s.User)
	return s
}
