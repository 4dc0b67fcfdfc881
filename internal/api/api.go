// Package api agrupa as fachadas de domínio (auth, issues, bets).
// Cada método faz exatamente uma chamada HTTP e devolve o corpo sem normalizar;
// respostas com success=false chegam ao chamador como vieram.
package api

import (
	"context"

	"github.com/radieske/yegame-client/internal/api/dto"
)

// Doer é o subconjunto do httpclient.Client usado pelas fachadas
type Doer interface {
	Do(ctx context.Context, method, route, path string, in, out any) error
}

// SessionStore é o que Auth precisa da sessão local
type SessionStore interface {
	Save(ctx context.Context, token string, u *dto.User) error
	Clear(ctx context.Context) error
	CurrentUser(ctx context.Context) (*dto.User, error)
	IsAuthenticated(ctx context.Context) (bool, error)
}
