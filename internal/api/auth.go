package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/radieske/yegame-client/internal/api/dto"
)

// ErrAuthRejected: resposta 2xx de login/cadastro sem token; nada é persistido
var ErrAuthRejected = errors.New("authentication rejected")

type Auth struct {
	http    Doer
	session SessionStore
}

func NewAuth(d Doer, s SessionStore) *Auth {
	return &Auth{http: d, session: s}
}

// Login autentica e persiste token+usuário num único registro.
// Sem token na resposta devolve o corpo junto com ErrAuthRejected.
func (a *Auth) Login(ctx context.Context, username, password string) (*dto.AuthResponse, error) {
	return a.authenticate(ctx, "/auth/login", dto.LoginRequest{Username: username, Password: password})
}

func (a *Auth) Register(ctx context.Context, username, email, password string) (*dto.AuthResponse, error) {
	return a.authenticate(ctx, "/auth/register", dto.RegisterRequest{Username: username, Email: email, Password: password})
}

func (a *Auth) authenticate(ctx context.Context, path string, in any) (*dto.AuthResponse, error) {
	var out dto.AuthResponse
	if err := a.http.Do(ctx, http.MethodPost, path, path, in, &out); err != nil {
		return nil, err
	}
	if out.Token == "" {
		return &out, ErrAuthRejected
	}
	if err := a.session.Save(ctx, out.Token, out.User); err != nil {
		return &out, fmt.Errorf("persist session: %w", err)
	}
	return &out, nil
}

// Logout limpa a sessão local; não chama a rede
func (a *Auth) Logout(ctx context.Context) error {
	return a.session.Clear(ctx)
}

// CurrentUser devolve o perfil em cache (nil se não houver)
func (a *Auth) CurrentUser(ctx context.Context) (*dto.User, error) {
	return a.session.CurrentUser(ctx)
}

func (a *Auth) IsAuthenticated(ctx context.Context) (bool, error) {
	return a.session.IsAuthenticated(ctx)
}
