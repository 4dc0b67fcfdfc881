package session

import (
	"context"
	"sync"
	"time"

	"github.com/radieske/yegame-client/internal/api/dto"
)

// Manager expõe as operações campo a campo sobre um Store.
// Cada operação é um load-modify-save do registro inteiro, serializado
// dentro do processo; entre processos vale o último a gravar.
type Manager struct {
	mu    sync.Mutex
	store Store
	now   func() time.Time
}

func NewManager(store Store) *Manager {
	return &Manager{store: store, now: time.Now}
}

// Token implementa httpclient.TokenSource
func (m *Manager) Token(ctx context.Context) (string, error) {
	return m.GetToken(ctx)
}

func (m *Manager) GetToken(ctx context.Context) (string, error) {
	s, err := m.store.Load(ctx)
	if err != nil {
		return "", err
	}
	return s.Token, nil
}

func (m *Manager) SetToken(ctx context.Context, token string) error {
	return m.update(ctx, func(s *Session) { s.Token = token })
}

func (m *Manager) ClearToken(ctx context.Context) error {
	return m.update(ctx, func(s *Session) { s.Token = "" })
}

func (m *Manager) GetUser(ctx context.Context) (*dto.User, error) {
	s, err := m.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return cloneUser(s.User), nil
}

func (m *Manager) SetUser(ctx context.Context, u dto.User) error {
	return m.update(ctx, func(s *Session) { s.User = &u })
}

func (m *Manager) ClearUser(ctx context.Context) error {
	return m.update(ctx, func(s *Session) { s.User = nil })
}

// Save grava token e usuário juntos num único write
func (m *Manager) Save(ctx context.Context, token string, u *dto.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.Save(ctx, Session{Token: token, User: cloneUser(u), UpdatedAt: m.now()})
}

// Clear remove token e usuário
func (m *Manager) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.Clear(ctx)
}

// CurrentUser devolve o perfil em cache, ou nil se não houver
func (m *Manager) CurrentUser(ctx context.Context) (*dto.User, error) {
	return m.GetUser(ctx)
}

func (m *Manager) IsAuthenticated(ctx context.Context) (bool, error) {
	s, err := m.store.Load(ctx)
	if err != nil {
		return false, err
	}
	return s.Authenticated(), nil
}

// Snapshot devolve uma cópia do registro atual
func (m *Manager) Snapshot(ctx context.Context) (Session, error) {
	s, err := m.store.Load(ctx)
	if err != nil {
		return Session{}, err
	}
	return s.clone(), nil
}

func (m *Manager) update(ctx context.Context, fn func(*Session)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.store.Load(ctx)
	if err != nil {
		return err
	}
	fn(&s)
	s.UpdatedAt = m.now()

	// registro sem token e sem usuário equivale a sessão vazia
	if s.Token == "" && s.User == nil {
		return m.store.Clear(ctx)
	}
	return m.store.Save(ctx, s)
}
