package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radieske/yegame-client/internal/api/dto"
)

type failingStore struct{ err error }

func (f failingStore) Load(context.Context) (Session, error) { return Session{}, f.err }
func (f failingStore) Save(context.Context, Session) error   { return f.err }
func (f failingStore) Clear(context.Context) error           { return f.err }

func TestManagerUserRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStore())

	u := dto.User{ID: 1, Username: "minji", Email: "m@yegame.kr", Coins: 10000}
	require.NoError(t, m.SetUser(ctx, u))

	got, err := m.GetUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u, *got)

	// usuário sem token não autentica
	ok, err := m.IsAuthenticated(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestManagerTokenFields(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStore())

	require.NoError(t, m.SetUser(ctx, dto.User{ID: 1, Username: "a"}))
	require.NoError(t, m.SetToken(ctx, "abc"))

	tok, err := m.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	ok, err := m.IsAuthenticated(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, m.ClearToken(ctx))
	tok, err = m.GetToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)

	// ClearToken preserva o usuário
	u, err := m.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", u.Username)

	require.NoError(t, m.ClearUser(ctx))
	u, err = m.GetUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestManagerSaveAndClear(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStore())

	require.NoError(t, m.Save(ctx, "abc", &dto.User{ID: 2, Username: "b", Coins: 5}))

	s, err := m.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc", s.Token)
	assert.Equal(t, int64(5), s.User.Coins)
	assert.False(t, s.UpdatedAt.IsZero())

	require.NoError(t, m.Clear(ctx))
	s, err = m.Snapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, s.Token)
	assert.Nil(t, s.User)
}

func TestManagerStoreError(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk full")
	m := NewManager(failingStore{err: boom})

	_, err := m.Token(ctx)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, m.SetToken(ctx, "x"), boom)
	_, err = m.IsAuthenticated(ctx)
	assert.ErrorIs(t, err, boom)
}

func TestManagerConcurrentUpdates(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStore())
	require.NoError(t, m.SetToken(ctx, "abc"))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = m.SetUser(ctx, dto.User{ID: int64(i), Username: "u"})
		}(i)
	}
	wg.Wait()

	// nenhum update de usuário perde o token
	tok, err := m.GetToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)
}
