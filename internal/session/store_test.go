package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radieske/yegame-client/internal/api/dto"
)

// exerciseStore roda o mesmo roteiro contra qualquer implementação de Store
func exerciseStore(t *testing.T, st Store) {
	t.Helper()
	ctx := context.Background()

	s, err := st.Load(ctx)
	require.NoError(t, err)
	assert.False(t, s.Authenticated())
	assert.Nil(t, s.User)

	want := Session{
		Token:     "tok-1",
		User:      &dto.User{ID: 7, Username: "minji", Email: "minji@yegame.kr", Coins: 9000},
		UpdatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, st.Save(ctx, want))

	got, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want.Token, got.Token)
	assert.Equal(t, want.User, got.User)
	assert.True(t, want.UpdatedAt.Equal(got.UpdatedAt))

	require.NoError(t, st.Clear(ctx))
	got, err = st.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got.Token)
	assert.Nil(t, got.User)

	// Clear de store vazio não falha
	assert.NoError(t, st.Clear(ctx))
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStoreCopiesUser(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	u := &dto.User{ID: 1, Username: "a", Coins: 10}
	require.NoError(t, st.Save(ctx, Session{Token: "t", User: u}))

	u.Coins = 0
	got, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.User.Coins)
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	exerciseStore(t, NewFileStore(path))
}

func TestFileStorePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	st := NewFileStore(path)
	require.NoError(t, st.Save(context.Background(), Session{Token: "t"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// nenhum temporário sobra no diretório
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFileStore(path).Load(context.Background())
	assert.ErrorContains(t, err, "decode session file")
}

func TestFileStoreCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	st := NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	assert.ErrorIs(t, st.Save(ctx, Session{Token: "t"}), context.Canceled)
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	exerciseStore(t, NewRedisStore(rdb, "default", 0))
}

func TestRedisStoreKeyAndTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	st := NewRedisStore(rdb, "work", time.Hour)
	require.NoError(t, st.Save(context.Background(), Session{Token: "t"}))

	assert.True(t, mr.Exists("yegame:session:work"))
	assert.Equal(t, time.Hour, mr.TTL("yegame:session:work"))

	// perfis são isolados
	other, err := NewRedisStore(rdb, "home", 0).Load(context.Background())
	require.NoError(t, err)
	assert.False(t, other.Authenticated())
}
