package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radieske/yegame-client/internal/api/dto"
	"github.com/radieske/yegame-client/internal/session"
	"github.com/radieske/yegame-client/internal/shared/config"
)

func TestUnauthorizedClearsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	ctx := context.Background()
	reg := prometheus.NewRegistry()
	a := New(config.Config{APIBaseURL: srv.URL}, nil, session.NewMemoryStore(), Options{Registerer: reg})
	defer a.Close()

	require.NoError(t, a.Session.Save(ctx, "abc", &dto.User{ID: 1, Username: "minji"}))

	_, err := a.Issues.GetAll(ctx)
	require.Error(t, err)

	ok, err := a.Auth.IsAuthenticated(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	u, err := a.Auth.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, u)

	assert.Equal(t, 1.0, testutil.ToFloat64(a.Metrics.AuthFailures))
}

func TestOpenStoreFile(t *testing.T) {
	cfg := config.Config{SessionBackend: "file", SessionFile: filepath.Join(t.TempDir(), "s.json")}
	st, closeFn, err := OpenStore(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &session.FileStore{}, st)
}

func TestOpenStoreMemory(t *testing.T) {
	st, closeFn, err := OpenStore(context.Background(), config.Config{SessionBackend: "memory"}, nil)
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &session.MemoryStore{}, st)
}

func TestOpenStoreRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := config.Config{SessionBackend: "redis", RedisAddr: mr.Addr(), SessionProfile: "p1"}

	st, closeFn, err := OpenStore(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer closeFn()

	require.NoError(t, st.Save(context.Background(), session.Session{Token: "t"}))
	assert.True(t, mr.Exists("yegame:session:p1"))
}

func TestOpenStoreUnknown(t *testing.T) {
	_, _, err := OpenStore(context.Background(), config.Config{SessionBackend: "sqlite"}, nil)
	assert.ErrorContains(t, err, `unknown session backend "sqlite"`)
}
