package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radieske/yegame-client/internal/api/dto"
	"github.com/radieske/yegame-client/internal/app"
	"github.com/radieske/yegame-client/internal/session"
	"github.com/radieske/yegame-client/internal/shared/config"
	"github.com/radieske/yegame-client/internal/simulator"
)

func newTestCLI(t *testing.T) (*cli, *bytes.Buffer, *simulator.Repo) {
	t.Helper()
	repo := simulator.NewRepo(nil)
	simulator.Seed(repo, time.Now())
	srv := httptest.NewServer(simulator.NewServer(nil, repo, simulator.NewTokens("s", nil), simulator.ServerOptions{}).Router())
	t.Cleanup(srv.Close)

	a := app.New(config.Config{APIBaseURL: srv.URL + "/api"}, nil, session.NewMemoryStore(), app.Options{})
	out := &bytes.Buffer{}
	return newCLI(a, out, nil), out, repo
}

func TestCLIFlow(t *testing.T) {
	ctx := context.Background()
	c, out, repo := newTestCLI(t)

	require.NoError(t, c.run(ctx, []string{"register", "-u", "minji", "-e", "m@yegame.kr", "-p", "pw"}))
	assert.Contains(t, out.String(), "10,000 감 지급")

	out.Reset()
	require.NoError(t, c.run(ctx, []string{"issues", "-category", "코인"}))
	assert.Contains(t, out.String(), "[코인]")
	assert.NotContains(t, out.String(), "[정치]")

	out.Reset()
	require.NoError(t, c.run(ctx, []string{"bet", "-issue", "1", "-choice", "Yes", "-amount", "1500"}))
	assert.Contains(t, out.String(), "남은 감 8,500")

	// saldo em cache foi decrementado localmente
	u, err := c.app.Auth.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(8500), u.Coins)

	srvUser, err := repo.GetUser(u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(8500), srvUser.Coins)

	out.Reset()
	require.NoError(t, c.run(ctx, []string{"bets"}))
	assert.Contains(t, out.String(), "총 1건 (진행중 1)")

	out.Reset()
	require.NoError(t, c.run(ctx, []string{"stats", "-issue", "1"}))
	assert.Contains(t, out.String(), "베팅 1건, 총 1,500 감")

	require.NoError(t, c.run(ctx, []string{"logout"}))
	err = c.run(ctx, []string{"whoami"})
	assert.ErrorIs(t, err, errNotLoggedIn)
}

func TestCLIBetValidation(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCLI(t)
	require.NoError(t, c.run(ctx, []string{"register", "-u", "a", "-e", "a@x.kr", "-p", "pw"}))

	err := c.run(ctx, []string{"bet", "-issue", "1", "-choice", "Maybe", "-amount", "10"})
	assert.EqualError(t, err, "Yes 또는 No를 선택해주세요")

	err = c.run(ctx, []string{"bet", "-issue", "1", "-choice", "No", "-amount", "0"})
	assert.EqualError(t, err, "베팅 금액을 입력해주세요")

	err = c.run(ctx, []string{"bet", "-issue", "1", "-choice", "No", "-amount", "10001"})
	assert.EqualError(t, err, "보유 감이 부족합니다")
}

func TestCLIServerMessage(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCLI(t)

	err := c.run(ctx, []string{"login", "-u", "ghost", "-p", "x"})
	require.Error(t, err)
	assert.Equal(t, "아이디 또는 비밀번호가 올바르지 않습니다", errorText(err))
	assert.Equal(t, 1, exitCode(err))
}

func TestCLIAdminCommands(t *testing.T) {
	ctx := context.Background()
	c, out, _ := newTestCLI(t)
	require.NoError(t, c.run(ctx, []string{"register", "-u", "admin", "-e", "a@x.kr", "-p", "pw"}))

	out.Reset()
	require.NoError(t, c.run(ctx, []string{"issue-create", "-title", "새 이슈", "-category", "해외", "-yes", "30", "-end", "48h"}))
	assert.Contains(t, out.String(), "Yes 30%  No 70%")

	require.NoError(t, c.run(ctx, []string{"toggle-popular", "-id", "7"}))
	assert.Contains(t, out.String(), "이슈 #7 인기 지정")

	require.NoError(t, c.run(ctx, []string{"issue-update", "-id", "7", "-title", "수정", "-category", "해외", "-yes", "55", "-end", "2030-01-01T00:00:00Z"}))
	require.NoError(t, c.run(ctx, []string{"issue-delete", "-id", "7"}))

	err := c.run(ctx, []string{"issue-create", "-title", "x", "-category", "게임", "-end", "1h"})
	assert.ErrorIs(t, err, errUsage)
}

func TestCLIWatch(t *testing.T) {
	ctx := context.Background()
	c, out, _ := newTestCLI(t)
	require.NoError(t, c.run(ctx, []string{"register", "-u", "a", "-e", "a@x.kr", "-p", "pw"}))

	out.Reset()
	require.NoError(t, c.run(ctx, []string{"watch", "-interval", "10ms", "-n", "2", "-q", "비트코인"}))
	assert.Equal(t, 2, bytes.Count(out.Bytes(), []byte("--- ")))
	assert.Contains(t, out.String(), "비트코인")
}

func TestCLIUsage(t *testing.T) {
	c, _, _ := newTestCLI(t)
	err := c.run(context.Background(), []string{"nope"})
	assert.ErrorIs(t, err, errUsage)
	assert.Equal(t, 2, exitCode(err))

	err = c.run(context.Background(), nil)
	assert.ErrorIs(t, err, errUsage)
}

// newCLIWithBackend monta o CLI contra um backend arbitrário
func newCLIWithBackend(t *testing.T, h http.Handler) (*cli, *bytes.Buffer) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	a := app.New(config.Config{APIBaseURL: srv.URL + "/api"}, nil, session.NewMemoryStore(), app.Options{})
	out := &bytes.Buffer{}
	return newCLI(a, out, nil), out
}

func TestCLILoginTokenWithoutUser(t *testing.T) {
	ctx := context.Background()
	mux := http.NewServeMux()
	tokenOnly := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"T"}`))
	}
	mux.HandleFunc("POST /api/auth/login", tokenOnly)
	mux.HandleFunc("POST /api/auth/register", tokenOnly)

	c, out := newCLIWithBackend(t, mux)

	require.NoError(t, c.run(ctx, []string{"login", "-u", "a", "-p", "p"}))
	assert.Equal(t, "로그인 성공\n", out.String())

	// token persistido sem perfil
	s, err := c.app.Session.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "T", s.Token)
	assert.Nil(t, s.User)

	out.Reset()
	require.NoError(t, c.run(ctx, []string{"register", "-u", "a", "-e", "a@x.kr", "-p", "p"}))
	assert.Equal(t, "회원가입 완료\n", out.String())

	// comandos que precisam do perfil pedem login em vez de quebrar
	assert.ErrorIs(t, c.run(ctx, []string{"whoami"}), errNotLoggedIn)
	assert.ErrorIs(t, c.run(ctx, []string{"bet", "-issue", "1", "-choice", "Yes", "-amount", "10"}), errNotLoggedIn)
}

func TestCLIBetEnvelopedResponse(t *testing.T) {
	ctx := context.Background()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/bets", func(w http.ResponseWriter, r *http.Request) {
		var in dto.PlaceBetRequest
		_ = json.NewDecoder(r.Body).Decode(&in)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"bet":     map[string]any{"id": 1, "choice": in.Choice, "amount": in.Amount},
		})
	})

	c, out := newCLIWithBackend(t, mux)
	require.NoError(t, c.app.Session.Save(ctx, "T", &dto.User{ID: 1, Username: "minji", Coins: 10000}))

	require.NoError(t, c.run(ctx, []string{"bet", "-issue", "5", "-choice", "Yes", "-amount", "1000"}))
	assert.Equal(t, "베팅 완료: #5 Yes 1,000 감 (남은 감 9,000)\n", out.String())

	u, err := c.app.Auth.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(9000), u.Coins)
}

func TestCLIBetFailureKeepsCoins(t *testing.T) {
	ctx := context.Background()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/bets", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"코인이 부족합니다"}`))
	})

	c, _ := newCLIWithBackend(t, mux)
	require.NoError(t, c.app.Session.Save(ctx, "T", &dto.User{ID: 1, Username: "minji", Coins: 10000}))

	err := c.run(ctx, []string{"bet", "-issue", "5", "-choice", "No", "-amount", "1000"})
	assert.Equal(t, "코인이 부족합니다", errorText(err))

	u, err := c.app.Auth.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), u.Coins)
}
