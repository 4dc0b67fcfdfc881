// Package app monta o cliente: sessão -> HTTP client -> fachadas.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/yegame-client/internal/api"
	"github.com/radieske/yegame-client/internal/httpclient"
	"github.com/radieske/yegame-client/internal/session"
	"github.com/radieske/yegame-client/internal/shared/cache"
	"github.com/radieske/yegame-client/internal/shared/config"
	"github.com/radieske/yegame-client/internal/shared/db"
	"github.com/radieske/yegame-client/internal/shared/logger"
)

type App struct {
	Session *session.Manager
	Client  *httpclient.Client
	Metrics *httpclient.Metrics

	Auth   *api.Auth
	Issues *api.Issues
	Bets   *api.Bets

	log    *zap.Logger
	closer func() error
}

type Options struct {
	// Registerer recebe as métricas do cliente; nil = não registra
	Registerer prometheus.Registerer
	// HTTPClient substitui o http.Client padrão (testes)
	HTTPClient *http.Client
	// Closer é chamado em Close (ex: conexão do store)
	Closer func() error
}

// New liga as peças. Todo 401 limpa a sessão antes do erro voltar.
func New(cfg config.Config, log *zap.Logger, store session.Store, opts Options) *App {
	log = logger.OrNop(log)
	mgr := session.NewManager(store)
	m := httpclient.NewMetrics(opts.Registerer)

	clientOpts := []httpclient.Option{
		httpclient.WithLogger(log),
		httpclient.WithMetrics(m),
		httpclient.WithAuthFailureHandler(func(ctx context.Context) {
			if err := mgr.Clear(ctx); err != nil {
				log.Warn("failed to clear session after 401", zap.Error(err))
			}
		}),
	}
	if opts.HTTPClient != nil {
		clientOpts = append(clientOpts, httpclient.WithHTTPClient(opts.HTTPClient))
	}
	if cfg.HTTPTimeout > 0 {
		clientOpts = append(clientOpts, httpclient.WithTimeout(cfg.HTTPTimeout))
	}

	c := httpclient.New(cfg.APIBaseURL, mgr, clientOpts...)

	return &App{
		Session: mgr,
		Client:  c,
		Metrics: m,
		Auth:    api.NewAuth(c, mgr),
		Issues:  api.NewIssues(c),
		Bets:    api.NewBets(c),
		log:     log,
		closer:  opts.Closer,
	}
}

func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer()
}

// OpenStore escolhe o backend de sessão pela config.
// O func devolvido fecha a conexão do backend (no-op para file/memory).
func OpenStore(ctx context.Context, cfg config.Config, log *zap.Logger) (session.Store, func() error, error) {
	log = logger.OrNop(log)
	noop := func() error { return nil }

	switch cfg.SessionBackend {
	case "", "file":
		return session.NewFileStore(cfg.SessionFile), noop, nil

	case "memory":
		return session.NewMemoryStore(), noop, nil

	case "redis":
		rdb, err := cache.ConnectRedis(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, nil, err
		}
		log.Info("session store: redis", zap.String("addr", cfg.RedisAddr), zap.String("profile", cfg.SessionProfile))
		return session.NewRedisStore(rdb, cfg.SessionProfile, 0), rdb.Close, nil

	case "postgres":
		pg, err := db.ConnectPostgres(cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Migrate(ctx, pg); err != nil {
			_ = pg.Close()
			return nil, nil, err
		}
		log.Info("session store: postgres", zap.String("profile", cfg.SessionProfile))
		return session.NewPostgresStore(pg, cfg.SessionProfile), pg.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown session backend %q", cfg.SessionBackend)
	}
}
