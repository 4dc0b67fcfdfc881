// Package httpclient é o cliente HTTP único da API yegame: base URL fixa,
// timeout fixo, headers JSON e token Bearer lido da sessão a cada requisição.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/radieske/yegame-client/internal/shared/logger"
)

const DefaultTimeout = 10 * time.Second

// limite de leitura do corpo de resposta
const maxBody = 1 << 20

// TokenSource fornece o token atual; "" = sem sessão
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// AuthFailureFunc é chamada em toda resposta 401, antes do erro voltar ao chamador
type AuthFailureFunc func(ctx context.Context)

type Client struct {
	BaseURL string
	HTTP    *http.Client

	tokens        TokenSource
	onAuthFailure AuthFailureFunc
	log           *zap.Logger
	metrics       *Metrics
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.HTTP.Timeout = d }
}

// WithHTTPClient troca o http.Client (transport de teste, proxy...)
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.HTTP = h }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = logger.OrNop(l) }
}

func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

func WithAuthFailureHandler(fn AuthFailureFunc) Option {
	return func(c *Client) { c.onAuthFailure = fn }
}

// New monta o cliente; tokens nil = nunca envia Authorization
func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: DefaultTimeout},
		tokens:  tokens,
		log:     zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Do executa uma requisição JSON.
// route é o rótulo de métrica (ex: "/issues/{id}"), path o caminho real.
// in nil = sem corpo; out nil = corpo de resposta descartado.
func (c *Client) Do(ctx context.Context, method, route, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	// falha na leitura do token aborta antes de qualquer envio
	if c.tokens != nil {
		tok, err := c.tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("read session token: %w", err)
		}
		if tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	start := time.Now()
	res, err := c.HTTP.Do(req)
	if err != nil {
		c.metrics.observe(method, route, 0, time.Since(start))
		c.log.Debug("request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return &TransportError{Method: method, Path: path, Err: err}
	}
	defer res.Body.Close()

	// lê um byte a mais pra detectar corpo acima do limite
	raw, err := io.ReadAll(io.LimitReader(res.Body, maxBody+1))
	took := time.Since(start)
	c.metrics.observe(method, route, res.StatusCode, took)
	if err != nil {
		return &TransportError{Method: method, Path: path, Err: err}
	}
	tooLarge := len(raw) > maxBody
	if tooLarge {
		raw = raw[:maxBody]
	}

	c.log.Debug("request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", res.StatusCode),
		zap.Duration("took", took),
		zap.String("request_id", req.Header.Get("X-Request-ID")),
	)

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		herr := newHTTPError(method, path, res.StatusCode, raw)
		if res.StatusCode == http.StatusUnauthorized {
			c.metrics.authFailure()
			c.log.Warn("unauthorized response, clearing session", zap.String("method", method), zap.String("path", path))
			if c.onAuthFailure != nil {
				// a limpeza roda mesmo se o ctx do chamador já foi cancelado
				c.onAuthFailure(context.WithoutCancel(ctx))
			}
		}
		return herr
	}

	if tooLarge {
		return fmt.Errorf("%s %s: %w (limit %d bytes)", method, path, ErrResponseTooLarge, maxBody)
	}
	if out != nil && len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode response %s %s: %w", method, path, err)
		}
	}
	return nil
}

func (c *Client) Get(ctx context.Context, route, path string, out any) error {
	return c.Do(ctx, http.MethodGet, route, path, nil, out)
}

func (c *Client) Post(ctx context.Context, route, path string, in, out any) error {
	return c.Do(ctx, http.MethodPost, route, path, in, out)
}

func (c *Client) Put(ctx context.Context, route, path string, in, out any) error {
	return c.Do(ctx, http.MethodPut, route, path, in, out)
}

func (c *Client) Patch(ctx context.Context, route, path string, in, out any) error {
	return c.Do(ctx, http.MethodPatch, route, path, in, out)
}

func (c *Client) Delete(ctx context.Context, route, path string) error {
	return c.Do(ctx, http.MethodDelete, route, path, nil, nil)
}
