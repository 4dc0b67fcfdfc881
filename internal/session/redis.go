package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore guarda a sessão de um perfil numa única chave
// Útil quando vários processos (daemon + CLI) compartilham o mesmo login
type RedisStore struct {
	R       redis.Cmdable
	Profile string
	TTL     time.Duration // 0 = sem expiração
}

func NewRedisStore(r redis.Cmdable, profile string, ttl time.Duration) *RedisStore {
	return &RedisStore{R: r, Profile: profile, TTL: ttl}
}

func keySession(profile string) string { return "yegame:session:" + profile }

func (s *RedisStore) Load(ctx context.Context) (Session, error) {
	b, err := s.R.Get(ctx, keySession(s.Profile)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, nil
	}
	if err != nil {
		return Session{}, fmt.Errorf("redis get session: %w", err)
	}
	var out Session
	if err := json.Unmarshal(b, &out); err != nil {
		return Session{}, fmt.Errorf("decode session: %w", err)
	}
	return out, nil
}

func (s *RedisStore) Save(ctx context.Context, sess Session) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.R.Set(ctx, keySession(s.Profile), b, s.TTL).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.R.Del(ctx, keySession(s.Profile)).Err(); err != nil {
		return fmt.Errorf("redis del session: %w", err)
	}
	return nil
}
