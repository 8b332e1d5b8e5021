package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/JuanAndresGH-hub/marketplace/internal/storage"
)

const (
	KeyToken     = "dm_token"
	KeyUser      = "dm_user"
	KeyFavorites = "dm_favs"
)

var ErrNoSession = errors.New("no session")

type Session struct {
	Token    string
	Username string
}

type SessionStore interface {
	Get(ctx context.Context) (Session, error)
	Set(ctx context.Context, s Session) error
	Clear(ctx context.Context) error
}

// KVSession keeps the token and the username under separate keys.
type KVSession struct {
	KV storage.KV
}

func NewKVSession(kv storage.KV) *KVSession {
	return &KVSession{KV: kv}
}

func (s *KVSession) Get(ctx context.Context) (Session, error) {
	token, err := s.KV.Get(ctx, KeyToken)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Session{}, ErrNoSession
		}
		return Session{}, fmt.Errorf("read token: %w", err)
	}
	if token == "" {
		return Session{}, ErrNoSession
	}

	user, err := s.KV.Get(ctx, KeyUser)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return Session{}, fmt.Errorf("read username: %w", err)
	}
	return Session{Token: token, Username: user}, nil
}

func (s *KVSession) Set(ctx context.Context, sess Session) error {
	if sess.Token == "" {
		return fmt.Errorf("empty token: %w", ErrNoSession)
	}
	if err := s.KV.Set(ctx, KeyToken, sess.Token); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	if err := s.KV.Set(ctx, KeyUser, sess.Username); err != nil {
		return fmt.Errorf("write username: %w", err)
	}
	return nil
}

func (s *KVSession) Clear(ctx context.Context) error {
	if err := s.KV.Clear(ctx, KeyToken); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	if err := s.KV.Clear(ctx, KeyUser); err != nil {
		return fmt.Errorf("clear username: %w", err)
	}
	return nil
}

// Token returns the stored bearer token or "" when there is none.
func Token(ctx context.Context, s SessionStore) string {
	sess, err := s.Get(ctx)
	if err != nil {
		return ""
	}
	return sess.Token
}
