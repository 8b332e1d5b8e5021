package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/JuanAndresGH-hub/marketplace/internal/storage"
)

// PreferencesStore holds local-only preferences. Favorites are never sent
// to the backend and survive logout.
type PreferencesStore interface {
	GetFavorites(ctx context.Context) ([]string, error)
	SetFavorites(ctx context.Context, ids []string) error
	ClearFavorites(ctx context.Context) error
}

type KVPreferences struct {
	KV storage.KV
}

func NewKVPreferences(kv storage.KV) *KVPreferences {
	return &KVPreferences{KV: kv}
}

func (p *KVPreferences) GetFavorites(ctx context.Context) ([]string, error) {
	raw, err := p.KV.Get(ctx, KeyFavorites)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("read favorites: %w", err)
	}
	return decodeIDs(raw)
}

func (p *KVPreferences) SetFavorites(ctx context.Context, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode favorites: %w", err)
	}
	if err := p.KV.Set(ctx, KeyFavorites, string(b)); err != nil {
		return fmt.Errorf("write favorites: %w", err)
	}
	return nil
}

func (p *KVPreferences) ClearFavorites(ctx context.Context) error {
	return p.KV.Clear(ctx, KeyFavorites)
}

// decodeIDs accepts both string and numeric ids, as written by older clients.
func decodeIDs(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return []string{}, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decode favorites: %w", err)
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		var s string
		if err := json.Unmarshal(it, &s); err == nil {
			out = append(out, s)
			continue
		}
		var n json.Number
		if err := json.Unmarshal(it, &n); err == nil {
			out = append(out, n.String())
		}
	}
	return out, nil
}
