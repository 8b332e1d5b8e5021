package events

import (
	"context"
	"time"

	"github.com/JuanAndresGH-hub/marketplace/internal/models"
)

const (
	TypeItemAdded   = "cart_item_added"
	TypeItemRemoved = "cart_item_removed"
)

// Event describes a cart mutation confirmed by the backend.
type Event struct {
	Type      string    `json:"type"`
	Username  string    `json:"username,omitempty"`
	ProductID models.ID `json:"productID,omitempty"`
	LineID    models.ID `json:"lineID,omitempty"`
	CartCount int       `json:"cartCount"`
	At        time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Noop is used when no brokers are configured.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Close() error                         { return nil }
