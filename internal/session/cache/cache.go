package cache

import (
	"context"
	"errors"
	"time"
)

var ErrCacheMiss = errors.New("cache miss")

// CartItem is the cached form of a cart line. Products are resolved from the
// catalog again on restore, so only the id is kept.
type CartItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type CartEntry struct {
	SessionID string     `json:"session_id"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type CartCache interface {
	Get(ctx context.Context, sessionID string) (*CartEntry, error)
	Set(ctx context.Context, sessionID string, entry *CartEntry) error
	Delete(ctx context.Context, sessionID string) error
}
