package session

import (
	"context"
	"errors"
	"sync"
	"time"

	d "github.com/Abu-Issam/buyshea-connect/internal/domain"
	"github.com/Abu-Issam/buyshea-connect/internal/session/cache"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultTTL = 24 * time.Hour

	// CleanupInterval is how often idle sessions are evicted.
	CleanupInterval = time.Minute

	cacheTimeout = time.Second
)

// ProductLookup resolves cached product ids back to catalog products.
type ProductLookup interface {
	ByID(id string) (d.Product, bool)
}

type Config struct {
	TTL             time.Duration
	CleanupInterval time.Duration
	Deps            Deps
	// Cache is optional; without it carts live only in memory.
	Cache   cache.CartCache
	Catalog ProductLookup
	Logger  *zap.Logger
}

// Store keeps visitor sessions in memory and evicts idle ones.
type Store struct {
	cfg Config
	now func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session

	sfg singleflight.Group // one cache read per cold session

	stopCleanup chan struct{}
	wg          sync.WaitGroup
	closeOnce   sync.Once
}

func NewStore(cfg Config) *Store {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = CleanupInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Deps.Logger == nil {
		cfg.Deps.Logger = cfg.Logger
	}

	s := &Store{
		cfg:         cfg,
		now:         time.Now,
		sessions:    make(map[string]*Session),
		stopCleanup: make(chan struct{}),
	}

	s.wg.Add(1)
	go s.cleanupLoop()

	return s
}

// Get returns a live session and marks it as used.
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok {
		sess.touch(s.now())
	}
	return sess, ok
}

// GetOrCreate returns the session for id. Unknown ids that look valid are
// reused so a cart cached before a restart comes back; anything else gets a
// fresh id.
func (s *Store) GetOrCreate(ctx context.Context, id string) (*Session, bool) {
	if sess, ok := s.Get(id); ok {
		return sess, false
	}
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}

	lines := s.rehydrate(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		sess.touch(s.now())
		return sess, false
	}

	sess := newSession(id, s.cfg.Deps, s.now())
	if len(lines) > 0 {
		sess.Cart.Restore(lines)
	}
	if s.cfg.Cache != nil {
		sess.Cart.OnChange(func([]d.CartLine) { s.persist(sess) })
	}
	s.sessions[id] = sess
	return sess, true
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Close stops the cleanup loop and closes every session.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopCleanup)
		s.wg.Wait()

		s.mu.Lock()
		sessions := s.sessions
		s.sessions = make(map[string]*Session)
		s.mu.Unlock()

		for _, sess := range sessions {
			sess.close()
		}
	})
	return nil
}

func (s *Store) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.expireSessions()
		case <-s.stopCleanup:
			return
		}
	}
}

// expireSessions evicts sessions idle for longer than the TTL. Cached carts
// stay in Redis until their own TTL runs out.
func (s *Store) expireSessions() int {
	cutoff := s.now().Add(-s.cfg.TTL)

	s.mu.Lock()
	var expired []*Session
	for id, sess := range s.sessions {
		if sess.LastSeen().Before(cutoff) {
			expired = append(expired, sess)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range expired {
		sess.close()
	}
	if len(expired) > 0 {
		s.cfg.Logger.Info("expired idle sessions", zap.Int("count", len(expired)))
	}
	return len(expired)
}

func (s *Store) rehydrate(ctx context.Context, id string) []d.CartLine {
	if s.cfg.Cache == nil || s.cfg.Catalog == nil {
		return nil
	}

	v, err, _ := s.sfg.Do(id, func() (interface{}, error) {
		ctx, cancel := context.WithTimeout(ctx, cacheTimeout)
		defer cancel()

		entry, err := s.cfg.Cache.Get(ctx, id)
		if err != nil {
			return nil, err
		}

		lines := make([]d.CartLine, 0, len(entry.Items))
		for _, it := range entry.Items {
			p, ok := s.cfg.Catalog.ByID(it.ProductID)
			if !ok {
				continue // product left the catalog
			}
			lines = append(lines, d.CartLine{Product: p, Quantity: it.Quantity})
		}
		return lines, nil
	})
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.cfg.Logger.Warn("cache get error", zap.String("session_id", id), zap.Error(err))
		}
		return nil
	}
	return v.([]d.CartLine)
}

// persist writes the cart's current lines. Writes are serialized per session
// so the last one carries the latest state.
func (s *Store) persist(sess *Session) {
	sess.persistMu.Lock()
	defer sess.persistMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), cacheTimeout)
	defer cancel()

	id := sess.ID
	lines := sess.Cart.Lines()

	var err error
	if len(lines) == 0 {
		err = s.cfg.Cache.Delete(ctx, id)
	} else {
		entry := &cache.CartEntry{SessionID: id, UpdatedAt: s.now()}
		for _, l := range lines {
			entry.Items = append(entry.Items, cache.CartItem{ProductID: l.Product.ID, Quantity: l.Quantity})
		}
		err = s.cfg.Cache.Set(ctx, id, entry)
	}
	if err != nil {
		s.cfg.Logger.Warn("cache write error", zap.String("session_id", id), zap.Error(err))
	}
}
