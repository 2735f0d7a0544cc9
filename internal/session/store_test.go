package session

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/Abu-Issam/buyshea-connect/internal/catalog"
	"github.com/Abu-Issam/buyshea-connect/internal/payment"
	"github.com/Abu-Issam/buyshea-connect/internal/session/cache"
	"github.com/Abu-Issam/buyshea-connect/internal/validation"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type okScript struct{}

func (okScript) Load(context.Context) error { return nil }

// setupPayments returns a store whose sessions pay through an inline widget
// registered in the returned registry.
func setupPayments(t *testing.T, cfg Config) (*Store, *payment.Registry) {
	registry := payment.NewRegistry()
	cfg.Deps.Payments = payment.NewAdapter(payment.Config{PublicKey: "pk_test", Currency: "GHS"},
		okScript{}, payment.NewInlineWidget(registry), zap.NewNop())
	cfg.Deps.Currency = "GHS"
	cfg.Deps.ChatDelay = time.Minute
	return setupStore(t, cfg), registry
}

func startPayment(t *testing.T, s *Store, registered *payment.Registry, want int) *Session {
	sess, _ := s.GetOrCreate(context.Background(), "")
	butter, _ := catalog.Default().ByID("1")
	sess.Cart.AddOrIncrement(butter, 1)
	require.NoError(t, sess.Checkout.Proceed())
	_, err := sess.Checkout.Submit(context.Background(), validation.CustomerInput{Name: "Ama Mensah", Email: "ama@example.com"})
	require.NoError(t, err)
	require.Eventually(t, func() bool { return registered.Len() == want }, 2*time.Second, 5*time.Millisecond)
	return sess
}

func setupStore(t *testing.T, cfg Config) *Store {
	if cfg.CleanupInterval == 0 {
		cfg.CleanupInterval = time.Hour
	}
	s := NewStore(cfg)
	t.Cleanup(func() { s.Close() })
	return s
}

func setupRedis(t *testing.T) (*cache.RedisCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return cache.NewRedisCache(client), mr
}

func TestGetOrCreate(t *testing.T) {
	s := setupStore(t, Config{})

	sess, created := s.GetOrCreate(context.Background(), "")
	require.True(t, created)
	_, err := uuid.Parse(sess.ID)
	require.NoError(t, err)

	again, created := s.GetOrCreate(context.Background(), sess.ID)
	assert.False(t, created)
	assert.Same(t, sess, again)
	assert.Equal(t, 1, s.Len())
}

func TestGetOrCreate_ReplacesMalformedID(t *testing.T) {
	s := setupStore(t, Config{})

	sess, created := s.GetOrCreate(context.Background(), "not-a-uuid")
	assert.True(t, created)
	assert.NotEqual(t, "not-a-uuid", sess.ID)
}

func TestGetOrCreate_KeepsWellFormedUnknownID(t *testing.T) {
	s := setupStore(t, Config{})
	id := uuid.NewString()

	sess, created := s.GetOrCreate(context.Background(), id)
	assert.True(t, created)
	assert.Equal(t, id, sess.ID)
}

func TestGetOrCreate_Concurrent(t *testing.T) {
	s := setupStore(t, Config{})
	id := uuid.NewString()

	var wg sync.WaitGroup
	results := make([]*Session, 20)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = s.GetOrCreate(context.Background(), id)
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Same(t, results[0], r)
	}
	assert.Equal(t, 1, s.Len())
}

func TestExpireSessions(t *testing.T) {
	s := setupStore(t, Config{TTL: time.Hour})
	now := time.Now()
	s.now = func() time.Time { return now }

	idle, _ := s.GetOrCreate(context.Background(), "")
	now = now.Add(30 * time.Minute)
	active, _ := s.GetOrCreate(context.Background(), "")

	now = now.Add(45 * time.Minute)
	assert.Equal(t, 1, s.expireSessions())

	_, ok := s.Get(idle.ID)
	assert.False(t, ok)
	_, ok = s.Get(active.ID)
	assert.True(t, ok)
}

func TestGet_RefreshesLastSeen(t *testing.T) {
	s := setupStore(t, Config{TTL: time.Hour})
	now := time.Now()
	s.now = func() time.Time { return now }

	sess, _ := s.GetOrCreate(context.Background(), "")
	now = now.Add(50 * time.Minute)
	_, ok := s.Get(sess.ID)
	require.True(t, ok)

	now = now.Add(50 * time.Minute)
	assert.Zero(t, s.expireSessions())
}

func TestCartWriteThroughAndRestore(t *testing.T) {
	redisCache, mr := setupRedis(t)
	cat := catalog.Default()
	cfg := Config{Cache: redisCache, Catalog: cat}

	first := setupStore(t, cfg)
	sess, _ := first.GetOrCreate(context.Background(), "")

	butter, _ := cat.ByID("1")
	cream, _ := cat.ByID("3")
	sess.Cart.AddOrIncrement(butter, 1)
	sess.Cart.AddOrIncrement(cream, 2)

	stored, err := mr.Get("cart:" + sess.ID)
	require.NoError(t, err)
	var entry cache.CartEntry
	require.NoError(t, json.Unmarshal([]byte(stored), &entry))
	assert.Equal(t, []cache.CartItem{{ProductID: "1", Quantity: 1}, {ProductID: "3", Quantity: 2}}, entry.Items)

	// a fresh store stands in for a restarted process
	second := setupStore(t, cfg)
	restored, created := second.GetOrCreate(context.Background(), sess.ID)
	require.True(t, created)

	lines := restored.Cart.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "Pure Organic Shea Butter", lines[0].Product.Name)
	assert.Equal(t, 2, lines[1].Quantity)
	assert.Equal(t, "221.97", restored.Cart.Totals().Subtotal.StringFixed(2))

	restored.Cart.Clear()
	assert.False(t, mr.Exists("cart:"+sess.ID))
}

func TestRestore_SkipsUnknownProducts(t *testing.T) {
	redisCache, _ := setupRedis(t)
	id := uuid.NewString()
	require.NoError(t, redisCache.Set(context.Background(), id, &cache.CartEntry{
		SessionID: id,
		Items:     []cache.CartItem{{ProductID: "999", Quantity: 1}, {ProductID: "2", Quantity: 3}},
	}))

	s := setupStore(t, Config{Cache: redisCache, Catalog: catalog.Default()})
	sess, _ := s.GetOrCreate(context.Background(), id)

	lines := sess.Cart.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "2", lines[0].Product.ID)
	assert.Equal(t, 3, lines[0].Quantity)
}

func TestRestore_CacheDownStartsEmpty(t *testing.T) {
	redisCache, mr := setupRedis(t)
	mr.Close()

	s := setupStore(t, Config{Cache: redisCache, Catalog: catalog.Default()})
	sess, created := s.GetOrCreate(context.Background(), uuid.NewString())

	assert.True(t, created)
	assert.Empty(t, sess.Cart.Lines())
}

func TestClose_IsIdempotent(t *testing.T) {
	s := NewStore(Config{CleanupInterval: time.Hour})
	s.GetOrCreate(context.Background(), "")

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.Zero(t, s.Len())
}

func TestExpireSessions_ReleasesPaymentRegistrations(t *testing.T) {
	s, registry := setupPayments(t, Config{TTL: time.Hour})
	now := time.Now()
	s.now = func() time.Time { return now }

	sess := startPayment(t, s, registry, 1)

	now = now.Add(2 * time.Hour)
	assert.Equal(t, 1, s.expireSessions())
	require.Eventually(t, func() bool { return registry.Len() == 0 }, 2*time.Second, 5*time.Millisecond)
	assert.ErrorIs(t, registry.Close(sess.ID, sess.Checkout.Snapshot().Reference), payment.ErrUnknownReference)
}

func TestClose_ReleasesPaymentRegistrations(t *testing.T) {
	s, registry := setupPayments(t, Config{})

	startPayment(t, s, registry, 1)
	startPayment(t, s, registry, 2)

	require.NoError(t, s.Close())
	require.Eventually(t, func() bool { return registry.Len() == 0 }, 2*time.Second, 5*time.Millisecond)
}

func TestCartWriteThrough_ConcurrentEditsKeepLatest(t *testing.T) {
	redisCache, mr := setupRedis(t)
	cat := catalog.Default()
	s := setupStore(t, Config{Cache: redisCache, Catalog: cat})
	sess, _ := s.GetOrCreate(context.Background(), "")

	ids := []string{"1", "2", "3", "4"}
	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, _ := cat.ByID(ids[i%len(ids)])
			if i%5 == 4 {
				sess.Cart.Remove(p.ID)
				return
			}
			sess.Cart.AddOrIncrement(p, 1)
		}(i)
	}
	wg.Wait()

	var want []cache.CartItem
	for _, l := range sess.Cart.Lines() {
		want = append(want, cache.CartItem{ProductID: l.Product.ID, Quantity: l.Quantity})
	}

	if len(want) == 0 {
		assert.False(t, mr.Exists("cart:"+sess.ID))
		return
	}
	stored, err := mr.Get("cart:" + sess.ID)
	require.NoError(t, err)
	var entry cache.CartEntry
	require.NoError(t, json.Unmarshal([]byte(stored), &entry))
	assert.Equal(t, want, entry.Items)
}
