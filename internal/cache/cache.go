// Package cache holds merged desktop views per user.
//
// Entries are derived data: they are loaded on first read after an
// invalidation and never written back. The invalidation contract is:
//
//   - Invalidate(user) after any write that can change that user's view.
//     The icon entry and the boot-info entry are always dropped together.
//   - InvalidateAll() after any write to the shared catalog, since every
//     user's view may change.
//
// A load that overlaps an invalidation of its user is returned to the
// caller but not stored.
package cache

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/roach88/deskicons/internal/icon"
)

// Namespace separates the kinds of per-user entries.
type Namespace string

const (
	NamespaceIcons    Namespace = "desktop_icons"
	NamespaceBootInfo Namespace = "bootinfo"
)

// namespaces lists every per-user entry that Invalidate drops.
var namespaces = []Namespace{NamespaceIcons, NamespaceBootInfo}

// Key addresses one cached entry.
type Key struct {
	Namespace Namespace
	User      string
}

// Store is the backing key-value store.
type Store interface {
	Get(key Key) (any, bool)
	Set(key Key, value any)
	Delete(key Key)
	DeleteAll()
}

// TTLStore is an in-process Store backed by ttlcache.
type TTLStore struct {
	cache *ttlcache.Cache[Key, any]
}

// NewTTLStore creates a TTLStore. A ttl of zero keeps entries until they
// are invalidated.
func NewTTLStore(ttl time.Duration) *TTLStore {
	c := ttlcache.New(
		ttlcache.WithTTL[Key, any](ttl),
		ttlcache.WithDisableTouchOnHit[Key, any](),
	)
	go c.Start()
	return &TTLStore{cache: c}
}

// Get implements Store.
func (s *TTLStore) Get(key Key) (any, bool) {
	item := s.cache.Get(key)
	if item == nil {
		return nil, false
	}
	return item.Value(), true
}

// Set implements Store.
func (s *TTLStore) Set(key Key, value any) {
	s.cache.Set(key, value, ttlcache.DefaultTTL)
}

// Delete implements Store.
func (s *TTLStore) Delete(key Key) {
	s.cache.Delete(key)
}

// DeleteAll implements Store.
func (s *TTLStore) DeleteAll() {
	s.cache.DeleteAll()
}

// Len returns the number of live entries.
func (s *TTLStore) Len() int {
	return s.cache.Len()
}

// Close stops the expiry goroutine.
func (s *TTLStore) Close() {
	s.cache.Stop()
}

// Cache is the per-user desktop cache.
type Cache struct {
	store  Store
	logger *slog.Logger

	mu     sync.Mutex
	global uint64
	users  map[string]uint64
}

// generation identifies the invalidations a load started after.
type generation struct {
	global, user uint64
}

// New creates a Cache over store. A nil logger discards logs.
func New(store Store, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Cache{store: store, logger: logger, users: make(map[string]uint64)}
}

func (c *Cache) generation(user string) generation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return generation{global: c.global, user: c.users[user]}
}

// fill stores value unless user was invalidated since gen was taken.
func (c *Cache) fill(ctx context.Context, key Key, gen generation, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != (generation{global: c.global, user: c.users[key.User]}) {
		c.logger.DebugContext(ctx, "discarding load overtaken by invalidation", "namespace", key.Namespace, "user", key.User)
		return
	}
	c.store.Set(key, value)
}

// Icons returns the cached merged view of user, calling load on a miss.
// Load errors are returned and not cached.
func (c *Cache) Icons(ctx context.Context, user string, load func(context.Context) ([]icon.Icon, error)) ([]icon.Icon, error) {
	key := Key{Namespace: NamespaceIcons, User: user}
	if v, ok := c.store.Get(key); ok {
		if icons, ok := v.([]icon.Icon); ok {
			return slices.Clone(icons), nil
		}
	}

	c.logger.DebugContext(ctx, "desktop icons cache miss", "user", user)
	gen := c.generation(user)
	icons, err := load(ctx)
	if err != nil {
		return nil, err
	}
	c.fill(ctx, key, gen, slices.Clone(icons))
	return icons, nil
}

// BootInfo returns the cached boot info of user, calling load on a miss.
func (c *Cache) BootInfo(ctx context.Context, user string, load func(context.Context) (icon.BootInfo, error)) (icon.BootInfo, error) {
	key := Key{Namespace: NamespaceBootInfo, User: user}
	if v, ok := c.store.Get(key); ok {
		if info, ok := v.(icon.BootInfo); ok {
			return cloneBootInfo(info), nil
		}
	}

	c.logger.DebugContext(ctx, "bootinfo cache miss", "user", user)
	gen := c.generation(user)
	info, err := load(ctx)
	if err != nil {
		return icon.BootInfo{}, err
	}
	c.fill(ctx, key, gen, cloneBootInfo(info))
	return info, nil
}

// Invalidate drops every entry of user.
func (c *Cache) Invalidate(user string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.users[user]++
	for _, ns := range namespaces {
		c.store.Delete(Key{Namespace: ns, User: user})
	}
}

// InvalidateAll drops every entry of every user.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.global++
	clear(c.users)
	c.store.DeleteAll()
}

func cloneBootInfo(info icon.BootInfo) icon.BootInfo {
	info.Modules = slices.Clone(info.Modules)
	info.Hidden = slices.Clone(info.Hidden)
	return info
}
