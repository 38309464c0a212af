package session

import (
	"container/list"
	"context"
	"net/http"
	"strings"
	"sync"

	contractx "github.com/digitaldept/business-advisor/advisor/contract"
)

const (
	defaultCapacity = 8
	bearerPrefix    = "bearer "
)

// CredentialSource supplies the process-wide fallback credential used when a
// request carries no Authorization header.
type CredentialSource interface {
	Token() string
}

// CacheOption customizes a Cache.
type CacheOption func(*Cache)

// WithCapacity bounds the number of concurrently cached sessions; size it to
// the expected number of concurrent tenants.
func WithCapacity(n int) CacheOption {
	return func(c *Cache) {
		if n > 0 {
			c.capacity = n
		}
	}
}

// Cache holds live agent sessions keyed by the credential they were built
// with. Entries are evicted least-recently-used; a credential's session is
// built at most once, and concurrent callers with the same credential share
// the same session instance.
type Cache struct {
	factory  Factory
	fallback CredentialSource

	mu       sync.Mutex
	capacity int
	items    map[string]*list.Element
	lru      *list.List
}

type cacheEntry struct {
	credential string
	once       sync.Once
	session    *Session
	err        error
}

func NewCache(factory Factory, fallback CredentialSource, opts ...CacheOption) *Cache {
	c := &Cache{
		factory:  factory,
		fallback: fallback,
		capacity: defaultCapacity,
		items:    make(map[string]*list.Element, defaultCapacity),
		lru:      list.New(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// GetSession resolves the request credential and returns the session bound to
// it, building one through the factory on first use. The factory call runs
// outside the cache lock, so a slow build for one credential does not block
// lookups for another.
func (c *Cache) GetSession(ctx context.Context, headers http.Header) (*Session, error) {
	credential, err := ResolveCredential(headers, c.fallback)
	if err != nil {
		return nil, err
	}

	entry := c.entryFor(credential)
	entry.once.Do(func() {
		entry.session, entry.err = c.factory.Build(ctx, credential)
	})
	if entry.err != nil {
		// Drop the failed entry so a later request can retry the build.
		c.remove(credential, entry)
		return nil, entry.err
	}
	return entry.session, nil
}

// Len returns the number of cached sessions.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

func (c *Cache) entryFor(credential string) *cacheEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[credential]; ok {
		c.lru.MoveToFront(elem)
		return elem.Value.(*cacheEntry)
	}

	entry := &cacheEntry{credential: credential}
	c.items[credential] = c.lru.PushFront(entry)

	if c.lru.Len() > c.capacity {
		if oldest := c.lru.Back(); oldest != nil {
			c.lru.Remove(oldest)
			delete(c.items, oldest.Value.(*cacheEntry).credential)
		}
	}
	return entry
}

func (c *Cache) remove(credential string, entry *cacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[credential]
	if !ok || elem.Value.(*cacheEntry) != entry {
		return
	}
	c.lru.Remove(elem)
	delete(c.items, credential)
}

// ResolveCredential extracts the bearer token from the Authorization header
// (case-insensitive header name and scheme), falling back to the
// process-wide credential source. An empty outcome is a client error.
func ResolveCredential(headers http.Header, fallback CredentialSource) (string, error) {
	raw := strings.TrimSpace(headerValue(headers, "Authorization"))
	if len(raw) >= len(bearerPrefix) && strings.EqualFold(raw[:len(bearerPrefix)], bearerPrefix) {
		if token := strings.TrimSpace(raw[len(bearerPrefix):]); token != "" {
			return token, nil
		}
	}

	if fallback != nil {
		if token := strings.TrimSpace(fallback.Token()); token != "" {
			return token, nil
		}
	}
	return "", contractx.ErrMissingCredential
}

func headerValue(headers http.Header, name string) string {
	for key, values := range headers {
		if strings.EqualFold(key, name) && len(values) > 0 {
			return values[0]
		}
	}
	return ""
}
