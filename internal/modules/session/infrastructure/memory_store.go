package infrastructure

import (
	"context"
	"sync"

	"dareNowConsole/internal/modules/session/application/port"
)

// MemoryStorage is a key/value space shared by several contexts of one process. A write
// made through one context is announced to the watchers of every other context, never to
// the writer itself.
type MemoryStorage struct {
	mu       sync.RWMutex
	values   map[string]string
	watchers map[uint64]memoryWatcher
	nextID   uint64
}

type memoryWatcher struct {
	origin string
	fn     func(port.StorageChange)
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		values:   make(map[string]string),
		watchers: make(map[uint64]memoryWatcher),
	}
}

// Context returns a view of the storage that tags its writes with origin.
func (m *MemoryStorage) Context(origin string) *MemoryContext {
	return &MemoryContext{storage: m, origin: origin}
}

func (m *MemoryStorage) apply(origin string, set map[string]string, remove []string) {
	m.mu.Lock()
	changed := make([]string, 0, len(set)+len(remove))
	for key, value := range set {
		if current, ok := m.values[key]; ok && current == value {
			continue
		}
		m.values[key] = value
		changed = append(changed, key)
	}
	for _, key := range remove {
		if _, ok := m.values[key]; !ok {
			continue
		}
		delete(m.values, key)
		changed = append(changed, key)
	}
	targets := make([]memoryWatcher, 0, len(m.watchers))
	for _, w := range m.watchers {
		if w.origin != origin {
			targets = append(targets, w)
		}
	}
	m.mu.Unlock()

	for _, key := range changed {
		for _, w := range targets {
			w.fn(port.StorageChange{Key: key, Origin: origin})
		}
	}
}

// MemoryContext is one context's handle on a MemoryStorage.
type MemoryContext struct {
	storage *MemoryStorage
	origin  string
}

func (c *MemoryContext) Origin() string {
	return c.origin
}

func (c *MemoryContext) Get(_ context.Context, key string) (string, error) {
	c.storage.mu.RLock()
	defer c.storage.mu.RUnlock()
	value, ok := c.storage.values[key]
	if !ok {
		return "", port.ErrKeyNotFound
	}
	return value, nil
}

func (c *MemoryContext) SetMany(_ context.Context, values map[string]string) error {
	c.storage.apply(c.origin, values, nil)
	return nil
}

func (c *MemoryContext) DeleteMany(_ context.Context, keys ...string) error {
	c.storage.apply(c.origin, nil, keys)
	return nil
}

// Subscribe registers fn for changes made by other contexts and returns its unsubscribe function.
func (c *MemoryContext) Subscribe(fn func(port.StorageChange)) func() {
	c.storage.mu.Lock()
	c.storage.nextID++
	id := c.storage.nextID
	c.storage.watchers[id] = memoryWatcher{origin: c.origin, fn: fn}
	c.storage.mu.Unlock()

	return func() {
		c.storage.mu.Lock()
		delete(c.storage.watchers, id)
		c.storage.mu.Unlock()
	}
}

// Watch delivers changes made by other contexts until ctx is done.
func (c *MemoryContext) Watch(ctx context.Context, fn func(port.StorageChange)) error {
	unsubscribe := c.Subscribe(fn)
	defer unsubscribe()
	<-ctx.Done()
	return nil
}

var (
	_ port.KeyValueStore  = (*MemoryContext)(nil)
	_ port.StorageWatcher = (*MemoryContext)(nil)
)
