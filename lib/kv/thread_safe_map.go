package kv

import (
	"io"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/benz9527/minimalist/lib/infra"
	"github.com/benz9527/minimalist/lib/xlog"
)

// threadSafeMap serializes every access to the store with one RWMutex.
type threadSafeMap[K any, V any] struct {
	lock           sync.RWMutex
	store          Map[K, V]
	logger         xlog.XLogger
	isClosableItem bool
}

func (t *threadSafeMap[K, V]) Len() int64 {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.store.Len()
}

func (t *threadSafeMap[K, V]) AddOrUpdate(key K, obj V) {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.store.Put(key, obj)
}

// Replace swaps the store and hands the previous one back to the caller
// untouched.
func (t *threadSafeMap[K, V]) Replace(store Map[K, V]) Map[K, V] {
	if store == nil {
		return nil
	}
	t.lock.Lock()
	defer t.lock.Unlock()
	prev := t.store
	t.store = store
	return prev
}

func (t *threadSafeMap[K, V]) Delete(key K) (item V, exists bool) {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.store.Remove(key)
}

func (t *threadSafeMap[K, V]) Get(key K) (item V, exists bool) {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.store.Get(key)
}

// ListKeys returns the keys accepted by any of the filters, or all the
// keys without filters.
func (t *threadSafeMap[K, V]) ListKeys(filters ...SafeStoreKeyFilterFunc[K]) []K {
	realFilters := make([]SafeStoreKeyFilterFunc[K], 0, len(filters))
	for _, filter := range filters {
		if filter != nil {
			realFilters = append(realFilters, filter)
		}
	}
	if len(realFilters) == 0 {
		realFilters = append(realFilters, defaultAllKeysFilter[K])
	}

	t.lock.RLock()
	defer t.lock.RUnlock()

	keys := make([]K, 0, t.store.Len())
	t.store.Foreach(func(key K, _ V) bool {
		for _, filter := range realFilters {
			if filter(key) {
				keys = append(keys, key)
				break
			}
		}
		return true
	})
	return keys
}

// ListValues returns the values of the given keys in argument order,
// missing keys are skipped. Without keys it returns all the values.
func (t *threadSafeMap[K, V]) ListValues(keys ...K) (items []V) {
	t.lock.RLock()
	defer t.lock.RUnlock()

	if len(keys) == 0 {
		return t.store.Values()
	}
	items = make([]V, 0, len(keys))
	for _, key := range keys {
		if item, exists := t.store.Get(key); exists {
			items = append(items, item)
		}
	}
	return items
}

// Purge closes the closable items (if enabled) and releases the store.
// The store is released even if some items fail to close.
func (t *threadSafeMap[K, V]) Purge() error {
	t.lock.Lock()
	defer t.lock.Unlock()

	var merr error
	if t.isClosableItem {
		t.store.Foreach(func(key K, item V) bool {
			if infra.IsNilValue(item) {
				return true
			}
			closer, ok := any(item).(io.Closer)
			if !ok {
				return true
			}
			if err := closer.Close(); err != nil {
				t.logger.Error(err, "[kv] purge close item failed", zap.Any("key", key))
				merr = multierr.Append(merr, err)
			}
			return true
		})
	}
	t.store.Release()
	return merr
}

type ThreadSafeMapOption[K any, V any] func(*threadSafeMap[K, V])

func WithThreadSafeMapCloseableItemCheck[K any, V any]() ThreadSafeMapOption[K, V] {
	return func(m *threadSafeMap[K, V]) {
		m.isClosableItem = true
	}
}

func WithThreadSafeMapLogger[K any, V any](logger xlog.XLogger) ThreadSafeMapOption[K, V] {
	return func(m *threadSafeMap[K, V]) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewThreadSafeMap wraps the store, it panics on a nil store.
func NewThreadSafeMap[K any, V any](store Map[K, V], opts ...ThreadSafeMapOption[K, V]) ThreadSafeStorer[K, V] {
	if store == nil {
		panic("[kv] thread safe map nil store")
	}
	m := &threadSafeMap[K, V]{
		store:  store,
		logger: xlog.NewNopXLogger(),
	}
	for _, o := range opts {
		if o != nil {
			o(m)
		}
	}
	return m
}
