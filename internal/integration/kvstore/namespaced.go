package kvstore

import (
	"context"

	"github.com/ecovekt/backend/internal/application/adapter"
)

// namespaced prefixes every key so that several owners can share one backend.
type namespaced struct {
	inner  adapter.KeyValueStore
	prefix string
}

// Namespaced returns a view of inner where key k is stored as "<namespace>:k".
func Namespaced(inner adapter.KeyValueStore, namespace string) adapter.KeyValueStore {
	return &namespaced{
		inner:  inner,
		prefix: namespace + ":",
	}
}

func (n *namespaced) Get(ctx context.Context, key string) (string, bool, error) {
	return n.inner.Get(ctx, n.prefix+key)
}

func (n *namespaced) Set(ctx context.Context, key, value string) error {
	return n.inner.Set(ctx, n.prefix+key, value)
}

func (n *namespaced) Remove(ctx context.Context, key string) error {
	return n.inner.Remove(ctx, n.prefix+key)
}
