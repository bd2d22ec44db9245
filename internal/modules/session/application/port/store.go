package port

import (
	"context"
	"errors"

	"dareNowConsole/internal/modules/session/domain"
)

// ErrKeyNotFound is returned by KeyValueStore.Get for absent keys.
var ErrKeyNotFound = errors.New("key not found")

// KeyValueStore is the flat physical storage behind sessions. SetMany and DeleteMany apply
// all keys or none, which is how a token never lands without its profile.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	SetMany(ctx context.Context, values map[string]string) error
	DeleteMany(ctx context.Context, keys ...string) error
}

// StorageChange describes a key changed by a writer other than the observer.
type StorageChange struct {
	Key    string
	Origin string
}

// StorageWatcher delivers changes made by other processes or contexts. Watch blocks until
// ctx is done.
type StorageWatcher interface {
	Watch(ctx context.Context, fn func(StorageChange)) error
}

// SessionStore is the canonical owner of both sessions.
type SessionStore interface {
	Write(ctx context.Context, variant domain.Variant, token string, profile domain.Profile) error
	Read(ctx context.Context, variant domain.Variant) (*domain.Session, bool)
	Clear(ctx context.Context, variant domain.Variant) error
}
