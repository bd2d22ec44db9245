package infrastructure

import (
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"dareNowConsole/internal/modules/session/application/port"
)

const (
	DriverFile   = "file"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// StoreOptions selects and configures the key/value backend of the session store.
type StoreOptions struct {
	Driver string
	// Path of the file store; empty uses DefaultFilePath.
	Path        string
	Redis       *redis.Client
	RedisPrefix string
	// Origin tags writes so a process ignores its own change notifications.
	Origin string
}

// Backend is a key/value store that also reports changes made elsewhere.
type Backend interface {
	port.KeyValueStore
	port.StorageWatcher
}

// OpenStore builds the backend named by opts.Driver.
func OpenStore(opts StoreOptions) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Driver)) {
	case DriverFile, "":
		path := opts.Path
		if path == "" {
			defaultPath, err := DefaultFilePath()
			if err != nil {
				return nil, err
			}
			path = defaultPath
		}
		return NewFileStore(path)
	case DriverRedis:
		if opts.Redis == nil {
			return nil, fmt.Errorf("redis store: no client configured")
		}
		return NewRedisStore(opts.Redis, opts.RedisPrefix, opts.Origin), nil
	case DriverMemory:
		return NewMemoryStorage().Context(opts.Origin), nil
	default:
		return nil, fmt.Errorf("unknown session store driver %q", opts.Driver)
	}
}
