package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"dareNowConsole/internal/modules/session/application/port"
)

// FileStore keeps the session keys in one JSON document readable only by the owner.
// Every process pointing at the same path shares the sessions; Watch reports keys changed
// by any of them.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("file store path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}
	return &FileStore{path: path}, nil
}

// DefaultFilePath is ~/.config/darenow/session.json.
func DefaultFilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "darenow", "session.json"), nil
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Get(_ context.Context, key string) (string, error) {
	values, err := s.load()
	if err != nil {
		return "", err
	}
	value, ok := values[key]
	if !ok {
		return "", port.ErrKeyNotFound
	}
	return value, nil
}

func (s *FileStore) SetMany(_ context.Context, values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load()
	if err != nil {
		return err
	}
	for key, value := range values {
		current[key] = value
	}
	return s.save(current)
}

func (s *FileStore) DeleteMany(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load()
	if err != nil {
		return err
	}
	removed := false
	for _, key := range keys {
		if _, ok := current[key]; ok {
			delete(current, key)
			removed = true
		}
	}
	if !removed {
		return nil
	}
	return s.save(current)
}

// Watch reports changed keys until ctx is done. Changes carry no origin: the file does not
// record which process wrote it.
func (s *FileStore) Watch(ctx context.Context, fn func(port.StorageChange)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// The directory is watched because writes replace the file by rename.
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(s.path), err)
	}

	last, err := s.load()
	if err != nil {
		slog.Warn("session file unreadable, watching from empty", slog.String("path", s.path), slog.Any("error", err))
		last = map[string]string{}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(s.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			next, err := s.load()
			if err != nil {
				slog.Debug("session file reload failed", slog.Any("error", err))
				continue
			}
			for _, key := range diffKeys(last, next) {
				fn(port.StorageChange{Key: key})
			}
			last = next
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("session file watcher error", slog.Any("error", err))
		}
	}
}

func (s *FileStore) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}
	values := map[string]string{}
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		// A corrupt file reads as empty; the next write replaces it.
		slog.Warn("session file is not valid JSON", slog.String("path", s.path), slog.Any("error", err))
		return map[string]string{}, nil
	}
	return values, nil
}

func (s *FileStore) save(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session file: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".session-*.json")
	if err != nil {
		return fmt.Errorf("failed to create session file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to restrict session file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace session file: %w", err)
	}
	return nil
}

func diffKeys(before, after map[string]string) []string {
	var keys []string
	for key, value := range after {
		if previous, ok := before[key]; !ok || previous != value {
			keys = append(keys, key)
		}
	}
	for key := range before {
		if _, ok := after[key]; !ok {
			keys = append(keys, key)
		}
	}
	return keys
}

var (
	_ port.KeyValueStore  = (*FileStore)(nil)
	_ port.StorageWatcher = (*FileStore)(nil)
)
