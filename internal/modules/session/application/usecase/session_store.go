package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"dareNowConsole/internal/modules/session/application/port"
	"dareNowConsole/internal/modules/session/domain"
)

// SessionStore maps sessions onto the physical key/value store. Reads fail closed: anything
// short of a token plus a parseable profile object is reported as absent.
type SessionStore struct {
	kv port.KeyValueStore
}

func NewSessionStore(kv port.KeyValueStore) *SessionStore {
	return &SessionStore{kv: kv}
}

func (s *SessionStore) Write(ctx context.Context, variant domain.Variant, token string, profile domain.Profile) error {
	if !variant.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownVariant, variant)
	}
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("%w: %s session without token", domain.ErrMalformedResponse, variant)
	}
	if len(profile) == 0 {
		return fmt.Errorf("%w: %s session without profile", domain.ErrMalformedResponse, variant)
	}

	// Encode first so a bad profile never leaves a token behind.
	encoded, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode %s profile: %w", variant, err)
	}

	keys := variant.Keys()
	if err := s.kv.SetMany(ctx, map[string]string{
		keys.Token:   token,
		keys.Profile: string(encoded),
	}); err != nil {
		return fmt.Errorf("write %s session: %w", variant, err)
	}
	slog.Debug("session written", slog.String("variant", variant.String()), slog.Int("tokenLen", len(token)))
	return nil
}

func (s *SessionStore) Read(ctx context.Context, variant domain.Variant) (*domain.Session, bool) {
	if !variant.Valid() {
		return nil, false
	}
	keys := variant.Keys()

	token, err := s.kv.Get(ctx, keys.Token)
	if err != nil {
		if !errors.Is(err, port.ErrKeyNotFound) {
			slog.Warn("session token read failed", slog.String("variant", variant.String()), slog.Any("error", err))
		}
		return nil, false
	}
	if strings.TrimSpace(token) == "" {
		return nil, false
	}

	raw, err := s.kv.Get(ctx, keys.Profile)
	if err != nil {
		if !errors.Is(err, port.ErrKeyNotFound) {
			slog.Warn("session profile read failed", slog.String("variant", variant.String()), slog.Any("error", err))
		}
		return nil, false
	}

	var profile domain.Profile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil || profile == nil {
		slog.Debug("session profile unreadable", slog.String("variant", variant.String()), slog.Any("error", err))
		return nil, false
	}

	return &domain.Session{Variant: variant, Token: token, Profile: profile}, true
}

func (s *SessionStore) Clear(ctx context.Context, variant domain.Variant) error {
	if !variant.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownVariant, variant)
	}
	keys := variant.Keys()
	if err := s.kv.DeleteMany(ctx, keys.Token, keys.Profile); err != nil {
		return fmt.Errorf("clear %s session: %w", variant, err)
	}
	slog.Debug("session cleared", slog.String("variant", variant.String()))
	return nil
}

var _ port.SessionStore = (*SessionStore)(nil)
