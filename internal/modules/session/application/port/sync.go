package port

import (
	"context"

	"dareNowConsole/internal/modules/session/domain"
)

// SessionNotifier broadcasts session changes after a write or clear.
type SessionNotifier interface {
	Notify(ctx context.Context, variant domain.Variant, kind domain.EventKind)
}

// EventBridge relays session events between processes through a message broker.
type EventBridge interface {
	Publish(ctx context.Context, event domain.Event) error
	Consume(ctx context.Context, fn func(domain.Event)) error
}

// Navigator is the view router seen by the session core. Location reports the current view;
// Redirect replaces it.
type Navigator interface {
	Location() string
	Redirect(location string)
}
