package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"dareNowConsole/internal/modules/session/application/port"
	"dareNowConsole/internal/modules/session/domain"
	"dareNowConsole/internal/shared/metrics"
)

// DefaultRecheckSpec is how often a running synchronizer re-reads the store on its own.
const DefaultRecheckSpec = "@every 30s"

// Handler observes session events.
type Handler func(domain.Event)

// Synchronizer is the single subscription point for session changes of both variants.
// Changes reach it from Notify in this process, from storage watchers, from the broker
// bridge and from re-checks; subscribers see at most one event per actual presence change.
type Synchronizer struct {
	store   port.SessionStore
	watcher port.StorageWatcher
	bridge  port.EventBridge
	origin  string
	spec    string
	now     func() time.Time

	mu          sync.Mutex
	subscribers map[uint64]Handler
	nextID      uint64
	observed    map[domain.Variant]bool
}

type SynchronizerOption func(*Synchronizer)

func WithStorageWatcher(w port.StorageWatcher) SynchronizerOption {
	return func(s *Synchronizer) { s.watcher = w }
}

func WithEventBridge(b port.EventBridge) SynchronizerOption {
	return func(s *Synchronizer) { s.bridge = b }
}

// WithRecheckSpec sets the cron schedule of periodic re-checks. An empty spec disables them.
func WithRecheckSpec(spec string) SynchronizerOption {
	return func(s *Synchronizer) { s.spec = strings.TrimSpace(spec) }
}

// WithOrigin pins the origin id; storage changes and broker events tagged with it are ignored.
func WithOrigin(origin string) SynchronizerOption {
	return func(s *Synchronizer) {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			s.origin = trimmed
		}
	}
}

func NewSynchronizer(store port.SessionStore, opts ...SynchronizerOption) *Synchronizer {
	s := &Synchronizer{
		store:       store,
		origin:      uuid.NewString(),
		spec:        DefaultRecheckSpec,
		now:         time.Now,
		subscribers: make(map[uint64]Handler),
		observed:    make(map[domain.Variant]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Synchronizer) Origin() string {
	return s.origin
}

// Subscribe registers fn and returns its unsubscribe function.
func (s *Synchronizer) Subscribe(fn Handler) func() {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.subscribers[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, id)
			s.mu.Unlock()
		})
	}
}

// Notify broadcasts a change this process just made to the store.
func (s *Synchronizer) Notify(ctx context.Context, variant domain.Variant, kind domain.EventKind) {
	s.mu.Lock()
	s.observed[variant] = kind == domain.EventLogin
	s.mu.Unlock()

	event := s.newEvent(variant, kind, domain.SourceBroadcast)
	s.emit(event)

	if s.bridge != nil {
		if err := s.bridge.Publish(ctx, event); err != nil {
			slog.Warn("session event publish failed", slog.String("variant", variant.String()), slog.String("kind", string(kind)), slog.Any("error", err))
		}
	}
}

// HandleStorageChange reacts to a key written by another context.
func (s *Synchronizer) HandleStorageChange(ctx context.Context, change port.StorageChange) {
	if change.Origin != "" && change.Origin == s.origin {
		return
	}
	variant, ok := domain.VariantForKey(change.Key)
	if !ok {
		return
	}
	s.reconcile(ctx, variant, domain.SourceStorage)
}

// HandleRemoteEvent reacts to an event relayed by the broker.
func (s *Synchronizer) HandleRemoteEvent(ctx context.Context, event domain.Event) {
	if event.Origin == s.origin || !event.Variant.Valid() {
		return
	}
	s.reconcile(ctx, event.Variant, domain.SourceRemote)
}

// Recheck re-reads both sessions and emits events for whatever changed since last observed.
func (s *Synchronizer) Recheck(ctx context.Context, source domain.EventSource) {
	for _, variant := range domain.Variants {
		s.reconcile(ctx, variant, source)
	}
}

// Prime records the current presence of both sessions without emitting events.
func (s *Synchronizer) Prime(ctx context.Context) {
	for _, variant := range domain.Variants {
		_, present := s.store.Read(ctx, variant)
		s.mu.Lock()
		s.observed[variant] = present
		s.mu.Unlock()
	}
}

// Start primes the synchronizer and runs its watcher, bridge consumer and re-check schedule
// until ctx is done.
func (s *Synchronizer) Start(ctx context.Context) error {
	s.Prime(ctx)

	var scheduler *cron.Cron
	if s.spec != "" {
		scheduler = cron.New()
		if _, err := scheduler.AddFunc(s.spec, func() { s.Recheck(ctx, domain.SourceRecheck) }); err != nil {
			return fmt.Errorf("invalid recheck schedule %q: %w", s.spec, err)
		}
	}

	if s.watcher != nil {
		go func() {
			if err := s.watcher.Watch(ctx, func(change port.StorageChange) { s.HandleStorageChange(ctx, change) }); err != nil && ctx.Err() == nil {
				slog.Error("session storage watcher stopped", slog.Any("error", err))
			}
		}()
	}
	if s.bridge != nil {
		go func() {
			if err := s.bridge.Consume(ctx, func(event domain.Event) { s.HandleRemoteEvent(ctx, event) }); err != nil && ctx.Err() == nil {
				slog.Error("session event consumer stopped", slog.Any("error", err))
			}
		}()
	}
	if scheduler != nil {
		scheduler.Start()
		go func() {
			<-ctx.Done()
			scheduler.Stop()
		}()
	}

	slog.Info("session synchronizer started", slog.String("origin", s.origin), slog.String("recheck", s.spec), slog.Bool("watcher", s.watcher != nil), slog.Bool("bridge", s.bridge != nil))
	return nil
}

func (s *Synchronizer) reconcile(ctx context.Context, variant domain.Variant, source domain.EventSource) {
	_, present := s.store.Read(ctx, variant)

	s.mu.Lock()
	previous, known := s.observed[variant]
	s.observed[variant] = present
	s.mu.Unlock()

	if !known || previous == present {
		return
	}
	slog.Info("session change observed", slog.String("variant", variant.String()), slog.Bool("present", present), slog.String("source", string(source)))
	s.emit(s.newEvent(variant, domain.KindFor(present), source))
}

func (s *Synchronizer) newEvent(variant domain.Variant, kind domain.EventKind, source domain.EventSource) domain.Event {
	return domain.Event{
		Variant:   variant,
		Kind:      kind,
		Source:    source,
		Origin:    s.origin,
		Timestamp: s.now().UTC(),
	}
}

func (s *Synchronizer) emit(event domain.Event) {
	metrics.SessionEventsTotal.WithLabelValues(event.Variant.String(), string(event.Kind), string(event.Source)).Inc()

	s.mu.Lock()
	handlers := make([]Handler, 0, len(s.subscribers))
	for _, handler := range s.subscribers {
		handlers = append(handlers, handler)
	}
	s.mu.Unlock()

	for _, handler := range handlers {
		func(h Handler) {
			defer func() {
				if r := recover(); r != nil {
					slog.Warn("session subscriber panic", slog.Any("error", r))
				}
			}()
			h(event)
		}(handler)
	}
}

var _ port.SessionNotifier = (*Synchronizer)(nil)
