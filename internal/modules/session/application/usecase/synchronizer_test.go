package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"dareNowConsole/internal/modules/session/application/port"
	"dareNowConsole/internal/modules/session/domain"
)

type eventLog struct {
	mu     sync.Mutex
	events []domain.Event
}

func (l *eventLog) record(e domain.Event) {
	l.mu.Lock()
	l.events = append(l.events, e)
	l.mu.Unlock()
}

func (l *eventLog) all() []domain.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.Event(nil), l.events...)
}

type fakeBridge struct {
	mu        sync.Mutex
	published []domain.Event
	err       error
}

func (b *fakeBridge) Publish(_ context.Context, event domain.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, event)
	return b.err
}

func (b *fakeBridge) Consume(ctx context.Context, _ func(domain.Event)) error {
	<-ctx.Done()
	return nil
}

func TestSynchronizer_NotifyDeliversAndPublishes(t *testing.T) {
	t.Parallel()

	bridge := &fakeBridge{err: errors.New("broker down")}
	synchronizer := NewSynchronizer(NewSessionStore(newFakeKV()), WithEventBridge(bridge), WithOrigin("tab-a"))
	log := &eventLog{}
	synchronizer.Subscribe(log.record)

	synchronizer.Notify(context.Background(), domain.VariantAdmin, domain.EventLogin)

	events := log.all()
	require.Len(t, events, 1)
	require.Equal(t, domain.VariantAdmin, events[0].Variant)
	require.Equal(t, domain.EventLogin, events[0].Kind)
	require.Equal(t, domain.SourceBroadcast, events[0].Source)
	require.Equal(t, "tab-a", events[0].Origin)
	require.Len(t, bridge.published, 1, "publish failures are logged, not returned")
}

func TestSynchronizer_Unsubscribe(t *testing.T) {
	t.Parallel()

	synchronizer := NewSynchronizer(NewSessionStore(newFakeKV()))
	log := &eventLog{}
	unsubscribe := synchronizer.Subscribe(log.record)
	unsubscribe()
	unsubscribe()

	synchronizer.Notify(context.Background(), domain.VariantRestaurant, domain.EventLogout)
	require.Empty(t, log.all())
}

func TestSynchronizer_StorageChangeFromOtherContext(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	kv := newFakeKV()
	store := NewSessionStore(kv)
	synchronizer := NewSynchronizer(store, WithOrigin("tab-b"))
	synchronizer.Prime(ctx)
	log := &eventLog{}
	synchronizer.Subscribe(log.record)

	writeSession(t, store, domain.VariantRestaurant, "R1", domain.Profile{"id": "P1"})

	synchronizer.HandleStorageChange(ctx, port.StorageChange{Key: "restaurantToken", Origin: "tab-a"})
	synchronizer.HandleStorageChange(ctx, port.StorageChange{Key: "restaurant", Origin: "tab-a"})

	events := log.all()
	require.Len(t, events, 1, "two keys of one write yield one event")
	require.Equal(t, domain.VariantRestaurant, events[0].Variant)
	require.Equal(t, domain.EventLogin, events[0].Kind)
	require.Equal(t, domain.SourceStorage, events[0].Source)
}

func TestSynchronizer_IgnoresOwnAndUnrelatedChanges(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewSessionStore(newFakeKV())
	synchronizer := NewSynchronizer(store, WithOrigin("tab-a"))
	synchronizer.Prime(ctx)
	log := &eventLog{}
	synchronizer.Subscribe(log.record)

	writeSession(t, store, domain.VariantAdmin, "A1", domain.Profile{"username": "alice"})

	synchronizer.HandleStorageChange(ctx, port.StorageChange{Key: "token", Origin: "tab-a"})
	synchronizer.HandleStorageChange(ctx, port.StorageChange{Key: "theme", Origin: "tab-b"})
	require.Empty(t, log.all())
}

func TestSynchronizer_RecheckEmitsOnlyOnChange(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewSessionStore(newFakeKV())
	writeSession(t, store, domain.VariantAdmin, "A1", domain.Profile{"username": "alice"})

	synchronizer := NewSynchronizer(store)
	synchronizer.Prime(ctx)
	log := &eventLog{}
	synchronizer.Subscribe(log.record)

	synchronizer.Recheck(ctx, domain.SourceRecheck)
	require.Empty(t, log.all())

	require.NoError(t, store.Clear(ctx, domain.VariantAdmin))
	synchronizer.Recheck(ctx, domain.SourceNavigation)
	synchronizer.Recheck(ctx, domain.SourceNavigation)

	events := log.all()
	require.Len(t, events, 1)
	require.Equal(t, domain.EventLogout, events[0].Kind)
	require.Equal(t, domain.SourceNavigation, events[0].Source)
}

func TestSynchronizer_NotifySuppressesEcho(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewSessionStore(newFakeKV())
	synchronizer := NewSynchronizer(store)
	synchronizer.Prime(ctx)
	log := &eventLog{}
	synchronizer.Subscribe(log.record)

	writeSession(t, store, domain.VariantRestaurant, "R1", domain.Profile{"id": "P1"})
	synchronizer.Notify(ctx, domain.VariantRestaurant, domain.EventLogin)
	// A watcher without origin information reports the same write again.
	synchronizer.HandleStorageChange(ctx, port.StorageChange{Key: "restaurantToken"})

	require.Len(t, log.all(), 1)
}

func TestSynchronizer_RemoteEvents(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewSessionStore(newFakeKV())
	synchronizer := NewSynchronizer(store, WithOrigin("console-1"))
	synchronizer.Prime(ctx)
	log := &eventLog{}
	synchronizer.Subscribe(log.record)

	writeSession(t, store, domain.VariantAdmin, "A1", domain.Profile{"username": "alice"})

	synchronizer.HandleRemoteEvent(ctx, domain.Event{Variant: domain.VariantAdmin, Kind: domain.EventLogin, Origin: "console-1"})
	require.Empty(t, log.all(), "own events relayed by the broker are ignored")

	synchronizer.HandleRemoteEvent(ctx, domain.Event{Variant: domain.VariantAdmin, Kind: domain.EventLogin, Origin: "console-2"})
	events := log.all()
	require.Len(t, events, 1)
	require.Equal(t, domain.SourceRemote, events[0].Source)
}

func TestSynchronizer_SubscriberPanicDoesNotStopOthers(t *testing.T) {
	t.Parallel()

	synchronizer := NewSynchronizer(NewSessionStore(newFakeKV()))
	log := &eventLog{}
	synchronizer.Subscribe(func(domain.Event) { panic("boom") })
	synchronizer.Subscribe(log.record)

	synchronizer.Notify(context.Background(), domain.VariantAdmin, domain.EventLogout)
	require.Len(t, log.all(), 1)
}

func TestSynchronizer_StartRejectsBadSchedule(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	synchronizer := NewSynchronizer(NewSessionStore(newFakeKV()), WithRecheckSpec("every now and then"))
	require.Error(t, synchronizer.Start(ctx))

	synchronizer = NewSynchronizer(NewSessionStore(newFakeKV()), WithRecheckSpec(""), WithEventBridge(&fakeBridge{}))
	require.NoError(t, synchronizer.Start(ctx))
}
