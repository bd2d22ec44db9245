package usecase

import (
	"context"
	"sync"

	"dareNowConsole/internal/modules/session/application/port"
	"dareNowConsole/internal/modules/session/domain"
)

type fakeKV struct {
	mu     sync.Mutex
	values map[string]string
	setErr error
}

func newFakeKV() *fakeKV {
	return &fakeKV{values: map[string]string{}}
}

func (f *fakeKV) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	value, ok := f.values[key]
	if !ok {
		return "", port.ErrKeyNotFound
	}
	return value, nil
}

func (f *fakeKV) SetMany(_ context.Context, values map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	for key, value := range values {
		f.values[key] = value
	}
	return nil
}

func (f *fakeKV) DeleteMany(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func (f *fakeKV) put(key, value string) {
	f.mu.Lock()
	f.values[key] = value
	f.mu.Unlock()
}

type notification struct {
	variant domain.Variant
	kind    domain.EventKind
}

type recordingNotifier struct {
	mu    sync.Mutex
	calls []notification
}

func (r *recordingNotifier) Notify(_ context.Context, variant domain.Variant, kind domain.EventKind) {
	r.mu.Lock()
	r.calls = append(r.calls, notification{variant: variant, kind: kind})
	r.mu.Unlock()
}

func (r *recordingNotifier) all() []notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notification(nil), r.calls...)
}

type fakeAuthAPI struct {
	adminToken      string
	adminProfile    domain.AdminProfile
	restaurantToken string
	restaurantData  domain.Profile
	err             error

	loginCalls    int
	passwordCalls []string
	passwordErr   error
}

func (f *fakeAuthAPI) AdminLogin(_ context.Context, _ port.Credentials) (string, domain.AdminProfile, error) {
	f.loginCalls++
	if f.err != nil {
		return "", domain.AdminProfile{}, f.err
	}
	return f.adminToken, f.adminProfile, nil
}

func (f *fakeAuthAPI) RestaurantLogin(_ context.Context, _ port.Credentials) (string, domain.Profile, error) {
	f.loginCalls++
	if f.err != nil {
		return "", nil, f.err
	}
	return f.restaurantToken, f.restaurantData, nil
}

func (f *fakeAuthAPI) ChangeAdminPassword(_ context.Context, username, current, next string) error {
	f.passwordCalls = append(f.passwordCalls, username+":"+current+":"+next)
	return f.passwordErr
}

func writeSession(t interface{ Fatalf(string, ...any) }, store *SessionStore, variant domain.Variant, token string, profile domain.Profile) {
	if err := store.Write(context.Background(), variant, token, profile); err != nil {
		t.Fatalf("write %s session: %v", variant, err)
	}
}
