package infrastructure

import (
	"sync"

	"dareNowConsole/internal/modules/session/application/port"
	"dareNowConsole/internal/modules/session/domain"
)

// Navigator tracks the current view of one console context. Redirects replace the location
// and are remembered until taken.
type Navigator struct {
	mu       sync.Mutex
	location string
	pending  string
}

func NewNavigator(location string) *Navigator {
	if location == "" {
		location = "/"
	}
	return &Navigator{location: domain.CleanPath(location)}
}

func (n *Navigator) Location() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.location
}

// Visit records a navigation made by the user.
func (n *Navigator) Visit(location string) {
	n.mu.Lock()
	n.location = domain.CleanPath(location)
	n.mu.Unlock()
}

func (n *Navigator) Redirect(location string) {
	n.mu.Lock()
	n.location = domain.CleanPath(location)
	n.pending = n.location
	n.mu.Unlock()
}

// TakeRedirect returns and forgets the last redirect, if any.
func (n *Navigator) TakeRedirect() (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.pending == "" {
		return "", false
	}
	location := n.pending
	n.pending = ""
	return location, true
}

var _ port.Navigator = (*Navigator)(nil)
