package usecase

import (
	"context"
	"sync"

	"dareNowConsole/internal/modules/session/application/port"
	"dareNowConsole/internal/modules/session/domain"
)

// NavLink is one entry of the navigation bar.
type NavLink struct {
	Path  string `json:"path"`
	Label string `json:"label"`
}

// Presence is what the navigation bar renders for the current sessions.
type Presence struct {
	Role        string    `json:"role"`
	DisplayName string    `json:"displayName,omitempty"`
	Admin       bool      `json:"admin"`
	Restaurant  bool      `json:"restaurant"`
	Links       []NavLink `json:"links"`
	LogoutOf    string    `json:"logoutOf,omitempty"`
}

var (
	anonymousLinks = []NavLink{
		{Path: "/login", Label: "Admin Login"},
		{Path: "/restaurant/login", Label: "Restaurant Login"},
		{Path: "/contact", Label: "Contact"},
	}
	adminLinks = []NavLink{
		{Path: "/dashboard", Label: "Dashboard"},
		{Path: "/restaurants", Label: "Restaurants"},
		{Path: "/update-password", Label: "Update Password"},
	}
	restaurantLinks = []NavLink{
		{Path: "/restaurant/bookings", Label: "Bookings"},
		{Path: "/restaurant/create-booking", Label: "Create Booking"},
	}
)

// ComputePresence reads both sessions. A restaurant session wins over an admin one when both
// exist, since the restaurant views are the narrower ones.
func ComputePresence(ctx context.Context, store port.SessionStore) Presence {
	restaurant, hasRestaurant := store.Read(ctx, domain.VariantRestaurant)
	admin, hasAdmin := store.Read(ctx, domain.VariantAdmin)

	presence := Presence{Role: "anonymous", Admin: hasAdmin, Restaurant: hasRestaurant, Links: anonymousLinks}
	switch {
	case hasRestaurant:
		presence.Role = domain.VariantRestaurant.String()
		presence.DisplayName = domain.RestaurantProfileFrom(restaurant.Profile).DisplayName()
		presence.Links = restaurantLinks
		presence.LogoutOf = domain.VariantRestaurant.String()
	case hasAdmin:
		presence.Role = domain.VariantAdmin.String()
		presence.DisplayName = domain.AdminProfileFrom(admin.Profile).DisplayName()
		presence.Links = adminLinks
		presence.LogoutOf = domain.VariantAdmin.String()
	}
	return presence
}

// PresenceCache keeps the last computed presence and refreshes it on every session event.
type PresenceCache struct {
	store port.SessionStore

	mu      sync.RWMutex
	current Presence
}

func NewPresenceCache(ctx context.Context, store port.SessionStore) *PresenceCache {
	return &PresenceCache{store: store, current: ComputePresence(ctx, store)}
}

// Attach subscribes the cache to sync and returns the unsubscribe function.
func (c *PresenceCache) Attach(ctx context.Context, synchronizer *Synchronizer) func() {
	return synchronizer.Subscribe(func(domain.Event) { c.Refresh(ctx) })
}

func (c *PresenceCache) Refresh(ctx context.Context) Presence {
	next := ComputePresence(ctx, c.store)
	c.mu.Lock()
	c.current = next
	c.mu.Unlock()
	return next
}

func (c *PresenceCache) Current() Presence {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}
