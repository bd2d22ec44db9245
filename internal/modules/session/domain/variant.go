package domain

import (
	"fmt"
	"strings"
)

// Variant identifies one of the two independent actor roles holding a session.
type Variant string

const (
	VariantAdmin      Variant = "admin"
	VariantRestaurant Variant = "restaurant"
)

// Variants lists every session variant in a stable order.
var Variants = []Variant{VariantAdmin, VariantRestaurant}

// StorageKeys are the physical key names a variant occupies in the key/value store.
type StorageKeys struct {
	Token   string
	Profile string
}

var variantKeys = map[Variant]StorageKeys{
	VariantAdmin:      {Token: "token", Profile: "user"},
	VariantRestaurant: {Token: "restaurantToken", Profile: "restaurant"},
}

// ParseVariant accepts the canonical names plus a few operator-friendly aliases.
func ParseVariant(raw string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "admin", "user":
		return VariantAdmin, nil
	case "restaurant", "place", "owner":
		return VariantRestaurant, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownVariant, raw)
	}
}

func (v Variant) Valid() bool {
	_, ok := variantKeys[v]
	return ok
}

func (v Variant) Keys() StorageKeys {
	return variantKeys[v]
}

// LoginPath is the console view a logged-out variant is sent to.
func (v Variant) LoginPath() string {
	if v == VariantRestaurant {
		return "/restaurant/login"
	}
	return "/login"
}

// LandingPath is the view a freshly logged-in variant is sent to.
func (v Variant) LandingPath() string {
	if v == VariantRestaurant {
		return "/restaurant/bookings"
	}
	return "/dashboard"
}

func (v Variant) String() string {
	return string(v)
}

// VariantForKey reports which variant owns a physical storage key.
func VariantForKey(key string) (Variant, bool) {
	for variant, keys := range variantKeys {
		if key == keys.Token || key == keys.Profile {
			return variant, true
		}
	}
	return "", false
}
