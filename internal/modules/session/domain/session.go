package domain

import "strings"

// Profile is the role-specific payload stored next to a token. It is kept as decoded JSON
// because the remote API owns its shape.
type Profile map[string]any

// Session is the token and profile pair identifying an authenticated variant.
type Session struct {
	Variant Variant
	Token   string
	Profile Profile
}

// AdminProfile is the typed view over an admin session profile.
type AdminProfile struct {
	Username  string
	Name      string
	IsAdmin   bool
	AdminData map[string]any
}

// Profile renders the stored shape {username, name, isAdmin, adminData}.
func (p AdminProfile) Profile() Profile {
	var adminData any
	if p.AdminData != nil {
		adminData = p.AdminData
	}
	return Profile{
		"username":  p.Username,
		"name":      p.Name,
		"isAdmin":   p.IsAdmin,
		"adminData": adminData,
	}
}

// DisplayName is what the navigation bar greets the admin with.
func (p AdminProfile) DisplayName() string {
	if name := strings.TrimSpace(p.Name); name != "" {
		return name
	}
	return p.Username
}

// RestaurantProfile is the typed view over a restaurant session profile, with the optional
// placeData wrapper already removed.
type RestaurantProfile struct {
	PlaceID string
	Name    string
	Place   map[string]any
}

// DisplayName falls back to a generic label when the place has no name.
func (p RestaurantProfile) DisplayName() string {
	if name := strings.TrimSpace(p.Name); name != "" {
		return name
	}
	return "Restaurant"
}
