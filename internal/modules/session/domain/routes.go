package domain

import "strings"

// Access is the session requirement of a console route.
type Access int

const (
	AccessPublic Access = iota
	AccessAdmin
	AccessRestaurant
)

func (a Access) String() string {
	switch a {
	case AccessAdmin:
		return "admin"
	case AccessRestaurant:
		return "restaurant"
	default:
		return "public"
	}
}

// Variant returns the variant whose session admits the route; public routes have none.
func (a Access) Variant() (Variant, bool) {
	switch a {
	case AccessAdmin:
		return VariantAdmin, true
	case AccessRestaurant:
		return VariantRestaurant, true
	default:
		return "", false
	}
}

// Route is one console view. Pattern segments starting with ':' match any single segment.
type Route struct {
	Pattern string
	Access  Access
	// RedirectTo sends the route elsewhere unconditionally (e.g. "/" -> "/login").
	RedirectTo string
	// LoginFor marks the login view of a variant; an existing session bounces to its landing view.
	LoginFor Variant
}

// DefaultRoutes is the console's route table.
var DefaultRoutes = []Route{
	{Pattern: "/", RedirectTo: "/login"},
	{Pattern: "/login", LoginFor: VariantAdmin},
	{Pattern: "/register"},
	{Pattern: "/forgot-password"},
	{Pattern: "/reset-password"},
	{Pattern: "/contact"},
	{Pattern: "/privacy-policy"},
	{Pattern: "/terms-conditions"},
	{Pattern: "/dashboard", Access: AccessAdmin},
	{Pattern: "/restaurants", Access: AccessAdmin},
	{Pattern: "/restaurants/create", Access: AccessAdmin},
	{Pattern: "/restaurants/edit/:id", Access: AccessAdmin},
	{Pattern: "/restaurants/:id", Access: AccessAdmin},
	{Pattern: "/update-password", Access: AccessAdmin},
	{Pattern: "/restaurant/login", LoginFor: VariantRestaurant},
	{Pattern: "/restaurant/bookings", Access: AccessRestaurant},
	{Pattern: "/restaurant/create-booking", Access: AccessRestaurant},
}

// MatchRoute finds the route for path. Static patterns win over parameterised ones, so
// "/restaurants/create" is never taken for "/restaurants/:id".
func MatchRoute(routes []Route, path string) (Route, bool) {
	segments := splitPath(path)
	var fallback *Route
	for i := range routes {
		route := &routes[i]
		static, ok := matchSegments(splitPath(route.Pattern), segments)
		if !ok {
			continue
		}
		if static {
			return *route, true
		}
		if fallback == nil {
			fallback = route
		}
	}
	if fallback != nil {
		return *fallback, true
	}
	return Route{}, false
}

func matchSegments(pattern, path []string) (bool, bool) {
	if len(pattern) != len(path) {
		return false, false
	}
	static := true
	for i, segment := range pattern {
		if strings.HasPrefix(segment, ":") {
			if path[i] == "" {
				return false, false
			}
			static = false
			continue
		}
		if segment != path[i] {
			return false, false
		}
	}
	return static, true
}

func splitPath(path string) []string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	trimmed := strings.Trim(strings.TrimSpace(path), "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// CleanPath normalises a console location for comparisons ("/login/" == "/login").
func CleanPath(path string) string {
	segments := splitPath(path)
	return "/" + strings.Join(segments, "/")
}
