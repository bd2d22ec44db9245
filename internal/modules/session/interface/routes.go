package transport

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dareNowConsole/internal/modules/session/application/usecase"
	"dareNowConsole/internal/modules/session/domain"
	"dareNowConsole/internal/modules/session/infrastructure"
	"dareNowConsole/internal/shared/metrics"
)

// Console bundles what the console's routes need.
type Console struct {
	Routes       []domain.Route
	Synchronizer *usecase.Synchronizer
	Guard        *usecase.RouteGuard
	Lifecycle    *usecase.Lifecycle
	Presence     *usecase.PresenceCache
	Navigator    *infrastructure.Navigator
	Hub          *infrastructure.Hub
	Bookings     *BookingHandlers
}

// Register mounts the guarded views, the session API, the bookings API, the session stream
// and /metrics on e.
func Register(e *echo.Echo, console Console) {
	routes := console.Routes
	if routes == nil {
		routes = domain.DefaultRoutes
	}

	views := e.Group("", NewGuardMiddleware(console.Synchronizer, console.Guard, console.Navigator))
	view := NewViewHandler(console.Presence)
	for _, route := range routes {
		views.GET(route.Pattern, view)
	}

	session := NewSessionHandlers(console.Lifecycle, console.Presence, console.Navigator)
	e.GET("/api/session", session.Presence)
	e.POST("/api/session/:variant/login", session.Login)
	e.POST("/api/session/:variant/logout", session.Logout)
	e.POST("/api/session/:variant/password", session.UpdatePassword)

	if console.Bookings != nil {
		e.GET("/api/bookings", console.Bookings.List)
		e.POST("/api/bookings", console.Bookings.Create)
		e.DELETE("/api/bookings/:id", console.Bookings.Cancel)
		e.GET("/api/meals", console.Bookings.Meals)
		e.GET("/api/slots", console.Bookings.Slots)
		e.GET("/api/places", console.Bookings.Search)
	}

	if console.Hub != nil {
		hub := console.Hub
		console.Synchronizer.Subscribe(func(event domain.Event) { hub.Publish(context.Background(), event) })
		e.GET("/ws/session", NewSessionStreamHandler(console.Hub, console.Synchronizer, console.Presence))
	}
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))
}
