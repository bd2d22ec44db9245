package transport

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"dareNowConsole/internal/modules/session/application/usecase"
	"dareNowConsole/internal/modules/session/domain"
	"dareNowConsole/internal/modules/session/infrastructure"
)

const decisionKey = "guardDecision"

// redirectBody answers a guarded navigation that has to go elsewhere.
type redirectBody struct {
	Redirect string `json:"redirect"`
	Replace  bool   `json:"replace"`
}

// viewBody is what an admitted view renders.
type viewBody struct {
	View     string            `json:"view"`
	Path     string            `json:"path"`
	Access   string            `json:"access"`
	Presence usecase.Presence  `json:"presence"`
	Params   map[string]string `json:"params,omitempty"`
}

// NewGuardMiddleware runs every view navigation through the route guard. Sessions are
// re-read first so a change made by another process is honoured on this navigation.
func NewGuardMiddleware(synchronizer *usecase.Synchronizer, guard *usecase.RouteGuard, navigator *infrastructure.Navigator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			path := c.Request().URL.Path
			synchronizer.Recheck(ctx, domain.SourceNavigation)

			decision := guard.Evaluate(ctx, path)
			switch {
			case !decision.Found:
				return c.JSON(http.StatusNotFound, errorBody{Error: "view not found"})
			case decision.State == usecase.GuardRedirected:
				navigator.Visit(decision.Location)
				c.Response().Header().Set(echo.HeaderLocation, decision.Location)
				return c.JSON(http.StatusSeeOther, redirectBody{Redirect: decision.Location, Replace: decision.Replace})
			}

			navigator.Visit(path)
			c.Set(decisionKey, decision)
			return next(c)
		}
	}
}

// NewViewHandler renders an admitted view with the navigation bar state.
func NewViewHandler(presence *usecase.PresenceCache) echo.HandlerFunc {
	return func(c echo.Context) error {
		decision, _ := c.Get(decisionKey).(usecase.Decision)
		body := viewBody{
			View:     decision.Route.Pattern,
			Path:     c.Request().URL.Path,
			Access:   decision.Route.Access.String(),
			Presence: presence.Refresh(c.Request().Context()),
		}
		if names := c.ParamNames(); len(names) > 0 {
			body.Params = make(map[string]string, len(names))
			for _, name := range names {
				body.Params[name] = c.Param(name)
			}
		}
		return c.JSON(http.StatusOK, body)
	}
}
