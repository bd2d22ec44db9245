package usecase

import (
	"context"

	"dareNowConsole/internal/modules/session/application/port"
	"dareNowConsole/internal/modules/session/domain"
	"dareNowConsole/internal/shared/metrics"
)

// GuardState is the outcome of a route evaluation. Evaluation starts unchecked and ends in
// exactly one of admitted or redirected.
type GuardState string

const (
	GuardUnchecked  GuardState = "unchecked"
	GuardAdmitted   GuardState = "admitted"
	GuardRedirected GuardState = "redirected"
)

// Decision is the guard's answer for one navigation.
type Decision struct {
	State    GuardState
	Location string
	// Replace asks the router to replace the history entry instead of pushing one.
	Replace bool
	Route   domain.Route
	// Found is false for paths outside the route table; those are neither admitted nor guarded.
	Found bool
}

// RouteGuard decides whether a view renders. It reads the store on every evaluation, so a
// session written elsewhere is honoured on the next navigation without any event.
type RouteGuard struct {
	store  port.SessionStore
	routes []domain.Route
}

func NewRouteGuard(store port.SessionStore, routes []domain.Route) *RouteGuard {
	if len(routes) == 0 {
		routes = domain.DefaultRoutes
	}
	return &RouteGuard{store: store, routes: routes}
}

func (g *RouteGuard) Evaluate(ctx context.Context, path string) Decision {
	route, ok := domain.MatchRoute(g.routes, path)
	if !ok {
		return Decision{State: GuardUnchecked}
	}
	decision := g.decide(ctx, route)
	decision.Route = route
	decision.Found = true
	metrics.GuardDecisionsTotal.WithLabelValues(string(decision.State)).Inc()
	return decision
}

func (g *RouteGuard) decide(ctx context.Context, route domain.Route) Decision {
	if route.RedirectTo != "" {
		return redirect(route.RedirectTo)
	}

	if route.LoginFor.Valid() {
		if landing, ok := g.bounce(ctx, route.LoginFor); ok {
			return redirect(landing)
		}
		return Decision{State: GuardAdmitted}
	}

	variant, protected := route.Access.Variant()
	if !protected {
		return Decision{State: GuardAdmitted}
	}
	if _, present := g.store.Read(ctx, variant); present {
		return Decision{State: GuardAdmitted}
	}
	return redirect(variant.LoginPath())
}

// bounce sends a user who already holds a session away from a login view. The restaurant
// login view also bounces a lone admin session to the admin landing view; the admin login
// view only bounces its own variant.
func (g *RouteGuard) bounce(ctx context.Context, loginFor domain.Variant) (string, bool) {
	if _, present := g.store.Read(ctx, loginFor); present {
		return loginFor.LandingPath(), true
	}
	if loginFor == domain.VariantRestaurant {
		if _, present := g.store.Read(ctx, domain.VariantAdmin); present {
			return domain.VariantAdmin.LandingPath(), true
		}
	}
	return "", false
}

func redirect(location string) Decision {
	return Decision{State: GuardRedirected, Location: location, Replace: true}
}
