package titan

// RouteSelector picks the route a quote is built from. ok is false when
// none of the routes is acceptable.
type RouteSelector interface {
	SelectRoute(routes []RouteEntry) (RouteEntry, bool)
}

type RouteSelectorFunc func(routes []RouteEntry) (RouteEntry, bool)

func (f RouteSelectorFunc) SelectRoute(routes []RouteEntry) (RouteEntry, bool) {
	return f(routes)
}

// FirstRoute takes the first route in wire order. It does not rank routes;
// the service's ordering is not a "best first" guarantee.
var FirstRoute RouteSelector = RouteSelectorFunc(func(routes []RouteEntry) (RouteEntry, bool) {
	if len(routes) == 0 {
		return RouteEntry{}, false
	}
	return routes[0], true
})

// BestOutAmount picks the route with the largest OutAmount, keeping wire
// order on ties.
var BestOutAmount RouteSelector = RouteSelectorFunc(func(routes []RouteEntry) (RouteEntry, bool) {
	if len(routes) == 0 {
		return RouteEntry{}, false
	}
	best := 0
	for i := 1; i < len(routes); i++ {
		if routes[i].Route.OutAmount > routes[best].Route.OutAmount {
			best = i
		}
	}
	return routes[best], true
})
