package startup

import (
	"slices"
	"strings"

	"github.com/gorilla/mux"

	"static-video-server/internal/logging"
)

// RouteInfo is one method/path pair registered on the router
type RouteInfo struct {
	Method string
	Path   string
	Name   string
}

// GetRoutes walks the router and returns one RouteInfo per method of each
// route, in registration order. Routes without a method matcher report "*".
func GetRoutes(router *mux.Router) ([]RouteInfo, error) {
	var routes []RouteInfo
	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		tpl, err := route.GetPathTemplate()
		if err != nil {
			return err
		}
		methods, err := route.GetMethods()
		if err != nil {
			methods = []string{"*"}
		}
		for _, m := range methods {
			routes = append(routes, RouteInfo{Method: m, Path: tpl, Name: route.GetName()})
		}
		return nil
	})
	return routes, err
}

// LogHTTPRoutes logs request logging settings and, at debug level, the
// registered routes grouped by their first path segment
func LogHTTPRoutes(router *mux.Router, logStaticFiles, logHealthChecks bool) {
	section("HTTP SERVER SETUP")

	if logging.IsDebugEnabled() {
		logRouteTable(router)
	}

	logging.Info("  Request logging:")
	logging.Info("    Static files:  %s", onOff(logStaticFiles, "set LOG_STATIC_FILES=true to enable"))
	logging.Info("    Health checks: %s", onOff(logHealthChecks, "set LOG_HEALTH_CHECKS=true to enable"))
}

func logRouteTable(router *mux.Router) {
	routes, err := GetRoutes(router)
	if err != nil {
		logging.Warn("error walking routes: %v", err)
	}
	logging.Debug("  Registered routes (%d total):", len(routes))

	byGroup := make(map[string][]RouteInfo)
	for _, rt := range routes {
		g := getRouteGroup(rt.Path)
		byGroup[g] = append(byGroup[g], rt)
	}

	groups := make([]string, 0, len(byGroup))
	for g := range byGroup {
		groups = append(groups, g)
	}
	slices.Sort(groups)

	for _, g := range groups {
		label := g
		if label == "" {
			label = "root"
		}
		logging.Debug("  [%s]", label)
		for _, rt := range byGroup[g] {
			logging.Debug("    %-6s %s", rt.Method, rt.Path)
		}
	}
}

// getRouteGroup returns the first path segment, or two segments under
// /api. Top-level variables such as the id alias belong to the root group.
func getRouteGroup(path string) string {
	segments := strings.Split(strings.TrimPrefix(path, "/"), "/")
	switch {
	case segments[0] == "api" && len(segments) > 1:
		return "api/" + segments[1]
	case strings.HasPrefix(segments[0], "{"):
		return ""
	}
	return segments[0]
}
