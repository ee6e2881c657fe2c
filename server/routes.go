package server

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
)

func (s *Server) initRoutes() {
	// AUTH
	s.RegisterRouteFunc("POST "+RouteAuthRegister, s.RegisterHandler())
	s.RegisterRouteFunc("POST "+RouteAuthLogin, s.LoginHandler())
	s.RegisterRouteFunc("POST "+RouteAuthRefresh, s.RefreshHandler())
	s.RegisterRouteFunc("POST "+RouteAuthLogout, s.LogoutHandler())

	// USERS
	s.RegisterRouteFunc("GET "+RouteUsersMe, s.CurrentUserHandler())

	// API description
	s.RegisterRouteFunc("GET "+RouteOpenAPI, s.OpenAPIHandler())
	s.RegisterRouteFunc("GET "+RouteDocs, s.DocsHandler())
	s.RegisterRouteFunc("GET "+RouteRedoc, s.DocsHandler())

	// Operational
	s.RegisterRouteFunc("GET "+RouteHealthz, s.HealthHandler())
	s.RegisterRouteHandler("GET "+RouteMetrics, s.metrics.Handler())
}

func logRoute(method, path string) {
	log.Info().Msgf("[%-19s] %s", colourMethod(method), path)
}

func logError(method, path, error string) {
	log.Error().Msgf("[%-19s] %s %s", colourMethod(method), path, Red+error+ResetColor)
}

func colourMethod(method string) string {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		return color + paddedMethod + ResetColor
	}
	return Gray + paddedMethod + ResetColor
}

// routeLabel collapses unknown paths so metric labels stay bounded
func (s *Server) routeLabel(r *http.Request) string {
	if _, ok := s.paths[r.URL.Path]; ok {
		return r.URL.Path
	}
	return "unmatched"
}
