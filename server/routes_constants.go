package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Auth Routes
	RouteAuthRegister = "/auth/register"
	RouteAuthLogin    = "/auth/login"
	RouteAuthRefresh  = "/auth/refresh"
	RouteAuthLogout   = "/auth/logout"

	// User Routes
	RouteUsersMe = "/users/me"

	// API description
	RouteOpenAPI = "/openapi.json"
	RouteDocs    = "/docs"
	RouteRedoc   = "/redoc"

	// Operational Routes
	RouteHealthz = "/healthz"
	RouteMetrics = "/metrics"
)

// gateExcludedPrefixes are served without a bearer token
var gateExcludedPrefixes = []string{
	RouteDocs,
	"/openapi",
	RouteRedoc,
	RouteAuthLogin,
	RouteAuthRegister,
	RouteAuthRefresh,
	RouteHealthz,
	RouteMetrics,
}
