package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Public pages
	RouteHome  = "/"
	RouteLogin = "/login/{role}"

	// Signed-in pages
	RouteSignup = "/signup/{role}"
	RouteLogout = "/logout"

	// Operations
	RouteMetrics = "/metrics"
	RouteHealth  = "/healthz"

	// Static Asset Routes (patterns)
	RouteStaticCSS = "/css/{file}"
)

const (
	contentTypeHTML = "text/html; charset=utf-8"
)
