package server

// Route path constants
const (
	// Auth routes
	RouteLogin      = "/login"
	RouteSignup     = "/signup"
	RouteLogout     = "/logout"
	RouteAuthStatus = "/auth/status"

	// Chat routes
	RouteChat     = "/chat"
	RouteMessages = "/messages"

	// Diagnostics
	RouteDebug = "/debug"
)
