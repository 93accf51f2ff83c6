package server

func (s *Server) initRoutes() {
	// Auth
	s.RegisterRouteHandler("POST "+RouteLogin, ChainMiddleware(s.LoginHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteSignup, ChainMiddleware(s.SignupHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteLogout, ChainMiddleware(s.LogoutHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteAuthStatus, ChainMiddleware(s.AuthStatusHandler(), s.APIMiddleware()...))

	// Chat (session required)
	s.RegisterRouteHandler("POST "+RouteChat, ChainMiddleware(s.ChatHandler(), s.APIMiddleware(s.RequireSession)...))
	s.RegisterRouteHandler("OPTIONS "+RouteChat, ChainMiddleware(s.PreflightHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteMessages, ChainMiddleware(s.MessagesHandler(), s.APIMiddleware(s.RequireSession)...))

	s.RegisterRouteHandler("GET "+RouteDebug, ChainMiddleware(s.DebugHandler(), s.APIMiddleware()...))
}
