package server

func (s *Server) initRoutes() {
	pages := s.HTMLMiddleWare(s.SessionMiddleware, s.NoStoreMiddleware)

	// Every page of the route tree, gated by the composer
	s.RegisterRouteHandler("GET "+RouteHome, ChainMiddleware(s.NavigateHandler(), pages...))

	// LOGIN
	s.RegisterRouteHandler("POST "+RouteLogin, ChainMiddleware(s.LoginSubmissionHandler(), pages...))
	s.RegisterRouteHandler("POST "+RouteLogout, ChainMiddleware(s.LogoutHandler(), pages...))

	// SIGNUP
	s.RegisterRouteHandler("POST "+RouteSignup, ChainMiddleware(s.SignupSubmissionHandler(), pages...))

	// Operations
	s.RegisterRouteHandler("GET "+RouteMetrics, s.metrics.Handler())
	s.RegisterRouteFunc("GET "+RouteHealth, s.HealthHandler())

	s.RegisterRouteHandler("GET "+RouteStaticCSS, ChainMiddleware(s.serveFileHandler(), s.StaticMiddleware()...))
}
