package http

// registerV1Routes sets up /api/v1. Station and assembly reads sit behind
// the optional bearer token.
func (s *Server) registerV1Routes() {
	v1 := s.engine.Group("/api/v1")
	v1.Use(apiVersionMiddleware())
	if s.cfg.BearerToken != "" {
		v1.Use(bearerAuthMiddleware(s.cfg.BearerToken))
	}

	v1.GET("/stations/:id", s.handleV1GetStation)

	assemblies := v1.Group("/assemblies")
	{
		assemblies.GET("", s.handleV1ListAssemblies)
		assemblies.GET("/:ac_id/stations", s.handleV1ListStations)
		assemblies.GET("/:ac_id/results/:year", s.handleV1AssemblyResults)
	}
}
