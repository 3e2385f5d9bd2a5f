package handlers

import (
	"github.com/go-chi/chi/v5"
)

// Register mounts every endpoint on r. System routes require the shared secret.
func Register(r chi.Router, routes *RouteHandler, system *SystemHandler, health *HealthHandler, secret string) {
	r.Get("/health", health.Health)
	r.Get("/healthz", health.Healthz)

	r.Route("/portal/api", func(r chi.Router) {
		r.Get("/get-stations/", routes.GetStations)

		r.Post("/route/", routes.CreateRoute)
		r.Get("/route/{route}/", routes.GetRoute)
		r.Delete("/route/{route}/", routes.DeleteRoute)

		r.Route("/system", func(r chi.Router) {
			r.Use(RequireSecret(secret))
			r.Post("/populate-stations/", system.PopulateStations)
			r.Get("/route/{routeID}/eligibility/", system.GetRouteEligibility)
		})
	})
}
