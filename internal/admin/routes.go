package admin

import "github.com/go-chi/chi/v5"

// RegisterRoutes registra as rotas do painel administrativo.
func RegisterRoutes(route chi.Router, handler *Handler) {
	route.Route("/admin", func(route chi.Router) {
		route.Get("/properties", handler.List)
		route.Delete("/properties/{id}", handler.Delete)

		route.Route("/form", func(route chi.Router) {
			route.Get("/", handler.Form)
			route.Patch("/", handler.UpdateDraft)
			route.Post("/open", handler.Open)
			route.Post("/open/{id}", handler.OpenFor)
			route.Post("/cancel", handler.Cancel)
			route.Post("/submit", handler.Submit)
		})
	})
}
