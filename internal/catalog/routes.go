package catalog

import "github.com/go-chi/chi/v5"

// RegisterRoutes registra as rotas da vitrine e do carrinho.
// Separado para o main.go não crescer sem controle.
func RegisterRoutes(route chi.Router, handler *Handler) {
	route.Get("/catalog", handler.View)

	route.Route("/cart", func(route chi.Router) {
		route.Get("/", handler.Cart)
		route.Put("/items/{id}", handler.SetQuantity)
		route.Post("/checkout", handler.Checkout)
	})
}
