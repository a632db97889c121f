package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jcmexdev/pizzeria/internal/storefront/adapters/httpx/middlewares"
)

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middlewares.AttachRequestID)
	r.Use(middlewares.RequestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", handler.Health)

	r.Route("/catalog", func(r chi.Router) {
		r.Get("/", handler.ListCatalog)
		r.Post("/reload", handler.ReloadCatalog)
		r.Get("/{id}", handler.GetCatalogItem)
	})

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", handler.GetCart)
		r.Delete("/", handler.ClearCart)
		r.Post("/items", handler.AddCartItem)
		r.Patch("/items/{key}", handler.UpdateCartItem)
		r.Delete("/items/{key}", handler.RemoveCartItem)
	})

	r.Get("/deals", handler.ListDeals)
	r.Post("/deals/{id}", handler.ApplyDeal)

	r.Get("/favorites", handler.ListFavorites)
	r.Post("/favorites/{id}", handler.ToggleFavorite)

	r.Route("/orders", func(r chi.Router) {
		r.Get("/", handler.ListOrders)
		r.Post("/", handler.PlaceOrder)
		r.Get("/{number}", handler.GetOrder)
		r.Get("/{number}/tracking", handler.TrackOrder)
		r.Post("/{number}/reorder", handler.Reorder)
	})

	return otelhttp.NewHandler(r, "storefront",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}
