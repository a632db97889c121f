package httpx

import (
	"github.com/jcmexdev/pizzeria/internal/storefront/app"
	"github.com/jcmexdev/pizzeria/internal/storefront/domain"
	"github.com/jcmexdev/pizzeria/internal/storefront/orders"
)

type AddItemRequest struct {
	ItemID   string      `json:"itemId"`
	Size     domain.Size `json:"size"`
	Toppings []string    `json:"toppings"`
	Quantity *int        `json:"qty"`
}

type SetQuantityRequest struct {
	Quantity *int `json:"qty"`
}

type ApplyDealRequest struct {
	ItemID string `json:"itemId"`
}

type CatalogResponse struct {
	Items []domain.CatalogItem `json:"items"`
	Count int                  `json:"count"`
}

type CartResponse struct {
	app.CartView
	Warning string `json:"warning,omitempty"`
}

type MutationResponse struct {
	Keys    []domain.LineKey `json:"keys,omitempty"`
	Cart    app.CartView     `json:"cart"`
	Warning string           `json:"warning,omitempty"`
}

type FavoritesResponse struct {
	IDs      []string `json:"ids"`
	Favorite *bool    `json:"favorite,omitempty"`
	Warning  string   `json:"warning,omitempty"`
}

type OrderResponse struct {
	domain.Order
	Totals  domain.Totals `json:"totals"`
	Warning string        `json:"warning,omitempty"`
}

type OrdersResponse struct {
	Orders []OrderResponse `json:"orders"`
}

type TrackingResponse struct {
	orders.Tracking
}

type HealthResponse struct {
	Status       string `json:"status"`
	CatalogItems int    `json:"catalogItems"`
	CatalogError string `json:"catalogError,omitempty"`
}

type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message,omitempty"`
	Fields  []string `json:"fields,omitempty"`
	TraceID string   `json:"traceId,omitempty"`
}
