package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/pizzeria/internal/pkg/telemetry"
	"github.com/jcmexdev/pizzeria/internal/storefront/app"
	"github.com/jcmexdev/pizzeria/internal/storefront/catalog"
	"github.com/jcmexdev/pizzeria/internal/storefront/domain"
	"github.com/jcmexdev/pizzeria/internal/storefront/orders"
	"github.com/jcmexdev/pizzeria/internal/storefront/pricing"
)

// Handler exposes the storefront controller over JSON/HTTP.
type Handler struct {
	store *app.Storefront
}

func NewHandler(store *app.Storefront) *Handler {
	return &Handler{store: store}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	n, err := h.store.CatalogState()
	resp := HealthResponse{Status: "ok", CatalogItems: n}
	if err != nil {
		resp.Status = "degraded"
		resp.CatalogError = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListCatalog serves GET /catalog?q=&filter=.
func (h *Handler) ListCatalog(w http.ResponseWriter, r *http.Request) {
	filter := catalog.Filter(r.URL.Query().Get("filter"))
	items, err := h.store.Browse(r.Context(), r.URL.Query().Get("q"), filter)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, CatalogResponse{Items: items, Count: len(items)})
}

func (h *Handler) GetCatalogItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.store.Item(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) ReloadCatalog(w http.ResponseWriter, r *http.Request) {
	if err := h.store.ReloadCatalog(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}
	h.Health(w, r)
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, CartResponse{CartView: h.store.Cart()})
}

func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.ItemID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "itemId is required")
		return
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}

	key, err := h.store.AddToCart(r.Context(), req.ItemID, req.Size, req.Toppings, qty)
	h.mutated(w, r, http.StatusCreated, []domain.LineKey{key}, err)
}

func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	key, ok := lineKey(w, r)
	if !ok {
		return
	}
	var req SetQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.Quantity == nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "qty is required")
		return
	}

	err := h.store.SetQuantity(r.Context(), key, *req.Quantity)
	h.mutated(w, r, http.StatusOK, nil, err)
}

func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	key, ok := lineKey(w, r)
	if !ok {
		return
	}
	h.mutated(w, r, http.StatusOK, nil, h.store.RemoveLine(r.Context(), key))
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.mutated(w, r, http.StatusOK, nil, h.store.ClearCart(r.Context()))
}

func (h *Handler) ListDeals(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Deals())
}

// ApplyDeal serves POST /deals/{id}. The body is optional; an itemId fills
// a customizable bundle.
func (h *Handler) ApplyDeal(w http.ResponseWriter, r *http.Request) {
	var req ApplyDealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	keys, err := h.store.ApplyDeal(r.Context(), chi.URLParam(r, "id"), req.ItemID)
	h.mutated(w, r, http.StatusCreated, keys, err)
}

func (h *Handler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, FavoritesResponse{IDs: h.store.Favorites()})
}

func (h *Handler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	on, err := h.store.ToggleFavorite(r.Context(), chi.URLParam(r, "id"))
	if err != nil && !errors.Is(err, domain.ErrPersistence) {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, FavoritesResponse{
		IDs:      h.store.Favorites(),
		Favorite: &on,
		Warning:  warning(err),
	})
}

func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var form orders.CheckoutForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	o, err := h.store.PlaceOrder(r.Context(), form)
	if err != nil && o.Number == "" {
		h.fail(w, r, err)
		return
	}
	resp := orderResponse(o)
	resp.Warning = warning(err)
	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	history := h.store.Orders()
	resp := OrdersResponse{Orders: make([]OrderResponse, len(history))}
	for i, o := range history {
		resp.Orders[i] = orderResponse(o)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.store.Order(chi.URLParam(r, "number"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orderResponse(o))
}

func (h *Handler) TrackOrder(w http.ResponseWriter, r *http.Request) {
	t, err := h.store.Track(chi.URLParam(r, "number"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, TrackingResponse{Tracking: t})
}

func (h *Handler) Reorder(w http.ResponseWriter, r *http.Request) {
	view, err := h.store.Reorder(r.Context(), chi.URLParam(r, "number"))
	if err != nil && !errors.Is(err, domain.ErrPersistence) {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MutationResponse{Keys: view.Keys, Cart: view, Warning: warning(err)})
}

// mutated answers a cart mutation. A persistence failure still reports
// success with a warning because the mutation is kept in memory.
func (h *Handler) mutated(w http.ResponseWriter, r *http.Request, status int, keys []domain.LineKey, err error) {
	if err != nil && !errors.Is(err, domain.ErrPersistence) {
		h.fail(w, r, err)
		return
	}
	if err != nil {
		status = http.StatusOK
	}
	writeJSON(w, status, MutationResponse{Keys: keys, Cart: h.store.Cart(), Warning: warning(err)})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	resp := ErrorResponse{
		Error:   code,
		Message: err.Error(),
		TraceID: telemetry.ExtractTraceInfo(r.Context()).TraceID,
	}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		resp.Fields = verr.Fields
	}
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", "error", err, "status", status)
	}
	writeJSON(w, status, resp)
}

// classify maps domain errors to an HTTP status and an error code.
func classify(err error) (int, string) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity, "validation_failed"
	case errors.Is(err, domain.ErrItemNotFound):
		return http.StatusNotFound, "item_not_found"
	case errors.Is(err, domain.ErrBundleNotFound):
		return http.StatusNotFound, "deal_not_found"
	case errors.Is(err, domain.ErrLineNotFound):
		return http.StatusNotFound, "cart_line_not_found"
	case errors.Is(err, domain.ErrOrderNotFound):
		return http.StatusNotFound, "order_not_found"
	case errors.Is(err, domain.ErrInvalidQuantity):
		return http.StatusBadRequest, "invalid_quantity"
	case errors.Is(err, domain.ErrChoiceRequired):
		return http.StatusBadRequest, "choice_required"
	case errors.Is(err, domain.ErrNotCustomizable):
		return http.StatusBadRequest, "not_customizable"
	case errors.Is(err, domain.ErrEmptyCart):
		return http.StatusConflict, "empty_cart"
	case errors.Is(err, domain.ErrCatalogEmpty):
		return http.StatusServiceUnavailable, "catalog_unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func warning(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func lineKey(w http.ResponseWriter, r *http.Request) (domain.LineKey, bool) {
	raw, err := url.PathUnescape(chi.URLParam(r, "key"))
	if err != nil || raw == "" {
		writeError(w, http.StatusBadRequest, "invalid_key", "cart line key is required")
		return "", false
	}
	return domain.LineKey(raw), true
}

func orderResponse(o domain.Order) OrderResponse {
	return OrderResponse{Order: o, Totals: pricing.ComputeTotals(o.Cart)}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}
