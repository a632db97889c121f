// Package app is the storefront controller. It owns every component and
// serializes access to them so the HTTP layer can call it concurrently.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jcmexdev/pizzeria/internal/storefront/cart"
	"github.com/jcmexdev/pizzeria/internal/storefront/catalog"
	"github.com/jcmexdev/pizzeria/internal/storefront/deals"
	"github.com/jcmexdev/pizzeria/internal/storefront/domain"
	"github.com/jcmexdev/pizzeria/internal/storefront/favorites"
	"github.com/jcmexdev/pizzeria/internal/storefront/orders"
	"github.com/jcmexdev/pizzeria/internal/storefront/storage"
)

const tracerName = "github.com/jcmexdev/pizzeria/internal/storefront/app"

// CatalogFeed produces a fresh catalog.
type CatalogFeed interface {
	Fetch(ctx context.Context) (*catalog.Catalog, error)
}

// CatalogUnavailableError is returned by catalog reads while the last feed
// fetch has failed. It matches domain.ErrCatalogEmpty.
type CatalogUnavailableError struct {
	Err error
}

func (e *CatalogUnavailableError) Error() string {
	return fmt.Sprintf("catalog unavailable: %v", e.Err)
}

func (e *CatalogUnavailableError) Is(target error) bool {
	return target == domain.ErrCatalogEmpty
}

func (e *CatalogUnavailableError) Unwrap() error { return e.Err }

// CartView is the cart content with its priced summary.
type CartView struct {
	Lines  []domain.LineItem `json:"lines"`
	Keys   []domain.LineKey  `json:"keys"`
	Totals domain.Totals     `json:"totals"`
}

type Storefront struct {
	mu sync.Mutex

	feed       CatalogFeed
	catalog    *catalog.Catalog
	catalogErr error

	cart      *cart.Store
	deals     *deals.Expander
	orders    *orders.Recorder
	favorites *favorites.Set

	tracer trace.Tracer
	now    func() time.Time
}

// New wires the components over one storage backend. The catalog starts
// empty until Load or ReloadCatalog fetches it.
func New(feed CatalogFeed, bundles []domain.Bundle, store storage.Store) *Storefront {
	cat := catalog.New(nil)
	c := cart.New(cat, store)
	return &Storefront{
		feed:       feed,
		catalog:    cat,
		catalogErr: domain.ErrCatalogEmpty,
		cart:       c,
		deals:      deals.NewExpander(bundles, c, cat),
		orders:     orders.NewRecorder(c, store),
		favorites:  favorites.New(store),
		tracer:     otel.Tracer(tracerName),
		now:        time.Now,
	}
}

// Load fetches the catalog and restores the persisted records. A feed
// failure is kept as catalog state rather than returned; record load
// failures are joined and returned, leaving the affected record empty.
func (s *Storefront) Load(ctx context.Context) error {
	ctx, span := s.start(ctx, "storefront.load")
	s.mu.Lock()
	defer s.mu.Unlock()

	_ = s.reloadCatalog(ctx)

	err := errors.Join(
		s.cart.Load(ctx),
		s.favorites.Load(ctx),
		s.orders.Load(ctx),
	)
	return end(span, err)
}

// ReloadCatalog retries the feed. On failure the previous catalog is
// dropped and the error is kept until the next successful fetch.
func (s *Storefront) ReloadCatalog(ctx context.Context) error {
	ctx, span := s.start(ctx, "catalog.reload")
	s.mu.Lock()
	defer s.mu.Unlock()

	return end(span, s.reloadCatalog(ctx))
}

func (s *Storefront) reloadCatalog(ctx context.Context) error {
	cat, err := s.feed.Fetch(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "catalog fetch failed", "error", err)
		cat = catalog.New(nil)
		s.catalogErr = err
	} else {
		s.catalogErr = nil
		slog.InfoContext(ctx, "catalog loaded", "items", cat.Len())
	}
	s.catalog = cat
	s.cart.SetCatalog(cat)
	s.deals.SetCatalog(cat)
	if err != nil {
		return &CatalogUnavailableError{Err: err}
	}
	return nil
}

// CatalogState reports the number of loaded items and the last fetch
// error, if any.
func (s *Storefront) CatalogState() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.catalogErr != nil {
		return 0, &CatalogUnavailableError{Err: s.catalogErr}
	}
	return s.catalog.Len(), nil
}

// Browse applies a category filter and then a free-text search.
func (s *Storefront) Browse(ctx context.Context, query string, filter catalog.Filter) ([]domain.CatalogItem, error) {
	_, span := s.start(ctx, "catalog.browse",
		attribute.String("query", query),
		attribute.String("filter", string(filter)),
	)
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.catalogErr != nil {
		return nil, end(span, &CatalogUnavailableError{Err: s.catalogErr})
	}
	items := s.catalog.Filter(filter, s.favorites.IDs())
	if query != "" {
		items = catalog.New(items).Search(query)
	}
	span.SetAttributes(attribute.Int("results", len(items)))
	span.End()
	return items, nil
}

func (s *Storefront) Item(id string) (domain.CatalogItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.catalog.Find(id)
	if !ok {
		return domain.CatalogItem{}, fmt.Errorf("app: %q: %w", id, domain.ErrItemNotFound)
	}
	return it, nil
}

func (s *Storefront) Cart() CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartView()
}

func (s *Storefront) cartView() CartView {
	snap := s.cart.Snapshot()
	keys := snap.Keys()
	lines := make([]domain.LineItem, len(keys))
	for i, k := range keys {
		lines[i] = snap[k]
	}
	return CartView{Lines: lines, Keys: keys, Totals: s.cart.Totals()}
}

func (s *Storefront) AddToCart(ctx context.Context, itemID string, size domain.Size, toppings []string, quantity int) (domain.LineKey, error) {
	ctx, span := s.start(ctx, "cart.add",
		attribute.String("item_id", itemID),
		attribute.String("size", string(size)),
		attribute.Int("quantity", quantity),
	)
	s.mu.Lock()
	defer s.mu.Unlock()

	key, err := s.cart.AddItem(ctx, itemID, size, toppings, quantity, nil)
	return key, end(span, err)
}

func (s *Storefront) SetQuantity(ctx context.Context, key domain.LineKey, quantity int) error {
	ctx, span := s.start(ctx, "cart.set_quantity",
		attribute.String("line_key", string(key)),
		attribute.Int("quantity", quantity),
	)
	s.mu.Lock()
	defer s.mu.Unlock()

	return end(span, s.cart.SetQuantity(ctx, key, quantity))
}

func (s *Storefront) RemoveLine(ctx context.Context, key domain.LineKey) error {
	ctx, span := s.start(ctx, "cart.remove", attribute.String("line_key", string(key)))
	s.mu.Lock()
	defer s.mu.Unlock()

	return end(span, s.cart.Remove(ctx, key))
}

func (s *Storefront) ClearCart(ctx context.Context) error {
	ctx, span := s.start(ctx, "cart.clear")
	s.mu.Lock()
	defer s.mu.Unlock()

	return end(span, s.cart.Clear(ctx))
}

func (s *Storefront) Deals() []domain.Bundle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deals.Bundles()
}

// ApplyDeal expands a bundle into the cart. itemID fills a customizable
// bundle and must be empty for a fixed one.
func (s *Storefront) ApplyDeal(ctx context.Context, bundleID, itemID string) ([]domain.LineKey, error) {
	ctx, span := s.start(ctx, "deals.apply",
		attribute.String("bundle_id", bundleID),
		attribute.String("item_id", itemID),
	)
	s.mu.Lock()
	defer s.mu.Unlock()

	if itemID == "" {
		keys, err := s.deals.Expand(ctx, bundleID)
		return keys, end(span, err)
	}
	key, err := s.deals.ExpandCustomizable(ctx, bundleID, itemID)
	if key == "" {
		return nil, end(span, err)
	}
	return []domain.LineKey{key}, end(span, err)
}

func (s *Storefront) Favorites() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.favorites.IDs()
}

func (s *Storefront) ToggleFavorite(ctx context.Context, itemID string) (bool, error) {
	ctx, span := s.start(ctx, "favorites.toggle", attribute.String("item_id", itemID))
	s.mu.Lock()
	defer s.mu.Unlock()

	on, err := s.favorites.Toggle(ctx, itemID)
	return on, end(span, err)
}

// PlaceOrder checks out the current cart.
func (s *Storefront) PlaceOrder(ctx context.Context, form orders.CheckoutForm) (domain.Order, error) {
	ctx, span := s.start(ctx, "orders.place")
	s.mu.Lock()
	defer s.mu.Unlock()

	o, err := s.orders.PlaceOrder(ctx, form, s.cart.Snapshot())
	if o.Number != "" {
		span.SetAttributes(attribute.String("order_number", o.Number))
	}
	return o, end(span, err)
}

func (s *Storefront) Orders() []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orders.History()
}

func (s *Storefront) Order(number string) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orders.Find(number)
}

// Track reports the simulated progress of an order at the current time.
func (s *Storefront) Track(number string) (orders.Tracking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, err := s.orders.Find(number)
	if err != nil {
		return orders.Tracking{}, err
	}
	return orders.Track(o, s.now()), nil
}

func (s *Storefront) Reorder(ctx context.Context, number string) (CartView, error) {
	ctx, span := s.start(ctx, "orders.reorder", attribute.String("order_number", number))
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.orders.Reorder(ctx, number)
	if err != nil && !errors.Is(err, domain.ErrPersistence) {
		return CartView{}, end(span, err)
	}
	return s.cartView(), end(span, err)
}

func (s *Storefront) start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// end records err on span, ends it and returns err unchanged.
func end(span trace.Span, err error) error {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
	return err
}
