// Package cart implements the cart store: line items keyed by item and
// configuration, merged on repeat additions and persisted after every
// mutation.
package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/pizzeria/internal/storefront/domain"
	"github.com/jcmexdev/pizzeria/internal/storefront/pricing"
	"github.com/jcmexdev/pizzeria/internal/storefront/storage"
)

// Catalog resolves catalog item IDs.
type Catalog interface {
	Find(id string) (domain.CatalogItem, bool)
}

// Store holds the cart lines. It is not safe for concurrent use; the
// storefront controller serializes access.
type Store struct {
	lines   map[domain.LineKey]domain.LineItem
	catalog Catalog
	store   storage.Store
}

func New(catalog Catalog, store storage.Store) *Store {
	return &Store{
		lines:   make(map[domain.LineKey]domain.LineItem),
		catalog: catalog,
		store:   store,
	}
}

// SetCatalog swaps the catalog used for lookups, e.g. after a feed reload.
func (s *Store) SetCatalog(c Catalog) {
	s.catalog = c
}

// Load restores the persisted cart. An absent or malformed record leaves
// the cart empty; only read failures are returned.
func (s *Store) Load(ctx context.Context) error {
	lines := make(map[domain.LineKey]domain.LineItem)
	_, err := storage.LoadJSON(ctx, s.store, storage.KeyCart, &lines)

	var corrupt *storage.CorruptError
	switch {
	case errors.As(err, &corrupt):
		slog.WarnContext(ctx, "discarding unreadable cart record", "error", err)
		lines = make(map[domain.LineKey]domain.LineItem)
	case err != nil:
		return fmt.Errorf("cart: load: %w", err)
	}

	if lines == nil {
		lines = make(map[domain.LineKey]domain.LineItem)
	}
	for k, l := range lines {
		if l.Quantity < 1 {
			delete(lines, k)
		}
	}
	s.lines = lines
	return nil
}

// AddItem adds quantity units of a catalog item in the given configuration.
// An existing line with the same key keeps its stored unit price; a new
// line uses explicitPrice when set and the standard price otherwise.
func (s *Store) AddItem(ctx context.Context, itemID string, size domain.Size, toppings []string, quantity int, explicitPrice *decimal.Decimal) (domain.LineKey, error) {
	item, ok := s.catalog.Find(itemID)
	if !ok {
		slog.WarnContext(ctx, "add to cart rejected", "item_id", itemID, "reason", "unknown item")
		return "", fmt.Errorf("cart: add %q: %w", itemID, domain.ErrItemNotFound)
	}
	if quantity < 1 {
		return "", fmt.Errorf("cart: add %q: %w", itemID, domain.ErrInvalidQuantity)
	}

	size = domain.NormalizeSize(size)
	toppings = domain.NormalizeToppings(toppings)
	key := domain.PizzaKey(itemID, size, toppings)

	if line, exists := s.lines[key]; exists {
		line.Quantity += quantity
		s.lines[key] = line
		return key, s.persist(ctx)
	}

	price := pricing.UnitPrice(item.BasePrice, size, len(toppings))
	if explicitPrice != nil {
		price = *explicitPrice
	}
	s.lines[key] = domain.LineItem{
		ItemID:    itemID,
		Name:      item.Name,
		Type:      domain.LineTypePizza,
		Image:     item.Image,
		Size:      size,
		Toppings:  toppings,
		Quantity:  quantity,
		UnitPrice: price,
	}
	return key, s.persist(ctx)
}

// AddNonCatalogItem adds a side, drink or other item that has no catalog
// record, with the same merge rules as AddItem.
func (s *Store) AddNonCatalogItem(ctx context.Context, itemType, name string, quantity int, unitPrice decimal.Decimal) (domain.LineKey, error) {
	if quantity < 1 {
		return "", fmt.Errorf("cart: add %q: %w", name, domain.ErrInvalidQuantity)
	}

	key := domain.NonCatalogKey(itemType, name)
	if line, exists := s.lines[key]; exists {
		line.Quantity += quantity
		s.lines[key] = line
		return key, s.persist(ctx)
	}

	itemType = strings.ToLower(strings.TrimSpace(itemType))
	s.lines[key] = domain.LineItem{
		ItemID:    string(key),
		Name:      name,
		Type:      itemType,
		Image:     fmt.Sprintf("images/%ss/%s.jpg", itemType, domain.NormalizeName(name)),
		Quantity:  quantity,
		UnitPrice: unitPrice,
	}
	return key, s.persist(ctx)
}

// SetQuantity overwrites the quantity of a line; below 1 removes it.
func (s *Store) SetQuantity(ctx context.Context, key domain.LineKey, quantity int) error {
	line, ok := s.lines[key]
	if !ok {
		return fmt.Errorf("cart: set quantity %q: %w", key, domain.ErrLineNotFound)
	}
	if quantity < 1 {
		delete(s.lines, key)
	} else {
		line.Quantity = quantity
		s.lines[key] = line
	}
	return s.persist(ctx)
}

// Remove deletes a line. Removing a missing key is a no-op.
func (s *Store) Remove(ctx context.Context, key domain.LineKey) error {
	if _, ok := s.lines[key]; !ok {
		return nil
	}
	delete(s.lines, key)
	return s.persist(ctx)
}

func (s *Store) Clear(ctx context.Context) error {
	s.lines = make(map[domain.LineKey]domain.LineItem)
	return s.persist(ctx)
}

// Replace swaps the whole content for a copy of snap.
func (s *Store) Replace(ctx context.Context, snap domain.CartSnapshot) error {
	lines := make(map[domain.LineKey]domain.LineItem, len(snap))
	for k, l := range snap.Clone() {
		if l.Quantity >= 1 {
			lines[k] = l
		}
	}
	s.lines = lines
	return s.persist(ctx)
}

// Snapshot returns a deep copy of the current lines.
func (s *Store) Snapshot() domain.CartSnapshot {
	return domain.CartSnapshot(s.lines).Clone()
}

// Line returns a copy of one line.
func (s *Store) Line(key domain.LineKey) (domain.LineItem, bool) {
	l, ok := s.lines[key]
	return l.Clone(), ok
}

func (s *Store) Len() int { return len(s.lines) }

func (s *Store) Totals() domain.Totals {
	return pricing.ComputeTotals(s.lines)
}

// persist writes the full cart. The in-memory state stays committed even
// when the write fails.
func (s *Store) persist(ctx context.Context) error {
	if err := storage.SaveJSON(ctx, s.store, storage.KeyCart, s.lines); err != nil {
		slog.ErrorContext(ctx, "failed to persist cart", "error", err, "lines", len(s.lines))
		return fmt.Errorf("cart: %w: %w", domain.ErrPersistence, err)
	}
	return nil
}

