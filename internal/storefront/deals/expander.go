// Package deals turns promotional bundles into cart mutations.
package deals

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/pizzeria/internal/storefront/domain"
)

// Cart is the part of the cart store the expander writes to.
type Cart interface {
	AddItem(ctx context.Context, itemID string, size domain.Size, toppings []string, quantity int, explicitPrice *decimal.Decimal) (domain.LineKey, error)
	AddNonCatalogItem(ctx context.Context, itemType, name string, quantity int, unitPrice decimal.Decimal) (domain.LineKey, error)
}

// Catalog lists and resolves catalog items.
type Catalog interface {
	Find(id string) (domain.CatalogItem, bool)
	Items() []domain.CatalogItem
}

type Expander struct {
	bundles []domain.Bundle
	byID    map[string]int
	cart    Cart
	catalog Catalog
}

func NewExpander(bundles []domain.Bundle, cart Cart, catalog Catalog) *Expander {
	e := &Expander{
		bundles: bundles,
		byID:    make(map[string]int, len(bundles)),
		cart:    cart,
		catalog: catalog,
	}
	for i, b := range bundles {
		e.byID[b.ID] = i
	}
	return e
}

func (e *Expander) SetCatalog(c Catalog) {
	e.catalog = c
}

// Bundles returns every bundle in definition order.
func (e *Expander) Bundles() []domain.Bundle {
	return append([]domain.Bundle(nil), e.bundles...)
}

func (e *Expander) Bundle(id string) (domain.Bundle, error) {
	i, ok := e.byID[id]
	if !ok {
		return domain.Bundle{}, fmt.Errorf("deals: %q: %w", id, domain.ErrBundleNotFound)
	}
	return e.bundles[i], nil
}

// Choices is the set of catalog items a customizable bundle can be filled
// with.
func (e *Expander) Choices() []domain.CatalogItem {
	return e.catalog.Items()
}

// Expand adds the components of a fixed bundle to the cart. Catalog
// components are priced at the standard per-unit rate, so the bundle's
// advertised price is not applied to them.
//
// Every catalog reference is checked before the first mutation; a missing
// item aborts the expansion with the cart untouched.
func (e *Expander) Expand(ctx context.Context, bundleID string) ([]domain.LineKey, error) {
	b, err := e.Bundle(bundleID)
	if err != nil {
		slog.WarnContext(ctx, "deal expansion rejected", "bundle_id", bundleID, "error", err)
		return nil, err
	}
	if b.Customizable {
		return nil, fmt.Errorf("deals: %q: %w", bundleID, domain.ErrChoiceRequired)
	}

	for _, c := range b.Items {
		if !c.IsCatalog() {
			continue
		}
		if _, ok := e.catalog.Find(c.ItemID); !ok {
			return nil, fmt.Errorf("deals: %q component %q: %w", bundleID, c.ItemID, domain.ErrItemNotFound)
		}
	}

	keys := make([]domain.LineKey, 0, len(b.Items))
	var persistErr error
	for _, c := range b.Items {
		var (
			key domain.LineKey
			err error
		)
		if c.IsCatalog() {
			key, err = e.cart.AddItem(ctx, c.ItemID, c.Size, c.Toppings, c.Quantity, nil)
		} else {
			key, err = e.cart.AddNonCatalogItem(ctx, c.Type, c.Name, c.Quantity, c.Price)
		}
		if key != "" {
			keys = append(keys, key)
		}
		if err != nil {
			if key == "" {
				return keys, err
			}
			persistErr = err
		}
	}

	slog.InfoContext(ctx, "deal added to cart", "bundle_id", bundleID, "lines", len(keys))
	return keys, persistErr
}

// ExpandCustomizable fills a customizable bundle with itemID: one cart line
// of Template.Quantity units priced at Price / Template.Quantity each.
func (e *Expander) ExpandCustomizable(ctx context.Context, bundleID, itemID string) (domain.LineKey, error) {
	b, err := e.Bundle(bundleID)
	if err != nil {
		slog.WarnContext(ctx, "deal expansion rejected", "bundle_id", bundleID, "error", err)
		return "", err
	}
	if !b.Customizable || b.Template == nil {
		return "", fmt.Errorf("deals: %q: %w", bundleID, domain.ErrNotCustomizable)
	}

	unit := b.Price.Div(decimal.NewFromInt(int64(b.Template.Quantity)))
	key, err := e.cart.AddItem(ctx, itemID, b.Template.Size, nil, b.Template.Quantity, &unit)
	if key == "" && err != nil {
		return "", err
	}

	slog.InfoContext(ctx, "custom deal added to cart", "bundle_id", bundleID, "item_id", itemID, "unit_price", unit.String())
	return key, err
}
