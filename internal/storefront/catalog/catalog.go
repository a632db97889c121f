// Package catalog loads the read-only pizza feed and answers lookups and
// browse filters against it.
package catalog

import (
	"regexp"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/pizzeria/internal/storefront/domain"
)

// Catalog is an immutable snapshot of the feed.
type Catalog struct {
	items []domain.CatalogItem
	byID  map[string]int
}

// New indexes items by ID. Later duplicates of an ID are ignored.
func New(items []domain.CatalogItem) *Catalog {
	c := &Catalog{byID: make(map[string]int, len(items))}
	for _, it := range items {
		if _, dup := c.byID[it.ID]; dup {
			continue
		}
		c.byID[it.ID] = len(c.items)
		c.items = append(c.items, cloneItem(it))
	}
	return c
}

// Find returns a copy of the item with the given ID.
func (c *Catalog) Find(id string) (domain.CatalogItem, bool) {
	if c == nil {
		return domain.CatalogItem{}, false
	}
	i, ok := c.byID[id]
	if !ok {
		return domain.CatalogItem{}, false
	}
	return cloneItem(c.items[i]), true
}

// Items returns all items in feed order.
func (c *Catalog) Items() []domain.CatalogItem {
	if c == nil {
		return nil
	}
	out := make([]domain.CatalogItem, len(c.items))
	for i, it := range c.items {
		out[i] = cloneItem(it)
	}
	return out
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// Search matches q case-insensitively against name and description. A
// blank query returns every item.
func (c *Catalog) Search(q string) []domain.CatalogItem {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return c.Items()
	}
	return c.where(func(it domain.CatalogItem) bool {
		return strings.Contains(strings.ToLower(it.Name), q) ||
			strings.Contains(strings.ToLower(it.Description), q)
	})
}

// Filter is a browse category.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterVeg       Filter = "veg"
	FilterNonVeg    Filter = "nonveg"
	FilterChef      Filter = "chef"
	FilterFavorites Filter = "favorites"
)

var (
	vegWords    = regexp.MustCompile(`(?i)paneer|veg|veggie|spinach|mushroom|corn|cottage`)
	nonVegWords = regexp.MustCompile(`(?i)chicken|pepperoni|bacon|prawn|tuna|meat|sausage`)
	chefWords   = []string{"truffle", "premium", "chef"}
	chefPrice   = decimal.NewFromInt(350)
)

// Filter narrows the catalog to a category. The favorites category falls
// back to the whole catalog when none of favorites is in it. Unknown
// categories behave like FilterAll.
func (c *Catalog) Filter(f Filter, favorites []string) []domain.CatalogItem {
	switch f {
	case FilterVeg:
		return c.where(func(it domain.CatalogItem) bool {
			return vegWords.MatchString(it.Name + " " + it.Description)
		})
	case FilterNonVeg:
		return c.where(func(it domain.CatalogItem) bool {
			return nonVegWords.MatchString(it.Name + " " + it.Description)
		})
	case FilterChef:
		return c.where(func(it domain.CatalogItem) bool {
			if it.BasePrice.GreaterThanOrEqual(chefPrice) {
				return true
			}
			name := strings.ToLower(it.Name)
			return slices.ContainsFunc(chefWords, func(w string) bool { return strings.Contains(name, w) })
		})
	case FilterFavorites:
		fav := c.where(func(it domain.CatalogItem) bool { return slices.Contains(favorites, it.ID) })
		if len(fav) == 0 {
			return c.Items()
		}
		return fav
	default:
		return c.Items()
	}
}

func (c *Catalog) where(keep func(domain.CatalogItem) bool) []domain.CatalogItem {
	if c == nil {
		return nil
	}
	var out []domain.CatalogItem
	for _, it := range c.items {
		if keep(it) {
			out = append(out, cloneItem(it))
		}
	}
	return out
}

func cloneItem(it domain.CatalogItem) domain.CatalogItem {
	it.AvailableToppings = slices.Clone(it.AvailableToppings)
	return it
}
