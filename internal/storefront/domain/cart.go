package domain

import (
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// LineKey identifies a cart line. Two additions with the same key merge.
type LineKey string

// LineTypePizza marks lines that reference a catalog item.
const LineTypePizza = "pizza"

// LineItem is one aggregated cart entry.
type LineItem struct {
	ItemID    string          `json:"id"`
	Name      string          `json:"name"`
	Type      string          `json:"type"`
	Image     string          `json:"image,omitempty"`
	Size      Size            `json:"size,omitempty"`
	Toppings  []string        `json:"toppings,omitempty"`
	Quantity  int             `json:"qty"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// LineTotal is UnitPrice × Quantity.
func (l LineItem) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Clone returns a copy that shares no slices with l.
func (l LineItem) Clone() LineItem {
	l.Toppings = slices.Clone(l.Toppings)
	return l
}

// CartSnapshot is a detached copy of the cart content.
type CartSnapshot map[LineKey]LineItem

// Clone deep-copies the snapshot.
func (s CartSnapshot) Clone() CartSnapshot {
	out := make(CartSnapshot, len(s))
	for k, v := range s {
		out[k] = v.Clone()
	}
	return out
}

// Keys returns the snapshot keys in lexical order.
func (s CartSnapshot) Keys() []LineKey {
	keys := make([]LineKey, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// NormalizeToppings returns the toppings as a sorted set: a new slice with
// duplicates removed. The caller's slice keeps its order.
func NormalizeToppings(toppings []string) []string {
	if len(toppings) == 0 {
		return nil
	}
	out := slices.Clone(toppings)
	sort.Strings(out)
	return slices.Compact(out)
}

// PizzaKey builds the key of a catalog line from the normalized toppings.
func PizzaKey(itemID string, size Size, toppings []string) LineKey {
	return LineKey(itemID + "|size:" + string(NormalizeSize(size)) + "|t:" + strings.Join(NormalizeToppings(toppings), "-"))
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// NormalizeName lowercases a display name and joins its words with "-".
func NormalizeName(name string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}

// NonCatalogKey builds the key of a side, drink or other bundle component
// that has no catalog record.
func NonCatalogKey(itemType, name string) LineKey {
	return LineKey("nonpizza-" + NormalizeName(itemType) + "-" + NormalizeName(name))
}
