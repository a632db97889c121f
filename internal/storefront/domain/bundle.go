package domain

import "github.com/shopspring/decimal"

// Bundle is a promotional offer. A fixed bundle lists its components; a
// customizable bundle fills Template with one catalog item the user picks.
type Bundle struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	OriginalPrice decimal.Decimal   `json:"originalPrice"`
	Price         decimal.Decimal   `json:"price"`
	Customizable  bool              `json:"customizable"`
	Template      *BundleTemplate   `json:"template,omitempty"`
	Items         []BundleComponent `json:"items,omitempty"`
}

// BundleTemplate is the size and quantity a customizable bundle adds.
type BundleTemplate struct {
	Size     Size `json:"size"`
	Quantity int  `json:"quantity"`
}

// BundleComponent is one entry of a fixed bundle. Components with an ItemID
// reference the catalog; the rest are priced by their own Price.
type BundleComponent struct {
	ItemID   string          `json:"itemId,omitempty"`
	Type     string          `json:"type,omitempty"`
	Name     string          `json:"name,omitempty"`
	Size     Size            `json:"size,omitempty"`
	Toppings []string        `json:"toppings,omitempty"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// IsCatalog reports whether the component references a catalog item.
func (c BundleComponent) IsCatalog() bool {
	return c.ItemID != "" && (c.Type == "" || c.Type == LineTypePizza)
}
