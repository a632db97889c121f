// Package domain holds the storefront's data model: catalog items, cart
// lines and their keys, promotional bundles, orders and the error values
// shared by every component.
package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CatalogItem is a pizza record from the external catalog feed. It is
// read-only for the storefront.
type CatalogItem struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	BasePrice         decimal.Decimal `json:"basePrice"`
	AvailableToppings []string        `json:"availableToppings"`
	Image             string          `json:"image,omitempty"`
}

// Size is a pizza size code.
type Size string

const (
	SizeSmall  Size = "S"
	SizeMedium Size = "M"
	SizeLarge  Size = "L"
)

// NormalizeSize maps empty and unknown codes to SizeMedium.
func NormalizeSize(s Size) Size {
	switch Size(strings.ToUpper(strings.TrimSpace(string(s)))) {
	case SizeSmall:
		return SizeSmall
	case SizeLarge:
		return SizeLarge
	default:
		return SizeMedium
	}
}
