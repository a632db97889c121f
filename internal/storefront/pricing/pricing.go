// Package pricing computes unit prices and cart totals. Every function is
// pure; the business constants below are fixed and not configurable.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/jcmexdev/pizzeria/internal/storefront/domain"
)

var (
	ToppingUnitPrice      = decimal.NewFromInt(30)
	TaxRate               = decimal.RequireFromString("0.18")
	FreeDeliveryThreshold = decimal.NewFromInt(500)
	DeliveryFee           = decimal.NewFromInt(40)

	multSmall  = decimal.RequireFromString("0.85")
	multMedium = decimal.NewFromInt(1)
	multLarge  = decimal.RequireFromString("1.3")
)

// SizeMultiplier returns the base-price factor for a size. Unknown codes
// price as medium.
func SizeMultiplier(size domain.Size) decimal.Decimal {
	switch domain.NormalizeSize(size) {
	case domain.SizeSmall:
		return multSmall
	case domain.SizeLarge:
		return multLarge
	default:
		return multMedium
	}
}

// UnitPrice is round(base*mult(size) + toppingCount*30), rounded to a whole
// currency unit with halves rounded away from zero.
func UnitPrice(base decimal.Decimal, size domain.Size, toppingCount int) decimal.Decimal {
	toppings := ToppingUnitPrice.Mul(decimal.NewFromInt(int64(toppingCount)))
	return base.Mul(SizeMultiplier(size)).Add(toppings).Round(0)
}

// ComputeTotals aggregates a set of lines into subtotal, tax, delivery fee
// and grand total.
func ComputeTotals(lines domain.CartSnapshot) domain.Totals {
	subtotal := decimal.Zero
	count := 0
	for _, l := range lines {
		subtotal = subtotal.Add(l.LineTotal())
		count += l.Quantity
	}

	fee := DeliveryFee
	shortfall := FreeDeliveryThreshold.Sub(subtotal)
	if subtotal.GreaterThan(FreeDeliveryThreshold) {
		fee = decimal.Zero
		shortfall = decimal.Zero
	}

	tax := subtotal.Mul(TaxRate)
	return domain.Totals{
		Subtotal:              subtotal,
		Tax:                   tax,
		DeliveryFee:           fee,
		Total:                 subtotal.Add(tax).Add(fee),
		ItemCount:             count,
		FreeDeliveryShortfall: shortfall,
	}
}
