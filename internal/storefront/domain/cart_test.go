package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPizzaKey(t *testing.T) {
	tests := []struct {
		name     string
		itemID   string
		size     Size
		toppings []string
		want     LineKey
	}{
		{"no toppings", "p1", SizeMedium, nil, "p1|size:M|t:"},
		{"sorted toppings", "p2", SizeLarge, []string{"olives", "corn"}, "p2|size:L|t:corn-olives"},
		{"empty size defaults to medium", "p3", "", nil, "p3|size:M|t:"},
		{"unknown size defaults to medium", "p3", "XXL", nil, "p3|size:M|t:"},
		{"lowercase size", "p3", "s", []string{"ham"}, "p3|size:S|t:ham"},
		{"duplicate toppings collapse", "p1", SizeMedium, []string{"olives", "corn", "olives"}, "p1|size:M|t:corn-olives"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PizzaKey(tt.itemID, tt.size, tt.toppings))
		})
	}
}

func TestPizzaKeyIgnoresToppingOrderAndKeepsInput(t *testing.T) {
	a := []string{"paneer", "capsicum", "onion"}
	b := []string{"onion", "paneer", "capsicum"}

	assert.Equal(t, PizzaKey("p1", SizeSmall, a), PizzaKey("p1", SizeSmall, b))
	assert.Equal(t, []string{"paneer", "capsicum", "onion"}, a)
	assert.Equal(t, []string{"onion", "paneer", "capsicum"}, b)
}

func TestNonCatalogKey(t *testing.T) {
	assert.Equal(t, LineKey("nonpizza-side-garlic-bread"), NonCatalogKey("side", "Garlic Bread"))
	assert.Equal(t, LineKey("nonpizza-drink-cola"), NonCatalogKey("Drink", "  cola "))
	assert.Equal(t, NonCatalogKey("side", "Garlic  Bread"), NonCatalogKey("side", "garlic bread"))
}

func TestCartSnapshotCloneIsDeep(t *testing.T) {
	orig := CartSnapshot{
		"p1|size:M|t:ham": {ItemID: "p1", Toppings: []string{"ham"}, Quantity: 1, UnitPrice: decimal.NewFromInt(330)},
	}
	cp := orig.Clone()

	line := cp["p1|size:M|t:ham"]
	line.Toppings[0] = "pineapple"
	line.Quantity = 9
	cp["p1|size:M|t:ham"] = line
	delete(cp, "missing")

	require.Len(t, orig, 1)
	assert.Equal(t, "ham", orig["p1|size:M|t:ham"].Toppings[0])
	assert.Equal(t, 1, orig["p1|size:M|t:ham"].Quantity)
}

func TestCartSnapshotKeysSorted(t *testing.T) {
	s := CartSnapshot{"b": {}, "a": {}, "c": {}}
	assert.Equal(t, []LineKey{"a", "b", "c"}, s.Keys())
}

func TestLineTotal(t *testing.T) {
	l := LineItem{Quantity: 2, UnitPrice: decimal.RequireFromString("199.5")}
	assert.True(t, l.LineTotal().Equal(decimal.NewFromInt(399)))
}

func TestNormalizeSize(t *testing.T) {
	assert.Equal(t, SizeSmall, NormalizeSize("S"))
	assert.Equal(t, SizeLarge, NormalizeSize(" l "))
	assert.Equal(t, SizeMedium, NormalizeSize(""))
	assert.Equal(t, SizeMedium, NormalizeSize("jumbo"))
}
