package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/pizzeria/internal/storefront/domain"
)

const feedJSON = `[
  {"id": "p1", "name": "Margherita", "description": "Tomato and mozzarella", "basePrice": 300, "availableToppings": ["olives"]},
  {"id": "p2", "name": "Pepperoni Classic", "description": "Double pepperoni", "basePrice": 380},
  {"id": "p3", "name": "Paneer Tikka", "description": "Tandoori paneer", "basePrice": "340"},
  {"id": "p4", "name": "Truffle Funghi", "description": "Wild mushrooms", "basePrice": 330}
]`

func ids(items []domain.CatalogItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func mustCatalog(t *testing.T) *Catalog {
	t.Helper()
	items, err := Parse([]byte(feedJSON))
	require.NoError(t, err)
	return New(items)
}

func TestParse(t *testing.T) {
	items, err := Parse([]byte(feedJSON))
	require.NoError(t, err)
	require.Len(t, items, 4)
	assert.True(t, items[2].BasePrice.Equal(decimal.NewFromInt(340)))
	assert.Equal(t, []string{"olives"}, items[0].AvailableToppings)
}

func TestParseRejectsInvalidRecords(t *testing.T) {
	tests := map[string]string{
		"not json":       `{`,
		"missing id":     `[{"name": "x", "basePrice": 1}]`,
		"missing name":   `[{"id": "p1", "basePrice": 1}]`,
		"negative price": `[{"id": "p1", "name": "x", "basePrice": -1}]`,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(raw))
			assert.Error(t, err)
		})
	}
}

func TestFindReturnsCopy(t *testing.T) {
	c := mustCatalog(t)

	it, ok := c.Find("p1")
	require.True(t, ok)
	it.AvailableToppings[0] = "changed"

	again, _ := c.Find("p1")
	assert.Equal(t, "olives", again.AvailableToppings[0])

	_, ok = c.Find("nope")
	assert.False(t, ok)
}

func TestNilCatalog(t *testing.T) {
	var c *Catalog
	_, ok := c.Find("p1")
	assert.False(t, ok)
	assert.Empty(t, c.Items())
	assert.Zero(t, c.Len())
}

func TestSearch(t *testing.T) {
	c := mustCatalog(t)
	assert.Equal(t, []string{"p2"}, ids(c.Search("PEPPER")))
	assert.Equal(t, []string{"p4"}, ids(c.Search("mushrooms")))
	assert.Len(t, c.Search("   "), 4)
	assert.Empty(t, c.Search("anchovy"))
}

func TestFilter(t *testing.T) {
	c := mustCatalog(t)

	assert.Equal(t, []string{"p3", "p4"}, ids(c.Filter(FilterVeg, nil)))
	assert.Equal(t, []string{"p2"}, ids(c.Filter(FilterNonVeg, nil)))
	assert.Equal(t, []string{"p2", "p4"}, ids(c.Filter(FilterChef, nil)))
	assert.Equal(t, []string{"p1", "p3"}, ids(c.Filter(FilterFavorites, []string{"p3", "p1", "gone"})))
	assert.Len(t, c.Filter(FilterFavorites, []string{"gone"}), 4)
	assert.Len(t, c.Filter(Filter("whatever"), nil), 4)
}

func TestFetchFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pizzas.json")
	require.NoError(t, os.WriteFile(path, []byte(feedJSON), 0o600))

	c, err := NewFeed(path).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, c.Len())
}

func TestFetchFromHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pizzas.json" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(feedJSON))
	}))
	defer srv.Close()

	c, err := NewFeed(srv.URL + "/pizzas.json").Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, c.Len())

	_, err = NewFeed(srv.URL + "/missing.json").Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 404")
}

func TestFetchMissingFile(t *testing.T) {
	_, err := NewFeed(filepath.Join(t.TempDir(), "absent.json")).Fetch(context.Background())
	assert.Error(t, err)
}
