package deals

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/jcmexdev/pizzeria/internal/storefront/domain"
)

//go:embed deals.yaml
var defaultDeals []byte

type dealsFile struct {
	Deals []dealYAML `yaml:"deals"`
}

type dealYAML struct {
	ID            string          `yaml:"id"`
	Name          string          `yaml:"name"`
	Description   string          `yaml:"description"`
	OriginalPrice string          `yaml:"original_price"`
	Price         string          `yaml:"price"`
	Customizable  bool            `yaml:"customizable"`
	Template      *templateYAML   `yaml:"template"`
	Items         []componentYAML `yaml:"items"`
}

type templateYAML struct {
	Size     string `yaml:"size"`
	Quantity int    `yaml:"quantity"`
}

type componentYAML struct {
	ItemID   string   `yaml:"item_id"`
	Type     string   `yaml:"type"`
	Name     string   `yaml:"name"`
	Size     string   `yaml:"size"`
	Toppings []string `yaml:"toppings"`
	Quantity int      `yaml:"quantity"`
	Price    string   `yaml:"price"`
}

// Default returns the bundles shipped with the storefront.
func Default() ([]domain.Bundle, error) {
	return Parse(defaultDeals)
}

// LoadFile loads bundles from a YAML file.
func LoadFile(path string) ([]domain.Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("deals: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a bundle definition document.
func Parse(data []byte) ([]domain.Bundle, error) {
	var f dealsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("deals: parse yaml: %w", err)
	}

	seen := make(map[string]bool, len(f.Deals))
	bundles := make([]domain.Bundle, 0, len(f.Deals))
	for _, d := range f.Deals {
		b, err := d.toBundle()
		if err != nil {
			return nil, fmt.Errorf("deals: %q: %w", d.ID, err)
		}
		if seen[b.ID] {
			return nil, fmt.Errorf("deals: duplicate id %q", b.ID)
		}
		seen[b.ID] = true
		bundles = append(bundles, b)
	}
	return bundles, nil
}

func (d dealYAML) toBundle() (domain.Bundle, error) {
	if strings.TrimSpace(d.ID) == "" {
		return domain.Bundle{}, fmt.Errorf("id is required")
	}
	price, err := parseMoney(d.Price, "price")
	if err != nil {
		return domain.Bundle{}, err
	}
	original := price
	if d.OriginalPrice != "" {
		if original, err = parseMoney(d.OriginalPrice, "original_price"); err != nil {
			return domain.Bundle{}, err
		}
	}

	b := domain.Bundle{
		ID:            d.ID,
		Name:          d.Name,
		Description:   d.Description,
		OriginalPrice: original,
		Price:         price,
		Customizable:  d.Customizable,
	}

	if d.Customizable {
		if d.Template == nil || d.Template.Quantity < 1 {
			return domain.Bundle{}, fmt.Errorf("customizable bundle needs a template with quantity >= 1")
		}
		b.Template = &domain.BundleTemplate{
			Size:     domain.NormalizeSize(domain.Size(d.Template.Size)),
			Quantity: d.Template.Quantity,
		}
		return b, nil
	}

	if len(d.Items) == 0 {
		return domain.Bundle{}, fmt.Errorf("fixed bundle needs at least one item")
	}
	for i, it := range d.Items {
		c, err := it.toComponent()
		if err != nil {
			return domain.Bundle{}, fmt.Errorf("item %d: %w", i, err)
		}
		b.Items = append(b.Items, c)
	}
	return b, nil
}

func (c componentYAML) toComponent() (domain.BundleComponent, error) {
	if c.Quantity < 1 {
		return domain.BundleComponent{}, fmt.Errorf("quantity must be at least 1")
	}
	out := domain.BundleComponent{
		ItemID:   c.ItemID,
		Type:     c.Type,
		Name:     c.Name,
		Size:     domain.Size(c.Size),
		Toppings: c.Toppings,
		Quantity: c.Quantity,
	}
	if out.IsCatalog() {
		out.Size = domain.NormalizeSize(out.Size)
		return out, nil
	}
	if c.Type == "" || c.Name == "" {
		return domain.BundleComponent{}, fmt.Errorf("non-catalog item needs type and name")
	}
	price, err := parseMoney(c.Price, "price")
	if err != nil {
		return domain.BundleComponent{}, err
	}
	out.Price = price
	return out, nil
}

func parseMoney(s, field string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%s %q: %w", field, s, err)
	}
	if d.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("%s %q is negative", field, s)
	}
	return d, nil
}
