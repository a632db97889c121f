package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jcmexdev/pizzeria/internal/storefront/domain"
)

// maxFeedBytes bounds the size of a feed payload.
const maxFeedBytes = 4 << 20

// Feed fetches catalog items from a file path or an http(s) URL.
type Feed struct {
	Source string
	Client *http.Client
}

// NewFeed returns a feed whose HTTP client is instrumented with otelhttp.
func NewFeed(source string) *Feed {
	return &Feed{
		Source: source,
		Client: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
	}
}

// Fetch reads and validates the feed and returns the resulting catalog.
func (f *Feed) Fetch(ctx context.Context) (*Catalog, error) {
	raw, err := f.read(ctx)
	if err != nil {
		return nil, err
	}
	items, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", f.Source, err)
	}
	return New(items), nil
}

func (f *Feed) read(ctx context.Context) ([]byte, error) {
	if !strings.HasPrefix(f.Source, "http://") && !strings.HasPrefix(f.Source, "https://") {
		raw, err := os.ReadFile(f.Source)
		if err != nil {
			return nil, fmt.Errorf("catalog: read %s: %w", f.Source, err)
		}
		return raw, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.Source, nil)
	if err != nil {
		return nil, fmt.Errorf("catalog: build request: %w", err)
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	res, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog: fetch %s: %w", f.Source, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("catalog: fetch %s: unexpected status %d", f.Source, res.StatusCode)
	}
	raw, err := io.ReadAll(io.LimitReader(res.Body, maxFeedBytes))
	if err != nil {
		return nil, fmt.Errorf("catalog: read body: %w", err)
	}
	return raw, nil
}

// Parse decodes a JSON array of catalog items and validates each record.
func Parse(raw []byte) ([]domain.CatalogItem, error) {
	var items []domain.CatalogItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}
	for i, it := range items {
		switch {
		case strings.TrimSpace(it.ID) == "":
			return nil, fmt.Errorf("item %d: id is required", i)
		case strings.TrimSpace(it.Name) == "":
			return nil, fmt.Errorf("item %q: name is required", it.ID)
		case it.BasePrice.IsNegative():
			return nil, fmt.Errorf("item %q: negative base price %s", it.ID, it.BasePrice)
		}
	}
	return items, nil
}
