// Package favorites keeps the persisted set of favorite catalog item IDs.
package favorites

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/jcmexdev/pizzeria/internal/storefront/domain"
	"github.com/jcmexdev/pizzeria/internal/storefront/storage"
)

// Set is an insertion-ordered set of item IDs. IDs are not checked against
// the catalog, so favorites survive a catalog reload that drops an item.
type Set struct {
	ids   []string
	store storage.Store
}

func New(store storage.Store) *Set {
	return &Set{store: store}
}

// Load restores the persisted IDs, dropping duplicates and empty entries.
// A malformed record leaves the set empty.
func (s *Set) Load(ctx context.Context) error {
	var ids []string
	_, err := storage.LoadJSON(ctx, s.store, storage.KeyFavorites, &ids)

	var corrupt *storage.CorruptError
	switch {
	case errors.As(err, &corrupt):
		slog.WarnContext(ctx, "discarding unreadable favorites record", "error", err)
		ids = nil
	case err != nil:
		return fmt.Errorf("favorites: load: %w", err)
	}

	s.ids = s.ids[:0]
	for _, id := range ids {
		if id != "" && !slices.Contains(s.ids, id) {
			s.ids = append(s.ids, id)
		}
	}
	return nil
}

// Toggle adds id when absent and removes it when present. It reports
// whether id is a favorite afterwards.
func (s *Set) Toggle(ctx context.Context, id string) (bool, error) {
	added := false
	if i := slices.Index(s.ids, id); i >= 0 {
		s.ids = slices.Delete(s.ids, i, i+1)
	} else {
		s.ids = append(s.ids, id)
		added = true
	}
	slog.DebugContext(ctx, "favorite toggled", "item_id", id, "favorite", added)
	return added, s.persist(ctx)
}

func (s *Set) Contains(id string) bool {
	return slices.Contains(s.ids, id)
}

// IDs returns the favorites in the order they were added.
func (s *Set) IDs() []string {
	return slices.Clone(s.ids)
}

func (s *Set) Len() int { return len(s.ids) }

func (s *Set) persist(ctx context.Context) error {
	ids := s.ids
	if ids == nil {
		ids = []string{}
	}
	if err := storage.SaveJSON(ctx, s.store, storage.KeyFavorites, ids); err != nil {
		slog.ErrorContext(ctx, "failed to persist favorites", "error", err)
		return fmt.Errorf("favorites: %w: %w", domain.ErrPersistence, err)
	}
	return nil
}
