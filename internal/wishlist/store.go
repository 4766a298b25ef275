// Package wishlist holds the favorited-product list, mirrored to durable
// local storage on every mutation.
package wishlist

import (
	"context"
	"log/slog"
	"sync"

	"github.com/PriyankaPriyadarsini7/ecommerce-dashboard/internal/domain"
)

// Repository abstracts the durable persistence of the wishlist. Save always
// writes the entire list; Clear removes the persisted entry outright, which
// readers must distinguish from a saved empty list.
type Repository interface {
	Load(ctx context.Context) ([]domain.Product, error)
	Save(ctx context.Context, products []domain.Product) error
	Clear(ctx context.Context) error
}

// Store is the in-memory wishlist, keyed by product id. Entries are value
// copies of product snapshots: later edits in the product store do not reach
// them.
type Store struct {
	repo   Repository
	logger *slog.Logger

	// persistMu serializes mutate-then-persist pairs so the durable copy is
	// always written in mutation order. Reads take only mu and never wait on
	// repository I/O.
	persistMu sync.Mutex

	mu   sync.RWMutex
	list []domain.Product
}

// NewStore creates a wishlist store, rehydrating from the repository exactly
// once. An absent or unreadable persisted value falls back to an empty list;
// a decode failure is logged, never fatal.
func NewStore(ctx context.Context, repo Repository, logger *slog.Logger) *Store {
	s := &Store{
		repo:   repo,
		logger: logger,
	}

	list, err := repo.Load(ctx)
	if err != nil {
		logger.WarnContext(ctx, "wishlist rehydration failed, starting empty",
			slog.String("error", err.Error()),
		)
		list = nil
	}
	s.list = list

	logger.InfoContext(ctx, "wishlist rehydrated",
		slog.Int("count", len(s.list)),
	)
	return s
}

// Toggle removes the product when one with the same id is present, otherwise
// appends it. The relative order of remaining entries is preserved on
// removal. The entire resulting list is persisted on every call, even when
// the write is redundant; a persistence failure is logged and not surfaced.
// Concurrent calls persist in mutation order, so the durable copy always
// matches memory once the last call returns. The resulting list is returned.
func (s *Store) Toggle(ctx context.Context, product domain.Product) []domain.Product {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.Lock()
	exists := false
	for _, p := range s.list {
		if p.ID == product.ID {
			exists = true
			break
		}
	}

	if exists {
		kept := make([]domain.Product, 0, len(s.list))
		for _, p := range s.list {
			if p.ID != product.ID {
				kept = append(kept, p)
			}
		}
		s.list = kept
	} else {
		s.list = append(s.list, product)
	}

	result := make([]domain.Product, len(s.list))
	copy(result, s.list)
	s.mu.Unlock()

	if err := s.repo.Save(ctx, result); err != nil {
		s.logger.ErrorContext(ctx, "wishlist persistence failed",
			slog.Int64("product_id", product.ID),
			slog.String("error", err.Error()),
		)
	}
	return result
}

// Clear empties the list and removes the persisted entry entirely, rather
// than persisting an empty list.
func (s *Store) Clear(ctx context.Context) {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.Lock()
	s.list = nil
	s.mu.Unlock()

	if err := s.repo.Clear(ctx); err != nil {
		s.logger.ErrorContext(ctx, "wishlist clear failed",
			slog.String("error", err.Error()),
		)
	}
}

// List returns a copy of the current wishlist.
func (s *Store) List() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]domain.Product, len(s.list))
	copy(list, s.list)
	return list
}

// Contains reports whether a product with the given id is favorited.
func (s *Store) Contains(id int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.list {
		if p.ID == id {
			return true
		}
	}
	return false
}
