// Package store owns the authoritative in-memory product list. All mutations
// flow through its operations; nothing else may touch the list.
package store

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/PriyankaPriyadarsini7/ecommerce-dashboard/internal/domain"
	"github.com/PriyankaPriyadarsini7/ecommerce-dashboard/internal/view"
	apperrors "github.com/PriyankaPriyadarsini7/ecommerce-dashboard/pkg/errors"
)

// FallbackFetchError is surfaced when a failed fetch carries no message of
// its own.
const FallbackFetchError = "failed to fetch products"

// Gateway abstracts the remote catalog operations the store dispatches.
type Gateway interface {
	List(ctx context.Context, limit, skip int) ([]domain.Product, error)
	Create(ctx context.Context, product domain.Product) (domain.Product, error)
	Update(ctx context.Context, id int64, patch domain.ProductPatch) (domain.Product, error)
	Delete(ctx context.Context, id int64) error
}

// UpdateOutcome reports how an update resolved against the in-memory list.
// The caller decides whether UpdateNotFound is an error; the store does not.
type UpdateOutcome int

const (
	// UpdateReplaced means the matching list entry was replaced wholesale.
	UpdateReplaced UpdateOutcome = iota
	// UpdateNotFound means no entry matched the id; the list is unchanged.
	UpdateNotFound
)

func (o UpdateOutcome) String() string {
	switch o {
	case UpdateReplaced:
		return "replaced"
	case UpdateNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Snapshot is a consistent copy of the store's observable state.
type Snapshot struct {
	Products       []domain.Product
	Loading        bool
	Err            string
	SearchTerm     string
	CategoryFilter string
}

// Options configures a ProductStore.
type Options struct {
	// FetchLimit is the page size for FetchAll. Zero falls back to the
	// gateway default.
	FetchLimit int
	// SearchDebounce is the window after the last SetSearchTerm call before
	// the term is committed.
	SearchDebounce time.Duration
}

// ProductStore holds the product list together with the loading flag, error
// slot, and the two filter inputs. A store is constructed explicitly and
// passed by handle; there is no package-level instance.
type ProductStore struct {
	gw         Gateway
	logger     *slog.Logger
	fetchLimit int
	debounce   *debouncer

	mu             sync.RWMutex
	list           []domain.Product
	loading        bool
	errMsg         string
	searchTerm     string
	categoryFilter string

	// Fetch sequencing: each FetchAll is tagged at dispatch; resolutions
	// older than the last applied one are discarded.
	issuedSeq  uint64
	appliedSeq uint64

	subMu   sync.Mutex
	subs    map[uint64]chan struct{}
	nextSub uint64
}

// NewProductStore creates a product store backed by the given gateway.
func NewProductStore(gw Gateway, logger *slog.Logger, opts Options) *ProductStore {
	return &ProductStore{
		gw:         gw,
		logger:     logger,
		fetchLimit: opts.FetchLimit,
		debounce:   newDebouncer(opts.SearchDebounce),
		subs:       make(map[uint64]chan struct{}),
	}
}

// Close cancels any pending debounced search commit.
func (s *ProductStore) Close() {
	s.debounce.stop()
}

// FetchAll replaces the list wholesale with the catalog's current page.
// Loading is raised and the error slot cleared before the network call;
// exactly one terminal transition (success or failure) follows. Overlapping
// calls are not deduplicated: a resolution that has been overtaken by a
// later-issued one is discarded.
func (s *ProductStore) FetchAll(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.errMsg = ""
	s.issuedSeq++
	seq := s.issuedSeq
	s.mu.Unlock()
	s.notify()

	products, err := s.gw.List(ctx, s.fetchLimit, DefaultListSkip)

	s.mu.Lock()
	if seq <= s.appliedSeq {
		// A later-issued fetch already resolved; this result is stale.
		s.mu.Unlock()
		s.logger.DebugContext(ctx, "discarding stale fetch result",
			slog.Uint64("seq", seq),
			slog.Uint64("applied_seq", s.appliedSeq),
		)
		return err
	}
	s.appliedSeq = seq
	latest := seq == s.issuedSeq
	if latest {
		// Only the most recently issued fetch may lower the loading flag;
		// earlier resolutions leave it raised for the one still in flight.
		s.loading = false
	}
	if err != nil {
		if latest {
			// The error slot follows the same rule: a failure that has been
			// overtaken by a later-issued fetch must not taint its state.
			s.errMsg = fetchErrorMessage(err)
		}
		s.mu.Unlock()
		s.notify()

		s.logger.ErrorContext(ctx, "fetch products failed",
			slog.String("error", err.Error()),
		)
		return err
	}
	s.list = products
	s.errMsg = ""
	s.mu.Unlock()
	s.notify()

	s.logger.InfoContext(ctx, "products fetched",
		slog.Int("count", len(products)),
	)
	return nil
}

// Create submits the product to the catalog and, on success, prepends the
// returned id-bearing record. There is no optimistic insert: a failure leaves
// the list untouched and propagates to the caller.
func (s *ProductStore) Create(ctx context.Context, product domain.Product) (domain.Product, error) {
	if err := validateProduct(product); err != nil {
		return domain.Product{}, err
	}

	created, err := s.gw.Create(ctx, product)
	if err != nil {
		return domain.Product{}, err
	}

	s.mu.Lock()
	// Drop any existing entry with the same id before prepending, so ids
	// stay unique within the list.
	if created.HasID() {
		s.list = removeByID(s.list, created.ID)
	}
	s.list = append([]domain.Product{created}, s.list...)
	s.mu.Unlock()
	s.notify()

	s.logger.InfoContext(ctx, "product created",
		slog.Int64("product_id", created.ID),
		slog.String("title", created.Title),
	)
	return created, nil
}

// Update applies the patch remotely, then replaces the matching list entry
// wholesale with the gateway's merged record. When no entry matches the id
// the list is left unchanged and UpdateNotFound is reported without error.
func (s *ProductStore) Update(ctx context.Context, id int64, patch domain.ProductPatch) (domain.Product, UpdateOutcome, error) {
	if id <= 0 {
		return domain.Product{}, UpdateNotFound, apperrors.InvalidInput("product id must be positive")
	}

	updated, err := s.gw.Update(ctx, id, patch)
	if err != nil {
		return domain.Product{}, UpdateNotFound, err
	}

	outcome := UpdateNotFound
	s.mu.Lock()
	for i := range s.list {
		if s.list[i].ID == updated.ID {
			s.list[i] = updated
			outcome = UpdateReplaced
			break
		}
	}
	s.mu.Unlock()

	if outcome == UpdateReplaced {
		s.notify()
	} else {
		s.logger.WarnContext(ctx, "update resolved for a product not in the list",
			slog.Int64("product_id", id),
		)
	}
	return updated, outcome, nil
}

// Delete removes the product remotely, then drops every matching entry from
// the list. A failure leaves the list untouched and propagates.
func (s *ProductStore) Delete(ctx context.Context, id int64) error {
	if err := s.gw.Delete(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	s.list = removeByID(s.list, id)
	s.mu.Unlock()
	s.notify()

	s.logger.InfoContext(ctx, "product deleted",
		slog.Int64("product_id", id),
	)
	return nil
}

// SetSearchTerm schedules a debounced commit of the search term. The value is
// trimmed at commit time; a new call before the window elapses cancels the
// pending commit and restarts the delay.
func (s *ProductStore) SetSearchTerm(term string) {
	s.debounce.trigger(func() {
		trimmed := strings.TrimSpace(term)
		s.mu.Lock()
		s.searchTerm = trimmed
		s.mu.Unlock()
		s.notify()
	})
}

// SetCategoryFilter sets the category filter immediately. An empty string
// means no category restriction.
func (s *ProductStore) SetCategoryFilter(category string) {
	s.mu.Lock()
	s.categoryFilter = category
	s.mu.Unlock()
	s.notify()
}

// Snapshot returns a consistent copy of the observable state.
func (s *ProductStore) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]domain.Product, len(s.list))
	copy(products, s.list)

	return Snapshot{
		Products:       products,
		Loading:        s.loading,
		Err:            s.errMsg,
		SearchTerm:     s.searchTerm,
		CategoryFilter: s.categoryFilter,
	}
}

// Projection returns the filtered view of the current list, computed from the
// committed search term and category filter.
func (s *ProductStore) Projection() []domain.Product {
	snap := s.Snapshot()
	return view.Project(snap.Products, snap.SearchTerm, snap.CategoryFilter)
}

// Subscribe registers a coalesced change notification channel. The returned
// cancel function removes the subscription. A slow receiver misses
// intermediate notifications but always observes the latest state on its next
// read.
func (s *ProductStore) Subscribe() (<-chan struct{}, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan struct{}, 1)
	s.subs[id] = ch

	cancel := func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
	return ch, cancel
}

func (s *ProductStore) notify() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// DefaultListSkip mirrors the gateway's fixed page offset.
const DefaultListSkip = 0

func removeByID(list []domain.Product, id int64) []domain.Product {
	kept := list[:0]
	for _, p := range list {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	return kept
}

func fetchErrorMessage(err error) string {
	msg := err.Error()
	if msg == "" {
		return FallbackFetchError
	}
	return msg
}

func validateProduct(p domain.Product) error {
	if strings.TrimSpace(p.Title) == "" {
		return apperrors.InvalidInput("product title is required")
	}
	if p.Price < 0 {
		return apperrors.InvalidInput("product price must not be negative")
	}
	if p.Stock != nil && *p.Stock < 0 {
		return apperrors.InvalidInput("product stock must not be negative: " + strconv.Itoa(*p.Stock))
	}
	return nil
}
