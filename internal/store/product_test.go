package store

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/PriyankaPriyadarsini7/ecommerce-dashboard/internal/domain"
	apperrors "github.com/PriyankaPriyadarsini7/ecommerce-dashboard/pkg/errors"
)

// --- Mock Gateway ---

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) List(ctx context.Context, limit, skip int) ([]domain.Product, error) {
	args := m.Called(ctx, limit, skip)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockGateway) Create(ctx context.Context, product domain.Product) (domain.Product, error) {
	args := m.Called(ctx, product)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *mockGateway) Update(ctx context.Context, id int64, patch domain.ProductPatch) (domain.Product, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *mockGateway) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- Test Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestStore(gw Gateway) *ProductStore {
	return NewProductStore(gw, newTestLogger(), Options{
		FetchLimit:     200,
		SearchDebounce: 10 * time.Millisecond,
	})
}

func samplePage() []domain.Product {
	return []domain.Product{
		{ID: 1, Title: "iPhone 9", Category: "smartphones", Price: 549},
		{ID: 2, Title: "MacBook Pro", Category: "laptops", Price: 1749},
	}
}

// --- Fetch ---

func TestFetchAll_Success(t *testing.T) {
	gw := new(mockGateway)
	s := newTestStore(gw)
	ctx := context.Background()

	gw.On("List", ctx, 200, 0).Return(samplePage(), nil)

	err := s.FetchAll(ctx)

	require.NoError(t, err)
	snap := s.Snapshot()
	assert.Equal(t, samplePage(), snap.Products)
	assert.False(t, snap.Loading)
	assert.Empty(t, snap.Err)

	gw.AssertExpectations(t)
}

func TestFetchAll_LoadingRaisedDuringCall(t *testing.T) {
	gw := new(mockGateway)
	var s *ProductStore

	gw.On("List", mock.Anything, 200, 0).Run(func(args mock.Arguments) {
		snap := s.Snapshot()
		assert.True(t, snap.Loading)
		assert.Empty(t, snap.Err)
	}).Return(samplePage(), nil)

	s = newTestStore(gw)

	require.NoError(t, s.FetchAll(context.Background()))
	assert.False(t, s.Snapshot().Loading)
}

func TestFetchAll_ReplacesListWholesale(t *testing.T) {
	gw := new(mockGateway)
	s := newTestStore(gw)
	ctx := context.Background()

	first := samplePage()
	second := []domain.Product{{ID: 9, Title: "Perfume Oil", Category: "fragrances"}}

	gw.On("List", ctx, 200, 0).Return(first, nil).Once()
	gw.On("List", ctx, 200, 0).Return(second, nil).Once()

	require.NoError(t, s.FetchAll(ctx))
	require.NoError(t, s.FetchAll(ctx))

	assert.Equal(t, second, s.Snapshot().Products)

	gw.AssertExpectations(t)
}

func TestFetchAll_FailureSurfacesMessage(t *testing.T) {
	gw := new(mockGateway)
	s := newTestStore(gw)
	ctx := context.Background()

	gw.On("List", ctx, 200, 0).Return(nil, errors.New("connection refused"))

	err := s.FetchAll(ctx)

	require.Error(t, err)
	snap := s.Snapshot()
	assert.Equal(t, "connection refused", snap.Err)
	assert.False(t, snap.Loading)
}

func TestFetchAll_FailureKeepsPreviousList(t *testing.T) {
	gw := new(mockGateway)
	s := newTestStore(gw)
	ctx := context.Background()

	gw.On("List", ctx, 200, 0).Return(samplePage(), nil).Once()
	gw.On("List", ctx, 200, 0).Return(nil, errors.New("boom")).Once()

	require.NoError(t, s.FetchAll(ctx))
	require.Error(t, s.FetchAll(ctx))

	snap := s.Snapshot()
	assert.Equal(t, samplePage(), snap.Products)
	assert.Equal(t, "boom", snap.Err)
}

func TestFetchAll_FallbackMessageWhenErrorIsBlank(t *testing.T) {
	gw := new(mockGateway)
	s := newTestStore(gw)
	ctx := context.Background()

	gw.On("List", ctx, 200, 0).Return(nil, errors.New(""))

	require.Error(t, s.FetchAll(ctx))
	assert.Equal(t, FallbackFetchError, s.Snapshot().Err)
}

func TestFetchAll_SuccessClearsPreviousError(t *testing.T) {
	gw := new(mockGateway)
	s := newTestStore(gw)
	ctx := context.Background()

	gw.On("List", ctx, 200, 0).Return(nil, errors.New("boom")).Once()
	gw.On("List", ctx, 200, 0).Return(samplePage(), nil).Once()

	require.Error(t, s.FetchAll(ctx))
	require.NoError(t, s.FetchAll(ctx))

	snap := s.Snapshot()
	assert.Empty(t, snap.Err)
	assert.Equal(t, samplePage(), snap.Products)
}

func TestFetchAll_StaleResultDiscarded(t *testing.T) {
	var calls atomic.Int64
	releaseFirst := make(chan struct{})
	firstStarted := make(chan struct{})

	stale := []domain.Product{{ID: 1, Title: "stale"}}
	fresh := []domain.Product{{ID: 2, Title: "fresh"}}

	gw := &stubGateway{
		listFunc: func(ctx context.Context, limit, skip int) ([]domain.Product, error) {
			if calls.Add(1) == 1 {
				close(firstStarted)
				<-releaseFirst
				return stale, nil
			}
			return fresh, nil
		},
	}
	s := newTestStore(gw)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- s.FetchAll(ctx) }()
	<-firstStarted

	// A second fetch is issued and resolves while the first is in flight.
	require.NoError(t, s.FetchAll(ctx))
	assert.Equal(t, fresh, s.Snapshot().Products)

	// Releasing the first fetch must not overwrite the newer result.
	close(releaseFirst)
	require.NoError(t, <-done)

	snap := s.Snapshot()
	assert.Equal(t, fresh, snap.Products)
	assert.False(t, snap.Loading)
}

func TestFetchAll_OvertakenFailureDoesNotTaintFresherResult(t *testing.T) {
	var calls atomic.Int64
	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})
	secondStarted := make(chan struct{})
	releaseSecond := make(chan struct{})

	fresh := []domain.Product{{ID: 2, Title: "fresh"}}

	gw := &stubGateway{
		listFunc: func(ctx context.Context, limit, skip int) ([]domain.Product, error) {
			if calls.Add(1) == 1 {
				close(firstStarted)
				<-releaseFirst
				return nil, errors.New("boom")
			}
			close(secondStarted)
			<-releaseSecond
			return fresh, nil
		},
	}
	s := newTestStore(gw)
	ctx := context.Background()

	done1 := make(chan error, 1)
	go func() { done1 <- s.FetchAll(ctx) }()
	<-firstStarted

	done2 := make(chan error, 1)
	go func() { done2 <- s.FetchAll(ctx) }()
	<-secondStarted

	// The first fetch fails after the second was issued; its error must not
	// survive the second fetch's success.
	close(releaseFirst)
	require.Error(t, <-done1)

	close(releaseSecond)
	require.NoError(t, <-done2)

	snap := s.Snapshot()
	assert.Equal(t, fresh, snap.Products)
	assert.Empty(t, snap.Err)
	assert.False(t, snap.Loading)
}

// stubGateway is a function-backed gateway for tests that need to control the
// timing of concurrent calls.
type stubGateway struct {
	listFunc   func(ctx context.Context, limit, skip int) ([]domain.Product, error)
	createFunc func(ctx context.Context, product domain.Product) (domain.Product, error)
	updateFunc func(ctx context.Context, id int64, patch domain.ProductPatch) (domain.Product, error)
	deleteFunc func(ctx context.Context, id int64) error
}

func (g *stubGateway) List(ctx context.Context, limit, skip int) ([]domain.Product, error) {
	return g.listFunc(ctx, limit, skip)
}

func (g *stubGateway) Create(ctx context.Context, product domain.Product) (domain.Product, error) {
	return g.createFunc(ctx, product)
}

func (g *stubGateway) Update(ctx context.Context, id int64, patch domain.ProductPatch) (domain.Product, error) {
	return g.updateFunc(ctx, id, patch)
}

func (g *stubGateway) Delete(ctx context.Context, id int64) error {
	return g.deleteFunc(ctx, id)
}

// --- Create ---

func TestCreate_PrependsGatewayRecord(t *testing.T) {
	gw := new(mockGateway)
	s := newTestStore(gw)
	ctx := context.Background()

	gw.On("List", ctx, 200, 0).Return(samplePage(), nil)

	input := domain.Product{Title: "Perfume Oil", Price: 13, Category: "fragrances"}
	created := input
	created.ID = 101
	gw.On("Create", ctx, input).Return(created, nil)

	require.NoError(t, s.FetchAll(ctx))

	got, err := s.Create(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, created, got)

	products := s.Snapshot().Products
	require.Len(t, products, 3)
	assert.Equal(t, int64(101), products[0].ID)
	assert.Equal(t, int64(1), products[1].ID)
	assert.Equal(t, int64(2), products[2].ID)

	gw.AssertExpectations(t)
}

func TestCreate_MissingTitle(t *testing.T) {
	gw := new(mockGateway)
	s := newTestStore(gw)

	_, err := s.Create(context.Background(), domain.Product{Title: "   ", Price: 10})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	gw.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_NegativePrice(t *testing.T) {
	gw := new(mockGateway)
	s := newTestStore(gw)

	_, err := s.Create(context.Background(), domain.Product{Title: "x", Price: -1})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestCreate_NegativeStock(t *testing.T) {
	gw := new(mockGateway)
	s := newTestStore(gw)

	stock := -5
	_, err := s.Create(context.Background(), domain.Product{Title: "x", Stock: &stock})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestCreate_GatewayFailureLeavesListUntouched(t *testing.T) {
	gw := new(mockGateway)
	s := newTestStore(gw)
	ctx := context.Background()

	gw.On("List", ctx, 200, 0).Return(samplePage(), nil)
	gw.On("Create", ctx, mock.Anything).Return(domain.Product{}, errors.New("boom"))

	require.NoError(t, s.FetchAll(ctx))

	_, err := s.Create(ctx, domain.Product{Title: "x"})

	require.Error(t, err)
	assert.Equal(t, samplePage(), s.Snapshot().Products)
}

func TestCreate_DuplicateIDStaysUnique(t *testing.T) {
	gw := new(mockGateway)
	s := newTestStore(gw)
	ctx := context.Background()

	gw.On("List", ctx, 200, 0).Return(samplePage(), nil)
	created := domain.Product{ID: 2, Title: "MacBook Pro v2"}
	gw.On("Create", ctx, mock.Anything).Return(created, nil)

	require.NoError(t, s.FetchAll(ctx))

	_, err := s.Create(ctx, domain.Product{Title: "MacBook Pro v2"})

	require.NoError(t, err)
	products := s.Snapshot().Products
	require.Len(t, products, 2)
	assert.Equal(t, created, products[0])
	assert.Equal(t, int64(1), products[1].ID)
}

// --- Update ---

func TestUpdate_ReplacesMatchingEntry(t *testing.T) {
	gw := new(mockGateway)
	s := newTestStore(gw)
	ctx := context.Background()

	gw.On("List", ctx, 200, 0).Return(samplePage(), nil)

	title := "iPhone 9 Pro"
	patch := domain.ProductPatch{Title: &title}
	merged := domain.Product{ID: 1, Title: "iPhone 9 Pro", Category: "smartphones", Price: 549}
	gw.On("Update", ctx, int64(1), patch).Return(merged, nil)

	require.NoError(t, s.FetchAll(ctx))

	got, outcome, err := s.Update(ctx, 1, patch)

	require.NoError(t, err)
	assert.Equal(t, UpdateReplaced, outcome)
	assert.Equal(t, merged, got)

	products := s.Snapshot().Products
	require.Len(t, products, 2)
	assert.Equal(t, merged, products[0])
	assert.Equal(t, int64(2), products[1].ID)

	gw.AssertExpectations(t)
}

func TestUpdate_MissingFromListIsNotAnError(t *testing.T) {
	gw := new(mockGateway)
	s := newTestStore(gw)
	ctx := context.Background()

	gw.On("List", ctx, 200, 0).Return(samplePage(), nil)

	title := "Ghost"
	merged := domain.Product{ID: 404, Title: "Ghost"}
	gw.On("Update", ctx, int64(404), mock.Anything).Return(merged, nil)

	require.NoError(t, s.FetchAll(ctx))

	got, outcome, err := s.Update(ctx, 404, domain.ProductPatch{Title: &title})

	require.NoError(t, err)
	assert.Equal(t, UpdateNotFound, outcome)
	assert.Equal(t, merged, got)
	// The list is unchanged; no entry is inserted for the unmatched id.
	assert.Equal(t, samplePage(), s.Snapshot().Products)
}

func TestUpdate_NonPositiveID(t *testing.T) {
	gw := new(mockGateway)
	s := newTestStore(gw)

	_, _, err := s.Update(context.Background(), 0, domain.ProductPatch{})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	gw.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdate_GatewayError(t *testing.T) {
	gw := new(mockGateway)
	s := newTestStore(gw)
	ctx := context.Background()

	gw.On("List", ctx, 200, 0).Return(samplePage(), nil)
	gw.On("Update", ctx, int64(1), mock.Anything).Return(domain.Product{}, errors.New("boom"))

	require.NoError(t, s.FetchAll(ctx))

	_, outcome, err := s.Update(ctx, 1, domain.ProductPatch{})

	require.Error(t, err)
	assert.Equal(t, UpdateNotFound, outcome)
	assert.Equal(t, samplePage(), s.Snapshot().Products)
}

// --- Delete ---

func TestDelete_RemovesMatchingEntry(t *testing.T) {
	gw := new(mockGateway)
	s := newTestStore(gw)
	ctx := context.Background()

	gw.On("List", ctx, 200, 0).Return(samplePage(), nil)
	gw.On("Delete", ctx, int64(1)).Return(nil)

	require.NoError(t, s.FetchAll(ctx))
	require.NoError(t, s.Delete(ctx, 1))

	products := s.Snapshot().Products
	require.Len(t, products, 1)
	assert.Equal(t, int64(2), products[0].ID)

	gw.AssertExpectations(t)
}

func TestDelete_UnknownIDIsNoOp(t *testing.T) {
	gw := new(mockGateway)
	s := newTestStore(gw)
	ctx := context.Background()

	gw.On("List", ctx, 200, 0).Return(samplePage(), nil)
	gw.On("Delete", ctx, int64(404)).Return(nil)

	require.NoError(t, s.FetchAll(ctx))
	require.NoError(t, s.Delete(ctx, 404))

	assert.Equal(t, samplePage(), s.Snapshot().Products)
}

func TestDelete_GatewayFailureKeepsList(t *testing.T) {
	gw := new(mockGateway)
	s := newTestStore(gw)
	ctx := context.Background()

	gw.On("List", ctx, 200, 0).Return(samplePage(), nil)
	gw.On("Delete", ctx, int64(1)).Return(errors.New("boom"))

	require.NoError(t, s.FetchAll(ctx))
	require.Error(t, s.Delete(ctx, 1))

	assert.Equal(t, samplePage(), s.Snapshot().Products)
}

// --- Filters ---

func TestSetCategoryFilter_Immediate(t *testing.T) {
	s := newTestStore(new(mockGateway))

	s.SetCategoryFilter("laptops")

	assert.Equal(t, "laptops", s.Snapshot().CategoryFilter)
}

func TestSetSearchTerm_DebouncedCommit(t *testing.T) {
	s := newTestStore(new(mockGateway))
	defer s.Close()

	s.SetSearchTerm("phone")

	assert.Empty(t, s.Snapshot().SearchTerm)
	assert.Eventually(t, func() bool {
		return s.Snapshot().SearchTerm == "phone"
	}, time.Second, 5*time.Millisecond)
}

func TestSetSearchTerm_LatestValueWins(t *testing.T) {
	s := newTestStore(new(mockGateway))
	defer s.Close()

	s.SetSearchTerm("p")
	s.SetSearchTerm("ph")
	s.SetSearchTerm("pho")

	assert.Eventually(t, func() bool {
		return s.Snapshot().SearchTerm == "pho"
	}, time.Second, 5*time.Millisecond)
	// The intermediate values never commit.
	assert.Equal(t, "pho", s.Snapshot().SearchTerm)
}

func TestSetSearchTerm_TrimmedAtCommit(t *testing.T) {
	s := newTestStore(new(mockGateway))
	defer s.Close()

	s.SetSearchTerm("  red shirt  ")

	assert.Eventually(t, func() bool {
		return s.Snapshot().SearchTerm == "red shirt"
	}, time.Second, 5*time.Millisecond)
}

// --- Snapshot / Projection / Subscribe ---

func TestSnapshot_CopyIsIndependent(t *testing.T) {
	gw := new(mockGateway)
	s := newTestStore(gw)
	ctx := context.Background()

	gw.On("List", ctx, 200, 0).Return(samplePage(), nil)
	require.NoError(t, s.FetchAll(ctx))

	snap := s.Snapshot()
	snap.Products[0].Title = "mutated"

	assert.Equal(t, "iPhone 9", s.Snapshot().Products[0].Title)
}

func TestProjection_AppliesCommittedFilters(t *testing.T) {
	gw := new(mockGateway)
	s := newTestStore(gw)
	ctx := context.Background()

	gw.On("List", ctx, 200, 0).Return(samplePage(), nil)
	require.NoError(t, s.FetchAll(ctx))

	s.SetCategoryFilter("laptops")

	got := s.Projection()
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)
}

func TestSubscribe_NotifiedOnChange(t *testing.T) {
	gw := new(mockGateway)
	s := newTestStore(gw)
	ctx := context.Background()

	gw.On("List", ctx, 200, 0).Return(samplePage(), nil)

	ch, cancel := s.Subscribe()
	defer cancel()

	require.NoError(t, s.FetchAll(ctx))

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected a change notification")
	}
}

func TestUpdateOutcome_String(t *testing.T) {
	assert.Equal(t, "replaced", UpdateReplaced.String())
	assert.Equal(t, "not_found", UpdateNotFound.String())
	assert.Equal(t, "unknown", UpdateOutcome(42).String())
}
