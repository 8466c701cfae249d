package sales

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

type memorySalesRepo struct {
	mu       sync.Mutex
	products map[int64]ProductSnapshot
	sales    []Sale
	nextID   int64
}

func newMemorySalesRepo() *memorySalesRepo {
	return &memorySalesRepo{products: make(map[int64]ProductSnapshot)}
}

type memorySalesTx struct {
	repo *memorySalesRepo
}

// WithTx holds the repo lock for the duration of fn, mirroring the row lock
// the real repository takes on the product.
func (r *memorySalesRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(ctx, &memorySalesTx{repo: r})
}

func (r *memorySalesRepo) ListByPartner(ctx context.Context, partnerID int64) ([]SaleWithDetails, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	history := []SaleWithDetails{}
	for _, s := range r.sales {
		if s.PartnerID == partnerID {
			history = append(history, SaleWithDetails{Sale: s})
		}
	}
	return history, nil
}

func (t *memorySalesTx) GetProductForUpdate(ctx context.Context, productID int64) (ProductSnapshot, error) {
	p, ok := t.repo.products[productID]
	if !ok {
		return ProductSnapshot{}, errors.New("product not found")
	}
	return p, nil
}

func (t *memorySalesTx) DecrementStock(ctx context.Context, productID int64, quantity int) error {
	p := t.repo.products[productID]
	p.Stock -= quantity
	t.repo.products[productID] = p
	return nil
}

func (t *memorySalesTx) InsertSale(ctx context.Context, sale Sale) (Sale, error) {
	t.repo.nextID++
	sale.ID = t.repo.nextID
	t.repo.sales = append(t.repo.sales, sale)
	return sale, nil
}

func TestRegisterComputesTotalsAndDecrementsStock(t *testing.T) {
	repo := newMemorySalesRepo()
	repo.products[1] = ProductSnapshot{ID: 1, UnitPrice: 10.00, CommissionPct: 20, Stock: 5}
	svc := NewService(repo)

	sale, err := svc.Register(context.Background(), 7, 1, 3)
	require.NoError(t, err)
	require.Equal(t, 30.00, sale.TotalPrice)
	require.Equal(t, 6.00, sale.TotalCommission)
	require.Equal(t, 2, repo.products[1].Stock)
	require.Equal(t, int64(7), sale.PartnerID)
}

func TestRegisterRejectsNonPositiveQuantity(t *testing.T) {
	repo := newMemorySalesRepo()
	repo.products[1] = ProductSnapshot{ID: 1, UnitPrice: 10, Stock: 5}
	svc := NewService(repo)

	for _, qty := range []int{0, -1} {
		_, err := svc.Register(context.Background(), 7, 1, qty)
		require.ErrorIs(t, err, ErrInvalidQuantity)
	}
	require.Equal(t, 5, repo.products[1].Stock)
	require.Empty(t, repo.sales)
}

func TestRegisterRejectsInsufficientStock(t *testing.T) {
	repo := newMemorySalesRepo()
	repo.products[1] = ProductSnapshot{ID: 1, UnitPrice: 10, CommissionPct: 20, Stock: 5}
	svc := NewService(repo)

	_, err := svc.Register(context.Background(), 7, 1, 6)
	require.ErrorIs(t, err, ErrInsufficientStock)
	require.Equal(t, 5, repo.products[1].Stock)
	require.Empty(t, repo.sales)
}

func TestRegisterExactStockSucceeds(t *testing.T) {
	repo := newMemorySalesRepo()
	repo.products[1] = ProductSnapshot{ID: 1, UnitPrice: 9.99, CommissionPct: 15, Stock: 4}
	svc := NewService(repo)

	sale, err := svc.Register(context.Background(), 7, 1, 4)
	require.NoError(t, err)
	require.Equal(t, 0, repo.products[1].Stock)
	require.Equal(t, 39.96, sale.TotalPrice)
	require.Equal(t, 5.99, sale.TotalCommission)
}

// serializationFailingRepo aborts the first few transactions with SQLSTATE
// 40001, the way PostgreSQL aborts the loser of a row-lock race.
type serializationFailingRepo struct {
	*memorySalesRepo
	failures int
	attempts int
}

func (r *serializationFailingRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	r.attempts++
	if r.attempts <= r.failures {
		return &pgconn.PgError{Code: "40001", Message: "could not serialize access due to concurrent update"}
	}
	return r.memorySalesRepo.WithTx(ctx, fn)
}

func TestRegisterRetriesSerializationFailure(t *testing.T) {
	inner := newMemorySalesRepo()
	inner.products[1] = ProductSnapshot{ID: 1, UnitPrice: 10.00, CommissionPct: 20, Stock: 5}
	repo := &serializationFailingRepo{memorySalesRepo: inner, failures: 2}
	svc := NewService(repo)

	sale, err := svc.Register(context.Background(), 7, 1, 3)
	require.NoError(t, err)
	require.Equal(t, 3, repo.attempts)
	require.Equal(t, 30.00, sale.TotalPrice)
	require.Equal(t, 2, inner.products[1].Stock)
}

func TestRegisterGivesUpAfterRepeatedAborts(t *testing.T) {
	inner := newMemorySalesRepo()
	inner.products[1] = ProductSnapshot{ID: 1, UnitPrice: 10.00, Stock: 5}
	repo := &serializationFailingRepo{memorySalesRepo: inner, failures: 10}
	svc := NewService(repo)

	_, err := svc.Register(context.Background(), 7, 1, 3)
	var pgErr *pgconn.PgError
	require.ErrorAs(t, err, &pgErr)
	require.Equal(t, "40001", pgErr.Code)
	require.Equal(t, 3, repo.attempts)
	require.Equal(t, 5, inner.products[1].Stock)
	require.Empty(t, inner.sales)
}

// The fake's mutex serialises WithTx callers the way the row lock does on
// the real path, so the loser observes the decremented stock.
func TestRegisterConcurrentOversell(t *testing.T) {
	repo := newMemorySalesRepo()
	repo.products[1] = ProductSnapshot{ID: 1, UnitPrice: 10, CommissionPct: 10, Stock: 5}
	svc := NewService(repo)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Register(context.Background(), int64(i+1), 1, 3)
		}(i)
	}
	wg.Wait()

	var failed int
	for _, err := range errs {
		if err != nil {
			require.ErrorIs(t, err, ErrInsufficientStock)
			failed++
		}
	}
	require.Equal(t, 1, failed)
	require.Equal(t, 2, repo.products[1].Stock)
	require.Len(t, repo.sales, 1)
}

func TestListByPartnerFiltersOwner(t *testing.T) {
	repo := newMemorySalesRepo()
	repo.sales = []Sale{
		{ID: 1, PartnerID: 7},
		{ID: 2, PartnerID: 9},
		{ID: 3, PartnerID: 7},
	}
	svc := NewService(repo)

	history, err := svc.ListByPartner(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, history, 2)
	for _, h := range history {
		require.Equal(t, int64(7), h.PartnerID)
	}
}
