package sales

import (
	"context"
	"errors"
	"math"

	"github.com/jackc/pgx/v5/pgconn"
)

// Service coordinates sale registration.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// maxTxAttempts bounds retries of a sale transaction aborted by a
// serialization failure.
const maxTxAttempts = 3

func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "40001"
}

// Register validates and records a sale as a single atomic unit: the product
// row is read under a write lock, stock is checked and decremented, and the
// ledger row is inserted with the total and commission recomputed from the
// stored unit price and commission rate. Either every step commits or none do.
// A transaction aborted with SQLSTATE 40001 is retried from the top, so a
// sale that lost a row-lock race re-reads current stock rather than failing.
func (s *Service) Register(ctx context.Context, partnerID, productID int64, quantity int) (Sale, error) {
	if quantity <= 0 {
		return Sale{}, ErrInvalidQuantity
	}

	var sale Sale
	var err error
	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
			product, err := tx.GetProductForUpdate(ctx, productID)
			if err != nil {
				return err
			}
			if product.Stock < quantity {
				return ErrInsufficientStock
			}
			if err := tx.DecrementStock(ctx, productID, quantity); err != nil {
				return err
			}

			total := roundCents(product.UnitPrice * float64(quantity))
			commission := roundCents(total * product.CommissionPct / 100)

			sale, err = tx.InsertSale(ctx, Sale{
				PartnerID:       partnerID,
				ProductID:       productID,
				Quantity:        quantity,
				TotalPrice:      total,
				TotalCommission: commission,
			})
			return err
		})
		if !isSerializationFailure(err) {
			break
		}
	}
	if err != nil {
		return Sale{}, err
	}
	return sale, nil
}

// ListByPartner returns the partner's own sale history.
func (s *Service) ListByPartner(ctx context.Context, partnerID int64) ([]SaleWithDetails, error) {
	return s.repo.ListByPartner(ctx, partnerID)
}
