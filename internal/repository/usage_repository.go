package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hotelamin/booking-system/internal/model"
	"github.com/hotelamin/booking-system/internal/service"
	"github.com/hotelamin/booking-system/pkg/database"
)

// UsageRepository provides data access for coupon usage records using pgx.
type UsageRepository struct {
	pool database.TxQuerier
}

// NewUsageRepository creates a new UsageRepository with the given pool.
func NewUsageRepository(pool *pgxpool.Pool) *UsageRepository {
	return &UsageRepository{pool: pool}
}

// NewUsageRepositoryWithPool creates a UsageRepository with a custom querier.
// This is primarily used for testing.
func NewUsageRepositoryWithPool(pool database.TxQuerier) *UsageRepository {
	return &UsageRepository{pool: pool}
}

const usageColumns = `usage_id, coupon_code, coupon_id, booking_id, used_at`

func scanUsage(row pgx.Row) (*model.CouponUsage, error) {
	var u model.CouponUsage
	err := row.Scan(
		&u.UsageID,
		&u.CouponCode,
		&u.CouponID,
		&u.BookingID,
		&u.UsedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Insert records a usage row linking coupon and booking within the booking
// transaction. Returns service.ErrUsageExists on the (coupon_id, booking_id)
// unique constraint; the caller treats that as a harmless re-submission.
func (r *UsageRepository) Insert(ctx context.Context, tx database.TxQuerier, couponCode string, couponID, bookingID int64) error {
	query := `INSERT INTO coupon_usages (coupon_code, coupon_id, booking_id) VALUES ($1, $2, $3)`

	_, err := tx.Exec(ctx, query, couponCode, couponID, bookingID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return service.ErrUsageExists
		}
		return fmt.Errorf("insert coupon usage: %w", err)
	}
	return nil
}

// GetByCode returns the most recent usage recorded for a coupon code.
// Returns service.ErrUsageNotFound when the code has never been used.
func (r *UsageRepository) GetByCode(ctx context.Context, couponCode string) (*model.CouponUsage, error) {
	query := `SELECT ` + usageColumns + ` FROM coupon_usages
		WHERE coupon_code = $1
		ORDER BY used_at DESC
		LIMIT 1`

	usage, err := scanUsage(r.pool.QueryRow(ctx, query, couponCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrUsageNotFound
		}
		return nil, fmt.Errorf("get usage by code %s: %w", couponCode, err)
	}
	return usage, nil
}

// List returns every usage record, oldest first.
func (r *UsageRepository) List(ctx context.Context) ([]*model.CouponUsage, error) {
	query := `SELECT ` + usageColumns + ` FROM coupon_usages ORDER BY used_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list coupon usages: %w", err)
	}
	defer rows.Close()

	usages := []*model.CouponUsage{}
	for rows.Next() {
		u, err := scanUsage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan usage row: %w", err)
		}
		usages = append(usages, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate usage rows: %w", err)
	}
	return usages, nil
}
