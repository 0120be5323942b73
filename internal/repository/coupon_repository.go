package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hotelamin/booking-system/internal/model"
	"github.com/hotelamin/booking-system/internal/service"
	"github.com/hotelamin/booking-system/pkg/database"
)

// uniqueViolation is the PostgreSQL error code for unique constraint violations.
const uniqueViolation = "23505"

// CouponRepository provides data access for coupons using pgx.
type CouponRepository struct {
	pool database.TxQuerier
}

// NewCouponRepository creates a new CouponRepository with the given pool.
func NewCouponRepository(pool *pgxpool.Pool) *CouponRepository {
	return &CouponRepository{pool: pool}
}

// NewCouponRepositoryWithPool creates a CouponRepository with a custom
// querier. This is primarily used for testing.
func NewCouponRepositoryWithPool(pool database.TxQuerier) *CouponRepository {
	return &CouponRepository{pool: pool}
}

const couponColumns = `coupon_id, coupon_code, coupon_percent, quantity, is_active, created_by, expire_at, created_at`

func scanCoupon(row pgx.Row) (*model.Coupon, error) {
	var c model.Coupon
	err := row.Scan(
		&c.CouponID,
		&c.CouponCode,
		&c.CouponPercent,
		&c.Quantity,
		&c.IsActive,
		&c.CreatedBy,
		&c.ExpireAt,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Insert inserts a new coupon. Returns service.ErrCouponExists when the code
// is already taken.
func (r *CouponRepository) Insert(ctx context.Context, coupon *model.Coupon) error {
	query := `INSERT INTO coupons (coupon_code, coupon_percent, quantity, is_active, created_by, expire_at)
		VALUES ($1, $2, $3, true, $4, $5)
		RETURNING coupon_id`

	err := r.pool.QueryRow(ctx, query,
		coupon.CouponCode, coupon.CouponPercent, coupon.Quantity, coupon.CreatedBy, coupon.ExpireAt,
	).Scan(&coupon.CouponID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return service.ErrCouponExists
		}
		return fmt.Errorf("insert coupon: %w", err)
	}
	coupon.IsActive = true
	return nil
}

// GetByCode retrieves a coupon by its code.
// Returns nil, nil if the coupon is not found (service layer handles this).
func (r *CouponRepository) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE coupon_code = $1`

	coupon, err := scanCoupon(r.pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found - let service handle
		}
		return nil, fmt.Errorf("get coupon by code %s: %w", code, err)
	}
	return coupon, nil
}

// GetByCodeForUpdate retrieves a coupon with a row lock (SELECT FOR UPDATE),
// holding it until the booking transaction completes. Returns
// service.ErrCouponNotFound if the coupon doesn't exist.
func (r *CouponRepository) GetByCodeForUpdate(ctx context.Context, tx database.TxQuerier, code string) (*model.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE coupon_code = $1 FOR UPDATE`

	coupon, err := scanCoupon(tx.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrCouponNotFound
		}
		return nil, fmt.Errorf("get coupon for update %s: %w", code, err)
	}
	return coupon, nil
}

// Decrement atomically consumes one unit of quantity, refusing to go below
// zero. Returns service.ErrCouponExpired when no unit was left to consume.
func (r *CouponRepository) Decrement(ctx context.Context, tx database.TxQuerier, code string) error {
	query := `UPDATE coupons SET quantity = quantity - 1 WHERE coupon_code = $1 AND quantity > 0`

	tag, err := tx.Exec(ctx, query, code)
	if err != nil {
		return fmt.Errorf("decrement coupon %s: %w", code, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrCouponExpired
	}
	return nil
}

// List returns every coupon, newest first.
func (r *CouponRepository) List(ctx context.Context) ([]*model.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}
	defer rows.Close()

	coupons := []*model.Coupon{}
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, fmt.Errorf("scan coupon row: %w", err)
		}
		coupons = append(coupons, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate coupon rows: %w", err)
	}
	return coupons, nil
}

// Update patches the non-nil fields of req onto the coupon identified by
// code. Returns service.ErrCouponNotFound when the code does not exist.
func (r *CouponRepository) Update(ctx context.Context, code string, req *model.UpdateCouponRequest) error {
	set := ""
	args := []any{code}
	add := func(column string, value any) {
		if set != "" {
			set += ", "
		}
		args = append(args, value)
		set += column + " = $" + strconv.Itoa(len(args))
	}

	if req.CouponPercent != nil {
		add("coupon_percent", *req.CouponPercent)
	}
	if req.Quantity != nil {
		add("quantity", *req.Quantity)
	}
	if req.IsActive != nil {
		add("is_active", *req.IsActive)
	}
	if req.ExpireAt != nil {
		add("expire_at", *req.ExpireAt)
	}
	if set == "" {
		return nil
	}

	query := `UPDATE coupons SET ` + set + ` WHERE coupon_code = $1`
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update coupon %s: %w", code, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrCouponNotFound
	}
	return nil
}

// Delete removes a coupon by code. Returns service.ErrCouponNotFound when
// the code does not exist.
func (r *CouponRepository) Delete(ctx context.Context, code string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM coupons WHERE coupon_code = $1`, code)
	if err != nil {
		return fmt.Errorf("delete coupon %s: %w", code, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrCouponNotFound
	}
	return nil
}

// DeactivateExpired flips is_active off for every coupon that is past its
// expiry or out of quantity. Only rows still marked active are touched, so
// re-running the sweep never changes already-inactive rows. Returns the
// number of coupons deactivated.
func (r *CouponRepository) DeactivateExpired(ctx context.Context) (int64, error) {
	query := `UPDATE coupons SET is_active = false
		WHERE (expire_at < now() OR quantity <= 0) AND is_active = true`

	tag, err := r.pool.Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("deactivate expired coupons: %w", err)
	}
	return tag.RowsAffected(), nil
}
