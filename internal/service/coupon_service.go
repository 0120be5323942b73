package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/hotelamin/booking-system/internal/model"
	"github.com/hotelamin/booking-system/pkg/database"
)

// CouponRepositoryInterface defines the interface for coupon data access.
type CouponRepositoryInterface interface {
	Insert(ctx context.Context, coupon *model.Coupon) error
	GetByCode(ctx context.Context, code string) (*model.Coupon, error)
	GetByCodeForUpdate(ctx context.Context, tx database.TxQuerier, code string) (*model.Coupon, error)
	Decrement(ctx context.Context, tx database.TxQuerier, code string) error
	List(ctx context.Context) ([]*model.Coupon, error)
	Update(ctx context.Context, code string, req *model.UpdateCouponRequest) error
	Delete(ctx context.Context, code string) error
	DeactivateExpired(ctx context.Context) (int64, error)
}

// UsageRepositoryInterface defines the interface for coupon usage data access.
type UsageRepositoryInterface interface {
	Insert(ctx context.Context, tx database.TxQuerier, couponCode string, couponID, bookingID int64) error
	GetByCode(ctx context.Context, couponCode string) (*model.CouponUsage, error)
	List(ctx context.Context) ([]*model.CouponUsage, error)
}

// CouponService owns the coupon ledger: coupon records, their remaining
// quantity, and the usage audit trail. Redemption itself happens inside the
// booking transaction and lives on BookingService.
type CouponService struct {
	couponRepo CouponRepositoryInterface
	usageRepo  UsageRepositoryInterface
}

// NewCouponService creates a new CouponService with the given repositories.
func NewCouponService(couponRepo CouponRepositoryInterface, usageRepo UsageRepositoryInterface) *CouponService {
	return &CouponService{
		couponRepo: couponRepo,
		usageRepo:  usageRepo,
	}
}

// Create creates a new coupon from the request.
// Returns ErrCouponExists if the code is already taken.
// Returns ErrInvalidRequest if request data is nil or incomplete.
func (s *CouponService) Create(ctx context.Context, req *model.CreateCouponRequest) (*model.Coupon, error) {
	if req == nil || req.CouponPercent == nil || req.Quantity == nil {
		return nil, ErrInvalidRequest
	}

	coupon := &model.Coupon{
		CouponCode:    req.CouponCode,
		CouponPercent: *req.CouponPercent,
		Quantity:      *req.Quantity,
		IsActive:      true,
		CreatedBy:     req.CreatedBy,
		ExpireAt:      req.ExpireAt,
	}
	if err := s.couponRepo.Insert(ctx, coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

// GetByCode retrieves a coupon by code.
// Returns ErrCouponNotFound if the code doesn't exist.
func (s *CouponService) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	coupon, err := s.couponRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("get coupon: %w", err)
	}
	if coupon == nil {
		return nil, fmt.Errorf("coupon %s: %w", code, ErrCouponNotFound)
	}
	return coupon, nil
}

// List returns every coupon.
func (s *CouponService) List(ctx context.Context) ([]*model.Coupon, error) {
	return s.couponRepo.List(ctx)
}

// Update patches a coupon and returns the updated record.
func (s *CouponService) Update(ctx context.Context, code string, req *model.UpdateCouponRequest) (*model.Coupon, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}
	if err := s.couponRepo.Update(ctx, code, req); err != nil {
		return nil, err
	}
	return s.GetByCode(ctx, code)
}

// Delete removes a coupon by code.
func (s *CouponService) Delete(ctx context.Context, code string) error {
	return s.couponRepo.Delete(ctx, code)
}

// GetUsageByCode returns the latest usage recorded for a coupon code.
func (s *CouponService) GetUsageByCode(ctx context.Context, code string) (*model.CouponUsage, error) {
	return s.usageRepo.GetByCode(ctx, code)
}

// ListUsages returns every usage record.
func (s *CouponService) ListUsages(ctx context.Context) ([]*model.CouponUsage, error) {
	return s.usageRepo.List(ctx)
}

// SweepExpired deactivates every coupon that is past expiry or out of
// quantity. Safe to re-run: the sweep only touches rows that are still
// marked active.
func (s *CouponService) SweepExpired(ctx context.Context) error {
	n, err := s.couponRepo.DeactivateExpired(ctx)
	if err != nil {
		return fmt.Errorf("sweep expired coupons: %w", err)
	}
	if n > 0 {
		log.Info().Int64("deactivated", n).Msg("coupon expiry sweep completed")
	} else {
		log.Debug().Msg("coupon expiry sweep found nothing to deactivate")
	}
	return nil
}
