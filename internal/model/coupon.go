package model

import "time"

// Coupon is a discount voucher with a bounded number of redemptions.
// Quantity must never go below zero; a coupon is usable only while it is
// active, has remaining quantity and has not passed its expiry timestamp.
type Coupon struct {
	CouponID      int64     `json:"coupon_id"`
	CouponCode    string    `json:"coupon_code"`
	CouponPercent int       `json:"coupon_percent"`
	Quantity      int       `json:"quantity"`
	IsActive      bool      `json:"is_active"`
	CreatedBy     int64     `json:"created_by"`
	ExpireAt      time.Time `json:"expire_at"`
	CreatedAt     time.Time `json:"-"` // Not exposed in API
}

// Usable reports whether the coupon can still be redeemed at time now.
func (c *Coupon) Usable(now time.Time) bool {
	return c.IsActive && c.Quantity > 0 && c.ExpireAt.After(now)
}

// CouponUsage is the immutable audit row proving a coupon was consumed by a
// booking. The (coupon_id, booking_id) pair is unique at the database level.
type CouponUsage struct {
	UsageID    int64     `json:"usage_id"`
	CouponCode string    `json:"coupon_code"`
	CouponID   int64     `json:"coupon_id"`
	BookingID  int64     `json:"booking_id"`
	UsedAt     time.Time `json:"used_at"`
}

// CreateCouponRequest is the DTO for creating a coupon.
type CreateCouponRequest struct {
	CouponCode    string    `json:"coupon_code" validate:"required,notblank,max=255"`
	CouponPercent *int      `json:"coupon_percent" validate:"required,gte=1,lte=100"`
	Quantity      *int      `json:"quantity" validate:"required,gte=1"`
	CreatedBy     int64     `json:"created_by" validate:"required,gt=0"`
	ExpireAt      time.Time `json:"expire_at" validate:"required"`
}

// UpdateCouponRequest is the DTO for partially updating a coupon. Nil fields
// are left untouched.
type UpdateCouponRequest struct {
	CouponPercent *int       `json:"coupon_percent" validate:"omitempty,gte=1,lte=100"`
	Quantity      *int       `json:"quantity" validate:"omitempty,gte=0"`
	IsActive      *bool      `json:"is_active"`
	ExpireAt      *time.Time `json:"expire_at"`
}
