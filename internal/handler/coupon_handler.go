package handler

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/hotelamin/booking-system/internal/model"
	"github.com/hotelamin/booking-system/internal/service"
)

// CouponServiceInterface defines the interface for coupon ledger logic.
type CouponServiceInterface interface {
	Create(ctx context.Context, req *model.CreateCouponRequest) (*model.Coupon, error)
	GetByCode(ctx context.Context, code string) (*model.Coupon, error)
	List(ctx context.Context) ([]*model.Coupon, error)
	Update(ctx context.Context, code string, req *model.UpdateCouponRequest) (*model.Coupon, error)
	Delete(ctx context.Context, code string) error
	GetUsageByCode(ctx context.Context, code string) (*model.CouponUsage, error)
	ListUsages(ctx context.Context) ([]*model.CouponUsage, error)
}

// CouponHandler handles HTTP requests for coupon operations.
type CouponHandler struct {
	service   CouponServiceInterface
	validator *validator.Validate
}

// NewCouponHandler creates a new CouponHandler with the given service and validator.
func NewCouponHandler(svc CouponServiceInterface, v *validator.Validate) *CouponHandler {
	return &CouponHandler{service: svc, validator: v}
}

func (h *CouponHandler) couponError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrCouponNotFound),
		errors.Is(err, service.ErrUsageNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrCouponExists):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "coupon already exists"})
	case errors.Is(err, service.ErrInvalidRequest):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}
	log.Error().
		Err(err).
		Str("request_id", c.GetRespHeader("X-Request-ID")).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg("coupon request failed")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}

// CreateCoupon handles POST /api/coupons requests to create a new coupon.
func (h *CouponHandler) CreateCoupon(c *fiber.Ctx) error {
	var req model.CreateCouponRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	coupon, err := h.service.Create(c.Context(), &req)
	if err != nil {
		return h.couponError(c, err)
	}

	log.Info().
		Str("coupon_code", coupon.CouponCode).
		Int("quantity", coupon.Quantity).
		Int("percent", coupon.CouponPercent).
		Msg("coupon created")
	return c.Status(fiber.StatusCreated).JSON(coupon)
}

// GetCoupon handles GET /api/coupons/:code requests to retrieve one coupon.
func (h *CouponHandler) GetCoupon(c *fiber.Ctx) error {
	code := c.Params("code")
	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request: coupon_code is required"})
	}

	coupon, err := h.service.GetByCode(c.Context(), code)
	if err != nil {
		return h.couponError(c, err)
	}
	return c.JSON(coupon)
}

// ListCoupons handles GET /api/coupons.
func (h *CouponHandler) ListCoupons(c *fiber.Ctx) error {
	coupons, err := h.service.List(c.Context())
	if err != nil {
		return h.couponError(c, err)
	}
	return c.JSON(coupons)
}

// UpdateCoupon handles PATCH /api/coupons/:code with a partial field patch.
func (h *CouponHandler) UpdateCoupon(c *fiber.Ctx) error {
	code := c.Params("code")
	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request: coupon_code is required"})
	}

	var req model.UpdateCouponRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	coupon, err := h.service.Update(c.Context(), code, &req)
	if err != nil {
		return h.couponError(c, err)
	}
	return c.JSON(coupon)
}

// DeleteCoupon handles DELETE /api/coupons/:code.
func (h *CouponHandler) DeleteCoupon(c *fiber.Ctx) error {
	code := c.Params("code")
	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request: coupon_code is required"})
	}

	if err := h.service.Delete(c.Context(), code); err != nil {
		return h.couponError(c, err)
	}
	return c.Status(fiber.StatusNoContent).Send(nil)
}

// GetCouponUsage handles GET /api/coupons/:code/usage.
func (h *CouponHandler) GetCouponUsage(c *fiber.Ctx) error {
	code := c.Params("code")
	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request: coupon_code is required"})
	}

	usage, err := h.service.GetUsageByCode(c.Context(), code)
	if err != nil {
		return h.couponError(c, err)
	}
	return c.JSON(usage)
}

// ListCouponUsages handles GET /api/coupon-usages.
func (h *CouponHandler) ListCouponUsages(c *fiber.Ctx) error {
	usages, err := h.service.ListUsages(c.Context())
	if err != nil {
		return h.couponError(c, err)
	}
	return c.JSON(usages)
}
