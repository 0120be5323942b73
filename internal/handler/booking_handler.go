package handler

import (
	"context"
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/hotelamin/booking-system/internal/model"
	"github.com/hotelamin/booking-system/internal/service"
)

// BookingServiceInterface defines the interface for booking business logic.
type BookingServiceInterface interface {
	CreateBooking(ctx context.Context, req *model.CreateBookingRequest) (*model.BookingResponse, error)
	CreateAccommodationBooking(ctx context.Context, req *model.CreateAccommodationBookingRequest) (*model.BookingResponse, error)
	CreateGuestBooking(ctx context.Context, req *model.CreateGuestBookingRequest) (*model.BookingResponse, error)
	GetBooking(ctx context.Context, id int64) (*model.BookingDetail, error)
	ListBookings(ctx context.Context) ([]*model.Booking, error)
	UpdateBooking(ctx context.Context, id int64, req *model.UpdateBookingRequest) (*model.Booking, error)
	DeleteBooking(ctx context.Context, id int64) error
}

// BookingHandler handles HTTP requests for booking operations.
type BookingHandler struct {
	service   BookingServiceInterface
	validator *validator.Validate
}

// NewBookingHandler creates a new BookingHandler with the given service and validator.
func NewBookingHandler(svc BookingServiceInterface, v *validator.Validate) *BookingHandler {
	return &BookingHandler{service: svc, validator: v}
}

// bookingError maps allocation failures onto HTTP responses. Missing
// resources are 404 so the caller knows retrying is pointless; state
// conflicts are 409 so the caller can pick different rooms or drop the
// coupon and retry.
func (h *BookingHandler) bookingError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrRoomNotFound),
		errors.Is(err, service.ErrCouponNotFound),
		errors.Is(err, service.ErrAccommodationNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrBookingNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrRoomUnavailable),
		errors.Is(err, service.ErrInsufficientRooms),
		errors.Is(err, service.ErrCouponExpired):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidRequest):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}
	log.Error().
		Err(err).
		Str("request_id", c.GetRespHeader("X-Request-ID")).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg("booking request failed")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}

// CreateBooking handles POST /api/bookings: explicit room numbers, owner
// identified by phone.
func (h *BookingHandler) CreateBooking(c *fiber.Ctx) error {
	var req model.CreateBookingRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	resp, err := h.service.CreateBooking(c.Context(), &req)
	if err != nil {
		return h.bookingError(c, err)
	}

	log.Info().
		Int64("booking_id", resp.BookingID).
		Str("user_phone", req.UserPhone).
		Ints("rooms", resp.AssignedRooms).
		Msg("booking created via explicit rooms")
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// CreateAccommodationBooking handles POST /api/bookings/accommodation:
// category lookup for a registered user.
func (h *BookingHandler) CreateAccommodationBooking(c *fiber.Ctx) error {
	var req model.CreateAccommodationBookingRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	resp, err := h.service.CreateAccommodationBooking(c.Context(), &req)
	if err != nil {
		return h.bookingError(c, err)
	}

	log.Info().
		Int64("booking_id", resp.BookingID).
		Int64("user_id", req.UserID).
		Int64("accommodation_id", req.AccommodationID).
		Msg("booking created via accommodation")
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// CreateGuestBooking handles POST /api/bookings/guest: category lookup for a
// walk-in guest.
func (h *BookingHandler) CreateGuestBooking(c *fiber.Ctx) error {
	var req model.CreateGuestBookingRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	resp, err := h.service.CreateGuestBooking(c.Context(), &req)
	if err != nil {
		return h.bookingError(c, err)
	}

	log.Info().
		Int64("booking_id", resp.BookingID).
		Str("guest_mobile", req.Guest.Mobile).
		Int64("accommodation_id", req.AccommodationID).
		Msg("booking created via guest walk-in")
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetBooking handles GET /api/bookings/:id.
func (h *BookingHandler) GetBooking(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid booking id"})
	}

	detail, err := h.service.GetBooking(c.Context(), id)
	if err != nil {
		return h.bookingError(c, err)
	}
	return c.JSON(detail)
}

// ListBookings handles GET /api/bookings.
func (h *BookingHandler) ListBookings(c *fiber.Ctx) error {
	bookings, err := h.service.ListBookings(c.Context())
	if err != nil {
		return h.bookingError(c, err)
	}
	return c.JSON(bookings)
}

// UpdateBooking handles PATCH /api/bookings/:id with a partial field patch.
func (h *BookingHandler) UpdateBooking(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid booking id"})
	}

	var req model.UpdateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	booking, err := h.service.UpdateBooking(c.Context(), id, &req)
	if err != nil {
		return h.bookingError(c, err)
	}
	return c.JSON(booking)
}

// DeleteBooking handles DELETE /api/bookings/:id.
func (h *BookingHandler) DeleteBooking(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid booking id"})
	}

	if err := h.service.DeleteBooking(c.Context(), id); err != nil {
		return h.bookingError(c, err)
	}
	return c.Status(fiber.StatusNoContent).Send(nil)
}
