package service

import "errors"

var (
	// ErrRoomNotFound is returned when a requested room number has no matching room
	ErrRoomNotFound = errors.New("room not found")

	// ErrRoomUnavailable is returned when a requested room is occupied, reserved or under maintenance
	ErrRoomUnavailable = errors.New("room unavailable")

	// ErrInsufficientRooms is returned when a category has fewer free rooms than requested
	ErrInsufficientRooms = errors.New("not enough available rooms")

	// ErrCouponExists is returned when attempting to create a coupon whose code is taken
	ErrCouponExists = errors.New("coupon already exists")

	// ErrCouponNotFound is returned when a coupon code cannot be found
	ErrCouponNotFound = errors.New("coupon not found")

	// ErrCouponExpired is returned when a coupon is inactive, exhausted or past expiry
	ErrCouponExpired = errors.New("coupon expired")

	// ErrUsageExists signals a duplicate usage record for the same coupon and booking.
	// It is tolerated inside the booking transaction, never surfaced to callers.
	ErrUsageExists = errors.New("coupon usage already recorded")

	// ErrUsageNotFound is returned when no usage exists for a coupon code
	ErrUsageNotFound = errors.New("coupon usage not found")

	// ErrBookingNotFound is returned when a booking id cannot be found
	ErrBookingNotFound = errors.New("booking not found")

	// ErrUserNotFound is returned when a user id cannot be found
	ErrUserNotFound = errors.New("user not found")

	// ErrAccommodationNotFound is returned when a catalog id cannot be found
	ErrAccommodationNotFound = errors.New("accommodation not found")

	// ErrInvalidRequest is returned when request data is invalid or incomplete
	ErrInvalidRequest = errors.New("invalid request")
)
