package model

import "time"

// PaymentStatus records how far payment has progressed. It is recorded, not
// settled; no payment processing happens in this system.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPartial  PaymentStatus = "partial"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// BookingType enumerates the stay categories.
type BookingType string

const (
	BookingOnline  BookingType = "online"
	BookingOffline BookingType = "offline"
	BookingCorp    BookingType = "corporate"
)

// Booking is a stay reservation. RoomPrice is the pre-discount subtotal,
// CouponPercent the snapshot of the percent applied (0 when no coupon),
// TotalPrice the post-discount amount. Prices are integers in the smallest
// display unit.
type Booking struct {
	BookingID      int64         `json:"booking_id"`
	CheckinDate    time.Time     `json:"checkin_date"`
	CheckoutDate   time.Time     `json:"checkout_date"`
	NumberOfGuests int           `json:"number_of_guests"`
	NoOfRooms      int           `json:"no_of_rooms"`
	RoomPrice      int64         `json:"room_price"`
	CouponPercent  int           `json:"coupon_percent"`
	TotalPrice     int64         `json:"total_price"`
	PaymentStatus  PaymentStatus `json:"payment_status"`
	TypeOfBooking  BookingType   `json:"type_of_booking"`
	BookingDate    time.Time     `json:"booking_date"`
	UserPhone      string        `json:"user_phone"`
	CouponID       *int64        `json:"coupon_id,omitempty"`
}

// BookingDetail is a booking joined with its coupon and owning user, as
// returned by the read endpoints.
type BookingDetail struct {
	Booking
	Coupon *Coupon `json:"coupon,omitempty"`
	User   *User   `json:"user,omitempty"`
}

// CreateBookingRequest books an explicit list of room numbers for the phone's
// owner (mode A). The user is auto-provisioned as a minimal guest when the
// phone is unknown.
type CreateBookingRequest struct {
	RoomNums       []int         `json:"room_nums" validate:"required,min=1,dive,gt=0"`
	CheckinDate    time.Time     `json:"checkin_date" validate:"required"`
	CheckoutDate   time.Time     `json:"checkout_date" validate:"required"`
	NumberOfGuests int           `json:"number_of_guests" validate:"required,gte=1"`
	NoOfRooms      int           `json:"no_of_rooms" validate:"required,gte=1"`
	PaymentStatus  PaymentStatus `json:"payment_status" validate:"required,oneof=pending partial paid refunded"`
	TypeOfBooking  BookingType   `json:"type_of_booking" validate:"required,oneof=online offline corporate"`
	UserPhone      string        `json:"user_phone" validate:"required,phone"`
	CouponCode     string        `json:"coupon_code" validate:"omitempty,max=255"`
}

// CreateAccommodationBookingRequest books N rooms of an accommodation
// category for an already registered user (mode B).
type CreateAccommodationBookingRequest struct {
	AccommodationID int64         `json:"accommodation_id" validate:"required,gt=0"`
	UserID          int64         `json:"user_id" validate:"required,gt=0"`
	CheckinDate     time.Time     `json:"checkin_date" validate:"required"`
	CheckoutDate    time.Time     `json:"checkout_date" validate:"required"`
	NumberOfGuests  int           `json:"number_of_guests" validate:"required,gte=1"`
	NoOfRooms       int           `json:"no_of_rooms" validate:"required,gte=1"`
	PaymentStatus   PaymentStatus `json:"payment_status" validate:"required,oneof=pending partial paid refunded"`
	TypeOfBooking   BookingType   `json:"type_of_booking" validate:"required,oneof=online offline corporate"`
	CouponCode      string        `json:"coupon_code" validate:"omitempty,max=255"`
}

// CreateGuestBookingRequest books N rooms of an accommodation category for a
// walk-in guest (mode C). The guest identity is resolved by mobile number and
// provisioned from the supplied profile when unknown.
type CreateGuestBookingRequest struct {
	AccommodationID int64         `json:"accommodation_id" validate:"required,gt=0"`
	CheckinDate     time.Time     `json:"checkin_date" validate:"required"`
	CheckoutDate    time.Time     `json:"checkout_date" validate:"required"`
	NumberOfGuests  int           `json:"number_of_guests" validate:"required,gte=1"`
	NoOfRooms       int           `json:"no_of_rooms" validate:"required,gte=1"`
	PaymentStatus   PaymentStatus `json:"payment_status" validate:"required,oneof=pending partial paid refunded"`
	TypeOfBooking   BookingType   `json:"type_of_booking" validate:"required,oneof=online offline corporate"`
	CouponCode      string        `json:"coupon_code" validate:"omitempty,max=255"`
	Guest           GuestProfile  `json:"guest" validate:"required"`
}

// UpdateBookingRequest is a partial patch of a booking's mutable fields.
type UpdateBookingRequest struct {
	CheckinDate    *time.Time     `json:"checkin_date"`
	CheckoutDate   *time.Time     `json:"checkout_date"`
	NumberOfGuests *int           `json:"number_of_guests" validate:"omitempty,gte=1"`
	PaymentStatus  *PaymentStatus `json:"payment_status"`
	TypeOfBooking  *BookingType   `json:"type_of_booking"`
}

// BookingResponse is the payload returned by the create endpoints: the saved
// booking plus fields derived during allocation.
type BookingResponse struct {
	Booking
	AssignedRooms []int          `json:"assigned_rooms"`
	Accommodation *Accommodation `json:"accommodation,omitempty"`
	GuestInfo     *GuestSummary  `json:"guest_info,omitempty"`
}

// GuestSummary is the short guest echo attached to walk-in bookings.
type GuestSummary struct {
	Name   string `json:"name"`
	Mobile string `json:"mobile"`
}
