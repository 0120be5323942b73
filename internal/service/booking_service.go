package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/hotelamin/booking-system/internal/model"
	"github.com/hotelamin/booking-system/internal/pricing"
	"github.com/hotelamin/booking-system/pkg/database"
)

// RoomRepositoryInterface defines the interface for room inventory data access.
type RoomRepositoryInterface interface {
	GetByNumsForUpdate(ctx context.Context, tx database.TxQuerier, roomNums []int) ([]*model.Room, error)
	FindAvailableByCategoryForUpdate(ctx context.Context, tx database.TxQuerier, category string, limit int) ([]*model.Room, error)
	AssignBooking(ctx context.Context, tx database.TxQuerier, roomNum int, bookingID int64) error
	ReleaseByBooking(ctx context.Context, tx database.TxQuerier, bookingID int64) error
}

// BookingRepositoryInterface defines the interface for booking data access.
type BookingRepositoryInterface interface {
	Insert(ctx context.Context, tx database.TxQuerier, b *model.Booking) error
	GetByID(ctx context.Context, id int64) (*model.Booking, error)
	GetDetail(ctx context.Context, id int64) (*model.BookingDetail, error)
	List(ctx context.Context) ([]*model.Booking, error)
	Update(ctx context.Context, id int64, req *model.UpdateBookingRequest) error
	Delete(ctx context.Context, tx database.TxQuerier, id int64) error
}

// UserResolverInterface defines the interface for guest identity resolution.
type UserResolverInterface interface {
	FindByID(ctx context.Context, tx database.TxQuerier, id int64) (*model.User, error)
	FindOrCreateByPhone(ctx context.Context, tx database.TxQuerier, phone string) (*model.User, error)
	FindOrCreateGuest(ctx context.Context, tx database.TxQuerier, profile model.GuestProfile) (*model.User, error)
}

// CatalogInterface defines the interface for accommodation catalog lookups.
type CatalogInterface interface {
	GetByID(ctx context.Context, id int64) (*model.Accommodation, error)
}

// EventPublisher emits booking lifecycle events. Publishing is best-effort:
// failures are logged, never surfaced to the booking caller.
type EventPublisher interface {
	Publish(routingKey string, payload any) error
}

// TxBeginner defines the interface for beginning transactions.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// BookingService is the booking allocator. Every create mode runs as one
// transaction: lock rooms, validate, lock and check the coupon, price the
// stay, resolve the guest, persist the booking, redeem the coupon, link each
// room. A failure at any step rolls back every persistent effect.
type BookingService struct {
	pool        TxBeginner
	roomRepo    RoomRepositoryInterface
	bookingRepo BookingRepositoryInterface
	couponRepo  CouponRepositoryInterface
	usageRepo   UsageRepositoryInterface
	users       UserResolverInterface
	catalog     CatalogInterface
	events      EventPublisher
}

// NewBookingService creates a new BookingService with the given pool and
// collaborators. events may be nil to disable event publishing.
func NewBookingService(
	pool *pgxpool.Pool,
	roomRepo RoomRepositoryInterface,
	bookingRepo BookingRepositoryInterface,
	couponRepo CouponRepositoryInterface,
	usageRepo UsageRepositoryInterface,
	users UserResolverInterface,
	catalog CatalogInterface,
	events EventPublisher,
) *BookingService {
	return &BookingService{
		pool:        pool,
		roomRepo:    roomRepo,
		bookingRepo: bookingRepo,
		couponRepo:  couponRepo,
		usageRepo:   usageRepo,
		users:       users,
		catalog:     catalog,
		events:      events,
	}
}

// NewBookingServiceWithTxBeginner creates a BookingService with a custom
// TxBeginner. Primarily used for testing.
func NewBookingServiceWithTxBeginner(
	pool TxBeginner,
	roomRepo RoomRepositoryInterface,
	bookingRepo BookingRepositoryInterface,
	couponRepo CouponRepositoryInterface,
	usageRepo UsageRepositoryInterface,
	users UserResolverInterface,
	catalog CatalogInterface,
	events EventPublisher,
) *BookingService {
	return &BookingService{
		pool:        pool,
		roomRepo:    roomRepo,
		bookingRepo: bookingRepo,
		couponRepo:  couponRepo,
		usageRepo:   usageRepo,
		users:       users,
		catalog:     catalog,
		events:      events,
	}
}

// CreateBooking books an explicit list of room numbers for the phone's owner
// (mode A). Unknown phones are auto-provisioned as minimal placeholder
// guests.
// Returns:
//   - ErrRoomNotFound when a named room number does not exist
//   - ErrRoomUnavailable when a named room is occupied, reserved or in maintenance
//   - ErrCouponNotFound / ErrCouponExpired for coupon failures
func (s *BookingService) CreateBooking(ctx context.Context, req *model.CreateBookingRequest) (*model.BookingResponse, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// 1. Lock the named rooms and validate every one is allocatable.
	rooms, err := s.roomRepo.GetByNumsForUpdate(ctx, tx, req.RoomNums)
	if err != nil {
		return nil, err
	}
	for _, room := range rooms {
		if !room.Allocatable() {
			return nil, fmt.Errorf("room %d is %s: %w", room.RoomNum, room.RoomStatus, ErrRoomUnavailable)
		}
	}

	// 2. Lock and check the coupon while the row lock serializes rival
	// redemptions of the same code.
	coupon, err := s.lockUsableCoupon(ctx, tx, req.CouponCode)
	if err != nil {
		return nil, err
	}

	// 3. Price the stay from the locked rooms' nightly rates.
	nightly := make([]float64, 0, len(rooms))
	for _, room := range rooms {
		nightly = append(nightly, room.RoomPrice)
	}
	quote := pricing.QuoteRooms(nightly, req.CheckinDate, req.CheckoutDate, couponPercent(coupon))

	// 4. Resolve or provision the guest.
	user, err := s.users.FindOrCreateByPhone(ctx, tx, req.UserPhone)
	if err != nil {
		return nil, err
	}

	booking := s.newBooking(req.CheckinDate, req.CheckoutDate, req.NumberOfGuests, req.NoOfRooms,
		req.PaymentStatus, req.TypeOfBooking, user.Phone, quote, coupon)
	if err := s.bookingRepo.Insert(ctx, tx, booking); err != nil {
		return nil, err
	}

	// 5. Redeem the coupon against the new booking.
	if err := s.redeem(ctx, tx, coupon, booking.BookingID); err != nil {
		return nil, err
	}

	// 6. Link every room to the booking. A failure here aborts the whole
	// transaction rather than leaving a partial allocation behind.
	assigned, err := s.assignRooms(ctx, tx, rooms, booking.BookingID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit booking: %w", err)
	}

	s.publish("booking.created", booking)
	log.Info().
		Int64("booking_id", booking.BookingID).
		Ints("rooms", assigned).
		Int64("total_price", booking.TotalPrice).
		Msg("booking created")

	return &model.BookingResponse{Booking: *booking, AssignedRooms: assigned}, nil
}

// CreateAccommodationBooking books N rooms of an accommodation category for
// an already registered user (mode B). No auto-provisioning: an unknown user
// id fails with ErrUserNotFound.
func (s *BookingService) CreateAccommodationBooking(ctx context.Context, req *model.CreateAccommodationBookingRequest) (*model.BookingResponse, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}

	return s.createCategoryBooking(ctx, req.AccommodationID, categoryBookingParams{
		checkin:        req.CheckinDate,
		checkout:       req.CheckoutDate,
		numberOfGuests: req.NumberOfGuests,
		noOfRooms:      req.NoOfRooms,
		paymentStatus:  req.PaymentStatus,
		typeOfBooking:  req.TypeOfBooking,
		couponCode:     req.CouponCode,
		resolveUser: func(ctx context.Context, tx database.TxQuerier) (*model.User, error) {
			return s.users.FindByID(ctx, tx, req.UserID)
		},
	})
}

// CreateGuestBooking books N rooms of an accommodation category for a
// walk-in guest (mode C), provisioning the guest from the supplied profile
// when the mobile number is unknown.
func (s *BookingService) CreateGuestBooking(ctx context.Context, req *model.CreateGuestBookingRequest) (*model.BookingResponse, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}

	resp, err := s.createCategoryBooking(ctx, req.AccommodationID, categoryBookingParams{
		checkin:        req.CheckinDate,
		checkout:       req.CheckoutDate,
		numberOfGuests: req.NumberOfGuests,
		noOfRooms:      req.NoOfRooms,
		paymentStatus:  req.PaymentStatus,
		typeOfBooking:  req.TypeOfBooking,
		couponCode:     req.CouponCode,
		resolveUser: func(ctx context.Context, tx database.TxQuerier) (*model.User, error) {
			return s.users.FindOrCreateGuest(ctx, tx, req.Guest)
		},
	})
	if err != nil {
		return nil, err
	}

	resp.GuestInfo = &model.GuestSummary{
		Name:   req.Guest.Name,
		Mobile: req.Guest.Mobile,
	}
	return resp, nil
}

// categoryBookingParams is the shared shape of the two category booking modes;
// they differ only in how the guest identity is resolved.
type categoryBookingParams struct {
	checkin, checkout time.Time
	numberOfGuests    int
	noOfRooms         int
	paymentStatus     model.PaymentStatus
	typeOfBooking     model.BookingType
	couponCode        string
	resolveUser       func(ctx context.Context, tx database.TxQuerier) (*model.User, error)
}

func (s *BookingService) createCategoryBooking(ctx context.Context, accommodationID int64, p categoryBookingParams) (*model.BookingResponse, error) {
	accommodation, err := s.catalog.GetByID(ctx, accommodationID)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// 1. Lock up to N free rooms of the category; fail before any write when
	// the pool is short.
	rooms, err := s.roomRepo.FindAvailableByCategoryForUpdate(ctx, tx, accommodation.Category, p.noOfRooms)
	if err != nil {
		return nil, err
	}
	if len(rooms) < p.noOfRooms {
		return nil, fmt.Errorf("rooms of type %s: available=%d requested=%d: %w",
			accommodation.Category, len(rooms), p.noOfRooms, ErrInsufficientRooms)
	}

	// 2. Coupon lock and usability check.
	coupon, err := s.lockUsableCoupon(ctx, tx, p.couponCode)
	if err != nil {
		return nil, err
	}

	// 3. Category pricing uses the accommodation nightly rate.
	quote := pricing.QuoteCategory(accommodation.Price, p.noOfRooms, p.checkin, p.checkout, couponPercent(coupon))

	// 4. Resolve the guest (strict by id for mode B, find-or-provision for mode C).
	user, err := p.resolveUser(ctx, tx)
	if err != nil {
		return nil, err
	}

	booking := s.newBooking(p.checkin, p.checkout, p.numberOfGuests, p.noOfRooms,
		p.paymentStatus, p.typeOfBooking, user.Phone, quote, coupon)
	if err := s.bookingRepo.Insert(ctx, tx, booking); err != nil {
		return nil, err
	}

	if err := s.redeem(ctx, tx, coupon, booking.BookingID); err != nil {
		return nil, err
	}

	assigned, err := s.assignRooms(ctx, tx, rooms, booking.BookingID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit booking: %w", err)
	}

	s.publish("booking.created", booking)
	log.Info().
		Int64("booking_id", booking.BookingID).
		Str("category", accommodation.Category).
		Ints("rooms", assigned).
		Int64("total_price", booking.TotalPrice).
		Msg("booking created")

	return &model.BookingResponse{
		Booking:       *booking,
		AssignedRooms: assigned,
		Accommodation: accommodation,
	}, nil
}

// GetBooking returns a booking with its coupon and user context.
// Returns ErrBookingNotFound when the id does not exist.
func (s *BookingService) GetBooking(ctx context.Context, id int64) (*model.BookingDetail, error) {
	detail, err := s.bookingRepo.GetDetail(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if detail == nil {
		return nil, fmt.Errorf("booking %d: %w", id, ErrBookingNotFound)
	}
	return detail, nil
}

// ListBookings returns every booking.
func (s *BookingService) ListBookings(ctx context.Context) ([]*model.Booking, error) {
	return s.bookingRepo.List(ctx)
}

// UpdateBooking patches a booking's mutable fields and returns the updated
// record. The stored prices are not recomputed: the quoted total is part of
// the agreement made at booking time.
func (s *BookingService) UpdateBooking(ctx context.Context, id int64, req *model.UpdateBookingRequest) (*model.Booking, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}
	if err := s.bookingRepo.Update(ctx, id, req); err != nil {
		return nil, err
	}
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload booking: %w", err)
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %d: %w", id, ErrBookingNotFound)
	}
	return booking, nil
}

// DeleteBooking removes a booking and releases its rooms back to available
// in the same transaction. Consumed coupon quantity is NOT restored: the
// usage record is historical fact.
func (s *BookingService) DeleteBooking(ctx context.Context, id int64) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := s.roomRepo.ReleaseByBooking(ctx, tx, id); err != nil {
		return err
	}
	if err := s.bookingRepo.Delete(ctx, tx, id); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit booking delete: %w", err)
	}

	s.publish("booking.deleted", map[string]int64{"booking_id": id})
	log.Info().Int64("booking_id", id).Msg("booking deleted, rooms released")
	return nil
}

// lockUsableCoupon locks the coupon row for the duration of the booking
// transaction and verifies it is redeemable. Returns nil, nil when no code
// was supplied.
func (s *BookingService) lockUsableCoupon(ctx context.Context, tx database.TxQuerier, code string) (*model.Coupon, error) {
	if code == "" {
		return nil, nil
	}
	coupon, err := s.couponRepo.GetByCodeForUpdate(ctx, tx, code)
	if err != nil {
		if errors.Is(err, ErrCouponNotFound) {
			return nil, fmt.Errorf("coupon %s: %w", code, ErrCouponNotFound)
		}
		return nil, err
	}
	if !coupon.Usable(time.Now()) {
		return nil, fmt.Errorf("coupon %s: %w", code, ErrCouponExpired)
	}
	return coupon, nil
}

// redeem consumes one unit of the coupon and records usage against the
// booking. A duplicate usage row is tolerated: the redemption already
// happened, the duplicate only signals a re-submission.
func (s *BookingService) redeem(ctx context.Context, tx database.TxQuerier, coupon *model.Coupon, bookingID int64) error {
	if coupon == nil {
		return nil
	}
	if err := s.couponRepo.Decrement(ctx, tx, coupon.CouponCode); err != nil {
		return err
	}
	if err := s.usageRepo.Insert(ctx, tx, coupon.CouponCode, coupon.CouponID, bookingID); err != nil {
		if errors.Is(err, ErrUsageExists) {
			log.Warn().
				Str("coupon_code", coupon.CouponCode).
				Int64("booking_id", bookingID).
				Msg("coupon usage already recorded")
			return nil
		}
		return err
	}
	return nil
}

func (s *BookingService) assignRooms(ctx context.Context, tx database.TxQuerier, rooms []*model.Room, bookingID int64) ([]int, error) {
	assigned := make([]int, 0, len(rooms))
	for _, room := range rooms {
		if err := s.roomRepo.AssignBooking(ctx, tx, room.RoomNum, bookingID); err != nil {
			return nil, err
		}
		assigned = append(assigned, room.RoomNum)
	}
	return assigned, nil
}

func (s *BookingService) newBooking(checkin, checkout time.Time, guests, noOfRooms int,
	payment model.PaymentStatus, typ model.BookingType, phone string,
	quote pricing.Quote, coupon *model.Coupon) *model.Booking {

	booking := &model.Booking{
		CheckinDate:    checkin,
		CheckoutDate:   checkout,
		NumberOfGuests: guests,
		NoOfRooms:      noOfRooms,
		RoomPrice:      quote.Subtotal,
		CouponPercent:  couponPercent(coupon),
		TotalPrice:     quote.Total,
		PaymentStatus:  payment,
		TypeOfBooking:  typ,
		BookingDate:    time.Now(),
		UserPhone:      phone,
	}
	if coupon != nil {
		booking.CouponID = &coupon.CouponID
	}
	return booking
}

func (s *BookingService) publish(routingKey string, payload any) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(routingKey, payload); err != nil {
		log.Warn().Err(err).Str("routing_key", routingKey).Msg("event publish failed")
	}
}

func couponPercent(c *model.Coupon) int {
	if c == nil {
		return 0
	}
	return c.CouponPercent
}
