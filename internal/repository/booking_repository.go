package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hotelamin/booking-system/internal/model"
	"github.com/hotelamin/booking-system/internal/service"
	"github.com/hotelamin/booking-system/pkg/database"
)

// BookingRepository provides data access for bookings using pgx.
type BookingRepository struct {
	pool database.TxQuerier
}

// NewBookingRepository creates a new BookingRepository with the given pool.
func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

// NewBookingRepositoryWithPool creates a BookingRepository with a custom
// querier. This is primarily used for testing.
func NewBookingRepositoryWithPool(pool database.TxQuerier) *BookingRepository {
	return &BookingRepository{pool: pool}
}

const bookingColumns = `booking_id, checkin_date, checkout_date, number_of_guests, no_of_rooms,
	room_price, coupon_percent, total_price, payment_status, type_of_booking, booking_date,
	user_phone, coupon_id`

func scanBooking(row pgx.Row) (*model.Booking, error) {
	var b model.Booking
	err := row.Scan(
		&b.BookingID,
		&b.CheckinDate,
		&b.CheckoutDate,
		&b.NumberOfGuests,
		&b.NoOfRooms,
		&b.RoomPrice,
		&b.CouponPercent,
		&b.TotalPrice,
		&b.PaymentStatus,
		&b.TypeOfBooking,
		&b.BookingDate,
		&b.UserPhone,
		&b.CouponID,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Insert persists a new booking within the allocation transaction and fills
// in the generated BookingID.
func (r *BookingRepository) Insert(ctx context.Context, tx database.TxQuerier, b *model.Booking) error {
	query := `INSERT INTO bookings (checkin_date, checkout_date, number_of_guests, no_of_rooms,
			room_price, coupon_percent, total_price, payment_status, type_of_booking, booking_date,
			user_phone, coupon_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING booking_id`

	err := tx.QueryRow(ctx, query,
		b.CheckinDate, b.CheckoutDate, b.NumberOfGuests, b.NoOfRooms,
		b.RoomPrice, b.CouponPercent, b.TotalPrice, b.PaymentStatus, b.TypeOfBooking, b.BookingDate,
		b.UserPhone, b.CouponID,
	).Scan(&b.BookingID)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

// GetByID retrieves a booking. Returns nil, nil when the id has no matching
// booking (service layer handles this).
func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE booking_id = $1`

	booking, err := scanBooking(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking %d: %w", id, err)
	}
	return booking, nil
}

// GetDetail retrieves a booking joined with its coupon and owning user.
// Returns nil, nil when the id has no matching booking.
func (r *BookingRepository) GetDetail(ctx context.Context, id int64) (*model.BookingDetail, error) {
	query := `SELECT b.booking_id, b.checkin_date, b.checkout_date, b.number_of_guests, b.no_of_rooms,
			b.room_price, b.coupon_percent, b.total_price, b.payment_status, b.type_of_booking, b.booking_date,
			b.user_phone, b.coupon_id,
			c.coupon_id, c.coupon_code, c.coupon_percent, c.quantity, c.is_active, c.created_by, c.expire_at, c.created_at,
			u.user_id, u.name, u.email, u.phone, u.nationality, u.role, u.registration_date
		FROM bookings b
			LEFT JOIN coupons c ON c.coupon_id = b.coupon_id
			LEFT JOIN users u ON u.phone = b.user_phone
		WHERE b.booking_id = $1`

	var d model.BookingDetail
	var (
		cID        *int64
		cCode      *string
		cPercent   *int
		cQuantity  *int
		cActive    *bool
		cCreatedBy *int64
		cExpireAt  *time.Time
		cCreatedAt *time.Time

		uID          *int64
		uName        *string
		uEmail       *string
		uPhone       *string
		uNationality *string
		uRole        *string
		uRegistered  *time.Time
	)

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&d.BookingID,
		&d.CheckinDate,
		&d.CheckoutDate,
		&d.NumberOfGuests,
		&d.NoOfRooms,
		&d.RoomPrice,
		&d.CouponPercent,
		&d.TotalPrice,
		&d.PaymentStatus,
		&d.TypeOfBooking,
		&d.BookingDate,
		&d.UserPhone,
		&d.CouponID,
		&cID, &cCode, &cPercent, &cQuantity, &cActive, &cCreatedBy, &cExpireAt, &cCreatedAt,
		&uID, &uName, &uEmail, &uPhone, &uNationality, &uRole, &uRegistered,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking detail %d: %w", id, err)
	}

	if cID != nil {
		d.Coupon = &model.Coupon{
			CouponID:      *cID,
			CouponCode:    *cCode,
			CouponPercent: *cPercent,
			Quantity:      *cQuantity,
			IsActive:      *cActive,
			CreatedBy:     *cCreatedBy,
			ExpireAt:      *cExpireAt,
			CreatedAt:     *cCreatedAt,
		}
	}
	if uID != nil {
		d.User = &model.User{
			UserID:           *uID,
			Name:             *uName,
			Email:            *uEmail,
			Phone:            *uPhone,
			Nationality:      *uNationality,
			Role:             *uRole,
			RegistrationDate: *uRegistered,
		}
	}
	return &d, nil
}

// List returns every booking, newest first.
func (r *BookingRepository) List(ctx context.Context) ([]*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings ORDER BY booking_date DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	bookings := []*model.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booking rows: %w", err)
	}
	return bookings, nil
}

// Update patches the non-nil fields of req onto the booking. Returns
// service.ErrBookingNotFound when the id does not exist.
func (r *BookingRepository) Update(ctx context.Context, id int64, req *model.UpdateBookingRequest) error {
	set := ""
	args := []any{id}
	add := func(column string, value any) {
		if set != "" {
			set += ", "
		}
		args = append(args, value)
		set += column + " = $" + strconv.Itoa(len(args))
	}

	if req.CheckinDate != nil {
		add("checkin_date", *req.CheckinDate)
	}
	if req.CheckoutDate != nil {
		add("checkout_date", *req.CheckoutDate)
	}
	if req.NumberOfGuests != nil {
		add("number_of_guests", *req.NumberOfGuests)
	}
	if req.PaymentStatus != nil {
		add("payment_status", *req.PaymentStatus)
	}
	if req.TypeOfBooking != nil {
		add("type_of_booking", *req.TypeOfBooking)
	}
	if set == "" {
		return nil
	}

	query := `UPDATE bookings SET ` + set + ` WHERE booking_id = $1`
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update booking %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrBookingNotFound
	}
	return nil
}

// Delete removes a booking within a transaction (room release happens in the
// same transaction). Returns service.ErrBookingNotFound when absent.
func (r *BookingRepository) Delete(ctx context.Context, tx database.TxQuerier, id int64) error {
	tag, err := tx.Exec(ctx, `DELETE FROM bookings WHERE booking_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete booking %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrBookingNotFound
	}
	return nil
}
