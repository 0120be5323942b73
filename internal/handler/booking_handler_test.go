package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotelamin/booking-system/internal/model"
	"github.com/hotelamin/booking-system/internal/service"
	appvalidator "github.com/hotelamin/booking-system/internal/validator"
)

// mockBookingService is a mock implementation of BookingServiceInterface.
type mockBookingService struct {
	createBookingFn              func(ctx context.Context, req *model.CreateBookingRequest) (*model.BookingResponse, error)
	createAccommodationBookingFn func(ctx context.Context, req *model.CreateAccommodationBookingRequest) (*model.BookingResponse, error)
	createGuestBookingFn         func(ctx context.Context, req *model.CreateGuestBookingRequest) (*model.BookingResponse, error)
	getBookingFn                 func(ctx context.Context, id int64) (*model.BookingDetail, error)
	listBookingsFn               func(ctx context.Context) ([]*model.Booking, error)
	updateBookingFn              func(ctx context.Context, id int64, req *model.UpdateBookingRequest) (*model.Booking, error)
	deleteBookingFn              func(ctx context.Context, id int64) error
}

func (m *mockBookingService) CreateBooking(ctx context.Context, req *model.CreateBookingRequest) (*model.BookingResponse, error) {
	if m.createBookingFn != nil {
		return m.createBookingFn(ctx, req)
	}
	return &model.BookingResponse{}, nil
}

func (m *mockBookingService) CreateAccommodationBooking(ctx context.Context, req *model.CreateAccommodationBookingRequest) (*model.BookingResponse, error) {
	if m.createAccommodationBookingFn != nil {
		return m.createAccommodationBookingFn(ctx, req)
	}
	return &model.BookingResponse{}, nil
}

func (m *mockBookingService) CreateGuestBooking(ctx context.Context, req *model.CreateGuestBookingRequest) (*model.BookingResponse, error) {
	if m.createGuestBookingFn != nil {
		return m.createGuestBookingFn(ctx, req)
	}
	return &model.BookingResponse{}, nil
}

func (m *mockBookingService) GetBooking(ctx context.Context, id int64) (*model.BookingDetail, error) {
	if m.getBookingFn != nil {
		return m.getBookingFn(ctx, id)
	}
	return &model.BookingDetail{}, nil
}

func (m *mockBookingService) ListBookings(ctx context.Context) ([]*model.Booking, error) {
	if m.listBookingsFn != nil {
		return m.listBookingsFn(ctx)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingService) UpdateBooking(ctx context.Context, id int64, req *model.UpdateBookingRequest) (*model.Booking, error) {
	if m.updateBookingFn != nil {
		return m.updateBookingFn(ctx, id, req)
	}
	return &model.Booking{BookingID: id}, nil
}

func (m *mockBookingService) DeleteBooking(ctx context.Context, id int64) error {
	if m.deleteBookingFn != nil {
		return m.deleteBookingFn(ctx, id)
	}
	return nil
}

func setupBookingTestApp(mockSvc *mockBookingService) *fiber.App {
	app := fiber.New()
	h := NewBookingHandler(mockSvc, appvalidator.New())
	app.Post("/api/bookings", h.CreateBooking)
	app.Post("/api/bookings/accommodation", h.CreateAccommodationBooking)
	app.Post("/api/bookings/guest", h.CreateGuestBooking)
	app.Get("/api/bookings", h.ListBookings)
	app.Get("/api/bookings/:id", h.GetBooking)
	app.Patch("/api/bookings/:id", h.UpdateBooking)
	app.Delete("/api/bookings/:id", h.DeleteBooking)
	return app
}

func bookingBody(coupon string) string {
	return fmt.Sprintf(`{
		"room_nums": [101, 102],
		"checkin_date": "2026-03-10T14:00:00Z",
		"checkout_date": "2026-03-12T12:00:00Z",
		"number_of_guests": 2,
		"no_of_rooms": 2,
		"payment_status": "pending",
		"type_of_booking": "online",
		"user_phone": "+8801712345678",
		"coupon_code": %q
	}`, coupon)
}

func TestCreateBooking_Success(t *testing.T) {
	mockSvc := &mockBookingService{
		createBookingFn: func(ctx context.Context, req *model.CreateBookingRequest) (*model.BookingResponse, error) {
			return &model.BookingResponse{
				Booking:       model.Booking{BookingID: 7, TotalPrice: 4500},
				AssignedRooms: []int{101, 102},
			}, nil
		},
	}
	app := setupBookingTestApp(mockSvc)

	req := httptest.NewRequest(http.MethodPost, "/api/bookings", bytes.NewBufferString(bookingBody("SUMMER10")))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var result model.BookingResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, int64(7), result.BookingID)
	assert.Equal(t, []int{101, 102}, result.AssignedRooms)
	assert.Equal(t, int64(4500), result.TotalPrice)
}

func TestCreateBooking_RoomUnavailable(t *testing.T) {
	mockSvc := &mockBookingService{
		createBookingFn: func(ctx context.Context, req *model.CreateBookingRequest) (*model.BookingResponse, error) {
			return nil, fmt.Errorf("room 102 is occupied: %w", service.ErrRoomUnavailable)
		},
	}
	app := setupBookingTestApp(mockSvc)

	req := httptest.NewRequest(http.MethodPost, "/api/bookings", bytes.NewBufferString(bookingBody("")))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	var result map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Contains(t, result["error"], "room 102")
}

func TestCreateBooking_RoomNotFound(t *testing.T) {
	mockSvc := &mockBookingService{
		createBookingFn: func(ctx context.Context, req *model.CreateBookingRequest) (*model.BookingResponse, error) {
			return nil, fmt.Errorf("room 999: %w", service.ErrRoomNotFound)
		},
	}
	app := setupBookingTestApp(mockSvc)

	req := httptest.NewRequest(http.MethodPost, "/api/bookings", bytes.NewBufferString(bookingBody("")))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestCreateBooking_CouponConflict(t *testing.T) {
	mockSvc := &mockBookingService{
		createBookingFn: func(ctx context.Context, req *model.CreateBookingRequest) (*model.BookingResponse, error) {
			return nil, fmt.Errorf("coupon DRAINED: %w", service.ErrCouponExpired)
		},
	}
	app := setupBookingTestApp(mockSvc)

	req := httptest.NewRequest(http.MethodPost, "/api/bookings", bytes.NewBufferString(bookingBody("DRAINED")))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestCreateBooking_InvalidPhone(t *testing.T) {
	called := false
	mockSvc := &mockBookingService{
		createBookingFn: func(ctx context.Context, req *model.CreateBookingRequest) (*model.BookingResponse, error) {
			called = true
			return &model.BookingResponse{}, nil
		},
	}
	app := setupBookingTestApp(mockSvc)

	body := `{
		"room_nums": [101],
		"checkin_date": "2026-03-10T14:00:00Z",
		"checkout_date": "2026-03-12T12:00:00Z",
		"number_of_guests": 1,
		"no_of_rooms": 1,
		"payment_status": "pending",
		"type_of_booking": "online",
		"user_phone": "not-a-phone"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/bookings", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.False(t, called, "validation failures must not reach the service")

	var result map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Contains(t, result["error"], "user_phone")
}

func TestCreateBooking_EmptyRoomList(t *testing.T) {
	app := setupBookingTestApp(&mockBookingService{})

	body := `{
		"room_nums": [],
		"checkin_date": "2026-03-10T14:00:00Z",
		"checkout_date": "2026-03-12T12:00:00Z",
		"number_of_guests": 1,
		"no_of_rooms": 1,
		"payment_status": "pending",
		"type_of_booking": "online",
		"user_phone": "+8801712345678"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/bookings", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCreateBooking_MalformedJSON(t *testing.T) {
	app := setupBookingTestApp(&mockBookingService{})

	req := httptest.NewRequest(http.MethodPost, "/api/bookings", bytes.NewBufferString(`{not json`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCreateAccommodationBooking_Success(t *testing.T) {
	var captured *model.CreateAccommodationBookingRequest
	mockSvc := &mockBookingService{
		createAccommodationBookingFn: func(ctx context.Context, req *model.CreateAccommodationBookingRequest) (*model.BookingResponse, error) {
			captured = req
			return &model.BookingResponse{
				Booking:       model.Booking{BookingID: 20},
				AssignedRooms: []int{201, 202},
				Accommodation: &model.Accommodation{ID: 3, Category: "deluxe", Price: 2500},
			}, nil
		},
	}
	app := setupBookingTestApp(mockSvc)

	body := `{
		"accommodation_id": 3,
		"user_id": 42,
		"checkin_date": "2026-03-10T14:00:00Z",
		"checkout_date": "2026-03-12T12:00:00Z",
		"number_of_guests": 4,
		"no_of_rooms": 2,
		"payment_status": "paid",
		"type_of_booking": "offline"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/bookings/accommodation", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.NotNil(t, captured)
	assert.Equal(t, int64(42), captured.UserID)

	var result model.BookingResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	require.NotNil(t, result.Accommodation)
	assert.Equal(t, "deluxe", result.Accommodation.Category)
}

func TestCreateAccommodationBooking_Insufficient(t *testing.T) {
	mockSvc := &mockBookingService{
		createAccommodationBookingFn: func(ctx context.Context, req *model.CreateAccommodationBookingRequest) (*model.BookingResponse, error) {
			return nil, fmt.Errorf("rooms of type deluxe: available=2 requested=3: %w", service.ErrInsufficientRooms)
		},
	}
	app := setupBookingTestApp(mockSvc)

	body := `{
		"accommodation_id": 3,
		"user_id": 42,
		"checkin_date": "2026-03-10T14:00:00Z",
		"checkout_date": "2026-03-12T12:00:00Z",
		"number_of_guests": 6,
		"no_of_rooms": 3,
		"payment_status": "pending",
		"type_of_booking": "online"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/bookings/accommodation", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	var result map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Contains(t, result["error"], "available=2")
}

func TestCreateAccommodationBooking_UnknownUser(t *testing.T) {
	mockSvc := &mockBookingService{
		createAccommodationBookingFn: func(ctx context.Context, req *model.CreateAccommodationBookingRequest) (*model.BookingResponse, error) {
			return nil, fmt.Errorf("user 999: %w", service.ErrUserNotFound)
		},
	}
	app := setupBookingTestApp(mockSvc)

	body := `{
		"accommodation_id": 3,
		"user_id": 999,
		"checkin_date": "2026-03-10T14:00:00Z",
		"checkout_date": "2026-03-12T12:00:00Z",
		"number_of_guests": 1,
		"no_of_rooms": 1,
		"payment_status": "pending",
		"type_of_booking": "online"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/bookings/accommodation", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestCreateGuestBooking_Success(t *testing.T) {
	mockSvc := &mockBookingService{
		createGuestBookingFn: func(ctx context.Context, req *model.CreateGuestBookingRequest) (*model.BookingResponse, error) {
			return &model.BookingResponse{
				Booking:       model.Booking{BookingID: 30},
				AssignedRooms: []int{101},
				GuestInfo:     &model.GuestSummary{Name: req.Guest.Name, Mobile: req.Guest.Mobile},
			}, nil
		},
	}
	app := setupBookingTestApp(mockSvc)

	body := `{
		"accommodation_id": 1,
		"checkin_date": "2026-03-10T14:00:00Z",
		"checkout_date": "2026-03-12T12:00:00Z",
		"number_of_guests": 2,
		"no_of_rooms": 1,
		"payment_status": "partial",
		"type_of_booking": "offline",
		"guest": {
			"name": "Rahim Uddin",
			"mobile": "+8801811111111",
			"address": "Chittagong"
		}
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/bookings/guest", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var result model.BookingResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	require.NotNil(t, result.GuestInfo)
	assert.Equal(t, "Rahim Uddin", result.GuestInfo.Name)
}

func TestCreateGuestBooking_BlankGuestName(t *testing.T) {
	app := setupBookingTestApp(&mockBookingService{})

	body := `{
		"accommodation_id": 1,
		"checkin_date": "2026-03-10T14:00:00Z",
		"checkout_date": "2026-03-12T12:00:00Z",
		"number_of_guests": 2,
		"no_of_rooms": 1,
		"payment_status": "pending",
		"type_of_booking": "offline",
		"guest": {
			"name": "   ",
			"mobile": "+8801811111111"
		}
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/bookings/guest", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGetBooking_Success(t *testing.T) {
	mockSvc := &mockBookingService{
		getBookingFn: func(ctx context.Context, id int64) (*model.BookingDetail, error) {
			return &model.BookingDetail{
				Booking: model.Booking{BookingID: id, TotalPrice: 4500},
				Coupon:  &model.Coupon{CouponCode: "SUMMER10", ExpireAt: time.Now().Add(time.Hour)},
			}, nil
		},
	}
	app := setupBookingTestApp(mockSvc)

	req := httptest.NewRequest(http.MethodGet, "/api/bookings/7", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result model.BookingDetail
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, int64(7), result.BookingID)
	require.NotNil(t, result.Coupon)
	assert.Equal(t, "SUMMER10", result.Coupon.CouponCode)
}

func TestGetBooking_NotFound(t *testing.T) {
	mockSvc := &mockBookingService{
		getBookingFn: func(ctx context.Context, id int64) (*model.BookingDetail, error) {
			return nil, fmt.Errorf("booking %d: %w", id, service.ErrBookingNotFound)
		},
	}
	app := setupBookingTestApp(mockSvc)

	req := httptest.NewRequest(http.MethodGet, "/api/bookings/404", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestGetBooking_InvalidID(t *testing.T) {
	app := setupBookingTestApp(&mockBookingService{})

	req := httptest.NewRequest(http.MethodGet, "/api/bookings/abc", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestUpdateBooking_Success(t *testing.T) {
	mockSvc := &mockBookingService{
		updateBookingFn: func(ctx context.Context, id int64, req *model.UpdateBookingRequest) (*model.Booking, error) {
			return &model.Booking{BookingID: id, PaymentStatus: *req.PaymentStatus}, nil
		},
	}
	app := setupBookingTestApp(mockSvc)

	req := httptest.NewRequest(http.MethodPatch, "/api/bookings/7", bytes.NewBufferString(`{"payment_status": "paid"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result model.Booking
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, model.PaymentPaid, result.PaymentStatus)
}

func TestDeleteBooking_Success(t *testing.T) {
	var deletedID int64
	mockSvc := &mockBookingService{
		deleteBookingFn: func(ctx context.Context, id int64) error {
			deletedID = id
			return nil
		},
	}
	app := setupBookingTestApp(mockSvc)

	req := httptest.NewRequest(http.MethodDelete, "/api/bookings/7", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, int64(7), deletedID)
}

func TestDeleteBooking_NotFound(t *testing.T) {
	mockSvc := &mockBookingService{
		deleteBookingFn: func(ctx context.Context, id int64) error {
			return service.ErrBookingNotFound
		},
	}
	app := setupBookingTestApp(mockSvc)

	req := httptest.NewRequest(http.MethodDelete, "/api/bookings/404", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
