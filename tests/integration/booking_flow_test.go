//go:build integration

package integration

import (
	"context"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotelamin/booking-system/internal/model"
)

// Full lifecycle over HTTP: create a coupon, book rooms with it, read the
// booking back, delete it, and verify rooms are released while the consumed
// coupon unit stays consumed.
func TestBookingLifecycle(t *testing.T) {
	cleanupTables(t)

	createTestRoom(t, 101, "deluxe", 2500)
	createTestRoom(t, 102, "deluxe", 2500)

	// 1. Create the coupon through the API.
	resp, err := postJSON(formatURL("/api/coupons"), map[string]any{
		"coupon_code":    "FLOW10",
		"coupon_percent": 10,
		"quantity":       5,
		"created_by":     1,
		"expire_at":      time.Now().Add(48 * time.Hour).Format(time.RFC3339),
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// 2. Book both rooms for two nights with the coupon.
	checkin := time.Now().Add(24 * time.Hour).Truncate(time.Hour)
	resp, err = postJSON(formatURL("/api/bookings"), map[string]any{
		"room_nums":        []int{101, 102},
		"checkin_date":     checkin.Format(time.RFC3339),
		"checkout_date":    checkin.Add(48 * time.Hour).Format(time.RFC3339),
		"number_of_guests": 4,
		"no_of_rooms":      2,
		"payment_status":   "pending",
		"type_of_booking":  "online",
		"user_phone":       "+8801712345678",
		"coupon_code":      "FLOW10",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created model.BookingResponse
	require.NoError(t, readJSONResponse(resp, &created))
	// 2500 * 2 rooms = 5000/night, 2 nights = 10000, 10% off = 9000.
	assert.Equal(t, int64(10000), created.RoomPrice)
	assert.Equal(t, int64(9000), created.TotalPrice)
	assert.ElementsMatch(t, []int{101, 102}, created.AssignedRooms)

	quantity, usageCount := getCouponState(t, "FLOW10")
	assert.Equal(t, 4, quantity)
	assert.Equal(t, 1, usageCount)

	status, bookingID := getRoomState(t, 101)
	assert.Equal(t, "occupied", status)
	require.NotNil(t, bookingID)
	assert.Equal(t, created.BookingID, *bookingID)

	// 3. Read the booking detail back with its coupon and auto-provisioned user.
	resp, err = httpClient.Get(formatURL("/api/bookings/" + itoa(created.BookingID)))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var detail model.BookingDetail
	require.NoError(t, readJSONResponse(resp, &detail))
	require.NotNil(t, detail.Coupon)
	assert.Equal(t, "FLOW10", detail.Coupon.CouponCode)
	require.NotNil(t, detail.User, "booking by unknown phone must have provisioned a user")
	assert.Equal(t, "+8801712345678", detail.User.Phone)

	// 4. The same rooms cannot be booked again while held.
	resp, err = postJSON(formatURL("/api/bookings"), map[string]any{
		"room_nums":        []int{101},
		"checkin_date":     checkin.Format(time.RFC3339),
		"checkout_date":    checkin.Add(24 * time.Hour).Format(time.RFC3339),
		"number_of_guests": 1,
		"no_of_rooms":      1,
		"payment_status":   "pending",
		"type_of_booking":  "online",
		"user_phone":       "+8801799999999",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// 5. Delete the booking; rooms go back to available, the coupon unit stays
	// consumed.
	req, err := http.NewRequest(http.MethodDelete, formatURL("/api/bookings/"+itoa(created.BookingID)), nil)
	require.NoError(t, err)
	resp, err = httpClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	status, bookingID = getRoomState(t, 101)
	assert.Equal(t, "available", status)
	assert.Nil(t, bookingID)

	quantity, usageCount = getCouponState(t, "FLOW10")
	assert.Equal(t, 4, quantity, "deleting a booking never refunds the coupon unit")
}

// A walk-in guest booking provisions a user from the profile and allocates
// from the category pool.
func TestGuestBookingFlow(t *testing.T) {
	cleanupTables(t)

	accommodationID := createTestAccommodation(t, "standard", 1500)
	createTestRoom(t, 201, "standard", 1500)

	checkin := time.Now().Add(24 * time.Hour).Truncate(time.Hour)
	resp, err := postJSON(formatURL("/api/bookings/guest"), map[string]any{
		"accommodation_id": accommodationID,
		"checkin_date":     checkin.Format(time.RFC3339),
		"checkout_date":    checkin.Add(48 * time.Hour).Format(time.RFC3339),
		"number_of_guests": 2,
		"no_of_rooms":      1,
		"payment_status":   "partial",
		"type_of_booking":  "offline",
		"guest": map[string]any{
			"name":        "Rahim Uddin",
			"mobile":      "+8801811111111",
			"address":     "Chittagong",
			"nationality": "Bangladeshi",
		},
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created model.BookingResponse
	require.NoError(t, readJSONResponse(resp, &created))
	assert.Equal(t, int64(3000), created.TotalPrice, "1500 * 1 room * 2 nights")
	require.NotNil(t, created.GuestInfo)
	assert.Equal(t, "Rahim Uddin", created.GuestInfo.Name)

	var role string
	err = testPool.QueryRow(context.Background(),
		"SELECT role FROM users WHERE phone = $1", "+8801811111111").Scan(&role)
	require.NoError(t, err)
	assert.Equal(t, "guest", role)
}

// Booking with an expired coupon is refused before any state changes.
func TestExpiredCouponRejected(t *testing.T) {
	cleanupTables(t)

	createTestRoom(t, 101, "deluxe", 2500)
	createTestCoupon(t, "EXPIRED", 10, 5, time.Now().Add(-time.Hour))

	checkin := time.Now().Add(24 * time.Hour).Truncate(time.Hour)
	resp, err := postJSON(formatURL("/api/bookings"), map[string]any{
		"room_nums":        []int{101},
		"checkin_date":     checkin.Format(time.RFC3339),
		"checkout_date":    checkin.Add(24 * time.Hour).Format(time.RFC3339),
		"number_of_guests": 1,
		"no_of_rooms":      1,
		"payment_status":   "pending",
		"type_of_booking":  "online",
		"user_phone":       "+8801712345678",
		"coupon_code":      "EXPIRED",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	status, _ := getRoomState(t, 101)
	assert.Equal(t, "available", status, "refused booking must not touch the room")

	quantity, usageCount := getCouponState(t, "EXPIRED")
	assert.Equal(t, 5, quantity)
	assert.Equal(t, 0, usageCount)
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
