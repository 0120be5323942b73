// Package pricing derives stay totals from room rates, a date range and an
// optional coupon percent. It is pure computation with no I/O; all amounts
// are integers in the smallest display unit, rounded half away from zero.
package pricing

import (
	"math"
	"time"
)

const hoursPerNight = 24

// Quote is the priced breakdown of a stay.
type Quote struct {
	Nights   int   `json:"nights"`
	Subtotal int64 `json:"subtotal"`
	Discount int64 `json:"discount"`
	Total    int64 `json:"total"`
}

// Nights returns the billed duration between checkin and checkout in whole
// days, clamped to a minimum of one night. Same-day and inverted ranges bill
// a single night on every booking path.
func Nights(checkin, checkout time.Time) int {
	n := int(math.Round(checkout.Sub(checkin).Hours() / hoursPerNight))
	if n < 1 {
		n = 1
	}
	return n
}

// QuoteRooms prices an explicit room list: each nightly rate is rounded
// individually, summed, and multiplied by the night count. percent is the
// coupon discount percent, 0 for no coupon.
func QuoteRooms(nightly []float64, checkin, checkout time.Time, percent int) Quote {
	nights := Nights(checkin, checkout)

	var perNight int64
	for _, rate := range nightly {
		perNight += round(rate)
	}
	subtotal := perNight * int64(nights)
	return withDiscount(nights, subtotal, percent)
}

// QuoteCategory prices a category booking: accommodation nightly rate times
// room count times nights, rounded once at the end.
func QuoteCategory(rate float64, roomCount int, checkin, checkout time.Time, percent int) Quote {
	nights := Nights(checkin, checkout)
	subtotal := round(rate * float64(roomCount) * float64(nights))
	return withDiscount(nights, subtotal, percent)
}

func withDiscount(nights int, subtotal int64, percent int) Quote {
	var discount int64
	if percent > 0 {
		discount = round(float64(subtotal) * float64(percent) / 100)
	}
	return Quote{
		Nights:   nights,
		Subtotal: subtotal,
		Discount: discount,
		Total:    subtotal - discount,
	}
}

func round(f float64) int64 {
	return int64(math.Round(f))
}
