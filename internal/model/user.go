package model

import "time"

// User is a guest identity. Phone is the natural key used for lookup during
// booking; the record is provisioned lazily when no user matches the phone.
type User struct {
	UserID           int64     `json:"user_id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Password         string    `json:"-"`
	Phone            string    `json:"phone"`
	Address          string    `json:"address"`
	NID              string    `json:"nid"`
	Passport         string    `json:"passport"`
	Nationality      string    `json:"nationality"`
	Profession       string    `json:"profession"`
	Age              int       `json:"age"`
	Role             string    `json:"role"`
	RegistrationDate time.Time `json:"registration_date"`
}

// GuestProfile carries the walk-in guest attributes supplied with a mode C
// booking request.
type GuestProfile struct {
	Name        string `json:"name" validate:"required,notblank,max=255"`
	Mobile      string `json:"mobile" validate:"required,phone"`
	Address     string `json:"address" validate:"max=512"`
	PassportNID string `json:"passport_nid" validate:"max=64"`
	Nationality string `json:"nationality" validate:"max=64"`
	Profession  string `json:"profession" validate:"max=128"`
	Age         int    `json:"age" validate:"omitempty,gte=0,lte=150"`
}

// NewMinimalGuest builds the placeholder identity used when only a phone
// number is known at booking time. The record exists so the booking has an
// owner; the front desk completes the profile at check-in.
func NewMinimalGuest(phone string, now time.Time) *User {
	return &User{
		Name:             "Walk-in Guest",
		Email:            "guest_" + phone + "@hotelamin.com",
		Phone:            phone,
		Address:          "unknown",
		NID:              phone,
		Passport:         phone,
		Nationality:      "unknown",
		Profession:       "unknown",
		Age:              0,
		Role:             "guest",
		RegistrationDate: now,
	}
}

// NewGuestUser builds a user record from a full walk-in profile.
func NewGuestUser(p GuestProfile, now time.Time) *User {
	return &User{
		Name:             p.Name,
		Email:            "guest_" + p.Mobile + "@hotelamin.com",
		Phone:            p.Mobile,
		Address:          p.Address,
		NID:              p.PassportNID,
		Passport:         p.PassportNID,
		Nationality:      p.Nationality,
		Profession:       p.Profession,
		Age:              p.Age,
		Role:             "guest",
		RegistrationDate: now,
	}
}
