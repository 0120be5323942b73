package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/hotelamin/booking-system/internal/model"
	"github.com/hotelamin/booking-system/pkg/database"
)

// UserRepositoryInterface defines the interface for guest identity data access.
type UserRepositoryInterface interface {
	GetByPhone(ctx context.Context, tx database.TxQuerier, phone string) (*model.User, error)
	GetByID(ctx context.Context, tx database.TxQuerier, id int64) (*model.User, error)
	Insert(ctx context.Context, tx database.TxQuerier, u *model.User) error
}

// UserResolver finds or provisions the guest identity owning a booking. All
// methods run inside the caller's booking transaction so a rolled-back
// booking never leaves a half-provisioned user behind.
type UserResolver struct {
	users UserRepositoryInterface
}

// NewUserResolver creates a UserResolver over the given repository.
func NewUserResolver(users UserRepositoryInterface) *UserResolver {
	return &UserResolver{users: users}
}

// FindByID returns the user strictly by id. No auto-provisioning: category
// bookings for registered users require the account to already exist.
func (r *UserResolver) FindByID(ctx context.Context, tx database.TxQuerier, id int64) (*model.User, error) {
	user, err := r.users.GetByID(ctx, tx, id)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %d: %w", id, ErrUserNotFound)
	}
	return user, nil
}

// FindOrCreateByPhone resolves a user by phone, provisioning the minimal
// placeholder guest when no record matches.
func (r *UserResolver) FindOrCreateByPhone(ctx context.Context, tx database.TxQuerier, phone string) (*model.User, error) {
	user, err := r.users.GetByPhone(ctx, tx, phone)
	if err != nil {
		return nil, fmt.Errorf("find user by phone: %w", err)
	}
	if user != nil {
		return user, nil
	}
	return r.provision(ctx, tx, model.NewMinimalGuest(phone, time.Now()))
}

// FindOrCreateGuest resolves a walk-in guest by mobile number, provisioning
// a user from the supplied profile when no record matches.
func (r *UserResolver) FindOrCreateGuest(ctx context.Context, tx database.TxQuerier, profile model.GuestProfile) (*model.User, error) {
	user, err := r.users.GetByPhone(ctx, tx, profile.Mobile)
	if err != nil {
		return nil, fmt.Errorf("find guest by phone: %w", err)
	}
	if user != nil {
		return user, nil
	}
	return r.provision(ctx, tx, model.NewGuestUser(profile, time.Now()))
}

func (r *UserResolver) provision(ctx context.Context, tx database.TxQuerier, user *model.User) (*model.User, error) {
	// Provisioned accounts get an unguessable generated password; the guest
	// sets a real one through account recovery if they ever log in.
	hash, err := bcrypt.GenerateFromPassword(
		[]byte(fmt.Sprintf("guest_%s_%d", user.Phone, time.Now().UnixNano())),
		bcrypt.DefaultCost,
	)
	if err != nil {
		return nil, fmt.Errorf("hash guest password: %w", err)
	}
	user.Password = string(hash)

	if err := r.users.Insert(ctx, tx, user); err != nil {
		return nil, fmt.Errorf("provision guest: %w", err)
	}

	log.Info().
		Str("phone", user.Phone).
		Int64("user_id", user.UserID).
		Msg("guest user provisioned")
	return user, nil
}
