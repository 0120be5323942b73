package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hotelamin/booking-system/internal/model"
	"github.com/hotelamin/booking-system/pkg/database"
)

// UserRepository provides data access for guest identities using pgx.
type UserRepository struct {
	pool database.TxQuerier
}

// NewUserRepository creates a new UserRepository with the given pool.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// NewUserRepositoryWithPool creates a UserRepository with a custom querier.
// This is primarily used for testing.
func NewUserRepositoryWithPool(pool database.TxQuerier) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `user_id, name, email, password, phone, address, nid, passport,
	nationality, profession, age, role, registration_date`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.UserID,
		&u.Name,
		&u.Email,
		&u.Password,
		&u.Phone,
		&u.Address,
		&u.NID,
		&u.Passport,
		&u.Nationality,
		&u.Profession,
		&u.Age,
		&u.Role,
		&u.RegistrationDate,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByPhone retrieves a user by phone number inside the booking transaction.
// Returns nil, nil when no user matches (the resolver provisions one).
func (r *UserRepository) GetByPhone(ctx context.Context, tx database.TxQuerier, phone string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE phone = $1`

	user, err := scanUser(tx.QueryRow(ctx, query, phone))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by phone %s: %w", phone, err)
	}
	return user, nil
}

// GetByID retrieves a user by id. Returns nil, nil when absent.
func (r *UserRepository) GetByID(ctx context.Context, tx database.TxQuerier, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`

	user, err := scanUser(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return user, nil
}

// Insert persists a new user within the booking transaction and fills in the
// generated UserID.
func (r *UserRepository) Insert(ctx context.Context, tx database.TxQuerier, u *model.User) error {
	query := `INSERT INTO users (name, email, password, phone, address, nid, passport,
			nationality, profession, age, role, registration_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING user_id`

	err := tx.QueryRow(ctx, query,
		u.Name, u.Email, u.Password, u.Phone, u.Address, u.NID, u.Passport,
		u.Nationality, u.Profession, u.Age, u.Role, u.RegistrationDate,
	).Scan(&u.UserID)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}
