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

// AccommodationRepository reads the room-category catalog.
type AccommodationRepository struct {
	pool database.TxQuerier
}

// NewAccommodationRepository creates a new AccommodationRepository.
func NewAccommodationRepository(pool *pgxpool.Pool) *AccommodationRepository {
	return &AccommodationRepository{pool: pool}
}

// NewAccommodationRepositoryWithPool creates an AccommodationRepository with
// a custom querier. This is primarily used for testing.
func NewAccommodationRepositoryWithPool(pool database.TxQuerier) *AccommodationRepository {
	return &AccommodationRepository{pool: pool}
}

// GetByID retrieves a catalog entry. Returns nil, nil when absent.
func (r *AccommodationRepository) GetByID(ctx context.Context, id int64) (*model.Accommodation, error) {
	query := `SELECT id, category, price FROM accommodations WHERE id = $1`

	var a model.Accommodation
	err := r.pool.QueryRow(ctx, query, id).Scan(&a.ID, &a.Category, &a.Price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get accommodation %d: %w", id, err)
	}
	return &a, nil
}
