package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/hotelamin/booking-system/internal/model"
)

// AccommodationRepositoryInterface defines the interface for catalog data access.
type AccommodationRepositoryInterface interface {
	GetByID(ctx context.Context, id int64) (*model.Accommodation, error)
}

// AccommodationCatalog is a read-through cache over the accommodation
// catalog. The catalog is read-only input to the allocator, so short-TTL
// caching is safe; a nil redis client disables caching entirely and every
// lookup falls through to the repository.
type AccommodationCatalog struct {
	repo AccommodationRepositoryInterface
	rdb  *redis.Client
	ttl  time.Duration
}

// NewAccommodationCatalog creates a catalog over repo, cached in rdb when
// rdb is non-nil.
func NewAccommodationCatalog(repo AccommodationRepositoryInterface, rdb *redis.Client, ttl time.Duration) *AccommodationCatalog {
	return &AccommodationCatalog{repo: repo, rdb: rdb, ttl: ttl}
}

func catalogKey(id int64) string {
	return "catalog:accommodation:" + strconv.FormatInt(id, 10)
}

// GetByID returns the catalog entry for id.
// Returns ErrAccommodationNotFound when the id has no entry.
func (c *AccommodationCatalog) GetByID(ctx context.Context, id int64) (*model.Accommodation, error) {
	if c.rdb != nil {
		raw, err := c.rdb.Get(ctx, catalogKey(id)).Bytes()
		if err == nil {
			var a model.Accommodation
			if err := json.Unmarshal(raw, &a); err == nil {
				return &a, nil
			}
			// Corrupt entry: fall through and overwrite below.
		} else if err != redis.Nil {
			log.Warn().Err(err).Int64("accommodation_id", id).Msg("catalog cache read failed")
		}
	}

	a, err := c.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("catalog lookup: %w", err)
	}
	if a == nil {
		return nil, fmt.Errorf("accommodation %d: %w", id, ErrAccommodationNotFound)
	}

	if c.rdb != nil {
		if raw, err := json.Marshal(a); err == nil {
			if err := c.rdb.Set(ctx, catalogKey(id), raw, c.ttl).Err(); err != nil {
				log.Warn().Err(err).Int64("accommodation_id", id).Msg("catalog cache write failed")
			}
		}
	}
	return a, nil
}
