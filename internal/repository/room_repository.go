package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hotelamin/booking-system/internal/model"
	"github.com/hotelamin/booking-system/internal/service"
	"github.com/hotelamin/booking-system/pkg/database"
)

// RoomRepository provides data access for the room inventory using pgx.
// All mutating and lock-taking methods accept a database.TxQuerier because
// room allocation only happens inside the booking transaction.
type RoomRepository struct {
	pool database.TxQuerier
}

// NewRoomRepository creates a new RoomRepository with the given pool.
func NewRoomRepository(pool *pgxpool.Pool) *RoomRepository {
	return &RoomRepository{pool: pool}
}

// NewRoomRepositoryWithPool creates a RoomRepository with a custom querier.
// This is primarily used for testing.
func NewRoomRepositoryWithPool(pool database.TxQuerier) *RoomRepository {
	return &RoomRepository{pool: pool}
}

const roomColumns = `room_num, type, room_price, room_status, booking_id`

func scanRoom(row pgx.Row) (*model.Room, error) {
	var room model.Room
	err := row.Scan(
		&room.RoomNum,
		&room.Type,
		&room.RoomPrice,
		&room.RoomStatus,
		&room.BookingID,
	)
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// GetByNumForUpdate locks and returns a single room row. Returns
// service.ErrRoomNotFound when the number has no matching room.
func (r *RoomRepository) GetByNumForUpdate(ctx context.Context, tx database.TxQuerier, roomNum int) (*model.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE room_num = $1 FOR UPDATE`

	room, err := scanRoom(tx.QueryRow(ctx, query, roomNum))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("room %d: %w", roomNum, service.ErrRoomNotFound)
		}
		return nil, fmt.Errorf("get room %d for update: %w", roomNum, err)
	}
	return room, nil
}

// GetByNumsForUpdate locks and returns the named rooms. Rows are locked in
// ascending numeric order so two bookings naming overlapping room sets queue
// up instead of deadlocking, but the returned slice keeps the caller's order
// so responses echo rooms as requested.
func (r *RoomRepository) GetByNumsForUpdate(ctx context.Context, tx database.TxQuerier, roomNums []int) ([]*model.Room, error) {
	ordered := make([]int, len(roomNums))
	copy(ordered, roomNums)
	sort.Ints(ordered)

	locked := make(map[int]*model.Room, len(ordered))
	for _, num := range ordered {
		if _, ok := locked[num]; ok {
			continue
		}
		room, err := r.GetByNumForUpdate(ctx, tx, num)
		if err != nil {
			return nil, err
		}
		locked[num] = room
	}

	rooms := make([]*model.Room, 0, len(roomNums))
	for _, num := range roomNums {
		rooms = append(rooms, locked[num])
	}
	return rooms, nil
}

// FindAvailableByCategoryForUpdate locks and returns up to limit available
// rooms of the given category, ordered by room number. SKIP LOCKED matters
// here: with a plain FOR UPDATE the Limit node counts rows before the lock
// wait, so a concurrent allocator that loses the race gets back fewer rows
// than the limit even when other free rooms exist. Skipping held rows makes
// each allocator take the next unheld room, and a short result means the
// pool really is short.
func (r *RoomRepository) FindAvailableByCategoryForUpdate(ctx context.Context, tx database.TxQuerier, category string, limit int) ([]*model.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms
		WHERE type = $1 AND room_status = $2
		ORDER BY room_num
		LIMIT $3
		FOR UPDATE SKIP LOCKED`

	rows, err := tx.Query(ctx, query, category, model.RoomAvailable, limit)
	if err != nil {
		return nil, fmt.Errorf("find available rooms of type %s: %w", category, err)
	}
	defer rows.Close()

	var rooms []*model.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("scan room row: %w", err)
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate room rows: %w", err)
	}
	return rooms, nil
}

// AssignBooking marks the room occupied and sets the back-reference to the
// booking holding it. Idempotent per room: re-assigning the same booking is
// a no-op at the row level.
func (r *RoomRepository) AssignBooking(ctx context.Context, tx database.TxQuerier, roomNum int, bookingID int64) error {
	query := `UPDATE rooms SET room_status = $1, booking_id = $2 WHERE room_num = $3`

	tag, err := tx.Exec(ctx, query, model.RoomOccupied, bookingID, roomNum)
	if err != nil {
		return fmt.Errorf("assign booking %d to room %d: %w", bookingID, roomNum, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("room %d: %w", roomNum, service.ErrRoomNotFound)
	}
	return nil
}

// ReleaseByBooking frees every room held by the booking: status back to
// available, back-reference cleared. Used when a booking is deleted.
func (r *RoomRepository) ReleaseByBooking(ctx context.Context, tx database.TxQuerier, bookingID int64) error {
	query := `UPDATE rooms SET room_status = $1, booking_id = NULL WHERE booking_id = $2`

	_, err := tx.Exec(ctx, query, model.RoomAvailable, bookingID)
	if err != nil {
		return fmt.Errorf("release rooms for booking %d: %w", bookingID, err)
	}
	return nil
}
