package model

// RoomStatus enumerates the lifecycle states of a physical room.
type RoomStatus string

const (
	RoomAvailable   RoomStatus = "available"
	RoomOccupied    RoomStatus = "occupied"
	RoomReserved    RoomStatus = "reserved"
	RoomMaintenance RoomStatus = "maintenance"
)

// Room is a physical room in the hotel's inventory. BookingID is the
// back-reference to the booking currently holding the room, nil when free.
type Room struct {
	RoomNum    int        `json:"room_num"`
	Type       string     `json:"type"`
	RoomPrice  float64    `json:"room_price"`
	RoomStatus RoomStatus `json:"room_status"`
	BookingID  *int64     `json:"booking_id,omitempty"`
}

// Allocatable reports whether the room may be handed to a new booking.
// Rooms that are occupied, reserved or under maintenance must never be
// re-allocated.
func (r *Room) Allocatable() bool {
	return r.RoomStatus == RoomAvailable
}
