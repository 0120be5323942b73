package model

// Accommodation is a room-category catalog entry. It is read-only input to
// the booking allocator: Category selects the pool of interchangeable rooms
// and Price is the per-night rate for the category booking modes.
type Accommodation struct {
	ID       int64   `json:"id"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
}
