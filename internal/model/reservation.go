package model

import "time"

// Reservation records a user's booking of a table for a half-open time
// window [Start, End). Persisted reservations never overlap another
// reservation on the same table; the policy package is the single
// authority on that rule and every write path goes through it.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – user who made the reservation (its owner).
//  TableID   – table being reserved.
//  PartySize – number of guests, 1..98 and at most the table's seats.
//  Start     – beginning of the reserved window (inclusive).
//  End       – end of the reserved window (exclusive).
//  Note      – optional free-text request ("window seat", allergies, ...).
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Reservation struct {
	ID        uint64    // reservations.id
	UserID    uint64    // reservations.user_id
	TableID   uint64    // reservations.table_id
	PartySize int       // reservations.party_size
	Start     time.Time // reservations.reservation_start
	End       time.Time // reservations.reservation_end
	Note      *string   // reservations.note (nullable)
	CreatedAt time.Time // reservations.created_at
	UpdatedAt time.Time // reservations.updated_at
}

// ReservationDetail is a reservation joined with its table and order
// lines, shaped for listing responses.
type ReservationDetail struct {
	ID        uint64      `json:"id"`
	TableID   uint64      `json:"table_id"`
	TableName string      `json:"table_name"`
	PartySize int         `json:"party_size"`
	Start     time.Time   `json:"start"`
	End       time.Time   `json:"end"`
	Note      *string     `json:"note,omitempty"`
	Order     []OrderLine `json:"order,omitempty"`
}
