package model

import (
	"errors"
	"fmt"
	"time"
)

// MaxSeatCount bounds both a table's capacity and a reservation's party
// size. The same validator guards both columns.
const MaxSeatCount = 98

// ErrSeatCountOutOfRange is returned by ValidateSeatCount for values
// outside [1, MaxSeatCount].
var ErrSeatCountOutOfRange = fmt.Errorf("value must be between 1 and %d", MaxSeatCount)

// ValidateSeatCount checks the shared bound used for table capacity and
// reservation party size.
func ValidateSeatCount(n int) error {
	if n < 1 || n > MaxSeatCount {
		return ErrSeatCountOutOfRange
	}
	return nil
}

// Table describes a physical table in the dining room. Names are not
// required to be unique; capacity changes do not re-validate existing
// reservations.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – display name of the table.
//  Seats     – seating capacity, 1..98.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Table struct {
	ID        uint64    // tables.id
	Name      string    // tables.name
	Seats     int       // tables.seats
	CreatedAt time.Time // tables.created_at
	UpdatedAt time.Time // tables.updated_at
}

// Validate checks the table's own invariants before persistence.
func (t *Table) Validate() error {
	if t.Name == "" {
		return errors.New("table name is required")
	}
	return ValidateSeatCount(t.Seats)
}
