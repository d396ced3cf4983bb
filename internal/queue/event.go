// Package queue defines the messages exchanged over the broker and the
// background consumer that records confirmations.
package queue

// ReservationConfirmedEvent is published after a reservation is
// accepted and persisted. It carries enough for downstream consumers to
// log or notify without querying the primary database.
type ReservationConfirmedEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	UserID        uint64 `json:"user_id"`
	TableID       uint64 `json:"table_id"`
	TableName     string `json:"table_name"`
	PartySize     int    `json:"party_size"`
	Start         string `json:"start"`
	End           string `json:"end"`
	ConfirmedAt   string `json:"confirmed_at"`
}

// reservationQueueName is the durable queue both the publisher and the
// consumer declare.
const reservationQueueName = "reservation.confirmed"
