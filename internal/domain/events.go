package domain

import "time"

// Event types
const (
	EventTypeMovementCreated = "movement.created"
	EventTypeMovementUpdated = "movement.updated"
	EventTypeLedgerPosted    = "ledger.posted"
)

// Aggregate types
const (
	AggregateTypeMovement = "movement"
	AggregateTypeLedger   = "ledger"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// MovementPostedEvent is the payload for movement.created and
// movement.updated events.
type MovementPostedEvent struct {
	MovementID    string `json:"movement_id"`
	Kind          string `json:"kind"`
	ContactID     string `json:"contact_id"`
	Currency      string `json:"currency"`
	Total         string `json:"total"`
	Balance       string `json:"balance"`
	State         string `json:"state"`
	DirectPayment bool   `json:"direct_payment"`
}

// LedgerPostedEvent is the payload for ledger.posted events.
type LedgerPostedEvent struct {
	LedgerEntryID string `json:"ledger_entry_id"`
	MovementID    string `json:"movement_id"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
}
