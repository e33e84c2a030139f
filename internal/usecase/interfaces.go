package usecase

import (
	"context"
	"time"

	"github.com/iho/gomovements/internal/domain"
)

// MovementRepository defines data access for movements.
type MovementRepository interface {
	Create(ctx context.Context, tx Transaction, movement *domain.Movement) error
	Update(ctx context.Context, tx Transaction, movement *domain.Movement) error
	GetByID(ctx context.Context, id string) (*domain.Movement, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Movement, error)
	ListDirectlyPaid(ctx context.Context, limit, offset int) ([]*domain.Movement, error)
}

// LedgerRepository defines data access for ledger entries.
type LedgerRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.LedgerEntry) error
	GetByMovement(ctx context.Context, movementID string) (*domain.LedgerEntry, error)
}

// HistoryRepository defines data access for history snapshots.
type HistoryRepository interface {
	Create(ctx context.Context, tx Transaction, snapshot *domain.HistorySnapshot) error
	ListByMovement(ctx context.Context, movementID string, limit, offset int) ([]*domain.HistorySnapshot, error)
}

// TaxRepository defines data access for taxes.
type TaxRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Tax, error)
}

// TaxCache caches resolved taxes.
type TaxCache interface {
	Get(ctx context.Context, id string) (*domain.Tax, error)
	Set(ctx context.Context, tax *domain.Tax, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier re-runs an operation on transient storage failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// UpdateHook applies service-level attributes outside the posting
// form during an update. Optional.
type UpdateHook func(ctx context.Context, movement *domain.Movement) error

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
