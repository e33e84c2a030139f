package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/gomovements/internal/domain"
	"github.com/iho/gomovements/internal/usecase"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

// Create inserts a ledger entry inside the posting transaction. The
// entry's account identifier must already be resolved; posting an
// entry before its movement is durably written is a programming error
// the foreign key will reject.
func (r *LedgerRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO ledger_entries (id, account_id, account, movement_id, amount, currency, exchange_rate, kind, date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		entry.ID, entry.AccountID, entry.Account, entry.MovementID,
		decimalToNumeric(entry.Amount), entry.Currency, decimalToNumeric(entry.ExchangeRate),
		entry.Kind, timeToPgTimestamptz(entry.Date), timeToPgTimestamptz(entry.CreatedAt),
	)

	return err
}

// GetByMovement retrieves the settlement entry of a movement.
func (r *LedgerRepository) GetByMovement(ctx context.Context, movementID string) (*domain.LedgerEntry, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, account_id, account, movement_id, amount, currency, exchange_rate, kind, date, created_at
		FROM ledger_entries
		WHERE movement_id = $1`, movementID)

	var (
		entry        domain.LedgerEntry
		amount       pgtype.Numeric
		exchangeRate pgtype.Numeric
		date         pgtype.Timestamptz
		createdAt    pgtype.Timestamptz
	)

	err := row.Scan(
		&entry.ID, &entry.AccountID, &entry.Account, &entry.MovementID,
		&amount, &entry.Currency, &exchangeRate, &entry.Kind, &date, &createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLedgerEntryNotFound
		}

		return nil, err
	}

	entry.Amount = numericToDecimal(amount)
	entry.ExchangeRate = numericToDecimal(exchangeRate)
	entry.Date = date.Time
	entry.CreatedAt = createdAt.Time

	return &entry, nil
}
