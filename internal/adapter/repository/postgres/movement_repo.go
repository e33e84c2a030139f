package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/gomovements/internal/domain"
	"github.com/iho/gomovements/internal/usecase"
)

const movementColumns = `id, kind, ref_number, date, due_date, contact_id, currency, exchange_rate,
	project_id, tax_id, total, tax_percentage, balance, state, direct_payment,
	account_to_id, description, reference, created_at, updated_at`

// MovementRepository implements usecase.MovementRepository.
type MovementRepository struct {
	pool *pgxpool.Pool
}

// NewMovementRepository creates a new MovementRepository.
func NewMovementRepository(pool *pgxpool.Pool) *MovementRepository {
	return &MovementRepository{pool: pool}
}

// Create inserts a movement inside the posting transaction.
func (r *MovementRepository) Create(ctx context.Context, tx usecase.Transaction, m *domain.Movement) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO movements (`+movementColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`,
		m.ID, m.Kind, m.RefNumber, timeToPgTimestamptz(m.Date), timePtrToPgTimestamptz(m.DueDate),
		m.ContactID, m.Currency, decimalToNumeric(m.ExchangeRate),
		m.ProjectID, m.TaxID, decimalToNumeric(m.Total), decimalToNumeric(m.TaxPercentage),
		decimalToNumeric(m.Balance), m.State, m.DirectPayment,
		m.AccountToID, m.Description, m.Reference,
		timeToPgTimestamptz(m.CreatedAt), timeToPgTimestamptz(m.UpdatedAt),
	)

	return err
}

// Update rewrites a movement's mutable columns inside the posting
// transaction. The contact column is deliberately absent: the
// counterparty is immutable once created.
func (r *MovementRepository) Update(ctx context.Context, tx usecase.Transaction, m *domain.Movement) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `
		UPDATE movements
		SET ref_number = $2, date = $3, due_date = $4, currency = $5, exchange_rate = $6,
		    project_id = $7, tax_id = $8, total = $9, tax_percentage = $10, balance = $11,
		    state = $12, direct_payment = $13, account_to_id = $14, description = $15,
		    reference = $16, updated_at = $17
		WHERE id = $1`,
		m.ID, m.RefNumber, timeToPgTimestamptz(m.Date), timePtrToPgTimestamptz(m.DueDate),
		m.Currency, decimalToNumeric(m.ExchangeRate), m.ProjectID, m.TaxID,
		decimalToNumeric(m.Total), decimalToNumeric(m.TaxPercentage), decimalToNumeric(m.Balance),
		m.State, m.DirectPayment, m.AccountToID, m.Description, m.Reference,
		timeToPgTimestamptz(m.UpdatedAt),
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrMovementNotFound
	}

	return nil
}

// GetByID retrieves a movement by ID.
func (r *MovementRepository) GetByID(ctx context.Context, id string) (*domain.Movement, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+movementColumns+` FROM movements WHERE id = $1`, id)

	m, err := scanMovement(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMovementNotFound
		}

		return nil, err
	}

	return m, nil
}

// List lists movements ordered by date, newest first.
func (r *MovementRepository) List(ctx context.Context, limit, offset int) ([]*domain.Movement, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+movementColumns+` FROM movements
		ORDER BY date DESC, id DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMovements(rows)
}

// ListDirectlyPaid lists direct-payment movements for consistency checks.
func (r *MovementRepository) ListDirectlyPaid(ctx context.Context, limit, offset int) ([]*domain.Movement, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+movementColumns+` FROM movements
		WHERE direct_payment AND state = $1
		ORDER BY id
		LIMIT $2 OFFSET $3`, domain.StatePaid, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMovements(rows)
}

func scanMovements(rows pgx.Rows) ([]*domain.Movement, error) {
	movements := []*domain.Movement{}
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, err
		}

		movements = append(movements, m)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return movements, nil
}

func scanMovement(row pgx.Row) (*domain.Movement, error) {
	var (
		m            domain.Movement
		date         pgtype.Timestamptz
		dueDate      pgtype.Timestamptz
		exchangeRate pgtype.Numeric
		total        pgtype.Numeric
		taxPct       pgtype.Numeric
		balance      pgtype.Numeric
		createdAt    pgtype.Timestamptz
		updatedAt    pgtype.Timestamptz
	)

	err := row.Scan(
		&m.ID, &m.Kind, &m.RefNumber, &date, &dueDate, &m.ContactID, &m.Currency, &exchangeRate,
		&m.ProjectID, &m.TaxID, &total, &taxPct, &balance, &m.State, &m.DirectPayment,
		&m.AccountToID, &m.Description, &m.Reference, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	m.Date = date.Time
	if dueDate.Valid {
		t := dueDate.Time
		m.DueDate = &t
	}
	m.ExchangeRate = numericToDecimal(exchangeRate)
	m.Total = numericToDecimal(total)
	m.TaxPercentage = numericToDecimal(taxPct)
	m.Balance = numericToDecimal(balance)
	m.CreatedAt = createdAt.Time
	m.UpdatedAt = updatedAt.Time

	return &m, nil
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func timePtrToPgTimestamptz(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}

	return pgtype.Timestamptz{Time: *t, Valid: true}
}
