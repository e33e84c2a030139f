package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/gomovements/internal/domain"
)

// TaxRepository implements usecase.TaxRepository.
type TaxRepository struct {
	pool *pgxpool.Pool
}

// NewTaxRepository creates a new TaxRepository.
func NewTaxRepository(pool *pgxpool.Pool) *TaxRepository {
	return &TaxRepository{pool: pool}
}

// GetByID retrieves a tax by ID.
func (r *TaxRepository) GetByID(ctx context.Context, id string) (*domain.Tax, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, name, percentage FROM taxes WHERE id = $1`, id)

	var (
		tax        domain.Tax
		percentage pgtype.Numeric
	)

	if err := row.Scan(&tax.ID, &tax.Name, &percentage); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaxNotFound
		}

		return nil, err
	}

	tax.Percentage = numericToDecimal(percentage)

	return &tax, nil
}
