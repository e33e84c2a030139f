package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/gomovements/internal/domain"
	"github.com/iho/gomovements/internal/usecase"
)

// HistoryRepository implements usecase.HistoryRepository.
type HistoryRepository struct {
	pool *pgxpool.Pool
}

// NewHistoryRepository creates a new HistoryRepository.
func NewHistoryRepository(pool *pgxpool.Pool) *HistoryRepository {
	return &HistoryRepository{pool: pool}
}

// Create persists a history snapshot inside the update transaction.
func (r *HistoryRepository) Create(ctx context.Context, tx usecase.Transaction, snapshot *domain.HistorySnapshot) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO history_snapshots (id, movement_id, data, recorded_at)
		VALUES ($1, $2, $3, $4)`,
		snapshot.ID, snapshot.MovementID, snapshot.Data, timeToPgTimestamptz(snapshot.RecordedAt),
	)

	return err
}

// ListByMovement lists the snapshots of a movement, newest first.
func (r *HistoryRepository) ListByMovement(ctx context.Context, movementID string, limit, offset int) ([]*domain.HistorySnapshot, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, movement_id, data, recorded_at
		FROM history_snapshots
		WHERE movement_id = $1
		ORDER BY recorded_at DESC, id DESC
		LIMIT $2 OFFSET $3`, movementID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snapshots := []*domain.HistorySnapshot{}
	for rows.Next() {
		var (
			snap       domain.HistorySnapshot
			recordedAt pgtype.Timestamptz
		)

		if err := rows.Scan(&snap.ID, &snap.MovementID, &snap.Data, &recordedAt); err != nil {
			return nil, err
		}

		snap.RecordedAt = recordedAt.Time
		snapshots = append(snapshots, &snap)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return snapshots, nil
}
