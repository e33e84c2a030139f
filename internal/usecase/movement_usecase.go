package usecase

import (
	"context"

	"github.com/iho/gomovements/internal/domain"
)

// MovementUseCase handles movement queries.
type MovementUseCase struct {
	movementRepo MovementRepository
	ledgerRepo   LedgerRepository
	historyRepo  HistoryRepository
}

// NewMovementUseCase creates a new MovementUseCase.
func NewMovementUseCase(movementRepo MovementRepository, ledgerRepo LedgerRepository, historyRepo HistoryRepository) *MovementUseCase {
	return &MovementUseCase{
		movementRepo: movementRepo,
		ledgerRepo:   ledgerRepo,
		historyRepo:  historyRepo,
	}
}

// GetMovement retrieves a movement by ID.
func (uc *MovementUseCase) GetMovement(ctx context.Context, id string) (*domain.Movement, error) {
	return uc.movementRepo.GetByID(ctx, id)
}

// ListMovementsInput represents input for listing movements.
type ListMovementsInput struct {
	Limit  int
	Offset int
}

// ListMovements lists movements with pagination.
func (uc *MovementUseCase) ListMovements(ctx context.Context, input ListMovementsInput) ([]*domain.Movement, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}
	if input.Limit > 100 {
		input.Limit = 100
	}

	return uc.movementRepo.List(ctx, input.Limit, input.Offset)
}

// GetLedgerEntry retrieves the settlement entry of a movement.
func (uc *MovementUseCase) GetLedgerEntry(ctx context.Context, movementID string) (*domain.LedgerEntry, error) {
	return uc.ledgerRepo.GetByMovement(ctx, movementID)
}

// ListHistoryInput represents input for listing history snapshots.
type ListHistoryInput struct {
	MovementID string
	Limit      int
	Offset     int
}

// ListHistory lists the history snapshots of a movement, newest first.
func (uc *MovementUseCase) ListHistory(ctx context.Context, input ListHistoryInput) ([]*domain.HistorySnapshot, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}
	if input.Limit > 100 {
		input.Limit = 100
	}

	return uc.historyRepo.ListByMovement(ctx, input.MovementID, input.Limit, input.Offset)
}
