package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gomovements/internal/domain"
	"github.com/iho/gomovements/internal/infrastructure/metrics"
)

// ConsistencyUseCase verifies posting invariants across persisted
// movements: every directly paid movement must own exactly one ledger
// entry whose amount matches the movement total and whose account
// identifier equals the movement identifier.
type ConsistencyUseCase struct {
	movementRepo MovementRepository
	ledgerRepo   LedgerRepository
	metrics      *metrics.Metrics
}

// NewConsistencyUseCase creates a new ConsistencyUseCase.
func NewConsistencyUseCase(movementRepo MovementRepository, ledgerRepo LedgerRepository) *ConsistencyUseCase {
	return &ConsistencyUseCase{
		movementRepo: movementRepo,
		ledgerRepo:   ledgerRepo,
	}
}

// WithMetrics enables check instrumentation.
func (uc *ConsistencyUseCase) WithMetrics(m *metrics.Metrics) *ConsistencyUseCase {
	uc.metrics = m
	return uc
}

// Discrepancy describes one broken invariant.
type Discrepancy struct {
	MovementID string          `json:"movement_id"`
	Reason     string          `json:"reason"`
	Expected   decimal.Decimal `json:"expected"`
	Actual     decimal.Decimal `json:"actual"`
}

// ConsistencyReport is the outcome of one check run.
type ConsistencyReport struct {
	MovementsChecked int           `json:"movements_checked"`
	Discrepancies    []Discrepancy `json:"discrepancies"`
	Consistent       bool          `json:"consistent"`
	CheckedAt        time.Time     `json:"checked_at"`
}

// Check walks every directly paid movement and validates its ledger
// posting against the balance invariant.
func (uc *ConsistencyUseCase) Check(ctx context.Context) (*ConsistencyReport, error) {
	report := &ConsistencyReport{
		Discrepancies: []Discrepancy{},
		CheckedAt:     time.Now().UTC(),
	}

	const pageSize = 500

	for offset := 0; ; offset += pageSize {
		movements, err := uc.movementRepo.ListDirectlyPaid(ctx, pageSize, offset)
		if err != nil {
			return nil, err
		}

		if len(movements) == 0 {
			break
		}

		for _, m := range movements {
			report.MovementsChecked++
			if err := uc.checkMovement(ctx, m, report); err != nil {
				return nil, err
			}
		}

		if len(movements) < pageSize {
			break
		}
	}

	report.Consistent = len(report.Discrepancies) == 0

	if uc.metrics != nil {
		uc.metrics.ConsistencyChecks.Inc()
		uc.metrics.ConsistencyDiscrepancies.Set(float64(len(report.Discrepancies)))
	}

	return report, nil
}

func (uc *ConsistencyUseCase) checkMovement(ctx context.Context, m *domain.Movement, report *ConsistencyReport) error {
	if !m.Balance.IsZero() {
		report.Discrepancies = append(report.Discrepancies, Discrepancy{
			MovementID: m.ID,
			Reason:     "direct-payment movement carries a non-zero balance",
			Expected:   decimal.Zero,
			Actual:     m.Balance,
		})
	}

	entry, err := uc.ledgerRepo.GetByMovement(ctx, m.ID)
	if err != nil {
		if errors.Is(err, domain.ErrLedgerEntryNotFound) {
			report.Discrepancies = append(report.Discrepancies, Discrepancy{
				MovementID: m.ID,
				Reason:     "paid movement has no ledger entry",
				Expected:   m.Total,
				Actual:     decimal.Zero,
			})

			return nil
		}

		// Anything else means we could not inspect the ledger at all;
		// aborting beats declaring the run consistent on partial data.
		return fmt.Errorf("fetch ledger entry for movement %s: %w", m.ID, err)
	}

	expected := m.Total
	if m.Kind == domain.KindExpense {
		expected = expected.Neg()
	}

	if !entry.Amount.Equal(expected) {
		report.Discrepancies = append(report.Discrepancies, Discrepancy{
			MovementID: m.ID,
			Reason:     "ledger amount does not match movement total",
			Expected:   expected,
			Actual:     entry.Amount,
		})
	}

	if entry.AccountID != m.ID {
		report.Discrepancies = append(report.Discrepancies, Discrepancy{
			MovementID: m.ID,
			Reason:     "ledger entry references a different movement",
			Expected:   decimal.Zero,
			Actual:     decimal.Zero,
		})
	}

	return nil
}
