package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gomovements/internal/domain"
	"github.com/iho/gomovements/internal/usecase"
)

// MovementResponse represents a movement in API responses.
type MovementResponse struct {
	ID            string          `json:"id"`
	Kind          string          `json:"kind"`
	RefNumber     string          `json:"ref_number"`
	Date          time.Time       `json:"date"`
	DueDate       *time.Time      `json:"due_date,omitempty"`
	ContactID     string          `json:"contact_id"`
	Currency      string          `json:"currency"`
	ExchangeRate  decimal.Decimal `json:"exchange_rate"`
	ProjectID     *string         `json:"project_id,omitempty"`
	TaxID         *string         `json:"tax_id,omitempty"`
	AccountToID   *string         `json:"account_to_id,omitempty"`
	Total         decimal.Decimal `json:"total"`
	TaxPercentage decimal.Decimal `json:"tax_percentage"`
	Balance       decimal.Decimal `json:"balance"`
	State         string          `json:"state"`
	DirectPayment bool            `json:"direct_payment"`
	Description   string          `json:"description"`
	Reference     string          `json:"reference"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// MovementFromDomain converts a domain movement to a response.
func MovementFromDomain(m *domain.Movement) *MovementResponse {
	return &MovementResponse{
		ID:            m.ID,
		Kind:          m.Kind,
		RefNumber:     m.RefNumber,
		Date:          m.Date,
		DueDate:       m.DueDate,
		ContactID:     m.ContactID,
		Currency:      m.Currency,
		ExchangeRate:  m.ExchangeRate,
		ProjectID:     m.ProjectID,
		TaxID:         m.TaxID,
		AccountToID:   m.AccountToID,
		Total:         m.Total,
		TaxPercentage: m.TaxPercentage,
		Balance:       m.Balance,
		State:         m.State,
		DirectPayment: m.DirectPayment,
		Description:   m.Description,
		Reference:     m.Reference,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// MovementsFromDomain converts domain movements to responses.
func MovementsFromDomain(movements []*domain.Movement) []*MovementResponse {
	result := make([]*MovementResponse, len(movements))
	for i, m := range movements {
		result[i] = MovementFromDomain(m)
	}
	return result
}

// LedgerEntryResponse represents a ledger entry in API responses.
type LedgerEntryResponse struct {
	ID           string          `json:"id"`
	AccountID    string          `json:"account_id"`
	Account      string          `json:"account,omitempty"`
	MovementID   string          `json:"movement_id"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	ExchangeRate decimal.Decimal `json:"exchange_rate"`
	Kind         string          `json:"kind"`
	Date         time.Time       `json:"date"`
	CreatedAt    time.Time       `json:"created_at"`
}

// LedgerEntryFromDomain converts a domain ledger entry to a response.
func LedgerEntryFromDomain(e *domain.LedgerEntry) *LedgerEntryResponse {
	return &LedgerEntryResponse{
		ID:           e.ID,
		AccountID:    e.AccountID,
		Account:      e.Account,
		MovementID:   e.MovementID,
		Amount:       e.Amount,
		Currency:     e.Currency,
		ExchangeRate: e.ExchangeRate,
		Kind:         e.Kind,
		Date:         e.Date,
		CreatedAt:    e.CreatedAt,
	}
}

// PostResultResponse bundles the persisted movement with the ledger
// entry posted alongside it, when one exists.
type PostResultResponse struct {
	Movement *MovementResponse    `json:"movement"`
	Ledger   *LedgerEntryResponse `json:"ledger_entry,omitempty"`
}

// PostResultFromUseCase converts a posting result to a response.
func PostResultFromUseCase(result *usecase.PostResult) *PostResultResponse {
	resp := &PostResultResponse{
		Movement: MovementFromDomain(result.Movement),
	}
	if result.Ledger != nil {
		resp.Ledger = LedgerEntryFromDomain(result.Ledger)
	}
	return resp
}

// HistorySnapshotResponse represents a history snapshot in API responses.
type HistorySnapshotResponse struct {
	ID         string          `json:"id"`
	MovementID string          `json:"movement_id"`
	Data       json.RawMessage `json:"data"`
	RecordedAt time.Time       `json:"recorded_at"`
}

// HistorySnapshotFromDomain converts a domain snapshot to a response.
func HistorySnapshotFromDomain(s *domain.HistorySnapshot) *HistorySnapshotResponse {
	return &HistorySnapshotResponse{
		ID:         s.ID,
		MovementID: s.MovementID,
		Data:       json.RawMessage(s.Data),
		RecordedAt: s.RecordedAt,
	}
}

// HistorySnapshotsFromDomain converts domain snapshots to responses.
func HistorySnapshotsFromDomain(snapshots []*domain.HistorySnapshot) []*HistorySnapshotResponse {
	result := make([]*HistorySnapshotResponse, len(snapshots))
	for i, s := range snapshots {
		result[i] = HistorySnapshotFromDomain(s)
	}
	return result
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ValidationErrorResponse carries field-keyed validation messages.
type ValidationErrorResponse struct {
	Errors map[string][]string `json:"errors"`
}
