package domain

import (
	"encoding/json"
	"time"
)

// HistorySnapshot is an immutable copy of a movement's state captured
// before an update mutates it. It persists in the same atomic unit as
// the update and is never modified afterwards.
type HistorySnapshot struct {
	ID         string
	MovementID string
	Data       []byte
	RecordedAt time.Time
}

// NewHistorySnapshot captures the movement's current field values.
// It must run strictly before any new attributes are applied.
func NewHistorySnapshot(id string, m *Movement, now time.Time) (*HistorySnapshot, error) {
	data, err := json.Marshal(movementState(m))
	if err != nil {
		return nil, err
	}

	return &HistorySnapshot{
		ID:         id,
		MovementID: m.ID,
		Data:       data,
		RecordedAt: now,
	}, nil
}

// Restore decodes the captured state.
func (s *HistorySnapshot) Restore() (map[string]any, error) {
	var state map[string]any
	if err := json.Unmarshal(s.Data, &state); err != nil {
		return nil, err
	}

	return state, nil
}

func movementState(m *Movement) map[string]any {
	state := map[string]any{
		"id":             m.ID,
		"kind":           m.Kind,
		"ref_number":     m.RefNumber,
		"date":           m.Date,
		"contact_id":     m.ContactID,
		"currency":       m.Currency,
		"exchange_rate":  m.ExchangeRate,
		"total":          m.Total,
		"tax_percentage": m.TaxPercentage,
		"balance":        m.Balance,
		"state":          m.State,
		"direct_payment": m.DirectPayment,
		"description":    m.Description,
		"reference":      m.Reference,
	}

	if m.DueDate != nil {
		state["due_date"] = *m.DueDate
	}
	if m.ProjectID != nil {
		state["project_id"] = *m.ProjectID
	}
	if m.TaxID != nil {
		state["tax_id"] = *m.TaxID
	}
	if m.AccountToID != nil {
		state["account_to_id"] = *m.AccountToID
	}

	return state
}
