package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Movement states.
const (
	StatePending = "pending"
	StatePaid    = "paid"
)

// Movement kinds.
const (
	KindIncome  = "income"
	KindExpense = "expense"
)

// Movement represents a financial transaction (invoice, expense, payment).
type Movement struct {
	ID            string
	Kind          string
	RefNumber     string
	Date          time.Time
	DueDate       *time.Time
	ContactID     string
	Currency      string
	ExchangeRate  decimal.Decimal
	ProjectID     *string
	TaxID         *string
	Total         decimal.Decimal
	TaxPercentage decimal.Decimal
	Balance       decimal.Decimal
	State         string
	DirectPayment bool
	AccountToID   *string
	Description   string
	Reference     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate runs the movement's own validation rules and returns every
// failure keyed by field name.
func (m *Movement) Validate() FieldErrors {
	errs := FieldErrors{}

	if m.Kind != KindIncome && m.Kind != KindExpense {
		errs.Add("kind", "is not a valid movement kind")
	}

	if m.RefNumber == "" {
		errs.Add("ref_number", "can't be blank")
	}

	if m.Date.IsZero() {
		errs.Add("date", "can't be blank")
	}

	if m.ContactID == "" {
		errs.Add("contact_id", "can't be blank")
	}

	if err := ValidateCurrency(m.Currency); err != nil {
		errs.Add("currency", err.Error())
	}

	if m.ExchangeRate.LessThanOrEqual(decimal.Zero) {
		errs.Add("exchange_rate", "must be greater than 0")
	}

	if m.State != StatePending && m.State != StatePaid {
		errs.Add("state", "is not a valid state")
	}

	if m.TaxPercentage.IsNegative() {
		errs.Add("tax_percentage", "must not be negative")
	}

	return errs
}

// Settled reports whether the movement carries no outstanding balance.
func (m *Movement) Settled() bool {
	return m.Balance.IsZero()
}
