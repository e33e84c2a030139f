package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeferredLedgerFields names the ledger fields that stay unset until
// the owning movement has been durably written and its identifier is
// stable. This is a fixed contract: validation failures confined to
// these fields do not block posting.
var DeferredLedgerFields = []string{"account", "account_id"}

// LedgerEntry is a double-entry record representing the immediate
// settlement of a movement. It exists only for direct payments and is
// owned one-to-one by the movement that spawned it.
type LedgerEntry struct {
	ID           string
	AccountID    string
	Account      string
	MovementID   string
	Amount       decimal.Decimal
	Currency     string
	ExchangeRate decimal.Decimal
	Kind         string
	Date         time.Time
	CreatedAt    time.Time
}

// BuildLedgerEntry constructs the in-memory settlement entry for a
// direct-payment movement. No persistence happens here; the account
// fields stay deferred until Post.
func BuildLedgerEntry(id string, m *Movement, now time.Time) *LedgerEntry {
	amount := m.Total
	if m.Kind == KindExpense {
		amount = amount.Neg()
	}

	return &LedgerEntry{
		ID:           id,
		MovementID:   m.ID,
		Amount:       amount,
		Currency:     m.Currency,
		ExchangeRate: m.ExchangeRate,
		Kind:         m.Kind,
		Date:         m.Date,
		CreatedAt:    now,
	}
}

// Validate runs the entry's validation rules and returns every failure
// keyed by field name, deferred fields included.
func (l *LedgerEntry) Validate() FieldErrors {
	errs := FieldErrors{}

	if l.Account == "" {
		errs.Add("account", "can't be blank")
	}

	if l.AccountID == "" {
		errs.Add("account_id", "can't be blank")
	}

	if l.Amount.IsZero() {
		errs.Add("amount", "must not be zero")
	}

	if err := ValidateCurrency(l.Currency); err != nil {
		errs.Add("currency", err.Error())
	}

	if l.ExchangeRate.LessThanOrEqual(decimal.Zero) {
		errs.Add("exchange_rate", "must be greater than 0")
	}

	if l.Kind != KindIncome && l.Kind != KindExpense {
		errs.Add("kind", "is not a valid ledger kind")
	}

	if l.Date.IsZero() {
		errs.Add("date", "can't be blank")
	}

	return errs
}

// Postable reports whether the entry may enter the atomic write set:
// no validation errors, or errors confined to the deferred account
// fields, which are expected to be unset before the movement commits.
func (l *LedgerEntry) Postable() bool {
	return l.Validate().Without(DeferredLedgerFields...).Empty()
}

// Post resolves the deferred account identifier against the persisted
// movement. Must only run after the movement is durably written.
func (l *LedgerEntry) Post(movementID string) {
	l.MovementID = movementID
	l.AccountID = movementID
}
