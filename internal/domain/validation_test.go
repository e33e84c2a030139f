package domain

import (
	"strings"
	"testing"
)

func TestFieldErrors_AddAndMerge(t *testing.T) {
	errs := FieldErrors{}
	errs.Add("currency", "can't be blank")
	errs.Add("currency", "is not supported")

	other := FieldErrors{}
	other.Add("date", "can't be blank")

	errs.Merge(other)

	if len(errs["currency"]) != 2 {
		t.Errorf("expected 2 currency messages, got %d", len(errs["currency"]))
	}
	if len(errs["date"]) != 1 {
		t.Errorf("expected 1 date message, got %d", len(errs["date"]))
	}
	if errs.Empty() {
		t.Error("collection with messages must not be empty")
	}
}

func TestFieldErrors_WithoutDetailFields(t *testing.T) {
	errs := FieldErrors{}
	errs.Add("income_details", "is invalid")
	errs.Add("expense_details", "is invalid")
	errs.Add("currency", "can't be blank")

	filtered := errs.WithoutDetailFields()

	if _, ok := filtered["income_details"]; ok {
		t.Error("income_details must be filtered out")
	}
	if _, ok := filtered["expense_details"]; ok {
		t.Error("expense_details must be filtered out")
	}
	if len(filtered["currency"]) != 1 {
		t.Errorf("currency error must survive, got %v", filtered)
	}

	// the source collection stays untouched
	if len(errs["income_details"]) != 1 {
		t.Error("filtering must not mutate the source collection")
	}
}

func TestFieldErrors_Without(t *testing.T) {
	errs := FieldErrors{}
	errs.Add("account", "can't be blank")
	errs.Add("account_id", "can't be blank")
	errs.Add("amount", "must not be zero")

	remaining := errs.Without(DeferredLedgerFields...)

	if len(remaining) != 1 || len(remaining["amount"]) != 1 {
		t.Errorf("expected only amount to remain, got %v", remaining)
	}

	if !errs.Without("account", "account_id", "amount").Empty() {
		t.Error("removing every field must leave an empty collection")
	}
}

func TestFieldErrors_Error(t *testing.T) {
	errs := FieldErrors{}
	errs.Add("date", "can't be blank")
	errs.Add("currency", "is not supported")

	msg := errs.Error()

	if !strings.Contains(msg, "date can't be blank") {
		t.Errorf("expected date message in %q", msg)
	}
	// fields are sorted for stable output
	if strings.Index(msg, "currency") > strings.Index(msg, "date") {
		t.Errorf("expected sorted field order in %q", msg)
	}
}

func TestValidateCurrency(t *testing.T) {
	if err := ValidateCurrency("USD"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateCurrency(" eur "); err != nil {
		t.Errorf("currency check must normalize case and spacing: %v", err)
	}
	if err := ValidateCurrency("XYZ"); err == nil {
		t.Error("expected error for unknown currency")
	}
}
