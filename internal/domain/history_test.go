package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func dec(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func TestNewHistorySnapshot(t *testing.T) {
	m := validMovement()
	now := time.Now().UTC()

	snap, err := NewHistorySnapshot("hist-1", m, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if snap.MovementID != m.ID {
		t.Errorf("expected movement id %s, got %s", m.ID, snap.MovementID)
	}
	if !snap.RecordedAt.Equal(now) {
		t.Errorf("expected recorded_at %v, got %v", now, snap.RecordedAt)
	}

	state, err := snap.Restore()
	if err != nil {
		t.Fatalf("restore failed: %v", err)
	}

	if state["currency"] != "USD" {
		t.Errorf("expected captured currency USD, got %v", state["currency"])
	}
	if state["ref_number"] != "I-0001" {
		t.Errorf("expected captured ref_number I-0001, got %v", state["ref_number"])
	}
}

func TestHistorySnapshot_ReflectsPreUpdateState(t *testing.T) {
	m := validMovement()

	snap, err := NewHistorySnapshot("hist-1", m, time.Now().UTC())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// mutate after capturing
	m.Currency = "EUR"
	m.RefNumber = "I-0002"

	state, err := snap.Restore()
	if err != nil {
		t.Fatalf("restore failed: %v", err)
	}

	if state["currency"] != "USD" {
		t.Errorf("snapshot must keep pre-update currency, got %v", state["currency"])
	}
	if state["ref_number"] != "I-0001" {
		t.Errorf("snapshot must keep pre-update ref_number, got %v", state["ref_number"])
	}
}

func TestLineItems(t *testing.T) {
	items := []LineItem{
		{ItemID: "a", Subtotal: dec(100)},
		{ItemID: "b", Subtotal: dec(50)},
	}

	if !SumSubtotals(items).Equal(dec(150)) {
		t.Errorf("expected 150, got %s", SumSubtotals(items))
	}

	if !ValidateUniqueItemIDs(items).Empty() {
		t.Error("distinct item ids must validate")
	}

	dup := append(items, LineItem{ItemID: "a", Subtotal: dec(10)})
	errs := ValidateUniqueItemIDs(dup)
	if len(errs["item_id"]) == 0 {
		t.Errorf("expected item_id error, got %v", errs)
	}
}
