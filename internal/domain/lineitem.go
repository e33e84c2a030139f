package domain

import (
	"github.com/shopspring/decimal"
)

// LineItem is a detail row whose subtotal contributes to a movement's
// total. The posting engine consumes line items read-only; they are
// persisted by their own collection, not by the engine.
type LineItem struct {
	ItemID   string
	Quantity decimal.Decimal
	Price    decimal.Decimal
	Subtotal decimal.Decimal
}

// SumSubtotals returns the sum of every line item subtotal.
func SumSubtotals(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal)
	}

	return total
}

// ValidateUniqueItemIDs checks that no item identifier repeats within
// one submission. On failure it reports a single error keyed to the
// item identifier field.
func ValidateUniqueItemIDs(items []LineItem) FieldErrors {
	errs := FieldErrors{}

	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if seen[item.ItemID] {
			errs.Add("item_id", "is repeated in the submitted line items")
			break
		}
		seen[item.ItemID] = true
	}

	return errs
}
