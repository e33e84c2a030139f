package domain

import (
	"fmt"
	"sort"
	"strings"
)

// detailFieldSuffix marks error keys that duplicate line-item level
// reporting and must never surface to callers.
const detailFieldSuffix = "_details"

// FieldErrors is a field-keyed collection of human-readable validation
// messages. It implements error so it can travel through ordinary
// error returns.
type FieldErrors map[string][]string

// Add appends a message under the given field.
func (e FieldErrors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Merge copies every message from other into e.
func (e FieldErrors) Merge(other FieldErrors) {
	for field, messages := range other {
		e[field] = append(e[field], messages...)
	}
}

// Empty reports whether the collection holds no messages.
func (e FieldErrors) Empty() bool {
	return len(e) == 0
}

// Without returns a fresh collection with the given fields removed.
func (e FieldErrors) Without(fields ...string) FieldErrors {
	excluded := make(map[string]bool, len(fields))
	for _, f := range fields {
		excluded[f] = true
	}

	out := FieldErrors{}
	for field, messages := range e {
		if excluded[field] {
			continue
		}
		out[field] = append([]string(nil), messages...)
	}

	return out
}

// WithoutDetailFields returns a fresh collection with every key ending
// in "_details" removed. Detail-level failures are reported on the
// line items themselves and would otherwise double-surface.
func (e FieldErrors) WithoutDetailFields() FieldErrors {
	out := FieldErrors{}
	for field, messages := range e {
		if strings.HasSuffix(field, detailFieldSuffix) {
			continue
		}
		out[field] = append([]string(nil), messages...)
	}

	return out
}

// Error implements the error interface.
func (e FieldErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}

	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s %s", field, strings.Join(e[field], ", ")))
	}

	return strings.Join(parts, "; ")
}

// Valid currency codes (ISO 4217).
var validCurrencies = map[string]bool{
	"USD": true, "EUR": true, "GBP": true, "JPY": true,
	"CNY": true, "AUD": true, "CAD": true, "CHF": true,
	"SEK": true, "NZD": true, "KRW": true, "SGD": true,
	"NOK": true, "MXN": true, "INR": true, "BRL": true,
	"ZAR": true, "RUB": true, "TRY": true, "HKD": true,
	"BOB": true, "PEN": true, "CLP": true, "COP": true,
}

// ValidateCurrency validates a currency code.
func ValidateCurrency(currency string) error {
	currency = strings.ToUpper(strings.TrimSpace(currency))

	if !validCurrencies[currency] {
		return fmt.Errorf("%s is not a valid ISO 4217 currency code", currency)
	}

	return nil
}
