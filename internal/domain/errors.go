package domain

import "errors"

var (
	// Movement errors
	ErrMovementNotFound = errors.New("movement not found")
	ErrContactNotFound  = errors.New("contact not found")

	// Ledger errors
	ErrLedgerEntryNotFound = errors.New("ledger entry not found")

	// Tax errors
	ErrTaxNotFound = errors.New("tax not found")
)
