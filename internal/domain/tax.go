package domain

import (
	"github.com/shopspring/decimal"
)

// Tax supplies the percentage applied on top of a movement's subtotal
// sum. Percentage is a decimal fraction: 0.16 means 16%.
type Tax struct {
	ID         string
	Name       string
	Percentage decimal.Decimal
}
