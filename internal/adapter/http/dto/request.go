package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gomovements/internal/usecase"
)

// LineItemRequest is one detail row of a movement submission.
type LineItemRequest struct {
	ItemID   string          `json:"item_id"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// CreateMovementRequest represents a request to create a movement.
type CreateMovementRequest struct {
	Kind          string            `json:"kind"`
	RefNumber     string            `json:"ref_number"`
	Date          time.Time         `json:"date"`
	DueDate       *time.Time        `json:"due_date,omitempty"`
	ContactID     string            `json:"contact_id"`
	Currency      string            `json:"currency"`
	ExchangeRate  decimal.Decimal   `json:"exchange_rate"`
	ProjectID     *string           `json:"project_id,omitempty"`
	TaxID         *string           `json:"tax_id,omitempty"`
	Description   string            `json:"description"`
	Reference     string            `json:"reference"`
	DirectPayment bool              `json:"direct_payment"`
	AccountToID   *string           `json:"account_to_id,omitempty"`
	Items         []LineItemRequest `json:"items"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateMovementRequest) ToUseCaseInput() usecase.CreateMovementInput {
	return usecase.CreateMovementInput{
		Kind:          r.Kind,
		RefNumber:     r.RefNumber,
		Date:          r.Date,
		DueDate:       r.DueDate,
		ContactID:     r.ContactID,
		Currency:      r.Currency,
		ExchangeRate:  r.ExchangeRate,
		ProjectID:     r.ProjectID,
		TaxID:         r.TaxID,
		Description:   r.Description,
		Reference:     r.Reference,
		DirectPayment: r.DirectPayment,
		AccountToID:   r.AccountToID,
		Items:         toLineItemInputs(r.Items),
	}
}

// UpdateMovementRequest represents a request to update a movement.
// Absent fields keep their stored value; the contact cannot change.
type UpdateMovementRequest struct {
	RefNumber     *string           `json:"ref_number,omitempty"`
	Date          *time.Time        `json:"date,omitempty"`
	DueDate       *time.Time        `json:"due_date,omitempty"`
	Currency      *string           `json:"currency,omitempty"`
	ExchangeRate  *decimal.Decimal  `json:"exchange_rate,omitempty"`
	ProjectID     *string           `json:"project_id,omitempty"`
	TaxID         *string           `json:"tax_id,omitempty"`
	Description   *string           `json:"description,omitempty"`
	Reference     *string           `json:"reference,omitempty"`
	DirectPayment *bool             `json:"direct_payment,omitempty"`
	AccountToID   *string           `json:"account_to_id,omitempty"`
	Items         []LineItemRequest `json:"items,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateMovementRequest) ToUseCaseInput() usecase.UpdateMovementInput {
	return usecase.UpdateMovementInput{
		RefNumber:     r.RefNumber,
		Date:          r.Date,
		DueDate:       r.DueDate,
		Currency:      r.Currency,
		ExchangeRate:  r.ExchangeRate,
		ProjectID:     r.ProjectID,
		TaxID:         r.TaxID,
		Description:   r.Description,
		Reference:     r.Reference,
		DirectPayment: r.DirectPayment,
		AccountToID:   r.AccountToID,
		Items:         toLineItemInputs(r.Items),
	}
}

func toLineItemInputs(items []LineItemRequest) []usecase.LineItemInput {
	if items == nil {
		return nil
	}

	result := make([]usecase.LineItemInput, len(items))
	for i, item := range items {
		result[i] = usecase.LineItemInput{
			ItemID:   item.ItemID,
			Quantity: item.Quantity,
			Price:    item.Price,
			Subtotal: item.Subtotal,
		}
	}
	return result
}
