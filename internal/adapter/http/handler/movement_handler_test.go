package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/gomovements/internal/adapter/http/dto"
	"github.com/iho/gomovements/internal/domain"
	"github.com/iho/gomovements/internal/usecase"
)

type postingServiceStub struct {
	createFn func(ctx context.Context, input usecase.CreateMovementInput) (*usecase.PostResult, error)
	updateFn func(ctx context.Context, id string, input usecase.UpdateMovementInput) (*usecase.PostResult, error)
}

func (s *postingServiceStub) CreateMovement(ctx context.Context, input usecase.CreateMovementInput) (*usecase.PostResult, error) {
	return s.createFn(ctx, input)
}

func (s *postingServiceStub) UpdateMovement(ctx context.Context, id string, input usecase.UpdateMovementInput) (*usecase.PostResult, error) {
	return s.updateFn(ctx, id, input)
}

type movementServiceStub struct {
	getFn         func(ctx context.Context, id string) (*domain.Movement, error)
	listFn        func(ctx context.Context, input usecase.ListMovementsInput) ([]*domain.Movement, error)
	getLedgerFn   func(ctx context.Context, movementID string) (*domain.LedgerEntry, error)
	listHistoryFn func(ctx context.Context, input usecase.ListHistoryInput) ([]*domain.HistorySnapshot, error)
}

func (s *movementServiceStub) GetMovement(ctx context.Context, id string) (*domain.Movement, error) {
	return s.getFn(ctx, id)
}

func (s *movementServiceStub) ListMovements(ctx context.Context, input usecase.ListMovementsInput) ([]*domain.Movement, error) {
	return s.listFn(ctx, input)
}

func (s *movementServiceStub) GetLedgerEntry(ctx context.Context, movementID string) (*domain.LedgerEntry, error) {
	return s.getLedgerFn(ctx, movementID)
}

func (s *movementServiceStub) ListHistory(ctx context.Context, input usecase.ListHistoryInput) ([]*domain.HistorySnapshot, error) {
	return s.listHistoryFn(ctx, input)
}

func sampleMovement() *domain.Movement {
	return &domain.Movement{
		ID:            "mov-1",
		Kind:          domain.KindIncome,
		RefNumber:     "INV-100",
		Date:          time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		ContactID:     "contact-1",
		Currency:      "USD",
		ExchangeRate:  decimal.NewFromInt(1),
		Total:         decimal.NewFromInt(150),
		Balance:       decimal.NewFromInt(150),
		State:         domain.StatePending,
		TaxPercentage: decimal.Zero,
	}
}

func TestMovementHandler_Create_Success(t *testing.T) {
	var captured usecase.CreateMovementInput

	handler := NewMovementHandler(&postingServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateMovementInput) (*usecase.PostResult, error) {
			captured = input
			return &usecase.PostResult{Movement: sampleMovement()}, nil
		},
	}, nil)

	body, _ := json.Marshal(dto.CreateMovementRequest{
		Kind:      domain.KindIncome,
		RefNumber: "INV-100",
		Date:      time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		ContactID: "contact-1",
		Currency:  "USD",
		Items: []dto.LineItemRequest{
			{ItemID: "item-1", Quantity: decimal.NewFromInt(1), Price: decimal.NewFromInt(150), Subtotal: decimal.NewFromInt(150)},
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/movements", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	if captured.ContactID != "contact-1" || len(captured.Items) != 1 {
		t.Fatalf("expected input to match request, got %+v", captured)
	}

	var resp dto.PostResultResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Movement.ID != "mov-1" {
		t.Fatalf("expected movement ID mov-1, got %s", resp.Movement.ID)
	}
	if resp.Ledger != nil {
		t.Fatalf("expected no ledger entry, got %+v", resp.Ledger)
	}
}

func TestMovementHandler_Create_InvalidBody(t *testing.T) {
	handler := NewMovementHandler(&postingServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateMovementInput) (*usecase.PostResult, error) {
			t.Fatal("CreateMovement should not be called")
			return nil, nil
		},
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/movements", bytes.NewBufferString("{bad json"))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestMovementHandler_Create_ValidationErrors(t *testing.T) {
	handler := NewMovementHandler(&postingServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateMovementInput) (*usecase.PostResult, error) {
			errs := domain.FieldErrors{}
			errs.Add("contact", "can't be blank")
			errs.Add("currency", "is not included in the list")
			return nil, errs
		},
	}, nil)

	body, _ := json.Marshal(dto.CreateMovementRequest{Kind: domain.KindIncome})
	req := httptest.NewRequest(http.MethodPost, "/movements", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}

	var resp dto.ValidationErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Errors["contact"]) != 1 || len(resp.Errors["currency"]) != 1 {
		t.Fatalf("expected field-keyed errors, got %+v", resp.Errors)
	}
}

func TestMovementHandler_Update_Success(t *testing.T) {
	var capturedID string

	handler := NewMovementHandler(&postingServiceStub{
		updateFn: func(ctx context.Context, id string, input usecase.UpdateMovementInput) (*usecase.PostResult, error) {
			capturedID = id
			return &usecase.PostResult{Movement: sampleMovement()}, nil
		},
	}, nil)

	ref := "INV-200"
	body, _ := json.Marshal(dto.UpdateMovementRequest{RefNumber: &ref})
	req := httptest.NewRequest(http.MethodPut, "/movements/mov-1", bytes.NewReader(body))
	req = setChiURLParam(req, "id", "mov-1")
	rec := httptest.NewRecorder()

	handler.Update(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if capturedID != "mov-1" {
		t.Fatalf("expected id mov-1, got %s", capturedID)
	}
}

func TestMovementHandler_Update_NotFound(t *testing.T) {
	handler := NewMovementHandler(&postingServiceStub{
		updateFn: func(ctx context.Context, id string, input usecase.UpdateMovementInput) (*usecase.PostResult, error) {
			return nil, domain.ErrMovementNotFound
		},
	}, nil)

	body, _ := json.Marshal(dto.UpdateMovementRequest{})
	req := httptest.NewRequest(http.MethodPut, "/movements/missing", bytes.NewReader(body))
	req = setChiURLParam(req, "id", "missing")
	rec := httptest.NewRecorder()

	handler.Update(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestMovementHandler_Get(t *testing.T) {
	handler := NewMovementHandler(nil, &movementServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.Movement, error) {
			m := sampleMovement()
			m.ID = id
			return m, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/movements/mov-1", nil)
	req = setChiURLParam(req, "id", "mov-1")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestMovementHandler_List(t *testing.T) {
	handler := NewMovementHandler(nil, &movementServiceStub{
		listFn: func(ctx context.Context, input usecase.ListMovementsInput) ([]*domain.Movement, error) {
			if input.Limit != 5 || input.Offset != 1 {
				t.Fatalf("unexpected input %+v", input)
			}
			return []*domain.Movement{sampleMovement()}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/movements?limit=5&offset=1", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestMovementHandler_GetLedger_NotFound(t *testing.T) {
	handler := NewMovementHandler(nil, &movementServiceStub{
		getLedgerFn: func(ctx context.Context, movementID string) (*domain.LedgerEntry, error) {
			return nil, domain.ErrLedgerEntryNotFound
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/movements/mov-1/ledger", nil)
	req = setChiURLParam(req, "id", "mov-1")
	rec := httptest.NewRecorder()

	handler.GetLedger(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestMovementHandler_ListHistory(t *testing.T) {
	handler := NewMovementHandler(nil, &movementServiceStub{
		listHistoryFn: func(ctx context.Context, input usecase.ListHistoryInput) ([]*domain.HistorySnapshot, error) {
			if input.MovementID != "mov-1" {
				t.Fatalf("unexpected movement ID %s", input.MovementID)
			}
			return []*domain.HistorySnapshot{
				{ID: "hist-1", MovementID: "mov-1", Data: []byte(`{"state":"pending"}`)},
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/movements/mov-1/history", nil)
	req = setChiURLParam(req, "id", "mov-1")
	rec := httptest.NewRecorder()

	handler.ListHistory(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp []dto.HistorySnapshotResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 1 || resp[0].ID != "hist-1" {
		t.Fatalf("unexpected snapshots: %+v", resp)
	}
}

func setChiURLParam(r *http.Request, key, value string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, &chi.Context{
		URLParams: chi.RouteParams{
			Keys:   []string{key},
			Values: []string{value},
		},
	}))
}
