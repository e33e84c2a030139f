package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gomovements/internal/adapter/http/dto"
	"github.com/iho/gomovements/internal/domain"
	"github.com/iho/gomovements/internal/usecase"
)

// PostingService defines the posting behavior needed by MovementHandler.
type PostingService interface {
	CreateMovement(ctx context.Context, input usecase.CreateMovementInput) (*usecase.PostResult, error)
	UpdateMovement(ctx context.Context, id string, input usecase.UpdateMovementInput) (*usecase.PostResult, error)
}

// MovementService defines the read behavior needed by MovementHandler.
type MovementService interface {
	GetMovement(ctx context.Context, id string) (*domain.Movement, error)
	ListMovements(ctx context.Context, input usecase.ListMovementsInput) ([]*domain.Movement, error)
	GetLedgerEntry(ctx context.Context, movementID string) (*domain.LedgerEntry, error)
	ListHistory(ctx context.Context, input usecase.ListHistoryInput) ([]*domain.HistorySnapshot, error)
}

// MovementHandler handles movement-related HTTP requests.
type MovementHandler struct {
	postingUC  PostingService
	movementUC MovementService
}

// NewMovementHandler creates a new MovementHandler.
func NewMovementHandler(postingUC PostingService, movementUC MovementService) *MovementHandler {
	return &MovementHandler{
		postingUC:  postingUC,
		movementUC: movementUC,
	}
}

// Create posts a new movement.
func (h *MovementHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateMovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.postingUC.CreateMovement(r.Context(), req.ToUseCaseInput())
	if err != nil {
		var fieldErrs domain.FieldErrors
		if errors.As(err, &fieldErrs) {
			writeValidationErrors(w, fieldErrs)
			return
		}

		writeError(w, mapDomainError(err), "failed to create movement", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.PostResultFromUseCase(result))
}

// Update reposts an existing movement with changed attributes.
func (h *MovementHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing movement ID", "")
		return
	}

	var req dto.UpdateMovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.postingUC.UpdateMovement(r.Context(), id, req.ToUseCaseInput())
	if err != nil {
		var fieldErrs domain.FieldErrors
		if errors.As(err, &fieldErrs) {
			writeValidationErrors(w, fieldErrs)
			return
		}

		writeError(w, mapDomainError(err), "failed to update movement", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.PostResultFromUseCase(result))
}

// Get retrieves a movement by ID.
func (h *MovementHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing movement ID", "")
		return
	}

	movement, err := h.movementUC.GetMovement(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get movement", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.MovementFromDomain(movement))
}

// List lists movements with pagination.
func (h *MovementHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	movements, err := h.movementUC.ListMovements(r.Context(), usecase.ListMovementsInput{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list movements", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.MovementsFromDomain(movements))
}

// GetLedger retrieves the ledger entry posted for a movement.
func (h *MovementHandler) GetLedger(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing movement ID", "")
		return
	}

	entry, err := h.movementUC.GetLedgerEntry(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get ledger entry", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LedgerEntryFromDomain(entry))
}

// ListHistory lists the history snapshots of a movement, newest first.
func (h *MovementHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing movement ID", "")
		return
	}

	snapshots, err := h.movementUC.ListHistory(r.Context(), usecase.ListHistoryInput{
		MovementID: id,
		Limit:      parseIntQuery(r, "limit", 20),
		Offset:     parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list history", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.HistorySnapshotsFromDomain(snapshots))
}
