package handler

import (
	"context"
	"net/http"

	"github.com/iho/gomovements/internal/usecase"
)

// ConsistencyService defines the behavior needed by ConsistencyHandler.
type ConsistencyService interface {
	Check(ctx context.Context) (*usecase.ConsistencyReport, error)
}

// ConsistencyHandler exposes the ledger consistency check.
type ConsistencyHandler struct {
	consistencyUC ConsistencyService
}

// NewConsistencyHandler creates a new ConsistencyHandler.
func NewConsistencyHandler(consistencyUC ConsistencyService) *ConsistencyHandler {
	return &ConsistencyHandler{consistencyUC: consistencyUC}
}

// Check runs a consistency check over directly paid movements.
func (h *ConsistencyHandler) Check(w http.ResponseWriter, r *http.Request) {
	report, err := h.consistencyUC.Check(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "consistency check failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, report)
}
