package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/casalar/ledger/internal/adapter/http/dto"
	"github.com/casalar/ledger/internal/domain"
)

// StatementService defines the behavior needed by StatementHandler.
type StatementService interface {
	GetStatement(ctx context.Context, schema, accountID string, from, to time.Time) (*domain.AccountStatement, error)
}

// StatementHandler handles account statement requests.
type StatementHandler struct {
	statementUC StatementService
}

// NewStatementHandler creates a new StatementHandler.
func NewStatementHandler(statementUC StatementService) *StatementHandler {
	return &StatementHandler{statementUC: statementUC}
}

// Get returns the account statement for a date window. Both dates default
// to today, so a bare request shows the current day's movements.
func (h *StatementHandler) Get(w http.ResponseWriter, r *http.Request) {
	schema := chi.URLParam(r, "schema")
	accountID := chi.URLParam(r, "id")

	today := time.Now().UTC().Truncate(24 * time.Hour)
	from, err := parseDateQuery(r, "fromDate", today)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid fromDate", err.Error())
		return
	}
	to, err := parseDateQuery(r, "toDate", from)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid toDate", err.Error())
		return
	}

	statement, err := h.statementUC.GetStatement(r.Context(), schema, accountID, from, to)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to build statement", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.StatementFromDomain(statement))
}
