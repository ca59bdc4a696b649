package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/casalar/ledger/internal/adapter/http/dto"
	"github.com/casalar/ledger/internal/domain"
)

// LedgerService defines the behavior needed by LedgerHandler.
type LedgerService interface {
	VerifyAccount(ctx context.Context, schema, accountID string) (*domain.ConsistencyResult, error)
	VerifyTenant(ctx context.Context, schema string) ([]*domain.ConsistencyResult, error)
}

// LedgerHandler handles ledger consistency requests.
type LedgerHandler struct {
	ledgerUC LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC}
}

// CheckAccount verifies one account's ledger chain.
func (h *LedgerHandler) CheckAccount(w http.ResponseWriter, r *http.Request) {
	schema := chi.URLParam(r, "schema")
	accountID := chi.URLParam(r, "id")

	result, err := h.ledgerUC.VerifyAccount(r.Context(), schema, accountID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to verify account", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ConsistencyFromDomain(result))
}

// CheckTenant verifies every account of one tenant.
func (h *LedgerHandler) CheckTenant(w http.ResponseWriter, r *http.Request) {
	schema := chi.URLParam(r, "schema")

	results, err := h.ledgerUC.VerifyTenant(r.Context(), schema)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to verify tenant", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ConsistenciesFromDomain(results))
}
