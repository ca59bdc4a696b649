package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/casalar/ledger/internal/adapter/http/dto"
	"github.com/casalar/ledger/internal/domain"
)

type ledgerServiceStub struct {
	verifyAccountFn func(ctx context.Context, schema, accountID string) (*domain.ConsistencyResult, error)
	verifyTenantFn  func(ctx context.Context, schema string) ([]*domain.ConsistencyResult, error)
}

func (s *ledgerServiceStub) VerifyAccount(ctx context.Context, schema, accountID string) (*domain.ConsistencyResult, error) {
	return s.verifyAccountFn(ctx, schema, accountID)
}

func (s *ledgerServiceStub) VerifyTenant(ctx context.Context, schema string) ([]*domain.ConsistencyResult, error) {
	return s.verifyTenantFn(ctx, schema)
}

func TestLedgerHandler_CheckAccount(t *testing.T) {
	result := &domain.ConsistencyResult{
		AccountID:       "acc-1",
		EntryCount:      3,
		RecordedBalance: decimal.RequireFromString("120.00"),
		ReplayedBalance: decimal.RequireFromString("120.00"),
		Consistent:      true,
		CheckedAt:       time.Now().UTC(),
	}

	h := NewLedgerHandler(&ledgerServiceStub{
		verifyAccountFn: func(ctx context.Context, schema, accountID string) (*domain.ConsistencyResult, error) {
			if schema != "casa_sol" || accountID != "acc-1" {
				t.Fatalf("called with %s/%s", schema, accountID)
			}
			return result, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/consistency", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("schema", "casa_sol")
	rctx.URLParams.Add("id", "acc-1")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	rec := httptest.NewRecorder()

	h.CheckAccount(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.ConsistencyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Consistent || resp.EntryCount != 3 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestLedgerHandler_CheckTenant(t *testing.T) {
	h := NewLedgerHandler(&ledgerServiceStub{
		verifyTenantFn: func(ctx context.Context, schema string) ([]*domain.ConsistencyResult, error) {
			return []*domain.ConsistencyResult{
				{AccountID: "acc-1", Consistent: true},
				{AccountID: "acc-2", Consistent: false, Problems: []string{"replayed balance 10 differs from recorded balance 20"}},
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/consistency", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("schema", "casa_sol")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	rec := httptest.NewRecorder()

	h.CheckTenant(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp []dto.ConsistencyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 2 || resp[1].Consistent {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestLedgerHandler_CheckAccount_NotFound(t *testing.T) {
	h := NewLedgerHandler(&ledgerServiceStub{
		verifyAccountFn: func(ctx context.Context, schema, accountID string) (*domain.ConsistencyResult, error) {
			return nil, domain.ErrAccountNotFound
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/consistency", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("schema", "casa_sol")
	rctx.URLParams.Add("id", "acc-missing")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	rec := httptest.NewRecorder()

	h.CheckAccount(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
