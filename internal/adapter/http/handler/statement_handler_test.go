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

type statementServiceStub struct {
	getFn func(ctx context.Context, schema, accountID string, from, to time.Time) (*domain.AccountStatement, error)
}

func (s *statementServiceStub) GetStatement(ctx context.Context, schema, accountID string, from, to time.Time) (*domain.AccountStatement, error) {
	return s.getFn(ctx, schema, accountID, from, to)
}

func newStatementRequest(target string) (*httptest.ResponseRecorder, *http.Request) {
	req := httptest.NewRequest(http.MethodGet, target, nil)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("schema", "casa_sol")
	rctx.URLParams.Add("id", "acc-1")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	return httptest.NewRecorder(), req
}

func TestStatementHandler_Get_Success(t *testing.T) {
	statement := &domain.AccountStatement{
		AccountID:      "acc-1",
		AccountName:    "Conta Corrente",
		BankName:       "Banco Teste",
		CurrentBalance: decimal.RequireFromString("120.00"),
		FromDate:       time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		ToDate:         time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		Summary: domain.StatementSummary{
			OpeningBalance: decimal.RequireFromString("100.00"),
			ClosingBalance: decimal.RequireFromString("120.00"),
		},
	}

	var gotSchema, gotAccount string
	var gotFrom, gotTo time.Time
	h := NewStatementHandler(&statementServiceStub{
		getFn: func(ctx context.Context, schema, accountID string, from, to time.Time) (*domain.AccountStatement, error) {
			gotSchema, gotAccount, gotFrom, gotTo = schema, accountID, from, to
			return statement, nil
		},
	})

	rec, req := newStatementRequest("/statement?fromDate=2025-06-01&toDate=2025-06-30")
	h.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotSchema != "casa_sol" || gotAccount != "acc-1" {
		t.Fatalf("service called with %s/%s", gotSchema, gotAccount)
	}
	if !gotFrom.Equal(statement.FromDate) || !gotTo.Equal(statement.ToDate) {
		t.Fatalf("dates passed as %s..%s", gotFrom, gotTo)
	}

	var resp dto.StatementResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.AccountID != "acc-1" || resp.FromDate != "2025-06-01" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if !resp.Summary.ClosingBalance.Equal(decimal.RequireFromString("120.00")) {
		t.Fatalf("closing balance = %s", resp.Summary.ClosingBalance)
	}
}

func TestStatementHandler_Get_DefaultsDatesToToday(t *testing.T) {
	var gotFrom, gotTo time.Time
	h := NewStatementHandler(&statementServiceStub{
		getFn: func(ctx context.Context, schema, accountID string, from, to time.Time) (*domain.AccountStatement, error) {
			gotFrom, gotTo = from, to
			return &domain.AccountStatement{FromDate: from, ToDate: to}, nil
		},
	})

	rec, req := newStatementRequest("/statement")
	h.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !gotFrom.Equal(gotTo) {
		t.Fatalf("bare request must cover a single day, got %s..%s", gotFrom, gotTo)
	}
	if gotFrom.IsZero() {
		t.Fatal("default date not applied")
	}
}

func TestStatementHandler_Get_InvalidDate(t *testing.T) {
	h := NewStatementHandler(&statementServiceStub{
		getFn: func(ctx context.Context, schema, accountID string, from, to time.Time) (*domain.AccountStatement, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	})

	rec, req := newStatementRequest("/statement?fromDate=01-06-2025")
	h.Get(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestStatementHandler_Get_MapsDomainErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unknown tenant", domain.ErrTenantNotFound, http.StatusNotFound},
		{"unknown account", domain.ErrAccountNotFound, http.StatusNotFound},
		{"inverted period", domain.ErrInvalidPeriod, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewStatementHandler(&statementServiceStub{
				getFn: func(ctx context.Context, schema, accountID string, from, to time.Time) (*domain.AccountStatement, error) {
					return nil, tt.err
				},
			})

			rec, req := newStatementRequest("/statement?fromDate=2025-06-01")
			h.Get(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}
