package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankrecon/internal/adapter/http/dto"
	"github.com/iho/bankrecon/internal/domain"
	"github.com/iho/bankrecon/internal/usecase"
)

type entryServiceStub struct {
	listFn func(ctx context.Context, input usecase.ListEntriesInput) ([]*domain.JournalEntry, error)
	getFn  func(ctx context.Context, id string) (*domain.JournalEntry, error)
}

func (s *entryServiceStub) ListEntries(ctx context.Context, input usecase.ListEntriesInput) ([]*domain.JournalEntry, error) {
	return s.listFn(ctx, input)
}

func (s *entryServiceStub) GetEntry(ctx context.Context, id string) (*domain.JournalEntry, error) {
	return s.getFn(ctx, id)
}

type ledgerServiceStub struct {
	report *usecase.ConsistencyReport
	err    error
}

func (s *ledgerServiceStub) CheckConsistency(ctx context.Context, fiscalYearID string) (*usecase.ConsistencyReport, error) {
	return s.report, s.err
}

func TestEntryHandler_ListByFiscalYear(t *testing.T) {
	handler := NewEntryHandler(&entryServiceStub{
		listFn: func(ctx context.Context, input usecase.ListEntriesInput) ([]*domain.JournalEntry, error) {
			if input.FiscalYearID != "fy-2024" || input.Limit != 5 || input.Offset != 10 {
				t.Fatalf("unexpected input %+v", input)
			}
			return []*domain.JournalEntry{{
				ID:   "je-1",
				Date: time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
				Lines: []domain.JournalLine{
					{AccountNumber: "606", Debit: decimal.RequireFromString("12.50"), Credit: decimal.Zero},
					{AccountNumber: "512", Debit: decimal.Zero, Credit: decimal.RequireFromString("12.50")},
				},
			}}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/fiscal-years/fy-2024/entries?limit=5&offset=10", nil)
	req = setChiURLParams(req, "fiscalYearID", "fy-2024")
	rec := httptest.NewRecorder()

	handler.ListByFiscalYear(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp []dto.EntryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 1 || len(resp[0].Lines) != 2 || !resp[0].Lines[0].Debit.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("unexpected entries %+v", resp)
	}
}

func TestEntryHandler_Get_NotFound(t *testing.T) {
	handler := NewEntryHandler(&entryServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.JournalEntry, error) {
			return nil, domain.ErrEntryNotFound
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/entries/je-404", nil)
	req = setChiURLParams(req, "id", "je-404")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestLedgerHandler_CheckConsistency(t *testing.T) {
	tests := []struct {
		name   string
		stub   *ledgerServiceStub
		want   int
		status string
	}{
		{
			name: "balanced",
			stub: &ledgerServiceStub{report: &usecase.ConsistencyReport{
				FiscalYearID: "fy", TotalDebit: decimal.NewFromInt(10), TotalCredit: decimal.NewFromInt(10), Consistent: true,
			}},
			want:   http.StatusOK,
			status: "consistent",
		},
		{
			name: "unbalanced",
			stub: &ledgerServiceStub{
				report: &usecase.ConsistencyReport{FiscalYearID: "fy", TotalDebit: decimal.NewFromInt(10), TotalCredit: decimal.NewFromInt(9)},
				err:    usecase.ErrInconsistentLedger,
			},
			want:   http.StatusConflict,
			status: "inconsistent",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewLedgerHandler(tt.stub)

			req := httptest.NewRequest(http.MethodGet, "/fiscal-years/fy/consistency", nil)
			req = setChiURLParams(req, "fiscalYearID", "fy")
			rec := httptest.NewRecorder()

			handler.CheckConsistency(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rec.Code)
			}
			var resp dto.ConsistencyResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Status != tt.status {
				t.Fatalf("expected status %s, got %s", tt.status, resp.Status)
			}
		})
	}
}
