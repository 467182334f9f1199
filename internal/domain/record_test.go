package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestPeriodKey(t *testing.T) {
	p := PeriodOf(time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC))

	if p.String() != "2025-03" {
		t.Errorf("expected 2025-03, got %s", p.String())
	}
	if p.Statement() != "03/2025" {
		t.Errorf("expected 03/2025, got %s", p.Statement())
	}

	if !(PeriodKey{Year: 2024, Month: 12}).Before(p) {
		t.Errorf("expected 2024-12 before 2025-03")
	}
	if !(PeriodKey{Year: 2025, Month: 2}).Before(p) {
		t.Errorf("expected 2025-02 before 2025-03")
	}
	if p.Before(p) {
		t.Errorf("period must not be before itself")
	}
}

func TestNewTransactionRecord(t *testing.T) {
	date := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	r := NewTransactionRecord(2, "05-01-2025", "A", decimal.RequireFromString("-50.004"), date)

	if !r.Amount.Equal(decimal.RequireFromString("-50.00")) {
		t.Errorf("expected amount rounded to -50.00, got %s", r.Amount)
	}
	if r.Period != (PeriodKey{Year: 2025, Month: time.January}) {
		t.Errorf("unexpected period %v", r.Period)
	}
	if r.Account.IsSet() || r.Synthetic {
		t.Errorf("new record must be unresolved and real")
	}
}

func TestFiscalContext_Validate(t *testing.T) {
	if err := (FiscalContext{CompanyID: "c", FiscalYearID: "fy"}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := (FiscalContext{FiscalYearID: "fy"}).Validate(); !errors.Is(err, ErrInvalidFiscalContext) {
		t.Fatalf("expected ErrInvalidFiscalContext, got %v", err)
	}
	if err := (FiscalContext{CompanyID: "c"}).Validate(); !errors.Is(err, ErrInvalidFiscalContext) {
		t.Fatalf("expected ErrInvalidFiscalContext, got %v", err)
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"", ModeMonthly, false},
		{"monthly", ModeMonthly, false},
		{"MONTHLY", ModeMonthly, false},
		{"per_line", ModePerLine, false},
		{"per-line", ModePerLine, false},
		{"weekly", "", true},
	}

	for _, tt := range tests {
		got, err := ParseMode(tt.input)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidMode) {
				t.Fatalf("ParseMode(%q): expected ErrInvalidMode, got %v", tt.input, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("ParseMode(%q) = %v, %v; want %v", tt.input, got, err, tt.want)
		}
	}
}
