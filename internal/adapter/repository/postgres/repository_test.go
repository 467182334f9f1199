package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"

	"github.com/iho/bankrecon/internal/domain"
)

var testNow = time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)

func TestAccountRepositoryCreateDuplicate(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectQuery("INSERT INTO accounts").
		WithArgs("acc-1", "co-1", "512", "Banque", pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: pgErrUniqueViolation})

	repo := NewAccountRepository(mock)
	err := repo.Create(context.Background(), &domain.Account{
		ID: "acc-1", CompanyID: "co-1", Number: "512", Name: "Banque", CreatedAt: testNow,
	})

	if !errors.Is(err, domain.ErrAccountExists) {
		t.Fatalf("expected ErrAccountExists, got %v", err)
	}
	assertExpectations(t, mock)
}

func TestAccountRepositoryGetByNumberNotFound(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectQuery("SELECT (.+) FROM accounts WHERE company_id").
		WithArgs("co-1", "999").
		WillReturnError(pgx.ErrNoRows)

	_, err := NewAccountRepository(mock).GetByNumber(context.Background(), "co-1", "999")
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
	assertExpectations(t, mock)
}

func TestAccountRepositoryListByCompany(t *testing.T) {
	mock := newMockPool(t)
	rows := pgxmock.NewRows([]string{"id", "company_id", "number", "name", "created_at"}).
		AddRow("acc-1", "co-1", "512", "Banque", timeToPgTimestamptz(testNow)).
		AddRow("acc-2", "co-1", "6061", "Fournitures", timeToPgTimestamptz(testNow))
	mock.ExpectQuery("SELECT (.+) FROM accounts WHERE company_id").
		WithArgs("co-1").
		WillReturnRows(rows)

	accounts, err := NewAccountRepository(mock).ListByCompany(context.Background(), "co-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(accounts) != 2 || accounts[0].Number != "512" || accounts[1].Name != "Fournitures" {
		t.Fatalf("unexpected accounts: %+v", accounts)
	}
	if !accounts[0].CreatedAt.Equal(testNow) {
		t.Fatalf("expected created_at %s, got %s", testNow, accounts[0].CreatedAt)
	}
	assertExpectations(t, mock)
}

func TestAssociationRepositoryUpsertKeepsStoredID(t *testing.T) {
	mock := newMockPool(t)
	created := testNow.Add(-24 * time.Hour)
	rows := pgxmock.NewRows([]string{"id", "company_id", "label", "account_number", "created_at", "updated_at"}).
		AddRow("assoc-old", "co-1", "AMAZON", "6063", timeToPgTimestamptz(created), timeToPgTimestamptz(testNow))
	mock.ExpectQuery("INSERT INTO account_associations").
		WithArgs("assoc-new", "co-1", "AMAZON", "6063", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(rows)

	assoc := &domain.AccountAssociation{
		ID: "assoc-new", CompanyID: "co-1", Label: "AMAZON", AccountNumber: "6063",
		CreatedAt: testNow, UpdatedAt: testNow,
	}
	if err := NewAssociationRepository(mock).Upsert(context.Background(), assoc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if assoc.ID != "assoc-old" {
		t.Fatalf("expected stored ID to be kept, got %s", assoc.ID)
	}
	if !assoc.CreatedAt.Equal(created) {
		t.Fatalf("expected original creation time, got %s", assoc.CreatedAt)
	}
	assertExpectations(t, mock)
}

func TestAssociationRepositoryFindByCompany(t *testing.T) {
	mock := newMockPool(t)
	rows := pgxmock.NewRows([]string{"id", "company_id", "label", "account_number", "created_at", "updated_at"}).
		AddRow("a-1", "co-1", "BOLT", "6251", timeToPgTimestamptz(testNow), timeToPgTimestamptz(testNow))
	mock.ExpectQuery("SELECT (.+) FROM account_associations").
		WithArgs("co-1").
		WillReturnRows(rows)

	assocs, err := NewAssociationRepository(mock).FindByCompany(context.Background(), "co-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(assocs) != 1 || assocs[0].Label != "BOLT" || assocs[0].AccountNumber != "6251" {
		t.Fatalf("unexpected associations: %+v", assocs)
	}
	assertExpectations(t, mock)
}

func TestAssociationRepositoryDelete(t *testing.T) {
	tests := []struct {
		name    string
		result  pgconn.CommandTag
		wantErr error
	}{
		{"deleted", pgxmock.NewResult("DELETE", 1), nil},
		{"missing", pgxmock.NewResult("DELETE", 0), domain.ErrAssociationNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMockPool(t)
			mock.ExpectExec("DELETE FROM account_associations").
				WithArgs("co-1", "a-1").
				WillReturnResult(tt.result)

			err := NewAssociationRepository(mock).Delete(context.Background(), "co-1", "a-1")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			assertExpectations(t, mock)
		})
	}
}

func TestEntryRepositoryCreateWritesHeaderAndLines(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO journal_entries").
		WithArgs("e-1", "co-1", "fy-2024", pgxmock.AnyArg(), "Relevé 03/2024", "Relevé du mois de 03/2024", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO journal_lines").
		WithArgs("e-1", int32(0), "6061", "AMAZON", decimalToNumeric(decimal.RequireFromString("42.50")), decimalToNumeric(decimal.Zero)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO journal_lines").
		WithArgs("e-1", int32(1), "512", "Balance 2024-03", decimalToNumeric(decimal.Zero), decimalToNumeric(decimal.RequireFromString("42.50"))).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	tx, err := newTxManagerWithPool(mock).Begin(context.Background())
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	entry := &domain.JournalEntry{
		ID:             "e-1",
		CompanyID:      "co-1",
		FiscalYearID:   "fy-2024",
		Date:           time.Date(2024, 3, 28, 0, 0, 0, 0, time.UTC),
		PieceReference: "Relevé 03/2024",
		Label:          "Relevé du mois de 03/2024",
		CreatedAt:      testNow,
		Lines: []domain.JournalLine{
			domain.NewStatementLine("6061", "AMAZON", decimal.RequireFromString("-42.50")),
			domain.NewStatementLine("512", "Balance 2024-03", decimal.RequireFromString("42.50")),
		},
	}

	if err := NewEntryRepository(mock).Create(context.Background(), tx, entry); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := tx.Commit(context.Background()); err != nil {
		t.Fatalf("commit: %v", err)
	}
	assertExpectations(t, mock)
}

func TestEntryRepositoryCreateLineFailure(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO journal_entries").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO journal_lines").
		WillReturnError(errors.New("check constraint"))
	mock.ExpectRollback()

	tx, err := newTxManagerWithPool(mock).Begin(context.Background())
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	entry := &domain.JournalEntry{
		ID: "e-1", CompanyID: "co-1", FiscalYearID: "fy-2024", Date: testNow,
		Lines: []domain.JournalLine{{AccountNumber: "512", Credit: decimal.NewFromInt(1)}},
	}
	if err := NewEntryRepository(mock).Create(context.Background(), tx, entry); err == nil {
		t.Fatalf("expected line insert error")
	}
	if err := tx.Rollback(context.Background()); err != nil {
		t.Fatalf("rollback: %v", err)
	}
	assertExpectations(t, mock)
}

func TestEntryRepositoryGetByIDLoadsLines(t *testing.T) {
	mock := newMockPool(t)
	entryDate := pgtype.Date{Time: time.Date(2024, 3, 28, 0, 0, 0, 0, time.UTC), Valid: true}
	mock.ExpectQuery("SELECT (.+) FROM journal_entries WHERE id").
		WithArgs("e-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "company_id", "fiscal_year_id", "entry_date", "piece_reference", "label", "created_at"}).
			AddRow("e-1", "co-1", "fy-2024", entryDate, "1", "AMAZON", timeToPgTimestamptz(testNow)))
	mock.ExpectQuery("SELECT (.+) FROM journal_lines").
		WithArgs([]string{"e-1"}).
		WillReturnRows(pgxmock.NewRows([]string{"entry_id", "position", "account_number", "label", "debit", "credit"}).
			AddRow("e-1", int32(0), "6061", "AMAZON", decimalToNumeric(decimal.RequireFromString("42.50")), decimalToNumeric(decimal.Zero)).
			AddRow("e-1", int32(1), "512", "AMAZON", decimalToNumeric(decimal.Zero), decimalToNumeric(decimal.RequireFromString("42.50"))))

	entry, err := NewEntryRepository(mock).GetByID(context.Background(), "e-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(entry.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(entry.Lines))
	}
	if !entry.Lines[0].Debit.Equal(decimal.RequireFromString("42.50")) || entry.Lines[1].AccountNumber != "512" {
		t.Fatalf("unexpected lines: %+v", entry.Lines)
	}
	if !entry.Date.Equal(entryDate.Time) {
		t.Fatalf("expected entry date %s, got %s", entryDate.Time, entry.Date)
	}
	assertExpectations(t, mock)
}

func TestEntryRepositoryGetByIDNotFound(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectQuery("SELECT (.+) FROM journal_entries WHERE id").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := NewEntryRepository(mock).GetByID(context.Background(), "missing")
	if !errors.Is(err, domain.ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
	assertExpectations(t, mock)
}

func TestEntryRepositoryListEmpty(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectQuery("SELECT (.+) FROM journal_entries").
		WithArgs("fy-2024", int32(50), int32(0)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "company_id", "fiscal_year_id", "entry_date", "piece_reference", "label", "created_at"}))

	entries, err := NewEntryRepository(mock).ListByFiscalYear(context.Background(), "fy-2024", 50, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entries == nil || len(entries) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", entries)
	}
	assertExpectations(t, mock)
}

func TestLedgerRepositoryCheckConsistency(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectQuery("FROM journal_lines l").
		WithArgs("fy-2024").
		WillReturnRows(pgxmock.NewRows([]string{"total_debit", "total_credit"}).
			AddRow(decimalToNumeric(decimal.RequireFromString("1250.75")), decimalToNumeric(decimal.RequireFromString("1250.75"))))

	debit, credit, err := NewLedgerRepository(mock).CheckConsistency(context.Background(), "fy-2024")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !debit.Equal(decimal.RequireFromString("1250.75")) || !debit.Equal(credit) {
		t.Fatalf("unexpected totals: debit=%s credit=%s", debit, credit)
	}
	assertExpectations(t, mock)
}

func TestNumericRoundTrip(t *testing.T) {
	for _, s := range []string{"0", "42.5", "-1300.00", "0.01"} {
		d := decimal.RequireFromString(s)
		if got := numericToDecimal(decimalToNumeric(d)); !got.Equal(d) {
			t.Fatalf("round trip of %s gave %s", s, got)
		}
	}

	if !numericToDecimal(pgtype.Numeric{}).IsZero() {
		t.Fatalf("expected invalid numeric to map to zero")
	}
}

func TestULIDGeneratorIsMonotonic(t *testing.T) {
	g := NewULIDGenerator()
	prev := g.Generate()
	for i := 0; i < 100; i++ {
		next := g.Generate()
		if next <= prev {
			t.Fatalf("expected increasing IDs, got %s after %s", next, prev)
		}
		prev = next
	}
}
