package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/bankrecon/internal/domain"
	"github.com/iho/bankrecon/internal/reconcile"
	"github.com/iho/bankrecon/internal/statement"
)

// ImportDefaults fill in the settings an import request leaves empty.
type ImportDefaults struct {
	Mode               domain.Mode
	CounterpartAccount string
	Delimiter          rune
}

// ImportUseCase runs statement imports: parse, resolve, build, submit.
type ImportUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	assocRepo   AssociationRepository
	entryRepo   EntryRepository
	idGen       IDGenerator
	queue       AssociationQueue
	metrics     MetricsRecorder
	defaults    ImportDefaults
	logger      zerolog.Logger
}

// NewImportUseCase creates a new ImportUseCase.
func NewImportUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	assocRepo AssociationRepository,
	entryRepo EntryRepository,
	idGen IDGenerator,
	queue AssociationQueue,
	metrics MetricsRecorder,
	defaults ImportDefaults,
	logger zerolog.Logger,
) *ImportUseCase {
	if metrics == nil {
		metrics = NopRecorder{}
	}
	if defaults.Mode == "" {
		defaults.Mode = domain.ModeMonthly
	}
	if defaults.CounterpartAccount == "" {
		defaults.CounterpartAccount = DefaultCounterpartAccount
	}
	if defaults.Delimiter == 0 {
		defaults.Delimiter = statement.DefaultDelimiter
	}

	return &ImportUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		assocRepo:   assocRepo,
		entryRepo:   entryRepo,
		idGen:       idGen,
		queue:       queue,
		metrics:     metrics,
		defaults:    defaults,
		logger:      logger,
	}
}

// Assignment is a user correction applied before building entries.
// When Record is set the account goes to that record index, otherwise to
// every real record labeled Label.
type Assignment struct {
	Label   string
	Record  *int
	Account string
}

// ImportInput represents input for previewing or confirming an import.
type ImportInput struct {
	Fiscal             domain.FiscalContext
	Mode               domain.Mode
	CounterpartAccount string
	Delimiter          rune
	Statement          io.Reader
	Assignments        []Assignment
}

// ImportPreview is the outcome of a dry run.
type ImportPreview struct {
	Records         []domain.TransactionRecord
	Diagnostics     []statement.Diagnostic
	Unresolved      []string
	UnknownAccounts []string
	Plan            *reconcile.Plan
}

// ImportReport is the outcome of a confirmed import.
type ImportReport struct {
	Mode               domain.Mode
	Parsed             int
	Diagnostics        []statement.Diagnostic
	Entries            []*domain.JournalEntry
	Rejected           []reconcile.Rejection
	AssociationsQueued int
	Submitted          int
	Failed             int
	NotAttempted       int
}

// SubmissionError reports an import halted by a Ledger Store failure.
// Entries submitted before the failure stay committed.
type SubmissionError struct {
	Piece        string
	Submitted    int
	Failed       int
	NotAttempted int
	Err          error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("%s at piece %q: %d submitted, %d failed, %d not attempted: %v",
		domain.ErrSubmissionHalted, e.Piece, e.Submitted, e.Failed, e.NotAttempted, e.Err)
}

func (e *SubmissionError) Unwrap() []error {
	return []error{domain.ErrSubmissionHalted, e.Err}
}

// Preview parses and resolves the statement without persisting anything.
// Plan is nil while labels remain unresolved.
func (uc *ImportUseCase) Preview(ctx context.Context, input ImportInput) (*ImportPreview, error) {
	session, parsed, err := uc.prepare(ctx, input)
	if err != nil {
		return nil, err
	}

	preview := &ImportPreview{
		Records:     session.Records,
		Diagnostics: parsed.Diagnostics,
		Unresolved:  session.Unresolved(),
	}

	if len(preview.Unresolved) > 0 || len(session.RealRecords()) == 0 {
		return preview, nil
	}

	plan, err := reconcile.Build(session)
	if err != nil {
		return nil, err
	}
	preview.Plan = plan

	unknown, err := uc.unknownAccounts(ctx, input.Fiscal.CompanyID, plan)
	if err != nil {
		return nil, err
	}
	preview.UnknownAccounts = unknown

	return preview, nil
}

// Confirm builds the entries and submits them one at a time. Association
// writes from the assignments are queued before building, whatever the
// outcome. On a Ledger Store failure the report is returned together with a
// *SubmissionError.
func (uc *ImportUseCase) Confirm(ctx context.Context, input ImportInput) (*ImportReport, error) {
	start := time.Now()

	session, parsed, err := uc.prepare(ctx, input)
	if err != nil {
		uc.metrics.RecordImport(input.Mode, OutcomeInvalid, time.Since(start))
		return nil, err
	}
	mode := session.Config.Mode

	report := &ImportReport{
		Mode:        mode,
		Parsed:      len(parsed.Records),
		Diagnostics: parsed.Diagnostics,
	}
	report.AssociationsQueued = uc.enqueue(session.PendingWrites())

	plan, err := reconcile.Build(session)
	if err != nil {
		outcome := OutcomeInvalid
		if errors.Is(err, domain.ErrUnresolvedAccounts) {
			outcome = OutcomeUnresolved
		}
		uc.metrics.RecordImport(mode, outcome, time.Since(start))
		return nil, err
	}
	report.Rejected = plan.Rejected

	unknown, err := uc.unknownAccounts(ctx, input.Fiscal.CompanyID, plan)
	if err != nil {
		return nil, err
	}
	if len(unknown) > 0 {
		uc.metrics.RecordImport(mode, OutcomeUnknownAccounts, time.Since(start))
		return nil, &domain.UnknownAccountsError{Numbers: unknown}
	}

	// Cancellation is honored up to here only.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	err = uc.submit(context.WithoutCancel(ctx), input.Fiscal, plan.Drafts, report)
	uc.metrics.RecordEntries(report.Submitted, report.Failed, len(report.Rejected))
	if err != nil {
		uc.metrics.RecordImport(mode, OutcomeHalted, time.Since(start))
		return report, err
	}

	uc.metrics.RecordImport(mode, OutcomeSuccess, time.Since(start))
	uc.logger.Info().
		Str("company_id", input.Fiscal.CompanyID).
		Str("fiscal_year_id", input.Fiscal.FiscalYearID).
		Str("mode", string(mode)).
		Int("entries", report.Submitted).
		Int("rejected", len(report.Rejected)).
		Int("skipped_rows", len(report.Diagnostics)).
		Msg("statement imported")

	return report, nil
}

func (uc *ImportUseCase) prepare(ctx context.Context, input ImportInput) (*reconcile.Session, *statement.Result, error) {
	if err := input.Fiscal.Validate(); err != nil {
		return nil, nil, err
	}
	if input.Statement == nil {
		return nil, nil, domain.ErrEmptyStatement
	}

	cfg := reconcile.Config{
		Mode:               input.Mode,
		CounterpartAccount: input.CounterpartAccount,
	}
	if cfg.Mode == "" {
		cfg.Mode = uc.defaults.Mode
	}
	if cfg.CounterpartAccount == "" {
		cfg.CounterpartAccount = uc.defaults.CounterpartAccount
	}
	delim := input.Delimiter
	if delim == 0 {
		delim = uc.defaults.Delimiter
	}

	parsed, err := statement.Parse(input.Statement, statement.Options{Delimiter: delim})
	if err != nil {
		return nil, nil, err
	}
	uc.metrics.RecordParse(len(parsed.Records), parsed.Skipped())

	for _, d := range parsed.Diagnostics {
		uc.logger.Debug().
			Int("line", d.Line).
			Str("reason", d.Reason).
			Msg("statement line skipped")
	}

	assocs, err := uc.assocRepo.FindByCompany(ctx, input.Fiscal.CompanyID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load associations: %w", err)
	}

	session, err := reconcile.NewSession(input.Fiscal, cfg, parsed.Records, reconcile.NewAssociationTable(assocs), uc.logger)
	if err != nil {
		return nil, nil, err
	}

	for _, a := range input.Assignments {
		if a.Record != nil {
			err = session.AssignRecord(*a.Record, a.Account)
		} else {
			_, err = session.Assign(a.Label, a.Account)
		}
		if err != nil {
			return nil, nil, fmt.Errorf("assignment %q→%q: %w", a.Label, a.Account, err)
		}
	}

	return session, parsed, nil
}

func (uc *ImportUseCase) enqueue(writes []domain.AssociationWrite) int {
	if uc.queue == nil {
		return 0
	}
	queued := 0
	for _, w := range writes {
		if uc.queue.Enqueue(w) {
			queued++
		}
	}
	return queued
}

// unknownAccounts returns the sorted account numbers used by the plan that
// are missing from the company's chart of accounts.
func (uc *ImportUseCase) unknownAccounts(ctx context.Context, companyID string, plan *reconcile.Plan) ([]string, error) {
	accounts, err := uc.accountRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load chart of accounts: %w", err)
	}
	chart := domain.NewChartOfAccounts(accounts)

	missing := make(map[string]struct{})
	for _, d := range plan.Drafts {
		for _, l := range d.Lines {
			if !chart.Has(l.AccountNumber) {
				missing[l.AccountNumber] = struct{}{}
			}
		}
	}

	numbers := make([]string, 0, len(missing))
	for n := range missing {
		numbers = append(numbers, n)
	}
	sort.Strings(numbers)

	return numbers, nil
}

func (uc *ImportUseCase) submit(ctx context.Context, fiscal domain.FiscalContext, drafts []domain.JournalEntryDraft, report *ImportReport) error {
	for i, d := range drafts {
		entry := domain.NewJournalEntry(uc.idGen.Generate(), fiscal, d, time.Now().UTC())

		if err := uc.createEntry(ctx, entry); err != nil {
			report.Failed = 1
			report.NotAttempted = len(drafts) - i - 1

			uc.logger.Error().Err(err).
				Str("piece", d.PieceReference).
				Int("submitted", report.Submitted).
				Int("not_attempted", report.NotAttempted).
				Msg("entry submission failed, halting import")

			return &SubmissionError{
				Piece:        d.PieceReference,
				Submitted:    report.Submitted,
				Failed:       report.Failed,
				NotAttempted: report.NotAttempted,
				Err:          err,
			}
		}

		report.Entries = append(report.Entries, entry)
		report.Submitted++
	}

	return nil
}

func (uc *ImportUseCase) createEntry(ctx context.Context, entry *domain.JournalEntry) error {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer tx.Rollback(txCtx)

	if err := uc.entryRepo.Create(txCtx, tx, entry); err != nil {
		return err
	}

	return tx.Commit(txCtx)
}
