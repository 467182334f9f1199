package reconcile

import (
	"github.com/iho/bankrecon/internal/domain"
)

// Rejection is a draft that failed validation after being built.
type Rejection struct {
	Draft domain.JournalEntryDraft
	Err   error
}

// Plan lists the effects of a session: drafts to submit in order and
// association writes to persist.
type Plan struct {
	Mode              domain.Mode
	Drafts            []domain.JournalEntryDraft
	AssociationWrites []domain.AssociationWrite
	Rejected          []Rejection
}

// Build assembles journal entry drafts from the session. If any record lacks
// an account the whole batch is refused with *domain.UnresolvedError and no
// draft is produced.
func Build(s *Session) (*Plan, error) {
	records := s.RealRecords()
	if len(records) == 0 {
		return nil, domain.ErrEmptyStatement
	}

	if labels := s.Unresolved(); len(labels) > 0 {
		return nil, &domain.UnresolvedError{Labels: labels}
	}

	var drafts []domain.JournalEntryDraft
	switch s.Config.Mode {
	case domain.ModePerLine:
		drafts = buildPerLine(s.Config.CounterpartAccount, records)
	default:
		drafts = buildMonthly(s)
	}

	plan := &Plan{
		Mode:              s.Config.Mode,
		AssociationWrites: s.PendingWrites(),
	}
	for _, d := range drafts {
		if err := d.Validate(); err != nil {
			s.logger.Error().Err(err).
				Str("piece", d.PieceReference).
				Msg("built entry failed validation")
			plan.Rejected = append(plan.Rejected, Rejection{Draft: d, Err: err})
			continue
		}
		plan.Drafts = append(plan.Drafts, d)
	}

	return plan, nil
}

func buildMonthly(s *Session) []domain.JournalEntryDraft {
	balances := make(map[domain.PeriodKey]domain.TransactionRecord)
	for _, r := range s.Records {
		if r.Synthetic {
			balances[r.Period] = r
		}
	}

	aggs := GroupByPeriod(s.Records)
	drafts := make([]domain.JournalEntryDraft, 0, len(aggs))

	for _, a := range aggs {
		piece := MonthlyPiece(a.Period)
		lines := make([]domain.JournalLine, 0, len(a.Records)+1)

		for _, r := range a.Records {
			lines = append(lines, domain.NewStatementLine(r.Account.String(), r.Label, r.Amount))
		}

		balance, ok := balances[a.Period]
		if !ok {
			balance = BalanceRecords([]domain.PeriodAggregate{a}, s.Config.CounterpartAccount)[0]
		}
		if !balance.Amount.IsZero() {
			lines = append(lines, domain.NewStatementLine(balance.Account.String(), balance.Label, balance.Amount))
		}

		drafts = append(drafts, domain.JournalEntryDraft{
			Date:           a.LatestDate,
			PieceReference: piece,
			Label:          MonthlyEntryLabel(a.Period),
			Lines:          lines,
		})
	}

	return drafts
}

func buildPerLine(counterpart string, records []domain.TransactionRecord) []domain.JournalEntryDraft {
	drafts := make([]domain.JournalEntryDraft, 0, len(records))
	for _, r := range records {
		line := domain.NewStatementLine(r.Account.String(), r.Label, r.Amount)
		drafts = append(drafts, domain.JournalEntryDraft{
			Date:           r.Date,
			PieceReference: r.PieceReference,
			Label:          r.Label,
			Lines:          []domain.JournalLine{line, line.Opposite(counterpart, r.Label)},
		})
	}
	return drafts
}
