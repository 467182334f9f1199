package reconcile

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/iho/bankrecon/internal/domain"
)

// Config holds the balancing settings of an import session.
type Config struct {
	Mode               domain.Mode
	CounterpartAccount string
}

// Session is the state of one statement import: its records, the
// association table used to resolve them and the association writes
// produced by user assignments.
type Session struct {
	Fiscal       domain.FiscalContext
	Config       Config
	Records      []domain.TransactionRecord
	Associations AssociationTable

	writes     []domain.AssociationWrite
	writeIndex map[string]int
	logger     zerolog.Logger
}

// NewSession pre-fills accounts from the association table and, in monthly
// mode, appends one balance record per period. records is not modified.
func NewSession(
	fiscal domain.FiscalContext,
	cfg Config,
	records []domain.TransactionRecord,
	assocs AssociationTable,
	logger zerolog.Logger,
) (*Session, error) {
	if !cfg.Mode.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidMode, cfg.Mode)
	}
	if cfg.CounterpartAccount == "" {
		return nil, domain.ErrMissingCounterpart
	}
	if err := domain.ValidateAccountNumber(cfg.CounterpartAccount); err != nil {
		return nil, fmt.Errorf("counterpart: %w", err)
	}

	if assocs == nil {
		assocs = AssociationTable{}
	}

	s := &Session{
		Fiscal:       fiscal,
		Config:       cfg,
		Associations: assocs.Clone(),
		writeIndex:   make(map[string]int),
		logger:       logger,
	}

	s.Records = make([]domain.TransactionRecord, 0, len(records))
	for _, r := range records {
		if r.Synthetic {
			continue
		}
		r.Account = s.Associations.Resolve(r.Label)
		s.Records = append(s.Records, r)
	}

	if cfg.Mode == domain.ModeMonthly {
		aggs := GroupByPeriod(s.Records)
		for _, a := range aggs {
			if a.Net.IsZero() {
				s.logger.Warn().
					Str("period", a.Period.String()).
					Int("records", len(a.Records)).
					Msg("period nets to zero, balance line has no amount")
			}
		}
		s.Records = append(s.Records, BalanceRecords(aggs, cfg.CounterpartAccount)...)
	}

	AssignPieces(cfg.Mode, s.Records)

	return s, nil
}

// Assign maps label to account and applies it to every real record carrying
// exactly that label. It returns the number of records updated.
func (s *Session) Assign(label, account string) (int, error) {
	if err := domain.ValidateLabel(label); err != nil {
		return 0, err
	}
	if err := domain.ValidateAccountNumber(account); err != nil {
		return 0, err
	}

	s.Associations[label] = account

	ref := domain.AccountOf(account)
	updated := 0
	for i := range s.Records {
		if s.Records[i].Synthetic || s.Records[i].Label != label {
			continue
		}
		s.Records[i].Account = ref
		updated++
	}

	s.queueWrite(domain.AssociationWrite{
		CompanyID:     s.Fiscal.CompanyID,
		Label:         label,
		AccountNumber: account,
	})

	return updated, nil
}

// AssignRecord sets the account of the record at index. A balance record is
// overridden on its own; a real record is assigned through its label.
func (s *Session) AssignRecord(index int, account string) error {
	if index < 0 || index >= len(s.Records) {
		return fmt.Errorf("%w: %d", domain.ErrRecordIndexOutOfRange, index)
	}

	if s.Records[index].Synthetic {
		if err := domain.ValidateAccountNumber(account); err != nil {
			return err
		}
		s.Records[index].Account = domain.AccountOf(account)
		return nil
	}

	_, err := s.Assign(s.Records[index].Label, account)
	return err
}

func (s *Session) queueWrite(w domain.AssociationWrite) {
	if i, ok := s.writeIndex[w.Label]; ok {
		s.writes[i] = w
		return
	}
	s.writeIndex[w.Label] = len(s.writes)
	s.writes = append(s.writes, w)
}

// PendingWrites returns the association writes queued by Assign, one per
// label, holding the last account assigned to it.
func (s *Session) PendingWrites() []domain.AssociationWrite {
	out := make([]domain.AssociationWrite, len(s.writes))
	copy(out, s.writes)
	return out
}

// Unresolved returns the distinct labels of records without an account,
// in the order they first appear. Balance records count in monthly mode.
func (s *Session) Unresolved() []string {
	seen := make(map[string]struct{})
	var labels []string
	for _, r := range s.Records {
		if r.Account.IsSet() {
			continue
		}
		if _, ok := seen[r.Label]; ok {
			continue
		}
		seen[r.Label] = struct{}{}
		labels = append(labels, r.Label)
	}
	return labels
}

// RealRecords returns the records parsed from the statement.
func (s *Session) RealRecords() []domain.TransactionRecord {
	out := make([]domain.TransactionRecord, 0, len(s.Records))
	for _, r := range s.Records {
		if !r.Synthetic {
			out = append(out, r)
		}
	}
	return out
}
