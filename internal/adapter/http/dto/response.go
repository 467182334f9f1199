package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankrecon/internal/domain"
	"github.com/iho/bankrecon/internal/reconcile"
	"github.com/iho/bankrecon/internal/statement"
	"github.com/iho/bankrecon/internal/usecase"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Number    string    `json:"number"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:        a.ID,
		CompanyID: a.CompanyID,
		Number:    a.Number,
		Name:      a.Name,
		CreatedAt: a.CreatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// AssociationResponse represents a label association in API responses.
type AssociationResponse struct {
	ID            string    `json:"id"`
	CompanyID     string    `json:"company_id"`
	Label         string    `json:"label"`
	AccountNumber string    `json:"account_number"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// AssociationFromDomain converts a domain association to response.
func AssociationFromDomain(a *domain.AccountAssociation) *AssociationResponse {
	return &AssociationResponse{
		ID:            a.ID,
		CompanyID:     a.CompanyID,
		Label:         a.Label,
		AccountNumber: a.AccountNumber,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

// AssociationsFromDomain converts domain associations to responses.
func AssociationsFromDomain(assocs []*domain.AccountAssociation) []*AssociationResponse {
	result := make([]*AssociationResponse, len(assocs))
	for i, a := range assocs {
		result[i] = AssociationFromDomain(a)
	}
	return result
}

// JournalLineResponse represents one posting.
type JournalLineResponse struct {
	AccountNumber string          `json:"account_number"`
	Label         string          `json:"label"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
}

func linesFromDomain(lines []domain.JournalLine) []JournalLineResponse {
	result := make([]JournalLineResponse, len(lines))
	for i, l := range lines {
		result[i] = JournalLineResponse{
			AccountNumber: l.AccountNumber,
			Label:         l.Label,
			Debit:         l.Debit,
			Credit:        l.Credit,
		}
	}
	return result
}

// EntryResponse represents a stored journal entry.
type EntryResponse struct {
	ID             string                `json:"id"`
	CompanyID      string                `json:"company_id"`
	FiscalYearID   string                `json:"fiscal_year_id"`
	Date           string                `json:"date"`
	PieceReference string                `json:"piece_reference"`
	Label          string                `json:"label"`
	Lines          []JournalLineResponse `json:"lines"`
	CreatedAt      time.Time             `json:"created_at"`
}

// EntryFromDomain converts domain entry to response.
func EntryFromDomain(e *domain.JournalEntry) *EntryResponse {
	return &EntryResponse{
		ID:             e.ID,
		CompanyID:      e.CompanyID,
		FiscalYearID:   e.FiscalYearID,
		Date:           e.Date.Format(time.DateOnly),
		PieceReference: e.PieceReference,
		Label:          e.Label,
		Lines:          linesFromDomain(e.Lines),
		CreatedAt:      e.CreatedAt,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.JournalEntry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// DraftResponse represents an entry that has been built but not stored.
type DraftResponse struct {
	Date           string                `json:"date"`
	PieceReference string                `json:"piece_reference"`
	Label          string                `json:"label"`
	Lines          []JournalLineResponse `json:"lines"`
}

func draftFromDomain(d domain.JournalEntryDraft) DraftResponse {
	return DraftResponse{
		Date:           d.Date.Format(time.DateOnly),
		PieceReference: d.PieceReference,
		Label:          d.Label,
		Lines:          linesFromDomain(d.Lines),
	}
}

// RejectionResponse represents a draft refused by validation.
type RejectionResponse struct {
	Draft DraftResponse `json:"draft"`
	Error string        `json:"error"`
}

func rejectionsFromDomain(rejected []reconcile.Rejection) []RejectionResponse {
	result := make([]RejectionResponse, len(rejected))
	for i, r := range rejected {
		result[i] = RejectionResponse{Draft: draftFromDomain(r.Draft), Error: r.Err.Error()}
	}
	return result
}

// RecordResponse represents a statement line in a session.
type RecordResponse struct {
	Index          int             `json:"index"`
	Line           int             `json:"line,omitempty"`
	Date           string          `json:"date"`
	Period         string          `json:"period"`
	Label          string          `json:"label"`
	Amount         decimal.Decimal `json:"amount"`
	Account        string          `json:"account,omitempty"`
	PieceReference string          `json:"piece_reference,omitempty"`
	Synthetic      bool            `json:"synthetic,omitempty"`
}

// DiagnosticResponse explains a skipped line.
type DiagnosticResponse struct {
	Line   int    `json:"line"`
	Raw    string `json:"raw"`
	Reason string `json:"reason"`
}

func diagnosticsFromDomain(diags []statement.Diagnostic) []DiagnosticResponse {
	result := make([]DiagnosticResponse, len(diags))
	for i, d := range diags {
		result[i] = DiagnosticResponse{Line: d.Line, Raw: d.Raw, Reason: d.Reason}
	}
	return result
}

// PreviewResponse is the result of a dry-run import.
type PreviewResponse struct {
	Records         []RecordResponse     `json:"records"`
	Diagnostics     []DiagnosticResponse `json:"diagnostics"`
	Unresolved      []string             `json:"unresolved"`
	UnknownAccounts []string             `json:"unknown_accounts"`
	Drafts          []DraftResponse      `json:"drafts"`
	Rejected        []RejectionResponse  `json:"rejected"`
}

// PreviewFromUseCase converts a preview to response.
func PreviewFromUseCase(p *usecase.ImportPreview) *PreviewResponse {
	resp := &PreviewResponse{
		Records:         make([]RecordResponse, len(p.Records)),
		Diagnostics:     diagnosticsFromDomain(p.Diagnostics),
		Unresolved:      nonNil(p.Unresolved),
		UnknownAccounts: nonNil(p.UnknownAccounts),
		Drafts:          []DraftResponse{},
		Rejected:        []RejectionResponse{},
	}

	for i, r := range p.Records {
		resp.Records[i] = RecordResponse{
			Index:          i,
			Line:           r.Line,
			Date:           r.Date.Format(time.DateOnly),
			Period:         r.Period.String(),
			Label:          r.Label,
			Amount:         r.Amount,
			Account:        r.Account.String(),
			PieceReference: r.PieceReference,
			Synthetic:      r.Synthetic,
		}
	}

	if p.Plan != nil {
		for _, d := range p.Plan.Drafts {
			resp.Drafts = append(resp.Drafts, draftFromDomain(d))
		}
		resp.Rejected = rejectionsFromDomain(p.Plan.Rejected)
	}

	return resp
}

// ImportReportResponse is the result of a confirmed import.
type ImportReportResponse struct {
	Mode               string               `json:"mode"`
	Parsed             int                  `json:"parsed"`
	Diagnostics        []DiagnosticResponse `json:"diagnostics"`
	Entries            []*EntryResponse     `json:"entries"`
	Rejected           []RejectionResponse  `json:"rejected"`
	AssociationsQueued int                  `json:"associations_queued"`
	Submitted          int                  `json:"submitted"`
	Failed             int                  `json:"failed"`
	NotAttempted       int                  `json:"not_attempted"`
}

// ImportReportFromUseCase converts an import report to response.
func ImportReportFromUseCase(r *usecase.ImportReport) *ImportReportResponse {
	return &ImportReportResponse{
		Mode:               string(r.Mode),
		Parsed:             r.Parsed,
		Diagnostics:        diagnosticsFromDomain(r.Diagnostics),
		Entries:            EntriesFromDomain(r.Entries),
		Rejected:           rejectionsFromDomain(r.Rejected),
		AssociationsQueued: r.AssociationsQueued,
		Submitted:          r.Submitted,
		Failed:             r.Failed,
		NotAttempted:       r.NotAttempted,
	}
}

// SaveAssociationsResponse reports how many associations were stored.
type SaveAssociationsResponse struct {
	Saved int `json:"saved"`
}

// ConsistencyResponse reports the debit and credit totals of a fiscal year.
type ConsistencyResponse struct {
	FiscalYearID string          `json:"fiscal_year_id"`
	Status       string          `json:"status"`
	Consistent   bool            `json:"consistent"`
	TotalDebit   decimal.Decimal `json:"total_debit"`
	TotalCredit  decimal.Decimal `json:"total_credit"`
}

// ConsistencyFromUseCase converts a consistency report to response.
func ConsistencyFromUseCase(r *usecase.ConsistencyReport) *ConsistencyResponse {
	status := "consistent"
	if !r.Consistent {
		status = "inconsistent"
	}
	return &ConsistencyResponse{
		FiscalYearID: r.FiscalYearID,
		Status:       status,
		Consistent:   r.Consistent,
		TotalDebit:   r.TotalDebit,
		TotalCredit:  r.TotalCredit,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error    string                `json:"error"`
	Message  string                `json:"message,omitempty"`
	Labels   []string              `json:"labels,omitempty"`
	Accounts []string              `json:"accounts,omitempty"`
	Report   *ImportReportResponse `json:"report,omitempty"`
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
