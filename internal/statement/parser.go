// Package statement parses delimited bank statement exports into
// transaction records.
package statement

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankrecon/internal/domain"
)

// DefaultDelimiter is the field separator used by French bank exports.
const DefaultDelimiter = ';'

const dateLayout = "02-01-2006"

// Diagnostic explains why a line was skipped.
type Diagnostic struct {
	Line   int
	Raw    string
	Reason string
}

// Options configures a parse pass.
type Options struct {
	Delimiter rune
}

// Result holds the records of a parse pass and the lines that were skipped.
type Result struct {
	Records     []domain.TransactionRecord
	Diagnostics []Diagnostic
}

// Skipped returns the number of skipped lines.
func (r *Result) Skipped() int {
	return len(r.Diagnostics)
}

// Parse reads a statement with a header line followed by date;label;amount
// rows. Malformed rows are reported as diagnostics and do not fail the pass.
// Records are returned sorted by date, keeping input order for equal dates.
func Parse(r io.Reader, opts Options) (*Result, error) {
	delim := opts.Delimiter
	if delim == 0 {
		delim = DefaultDelimiter
	}

	reader := csv.NewReader(r)
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = false

	result := &Result{}
	header := true

	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				if header {
					header = false
					continue
				}
				result.Diagnostics = append(result.Diagnostics, Diagnostic{
					Line:   perr.StartLine,
					Reason: perr.Err.Error(),
				})
				continue
			}
			return nil, fmt.Errorf("failed to read statement: %w", err)
		}

		if header {
			header = false
			continue
		}

		line, _ := reader.FieldPos(0)
		raw := strings.Join(fields, string(delim))

		if len(fields) < 3 {
			result.Diagnostics = append(result.Diagnostics, Diagnostic{
				Line:   line,
				Raw:    raw,
				Reason: fmt.Sprintf("expected 3 fields, got %d", len(fields)),
			})
			continue
		}

		rec, reason := parseRow(line, fields)
		if reason != "" {
			result.Diagnostics = append(result.Diagnostics, Diagnostic{Line: line, Raw: raw, Reason: reason})
			continue
		}

		result.Records = append(result.Records, rec)
	}

	sort.SliceStable(result.Records, func(i, j int) bool {
		return result.Records[i].Date.Before(result.Records[j].Date)
	})

	return result, nil
}

func parseRow(line int, fields []string) (domain.TransactionRecord, string) {
	rawDate := strings.TrimSpace(fields[0])
	label := strings.TrimSpace(fields[1])

	date, err := ParseDate(rawDate)
	if err != nil {
		return domain.TransactionRecord{}, err.Error()
	}

	// A label that cannot key an association could never be resolved.
	if err := domain.ValidateLabel(label); err != nil {
		return domain.TransactionRecord{}, err.Error()
	}

	amount, err := ParseAmount(fields[2])
	if err != nil {
		return domain.TransactionRecord{}, err.Error()
	}
	if amount.IsZero() {
		return domain.TransactionRecord{}, "zero amount"
	}

	return domain.NewTransactionRecord(line, rawDate, label, amount, date), ""
}

// ParseDate parses DD-MM-YYYY with an optional trailing time of day and
// returns the calendar date at midnight UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, " T"); i >= 0 {
		s = s[:i]
	}

	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}

	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

var amountCleaner = strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "", "'", "")

// ParseAmount parses a signed decimal-comma amount such as "-1 234,56" and
// rounds it to two decimals. Dots are thousands separators only when they
// precede the comma; "1,234.56" is rejected.
func ParseAmount(s string) (decimal.Decimal, error) {
	cleaned := amountCleaner.Replace(strings.TrimSpace(s))
	if comma := strings.Index(cleaned, ","); comma >= 0 {
		if strings.Contains(cleaned[comma:], ".") {
			return decimal.Zero, fmt.Errorf("invalid amount %q", strings.TrimSpace(s))
		}
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	}
	cleaned = strings.TrimPrefix(cleaned, "+")

	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", strings.TrimSpace(s))
	}

	return d.Round(2), nil
}
