package reconcile

import (
	"strconv"

	"github.com/iho/bankrecon/internal/domain"
)

// MonthlyPiece is the piece reference shared by all lines of a period.
func MonthlyPiece(p domain.PeriodKey) string {
	return "Relevé " + p.Statement()
}

// MonthlyEntryLabel is the label of the entry built for a period.
func MonthlyEntryLabel(p domain.PeriodKey) string {
	return "Relevé du mois de " + p.Statement()
}

// AssignPieces sets PieceReference on every record in place.
//
// In per-line mode the counter starts at 1 and advances once per real
// record in slice order, across period boundaries.
func AssignPieces(mode domain.Mode, records []domain.TransactionRecord) {
	switch mode {
	case domain.ModePerLine:
		n := 0
		for i := range records {
			if records[i].Synthetic {
				records[i].PieceReference = ""
				continue
			}
			n++
			records[i].PieceReference = strconv.Itoa(n)
		}
	default:
		for i := range records {
			records[i].PieceReference = MonthlyPiece(records[i].Period)
		}
	}
}
