package domain

import (
	"fmt"
	"strings"
)

// Mode selects how statement lines are balanced into journal entries.
type Mode string

const (
	// ModeMonthly produces one entry per calendar month, balanced by a
	// synthetic line on the counterpart account.
	ModeMonthly Mode = "monthly"

	// ModePerLine produces one two-line entry per statement line.
	ModePerLine Mode = "per_line"
)

// ParseMode parses a mode name. The empty string yields ModeMonthly.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(ModeMonthly):
		return ModeMonthly, nil
	case string(ModePerLine), "per-line", "perline":
		return ModePerLine, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// IsValid reports whether m is a known mode.
func (m Mode) IsValid() bool {
	return m == ModeMonthly || m == ModePerLine
}
