package domain

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Validation constants
const (
	MaxLabelLength         = 512
	MaxAccountNumberLength = 32
	MaxAccountNameLength   = 255
)

var accountNumberRegex = regexp.MustCompile(`^[0-9A-Za-z][0-9A-Za-z._-]*$`)

// ValidateAccountNumber validates a ledger account number such as 601 or 512000.
func ValidateAccountNumber(number string) error {
	if number == "" {
		return fmt.Errorf("%w: number cannot be empty", ErrInvalidAccountNumber)
	}

	if len(number) > MaxAccountNumberLength {
		return fmt.Errorf("%w: number exceeds %d characters", ErrInvalidAccountNumber, MaxAccountNumberLength)
	}

	if !accountNumberRegex.MatchString(number) {
		return fmt.Errorf("%w: %q", ErrInvalidAccountNumber, number)
	}

	return nil
}

// ValidateAccountName validates an account name.
func ValidateAccountName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidAccountName)
	}

	if utf8.RuneCountInString(name) > MaxAccountNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidAccountName, MaxAccountNameLength)
	}

	return nil
}

// ValidateLabel validates an association key. Labels are matched exactly and
// by prefix, so an empty label would match everything.
func ValidateLabel(label string) error {
	if strings.TrimSpace(label) == "" {
		return fmt.Errorf("%w: label cannot be empty", ErrInvalidLabel)
	}

	if utf8.RuneCountInString(label) > MaxLabelLength {
		return fmt.Errorf("%w: label exceeds %d characters", ErrInvalidLabel, MaxLabelLength)
	}

	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int, error) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset, nil
}
