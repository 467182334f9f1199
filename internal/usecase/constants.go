package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// DefaultCounterpartAccount is the bank account statement lines are balanced against
	DefaultCounterpartAccount = "512"

	// Import outcomes reported to MetricsRecorder
	OutcomeSuccess         = "success"
	OutcomeUnresolved      = "unresolved"
	OutcomeUnknownAccounts = "unknown_accounts"
	OutcomeHalted          = "halted"
	OutcomeInvalid         = "invalid"

	// Association write outcomes
	WriteSaved   = "saved"
	WriteFailed  = "failed"
	WriteDropped = "dropped"
)
