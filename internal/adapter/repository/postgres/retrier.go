package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

// PostgreSQL error codes worth another attempt.
const (
	pgErrDeadlock             = "40P01"
	pgErrSerializationFailure = "40001"
	pgErrLockNotAvailable     = "55P03"
	pgErrConnectionFailure    = "08006"
)

// Retrier implements usecase.Retrier with capped exponential backoff.
// Association upserts run through it from the background sync worker, so
// dropped connections count as transient alongside lock conflicts.
type Retrier struct {
	maxRetries      int
	initialInterval time.Duration
	maxInterval     time.Duration
	maxElapsedTime  time.Duration
	logger          zerolog.Logger
}

// NewRetrier creates a retrier allowing maxRetries extra attempts.
// maxRetries <= 0 uses 3.
func NewRetrier(maxRetries int, logger zerolog.Logger) *Retrier {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &Retrier{
		maxRetries:      maxRetries,
		initialInterval: 50 * time.Millisecond,
		maxInterval:     time.Second,
		maxElapsedTime:  10 * time.Second,
		logger:          logger,
	}
}

func (r *Retrier) policy(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = r.initialInterval
	exp.MaxInterval = r.maxInterval
	exp.MaxElapsedTime = r.maxElapsedTime
	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(r.maxRetries)), ctx)
}

// Retry runs operation until it succeeds, fails permanently, or the
// retry budget is spent. The last error is returned unwrapped.
func (r *Retrier) Retry(ctx context.Context, operation func() error) error {
	attempt := 0
	classified := func() error {
		attempt++
		err := operation()
		if err != nil && !isRetryableError(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		r.logger.Warn().Err(err).
			Int("attempt", attempt).
			Dur("wait", wait).
			Msg("transient database error, retrying")
	}

	return backoff.RetryNotify(classified, r.policy(ctx), notify)
}

func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrDeadlock, pgErrSerializationFailure, pgErrLockNotAvailable, pgErrConnectionFailure:
			return true
		}
		return false
	}
	// Failures before the statement reached the server.
	return pgconn.SafeToRetry(err)
}
