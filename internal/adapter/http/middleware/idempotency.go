package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/bankrecon/internal/infrastructure/logger"
	"github.com/iho/bankrecon/internal/usecase"
)

const (
	// IdempotencyKeyHeader is the header name for idempotency keys.
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyReplayHeader marks a response served from the store.
	IdempotencyReplayHeader = "X-Idempotency-Replay"
	// DefaultIdempotencyTTL is used when no TTL is configured.
	DefaultIdempotencyTTL = 24 * time.Hour

	processingMarker = "processing"
)

// storedResponse is what gets cached for a key.
type storedResponse struct {
	Status int    `json:"status"`
	Body   []byte `json:"body"`
}

// IdempotencyMiddleware replays the response of a previous request that
// carried the same Idempotency-Key.
type IdempotencyMiddleware struct {
	store  usecase.IdempotencyStore
	ttl    time.Duration
	logger zerolog.Logger
}

// NewIdempotencyMiddleware creates a new IdempotencyMiddleware.
func NewIdempotencyMiddleware(store usecase.IdempotencyStore, ttl time.Duration, logger zerolog.Logger) *IdempotencyMiddleware {
	if ttl <= 0 {
		ttl = DefaultIdempotencyTTL
	}
	return &IdempotencyMiddleware{store: store, ttl: ttl, logger: logger}
}

// Wrap wraps an http.Handler with idempotency checking.
func (m *IdempotencyMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Only apply to mutating requests
		if r.Method != http.MethodPost && r.Method != http.MethodPut {
			next.ServeHTTP(w, r)
			return
		}

		key := r.Header.Get(IdempotencyKeyHeader)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}
		key = r.Method + ":" + r.URL.Path + ":" + key
		log := logger.FromContext(r.Context(), m.logger)

		exists, cached, err := m.store.CheckAndSet(r.Context(), key, nil, m.ttl)
		if err != nil {
			log.Error().Err(err).Str("key", key).Msg("idempotency check failed")
			writeJSONError(w, http.StatusInternalServerError, "idempotency check failed")
			return
		}

		if exists {
			var stored storedResponse
			if cached == nil || string(cached) == processingMarker || json.Unmarshal(cached, &stored) != nil {
				writeJSONError(w, http.StatusConflict, "request with this idempotency key is in progress")
				return
			}

			w.Header().Set("Content-Type", "application/json")
			w.Header().Set(IdempotencyReplayHeader, "true")
			w.WriteHeader(stored.Status)
			w.Write(stored.Body)
			return
		}

		recorder := &responseRecorder{
			ResponseWriter: w,
			body:           &bytes.Buffer{},
			statusCode:     http.StatusOK,
		}
		next.ServeHTTP(recorder, r)

		// The client may have gone away; the key still has to be settled.
		ctx := context.WithoutCancel(r.Context())

		if !cacheable(recorder.statusCode) {
			if err := m.store.Release(ctx, key); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("failed to release idempotency key")
			}
			return
		}

		payload, _ := json.Marshal(storedResponse{Status: recorder.statusCode, Body: recorder.body.Bytes()})
		if err := m.store.Update(ctx, key, payload, m.ttl); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("failed to store idempotent response")
		}
	})
}

// cacheable reports whether a response is final for its key. A 502 reports
// an import that stopped after committing some entries, so replaying it
// keeps a retry from submitting them twice.
func cacheable(status int) bool {
	return (status >= 200 && status < 300) || status == http.StatusBadGateway
}

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}
