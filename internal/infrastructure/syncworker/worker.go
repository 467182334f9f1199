package syncworker

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/iho/bankrecon/internal/domain"
	"github.com/iho/bankrecon/internal/usecase"
)

// Upserter persists a single association write.
type Upserter interface {
	Upsert(ctx context.Context, write domain.AssociationWrite) (*domain.AccountAssociation, error)
}

// Worker persists association writes in the background. Writes are
// applied in the order they were enqueued. Once Start returns the worker
// refuses new writes.
type Worker struct {
	mu      sync.RWMutex
	stopped bool

	queue        chan domain.AssociationWrite
	upserter     Upserter
	metrics      usecase.MetricsRecorder
	depth        prometheus.Gauge
	logger       zerolog.Logger
	drainTimeout time.Duration
}

// Config for Worker.
type Config struct {
	Upserter     Upserter
	Metrics      usecase.MetricsRecorder
	Depth        prometheus.Gauge // optional queue depth gauge
	Logger       zerolog.Logger
	QueueSize    int
	DrainTimeout time.Duration // time allowed to flush the queue on shutdown
}

// New creates a new Worker.
func New(cfg Config) *Worker {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1024
	}
	if cfg.DrainTimeout == 0 {
		cfg.DrainTimeout = 5 * time.Second
	}
	if cfg.Metrics == nil {
		cfg.Metrics = usecase.NopRecorder{}
	}

	return &Worker{
		queue:        make(chan domain.AssociationWrite, cfg.QueueSize),
		upserter:     cfg.Upserter,
		metrics:      cfg.Metrics,
		depth:        cfg.Depth,
		logger:       cfg.Logger,
		drainTimeout: cfg.DrainTimeout,
	}
}

// Enqueue hands a write to the worker without blocking. It returns false
// and drops the write when the queue is full or the worker has stopped.
func (w *Worker) Enqueue(write domain.AssociationWrite) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.stopped {
		w.dropped(write, "association worker stopped, write dropped")
		return false
	}

	select {
	case w.queue <- write:
		w.observeDepth()
		return true
	default:
		w.dropped(write, "association queue full, write dropped")
		return false
	}
}

func (w *Worker) dropped(write domain.AssociationWrite, msg string) {
	w.metrics.RecordAssociationWrite(usecase.WriteDropped)
	w.logger.Warn().
		Str("company_id", write.CompanyID).
		Str("label", write.Label).
		Str("account", write.AccountNumber).
		Msg(msg)
}

// Pending returns the number of queued writes.
func (w *Worker) Pending() int {
	return len(w.queue)
}

// Start persists queued writes until ctx is cancelled, then flushes what
// is left within the drain timeout.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info().
		Int("queue_size", cap(w.queue)).
		Msg("association sync worker started")

	for {
		select {
		case <-ctx.Done():
			w.stop()
			w.drain(ctx)
			w.logger.Info().Msg("association sync worker shutting down")
			return ctx.Err()
		case write := <-w.queue:
			w.observeDepth()
			w.persist(ctx, write)
		}
	}
}

// stop closes the queue to new writes. Enqueue sends while holding the read
// lock, so nothing lands in the queue after stop returns.
func (w *Worker) stop() {
	w.mu.Lock()
	w.stopped = true
	w.mu.Unlock()
}

func (w *Worker) drain(ctx context.Context) {
	drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.drainTimeout)
	defer cancel()

	flushed := 0
	for {
		select {
		case write := <-w.queue:
			w.observeDepth()
			if drainCtx.Err() != nil {
				w.metrics.RecordAssociationWrite(usecase.WriteDropped)
				continue
			}
			w.persist(drainCtx, write)
			flushed++
		default:
			if flushed > 0 {
				w.logger.Info().Int("count", flushed).Msg("flushed queued associations")
			}
			return
		}
	}
}

// persist writes one association. Failures are logged; the upserter
// records the outcome metric.
func (w *Worker) persist(ctx context.Context, write domain.AssociationWrite) {
	assoc, err := w.upserter.Upsert(ctx, write)
	if err != nil {
		w.logger.Error().Err(err).
			Str("company_id", write.CompanyID).
			Str("label", write.Label).
			Str("account", write.AccountNumber).
			Msg("failed to persist association")
		return
	}

	w.logger.Debug().
		Str("association_id", assoc.ID).
		Str("label", assoc.Label).
		Str("account", assoc.AccountNumber).
		Msg("association persisted")
}

func (w *Worker) observeDepth() {
	if w.depth != nil {
		w.depth.Set(float64(len(w.queue)))
	}
}
