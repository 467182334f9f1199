package syncworker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/iho/bankrecon/internal/domain"
	"github.com/iho/bankrecon/internal/usecase"
)

func TestEnqueueDropsWhenFull(t *testing.T) {
	rec := &stubRecorder{}
	w := New(Config{Upserter: &stubUpserter{}, Metrics: rec, Logger: zerolog.Nop(), QueueSize: 1})

	if !w.Enqueue(write("AMAZON", "6061")) {
		t.Fatalf("expected first write to be accepted")
	}
	if w.Enqueue(write("BOLT", "6251")) {
		t.Fatalf("expected second write to be dropped")
	}

	if w.Pending() != 1 {
		t.Fatalf("expected one pending write, got %d", w.Pending())
	}
	if got := rec.count(usecase.WriteDropped); got != 1 {
		t.Fatalf("expected one dropped write recorded, got %d", got)
	}
}

func TestStartPersistsInOrder(t *testing.T) {
	up := &stubUpserter{}
	w := New(Config{Upserter: up, Logger: zerolog.Nop()})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- w.Start(ctx)
	}()

	w.Enqueue(write("AMAZON", "6061"))
	w.Enqueue(write("AMAZON", "6063"))
	w.Enqueue(write("BOLT", "6251"))

	waitFor(t, func() bool { return len(up.saved()) == 3 })
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancel")
	}

	saved := up.saved()
	if saved[0].AccountNumber != "6061" || saved[1].AccountNumber != "6063" || saved[2].Label != "BOLT" {
		t.Fatalf("writes persisted out of order: %#v", saved)
	}
}

func TestStartContinuesOnUpsertError(t *testing.T) {
	up := &stubUpserter{errorsByLabel: map[string]error{"AMAZON": errors.New("fail")}}
	w := New(Config{Upserter: up, Logger: zerolog.Nop()})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Start(ctx) }()

	w.Enqueue(write("AMAZON", "6061"))
	w.Enqueue(write("BOLT", "6251"))

	waitFor(t, func() bool { return len(up.saved()) == 1 })

	if saved := up.saved(); saved[0].Label != "BOLT" {
		t.Fatalf("expected only BOLT to be saved, got %#v", saved)
	}
}

func TestStartDrainsQueueOnShutdown(t *testing.T) {
	up := &stubUpserter{}
	w := New(Config{Upserter: up, Logger: zerolog.Nop()})

	for _, label := range []string{"A", "B", "C"} {
		w.Enqueue(write(label, "6061"))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := w.Start(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}

	if got := len(up.saved()); got != 3 {
		t.Fatalf("expected queued writes to be flushed, got %d", got)
	}
	if w.Pending() != 0 {
		t.Fatalf("expected empty queue, got %d", w.Pending())
	}
}

func TestEnqueueAfterStopIsRefused(t *testing.T) {
	up := &stubUpserter{}
	rec := &stubRecorder{}
	w := New(Config{Upserter: up, Metrics: rec, Logger: zerolog.Nop()})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := w.Start(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}

	if w.Enqueue(write("LATE", "6061")) {
		t.Fatalf("expected write after stop to be refused")
	}
	if w.Pending() != 0 {
		t.Fatalf("expected no pending writes, got %d", w.Pending())
	}
	if got := rec.count(usecase.WriteDropped); got != 1 {
		t.Fatalf("expected one dropped write recorded, got %d", got)
	}
	if got := len(up.saved()); got != 0 {
		t.Fatalf("expected nothing persisted, got %d", got)
	}
}

func TestDepthGaugeTracksQueue(t *testing.T) {
	gauge := prometheus.NewGauge(prometheus.GaugeOpts{Name: "test_depth"})
	w := New(Config{Upserter: &stubUpserter{}, Depth: gauge, Logger: zerolog.Nop()})

	w.Enqueue(write("A", "6061"))
	w.Enqueue(write("B", "6061"))

	if got := testutil.ToFloat64(gauge); got != 2 {
		t.Fatalf("expected depth 2, got %v", got)
	}
}

func write(label, account string) domain.AssociationWrite {
	return domain.AssociationWrite{CompanyID: "co-1", Label: label, AccountNumber: account}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

type stubUpserter struct {
	mu            sync.Mutex
	writes        []domain.AssociationWrite
	errorsByLabel map[string]error
}

func (s *stubUpserter) Upsert(_ context.Context, w domain.AssociationWrite) (*domain.AccountAssociation, error) {
	if err := s.errorsByLabel[w.Label]; err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes = append(s.writes, w)
	return &domain.AccountAssociation{
		ID:            w.Label,
		CompanyID:     w.CompanyID,
		Label:         w.Label,
		AccountNumber: w.AccountNumber,
	}, nil
}

func (s *stubUpserter) saved() []domain.AssociationWrite {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.AssociationWrite(nil), s.writes...)
}

type stubRecorder struct {
	usecase.NopRecorder
	mu     sync.Mutex
	writes map[string]int
}

func (r *stubRecorder) RecordAssociationWrite(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.writes == nil {
		r.writes = make(map[string]int)
	}
	r.writes[outcome]++
}

func (r *stubRecorder) count(outcome string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writes[outcome]
}
