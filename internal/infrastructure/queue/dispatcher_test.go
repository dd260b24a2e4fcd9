package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/dkm/jobcards/internal/core/domain"
)

type memoryRepo struct {
	mu     sync.Mutex
	events   []domain.AuditEvent
	err      error
	attempts int
}

func (r *memoryRepo) InsertEvent(_ context.Context, e *domain.AuditEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts++
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, *e)
	return nil
}

func (r *memoryRepo) snapshot() []domain.AuditEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.AuditEvent(nil), r.events...)
}

func TestDispatcher_PreservesPerActorOrder(t *testing.T) {
	repo := &memoryRepo{}
	d := NewDispatcher(3, repo, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	for i := int64(1); i <= 20; i++ {
		d.Record(domain.AuditEvent{Action: domain.AuditStatusChange, ActorID: 7, JobID: i})
		d.Record(domain.AuditEvent{Action: domain.AuditAssign, ActorID: 8, JobID: i})
	}

	deadline := time.Now().Add(2 * time.Second)
	for len(repo.snapshot()) < 40 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	d.Wait()

	var last = map[int64]int64{}
	for _, e := range repo.snapshot() {
		if e.JobID <= last[e.ActorID] {
			t.Fatalf("events for actor %d out of order", e.ActorID)
		}
		last[e.ActorID] = e.JobID
	}
	if len(repo.snapshot()) != 40 {
		t.Fatalf("expected 40 events, got %d", len(repo.snapshot()))
	}
}

func TestDispatcher_DrainsOnShutdown(t *testing.T) {
	repo := &memoryRepo{}
	d := NewDispatcher(1, repo, zerolog.Nop())

	// Queue before the workers run so shutdown has to flush them.
	d.Record(domain.AuditEvent{Action: domain.AuditLogin, ActorID: 1})
	d.Record(domain.AuditEvent{Action: domain.AuditLogout, ActorID: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Start(ctx)
	d.Wait()

	if got := repo.snapshot(); len(got) != 2 {
		t.Fatalf("expected queued events flushed, got %d", len(got))
	}
}

func TestDispatcher_WriteFailureDoesNotStopWorker(t *testing.T) {
	repo := &memoryRepo{err: errors.New("mongo down")}
	d := NewDispatcher(1, repo, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	d.Record(domain.AuditEvent{Action: domain.AuditLogin, ActorID: 1})
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		repo.mu.Lock()
		tried := repo.attempts > 0
		if tried {
			repo.err = nil
		}
		repo.mu.Unlock()
		if tried {
			break
		}
		time.Sleep(time.Millisecond)
	}
	d.Record(domain.AuditEvent{Action: domain.AuditLogout, ActorID: 1})

	deadline = time.Now().Add(2 * time.Second)
	for len(repo.snapshot()) < 1 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	d.Wait()

	got := repo.snapshot()
	if len(got) != 1 || got[0].Action != domain.AuditLogout {
		t.Fatalf("expected worker to keep going after a failed write, got %+v", got)
	}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(4, &memoryRepo{}, zerolog.Nop())
	for id := int64(0); id < 50; id++ {
		a, b := d.shardIndex(id), d.shardIndex(id)
		if a != b || a < 0 || a >= 4 {
			t.Fatalf("unstable shard for %d: %d %d", id, a, b)
		}
	}
}
