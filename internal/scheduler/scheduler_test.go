package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestScheduler() *Scheduler {
	return New(nil, nil, zap.NewNop())
}

func TestAddFunc_FiresRepeatedlyOnTicker(t *testing.T) {
	s := newTestScheduler()
	var count atomic.Int32

	s.AddFunc("housekeeping", 15*time.Millisecond, func(ctx context.Context) error {
		count.Add(1)
		return nil
	})
	s.Start()
	defer s.Stop()

	time.Sleep(80 * time.Millisecond)
	if got := count.Load(); got < 2 {
		t.Errorf("expected at least 2 runs, got %d", got)
	}
}

func TestScheduler_CoalescesOverlappingTicks(t *testing.T) {
	s := newTestScheduler()
	var starts, overlaps atomic.Int32
	var inFlight atomic.Bool

	s.AddFunc("slow-job", 10*time.Millisecond, func(ctx context.Context) error {
		if !inFlight.CompareAndSwap(false, true) {
			overlaps.Add(1)
		}
		starts.Add(1)
		time.Sleep(60 * time.Millisecond)
		inFlight.Store(false)
		return nil
	})
	s.Start()
	defer s.Stop()

	time.Sleep(140 * time.Millisecond)

	if overlaps.Load() != 0 {
		t.Errorf("expected no overlapping invocations, got %d", overlaps.Load())
	}
	if starts.Load() < 2 {
		t.Errorf("expected the slow job to run at least twice across 140ms, got %d", starts.Load())
	}
}

func TestAddFunc_ReplacesExistingJobOfSameName(t *testing.T) {
	s := newTestScheduler()
	var firstCount, secondCount atomic.Int32

	s.AddFunc("get_fan", 10*time.Millisecond, func(ctx context.Context) error {
		firstCount.Add(1)
		return nil
	})
	s.Start()
	time.Sleep(35 * time.Millisecond)

	s.AddFunc("get_fan", 10*time.Millisecond, func(ctx context.Context) error {
		secondCount.Add(1)
		return nil
	})
	time.Sleep(35 * time.Millisecond)
	s.Stop()

	if secondCount.Load() == 0 {
		t.Error("replacement job never ran")
	}
	if len(s.jobs) != 1 {
		t.Errorf("expected exactly one job registered under the shared name, got %d", len(s.jobs))
	}
}

func TestScheduler_StopWaitsForInFlightRun(t *testing.T) {
	s := newTestScheduler()
	var finished atomic.Bool

	s.AddFunc("long-job", 5*time.Millisecond, func(ctx context.Context) error {
		time.Sleep(40 * time.Millisecond)
		finished.Store(true)
		return nil
	})
	s.Start()
	time.Sleep(10 * time.Millisecond)
	s.Stop()

	if !finished.Load() {
		t.Error("Stop returned before the in-flight run finished")
	}
}

func TestScheduler_RunningReflectsLifecycle(t *testing.T) {
	s := newTestScheduler()
	if s.Running() {
		t.Fatal("new scheduler should not report running")
	}
	s.Start()
	if !s.Running() {
		t.Error("expected Running() true after Start")
	}
	s.Stop()
	if s.Running() {
		t.Error("expected Running() false after Stop")
	}
}

func TestJobs_ReportsRegisteredJobs(t *testing.T) {
	s := newTestScheduler()
	s.AddCollectionJob("get_fan", time.Minute, "maint-1")
	s.AddFunc("retention", 24*time.Hour, func(ctx context.Context) error { return nil })

	jobs := s.Jobs()
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}

	names := map[string]string{}
	for _, j := range jobs {
		names[j.Name] = j.MaintenanceID
	}
	if names["get_fan"] != "maint-1" {
		t.Errorf("get_fan maintenance_id = %q, want maint-1", names["get_fan"])
	}
	if _, ok := names["retention"]; !ok {
		t.Error("retention job missing from Jobs()")
	}
}
