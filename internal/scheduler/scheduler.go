// Package scheduler holds the per-job-name ticker dispatch that drives
// collection cycles: one job per job name (registering a name again
// replaces the earlier job, whatever its maintenance_id), each firing on
// its own interval with at-most-one-concurrent-run semantics.
package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/nwmaint/collectord/internal/collection"
)

// clientCollectionJobName is the special job name that routes to the
// client-collection service instead of the indicator service, with the
// job name itself used as api_name for every other job.
const clientCollectionJobName = "client-collection"

// JobInfo is what Jobs() reports for one registered job.
type JobInfo struct {
	Name        string
	MaintenanceID string
	NextRun     time.Time
	Trigger     string
}

type job struct {
	name          string
	maintenanceID string
	interval      time.Duration
	run           func(ctx context.Context) error
	ticker        *time.Ticker
	stop          chan struct{}
	running       atomic.Bool
	mu            sync.Mutex
	nextRun       time.Time
}

// Scheduler dispatches collection jobs on independent tickers. Each job
// runs with coalesce=true, max_instances=1: a tick that finds the
// previous invocation of the same job still running is dropped rather
// than queued, so missed ticks never accumulate into a burst. Using a
// ticker rather than a fixed-delay timer means a slow run doesn't push
// every future tick later — the next tick fires on schedule and is
// simply skipped if the job is still busy.
type Scheduler struct {
	mu        sync.Mutex
	jobs      map[string]*job
	indicator *collection.Service
	client    *collection.ClientCollectionService
	logger    *zap.Logger
	running   atomic.Bool
}

func New(indicator *collection.Service, client *collection.ClientCollectionService, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		jobs:      make(map[string]*job),
		indicator: indicator,
		client:    client,
		logger:    logger,
	}
}

// AddCollectionJob registers jobName to run every interval against
// maintenanceID, replacing any existing job of the same name. If the
// scheduler is already running, the new job's ticker starts immediately;
// otherwise it starts when Start is called.
func (s *Scheduler) AddCollectionJob(jobName string, interval time.Duration, maintenanceID string) {
	run := func(ctx context.Context) error {
		var result collection.Result
		var err error
		if jobName == clientCollectionJobName {
			result, err = s.client.Collect(ctx, maintenanceID)
		} else {
			result, err = s.indicator.Collect(ctx, jobName, maintenanceID)
		}
		if err != nil {
			return err
		}
		s.logger.Info("collection job completed",
			zap.String("job", jobName),
			zap.String("maintenance_id", maintenanceID),
			zap.Int("total", result.Total),
			zap.Int("success", result.Success),
			zap.Int("failed", result.Failed),
		)
		return nil
	}
	s.addJob(jobName, interval, maintenanceID, run)
}

// AddFunc registers a job whose tick callback is an arbitrary function
// rather than a collection cycle — used for the daily retention
// housekeeping job, which is registered directly at startup rather than
// per-maintenance and so carries no maintenance_id.
func (s *Scheduler) AddFunc(jobName string, interval time.Duration, run func(ctx context.Context) error) {
	s.addJob(jobName, interval, "", run)
}

func (s *Scheduler) addJob(jobName string, interval time.Duration, maintenanceID string, run func(ctx context.Context) error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.jobs[jobName]; ok {
		s.stopJobLocked(existing)
	}

	j := &job{
		name:          jobName,
		maintenanceID: maintenanceID,
		interval:      interval,
		run:           run,
	}
	s.jobs[jobName] = j

	if s.running.Load() {
		s.startJob(j)
	}
}

// Start boots every registered job's ticker goroutine if the scheduler
// is not already running.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running.Swap(true) {
		return
	}
	for _, j := range s.jobs {
		s.startJob(j)
	}
	s.logger.Info("scheduler started", zap.Int("job_count", len(s.jobs)))
}

// Stop drains every running job (waits for an in-flight invocation to
// finish) before returning.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running.Swap(false) {
		s.mu.Unlock()
		return
	}
	jobs := make([]*job, 0, len(s.jobs))
	for _, j := range s.jobs {
		jobs = append(jobs, j)
	}
	s.mu.Unlock()

	for _, j := range jobs {
		s.stopJob(j)
	}
	s.logger.Info("scheduler stopped")
}

// Running reports whether the scheduler's tick goroutines are active,
// consumed by the /readyz handler.
func (s *Scheduler) Running() bool {
	return s.running.Load()
}

// Jobs returns the current registration snapshot for an operator surface.
func (s *Scheduler) Jobs() []JobInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	infos := make([]JobInfo, 0, len(s.jobs))
	for _, j := range s.jobs {
		j.mu.Lock()
		infos = append(infos, JobInfo{
			Name:          j.name,
			MaintenanceID: j.maintenanceID,
			NextRun:       j.nextRun,
			Trigger:       "interval:" + j.interval.String(),
		})
		j.mu.Unlock()
	}
	return infos
}

func (s *Scheduler) startJob(j *job) {
	j.mu.Lock()
	j.ticker = time.NewTicker(j.interval)
	j.stop = make(chan struct{})
	j.nextRun = time.Now().Add(j.interval)
	ticker := j.ticker
	stop := j.stop
	j.mu.Unlock()

	go func() {
		for {
			select {
			case <-stop:
				ticker.Stop()
				return
			case <-ticker.C:
				j.mu.Lock()
				j.nextRun = time.Now().Add(j.interval)
				j.mu.Unlock()
				s.fire(j)
			}
		}
	}()
}

func (s *Scheduler) stopJobLocked(j *job) {
	j.mu.Lock()
	stop := j.stop
	j.mu.Unlock()
	if stop != nil {
		close(stop)
	}
}

func (s *Scheduler) stopJob(j *job) {
	s.stopJobLocked(j)
	// Wait out an in-flight run: the coalesce flag only drops new ticks,
	// it doesn't preempt one already executing.
	for j.running.Load() {
		time.Sleep(10 * time.Millisecond)
	}
}

func (s *Scheduler) fire(j *job) {
	if !j.running.CompareAndSwap(false, true) {
		s.logger.Debug("skipping tick, previous run still in flight", zap.String("job", j.name))
		return
	}
	defer j.running.Store(false)

	ctx, cancel := context.WithTimeout(context.Background(), j.interval+30*time.Second)
	defer cancel()

	if err := j.run(ctx); err != nil {
		s.logger.Error("job failed",
			zap.String("job", j.name), zap.String("maintenance_id", j.maintenanceID), zap.Error(err))
	}
}
