// Package collection implements the indicator-collection pipeline shared
// by the SNMP and HTTP drivers: load targets, fan out under a bounded
// semaphore, parse/collect, persist via content-hash dedup, and record
// per-device error state.
package collection

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/nwmaint/collectord/internal/enums"
	"github.com/nwmaint/collectord/internal/kafka"
	"github.com/nwmaint/collectord/internal/maintenance"
	"github.com/nwmaint/collectord/internal/metrics"
	"github.com/nwmaint/collectord/internal/record"
	"github.com/nwmaint/collectord/internal/repository"
)

// Result is the aggregate outcome Collect returns for one cycle.
type Result struct {
	APIName string
	Total   int
	Success int
	Failed  int
	Errors  []string
}

// PassthroughAPINames is the fixed set of indicators the SNMP service
// always delegates to the HTTP service for, since they have no SNMP
// equivalent (ACL bindings and ping are CLI/API-only on every platform).
var PassthroughAPINames = map[string]bool{
	"get_static_acl":  true,
	"get_dynamic_acl": true,
	"gnms_ping":       true,
	"ping_batch":      true,
}

// errDeadlock is what classifyDBErr turns a Postgres deadlock (SQLSTATE
// 40P01) from the service's own database writes into, matched by
// structured error type rather than a substring of the error string.
var errDeadlock = errors.New("collection: deadlock detected")

func classifyDBErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "40P01" {
		return errDeadlock
	}
	return err
}

// Driver performs the per-device work specific to one collection
// backend (SNMP or HTTP): producing parsed records and the raw text to
// store, or an error if collection failed for that device.
type Driver interface {
	CollectForTarget(ctx context.Context, apiName string, deviceType enums.DeviceType, target maintenance.DeviceTarget) ([]record.Record, string, error)
}

// CycleResetter is implemented by drivers that hold per-cycle state (the
// SNMP driver's SessionCache). Collect calls ResetForCycle once at the
// start of every cycle so community-probe and ifIndex/bridge-port
// memoization never leaks from one cycle into the next; the HTTP driver
// holds no such state and does not implement this.
type CycleResetter interface {
	ResetForCycle()
}

// Service runs Collect for one driver against one repository registry.
type Service struct {
	pool        *pgxpool.Pool
	driver      Driver
	savers      *repository.SaverRegistry
	errors      *repository.CollectionErrorRepository
	publisher   *kafka.Publisher
	concurrency int
	maxRetries  int
	logger      *zap.Logger
}

func NewService(pool *pgxpool.Pool, driver Driver, savers *repository.SaverRegistry, errs *repository.CollectionErrorRepository, publisher *kafka.Publisher, concurrency, maxRetries int, logger *zap.Logger) *Service {
	return &Service{
		pool:        pool,
		driver:      driver,
		savers:      savers,
		errors:      errs,
		publisher:   publisher,
		concurrency: concurrency,
		maxRetries:  maxRetries,
		logger:      logger,
	}
}

// Collect runs one full cycle for apiName against every target device in
// maintenanceID, retrying the whole cycle up to maxRetries times when the
// failure is a database deadlock (never on a per-device collection
// failure, which is recorded as a CollectionError instead of aborting
// the cycle).
func (s *Service) Collect(ctx context.Context, apiName, maintenanceID string) (Result, error) {
	var result Result
	var lastErr error

	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		result = Result{APIName: apiName}

		targets, err := maintenance.LoadTargets(ctx, s.pool, maintenanceID)
		if err != nil {
			return result, fmt.Errorf("collection: loading targets: %w", err)
		}
		result.Total = len(targets)

		err = s.runCycle(ctx, apiName, maintenanceID, targets, &result)
		if err == nil {
			metrics.CollectionCyclesTotal.WithLabelValues(apiName, "success").Inc()
			return result, nil
		}

		lastErr = classifyDBErr(err)
		if !errors.Is(lastErr, errDeadlock) {
			metrics.CollectionCyclesTotal.WithLabelValues(apiName, "error").Inc()
			return result, err
		}

		s.logger.Warn("collection cycle hit deadlock, retrying",
			zap.String("api_name", apiName), zap.Int("attempt", attempt))
		if attempt < s.maxRetries {
			select {
			case <-ctx.Done():
				return result, ctx.Err()
			case <-time.After(time.Duration(float64(attempt+1)*0.3*float64(time.Second))):
			}
		}
	}

	metrics.CollectionCyclesTotal.WithLabelValues(apiName, "error").Inc()
	return result, fmt.Errorf("collection: deadlock retries exhausted: %w", lastErr)
}

func (s *Service) runCycle(ctx context.Context, apiName, maintenanceID string, targets []maintenance.DeviceTarget, result *Result) error {
	start := time.Now()
	defer func() {
		metrics.CollectionCycleDuration.WithLabelValues(apiName).Observe(time.Since(start).Seconds())
	}()

	if resetter, ok := s.driver.(CycleResetter); ok {
		resetter.ResetForCycle()
	}

	saver, ok := s.savers.Get(apiName)
	if !ok {
		return fmt.Errorf("collection: no repository registered for api_name=%s", apiName)
	}

	sem := semaphore.NewWeighted(int64(s.concurrency))
	type outcome struct {
		hostname string
		err      error
	}
	outcomes := make(chan outcome, len(targets))

	for _, target := range targets {
		target := target
		if err := sem.Acquire(ctx, 1); err != nil {
			return err
		}
		go func() {
			defer sem.Release(1)
			outcomes <- outcome{hostname: target.NewHostname, err: s.collectOne(ctx, apiName, maintenanceID, target, saver)}
		}()
	}

	var deadlockErr error
	for i := 0; i < len(targets); i++ {
		o := <-outcomes
		if classified := classifyDBErr(o.err); errors.Is(classified, errDeadlock) {
			deadlockErr = classified
		}
		if o.err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", o.hostname, o.err))
			metrics.CollectionDeviceResultsTotal.WithLabelValues(apiName, "failed").Inc()
		} else {
			result.Success++
			metrics.CollectionDeviceResultsTotal.WithLabelValues(apiName, "success").Inc()
		}
	}

	if deadlockErr != nil {
		return deadlockErr
	}
	return nil
}

func (s *Service) collectOne(ctx context.Context, apiName, maintenanceID string, target maintenance.DeviceTarget, saver repository.Saver) error {
	deviceType := enums.ParseDeviceType(target.NewVendor)

	items, raw, collectErr := s.driver.CollectForTarget(ctx, apiName, deviceType, target)
	if collectErr != nil {
		if err := s.errors.Upsert(ctx, maintenanceID, apiName, target.NewHostname, collectErr.Error()); err != nil {
			return classifyDBErr(err)
		}
		sentinelRaw := fmt.Sprintf("[COLLECTION_ERROR] %v", collectErr)
		if _, err := saver.SaveBatch(ctx, target.NewHostname, sentinelRaw, nil, maintenanceID); err != nil {
			return classifyDBErr(err)
		}
		metrics.ParseErrorsTotal.WithLabelValues(apiName, "collect_failed").Inc()
		// The error row and sentinel batch are recorded; the failure
		// still counts into the cycle's failed tally.
		return collectErr
	}

	writeStart := time.Now()
	batch, err := saver.SaveBatch(ctx, target.NewHostname, raw, items, maintenanceID)
	metrics.BatchWriteDuration.WithLabelValues(apiName).Observe(time.Since(writeStart).Seconds())
	if err != nil {
		return classifyDBErr(err)
	}
	if batch == nil {
		metrics.BatchesSkippedTotal.WithLabelValues(apiName).Inc()
	}

	if err := s.errors.Clear(ctx, maintenanceID, apiName, target.NewHostname); err != nil {
		return classifyDBErr(err)
	}

	if batch != nil && s.publisher != nil {
		event := kafka.BatchChangedEvent{
			APIName:        apiName,
			SwitchHostname: target.NewHostname,
			MaintenanceID:  maintenanceID,
			BatchID:        batch.BatchID,
			CollectedAt:    time.Now().UTC(),
		}
		s.publisher.Publish(ctx, event)
		metrics.EventsPublishedTotal.WithLabelValues(apiName, "ok").Inc()
	}

	return nil
}
