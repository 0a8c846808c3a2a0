// Package maintenance covers the per-maintenance bookkeeping the
// collection services read (the target device list for a cycle) and the
// daily housekeeping job that ages out old collection history, both
// scoped to the "maintenance" (equipment-replacement window) concept the
// rest of the system is organized around.
package maintenance

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/nwmaint/collectord/internal/metrics"
)

// Retention deletes CollectionBatch history past a configured age
// (cascading to its typed rows) and refreshes any summary materialized
// views an operator surface depends on. It is registered as an ordinary
// scheduler job, not per-maintenance, since it runs once a day regardless
// of which maintenances are currently active.
type Retention struct {
	pool          *pgxpool.Pool
	retentionDays int
	timezone      string
	logger        *zap.Logger
}

func NewRetention(pool *pgxpool.Pool, retentionDays int, timezone string, logger *zap.Logger) *Retention {
	return &Retention{
		pool:          pool,
		retentionDays: retentionDays,
		timezone:      timezone,
		logger:        logger,
	}
}

// Run deletes aged-out batches then refreshes summaries. Both steps run
// even if a summary view does not exist yet (fresh deployment), matching
// the "warn, don't fail" treatment of optional refresh targets.
func (r *Retention) Run(ctx context.Context) error {
	deleted, err := r.DeleteOldBatches(ctx)
	if err != nil {
		return fmt.Errorf("deleting old batches: %w", err)
	}
	r.logger.Info("retention: old batches deleted", zap.Int64("count", deleted))

	if err := r.RefreshSummaries(ctx); err != nil {
		return fmt.Errorf("refreshing summaries: %w", err)
	}
	return nil
}

// DeleteOldBatches removes CollectionBatch rows (and their typed children,
// via ON DELETE CASCADE) whose collected_at is older than the retention
// window, computed in the configured timezone so "calendar day" cutoffs
// match operator expectations rather than drifting with server-local time.
func (r *Retention) DeleteOldBatches(ctx context.Context) (int64, error) {
	cutoff, err := cutoffFor(time.Now(), r.timezone, r.retentionDays)
	if err != nil {
		return 0, err
	}

	tag, err := r.pool.Exec(ctx, `DELETE FROM collection_batch WHERE collected_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	n := tag.RowsAffected()
	metrics.RetentionBatchesDeletedTotal.WithLabelValues().Add(float64(n))
	return n, nil
}

// cutoffFor computes the retention cutoff instant: retentionDays back from
// the start of "today" in tz, converted to UTC. Split out from
// DeleteOldBatches so the calendar-boundary arithmetic is unit-testable
// without a database.
func cutoffFor(now time.Time, tz string, retentionDays int) (time.Time, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.Time{}, fmt.Errorf("loading timezone %s: %w", tz, err)
	}
	local := now.In(loc)
	startOfToday := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return startOfToday.AddDate(0, 0, -retentionDays).UTC(), nil
}

// RefreshSummaries refreshes any materialized views the operator surface
// reads for at-a-glance collection health. A missing view is logged, not
// fatal — those views belong to the external reporting surface and may
// not exist in every deployment.
func (r *Retention) RefreshSummaries(ctx context.Context) error {
	views := []string{"collection_health_summary", "client_comparison_summary"}
	for _, v := range views {
		if _, err := r.pool.Exec(ctx, fmt.Sprintf("REFRESH MATERIALIZED VIEW CONCURRENTLY %s", v)); err != nil {
			r.logger.Warn("failed to refresh materialized view (may not exist yet)",
				zap.String("view", v), zap.Error(err))
		}
	}
	return nil
}
