package maintenance

import (
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func TestCutoffFor_UsesStartOfCalendarDayInTimezone(t *testing.T) {
	// 2026-07-29 01:30 local (America/New_York) is 05:30 UTC: the local
	// day starts at 04:00Z rather than 00:00Z, exercising the "calendar
	// day in tz, not server/UTC day" requirement.
	now, err := time.Parse(time.RFC3339, "2026-07-29T05:30:00Z") // 01:30 EDT
	if err != nil {
		t.Fatal(err)
	}

	cutoff, err := cutoffFor(now, "America/New_York", 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loc, _ := time.LoadLocation("America/New_York")
	want := time.Date(2026, time.June, 29, 0, 0, 0, 0, loc).UTC()
	if !cutoff.Equal(want) {
		t.Errorf("cutoff = %v, want %v", cutoff, want)
	}
}

func TestCutoffFor_InvalidTimezone(t *testing.T) {
	if _, err := cutoffFor(time.Now(), "Not/A/Zone", 30); err == nil {
		t.Fatal("expected error for invalid timezone")
	}
}

func TestCutoffFor_ZeroRetentionIsStartOfToday(t *testing.T) {
	now, _ := time.Parse(time.RFC3339, "2026-07-29T12:00:00Z")
	cutoff, err := cutoffFor(now, "UTC", 0)
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2026, time.July, 29, 0, 0, 0, 0, time.UTC)
	if !cutoff.Equal(want) {
		t.Errorf("cutoff = %v, want %v", cutoff, want)
	}
}

// TestLoadTargets_SkipsWithoutLiveDatabase exercises the query against a
// real Postgres instance when one is available via TEST_DATABASE_DSN;
// otherwise it skips rather than faking a pool, since pgxpool has no
// in-memory mode.
func TestLoadTargets_SkipsWithoutLiveDatabase(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("set TEST_DATABASE_DSN to run maintenance_device_list integration test")
	}

	ctx := t.Context()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connecting to test database: %v", err)
	}
	defer pool.Close()

	targets, err := LoadTargets(ctx, pool, "MAINT-001")
	if err != nil {
		t.Fatalf("LoadTargets: %v", err)
	}
	_ = targets

	r := NewRetention(pool, 30, "UTC", zap.NewNop())
	if _, err := r.DeleteOldBatches(ctx); err != nil {
		t.Fatalf("DeleteOldBatches: %v", err)
	}
}
