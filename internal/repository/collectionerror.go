package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CollectionErrorRepository tracks the per-(maintenance, api_name, device)
// error row an operator surface reads as collection health: its presence
// means the last attempt for that indicator on that device failed.
type CollectionErrorRepository struct {
	pool *pgxpool.Pool
}

func NewCollectionErrorRepository(pool *pgxpool.Pool) *CollectionErrorRepository {
	return &CollectionErrorRepository{pool: pool}
}

// Upsert records or replaces the error for one device/indicator/maintenance.
func (r *CollectionErrorRepository) Upsert(ctx context.Context, maintenanceID, apiName, hostname, message string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO collection_error (maintenance_id, api_name, switch_hostname, error_message, occurred_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (maintenance_id, api_name, switch_hostname)
		DO UPDATE SET error_message = EXCLUDED.error_message, occurred_at = EXCLUDED.occurred_at`,
		maintenanceID, apiName, hostname, message, time.Now().UTC())
	return err
}

// Clear removes the error row after a successful collection, the signal
// an operator surface reads as "healthy again".
func (r *CollectionErrorRepository) Clear(ctx context.Context, maintenanceID, apiName, hostname string) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM collection_error WHERE maintenance_id = $1 AND api_name = $2 AND switch_hostname = $3`,
		maintenanceID, apiName, hostname)
	return err
}
