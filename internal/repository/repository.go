// Package repository persists collection-cycle results: one immutable
// CollectionBatch row per (api_name, switch_hostname, maintenance_id,
// collected_at), owning zero or more typed rows, written only when the
// cycle's content differs from the latest existing batch for that key.
package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/klauspost/compress/zstd"

	"github.com/nwmaint/collectord/internal/record"
)

var zstdEncoder *zstd.Encoder

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil)
	if err != nil {
		panic(fmt.Sprintf("repository: zstd encoder init: %v", err))
	}
}

// compressThreshold is the raw_data size above which the batch row
// stores a zstd-compressed copy instead of the plain text. Raw SNMP
// varbind dumps for full interface tables easily run to tens of
// kilobytes per device per cycle; short outputs stay readable in place.
const compressThreshold = 4096

// DecodeRawData returns a batch's raw text: the plain raw_data column
// when it was stored uncompressed, otherwise the zstd-decoded
// raw_data_compressed bytes.
func DecodeRawData(rawData string, compressed []byte) (string, error) {
	if len(compressed) == 0 {
		return rawData, nil
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return "", fmt.Errorf("repository: zstd decoder init: %w", err)
	}
	defer dec.Close()
	out, err := dec.DecodeAll(compressed, nil)
	if err != nil {
		return "", fmt.Errorf("repository: decompressing raw_data: %w", err)
	}
	return string(out), nil
}

// CollectionBatch mirrors the collection_batch row.
type CollectionBatch struct {
	BatchID        int64
	APIName        string
	SwitchHostname string
	MaintenanceID  string
	ContentHash    string
}

// Fingerprint computes the stable 16-hex-char content hash of a set of
// parsed items: each item's fingerprint fields, in its own canonical
// order, joined by unit/record separators, then the low 16 hex
// characters of an xxhash digest of the result. Field order across items
// is the order Parse/Collect produced them in — callers that need
// order-independence (none currently do; every producer emits items in a
// stable order, either as the device reported them or sorted by name
// where a collector groups them through a map) must sort before calling.
func Fingerprint[T record.Record](items []T) string {
	var sb strings.Builder
	for i, item := range items {
		if i > 0 {
			sb.WriteByte('\x1e') // record separator
		}
		for j, f := range item.FingerprintFields() {
			if j > 0 {
				sb.WriteByte('\x1f') // unit separator
			}
			sb.WriteString(f.Name)
			sb.WriteByte('=')
			if f.Present {
				sb.WriteString(f.Value)
			} else {
				sb.WriteString("<absent>")
			}
		}
	}
	sum := xxhash.Sum64String(sb.String())
	return fmt.Sprintf("%016x", sum)[:16]
}

// Repository is the generic core every per-indicator repository embeds.
// insertRows writes the typed rows for one batch inside an open
// transaction; it is the only part that varies per indicator.
type Repository[T record.Record] struct {
	pool       *pgxpool.Pool
	apiName    string
	insertRows func(ctx context.Context, tx pgx.Tx, batchID int64, items []T) error
}

func newRepository[T record.Record](pool *pgxpool.Pool, apiName string, insertRows func(context.Context, pgx.Tx, int64, []T) error) *Repository[T] {
	return &Repository[T]{pool: pool, apiName: apiName, insertRows: insertRows}
}

// latestHash returns the content_hash of the newest batch for
// (api_name, switch_hostname, maintenance_id), or ("", false) if none
// exists yet.
func (r *Repository[T]) latestHash(ctx context.Context, hostname, maintenanceID string) (string, bool, error) {
	var hash string
	err := r.pool.QueryRow(ctx, `
		SELECT content_hash FROM collection_batch
		WHERE api_name = $1 AND switch_hostname = $2 AND maintenance_id = $3
		ORDER BY collected_at DESC LIMIT 1`,
		r.apiName, hostname, maintenanceID,
	).Scan(&hash)
	if err == pgx.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return hash, true, nil
}

// SaveBatch compares the new fingerprint against the latest existing
// batch and, if it differs (or none exists), inserts a new
// CollectionBatch row plus all typed rows in one transaction. Returns
// (nil, nil) when the content is unchanged — no write happens, matching
// the "don't thrash the database on unchanged state" requirement.
func (r *Repository[T]) SaveBatch(ctx context.Context, hostname, rawData string, items []T, maintenanceID string) (*CollectionBatch, error) {
	hash := Fingerprint(items)

	existing, ok, err := r.latestHash(ctx, hostname, maintenanceID)
	if err != nil {
		return nil, fmt.Errorf("repository: reading latest batch: %w", err)
	}
	if ok && existing == hash {
		return nil, nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("repository: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	// The content hash is always computed over the parsed items, never
	// the stored bytes, so compression cannot affect change detection.
	storedRaw := rawData
	var compressed []byte
	if len(rawData) > compressThreshold {
		storedRaw = ""
		compressed = zstdEncoder.EncodeAll([]byte(rawData), nil)
	}

	var batchID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO collection_batch (api_name, switch_hostname, maintenance_id, raw_data, raw_data_compressed, content_hash)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING batch_id`,
		r.apiName, hostname, maintenanceID, storedRaw, compressed, hash,
	).Scan(&batchID)
	if err != nil {
		return nil, fmt.Errorf("repository: insert batch: %w", err)
	}

	if err := r.insertRows(ctx, tx, batchID, items); err != nil {
		return nil, fmt.Errorf("repository: insert rows: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("repository: commit: %w", err)
	}

	return &CollectionBatch{
		BatchID:        batchID,
		APIName:        r.apiName,
		SwitchHostname: hostname,
		MaintenanceID:  maintenanceID,
		ContentHash:    hash,
	}, nil
}
