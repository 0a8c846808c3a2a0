package maintenance

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DeviceTarget is one row of a MaintenanceDeviceList filtered down to the
// fields a collection cycle needs to reach the NEW device. OldHostname and
// UseSamePort are carried through for collectors that need to fall back to
// the old device's known-good port mapping.
type DeviceTarget struct {
	MaintenanceID string
	OldHostname   string
	NewHostname   string
	NewIPAddress  string
	NewVendor     string
	UseSamePort   bool
	Reachable     bool
}

// LoadTargets returns every MaintenanceDeviceList row for maintenanceID
// whose new_hostname and new_ip_address are both set — devices without a
// resolved NEW identity are not yet ready to collect against and never
// enter the fan-out in the first place.
func LoadTargets(ctx context.Context, pool *pgxpool.Pool, maintenanceID string) ([]DeviceTarget, error) {
	rows, err := pool.Query(ctx, `
		SELECT maintenance_id, old_hostname, new_hostname, new_ip_address,
		       COALESCE(new_vendor, ''), use_same_port, reachable
		FROM maintenance_device_list
		WHERE maintenance_id = $1
		  AND new_hostname IS NOT NULL
		  AND new_ip_address IS NOT NULL
	`, maintenanceID)
	if err != nil {
		return nil, fmt.Errorf("querying maintenance_device_list: %w", err)
	}
	defer rows.Close()

	var targets []DeviceTarget
	for rows.Next() {
		var t DeviceTarget
		if err := rows.Scan(&t.MaintenanceID, &t.OldHostname, &t.NewHostname, &t.NewIPAddress,
			&t.NewVendor, &t.UseSamePort, &t.Reachable); err != nil {
			return nil, fmt.Errorf("scanning maintenance_device_list row: %w", err)
		}
		targets = append(targets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating maintenance_device_list rows: %w", err)
	}
	return targets, nil
}
