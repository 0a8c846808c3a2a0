package collection

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/nwmaint/collectord/internal/enums"
	"github.com/nwmaint/collectord/internal/kafka"
	"github.com/nwmaint/collectord/internal/maintenance"
	"github.com/nwmaint/collectord/internal/metrics"
	"github.com/nwmaint/collectord/internal/record"
	"github.com/nwmaint/collectord/internal/repository"
)

// ClientCollectionService builds the per-MAC composite Client record by
// joining the latest mac-table, ARP, interface-status, ACL, and ping
// batches for each target device, rather than collecting anything
// itself — it is a read-side aggregation over results the indicator
// services already persisted this maintenance.
type ClientCollectionService struct {
	pool      *pgxpool.Pool
	clients   *repository.ClientRepository
	errors    *repository.CollectionErrorRepository
	publisher *kafka.Publisher
	logger    *zap.Logger
}

func NewClientCollectionService(pool *pgxpool.Pool, clients *repository.ClientRepository, errs *repository.CollectionErrorRepository, publisher *kafka.Publisher, logger *zap.Logger) *ClientCollectionService {
	return &ClientCollectionService{pool: pool, clients: clients, errors: errs, publisher: publisher, logger: logger}
}

// Collect runs one client-collection cycle: for every target device,
// join its latest per-indicator batches into Client records and persist
// them as a single client-collection batch for that device.
func (s *ClientCollectionService) Collect(ctx context.Context, maintenanceID string) (Result, error) {
	result := Result{APIName: "client-collection"}

	targets, err := maintenance.LoadTargets(ctx, s.pool, maintenanceID)
	if err != nil {
		return result, fmt.Errorf("client-collection: loading targets: %w", err)
	}
	result.Total = len(targets)

	start := time.Now()
	defer func() {
		metrics.CollectionCycleDuration.WithLabelValues("client-collection").Observe(time.Since(start).Seconds())
	}()

	for _, target := range targets {
		if err := s.collectOne(ctx, maintenanceID, target); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", target.NewHostname, err))
			metrics.CollectionDeviceResultsTotal.WithLabelValues("client-collection", "failed").Inc()
			_ = s.errors.Upsert(ctx, maintenanceID, "client-collection", target.NewHostname, err.Error())
			continue
		}
		result.Success++
		metrics.CollectionDeviceResultsTotal.WithLabelValues("client-collection", "success").Inc()
		_ = s.errors.Clear(ctx, maintenanceID, "client-collection", target.NewHostname)
	}

	metrics.CollectionCyclesTotal.WithLabelValues("client-collection", "success").Inc()
	return result, nil
}

func (s *ClientCollectionService) collectOne(ctx context.Context, maintenanceID string, target maintenance.DeviceTarget) error {
	macEntries, err := s.latestMacTable(ctx, target.NewHostname, maintenanceID)
	if err != nil {
		return fmt.Errorf("loading mac table: %w", err)
	}
	arpByMAC, err := s.latestArpByMAC(ctx, target.NewHostname, maintenanceID)
	if err != nil {
		return fmt.Errorf("loading arp table: %w", err)
	}
	ifaceByName, err := s.latestInterfaceStatus(ctx, target.NewHostname, maintenanceID)
	if err != nil {
		return fmt.Errorf("loading interface status: %w", err)
	}
	aclByIface, err := s.latestAclByInterface(ctx, target.NewHostname, maintenanceID)
	if err != nil {
		return fmt.Errorf("loading acl bindings: %w", err)
	}
	pingByIP, err := s.latestPingByIP(ctx, maintenanceID)
	if err != nil {
		return fmt.Errorf("loading ping results: %w", err)
	}

	clients := make([]record.Client, 0, len(macEntries))
	for _, mac := range macEntries {
		c, err := record.NewClient(mac.mac, arpByMAC[mac.mac])
		if err != nil {
			continue
		}
		c.SwitchHostname = target.NewHostname
		c.InterfaceName = mac.ifName
		vlan := mac.vlan
		c.VlanID = &vlan
		if iface, ok := ifaceByName[mac.ifName]; ok {
			c.Speed = iface.speed
			c.Duplex = iface.duplex
			c.LinkStatus = iface.linkStatus
		} else {
			c.Duplex = enums.DuplexUnknown
			c.LinkStatus = enums.LinkUnknown
		}
		c.AclRulesApplied = aclByIface[mac.ifName]
		if reachable, ok := pingByIP[c.IPAddress]; ok {
			r := reachable
			c.PingReachable = &r
		}
		clients = append(clients, c)
	}

	rawData := fmt.Sprintf("client-collection: %d clients joined for %s", len(clients), target.NewHostname)
	batch, err := s.clients.SaveBatch(ctx, target.NewHostname, rawData, clients, maintenanceID)
	if err != nil {
		return err
	}
	if batch != nil && s.publisher != nil {
		s.publisher.Publish(ctx, kafka.BatchChangedEvent{
			APIName:        "client-collection",
			SwitchHostname: target.NewHostname,
			MaintenanceID:  maintenanceID,
			BatchID:        batch.BatchID,
			CollectedAt:    time.Now().UTC(),
		})
	} else if batch == nil {
		metrics.BatchesSkippedTotal.WithLabelValues("client-collection").Inc()
	}
	return nil
}

type macRow struct {
	mac    string
	ifName string
	vlan   int
}

func (s *ClientCollectionService) latestMacTable(ctx context.Context, hostname, maintenanceID string) ([]macRow, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT m.mac_address, m.interface_name, m.vlan_id
		FROM mac_table_entry m
		JOIN collection_batch b ON b.batch_id = m.batch_id
		WHERE b.switch_hostname = $1 AND b.maintenance_id = $2 AND b.api_name = 'get_mac_table'
		  AND b.collected_at = (
		    SELECT MAX(collected_at) FROM collection_batch
		    WHERE switch_hostname = $1 AND maintenance_id = $2 AND api_name = 'get_mac_table')`,
		hostname, maintenanceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []macRow
	for rows.Next() {
		var r macRow
		if err := rows.Scan(&r.mac, &r.ifName, &r.vlan); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

func (s *ClientCollectionService) latestArpByMAC(ctx context.Context, hostname, maintenanceID string) (map[string]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT a.mac_address, a.ip_address::text
		FROM arp_entry a
		JOIN collection_batch b ON b.batch_id = a.batch_id
		WHERE b.switch_hostname = $1 AND b.maintenance_id = $2 AND b.api_name = 'get_arp'
		  AND b.collected_at = (
		    SELECT MAX(collected_at) FROM collection_batch
		    WHERE switch_hostname = $1 AND maintenance_id = $2 AND api_name = 'get_arp')`,
		hostname, maintenanceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]string)
	for rows.Next() {
		var mac, ip string
		if err := rows.Scan(&mac, &ip); err != nil {
			return nil, err
		}
		result[mac] = ip
	}
	return result, rows.Err()
}

type ifaceInfo struct {
	speed      string
	duplex     enums.Duplex
	linkStatus enums.LinkStatus
}

func (s *ClientCollectionService) latestInterfaceStatus(ctx context.Context, hostname, maintenanceID string) (map[string]ifaceInfo, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT i.interface_name, i.speed, i.duplex, i.link_status
		FROM interface_status i
		JOIN collection_batch b ON b.batch_id = i.batch_id
		WHERE b.switch_hostname = $1 AND b.maintenance_id = $2 AND b.api_name = 'get_interface_status'
		  AND b.collected_at = (
		    SELECT MAX(collected_at) FROM collection_batch
		    WHERE switch_hostname = $1 AND maintenance_id = $2 AND api_name = 'get_interface_status')`,
		hostname, maintenanceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]ifaceInfo)
	for rows.Next() {
		var ifName, speed, duplex, link string
		if err := rows.Scan(&ifName, &speed, &duplex, &link); err != nil {
			return nil, err
		}
		result[ifName] = ifaceInfo{speed: speed, duplex: enums.Duplex(duplex), linkStatus: enums.LinkStatus(link)}
	}
	return result, rows.Err()
}

func (s *ClientCollectionService) latestAclByInterface(ctx context.Context, hostname, maintenanceID string) (map[string]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT a.interface_name, a.acl_number
		FROM acl_binding a
		JOIN collection_batch b ON b.batch_id = a.batch_id
		WHERE b.switch_hostname = $1 AND b.maintenance_id = $2 AND b.api_name = 'get_static_acl'
		  AND b.collected_at = (
		    SELECT MAX(collected_at) FROM collection_batch
		    WHERE switch_hostname = $1 AND maintenance_id = $2 AND api_name = 'get_static_acl')`,
		hostname, maintenanceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]string)
	for rows.Next() {
		var ifName, acl string
		if err := rows.Scan(&ifName, &acl); err != nil {
			return nil, err
		}
		result[ifName] = acl
	}
	return result, rows.Err()
}

// latestPingByIP is maintenance-wide rather than per-hostname: ping
// results are addressed by client IP, not by the switch that happens to
// have learned that MAC.
func (s *ClientCollectionService) latestPingByIP(ctx context.Context, maintenanceID string) (map[string]bool, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT DISTINCT ON (p.ip_address) p.ip_address::text, p.is_reachable
		FROM ping_result p
		JOIN collection_batch b ON b.batch_id = p.batch_id
		WHERE b.maintenance_id = $1 AND b.api_name = 'ping_batch'
		ORDER BY p.ip_address, b.collected_at DESC`,
		maintenanceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]bool)
	for rows.Next() {
		var ip string
		var reachable *bool
		if err := rows.Scan(&ip, &reachable); err != nil {
			return nil, err
		}
		if reachable != nil {
			result[ip] = *reachable
		}
	}
	return result, rows.Err()
}
