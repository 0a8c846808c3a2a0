package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nwmaint/collectord/internal/record"
)

// FanRepository persists get_fan batches.
type FanRepository struct{ *Repository[record.FanStatus] }

func NewFanRepository(pool *pgxpool.Pool) *FanRepository {
	return &FanRepository{newRepository(pool, "get_fan", insertFanRows)}
}

func insertFanRows(ctx context.Context, tx pgx.Tx, batchID int64, items []record.FanStatus) error {
	for _, it := range items {
		if _, err := tx.Exec(ctx,
			`INSERT INTO fan_status (batch_id, fan_id, status) VALUES ($1, $2, $3)`,
			batchID, it.FanID, string(it.Status)); err != nil {
			return err
		}
	}
	return nil
}

// PowerRepository persists get_power batches.
type PowerRepository struct{ *Repository[record.Power] }

func NewPowerRepository(pool *pgxpool.Pool) *PowerRepository {
	return &PowerRepository{newRepository(pool, "get_power", insertPowerRows)}
}

func insertPowerRows(ctx context.Context, tx pgx.Tx, batchID int64, items []record.Power) error {
	for _, it := range items {
		if _, err := tx.Exec(ctx,
			`INSERT INTO power_status (batch_id, psu_id, status) VALUES ($1, $2, $3)`,
			batchID, it.PsuID, string(it.Status)); err != nil {
			return err
		}
	}
	return nil
}

// TransceiverRepository persists get_transceiver batches.
type TransceiverRepository struct{ *Repository[record.Transceiver] }

func NewTransceiverRepository(pool *pgxpool.Pool) *TransceiverRepository {
	return &TransceiverRepository{newRepository(pool, "get_transceiver", insertTransceiverRows)}
}

func insertTransceiverRows(ctx context.Context, tx pgx.Tx, batchID int64, items []record.Transceiver) error {
	for _, it := range items {
		if _, err := tx.Exec(ctx,
			`INSERT INTO transceiver (batch_id, interface_name, lane, tx_power_dbm, rx_power_dbm, tx_pass, rx_pass)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			batchID, it.InterfaceName, it.Lane, it.TxPowerDBm, it.RxPowerDBm, it.TxPass, it.RxPass); err != nil {
			return err
		}
	}
	return nil
}

// MacTableRepository persists get_mac_table batches.
type MacTableRepository struct{ *Repository[record.MacTableEntry] }

func NewMacTableRepository(pool *pgxpool.Pool) *MacTableRepository {
	return &MacTableRepository{newRepository(pool, "get_mac_table", insertMacTableRows)}
}

func insertMacTableRows(ctx context.Context, tx pgx.Tx, batchID int64, items []record.MacTableEntry) error {
	for _, it := range items {
		if _, err := tx.Exec(ctx,
			`INSERT INTO mac_table_entry (batch_id, mac_address, interface_name, vlan_id) VALUES ($1, $2, $3, $4)`,
			batchID, it.MacAddress, it.InterfaceName, it.VlanID); err != nil {
			return err
		}
	}
	return nil
}

// NeighborRepository persists get_neighbor batches.
type NeighborRepository struct{ *Repository[record.Neighbor] }

func NewNeighborRepository(pool *pgxpool.Pool) *NeighborRepository {
	return &NeighborRepository{newRepository(pool, "get_neighbor", insertNeighborRows)}
}

func insertNeighborRows(ctx context.Context, tx pgx.Tx, batchID int64, items []record.Neighbor) error {
	for _, it := range items {
		if _, err := tx.Exec(ctx,
			`INSERT INTO neighbor (batch_id, local_interface, remote_hostname, remote_interface, protocol)
			 VALUES ($1, $2, $3, $4, $5)`,
			batchID, it.LocalInterface, it.RemoteHostname, it.RemoteInterface, it.Protocol); err != nil {
			return err
		}
	}
	return nil
}

// PortChannelRepository persists get_channel_group batches.
type PortChannelRepository struct{ *Repository[record.PortChannel] }

func NewPortChannelRepository(pool *pgxpool.Pool) *PortChannelRepository {
	return &PortChannelRepository{newRepository(pool, "get_channel_group", insertPortChannelRows)}
}

func insertPortChannelRows(ctx context.Context, tx pgx.Tx, batchID int64, items []record.PortChannel) error {
	for _, it := range items {
		members, err := json.Marshal(it.Members)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO port_channel (batch_id, interface_name, status, members) VALUES ($1, $2, $3, $4)`,
			batchID, it.InterfaceName, string(it.Status), members); err != nil {
			return err
		}
	}
	return nil
}

// InterfaceStatusRepository persists get_interface_status batches.
type InterfaceStatusRepository struct{ *Repository[record.InterfaceStatus] }

func NewInterfaceStatusRepository(pool *pgxpool.Pool) *InterfaceStatusRepository {
	return &InterfaceStatusRepository{newRepository(pool, "get_interface_status", insertInterfaceStatusRows)}
}

func insertInterfaceStatusRows(ctx context.Context, tx pgx.Tx, batchID int64, items []record.InterfaceStatus) error {
	for _, it := range items {
		if _, err := tx.Exec(ctx,
			`INSERT INTO interface_status (batch_id, interface_name, link_status, speed, duplex)
			 VALUES ($1, $2, $3, $4, $5)`,
			batchID, it.InterfaceName, string(it.LinkStatus), it.Speed, string(it.Duplex)); err != nil {
			return err
		}
	}
	return nil
}

// AclRepository persists get_static_acl / get_dynamic_acl batches. Both
// share the same row shape and table; which api_name a given repository
// instance writes under is fixed at construction.
type AclRepository struct{ *Repository[record.Acl] }

func NewAclRepository(pool *pgxpool.Pool, apiName string) *AclRepository {
	return &AclRepository{newRepository(pool, apiName, insertAclRows)}
}

func insertAclRows(ctx context.Context, tx pgx.Tx, batchID int64, items []record.Acl) error {
	for _, it := range items {
		if _, err := tx.Exec(ctx,
			`INSERT INTO acl_binding (batch_id, interface_name, acl_number) VALUES ($1, $2, $3)`,
			batchID, it.InterfaceName, it.AclNumber); err != nil {
			return err
		}
	}
	return nil
}

// VersionRepository persists get_version batches.
type VersionRepository struct{ *Repository[record.Version] }

func NewVersionRepository(pool *pgxpool.Pool) *VersionRepository {
	return &VersionRepository{newRepository(pool, "get_version", insertVersionRows)}
}

func insertVersionRows(ctx context.Context, tx pgx.Tx, batchID int64, items []record.Version) error {
	for _, it := range items {
		if _, err := tx.Exec(ctx,
			`INSERT INTO device_version (batch_id, version_string) VALUES ($1, $2)`,
			batchID, it.VersionString); err != nil {
			return err
		}
	}
	return nil
}

// ErrorCountRepository persists get_error_count batches.
type ErrorCountRepository struct{ *Repository[record.ErrorCount] }

func NewErrorCountRepository(pool *pgxpool.Pool) *ErrorCountRepository {
	return &ErrorCountRepository{newRepository(pool, "get_error_count", insertErrorCountRows)}
}

func insertErrorCountRows(ctx context.Context, tx pgx.Tx, batchID int64, items []record.ErrorCount) error {
	for _, it := range items {
		if _, err := tx.Exec(ctx,
			`INSERT INTO error_count (batch_id, interface_name, in_errors, out_errors, in_discards, out_discards)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			batchID, it.InterfaceName, it.InErrors, it.OutErrors, it.InDiscards, it.OutDiscards); err != nil {
			return err
		}
	}
	return nil
}

// ArpRepository persists get_arp batches. Insert, not upsert: batches
// are immutable history, ARP duplicates across cycles are expected and
// distinguished by batch_id.
type ArpRepository struct{ *Repository[record.Arp] }

func NewArpRepository(pool *pgxpool.Pool) *ArpRepository {
	return &ArpRepository{newRepository(pool, "get_arp", insertArpRows)}
}

func insertArpRows(ctx context.Context, tx pgx.Tx, batchID int64, items []record.Arp) error {
	for _, it := range items {
		if _, err := tx.Exec(ctx,
			`INSERT INTO arp_entry (batch_id, ip_address, mac_address) VALUES ($1, $2, $3)`,
			batchID, it.IPAddress, it.MacAddress); err != nil {
			return err
		}
	}
	return nil
}

// PingRepository persists ping_batch batches; the gnms_ping saver writes
// the same ping_result rows under its own api_name.
type PingRepository struct{ *Repository[record.Ping] }

func NewPingRepository(pool *pgxpool.Pool) *PingRepository {
	return &PingRepository{newRepository(pool, "ping_batch", insertPingRows)}
}

func insertPingRows(ctx context.Context, tx pgx.Tx, batchID int64, items []record.Ping) error {
	for _, it := range items {
		if _, err := tx.Exec(ctx,
			`INSERT INTO ping_result (batch_id, ip_address, is_reachable) VALUES ($1, $2, $3)`,
			batchID, it.IPAddress, it.IsReachable); err != nil {
			return err
		}
	}
	return nil
}

// ClientRepository persists client-collection batches: the per-MAC
// composite joined from mac-table, ARP, interface-status, ACL, and ping
// results. Like every repository it publishes nothing itself; the
// client-collection service publishes the batch-changed event after a
// new client batch is saved.
type ClientRepository struct{ *Repository[record.Client] }

func NewClientRepository(pool *pgxpool.Pool) *ClientRepository {
	return &ClientRepository{newRepository(pool, "client-collection", insertClientRows)}
}

func insertClientRows(ctx context.Context, tx pgx.Tx, batchID int64, items []record.Client) error {
	for _, it := range items {
		if _, err := tx.Exec(ctx,
			`INSERT INTO client_record
			 (batch_id, mac_address, ip_address, switch_hostname, interface_name, vlan_id,
			  speed, duplex, link_status, ping_reachable, acl_rules_applied)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			batchID, it.MacAddress, nullIfEmpty(it.IPAddress), it.SwitchHostname, it.InterfaceName, it.VlanID,
			it.Speed, string(it.Duplex), string(it.LinkStatus), it.PingReachable, it.AclRulesApplied); err != nil {
			return err
		}
	}
	return nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
