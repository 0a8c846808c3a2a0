package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nwmaint/collectord/internal/record"
)

// Saver is the api_name-keyed, type-erased front the collection services
// call through: they hold parsed/collected items as []record.Record and
// never need to know which concrete repository variant backs a given
// api_name.
type Saver interface {
	APIName() string
	SaveBatch(ctx context.Context, hostname, rawData string, items []record.Record, maintenanceID string) (*CollectionBatch, error)
}

// adapter narrows []record.Record down to the concrete variant T a
// generic Repository[T] expects, dropping (rather than erroring on) any
// item that is not that variant — a defensive check only, since every
// parser/collector for a given api_name produces exactly one record
// variant by construction.
type adapter[T record.Record] struct {
	apiName string
	repo    *Repository[T]
}

// Adapt wraps a typed Repository[T] as a Saver for the collection
// services' registry of one Saver per api_name.
func Adapt[T record.Record](apiName string, repo *Repository[T]) Saver {
	return &adapter[T]{apiName: apiName, repo: repo}
}

func (a *adapter[T]) APIName() string { return a.apiName }

func (a *adapter[T]) SaveBatch(ctx context.Context, hostname, rawData string, items []record.Record, maintenanceID string) (*CollectionBatch, error) {
	typed := make([]T, 0, len(items))
	for _, item := range items {
		if t, ok := item.(T); ok {
			typed = append(typed, t)
		}
	}
	return a.repo.SaveBatch(ctx, hostname, rawData, typed, maintenanceID)
}

// SaverRegistry resolves api_name to the Saver that persists its
// batches: one entry per typed-record table, built once at startup.
type SaverRegistry struct {
	savers map[string]Saver
}

func NewSaverRegistry(pool *pgxpool.Pool) *SaverRegistry {
	r := &SaverRegistry{savers: make(map[string]Saver)}
	add := func(s Saver) { r.savers[s.APIName()] = s }

	add(Adapt("get_fan", NewFanRepository(pool).Repository))
	add(Adapt("get_power", NewPowerRepository(pool).Repository))
	add(Adapt("get_transceiver", NewTransceiverRepository(pool).Repository))
	add(Adapt("get_mac_table", NewMacTableRepository(pool).Repository))
	add(Adapt("get_neighbor", NewNeighborRepository(pool).Repository))
	add(Adapt("get_channel_group", NewPortChannelRepository(pool).Repository))
	add(Adapt("get_interface_status", NewInterfaceStatusRepository(pool).Repository))
	add(Adapt("get_static_acl", NewAclRepository(pool, "get_static_acl").Repository))
	add(Adapt("get_dynamic_acl", NewAclRepository(pool, "get_dynamic_acl").Repository))
	add(Adapt("get_version", NewVersionRepository(pool).Repository))
	add(Adapt("get_error_count", NewErrorCountRepository(pool).Repository))
	add(Adapt("get_arp", NewArpRepository(pool).Repository))
	add(Adapt("ping_batch", NewPingRepository(pool).Repository))
	add(Adapt("gnms_ping", newRepository(pool, "gnms_ping", insertPingRows)))
	add(Adapt("client-collection", NewClientRepository(pool).Repository))

	return r
}

func (r *SaverRegistry) Get(apiName string) (Saver, bool) {
	s, ok := r.savers[apiName]
	return s, ok
}
