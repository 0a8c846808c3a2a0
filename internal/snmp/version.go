package snmp

import (
	"context"
	"regexp"

	"github.com/nwmaint/collectord/internal/enums"
	"github.com/nwmaint/collectord/internal/record"
)

const oidSysDescr = "1.3.6.1.2.1.1.1.0" // SNMPv2-MIB::sysDescr

var versionPattern = regexp.MustCompile(`(?i)version\s+([\w.()]+)`)

type VersionCollector struct{}

func (VersionCollector) APIName() string { return "get_version" }

func (VersionCollector) Collect(ctx context.Context, target Target, deviceType enums.DeviceType, cache *SessionCache, engine Engine, maxRetries int) ([]record.Record, string, error) {
	return CollectWithRetry(ctx, maxRetries, func(ctx context.Context) ([]record.Record, string, error) {
		vals, err := engine.Get(ctx, target, oidSysDescr)
		if err != nil {
			return nil, "", err
		}
		descr := vals[oidSysDescr]

		m := versionPattern.FindStringSubmatch(descr)
		if m == nil {
			return nil, FormatRaw("get_version", target.IP, deviceType, []VarBind{{OID: oidSysDescr, Value: descr}}), nil
		}
		raw := FormatRaw("get_version", target.IP, deviceType, []VarBind{{OID: oidSysDescr, Value: descr}})
		v, err := record.NewVersion(m[1])
		if err != nil {
			return nil, raw, nil
		}
		return []record.Record{v}, raw, nil
	})
}
