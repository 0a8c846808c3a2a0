package snmp

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nwmaint/collectord/internal/enums"
	"github.com/nwmaint/collectord/internal/record"
)

// Collector binds one api_name to a vendor-aware SNMP collection
// routine. Collect receives the device's working Target and the shared
// per-cycle SessionCache rather than resolving either itself; maxRetries
// is the configured collector-level retry count CollectWithRetry applies
// on timeout-class errors.
type Collector interface {
	APIName() string
	Collect(ctx context.Context, target Target, deviceType enums.DeviceType, cache *SessionCache, engine Engine, maxRetries int) ([]record.Record, string, error)
}

// CollectWithRetry wraps a collector's attempt function with linear
// backoff (1s * attempt) on timeout-class errors, returning a wrapped
// timeout error once maxRetries is exhausted. Non-timeout errors are
// never retried.
func CollectWithRetry(ctx context.Context, maxRetries int, attempt func(ctx context.Context) ([]record.Record, string, error)) ([]record.Record, string, error) {
	var lastErr error
	for n := 0; n <= maxRetries; n++ {
		items, raw, err := attempt(ctx)
		if err == nil {
			return items, raw, nil
		}
		lastErr = err
		if !errors.Is(err, ErrTimeout) {
			return nil, "", err
		}
		if n < maxRetries {
			select {
			case <-ctx.Done():
				return nil, "", ctx.Err()
			case <-time.After(time.Duration(n+1) * time.Second):
			}
		}
	}
	return nil, "", fmt.Errorf("all retries exhausted: %w", lastErr)
}

// FormatRaw renders varbinds as a labeled text block for storage as the
// batch's opaque raw_data, mirroring what a human would see running the
// equivalent CLI command.
func FormatRaw(apiName, ip string, deviceType enums.DeviceType, varbinds []VarBind) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s %s (%s)\n", apiName, ip, deviceType)
	for _, vb := range varbinds {
		fmt.Fprintf(&sb, "%s = %s\n", vb.OID, vb.Value)
	}
	return sb.String()
}

// speedLabel renders ifHighSpeed (Mbps) into the vocabulary operators
// read off interface-status output.
func speedLabel(mbps int) string {
	switch {
	case mbps >= 100000:
		return "100G"
	case mbps >= 40000:
		return "40G"
	case mbps >= 25000:
		return "25G"
	case mbps >= 10000:
		return "10G"
	case mbps >= 1000:
		return "1G"
	case mbps >= 100:
		return "100M"
	case mbps > 0:
		return "10M"
	default:
		return ""
	}
}

// parseAggOperState parses the 1-byte dot3adAggPortActorOperState,
// accepting "0xNN" hex, bare hex without the prefix, or plain decimal —
// mock data and real device agents render it inconsistently across
// vendors — and reports whether the synchronization bit (mask 0x08) is
// set.
func parseAggOperState(val string) (synchronized bool, ok bool) {
	v := strings.TrimSpace(val)
	var n int64
	var err error
	switch {
	case strings.HasPrefix(v, "0x") || strings.HasPrefix(v, "0X"):
		n, err = strconv.ParseInt(v[2:], 16, 16)
	default:
		n, err = strconv.ParseInt(v, 10, 16)
		if err != nil {
			n, err = strconv.ParseInt(v, 16, 16)
		}
	}
	if err != nil {
		return false, false
	}
	return n&0x08 != 0, true
}
