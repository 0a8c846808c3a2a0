package snmp

import (
	"context"
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
	"time"
)

// MockEngine fulfills Engine without any network traffic: it generates
// deterministic OID responses per (ip, oidPrefix), seeded by a
// minute-granularity time bucket so data varies across cycles but stays
// stable within one. Failure injection (~5% per-device-per-cycle
// timeouts, small per-port defect probability) exercises the same retry
// and partial-data code paths the real engine would.
type MockEngine struct {
	now func() time.Time
}

func NewMockEngine() *MockEngine {
	return &MockEngine{now: time.Now}
}

func (m *MockEngine) bucket() int64 {
	return m.now().Unix() / 60
}

// seed hashes (ip, salt, minute-bucket) into a stable uint32, the basis
// for every deterministic decision the mock makes.
func seed(ip, salt string, bucket int64) uint32 {
	h := fnv.New32a()
	fmt.Fprintf(h, "%s|%s|%d", ip, salt, bucket)
	return h.Sum32()
}

func (m *MockEngine) deviceShouldTimeout(ip string) bool {
	return seed(ip, "device-timeout", m.bucket())%100 < 5
}

func (m *MockEngine) Get(ctx context.Context, target Target, oids ...string) (map[string]string, error) {
	if m.deviceShouldTimeout(target.IP) {
		return nil, fmt.Errorf("mock get: %w", ErrTimeout)
	}
	result := make(map[string]string, len(oids))
	for _, oid := range oids {
		if oid == OIDSysObjectID {
			result[oid] = "1.3.6.1.4.1.9.1.1"
			continue
		}
		s := seed(target.IP, oid, m.bucket())
		result[oid] = strconv.FormatUint(uint64(s%1000), 10)
	}
	return result, nil
}

func (m *MockEngine) Walk(ctx context.Context, target Target, oidPrefix string) ([]VarBind, error) {
	if m.deviceShouldTimeout(target.IP) {
		return nil, fmt.Errorf("mock walk: %w", ErrTimeout)
	}

	bucket := m.bucket()
	count := 4 + int(seed(target.IP, oidPrefix, bucket)%8) // 4-11 rows

	results := make([]VarBind, 0, count)
	for i := 1; i <= count; i++ {
		portSeed := seed(target.IP, oidPrefix+"#"+strconv.Itoa(i), bucket)
		if portSeed%50 == 0 {
			// small-probability per-port defect: skip this index entirely,
			// simulating a sparse/partial SNMP table.
			continue
		}
		oid := fmt.Sprintf("%s.%d", oidPrefix, i)
		results = append(results, VarBind{OID: oid, Value: mockValueFor(oidPrefix, i, portSeed)})
	}
	return results, nil
}

// mockValueFor renders a plausible value for well-known MIB subtrees so
// collectors built against real OIDs exercise realistic parsing, falling
// back to a generic numeric string for anything else.
func mockValueFor(oidPrefix string, index int, seedVal uint32) string {
	switch {
	case strings.HasPrefix(OIDIfName, oidPrefix) || strings.HasPrefix(oidPrefix, OIDIfName):
		return fmt.Sprintf("GigabitEthernet1/0/%d", index)
	case strings.HasPrefix(oidPrefix, OIDDot3adAggPortActorOperState):
		states := []string{"0x3d", "0x07", "0x0f"} // includes/excludes sync bit 0x08
		return states[seedVal%uint32(len(states))]
	default:
		return strconv.FormatUint(uint64(seedVal%4096), 10)
	}
}
