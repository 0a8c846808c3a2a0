package snmp

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/gosnmp/gosnmp"
)

// RealEngine talks to actual devices via gosnmp. One instance is shared
// read-only across every collector for the lifetime of the process; it
// holds no per-target state (each call opens and tears down its own
// gosnmp session), so it is safe for concurrent use.
type RealEngine struct {
	maxRepetitions uint32
	walkTimeout    time.Duration
}

func NewRealEngine(maxRepetitions uint32, walkTimeout time.Duration) *RealEngine {
	return &RealEngine{maxRepetitions: maxRepetitions, walkTimeout: walkTimeout}
}

func (e *RealEngine) connect(target Target) (*gosnmp.GoSNMP, error) {
	port := target.Port
	if port == 0 {
		port = 161
	}
	g := &gosnmp.GoSNMP{
		Target:         target.IP,
		Port:           port,
		Community:      target.Community,
		Version:        gosnmp.Version2c,
		Timeout:        time.Duration(target.Timeout * float64(time.Second)),
		Retries:        target.Retries,
		MaxRepetitions: e.maxRepetitions,
	}
	if err := g.Connect(); err != nil {
		return nil, classifyErr("connect", err)
	}
	return g, nil
}

// Get issues a GETBULK-free scalar GET, filtering out the three "not
// present" sentinel ASN.1 types rather than surfacing them as values.
func (e *RealEngine) Get(ctx context.Context, target Target, oids ...string) (map[string]string, error) {
	g, err := e.connect(target)
	if err != nil {
		return nil, err
	}
	defer g.Conn.Close()

	result := make(map[string]string, len(oids))
	// gosnmp caps a single GET at ~60 OIDs in practice; chunk defensively.
	for start := 0; start < len(oids); start += 60 {
		end := start + 60
		if end > len(oids) {
			end = len(oids)
		}
		packet, err := g.Get(oids[start:end])
		if err != nil {
			return nil, classifyErr("get", err)
		}
		for _, v := range packet.Variables {
			if isAbsentType(v.Type) {
				continue
			}
			result[v.Name] = renderValue(v)
		}
	}
	return result, nil
}

// Walk performs a subtree walk via repeated GETBULK, terminating when a
// returned OID leaves oidPrefix's subtree or the engine signals
// end-of-MIB. The whole walk is bounded by walkTimeout regardless of how
// many rounds it takes.
func (e *RealEngine) Walk(ctx context.Context, target Target, oidPrefix string) ([]VarBind, error) {
	g, err := e.connect(target)
	if err != nil {
		return nil, err
	}
	defer g.Conn.Close()

	walkCtx, cancel := context.WithTimeout(ctx, e.walkTimeout)
	defer cancel()

	var results []VarBind
	walkErr := make(chan error, 1)
	go func() {
		walkErr <- g.BulkWalk(oidPrefix, func(pdu gosnmp.SnmpPDU) error {
			if isAbsentType(pdu.Type) {
				return nil
			}
			results = append(results, VarBind{OID: pdu.Name, Value: renderValue(gosnmp.SnmpPDU{
				Name: pdu.Name, Type: pdu.Type, Value: pdu.Value,
			})})
			return nil
		})
	}()

	select {
	case err := <-walkErr:
		if err != nil {
			return nil, classifyErr("walk", err)
		}
		return results, nil
	case <-walkCtx.Done():
		return results, &Error{Op: "walk", Err: fmt.Errorf("walk timeout exceeded for %s", oidPrefix)}
	}
}

func isAbsentType(t gosnmp.Asn1BER) bool {
	switch t {
	case gosnmp.NoSuchObject, gosnmp.NoSuchInstance, gosnmp.EndOfMibView:
		return true
	default:
		return false
	}
}

func renderValue(pdu gosnmp.SnmpPDU) string {
	switch v := pdu.Value.(type) {
	case []byte:
		return string(v)
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

// classifyErr maps a gosnmp/net error onto ErrTimeout or a generic Error
// by structured type inspection (net.Error.Timeout()), never by matching
// substrings in the error string.
func classifyErr(op string, err error) error {
	var netErr net.Error
	if asNetError(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%s: %w", op, ErrTimeout)
	}
	return &Error{Op: op, Err: err}
}

func asNetError(err error, target *net.Error) bool {
	for err != nil {
		if ne, ok := err.(net.Error); ok {
			*target = ne
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
