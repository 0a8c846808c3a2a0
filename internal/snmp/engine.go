// Package snmp talks to switches over SNMP: a thin Engine abstraction over
// gosnmp, a per-cycle SessionCache that remembers each device's working
// community string and its ifIndex/bridge-port maps, and one Collector per
// indicator built on top of both.
package snmp

import (
	"context"
	"errors"
	"fmt"
)

// ErrTimeout marks an SNMP request that exhausted its retries without a
// response, distinguished from other failures so the session cache can
// fall through to the next candidate community string.
var ErrTimeout = errors.New("snmp: timeout")

// Error wraps a non-timeout SNMP failure (bad community, error-status
// response, malformed PDU) with the operation that produced it.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("snmp: %s: %v", e.Op, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

// Target is the connection parameters for one SNMP request.
type Target struct {
	IP        string
	Community string
	Port      uint16
	Timeout   float64 // seconds
	Retries   int
}

// VarBind is one (oid, value) pair returned by a walk.
type VarBind struct {
	OID   string
	Value string
}

// Engine is the operations every SNMP-backed collector needs: scalar GET,
// subtree WALK (GETBULK under the hood for the real engine). Implemented
// by both the gosnmp-backed Real engine and the deterministic Mock engine,
// so collectors never know which one they're talking to.
type Engine interface {
	Get(ctx context.Context, target Target, oids ...string) (map[string]string, error)
	Walk(ctx context.Context, target Target, oidPrefix string) ([]VarBind, error)
}

// Standard MIB OIDs shared by the session cache and multiple collectors.
const (
	OIDSysObjectID                 = "1.3.6.1.2.1.1.2.0"
	OIDIfName                      = "1.3.6.1.2.1.31.1.1.1.1"          // IF-MIB::ifName
	OIDDot1dBasePortIfIndex        = "1.3.6.1.2.1.17.1.4.1.2"          // BRIDGE-MIB
	OIDDot1qTpFdbPort              = "1.3.6.1.2.1.17.7.1.2.2.1.2"      // Q-BRIDGE-MIB::dot1qTpFdbPort
	OIDDot3adAggPortActorOperState = "1.2.840.10006.300.43.1.2.1.1.21" // LAG-MIB
)
