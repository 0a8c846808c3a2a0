package record

import (
	"sort"
	"strings"

	"github.com/nwmaint/collectord/internal/enums"
)

// PortChannel is one LAG/port-channel aggregate interface with its member
// link-sync statuses.
type PortChannel struct {
	InterfaceName string
	Status        enums.LinkStatus
	Members       []string
	MemberStatus  map[string]enums.LinkStatus
}

func NewPortChannel(ifName, status string, members []string, memberStatus map[string]string) (PortChannel, error) {
	if ifName == "" {
		return PortChannel{}, &enums.ValidationError{Field: "interface_name", Msg: "required"}
	}
	if len(members) == 0 {
		return PortChannel{}, &enums.ValidationError{Field: "members", Msg: "must be non-empty"}
	}
	normalized := make(map[string]enums.LinkStatus, len(memberStatus))
	for k, v := range memberStatus {
		normalized[k] = enums.NormalizeLinkStatus(v)
	}
	return PortChannel{
		InterfaceName: ifName,
		Status:        enums.NormalizeLinkStatus(status),
		Members:       members,
		MemberStatus:  normalized,
	}, nil
}

func (PortChannel) APIName() string { return "get_channel_group" }

func (p PortChannel) FingerprintFields() []FieldValue {
	members := append([]string(nil), p.Members...)
	sort.Strings(members)
	var sb strings.Builder
	for i, m := range members {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(m)
		sb.WriteByte('=')
		sb.WriteString(string(p.MemberStatus[m]))
	}
	return []FieldValue{
		present("interface_name", p.InterfaceName),
		present("status", string(p.Status)),
		present("members", sb.String()),
	}
}
