package collection

import (
	"context"
	"errors"
	"fmt"

	"github.com/nwmaint/collectord/internal/enums"
	"github.com/nwmaint/collectord/internal/fetcher"
	"github.com/nwmaint/collectord/internal/maintenance"
	"github.com/nwmaint/collectord/internal/parser"
	"github.com/nwmaint/collectord/internal/record"
)

// HTTPDriver collects by fetching raw text from the configured upstream
// API and handing it to the parser registered for (device_type,
// api_name). It is both the fallback driver for the SNMP service and the
// sole driver when collector.mode is "api".
type HTTPDriver struct {
	fetchers *fetcher.Registry
	parsers  *parser.Registry
}

func NewHTTPDriver(fetchers *fetcher.Registry, parsers *parser.Registry) *HTTPDriver {
	return &HTTPDriver{fetchers: fetchers, parsers: parsers}
}

func (d *HTTPDriver) CollectForTarget(ctx context.Context, apiName string, deviceType enums.DeviceType, target maintenance.DeviceTarget) ([]record.Record, string, error) {
	f, err := d.fetchers.MustGet(apiName)
	if err != nil {
		return nil, "", err
	}

	res := f.Fetch(ctx, fetcher.Context{
		SwitchIP:       target.NewIPAddress,
		SwitchHostname: target.NewHostname,
		DeviceType:     deviceType,
	})
	if !res.Success {
		return nil, "", errors.New(res.Error)
	}

	p, err := d.parsers.MustGet(apiName, deviceType)
	if err != nil {
		return nil, res.RawOutput, fmt.Errorf("http driver: %w", err)
	}

	items, err := p.Parse(res.RawOutput)
	if err != nil {
		return nil, res.RawOutput, err
	}
	return items, res.RawOutput, nil
}
