// Package fetcher retrieves raw command output for one switch and one
// api_name, either over HTTP (the FNA/DNA-style passthrough APIs) or from
// an SNMP session. This package covers only the HTTP side; internal/snmp
// covers the other source.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/nwmaint/collectord/internal/enums"
)

// Context is everything a Fetcher needs to build one request: the target
// device plus whatever extra parameters its api_name requires (e.g. the
// batch of client IPs for ping_batch).
type Context struct {
	SwitchIP       string
	SwitchHostname string
	DeviceType     enums.DeviceType
	Params         map[string]string
}

// Result is a raw fetch outcome. A failed fetch carries Success=false and
// a human-readable Error rather than a Go error value, because the caller
// (the collection service) persists both outcomes as CollectionError rows
// using the same code path.
type Result struct {
	RawOutput string
	Success   bool
	Error     string
}

// Fetcher retrieves one api_name's raw output for one device.
type Fetcher interface {
	APIName() string
	Fetch(ctx context.Context, fc Context) Result
}

// Source describes one upstream HTTP API's connection parameters.
type Source struct {
	BaseURL string
	Timeout time.Duration
}

var placeholderPattern = regexp.MustCompile(`\{(\w+)\}`)

// Configured is a generic GET-based fetcher built from an endpoint template
// such as "/api/v1/fan/{switch_ip}". Unconsumed template variables (device
// type, hostname, and anything in Context.Params) become query parameters,
// so a template never has to enumerate every variable it doesn't need.
type Configured struct {
	apiName          string
	endpointTemplate string
	source           Source
	client           *http.Client
}

func NewConfigured(apiName, endpointTemplate string, source Source) *Configured {
	return &Configured{
		apiName:          apiName,
		endpointTemplate: endpointTemplate,
		source:           source,
		client:           &http.Client{Timeout: source.Timeout},
	}
}

func (c *Configured) APIName() string { return c.apiName }

func (c *Configured) Fetch(ctx context.Context, fc Context) Result {
	if c.endpointTemplate == "" {
		return Result{Success: false, Error: fmt.Sprintf("no endpoint configured for fetcher %q", c.apiName)}
	}

	allVars := map[string]string{
		"switch_ip":   fc.SwitchIP,
		"ip":          fc.SwitchIP,
		"hostname":    fc.SwitchHostname,
		"device_type": string(fc.DeviceType.Platform()),
	}
	for k, v := range fc.Params {
		allVars[k] = v
	}

	used := map[string]bool{}
	endpoint := placeholderPattern.ReplaceAllStringFunc(c.endpointTemplate, func(token string) string {
		name := token[1 : len(token)-1]
		used[name] = true
		return allVars[name]
	})

	// {ip} is an alias of {switch_ip}: substituting either consumes both,
	// so the other never leaks into the query string.
	if used["switch_ip"] || used["ip"] {
		used["switch_ip"] = true
		used["ip"] = true
	}

	query := url.Values{}
	for k, v := range allVars {
		if !used[k] {
			query.Set(k, v)
		}
	}

	fullURL := strings.TrimRight(c.source.BaseURL, "/") + endpoint
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.source.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, fullURL, nil)
	if err != nil {
		return Result{Success: false, Error: err.Error()}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return Result{Success: false, Error: fmt.Sprintf("fetch %s: %v", c.apiName, err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{Success: false, Error: fmt.Sprintf("fetch %s: read body: %v", c.apiName, err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := string(body)
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		return Result{Success: false, Error: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, snippet)}
	}

	return Result{RawOutput: string(body), Success: true}
}
