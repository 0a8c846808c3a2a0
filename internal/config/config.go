package config

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/twmb/franz-go/pkg/sasl"
	"github.com/twmb/franz-go/pkg/sasl/plain"
)

type Config struct {
	Service   ServiceConfig   `koanf:"service"`
	Collector CollectorConfig `koanf:"collector"`
	SNMP      SNMPConfig      `koanf:"snmp"`
	Fetcher   FetcherConfig   `koanf:"fetcher"`
	Kafka     KafkaConfig     `koanf:"kafka"`
	Postgres  PostgresConfig  `koanf:"postgres"`
	Retention RetentionConfig `koanf:"retention"`
	Jobs      JobsConfig      `koanf:"jobs"`
}

// JobsConfig lists every scheduler job this instance should register on
// startup, in addition to the daily retention job AddFunc wires directly.
// A deployment usually carries one entry per indicator api_name plus one
// "client-collection" entry, all sharing a MaintenanceID. The scheduler
// keys jobs by api_name alone, so a later entry with the same api_name
// replaces an earlier one: each api_name runs against one maintenance per
// process.
type JobsConfig struct {
	IntervalSeconds int       `koanf:"interval_seconds"`
	Collection      []JobSpec `koanf:"collection"`
}

// JobSpec binds one scheduler job to the api_name (or "client-collection")
// it runs and the maintenance it runs against, overriding the default
// interval when set.
type JobSpec struct {
	APIName         string `koanf:"api_name"`
	MaintenanceID   string `koanf:"maintenance_id"`
	IntervalSeconds int    `koanf:"interval_seconds"`
}

type ServiceConfig struct {
	InstanceID             string `koanf:"instance_id"`
	HTTPListen             string `koanf:"http_listen"`
	LogLevel               string `koanf:"log_level"`
	ShutdownTimeoutSeconds int    `koanf:"shutdown_timeout_seconds"`
}

// CollectorConfig selects which driver backs the indicator-collection
// service and the per-cycle fan-out bound, mirroring the reference
// system's COLLECTION_MODE/SNMP_CONCURRENCY env keys.
type CollectorConfig struct {
	Mode        string `koanf:"mode"` // "snmp" or "api"
	Concurrency int    `koanf:"concurrency"`
	Retries     int    `koanf:"retries"`
}

// SNMPConfig carries both retry knobs: Retries is the transport-level
// per-request count baked into every Target, CollectorRetries bounds the
// collector-level retry loop around each indicator's whole attempt.
type SNMPConfig struct {
	Mock             bool     `koanf:"mock"`
	CommunityList    []string `koanf:"community_list"`
	Port             int      `koanf:"port"`
	TimeoutSeconds   float64  `koanf:"timeout_seconds"`
	Retries          int      `koanf:"retries"`
	CollectorRetries int      `koanf:"collector_retries"`
	MaxRepetitions   uint32   `koanf:"max_repetitions"`
	WalkTimeoutSecs  float64  `koanf:"walk_timeout_seconds"`
}

// FetcherConfig holds the per-indicator endpoint templates and the named
// source groups (base URL + timeout) they draw from, mirroring the
// reference system's FETCHER_ENDPOINT__<NAME> / FETCHER_SOURCE__<SRC>__*
// env keys one-for-one.
type FetcherConfig struct {
	ExternalAPIServer string                  `koanf:"external_api_server"`
	UseMockAPI        bool                    `koanf:"use_mock_api"`
	Endpoints         map[string]EndpointSpec `koanf:"endpoints"`
	Sources           map[string]SourceSpec   `koanf:"sources"`
}

// EndpointSpec binds one api_name to the source group it fetches from and
// the path template (e.g. "/api/v1/fan/{switch_ip}") substituted at fetch
// time.
type EndpointSpec struct {
	Source   string `koanf:"source"`
	Template string `koanf:"template"`
}

type SourceSpec struct {
	BaseURL        string  `koanf:"base_url"`
	TimeoutSeconds float64 `koanf:"timeout_seconds"`
}

// KafkaConfig describes the event-publisher's producer connection; this
// service never consumes from Kafka. An empty Brokers list is valid and
// makes the publisher a no-op, since the downstream evaluator may not be
// deployed in every environment.
type KafkaConfig struct {
	Brokers []string   `koanf:"brokers"`
	Topic   string     `koanf:"topic"`
	TLS     TLSConfig  `koanf:"tls"`
	SASL    SASLConfig `koanf:"sasl"`
}

type TLSConfig struct {
	Enabled  bool   `koanf:"enabled"`
	CAFile   string `koanf:"ca_file"`
	CertFile string `koanf:"cert_file"`
	KeyFile  string `koanf:"key_file"`
}

type SASLConfig struct {
	Enabled   bool   `koanf:"enabled"`
	Mechanism string `koanf:"mechanism"`
	Username  string `koanf:"username"`
	Password  string `koanf:"password"`
}

type PostgresConfig struct {
	DSN      string `koanf:"dsn"`
	MaxConns int32  `koanf:"max_conns"`
	MinConns int32  `koanf:"min_conns"`
}

type RetentionConfig struct {
	Days     int    `koanf:"days"`
	Timezone string `koanf:"timezone"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	// Overlay environment variables: COLLECTORD_SNMP__COMMUNITY_LIST → snmp.community_list
	if err := k.Load(env.Provider("COLLECTORD_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "COLLECTORD_")
		s = strings.ToLower(s)
		s = strings.ReplaceAll(s, "__", ".")
		return s
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env config: %w", err)
	}

	cfg := &Config{
		Service: ServiceConfig{
			InstanceID:             "collectord-1",
			HTTPListen:             ":8080",
			LogLevel:               "info",
			ShutdownTimeoutSeconds: 30,
		},
		Collector: CollectorConfig{
			Mode:        "snmp",
			Concurrency: 16,
			Retries:     2,
		},
		SNMP: SNMPConfig{
			CommunityList:    []string{"public"},
			Port:             161,
			TimeoutSeconds:   3,
			Retries:          2,
			CollectorRetries: 2,
			MaxRepetitions:   10,
			WalkTimeoutSecs:  20,
		},
		Postgres: PostgresConfig{
			MaxConns: 20,
			MinConns: 2,
		},
		Retention: RetentionConfig{
			Days:     30,
			Timezone: "UTC",
		},
		Jobs: JobsConfig{
			IntervalSeconds: 300,
		},
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Split comma-separated env strings for slice fields.
	if len(cfg.SNMP.CommunityList) == 1 && strings.Contains(cfg.SNMP.CommunityList[0], ",") {
		cfg.SNMP.CommunityList = strings.Split(cfg.SNMP.CommunityList[0], ",")
	}
	if len(cfg.Kafka.Brokers) == 1 && strings.Contains(cfg.Kafka.Brokers[0], ",") {
		cfg.Kafka.Brokers = strings.Split(cfg.Kafka.Brokers[0], ",")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Postgres.DSN == "" {
		return fmt.Errorf("config: postgres.dsn is required")
	}
	if c.Collector.Mode != "snmp" && c.Collector.Mode != "api" {
		return fmt.Errorf("config: collector.mode must be \"snmp\" or \"api\" (got %q)", c.Collector.Mode)
	}
	if c.Collector.Concurrency <= 0 {
		return fmt.Errorf("config: collector.concurrency must be > 0 (got %d)", c.Collector.Concurrency)
	}
	if c.Collector.Retries < 0 {
		return fmt.Errorf("config: collector.retries must be >= 0 (got %d)", c.Collector.Retries)
	}
	if len(c.SNMP.CommunityList) == 0 {
		return fmt.Errorf("config: snmp.community_list is required")
	}
	if c.SNMP.CollectorRetries < 0 {
		return fmt.Errorf("config: snmp.collector_retries must be >= 0 (got %d)", c.SNMP.CollectorRetries)
	}
	if c.SNMP.TimeoutSeconds <= 0 {
		return fmt.Errorf("config: snmp.timeout_seconds must be > 0 (got %v)", c.SNMP.TimeoutSeconds)
	}
	if c.SNMP.WalkTimeoutSecs <= 0 {
		return fmt.Errorf("config: snmp.walk_timeout_seconds must be > 0 (got %v)", c.SNMP.WalkTimeoutSecs)
	}
	if c.SNMP.MaxRepetitions == 0 {
		return fmt.Errorf("config: snmp.max_repetitions must be > 0")
	}
	if c.Retention.Days <= 0 {
		return fmt.Errorf("config: retention.days must be > 0 (got %d)", c.Retention.Days)
	}
	if c.Postgres.MaxConns <= 0 {
		return fmt.Errorf("config: postgres.max_conns must be > 0 (got %d)", c.Postgres.MaxConns)
	}
	if c.Postgres.MinConns < 0 {
		return fmt.Errorf("config: postgres.min_conns must be >= 0 (got %d)", c.Postgres.MinConns)
	}
	if c.Service.ShutdownTimeoutSeconds <= 0 {
		return fmt.Errorf("config: service.shutdown_timeout_seconds must be > 0 (got %d)", c.Service.ShutdownTimeoutSeconds)
	}
	if _, err := time.LoadLocation(c.Retention.Timezone); err != nil {
		return fmt.Errorf("config: retention.timezone is invalid: %w", err)
	}
	return nil
}

// BuildTLSConfig creates a *tls.Config from the Kafka TLS settings. Returns nil if TLS is disabled.
func (k *KafkaConfig) BuildTLSConfig() (*tls.Config, error) {
	if !k.TLS.Enabled {
		return nil, nil
	}
	tlsCfg := &tls.Config{}
	if k.TLS.CAFile != "" {
		caPEM, err := os.ReadFile(k.TLS.CAFile)
		if err != nil {
			return nil, fmt.Errorf("reading CA file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caPEM) {
			return nil, fmt.Errorf("failed to parse CA certificate")
		}
		tlsCfg.RootCAs = pool
	}
	if k.TLS.CertFile != "" && k.TLS.KeyFile != "" {
		cert, err := tls.LoadX509KeyPair(k.TLS.CertFile, k.TLS.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("loading client certificate: %w", err)
		}
		tlsCfg.Certificates = []tls.Certificate{cert}
	}
	return tlsCfg, nil
}

// BuildSASLMechanism creates a SASL mechanism from the Kafka SASL settings. Returns nil if SASL is disabled.
func (k *KafkaConfig) BuildSASLMechanism() sasl.Mechanism {
	if !k.SASL.Enabled {
		return nil
	}
	switch strings.ToUpper(k.SASL.Mechanism) {
	case "PLAIN":
		return plain.Auth{User: k.SASL.Username, Pass: k.SASL.Password}.AsMechanism()
	default:
		return nil
	}
}
