package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"regexp"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nwmaint/collectord/internal/collection"
	"github.com/nwmaint/collectord/internal/config"
	"github.com/nwmaint/collectord/internal/db"
	"github.com/nwmaint/collectord/internal/fetcher"
	collectordhttp "github.com/nwmaint/collectord/internal/http"
	"github.com/nwmaint/collectord/internal/kafka"
	"github.com/nwmaint/collectord/internal/maintenance"
	"github.com/nwmaint/collectord/internal/metrics"
	"github.com/nwmaint/collectord/internal/parser"
	_ "github.com/nwmaint/collectord/internal/parser/plugins"
	"github.com/nwmaint/collectord/internal/repository"
	"github.com/nwmaint/collectord/internal/scheduler"
	"github.com/nwmaint/collectord/internal/snmp"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		runServe()
	case "migrate":
		runMigrate()
	case "retention":
		runRetention()
	case "--help", "-h", "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: collectord <command> [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  serve       Start the collection service")
	fmt.Println("  migrate     Run database migrations")
	fmt.Println("  retention   Run the batch-retention sweep once and exit")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --config <path>   Path to configuration YAML file")
	fmt.Println("  --log-level <lvl> Override log level (debug, info, warn, error)")
}

func parseFlags(args []string) (configPath string, logLevel string) {
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--config":
			if i+1 < len(args) {
				configPath = args[i+1]
				i++
			}
		case "--log-level":
			if i+1 < len(args) {
				logLevel = args[i+1]
				i++
			}
		}
	}
	return
}

func loadConfig(args []string) (*config.Config, *zap.Logger) {
	configPath, logLevelOverride := parseFlags(args)

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if logLevelOverride != "" {
		cfg.Service.LogLevel = logLevelOverride
	}

	logger := initLogger(cfg.Service.LogLevel)
	return cfg, logger
}

func initLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zap.DebugLevel
	case "warn":
		zapLevel = zap.WarnLevel
	case "error":
		zapLevel = zap.ErrorLevel
	default:
		zapLevel = zap.InfoLevel
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(zapLevel)
	zapCfg.EncoderConfig.TimeKey = "ts"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := zapCfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	return logger
}

// migrationsDir returns the path to the migrations directory relative to the binary.
func migrationsDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "migrations"
	}
	return filepath.Join(filepath.Dir(exe), "migrations")
}

func runServe() {
	cfg, logger := loadConfig(os.Args[2:])
	defer logger.Sync()

	metrics.Register()

	logger.Info("starting collectord",
		zap.String("instance_id", cfg.Service.InstanceID),
		zap.String("http_listen", cfg.Service.HTTPListen),
		zap.String("collector_mode", cfg.Collector.Mode),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConns, cfg.Postgres.MinConns)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool, migrationsDir(), logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	tlsCfg, err := cfg.Kafka.BuildTLSConfig()
	if err != nil {
		logger.Fatal("failed to build Kafka TLS config", zap.Error(err))
	}
	saslMech := cfg.Kafka.BuildSASLMechanism()

	publisher, err := kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Service.InstanceID, tlsCfg, saslMech, logger.Named("kafka"))
	if err != nil {
		logger.Fatal("failed to build Kafka publisher", zap.Error(err))
	}
	defer publisher.Close()

	driver := buildDriver(cfg, logger)

	savers := repository.NewSaverRegistry(pool)
	collectionErrors := repository.NewCollectionErrorRepository(pool)
	clients := repository.NewClientRepository(pool)

	indicatorSvc := collection.NewService(pool, driver, savers, collectionErrors, publisher, cfg.Collector.Concurrency, cfg.Collector.Retries, logger.Named("collection"))
	clientSvc := collection.NewClientCollectionService(pool, clients, collectionErrors, publisher, logger.Named("client-collection"))

	sched := scheduler.New(indicatorSvc, clientSvc, logger.Named("scheduler"))

	defaultInterval := time.Duration(cfg.Jobs.IntervalSeconds) * time.Second
	for _, j := range cfg.Jobs.Collection {
		interval := defaultInterval
		if j.IntervalSeconds > 0 {
			interval = time.Duration(j.IntervalSeconds) * time.Second
		}
		sched.AddCollectionJob(j.APIName, interval, j.MaintenanceID)
		logger.Info("registered collection job",
			zap.String("api_name", j.APIName),
			zap.String("maintenance_id", j.MaintenanceID),
			zap.Duration("interval", interval),
		)
	}

	retention := maintenance.NewRetention(pool, cfg.Retention.Days, cfg.Retention.Timezone, logger.Named("retention"))
	sched.AddFunc("retention", 24*time.Hour, retention.Run)

	sched.Start()
	defer sched.Stop()

	httpServer := collectordhttp.NewServer(cfg.Service.HTTPListen, pool, sched, logger.Named("http"))
	if err := httpServer.Start(); err != nil {
		logger.Fatal("failed to start HTTP server", zap.Error(err))
	}

	logger.Info("collectord running", zap.Int("job_count", len(cfg.Jobs.Collection)+1))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	sig := <-sigCh
	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	shutdownTimeout := time.Duration(cfg.Service.ShutdownTimeoutSeconds) * time.Second
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	sched.Stop()
	cancel()

	logger.Info("collectord stopped")
}

// buildDriver wires the HTTP fetcher/parser driver and, when
// collector.mode is "snmp", wraps it as the fallback for an SNMPDriver
// backed by either the real gosnmp engine or the deterministic mock,
// selected by snmp.mock.
func buildDriver(cfg *config.Config, logger *zap.Logger) collection.Driver {
	fetchers := fetcher.NewRegistry()
	for name, ep := range cfg.Fetcher.Endpoints {
		src, ok := cfg.Fetcher.Sources[ep.Source]
		if !ok {
			logger.Warn("endpoint references unknown source, skipping",
				zap.String("api_name", name), zap.String("source", ep.Source))
			continue
		}
		fetchers.Register(fetcher.NewConfigured(name, ep.Template, fetcher.Source{
			BaseURL: src.BaseURL,
			Timeout: time.Duration(src.TimeoutSeconds * float64(time.Second)),
		}))
	}

	httpDriver := collection.NewHTTPDriver(fetchers, parser.Default())

	if cfg.Collector.Mode == "api" {
		return httpDriver
	}

	var engine snmp.Engine
	if cfg.SNMP.Mock {
		engine = snmp.NewMockEngine()
	} else {
		engine = snmp.NewRealEngine(cfg.SNMP.MaxRepetitions, time.Duration(cfg.SNMP.WalkTimeoutSecs*float64(time.Second)))
	}

	return collection.NewSNMPDriver(
		engine,
		cfg.SNMP.CommunityList,
		uint16(cfg.SNMP.Port),
		cfg.SNMP.TimeoutSeconds,
		cfg.SNMP.Retries,
		cfg.SNMP.CollectorRetries,
		httpDriver,
	)
}

func runMigrate() {
	cfg, logger := loadConfig(os.Args[2:])
	defer logger.Sync()

	logger.Info("running migrations", zap.String("dsn", redactDSN(cfg.Postgres.DSN)))

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConns, cfg.Postgres.MinConns)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool, migrationsDir(), logger); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}

	logger.Info("migrations complete")
}

func runRetention() {
	cfg, logger := loadConfig(os.Args[2:])
	defer logger.Sync()

	logger.Info("running retention sweep",
		zap.Int("retention_days", cfg.Retention.Days),
		zap.String("timezone", cfg.Retention.Timezone),
	)

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConns, cfg.Postgres.MinConns)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	retention := maintenance.NewRetention(pool, cfg.Retention.Days, cfg.Retention.Timezone, logger)
	if err := retention.Run(ctx); err != nil {
		logger.Fatal("retention sweep failed", zap.Error(err))
	}

	logger.Info("retention sweep complete")
}

func redactDSN(dsn string) string {
	if !strings.Contains(dsn, "://") {
		re := regexp.MustCompile(`password\s*=\s*\S+`)
		return re.ReplaceAllString(dsn, "password=***")
	}
	u, err := url.Parse(dsn)
	if err != nil {
		return "***"
	}
	if u.User != nil {
		u.User = url.UserPassword(u.User.Username(), "***")
	}
	return u.String()
}
