package app

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/payments-example/internal/data/db"
	"github.com/yungbote/payments-example/internal/observability"
	"github.com/yungbote/payments-example/internal/platform/envutil"
	"github.com/yungbote/payments-example/internal/platform/logger"
)

const configPathEnv = "PAYMENTS_CONFIG_PATH"

//go:embed config.yaml
var defaultConfigYAML []byte

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	App       AppConfig       `yaml:"app"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Processor ProcessorConfig `yaml:"processor"`
	Otel      OtelConfig      `yaml:"otel"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	CORSOrigins     []string      `yaml:"cors_origins"`
}

type AppConfig struct {
	Env     string `yaml:"env"`
	LogMode string `yaml:"log_mode"`
}

type DatabaseConfig struct {
	Driver          string        `yaml:"driver"`
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Name            string        `yaml:"name"`
	SSL             bool          `yaml:"ssl"`
	SQLitePath      string        `yaml:"sqlite_path"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

type RedisConfig struct {
	Addr           string        `yaml:"addr"`
	Password       string        `yaml:"password"`
	DB             int           `yaml:"db"`
	IdempotencyTTL time.Duration `yaml:"idempotency_ttl"`
}

type ProcessorConfig struct {
	Mode         string  `yaml:"mode"`
	ApprovalRate float64 `yaml:"approval_rate"`
	Seed         uint64  `yaml:"seed"`
}

type OtelConfig struct {
	Enabled     bool    `yaml:"enabled"`
	ServiceName string  `yaml:"service_name"`
	Endpoint    string  `yaml:"endpoint"`
	Headers     string  `yaml:"headers"`
	Insecure    bool    `yaml:"insecure"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

const (
	ProcessorSimulated = "simulated"
	ProcessorApprove   = "approve"
	ProcessorDecline   = "decline"
)

// LoadConfig layers configuration: embedded defaults, the optional YAML file named by
// PAYMENTS_CONFIG_PATH, then environment variables (a .env file in the working directory
// is loaded first and never overrides variables that are already set).
func LoadConfig(log *logger.Logger) (Config, error) {
	return loadConfig(log, ".env")
}

func loadConfig(log *logger.Logger, dotenvPath string) (Config, error) {
	if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", dotenvPath, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(defaultConfigYAML, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse embedded config: %w", err)
	}
	if path := strings.TrimSpace(os.Getenv(configPathEnv)); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
		if log != nil {
			log.Info("Loaded config file", "path", path)
		}
	}

	applyEnv(&cfg, log)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, log *logger.Logger) {
	cfg.Server.Port = envutil.Int("PORT", cfg.Server.Port, log)
	cfg.Server.ShutdownTimeout = envutil.Duration("SHUTDOWN_TIMEOUT", cfg.Server.ShutdownTimeout, log)
	if raw := envutil.String("CORS_ORIGINS", "", log); raw != "" {
		cfg.Server.CORSOrigins = splitList(raw)
	}

	cfg.App.Env = envutil.String("APP_ENV", cfg.App.Env, log)
	cfg.App.LogMode = envutil.String("LOG_MODE", cfg.App.LogMode, log)

	d := &cfg.Database
	d.Driver = strings.ToLower(envutil.String("DB_DRIVER", d.Driver, log))
	d.Host = envutil.String("DB_HOST", d.Host, log)
	d.Port = envutil.Int("DB_PORT", d.Port, log)
	d.User = envutil.String("DB_USER", d.User, log)
	d.Password = envutil.String("DB_PASSWORD", d.Password, log)
	d.Name = envutil.String("DB_NAME", d.Name, log)
	d.SSL = envutil.Bool("DB_SSL", d.SSL, log)
	d.SQLitePath = envutil.String("SQLITE_PATH", d.SQLitePath, log)
	d.MaxOpenConns = envutil.Int("DB_MAX_OPEN_CONNS", d.MaxOpenConns, log)
	d.MaxIdleConns = envutil.Int("DB_MAX_IDLE_CONNS", d.MaxIdleConns, log)
	d.ConnMaxLifetime = envutil.Duration("DB_CONN_MAX_LIFETIME", d.ConnMaxLifetime, log)

	r := &cfg.Redis
	r.Addr = envutil.String("REDIS_ADDR", r.Addr, log)
	r.Password = envutil.String("REDIS_PASSWORD", r.Password, log)
	r.DB = envutil.Int("REDIS_DB", r.DB, log)
	r.IdempotencyTTL = envutil.Duration("IDEMPOTENCY_TTL", r.IdempotencyTTL, log)

	p := &cfg.Processor
	p.Mode = strings.ToLower(envutil.String("PROCESSOR_MODE", p.Mode, log))
	p.ApprovalRate = envutil.Float("PROCESSOR_APPROVAL_RATE", p.ApprovalRate, log)
	p.Seed = uint64(envutil.Int("PROCESSOR_SEED", int(p.Seed), log))

	o := &cfg.Otel
	o.Enabled = envutil.Bool("OTEL_ENABLED", o.Enabled, log)
	o.ServiceName = envutil.String("OTEL_SERVICE_NAME", o.ServiceName, log)
	o.Endpoint = envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", o.Endpoint, log)
	o.Headers = envutil.String("OTEL_EXPORTER_OTLP_HEADERS", o.Headers, log)
	o.Insecure = envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", o.Insecure, log)
	o.SampleRatio = envutil.Float("OTEL_SAMPLE_RATIO", o.SampleRatio, log)
}

func (c Config) Validate() error {
	var errs []error
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server port out of range: %d", c.Server.Port))
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("unknown database driver %q", c.Database.Driver))
	}
	switch c.Processor.Mode {
	case ProcessorSimulated, ProcessorApprove, ProcessorDecline:
	default:
		errs = append(errs, fmt.Errorf("unknown processor mode %q", c.Processor.Mode))
	}
	if c.Processor.ApprovalRate < 0 || c.Processor.ApprovalRate > 1 {
		errs = append(errs, fmt.Errorf("processor approval rate must be within [0,1], got %v", c.Processor.ApprovalRate))
	}
	return errors.Join(errs...)
}

func (c Config) DB() db.Config {
	d := c.Database
	return db.Config{
		Driver:          d.Driver,
		Host:            d.Host,
		Port:            d.Port,
		User:            d.User,
		Password:        d.Password,
		Name:            d.Name,
		SSL:             d.SSL,
		SQLitePath:      d.SQLitePath,
		MaxOpenConns:    d.MaxOpenConns,
		MaxIdleConns:    d.MaxIdleConns,
		ConnMaxLifetime: d.ConnMaxLifetime,
	}
}

func (c Config) Tracing(version string) observability.OtelConfig {
	return observability.OtelConfig{
		Enabled:     c.Otel.Enabled,
		ServiceName: c.Otel.ServiceName,
		Environment: c.App.Env,
		Version:     version,
		Endpoint:    c.Otel.Endpoint,
		Headers:     observability.ParseHeaders(c.Otel.Headers),
		Insecure:    c.Otel.Insecure,
		SampleRatio: c.Otel.SampleRatio,
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
