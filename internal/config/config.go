package config

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"golang.org/x/crypto/bcrypt"
)

// DefaultAPIKeyHeader is the request header carrying the API key.
const DefaultAPIKeyHeader = "X-API-Key"

// MinAPIKeyLength is the shortest accepted plain API key.
const MinAPIKeyLength = 16

// Config is the top-level application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Log      LogConfig      `koanf:"log"`
	Auth     AuthConfig     `koanf:"auth"`
	Metrics  MetricsConfig  `koanf:"metrics"`
	Tracing  TracingConfig  `koanf:"tracing"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host      string          `koanf:"host"`
	Port      int             `koanf:"port"`
	Mode      string          `koanf:"mode"`
	Timeout   string          `koanf:"timeout"`
	BaseURL   string          `koanf:"base_url"`
	CORS      CORSConfig      `koanf:"cors"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
}

// CORSConfig holds CORS middleware settings.
type CORSConfig struct {
	AllowOrigins     []string `koanf:"allow_origins"`
	AllowMethods     []string `koanf:"allow_methods"`
	AllowHeaders     []string `koanf:"allow_headers"`
	AllowCredentials bool     `koanf:"allow_credentials"`
	MaxAge           string   `koanf:"max_age"`
}

// RateLimitConfig holds per-client rate limiting settings.
type RateLimitConfig struct {
	Enabled bool    `koanf:"enabled"`
	RPS     float64 `koanf:"rps"`
	Burst   int     `koanf:"burst"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Driver      string         `koanf:"driver"`
	AutoMigrate bool           `koanf:"auto_migrate"`
	SQLite      SQLiteConfig   `koanf:"sqlite"`
	Postgres    PostgresConfig `koanf:"postgres"`
	MySQL       MySQLConfig    `koanf:"mysql"`
	Pool        PoolConfig     `koanf:"pool"`
}

// SQLiteConfig holds SQLite-specific settings.
type SQLiteConfig struct {
	Path string `koanf:"path"`
}

// PostgresConfig holds PostgreSQL-specific settings.
type PostgresConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	DBName   string `koanf:"dbname"`
	SSLMode  string `koanf:"sslmode"`
}

// MySQLConfig holds MySQL-specific settings.
type MySQLConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	DBName   string `koanf:"dbname"`
	TLS      string `koanf:"tls"`
}

// PoolConfig holds database connection pool settings.
type PoolConfig struct {
	MaxIdleConns    int    `koanf:"max_idle_conns"`
	MaxOpenConns    int    `koanf:"max_open_conns"`
	ConnMaxLifetime string `koanf:"conn_max_lifetime"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level           string `koanf:"level"`
	Format          string `koanf:"format"`
	Color           *bool  `koanf:"color"`
	FilePath        string `koanf:"file_path"`
	MaxSizeMB       int    `koanf:"max_size_mb"`
	RetentionDays   int    `koanf:"retention_days"`
	MaxBackups      int    `koanf:"max_backups"`
	CompressRotated *bool  `koanf:"compress_rotated"`
}

// AuthConfig holds API key authentication settings. Keys may be given in
// plain text, as bcrypt hashes, or both.
type AuthConfig struct {
	Enabled      bool     `koanf:"enabled"`
	Header       string   `koanf:"header"`
	APIKeys      []string `koanf:"api_keys"`
	APIKeyHashes []string `koanf:"api_key_hashes"`
	PublicPaths  []string `koanf:"public_paths"`
}

// MetricsConfig holds Prometheus exposition settings.
type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

// TracingConfig holds OpenTelemetry tracing settings.
type TracingConfig struct {
	Enabled     bool    `koanf:"enabled"`
	ServiceName string  `koanf:"service_name"`
	Endpoint    string  `koanf:"endpoint"`
	Insecure    bool    `koanf:"insecure"`
	SampleRatio float64 `koanf:"sample_ratio"`
}

// Load reads the YAML file at configPath, overlays APP__ environment
// variables and validates the result. A double underscore separates levels,
// a single one stays part of the key:
//
//	APP__SERVER__PORT=9090                   server.port
//	APP__DATABASE__POOL__MAX_IDLE_CONNS=20   database.pool.max_idle_conns
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("load config file %s: %w", configPath, err)
	}
	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

const envPrefix = "APP__"

func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".")
}

// Validate normalises every section in place and reports the first invalid
// value as "invalid <key> ..." or "<key> is required".
func (c *Config) Validate() error {
	if err := c.Server.validate(); err != nil {
		return err
	}
	mode := c.Server.Mode
	for _, check := range []func() error{
		func() error { return c.Database.validate(mode) },
		func() error { return c.Auth.validate(mode) },
		c.Metrics.validate,
		c.Tracing.validate,
		c.Log.validate,
	} {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

func (s *ServerConfig) validate() error {
	s.Mode = strings.TrimSpace(s.Mode)
	if err := oneOf("server.mode", s.Mode, gin.DebugMode, gin.ReleaseMode, gin.TestMode); err != nil {
		return err
	}
	if err := portInRange("server.port", s.Port); err != nil {
		return err
	}
	if s.Host = strings.TrimSpace(s.Host); s.Host == "" {
		return errors.New("server.host is required")
	}

	base := strings.TrimRight(strings.TrimSpace(s.BaseURL), "/")
	if base == "" {
		base = "/api/v1"
	}
	if !strings.HasPrefix(base, "/") {
		return fmt.Errorf("invalid server.base_url %q: must start with '/'", s.BaseURL)
	}
	s.BaseURL = base

	var err error
	if s.Timeout, err = optionalDuration("server.timeout", s.Timeout); err != nil {
		return err
	}
	if s.CORS.MaxAge, err = optionalDuration("server.cors.max_age", s.CORS.MaxAge); err != nil {
		return err
	}

	if !s.RateLimit.Enabled {
		return nil
	}
	if s.RateLimit.RPS <= 0 {
		return fmt.Errorf("invalid server.rate_limit.rps %v: must be positive when rate limiting is enabled", s.RateLimit.RPS)
	}
	if s.RateLimit.Burst <= 0 {
		return fmt.Errorf("invalid server.rate_limit.burst %d: must be positive when rate limiting is enabled", s.RateLimit.Burst)
	}
	return nil
}

func (d *DatabaseConfig) validate(mode string) error {
	var err error
	if d.Pool.ConnMaxLifetime, err = optionalDuration("database.pool.conn_max_lifetime", d.Pool.ConnMaxLifetime); err != nil {
		return err
	}

	switch d.Driver {
	case "sqlite":
		if d.SQLite.Path = strings.TrimSpace(d.SQLite.Path); d.SQLite.Path == "" {
			return errors.New("database.sqlite.path is required when driver is sqlite")
		}
		return nil
	case "postgres":
		return d.Postgres.validate(mode)
	case "mysql":
		return d.MySQL.validate()
	default:
		return oneOf("database.driver", d.Driver, "sqlite", "postgres", "mysql")
	}
}

func (p *PostgresConfig) validate(mode string) error {
	if err := requireServer("postgres", &p.Host, p.Port, &p.User, &p.DBName); err != nil {
		return err
	}
	p.SSLMode = strings.TrimSpace(p.SSLMode)
	if err := oneOf("database.postgres.sslmode", p.SSLMode,
		"disable", "allow", "prefer", "require", "verify-ca", "verify-full"); err != nil {
		return err
	}
	if mode != gin.ReleaseMode {
		return nil
	}
	if err := oneOf("database.postgres.sslmode", p.SSLMode, "require", "verify-ca", "verify-full"); err != nil {
		return fmt.Errorf("%w for server.mode %q", err, gin.ReleaseMode)
	}
	return nil
}

func (m *MySQLConfig) validate() error {
	if err := requireServer("mysql", &m.Host, m.Port, &m.User, &m.DBName); err != nil {
		return err
	}
	m.TLS = strings.TrimSpace(m.TLS)
	if m.TLS == "" {
		return nil
	}
	return oneOf("database.mysql.tls", m.TLS, "false", "true", "skip-verify", "preferred")
}

// requireServer checks and trims the connection fields shared by the
// networked drivers.
func requireServer(driver string, host *string, port int, user, dbname *string) error {
	prefix := "database." + driver + "."
	for _, f := range []struct {
		key string
		val *string
	}{{"host", host}, {"user", user}, {"dbname", dbname}} {
		if *f.val = strings.TrimSpace(*f.val); *f.val == "" {
			return fmt.Errorf("%s%s is required when driver is %s", prefix, f.key, driver)
		}
		if f.key == "host" {
			if err := portInRange(prefix+"port", port); err != nil {
				return err
			}
		}
	}
	return nil
}

func (a *AuthConfig) validate(mode string) error {
	if a.Header = strings.TrimSpace(a.Header); a.Header == "" {
		a.Header = DefaultAPIKeyHeader
	}

	paths := make([]string, 0, len(a.PublicPaths))
	for i, raw := range a.PublicPaths {
		p := strings.TrimSpace(raw)
		if p == "" {
			return fmt.Errorf("auth.public_paths[%d] cannot be empty", i)
		}
		if !strings.HasPrefix(p, "/") {
			return fmt.Errorf("invalid auth.public_paths[%d] %q: must start with '/'", i, raw)
		}
		if !slices.Contains(paths, p) {
			paths = append(paths, p)
		}
	}
	a.PublicPaths = paths

	if !a.Enabled {
		return nil
	}

	for i := range a.APIKeys {
		key := strings.TrimSpace(a.APIKeys[i])
		switch {
		case key == "":
			return fmt.Errorf("auth.api_keys[%d] cannot be empty", i)
		case len(key) < MinAPIKeyLength:
			return fmt.Errorf("invalid auth.api_keys[%d]: must be at least %d characters", i, MinAPIKeyLength)
		case mode == gin.ReleaseMode && CountSecretClasses(key) < 3:
			return fmt.Errorf("auth.api_keys[%d] must include at least 3 character classes (lowercase, uppercase, digit, symbol) in release mode", i)
		}
		a.APIKeys[i] = key
	}
	for i := range a.APIKeyHashes {
		hash := strings.TrimSpace(a.APIKeyHashes[i])
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return fmt.Errorf("invalid auth.api_key_hashes[%d]: %w", i, err)
		}
		a.APIKeyHashes[i] = hash
	}
	if len(a.APIKeys) == 0 && len(a.APIKeyHashes) == 0 {
		return errors.New("auth.api_keys or auth.api_key_hashes is required when auth is enabled")
	}
	return nil
}

func (m *MetricsConfig) validate() error {
	if m.Path = strings.TrimSpace(m.Path); m.Path == "" {
		m.Path = "/metrics"
	}
	if !strings.HasPrefix(m.Path, "/") {
		return fmt.Errorf("invalid metrics.path %q: must start with '/'", m.Path)
	}
	return nil
}

func (t *TracingConfig) validate() error {
	if t.ServiceName = strings.TrimSpace(t.ServiceName); t.ServiceName == "" {
		t.ServiceName = "fleetbase"
	}
	if !t.Enabled {
		return nil
	}
	if t.Endpoint = strings.TrimSpace(t.Endpoint); t.Endpoint == "" {
		return errors.New("tracing.endpoint is required when tracing is enabled")
	}
	if t.SampleRatio < 0 || t.SampleRatio > 1 {
		return fmt.Errorf("invalid tracing.sample_ratio %v: must be between 0 and 1", t.SampleRatio)
	}
	return nil
}

func (l *LogConfig) validate() error {
	l.Level = strings.ToLower(strings.TrimSpace(l.Level))
	if err := oneOf("log.level", l.Level, "debug", "info", "warn", "error"); err != nil {
		return err
	}
	l.Format = strings.ToLower(strings.TrimSpace(l.Format))
	return oneOf("log.format", l.Format, "text", "json")
}

func oneOf(key, value string, allowed ...string) error {
	if slices.Contains(allowed, value) {
		return nil
	}
	quoted := make([]string, len(allowed))
	for i, a := range allowed {
		quoted[i] = strconv.Quote(a)
	}
	return fmt.Errorf("invalid %s %q: must be one of %s", key, value, strings.Join(quoted, ", "))
}

func portInRange(key string, port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("invalid %s %d: must be between 1 and 65535", key, port)
	}
	return nil
}

// optionalDuration trims raw; blank means unset, anything else must parse to
// a positive duration.
func optionalDuration(key, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return "", fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	if d <= 0 {
		return "", fmt.Errorf("invalid %s %q: must be greater than 0", key, raw)
	}
	return raw, nil
}

// CountSecretClasses counts the character classes (lowercase, uppercase,
// digit, other) present in secret.
func CountSecretClasses(secret string) int {
	var seen [4]bool
	for _, r := range secret {
		switch {
		case unicode.IsLower(r):
			seen[0] = true
		case unicode.IsUpper(r):
			seen[1] = true
		case unicode.IsDigit(r):
			seen[2] = true
		default:
			seen[3] = true
		}
	}
	n := 0
	for _, ok := range seen {
		if ok {
			n++
		}
	}
	return n
}
