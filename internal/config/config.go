package config

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vango-dev/quoteboard/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "quoteboard.json"

	// DefaultAddr is the default live server address.
	DefaultAddr = "localhost:3000"

	// DefaultBaseURL is the Alpha Vantage query endpoint.
	DefaultBaseURL = "https://www.alphavantage.co/query"

	// DefaultAsyncTimeout bounds every asynchronous lookup.
	DefaultAsyncTimeout = 10 * time.Second

	// DefaultMaxQueue is the capacity of the host dispatch queue.
	DefaultMaxQueue = 256

	// DefaultCacheSize is the number of quotes kept in the LRU cache.
	DefaultCacheSize = 128

	// DefaultCacheTTL is how long a cached quote stays fresh.
	DefaultCacheTTL = time.Minute
)

// Environment variable names.
const (
	EnvAPIKey   = "QUOTEBOARD_API_KEY"
	EnvAddr     = "QUOTEBOARD_ADDR"
	EnvLogLevel = "QUOTEBOARD_LOG_LEVEL"
	EnvOTLP     = "QUOTEBOARD_OTLP_ENDPOINT"
)

// Config represents the complete quoteboard.json configuration.
type Config struct {
	// Addr is the listen address of the live server.
	Addr string `json:"addr,omitempty"`

	// APIKey is the quote API key. Prefer QUOTEBOARD_API_KEY.
	APIKey string `json:"apiKey,omitempty"`

	// BaseURL is the quote API endpoint.
	BaseURL string `json:"baseURL,omitempty"`

	// AsyncTimeout bounds asynchronous lookups started by components.
	// Zero disables the bound.
	AsyncTimeout Duration `json:"asyncTimeout,omitempty"`

	// MaxQueue is the capacity of the host dispatch queue.
	MaxQueue int `json:"maxQueue,omitempty"`

	// Cache configures the quote cache.
	Cache CacheConfig `json:"cache,omitempty"`

	// Log configures logging.
	Log LogConfig `json:"log,omitempty"`

	// Tracing configures span export.
	Tracing TracingConfig `json:"tracing,omitempty"`

	// DrawerTitle is the heading shown in the side drawer.
	DrawerTitle string `json:"drawerTitle,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// CacheConfig contains quote cache settings.
type CacheConfig struct {
	// Size is the maximum number of cached quotes. Zero disables caching.
	Size int `json:"size,omitempty"`

	// TTL is how long a cached quote is served.
	TTL Duration `json:"ttl,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty"`

	// Format is "text" or "json".
	Format string `json:"format,omitempty"`
}

// TracingConfig contains OTLP trace export settings.
type TracingConfig struct {
	// Endpoint is the OTLP/HTTP collector host:port. Empty disables export.
	Endpoint string `json:"endpoint,omitempty"`

	// Insecure sends spans over plain HTTP.
	Insecure bool `json:"insecure,omitempty"`

	// SampleRate is the fraction of traces kept, in (0, 1].
	SampleRate float64 `json:"sampleRate,omitempty"`
}

// Duration is a time.Duration encoded as a string ("10s") in JSON.
type Duration time.Duration

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// New creates a Config with default values.
func New() *Config {
	c := &Config{
		AsyncTimeout: Duration(DefaultAsyncTimeout),
		Cache:        CacheConfig{Size: DefaultCacheSize},
	}
	c.applyDefaults()
	return c
}

// Load reads configuration from the specified directory.
// A missing quoteboard.json is not an error: defaults and environment
// overrides are returned instead.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := New()
		cfg.applyEnv()
		return cfg, cfg.Validate()
	}
	return LoadFile(path)
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("E400").Wrap(err)
	}

	// Decode over the defaults so fields left out of the file keep them,
	// while an explicit zero (cache size, async timeout) disables.
	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E400").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error())
	}

	cfg.configPath = path
	cfg.applyDefaults()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in fields whose zero value is not usable. Cache
// size and async timeout are set by New, since zero is meaningful there.
func (c *Config) applyDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.MaxQueue == 0 {
		c.MaxQueue = DefaultMaxQueue
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = Duration(DefaultCacheTTL)
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Tracing.SampleRate == 0 {
		c.Tracing.SampleRate = 1
	}
	if c.DrawerTitle == "" {
		c.DrawerTitle = "quoteboard"
	}
}

// applyEnv applies environment variable overrides.
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvAPIKey); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		c.Addr = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvOTLP); v != "" {
		c.Tracing.Endpoint = v
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.AsyncTimeout < 0 {
		return errors.New("E400").WithDetail("asyncTimeout must not be negative")
	}
	if c.MaxQueue < 1 {
		return errors.New("E400").WithDetail("maxQueue must be at least 1")
	}
	if c.Cache.Size < 0 {
		return errors.New("E400").WithDetail("cache.size must not be negative")
	}
	if c.Tracing.SampleRate <= 0 || c.Tracing.SampleRate > 1 {
		return errors.New("E400").WithDetailf("tracing.sampleRate %v out of range", c.Tracing.SampleRate)
	}
	if _, ok := parseLevel(c.Log.Level); !ok {
		return errors.New("E400").WithDetailf("unknown log level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.New("E400").WithDetailf("unknown log format %q", c.Log.Format)
	}
	return nil
}

// LogLevel returns the configured slog level.
func (c *Config) LogLevel() slog.Level {
	level, _ := parseLevel(c.Log.Level)
	return level
}

// NewLogger builds the process logger described by the configuration.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel()}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
