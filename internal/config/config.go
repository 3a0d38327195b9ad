package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Control  ControlConfig  `mapstructure:"control"`
	Server   ServerConfig   `mapstructure:"server"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// ControlConfig configures the plain-text TCP command link.
type ControlConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	ListenAddr       string        `mapstructure:"listen_addr"`
	Port             int           `mapstructure:"port"`
	ReadBuffer       int           `mapstructure:"read_buffer"` // one byte is reserved, tokens are at most read_buffer-1 bytes
	ReadTimeout      time.Duration `mapstructure:"read_timeout"`
	AcceptRetryRate  float64       `mapstructure:"accept_retry_rate"` // per second
	AcceptRetryBurst int           `mapstructure:"accept_retry_burst"`
}

// Address returns the host:port the command listener binds.
func (c *ControlConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.ListenAddr, c.Port)
}

type ServerConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	HTTPPort        int           `mapstructure:"http_port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// HTTP/3 Server
	HTTP3Enabled bool   `mapstructure:"http3_enabled"`
	HTTP3Port    int    `mapstructure:"http3_port"`
	TLSCertFile  string `mapstructure:"tls_cert_file"`
	TLSKeyFile   string `mapstructure:"tls_key_file"`

	// QUIC specific
	MaxIncomingStreams int64         `mapstructure:"max_incoming_streams"`
	MaxIdleTimeout     time.Duration `mapstructure:"max_idle_timeout"`
}

type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Addresses    []string      `mapstructure:"addresses"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	MaxRetries   int           `mapstructure:"max_retries"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`

	CommandChannel string        `mapstructure:"command_channel"`
	StateChannel   string        `mapstructure:"state_channel"`
	StateKey       string        `mapstructure:"state_key"`
	StateTTL       time.Duration `mapstructure:"state_ttl"` // 0 keeps the key forever
}

// PipelineConfig configures the in-process GStreamer host.
type PipelineConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Launch        string `mapstructure:"launch"`
	FilterElement string `mapstructure:"filter_element"`
	Overlay       bool   `mapstructure:"overlay"`
	ChannelOrder  string `mapstructure:"channel_order"` // BGR or RGB
}

type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`     // json or text
	Output     string `mapstructure:"output"`     // stdout, stderr, or file path
	MaxSize    int    `mapstructure:"max_size"`   // MB
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"` // days
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
	Port    int    `mapstructure:"port"`
}

// Load reads configuration from configPath, TINT_* environment variables and
// defaults, in decreasing precedence. A missing file is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	// Environment variable override
	v.SetEnvPrefix("TINT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			v.SetConfigFile(configPath)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Control defaults
	v.SetDefault("control.enabled", true)
	v.SetDefault("control.listen_addr", "0.0.0.0")
	v.SetDefault("control.port", 9000)
	v.SetDefault("control.read_buffer", 1024)
	v.SetDefault("control.read_timeout", "5s")
	v.SetDefault("control.accept_retry_rate", 10)
	v.SetDefault("control.accept_retry_burst", 1)

	// Server defaults
	v.SetDefault("server.enabled", true)
	v.SetDefault("server.http_port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.http3_enabled", false)
	v.SetDefault("server.http3_port", 8443)
	v.SetDefault("server.max_incoming_streams", 100)
	v.SetDefault("server.max_idle_timeout", "30s")

	// Redis defaults
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addresses", []string{"localhost:6379"})
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.max_retries", 3)
	v.SetDefault("redis.dial_timeout", "5s")
	v.SetDefault("redis.read_timeout", "3s")
	v.SetDefault("redis.write_timeout", "3s")
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 1)
	v.SetDefault("redis.command_channel", "tint:commands")
	v.SetDefault("redis.state_channel", "tint:mode")
	v.SetDefault("redis.state_key", "tint:mode:current")
	v.SetDefault("redis.state_ttl", "0s")

	// Pipeline defaults
	v.SetDefault("pipeline.enabled", false)
	v.SetDefault("pipeline.launch", "videotestsrc is-live=true ! videoconvert ! video/x-raw,format=BGR ! identity name=fx ! videoconvert ! autovideosink")
	v.SetDefault("pipeline.filter_element", "fx")
	v.SetDefault("pipeline.overlay", true)
	v.SetDefault("pipeline.channel_order", "BGR")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.max_size", 100)
	v.SetDefault("logging.max_backups", 5)
	v.SetDefault("logging.max_age", 30)

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("metrics.port", 9090)
}
