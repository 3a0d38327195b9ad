package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) Validate() error {
	if err := c.Control.Validate(); err != nil {
		return fmt.Errorf("control config: %w", err)
	}

	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.Redis.Validate(); err != nil {
		return fmt.Errorf("redis config: %w", err)
	}

	if err := c.Pipeline.Validate(); err != nil {
		return fmt.Errorf("pipeline config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	if err := c.Metrics.Validate(); err != nil {
		return fmt.Errorf("metrics config: %w", err)
	}

	if c.Server.Enabled && c.Metrics.Enabled && c.Server.HTTPPort == c.Metrics.Port {
		return fmt.Errorf("server http_port and metrics port must differ: %d", c.Metrics.Port)
	}

	return nil
}

func (c *ControlConfig) Validate() error {
	if !c.Enabled {
		return nil
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid control port: %d", c.Port)
	}

	if c.ReadBuffer < 2 {
		return fmt.Errorf("read_buffer must be at least 2, got %d", c.ReadBuffer)
	}

	if c.ReadTimeout < 0 {
		return fmt.Errorf("read_timeout cannot be negative")
	}

	if c.AcceptRetryRate <= 0 {
		return fmt.Errorf("accept_retry_rate must be positive")
	}

	if c.AcceptRetryBurst < 1 {
		return fmt.Errorf("accept_retry_burst must be at least 1")
	}

	return nil
}

func (s *ServerConfig) Validate() error {
	if !s.Enabled {
		return nil
	}

	if s.HTTPPort < 1 || s.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", s.HTTPPort)
	}

	if s.ShutdownTimeout < 0 {
		return fmt.Errorf("shutdown_timeout cannot be negative")
	}

	if !s.HTTP3Enabled {
		return nil
	}

	if s.HTTP3Port < 1 || s.HTTP3Port > 65535 {
		return fmt.Errorf("invalid HTTP3 port: %d", s.HTTP3Port)
	}

	if s.TLSCertFile == "" {
		return fmt.Errorf("TLS certificate file is required")
	}

	if s.TLSKeyFile == "" {
		return fmt.Errorf("TLS key file is required")
	}

	// Check if certificate files exist
	if _, err := os.Stat(s.TLSCertFile); os.IsNotExist(err) {
		return fmt.Errorf("TLS certificate file not found: %s", s.TLSCertFile)
	}

	if _, err := os.Stat(s.TLSKeyFile); os.IsNotExist(err) {
		return fmt.Errorf("TLS key file not found: %s", s.TLSKeyFile)
	}

	if s.MaxIncomingStreams <= 0 {
		return fmt.Errorf("max_incoming_streams must be positive")
	}

	return nil
}

func (r *RedisConfig) Validate() error {
	if !r.Enabled {
		return nil
	}

	if len(r.Addresses) == 0 {
		return fmt.Errorf("at least one Redis address is required")
	}

	if r.DB < 0 {
		return fmt.Errorf("invalid Redis database number: %d", r.DB)
	}

	if r.MaxRetries < 0 {
		return fmt.Errorf("max_retries cannot be negative")
	}

	if r.PoolSize <= 0 {
		return fmt.Errorf("pool_size must be positive")
	}

	if r.MinIdleConns < 0 {
		return fmt.Errorf("min_idle_conns cannot be negative")
	}

	if r.MinIdleConns > r.PoolSize {
		return fmt.Errorf("min_idle_conns cannot be greater than pool_size")
	}

	if r.CommandChannel == "" {
		return fmt.Errorf("command_channel cannot be empty")
	}

	if r.StateTTL < 0 {
		return fmt.Errorf("state_ttl cannot be negative")
	}

	return nil
}

func (p *PipelineConfig) Validate() error {
	switch strings.ToUpper(p.ChannelOrder) {
	case "", "BGR", "RGB":
	default:
		return fmt.Errorf("channel_order must be 'BGR' or 'RGB', got %q", p.ChannelOrder)
	}

	if !p.Enabled {
		return nil
	}

	if strings.TrimSpace(p.Launch) == "" {
		return fmt.Errorf("launch description is required")
	}

	if p.FilterElement == "" {
		return fmt.Errorf("filter_element cannot be empty")
	}

	if !strings.Contains(p.Launch, "name="+p.FilterElement) {
		return fmt.Errorf("launch description has no element named %q", p.FilterElement)
	}

	return nil
}

func (l *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"panic": true,
		"fatal": true,
		"error": true,
		"warn":  true,
		"info":  true,
		"debug": true,
		"trace": true,
	}

	if !validLevels[l.Level] {
		return fmt.Errorf("invalid log level: %s", l.Level)
	}

	if l.Format != "json" && l.Format != "text" {
		return fmt.Errorf("log format must be 'json' or 'text'")
	}

	if l.Output != "stdout" && l.Output != "stderr" {
		if l.MaxSize <= 0 {
			return fmt.Errorf("max_size must be positive for file output")
		}
		if l.MaxBackups < 0 {
			return fmt.Errorf("max_backups cannot be negative")
		}
		if l.MaxAge < 0 {
			return fmt.Errorf("max_age cannot be negative")
		}
	}

	return nil
}

func (m *MetricsConfig) Validate() error {
	if m.Enabled {
		if m.Port < 1 || m.Port > 65535 {
			return fmt.Errorf("invalid metrics port: %d", m.Port)
		}

		if m.Path == "" {
			return fmt.Errorf("metrics path cannot be empty")
		}
	}

	return nil
}
