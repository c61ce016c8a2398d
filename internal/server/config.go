package server

import (
	"fmt"
	"time"
)

// Config holds the HTTP server configuration.
type Config struct {
	Host        string          `mapstructure:"host" yaml:"host"`
	Port        int             `mapstructure:"port" yaml:"port"`
	DevMode     bool            `mapstructure:"dev_mode" yaml:"dev_mode"`
	CORSOrigins []string        `mapstructure:"cors_origins" yaml:"cors_origins"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit" yaml:"rate_limit"`
	// TrustedProxies lists peers (IPs or CIDRs) whose X-Forwarded-For is honoured.
	TrustedProxies []string      `mapstructure:"trusted_proxies" yaml:"trusted_proxies"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"` // must cover both completion calls
}

// RateLimitConfig configures the per-IP token bucket.
type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps" yaml:"rps"`
	Burst int     `mapstructure:"burst" yaml:"burst"`
}

// DefaultConfig returns the server defaults.
func DefaultConfig() Config {
	return Config{
		Host:         "0.0.0.0",
		Port:         5000,
		CORSOrigins:  []string{"*"},
		RateLimit:    RateLimitConfig{RPS: 5, Burst: 10},
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
	}
}

// Addr returns the listen address as host:port.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
