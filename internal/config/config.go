package config

import (
	"time"

	"trends-search/pkg/logger"
	"trends-search/pkg/trends"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Provider ProviderConfig `mapstructure:"provider"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Logger   logger.Config  `mapstructure:"logger"`
}

type ServerConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	ReadTimeoutSec  int    `mapstructure:"read_timeout_sec"`
	WriteTimeoutSec int    `mapstructure:"write_timeout_sec"`
	RequestTimeout  int    `mapstructure:"request_timeout_sec"`
}

// ProviderConfig configures the upstream search-interest API
type ProviderConfig struct {
	Endpoint          string `mapstructure:"endpoint"`
	APIKeys           string `mapstructure:"api_keys"`
	TimeoutSec        int    `mapstructure:"timeout_sec"`
	MaxRetries        int    `mapstructure:"max_retries"`
	RetryDelayMs      int    `mapstructure:"retry_delay_ms"`
	BreakerFailures   int    `mapstructure:"breaker_failures"`
	BreakerTimeoutSec int    `mapstructure:"breaker_timeout_sec"`
}

type CacheConfig struct {
	Enabled bool `mapstructure:"enabled"`
	MaxSize int  `mapstructure:"max_size"`
	TTLSec  int  `mapstructure:"ttl_sec"`
}

type Manager interface {
	Load(configPath string) (*Config, error)
	GetConfig() *Config
}

// TrendsConfig converts the provider section into client settings
func (p ProviderConfig) TrendsConfig() trends.Config {
	return trends.Config{
		Endpoint:        p.Endpoint,
		APIKeys:         p.APIKeys,
		Timeout:         time.Duration(p.TimeoutSec) * time.Second,
		MaxRetries:      p.MaxRetries,
		RetryDelay:      time.Duration(p.RetryDelayMs) * time.Millisecond,
		BreakerFailures: uint32(p.BreakerFailures),
		BreakerTimeout:  time.Duration(p.BreakerTimeoutSec) * time.Second,
	}
}

func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSec) * time.Second
}
