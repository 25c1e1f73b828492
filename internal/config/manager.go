package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"trends-search/pkg/trends"
)

// EnvFiles are loaded, when present, before the environment is read. Existing variables win.
var EnvFiles = []string{".env.local", ".env"}

type manager struct {
	mu     sync.RWMutex
	config *Config
	viper  *viper.Viper
}

func NewManager() Manager {
	return &manager{
		viper: viper.New(),
	}
}

// Load reads defaults, then the optional config file, then TRENDS_* environment variables.
// A missing config file is not an error.
func (m *manager) Load(configPath string) (*Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, f := range EnvFiles {
		_ = godotenv.Load(f)
	}

	if err := m.setupViper(configPath); err != nil {
		return nil, fmt.Errorf("failed to setup viper: %w", err)
	}

	if configPath != "" {
		if err := m.viper.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var config Config
	if err := m.viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := m.validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	m.config = &config
	return &config, nil
}

func (m *manager) GetConfig() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

func (m *manager) setupViper(configPath string) error {
	setDefaults(m.viper)

	if configPath != "" {
		m.viper.SetConfigFile(configPath)
	}

	m.viper.SetEnvPrefix("TRENDS")
	m.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	m.viper.AutomaticEnv()

	// API_KEY is what the .env.local of earlier deployments carries
	return m.viper.BindEnv("provider.api_keys", "TRENDS_PROVIDER_API_KEYS", "API_KEY")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout_sec", 15)
	v.SetDefault("server.write_timeout_sec", 60)
	v.SetDefault("server.request_timeout_sec", 45)

	v.SetDefault("provider.endpoint", trends.DefaultEndpoint)
	v.SetDefault("provider.api_keys", "")
	v.SetDefault("provider.timeout_sec", 30)
	v.SetDefault("provider.max_retries", 2)
	v.SetDefault("provider.retry_delay_ms", 500)
	v.SetDefault("provider.breaker_failures", 5)
	v.SetDefault("provider.breaker_timeout_sec", 30)

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.max_size", 256)
	v.SetDefault("cache.ttl_sec", 900)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("logger.time_format", "")
}

func (m *manager) validateConfig(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if config.Provider.Endpoint == "" {
		return fmt.Errorf("provider endpoint cannot be empty")
	}

	if config.Provider.MaxRetries < 0 {
		return fmt.Errorf("max_retries cannot be negative")
	}

	if config.Cache.Enabled && config.Cache.MaxSize <= 0 {
		return fmt.Errorf("cache max_size must be positive when the cache is enabled")
	}

	return nil
}
