package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Darwin   DarwinConfig
	RTT      RTTConfig
	Presets  PresetConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path                  string
	MaxOpenConnections    int
	MaxIdleConnections    int
	ConnectionMaxLifetime time.Duration
	ConnectionMaxIdleTime time.Duration
}

// DarwinConfig holds settings for the staff departure board upstream
type DarwinConfig struct {
	BaseURL         string
	Timeout         time.Duration
	RequestDeadline time.Duration
	Concurrency     int
	MaxAssociations int
	RatePerSecond   int
	ServiceCacheTTL time.Duration
	// CacheRedisAddr shares the service cache through Redis when set.
	CacheRedisAddr string
}

// RTTConfig holds Realtime Trains API credentials
type RTTConfig struct {
	BaseURL  string
	Username string
	Password string
	Timeout  time.Duration
}

// PresetConfig holds limits for saved announcement presets
type PresetConfig struct {
	MaxStateBytes     int
	SaveRatePerMinute int
}

// Load reads configuration from environment variables with sensible defaults
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         getEnv("SERVER_ADDR", ":8080"),
			ReadTimeout:  getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getEnvAsDuration("SERVER_WRITE_TIMEOUT", 60*time.Second),
			IdleTimeout:  getEnvAsDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		},
		Database: DatabaseConfig{
			Path:                  getEnv("DB_PATH", "./data/railannouncements.db"),
			MaxOpenConnections:    getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConnections:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnectionMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			ConnectionMaxIdleTime: getEnvAsDuration("DB_CONN_MAX_IDLE_TIME", 1*time.Minute),
		},
		Darwin: DarwinConfig{
			BaseURL:         getEnv("DARWIN_BASE_URL", "https://national-rail-api.davwheat.dev"),
			Timeout:         getEnvAsDuration("DARWIN_TIMEOUT", 15*time.Second),
			RequestDeadline: getEnvAsDuration("DARWIN_REQUEST_DEADLINE", 25*time.Second),
			Concurrency:     getEnvAsInt("DARWIN_CONCURRENCY", 4),
			MaxAssociations: getEnvAsInt("DARWIN_MAX_ASSOCIATIONS", 60),
			RatePerSecond:   getEnvAsInt("DARWIN_RATE_PER_SECOND", 20),
			ServiceCacheTTL: getEnvAsDuration("DARWIN_SERVICE_CACHE_TTL", 2*time.Minute),
			CacheRedisAddr:  getEnv("DARWIN_CACHE_REDIS_ADDR", ""),
		},
		RTT: RTTConfig{
			BaseURL:  getEnv("RTT_BASE_URL", "https://api.rtt.io/api/v1/json"),
			Username: getEnv("RTT_API_USERNAME", ""),
			Password: getEnv("RTT_API_PASSWORD", ""),
			Timeout:  getEnvAsDuration("RTT_TIMEOUT", 15*time.Second),
		},
		Presets: PresetConfig{
			MaxStateBytes:     getEnvAsInt("PRESET_MAX_STATE_BYTES", 100_000),
			SaveRatePerMinute: getEnvAsInt("PRESET_SAVE_RATE_PER_MINUTE", 30),
		},
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	if valueStr := os.Getenv(key); valueStr != "" {
		if value, err := strconv.Atoi(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

// getEnvAsDuration retrieves an environment variable as a duration or returns a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if valueStr := os.Getenv(key); valueStr != "" {
		if value, err := time.ParseDuration(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}
