package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Storage  StorageConfig
	Session  SessionConfig
	Sync     SyncConfig
	Checkout CheckoutConfig
	CORS     CORSConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
	PagesDir    string // optional override for the embedded storefront pages
}

type LogConfig struct {
	Level  string
	Format string
}

type DatabaseConfig struct {
	Driver   string // postgres or sqlite; sqlite reads DBName as a file path
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string

	MaxIdleConns int
	MaxOpenConns int
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Channel  string // pub/sub channel used to relay storage events between instances
}

// StorageBackend selects where storage slots live.
type StorageBackend string

const (
	StorageBackendMemory   StorageBackend = "memory"
	StorageBackendRedis    StorageBackend = "redis"
	StorageBackendDatabase StorageBackend = "database"
)

type StorageConfig struct {
	Backend   StorageBackend
	KeyPrefix string
	SlotTTL   time.Duration // 0 keeps slots forever
	PurgeCron string        // schedule for purging expired database slots
}

type SessionConfig struct {
	CookieName string
	MaxAge     time.Duration
	Secure     bool
}

type SyncConfig struct {
	SettleDelay time.Duration
}

type CheckoutConfig struct {
	FlatRate    float64
	LocalPickup float64
}

type CORSConfig struct {
	AllowedOrigins []string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: getEnv("ENVIRONMENT", "development"),
			PagesDir:    getEnv("PAGES_DIR", ""),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", ""),
			Format: getEnv("LOG_FORMAT", "console"),
		},
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "postgres"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "ghain"),
			Password: getEnv("DB_PASSWORD", "ghain"),
			DBName:   getEnv("DB_NAME", "ghain_storefront"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),

			MaxIdleConns: parseInt(getEnv("DB_MAX_IDLE_CONNS", "10"), 10),
			MaxOpenConns: parseInt(getEnv("DB_MAX_OPEN_CONNS", "50"), 50),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt(getEnv("REDIS_DB", "0"), 0),
			Channel:  getEnv("REDIS_STORAGE_CHANNEL", "ghain:storage-events"),
		},
		Storage: StorageConfig{
			Backend:   StorageBackend(getEnv("STORAGE_BACKEND", string(StorageBackendMemory))),
			KeyPrefix: getEnv("STORAGE_KEY_PREFIX", "ghain"),
			SlotTTL:   parseDuration(getEnv("STORAGE_SLOT_TTL", "720h"), 720*time.Hour),
			PurgeCron: getEnv("STORAGE_PURGE_CRON", "0 4 * * *"),
		},
		Session: SessionConfig{
			CookieName: getEnv("SESSION_COOKIE_NAME", "ghain_session"),
			MaxAge:     parseDuration(getEnv("SESSION_MAX_AGE", "720h"), 720*time.Hour),
			Secure:     getEnv("SESSION_COOKIE_SECURE", "false") == "true",
		},
		Sync: SyncConfig{
			SettleDelay: parseDuration(getEnv("SYNC_SETTLE_DELAY", "500ms"), 500*time.Millisecond),
		},
		Checkout: CheckoutConfig{
			FlatRate:    parseFloat(getEnv("CHECKOUT_FLAT_RATE", "20"), 20),
			LocalPickup: parseFloat(getEnv("CHECKOUT_LOCAL_PICKUP", "25"), 25),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:8080")),
		},
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	switch c.Storage.Backend {
	case StorageBackendMemory, StorageBackendRedis, StorageBackendDatabase:
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.Storage.Backend)
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.Database.Driver)
	}
	if c.Session.CookieName == "" {
		return fmt.Errorf("SESSION_COOKIE_NAME must not be empty")
	}
	return nil
}

// LogLevel falls back to debug in development and info elsewhere.
func (c *Config) LogLevel() string {
	if c.Log.Level != "" {
		return c.Log.Level
	}
	if c.Server.Environment == "development" {
		return "debug"
	}
	return "info"
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default %s", s, fallback)
		return fallback
	}
	return duration
}

func parseInt(s string, fallback int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		log.Printf("Invalid integer %s, using default %d", s, fallback)
		return fallback
	}
	return v
}

func parseFloat(s string, fallback float64) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		log.Printf("Invalid number %s, using default %v", s, fallback)
		return fallback
	}
	return v
}

func parseSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	var result []string
	for i := 0; i < len(s); {
		end := i
		for end < len(s) && s[end] != ',' {
			end++
		}
		result = append(result, s[i:end])
		i = end + 1
	}
	return result
}
