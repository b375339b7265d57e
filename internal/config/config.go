package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is loaded once at startup and handed to every component that
// needs it. Nothing mutates it afterwards.
type Config struct {
	Env  string
	Port string

	DB    DBConfig
	Redis RedisConfig

	JWTSecret     string
	JWTExpiration time.Duration

	CORSAllowOrigins string

	UploadDir     string
	MaxUploadSize int64

	StripeSecretKey string
	StripeCurrency  string
}

type DBConfig struct {
	Driver          string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

// LoadEnv loads variables from a .env file if present.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found: %v", err)
	}
}

// Load reads the .env file and the process environment into a Config.
func Load() *Config {
	LoadEnv()
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() *Config {
	return &Config{
		Env:  GetEnv("ENV", "development"),
		Port: GetEnv("PORT", "8000"),
		DB: DBConfig{
			Driver:          GetEnv("DB_DRIVER", "postgres"),
			Host:            GetEnv("DB_HOST", "localhost"),
			Port:            GetEnv("DB_PORT", "5432"),
			User:            GetEnv("DB_USER", "postgres"),
			Password:        GetEnv("DB_PASSWORD", "postgres"),
			Name:            GetEnv("DB_NAME", "lumbung"),
			SSLMode:         GetEnv("DB_SSLMODE", "disable"),
			MaxIdleConns:    GetIntEnv("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    GetIntEnv("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: GetDurationEnv("DB_CONN_MAX_LIFETIME", time.Hour),
			ConnMaxIdleTime: GetDurationEnv("DB_CONN_MAX_IDLE_TIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			Enabled:  GetBoolEnv("REDIS_ENABLED", false),
			Host:     GetEnv("REDIS_HOST", "localhost"),
			Port:     GetEnv("REDIS_PORT", "6379"),
			Password: GetEnv("REDIS_PASSWORD", ""),
			DB:       GetIntEnv("REDIS_DB", 0),
			TTL:      GetDurationEnv("REDIS_TTL", 10*time.Minute),
		},
		JWTSecret:        GetEnv("JWT_SECRET", "lumbung-dev-secret"),
		JWTExpiration:    GetDurationEnv("JWT_EXPIRES_IN", 24*time.Hour),
		CORSAllowOrigins: GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000,http://localhost:5173"),
		UploadDir:        GetEnv("UPLOAD_DIR", "uploads"),
		MaxUploadSize:    int64(GetIntEnv("MAX_UPLOAD_SIZE", 5*1024*1024)),
		StripeSecretKey:  GetEnv("STRIPE_SECRET_KEY", ""),
		StripeCurrency:   strings.ToLower(GetEnv("STRIPE_CURRENCY", "idr")),
	}
}

// IsProduction checks if the app runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// GetEnv returns an environment variable or a default value.
func GetEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultVal
}

// GetIntEnv returns an int environment variable or a default value.
func GetIntEnv(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
		log.Printf("Invalid %s, using default: %d", key, defaultVal)
	}
	return defaultVal
}

func GetBoolEnv(key string, defaultVal bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
		log.Printf("Invalid %s, using default: %t", key, defaultVal)
	}
	return defaultVal
}

func GetDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
		log.Printf("Invalid %s, using default: %s", key, defaultVal)
	}
	return defaultVal
}
