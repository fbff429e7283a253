package config

import (
	"os"
	"strconv"
	"strings"
)

// DatabaseConfig holds PostgreSQL connection settings for the submission journal.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// StoreConfig holds content store settings (S3-compatible, MinIO-supported).
type StoreConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool

	// GatewayBaseURL is the public base used to derive a document's
	// location reference from its content id.
	GatewayBaseURL string

	// MaxUploadBytes bounds a single upload; larger blobs are rejected,
	// not truncated. Zero disables the check.
	MaxUploadBytes int64

	// AllowedTypes is the accepted MIME type allowlist for uploads.
	AllowedTypes []string
}

// LedgerConfig holds settings for the authoritative ledger service.
// The effective target is Target when set, otherwise DefaultTarget;
// if neither resolves the ledger client refuses to construct.
type LedgerConfig struct {
	Target        string
	DefaultTarget string
	TimeoutSec    int
}

// AppConfig is the centralized configuration struct for the application,
// populated from environment variables.
type AppConfig struct {
	Port         string
	StatusFanout int
	Database     DatabaseConfig
	Store        StoreConfig
	Ledger       LedgerConfig
}

// Load reads configuration from environment variables. A .env file can be
// auto-loaded by importing: _ "github.com/joho/godotenv/autoload". Real
// environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		Port:         getEnv("PORT", "8080"),
		StatusFanout: getEnvInt("STATUS_FANOUT", 16),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		Store: StoreConfig{
			Endpoint:       getEnv("STORE_ENDPOINT", ""),
			AccessKey:      getEnv("STORE_ACCESS_KEY", ""),
			SecretKey:      getEnv("STORE_SECRET_KEY", ""),
			Bucket:         getEnv("STORE_BUCKET", ""),
			UseSSL:         getEnvBool("STORE_USE_SSL", false),
			GatewayBaseURL: getEnv("STORE_GATEWAY_URL", ""),
			MaxUploadBytes: getEnvInt64("STORE_MAX_UPLOAD_BYTES", 32<<20),
			AllowedTypes:   getEnvList("STORE_ALLOWED_TYPES", []string{"application/pdf"}),
		},
		Ledger: LedgerConfig{
			Target:        getEnv("LEDGER_TARGET", ""),
			DefaultTarget: getEnv("LEDGER_DEFAULT_TARGET", ""),
			TimeoutSec:    getEnvInt("LEDGER_TIMEOUT_SEC", 10),
		},
	}
}

// ResolveTarget returns the effective ledger target: the explicit override
// when set, otherwise the process-wide default. Empty means unresolved.
func (c LedgerConfig) ResolveTarget() string {
	if c.Target != "" {
		return c.Target
	}
	return c.DefaultTarget
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.ParseInt(v, 10, 64)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvList(key string, def []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return def
}
