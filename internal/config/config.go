// Package config centralizes how the gateway reads environment variables and
// exposes them as strongly typed Go values.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers.
const (
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
	StoreMemory   = "memory"
)

// File storage backends.
const (
	FilesInline = "inline"
	FilesS3     = "s3"
)

// Config represents runtime configuration for the service.
type Config struct {
	Address       string
	PublicBaseURL string
	LogFile       string

	StoreDriver string
	DatabaseURL string
	SQLitePath  string

	FileStorage  string
	MaxFileSize  int64
	MaxFiles     int
	AllowedTypes []string
	VerifyPDF    bool

	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3UseSSL    bool
	S3Region    string
	FilesBucket string

	SMTPHost          string
	SMTPPort          int
	SMTPUser          string
	SMTPPass          string
	SMTPFrom          string
	SMTPSkipTLSVerify bool
	AdminEmail        string

	AdminPassword     string
	AdminPasswordHash string
	SessionSecret     []byte
	SessionTTL        time.Duration

	SigningSecret []byte
	SignedURLTTL  time.Duration
}

const (
	defaultAddress       = ":8080"
	defaultBaseURL       = "http://localhost:8080"
	defaultStoreDriver   = StorePostgres
	defaultSQLitePath    = "gateway.db"
	defaultFileStorage   = FilesS3
	defaultInlineMaxSize = 200 << 10 // 200 KiB keeps base64 documents small
	defaultS3MaxSize     = 5 << 20   // 5 MiB
	defaultMaxFiles      = 5
	defaultAllowedTypes  = "image/jpeg,image/png,image/webp,application/pdf,application/msword," +
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document,text/plain"
	defaultS3Region   = "us-east-1"
	defaultBucket     = "gateway-submissions"
	defaultSMTPPort   = 587
	defaultSessionTTL = 12 * time.Hour
	defaultSignedTTL  = 5 * time.Minute
)

// Load reads configuration from environment variables falling back to
// defaults. A .env file in the working directory is loaded first when present;
// variables already set in the environment win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: read .env: %v", err)
	}
	cfg := &Config{
		Address:       readEnv("GATEWAY_ADDRESS", defaultAddress),
		PublicBaseURL: strings.TrimRight(readEnv("GATEWAY_PUBLIC_BASE_URL", defaultBaseURL), "/"),
		LogFile:       readEnv("GATEWAY_LOG_FILE", ""),

		StoreDriver: strings.ToLower(readEnv("GATEWAY_STORE", defaultStoreDriver)),
		DatabaseURL: readEnv("GATEWAY_DATABASE_URL", ""),
		SQLitePath:  readEnv("GATEWAY_SQLITE_PATH", defaultSQLitePath),

		FileStorage:  strings.ToLower(readEnv("GATEWAY_FILE_STORAGE", defaultFileStorage)),
		MaxFiles:     parseInt("GATEWAY_MAX_FILES", defaultMaxFiles),
		AllowedTypes: parseList("GATEWAY_ALLOWED_TYPES", defaultAllowedTypes),
		VerifyPDF:    parseBool("GATEWAY_VERIFY_PDF", true),

		S3Endpoint:  readEnv("GATEWAY_S3_ENDPOINT", ""),
		S3AccessKey: readEnv("GATEWAY_S3_ACCESS_KEY", ""),
		S3SecretKey: readEnv("GATEWAY_S3_SECRET_KEY", ""),
		S3UseSSL:    parseBool("GATEWAY_S3_USE_SSL", false),
		S3Region:    readEnv("GATEWAY_S3_REGION", defaultS3Region),
		FilesBucket: readEnv("GATEWAY_S3_BUCKET", defaultBucket),

		SMTPHost:          readEnv("SMTP_HOST", ""),
		SMTPPort:          parseInt("SMTP_PORT", defaultSMTPPort),
		SMTPUser:          readEnv("SMTP_USER", ""),
		SMTPPass:          readEnv("SMTP_PASS", ""),
		SMTPFrom:          readEnv("EMAIL_FROM", ""),
		SMTPSkipTLSVerify: parseBool("SMTP_SKIP_TLS_VERIFY", false),
		AdminEmail:        readEnv("GATEWAY_ADMIN_EMAIL", ""),

		AdminPassword:     readEnv("GATEWAY_ADMIN_PASSWORD", ""),
		AdminPasswordHash: readEnv("GATEWAY_ADMIN_PASSWORD_HASH", ""),
		SessionSecret:     parseSecret("GATEWAY_SESSION_SECRET"),
		SessionTTL:        parseDuration("GATEWAY_SESSION_TTL", defaultSessionTTL),

		SigningSecret: parseSecret("GATEWAY_SIGNING_SECRET"),
		SignedURLTTL:  parseDuration("GATEWAY_SIGNED_TTL", defaultSignedTTL),
	}
	// The per-file ceiling follows the storage backend unless set explicitly.
	defaultMax := int64(defaultS3MaxSize)
	if cfg.FileStorage == FilesInline {
		defaultMax = defaultInlineMaxSize
	}
	cfg.MaxFileSize = parseInt64("GATEWAY_MAX_FILE_BYTES", defaultMax)
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = defaultMax
	}
	if cfg.MaxFiles <= 0 {
		cfg.MaxFiles = defaultMaxFiles
	}
	if cfg.SessionSecret == nil {
		cfg.SessionSecret = randomSecret()
	}
	if cfg.SigningSecret == nil {
		cfg.SigningSecret = randomSecret()
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = defaultSessionTTL
	}
	if cfg.SignedURLTTL <= 0 {
		cfg.SignedURLTTL = defaultSignedTTL
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("GATEWAY_DATABASE_URL is required for the %s store", StorePostgres)
		}
	case StoreSQLite, StoreMemory:
	default:
		return fmt.Errorf("unknown store driver %q", c.StoreDriver)
	}
	switch c.FileStorage {
	case FilesInline:
	case FilesS3:
		if c.S3Endpoint == "" || c.FilesBucket == "" {
			return fmt.Errorf("GATEWAY_S3_ENDPOINT and GATEWAY_S3_BUCKET are required for %s file storage", FilesS3)
		}
	default:
		return fmt.Errorf("unknown file storage %q", c.FileStorage)
	}
	return nil
}

// SMTPConfigured reports whether enough SMTP settings exist to send mail.
func (c *Config) SMTPConfigured() bool {
	return c.SMTPHost != "" && c.SMTPFrom != ""
}

// AdminLoginEnabled reports whether any admin credential is configured.
func (c *Config) AdminLoginEnabled() bool {
	return c.AdminPassword != "" || c.AdminPasswordHash != ""
}

func readEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func parseList(key, def string) []string {
	val := readEnv(key, def)
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseInt64(key string, def int64) int64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			return parsed
		}
	}
	return def
}

func parseInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func parseBool(key string, def bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func parseDuration(key string, def time.Duration) time.Duration {
	// time.ParseDuration understands inputs like "5m" or "12h".
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}

func parseSecret(key string) []byte {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return []byte(v)
	}
	return nil
}

func randomSecret() []byte {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return []byte(hex.EncodeToString([]byte("fallbacksecret")))
	}
	return buf
}
