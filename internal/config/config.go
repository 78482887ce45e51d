package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Attempt store backends.
const (
	AttemptStorePostgres = "postgres"
	AttemptStoreRedis    = "redis"
	AttemptStoreMemory   = "memory"
)

// Department allow-list sources.
const (
	DepartmentSourceStatic   = "static"
	DepartmentSourceDatabase = "database"
)

// Lockout strategies.
const (
	LockoutStrategyLinear = "linear"
	LockoutStrategyFixed  = "fixed"
)

// DefaultDepartments is the front desk's department list.
var DefaultDepartments = []string{
	"General",
	"Surgery",
	"Nursing",
	"Pharmacy",
	"Laboratory",
	"Radiology",
	"Pediatrics",
	"Emergency",
	"Administration",
	"Billing",
}

// Config aggregates runtime configuration for the service.
type Config struct {
	App       AppConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Logger    LoggerConfig
	Auth      AuthConfig
	Lockout   LockoutConfig
	RateLimit RateLimitConfig
	Audit     AuditConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	MigrationsDir  string
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level       string
	Development bool
	Service     string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
	HashWorkers           int
	AttemptStore          string
	DepartmentSource      string
	AllowedDepartments    []string
	PasswordMinLength     int
	PasswordMaxLength     int
	PasswordRequireMixed  bool
	// MetricsDepartments may read /metrics.
	MetricsDepartments    []string
	// StaffSeedFile seeds the in-memory staff store when no database is configured.
	StaffSeedFile         string
}

// LockoutConfig drives the lockout policy.
type LockoutConfig struct {
	Strategy    string
	Threshold   int
	BaseSeconds int
	StepSeconds int
}

// RateLimitConfig limits login requests per client IP.
type RateLimitConfig struct {
	Enabled          bool
	RequestsPerMin   int
	Burst            int
	IdleEvictMinutes int
}

// AuditConfig holds audit sink endpoints.
type AuditConfig struct {
	WebhookURL string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	appName := getEnv("APP_NAME", "staff-auth-service")
	appEnv := getEnv("APP_ENV", "development")

	cfg := &Config{
		App: AppConfig{
			Name:                  appName,
			Env:                   appEnv,
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			MigrationsDir:  getEnv("POSTGRES_MIGRATIONS_DIR", "migrations"),
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Redis: RedisConfig{
			Addr:      getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:  os.Getenv("REDIS_PASSWORD"),
			DB:        redisDB,
			KeyPrefix: getEnv("REDIS_KEY_PREFIX", "staffauth:attempts:"),
		},
		Logger: LoggerConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: appEnv == "development",
			Service:     appName,
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
			HashWorkers:           getEnvAsInt("AUTH_HASH_WORKERS", 4),
			AttemptStore:          strings.ToLower(getEnv("ATTEMPT_STORE", AttemptStorePostgres)),
			DepartmentSource:      strings.ToLower(getEnv("AUTH_DEPARTMENT_SOURCE", DepartmentSourceStatic)),
			AllowedDepartments:    getEnvAsList("AUTH_ALLOWED_DEPARTMENTS", DefaultDepartments),
			PasswordMinLength:     getEnvAsInt("AUTH_PASSWORD_MIN_LENGTH", 8),
			PasswordMaxLength:     getEnvAsInt("AUTH_PASSWORD_MAX_LENGTH", 20),
			PasswordRequireMixed:  getEnvAsBool("AUTH_PASSWORD_REQUIRE_MIXED", false),
			MetricsDepartments:    getEnvAsList("AUTH_METRICS_DEPARTMENTS", []string{"Administration"}),
			StaffSeedFile:         os.Getenv("STAFF_SEED_FILE"),
		},
		Lockout: LockoutConfig{
			Strategy:    strings.ToLower(getEnv("LOCKOUT_STRATEGY", LockoutStrategyLinear)),
			Threshold:   getEnvAsInt("LOCKOUT_THRESHOLD", 3),
			BaseSeconds: getEnvAsInt("LOCKOUT_BASE_SECONDS", 300),
			StepSeconds: getEnvAsInt("LOCKOUT_STEP_SECONDS", 300),
		},
		RateLimit: RateLimitConfig{
			Enabled:          getEnvAsBool("LOGIN_RATE_LIMIT_ENABLED", true),
			RequestsPerMin:   getEnvAsInt("LOGIN_RATE_LIMIT_PER_MINUTE", 30),
			Burst:            getEnvAsInt("LOGIN_RATE_LIMIT_BURST", 10),
			IdleEvictMinutes: getEnvAsInt("LOGIN_RATE_LIMIT_IDLE_MINUTES", 10),
		},
		Audit: AuditConfig{
			WebhookURL: getEnv("AUDIT_WEBHOOK_URL", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	var errs []error

	switch c.Auth.AttemptStore {
	case AttemptStorePostgres, AttemptStoreRedis, AttemptStoreMemory:
	default:
		errs = append(errs, fmt.Errorf("invalid ATTEMPT_STORE %q", c.Auth.AttemptStore))
	}
	switch c.Auth.DepartmentSource {
	case DepartmentSourceStatic, DepartmentSourceDatabase:
	default:
		errs = append(errs, fmt.Errorf("invalid AUTH_DEPARTMENT_SOURCE %q", c.Auth.DepartmentSource))
	}
	switch c.Lockout.Strategy {
	case LockoutStrategyLinear, LockoutStrategyFixed:
	default:
		errs = append(errs, fmt.Errorf("invalid LOCKOUT_STRATEGY %q", c.Lockout.Strategy))
	}
	if c.Lockout.Threshold < 1 {
		errs = append(errs, errors.New("LOCKOUT_THRESHOLD must be at least 1"))
	}
	if c.Lockout.BaseSeconds < 0 || c.Lockout.StepSeconds < 0 {
		errs = append(errs, errors.New("lockout durations must not be negative"))
	}
	if c.Auth.PasswordMinLength < 1 || c.Auth.PasswordMaxLength < c.Auth.PasswordMinLength {
		errs = append(errs, errors.New("password length bounds are inconsistent"))
	}
	if c.Auth.DepartmentSource == DepartmentSourceStatic && len(c.Auth.AllowedDepartments) == 0 {
		errs = append(errs, errors.New("AUTH_ALLOWED_DEPARTMENTS must not be empty"))
	}
	if c.App.Env == "production" && c.Auth.JWTSecret == "dev-secret" {
		errs = append(errs, errors.New("AUTH_JWT_SECRET must be set in production"))
	}

	return errors.Join(errs...)
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

// getEnvAsList splits a comma separated value, dropping blanks.
func getEnvAsList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return append([]string(nil), fallback...)
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
