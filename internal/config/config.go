package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Security SecurityConfig
	Storage  StorageConfig
	Redis    RedisConfig
	Seed     SeedConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string

	MaxConns        int
	MinConns        int
	MaxConnIdleTime time.Duration
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Name           string
	Version        string
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

type SecurityConfig struct {
	BcryptCost int
}

// StorageConfig selects and configures the object store backing profile pictures.
type StorageConfig struct {
	Type string // "s3" or "local"

	// S3 / S3-compatible
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool

	// Local
	BasePath string
	BaseURL  string

	DownloadURLExpiry time.Duration
	UploadURLExpiry   time.Duration
}

type RedisConfig struct {
	Enabled        bool
	Host           string
	Port           int
	Password       string
	DB             int
	URLCacheMargin time.Duration
}

// SeedConfig is the administrator account inserted by the migrate command.
type SeedConfig struct {
	AdminName       string
	AdminEmail      string
	AdminPassword   string
	AdminEmployeeID string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, reading configuration from environment")
	}

	config := &Config{}

	// Database configuration
	dbPort, err := getEnvInt("DB_PORT", 5432)
	if err != nil {
		return nil, err
	}

	maxConns, err := getEnvInt("DB_MAX_CONNS", 25)
	if err != nil {
		return nil, err
	}
	minConns, err := getEnvInt("DB_MIN_CONNS", 5)
	if err != nil {
		return nil, err
	}
	maxConnIdle, err := getEnvDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	config.Database = DatabaseConfig{
		Host:            getEnv("DB_HOST", "localhost"),
		Port:            dbPort,
		User:            getEnv("DB_USER", "postgres"),
		Password:        getEnv("DB_PASSWORD", ""),
		Name:            getEnv("DB_NAME", "employee_management"),
		SSLMode:         getEnv("DB_SSL_MODE", "disable"),
		MaxConns:        maxConns,
		MinConns:        minConns,
		MaxConnIdleTime: maxConnIdle,
	}

	// Application configuration
	appPort, err := getEnvInt("APP_PORT", 8080)
	if err != nil {
		return nil, err
	}

	config.App = AppConfig{
		Name:           getEnv("APP_NAME", "employee-backend"),
		Version:        getEnv("APP_VERSION", "v1.0.0"),
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "168h"),
	}

	bcryptCost, err := getEnvInt("BCRYPT_COST", 10)
	if err != nil {
		return nil, err
	}
	config.Security = SecurityConfig{BcryptCost: bcryptCost}

	// Storage configuration
	useSSL, err := getEnvBool("STORAGE_USE_SSL", true)
	if err != nil {
		return nil, err
	}
	downloadExpiry, err := getEnvDuration("STORAGE_DOWNLOAD_URL_EXPIRY", time.Hour)
	if err != nil {
		return nil, err
	}
	uploadExpiry, err := getEnvDuration("STORAGE_UPLOAD_URL_EXPIRY", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	config.Storage = StorageConfig{
		Type:              getEnv("STORAGE_TYPE", "s3"),
		Endpoint:          getEnv("S3_ENDPOINT", "s3.amazonaws.com"),
		Region:            getEnv("AWS_REGION", "us-east-1"),
		Bucket:            getEnv("AWS_BUCKET_NAME", ""),
		AccessKey:         getEnv("AWS_ACCESS_KEY_ID", ""),
		SecretKey:         getEnv("AWS_SECRET_ACCESS_KEY", ""),
		UseSSL:            useSSL,
		BasePath:          getEnv("STORAGE_BASE_PATH", "./uploads"),
		BaseURL:           getEnv("STORAGE_BASE_URL", "http://localhost:8080/uploads"),
		DownloadURLExpiry: downloadExpiry,
		UploadURLExpiry:   uploadExpiry,
	}

	// Redis configuration
	redisEnabled, err := getEnvBool("REDIS_ENABLED", false)
	if err != nil {
		return nil, err
	}
	redisPort, err := getEnvInt("REDIS_PORT", 6379)
	if err != nil {
		return nil, err
	}
	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	urlCacheMargin, err := getEnvDuration("REDIS_URL_CACHE_MARGIN", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	config.Redis = RedisConfig{
		Enabled:        redisEnabled,
		Host:           getEnv("REDIS_HOST", "localhost"),
		Port:           redisPort,
		Password:       getEnv("REDIS_PASSWORD", ""),
		DB:             redisDB,
		URLCacheMargin: urlCacheMargin,
	}

	config.Seed = SeedConfig{
		AdminName:       getEnv("SEED_ADMIN_NAME", "Admin User"),
		AdminEmail:      getEnv("SEED_ADMIN_EMAIL", "admin@gmail.com"),
		AdminPassword:   getEnv("SEED_ADMIN_PASSWORD", "123456"),
		AdminEmployeeID: getEnv("SEED_ADMIN_EMPLOYEE_ID", "ADMIN-001"),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.Database.MaxConns < 1 || c.Database.MinConns < 0 {
		return fmt.Errorf("DB_MAX_CONNS must be positive and DB_MIN_CONNS non-negative")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if c.Security.BcryptCost < 4 || c.Security.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31")
	}

	switch c.Storage.Type {
	case "s3":
		if c.Storage.Bucket == "" {
			return fmt.Errorf("AWS_BUCKET_NAME is required")
		}
		if c.Storage.AccessKey == "" || c.Storage.SecretKey == "" {
			return fmt.Errorf("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY are required")
		}
	case "local":
		if c.Storage.BasePath == "" {
			return fmt.Errorf("STORAGE_BASE_PATH is required")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_TYPE: %s", c.Storage.Type)
	}

	if c.Storage.DownloadURLExpiry <= 0 || c.Storage.UploadURLExpiry <= 0 {
		return fmt.Errorf("storage URL expiry must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// RedisAddr returns host:port for the Redis client
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnvSlice(key string, fallback []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
