package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App       AppConfig       `yaml:"app"`
	Database  DatabaseConfig  `yaml:"database"`
	Storage   StorageConfig   `yaml:"storage"`
	Sheets    SheetsConfig    `yaml:"sheets"`
	Estimator EstimatorConfig `yaml:"estimator"`
	AWS       AWSConfig       `yaml:"aws"`
	Edamam    EdamamConfig    `yaml:"edamam"`
	Redis     RedisConfig     `yaml:"redis"`
	JWT       JWTConfig       `yaml:"jwt"`
}

type AppConfig struct {
	Port          string   `yaml:"port"`
	Env           string   `yaml:"env"`
	LogLevel      string   `yaml:"log_level"`
	Timezone      string   `yaml:"timezone"`
	RetentionDays int      `yaml:"retention_days"`
	CORSOrigins   []string `yaml:"cors_origins"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
}

type StorageConfig struct {
	Backend string `yaml:"backend"` // postgres | sheets
}

type SheetsConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
	SpreadsheetID   string `yaml:"spreadsheet_id"`
}

type EstimatorConfig struct {
	Backend        string `yaml:"backend"` // gemini | rekognition
	GeminiAPIKey   string `yaml:"gemini_api_key"`
	GeminiModel    string `yaml:"gemini_model"`
	GeminiEndpoint string `yaml:"gemini_endpoint"`
}

type AWSConfig struct {
	Region        string `yaml:"region"`
	S3Region      string `yaml:"s3_region"`
	S3Bucket      string `yaml:"s3_bucket"`
	CloudFrontURL string `yaml:"cloudfront_url"`
}

type EdamamConfig struct {
	FoodAppID   string `yaml:"food_app_id"`
	FoodAppKey  string `yaml:"food_app_key"`
	NutriAppID  string `yaml:"nutri_app_id"`
	NutriAppKey string `yaml:"nutri_app_key"`
}

type RedisConfig struct {
	Address  string        `yaml:"address"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

type JWTConfig struct {
	Secret string        `yaml:"secret"`
	TTL    time.Duration `yaml:"ttl"`
}

// Load reads .env (if present), then the optional YAML file at path, then
// lets environment variables override individual settings.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			expanded := []byte(os.ExpandEnv(string(data)))
			if err := yaml.Unmarshal(expanded, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}
	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		App: AppConfig{
			Port:          "8080",
			Env:           "production",
			LogLevel:      "info",
			Timezone:      "UTC",
			RetentionDays: 30,
			CORSOrigins:   []string{"*"},
		},
		Database:  DatabaseConfig{Port: "5432", SSLMode: "disable"},
		Storage:   StorageConfig{Backend: "postgres"},
		Estimator: EstimatorConfig{Backend: "gemini", GeminiModel: "gemini-2.5-flash"},
		Redis:     RedisConfig{CacheTTL: 24 * time.Hour},
		JWT:       JWTConfig{TTL: 72 * time.Hour},
	}
}

func applyEnv(c *Config) {
	c.App.Port = getEnv("PORT", c.App.Port)
	c.App.Env = normalizeEnv(getEnv("APP_ENV", c.App.Env))
	c.App.LogLevel = getEnv("LOG_LEVEL", c.App.LogLevel)
	c.App.Timezone = getEnv("APP_TIMEZONE", c.App.Timezone)
	c.App.RetentionDays = getEnvInt("LOG_RETENTION_DAYS", c.App.RetentionDays)
	if origins := getEnv("CORS_ORIGINS", ""); origins != "" {
		c.App.CORSOrigins = splitList(origins)
	}

	c.Database.Host = getEnv("DB_HOST", c.Database.Host)
	c.Database.Port = getEnv("DB_PORT", c.Database.Port)
	c.Database.User = getEnv("DB_USER", c.Database.User)
	c.Database.Password = getEnv("DB_PASSWORD", c.Database.Password)
	c.Database.Name = getEnv("DB_NAME", c.Database.Name)
	c.Database.SSLMode = getEnv("DB_SSLMODE", c.Database.SSLMode)

	c.Storage.Backend = strings.ToLower(getEnv("STORAGE_BACKEND", c.Storage.Backend))
	c.Sheets.CredentialsFile = getEnv("GOOGLE_CREDENTIALS_FILE", c.Sheets.CredentialsFile)
	c.Sheets.SpreadsheetID = getEnv("GOOGLE_SPREADSHEET_ID", c.Sheets.SpreadsheetID)

	c.Estimator.Backend = strings.ToLower(getEnv("ESTIMATOR_BACKEND", c.Estimator.Backend))
	c.Estimator.GeminiAPIKey = getEnv("GEMINI_API_KEY", c.Estimator.GeminiAPIKey)
	c.Estimator.GeminiModel = getEnv("GEMINI_MODEL", c.Estimator.GeminiModel)
	c.Estimator.GeminiEndpoint = getEnv("GEMINI_ENDPOINT", c.Estimator.GeminiEndpoint)

	c.AWS.Region = getEnv("AWS_REGION", c.AWS.Region)
	c.AWS.S3Region = getEnv("S3_REGION", c.AWS.S3Region)
	if c.AWS.S3Region == "" {
		c.AWS.S3Region = c.AWS.Region
	}
	c.AWS.S3Bucket = getEnv("S3_BUCKET", c.AWS.S3Bucket)
	c.AWS.CloudFrontURL = getEnv("CLOUDFRONT_URL", c.AWS.CloudFrontURL)

	c.Edamam.FoodAppID = getEnv("EDAMAM_APP_ID", c.Edamam.FoodAppID)
	c.Edamam.FoodAppKey = getEnv("EDAMAM_APP_KEY", c.Edamam.FoodAppKey)
	c.Edamam.NutriAppID = getEnv("EDAMAM_NUTRI_APP_ID", c.Edamam.NutriAppID)
	c.Edamam.NutriAppKey = getEnv("EDAMAM_NUTRI_APP_KEY", c.Edamam.NutriAppKey)

	c.Redis.Address = getEnv("REDIS_ADDR", c.Redis.Address)
	c.Redis.Password = getEnv("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = getEnvInt("REDIS_DB", c.Redis.DB)
	c.Redis.CacheTTL = getEnvDuration("ESTIMATION_CACHE_TTL", c.Redis.CacheTTL)

	c.JWT.Secret = getEnv("JWT_SECRET", c.JWT.Secret)
	c.JWT.TTL = getEnvDuration("JWT_TTL", c.JWT.TTL)
}

// Validate checks the settings every deployment needs.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET is required")
	}
	switch c.Storage.Backend {
	case "postgres":
		if c.Database.Host == "" || c.Database.Name == "" {
			return errors.New("DB_HOST and DB_NAME are required for the postgres backend")
		}
	case "sheets":
		if c.Sheets.CredentialsFile == "" || c.Sheets.SpreadsheetID == "" {
			return errors.New("GOOGLE_CREDENTIALS_FILE and GOOGLE_SPREADSHEET_ID are required for the sheets backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	switch c.Estimator.Backend {
	case "gemini", "rekognition":
	default:
		return fmt.Errorf("unknown estimator backend %q", c.Estimator.Backend)
	}
	if c.App.RetentionDays <= 0 {
		return errors.New("retention_days must be positive")
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.App.Timezone, err)
	}
	return nil
}

// Location returns the timezone "today" is computed in.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) IsDevelopment() bool { return c.App.Env == "development" }

// DSN builds the postgres connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func normalizeEnv(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "dev", "develop", "development", "local":
		return "development"
	case "prod", "production":
		return "production"
	case "test", "testing":
		return "test"
	default:
		return strings.ToLower(strings.TrimSpace(value))
	}
}
