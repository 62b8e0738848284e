// Package config собирает настройки из .env, YAML-файла и окружения.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultTextModel     = "gemini-3-flash-preview"
	DefaultImageModel    = "gemini-2.5-flash-image"
)

type StorageConfig struct {
	Driver      string `yaml:"driver"`
	DatabaseURL string `yaml:"database_url"`
	SQLitePath  string `yaml:"sqlite_path"`
}

type GeminiConfig struct {
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	TextModel      string `yaml:"text_model"`
	ImageModel     string `yaml:"image_model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type HTTPConfig struct {
	Port          string `yaml:"port"`
	JWTSecret     string `yaml:"jwt_secret"`
	TokenTTLHours int    `yaml:"token_ttl_hours"`
}

type TelegramConfig struct {
	Token    string `yaml:"token"`
	AdminIDs string `yaml:"admin_ids"`
}

type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	PublicURL string `yaml:"public_url"`
}

type Config struct {
	Env      string         `yaml:"env"`
	Timezone string         `yaml:"timezone"`
	Storage  StorageConfig  `yaml:"storage"`
	Gemini   GeminiConfig   `yaml:"gemini"`
	HTTP     HTTPConfig     `yaml:"http"`
	Telegram TelegramConfig `yaml:"telegram"`
	S3       S3Config       `yaml:"s3"`
}

func defaults() *Config {
	return &Config{
		Env: "development",
		Storage: StorageConfig{
			Driver:     DriverPostgres,
			SQLitePath: "seed.db",
		},
		Gemini: GeminiConfig{
			BaseURL:        DefaultGeminiBaseURL,
			TextModel:      DefaultTextModel,
			ImageModel:     DefaultImageModel,
			TimeoutSeconds: 60,
		},
		HTTP: HTTPConfig{
			Port:          "8080",
			TokenTTLHours: 24 * 30,
		},
	}
}

// Load: .env (если есть) -> значения по умолчанию -> YAML -> переменные окружения.
// Пустой path означает SEED_CONFIG или seed.yaml; отсутствующий файл не ошибка.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()

	if path == "" {
		path = os.Getenv("SEED_CONFIG")
	}
	explicit := path != ""
	if path == "" {
		path = "seed.yaml"
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnv(cfg)

	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Env, "ENV")
	setString(&cfg.Timezone, "SEED_TIMEZONE")

	setString(&cfg.Storage.Driver, "SEED_STORAGE_DRIVER")
	setString(&cfg.Storage.DatabaseURL, "DATABASE_URL")
	setString(&cfg.Storage.SQLitePath, "SQLITE_PATH")

	setString(&cfg.Gemini.APIKey, "GEMINI_API_KEY")
	setString(&cfg.Gemini.APIKey, "API_KEY")
	setString(&cfg.Gemini.BaseURL, "GEMINI_BASE_URL")
	setString(&cfg.Gemini.TextModel, "GEMINI_TEXT_MODEL")
	setString(&cfg.Gemini.ImageModel, "GEMINI_IMAGE_MODEL")
	setInt(&cfg.Gemini.TimeoutSeconds, "GEMINI_TIMEOUT_SECONDS")

	setString(&cfg.HTTP.Port, "PORT")
	setString(&cfg.HTTP.JWTSecret, "JWT_SECRET")
	setInt(&cfg.HTTP.TokenTTLHours, "TOKEN_TTL_HOURS")

	setString(&cfg.Telegram.Token, "TELEGRAM_TOKEN")
	setString(&cfg.Telegram.AdminIDs, "ADMIN_IDS")

	setString(&cfg.S3.Bucket, "S3_BUCKET")
	setString(&cfg.S3.Region, "AWS_REGION")
	setString(&cfg.S3.Region, "S3_REGION")
	setString(&cfg.S3.PublicURL, "CLOUDFRONT_URL")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// Location - часовой пояс для границы суток
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c *Config) GeminiTimeout() time.Duration {
	return time.Duration(c.Gemini.TimeoutSeconds) * time.Second
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.HTTP.TokenTTLHours) * time.Hour
}

// ValidateStorage проверяет настройки хранилища
func (c *Config) ValidateStorage() error {
	switch c.Storage.Driver {
	case DriverPostgres:
		if c.Storage.DatabaseURL == "" {
			return errors.New("DATABASE_URL not set")
		}
	case DriverSQLite:
		if c.Storage.SQLitePath == "" {
			return errors.New("SQLITE_PATH not set")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	return nil
}

func (c *Config) ValidateBot() error {
	if err := c.ValidateStorage(); err != nil {
		return err
	}
	if c.Telegram.Token == "" {
		return errors.New("TELEGRAM_TOKEN not set")
	}
	return nil
}

func (c *Config) ValidateAPI() error {
	if err := c.ValidateStorage(); err != nil {
		return err
	}
	if c.HTTP.JWTSecret == "" {
		return errors.New("JWT_SECRET not set")
	}
	return nil
}
