package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Printing PrintingConfig `yaml:"printing"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type PrintingConfig struct {
	DummyMode             bool   `yaml:"dummy_mode"`
	EpsonHostOverride     string `yaml:"epson_host_override"`
	GCloudCredentialsFile string `yaml:"gcloud_credentials_file"`
	GCloudScope           string `yaml:"gcloud_scope"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Path: "./data/printbridge.db",
		},
		Printing: PrintingConfig{
			GCloudScope: "https://www.googleapis.com/auth/cloudprint",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

func Load(configPath string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

func LoadFromEnv() *Config {
	cfg := defaults()

	if v := os.Getenv("PRINTBRIDGE_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}

	if v := os.Getenv("PRINTBRIDGE_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}

	if v := os.Getenv("PRINTBRIDGE_DUMMY_MODE"); v != "" {
		if dummy, err := strconv.ParseBool(v); err == nil {
			cfg.Printing.DummyMode = dummy
		}
	}

	if v := os.Getenv("PRINTBRIDGE_EPSON_HOST_OVERRIDE"); v != "" {
		cfg.Printing.EpsonHostOverride = v
	}

	if v := os.Getenv("PRINTBRIDGE_GCLOUD_CREDENTIALS"); v != "" {
		cfg.Printing.GCloudCredentialsFile = v
	}

	if v := os.Getenv("PRINTBRIDGE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	return cfg
}

func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Server.ReadTimeout < 0 {
		return fmt.Errorf("server read timeout must be non-negative")
	}

	if c.Server.WriteTimeout < 0 {
		return fmt.Errorf("server write timeout must be non-negative")
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}

	if c.Printing.GCloudCredentialsFile != "" && c.Printing.GCloudScope == "" {
		return fmt.Errorf("gcloud scope is required when credentials are configured")
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error)", c.Logging.Level)
	}

	validFormats := map[string]bool{
		"json":  true,
		"text":  true,
		"plain": true,
	}

	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("invalid log format: %s (valid: json, text, plain)", c.Logging.Format)
	}

	return nil
}
