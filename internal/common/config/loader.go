// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like ARTIFACT_PATH
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment-specific overlay, ignored if absent.
	viper.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = viper.MergeInConfig()

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile loads .env from the working directory or the project root so
// the service behaves the same when run from cmd/server or from tests.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up directories looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		val := v.Get(key)

		if strVal, ok := val.(string); ok {
			if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
				expanded := os.ExpandEnv(strVal)
				if expanded != strVal && expanded != "" {
					v.Set(key, expanded)
				}
			}
		}
	}
}

// overrideEmptyConfig fills secrets from plain environment variables when
// the YAML left them empty.
func overrideEmptyConfig(cfg *Config) {
	if cfg.Artifact.Path == "" {
		if val := os.Getenv("ARTIFACT_PATH"); val != "" {
			cfg.Artifact.Path = val
		}
	}
	if cfg.Artifact.Postgres.User == "" {
		if val := os.Getenv("DB_USER"); val != "" {
			cfg.Artifact.Postgres.User = val
		}
	}
	if cfg.Artifact.Postgres.Password == "" {
		if val := os.Getenv("DB_PASSWORD"); val != "" {
			cfg.Artifact.Postgres.Password = val
		}
	}
	if cfg.Artifact.Redis.Password == "" {
		if val := os.Getenv("REDIS_PASSWORD"); val != "" {
			cfg.Artifact.Redis.Password = val
		}
	}
}

// applyDefaults sets default values for optional configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "churn-predictor"
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15000
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 15000
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = 10000
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 30000
	}

	if cfg.Artifact.Source == "" {
		cfg.Artifact.Source = "file"
	}
	if cfg.Artifact.Postgres.MaxConnections == 0 {
		cfg.Artifact.Postgres.MaxConnections = 10
	}
	if cfg.Artifact.Postgres.MaxIdle == 0 {
		cfg.Artifact.Postgres.MaxIdle = 2
	}
	if cfg.Artifact.Postgres.SSLMode == "" {
		cfg.Artifact.Postgres.SSLMode = "disable"
	}
	if cfg.Artifact.Redis.KeyPrefix == "" {
		cfg.Artifact.Redis.KeyPrefix = "churn:model"
	}

	if cfg.Thresholds.High == 0 {
		cfg.Thresholds.High = 0.6
	}
	if cfg.Thresholds.Medium == 0 {
		cfg.Thresholds.Medium = 0.3
	}

	if cfg.Inference.MaxConcurrent == 0 {
		cfg.Inference.MaxConcurrent = 32
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}

// validateConfig validates critical configuration fields.
func validateConfig(cfg *Config) error {
	switch cfg.Artifact.Source {
	case "file":
		if cfg.Artifact.Path == "" {
			return fmt.Errorf("artifact.path is required for file source")
		}
	case "postgres":
		if cfg.Artifact.Postgres.Host == "" {
			return fmt.Errorf("artifact.postgres.host is required")
		}
		if cfg.Artifact.Postgres.Database == "" {
			return fmt.Errorf("artifact.postgres.database is required")
		}
		if cfg.Artifact.Postgres.User == "" {
			return fmt.Errorf("artifact.postgres.user is required")
		}
	case "redis":
		if cfg.Artifact.Redis.Address == "" {
			return fmt.Errorf("artifact.redis.address is required")
		}
	default:
		return fmt.Errorf("artifact.source must be file, postgres or redis, got %q", cfg.Artifact.Source)
	}

	if cfg.Thresholds.Medium >= cfg.Thresholds.High {
		return fmt.Errorf("thresholds.medium (%v) must be below thresholds.high (%v)",
			cfg.Thresholds.Medium, cfg.Thresholds.High)
	}
	if cfg.Thresholds.Medium <= 0 || cfg.Thresholds.High >= 1 {
		return fmt.Errorf("thresholds must lie strictly inside (0, 1)")
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration.
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
