package core

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Database struct {
	Type             string `yaml:"type"`
	ConnectionString string `yaml:"connectionString"`
}

type ServiceConfig struct {
	Port         int      `yaml:"port"`
	Database     Database `yaml:"database"`
	FFmpegBinary string   `yaml:"ffmpegBinary"`
	JPEGQuality  int      `yaml:"jpegQuality"`
}

// DefaultConfig returns the configuration used when no file is provided.
func DefaultConfig() *ServiceConfig {
	return &ServiceConfig{
		Port: 8080,
		Database: Database{
			Type:             "sqlite",
			ConnectionString: "renders.db",
		},
		FFmpegBinary: "ffmpeg",
		JPEGQuality:  90,
	}
}

// LoadConfig loads configuration from the specified YAML file. Omitted
// fields keep their defaults.
func LoadConfig(configPath string) (*ServiceConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", configPath, err)
	}

	return config, nil
}

func validateConfig(config *ServiceConfig) error {
	if config.Port < 1 || config.Port > 65535 {
		return fmt.Errorf("port must be in 1-65535, got %d", config.Port)
	}
	if config.Database.Type == "" {
		return fmt.Errorf("database type must not be empty")
	}
	if config.JPEGQuality < 1 || config.JPEGQuality > 100 {
		return fmt.Errorf("jpegQuality must be in 1-100, got %d", config.JPEGQuality)
	}
	if config.FFmpegBinary == "" {
		return fmt.Errorf("ffmpegBinary must not be empty")
	}
	return nil
}
