package core

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	DataSourceCSV    = "csv"
	DataSourceSQLite = "sqlite"
)

// CommandConfig represents a post-processing command applied to saved badges
type CommandConfig struct {
	Name   string         `yaml:"name"`
	Params map[string]any `yaml:",inline"`
}

type Database struct {
	Type             string `yaml:"type"`
	ConnectionString string `yaml:"connectionString"`
}

// DataSource selects where records are read from. For csv, Path is the file;
// for sqlite, Path is the database file holding a records table.
type DataSource struct {
	Type string `yaml:"type"`
	Path string `yaml:"path"`
}

type Printer struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
}

type ServiceConfig struct {
	Port          int             `yaml:"port"`
	LogLevel      string          `yaml:"logLevel"`
	DataSource    DataSource      `yaml:"dataSource"`
	TemplatePath  string          `yaml:"templatePath"`
	FontPath      string          `yaml:"fontPath"`
	OutputDir     string          `yaml:"outputDir"`
	ThumbnailSize int             `yaml:"thumbnailSize"`
	Database      Database        `yaml:"database"`
	Printer       Printer         `yaml:"printer"`
	Commands      []CommandConfig `yaml:"commands"`
}

// DefaultConfig mirrors the file layout the badge printer has always shipped with
func DefaultConfig() *ServiceConfig {
	return &ServiceConfig{
		Port:          8080,
		LogLevel:      "info",
		DataSource:    DataSource{Type: DataSourceCSV, Path: "data.csv"},
		TemplatePath:  "badge_template.jpg",
		FontPath:      "fonts/Roboto-VariableFont.ttf",
		OutputDir:     "badges_out",
		ThumbnailSize: 400,
		Database:      Database{Type: "sqlite", ConnectionString: ":memory:"},
	}
}

// ConfigPath returns $CONFIG_PATH or config.yaml in the working directory
func ConfigPath() string {
	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		return configPath
	}

	cwd, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	return filepath.Join(cwd, "config.yaml")
}

// LoadConfig loads configuration from the specified YAML file.
// Keys missing from the file keep their default values.
func LoadConfig(configPath string) (*ServiceConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", configPath, err)
	}

	return config, nil
}

// LoadConfigOrDefault behaves like LoadConfig but returns DefaultConfig when the file does not exist
func LoadConfigOrDefault(configPath string) (*ServiceConfig, error) {
	config, err := LoadConfig(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return config, err
}

// SlogLevel parses LogLevel ("debug", "info", "warn", "error"), defaulting to info
func (c *ServiceConfig) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func (c *ServiceConfig) validate() error {
	switch c.DataSource.Type {
	case DataSourceCSV, DataSourceSQLite:
	default:
		return fmt.Errorf("unsupported data source type: %s", c.DataSource.Type)
	}
	if c.DataSource.Path == "" {
		return fmt.Errorf("data source path is empty")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output directory is empty")
	}
	if c.ThumbnailSize <= 0 {
		return fmt.Errorf("thumbnail size must be positive, got %d", c.ThumbnailSize)
	}
	return validateCommands(c.Commands)
}

// validateCommands ensures all command configurations have required fields
func validateCommands(commands []CommandConfig) error {
	seenNames := make(map[string]bool)

	for i, cmd := range commands {
		if cmd.Name == "" {
			return fmt.Errorf("command at index %d has empty name", i)
		}
		if seenNames[cmd.Name] {
			return fmt.Errorf("duplicate command name: %s", cmd.Name)
		}
		seenNames[cmd.Name] = true
	}

	return nil
}
