package core

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}
	return configPath
}

func TestLoadConfig_Success(t *testing.T) {
	configPath := writeConfig(t, `port: 9090
logLevel: debug
dataSource:
  type: sqlite
  path: records.db
templatePath: assets/template.png
outputDir: out
printer:
  command: lp
  args: ["-d", "badges"]
commands:
  - name: OrientationCommand
    orientation: portrait
    clockwise: false
  - name: DitherCommand
`)

	config, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", config.Port)
	}
	if config.DataSource.Type != DataSourceSQLite || config.DataSource.Path != "records.db" {
		t.Errorf("Unexpected data source %+v", config.DataSource)
	}
	if config.TemplatePath != "assets/template.png" || config.OutputDir != "out" {
		t.Errorf("Unexpected paths %s, %s", config.TemplatePath, config.OutputDir)
	}
	if config.Printer.Command != "lp" || len(config.Printer.Args) != 2 {
		t.Errorf("Unexpected printer %+v", config.Printer)
	}
	if len(config.Commands) != 2 {
		t.Fatalf("Expected 2 commands, got %d", len(config.Commands))
	}
	if config.Commands[0].Params["orientation"] != "portrait" || config.Commands[0].Params["clockwise"] != false {
		t.Errorf("Unexpected inline params %v", config.Commands[0].Params)
	}
	if config.SlogLevel() != slog.LevelDebug {
		t.Errorf("Expected debug level, got %v", config.SlogLevel())
	}

	// keys absent from the file keep their defaults
	if config.FontPath != "fonts/Roboto-VariableFont.ttf" {
		t.Errorf("Expected default font path, got %s", config.FontPath)
	}
	if config.ThumbnailSize != 400 {
		t.Errorf("Expected default thumbnail size 400, got %d", config.ThumbnailSize)
	}
	if config.Database.Type != "sqlite" || config.Database.ConnectionString != ":memory:" {
		t.Errorf("Expected default database, got %+v", config.Database)
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	config, err := LoadConfig("/path/that/does/not/exist/config.yaml")
	if err == nil {
		t.Fatal("Expected error for non-existent file, got nil")
	}
	if config != nil {
		t.Error("Expected config to be nil when file doesn't exist")
	}
}

func TestLoadConfigOrDefault(t *testing.T) {
	config, err := LoadConfigOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Expected defaults for missing file, got error %v", err)
	}
	if config.DataSource.Path != "data.csv" || config.TemplatePath != "badge_template.jpg" || config.OutputDir != "badges_out" {
		t.Errorf("Unexpected defaults %+v", config)
	}

	if _, err := LoadConfigOrDefault(writeConfig(t, "port: [")); err == nil {
		t.Error("Expected parse errors to be reported")
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"Malformed YAML", "port: ["},
		{"Unknown data source", "dataSource:\n  type: excel\n  path: data.xlsx\n"},
		{"Empty data path", "dataSource:\n  type: csv\n  path: \"\"\n"},
		{"Empty output dir", "outputDir: \"\"\n"},
		{"Negative thumbnail", "thumbnailSize: -1\n"},
		{"Command without name", "commands:\n  - orientation: portrait\n"},
		{"Duplicate command", "commands:\n  - name: DitherCommand\n  - name: DitherCommand\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, tt.content)); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestSlogLevel_DefaultsToInfo(t *testing.T) {
	config := DefaultConfig()
	config.LogLevel = "loud"
	if config.SlogLevel() != slog.LevelInfo {
		t.Errorf("Expected info level for unknown value, got %v", config.SlogLevel())
	}
}

func TestLoadConfig_ShippedConfigKeepsTemplateSize(t *testing.T) {
	config, err := LoadConfig(filepath.Join("..", "..", "config.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if len(config.Commands) != 0 {
		t.Errorf("Expected no post-processing commands by default, got %+v", config.Commands)
	}
}

func TestConfigPath(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/etc/badgeprinter/config.yaml")
	if got := ConfigPath(); got != "/etc/badgeprinter/config.yaml" {
		t.Errorf("Expected CONFIG_PATH to win, got %s", got)
	}

	t.Setenv("CONFIG_PATH", "")
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	if got := ConfigPath(); got != filepath.Join(cwd, "config.yaml") {
		t.Errorf("Expected config.yaml in working directory, got %s", got)
	}
}
