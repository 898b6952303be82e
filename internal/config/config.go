package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the complete tfgraph configuration
type Config struct {
	Version       int    `json:"version" mapstructure:"version"`
	WorkspaceRoot string `json:"workspaceRoot" mapstructure:"workspaceRoot"`

	Graph   GraphConfig   `json:"graph" mapstructure:"graph"`
	Command CommandConfig `json:"command" mapstructure:"command"`
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
}

// GraphConfig controls root discovery and per-root analysis
type GraphConfig struct {
	// SnapshotPath is the committed dependency snapshot, relative to the
	// workspace root.
	SnapshotPath string `json:"snapshotPath" mapstructure:"snapshotPath"`
	// IgnoreFile lists directories excluded from root discovery.
	IgnoreFile string `json:"ignoreFile" mapstructure:"ignoreFile"`
	// MarkerFile identifies a directory as a root configuration.
	MarkerFile string `json:"markerFile" mapstructure:"markerFile"`
	// TerraformBin is the terraform binary name or path.
	TerraformBin string `json:"terraformBin" mapstructure:"terraformBin"`
	// Analyzer selects how roots are analyzed: "terraform" shells out to the
	// terraform binary, "static" parses *.tf files directly.
	Analyzer string `json:"analyzer" mapstructure:"analyzer"`
	// Concurrency bounds how many root analyses run in parallel.
	Concurrency int `json:"concurrency" mapstructure:"concurrency"`
}

// CommandConfig controls chat command parsing
type CommandConfig struct {
	// Trigger is the first-line token that marks a comment as a command.
	Trigger string `json:"trigger" mapstructure:"trigger"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:       1,
		WorkspaceRoot: ".",
		Graph: GraphConfig{
			SnapshotPath: "terraform-deps.json",
			IgnoreFile:   ".tfgraphignore",
			MarkerFile:   ".terraform-version",
			TerraformBin: "terraform",
			Analyzer:     "terraform",
			Concurrency:  4,
		},
		Command: CommandConfig{
			Trigger: "terraform-ops",
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// LoadConfig loads configuration from .tfgraph/config.json under the
// workspace root, falling back to defaults when the file is absent.
func LoadConfig(workspaceRoot string) (*Config, error) {
	v := viper.New()

	def := DefaultConfig()
	v.SetDefault("version", def.Version)
	v.SetDefault("workspaceRoot", workspaceRoot)
	v.SetDefault("graph.snapshotPath", def.Graph.SnapshotPath)
	v.SetDefault("graph.ignoreFile", def.Graph.IgnoreFile)
	v.SetDefault("graph.markerFile", def.Graph.MarkerFile)
	v.SetDefault("graph.terraformBin", def.Graph.TerraformBin)
	v.SetDefault("graph.analyzer", def.Graph.Analyzer)
	v.SetDefault("graph.concurrency", def.Graph.Concurrency)
	v.SetDefault("command.trigger", def.Command.Trigger)
	v.SetDefault("logging.format", def.Logging.Format)
	v.SetDefault("logging.level", def.Logging.Level)

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(workspaceRoot, ".tfgraph"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// No config file: defaults apply.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to .tfgraph/config.json
func (c *Config) Save(workspaceRoot string) error {
	dir := filepath.Join(workspaceRoot, ".tfgraph")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Graph.Analyzer != "terraform" && c.Graph.Analyzer != "static" {
		return &ConfigError{Field: "graph.analyzer", Message: "must be \"terraform\" or \"static\""}
	}
	if c.Graph.Concurrency < 1 {
		return &ConfigError{Field: "graph.concurrency", Message: "must be at least 1"}
	}
	if c.Command.Trigger == "" {
		return &ConfigError{Field: "command.trigger", Message: "must not be empty"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
