// Package config handles configuration loading and validation for linedit.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	TUI    TUIConfig    `yaml:"tui"`
	Editor EditorConfig `yaml:"editor"`
	Output OutputConfig `yaml:"output"`
}

// TUIConfig holds appearance settings.
type TUIConfig struct {
	Theme string `yaml:"theme"`
}

// EditorConfig holds editing behavior settings.
type EditorConfig struct {
	// ConfirmDelete gates row deletion behind the confirm/cancel prompt.
	// Disabling it deletes rows immediately.
	ConfirmDelete *bool `yaml:"confirm_delete"`
	// SaveOnQuit writes the edited file back on quit without prompting.
	SaveOnQuit bool `yaml:"save_on_quit"`
}

// OutputConfig controls the JSON mirror of the document.
type OutputConfig struct {
	// Path receives the full document as indented JSON after every change.
	// Empty disables mirroring unless --output is given on the command line.
	Path string `yaml:"path"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	confirm := true
	return Config{
		TUI:    TUIConfig{Theme: "tokyo-night"},
		Editor: EditorConfig{ConfirmDelete: &confirm},
	}
}

// ConfirmDelete reports whether deletes require confirmation.
func (c *Config) ConfirmDelete() bool {
	return c.Editor.ConfirmDelete == nil || *c.Editor.ConfirmDelete
}

// Load reads configuration from the given path. A missing file returns the
// defaults; a malformed one is an error.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}
	if c.Editor.ConfirmDelete == nil {
		c.Editor.ConfirmDelete = defaults.Editor.ConfirmDelete
	}
}

// DefaultYAML renders the default configuration as a commented YAML file,
// used by `linedit init`.
func DefaultYAML() string {
	return `# linedit configuration
tui:
    # Theme: tokyo-night or gruvbox
    theme: tokyo-night

editor:
    # Require a confirm/cancel step before deleting a row.
    confirm_delete: true
    # Write the edited file back on quit without prompting.
    save_on_quit: false

output:
    # Optional path that receives the document as indented JSON after
    # every change. The --output flag overrides this.
    path: ""
`
}
