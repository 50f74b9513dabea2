package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// Clipboard modes
const (
	ClipboardSystem = "system"
	ClipboardFile   = "file"
	ClipboardMemory = "memory"
	ClipboardAuto   = "auto"
)

// EnvConfigPath names the environment variable overriding the config file location
const EnvConfigPath = "XMLPAD_CONFIG"

// Config represents the application configuration.
type Config struct {
	App       AppConfig       `yaml:"app"`
	Editor    EditorConfig    `yaml:"editor"`
	Clipboard ClipboardConfig `yaml:"clipboard"`
	History   HistoryConfig   `yaml:"history"`
	MCP       MCPConfig       `yaml:"mcp"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Editor.Validate(); err != nil {
		return fmt.Errorf("editor: %w", err)
	}
	if err := c.Clipboard.Validate(); err != nil {
		return fmt.Errorf("clipboard: %w", err)
	}
	if err := c.History.Validate(); err != nil {
		return fmt.Errorf("history: %w", err)
	}
	return nil
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	LogLevel slog.Level `yaml:"log_level"`

	// LogFile receives the log of the TUI, which owns the terminal; empty discards it
	LogFile string `yaml:"log_file"`
}

// Logger returns a text logger writing to w at the configured level
func (c *AppConfig) Logger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.LogLevel}))
}

// EditorConfig holds document editing configuration.
type EditorConfig struct {
	// Root is the directory relative document paths resolve against
	Root               string `yaml:"root"`
	UndoLimit          int    `yaml:"undo_limit"`
	Indent             string `yaml:"indent"`
	PreserveWhitespace bool   `yaml:"preserve_whitespace"`
	WatchFiles         bool   `yaml:"watch_files"`
}

// Validate validates the editor configuration.
func (c *EditorConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.UndoLimit, validation.Required, validation.Min(1), validation.Max(100000)),
		validation.Field(&c.Indent, validation.By(onlyBlanks)),
	)
}

func onlyBlanks(value interface{}) error {
	s, _ := value.(string)
	for _, r := range s {
		if r != ' ' && r != '\t' {
			return errors.New("must contain only spaces or tabs")
		}
	}
	return nil
}

// ClipboardConfig selects where cut and copied nodes go.
//
// Mode is one of:
//   - "auto" (default): the desktop clipboard when available, otherwise File.
//   - "system": always the desktop clipboard.
//   - "file": File, shared by every process of the user.
//   - "memory": private to the process.
type ClipboardConfig struct {
	Mode string `yaml:"mode"`
	File string `yaml:"file"`
}

// Validate validates the clipboard configuration.
func (c *ClipboardConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = ClipboardAuto
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(ClipboardAuto, ClipboardSystem, ClipboardFile, ClipboardMemory)),
		validation.Field(&c.File, validation.When(c.Mode == ClipboardFile || c.Mode == ClipboardAuto, validation.Required)),
	)
}

// HistoryConfig holds the clipboard history database configuration.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`

	// Keep bounds the number of entries; older ones are pruned on startup
	Keep int `yaml:"keep"`
}

// Validate validates the history configuration.
func (c *HistoryConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.When(c.Enabled, validation.Required)),
		validation.Field(&c.Keep, validation.Min(0)),
	)
}

// MCPConfig holds MCP server configuration.
type MCPConfig struct {
	Autosave bool `yaml:"autosave"`
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	data := DataDir()
	return &Config{
		App: AppConfig{
			LogLevel: slog.LevelInfo,
		},
		Editor: EditorConfig{
			Root:       ".",
			UndoLimit:  1000,
			Indent:     "  ",
			WatchFiles: true,
		},
		Clipboard: ClipboardConfig{
			Mode: ClipboardAuto,
			File: filepath.Join(data, "clipboard.json"),
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    filepath.Join(data, "history.db"),
			Keep:    500,
		},
		MCP: MCPConfig{
			Autosave: true,
		},
	}
}

// Path returns the config file path from XMLPAD_CONFIG,
// falling back to xmlpad/config.yaml in the user config directory.
func Path() string {
	if env := os.Getenv(EnvConfigPath); env != "" {
		return env
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "xmlpad.yaml"
	}
	return filepath.Join(dir, "xmlpad", "config.yaml")
}

// DataDir returns the directory for the clipboard file and history database,
// from XDG_DATA_HOME when set.
func DataDir() string {
	if env := os.Getenv("XDG_DATA_HOME"); env != "" {
		return filepath.Join(env, "xmlpad")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".xmlpad"
	}
	return filepath.Join(home, ".local", "share", "xmlpad")
}

// Load reads the YAML file at filename over the defaults, expanding environment
// variables. A missing file yields the defaults.
func Load(filename string) (*Config, error) {
	cfg := NewDefaultConfig()
	data, err := os.ReadFile(filename)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file %s: %w", filename, err)
	default:
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", filename, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}
