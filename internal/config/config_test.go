package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	if err := NewDefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Editor.UndoLimit != 1000 {
		t.Errorf("undo limit = %d, want 1000", cfg.Editor.UndoLimit)
	}
}

func TestLoad_OverridesAndExpandsEnv(t *testing.T) {
	t.Setenv("XMLPAD_TEST_DIR", "/srv/docs")
	path := writeConfig(t, `
app:
  log_level: debug
editor:
  root: ${XMLPAD_TEST_DIR}
  undo_limit: 50
  indent: "\t"
clipboard:
  mode: memory
history:
  enabled: false
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.App.LogLevel != slog.LevelDebug {
		t.Errorf("log level = %v, want debug", cfg.App.LogLevel)
	}
	if cfg.Editor.Root != "/srv/docs" {
		t.Errorf("root = %q, want /srv/docs", cfg.Editor.Root)
	}
	if cfg.Editor.UndoLimit != 50 || cfg.Editor.Indent != "\t" {
		t.Errorf("editor = %+v", cfg.Editor)
	}
	if !cfg.Editor.WatchFiles {
		t.Error("unset fields keep their defaults")
	}
	if cfg.Clipboard.Mode != ClipboardMemory || cfg.History.Enabled {
		t.Errorf("clipboard = %+v, history = %+v", cfg.Clipboard, cfg.History)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"undo limit", "editor:\n  undo_limit: -1\n", "editor"},
		{"indent", "editor:\n  indent: \"--\"\n", "indent"},
		{"clipboard mode", "clipboard:\n  mode: carrier-pigeon\n", "clipboard"},
		{"file mode without file", "clipboard:\n  mode: file\n  file: \"\"\n", "file"},
		{"history without path", "history:\n  enabled: true\n  path: \"\"\n", "history"},
		{"yaml", "editor: [\n", "parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestClipboardConfig_EmptyModeDefaultsAuto(t *testing.T) {
	cfg := ClipboardConfig{File: "/tmp/clip.json"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to auto: %v", err)
	}
	if cfg.Mode != ClipboardAuto {
		t.Errorf("mode = %q, want %q", cfg.Mode, ClipboardAuto)
	}
}

func TestPath(t *testing.T) {
	t.Setenv(EnvConfigPath, "/etc/xmlpad.yaml")
	if got := Path(); got != "/etc/xmlpad.yaml" {
		t.Errorf("Path() = %q", got)
	}
	t.Setenv(EnvConfigPath, "")
	if got := Path(); !strings.HasSuffix(got, filepath.Join("xmlpad", "config.yaml")) {
		t.Errorf("Path() = %q", got)
	}
}

func TestDataDir(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")
	if got := DataDir(); got != filepath.Join("/data", "xmlpad") {
		t.Errorf("DataDir() = %q", got)
	}
}
