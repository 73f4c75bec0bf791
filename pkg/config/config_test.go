package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vanderheijden86/orgchart/pkg/view"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Search.ExpandPolicy != "expand" {
		t.Errorf("expected default policy 'expand', got %q", cfg.Search.ExpandPolicy)
	}
	if cfg.Admin.Param != "admin" {
		t.Errorf("expected admin param 'admin', got %q", cfg.Admin.Param)
	}
	if cfg.AdminEnabled() {
		t.Error("admin must be disabled without a secret")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}

	s := cfg.SectionSet()
	if s.Kind("101") != view.SectionCorporate || s.Kind("150") != view.SectionTeam {
		t.Error("default sections should match the reference layout")
	}
	if !cfg.BuildOptions().CorporateRollup {
		t.Error("roll-up should default on")
	}
}

func TestLoadFrom_NonExistent(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:8080" {
		t.Errorf("expected default config, got addr %q", cfg.Server.Addr)
	}
}

func TestLoadFrom_ValidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
data:
  db_path: ~/org/org.db
build:
  corporate_rollup: false
sections:
  - kind: corporate
    ids: ["HQ"]
  - kind: team
    from: 500
    to: 599
search:
  expand_policy: persist
columns:
  name: Name
  email_alias: mail
ui:
  exclusive_sections: true
admin:
  secret: s3cret
colors:
  sections:
    HQ: "#123456"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, "org/org.db"); cfg.DBPath() != want {
		t.Errorf("expected expanded db path %q, got %q", want, cfg.DBPath())
	}
	if cfg.BuildOptions().CorporateRollup {
		t.Error("expected roll-up disabled")
	}

	s := cfg.SectionSet()
	if s.Kind("HQ") != view.SectionCorporate {
		t.Error("expected HQ to be a corporate section")
	}
	if s.Kind("101") != view.SectionNone {
		t.Error("configured sections replace the defaults")
	}
	if s.Kind("550") != view.SectionTeam {
		t.Error("expected 550 to be a team section")
	}

	if cfg.Materializer().Policy() != view.PersistOnMatch {
		t.Errorf("expected persist policy, got %q", cfg.Materializer().Policy())
	}
	cols := cfg.LoaderColumns()
	if cols.Name != "Name" || cols.EmailAlias != "mail" || cols.ID != "id" {
		t.Errorf("unexpected columns %+v", cols)
	}
	if !cfg.SessionOptions().Exclusive {
		t.Error("expected exclusive sections")
	}
	if !cfg.AdminEnabled() || cfg.Admin.Param != "admin" {
		t.Errorf("admin = %+v", cfg.Admin)
	}
	if got := cfg.Palette().Sections["HQ"]; got != "#123456" {
		t.Errorf("palette HQ = %q", got)
	}
	if got := cfg.Palette().Sections["100"]; got != "#007bff" {
		t.Errorf("default palette entries should survive overrides, got %q", got)
	}
}

func TestLoadFrom_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	if err := os.WriteFile(path, []byte("{{invalid yaml"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoadFrom_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad kind", "sections:\n  - kind: division\n    from: 1\n    to: 2\n"},
		{"bad range", "sections:\n  - kind: team\n    from: 9\n    to: 2\n"},
		{"bad policy", "search:\n  expand_policy: sometimes\n"},
		{"bad merge key", "directory:\n  merge_key: id\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadFrom(path); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.UI.ExclusiveSections = true
	cfg.Search.ExpandPolicy = "collapse"
	cfg.Admin.Secret = "x"

	if err := SaveTo(cfg, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load after save failed: %v", err)
	}
	if !loaded.UI.ExclusiveSections || loaded.Search.ExpandPolicy != "collapse" || loaded.Admin.Secret != "x" {
		t.Errorf("round trip lost values: %+v", loaded)
	}
	if len(loaded.Sections) != 2 {
		t.Errorf("expected 2 sections, got %d", len(loaded.Sections))
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot determine home dir")
	}

	tests := []struct {
		input    string
		expected string
	}{
		{"~/foo", filepath.Join(home, "foo")},
		{"/absolute", "/absolute"},
		{"relative", "relative"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := expandHome(tt.input); got != tt.expected {
			t.Errorf("expandHome(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestConfigDir_XDGOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	if got, want := ConfigDir(), filepath.Join(dir, "orgchart"); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if got, want := ConfigPath(), filepath.Join(dir, "orgchart", "config.yaml"); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestDataDir_XDGOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)

	if got, want := DataDir(), filepath.Join(dir, "orgchart"); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if got, want := DefaultConfig().DBPath(), filepath.Join(dir, "orgchart", "orgchart.db"); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
