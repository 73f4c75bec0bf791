// Package config handles loading and saving orgchart configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/orgchart/config.yaml
//   - Data:    ~/.local/share/orgchart/ (the SQLite blob store)
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/orgchart/pkg/export"
	"github.com/vanderheijden86/orgchart/pkg/loader"
	"github.com/vanderheijden86/orgchart/pkg/orgtree"
	"github.com/vanderheijden86/orgchart/pkg/view"
)

const appName = "orgchart"

// DataConfig locates the persisted records and the optional seed table.
type DataConfig struct {
	DBPath  string `yaml:"db_path,omitempty"`  // SQLite file, default <data dir>/orgchart.db
	CSVPath string `yaml:"csv_path,omitempty"` // Seed table used instead of the bundled one
	Watch   bool   `yaml:"watch,omitempty"`    // Reload the TUI when CSVPath changes
}

// BuildConfig controls tree construction.
type BuildConfig struct {
	CorporateRollup *bool `yaml:"corporate_rollup,omitempty"`
}

// SectionConfig marks ids as roll-up sections.
type SectionConfig struct {
	Kind string   `yaml:"kind"` // corporate or team
	IDs  []string `yaml:"ids,omitempty"`
	From int      `yaml:"from,omitempty"`
	To   int      `yaml:"to,omitempty"`
}

// SearchConfig controls query behaviour.
type SearchConfig struct {
	ExpandPolicy string `yaml:"expand_policy,omitempty"` // expand, collapse, persist
}

// ColumnsConfig overrides CSV header names. Empty fields keep the defaults.
type ColumnsConfig struct {
	ID            string `yaml:"id,omitempty"`
	Name          string `yaml:"name,omitempty"`
	Title         string `yaml:"title,omitempty"`
	CorporateUnit string `yaml:"corporate_unit,omitempty"`
	Team          string `yaml:"team,omitempty"`
	ManagerID     string `yaml:"manager_id,omitempty"`
	Email         string `yaml:"email,omitempty"`
	EmailAlias    string `yaml:"email_alias,omitempty"`
}

// UIConfig holds terminal UI preferences.
type UIConfig struct {
	ExclusiveSections bool `yaml:"exclusive_sections,omitempty"` // at most one open section
	HideDetails       bool `yaml:"hide_details,omitempty"`       // start without the detail pane
}

// ServerConfig configures `orgchart serve`.
type ServerConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

// AdminConfig gates the upload endpoints. An empty secret disables them.
type AdminConfig struct {
	Secret string `yaml:"secret,omitempty"`
	Param  string `yaml:"param,omitempty"`
}

// ColorConfig sets node fills for the SVG/PNG snapshot.
type ColorConfig struct {
	Sections  map[string]string `yaml:"sections,omitempty"` // per section id
	Corporate string            `yaml:"corporate,omitempty"`
	Team      string            `yaml:"team,omitempty"`
	Person    string            `yaml:"person,omitempty"`
}

// DirectoryConfig controls `orgchart dump`.
type DirectoryConfig struct {
	MergeKey string `yaml:"merge_key,omitempty"` // name or email
	Output   string `yaml:"output,omitempty"`
}

// Config is the top-level configuration.
type Config struct {
	Data      DataConfig      `yaml:"data,omitempty"`
	Build     BuildConfig     `yaml:"build,omitempty"`
	Sections  []SectionConfig `yaml:"sections,omitempty"`
	Search    SearchConfig    `yaml:"search,omitempty"`
	Columns   ColumnsConfig   `yaml:"columns,omitempty"`
	UI        UIConfig        `yaml:"ui,omitempty"`
	Server    ServerConfig    `yaml:"server,omitempty"`
	Admin     AdminConfig     `yaml:"admin,omitempty"`
	Colors    ColorConfig     `yaml:"colors,omitempty"`
	Directory DirectoryConfig `yaml:"directory,omitempty"`
}

// DefaultConfig returns a Config with the reference section layout.
func DefaultConfig() Config {
	return Config{
		Sections: []SectionConfig{
			{Kind: string(view.SectionCorporate), From: 100, To: 102},
			{Kind: string(view.SectionTeam), From: 103, To: 199},
		},
		Search:    SearchConfig{ExpandPolicy: string(view.ExpandOnMatch)},
		Server:    ServerConfig{Addr: "127.0.0.1:8080"},
		Admin:     AdminConfig{Param: "admin"},
		Directory: DirectoryConfig{MergeKey: "name", Output: "users.csv"},
	}
}

// ConfigDir returns the XDG config directory.
func ConfigDir() string {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// DataDir returns the XDG data directory.
func DataDir() string {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func xdgDir(env, fallback string) string {
	if dir := os.Getenv(env); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, fallback, appName)
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	// A sections list in the file replaces the defaults rather than
	// appending to them.
	cfg.Sections = nil
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Sections == nil {
		cfg.Sections = DefaultConfig().Sections
	}

	cfg.Data.DBPath = expandHome(cfg.Data.DBPath)
	cfg.Data.CSVPath = expandHome(cfg.Data.CSVPath)
	cfg.Directory.Output = expandHome(cfg.Directory.Output)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Validate checks enumerated values.
func (c Config) Validate() error {
	var errs []error
	for i, s := range c.Sections {
		if _, err := view.ParseSectionKind(s.Kind); err != nil {
			errs = append(errs, fmt.Errorf("sections[%d]: %w", i, err))
		}
		if len(s.IDs) == 0 && s.From > s.To {
			errs = append(errs, fmt.Errorf("sections[%d]: from %d is after to %d", i, s.From, s.To))
		}
	}
	if _, err := view.ParseExpandPolicy(c.Search.ExpandPolicy); err != nil {
		errs = append(errs, fmt.Errorf("search: %w", err))
	}
	switch strings.ToLower(c.Directory.MergeKey) {
	case "", "name", "email":
	default:
		errs = append(errs, fmt.Errorf("directory: unknown merge_key %q", c.Directory.MergeKey))
	}
	return errors.Join(errs...)
}

// DBPath returns the SQLite path, defaulting into the data directory.
func (c Config) DBPath() string {
	if c.Data.DBPath != "" {
		return c.Data.DBPath
	}
	dir := DataDir()
	if dir == "" {
		return appName + ".db"
	}
	return filepath.Join(dir, appName+".db")
}

// BuildOptions returns the tree builder options.
func (c Config) BuildOptions() orgtree.Options {
	opts := orgtree.DefaultOptions()
	if c.Build.CorporateRollup != nil {
		opts.CorporateRollup = *c.Build.CorporateRollup
	}
	return opts
}

// SectionSet compiles the configured section rules. Unknown kinds are
// skipped; Validate reports them.
func (c Config) SectionSet() view.Sections {
	rules := make([]view.SectionRule, 0, len(c.Sections))
	for _, s := range c.Sections {
		kind, err := view.ParseSectionKind(s.Kind)
		if err != nil {
			continue
		}
		rules = append(rules, view.SectionRule{Kind: kind, IDs: s.IDs, From: s.From, To: s.To})
	}
	return view.NewSections(rules...)
}

// Materializer returns a view materializer for the configured sections and
// search policy.
func (c Config) Materializer() *view.Materializer {
	policy, err := view.ParseExpandPolicy(c.Search.ExpandPolicy)
	if err != nil {
		policy = view.ExpandOnMatch
	}
	return view.NewMaterializer(c.SectionSet(), policy)
}

// SessionOptions returns interactive options for the TUI.
func (c Config) SessionOptions() view.SessionOptions {
	return view.SessionOptions{Exclusive: c.UI.ExclusiveSections}
}

// LoaderColumns returns the CSV header mapping with overrides applied.
func (c Config) LoaderColumns() loader.Columns {
	cols := loader.DefaultColumns()
	override := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	override(&cols.ID, c.Columns.ID)
	override(&cols.Name, c.Columns.Name)
	override(&cols.Title, c.Columns.Title)
	override(&cols.CorporateUnit, c.Columns.CorporateUnit)
	override(&cols.Team, c.Columns.Team)
	override(&cols.ManagerID, c.Columns.ManagerID)
	override(&cols.Email, c.Columns.Email)
	override(&cols.EmailAlias, c.Columns.EmailAlias)
	return cols
}

// Palette returns the snapshot colours with overrides applied.
func (c Config) Palette() export.Palette {
	p := export.DefaultPalette()
	for id, color := range c.Colors.Sections {
		p.Sections[id] = color
	}
	if c.Colors.Corporate != "" {
		p.Corporate = c.Colors.Corporate
	}
	if c.Colors.Team != "" {
		p.Team = c.Colors.Team
	}
	if c.Colors.Person != "" {
		p.Person = c.Colors.Person
	}
	return p
}

// AdminEnabled reports whether admin uploads are possible at all.
func (c Config) AdminEnabled() bool {
	return c.Admin.Secret != ""
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
