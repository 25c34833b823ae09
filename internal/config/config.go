// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
// Comments and trailing commas are allowed in the file.
type Config struct {
	// Inputs
	Data          string `json:"data,omitempty"`           // Candidate record (YAML, JSON or JSONC)
	Template      string `json:"template,omitempty"`       // Template descriptor
	StructureFrom string `json:"structure_from,omitempty"` // Structure descriptor, reference document or URL
	Locations     string `json:"locations,omitempty"`      // Location alias map

	// Profiles and directories
	Profiles  []string `json:"profiles,omitempty"`   // Overlay profiles to render
	ConfigDir string   `json:"config_dir,omitempty"` // Root of profile overlays
	Out       string   `json:"out,omitempty"`        // Explicit output file
	OutDir    string   `json:"out_dir,omitempty"`    // Output directory

	// Emphasis
	Seed     string   `json:"seed,omitempty"`     // Criteria string (JSON or key=value pairs)
	Keywords []string `json:"keywords,omitempty"` // Extra emphasis keywords

	// Experience tailoring
	Tailor            bool                `json:"tailor,omitempty"`               // Keep only roles and bullets matching the keywords
	MaxRoles          int                 `json:"max_roles,omitempty"`            // Roles kept when tailoring (0 = all)
	MaxBulletsPerRole int                 `json:"max_bullets_per_role,omitempty"` // Bullets kept per role (0 = all)
	MinScore          int                 `json:"min_score,omitempty"`            // Keyword evidence a role needs
	Synonyms          map[string][]string `json:"synonyms,omitempty"`             // Canonical keyword -> aliases

	// Behavior
	Browser     string `json:"browser,omitempty"`      // auto, always or never
	Strict      bool   `json:"strict,omitempty"`       // Validate the candidate against its schema
	Verbose     bool   `json:"verbose,omitempty"`      // Print detailed render reports
	Concurrency int    `json:"concurrency,omitempty"`  // Profiles rendered at once
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(jsonc.ToJSON(data), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	// An explicit output file holds one document
	if c.Out != "" && len(c.Profiles) > 1 {
		return fmt.Errorf("config error: 'out' and multiple 'profiles' are mutually exclusive")
	}
	if strings.EqualFold(filepath.Ext(c.Out), ".pdf") {
		return fmt.Errorf("config error: 'out' must be a .docx file, PDF output is not supported")
	}

	// Validate numeric ranges
	if c.Concurrency < 0 {
		return fmt.Errorf("config error: 'concurrency' must be non-negative")
	}
	for _, f := range []struct {
		name  string
		value int
	}{
		{"max_roles", c.MaxRoles},
		{"max_bullets_per_role", c.MaxBulletsPerRole},
		{"min_score", c.MinScore},
	} {
		if f.value < 0 {
			return fmt.Errorf("config error: '%s' must be non-negative", f.name)
		}
	}

	switch strings.ToLower(c.Browser) {
	case "", "auto", "always", "never", "true", "false":
	default:
		return fmt.Errorf("config error: 'browser' must be auto, always or never, got %q", c.Browser)
	}

	// Validate file paths exist (if specified)
	for _, f := range []struct{ name, path string }{
		{"data", c.Data},
		{"template", c.Template},
		{"locations", c.Locations},
	} {
		if f.path == "" {
			continue
		}
		if _, err := os.Stat(f.path); os.IsNotExist(err) {
			return fmt.Errorf("config error: %s file not found: %s", f.name, f.path)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	fillString(&result.Data, defaults.Data)
	fillString(&result.Template, defaults.Template)
	fillString(&result.StructureFrom, defaults.StructureFrom)
	fillString(&result.Locations, defaults.Locations)
	fillString(&result.ConfigDir, defaults.ConfigDir)
	fillString(&result.Out, defaults.Out)
	fillString(&result.OutDir, defaults.OutDir)
	fillString(&result.Seed, defaults.Seed)
	fillString(&result.Browser, defaults.Browser)
	fillString(&result.DatabaseURL, defaults.DatabaseURL)

	// Slice fields: use default if empty
	if len(result.Profiles) == 0 {
		result.Profiles = defaults.Profiles
	}
	if len(result.Keywords) == 0 {
		result.Keywords = defaults.Keywords
	}

	if len(result.Synonyms) == 0 {
		result.Synonyms = defaults.Synonyms
	}

	// Int fields: use default if zero
	if result.Concurrency == 0 {
		result.Concurrency = defaults.Concurrency
	}
	if result.MaxRoles == 0 {
		result.MaxRoles = defaults.MaxRoles
	}
	if result.MaxBulletsPerRole == 0 {
		result.MaxBulletsPerRole = defaults.MaxBulletsPerRole
	}
	if result.MinScore == 0 {
		result.MinScore = defaults.MinScore
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

func fillString(dst *string, def string) {
	if *dst == "" {
		*dst = def
	}
}
