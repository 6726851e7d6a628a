// Package manifest handles tove.toml project configuration for the
// backend tooling.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Manifest represents a tove.toml project configuration.
type Manifest struct {
	Project Project `toml:"project"`
	Mapper  Mapper  `toml:"mapper"`
	Cache   Cache   `toml:"cache"`

	// Dir is the directory containing the tove.toml file (set at load time).
	Dir string `toml:"-"`
}

// Project contains project metadata.
type Project struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// Mapper configures the type-and-signature mapper.
type Mapper struct {
	// Mode is "strict" (default) or "lenient". Lenient mode is for
	// partial/IDE-style analysis: erroneous types degrade to a
	// placeholder instead of failing the declaration.
	Mode string `toml:"mode"`

	// KnownTypes is an optional path (relative to the manifest) to a
	// TOML file overriding the built-in known-type table.
	KnownTypes string `toml:"known-types"`
}

// Cache configures the external mapping-result cache.
type Cache struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Lenient reports whether the manifest selects lenient analysis mode.
func (m *Manifest) Lenient() bool {
	return m.Mapper.Mode == "lenient"
}

// KnownTypesPath returns the absolute path of the known-type override
// file, or "" when the project uses the built-in table.
func (m *Manifest) KnownTypesPath() string {
	if m.Mapper.KnownTypes == "" {
		return ""
	}
	return filepath.Join(m.Dir, m.Mapper.KnownTypes)
}

// CachePath returns the absolute path of the mapping cache database.
func (m *Manifest) CachePath() string {
	if m.Cache.Path == "" {
		return filepath.Join(m.Dir, ".tove", "mapcache.db")
	}
	return filepath.Join(m.Dir, m.Cache.Path)
}

// Load parses a tove.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, "tove.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", path, err)
	}

	// Defaults
	if m.Mapper.Mode == "" {
		m.Mapper.Mode = "strict"
	}
	if m.Mapper.Mode != "strict" && m.Mapper.Mode != "lenient" {
		return nil, fmt.Errorf("%s: mapper.mode must be strict or lenient, got %q", path, m.Mapper.Mode)
	}

	return &m, nil
}

// FindAndLoad walks up from startDir to find a tove.toml file, then
// loads and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, "tove.toml")
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}
