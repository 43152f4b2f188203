// Package config reads the optional per-repository .evtag.toml file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/odvcencio/evtag/pkg/tag"
)

// FileName is the config file looked up at the repository root.
const FileName = ".evtag.toml"

// Config stores repository-local settings. Flags override it.
type Config struct {
	Footer     string `toml:"footer"`     // footer prefix mode: "current" or "legacy"
	Editor     string `toml:"editor"`     // editor for tag messages, overrides $EDITOR
	Submodules bool   `toml:"submodules"` // initialize submodules before walking
}

// Default returns the settings used when no config file exists.
func Default() *Config {
	return &Config{Footer: "current", Submodules: true}
}

// Load reads .evtag.toml from the repository root. A missing file
// yields defaults; unknown keys and invalid values are rejected.
func Load(root string) (*Config, error) {
	cfg := Default()
	path := filepath.Join(root, FileName)
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("read config %s: unknown key %q", path, undecoded[0].String())
	}
	switch cfg.Footer {
	case "current", "legacy":
	default:
		return nil, fmt.Errorf("read config %s: footer must be %q or %q, got %q", path, "current", "legacy", cfg.Footer)
	}
	return cfg, nil
}

// Prefix returns the footer prefix selected by the config.
func (c *Config) Prefix() tag.Prefix {
	if c.Footer == "legacy" {
		return tag.PrefixLegacy
	}
	return tag.PrefixCurrent
}

// EditorCommand returns the editor to launch for tag messages.
func (c *Config) EditorCommand() string {
	if c.Editor != "" {
		return c.Editor
	}
	if e := os.Getenv("EDITOR"); e != "" {
		return e
	}
	return "vi"
}
