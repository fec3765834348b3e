// Package config loads the TOML configuration consumed by the remap
// CLI: engine behavior toggles, profile locations, and the ambient
// logging/metrics switches.
package config

import (
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"

	"remap/options"
)

// File is the root configuration document.
type File struct {
	// Strict turns unrecognized source keys into errors.
	Strict bool `toml:"strict"`

	// SkipMissing suppresses missing-required-field errors.
	SkipMissing bool `toml:"skip_missing"`

	// Categories names the permitted coercion families; empty means all.
	Categories []string `toml:"categories"`

	// Profiles lists YAML mapping profile paths applied in order.
	Profiles []string `toml:"profiles"`

	Logging Logging `toml:"logging"`
	Metrics Metrics `toml:"metrics"`
	CSV     CSV     `toml:"csv"`
}

type Logging struct {
	// Level is a zap level name; empty means "info".
	Level string `toml:"level"`

	// Debug dumps every source map and result through the debug hook.
	Debug bool `toml:"debug"`
}

type Metrics struct {
	Enabled bool `toml:"enabled"`
}

type CSV struct {
	// EmptyAsMissing treats empty CSV cells as absent keys rather than
	// present-but-null values.
	EmptyAsMissing bool `toml:"empty_as_missing"`
}

// Load reads, parses, and validates a configuration file.
func Load(path string) (File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return File{}, err
	}

	var cfg File
	if err := toml.Unmarshal(b, &cfg); err != nil {
		return File{}, fmt.Errorf("config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return File{}, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate rejects unknown category and level names before anything is
// wired up.
func (f File) Validate() error {
	if _, err := options.ParseCategories(f.Categories); err != nil {
		return err
	}

	switch f.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", f.Logging.Level)
	}

	return nil
}

// CategoryMask resolves the configured category names. Call Validate
// first; unknown names fall back to everything enabled.
func (f File) CategoryMask() options.CategoryEnum {
	mask, err := options.ParseCategories(f.Categories)
	if err != nil {
		return options.CategoryAll
	}

	return mask
}
