// Package config loads normverify settings from an optional YAML or TOML
// file. Command-line flags that are explicitly set take precedence over
// file values; file values take precedence over Default.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/roach88/normverify/internal/verify"
)

// DefaultFixturesRoot is used when neither a flag nor the file names one.
const DefaultFixturesRoot = "fixtures"

// Config holds the settings shared by the verify commands.
type Config struct {
	FixturesRoot   string `yaml:"fixtures" toml:"fixtures"`
	OutRoot        string `yaml:"out_root" toml:"out_root"`
	Tool           string `yaml:"tool" toml:"tool"`
	CompareGoldens bool   `yaml:"compare_goldens" toml:"compare_goldens"`
	Parallel       int    `yaml:"parallel" toml:"parallel"`
	Ledger         string `yaml:"ledger" toml:"ledger"`
	Filter         string `yaml:"filter" toml:"filter"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		FixturesRoot: DefaultFixturesRoot,
		Tool:         verify.DefaultTool,
	}
}

// Load reads the file at path on top of Default. The format is chosen by
// extension: .yaml/.yml or .toml. Unknown keys are rejected. Relative
// paths in the file are resolved against the file's directory.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = decodeYAML(data, &cfg)
	case ".toml":
		err = decodeTOML(data, &cfg)
	default:
		return Config{}, fmt.Errorf("config %s: unsupported extension %q (want .yaml, .yml or .toml)", path, ext)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	cfg.FixturesRoot = resolve(dir, cfg.FixturesRoot)
	cfg.OutRoot = resolve(dir, cfg.OutRoot)
	cfg.Ledger = resolve(dir, cfg.Ledger)
	return cfg, nil
}

func decodeYAML(data []byte, cfg *Config) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("yaml: %w", err)
	}
	return nil
}

func decodeTOML(data []byte, cfg *Config) error {
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return fmt.Errorf("toml: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return fmt.Errorf("toml: unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// Validate checks values that no flag parser would catch.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Tool) == "" {
		return errors.New("tool must not be empty")
	}
	if c.Parallel < 0 {
		return fmt.Errorf("parallel must be >= 0, got %d", c.Parallel)
	}
	return nil
}

func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
