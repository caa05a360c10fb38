// Package config loads phpfix configuration files.
//
// A configuration file is either TOML (.phpfix.toml) or YAML
// (.phpfix.yaml, .phpfix.yml):
//
//	max_passes = 10
//	cache = ".phpfix.cache"
//
//	[rules]
//	ordered_imports = false
//	method_argument_space = { keepMultipleSpacesAfterComma = true }
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"mibk.dev/phpfix/fixer"
)

type Config struct {
	// Path is the file the configuration was loaded from,
	// or empty for the default configuration.
	Path string `toml:"-" yaml:"-"`

	MaxPasses int           `toml:"max_passes" yaml:"max_passes"`
	Cache     string        `toml:"cache" yaml:"cache"`
	Rules     fixer.RuleSet `toml:"rules" yaml:"rules"`
}

// Default returns the configuration used when there is no
// configuration file: every fixer of reg with defaults.
func Default(reg *fixer.Registry) *Config {
	return &Config{MaxPasses: fixer.DefaultMaxPasses, Rules: reg.All()}
}

// Load reads the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := new(Config)
	switch ext := filepath.Ext(path); ext {
	case ".toml":
		meta, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
		}
		for _, key := range meta.Undecoded() {
			// Option tables are validated by the fixers.
			if len(key) > 0 && key[0] != "rules" {
				return nil, fmt.Errorf("%s: unknown key %q", path, key.String())
			}
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%s: failed to parse YAML: %w", path, err)
		}
		// yaml.v3 decodes nested mappings to the type of the
		// enclosing map.
		for name, v := range cfg.Rules {
			cfg.Rules[name] = plain(v)
		}
	default:
		return nil, fmt.Errorf("%s: unknown configuration format %q", path, ext)
	}
	if cfg.MaxPasses < 0 {
		return nil, fmt.Errorf("%s: max_passes must not be negative", path)
	}
	if cfg.MaxPasses == 0 {
		cfg.MaxPasses = fixer.DefaultMaxPasses
	}
	if cfg.Cache != "" && !filepath.IsAbs(cfg.Cache) {
		cfg.Cache = filepath.Join(filepath.Dir(path), cfg.Cache)
	}
	cfg.Path = path
	return cfg, nil
}

// plain converts the rule sets within v to map[string]any.
func plain(v any) any {
	switch v := v.(type) {
	case fixer.RuleSet:
		m := make(map[string]any, len(v))
		for k, e := range v {
			m[k] = plain(e)
		}
		return m
	case map[string]any:
		for k, e := range v {
			v[k] = plain(e)
		}
	case []any:
		for i, e := range v {
			v[i] = plain(e)
		}
	}
	return v
}

// Override applies a comma-separated list of fixer names to rs: name
// enables a fixer with defaults, -name disables it. The result is a
// new rule set. An override starting with a plain name replaces the
// rule set instead, so that -rules=a,b runs just a and b.
func Override(rs fixer.RuleSet, list string) fixer.RuleSet {
	out := make(fixer.RuleSet, len(rs))
	items := strings.Split(list, ",")
	if first := strings.TrimSpace(items[0]); first == "" || first[0] == '-' {
		for name, v := range rs {
			out[name] = v
		}
	}
	for _, item := range items {
		item = strings.TrimSpace(item)
		switch {
		case item == "":
		case item[0] == '-':
			out[item[1:]] = false
		default:
			if v, ok := rs[item]; ok && v != false {
				out[item] = v
			} else {
				out[item] = true
			}
		}
	}
	return out
}
