// Package fixer defines the contract between the fix pipeline and the
// individual rewrite rules, and drives a token stream through an
// ordered set of fixers until it no longer changes.
package fixer

import (
	"fmt"
	"math"
	"slices"
	"sort"

	"mibk.dev/phpfix/token"
)

// A Fixer rewrites a token stream in place.
//
// IsCandidate must be cheap and conservative: it may report true for a
// stream that needs no change, but never false for one that does. Fix
// must be idempotent. Fixers must keep no state between calls.
type Fixer interface {
	Name() string
	// Priority orders fixers that are otherwise unconstrained.
	// Higher values run earlier.
	Priority() int
	IsCandidate(s *token.Stream) bool
	Fix(s *token.Stream) error
}

// A Configurable fixer accepts options. Configure is called once,
// before the fixer sees any stream. A nil opts means defaults.
type Configurable interface {
	Fixer
	Configure(opts Options) error
}

// A Constrained fixer must run before or after other fixers, named
// by their Name. Names of fixers that are not active are ignored.
type Constrained interface {
	Fixer
	RunBefore() []string
	RunAfter() []string
}

// Options holds the configuration of a single fixer, as decoded from
// a config file.
type Options map[string]any

func (o Options) Bool(name string) bool {
	v, _ := o[name].(bool)
	return v
}

func (o Options) Strings(name string) []string {
	v, _ := o[name].([]string)
	return v
}

// An Option declares a configuration key. The type of Default
// (bool, int, string or []string) is the type of the option.
type Option struct {
	Name    string
	Default any
	// Required options must be present whenever options are given.
	Required bool
}

type OptionSet []Option

// Resolve validates opts for the named fixer and returns the complete
// option map, defaults filled in. A nil opts resolves to the defaults.
func (set OptionSet) Resolve(fixer string, opts Options) (Options, error) {
	for _, key := range sortedKeys(opts) {
		if !slices.ContainsFunc(set, func(o Option) bool { return o.Name == key }) {
			return nil, &InvalidConfigurationError{Fixer: fixer, Key: key, Reason: "unknown option"}
		}
	}
	out := make(Options, len(set))
	for _, o := range set {
		v, ok := opts[o.Name]
		if !ok {
			if opts != nil && o.Required {
				return nil, &InvalidConfigurationError{Fixer: fixer, Key: o.Name, Reason: "missing required option"}
			}
			out[o.Name] = o.Default
			continue
		}
		cv, err := coerce(v, o.Default)
		if err != nil {
			return nil, &InvalidConfigurationError{Fixer: fixer, Key: o.Name, Reason: err.Error()}
		}
		out[o.Name] = cv
	}
	return out, nil
}

// coerce converts v, as produced by the TOML and YAML decoders, to the
// type of def.
func coerce(v, def any) (any, error) {
	switch def.(type) {
	case bool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
		return nil, fmt.Errorf("expected bool, got %s", describe(v))
	case int:
		switch n := v.(type) {
		case int:
			return n, nil
		case int64:
			if n >= math.MinInt && n <= math.MaxInt {
				return int(n), nil
			}
		case uint64:
			if n <= math.MaxInt {
				return int(n), nil
			}
		case float64:
			if n == math.Trunc(n) && n >= math.MinInt && n <= math.MaxInt {
				return int(n), nil
			}
		}
		return nil, fmt.Errorf("expected int, got %s", describe(v))
	case string:
		if s, ok := v.(string); ok {
			return s, nil
		}
		return nil, fmt.Errorf("expected string, got %s", describe(v))
	case []string:
		switch l := v.(type) {
		case []string:
			return slices.Clone(l), nil
		case []any:
			out := make([]string, len(l))
			for i, e := range l {
				s, ok := e.(string)
				if !ok {
					return nil, fmt.Errorf("expected list of strings, got %s at %d", describe(e), i)
				}
				out[i] = s
			}
			return out, nil
		}
		return nil, fmt.Errorf("expected list of strings, got %s", describe(v))
	}
	panic(fmt.Sprintf("unsupported option type %T", def))
}

func describe(v any) string {
	if v == nil {
		return "nothing"
	}
	return fmt.Sprintf("%T (%v)", v, v)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
