package fixer

import "fmt"

// An Entry describes a registered fixer.
type Entry struct {
	Name    string
	Summary string
	New     func() Fixer
}

// Registry maps stable fixer names to constructors.
type Registry struct {
	entries map[string]Entry
}

func NewRegistry(entries ...Entry) (*Registry, error) {
	r := &Registry{entries: make(map[string]Entry)}
	for _, e := range entries {
		if err := r.Register(e); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) Register(e Entry) error {
	if e.Name == "" || e.New == nil {
		return fmt.Errorf("invalid fixer entry %q", e.Name)
	}
	if _, dup := r.entries[e.Name]; dup {
		return fmt.Errorf("fixer %q registered twice", e.Name)
	}
	if name := e.New().Name(); name != e.Name {
		return fmt.Errorf("fixer %q registered as %q", name, e.Name)
	}
	r.entries[e.Name] = e
	return nil
}

func (r *Registry) Lookup(name string) (Entry, bool) {
	e, ok := r.entries[name]
	return e, ok
}

// Names returns the names of all registered fixers, sorted.
func (r *Registry) Names() []string { return sortedKeys(r.entries) }

// A RuleSet selects and configures fixers by name. A value is true
// (enable with defaults), false (disable) or an option table, which
// also enables the fixer.
type RuleSet map[string]any

// All returns a rule set enabling every registered fixer.
func (r *Registry) All() RuleSet {
	rs := make(RuleSet, len(r.entries))
	for name := range r.entries {
		rs[name] = true
	}
	return rs
}

// Build constructs and configures the fixers enabled by rs, sorted
// by name.
func (r *Registry) Build(rs RuleSet) ([]Fixer, error) {
	var fixers []Fixer
	for _, name := range sortedKeys(rs) {
		e, ok := r.entries[name]
		if !ok {
			return nil, &InvalidConfigurationError{Fixer: name, Reason: "unknown fixer"}
		}
		var opts Options
		switch v := rs[name].(type) {
		case bool:
			if !v {
				continue
			}
		case Options:
			opts = v
		case map[string]any:
			opts = Options(v)
		case RuleSet:
			opts = Options(v)
		default:
			return nil, &InvalidConfigurationError{Fixer: name, Reason: fmt.Sprintf("expected bool or option table, got %T", v)}
		}
		f := e.New()
		if c, ok := f.(Configurable); ok {
			if err := c.Configure(opts); err != nil {
				return nil, err
			}
		} else if len(opts) > 0 {
			return nil, &InvalidConfigurationError{Fixer: name, Reason: "fixer takes no options"}
		}
		fixers = append(fixers, f)
	}
	return fixers, nil
}
