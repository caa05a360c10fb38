package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"mibk.dev/phpfix/config"
	"mibk.dev/phpfix/fixer"
	"mibk.dev/phpfix/rules"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{{
		"toml",
		".phpfix.toml",
		`max_passes = 5
cache = ".phpfix.cache"

[rules]
ordered_imports = false
static_private_method = true
method_argument_space = { keepMultipleSpacesAfterComma = true }
`,
	}, {
		"yaml",
		".phpfix.yaml",
		`max_passes: 5
cache: .phpfix.cache
rules:
  ordered_imports: false
  static_private_method: true
  method_argument_space:
    keepMultipleSpacesAfterComma: true
`,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, tt.file)
			writeFile(t, path, tt.content)

			cfg, err := config.Load(path)
			if err != nil {
				t.Fatal(err)
			}
			want := &config.Config{
				Path:      path,
				MaxPasses: 5,
				Cache:     filepath.Join(dir, ".phpfix.cache"),
				Rules: fixer.RuleSet{
					"ordered_imports":       false,
					"static_private_method": true,
					"method_argument_space": map[string]any{"keepMultipleSpacesAfterComma": true},
				},
			}
			if diff := cmp.Diff(cfg, want); diff != "" {
				t.Errorf("(-got +want)\n%s", diff)
			}

			fixers, err := rules.Registry().Build(cfg.Rules)
			if err != nil {
				t.Fatal(err)
			}
			var names []string
			for _, f := range fixers {
				names = append(names, f.Name())
			}
			if diff := cmp.Diff(names, []string{"method_argument_space", "static_private_method"}); diff != "" {
				t.Errorf("fixers: (-got +want)\n%s", diff)
			}
		})
	}
}

func TestLoadNestedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".phpfix.yml")
	writeFile(t, path, `rules:
  ordered_imports:
    imports_order: [const, class, function]
  method_argument_space: {keepMultipleSpacesAfterComma: false}
`)
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	want := fixer.RuleSet{
		"ordered_imports":       map[string]any{"imports_order": []any{"const", "class", "function"}},
		"method_argument_space": map[string]any{"keepMultipleSpacesAfterComma": false},
	}
	if diff := cmp.Diff(cfg.Rules, want); diff != "" {
		t.Errorf("(-got +want)\n%s", diff)
	}
	if _, err := rules.Registry().Build(cfg.Rules); err != nil {
		t.Errorf("unexpected err: %v", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".phpfix.toml")
	writeFile(t, path, "")
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MaxPasses != fixer.DefaultMaxPasses {
		t.Errorf("got max passes %d, want %d", cfg.MaxPasses, fixer.DefaultMaxPasses)
	}
	if cfg.Rules != nil || cfg.Cache != "" {
		t.Errorf("got rules %v and cache %q, want neither", cfg.Rules, cfg.Cache)
	}

	def := config.Default(rules.Registry())
	if len(def.Rules) != len(rules.Registry().Names()) {
		t.Errorf("default enables %d fixers, want all", len(def.Rules))
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		file    string
		content string
		wantErr string
	}{
		{".phpfix.toml", "max_pases = 3\n", `unknown key "max_pases"`},
		{".phpfix.toml", "max_passes = -1\n", "max_passes must not be negative"},
		{".phpfix.toml", "max_passes = \n", "failed to parse TOML"},
		{".phpfix.yml", "max_passes: [1\n", "failed to parse YAML"},
		{"phpfix.json", "{}", "unknown configuration format"},
	}
	for _, tt := range tests {
		path := filepath.Join(t.TempDir(), tt.file)
		writeFile(t, path, tt.content)
		_, err := config.Load(path)
		if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
			t.Errorf("%s %q: got err %v, want %q", tt.file, tt.content, err, tt.wantErr)
		}
	}
}

func TestOverride(t *testing.T) {
	base := fixer.RuleSet{
		"a": true,
		"b": map[string]any{"x": 1},
		"c": false,
	}
	tests := []struct {
		list string
		want fixer.RuleSet
	}{
		{"-a", fixer.RuleSet{"a": false, "b": map[string]any{"x": 1}, "c": false}},
		{"-a,c", fixer.RuleSet{"a": false, "b": map[string]any{"x": 1}, "c": true}},
		{"b", fixer.RuleSet{"b": map[string]any{"x": 1}}},
		{"c, d", fixer.RuleSet{"c": true, "d": true}},
		{"", base},
	}
	for _, tt := range tests {
		got := config.Override(base, tt.list)
		if diff := cmp.Diff(got, tt.want); diff != "" {
			t.Errorf("Override(%q): (-got +want)\n%s", tt.list, diff)
		}
	}
}

func TestFinder(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", ".phpfix.yaml"), "")
	writeFile(t, filepath.Join(root, "a", "b", ".phpfix.toml"), "")
	writeFile(t, filepath.Join(root, "a", "b", ".phpfix.yml"), "")
	for _, dir := range []string{"a/b/c/d", "x"} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			t.Fatal(err)
		}
	}

	f, err := config.NewFinder(16)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		dir  string
		want string
	}{
		{"a/b/c/d", "a/b/.phpfix.toml"},
		{"a/b/c", "a/b/.phpfix.toml"},
		{"a/b", "a/b/.phpfix.toml"},
		{"a", "a/.phpfix.yaml"},
		{"x", ""},
	}
	for _, tt := range tests {
		got, err := f.Find(filepath.Join(root, tt.dir))
		if err != nil {
			t.Fatal(err)
		}
		want := tt.want
		if want != "" {
			want = filepath.Join(root, want)
		}
		// The temporary directory could lie under a configured tree.
		if want == "" && got != "" && !strings.HasPrefix(got, root) {
			continue
		}
		if got != want {
			t.Errorf("Find(%s) = %q, want %q", tt.dir, got, want)
		}
	}
}
