package main

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"golang.org/x/sync/errgroup"
	"rsc.io/diff"

	"mibk.dev/phpfix/cache"
	"mibk.dev/phpfix/config"
	"mibk.dev/phpfix/fixer"
	"mibk.dev/phpfix/format"
)

var (
	fixedColor  = color.New(color.FgGreen)
	failedColor = color.New(color.FgRed, color.Bold)
	plainColor  = color.New(color.Faint)
)

// A runner fixes a batch of files. All configurations are loaded, and
// all pipelines built, by setup; run only reads them.
type runner struct {
	registry *fixer.Registry
	stdout   io.Writer
	stderr   io.Writer
	trace    *log.Logger

	write, diff, list bool
	config            string // explicit configuration file
	rules             string // -rules override
	cache             string // -cache override
	jobs              int

	finder  *config.Finder
	configs map[string]*profile // by configuration path; "" is the default
	byFile  map[string]*profile
	caches  map[string]*cache.Cache
}

// A profile is a loaded configuration ready to fix files.
type profile struct {
	cfg       *config.Config
	pipeline  *fixer.Pipeline
	signature string
	cache     *cache.Cache
}

type fileResult struct {
	path   string
	status fixer.Status
	cached bool
	output []byte // fixed code, diff or name to print to stdout
	err    error
}

// collectFiles expands directories to the PHP files they contain.
func collectFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		fi, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !fi.IsDir() {
			files = append(files, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			switch filepath.Ext(d.Name()) {
			default:
				return nil
			case ".php", ".phpt":
			}
			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

// setup resolves the configuration of every file.
func (r *runner) setup(files []string) error {
	finder, err := config.NewFinder(1024)
	if err != nil {
		return err
	}
	r.finder = finder
	r.configs = make(map[string]*profile)
	r.byFile = make(map[string]*profile, len(files))
	r.caches = make(map[string]*cache.Cache)
	for _, file := range files {
		p, err := r.profileFor(filepath.Dir(file))
		if err != nil {
			return err
		}
		r.byFile[file] = p
	}
	return nil
}

func (r *runner) profileFor(dir string) (*profile, error) {
	path := r.config
	if path == "" {
		var err error
		if path, err = r.finder.Find(dir); err != nil {
			return nil, err
		}
	}
	if p, ok := r.configs[path]; ok {
		return p, nil
	}

	cfg := config.Default(r.registry)
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
		if cfg.Rules == nil {
			cfg.Rules = r.registry.All()
		}
	}
	if r.rules != "" {
		cfg.Rules = config.Override(cfg.Rules, r.rules)
	}
	if r.cache != "" {
		cfg.Cache = r.cache
	}

	fixers, err := r.registry.Build(cfg.Rules)
	if err != nil {
		return nil, err
	}
	opts := []fixer.PipelineOption{fixer.WithMaxPasses(cfg.MaxPasses)}
	if r.trace != nil {
		opts = append(opts, fixer.WithLogger(r.trace))
	}
	pl, err := fixer.NewPipeline(fixers, opts...)
	if err != nil {
		return nil, err
	}
	sig, err := cache.Signature(version, pl.MaxPasses(), cfg.Rules)
	if err != nil {
		return nil, err
	}
	p := &profile{cfg: cfg, pipeline: pl, signature: sig}
	if cfg.Cache != "" {
		c, ok := r.caches[cfg.Cache]
		if !ok {
			if c, err = cache.Open(cfg.Cache); err != nil {
				return nil, err
			}
			r.caches[cfg.Cache] = c
		}
		p.cache = c
	}
	r.configs[path] = p
	return p, nil
}

// pipe fixes standard input, using the configuration of the current
// directory.
func (r *runner) pipe(name string, in io.Reader) error {
	if err := r.setup(nil); err != nil {
		return err
	}
	p, err := r.profileFor(".")
	if err != nil {
		return err
	}
	return format.Pipe(name, r.stdout, in, p.pipeline)
}

// run fixes files in parallel and reports the results in the order of
// files. It reports whether all files were fixed successfully.
func (r *runner) run(files []string) bool {
	results := make([]fileResult, len(files))

	var g errgroup.Group
	g.SetLimit(max(1, min(r.jobs, len(files))))
	for i, path := range files {
		g.Go(func() error {
			// The index is unique to this goroutine.
			results[i] = r.fixFile(path)
			return nil
		})
	}
	g.Wait()

	ok := true
	for _, res := range results {
		if res.err != nil {
			ok = false
		}
		r.report(res)
	}
	for path, c := range r.caches {
		if err := c.Save(); err != nil {
			log.Printf("saving cache %s: %v", path, err)
		}
	}
	return ok
}

func (r *runner) fixFile(path string) fileResult {
	res := fileResult{path: path}
	p := r.byFile[path]
	fi, err := os.Stat(path)
	if err != nil {
		res.status, res.err = fixer.Failed, err
		return res
	}
	src, err := os.ReadFile(path)
	if err != nil {
		res.status, res.err = fixer.Failed, err
		return res
	}
	if p.cache.Fresh(path, p.signature, src) {
		res.status, res.cached = fixer.Unchanged, true
		if !r.write && !r.diff && !r.list {
			res.output = src
		}
		return res
	}

	code, fr, err := format.Source(path, src, p.pipeline)
	if err != nil {
		res.status, res.err = fixer.Failed, err
		p.cache.Forget(path)
		return res
	}
	res.status = fr.Status
	changed := !bytes.Equal(code, src)

	switch {
	case r.write:
		if changed {
			if err := os.WriteFile(path, code, fi.Mode().Perm()); err != nil {
				res.status, res.err = fixer.Failed, err
				return res
			}
		}
		p.cache.Update(path, p.signature, code)
	case r.list || r.diff:
		if changed && r.list {
			res.output = []byte(path + "\n")
		}
		if changed && r.diff {
			res.output = append(res.output, fmt.Sprintf("diff %s phpfix/%s\n%s", path, path, diff.Format(string(src), string(code)))...)
		}
		if !changed {
			p.cache.Update(path, p.signature, src)
		}
	default:
		res.output = code
		if !changed {
			p.cache.Update(path, p.signature, src)
		}
	}
	return res
}

func (r *runner) report(res fileResult) {
	if len(res.output) > 0 {
		r.stdout.Write(res.output)
	}
	switch {
	case res.err != nil:
		failedColor.Fprintf(r.stderr, "failed: %v\n", res.err)
	case res.status == fixer.Fixed:
		fixedColor.Fprintf(r.stderr, "%s: fixed\n", res.path)
	case r.trace != nil:
		note := ""
		if res.cached {
			note = " (cached)"
		}
		plainColor.Fprintf(r.stderr, "%s: unchanged%s\n", res.path, note)
	}
}
