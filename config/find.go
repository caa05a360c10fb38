package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Names lists the configuration file names, in order of preference.
var Names = []string{".phpfix.toml", ".phpfix.yaml", ".phpfix.yml"}

// A Finder looks up the configuration file that applies to a directory.
// It is safe for concurrent use.
type Finder struct {
	cache *lru.Cache[string, string]
}

// NewFinder returns a Finder remembering the results for up to size
// directories.
func NewFinder(size int) (*Finder, error) {
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}
	return &Finder{cache: cache}, nil
}

// Find returns the path of the nearest configuration file in dir or
// any of its parents, or "" if there is none.
func (f *Finder) Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	var visited []string
	for {
		if path, ok := f.cache.Get(dir); ok {
			return f.remember(visited, path), nil
		}
		for _, name := range Names {
			path := filepath.Join(dir, name)
			_, err := os.Stat(path)
			if err == nil {
				visited = append(visited, dir)
				return f.remember(visited, path), nil
			}
			if !errors.Is(err, fs.ErrNotExist) {
				return "", err
			}
		}
		visited = append(visited, dir)
		parent := filepath.Dir(dir)
		if parent == dir {
			// Root.
			return f.remember(visited, ""), nil
		}
		dir = parent
	}
}

func (f *Finder) remember(dirs []string, path string) string {
	for _, d := range dirs {
		f.cache.Add(d, path)
	}
	return path
}
