// Package cache remembers files that are known to need no fixing.
//
// The cache is a msgpack file mapping file paths to the hash of their
// content and to the signature of the configuration they were checked
// with. It is only trusted when both match.
package cache

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"mibk.dev/phpfix/fixer"
)

// Current schema version; increment when the payload format changes.
const schemaVersion uint16 = 1

type entry struct {
	Hash      string
	Signature string
}

type payload struct {
	Schema uint16
	Files  map[string]entry
}

// Cache is safe for concurrent use. A nil *Cache caches nothing.
type Cache struct {
	mu    sync.Mutex
	path  string
	files map[string]entry
	dirty bool
}

// Open loads the cache stored at path. A missing, unreadable or
// outdated file yields an empty cache.
func Open(path string) (*Cache, error) {
	c := &Cache{path: path, files: make(map[string]entry)}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	} else if err != nil {
		return nil, err
	}
	var p payload
	if err := msgpack.Unmarshal(data, &p); err != nil || p.Schema != schemaVersion {
		return c, nil
	}
	if p.Files != nil {
		c.files = p.Files
	}
	return c, nil
}

// Signature identifies the fixing behavior of a configuration. Results
// cached with a different signature are not trusted.
func Signature(version string, maxPasses int, rules fixer.RuleSet) (string, error) {
	var b bytes.Buffer
	enc := msgpack.NewEncoder(&b)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(struct {
		Version   string
		MaxPasses int
		Rules     map[string]any
	}{version, maxPasses, rules}); err != nil {
		return "", err
	}
	sum := sha256.Sum256(b.Bytes())
	return hex.EncodeToString(sum[:]), nil
}

func hash(src []byte) string {
	sum := sha256.Sum256(src)
	return hex.EncodeToString(sum[:])
}

// Fresh reports whether file with content src was found to need no
// fixing under the configuration with signature sig.
func (c *Cache) Fresh(file, sig string, src []byte) bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.files[c.key(file)]
	return ok && e.Signature == sig && e.Hash == hash(src)
}

// Update records that file with content src needs no fixing under the
// configuration with signature sig.
func (c *Cache) Update(file, sig string, src []byte) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e := entry{Hash: hash(src), Signature: sig}
	if k := c.key(file); c.files[k] != e {
		c.files[k] = e
		c.dirty = true
	}
}

// Forget drops file from the cache.
func (c *Cache) Forget(file string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if k := c.key(file); c.files[k] != (entry{}) {
		delete(c.files, k)
		c.dirty = true
	}
}

func (c *Cache) key(file string) string {
	if abs, err := filepath.Abs(file); err == nil {
		return abs
	}
	return file
}

// Save writes the cache back to its file, atomically.
func (c *Cache) Save() (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dirty {
		return nil
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".phpfix-cache-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			os.Remove(f.Name())
		}
	}()
	enc := msgpack.NewEncoder(f)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(&payload{Schema: schemaVersion, Files: c.files}); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Rename(f.Name(), c.path); err != nil {
		return err
	}
	c.dirty = false
	return nil
}
