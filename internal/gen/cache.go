package gen

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/funvibe/linesynth/internal/config"
	"github.com/funvibe/linesynth/internal/loader"
)

// Cache keeps one stamp per output file under .linesynth/cache/. A stamp
// records the key of the inputs an output was generated from and the hash
// of the bytes written, so an output is regenerated when its inputs change
// or when it was edited by hand.
type Cache struct {
	// root is the directory holding the .linesynth state directory.
	root string
}

// NewCache creates a cache scoped to the given project directory.
func NewCache(root string) *Cache {
	return &Cache{root: root}
}

// Dir returns the path to the cache directory.
func (c *Cache) Dir() string {
	return filepath.Join(c.root, config.StateDir, config.CacheDirName)
}

// Fresh reports whether out was generated from inputs with the given key
// and still holds what was written then.
func (c *Cache) Fresh(out, key string) bool {
	stamp, err := os.ReadFile(c.stampPath(out))
	if err != nil {
		return false
	}
	wantKey, wantSum, ok := strings.Cut(strings.TrimSpace(string(stamp)), " ")
	if !ok || wantKey != key {
		return false
	}
	data, err := os.ReadFile(out)
	if err != nil {
		return false
	}
	return sum(data) == wantSum
}

// Store records that out now holds program, generated from inputs with
// the given key.
func (c *Cache) Store(out, key string, program []byte) error {
	if err := os.MkdirAll(c.Dir(), 0o755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}
	stamp := key + " " + sum(program) + "\n"
	if err := os.WriteFile(c.stampPath(out), []byte(stamp), 0o644); err != nil {
		return fmt.Errorf("writing stamp: %w", err)
	}
	return nil
}

// Clean removes all stamps.
func (c *Cache) Clean() error {
	return os.RemoveAll(c.Dir())
}

func (c *Cache) stampPath(out string) string {
	if abs, err := filepath.Abs(out); err == nil {
		out = abs
	}
	return filepath.Join(c.Dir(), sum([]byte(out))[:16]+".stamp")
}

// Key computes a deterministic key from everything that shapes the
// program of a unit.
func Key(u loader.Unit) string {
	h := sha256.New()
	write := func(s string) {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}
	write(u.Dialect.Name())
	write(u.Runtime)
	write(u.Target.Config)
	if sig := u.Target.Sig; sig != nil {
		write(sig.Source)
		write(strings.Join(sig.Imports, "\n"))
	}
	write(config.CodegenVersion)
	return hex.EncodeToString(h.Sum(nil))[:16]
}

func sum(data []byte) string {
	s := sha256.Sum256(data)
	return hex.EncodeToString(s[:])
}

// writeFile replaces path atomically.
func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if old, err := os.ReadFile(path); err == nil && bytes.Equal(old, data) {
		return nil
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
