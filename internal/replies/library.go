// ABOUTME: Reply library: fragments and variant pools with overrides-first, embed fallback
// ABOUTME: Rendered fragments are cached; Reload re-reads pools and clears the cache

package replies

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/mauromedda/pi-offline-go/internal/log"
)

// FragmentExt is the file extension of reply fragments.
const FragmentExt = ".md"

// cacheLimit bounds the render cache; see NewCache.
const cacheLimit = 4096

// Library resolves reply fragments and variant pools.
// It is safe for concurrent use.
type Library struct {
	embedded  fs.FS
	overrides string // optional directory shadowing embedded files
	cache     *Cache

	mu    sync.RWMutex
	pools *Manifest
}

// New creates a library backed by the embedded templates, shadowed by files in
// overridesDir when it is non-empty.
func New(overridesDir string) (*Library, error) {
	sub, err := fs.Sub(embeddedFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("embedded templates sub-fs: %w", err)
	}
	l := &Library{
		embedded:  sub,
		overrides: overridesDir,
		cache:     NewCache(cacheLimit),
	}
	if err := l.Reload(); err != nil {
		return nil, err
	}
	return l, nil
}

var defaultLibrary = sync.OnceValue(func() *Library {
	l, err := New("")
	if err != nil {
		// Embedded templates are validated by tests; failure here is a build defect.
		panic(fmt.Sprintf("replies: embedded library: %v", err))
	}
	return l
})

// Default returns the shared library built from embedded templates only.
func Default() *Library {
	return defaultLibrary()
}

// OverridesDir returns the overrides directory, or "" when none is configured.
func (l *Library) OverridesDir() string {
	return l.overrides
}

// Reload re-reads pools.yaml and drops every cached rendering. A malformed
// override manifest is reported and the previous pools stay active.
func (l *Library) Reload() error {
	data, err := fs.ReadFile(l.embedded, PoolsFile)
	if err != nil {
		return fmt.Errorf("read embedded %s: %w", PoolsFile, err)
	}
	base, err := ParseManifest(data)
	if err != nil {
		return fmt.Errorf("embedded: %w", err)
	}

	merged := base.Merge(nil)
	if data, ok := l.readOverride(PoolsFile); ok {
		over, err := ParseManifest(data)
		if err != nil {
			return fmt.Errorf("override %s: %w", filepath.Join(l.overrides, PoolsFile), err)
		}
		merged = base.Merge(over)
	}

	l.mu.Lock()
	l.pools = merged
	l.mu.Unlock()
	l.cache.Invalidate()
	return nil
}

// Pool returns a copy of the named variant pool, or nil if it does not exist.
func (l *Library) Pool(name string) []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.pools.Pools[name])
}

// PoolNames returns every pool name in sorted order.
func (l *Library) PoolNames() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.pools.Names()
}

// Fragment loads the raw fragment for key ("code/javascript_array").
// Precedence: overrides dir -> embedded templates.
func (l *Library) Fragment(key string) ([]byte, error) {
	path := key + FragmentExt
	if data, ok := l.readOverride(path); ok {
		return data, nil
	}
	data, err := fs.ReadFile(l.embedded, path)
	if err != nil {
		return nil, fmt.Errorf("load fragment %s: not found in overrides or embedded: %w", key, err)
	}
	return data, nil
}

// Render loads and renders the fragment for key. When an override fails to
// render, the embedded fragment is used instead and the failure is logged.
func (l *Library) Render(key string, vars Vars) (string, error) {
	if cached, ok := l.cache.Get(key, vars); ok {
		return cached, nil
	}

	raw, err := l.Fragment(key)
	if err != nil {
		return "", err
	}
	out, err := RenderVariables(string(raw), vars)
	if err != nil {
		log.Warn("reply fragment %s: %v; using embedded copy", key, err)
		out, err = l.renderEmbedded(key, vars)
		if err != nil {
			return "", err
		}
	}

	l.cache.Set(key, vars, out)
	return out, nil
}

// RenderLine renders a single pool entry, which may reference variables.
func (l *Library) RenderLine(line string, vars Vars) (string, error) {
	if !strings.Contains(line, "{{") {
		return line, nil
	}
	return RenderVariables(line, vars)
}

func (l *Library) renderEmbedded(key string, vars Vars) (string, error) {
	raw, err := fs.ReadFile(l.embedded, key+FragmentExt)
	if err != nil {
		return "", fmt.Errorf("load embedded fragment %s: %w", key, err)
	}
	return RenderVariables(string(raw), vars)
}

// Keys returns every embedded fragment key in sorted order.
func (l *Library) Keys() ([]string, error) {
	var keys []string
	err := fs.WalkDir(l.embedded, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, FragmentExt) {
			return nil
		}
		keys = append(keys, strings.TrimSuffix(path, FragmentExt))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk embedded templates: %w", err)
	}
	slices.Sort(keys)
	return keys, nil
}

// readOverride reads path from the overrides dir. Missing files are not errors.
func (l *Library) readOverride(path string) ([]byte, bool) {
	if l.overrides == "" {
		return nil, false
	}
	data, err := os.ReadFile(filepath.Join(l.overrides, filepath.FromSlash(path)))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Debug("reply override %s: %v", path, err)
		}
		return nil, false
	}
	return data, true
}
