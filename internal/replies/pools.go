// ABOUTME: Variant pool manifest parsing (pools.yaml)
// ABOUTME: A pool is a named, fixed list of interchangeable reply lines

package replies

import (
	"fmt"
	"maps"
	"slices"

	"gopkg.in/yaml.v3"
)

// PoolsFile is the name of the pool manifest inside a template tree.
const PoolsFile = "pools.yaml"

// Manifest is the parsed form of pools.yaml.
type Manifest struct {
	Version string              `yaml:"version"`
	Pools   map[string][]string `yaml:"pools"`
}

// ParseManifest reads a pool manifest from YAML bytes.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", PoolsFile, err)
	}
	for name, lines := range m.Pools {
		if len(lines) == 0 {
			return nil, fmt.Errorf("parse %s: pool %q is empty", PoolsFile, name)
		}
		for i, line := range lines {
			if line == "" {
				return nil, fmt.Errorf("parse %s: pool %q entry %d is empty", PoolsFile, name, i)
			}
		}
	}
	return &m, nil
}

// Merge overlays o onto m: pools present in o replace pools of the same name.
func (m *Manifest) Merge(o *Manifest) *Manifest {
	out := &Manifest{Version: m.Version, Pools: maps.Clone(m.Pools)}
	if out.Pools == nil {
		out.Pools = make(map[string][]string)
	}
	if o == nil {
		return out
	}
	if o.Version != "" {
		out.Version = o.Version
	}
	maps.Copy(out.Pools, o.Pools)
	return out
}

// Names returns the pool names in sorted order.
func (m *Manifest) Names() []string {
	return slices.Sorted(maps.Keys(m.Pools))
}
