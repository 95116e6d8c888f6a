package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Loader reads the catalog and merges default → override.
type Loader struct {
	overridePath string

	mu     sync.RWMutex
	cached *Catalog
}

// NewLoader creates a loader. overridePath may be empty or point at a file
// that does not exist yet; the embedded default is used alone then.
func NewLoader(overridePath string) *Loader {
	return &Loader{overridePath: overridePath}
}

// OverridePath is the file a FileWatcher should poll.
func (l *Loader) OverridePath() string { return l.overridePath }

// Load returns the merged, validated catalog, served from cache until
// Invalidate is called.
func (l *Loader) Load() (Catalog, error) {
	l.mu.RLock()
	if l.cached != nil {
		c := *l.cached
		l.mu.RUnlock()
		return c, nil
	}
	l.mu.RUnlock()

	merged, err := l.LoadMerged()
	if err != nil {
		return Catalog{}, err
	}
	c, err := Build(merged)
	if err != nil {
		return Catalog{}, err
	}

	l.mu.Lock()
	l.cached = &c
	l.mu.Unlock()
	return c, nil
}

// LoadMerged reads both documents and merges them without validation.
func (l *Loader) LoadMerged() (RawConfig, error) {
	defCfg, err := parseYAML(defaultYAML)
	if err != nil {
		return RawConfig{}, fmt.Errorf("parse default catalog: %w", err)
	}
	if l.overridePath == "" {
		return defCfg, nil
	}
	override, err := readYAML(l.overridePath)
	if err != nil {
		return RawConfig{}, fmt.Errorf("read %s: %w", l.overridePath, err)
	}
	return mergeRaw(defCfg, override), nil
}

// Invalidate clears the cache. Call after the watcher detects a change.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cached = nil
}

// Default builds the embedded catalog alone.
func Default() (Catalog, error) {
	return NewLoader("").Load()
}

// MustDefault is Default for tests and tools; the embedded file is known good.
func MustDefault() Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// readYAML loads a YAML file. Missing files return a zero config, no error.
func readYAML(path string) (RawConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return RawConfig{}, nil
		}
		return RawConfig{}, err
	}
	return parseYAML(b)
}

func parseYAML(b []byte) (RawConfig, error) {
	var cfg RawConfig
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return RawConfig{}, err
	}
	return cfg, nil
}

// mergeRaw overlays b on a. Scalars replace when set, sections replace
// wholesale when non-empty, name pools replace per rarity.
func mergeRaw(a, b RawConfig) RawConfig {
	out := a

	if b.Version != "" {
		out.Version = b.Version
	}
	if b.Notes != "" {
		out.Notes = b.Notes
	}
	if b.LossRate != nil {
		v := *b.LossRate
		out.LossRate = &v
	}
	if len(b.WinBands) > 0 {
		out.WinBands = append(out.WinBands[:0:0], b.WinBands...)
	}
	if len(b.LossBands) > 0 {
		out.LossBands = append(out.LossBands[:0:0], b.LossBands...)
	}
	if len(b.Names) > 0 {
		names := make(map[string][]string, len(a.Names)+len(b.Names))
		for k, v := range a.Names {
			names[k] = v
		}
		for k, v := range b.Names {
			names[k] = append([]string(nil), v...)
		}
		out.Names = names
	}
	if len(b.Milestones) > 0 {
		out.Milestones = append(out.Milestones[:0:0], b.Milestones...)
	}
	if len(b.Packs) > 0 {
		out.Packs = append(out.Packs[:0:0], b.Packs...)
	}
	return out
}
