package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Paths locates the defaults and per-league files.
type Paths struct {
	BaseDir string // e.g. ./config
}

func (p Paths) DefaultPath() string {
	return filepath.Join(p.BaseDir, "defaults.yaml")
}

func (p Paths) LeaguePath(league string) string {
	return filepath.Join(p.BaseDir, "leagues", league+".yaml")
}

// Loader reads YAML configs and merges defaults → league.
type Loader struct {
	paths Paths

	mu    sync.RWMutex
	cache map[string]RawConfig // key: league, "" for defaults only
}

func NewLoader(baseDir string) *Loader {
	return &Loader{
		paths: Paths{BaseDir: baseDir},
		cache: make(map[string]RawConfig),
	}
}

func (l *Loader) Paths() Paths { return l.paths }

// LoadMerged returns defaults overlaid with the league file, if any.
// The defaults file is required; league files are optional.
func (l *Loader) LoadMerged(league string) (RawConfig, error) {
	l.mu.RLock()
	if cfg, ok := l.cache[league]; ok {
		l.mu.RUnlock()
		return cfg, nil
	}
	l.mu.RUnlock()

	defCfg, err := readYAML(l.paths.DefaultPath(), true)
	if err != nil {
		return RawConfig{}, fmt.Errorf("read defaults: %w", err)
	}
	merged := defCfg
	if league != "" {
		leagueCfg, err := readYAML(l.paths.LeaguePath(league), false)
		if err != nil {
			return RawConfig{}, fmt.Errorf("read league %q: %w", league, err)
		}
		merged = mergeRaw(defCfg, leagueCfg)
	}

	l.mu.Lock()
	l.cache[league] = merged
	l.mu.Unlock()
	return merged, nil
}

// Invalidate clears the cache. Call after the watcher sees a change.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]RawConfig)
}

func readYAML(path string, required bool) (RawConfig, error) {
	var cfg RawConfig
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return RawConfig{}, nil
		}
		return RawConfig{}, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return RawConfig{}, err
	}
	return cfg, nil
}

// mergeRaw overlays b on a: set fields in b win, slices are replaced whole.
func mergeRaw(a, b RawConfig) RawConfig {
	out := a

	if b.Version != "" {
		out.Version = b.Version
	}
	if b.Notes != "" {
		out.Notes = b.Notes
	}
	if b.Selector != "" {
		out.Selector = b.Selector
	}
	if b.Freshness != "" {
		out.Freshness = b.Freshness
	}
	if len(b.Methods) > 0 {
		out.Methods = append([]string(nil), b.Methods...)
	}
	if b.Workers != nil {
		out.Workers = b.Workers
	}

	// costs
	switch {
	case out.Costs == nil && b.Costs != nil:
		c := *b.Costs
		out.Costs = &c
	case out.Costs != nil && b.Costs != nil:
		c := *out.Costs
		if b.Costs.Reroll != nil {
			c.Reroll = b.Costs.Reroll
		}
		if b.Costs.Guaranteed != nil {
			c.Guaranteed = b.Costs.Guaranteed
		}
		if b.Costs.LowReroll != nil {
			c.LowReroll = b.Costs.LowReroll
		}
		if b.Costs.UpgradeOne != nil {
			c.UpgradeOne = b.Costs.UpgradeOne
		}
		if b.Costs.UpgradeTwo != nil {
			c.UpgradeTwo = b.Costs.UpgradeTwo
		}
		if b.Costs.Addition != nil {
			c.Addition = b.Costs.Addition
		}
		out.Costs = &c
	}

	// reroll
	switch {
	case out.Reroll == nil && b.Reroll != nil:
		c := *b.Reroll
		out.Reroll = &c
	case out.Reroll != nil && b.Reroll != nil:
		c := *out.Reroll
		if b.Reroll.PrefixSlots != nil {
			c.PrefixSlots = b.Reroll.PrefixSlots
		}
		if b.Reroll.SuffixSlots != nil {
			c.SuffixSlots = b.Reroll.SuffixSlots
		}
		out.Reroll = &c
	}

	// thresholds
	switch {
	case out.Thresholds == nil && b.Thresholds != nil:
		c := *b.Thresholds
		out.Thresholds = &c
	case out.Thresholds != nil && b.Thresholds != nil:
		c := *out.Thresholds
		if b.Thresholds.ProfitableROIPercent != nil {
			c.ProfitableROIPercent = b.Thresholds.ProfitableROIPercent
		}
		if b.Thresholds.LowRisk != nil {
			c.LowRisk = b.Thresholds.LowRisk
		}
		if b.Thresholds.MediumRisk != nil {
			c.MediumRisk = b.Thresholds.MediumRisk
		}
		out.Thresholds = &c
	}

	return out
}
