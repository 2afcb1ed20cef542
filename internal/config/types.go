// types.go
package config

import (
	"time"

	"github.com/showmtmn-cloud/richgo/internal/crafting"
	"github.com/showmtmn-cloud/richgo/internal/pricing"
	"github.com/showmtmn-cloud/richgo/internal/ranking"
)

// Raw config loaded from YAML.
type RawConfig struct {
	Version    string            `yaml:"version"`
	Costs      *CostsConfig      `yaml:"costs,omitempty"`
	Reroll     *RerollConfig     `yaml:"reroll,omitempty"`
	Selector   string            `yaml:"selector,omitempty"`
	Methods    []string          `yaml:"methods,omitempty"`
	Freshness  string            `yaml:"freshness,omitempty"` // Go duration, "0" disables
	Workers    *int              `yaml:"workers,omitempty"`
	Thresholds *ThresholdsConfig `yaml:"thresholds,omitempty"`
	Notes      string            `yaml:"notes,omitempty"`
}

// CostsConfig prices each crafting action.
type CostsConfig struct {
	Reroll     *pricing.Money `yaml:"reroll,omitempty"`
	Guaranteed *pricing.Money `yaml:"guaranteed,omitempty"`
	LowReroll  *pricing.Money `yaml:"low_reroll,omitempty"`
	UpgradeOne *pricing.Money `yaml:"upgrade_one,omitempty"`
	UpgradeTwo *pricing.Money `yaml:"upgrade_two,omitempty"`
	Addition   *pricing.Money `yaml:"addition,omitempty"`
}

type RerollConfig struct {
	PrefixSlots *int `yaml:"prefix_slots"` // 0 = as many as prefix targets
	SuffixSlots *int `yaml:"suffix_slots"`
}

type ThresholdsConfig struct {
	ProfitableROIPercent *float64 `yaml:"profitable_roi_percent"`
	LowRisk              *float64 `yaml:"low_risk"`
	MediumRisk           *float64 `yaml:"medium_risk"`
}

// Normalized engine params used by internal/ranking.
type EngineParams struct {
	League     string
	Costs      crafting.ActionCosts
	Options    crafting.Options
	Selector   crafting.Selector
	Freshness  time.Duration
	Workers    int
	Thresholds ranking.Thresholds
	Version    string // effective config version for tracing
}
