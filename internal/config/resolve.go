// resolve.go
package config

import (
	"fmt"
	"time"

	"github.com/showmtmn-cloud/richgo/internal/affix"
	"github.com/showmtmn-cloud/richgo/internal/crafting"
	"github.com/showmtmn-cloud/richgo/internal/pricing"
	"github.com/showmtmn-cloud/richgo/internal/ranking"
)

// Overrides carry process-level settings that beat the YAML files.
type Overrides struct {
	Selector  *string
	Freshness *time.Duration
	Workers   *int
}

type Resolver interface {
	// Returns merged RawConfig and normalized EngineParams
	Resolve(league string, rates pricing.Rates, o Overrides) (RawConfig, EngineParams, error)
}

var _ Resolver = (*Loader)(nil)

// Resolve merges defaults → league → overrides, validates the result and
// converts action costs into the reference currency of rates.
func (l *Loader) Resolve(league string, rates pricing.Rates, o Overrides) (RawConfig, EngineParams, error) {
	raw, err := l.LoadMerged(league)
	if err != nil {
		return RawConfig{}, EngineParams{}, err
	}
	if o.Selector != nil {
		raw.Selector = *o.Selector
	}
	if o.Freshness != nil {
		raw.Freshness = o.Freshness.String()
	}
	if o.Workers != nil {
		raw.Workers = o.Workers
	}
	if err := ValidateRaw(raw); err != nil {
		return raw, EngineParams{}, err
	}
	params, err := Normalize(raw, rates)
	if err != nil {
		return raw, EngineParams{}, err
	}
	params.League = league
	return raw, params, nil
}

// Normalize turns a validated RawConfig into EngineParams.
func Normalize(raw RawConfig, rates pricing.Rates) (EngineParams, error) {
	p := EngineParams{
		Workers:    4,
		Thresholds: ranking.DefaultThresholds(),
		Version:    raw.Version,
		Options:    crafting.Options{},
	}

	var err error
	convert := func(name string, m *pricing.Money) float64 {
		if m == nil || err != nil {
			return 0
		}
		v, cerr := rates.Convert(*m)
		if cerr != nil {
			err = fmt.Errorf("costs.%s: %w", name, cerr)
		}
		return v
	}
	if c := raw.Costs; c != nil {
		p.Costs = crafting.ActionCosts{
			Reroll:     convert("reroll", c.Reroll),
			Guaranteed: convert("guaranteed", c.Guaranteed),
			LowReroll:  convert("low_reroll", c.LowReroll),
			UpgradeOne: convert("upgrade_one", c.UpgradeOne),
			UpgradeTwo: convert("upgrade_two", c.UpgradeTwo),
			Addition:   convert("addition", c.Addition),
		}
	}
	if err != nil {
		return EngineParams{}, err
	}

	if r := raw.Reroll; r != nil {
		if r.PrefixSlots != nil {
			p.Options.RerollPrefixSlots = *r.PrefixSlots
		}
		if r.SuffixSlots != nil {
			p.Options.RerollSuffixSlots = *r.SuffixSlots
		}
	}
	for _, name := range raw.Methods {
		m, err := crafting.ParseMethod(name)
		if err != nil {
			return EngineParams{}, err
		}
		p.Options.Methods = append(p.Options.Methods, m)
	}
	if p.Selector, err = crafting.SelectorByName(raw.Selector); err != nil {
		return EngineParams{}, err
	}
	if raw.Freshness != "" {
		if p.Freshness, err = time.ParseDuration(raw.Freshness); err != nil {
			return EngineParams{}, err
		}
	}
	if raw.Workers != nil {
		p.Workers = *raw.Workers
	}
	if t := raw.Thresholds; t != nil {
		if t.ProfitableROIPercent != nil {
			p.Thresholds.ProfitableROIPercent = *t.ProfitableROIPercent
		}
		if t.LowRisk != nil {
			p.Thresholds.LowRisk = *t.LowRisk
		}
		if t.MediumRisk != nil {
			p.Thresholds.MediumRisk = *t.MediumRisk
		}
	}
	return p, nil
}

// Evaluator builds a ranking evaluator from the params.
func (p EngineParams) Evaluator(res affix.Resolver) ranking.Evaluator {
	opts := p.Options
	opts.Resolver = res
	th := p.Thresholds
	return ranking.Evaluator{
		Costs:      p.Costs,
		Options:    opts,
		Selector:   p.Selector,
		Thresholds: &th,
	}
}
