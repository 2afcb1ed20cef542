package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/showmtmn-cloud/richgo/internal/affix"
	"github.com/showmtmn-cloud/richgo/internal/crafting"
	crafterr "github.com/showmtmn-cloud/richgo/internal/errors"
	"github.com/showmtmn-cloud/richgo/internal/pricing"
)

// ValidateRaw checks semantic constraints of a RawConfig.
func ValidateRaw(cfg RawConfig) error {
	var errs []string

	// costs
	if cfg.Costs == nil {
		errs = append(errs, "costs is required")
	} else {
		for _, c := range []struct {
			name string
			m    *pricing.Money
		}{
			{"reroll", cfg.Costs.Reroll},
			{"guaranteed", cfg.Costs.Guaranteed},
			{"low_reroll", cfg.Costs.LowReroll},
			{"upgrade_one", cfg.Costs.UpgradeOne},
			{"upgrade_two", cfg.Costs.UpgradeTwo},
			{"addition", cfg.Costs.Addition},
		} {
			if c.m == nil {
				errs = append(errs, "costs."+c.name+" is required")
			} else if c.m.Amount < 0 {
				errs = append(errs, "costs."+c.name+".amount must be >= 0")
			}
		}
	}

	// reroll slots
	if cfg.Reroll != nil {
		if v := cfg.Reroll.PrefixSlots; v != nil && (*v < 0 || *v > affix.MaxSlotsPerType) {
			errs = append(errs, fmt.Sprintf("reroll.prefix_slots must be within 0..%d", affix.MaxSlotsPerType))
		}
		if v := cfg.Reroll.SuffixSlots; v != nil && (*v < 0 || *v > affix.MaxSlotsPerType) {
			errs = append(errs, fmt.Sprintf("reroll.suffix_slots must be within 0..%d", affix.MaxSlotsPerType))
		}
	}

	if _, err := crafting.SelectorByName(cfg.Selector); err != nil {
		errs = append(errs, "selector must be one of: cheapest, most_likely")
	}
	for i, m := range cfg.Methods {
		if _, err := crafting.ParseMethod(m); err != nil {
			errs = append(errs, fmt.Sprintf("methods[%d] %q is not a crafting method", i, m))
		}
	}

	if cfg.Freshness != "" {
		if d, err := time.ParseDuration(cfg.Freshness); err != nil || d < 0 {
			errs = append(errs, "freshness must be a non-negative duration, e.g. 6h")
		}
	}
	if cfg.Workers != nil && *cfg.Workers < 1 {
		errs = append(errs, "workers must be >= 1")
	}

	if t := cfg.Thresholds; t != nil {
		if t.LowRisk != nil && (*t.LowRisk <= 0 || *t.LowRisk > 1) {
			errs = append(errs, "thresholds.low_risk must be in (0,1]")
		}
		if t.MediumRisk != nil && (*t.MediumRisk <= 0 || *t.MediumRisk > 1) {
			errs = append(errs, "thresholds.medium_risk must be in (0,1]")
		}
		if t.LowRisk != nil && t.MediumRisk != nil && *t.MediumRisk > *t.LowRisk {
			errs = append(errs, "thresholds.medium_risk must be <= low_risk")
		}
		if t.ProfitableROIPercent != nil && *t.ProfitableROIPercent < 0 {
			errs = append(errs, "thresholds.profitable_roi_percent must be >= 0")
		}
	}

	if len(errs) > 0 {
		return crafterr.Validation("config validation failed: " + strings.Join(errs, "; "))
	}
	return nil
}
