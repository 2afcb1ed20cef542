package crafting

import (
	"fmt"
	"strings"

	"github.com/showmtmn-cloud/richgo/internal/affix"
	crafterr "github.com/showmtmn-cloud/richgo/internal/errors"
	"github.com/showmtmn-cloud/richgo/internal/odds"
	"github.com/showmtmn-cloud/richgo/internal/pricing"
)

// Recipe describes one item worth crafting: a base, the affixes wanted on
// it and what the finished item is expected to sell for.
type Recipe struct {
	ID        string
	League    string
	ItemType  string
	BaseName  string
	ItemLevel int

	// Slots already filled on the base before crafting starts.
	OccupiedPrefixes int
	OccupiedSuffixes int

	// Targets are applied in order; the first one is the anchor for the
	// guaranteed and upgrade methods.
	Targets []odds.Target

	// BaseCost overrides the market price of BaseName when set.
	BaseCost *pricing.Money
	Sale     pricing.Money
	Tags     []string
}

// Validate checks the recipe shape. Failures are recipe scoped.
func (r Recipe) Validate() error {
	var errs []string
	if strings.TrimSpace(r.ID) == "" {
		errs = append(errs, "id is required")
	}
	if strings.TrimSpace(r.ItemType) == "" {
		errs = append(errs, "item_type is required")
	}
	if r.ItemLevel <= 0 {
		errs = append(errs, "item_level must be > 0")
	}
	if len(r.Targets) == 0 {
		errs = append(errs, "at least one target is required")
	}
	for _, n := range []int{r.OccupiedPrefixes, r.OccupiedSuffixes} {
		if n < 0 || n > affix.MaxSlotsPerType {
			errs = append(errs, fmt.Sprintf("occupied slots must be within 0..%d", affix.MaxSlotsPerType))
			break
		}
	}
	if r.Sale.Amount < 0 {
		errs = append(errs, "sale must be >= 0")
	}
	if r.BaseCost != nil && r.BaseCost.Amount < 0 {
		errs = append(errs, "base cost must be >= 0")
	}
	if len(errs) > 0 {
		return crafterr.InvalidArgumentf("recipe %q: %s", r.ID, strings.Join(errs, "; ")).WithMeta("recipe_id", r.ID)
	}
	if _, err := odds.SplitTargets(r.Targets); err != nil {
		return crafterr.Wrapf(err, "recipe %q", r.ID).WithMeta("recipe_id", r.ID)
	}
	return nil
}

// TargetCount returns the number of targets of mt.
func (r Recipe) TargetCount(mt affix.ModType) int {
	n := 0
	for _, t := range r.Targets {
		if t.ModType == mt {
			n++
		}
	}
	return n
}

func (r Recipe) occupied(mt affix.ModType) int {
	if mt == affix.Prefix {
		return r.OccupiedPrefixes
	}
	return r.OccupiedSuffixes
}
