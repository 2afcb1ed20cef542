package ranking

import (
	"time"

	"github.com/showmtmn-cloud/richgo/internal/affix"
	"github.com/showmtmn-cloud/richgo/internal/crafting"
	crafterr "github.com/showmtmn-cloud/richgo/internal/errors"
	"github.com/showmtmn-cloud/richgo/internal/odds"
	"github.com/showmtmn-cloud/richgo/internal/pricing"
)

// Snapshot is the frozen input of a ranking pass.
type Snapshot struct {
	Catalog *affix.Catalog
	Market  *pricing.Market
}

// Evaluator turns recipes into opportunities. The zero value uses the
// cheapest viable method and default thresholds.
type Evaluator struct {
	Costs      crafting.ActionCosts
	Options    crafting.Options
	Selector   crafting.Selector
	Thresholds *Thresholds
	Now        func() time.Time
}

// Evaluate prices r against snap. Any method failure only removes that
// method; the recipe fails when no method is viable.
func (e Evaluator) Evaluate(r crafting.Recipe, snap Snapshot) (Opportunity, error) {
	if snap.Catalog == nil || snap.Market == nil {
		return Opportunity{}, crafterr.New(crafterr.CodeEmptySnapshot, "catalog and market are required")
	}
	if err := r.Validate(); err != nil {
		return Opportunity{}, err
	}
	in, err := crafting.Prepare(r, snap.Catalog, e.Costs, e.Options)
	if err != nil {
		return Opportunity{}, err
	}
	results, failures := crafting.Evaluate(in, e.Options.Methods)

	sel := e.Selector
	if sel == nil {
		sel = crafting.CheapestViable
	}
	best, ok := sel(results)
	if !ok {
		if len(failures) > 0 {
			f := failures[0]
			return Opportunity{}, crafterr.Newf(f.Code, "recipe %q: no viable method: %s", r.ID, f.Message).
				WithMeta("recipe_id", r.ID)
		}
		return Opportunity{}, crafterr.Newf(crafterr.CodeUnreachable, "recipe %q: no viable method", r.ID).
			WithMeta("recipe_id", r.ID)
	}

	baseCost, err := e.baseCost(r, snap.Market)
	if err != nil {
		return Opportunity{}, crafterr.Wrapf(err, "recipe %q base cost", r.ID).WithMeta("recipe_id", r.ID)
	}
	sale, err := snap.Market.Rates().Convert(r.Sale)
	if err != nil {
		return Opportunity{}, crafterr.Wrapf(err, "recipe %q sale", r.ID).WithMeta("recipe_id", r.ID)
	}
	breakdown, err := odds.Breakdown(in.Prefix, in.Suffix, r.Targets)
	if err != nil {
		return Opportunity{}, crafterr.Wrapf(err, "recipe %q breakdown", r.ID).WithMeta("recipe_id", r.ID)
	}

	th := DefaultThresholds()
	if e.Thresholds != nil {
		th = *e.Thresholds
	}
	total := baseCost + best.TotalCost
	net := sale - total
	roi, degenerate := 0.0, false
	if total > 0 {
		roi = net / total
	} else {
		degenerate = true
	}
	roiPercent := round4(roi * 100)

	methods := make([]MethodCost, 0, len(results))
	for _, res := range results {
		methods = append(methods, MethodCost{
			Method:             res.Method,
			TotalCost:          round4(res.TotalCost),
			SuccessProbability: res.SuccessProbability,
		})
	}

	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	return Opportunity{
		RecipeID:           r.ID,
		League:             r.League,
		ItemType:           r.ItemType,
		BaseName:           r.BaseName,
		BaseCost:           round4(baseCost),
		CraftCost:          round4(best.TotalCost),
		TotalCost:          round4(total),
		ExpectedSale:       round4(sale),
		NetProfit:          round4(net),
		ROIPercent:         roiPercent,
		ChosenMethod:       best.Method,
		SuccessProbability: best.SuccessProbability,
		Risk:               th.Risk(best.SuccessProbability),
		Status:             th.Status(roiPercent),
		Degenerate:         degenerate,
		Methods:            methods,
		AffixBreakdown:     breakdown,
		Steps:              best.Steps,
		EvaluatedAt:        now().UTC(),
	}, nil
}

func (e Evaluator) baseCost(r crafting.Recipe, m *pricing.Market) (float64, error) {
	if r.BaseCost != nil {
		return m.Rates().Convert(*r.BaseCost)
	}
	return m.BasePrice(r.BaseName)
}
