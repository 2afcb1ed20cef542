package crafting

import (
	"github.com/showmtmn-cloud/richgo/internal/affix"
	crafterr "github.com/showmtmn-cloud/richgo/internal/errors"
	"github.com/showmtmn-cloud/richgo/internal/odds"
)

// Input is everything a method needs to price one recipe.
type Input struct {
	Recipe Recipe
	Prefix affix.Pool
	Suffix affix.Pool
	Costs  ActionCosts

	// Slots rolled per side by a full reroll. 0 rolls exactly as many
	// slots as the recipe has targets on that side.
	RerollPrefixSlots int
	RerollSuffixSlots int
}

func (in Input) pool(mt affix.ModType) affix.Pool {
	if mt == affix.Suffix {
		return in.Suffix
	}
	return in.Prefix
}

// EvaluateFunc prices one method.
type EvaluateFunc func(in Input) (Result, error)

var evaluators = map[Method]EvaluateFunc{
	FullReroll:           EvaluateFullReroll,
	GuaranteedPlusRandom: EvaluateGuaranteedPlusRandom,
	SequentialUpgrade:    EvaluateSequentialUpgrade,
}

// EvaluateFullReroll re-randomises every slot per attempt until the whole
// target set is present.
func EvaluateFullReroll(in Input) (Result, error) {
	if err := reachable(in); err != nil {
		return Result{}, methodErr(FullReroll, err)
	}
	pre := in.RerollPrefixSlots
	if pre == 0 {
		pre = in.Recipe.TargetCount(affix.Prefix)
	}
	suf := in.RerollSuffixSlots
	if suf == 0 {
		suf = in.Recipe.TargetCount(affix.Suffix)
	}
	p, err := odds.Joint(in.Prefix, in.Suffix, in.Recipe.Targets, pre, suf)
	if err != nil {
		return Result{}, methodErr(FullReroll, err)
	}
	attempts, err := odds.AvgAttempts(p)
	if err != nil {
		return Result{}, methodErr(FullReroll, err)
	}
	unit := in.Costs.Of(ActionReroll)
	step := Step{Action: ActionReroll, Probability: p, Attempts: attempts, UnitCost: unit, Cost: attempts * unit}
	return Result{
		Method:             FullReroll,
		TotalCost:          step.Cost,
		SuccessProbability: p,
		Steps:              []Step{step},
	}, nil
}

// EvaluateGuaranteedPlusRandom buys the first target outright and adds the
// rest with slot-aware random additions.
func EvaluateGuaranteedPlusRandom(in Input) (Result, error) {
	if err := reachable(in); err != nil {
		return Result{}, methodErr(GuaranteedPlusRandom, err)
	}
	first := in.Recipe.Targets[0]
	unit := in.Costs.Of(ActionGuaranteed)
	steps := []Step{{
		Action: ActionGuaranteed, Target: first.Name, ModType: first.ModType,
		Probability: 1, Attempts: 1, UnitCost: unit, Cost: unit,
	}}
	more, p, err := addRemaining(in, first, in.Recipe.Targets[1:])
	if err != nil {
		return Result{}, methodErr(GuaranteedPlusRandom, err)
	}
	return newResult(GuaranteedPlusRandom, p, append(steps, more...)), nil
}

// EvaluateSequentialUpgrade rolls the first target with cheap low-power
// rerolls, upgrades the item twice and adds the rest randomly.
func EvaluateSequentialUpgrade(in Input) (Result, error) {
	if err := reachable(in); err != nil {
		return Result{}, methodErr(SequentialUpgrade, err)
	}
	first := in.Recipe.Targets[0]
	p, err := odds.Single(in.pool(first.ModType), first.Name)
	if err != nil {
		return Result{}, methodErr(SequentialUpgrade, err)
	}
	attempts, err := odds.AvgAttempts(p)
	if err != nil {
		return Result{}, methodErr(SequentialUpgrade, err)
	}
	low := in.Costs.Of(ActionLowReroll)
	up1 := in.Costs.Of(ActionUpgradeOne)
	up2 := in.Costs.Of(ActionUpgradeTwo)
	steps := []Step{
		{Action: ActionLowReroll, Target: first.Name, ModType: first.ModType, Probability: p, Attempts: attempts, UnitCost: low, Cost: attempts * low},
		{Action: ActionUpgradeOne, Probability: 1, Attempts: 1, UnitCost: up1, Cost: up1},
		{Action: ActionUpgradeTwo, Probability: 1, Attempts: 1, UnitCost: up2, Cost: up2},
	}
	more, q, err := addRemaining(in, first, in.Recipe.Targets[1:])
	if err != nil {
		return Result{}, methodErr(SequentialUpgrade, err)
	}
	return newResult(SequentialUpgrade, p*q, append(steps, more...)), nil
}

// addRemaining prices slot-aware additions for rest once anchor is on the
// item. Open slot counts are taken once after the anchor lands and are not
// recomputed per addition. Later draws exclude targets already placed on
// the same side.
func addRemaining(in Input, anchor odds.Target, rest []odds.Target) ([]Step, float64, error) {
	open := map[affix.ModType]int{
		affix.Prefix: affix.MaxSlotsPerType - in.Recipe.occupied(affix.Prefix),
		affix.Suffix: affix.MaxSlotsPerType - in.Recipe.occupied(affix.Suffix),
	}
	open[anchor.ModType]--
	if open[anchor.ModType] < 0 {
		return nil, 0, crafterr.Newf(crafterr.CodeSlotCapacity, "no free %s slot for %q", anchor.ModType, anchor.Name).
			WithMeta("mod_type", string(anchor.ModType))
	}

	placed := map[affix.ModType][]string{anchor.ModType: {anchor.Name}}
	added := map[affix.ModType]int{}
	unit := in.Costs.Of(ActionAddition)
	success := 1.0
	var steps []Step
	for _, t := range rest {
		chance, err := odds.SlotChance(open[affix.Prefix], open[affix.Suffix], t.ModType)
		if err != nil {
			return nil, 0, err
		}
		if added[t.ModType] >= open[t.ModType] {
			return nil, 0, crafterr.Newf(crafterr.CodeSlotCapacity, "%s slots exhausted before %q", t.ModType, t.Name).
				WithMeta("mod_type", string(t.ModType))
		}
		pp, err := odds.Single(in.pool(t.ModType).Without(placed[t.ModType]...), t.Name)
		if err != nil {
			return nil, 0, err
		}
		q := chance * pp
		attempts, err := odds.AvgAttempts(q)
		if err != nil {
			return nil, 0, err
		}
		steps = append(steps, Step{
			Action: ActionAddition, Target: t.Name, ModType: t.ModType,
			Probability: q, Attempts: attempts, UnitCost: unit, Cost: attempts * unit,
		})
		placed[t.ModType] = append(placed[t.ModType], t.Name)
		added[t.ModType]++
		success *= q
	}
	return steps, success, nil
}

// reachable fails with affix_unreachable when any target cannot roll at
// the recipe's item level.
func reachable(in Input) error {
	for _, t := range in.Recipe.Targets {
		p, err := odds.Single(in.pool(t.ModType), t.Name)
		if err != nil {
			if crafterr.Is(err, crafterr.CodeAffixNotInPool) || crafterr.Is(err, crafterr.CodeNoAffixAvailable) {
				return crafterr.WrapWithCode(err, crafterr.CodeAffixUnreachable, "target unreachable at item level").
					WithMeta("item_level", in.Recipe.ItemLevel)
			}
			return err
		}
		if p == 0 {
			return crafterr.Newf(crafterr.CodeAffixUnreachable, "target %q has zero weight", t.Name).
				WithMeta("affix", t.Name)
		}
	}
	return nil
}

func newResult(m Method, p float64, steps []Step) Result {
	total := 0.0
	for _, s := range steps {
		total += s.Cost
	}
	return Result{Method: m, TotalCost: total, SuccessProbability: p, Steps: steps}
}

func methodErr(m Method, err error) error {
	return crafterr.Wrap(err, string(m)).WithMeta("method", string(m))
}
