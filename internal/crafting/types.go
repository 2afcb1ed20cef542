// types.go
package crafting

import (
	"github.com/showmtmn-cloud/richgo/internal/affix"
	crafterr "github.com/showmtmn-cloud/richgo/internal/errors"
)

// Method names one crafting strategy.
type Method string

const (
	FullReroll           Method = "full_reroll"
	GuaranteedPlusRandom Method = "guaranteed_plus_random"
	SequentialUpgrade    Method = "sequential_upgrade"
)

// Methods is the fixed evaluation order; selectors break ties by it.
var Methods = []Method{FullReroll, GuaranteedPlusRandom, SequentialUpgrade}

func ParseMethod(s string) (Method, error) {
	for _, m := range Methods {
		if string(m) == s {
			return m, nil
		}
	}
	return "", crafterr.InvalidArgumentf("unknown crafting method %q", s)
}

// Action is one priced crafting operation.
type Action string

const (
	ActionReroll     Action = "reroll"
	ActionGuaranteed Action = "guaranteed"
	ActionLowReroll  Action = "low_reroll"
	ActionUpgradeOne Action = "upgrade_one"
	ActionUpgradeTwo Action = "upgrade_two"
	ActionAddition   Action = "addition"
)

// ActionCosts are unit costs in reference currency.
type ActionCosts struct {
	Reroll     float64
	Guaranteed float64
	LowReroll  float64
	UpgradeOne float64
	UpgradeTwo float64
	Addition   float64
}

func (c ActionCosts) Of(a Action) float64 {
	switch a {
	case ActionReroll:
		return c.Reroll
	case ActionGuaranteed:
		return c.Guaranteed
	case ActionLowReroll:
		return c.LowReroll
	case ActionUpgradeOne:
		return c.UpgradeOne
	case ActionUpgradeTwo:
		return c.UpgradeTwo
	case ActionAddition:
		return c.Addition
	}
	return 0
}

// Step is one line of a method's cost breakdown.
type Step struct {
	Action      Action        `json:"action"`
	Target      string        `json:"target,omitempty"`
	ModType     affix.ModType `json:"mod_type,omitempty"`
	Probability float64       `json:"probability"`
	Attempts    float64       `json:"attempts"`
	UnitCost    float64       `json:"unit_cost"`
	Cost        float64       `json:"cost"`
}

// Result is the closed-form expectation of one method for one recipe.
type Result struct {
	Method             Method  `json:"method"`
	TotalCost          float64 `json:"total_cost"`
	SuccessProbability float64 `json:"success_probability"`
	Steps              []Step  `json:"steps"`
}

// MethodFailure records why a method could not be applied to a recipe.
type MethodFailure struct {
	Method  Method        `json:"method"`
	Code    crafterr.Code `json:"code"`
	Message string        `json:"message"`
}

func (f MethodFailure) Error() string { return string(f.Method) + ": " + f.Message }
