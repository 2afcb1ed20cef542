package ranking

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/showmtmn-cloud/richgo/internal/crafting"
	"github.com/showmtmn-cloud/richgo/internal/odds"
)

type Status string

const (
	StatusProfitable    Status = "PROFITABLE"
	StatusMarginal      Status = "MARGINAL"
	StatusNotProfitable Status = "NOT_PROFITABLE"
)

type Risk string

const (
	RiskLow    Risk = "LOW"
	RiskMedium Risk = "MEDIUM"
	RiskHigh   Risk = "HIGH"
)

// MethodCost summarises one viable method of a recipe.
type MethodCost struct {
	Method             crafting.Method `json:"method"`
	TotalCost          float64         `json:"total_cost"`
	SuccessProbability float64         `json:"success_probability"`
}

// Opportunity is one ranked recipe. Amounts are in the reference currency.
type Opportunity struct {
	RecipeID           string           `json:"recipe_id"`
	League             string           `json:"league"`
	ItemType           string           `json:"item_type"`
	BaseName           string           `json:"base_name"`
	BaseCost           float64          `json:"base_cost"`
	CraftCost          float64          `json:"craft_cost"`
	TotalCost          float64          `json:"total_cost"`
	ExpectedSale       float64          `json:"expected_sale"`
	NetProfit          float64          `json:"net_profit"`
	ROIPercent         float64          `json:"roi_percent"`
	ChosenMethod       crafting.Method  `json:"chosen_method"`
	SuccessProbability float64          `json:"success_probability"`
	Risk               Risk             `json:"risk"`
	Status             Status           `json:"status"`
	Degenerate         bool             `json:"degenerate"`
	Methods            []MethodCost     `json:"methods"`
	AffixBreakdown     []odds.AffixOdds `json:"affix_breakdown"`
	Steps              []crafting.Step  `json:"steps,omitempty"`
	EvaluatedAt        time.Time        `json:"evaluated_at"`
}

// Thresholds classify opportunities.
type Thresholds struct {
	ProfitableROIPercent float64 // roi_percent above this is PROFITABLE, above 0 MARGINAL
	LowRisk              float64 // success probability at or above this is LOW
	MediumRisk           float64 // and at or above this MEDIUM
}

func DefaultThresholds() Thresholds {
	return Thresholds{ProfitableROIPercent: 50, LowRisk: 0.1, MediumRisk: 0.01}
}

func (t Thresholds) Status(roiPercent float64) Status {
	switch {
	case roiPercent > t.ProfitableROIPercent:
		return StatusProfitable
	case roiPercent > 0:
		return StatusMarginal
	}
	return StatusNotProfitable
}

func (t Thresholds) Risk(p float64) Risk {
	switch {
	case p >= t.LowRisk:
		return RiskLow
	case p >= t.MediumRisk:
		return RiskMedium
	}
	return RiskHigh
}

// Rank orders opportunities by ROI, then net profit, then recipe id.
// The input is not modified.
func Rank(opps []Opportunity) []Opportunity {
	out := append([]Opportunity(nil), opps...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.ROIPercent != b.ROIPercent {
			return a.ROIPercent > b.ROIPercent
		}
		if a.NetProfit != b.NetProfit {
			return a.NetProfit > b.NetProfit
		}
		return a.RecipeID < b.RecipeID
	})
	return out
}

// Top returns at most limit opportunities; limit <= 0 returns all.
func Top(opps []Opportunity, limit int) []Opportunity {
	if limit <= 0 || limit >= len(opps) {
		return append([]Opportunity(nil), opps...)
	}
	return append([]Opportunity(nil), opps[:limit]...)
}

func round4(f float64) float64 {
	return decimal.NewFromFloat(f).Round(4).InexactFloat64()
}
