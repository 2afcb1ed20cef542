package odds

import (
	"github.com/showmtmn-cloud/richgo/internal/affix"
	crafterr "github.com/showmtmn-cloud/richgo/internal/errors"
)

// AffixOdds describes one target as seen by a single draw from its pool.
type AffixOdds struct {
	Name            string        `json:"name"`
	ModType         affix.ModType `json:"mod_type"`
	Tier            int           `json:"tier"`
	Weight          int           `json:"weight"`
	PoolTotalWeight int           `json:"pool_total_weight"`
	Probability     float64       `json:"probability"`
	AvgAttempts     float64       `json:"avg_attempts"`
}

// Breakdown lists the single-draw odds of every target, in target order.
func Breakdown(prefix, suffix affix.Pool, targets []Target) ([]AffixOdds, error) {
	if _, err := SplitTargets(targets); err != nil {
		return nil, err
	}
	out := make([]AffixOdds, 0, len(targets))
	for _, t := range targets {
		pool := prefix
		if t.ModType == affix.Suffix {
			pool = suffix
		}
		p, err := Single(pool, t.Name)
		if err != nil {
			return nil, crafterr.Wrapf(err, "%s %q", t.ModType, t.Name)
		}
		avg, err := AvgAttempts(p)
		if err != nil {
			return nil, crafterr.Wrapf(err, "%s %q", t.ModType, t.Name).WithMeta("affix", t.Name)
		}
		tier, _ := pool.Lookup(t.Name)
		out = append(out, AffixOdds{
			Name:            t.Name,
			ModType:         t.ModType,
			Tier:            tier.Rank,
			Weight:          tier.Weight,
			PoolTotalWeight: pool.TotalWeight(),
			Probability:     p,
			AvgAttempts:     avg,
		})
	}
	return out, nil
}
