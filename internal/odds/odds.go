package odds

import (
	"github.com/showmtmn-cloud/richgo/internal/affix"
	crafterr "github.com/showmtmn-cloud/richgo/internal/errors"
)

// Target is one affix wanted on the finished item.
type Target struct {
	Name    string        `json:"name" yaml:"name"`
	ModType affix.ModType `json:"type" yaml:"type"`
}

// Single is the chance that one weighted draw from pool yields name.
func Single(pool affix.Pool, name string) (float64, error) {
	if pool.Len() == 0 || pool.TotalWeight() <= 0 {
		return 0, crafterr.Newf(crafterr.CodeNoAffixAvailable, "pool for %q has no weight", pool.Query().ItemType).
			WithMeta("affix", name)
	}
	t, ok := pool.Lookup(name)
	if !ok {
		return 0, crafterr.AffixNotInPool(name)
	}
	return float64(t.Weight) / float64(pool.TotalWeight()), nil
}

// AvgAttempts is the expected number of tries of a p-chance event.
// p == 0 is never turned into a finite number.
func AvgAttempts(p float64) (float64, error) {
	if p < 0 || p > 1 {
		return 0, crafterr.InvalidArgumentf("probability %v outside [0,1]", p)
	}
	if p == 0 {
		return 0, crafterr.New(crafterr.CodeUnreachable, "probability is zero")
	}
	return 1 / p, nil
}

// SlotChance is the chance that a slot-aware addition lands on mt given
// the open slot counts.
func SlotChance(prefixOpen, suffixOpen int, mt affix.ModType) (float64, error) {
	if !mt.Valid() {
		return 0, crafterr.InvalidArgumentf("invalid mod type %q", mt)
	}
	if prefixOpen <= 0 && suffixOpen <= 0 {
		return 0, crafterr.New(crafterr.CodeNoOpenSlots, "no open prefix or suffix slot")
	}
	open := prefixOpen
	if mt == affix.Suffix {
		open = suffixOpen
	}
	if open <= 0 {
		return 0, nil
	}
	if prefixOpen > 0 && suffixOpen > 0 {
		return 0.5, nil
	}
	return 1, nil
}
