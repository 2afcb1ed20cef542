package odds_test

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/showmtmn-cloud/richgo/internal/affix"
	"github.com/showmtmn-cloud/richgo/internal/odds"
)

// rollSide draws n affixes without replacement and reports whether every
// wanted name came up.
func rollSide(rng *rand.Rand, members []affix.Tier, n int, want map[string]bool) bool {
	left := append([]affix.Tier(nil), members...)
	hit := 0
	for i := 0; i < n && len(left) > 0; i++ {
		total := 0
		for _, m := range left {
			total += m.Weight
		}
		if total == 0 {
			break
		}
		r := rng.IntN(total)
		for j, m := range left {
			if r < m.Weight {
				if want[m.Name()] {
					hit++
				}
				left = append(left[:j], left[j+1:]...)
				break
			}
			r -= m.Weight
		}
	}
	return hit == len(want)
}

func TestJointAgreesWithSampling(t *testing.T) {
	pre, suf := pools(t, []affix.Row{
		row("Life", affix.Prefix, 1000),
		row("Mana", affix.Prefix, 800),
		row("Armour", affix.Prefix, 600),
		row("Spell Damage", affix.Prefix, 400),
		row("Fire", affix.Suffix, 1000),
		row("Cold", affix.Suffix, 1000),
		row("Lightning", affix.Suffix, 500),
	}, 10)
	targets := []odds.Target{
		{Name: "Mana", ModType: affix.Prefix},
		{Name: "Spell Damage", ModType: affix.Prefix},
		{Name: "Lightning", ModType: affix.Suffix},
	}

	want, err := odds.Joint(pre, suf, targets, 3, 2)
	require.NoError(t, err)

	const n = 200000
	rng := rand.New(rand.NewPCG(42, 0))
	wantPre := map[string]bool{"Mana": true, "Spell Damage": true}
	wantSuf := map[string]bool{"Lightning": true}
	hit := 0
	for i := 0; i < n; i++ {
		if rollSide(rng, pre.Members(), 3, wantPre) && rollSide(rng, suf.Members(), 2, wantSuf) {
			hit++
		}
	}
	freq := float64(hit) / float64(n)
	// should be around the exact value
	assert.InDelta(t, want, freq, 0.01, "freq=%f exact=%f", freq, want)
}
