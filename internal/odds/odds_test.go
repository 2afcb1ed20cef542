package odds_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/showmtmn-cloud/richgo/internal/affix"
	crafterr "github.com/showmtmn-cloud/richgo/internal/errors"
	"github.com/showmtmn-cloud/richgo/internal/odds"
)

func pools(t *testing.T, rows []affix.Row, ilvl int) (affix.Pool, affix.Pool) {
	t.Helper()
	c, err := affix.NewCatalog("odds", time.Time{}, rows)
	require.NoError(t, err)
	pre, err := affix.Resolve(c, affix.Query{ItemType: rows[0].ItemType, ItemLevel: ilvl, ModType: affix.Prefix})
	require.NoError(t, err)
	suf, err := affix.Resolve(c, affix.Query{ItemType: rows[0].ItemType, ItemLevel: ilvl, ModType: affix.Suffix})
	require.NoError(t, err)
	return pre, suf
}

func row(name string, mt affix.ModType, weight int) affix.Row {
	return affix.Row{ItemType: "Rings", Affix: name, ModType: mt, Tier: 1, MinItemLevel: 1, Weight: weight}
}

func TestSingleTwoAffixPool(t *testing.T) {
	pre, _ := pools(t, []affix.Row{
		row("A", affix.Prefix, 1000),
		row("B", affix.Prefix, 500),
	}, 10)

	p, err := odds.Single(pre, "A")
	require.NoError(t, err)
	assert.InDelta(t, 0.6667, p, 1e-4)

	avg, err := odds.AvgAttempts(p)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, avg, 1e-12)

	_, err = odds.Single(pre, "C")
	assert.True(t, crafterr.Is(err, crafterr.CodeAffixNotInPool))
}

func TestSingleEmptyPool(t *testing.T) {
	pre, suf := pools(t, []affix.Row{row("A", affix.Prefix, 0)}, 10)

	_, err := odds.Single(pre, "A")
	assert.True(t, crafterr.Is(err, crafterr.CodeNoAffixAvailable))
	_, err = odds.Single(suf, "A")
	assert.True(t, crafterr.Is(err, crafterr.CodeNoAffixAvailable))
}

func TestAvgAttempts(t *testing.T) {
	for _, p := range []float64{1, 0.5, 0.16, 1e-6, 0.333} {
		got, err := odds.AvgAttempts(p)
		require.NoError(t, err)
		assert.Equal(t, 1/p, got)
	}
	_, err := odds.AvgAttempts(0)
	assert.True(t, crafterr.Is(err, crafterr.CodeUnreachable))
	_, err = odds.AvgAttempts(1.5)
	assert.True(t, crafterr.Is(err, crafterr.CodeInvalidArgument))
}

func TestSlotChance(t *testing.T) {
	tests := []struct {
		name     string
		pre, suf int
		mt       affix.ModType
		want     float64
		wantCode crafterr.Code
	}{
		{"both open", 2, 1, affix.Prefix, 0.5, ""},
		{"only prefix", 1, 0, affix.Prefix, 1, ""},
		{"only prefix asks suffix", 1, 0, affix.Suffix, 0, ""},
		{"only suffix", 0, 3, affix.Suffix, 1, ""},
		{"full", 0, 0, affix.Prefix, 0, crafterr.CodeNoOpenSlots},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := odds.SlotChance(tt.pre, tt.suf, tt.mt)
			if tt.wantCode != "" {
				assert.True(t, crafterr.Is(err, tt.wantCode))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJointSingleSlotMatchesSingle(t *testing.T) {
	pre, suf := pools(t, []affix.Row{
		row("Life", affix.Prefix, 800),
		row("Mana", affix.Prefix, 4200),
		row("Cold", affix.Suffix, 1000),
	}, 10)

	p, err := odds.Joint(pre, suf, []odds.Target{{Name: "Life", ModType: affix.Prefix}}, 1, 0)
	require.NoError(t, err)
	assert.InDelta(t, 0.16, p, 1e-12)

	avg, err := odds.AvgAttempts(p)
	require.NoError(t, err)
	assert.InDelta(t, 6.25, avg, 1e-9)
}

func TestJointWithoutReplacement(t *testing.T) {
	// A=1, B=1, C=2 (total 4); both A and B within two draws:
	// AB: 1/4*1/3, BA: 1/4*1/3 => 1/6
	pre, suf := pools(t, []affix.Row{
		row("A", affix.Prefix, 1),
		row("B", affix.Prefix, 1),
		row("C", affix.Prefix, 2),
	}, 10)
	targets := []odds.Target{{Name: "A", ModType: affix.Prefix}, {Name: "B", ModType: affix.Prefix}}

	p, err := odds.Joint(pre, suf, targets, 2, 0)
	require.NoError(t, err)
	assert.InDelta(t, 1.0/6, p, 1e-12)

	// three draws exhaust the pool
	p, err = odds.Joint(pre, suf, targets, 3, 0)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, p, 1e-12)

	// one target, two draws: A first (1/4) or C then A (2/4*1/2) or B then A (1/4*1/3)
	p, err = odds.Joint(pre, suf, targets[:1], 2, 0)
	require.NoError(t, err)
	assert.InDelta(t, 0.25+0.25+1.0/12, p, 1e-12)
}

func TestJointSidesMultiply(t *testing.T) {
	pre, suf := pools(t, []affix.Row{
		row("Life", affix.Prefix, 1000),
		row("Mana", affix.Prefix, 1000),
		row("Fire", affix.Suffix, 500),
		row("Cold", affix.Suffix, 1500),
	}, 10)
	targets := []odds.Target{{Name: "Life", ModType: affix.Prefix}, {Name: "Fire", ModType: affix.Suffix}}

	p, err := odds.Joint(pre, suf, targets, 1, 1)
	require.NoError(t, err)
	assert.InDelta(t, 0.5*0.25, p, 1e-12)
}

func TestJointCapacity(t *testing.T) {
	rows := []affix.Row{
		row("A", affix.Prefix, 1), row("B", affix.Prefix, 1),
		row("C", affix.Prefix, 1), row("D", affix.Prefix, 1),
		row("X", affix.Suffix, 1),
	}
	pre, suf := pools(t, rows, 10)
	four := []odds.Target{
		{Name: "A", ModType: affix.Prefix}, {Name: "B", ModType: affix.Prefix},
		{Name: "C", ModType: affix.Prefix}, {Name: "D", ModType: affix.Prefix},
	}

	_, err := odds.Joint(pre, suf, four, 3, 3)
	assert.True(t, crafterr.Is(err, crafterr.CodeSlotCapacity), "a fourth prefix must never be truncated away")

	_, err = odds.Joint(pre, suf, four[:2], 1, 3)
	assert.True(t, crafterr.Is(err, crafterr.CodeSlotCapacity))

	_, err = odds.Joint(pre, suf, four[:1], 4, 0)
	assert.True(t, crafterr.Is(err, crafterr.CodeInvalidArgument))

	_, err = odds.Joint(pre, suf, []odds.Target{four[0], four[0]}, 3, 0)
	assert.True(t, crafterr.Is(err, crafterr.CodeInvalidArgument))

	_, err = odds.Joint(pre, suf, nil, 3, 3)
	assert.True(t, crafterr.Is(err, crafterr.CodeInvalidArgument))
}

func TestJointMissingTarget(t *testing.T) {
	pre, suf := pools(t, []affix.Row{row("A", affix.Prefix, 1), row("X", affix.Suffix, 1)}, 10)
	_, err := odds.Joint(pre, suf, []odds.Target{{Name: "Z", ModType: affix.Suffix}}, 0, 1)
	assert.True(t, crafterr.Is(err, crafterr.CodeAffixNotInPool))
	assert.Equal(t, "Z", crafterr.GetMeta(err)["affix"])
}

func TestBreakdown(t *testing.T) {
	pre, suf := pools(t, []affix.Row{
		row("A", affix.Prefix, 1000),
		row("B", affix.Prefix, 500),
		row("X", affix.Suffix, 250),
		row("Y", affix.Suffix, 750),
	}, 10)
	got, err := odds.Breakdown(pre, suf, []odds.Target{
		{Name: "X", ModType: affix.Suffix},
		{Name: "A", ModType: affix.Prefix},
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "X", got[0].Name)
	assert.InDelta(t, 0.25, got[0].Probability, 1e-12)
	assert.InDelta(t, 4.0, got[0].AvgAttempts, 1e-12)
	assert.Equal(t, 1000, got[0].PoolTotalWeight)
	assert.Equal(t, 1, got[1].Tier)
	assert.Equal(t, 1500, got[1].PoolTotalWeight)
}
