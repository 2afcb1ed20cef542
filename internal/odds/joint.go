package odds

import (
	"github.com/showmtmn-cloud/richgo/internal/affix"
	crafterr "github.com/showmtmn-cloud/richgo/internal/errors"
)

// Joint is the chance that rolling prefixOpen prefix slots and suffixOpen
// suffix slots yields every target.
//
// Each side fills its slots by weighted draws without replacement from its
// own pool: a drawn affix leaves the pool and the remaining weights are
// renormalised. The result is the exact probability that all targets of a
// side are among its draws; the two sides are independent.
func Joint(prefix, suffix affix.Pool, targets []Target, prefixOpen, suffixOpen int) (float64, error) {
	if len(targets) == 0 {
		return 0, crafterr.InvalidArgument("at least one target is required")
	}
	for _, n := range []int{prefixOpen, suffixOpen} {
		if n < 0 || n > affix.MaxSlotsPerType {
			return 0, crafterr.InvalidArgumentf("open slots must be within 0..%d, got %d", affix.MaxSlotsPerType, n)
		}
	}
	byType, err := SplitTargets(targets)
	if err != nil {
		return 0, err
	}

	p := 1.0
	for _, s := range []struct {
		mt   affix.ModType
		pool affix.Pool
		open int
	}{
		{affix.Prefix, prefix, prefixOpen},
		{affix.Suffix, suffix, suffixOpen},
	} {
		want := byType[s.mt]
		if len(want) == 0 {
			continue
		}
		if len(want) > s.open {
			return 0, crafterr.Newf(crafterr.CodeSlotCapacity,
				"%d %s targets need more than %d open slots", len(want), s.mt, s.open).
				WithMeta("mod_type", string(s.mt))
		}
		sp, err := sideProbability(s.pool, s.mt, want, s.open)
		if err != nil {
			return 0, err
		}
		p *= sp
	}
	return p, nil
}

// SplitTargets groups targets by mod type, keeping their order. It rejects
// duplicates and more than three targets of one type.
func SplitTargets(targets []Target) (map[affix.ModType][]string, error) {
	out := map[affix.ModType][]string{}
	seen := map[Target]bool{}
	for _, t := range targets {
		if !t.ModType.Valid() {
			return nil, crafterr.InvalidArgumentf("target %q has invalid mod type %q", t.Name, t.ModType)
		}
		if seen[t] {
			return nil, crafterr.InvalidArgumentf("duplicate target %s %q", t.ModType, t.Name)
		}
		seen[t] = true
		out[t.ModType] = append(out[t.ModType], t.Name)
		if len(out[t.ModType]) > affix.MaxSlotsPerType {
			return nil, crafterr.Newf(crafterr.CodeSlotCapacity,
				"more than %d %s targets", affix.MaxSlotsPerType, t.ModType).
				WithMeta("mod_type", string(t.ModType))
		}
	}
	return out, nil
}

type side struct {
	weights []float64
	total   float64
}

func sideProbability(pool affix.Pool, mt affix.ModType, names []string, draws int) (float64, error) {
	var s side
	index := map[string]int{}
	for _, m := range pool.Members() {
		if m.ModType() != mt {
			continue
		}
		index[m.Name()] = len(s.weights)
		s.weights = append(s.weights, float64(m.Weight))
		s.total += float64(m.Weight)
	}
	if s.total <= 0 {
		return 0, crafterr.Newf(crafterr.CodeNoAffixAvailable, "%s pool is empty", mt).
			WithMeta("mod_type", string(mt))
	}
	want := make([]int, 0, len(names))
	for _, n := range names {
		i, ok := index[n]
		if !ok {
			return 0, crafterr.AffixNotInPool(n).WithMeta("mod_type", string(mt))
		}
		want = append(want, i)
	}
	return s.hitAll(want, nil, 0, draws), nil
}

// hitAll sums over every ordered draw sequence of length draws that
// contains all wanted indices. Depth is bounded by the slot count.
func (s side) hitAll(want, taken []int, takenWeight float64, draws int) float64 {
	if len(want) == 0 {
		return 1
	}
	if draws < len(want) {
		return 0
	}
	rest := s.total - takenWeight
	if rest <= 0 {
		return 0
	}
	p := 0.0
	for i, w := range s.weights {
		if w == 0 || contains(taken, i) {
			continue
		}
		next := want
		if at := indexOf(want, i); at >= 0 {
			next = remove(want, at)
		} else if draws == len(want) {
			// every remaining draw must be a target
			continue
		}
		p += w / rest * s.hitAll(next, append(taken[:len(taken):len(taken)], i), takenWeight+w, draws-1)
	}
	return p
}

func contains(xs []int, v int) bool { return indexOf(xs, v) >= 0 }

func indexOf(xs []int, v int) int {
	for i, x := range xs {
		if x == v {
			return i
		}
	}
	return -1
}

func remove(xs []int, at int) []int {
	out := make([]int, 0, len(xs)-1)
	out = append(out, xs[:at]...)
	return append(out, xs[at+1:]...)
}
