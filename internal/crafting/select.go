package crafting

import (
	"strings"

	crafterr "github.com/showmtmn-cloud/richgo/internal/errors"
)

// Selector picks the method a recipe is ranked with. It reports false
// when no result is acceptable.
type Selector func(results []Result) (Result, bool)

const (
	SelectorCheapest   = "cheapest"
	SelectorMostLikely = "most_likely"
)

// CheapestViable picks the lowest total cost among results with a nonzero
// success probability. Ties keep the earlier result.
func CheapestViable(results []Result) (Result, bool) {
	var best Result
	found := false
	for _, r := range results {
		if r.SuccessProbability <= 0 {
			continue
		}
		if !found || r.TotalCost < best.TotalCost {
			best, found = r, true
		}
	}
	return best, found
}

// MostLikely picks the highest success probability, then the lower cost.
func MostLikely(results []Result) (Result, bool) {
	var best Result
	found := false
	for _, r := range results {
		if r.SuccessProbability <= 0 {
			continue
		}
		if !found ||
			r.SuccessProbability > best.SuccessProbability ||
			(r.SuccessProbability == best.SuccessProbability && r.TotalCost < best.TotalCost) {
			best, found = r, true
		}
	}
	return best, found
}

// SelectorByName maps a config value to a selector. Empty means cheapest.
func SelectorByName(name string) (Selector, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", SelectorCheapest:
		return CheapestViable, nil
	case SelectorMostLikely:
		return MostLikely, nil
	}
	return nil, crafterr.InvalidArgumentf("unknown selector %q", name)
}
