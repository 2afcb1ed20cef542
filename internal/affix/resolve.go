// resolve.go
package affix

import (
	"sort"

	crafterr "github.com/showmtmn-cloud/richgo/internal/errors"
)

// Query selects the eligible pool for one item.
// An empty ModType resolves both families.
// IncludeDesecrated switches to the desecrated pool; base and desecrated
// tiers never share a pool.
type Query struct {
	ItemType          string
	ItemLevel         int
	ModType           ModType
	IncludeDesecrated bool
}

// Pool is the set of eligible tiers, one active tier per affix.
type Pool struct {
	query   Query
	members []Tier
	total   int
}

func (p Pool) Query() Query { return p.query }

// Members returns the pool tiers ordered by weight desc, then name.
func (p Pool) Members() []Tier { return append([]Tier(nil), p.members...) }

func (p Pool) Len() int { return len(p.members) }

func (p Pool) TotalWeight() int { return p.total }

// Lookup finds the active tier of the named affix. When the pool mixes
// prefixes and suffixes the first match wins; use LookupType to be exact.
func (p Pool) Lookup(name string) (Tier, bool) {
	for _, t := range p.members {
		if t.Affix.Name == name {
			return t, true
		}
	}
	return Tier{}, false
}

func (p Pool) LookupType(name string, mt ModType) (Tier, bool) {
	for _, t := range p.members {
		if t.Affix.Name == name && t.Affix.ModType == mt {
			return t, true
		}
	}
	return Tier{}, false
}

// Without returns a pool with the named affixes removed, as happens once
// they occupy a slot on the item.
func (p Pool) Without(names ...string) Pool {
	if len(names) == 0 {
		return p
	}
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	out := Pool{query: p.query}
	for _, t := range p.members {
		if drop[t.Affix.Name] {
			continue
		}
		out.members = append(out.members, t)
		out.total += t.Weight
	}
	return out
}

// Resolver resolves pools from a catalog snapshot.
type Resolver interface {
	Resolve(c *Catalog, q Query) (Pool, error)
}

// ResolverFunc adapts a plain function to Resolver.
type ResolverFunc func(c *Catalog, q Query) (Pool, error)

func (f ResolverFunc) Resolve(c *Catalog, q Query) (Pool, error) { return f(c, q) }

// Direct resolves without memoisation.
var Direct Resolver = ResolverFunc(Resolve)

// Resolve filters the catalog to the tiers eligible at q.ItemLevel and keeps
// the strongest eligible tier per affix. Ties on rank go to the higher weight,
// then the lexically smaller tier id.
func Resolve(c *Catalog, q Query) (Pool, error) {
	if c == nil {
		return Pool{}, crafterr.InvalidArgument("catalog is required")
	}
	if q.ItemLevel <= 0 {
		return Pool{}, crafterr.InvalidArgumentf("item level must be positive, got %d", q.ItemLevel)
	}
	if q.ModType != "" && !q.ModType.Valid() {
		return Pool{}, crafterr.InvalidArgumentf("invalid mod type %q", q.ModType)
	}
	tiers, ok := c.byType[q.ItemType]
	if !ok {
		return Pool{}, crafterr.UnknownItemType(q.ItemType)
	}

	type key struct {
		name string
		mt   ModType
	}
	best := make(map[key]Tier)
	for _, t := range tiers {
		if t.MinItemLevel > q.ItemLevel {
			continue
		}
		if t.Desecrated != q.IncludeDesecrated {
			continue
		}
		if q.ModType != "" && t.Affix.ModType != q.ModType {
			continue
		}
		k := key{t.Affix.Name, t.Affix.ModType}
		cur, seen := best[k]
		if !seen || better(t, cur) {
			best[k] = t
		}
	}

	pool := Pool{query: q, members: make([]Tier, 0, len(best))}
	for _, t := range best {
		pool.members = append(pool.members, t)
		pool.total += t.Weight
	}
	sort.Slice(pool.members, func(i, j int) bool {
		a, b := pool.members[i], pool.members[j]
		if a.Weight != b.Weight {
			return a.Weight > b.Weight
		}
		if a.Affix.Name != b.Affix.Name {
			return a.Affix.Name < b.Affix.Name
		}
		return a.Affix.ModType < b.Affix.ModType
	})
	return pool, nil
}

func better(a, b Tier) bool {
	if a.Rank != b.Rank {
		return a.Rank < b.Rank
	}
	if a.Weight != b.Weight {
		return a.Weight > b.Weight
	}
	return a.ID < b.ID
}

// Summary describes both base pools of an item type at one item level.
type Summary struct {
	ItemType          string `json:"item_type"`
	ItemLevel         int    `json:"ilvl"`
	PrefixCount       int    `json:"prefix_count"`
	SuffixCount       int    `json:"suffix_count"`
	PrefixTotalWeight int    `json:"prefix_total_weight"`
	SuffixTotalWeight int    `json:"suffix_total_weight"`
}

func Summarize(r Resolver, c *Catalog, itemType string, itemLevel int) (Summary, error) {
	pre, err := r.Resolve(c, Query{ItemType: itemType, ItemLevel: itemLevel, ModType: Prefix})
	if err != nil {
		return Summary{}, err
	}
	suf, err := r.Resolve(c, Query{ItemType: itemType, ItemLevel: itemLevel, ModType: Suffix})
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		ItemType:          itemType,
		ItemLevel:         itemLevel,
		PrefixCount:       pre.Len(),
		SuffixCount:       suf.Len(),
		PrefixTotalWeight: pre.TotalWeight(),
		SuffixTotalWeight: suf.TotalWeight(),
	}, nil
}
