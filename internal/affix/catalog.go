package affix

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
	"time"

	crafterr "github.com/showmtmn-cloud/richgo/internal/errors"
)

// Catalog is a frozen snapshot of affix tiers keyed by item type.
// It is never mutated after NewCatalog returns, so it can be shared freely
// between concurrent ranking passes.
type Catalog struct {
	version  string
	key      string
	loadedAt time.Time
	rows     int
	byType   map[string][]Tier
}

// NewCatalog validates and indexes rows. The rows slice is copied.
// If version is empty a content hash is used instead.
func NewCatalog(version string, loadedAt time.Time, rows []Row) (*Catalog, error) {
	if err := ValidateRows(rows); err != nil {
		return nil, err
	}

	h := fnv.New64a()
	byType := make(map[string][]Tier)
	for _, r := range rows {
		t := Tier{
			ID:           tierID(r),
			Affix:        Definition{Name: r.Affix, ModType: r.ModType, Tags: append([]string(nil), r.Tags...)},
			ItemType:     r.ItemType,
			Rank:         r.Tier,
			MinItemLevel: r.MinItemLevel,
			Weight:       r.Weight,
			Desecrated:   r.Desecrated,
		}
		if r.Min != nil || r.Max != nil {
			vr := ValueRange{}
			if r.Min != nil {
				vr.Min = *r.Min
			}
			if r.Max != nil {
				vr.Max = *r.Max
			}
			t.Values = &vr
		}
		byType[r.ItemType] = append(byType[r.ItemType], t)
		fmt.Fprintf(h, "%s|%d|%d;", t.ID, t.MinItemLevel, t.Weight)
	}
	for k := range byType {
		tiers := byType[k]
		sort.Slice(tiers, func(i, j int) bool { return tiers[i].ID < tiers[j].ID })
	}

	key := fmt.Sprintf("%016x", h.Sum64())
	if version == "" {
		version = key
	}
	return &Catalog{
		version:  version,
		key:      version + "@" + key,
		loadedAt: loadedAt,
		rows:     len(rows),
		byType:   byType,
	}, nil
}

// ValidateRows checks the semantic constraints of catalog rows.
func ValidateRows(rows []Row) error {
	var errs []string
	seen := make(map[string]bool, len(rows))
	for i, r := range rows {
		if strings.TrimSpace(r.ItemType) == "" {
			errs = append(errs, fmt.Sprintf("rows[%d].item_type is required", i))
		}
		if strings.TrimSpace(r.Affix) == "" {
			errs = append(errs, fmt.Sprintf("rows[%d].affix is required", i))
		}
		if !r.ModType.Valid() {
			errs = append(errs, fmt.Sprintf("rows[%d].mod_type must be prefix or suffix", i))
		}
		if r.Tier < 1 {
			errs = append(errs, fmt.Sprintf("rows[%d].tier must be >= 1", i))
		}
		if r.MinItemLevel < 0 {
			errs = append(errs, fmt.Sprintf("rows[%d].min_ilvl must be >= 0", i))
		}
		if r.Weight < 0 {
			errs = append(errs, fmt.Sprintf("rows[%d].weight must be >= 0", i))
		}
		if r.Min != nil && r.Max != nil && *r.Min > *r.Max {
			errs = append(errs, fmt.Sprintf("rows[%d] min > max", i))
		}
		id := tierID(r)
		if seen[id] {
			errs = append(errs, fmt.Sprintf("rows[%d] duplicates tier %s", i, id))
		}
		seen[id] = true
	}
	if len(errs) > 0 {
		return crafterr.Validation("catalog validation failed: " + strings.Join(errs, "; "))
	}
	return nil
}

func (c *Catalog) Version() string { return c.version }

// Key identifies the catalog content; used for memoisation.
func (c *Catalog) Key() string { return c.key }

func (c *Catalog) LoadedAt() time.Time { return c.loadedAt }

// Len returns the number of tier rows.
func (c *Catalog) Len() int { return c.rows }

func (c *Catalog) Has(itemType string) bool {
	_, ok := c.byType[itemType]
	return ok
}

// ItemTypes lists the known item types in lexical order.
func (c *Catalog) ItemTypes() []string {
	out := make([]string, 0, len(c.byType))
	for k := range c.byType {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Tiers returns a copy of every tier for itemType.
func (c *Catalog) Tiers(itemType string) ([]Tier, error) {
	tiers, ok := c.byType[itemType]
	if !ok {
		return nil, crafterr.UnknownItemType(itemType)
	}
	return append([]Tier(nil), tiers...), nil
}
