// types.go
package affix

import (
	"fmt"
	"strings"

	crafterr "github.com/showmtmn-cloud/richgo/internal/errors"
)

// ModType is the slot family an affix occupies.
type ModType string

const (
	Prefix ModType = "prefix"
	Suffix ModType = "suffix"
)

// MaxSlotsPerType is the number of prefix (and suffix) slots on an item.
const MaxSlotsPerType = 3

// ParseModType accepts "prefix"/"suffix" in any case. Empty input yields "".
func ParseModType(s string) (ModType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case "prefix":
		return Prefix, nil
	case "suffix":
		return Suffix, nil
	}
	return "", crafterr.InvalidArgumentf("mod type must be prefix or suffix, got %q", s)
}

func (m ModType) Valid() bool { return m == Prefix || m == Suffix }

// Other returns the opposite slot family.
func (m ModType) Other() ModType {
	if m == Prefix {
		return Suffix
	}
	return Prefix
}

// Definition is immutable reference data for one named modifier.
type Definition struct {
	Name    string
	ModType ModType
	Tags    []string
}

type ValueRange struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// Tier is one item-level gated power band of an affix on one item type.
// Rank 1 is the strongest.
type Tier struct {
	ID           string
	Affix        Definition
	ItemType     string
	Rank         int
	MinItemLevel int
	Weight       int
	Values       *ValueRange
	Desecrated   bool
}

// Name is shorthand for t.Affix.Name.
func (t Tier) Name() string { return t.Affix.Name }

func (t Tier) ModType() ModType { return t.Affix.ModType }

// Row is the flat catalog shape produced by data ingestion.
type Row struct {
	ItemType     string   `yaml:"item_type" json:"item_type"`
	Affix        string   `yaml:"affix" json:"affix"`
	ModType      ModType  `yaml:"mod_type" json:"mod_type"`
	Tier         int      `yaml:"tier" json:"tier"`
	MinItemLevel int      `yaml:"min_ilvl" json:"min_ilvl"`
	Weight       int      `yaml:"weight" json:"weight"`
	Desecrated   bool     `yaml:"desecrated,omitempty" json:"desecrated,omitempty"`
	Tags         []string `yaml:"tags,omitempty" json:"tags,omitempty"`
	Min          *float64 `yaml:"min,omitempty" json:"min,omitempty"`
	Max          *float64 `yaml:"max,omitempty" json:"max,omitempty"`
}

func tierID(r Row) string {
	id := fmt.Sprintf("%s/%s/%s/T%d", r.ItemType, r.ModType, r.Affix, r.Tier)
	if r.Desecrated {
		id += "/desecrated"
	}
	return id
}
