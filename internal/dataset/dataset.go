package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/showmtmn-cloud/richgo/internal/affix"
	"github.com/showmtmn-cloud/richgo/internal/crafting"
	crafterr "github.com/showmtmn-cloud/richgo/internal/errors"
	"github.com/showmtmn-cloud/richgo/internal/odds"
	"github.com/showmtmn-cloud/richgo/internal/pricing"
)

// File names inside a dataset directory.
const (
	CatalogFile = "catalog.yaml"
	MarketFile  = "market.yaml"
	RecipesFile = "recipes.yaml"
)

// CatalogDoc is the on-disk affix catalog.
type CatalogDoc struct {
	Version     string      `yaml:"version"`
	GeneratedAt *time.Time  `yaml:"generated_at,omitempty"` // file mtime when unset
	Rows        []affix.Row `yaml:"rows"`
}

// MarketDoc is the on-disk market snapshot.
type MarketDoc struct {
	Reference string                   `yaml:"reference"`
	UpdatedAt time.Time                `yaml:"updated_at"`
	Rates     map[string]float64       `yaml:"rates"`
	Bases     map[string]pricing.Money `yaml:"bases"`
}

type RecipesDoc struct {
	Recipes []RecipeDoc `yaml:"recipes"`
}

type RecipeDoc struct {
	ID        string         `yaml:"id"`
	League    string         `yaml:"league,omitempty"`
	ItemType  string         `yaml:"item_type"`
	Base      string         `yaml:"base"`
	ItemLevel int            `yaml:"item_level"`
	Occupied  *OccupiedDoc   `yaml:"occupied,omitempty"`
	Targets   []odds.Target  `yaml:"targets"`
	BaseCost  *pricing.Money `yaml:"base_cost,omitempty"`
	Sale      pricing.Money  `yaml:"sale"`
	Tags      []string       `yaml:"tags,omitempty"`
}

type OccupiedDoc struct {
	Prefixes int `yaml:"prefixes"`
	Suffixes int `yaml:"suffixes"`
}

func (d RecipeDoc) Recipe() crafting.Recipe {
	r := crafting.Recipe{
		ID:        d.ID,
		League:    d.League,
		ItemType:  d.ItemType,
		BaseName:  d.Base,
		ItemLevel: d.ItemLevel,
		Targets:   append([]odds.Target(nil), d.Targets...),
		BaseCost:  d.BaseCost,
		Sale:      d.Sale,
		Tags:      append([]string(nil), d.Tags...),
	}
	if d.Occupied != nil {
		r.OccupiedPrefixes = d.Occupied.Prefixes
		r.OccupiedSuffixes = d.Occupied.Suffixes
	}
	return r
}

// Snapshot is everything a ranking pass reads from a dataset directory.
type Snapshot struct {
	Catalog *affix.Catalog
	Market  *pricing.Market
	Recipes []crafting.Recipe
}

// Load reads catalog, market and recipes from dir.
func Load(dir string) (Snapshot, error) {
	cat, err := LoadCatalog(filepath.Join(dir, CatalogFile))
	if err != nil {
		return Snapshot{}, err
	}
	market, err := LoadMarket(filepath.Join(dir, MarketFile))
	if err != nil {
		return Snapshot{}, err
	}
	recipes, err := LoadRecipes(filepath.Join(dir, RecipesFile))
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Catalog: cat, Market: market, Recipes: recipes}, nil
}

func LoadCatalog(path string) (*affix.Catalog, error) {
	var doc CatalogDoc
	fi, err := readYAML(path, &doc)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	loadedAt := fi.ModTime().UTC()
	if doc.GeneratedAt != nil {
		loadedAt = doc.GeneratedAt.UTC()
	}
	c, err := affix.NewCatalog(doc.Version, loadedAt, doc.Rows)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

func LoadMarket(path string) (*pricing.Market, error) {
	var doc MarketDoc
	if _, err := readYAML(path, &doc); err != nil {
		return nil, fmt.Errorf("read market: %w", err)
	}
	rates, err := pricing.NewRates(doc.Reference, doc.Rates)
	if err != nil {
		return nil, fmt.Errorf("market %s: %w", path, err)
	}
	for name, m := range doc.Bases {
		if m.Amount < 0 {
			return nil, crafterr.Newf(crafterr.CodeValidation, "market %s: base %q: amount must be >= 0, got %v", path, name, m.Amount).
				WithMeta("base", name)
		}
		if _, err := rates.Convert(m); err != nil {
			return nil, fmt.Errorf("market %s: base %q: %w", path, name, err)
		}
	}
	return pricing.NewMarket(rates, doc.Bases, doc.UpdatedAt.UTC()), nil
}

// LoadRecipes reads recipes without validating them; invalid recipes are
// excluded later by the ranking pass.
func LoadRecipes(path string) ([]crafting.Recipe, error) {
	var doc RecipesDoc
	if _, err := readYAML(path, &doc); err != nil {
		return nil, fmt.Errorf("read recipes: %w", err)
	}
	seen := make(map[string]bool, len(doc.Recipes))
	out := make([]crafting.Recipe, 0, len(doc.Recipes))
	for i, d := range doc.Recipes {
		if d.ID != "" && seen[d.ID] {
			return nil, fmt.Errorf("recipes %s: duplicate id %q at index %d", path, d.ID, i)
		}
		seen[d.ID] = true
		out = append(out, d.Recipe())
	}
	return out, nil
}

func readYAML(path string, v any) (os.FileInfo, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(b, v); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return fi, nil
}
