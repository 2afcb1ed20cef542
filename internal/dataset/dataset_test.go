package dataset_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/showmtmn-cloud/richgo/internal/affix"
	"github.com/showmtmn-cloud/richgo/internal/dataset"
	crafterr "github.com/showmtmn-cloud/richgo/internal/errors"
)

func TestLoadSampleData(t *testing.T) {
	snap, err := dataset.Load(filepath.Join("..", "..", "data"))
	require.NoError(t, err)

	assert.Equal(t, "0.3.1-sample", snap.Catalog.Version())
	assert.Equal(t, time.Date(2026, 10, 18, 6, 0, 0, 0, time.UTC), snap.Catalog.LoadedAt())
	assert.Equal(t, []string{"Amulets", "Rings"}, snap.Catalog.ItemTypes())

	price, err := snap.Market.BasePrice("Sapphire Ring")
	require.NoError(t, err)
	assert.InDelta(t, 0.05, price, 1e-12)
	assert.Equal(t, "divine", snap.Market.Rates().Reference())

	require.Len(t, snap.Recipes, 4)
	for _, r := range snap.Recipes {
		assert.NoError(t, r.Validate(), r.ID)
	}
	amulet := snap.Recipes[2]
	assert.Equal(t, "spirit-amulet", amulet.ID)
	assert.Equal(t, "Jade Amulet", amulet.BaseName)
	assert.Equal(t, 1, amulet.OccupiedSuffixes)
	assert.Equal(t, affix.Prefix, amulet.Targets[1].ModType)
	assert.Equal(t, "hardcore", snap.Recipes[3].League)
}

func TestLoadCatalogFallsBackToFileTime(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, dataset.CatalogFile)
	require.NoError(t, os.WriteFile(path, []byte(`
rows:
  - {item_type: Rings, affix: Life, mod_type: prefix, tier: 1, min_ilvl: 1, weight: 10}
`), 0o644))
	stamp := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, os.Chtimes(path, stamp, stamp))

	c, err := dataset.LoadCatalog(path)
	require.NoError(t, err)
	assert.True(t, c.LoadedAt().Equal(stamp))
	assert.NotEmpty(t, c.Version(), "content hash stands in for a missing version")
}

func TestLoadErrors(t *testing.T) {
	write := func(t *testing.T, name, body string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
		return path
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := dataset.LoadMarket(filepath.Join(t.TempDir(), dataset.MarketFile))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("bad catalog row", func(t *testing.T) {
		_, err := dataset.LoadCatalog(write(t, dataset.CatalogFile, `
rows:
  - {item_type: Rings, affix: Life, mod_type: implicit, tier: 1, weight: 10}
`))
		require.Error(t, err)
		assert.True(t, crafterr.Is(err, crafterr.CodeValidation))
		assert.Contains(t, err.Error(), "rows[0].mod_type")
	})

	t.Run("too few denominations", func(t *testing.T) {
		_, err := dataset.LoadMarket(write(t, dataset.MarketFile, "reference: divine\nrates: {exalted: 0.01}\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least 3 denominations")
	})

	t.Run("base in unknown currency", func(t *testing.T) {
		_, err := dataset.LoadMarket(write(t, dataset.MarketFile, `
reference: divine
rates: {exalted: 0.01, chaos: 0.05}
bases:
  Ruby Ring: {amount: 1, currency: mirror}
`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), `base "Ruby Ring"`)
	})

	t.Run("negative base price", func(t *testing.T) {
		_, err := dataset.LoadMarket(write(t, dataset.MarketFile, `
reference: divine
rates: {exalted: 0.01, chaos: 0.05}
bases:
  Ruby Ring: {amount: -2, currency: exalted}
`))
		require.Error(t, err)
		assert.True(t, crafterr.Is(err, crafterr.CodeValidation))
		assert.Contains(t, err.Error(), `base "Ruby Ring"`)
	})

	t.Run("duplicate recipe", func(t *testing.T) {
		_, err := dataset.LoadRecipes(write(t, dataset.RecipesFile, `
recipes:
  - {id: a, item_type: Rings, base: Ruby Ring, item_level: 80}
  - {id: a, item_type: Rings, base: Ruby Ring, item_level: 80}
`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), `duplicate id "a"`)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := dataset.LoadRecipes(write(t, dataset.RecipesFile, "recipes: [\n"))
		assert.Error(t, err)
	})
}
