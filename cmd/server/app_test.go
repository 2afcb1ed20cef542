package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/showmtmn-cloud/richgo/internal/affix"
	"github.com/showmtmn-cloud/richgo/internal/config"
	crafterr "github.com/showmtmn-cloud/richgo/internal/errors"
	"github.com/showmtmn-cloud/richgo/internal/store"
)

func TestReloadRanksSampleData(t *testing.T) {
	st := store.NewMemory()
	a := newApp(config.Env{
		DataDir:   filepath.Join("..", "..", "data"),
		ConfigDir: filepath.Join("..", "..", "config"),
	}, st, affix.NewCachedResolver(time.Minute))

	pass, err := a.reload(context.Background())
	require.NoError(t, err)
	require.NotNil(t, a.Catalog())
	require.NotNil(t, a.Market())
	assert.Equal(t, 4, a.Recipes())
	assert.Equal(t, "0.3.1-sample", pass.CatalogVersion)

	ids := make([]string, 0, len(pass.Opportunities))
	for _, o := range pass.Opportunities {
		ids = append(ids, o.RecipeID)
	}
	assert.ElementsMatch(t, []string{"life-res-ring", "triple-res-ring", "spirit-amulet"}, ids)
	require.Len(t, pass.Excluded, 1)
	assert.Equal(t, "hc-crit-amulet", pass.Excluded[0].RecipeID)
	assert.Equal(t, crafterr.CodeAffixUnreachable, pass.Excluded[0].Code)

	latest, err := st.LatestPass(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, pass.ID, latest.ID)
}

func TestReloadMissingDataset(t *testing.T) {
	a := newApp(config.Env{DataDir: t.TempDir(), ConfigDir: filepath.Join("..", "..", "config")},
		store.NewMemory(), affix.NewCachedResolver(time.Minute))
	_, err := a.reload(context.Background())
	assert.Error(t, err)
	assert.Nil(t, a.Catalog())
	assert.Nil(t, a.Market())
	assert.Zero(t, a.Recipes())
}

func TestOpenStoreFallsBackToMemory(t *testing.T) {
	st := openStore(context.Background(), config.Env{RedisURL: "redis://127.0.0.1:1/0"})
	defer st.Close()
	assert.IsType(t, &store.Memory{}, st)

	st = openStore(context.Background(), config.Env{RedisURL: "://bad"})
	assert.IsType(t, &store.Memory{}, st)
}
