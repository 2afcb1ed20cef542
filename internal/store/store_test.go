package store_test

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	crafterr "github.com/showmtmn-cloud/richgo/internal/errors"
	"github.com/showmtmn-cloud/richgo/internal/ranking"
	"github.com/showmtmn-cloud/richgo/internal/store"
)

func samplePass(id, league string) ranking.Pass {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return ranking.Pass{
		ID:             id,
		League:         league,
		CatalogVersion: "v1",
		StartedAt:      at,
		FinishedAt:     at,
		Opportunities: []ranking.Opportunity{
			{RecipeID: "a", League: league, ROIPercent: 120, NetProfit: 1.2, Status: ranking.StatusProfitable, EvaluatedAt: at},
			{RecipeID: "b", League: league, ROIPercent: 20, NetProfit: 0.4, Status: ranking.StatusMarginal, EvaluatedAt: at},
			{RecipeID: "c", League: league, ROIPercent: -10, NetProfit: -0.1, Status: ranking.StatusNotProfitable, EvaluatedAt: at},
		},
		Excluded: []ranking.Excluded{{RecipeID: "d", Code: crafterr.CodeAffixUnreachable, Message: "gone"}},
	}
}

// exercise runs the shared contract against any Store.
func exercise(t *testing.T, s store.Store) {
	ctx := context.Background()

	_, err := s.LatestPass(ctx, "Standard")
	assert.True(t, crafterr.IsNotFound(err))
	_, err = s.GetPass(ctx, "missing")
	assert.True(t, crafterr.IsNotFound(err))
	assert.True(t, crafterr.Is(s.SavePass(ctx, ranking.Pass{}), crafterr.CodeInvalidArgument))

	first := samplePass("p1", "Standard")
	second := samplePass("p2", "Standard")
	second.Opportunities = second.Opportunities[:1]
	other := samplePass("p3", "Hardcore")

	require.NoError(t, s.SavePass(ctx, first))
	require.NoError(t, s.SavePass(ctx, other))
	require.NoError(t, s.SavePass(ctx, second))

	latest, err := s.LatestPass(ctx, "Standard")
	require.NoError(t, err)
	assert.Equal(t, "p2", latest.ID)

	got, err := s.GetPass(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, first, got)

	top, err := s.TopOpportunities(ctx, "Hardcore", 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "a", top[0].RecipeID)
	assert.Equal(t, "b", top[1].RecipeID)

	all, err := s.TopOpportunities(ctx, "Hardcore", 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = s.TopOpportunities(ctx, "Ruthless", 5)
	assert.True(t, crafterr.IsNotFound(err))

	ids, err := s.History(ctx, "Standard")
	require.NoError(t, err)
	assert.Equal(t, []string{"p2", "p1"}, ids)
	ids, err = s.History(ctx, "Ruthless")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestMemoryStore(t *testing.T) {
	s := store.NewMemory()
	defer s.Close()
	exercise(t, s)
}

func TestSQLiteStore(t *testing.T) {
	s, err := store.OpenSQLite(filepath.Join(t.TempDir(), "data", "richgo.db"))
	require.NoError(t, err)
	defer s.Close()
	exercise(t, s)
}

func TestSQLiteStoreDuplicatePass(t *testing.T) {
	s, err := store.OpenSQLite(filepath.Join(t.TempDir(), "richgo.db"))
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.SavePass(ctx, samplePass("p1", "Standard")))
	assert.Error(t, s.SavePass(ctx, samplePass("p1", "Standard")))

	top, err := s.TopOpportunities(ctx, "Standard", 10)
	require.NoError(t, err)
	assert.Len(t, top, 3, "failed insert must roll back")
}

func TestPassJSONFieldNames(t *testing.T) {
	b, err := json.Marshal(samplePass("p1", "Standard").Opportunities[0])
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	for _, k := range []string{
		"recipe_id", "base_cost", "craft_cost", "expected_sale", "net_profit",
		"roi_percent", "chosen_method", "affix_breakdown",
	} {
		assert.Contains(t, m, k)
	}
}
