package main

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/showmtmn-cloud/richgo/internal/affix"
	"github.com/showmtmn-cloud/richgo/internal/config"
	"github.com/showmtmn-cloud/richgo/internal/dataset"
	"github.com/showmtmn-cloud/richgo/internal/pricing"
	"github.com/showmtmn-cloud/richgo/internal/ranking"
	"github.com/showmtmn-cloud/richgo/internal/store"
)

// app reloads the dataset and engine config and runs ranking passes.
type app struct {
	env      config.Env
	loader   *config.Loader
	store    store.Store
	resolver *affix.CachedResolver

	mu      sync.Mutex // one pass at a time
	catalog atomic.Pointer[affix.Catalog]
	market  atomic.Pointer[pricing.Market]
	recipes atomic.Int64
}

func newApp(env config.Env, st store.Store, res *affix.CachedResolver) *app {
	return &app{
		env:      env,
		loader:   config.NewLoader(env.ConfigDir),
		store:    st,
		resolver: res,
	}
}

// Catalog returns the catalog of the last successful reload.
func (a *app) Catalog() *affix.Catalog { return a.catalog.Load() }

// Market returns the market snapshot of the last successful reload.
func (a *app) Market() *pricing.Market { return a.market.Load() }

// Recipes returns the number of recipes of the last successful reload.
func (a *app) Recipes() int { return int(a.recipes.Load()) }

// reload reads everything from disk and runs one pass.
func (a *app) reload(ctx context.Context) (ranking.Pass, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	snap, err := dataset.Load(a.env.DataDir)
	if err != nil {
		return ranking.Pass{}, fmt.Errorf("load dataset: %w", err)
	}
	var o config.Overrides
	if a.env.Workers > 0 {
		o.Workers = &a.env.Workers
	}
	_, params, err := a.loader.Resolve(a.env.League, snap.Market.Rates(), o)
	if err != nil {
		return ranking.Pass{}, fmt.Errorf("resolve config: %w", err)
	}

	if prev := a.catalog.Load(); prev != nil && prev.Key() != snap.Catalog.Key() {
		a.resolver.Flush()
	}
	a.catalog.Store(snap.Catalog)
	a.market.Store(snap.Market)
	a.recipes.Store(int64(len(snap.Recipes)))

	engine := ranking.Engine{
		Evaluator: params.Evaluator(a.resolver),
		Workers:   params.Workers,
		Freshness: params.Freshness,
		Store:     a.store,
	}
	pass, err := engine.RunPass(ctx, ranking.PassRequest{
		League:  params.League,
		Catalog: snap.Catalog,
		Market:  snap.Market,
		Recipes: snap.Recipes,
	})
	if err != nil {
		return pass, err
	}
	log.Printf("[server] config %s, pass %s ranked %d recipes", params.Version, pass.ID, len(pass.Opportunities))
	return pass, nil
}

// onChange is the watcher callback.
func (a *app) onChange(ctx context.Context) func([]string) {
	return func(paths []string) {
		log.Printf("[server] files changed: %v", paths)
		a.loader.Invalidate()
		if _, err := a.reload(ctx); err != nil {
			log.Printf("[server] reload failed: %v", err)
		}
	}
}
