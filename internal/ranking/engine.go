package ranking

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/showmtmn-cloud/richgo/internal/affix"
	"github.com/showmtmn-cloud/richgo/internal/crafting"
	crafterr "github.com/showmtmn-cloud/richgo/internal/errors"
	"github.com/showmtmn-cloud/richgo/internal/pricing"
	"github.com/showmtmn-cloud/richgo/internal/uuid"
)

// PassSaver persists finished passes.
type PassSaver interface {
	SavePass(ctx context.Context, p Pass) error
}

// Excluded records a recipe left out of a pass.
type Excluded struct {
	RecipeID string        `json:"recipe_id"`
	Code     crafterr.Code `json:"code"`
	Message  string        `json:"message"`
}

// GroupError records an item type whose recipes were not evaluated.
type GroupError struct {
	ItemType string        `json:"item_type"`
	Code     crafterr.Code `json:"code"`
	Message  string        `json:"message"`
	Recipes  int           `json:"recipes"`
}

// Pass is the output of one ranking run over a frozen snapshot.
type Pass struct {
	ID             string        `json:"id"`
	League         string        `json:"league"`
	CatalogVersion string        `json:"catalog_version"`
	MarketAt       time.Time     `json:"market_updated_at"`
	StartedAt      time.Time     `json:"started_at"`
	FinishedAt     time.Time     `json:"finished_at"`
	Opportunities  []Opportunity `json:"opportunities"`
	Excluded       []Excluded    `json:"excluded"`
	GroupErrors    []GroupError  `json:"group_errors"`
}

type PassRequest struct {
	League  string
	Catalog *affix.Catalog
	Market  *pricing.Market
	Recipes []crafting.Recipe
}

// Engine runs ranking passes.
type Engine struct {
	Evaluator Evaluator
	// Workers bounds concurrently evaluated item types; <= 0 means 4.
	Workers int
	// Freshness is the maximum snapshot age; 0 disables the check.
	Freshness time.Duration
	Store     PassSaver
	IDs       uuid.Generator
	Now       func() time.Time
}

// RunPass evaluates every recipe of req.League against the snapshot and
// returns them ranked. Recipe failures are recorded on the pass; an item
// type missing from the catalog aborts only that group.
func (e *Engine) RunPass(ctx context.Context, req PassRequest) (Pass, error) {
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	started := now().UTC()

	if req.Catalog == nil || req.Catalog.Len() == 0 {
		return Pass{}, crafterr.New(crafterr.CodeEmptySnapshot, "affix catalog is empty")
	}
	if req.Market == nil {
		return Pass{}, crafterr.New(crafterr.CodeEmptySnapshot, "market snapshot is missing")
	}
	if pricing.Stale(req.Catalog.LoadedAt(), started, e.Freshness) {
		return Pass{}, crafterr.Newf(crafterr.CodeStaleSnapshot, "catalog %s loaded at %s is older than %s",
			req.Catalog.Version(), req.Catalog.LoadedAt().Format(time.RFC3339), e.Freshness)
	}
	if req.Market.Stale(started, e.Freshness) {
		return Pass{}, crafterr.Newf(crafterr.CodeStaleSnapshot, "market updated at %s is older than %s",
			req.Market.UpdatedAt().Format(time.RFC3339), e.Freshness)
	}

	ev := e.Evaluator
	ev.Now = func() time.Time { return started }
	snap := Snapshot{Catalog: req.Catalog, Market: req.Market}

	groups := map[string][]crafting.Recipe{}
	for _, r := range req.Recipes {
		if req.League != "" && r.League != "" && r.League != req.League {
			continue
		}
		if r.League == "" {
			r.League = req.League
		}
		groups[r.ItemType] = append(groups[r.ItemType], r)
	}
	itemTypes := make([]string, 0, len(groups))
	for k := range groups {
		itemTypes = append(itemTypes, k)
	}
	sort.Strings(itemTypes)

	log.Printf("[ranking] pass start league=%q catalog=%s recipes=%d item_types=%d",
		req.League, req.Catalog.Version(), len(req.Recipes), len(itemTypes))

	var (
		mu        sync.Mutex
		opps      []Opportunity
		excluded  []Excluded
		groupErrs []GroupError
	)
	workers := e.Workers
	if workers <= 0 {
		workers = 4
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, it := range itemTypes {
		recipes := groups[it]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if !req.Catalog.Has(it) {
				err := crafterr.UnknownItemType(it)
				log.Printf("[ranking] group %q aborted: %v", it, err)
				mu.Lock()
				groupErrs = append(groupErrs, GroupError{ItemType: it, Code: err.Code, Message: err.Error(), Recipes: len(recipes)})
				mu.Unlock()
				return nil
			}
			var local []Opportunity
			var skipped []Excluded
			for _, r := range recipes {
				o, err := ev.Evaluate(r, snap)
				if err != nil && !crafterr.IsRecipeScoped(err) {
					log.Printf("[ranking] group %q aborted at recipe %q: %v", it, r.ID, err)
					mu.Lock()
					groupErrs = append(groupErrs, GroupError{ItemType: it, Code: crafterr.GetCode(err), Message: err.Error(), Recipes: len(recipes)})
					mu.Unlock()
					return nil
				}
				if err != nil {
					log.Printf("[ranking] recipe %q excluded: %v", r.ID, err)
					skipped = append(skipped, Excluded{RecipeID: r.ID, Code: crafterr.GetCode(err), Message: err.Error()})
					continue
				}
				local = append(local, o)
			}
			mu.Lock()
			opps = append(opps, local...)
			excluded = append(excluded, skipped...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Pass{}, crafterr.Wrap(err, "ranking pass interrupted")
	}

	sort.Slice(excluded, func(i, j int) bool { return excluded[i].RecipeID < excluded[j].RecipeID })
	sort.Slice(groupErrs, func(i, j int) bool { return groupErrs[i].ItemType < groupErrs[j].ItemType })

	pass := Pass{
		League:         req.League,
		CatalogVersion: req.Catalog.Version(),
		MarketAt:       req.Market.UpdatedAt(),
		StartedAt:      started,
		FinishedAt:     now().UTC(),
		Opportunities:  Rank(opps),
		Excluded:       excluded,
		GroupErrors:    groupErrs,
	}
	if e.IDs != nil {
		pass.ID = e.IDs.New()
	} else {
		pass.ID = uuid.NewGoogleUUIDGenerator().New()
	}
	log.Printf("[ranking] pass %s done: ranked=%d excluded=%d aborted_groups=%d",
		pass.ID, len(pass.Opportunities), len(pass.Excluded), len(pass.GroupErrors))

	if e.Store != nil {
		if err := e.Store.SavePass(ctx, pass); err != nil {
			return pass, crafterr.Wrapf(err, "save pass %s", pass.ID)
		}
	}
	return pass, nil
}
