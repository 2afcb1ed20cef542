package store

//go:generate mockgen -destination=mock/mock_store.go -package=mockstore -source=store.go

import (
	"context"

	"github.com/showmtmn-cloud/richgo/internal/ranking"
)

// Store keeps ranking passes keyed by id and league. Implementations
// return a not_found error for missing passes.
type Store interface {
	// SavePass stores p and makes it the latest pass of its league.
	SavePass(ctx context.Context, p ranking.Pass) error

	GetPass(ctx context.Context, id string) (ranking.Pass, error)

	// LatestPass returns the most recently saved pass of league.
	LatestPass(ctx context.Context, league string) (ranking.Pass, error)

	// TopOpportunities returns the best ranked opportunities of the latest
	// pass of league; limit <= 0 returns all.
	TopOpportunities(ctx context.Context, league string, limit int) ([]ranking.Opportunity, error)

	// History lists recent pass ids of league, newest first.
	History(ctx context.Context, league string) ([]string, error)

	Close() error
}

func leagueKey(league string) string {
	if league == "" {
		return "_"
	}
	return league
}
