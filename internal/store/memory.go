package store

import (
	"context"
	"sync"

	crafterr "github.com/showmtmn-cloud/richgo/internal/errors"
	"github.com/showmtmn-cloud/richgo/internal/ranking"
)

// Memory is an in-process Store.
type Memory struct {
	mu     sync.RWMutex
	passes map[string]ranking.Pass
	latest map[string]string
	// pass ids per league, newest first
	history map[string][]string
}

func NewMemory() *Memory {
	return &Memory{
		passes:  make(map[string]ranking.Pass),
		latest:  make(map[string]string),
		history: make(map[string][]string),
	}
}

func (m *Memory) SavePass(_ context.Context, p ranking.Pass) error {
	if p.ID == "" {
		return crafterr.InvalidArgument("pass id is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.passes[p.ID] = p
	k := leagueKey(p.League)
	m.latest[k] = p.ID
	m.history[k] = append([]string{p.ID}, m.history[k]...)
	return nil
}

func (m *Memory) GetPass(_ context.Context, id string) (ranking.Pass, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.passes[id]
	if !ok {
		return ranking.Pass{}, crafterr.NotFoundf("pass %q not found", id)
	}
	return p, nil
}

func (m *Memory) LatestPass(ctx context.Context, league string) (ranking.Pass, error) {
	m.mu.RLock()
	id, ok := m.latest[leagueKey(league)]
	m.mu.RUnlock()
	if !ok {
		return ranking.Pass{}, crafterr.NotFoundf("no pass for league %q", league)
	}
	return m.GetPass(ctx, id)
}

func (m *Memory) TopOpportunities(ctx context.Context, league string, limit int) ([]ranking.Opportunity, error) {
	p, err := m.LatestPass(ctx, league)
	if err != nil {
		return nil, err
	}
	return ranking.Top(p.Opportunities, limit), nil
}

func (m *Memory) History(_ context.Context, league string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.history[leagueKey(league)]...), nil
}

func (m *Memory) Close() error { return nil }
