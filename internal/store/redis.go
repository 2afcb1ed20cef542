package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	crafterr "github.com/showmtmn-cloud/richgo/internal/errors"
	"github.com/showmtmn-cloud/richgo/internal/ranking"
)

// RedisConfig holds configuration for the Redis store
type RedisConfig struct {
	Client redis.UniversalClient
	// TTL of superseded passes; 0 keeps them forever. The latest pass of a
	// league never expires.
	TTL time.Duration
	// History is the number of pass ids kept per league; <= 0 means 20.
	History int64
}

// Redis stores passes as JSON documents.
//
//	richgo:pass:<id>               pass JSON
//	richgo:league:<league>:latest  id of the latest pass
//	richgo:league:<league>:passes  recent pass ids, newest first
type Redis struct {
	client  redis.UniversalClient
	ttl     time.Duration
	history int64
}

func NewRedis(cfg *RedisConfig) (*Redis, error) {
	if cfg == nil || cfg.Client == nil {
		return nil, crafterr.InvalidArgument("redis client is required")
	}
	h := cfg.History
	if h <= 0 {
		h = 20
	}
	return &Redis{client: cfg.Client, ttl: cfg.TTL, history: h}, nil
}

func passKey(id string) string { return "richgo:pass:" + id }

func latestKey(league string) string {
	return fmt.Sprintf("richgo:league:%s:latest", leagueKey(league))
}

func historyKey(league string) string {
	return fmt.Sprintf("richgo:league:%s:passes", leagueKey(league))
}

// SavePass writes p as the league's latest pass in one MULTI/EXEC. The latest
// pass never expires; the pass it replaces gets the TTL from then on.
func (r *Redis) SavePass(ctx context.Context, p ranking.Pass) error {
	if p.ID == "" {
		return crafterr.InvalidArgument("pass id is required")
	}
	data, err := json.Marshal(p)
	if err != nil {
		return crafterr.Wrap(err, "encode pass")
	}
	prev, err := r.client.Get(ctx, latestKey(p.League)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return crafterr.Wrap(err, "redis get latest")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, passKey(p.ID), string(data), 0)
	pipe.Set(ctx, latestKey(p.League), p.ID, 0)
	pipe.LPush(ctx, historyKey(p.League), p.ID)
	pipe.LTrim(ctx, historyKey(p.League), 0, r.history-1)
	if r.ttl > 0 && prev != "" && prev != p.ID {
		pipe.Expire(ctx, passKey(prev), r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return crafterr.Wrapf(err, "redis save pass %s", p.ID)
	}
	return nil
}

func (r *Redis) GetPass(ctx context.Context, id string) (ranking.Pass, error) {
	data, err := r.client.Get(ctx, passKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ranking.Pass{}, crafterr.NotFoundf("pass %q not found", id)
		}
		return ranking.Pass{}, crafterr.Wrap(err, "redis get pass")
	}
	var p ranking.Pass
	if err := json.Unmarshal(data, &p); err != nil {
		return ranking.Pass{}, crafterr.Wrapf(err, "decode pass %q", id)
	}
	return p, nil
}

func (r *Redis) LatestPass(ctx context.Context, league string) (ranking.Pass, error) {
	id, err := r.client.Get(ctx, latestKey(league)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ranking.Pass{}, crafterr.NotFoundf("no pass for league %q", league)
		}
		return ranking.Pass{}, crafterr.Wrap(err, "redis get latest")
	}
	return r.GetPass(ctx, id)
}

func (r *Redis) TopOpportunities(ctx context.Context, league string, limit int) ([]ranking.Opportunity, error) {
	p, err := r.LatestPass(ctx, league)
	if err != nil {
		return nil, err
	}
	return ranking.Top(p.Opportunities, limit), nil
}

// History lists recent pass ids of league, newest first.
func (r *Redis) History(ctx context.Context, league string) ([]string, error) {
	ids, err := r.client.LRange(ctx, historyKey(league), 0, -1).Result()
	if err != nil {
		return nil, crafterr.Wrap(err, "redis history")
	}
	return ids, nil
}

func (r *Redis) Close() error { return r.client.Close() }
