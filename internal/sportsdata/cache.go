package sportsdata

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog/log"

	"github.com/tensorplex-labs/picksettle/internal/pick"
	"github.com/tensorplex-labs/picksettle/internal/utils/redis"
)

// CachedResolver wraps a Resolver with a Redis lookaside cache. Game id
// lookups and finished results are cached with a TTL; unfinished results are
// not, so a pending pick retries the provider on the next run. Cache failures
// are logged and fall through to the inner resolver.
type CachedResolver struct {
	inner Resolver
	redis redis.RedisInterface
	ttl   time.Duration
}

func NewCachedResolver(inner Resolver, r redis.RedisInterface, ttl time.Duration) *CachedResolver {
	return &CachedResolver{inner: inner, redis: r, ttl: ttl}
}

func gameIDKey(sport pick.Sport, team, date string) string {
	return fmt.Sprintf("picksettle:gameid:%s:%s:%s", sport, date, team)
}

func resultKey(sport pick.Sport, id int64) string {
	return fmt.Sprintf("picksettle:result:%s:%d", sport, id)
}

func (c *CachedResolver) FindGameID(ctx context.Context, sport pick.Sport, team, date string) (int64, bool) {
	key := gameIDKey(sport, team, date)
	if cached, err := c.redis.Get(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("game id cache read failed")
	} else if cached != "" {
		id, err := strconv.ParseInt(cached, 10, 64)
		if err == nil {
			return id, true
		}
		log.Warn().Str("key", key).Str("value", cached).Msg("discarding unparseable cached game id")
	}

	id, found := c.inner.FindGameID(ctx, sport, team, date)
	if !found {
		return 0, false
	}
	if err := c.redis.Set(ctx, key, strconv.FormatInt(id, 10), c.ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("game id cache write failed")
	}
	return id, true
}

func (c *CachedResolver) FetchResult(ctx context.Context, sport pick.Sport, id int64) (Result, bool) {
	key := resultKey(sport, id)
	if cached, err := c.redis.Get(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("result cache read failed")
	} else if cached != "" {
		var res Result
		if err := sonic.Unmarshal([]byte(cached), &res); err == nil {
			return res, true
		}
		log.Warn().Str("key", key).Msg("discarding unparseable cached result")
	}

	res, found := c.inner.FetchResult(ctx, sport, id)
	if !found {
		return Result{}, false
	}
	if res.Finished {
		data, err := sonic.Marshal(res)
		if err == nil {
			if err := c.redis.Set(ctx, key, string(data), c.ttl); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("result cache write failed")
			}
		}
	}
	return res, true
}
