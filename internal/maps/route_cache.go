package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/mmcloughlin/geohash"
	"github.com/redis/go-redis/v9"

	"rido/internal/types"
)

// Precision 8 cells are roughly 38m x 19m; trips between the same two cells
// share a cached route.
const routeCachePrecision = 8

type Router interface {
	Route(ctx context.Context, from, to types.Point) (Route, error)
}

// CachedRouter keeps routes in Redis keyed by the geohash cells of both ends.
// Cache errors are logged and never fail a lookup.
type CachedRouter struct {
	next  Router
	redis *redis.Client
	ttl   time.Duration
}

func NewCachedRouter(next Router, rdb *redis.Client, ttl time.Duration) *CachedRouter {
	return &CachedRouter{next: next, redis: rdb, ttl: ttl}
}

func (c *CachedRouter) Route(ctx context.Context, from, to types.Point) (Route, error) {
	key := routeCacheKey(from, to)

	raw, err := c.redis.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached Route
		if jerr := json.Unmarshal(raw, &cached); jerr == nil {
			return cached, nil
		}
		log.Printf("route cache: bad entry %s", key)
	case err != redis.Nil:
		log.Printf("route cache get %s: %v", key, err)
	}

	route, err := c.next.Route(ctx, from, to)
	if err != nil {
		return Route{}, err
	}

	if payload, err := json.Marshal(route); err == nil {
		if err := c.redis.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			log.Printf("route cache set %s: %v", key, err)
		}
	}
	return route, nil
}

func routeCacheKey(from, to types.Point) string {
	return fmt.Sprintf("route:%s:%s",
		geohash.EncodeWithPrecision(from.Lat, from.Lng, routeCachePrecision),
		geohash.EncodeWithPrecision(to.Lat, to.Lng, routeCachePrecision),
	)
}
