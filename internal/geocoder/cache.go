package geocoder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"address-resolver/internal/metrics"
	"address-resolver/internal/models"

	geohash "github.com/TomiHiltunen/geohash-golang"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// cacheKeyPrecision is the geohash length used for cache keys, a cell of roughly 5m
const cacheKeyPrecision = 9

// ReverseGeocoder resolves a point to an address
type ReverseGeocoder interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (*models.PlaceResult, error)
}

// CachedGeocoder is a read-through redis cache in front of a ReverseGeocoder.
// Concurrent lookups for the same cell share one upstream call, which runs detached
// from any one caller's cancellation. Failures and empty answers are never cached
type CachedGeocoder struct {
	next  ReverseGeocoder
	rdb   redis.Cmdable
	ttl   time.Duration
	group singleflight.Group
}

// NewCachedGeocoder wraps next. A nil rdb disables the cache but keeps request collapsing
func NewCachedGeocoder(next ReverseGeocoder, rdb redis.Cmdable, ttl time.Duration) *CachedGeocoder {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &CachedGeocoder{next: next, rdb: rdb, ttl: ttl}
}

// ReverseGeocode implements ReverseGeocoder
func (c *CachedGeocoder) ReverseGeocode(ctx context.Context, lat, lon float64) (*models.PlaceResult, error) {
	key := cacheKey(lat, lon)

	if place, ok := c.lookup(ctx, key); ok {
		return place, nil
	}

	// the shared lookup outlives any single caller; each caller still honours its own ctx
	upstream := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		place, err := c.next.ReverseGeocode(upstream, lat, lon)
		if err != nil {
			return nil, err
		}
		if place == nil {
			return nil, ErrNoResults
		}
		c.store(upstream, key, place)
		return place, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}
	if res.Shared {
		log.Debug().Str("key", key).Msg("reverse geocode shared in-flight result")
	}

	// callers must not share one *PlaceResult
	place := *res.Val.(*models.PlaceResult)
	return &place, nil
}

func (c *CachedGeocoder) lookup(ctx context.Context, key string) (*models.PlaceResult, bool) {
	if c.rdb == nil {
		return nil, false
	}

	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("key", key).Msg("reverse geocode cache read failed")
		}
		metrics.CacheMissesTotal.Inc()
		return nil, false
	}

	var place models.PlaceResult
	if err := json.Unmarshal(raw, &place); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("reverse geocode cache entry unreadable")
		metrics.CacheMissesTotal.Inc()
		return nil, false
	}
	metrics.CacheHitsTotal.Inc()
	return &place, true
}

func (c *CachedGeocoder) store(ctx context.Context, key string, place *models.PlaceResult) {
	if c.rdb == nil || place == nil {
		return
	}
	b, err := json.Marshal(place)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("reverse geocode cache encode failed")
		return
	}
	if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("reverse geocode cache write failed")
	}
}

func cacheKey(lat, lon float64) string {
	return fmt.Sprintf("revgeo:%s", geohash.EncodeWithPrecision(lat, lon, cacheKeyPrecision))
}
