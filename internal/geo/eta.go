package geo

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ETA sources, reported so callers can tell a provider answer from the
// heuristic.
const (
	ETASourceProvider = "provider"
	ETASourceCache    = "cache"
	ETASourceFallback = "fallback"
)

const etaCacheTTL = 15 * time.Minute

// ETA is a resolved travel estimate. Resolve never fails: when the
// provider is down or unconfigured the haversine heuristic answers.
type ETA struct {
	Minutes    int
	DistanceKm float64
	Source     string
}

// Router is the provider subset the resolver needs.
type Router interface {
	Route(ctx context.Context, fromLat, fromLon, toLat, toLon float64) (RouteInfo, error)
}

// ETAResolver answers travel-time questions with provider, cache and
// heuristic layers.
type ETAResolver struct {
	router Router
	rdb    *redis.Client
}

func NewETAResolver(router Router, rdb *redis.Client) *ETAResolver {
	return &ETAResolver{router: router, rdb: rdb}
}

func etaCacheKey(fromLat, fromLon, toLat, toLon float64) string {
	// ~100 m grid keeps the key space small and hits frequent
	return fmt.Sprintf("eta:%.3f:%.3f:%.3f:%.3f", fromLat, fromLon, toLat, toLon)
}

// Resolve returns the ETA between two points.
func (r *ETAResolver) Resolve(ctx context.Context, fromLat, fromLon, toLat, toLon float64) ETA {
	distanceKm := HaversineKm(fromLat, fromLon, toLat, toLon)

	key := etaCacheKey(fromLat, fromLon, toLat, toLon)
	if r.rdb != nil {
		if val, err := r.rdb.Get(ctx, key).Result(); err == nil {
			if mins, convErr := strconv.Atoi(val); convErr == nil {
				return ETA{Minutes: mins, DistanceKm: distanceKm, Source: ETASourceCache}
			}
		}
	}

	if r.router != nil {
		if route, err := r.router.Route(ctx, fromLat, fromLon, toLat, toLon); err == nil {
			if r.rdb != nil {
				r.rdb.Set(ctx, key, strconv.Itoa(route.Minutes), etaCacheTTL)
			}
			return ETA{Minutes: route.Minutes, DistanceKm: distanceKm, Source: ETASourceProvider}
		}
	}

	return ETA{Minutes: FallbackEtaMinutes(distanceKm), DistanceKm: distanceKm, Source: ETASourceFallback}
}
