package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"restaurant_rater/internal/domain"
)

type QueryService struct {
	repos    domain.Repositories
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(r domain.Repositories, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repos: r, cache: c, cacheTTL: ttl}
}

// cached reads key through the cache; on a miss it loads and stores the value.
// Cache failures, undecodable entries included, degrade to a plain load.
func cached[T any](ctx context.Context, s *QueryService, key string, load func() (T, error)) (T, error) {
	if s.cache != nil {
		var hit T
		ok, err := s.cache.Get(ctx, key, &hit)
		if err == nil && ok {
			return hit, nil
		}
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache read failed")
		}
	}
	v, err := load()
	if err != nil {
		var zero T
		return zero, err
	}
	if s.cache != nil && s.cacheTTL > 0 {
		_ = s.cache.Set(ctx, key, v, int(s.cacheTTL.Seconds()))
	}
	return v, nil
}

func (s *QueryService) GetRater(ctx context.Context, userID string) (domain.Rater, error) {
	return cached(ctx, s, raterKey(userID), func() (domain.Rater, error) {
		return s.repos.Raters.Get(ctx, userID)
	})
}

func (s *QueryService) GetRestaurant(ctx context.Context, id int64) (domain.Restaurant, error) {
	return cached(ctx, s, restaurantKey(id), func() (domain.Restaurant, error) {
		return s.repos.Restaurants.Get(ctx, id)
	})
}

func (s *QueryService) ListRestaurants(ctx context.Context, pg domain.PageQuery) ([]domain.Restaurant, error) {
	pg = pg.Normalize()
	key := fmt.Sprintf("restaurants:%d:%d", pg.Limit, pg.Offset)
	return cached(ctx, s, key, func() ([]domain.Restaurant, error) {
		return s.repos.Restaurants.List(ctx, pg)
	})
}

func (s *QueryService) ListRatings(ctx context.Context, restaurantID int64, pg domain.PageQuery) ([]domain.Rating, error) {
	pg = pg.Normalize()
	key := fmt.Sprintf("ratings:%d:%d:%d", restaurantID, pg.Limit, pg.Offset)
	return cached(ctx, s, key, func() ([]domain.Rating, error) {
		return s.repos.Ratings.ListByRestaurant(ctx, restaurantID, pg)
	})
}

func (s *QueryService) ListRaterRatings(ctx context.Context, userID string, pg domain.PageQuery) ([]domain.Rating, error) {
	pg = pg.Normalize()
	key := fmt.Sprintf("rater_ratings:%s:%d:%d", userID, pg.Limit, pg.Offset)
	return cached(ctx, s, key, func() ([]domain.Rating, error) {
		return s.repos.Ratings.ListByRater(ctx, userID, pg)
	})
}

func (s *QueryService) ListMenu(ctx context.Context, restaurantID int64, pg domain.PageQuery) ([]domain.MenuItem, error) {
	pg = pg.Normalize()
	key := fmt.Sprintf("menu:%d:%d:%d", restaurantID, pg.Limit, pg.Offset)
	return cached(ctx, s, key, func() ([]domain.MenuItem, error) {
		return s.repos.MenuItems.ListByRestaurant(ctx, restaurantID, pg)
	})
}

func (s *QueryService) ListItemRatings(ctx context.Context, itemID int64, pg domain.PageQuery) ([]domain.RatingItem, error) {
	pg = pg.Normalize()
	key := fmt.Sprintf("item_ratings:%d:%d:%d", itemID, pg.Limit, pg.Offset)
	return cached(ctx, s, key, func() ([]domain.RatingItem, error) {
		return s.repos.RatingItems.ListByItem(ctx, itemID, pg)
	})
}

func (s *QueryService) ListLocations(ctx context.Context, restaurantID int64, pg domain.PageQuery) ([]domain.Location, error) {
	pg = pg.Normalize()
	key := fmt.Sprintf("locations:%d:%d:%d", restaurantID, pg.Limit, pg.Offset)
	return cached(ctx, s, key, func() ([]domain.Location, error) {
		return s.repos.Locations.ListByRestaurant(ctx, restaurantID, pg)
	})
}

func raterKey(userID string) string { return "rater:" + userID }
func restaurantKey(id int64) string { return fmt.Sprintf("restaurant:%d", id) }
