package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"restaurant_rater/internal/adapters/observability"
	"restaurant_rater/internal/domain"
)

// first-page list sizes clients commonly request; these are evicted on writes
var commonLimits = []int{20, domain.DefaultPageLimit, 100}

// CommandService validates entities, writes them through the repositories
// and evicts the cache entries the write makes stale.
type CommandService struct {
	repos domain.Repositories
	cache domain.Cache
}

func NewCommandService(r domain.Repositories, c domain.Cache) *CommandService {
	return &CommandService{repos: r, cache: c}
}

func (s *CommandService) CreateRater(ctx context.Context, r domain.Rater) (domain.Rater, error) {
	if err := r.Validate(); err != nil {
		observability.ObserveStore("rater", "create", err)
		return domain.Rater{}, err
	}
	err := s.repos.Raters.Create(ctx, r)
	observability.ObserveStore("rater", "create", err)
	if err != nil {
		return domain.Rater{}, fmt.Errorf("create rater %s: %w", r.UserID, err)
	}
	if r.Type == "" {
		r.Type = domain.DefaultRaterType
	}
	s.del(ctx, raterKey(r.UserID))
	log.Info().Str("user_id", r.UserID).Msg("rater_created")
	return r, nil
}

func (s *CommandService) CreateRestaurant(ctx context.Context, r domain.Restaurant) (domain.Restaurant, error) {
	if err := r.Validate(); err != nil {
		observability.ObserveStore("restaurant", "create", err)
		return domain.Restaurant{}, err
	}
	err := s.repos.Restaurants.Create(ctx, &r)
	observability.ObserveStore("restaurant", "create", err)
	if err != nil {
		return domain.Restaurant{}, fmt.Errorf("create restaurant %q: %w", r.Name, err)
	}
	s.invalidateRestaurantList(ctx)
	log.Info().Int64("restaurant_id", r.ID).Str("name", r.Name).Msg("restaurant_created")
	return r, nil
}

func (s *CommandService) PostRating(ctx context.Context, r domain.Rating) (domain.Rating, error) {
	if err := r.Validate(); err != nil {
		observability.ObserveStore("rating", "create", err)
		return domain.Rating{}, err
	}
	err := s.repos.Ratings.Create(ctx, r)
	observability.ObserveStore("rating", "create", err)
	if err != nil {
		return domain.Rating{}, fmt.Errorf("post rating by %s for restaurant %d: %w", r.UserID, r.RestaurantID, err)
	}
	s.invalidatePages(ctx, fmt.Sprintf("ratings:%d", r.RestaurantID))
	s.invalidatePages(ctx, "rater_ratings:"+r.UserID)
	log.Info().Str("user_id", r.UserID).Int64("restaurant_id", r.RestaurantID).Msg("rating_posted")
	return r, nil
}

func (s *CommandService) AddMenuItem(ctx context.Context, m domain.MenuItem) (domain.MenuItem, error) {
	if err := m.Validate(); err != nil {
		observability.ObserveStore("menu_item", "create", err)
		return domain.MenuItem{}, err
	}
	err := s.repos.MenuItems.Create(ctx, &m)
	observability.ObserveStore("menu_item", "create", err)
	if err != nil {
		return domain.MenuItem{}, fmt.Errorf("add menu item to restaurant %d: %w", m.RestaurantID, err)
	}
	s.invalidatePages(ctx, fmt.Sprintf("menu:%d", m.RestaurantID))
	log.Info().Int64("item_id", m.ID).Int64("restaurant_id", m.RestaurantID).Msg("menu_item_added")
	return m, nil
}

func (s *CommandService) PostItemRating(ctx context.Context, r domain.RatingItem) (domain.RatingItem, error) {
	if err := r.Validate(); err != nil {
		observability.ObserveStore("rating_item", "create", err)
		return domain.RatingItem{}, err
	}
	r.PostDate = r.PostDate.UTC()
	err := s.repos.RatingItems.Create(ctx, r)
	observability.ObserveStore("rating_item", "create", err)
	if err != nil {
		return domain.RatingItem{}, fmt.Errorf("post item rating by %s for item %d: %w", r.UserID, r.ItemID, err)
	}
	s.invalidatePages(ctx, fmt.Sprintf("item_ratings:%d", r.ItemID))
	log.Info().Str("user_id", r.UserID).Int64("item_id", r.ItemID).Msg("item_rating_posted")
	return r, nil
}

func (s *CommandService) AddLocation(ctx context.Context, l domain.Location) (domain.Location, error) {
	if err := l.Validate(); err != nil {
		observability.ObserveStore("location", "create", err)
		return domain.Location{}, err
	}
	err := s.repos.Locations.Create(ctx, &l)
	observability.ObserveStore("location", "create", err)
	if err != nil {
		return domain.Location{}, fmt.Errorf("add location to restaurant %d: %w", l.RestaurantID, err)
	}
	s.invalidatePages(ctx, fmt.Sprintf("locations:%d", l.RestaurantID))
	log.Info().Int64("location_id", l.ID).Int64("restaurant_id", l.RestaurantID).Msg("location_added")
	return l, nil
}

// DeleteRestaurant fails with domain.ErrReferenced while ratings, menu items
// or locations still point at the restaurant.
func (s *CommandService) DeleteRestaurant(ctx context.Context, id int64) error {
	err := s.repos.Restaurants.Delete(ctx, id)
	observability.ObserveStore("restaurant", "delete", err)
	if err != nil {
		return fmt.Errorf("delete restaurant %d: %w", id, err)
	}
	s.del(ctx, restaurantKey(id))
	s.invalidateRestaurantList(ctx)
	log.Info().Int64("restaurant_id", id).Msg("restaurant_deleted")
	return nil
}

func (s *CommandService) DeleteRater(ctx context.Context, userID string) error {
	err := s.repos.Raters.Delete(ctx, userID)
	observability.ObserveStore("rater", "delete", err)
	if err != nil {
		return fmt.Errorf("delete rater %s: %w", userID, err)
	}
	s.del(ctx, raterKey(userID))
	log.Info().Str("user_id", userID).Msg("rater_deleted")
	return nil
}

func (s *CommandService) DeleteMenuItem(ctx context.Context, id int64) error {
	// the parent id is needed to evict the menu pages
	item, err := s.repos.MenuItems.Get(ctx, id)
	if err != nil {
		observability.ObserveStore("menu_item", "delete", err)
		return fmt.Errorf("delete menu item %d: %w", id, err)
	}
	err = s.repos.MenuItems.Delete(ctx, id)
	observability.ObserveStore("menu_item", "delete", err)
	if err != nil {
		return fmt.Errorf("delete menu item %d: %w", id, err)
	}
	s.invalidatePages(ctx, fmt.Sprintf("menu:%d", item.RestaurantID))
	log.Info().Int64("item_id", id).Int64("restaurant_id", item.RestaurantID).Msg("menu_item_deleted")
	return nil
}

func (s *CommandService) del(ctx context.Context, key string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache_evict_failed")
	}
}

func (s *CommandService) invalidateRestaurantList(ctx context.Context) {
	for _, lim := range commonLimits {
		s.del(ctx, fmt.Sprintf("restaurants:%d:%d", lim, 0))
	}
}

// invalidatePages evicts the first page of a per-parent list for the common limits.
func (s *CommandService) invalidatePages(ctx context.Context, prefix string) {
	for _, lim := range commonLimits {
		s.del(ctx, fmt.Sprintf("%s:%d:%d", prefix, lim, 0))
	}
}
