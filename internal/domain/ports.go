package domain

import "context"

// One repository per entity, each built on an explicit storage handle.
// Deletes are restricted: a parent with dependents fails with ErrReferenced.

type RaterRepository interface {
	Create(ctx context.Context, r Rater) error
	Get(ctx context.Context, userID string) (Rater, error)
	Delete(ctx context.Context, userID string) error
}

type RestaurantRepository interface {
	// Create assigns r.ID.
	Create(ctx context.Context, r *Restaurant) error
	Get(ctx context.Context, id int64) (Restaurant, error)
	List(ctx context.Context, pg PageQuery) ([]Restaurant, error)
	Delete(ctx context.Context, id int64) error
}

type RatingRepository interface {
	Create(ctx context.Context, r Rating) error
	ListByRestaurant(ctx context.Context, restaurantID int64, pg PageQuery) ([]Rating, error)
	ListByRater(ctx context.Context, userID string, pg PageQuery) ([]Rating, error)
}

type MenuItemRepository interface {
	// Create assigns m.ID.
	Create(ctx context.Context, m *MenuItem) error
	Get(ctx context.Context, id int64) (MenuItem, error)
	ListByRestaurant(ctx context.Context, restaurantID int64, pg PageQuery) ([]MenuItem, error)
	Delete(ctx context.Context, id int64) error
}

type RatingItemRepository interface {
	Create(ctx context.Context, r RatingItem) error
	ListByItem(ctx context.Context, itemID int64, pg PageQuery) ([]RatingItem, error)
}

type LocationRepository interface {
	// Create assigns l.ID.
	Create(ctx context.Context, l *Location) error
	ListByRestaurant(ctx context.Context, restaurantID int64, pg PageQuery) ([]Location, error)
}

// Repositories bundles one implementation of every entity repository.
type Repositories struct {
	Raters      RaterRepository
	Restaurants RestaurantRepository
	Ratings     RatingRepository
	MenuItems   MenuItemRepository
	RatingItems RatingItemRepository
	Locations   LocationRepository
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 200
)

type PageQuery struct {
	Limit  int
	Offset int
}

// Normalize clamps Limit to (0, MaxPageLimit] and Offset to >= 0.
func (p PageQuery) Normalize() PageQuery {
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// Page is a list response; Items are serialized records.
type Page struct {
	Items []Record `json:"items"`
}
