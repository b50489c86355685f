// Package memory is an in-process store that enforces the same keys, unique
// columns, foreign keys, CHECK ranges and column widths as the MySQL schema.
// Each Store is isolated, so tests can build one per case.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"unicode/utf8"

	"restaurant_rater/internal/domain"
)

type ratingKey struct {
	userID       string
	postDate     string
	restaurantID int64
}

type ratingItemKey struct {
	userID string
	itemID int64
}

type Store struct {
	mu sync.RWMutex

	raters      map[string]domain.Rater
	restaurants map[int64]domain.Restaurant
	ratings     map[ratingKey]domain.Rating
	menuItems   map[int64]domain.MenuItem
	ratingItems map[ratingItemKey]domain.RatingItem
	locations   map[int64]domain.Location

	// auto-increment counters; like InnoDB, ids are never reused
	lastRestaurantID int64
	lastItemID       int64
	lastLocationID   int64
}

func New() *Store {
	return &Store{
		raters:      map[string]domain.Rater{},
		restaurants: map[int64]domain.Restaurant{},
		ratings:     map[ratingKey]domain.Rating{},
		menuItems:   map[int64]domain.MenuItem{},
		ratingItems: map[ratingItemKey]domain.RatingItem{},
		locations:   map[int64]domain.Location{},
	}
}

// NewRepositories wires every entity repository to s.
func NewRepositories(s *Store) domain.Repositories {
	return domain.Repositories{
		Raters:      NewRaterRepo(s),
		Restaurants: NewRestaurantRepo(s),
		Ratings:     NewRatingRepo(s),
		MenuItems:   NewMenuItemRepo(s),
		RatingItems: NewRatingItemRepo(s),
		Locations:   NewLocationRepo(s),
	}
}

/********** constraint helpers **********/

func violation(entity string, kind domain.ConstraintKind, constraint string) error {
	return &domain.ConstraintError{
		Entity:     entity,
		Kind:       kind,
		Constraint: constraint,
		Err:        fmt.Errorf("memory: %s rejected by %s", entity, constraint),
	}
}

func checkRange(entity, constraint string, v, lo, hi int) error {
	if v < lo || v > hi {
		return violation(entity, domain.KindCheck, constraint)
	}
	return nil
}

// width mirrors VARCHAR(n); MySQL strict mode rejects longer values.
type width struct {
	column string
	value  string
	max    int
}

func checkWidths(entity string, ws ...width) error {
	for _, w := range ws {
		if utf8.RuneCountInString(w.value) > w.max {
			return violation(entity, domain.KindCheck, "length:"+w.column)
		}
	}
	return nil
}

func notFound(entity string, key any) error {
	return fmt.Errorf("%s %v: %w", entity, key, domain.ErrNotFound)
}

func page[T any](items []T, pg domain.PageQuery) []T {
	pg = pg.Normalize()
	if pg.Offset >= len(items) {
		return []T{}
	}
	end := pg.Offset + pg.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[pg.Offset:end]
}

func sortedKeys[K int64 | string, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func alive(ctx context.Context) error { return ctx.Err() }
