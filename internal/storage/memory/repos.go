package memory

import (
	"context"
	"sort"

	"restaurant_rater/internal/domain"
)

/********** raters **********/

type RaterRepo struct{ s *Store }

func NewRaterRepo(s *Store) *RaterRepo { return &RaterRepo{s: s} }

func (r *RaterRepo) Create(ctx context.Context, v domain.Rater) error {
	if err := alive(ctx); err != nil {
		return err
	}
	if v.Type == "" {
		v.Type = domain.DefaultRaterType
	}
	if err := checkWidths("rater",
		width{"user_id", v.UserID, 50}, width{"email", v.Email, 50}, width{"name", v.Name, 50},
		width{"join_date", v.JoinDate, 100}, width{"type", v.Type, 11},
	); err != nil {
		return err
	}
	if err := checkRange("rater", "rater_reputation_chk", v.Reputation, 1, 5); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.raters[v.UserID]; ok {
		return violation("rater", domain.KindDuplicate, "PRIMARY")
	}
	for _, other := range r.s.raters {
		if other.Email == v.Email {
			return violation("rater", domain.KindDuplicate, "uq_rater_email")
		}
	}
	r.s.raters[v.UserID] = v
	return nil
}

func (r *RaterRepo) Get(ctx context.Context, userID string) (domain.Rater, error) {
	if err := alive(ctx); err != nil {
		return domain.Rater{}, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	v, ok := r.s.raters[userID]
	if !ok {
		return domain.Rater{}, notFound("rater", userID)
	}
	return v, nil
}

func (r *RaterRepo) Delete(ctx context.Context, userID string) error {
	if err := alive(ctx); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.raters[userID]; !ok {
		return notFound("rater", userID)
	}
	for k := range r.s.ratings {
		if k.userID == userID {
			return violation("rater", domain.KindReferenced, "fk_rating_rater")
		}
	}
	for k := range r.s.ratingItems {
		if k.userID == userID {
			return violation("rater", domain.KindReferenced, "fk_rating_item_rater")
		}
	}
	delete(r.s.raters, userID)
	return nil
}

/********** restaurants **********/

type RestaurantRepo struct{ s *Store }

func NewRestaurantRepo(s *Store) *RestaurantRepo { return &RestaurantRepo{s: s} }

func (r *RestaurantRepo) Create(ctx context.Context, v *domain.Restaurant) error {
	if err := alive(ctx); err != nil {
		return err
	}
	if err := checkWidths("restaurant",
		width{"name", v.Name, 100}, width{"type", v.Type, 20},
		width{"url", v.URL, 250}, width{"pic_url", v.PicURL, 250},
	); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	// empty text is stored as NULL, and NULLs never collide
	for _, other := range r.s.restaurants {
		if v.Name != "" && other.Name == v.Name {
			return violation("restaurant", domain.KindDuplicate, "uq_restaurant_name")
		}
		if v.URL != "" && other.URL == v.URL {
			return violation("restaurant", domain.KindDuplicate, "uq_restaurant_url")
		}
	}
	r.s.lastRestaurantID++
	v.ID = r.s.lastRestaurantID
	r.s.restaurants[v.ID] = *v
	return nil
}

func (r *RestaurantRepo) Get(ctx context.Context, id int64) (domain.Restaurant, error) {
	if err := alive(ctx); err != nil {
		return domain.Restaurant{}, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	v, ok := r.s.restaurants[id]
	if !ok {
		return domain.Restaurant{}, notFound("restaurant", id)
	}
	return v, nil
}

func (r *RestaurantRepo) List(ctx context.Context, pg domain.PageQuery) ([]domain.Restaurant, error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.Restaurant, 0, len(r.s.restaurants))
	for _, id := range sortedKeys(r.s.restaurants) {
		out = append(out, r.s.restaurants[id])
	}
	return page(out, pg), nil
}

func (r *RestaurantRepo) Delete(ctx context.Context, id int64) error {
	if err := alive(ctx); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.restaurants[id]; !ok {
		return notFound("restaurant", id)
	}
	for k := range r.s.ratings {
		if k.restaurantID == id {
			return violation("restaurant", domain.KindReferenced, "fk_rating_restaurant")
		}
	}
	for _, m := range r.s.menuItems {
		if m.RestaurantID == id {
			return violation("restaurant", domain.KindReferenced, "fk_menu_item_restaurant")
		}
	}
	for _, l := range r.s.locations {
		if l.RestaurantID == id {
			return violation("restaurant", domain.KindReferenced, "fk_location_restaurant")
		}
	}
	delete(r.s.restaurants, id)
	return nil
}

/********** ratings **********/

type RatingRepo struct{ s *Store }

func NewRatingRepo(s *Store) *RatingRepo { return &RatingRepo{s: s} }

func (r *RatingRepo) Create(ctx context.Context, v domain.Rating) error {
	if err := alive(ctx); err != nil {
		return err
	}
	if err := checkWidths("rating",
		width{"user_id", v.UserID, 50}, width{"post_date", v.PostDate, 25}, width{"comment", v.Comment, 500},
	); err != nil {
		return err
	}
	for _, c := range []struct {
		name  string
		score int
	}{
		{"rating_price_chk", v.Price},
		{"rating_food_chk", v.Food},
		{"rating_mood_chk", v.Mood},
		{"rating_staff_chk", v.Staff},
	} {
		if err := checkRange("rating", c.name, c.score, 1, 5); err != nil {
			return err
		}
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := ratingKey{userID: v.UserID, postDate: v.PostDate, restaurantID: v.RestaurantID}
	if _, ok := r.s.ratings[key]; ok {
		return violation("rating", domain.KindDuplicate, "PRIMARY")
	}
	if _, ok := r.s.raters[v.UserID]; !ok {
		return violation("rating", domain.KindForeignKey, "fk_rating_rater")
	}
	if _, ok := r.s.restaurants[v.RestaurantID]; !ok {
		return violation("rating", domain.KindForeignKey, "fk_rating_restaurant")
	}
	r.s.ratings[key] = v
	return nil
}

func (r *RatingRepo) ListByRestaurant(ctx context.Context, restaurantID int64, pg domain.PageQuery) ([]domain.Rating, error) {
	return r.list(ctx, pg, func(v domain.Rating) bool { return v.RestaurantID == restaurantID },
		func(a, b domain.Rating) bool { return a.UserID < b.UserID })
}

func (r *RatingRepo) ListByRater(ctx context.Context, userID string, pg domain.PageQuery) ([]domain.Rating, error) {
	return r.list(ctx, pg, func(v domain.Rating) bool { return v.UserID == userID },
		func(a, b domain.Rating) bool { return a.RestaurantID < b.RestaurantID })
}

// list orders newest post date first, then by tie.
func (r *RatingRepo) list(ctx context.Context, pg domain.PageQuery, keep func(domain.Rating) bool, tie func(a, b domain.Rating) bool) ([]domain.Rating, error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	out := make([]domain.Rating, 0)
	for _, v := range r.s.ratings {
		if keep(v) {
			out = append(out, v)
		}
	}
	r.s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].PostDate != out[j].PostDate {
			return out[i].PostDate > out[j].PostDate
		}
		return tie(out[i], out[j])
	})
	return page(out, pg), nil
}

/********** menu items **********/

type MenuItemRepo struct{ s *Store }

func NewMenuItemRepo(s *Store) *MenuItemRepo { return &MenuItemRepo{s: s} }

func (r *MenuItemRepo) Create(ctx context.Context, v *domain.MenuItem) error {
	if err := alive(ctx); err != nil {
		return err
	}
	if err := checkWidths("menu_item",
		width{"name", v.Name, 50}, width{"type", v.Type, 20},
		width{"category", v.Category, 20}, width{"description", v.Description, 500},
	); err != nil {
		return err
	}
	if v.Price < 0 {
		return violation("menu_item", domain.KindCheck, "menu_item_price_chk")
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.restaurants[v.RestaurantID]; !ok {
		return violation("menu_item", domain.KindForeignKey, "fk_menu_item_restaurant")
	}
	r.s.lastItemID++
	v.ID = r.s.lastItemID
	r.s.menuItems[v.ID] = *v
	return nil
}

func (r *MenuItemRepo) Get(ctx context.Context, id int64) (domain.MenuItem, error) {
	if err := alive(ctx); err != nil {
		return domain.MenuItem{}, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	v, ok := r.s.menuItems[id]
	if !ok {
		return domain.MenuItem{}, notFound("menu item", id)
	}
	return v, nil
}

func (r *MenuItemRepo) ListByRestaurant(ctx context.Context, restaurantID int64, pg domain.PageQuery) ([]domain.MenuItem, error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.MenuItem, 0)
	for _, id := range sortedKeys(r.s.menuItems) {
		if m := r.s.menuItems[id]; m.RestaurantID == restaurantID {
			out = append(out, m)
		}
	}
	return page(out, pg), nil
}

func (r *MenuItemRepo) Delete(ctx context.Context, id int64) error {
	if err := alive(ctx); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.menuItems[id]; !ok {
		return notFound("menu item", id)
	}
	for k := range r.s.ratingItems {
		if k.itemID == id {
			return violation("menu_item", domain.KindReferenced, "fk_rating_item_menu_item")
		}
	}
	delete(r.s.menuItems, id)
	return nil
}

/********** rating items **********/

type RatingItemRepo struct{ s *Store }

func NewRatingItemRepo(s *Store) *RatingItemRepo { return &RatingItemRepo{s: s} }

func (r *RatingItemRepo) Create(ctx context.Context, v domain.RatingItem) error {
	if err := alive(ctx); err != nil {
		return err
	}
	if err := checkWidths("rating_item", width{"user_id", v.UserID, 50}, width{"comment", v.Comment, 500}); err != nil {
		return err
	}
	if err := checkRange("rating_item", "rating_item_rating_chk", v.Rating, 1, 5); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := ratingItemKey{userID: v.UserID, itemID: v.ItemID}
	if _, ok := r.s.ratingItems[key]; ok {
		return violation("rating_item", domain.KindDuplicate, "PRIMARY")
	}
	if _, ok := r.s.raters[v.UserID]; !ok {
		return violation("rating_item", domain.KindForeignKey, "fk_rating_item_rater")
	}
	if _, ok := r.s.menuItems[v.ItemID]; !ok {
		return violation("rating_item", domain.KindForeignKey, "fk_rating_item_menu_item")
	}
	// stored as UTC, matching the MySQL store
	v.PostDate = v.PostDate.UTC()
	r.s.ratingItems[key] = v
	return nil
}

func (r *RatingItemRepo) ListByItem(ctx context.Context, itemID int64, pg domain.PageQuery) ([]domain.RatingItem, error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	out := make([]domain.RatingItem, 0)
	for k, v := range r.s.ratingItems {
		if k.itemID == itemID {
			out = append(out, v)
		}
	}
	r.s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PostDate.Equal(out[j].PostDate) {
			return out[i].PostDate.After(out[j].PostDate)
		}
		return out[i].UserID < out[j].UserID
	})
	return page(out, pg), nil
}

/********** locations **********/

type LocationRepo struct{ s *Store }

func NewLocationRepo(s *Store) *LocationRepo { return &LocationRepo{s: s} }

func (r *LocationRepo) Create(ctx context.Context, v *domain.Location) error {
	if err := alive(ctx); err != nil {
		return err
	}
	if err := checkWidths("location",
		width{"manager_name", v.ManagerName, 50}, width{"phone_number", v.PhoneNumber, 14},
		width{"street_address", v.StreetAddress, 100},
	); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.restaurants[v.RestaurantID]; !ok {
		return violation("location", domain.KindForeignKey, "fk_location_restaurant")
	}
	r.s.lastLocationID++
	v.ID = r.s.lastLocationID
	stored := *v
	stored.Open, stored.Close = cloneTime(v.Open), cloneTime(v.Close)
	r.s.locations[v.ID] = stored
	return nil
}

func (r *LocationRepo) ListByRestaurant(ctx context.Context, restaurantID int64, pg domain.PageQuery) ([]domain.Location, error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.Location, 0)
	for _, id := range sortedKeys(r.s.locations) {
		if l := r.s.locations[id]; l.RestaurantID == restaurantID {
			l.Open, l.Close = cloneTime(l.Open), cloneTime(l.Close)
			out = append(out, l)
		}
	}
	return page(out, pg), nil
}

func cloneTime(t *domain.TimeOfDay) *domain.TimeOfDay {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
