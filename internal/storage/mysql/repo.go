package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"restaurant_rater/internal/domain"
)

// nullable text columns store "" as NULL so unique keys ignore blanks
func valStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func valTime(t *domain.TimeOfDay) any {
	if t == nil {
		return nil
	}
	return t.String()
}

func scanTime(ns sql.NullString) (*domain.TimeOfDay, error) {
	if !ns.Valid {
		return nil, nil
	}
	t, err := domain.ParseTimeOfDay(ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func notFound(entity string, key any) error {
	return fmt.Errorf("%s %v: %w", entity, key, domain.ErrNotFound)
}

// NewRepositories wires every entity repository to db.
func NewRepositories(db *sql.DB) domain.Repositories {
	return domain.Repositories{
		Raters:      NewRaterRepo(db),
		Restaurants: NewRestaurantRepo(db),
		Ratings:     NewRatingRepo(db),
		MenuItems:   NewMenuItemRepo(db),
		RatingItems: NewRatingItemRepo(db),
		Locations:   NewLocationRepo(db),
	}
}

func deleteByKey(ctx context.Context, db *sql.DB, entity, query string, key any) error {
	res, err := db.ExecContext(ctx, query, key)
	if err != nil {
		return classify(entity, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound(entity, key)
	}
	return nil
}

/********** raters **********/

type RaterRepo struct{ db *sql.DB }

func NewRaterRepo(db *sql.DB) *RaterRepo { return &RaterRepo{db: db} }

func (r *RaterRepo) Create(ctx context.Context, v domain.Rater) error {
	var err error
	if v.Type == "" {
		_, err = r.db.ExecContext(ctx, insertRaterDefaultTypeSQL,
			v.UserID, v.Email, valStr(v.Name), v.JoinDate, v.Reputation)
	} else {
		_, err = r.db.ExecContext(ctx, insertRaterSQL,
			v.UserID, v.Email, valStr(v.Name), v.JoinDate, v.Type, v.Reputation)
	}
	return classify("rater", err)
}

func (r *RaterRepo) Get(ctx context.Context, userID string) (domain.Rater, error) {
	var v domain.Rater
	var name sql.NullString
	err := r.db.QueryRowContext(ctx, getRaterSQL, userID).
		Scan(&v.UserID, &v.Email, &name, &v.JoinDate, &v.Type, &v.Reputation)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Rater{}, notFound("rater", userID)
	}
	if err != nil {
		return domain.Rater{}, err
	}
	v.Name = name.String
	return v, nil
}

func (r *RaterRepo) Delete(ctx context.Context, userID string) error {
	return deleteByKey(ctx, r.db, "rater", deleteRaterSQL, userID)
}

/********** restaurants **********/

type RestaurantRepo struct{ db *sql.DB }

func NewRestaurantRepo(db *sql.DB) *RestaurantRepo { return &RestaurantRepo{db: db} }

func (r *RestaurantRepo) Create(ctx context.Context, v *domain.Restaurant) error {
	res, err := r.db.ExecContext(ctx, insertRestaurantSQL,
		valStr(v.Name), valStr(v.Type), valStr(v.URL), valStr(v.PicURL), v.OverallRating)
	if err != nil {
		return classify("restaurant", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = id
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRestaurant(s rowScanner) (domain.Restaurant, error) {
	var v domain.Restaurant
	var name, typ, url, pic sql.NullString
	if err := s.Scan(&v.ID, &name, &typ, &url, &pic, &v.OverallRating); err != nil {
		return domain.Restaurant{}, err
	}
	v.Name, v.Type, v.URL, v.PicURL = name.String, typ.String, url.String, pic.String
	return v, nil
}

func (r *RestaurantRepo) Get(ctx context.Context, id int64) (domain.Restaurant, error) {
	v, err := scanRestaurant(r.db.QueryRowContext(ctx, getRestaurantSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Restaurant{}, notFound("restaurant", id)
	}
	return v, err
}

func (r *RestaurantRepo) List(ctx context.Context, pg domain.PageQuery) ([]domain.Restaurant, error) {
	pg = pg.Normalize()
	rows, err := r.db.QueryContext(ctx, listRestaurantsSQL, pg.Limit, pg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Restaurant, 0)
	for rows.Next() {
		v, err := scanRestaurant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *RestaurantRepo) Delete(ctx context.Context, id int64) error {
	return deleteByKey(ctx, r.db, "restaurant", deleteRestaurantSQL, id)
}

/********** ratings **********/

type RatingRepo struct{ db *sql.DB }

func NewRatingRepo(db *sql.DB) *RatingRepo { return &RatingRepo{db: db} }

func (r *RatingRepo) Create(ctx context.Context, v domain.Rating) error {
	_, err := r.db.ExecContext(ctx, insertRatingSQL,
		v.UserID, v.PostDate, v.RestaurantID, v.Price, v.Food, v.Mood, v.Staff, valStr(v.Comment))
	return classify("rating", err)
}

func (r *RatingRepo) ListByRestaurant(ctx context.Context, restaurantID int64, pg domain.PageQuery) ([]domain.Rating, error) {
	pg = pg.Normalize()
	return r.list(ctx, listRatingsByRestaurantSQL, restaurantID, pg.Limit, pg.Offset)
}

func (r *RatingRepo) ListByRater(ctx context.Context, userID string, pg domain.PageQuery) ([]domain.Rating, error) {
	pg = pg.Normalize()
	return r.list(ctx, listRatingsByRaterSQL, userID, pg.Limit, pg.Offset)
}

func (r *RatingRepo) list(ctx context.Context, query string, args ...any) ([]domain.Rating, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Rating, 0)
	for rows.Next() {
		var v domain.Rating
		var comment sql.NullString
		if err := rows.Scan(&v.UserID, &v.PostDate, &v.RestaurantID,
			&v.Price, &v.Food, &v.Mood, &v.Staff, &comment); err != nil {
			return nil, err
		}
		v.Comment = comment.String
		out = append(out, v)
	}
	return out, rows.Err()
}

/********** menu items **********/

type MenuItemRepo struct{ db *sql.DB }

func NewMenuItemRepo(db *sql.DB) *MenuItemRepo { return &MenuItemRepo{db: db} }

func (r *MenuItemRepo) Create(ctx context.Context, v *domain.MenuItem) error {
	res, err := r.db.ExecContext(ctx, insertMenuItemSQL,
		v.RestaurantID, valStr(v.Name), valStr(v.Type), valStr(v.Category), valStr(v.Description), v.Price)
	if err != nil {
		return classify("menu_item", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = id
	return nil
}

func scanMenuItem(s rowScanner) (domain.MenuItem, error) {
	var v domain.MenuItem
	var name, typ, cat, desc sql.NullString
	if err := s.Scan(&v.ID, &v.RestaurantID, &name, &typ, &cat, &desc, &v.Price); err != nil {
		return domain.MenuItem{}, err
	}
	v.Name, v.Type, v.Category, v.Description = name.String, typ.String, cat.String, desc.String
	return v, nil
}

func (r *MenuItemRepo) Get(ctx context.Context, id int64) (domain.MenuItem, error) {
	v, err := scanMenuItem(r.db.QueryRowContext(ctx, getMenuItemSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.MenuItem{}, notFound("menu item", id)
	}
	return v, err
}

func (r *MenuItemRepo) ListByRestaurant(ctx context.Context, restaurantID int64, pg domain.PageQuery) ([]domain.MenuItem, error) {
	pg = pg.Normalize()
	rows, err := r.db.QueryContext(ctx, listMenuItemsSQL, restaurantID, pg.Limit, pg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.MenuItem, 0)
	for rows.Next() {
		v, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *MenuItemRepo) Delete(ctx context.Context, id int64) error {
	return deleteByKey(ctx, r.db, "menu_item", deleteMenuItemSQL, id)
}

/********** rating items **********/

type RatingItemRepo struct{ db *sql.DB }

func NewRatingItemRepo(db *sql.DB) *RatingItemRepo { return &RatingItemRepo{db: db} }

func (r *RatingItemRepo) Create(ctx context.Context, v domain.RatingItem) error {
	_, err := r.db.ExecContext(ctx, insertRatingItemSQL,
		v.UserID, v.ItemID, v.PostDate.UTC(), v.Rating, valStr(v.Comment))
	return classify("rating_item", err)
}

func (r *RatingItemRepo) ListByItem(ctx context.Context, itemID int64, pg domain.PageQuery) ([]domain.RatingItem, error) {
	pg = pg.Normalize()
	rows, err := r.db.QueryContext(ctx, listRatingItemsSQL, itemID, pg.Limit, pg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.RatingItem, 0)
	for rows.Next() {
		var v domain.RatingItem
		var comment sql.NullString
		// post_date needs parseTime=true in the DSN
		if err := rows.Scan(&v.UserID, &v.ItemID, &v.PostDate, &v.Rating, &comment); err != nil {
			return nil, err
		}
		v.PostDate = v.PostDate.UTC()
		v.Comment = comment.String
		out = append(out, v)
	}
	return out, rows.Err()
}

/********** locations **********/

type LocationRepo struct{ db *sql.DB }

func NewLocationRepo(db *sql.DB) *LocationRepo { return &LocationRepo{db: db} }

func (r *LocationRepo) Create(ctx context.Context, v *domain.Location) error {
	res, err := r.db.ExecContext(ctx, insertLocationSQL,
		v.ManagerName, v.PhoneNumber, v.StreetAddress, valTime(v.Open), valTime(v.Close), v.RestaurantID)
	if err != nil {
		return classify("location", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = id
	return nil
}

func (r *LocationRepo) ListByRestaurant(ctx context.Context, restaurantID int64, pg domain.PageQuery) ([]domain.Location, error) {
	pg = pg.Normalize()
	rows, err := r.db.QueryContext(ctx, listLocationsSQL, restaurantID, pg.Limit, pg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Location, 0)
	for rows.Next() {
		var v domain.Location
		var open, closing sql.NullString
		if err := rows.Scan(&v.ID, &v.ManagerName, &v.PhoneNumber, &v.StreetAddress,
			&open, &closing, &v.RestaurantID); err != nil {
			return nil, err
		}
		if v.Open, err = scanTime(open); err != nil {
			return nil, err
		}
		if v.Close, err = scanTime(closing); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
