package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant_rater/internal/domain"
)

func tod(h, m, s int) *domain.TimeOfDay {
	t := domain.NewTimeOfDay(h, m, s)
	return &t
}

func TestConstructors_PassThrough(t *testing.T) {
	r := domain.NewRater("u1", "a@b.c", "Ann", "2019-05-01", "critic", 4)
	assert.Equal(t, domain.Rater{UserID: "u1", Email: "a@b.c", Name: "Ann", JoinDate: "2019-05-01", Type: "critic", Reputation: 4}, r)

	rs := domain.NewRestaurant("Chez Nous", "french", "http://chez.example", 3, "http://chez.example/p.jpg")
	assert.Zero(t, rs.ID, "restaurant id is assigned by the store")
	assert.Equal(t, "Chez Nous", rs.Name)
	assert.Equal(t, "french", rs.Type)
	assert.Equal(t, "http://chez.example", rs.URL)
	assert.Equal(t, "http://chez.example/p.jpg", rs.PicURL)
	assert.Equal(t, 3, rs.OverallRating)

	rt := domain.NewRating("u1", "2024-03-01", 7, 1, 2, 3, 4, "fine")
	assert.Equal(t, domain.Rating{UserID: "u1", PostDate: "2024-03-01", RestaurantID: 7, Price: 1, Food: 2, Mood: 3, Staff: 4, Comment: "fine"}, rt)

	mi := domain.NewMenuItem(7, "Soup", "food", "starter", "hot", 0)
	assert.Zero(t, mi.ID)
	assert.Equal(t, domain.MenuItem{RestaurantID: 7, Name: "Soup", Type: "food", Category: "starter", Description: "hot", Price: 0}, mi)

	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	ri := domain.NewRatingItem("u1", at, 9, 5, "great")
	assert.Equal(t, domain.RatingItem{UserID: "u1", PostDate: at, ItemID: 9, Rating: 5, Comment: "great"}, ri)

	open, closing := tod(9, 0, 0), tod(22, 0, 0)
	loc := domain.NewLocation("Bob", "555-0100", "1 Main St", open, closing, 7)
	assert.Zero(t, loc.ID)
	assert.Same(t, open, loc.Open)
	assert.Same(t, closing, loc.Close)
	assert.Equal(t, int64(7), loc.RestaurantID)
}

func TestRater_SerializeKeepsJoinDateText(t *testing.T) {
	r := domain.NewRater("u1", "a@b.c", "Ann", "last tuesday", "online", 2)
	assert.Equal(t, domain.Record{
		"userId":     "u1",
		"email":      "a@b.c",
		"name":       "Ann",
		"join_date":  "last tuesday",
		"type":       "online",
		"reputation": 2,
	}, r.Serialize())
}

func TestRating_SerializeKeepsPostDateText(t *testing.T) {
	r := domain.NewRating("u1", "03/01/2024", 7, 5, 4, 3, 2, "ok")
	rec := r.Serialize()
	assert.Equal(t, "03/01/2024", rec["postDate"])
	assert.Equal(t, int64(7), rec["restaurantId"])
	assert.Len(t, rec, 8)
}

func TestRatingItem_SerializeISODate(t *testing.T) {
	r := domain.NewRatingItem("u1", time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), 3, 4, "")
	rec := r.Serialize()
	assert.Equal(t, "2024-03-01T12:00:00", rec["postDate"])
	assert.Equal(t, int64(3), rec["itemId"])
}

func TestLocation_SerializeHours(t *testing.T) {
	loc := domain.NewLocation("Bob", "555-0100", "1 Main St", tod(9, 0, 0), tod(22, 0, 0), 7)
	loc.ID = 11
	rec, err := loc.Serialize()
	require.NoError(t, err)
	assert.Equal(t, domain.Record{
		"locationId":     int64(11),
		"manager_name":   "Bob",
		"phone_number":   "555-0100",
		"street_address": "1 Main St",
		"open":           "09:00:00",
		"close":          "22:00:00",
		"restaurantId":   int64(7),
	}, rec)
}

func TestLocation_SerializeWithoutHoursFails(t *testing.T) {
	loc := domain.NewLocation("Bob", "555-0100", "1 Main St", nil, tod(22, 0, 0), 7)
	_, err := loc.Serialize()
	require.Error(t, err)

	var se *domain.SerializeError
	assert.True(t, errors.As(err, &se))
	assert.ErrorIs(t, err, domain.ErrNotSerializable)
}

func TestSerialize_RoundTrip(t *testing.T) {
	rater := domain.NewRater("u1", "a@b.c", "Ann", "2019-05-01", "online", 4)
	rec := rater.Serialize()
	assert.Equal(t, rater, domain.NewRater(rec["userId"].(string), rec["email"].(string), rec["name"].(string),
		rec["join_date"].(string), rec["type"].(string), rec["reputation"].(int)))

	rest := domain.NewRestaurant("Chez", "french", "http://c", 4, "http://c/p")
	rec = rest.Serialize()
	assert.Equal(t, rest, domain.NewRestaurant(rec["name"].(string), rec["type"].(string), rec["url"].(string),
		rec["overallRating"].(int), rec["pic_url"].(string)))

	rating := domain.NewRating("u1", "2024-03-01", 7, 1, 2, 3, 4, "c")
	rec = rating.Serialize()
	assert.Equal(t, rating, domain.NewRating(rec["userId"].(string), rec["postDate"].(string), rec["restaurantId"].(int64),
		rec["price"].(int), rec["food"].(int), rec["mood"].(int), rec["staff"].(int), rec["comment"].(string)))

	item := domain.NewMenuItem(7, "Soup", "food", "starter", "hot", 12)
	rec = item.Serialize()
	assert.Equal(t, item, domain.NewMenuItem(rec["restaurantId"].(int64), rec["name"].(string), rec["type"].(string),
		rec["category"].(string), rec["description"].(string), rec["price"].(int)))

	ri := domain.NewRatingItem("u1", time.Date(2024, 3, 1, 12, 30, 15, 250000000, time.UTC), 9, 5, "x")
	rec = ri.Serialize()
	posted, err := domain.ParseDateTime(rec["postDate"].(string))
	require.NoError(t, err)
	assert.Equal(t, ri, domain.NewRatingItem(rec["userId"].(string), posted, rec["itemId"].(int64), rec["rating"].(int), rec["comment"].(string)))

	loc := domain.NewLocation("Bob", "555", "1 Main", tod(9, 30, 0), tod(23, 0, 0), 7)
	rec, err = loc.Serialize()
	require.NoError(t, err)
	open, err := domain.ParseTimeOfDay(rec["open"].(string))
	require.NoError(t, err)
	closing, err := domain.ParseTimeOfDay(rec["close"].(string))
	require.NoError(t, err)
	assert.Equal(t, loc, domain.NewLocation(rec["manager_name"].(string), rec["phone_number"].(string),
		rec["street_address"].(string), &open, &closing, rec["restaurantId"].(int64)))
}

func TestString(t *testing.T) {
	assert.Equal(t, `<Rater "u1">`, domain.Rater{UserID: "u1"}.String())
	assert.Equal(t, `<Restaurant "Chez">`, domain.Restaurant{Name: "Chez"}.String())
	assert.Equal(t, "<Item Id: 4>", domain.MenuItem{ID: 4}.String())
	assert.Equal(t, "<Location: 2>", domain.Location{ID: 2}.String())
}
