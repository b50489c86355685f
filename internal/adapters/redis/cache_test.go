package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisad "restaurant_rater/internal/adapters/redis"
	"restaurant_rater/internal/domain"
)

func TestCache_RoundTripAndExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	ctx := context.Background()

	require.NoError(t, c.Ping(ctx))

	var miss domain.Restaurant
	ok, err := c.Get(ctx, "restaurant:1", &miss)
	require.NoError(t, err)
	assert.False(t, ok)

	want := domain.Restaurant{ID: 1, Name: "Chez A", Type: "French", OverallRating: 4}
	require.NoError(t, c.Set(ctx, "restaurant:1", want, 30))

	var got domain.Restaurant
	ok, err = c.Get(ctx, "restaurant:1", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, want, got)

	mr.FastForward(31 * time.Second)
	ok, err = c.Get(ctx, "restaurant:1", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_Del(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "rater:u1", domain.Rater{UserID: "u1"}, 60))
	require.NoError(t, c.Del(ctx, "rater:u1"))
	assert.False(t, mr.Exists("rater:u1"))
}

func TestCache_LocationHoursSurviveJSON(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	ctx := context.Background()

	opens := domain.NewTimeOfDay(9, 0, 0)
	in := []domain.Location{{ID: 1, ManagerName: "Mia", Open: &opens, RestaurantID: 1}}
	require.NoError(t, c.Set(ctx, "locations:1", in, 60))

	var out []domain.Location
	ok, err := c.Get(ctx, "locations:1", &out)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, out, 1)
	require.NotNil(t, out[0].Open)
	assert.Equal(t, opens, *out[0].Open)
	assert.Nil(t, out[0].Close)
}

func TestCache_UndecodableEntryIsDropped(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	ctx := context.Background()

	require.NoError(t, mr.Set("restaurant:7", "{not json"))

	var got domain.Restaurant
	ok, err := c.Get(ctx, "restaurant:7", &got)
	require.Error(t, err)
	assert.False(t, ok)
	assert.False(t, mr.Exists("restaurant:7"))

	ok, err = c.Get(ctx, "restaurant:7", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_Namespace(t *testing.T) {
	mr := miniredis.RunT(t)
	a := redisad.New(mr.Addr(), "", 0, redisad.WithNamespace("blue"))
	b := redisad.New(mr.Addr(), "", 0, redisad.WithNamespace("green"))
	ctx := context.Background()

	require.NoError(t, a.Set(ctx, "restaurant:1", domain.Restaurant{ID: 1, Name: "A"}, 60))
	assert.True(t, mr.Exists("blue:restaurant:1"))
	assert.False(t, mr.Exists("restaurant:1"))

	var got domain.Restaurant
	ok, err := b.Get(ctx, "restaurant:1", &got)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, a.Del(ctx, "restaurant:1"))
	assert.False(t, mr.Exists("blue:restaurant:1"))
}
