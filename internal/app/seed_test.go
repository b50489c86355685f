package app_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant_rater/internal/app"
	"restaurant_rater/internal/domain"
	"restaurant_rater/internal/storage/memory"
)

const seedJSON = `{
  "raters": [
    {"userId": "ana", "email": "ana@x.io", "name": "Ana", "join_date": "2023-05-01", "type": "", "reputation": 4},
    {"userId": "bob", "email": "bob@x.io", "name": "Bob", "join_date": "2023-06-01", "type": "blog", "reputation": 2}
  ],
  "restaurants": [
    {
      "name": "Chez A", "type": "French", "url": "https://a.example", "pic_url": "", "overallRating": 4,
      "menu": [
        {"name": "Soup", "type": "food", "category": "starter", "description": "", "price": 6,
         "ratings": [{"userId": "ana", "postDate": "2024-03-01T12:00:00", "rating": 5, "comment": ""}]}
      ],
      "locations": [
        {"manager_name": "Mia", "phone_number": "555-0100", "street_address": "1 Main St", "open": "09:00", "close": "22:00"}
      ],
      "ratings": [
        {"userId": "ana", "postDate": "2024-03-01", "price": 3, "food": 5, "mood": 4, "staff": 4, "comment": "lovely"},
        {"userId": "bob", "postDate": "2024-03-02", "price": 9, "food": 5, "mood": 4, "staff": 4, "comment": ""}
      ]
    },
    {"name": "Thai B", "type": "Thai", "url": "", "pic_url": "", "overallRating": 3}
  ]
}`

func TestSeeder_RunIsRepeatable(t *testing.T) {
	f, err := app.DecodeSeedFile(strings.NewReader(seedJSON))
	require.NoError(t, err)

	repos := memory.NewRepositories(memory.New())
	cmd := app.NewCommandService(repos, nil)
	s := app.NewSeeder(cmd, 2)
	ctx := context.Background()

	rep, err := s.Run(ctx, f)
	require.NoError(t, err)
	// 2 raters + 2 restaurants + 1 item + 1 item rating + 1 location + 1 rating
	assert.Equal(t, int64(8), rep.Created)
	assert.Equal(t, int64(1), rep.Failed) // bob's price 9
	assert.Zero(t, rep.Skipped)

	rest, err := repos.Restaurants.List(ctx, domain.PageQuery{})
	require.NoError(t, err)
	require.Len(t, rest, 2)

	ana, err := repos.Raters.Get(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultRaterType, ana.Type)

	// second run: raters and restaurants already exist
	rep, err = s.Run(ctx, f)
	require.NoError(t, err)
	assert.Zero(t, rep.Created)
	assert.Equal(t, int64(4), rep.Skipped)
}

func TestDecodeSeedFile_RejectsUnknownFields(t *testing.T) {
	_, err := app.DecodeSeedFile(strings.NewReader(`{"raters": [], "chefs": []}`))
	assert.Error(t, err)
}
