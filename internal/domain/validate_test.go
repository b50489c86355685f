package domain_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant_rater/internal/domain"
)

func TestRating_ValidateScoreBounds(t *testing.T) {
	for _, score := range []int{1, 5} {
		r := domain.NewRating("u1", "2024-03-01", 1, score, score, score, score, "")
		assert.NoError(t, r.Validate(), "score %d", score)
	}
	for _, score := range []int{0, 6} {
		r := domain.NewRating("u1", "2024-03-01", 1, score, 3, 3, 3, "")
		err := r.Validate()
		require.Error(t, err, "price %d", score)
		assert.ErrorIs(t, err, domain.ErrInvalid)

		var ve *domain.ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Contains(t, ve.Fields(), "price")
		assert.Len(t, ve.Fields(), 1)
	}
}

func TestRater_Validate(t *testing.T) {
	ok := domain.NewRater("u1", "a@b.c", "", "2020", "", 1)
	assert.NoError(t, ok.Validate(), "empty type is filled by the store")

	bad := domain.NewRater("", "", "", "", "far-too-long-type", 7)
	err := bad.Validate()
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	f := ve.Fields()
	assert.Equal(t, "is required", f["userId"])
	assert.Equal(t, "is required", f["email"])
	assert.Equal(t, "is required", f["join_date"])
	assert.Equal(t, "must be at most 11 characters", f["type"])
	assert.Equal(t, "must be less than or equal to 5", f["reputation"])
	assert.True(t, strings.HasPrefix(err.Error(), "rater: "))
}

func TestMenuItem_ValidatePrice(t *testing.T) {
	assert.NoError(t, domain.NewMenuItem(1, "Free water", "drink", "misc", "", 0).Validate())
	assert.NoError(t, domain.NewMenuItem(1, "Caviar", "food", "main", "", 100000).Validate())

	err := domain.NewMenuItem(1, "Refund", "food", "main", "", -1).Validate()
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "must be greater than or equal to 0", ve.Fields()["price"])

	err = domain.NewMenuItem(0, "Orphan", "food", "main", "", 1).Validate()
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields(), "restaurantId")
}

func TestRatingItem_Validate(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	assert.NoError(t, domain.NewRatingItem("u1", at, 1, 5, "").Validate())
	assert.Error(t, domain.NewRatingItem("u1", at, 1, 0, "").Validate())
	assert.Error(t, domain.NewRatingItem("u1", time.Time{}, 1, 3, "").Validate())
}

func TestLocation_Validate(t *testing.T) {
	assert.NoError(t, domain.NewLocation("Bob", "555-0100", "1 Main", nil, nil, 1).Validate())

	err := domain.NewLocation("Bob", "+1 555 0100 0000 1", "1 Main", nil, nil, 1).Validate()
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "must be at most 14 characters", ve.Fields()["phone_number"])
}

func TestRestaurant_ValidateLengths(t *testing.T) {
	assert.NoError(t, domain.NewRestaurant("", "", "", 0, "").Validate())
	err := domain.NewRestaurant(strings.Repeat("n", 101), "", "", 0, "").Validate()
	assert.ErrorIs(t, err, domain.ErrInvalid)
}

func TestConstraintError_Is(t *testing.T) {
	cause := errors.New("driver says no")
	err := error(&domain.ConstraintError{Entity: "rating", Kind: domain.KindCheck, Constraint: "rating_price_chk", Err: cause})

	assert.ErrorIs(t, err, domain.ErrConstraint)
	assert.ErrorIs(t, err, domain.ErrCheck)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, domain.ErrDuplicate)
	assert.Contains(t, err.Error(), `check constraint "rating_price_chk" violated`)
}

func TestPageQuery_Normalize(t *testing.T) {
	assert.Equal(t, domain.PageQuery{Limit: domain.DefaultPageLimit}, domain.PageQuery{}.Normalize())
	assert.Equal(t, domain.PageQuery{Limit: domain.MaxPageLimit, Offset: 0}, domain.PageQuery{Limit: 5000, Offset: -3}.Normalize())
	assert.Equal(t, domain.PageQuery{Limit: 10, Offset: 20}, domain.PageQuery{Limit: 10, Offset: 20}.Normalize())
}
