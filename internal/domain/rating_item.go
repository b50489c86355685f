package domain

import (
	"fmt"
	"time"
)

// RatingItem is keyed by (UserID, ItemID); PostDate is not part of the key.
type RatingItem struct {
	UserID   string    `json:"userId" validate:"required,max=50"`
	PostDate time.Time `json:"postDate" validate:"required"`
	ItemID   int64     `json:"itemId" validate:"gt=0"`
	Rating   int       `json:"rating" validate:"gte=1,lte=5"`
	Comment  string    `json:"comment" validate:"max=500"`
}

func NewRatingItem(userID string, postDate time.Time, itemID int64, rating int, comment string) RatingItem {
	return RatingItem{
		UserID:   userID,
		PostDate: postDate,
		ItemID:   itemID,
		Rating:   rating,
		Comment:  comment,
	}
}

func (r RatingItem) Validate() error { return validateEntity("rating_item", r) }

// Serialize renders postDate as ISO-8601.
func (r RatingItem) Serialize() Record {
	return Record{
		"userId":   r.UserID,
		"postDate": formatDateTime(r.PostDate),
		"itemId":   r.ItemID,
		"rating":   r.Rating,
		"comment":  r.Comment,
	}
}

func (r RatingItem) String() string { return fmt.Sprintf("<Rating: %q>", r.UserID) }
