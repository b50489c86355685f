package domain

import "fmt"

// Rating is keyed by (UserID, PostDate, RestaurantID): one rating per rater,
// restaurant and post date. PostDate is free text, not a parsed date.
type Rating struct {
	UserID       string `json:"userId" validate:"required,max=50"`
	PostDate     string `json:"postDate" validate:"required,max=25"`
	RestaurantID int64  `json:"restaurantId" validate:"gt=0"`
	Price        int    `json:"price" validate:"gte=1,lte=5"`
	Food         int    `json:"food" validate:"gte=1,lte=5"`
	Mood         int    `json:"mood" validate:"gte=1,lte=5"`
	Staff        int    `json:"staff" validate:"gte=1,lte=5"`
	Comment      string `json:"comment" validate:"max=500"`
}

func NewRating(userID, postDate string, restaurantID int64, price, food, mood, staff int, comment string) Rating {
	return Rating{
		UserID:       userID,
		PostDate:     postDate,
		RestaurantID: restaurantID,
		Price:        price,
		Food:         food,
		Mood:         mood,
		Staff:        staff,
		Comment:      comment,
	}
}

func (r Rating) Validate() error { return validateEntity("rating", r) }

func (r Rating) Serialize() Record {
	return Record{
		"userId":       r.UserID,
		"postDate":     r.PostDate,
		"restaurantId": r.RestaurantID,
		"price":        r.Price,
		"food":         r.Food,
		"mood":         r.Mood,
		"staff":        r.Staff,
		"comment":      r.Comment,
	}
}

func (r Rating) String() string { return fmt.Sprintf("<Rating ID: %q>", r.UserID) }
