package domain

import "fmt"

// Restaurant.ID is assigned by the store on insert; OverallRating is stored as given.
type Restaurant struct {
	ID            int64  `json:"restaurantId"`
	Name          string `json:"name" validate:"max=100"`
	Type          string `json:"type" validate:"max=20"`
	URL           string `json:"url" validate:"max=250"`
	PicURL        string `json:"pic_url" validate:"max=250"`
	OverallRating int    `json:"overallRating"`
}

func NewRestaurant(name, restaurantType, url string, overallRating int, picURL string) Restaurant {
	return Restaurant{
		Name:          name,
		Type:          restaurantType,
		URL:           url,
		PicURL:        picURL,
		OverallRating: overallRating,
	}
}

func (r Restaurant) Validate() error { return validateEntity("restaurant", r) }

func (r Restaurant) Serialize() Record {
	return Record{
		"restaurantId":  r.ID,
		"name":          r.Name,
		"type":          r.Type,
		"url":           r.URL,
		"pic_url":       r.PicURL,
		"overallRating": r.OverallRating,
	}
}

func (r Restaurant) String() string { return fmt.Sprintf("<Restaurant %q>", r.Name) }
