package domain

import "fmt"

// Location opening hours are nullable; a location with unknown hours cannot be serialized.
type Location struct {
	ID            int64      `json:"locationId"`
	ManagerName   string     `json:"manager_name" validate:"required,max=50"`
	PhoneNumber   string     `json:"phone_number" validate:"required,max=14"`
	StreetAddress string     `json:"street_address" validate:"required,max=100"`
	Open          *TimeOfDay `json:"open"`
	Close         *TimeOfDay `json:"close"`
	RestaurantID  int64      `json:"restaurantId" validate:"gt=0"`
}

func NewLocation(managerName, phoneNumber, streetAddress string, opens, closes *TimeOfDay, restaurantID int64) Location {
	return Location{
		ManagerName:   managerName,
		PhoneNumber:   phoneNumber,
		StreetAddress: streetAddress,
		Open:          opens,
		Close:         closes,
		RestaurantID:  restaurantID,
	}
}

func (l Location) Validate() error { return validateEntity("location", l) }

func (l Location) Serialize() (Record, error) {
	open, err := ISOFormat(l.Open)
	if err != nil {
		return nil, fmt.Errorf("location %d open: %w", l.ID, err)
	}
	closing, err := ISOFormat(l.Close)
	if err != nil {
		return nil, fmt.Errorf("location %d close: %w", l.ID, err)
	}
	return Record{
		"locationId":     l.ID,
		"manager_name":   l.ManagerName,
		"phone_number":   l.PhoneNumber,
		"street_address": l.StreetAddress,
		"open":           open,
		"close":          closing,
		"restaurantId":   l.RestaurantID,
	}, nil
}

func (l Location) String() string { return fmt.Sprintf("<Location: %d>", l.ID) }
