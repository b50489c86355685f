package domain

import "fmt"

type MenuItem struct {
	ID           int64  `json:"itemId"`
	RestaurantID int64  `json:"restaurantId" validate:"gt=0"`
	Name         string `json:"name" validate:"max=50"`
	Type         string `json:"type" validate:"max=20"`
	Category     string `json:"category" validate:"max=20"`
	Description  string `json:"description" validate:"max=500"`
	Price        int    `json:"price" validate:"gte=0"`
}

func NewMenuItem(restaurantID int64, name, itemType, category, description string, price int) MenuItem {
	return MenuItem{
		RestaurantID: restaurantID,
		Name:         name,
		Type:         itemType,
		Category:     category,
		Description:  description,
		Price:        price,
	}
}

func (m MenuItem) Validate() error { return validateEntity("menu_item", m) }

func (m MenuItem) Serialize() Record {
	return Record{
		"itemId":       m.ID,
		"restaurantId": m.RestaurantID,
		"name":         m.Name,
		"type":         m.Type,
		"category":     m.Category,
		"description":  m.Description,
		"price":        m.Price,
	}
}

func (m MenuItem) String() string { return fmt.Sprintf("<Item Id: %d>", m.ID) }
