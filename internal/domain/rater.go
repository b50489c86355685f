package domain

import "fmt"

// DefaultRaterType is applied by the store when a rater is saved with an empty type.
const DefaultRaterType = "online"

type Rater struct {
	UserID     string `json:"userId" validate:"required,max=50"`
	Email      string `json:"email" validate:"required,max=50"`
	Name       string `json:"name" validate:"max=50"`
	JoinDate   string `json:"join_date" validate:"required,max=100"`
	Type       string `json:"type" validate:"max=11"`
	Reputation int    `json:"reputation" validate:"gte=1,lte=5"`
}

func NewRater(userID, email, name, joinDate, raterType string, reputation int) Rater {
	return Rater{
		UserID:     userID,
		Email:      email,
		Name:       name,
		JoinDate:   joinDate,
		Type:       raterType,
		Reputation: reputation,
	}
}

func (r Rater) Validate() error { return validateEntity("rater", r) }

// Serialize passes join_date through as stored text.
func (r Rater) Serialize() Record {
	return Record{
		"userId":     r.UserID,
		"email":      r.Email,
		"name":       r.Name,
		"join_date":  r.JoinDate,
		"type":       r.Type,
		"reputation": r.Reputation,
	}
}

func (r Rater) String() string { return fmt.Sprintf("<Rater %q>", r.UserID) }
