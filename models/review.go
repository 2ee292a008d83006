package models

import "time"

type Review struct {
	ReviewID  string    `json:"id" bson:"reviewid"`
	Review    string    `json:"review" bson:"review" validate:"required"`
	Rating    float64   `json:"rating" bson:"rating" validate:"required,min=1,max=5"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	TourID    string    `json:"tour" bson:"tourid" validate:"required"`
	UserID    string    `json:"user" bson:"userid" validate:"required"`

	// Filled by the user $lookup on reads; never written.
	Author *ReviewAuthor `json:"author,omitempty" bson:"author,omitempty"`
}

type ReviewAuthor struct {
	Name  string `json:"name" bson:"name"`
	Photo string `json:"photo,omitempty" bson:"photo,omitempty"`
}
