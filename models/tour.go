package models

import (
	"time"

	"github.com/gosimple/slug"
)

// Location is a GeoJSON point with display metadata.
type Location struct {
	Type        string    `json:"type" bson:"type"`
	Coordinates []float64 `json:"coordinates" bson:"coordinates"`
	Address     string    `json:"address,omitempty" bson:"address,omitempty"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Day         int       `json:"day,omitempty" bson:"day,omitempty"`
}

type Tour struct {
	TourID          string      `json:"id" bson:"tourid"`
	Name            string      `json:"name" bson:"name" validate:"required,min=10,max=40"`
	Slug            string      `json:"slug" bson:"slug"`
	Duration        int         `json:"duration" bson:"duration" validate:"required,gt=0"`
	MaxGroupSize    int         `json:"maxGroupSize" bson:"maxGroupSize" validate:"required,gt=0"`
	Difficulty      string      `json:"difficulty" bson:"difficulty" validate:"required,oneof=easy medium difficult"`
	RatingsAverage  float64     `json:"ratingsAverage" bson:"ratingsAverage" validate:"omitempty,min=1,max=5"`
	RatingsQuantity int         `json:"ratingsQuantity" bson:"ratingsQuantity"`
	Price           float64     `json:"price" bson:"price" validate:"required,gt=0"`
	PriceDiscount   float64     `json:"priceDiscount,omitempty" bson:"priceDiscount,omitempty"`
	Summary         string      `json:"summary" bson:"summary" validate:"required"`
	Description     string      `json:"description,omitempty" bson:"description,omitempty"`
	ImageCover      string      `json:"imageCover" bson:"imageCover" validate:"required"`
	Images          []string    `json:"images,omitempty" bson:"images,omitempty"`
	CreatedAt       time.Time   `json:"createdAt" bson:"createdAt"`
	StartLocation   *Location   `json:"startLocation,omitempty" bson:"startLocation,omitempty"`
	Locations       []Location  `json:"locations,omitempty" bson:"locations,omitempty"`
	StartDates      []time.Time `json:"startDates,omitempty" bson:"startDates,omitempty"`
	Guides          []string    `json:"guides,omitempty" bson:"guides,omitempty"`
	SecretTour      bool        `json:"secretTour" bson:"secretTour"`

	// Filled by the guides $lookup on single reads; never written.
	GuideDetails []GuidePreview `json:"guideDetails,omitempty" bson:"guideDetails,omitempty"`
}

type GuidePreview struct {
	Name  string `json:"name" bson:"name"`
	Photo string `json:"photo,omitempty" bson:"photo,omitempty"`
	Role  string `json:"role" bson:"role"`
}

// DefaultRatingsAverage is what a tour displays before it has reviews,
// and again after its last review is removed.
const DefaultRatingsAverage = 4.5

// DeriveSlug recomputes the slug from the name. Called as an explicit
// stage on every create and update.
func (t *Tour) DeriveSlug() {
	t.Slug = slug.Make(t.Name)
}

// DurationWeeks is derived, never stored.
func (t Tour) DurationWeeks() float64 {
	return float64(t.Duration) / 7
}
