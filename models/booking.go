package models

import "time"

type Booking struct {
	BookingID string    `json:"id" bson:"bookingid"`
	TourID    string    `json:"tour" bson:"tourid" validate:"required"`
	UserID    string    `json:"user" bson:"userid" validate:"required"`
	Price     float64   `json:"price" bson:"price" validate:"required,gt=0"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	Paid      bool      `json:"paid" bson:"paid"`
	SessionID string    `json:"-" bson:"sessionid,omitempty"`

	// Filled by the tour $lookup on single reads; never written.
	Tour *TourPreview `json:"tourDetails,omitempty" bson:"tour,omitempty"`
}

// TourPreview is the slice of a tour shown on booking reads.
type TourPreview struct {
	Name       string      `json:"name" bson:"name"`
	Slug       string      `json:"slug" bson:"slug"`
	ImageCover string      `json:"imageCover,omitempty" bson:"imageCover,omitempty"`
	StartDates []time.Time `json:"startDates,omitempty" bson:"startDates,omitempty"`
}
