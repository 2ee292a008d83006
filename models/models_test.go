package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTour() Tour {
	return Tour{
		Name:         "The Forest Hiker Adventure",
		Duration:     5,
		MaxGroupSize: 25,
		Difficulty:   "easy",
		Price:        497,
		Summary:      "Breathtaking hike through the Canadian Banff National Park",
		ImageCover:   "tour-1-cover.jpg",
	}
}

func TestTourValidation(t *testing.T) {
	tour := validTour()
	require.NoError(t, Validate(&tour))

	short := validTour()
	short.Name = "Too short"
	assert.Error(t, Validate(&short))

	badDifficulty := validTour()
	badDifficulty.Difficulty = "impossible"
	assert.Error(t, Validate(&badDifficulty))

	lowRating := validTour()
	lowRating.RatingsAverage = 0.5
	assert.Error(t, Validate(&lowRating))

	freeTour := validTour()
	freeTour.Price = 0
	assert.Error(t, Validate(&freeTour))
}

func TestValidatePriceDiscount(t *testing.T) {
	tour := validTour()
	assert.True(t, ValidatePriceDiscount(&tour))

	tour.PriceDiscount = 100
	assert.True(t, ValidatePriceDiscount(&tour))

	tour.PriceDiscount = tour.Price
	assert.False(t, ValidatePriceDiscount(&tour))

	tour.PriceDiscount = tour.Price + 1
	assert.False(t, ValidatePriceDiscount(&tour))
}

func TestDeriveSlug(t *testing.T) {
	tour := validTour()
	tour.DeriveSlug()
	assert.Equal(t, "the-forest-hiker-adventure", tour.Slug)

	tour.Name = "The Sea  Explorer!"
	tour.DeriveSlug()
	assert.Equal(t, "the-sea-explorer", tour.Slug)
}

func TestDurationWeeks(t *testing.T) {
	tour := validTour()
	tour.Duration = 14
	assert.Equal(t, 2.0, tour.DurationWeeks())
}

func TestReviewValidation(t *testing.T) {
	review := Review{
		Review: "Loved every minute of it",
		Rating: 4,
		TourID: "t1",
		UserID: "u1",
	}
	require.NoError(t, Validate(&review))

	review.Rating = 6
	assert.Error(t, Validate(&review))

	review.Rating = 4
	review.Review = ""
	assert.Error(t, Validate(&review))
}

func TestUserValidation(t *testing.T) {
	user := User{
		Name:  "Ada",
		Email: "ada@example.com",
		Role:  RoleUser,
	}
	require.NoError(t, Validate(&user))

	user.Email = "not-an-email"
	assert.Error(t, Validate(&user))

	user.Email = "ada@example.com"
	user.Role = "superuser"
	assert.Error(t, Validate(&user))
}
