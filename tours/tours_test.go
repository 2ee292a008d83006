package tours

import (
	"testing"

	"roamly/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepareNewTourSetsDerivedFields(t *testing.T) {
	doc := &models.Tour{
		Name:           "The Forest Hiker Adventure",
		Price:          497,
		RatingsAverage: 1, // client-supplied, must be overridden
		StartLocation:  &models.Location{Coordinates: []float64{-80.18, 25.76}},
		Locations:      []models.Location{{Coordinates: []float64{-80.1, 25.7}}},
	}

	require.NoError(t, prepareNewTour(nil, nil, doc))

	assert.NotEmpty(t, doc.TourID)
	assert.False(t, doc.CreatedAt.IsZero())
	assert.Equal(t, models.DefaultRatingsAverage, doc.RatingsAverage)
	assert.Equal(t, 0, doc.RatingsQuantity)
	assert.Equal(t, "the-forest-hiker-adventure", doc.Slug)
	assert.Equal(t, "Point", doc.StartLocation.Type)
	assert.Equal(t, "Point", doc.Locations[0].Type)
}

func TestPrepareNewTourRejectsBadDiscount(t *testing.T) {
	doc := &models.Tour{
		Name:          "The Forest Hiker Adventure",
		Price:         497,
		PriceDiscount: 500,
	}
	assert.Error(t, prepareNewTour(nil, nil, doc))
}

func TestPrepareTourUpdatePinsDerivedFields(t *testing.T) {
	before := models.Tour{
		TourID:          "t1",
		Name:            "The Forest Hiker Adventure",
		Slug:            "the-forest-hiker-adventure",
		RatingsAverage:  4.8,
		RatingsQuantity: 12,
	}

	patched := before
	patched.Name = "The Renamed Forest Hike"
	patched.RatingsAverage = 5 // client tries to bump the rating
	patched.RatingsQuantity = 999

	require.NoError(t, prepareTourUpdate(nil, nil, &before, &patched))

	assert.Equal(t, "t1", patched.TourID)
	assert.Equal(t, 4.8, patched.RatingsAverage)
	assert.Equal(t, 12, patched.RatingsQuantity)
	assert.Equal(t, "the-renamed-forest-hike", patched.Slug)
}

func TestParseLatLng(t *testing.T) {
	lat, lng, err := parseLatLng("34.111745,-118.113491")
	require.NoError(t, err)
	assert.Equal(t, 34.111745, lat)
	assert.Equal(t, -118.113491, lng)

	_, _, err = parseLatLng("34.111745")
	assert.Error(t, err)

	_, _, err = parseLatLng("north,west")
	assert.Error(t, err)
}
