package tours

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"roamly/apperror"
	"roamly/db"
	"roamly/models"
	"roamly/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Earth radii used to turn a surface distance into radians.
const (
	earthRadiusMiles = 3963.2
	earthRadiusKM    = 6378.1
)

// TourDistance pairs a tour with its distance from the query point.
type TourDistance struct {
	TourID   string  `json:"id" bson:"tourid"`
	Name     string  `json:"name" bson:"name"`
	Distance float64 `json:"distance" bson:"distance"`
}

// parseLatLng splits a "lat,lng" path segment.
func parseLatLng(latlng string) (float64, float64, error) {
	parts := strings.SplitN(latlng, ",", 2)
	if len(parts) != 2 {
		return 0, 0, apperror.Validation("Please provide latitude and longitude in the format lat,lng")
	}
	lat, errLat := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lng, errLng := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errLat != nil || errLng != nil {
		return 0, 0, apperror.Validation("Please provide latitude and longitude in the format lat,lng")
	}
	return lat, lng, nil
}

// GetToursWithin finds tours whose start location falls inside a sphere
// of the given radius around a point.
// Route shape: /tours-within/:distance/center/:latlng/unit/:unit
func GetToursWithin(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), opTimeout)
	defer cancel()

	distance, err := strconv.ParseFloat(ps.ByName("distance"), 64)
	if err != nil || distance < 0 {
		apperror.WriteAPI(w, r, apperror.Validation("Invalid distance"))
		return
	}
	lat, lng, err := parseLatLng(ps.ByName("latlng"))
	if err != nil {
		apperror.WriteAPI(w, r, err)
		return
	}

	radius := distance / earthRadiusMiles
	if ps.ByName("unit") == "km" {
		radius = distance / earthRadiusKM
	}

	filter := bson.M{
		"secretTour": bson.M{"$ne": true},
		"startLocation": bson.M{"$geoWithin": bson.M{
			"$centerSphere": []any{[]float64{lng, lat}, radius},
		}},
	}

	tours, err := utils.FindAndDecode[models.Tour](ctx, db.TourCollection, filter)
	if err != nil {
		apperror.WriteAPI(w, r, apperror.Internal(err))
		return
	}

	utils.SendList(w, http.StatusOK, len(tours), map[string]any{"tours": tours})
}

// GetDistances reports the distance from a point to every tour's start
// location, nearest first.
// Route shape: /distances/:latlng/unit/:unit
func GetDistances(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), opTimeout)
	defer cancel()

	lat, lng, err := parseLatLng(ps.ByName("latlng"))
	if err != nil {
		apperror.WriteAPI(w, r, err)
		return
	}

	// meters to miles by default, to kilometers on request
	multiplier := 0.000621371
	if ps.ByName("unit") == "km" {
		multiplier = 0.001
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$geoNear", Value: bson.M{
			"near": bson.M{
				"type":        "Point",
				"coordinates": []float64{lng, lat},
			},
			"distanceField":      "distance",
			"distanceMultiplier": multiplier,
		}}},
		bson.D{{Key: "$match", Value: bson.M{"secretTour": bson.M{"$ne": true}}}},
		bson.D{{Key: "$project", Value: bson.M{"distance": 1, "name": 1, "tourid": 1}}},
	}

	distances, err := utils.AggregateAndDecode[TourDistance](ctx, db.TourCollection, pipeline)
	if err != nil {
		apperror.WriteAPI(w, r, apperror.Internal(err))
		return
	}

	utils.SendList(w, http.StatusOK, len(distances), map[string]any{"distances": distances})
}
