package tours

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"roamly/apperror"
	"roamly/db"
	"roamly/rdx"
	"roamly/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	opTimeout = 5 * time.Second
	cacheTTL  = 10 * time.Minute
)

// DifficultyStats is one row of the per-difficulty rollup.
type DifficultyStats struct {
	Difficulty string  `json:"difficulty" bson:"_id"`
	NumTours   int     `json:"numTours" bson:"numTours"`
	NumRatings int     `json:"numRatings" bson:"numRatings"`
	AvgRating  float64 `json:"avgRating" bson:"avgRating"`
	AvgPrice   float64 `json:"avgPrice" bson:"avgPrice"`
	MinPrice   float64 `json:"minPrice" bson:"minPrice"`
	MaxPrice   float64 `json:"maxPrice" bson:"maxPrice"`
}

// MonthPlan is one month's slice of the yearly schedule.
type MonthPlan struct {
	Month         int      `json:"month" bson:"month"`
	NumTourStarts int      `json:"numTourStarts" bson:"numTourStarts"`
	Tours         []string `json:"tours" bson:"tours"`
}

// tourStatsPipeline rolls up well-rated, publicly listed tours by
// difficulty. Secret tours never show up in the aggregates.
func tourStatsPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"ratingsAverage": bson.M{"$gte": 4.5},
			"secretTour":     bson.M{"$ne": true},
		}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":        bson.M{"$toUpper": "$difficulty"},
			"numTours":   bson.M{"$sum": 1},
			"numRatings": bson.M{"$sum": "$ratingsQuantity"},
			"avgRating":  bson.M{"$avg": "$ratingsAverage"},
			"avgPrice":   bson.M{"$avg": "$price"},
			"minPrice":   bson.M{"$min": "$price"},
			"maxPrice":   bson.M{"$max": "$price"},
		}}},
		bson.D{{Key: "$sort", Value: bson.M{"avgPrice": 1}}},
	}
}

// GetTourStats serves the difficulty rollup. The result only changes on
// tour writes, so it is served from cache when possible.
func GetTourStats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), opTimeout)
	defer cancel()

	if stats, ok := rdx.GetJSON[[]DifficultyStats](ctx, rdx.KeyTourStats); ok {
		utils.SendData(w, http.StatusOK, map[string]any{"stats": stats})
		return
	}

	stats, err := utils.AggregateAndDecode[DifficultyStats](ctx, db.TourCollection, tourStatsPipeline())
	if err != nil {
		apperror.WriteAPI(w, r, apperror.Internal(err))
		return
	}

	rdx.SetJSON(ctx, rdx.KeyTourStats, stats, cacheTTL)

	utils.SendData(w, http.StatusOK, map[string]any{"stats": stats})
}

// GetMonthlyPlan counts tour starts per month of a year, busiest month
// first.
func GetMonthlyPlan(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), opTimeout)
	defer cancel()

	year, err := strconv.Atoi(ps.ByName("year"))
	if err != nil {
		apperror.WriteAPI(w, r, apperror.Validation("Invalid year"))
		return
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$unwind", Value: "$startDates"}},
		bson.D{{Key: "$match", Value: bson.M{"startDates": bson.M{
			"$gte": yearStart(year),
			"$lte": yearEnd(year),
		}}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":           bson.M{"$month": "$startDates"},
			"numTourStarts": bson.M{"$sum": 1},
			"tours":         bson.M{"$push": "$name"},
		}}},
		bson.D{{Key: "$addFields", Value: bson.M{"month": "$_id"}}},
		bson.D{{Key: "$project", Value: bson.M{"_id": 0}}},
		bson.D{{Key: "$sort", Value: bson.M{"numTourStarts": -1}}},
		bson.D{{Key: "$limit", Value: 12}},
	}

	plan, err := utils.AggregateAndDecode[MonthPlan](ctx, db.TourCollection, pipeline)
	if err != nil {
		apperror.WriteAPI(w, r, apperror.Internal(err))
		return
	}

	utils.SendList(w, http.StatusOK, len(plan), map[string]any{"plan": plan})
}

func yearStart(year int) time.Time {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
}

func yearEnd(year int) time.Time {
	return time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)
}
