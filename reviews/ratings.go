package reviews

import (
	"context"

	"roamly/db"
	"roamly/logger"
	"roamly/models"
	"roamly/rdx"
	"roamly/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ratingStats is the aggregation result over one tour's reviews.
type ratingStats struct {
	NRating   int     `bson:"nRating"`
	AvgRating float64 `bson:"avgRating"`
}

// RatingUpdate maps aggregation output to the derived fields written on
// the tour. When the last review is gone the tour falls back to the
// schema default instead of showing zero.
func RatingUpdate(stats []ratingStats) bson.M {
	if len(stats) == 0 {
		return bson.M{
			"ratingsQuantity": 0,
			"ratingsAverage":  models.DefaultRatingsAverage,
		}
	}
	return bson.M{
		"ratingsQuantity": stats[0].NRating,
		"ratingsAverage":  utils.Round1(stats[0].AvgRating),
	}
}

// RecalcTourRatings recomputes ratingsQuantity and ratingsAverage for a
// tour from the live review set. Not transactional with the triggering
// write: concurrent recomputes race last-writer-wins, but each run is a
// pure function of current review state, so the next trigger heals any
// stale value.
func RecalcTourRatings(ctx context.Context, tourID string) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"tourid": tourID}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":       "$tourid",
			"nRating":   bson.M{"$sum": 1},
			"avgRating": bson.M{"$avg": "$rating"},
		}}},
	}

	stats, err := utils.AggregateAndDecode[ratingStats](ctx, db.ReviewCollection, pipeline)
	if err != nil {
		logger.Log.Error().Err(err).Str("tour", tourID).Msg("rating aggregation failed")
		return
	}

	_, err = db.TourCollection.UpdateOne(ctx,
		bson.M{"tourid": tourID},
		bson.M{"$set": RatingUpdate(stats)},
	)
	if err != nil {
		logger.Log.Error().Err(err).Str("tour", tourID).Msg("rating write-back failed")
		return
	}

	rdx.InvalidateTourCaches(ctx)
}
