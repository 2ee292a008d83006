package tours

import (
	"context"
	"net/http"

	"roamly/apperror"
	"roamly/db"
	"roamly/models"
	"roamly/rdx"
	"roamly/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetTopCheap serves the canned "top 5 cheap" listing: best rated first,
// cheapest breaking ties, summary fields only. Cached because it is the
// landing-page query.
func GetTopCheap(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), opTimeout)
	defer cancel()

	if tours, ok := rdx.GetJSON[[]models.Tour](ctx, rdx.KeyTopTours); ok {
		utils.SendList(w, http.StatusOK, len(tours), map[string]any{"tours": tours})
		return
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "ratingsAverage", Value: -1}, {Key: "price", Value: 1}}).
		SetProjection(bson.M{
			"tourid":         1,
			"name":           1,
			"slug":           1,
			"price":          1,
			"ratingsAverage": 1,
			"summary":        1,
			"difficulty":     1,
			"imageCover":     1,
			"_id":            0,
		}).
		SetLimit(5)

	tours, err := utils.FindAndDecode[models.Tour](ctx,
		db.TourCollection, bson.M{"secretTour": bson.M{"$ne": true}}, opts)
	if err != nil {
		apperror.WriteAPI(w, r, apperror.Internal(err))
		return
	}

	rdx.SetJSON(ctx, rdx.KeyTopTours, tours, cacheTTL)

	utils.SendList(w, http.StatusOK, len(tours), map[string]any{"tours": tours})
}
