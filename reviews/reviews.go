package reviews

import (
	"context"
	"net/http"
	"time"

	"roamly/apperror"
	"roamly/db"
	"roamly/factory"
	"roamly/middleware"
	"roamly/models"
	"roamly/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Resource wires the generic handlers for reviews. Creation is reached
// both flat (/api/v1/reviews) and nested under a tour
// (/api/v1/tours/:id/reviews); the nested tour id scopes list reads and
// defaults the tour reference on create.
var Resource = factory.Resource[models.Review]{
	Name:    "review",
	Coll:    func() *mongo.Collection { return db.ReviewCollection },
	IDField: "reviewid",
	Populate: []factory.Populate{{
		From:         "users",
		LocalField:   "userid",
		ForeignField: "userid",
		As:           "author",
		Project:      bson.M{"name": 1, "photo": 1, "_id": 0},
		Single:       true,
	}},
	BaseFilter:    scopeToTour,
	PrepareCreate: setTourUserIDs,
	PrepareUpdate: pinReferences,
	AfterCreate: func(ctx context.Context, doc *models.Review) {
		RecalcTourRatings(ctx, doc.TourID)
	},
	AfterUpdate: func(ctx context.Context, before, _ *models.Review) {
		// recompute targets the tour the review was attached to
		RecalcTourRatings(ctx, before.TourID)
	},
	AfterDelete: func(ctx context.Context, before *models.Review) {
		RecalcTourRatings(ctx, before.TourID)
	},
}

func scopeToTour(_ *http.Request, ps httprouter.Params) bson.M {
	if tourID := ps.ByName("id"); tourID != "" {
		return bson.M{"tourid": tourID}
	}
	return bson.M{}
}

// setTourUserIDs is the explicit set-ids stage: the tour reference
// defaults from the nested route, the author from the authenticated user.
func setTourUserIDs(r *http.Request, ps httprouter.Params, doc *models.Review) error {
	if doc.TourID == "" {
		doc.TourID = ps.ByName("id")
	}
	user := middleware.CurrentUser(r.Context())
	if user == nil {
		return apperror.Unauthenticated("You are not logged in. Please log in to access!")
	}
	doc.UserID = user.UserID

	doc.ReviewID = "r" + utils.GenerateRandomString(14)
	doc.CreatedAt = time.Now()
	doc.Author = nil
	return nil
}

// pinReferences keeps a patched review on its original tour and author.
func pinReferences(_ *http.Request, _ httprouter.Params, before, doc *models.Review) error {
	doc.ReviewID = before.ReviewID
	doc.TourID = before.TourID
	doc.UserID = before.UserID
	doc.CreatedAt = before.CreatedAt
	doc.Author = nil
	return nil
}
