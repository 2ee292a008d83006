package tours

import (
	"context"
	"net/http"
	"time"

	"roamly/apperror"
	"roamly/db"
	"roamly/factory"
	"roamly/models"
	"roamly/rdx"
	"roamly/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Resource wires the generic handlers for tours. Secret tours are scoped
// out of list reads by the explicit excludeSecretTours stage rather than
// a hidden model hook.
var Resource = factory.Resource[models.Tour]{
	Name:    "tour",
	Coll:    func() *mongo.Collection { return db.TourCollection },
	IDField: "tourid",
	Populate: []factory.Populate{{
		From:         "users",
		LocalField:   "guides",
		ForeignField: "userid",
		As:           "guideDetails",
		Project:      bson.M{"name": 1, "photo": 1, "role": 1, "_id": 0},
	}},
	BaseFilter:    excludeSecretTours,
	PrepareCreate: prepareNewTour,
	PrepareUpdate: prepareTourUpdate,
	AfterCreate:   invalidateCaches,
	AfterUpdate: func(ctx context.Context, _, after *models.Tour) {
		invalidateCaches(ctx, after)
	},
	AfterDelete: invalidateCaches,
}

// Derived listings (top 5, stats) are cached; any tour write drops them.
func invalidateCaches(ctx context.Context, _ *models.Tour) {
	rdx.InvalidateTourCaches(ctx)
}

func excludeSecretTours(_ *http.Request, _ httprouter.Params) bson.M {
	return bson.M{"secretTour": bson.M{"$ne": true}}
}

// prepareNewTour runs the named create stages: assign id, stamp creation
// time, force the derived rating fields to their defaults, derive the
// slug, and check the discount. The discount check runs on create only;
// updates never re-ran it in the original system and that is kept.
func prepareNewTour(_ *http.Request, _ httprouter.Params, doc *models.Tour) error {
	doc.TourID = "t" + utils.GenerateRandomString(14)
	doc.CreatedAt = time.Now()
	doc.RatingsAverage = models.DefaultRatingsAverage
	doc.RatingsQuantity = 0
	doc.GuideDetails = nil
	doc.DeriveSlug()

	if doc.StartLocation != nil && doc.StartLocation.Type == "" {
		doc.StartLocation.Type = "Point"
	}
	for i := range doc.Locations {
		if doc.Locations[i].Type == "" {
			doc.Locations[i].Type = "Point"
		}
	}

	if !models.ValidatePriceDiscount(doc) {
		return apperror.Validation("Discount price should be below regular price")
	}
	return nil
}

// prepareTourUpdate re-derives the slug and pins the fields clients may
// not set directly.
func prepareTourUpdate(_ *http.Request, _ httprouter.Params, before, doc *models.Tour) error {
	doc.TourID = before.TourID
	doc.CreatedAt = before.CreatedAt
	doc.RatingsAverage = before.RatingsAverage
	doc.RatingsQuantity = before.RatingsQuantity
	doc.GuideDetails = nil
	doc.DeriveSlug()
	return nil
}
