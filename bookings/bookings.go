// Package bookings ties users to purchased tours: checkout, the booking
// records behind it, and the printable ticket.
package bookings

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

const opTimeout = 5 * time.Second

// Resource is the admin and lead-guide booking CRUD. Bookings normally
// come from checkout; direct creation is for office sales.
var Resource = factory.Resource[models.Booking]{
	Name:    "booking",
	Coll:    func() *mongo.Collection { return db.BookingCollection },
	IDField: "bookingid",
	Populate: []factory.Populate{{
		From:         "tours",
		LocalField:   "tourid",
		ForeignField: "tourid",
		As:           "tour",
		Project:      bson.M{"name": 1, "slug": 1, "imageCover": 1, "startDates": 1, "_id": 0},
		Single:       true,
	}},
	PrepareCreate: prepareManualBooking,
	PrepareUpdate: pinBookingRefs,
}

func prepareManualBooking(_ *http.Request, _ httprouter.Params, doc *models.Booking) error {
	if doc.TourID == "" || doc.UserID == "" {
		return apperror.Validation("A booking needs a tour and a user")
	}
	doc.BookingID = "b" + utils.GenerateRandomString(14)
	doc.CreatedAt = time.Now()
	doc.Tour = nil
	return nil
}

func pinBookingRefs(_ *http.Request, _ httprouter.Params, before, doc *models.Booking) error {
	doc.BookingID = before.BookingID
	doc.TourID = before.TourID
	doc.UserID = before.UserID
	doc.CreatedAt = before.CreatedAt
	doc.Tour = nil
	return nil
}

// GetMyTours lists the tours the logged-in user has booked.
func GetMyTours(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), opTimeout)
	defer cancel()

	user := middleware.CurrentUser(r.Context())
	if user == nil {
		apperror.WriteAPI(w, r, apperror.Unauthenticated("You are not logged in. Please log in to access!"))
		return
	}

	tours, err := ToursForUser(ctx, user.UserID)
	if err != nil {
		apperror.WriteAPI(w, r, apperror.Internal(err))
		return
	}

	utils.SendList(w, http.StatusOK, len(tours), map[string]any{"tours": tours})
}

// ToursForUser resolves a user's bookings to the booked tours. Shared by
// the API endpoint and the rendered my-tours page.
func ToursForUser(ctx context.Context, userID string) ([]models.Tour, error) {
	bookings, err := utils.FindAndDecode[models.Booking](ctx,
		db.BookingCollection, bson.M{"userid": userID})
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return []models.Tour{}, nil
	}

	ids := make([]string, 0, len(bookings))
	for _, b := range bookings {
		ids = append(ids, b.TourID)
	}

	return utils.FindAndDecode[models.Tour](ctx,
		db.TourCollection, bson.M{"tourid": bson.M{"$in": ids}})
}
