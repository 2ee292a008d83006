package bookings

import (
	"context"
	"net/http"
	"time"

	"roamly/apperror"
	"roamly/db"
	"roamly/middleware"
	"roamly/models"
	"roamly/pay"
	"roamly/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CreateCheckoutSession starts payment for one tour and hands the
// provider redirect back to the client.
func CreateCheckoutSession(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), opTimeout)
	defer cancel()

	user := middleware.CurrentUser(r.Context())
	if user == nil {
		apperror.WriteAPI(w, r, apperror.Unauthenticated("You are not logged in. Please log in to access!"))
		return
	}

	var tour models.Tour
	err := db.TourCollection.FindOne(ctx, bson.M{"tourid": ps.ByName("tourId")}).Decode(&tour)
	if err != nil {
		apperror.WriteAPI(w, r, apperror.FromStore(err, "tour"))
		return
	}

	session, err := pay.Default.CreateSession(ctx, pay.Session{
		TourID: tour.TourID,
		UserID: user.UserID,
		Email:  user.Email,
		Amount: tour.Price,
	})
	if err != nil {
		apperror.WriteAPI(w, r, apperror.New(apperror.KindInternal, http.StatusBadGateway,
			"Could not start the checkout. Please try again later").Wrap(err))
		return
	}

	utils.SendData(w, http.StatusOK, utils.M{"session": session})
}

// replayedConfirmation reports whether an insert failed because the
// session was already turned into a booking.
func replayedConfirmation(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

// ConfirmCheckout is the provider callback: a completed session becomes
// a paid booking. Providers retry callbacks, so a replayed session id
// returns the booking created the first time instead of an error.
func ConfirmCheckout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), opTimeout)
	defer cancel()

	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		apperror.WriteAPI(w, r, apperror.Validation("Missing checkout session"))
		return
	}

	session, err := pay.Default.LookupSession(ctx, sessionID)
	if err != nil {
		apperror.WriteAPI(w, r, apperror.Validation("Unknown checkout session"))
		return
	}

	booking := models.Booking{
		BookingID: "b" + utils.GenerateRandomString(14),
		TourID:    session.TourID,
		UserID:    session.UserID,
		Price:     session.Amount,
		CreatedAt: time.Now(),
		Paid:      true,
		SessionID: session.ID,
	}

	if _, err := db.BookingCollection.InsertOne(ctx, booking); err != nil {
		if replayedConfirmation(err) {
			var existing models.Booking
			if ferr := db.BookingCollection.FindOne(ctx, bson.M{"sessionid": session.ID}).Decode(&existing); ferr != nil {
				apperror.WriteAPI(w, r, apperror.FromStore(ferr, "booking"))
				return
			}
			utils.SendData(w, http.StatusOK, map[string]any{"booking": existing})
			return
		}
		apperror.WriteAPI(w, r, apperror.FromStore(err, "booking"))
		return
	}

	utils.SendData(w, http.StatusCreated, map[string]any{"booking": booking})
}
