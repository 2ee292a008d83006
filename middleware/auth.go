package middleware

import (
	"context"
	"net/http"

	"roamly/apperror"
	"roamly/db"
	"roamly/globals"
	"roamly/models"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// resolveUser walks the request through the full chain:
// extract -> verify -> resolve identity -> password-changed check.
// On success the resolved user is returned for attachment to the context.
func resolveUser(r *http.Request) (*models.User, error) {
	tokenString := ExtractToken(r)
	if tokenString == "" {
		return nil, apperror.Unauthenticated("You are not logged in. Please log in to access!")
	}

	claims, err := VerifyToken(tokenString)
	if err != nil {
		return nil, err
	}

	var user models.User
	err = db.UserCollection.FindOne(r.Context(), bson.M{"userid": claims.UserID, "active": true}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, apperror.StaleIdentity("The user belonging to this token does no longer exist.")
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}

	if user.ChangedPasswordAfter(claims.IssuedAt.Time) {
		return nil, apperror.StaleIdentity("User recently changed password! Please log in again.")
	}

	return &user, nil
}

// Protect gates a route behind the auth chain and attaches the resolved
// user to the request context.
func Protect(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		user, err := resolveUser(r)
		if err != nil {
			apperror.WriteAPI(w, r, err)
			return
		}
		ctx := context.WithValue(r.Context(), globals.UserKey, user)
		next(w, r.WithContext(ctx), ps)
	}
}

// RestrictTo limits an already-protected route to an allow-list of roles.
func RestrictTo(roles ...string) func(httprouter.Handle) httprouter.Handle {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}
	return func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			user := CurrentUser(r.Context())
			if user == nil || !allowed[user.Role] {
				apperror.WriteAPI(w, r, apperror.Forbidden())
				return
			}
			next(w, r, ps)
		}
	}
}

// SoftAuth runs the same chain but never rejects the request: any failure,
// including infrastructure errors, proceeds as anonymous. Used to
// personalize rendered pages without gating them.
func SoftAuth(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if user, err := resolveUser(r); err == nil {
			r = r.WithContext(context.WithValue(r.Context(), globals.UserKey, user))
		}
		next(w, r, ps)
	}
}

// CurrentUser returns the identity Protect or SoftAuth attached, or nil.
func CurrentUser(ctx context.Context) *models.User {
	user, _ := ctx.Value(globals.UserKey).(*models.User)
	return user
}
