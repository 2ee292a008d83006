// Package users exposes profile self-service and the admin user CRUD.
package users

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"roamly/apperror"
	"roamly/db"
	"roamly/factory"
	"roamly/filedrop"
	"roamly/middleware"
	"roamly/models"
	"roamly/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const opTimeout = 5 * time.Second

// Resource covers the admin-only user CRUD. Creation goes through signup
// so that password handling stays in one place.
var Resource = factory.Resource[models.User]{
	Name:    "user",
	Coll:    func() *mongo.Collection { return db.UserCollection },
	IDField: "userid",
	BaseFilter: func(_ *http.Request, _ httprouter.Params) bson.M {
		return bson.M{"active": true}
	},
	PrepareUpdate: pinCredentials,
}

// pinCredentials keeps admin edits away from credential fields.
func pinCredentials(_ *http.Request, _ httprouter.Params, before, doc *models.User) error {
	doc.UserID = before.UserID
	doc.Password = before.Password
	doc.PasswordChangedAt = before.PasswordChangedAt
	doc.PasswordResetToken = before.PasswordResetToken
	doc.PasswordResetExpires = before.PasswordResetExpires
	doc.Active = before.Active
	doc.CreatedAt = before.CreatedAt
	return nil
}

// CreateUser exists only to point API users at the signup flow.
func CreateUser(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	apperror.WriteAPI(w, r, apperror.New(apperror.KindValidation, http.StatusBadRequest,
		"This route is not for creating users. Please use /signup instead"))
}

// GetMe returns the logged-in user's own profile.
func GetMe(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	user := middleware.CurrentUser(r.Context())
	if user == nil {
		apperror.WriteAPI(w, r, apperror.Unauthenticated("You are not logged in. Please log in to access!"))
		return
	}
	utils.SendData(w, http.StatusOK, utils.M{"user": user})
}

// UpdateMe lets a user change their own name and email, nothing else.
// Unknown fields are dropped; password fields get an explicit rejection
// so callers learn about the dedicated route.
func UpdateMe(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), opTimeout)
	defer cancel()

	user := middleware.CurrentUser(r.Context())
	if user == nil {
		apperror.WriteAPI(w, r, apperror.Unauthenticated("You are not logged in. Please log in to access!"))
		return
	}

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		apperror.WriteAPI(w, r, apperror.Validation("Invalid input data"))
		return
	}

	if _, ok := body["password"]; ok {
		apperror.WriteAPI(w, r, apperror.Validation(
			"This route is not for password updates. Please use /updateMyPassword"))
		return
	}
	if _, ok := body["passwordConfirm"]; ok {
		apperror.WriteAPI(w, r, apperror.Validation(
			"This route is not for password updates. Please use /updateMyPassword"))
		return
	}

	// allow-list, never block-list
	update := bson.M{}
	for _, field := range []string{"name", "email"} {
		if v, ok := body[field].(string); ok && v != "" {
			update[field] = v
		}
	}
	if len(update) == 0 {
		apperror.WriteAPI(w, r, apperror.Validation("Nothing to update. Allowed fields: name, email"))
		return
	}

	patched := *user
	if v, ok := update["name"].(string); ok {
		patched.Name = v
	}
	if v, ok := update["email"].(string); ok {
		patched.Email = v
	}
	if err := models.Validate(&patched); err != nil {
		apperror.WriteAPI(w, r, apperror.FromValidator(err))
		return
	}

	if _, err := db.UserCollection.UpdateOne(ctx,
		bson.M{"userid": user.UserID}, bson.M{"$set": update}); err != nil {
		apperror.WriteAPI(w, r, apperror.FromStore(err, "user"))
		return
	}

	utils.SendData(w, http.StatusOK, utils.M{"user": patched})
}

// DeleteMe deactivates the account. The record stays for referential
// integrity; every read filters on active.
func DeleteMe(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), opTimeout)
	defer cancel()

	user := middleware.CurrentUser(r.Context())
	if user == nil {
		apperror.WriteAPI(w, r, apperror.Unauthenticated("You are not logged in. Please log in to access!"))
		return
	}

	if _, err := db.UserCollection.UpdateOne(ctx,
		bson.M{"userid": user.UserID}, bson.M{"$set": bson.M{"active": false}}); err != nil {
		apperror.WriteAPI(w, r, apperror.Internal(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UploadMyPhoto processes the "photo" form field to a 500x500 square and
// stores the filename on the profile.
func UploadMyPhoto(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	user := middleware.CurrentUser(r.Context())
	if user == nil {
		apperror.WriteAPI(w, r, apperror.Unauthenticated("You are not logged in. Please log in to access!"))
		return
	}

	if err := r.ParseMultipartForm(16 << 20); err != nil {
		apperror.WriteAPI(w, r, apperror.Validation("Invalid multipart form"))
		return
	}
	photos := r.MultipartForm.File["photo"]
	if len(photos) == 0 {
		apperror.WriteAPI(w, r, apperror.Validation("No photo uploaded"))
		return
	}

	name, err := filedrop.SaveUserPhoto(photos[0], user.UserID)
	if err != nil {
		apperror.WriteAPI(w, r, apperror.Validation(err.Error()))
		return
	}

	if _, err := db.UserCollection.UpdateOne(ctx,
		bson.M{"userid": user.UserID}, bson.M{"$set": bson.M{"photo": name}}); err != nil {
		apperror.WriteAPI(w, r, apperror.Internal(err))
		return
	}

	utils.SendData(w, http.StatusOK, utils.M{"photo": name})
}
