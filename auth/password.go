package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"roamly/apperror"
	"roamly/db"
	"roamly/mailer"
	"roamly/middleware"
	"roamly/models"
	"roamly/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"
)

const resetTokenTTL = 10 * time.Minute

type passwordPair struct {
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

func (p passwordPair) check() error {
	if len(p.Password) < 8 {
		return apperror.Validation("Password must be at least 8 characters")
	}
	if p.Password != p.PasswordConfirm {
		return apperror.Validation("Passwords are not the same")
	}
	return nil
}

// setPassword hashes and stores a new password. PasswordChangedAt is
// backdated a second so a token signed in the same instant still passes
// the staleness check.
func setPassword(ctx context.Context, userID, plain string, extra bson.M) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), 12)
	if err != nil {
		return apperror.Internal(err)
	}

	set := bson.M{
		"password":          string(hash),
		"passwordChangedAt": time.Now().Add(-time.Second),
	}
	for k, v := range extra {
		set[k] = v
	}

	_, err = db.UserCollection.UpdateOne(ctx, bson.M{"userid": userID}, bson.M{"$set": set})
	if err != nil {
		return apperror.Internal(err)
	}
	return nil
}

// ForgotPassword mails a single-use reset link. Only the sha256 of the
// token is stored; if the mail cannot be sent the token is cleared so no
// orphaned credential survives.
func ForgotPassword(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		apperror.WriteAPI(w, r, apperror.Validation("Please provide your email address"))
		return
	}

	var user models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"email": req.Email, "active": true}).Decode(&user)
	if err != nil {
		apperror.WriteAPI(w, r, apperror.NotFound("There is no user with that email address"))
		return
	}

	token, err := utils.GenerateSecureToken(32)
	if err != nil {
		apperror.WriteAPI(w, r, apperror.Internal(err))
		return
	}

	_, err = db.UserCollection.UpdateOne(ctx, bson.M{"userid": user.UserID}, bson.M{"$set": bson.M{
		"passwordResetToken":   utils.HashToken(token),
		"passwordResetExpires": time.Now().Add(resetTokenTTL),
	}})
	if err != nil {
		apperror.WriteAPI(w, r, apperror.Internal(err))
		return
	}

	scheme := "https"
	if r.TLS == nil {
		scheme = "http"
	}
	resetURL := fmt.Sprintf("%s://%s/api/v1/users/resetPassword/%s", scheme, r.Host, token)

	if err := mailer.SendPasswordReset(user.Email, resetURL); err != nil {
		db.UserCollection.UpdateOne(ctx, bson.M{"userid": user.UserID}, bson.M{"$unset": bson.M{
			"passwordResetToken":   "",
			"passwordResetExpires": "",
		}})
		apperror.WriteAPI(w, r, apperror.New(apperror.KindInternal, http.StatusInternalServerError,
			"There was an error sending the email. Try again later!").Wrap(err))
		return
	}

	utils.SendData(w, http.StatusOK, utils.M{"message": "Token sent to email!"})
}

// ResetPassword consumes a reset token and sets the new password.
func ResetPassword(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), opTimeout)
	defer cancel()

	var pair passwordPair
	if err := json.NewDecoder(r.Body).Decode(&pair); err != nil {
		apperror.WriteAPI(w, r, apperror.Validation("Invalid input data"))
		return
	}
	if err := pair.check(); err != nil {
		apperror.WriteAPI(w, r, err)
		return
	}

	var user models.User
	err := db.UserCollection.FindOne(ctx, bson.M{
		"passwordResetToken":   utils.HashToken(ps.ByName("token")),
		"passwordResetExpires": bson.M{"$gt": time.Now()},
	}).Decode(&user)
	if err != nil {
		apperror.WriteAPI(w, r, apperror.Validation("Token is invalid or has expired"))
		return
	}

	if err := setPassword(ctx, user.UserID, pair.Password, bson.M{
		"passwordResetToken":   "",
		"passwordResetExpires": time.Time{},
	}); err != nil {
		apperror.WriteAPI(w, r, err)
		return
	}

	createSendToken(w, r, http.StatusOK, &user)
}

// UpdateMyPassword changes the password of the logged-in user after
// verifying the current one.
func UpdateMyPassword(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), opTimeout)
	defer cancel()

	user := middleware.CurrentUser(r.Context())
	if user == nil {
		apperror.WriteAPI(w, r, apperror.Unauthenticated("You are not logged in. Please log in to access!"))
		return
	}

	var req struct {
		PasswordCurrent string `json:"passwordCurrent"`
		passwordPair
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperror.WriteAPI(w, r, apperror.Validation("Invalid input data"))
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.PasswordCurrent)) != nil {
		apperror.WriteAPI(w, r, apperror.Unauthenticated("Your current password is wrong"))
		return
	}
	if err := req.check(); err != nil {
		apperror.WriteAPI(w, r, err)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) == nil {
		apperror.WriteAPI(w, r, apperror.Validation("New password must differ from the current one"))
		return
	}

	if err := setPassword(ctx, user.UserID, req.Password, nil); err != nil {
		apperror.WriteAPI(w, r, err)
		return
	}

	createSendToken(w, r, http.StatusOK, user)
}
