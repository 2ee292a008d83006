// Package auth implements account lifecycle: signup, login, logout and
// the password flows.
package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"roamly/apperror"
	"roamly/db"
	"roamly/globals"
	"roamly/mailer"
	"roamly/middleware"
	"roamly/models"
	"roamly/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"
)

const opTimeout = 5 * time.Second

// signupRequest carries the only fields signup reads. Role is never
// taken from the body, so nobody signs up as admin.
type signupRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// createSendToken issues the JWT, sets the session cookie and writes the
// user in the success envelope. The password hash is never serialized.
func createSendToken(w http.ResponseWriter, r *http.Request, status int, user *models.User) {
	token, err := middleware.SignToken(user.UserID)
	if err != nil {
		apperror.WriteAPI(w, r, apperror.Internal(err))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "jwt",
		Value:    token,
		Expires:  time.Now().Add(globals.JwtExpiry),
		HttpOnly: true,
		Secure:   globals.Env("ENV", "") == "production",
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	})

	utils.RespondWithJSON(w, status, utils.M{
		"status": "success",
		"token":  token,
		"data":   utils.M{"user": user},
	})
}

// Signup registers a new account and logs it in.
func Signup(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), opTimeout)
	defer cancel()

	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperror.WriteAPI(w, r, apperror.Validation("Invalid input data"))
		return
	}

	if len(req.Password) < 8 {
		apperror.WriteAPI(w, r, apperror.Validation("Password must be at least 8 characters"))
		return
	}
	if req.Password != req.PasswordConfirm {
		apperror.WriteAPI(w, r, apperror.Validation("Passwords are not the same"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		apperror.WriteAPI(w, r, apperror.Internal(err))
		return
	}

	user := models.User{
		UserID:    "u" + utils.GenerateRandomString(14),
		Name:      req.Name,
		Email:     req.Email,
		Role:      models.RoleUser,
		Password:  string(hash),
		Active:    true,
		CreatedAt: time.Now(),
	}

	if err := models.Validate(&user); err != nil {
		apperror.WriteAPI(w, r, apperror.FromValidator(err))
		return
	}

	if _, err := db.UserCollection.InsertOne(ctx, user); err != nil {
		apperror.WriteAPI(w, r, apperror.FromStore(err, "user"))
		return
	}

	go mailer.SendWelcome(user.Email, user.Name)

	createSendToken(w, r, http.StatusCreated, &user)
}

// Login exchanges credentials for a session token. Wrong email and wrong
// password are indistinguishable to the caller.
func Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), opTimeout)
	defer cancel()

	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		apperror.WriteAPI(w, r, apperror.Validation("Invalid input data"))
		return
	}
	if creds.Email == "" || creds.Password == "" {
		apperror.WriteAPI(w, r, apperror.Validation("Please provide email and password!"))
		return
	}

	var user models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"email": creds.Email, "active": true}).Decode(&user)
	if err != nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(creds.Password)) != nil {
		apperror.WriteAPI(w, r, apperror.Unauthenticated("Incorrect email or password"))
		return
	}

	createSendToken(w, r, http.StatusOK, &user)
}

// Logout overwrites the session cookie with a short-lived placeholder.
func Logout(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	http.SetCookie(w, &http.Cookie{
		Name:     "jwt",
		Value:    "loggedout",
		Expires:  time.Now().Add(10 * time.Second),
		HttpOnly: true,
		Path:     "/",
	})
	utils.SendData(w, http.StatusOK, utils.M{})
}
