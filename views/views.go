// Package views renders the server-side pages. Pages personalize through
// SoftAuth; account pages require a login and redirect instead of
// returning JSON errors.
package views

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"time"

	"roamly/apperror"
	"roamly/bookings"
	"roamly/db"
	"roamly/logger"
	"roamly/middleware"
	"roamly/models"
	"roamly/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"date": func(t time.Time) string { return t.Format("January 2006") },
}).ParseFS(templateFS, "templates/*.html"))

const opTimeout = 5 * time.Second

// pageData is the payload every template receives.
type pageData struct {
	Title string
	User  *models.User
	Data  map[string]any
}

func render(w http.ResponseWriter, r *http.Request, name, title string, data map[string]any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	page := pageData{
		Title: title,
		User:  middleware.CurrentUser(r.Context()),
		Data:  data,
	}
	if err := templates.ExecuteTemplate(w, name, page); err != nil {
		logger.Log.Error().Err(err).Str("template", name).Msg("render failed")
	}
}

func renderError(w http.ResponseWriter, r *http.Request, err error) {
	ae := apperror.As(err)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(ae.Status)
	msg := ae.Message
	if !ae.Operational && !apperror.Debug {
		msg = "Something went very wrong!"
	}
	page := pageData{
		Title: "Something went wrong",
		User:  middleware.CurrentUser(r.Context()),
		Data:  map[string]any{"Message": msg},
	}
	if terr := templates.ExecuteTemplate(w, "error.html", page); terr != nil {
		logger.Log.Error().Err(terr).Msg("error page render failed")
	}
}

// RequireLogin is the rendered-page variant of Protect: browsers get a
// redirect to the login form, not a JSON error.
func RequireLogin(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		user := middleware.CurrentUser(r.Context())
		if user == nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next(w, r, ps)
	}
}

// Overview is the landing page: all visible tours as cards.
func Overview(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), opTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	tours, err := utils.FindAndDecode[models.Tour](ctx,
		db.TourCollection, bson.M{"secretTour": bson.M{"$ne": true}}, opts)
	if err != nil {
		renderError(w, r, apperror.Internal(err))
		return
	}

	render(w, r, "overview.html", "All Tours", map[string]any{"Tours": tours})
}

// TourDetail shows one tour by slug with its reviews.
func TourDetail(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), opTimeout)
	defer cancel()

	var tour models.Tour
	err := db.TourCollection.FindOne(ctx, bson.M{
		"slug":       ps.ByName("slug"),
		"secretTour": bson.M{"$ne": true},
	}).Decode(&tour)
	if err != nil {
		renderError(w, r, apperror.NotFound("There is no tour with that name."))
		return
	}

	reviews, err := utils.FindAndDecode[models.Review](ctx,
		db.ReviewCollection, bson.M{"tourid": tour.TourID})
	if err != nil {
		renderError(w, r, apperror.Internal(err))
		return
	}

	render(w, r, "tour.html", tour.Name+" Tour", map[string]any{
		"Tour":    tour,
		"Reviews": reviews,
	})
}

// LoginForm renders the login page.
func LoginForm(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	render(w, r, "login.html", "Log into your account", nil)
}

// SignupForm renders the registration page.
func SignupForm(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	render(w, r, "signup.html", "Create your account", nil)
}

// Account renders the profile settings page.
func Account(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	render(w, r, "account.html", "Your account", nil)
}

// MyTours lists the tours the logged-in user has booked.
func MyTours(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), opTimeout)
	defer cancel()

	user := middleware.CurrentUser(r.Context())
	tours, err := bookings.ToursForUser(ctx, user.UserID)
	if err != nil {
		renderError(w, r, apperror.Internal(err))
		return
	}

	render(w, r, "overview.html", "My Tours", map[string]any{"Tours": tours})
}
