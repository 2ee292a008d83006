// Package routes wires every handler onto the router. Each Add function
// owns one resource's URL space. Rate limiting happens above the router,
// in the server middleware chain.
package routes

import (
	"net/http"

	"roamly/auth"
	"roamly/bookings"
	"roamly/middleware"
	"roamly/models"
	"roamly/reviews"
	"roamly/tours"
	"roamly/users"
	"roamly/views"

	"github.com/julienschmidt/httprouter"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/uploads/*filepath", http.Dir("static/uploads"))
	router.ServeFiles("/static/css/*filepath", http.Dir("static/css"))
	router.ServeFiles("/static/js/*filepath", http.Dir("static/js"))
}

func AddTourRoutes(router *httprouter.Router) {
	staff := func(h httprouter.Handle) httprouter.Handle {
		return middleware.Protect(middleware.RestrictTo(models.RoleAdmin, models.RoleLeadGuide)(h))
	}

	router.GET("/api/v1/tours", tours.Resource.GetAll())
	router.GET("/api/v1/tours/top-5-cheap", tours.GetTopCheap)
	router.GET("/api/v1/tours/tour-stats", tours.GetTourStats)
	router.GET("/api/v1/tours/monthly-plan/:year", middleware.Protect(
		middleware.RestrictTo(models.RoleAdmin, models.RoleLeadGuide, models.RoleGuide)(tours.GetMonthlyPlan)))
	router.GET("/api/v1/tours/tours-within/:distance/center/:latlng/unit/:unit", tours.GetToursWithin)
	router.GET("/api/v1/tours/distances/:latlng/unit/:unit", tours.GetDistances)

	// single-tour routes live under /tour/:id so the static aggregation
	// paths above cannot collide with the id parameter
	router.GET("/api/v1/tours/tour/:id", tours.Resource.GetOne())
	router.POST("/api/v1/tours", staff(tours.Resource.CreateOne()))
	router.PATCH("/api/v1/tours/tour/:id", staff(tours.Resource.UpdateOne()))
	router.PATCH("/api/v1/tours/tour/:id/images", staff(tours.UploadTourImages))
	router.DELETE("/api/v1/tours/tour/:id", staff(tours.Resource.DeleteOne()))
}

func AddUserRoutes(router *httprouter.Router) {
	router.POST("/api/v1/users/signup", auth.Signup)
	router.POST("/api/v1/users/login", auth.Login)
	router.GET("/api/v1/users/logout", auth.Logout)
	router.POST("/api/v1/users/forgotPassword", auth.ForgotPassword)
	router.PATCH("/api/v1/users/resetPassword/:token", auth.ResetPassword)

	router.PATCH("/api/v1/users/updateMyPassword", middleware.Protect(auth.UpdateMyPassword))
	router.GET("/api/v1/users/me", middleware.Protect(users.GetMe))
	router.PATCH("/api/v1/users/updateMe", middleware.Protect(users.UpdateMe))
	router.PATCH("/api/v1/users/updateMe/photo", middleware.Protect(users.UploadMyPhoto))
	router.DELETE("/api/v1/users/deleteMe", middleware.Protect(users.DeleteMe))

	admin := func(h httprouter.Handle) httprouter.Handle {
		return middleware.Protect(middleware.RestrictTo(models.RoleAdmin)(h))
	}
	router.GET("/api/v1/users", admin(users.Resource.GetAll()))
	router.POST("/api/v1/users", admin(users.CreateUser))
	router.GET("/api/v1/users/id/:id", admin(users.Resource.GetOne()))
	router.PATCH("/api/v1/users/id/:id", admin(users.Resource.UpdateOne()))
	router.DELETE("/api/v1/users/id/:id", admin(users.Resource.DeleteOne()))
}

// AddReviewRoutes mounts the review surface. Every review route, reads
// included, requires a logged-in user.
func AddReviewRoutes(router *httprouter.Router) {
	onlyUsers := func(h httprouter.Handle) httprouter.Handle {
		return middleware.Protect(middleware.RestrictTo(models.RoleUser)(h))
	}
	staffOrAuthor := func(h httprouter.Handle) httprouter.Handle {
		return middleware.Protect(middleware.RestrictTo(models.RoleUser, models.RoleAdmin)(h))
	}

	router.GET("/api/v1/reviews", middleware.Protect(reviews.Resource.GetAll()))
	router.GET("/api/v1/reviews/:id", middleware.Protect(reviews.Resource.GetOne()))
	router.POST("/api/v1/reviews", onlyUsers(reviews.Resource.CreateOne()))
	router.PATCH("/api/v1/reviews/:id", staffOrAuthor(reviews.Resource.UpdateOne()))
	router.DELETE("/api/v1/reviews/:id", staffOrAuthor(reviews.Resource.DeleteOne()))

	// nested under a tour
	router.GET("/api/v1/tours/tour/:id/reviews", middleware.Protect(reviews.Resource.GetAll()))
	router.POST("/api/v1/tours/tour/:id/reviews", onlyUsers(reviews.Resource.CreateOne()))
}

func AddBookingRoutes(router *httprouter.Router) {
	staff := func(h httprouter.Handle) httprouter.Handle {
		return middleware.Protect(middleware.RestrictTo(models.RoleAdmin, models.RoleLeadGuide)(h))
	}

	router.GET("/api/v1/bookings/checkout-session/:tourId", middleware.Protect(bookings.CreateCheckoutSession))
	router.GET("/api/v1/bookings/checkout-confirm", bookings.ConfirmCheckout)
	router.GET("/api/v1/bookings/my-tours", middleware.Protect(bookings.GetMyTours))

	router.GET("/api/v1/bookings", staff(bookings.Resource.GetAll()))
	router.POST("/api/v1/bookings", staff(bookings.Resource.CreateOne()))
	router.GET("/api/v1/bookings/booking/:id", staff(bookings.Resource.GetOne()))
	router.GET("/api/v1/bookings/booking/:id/ticket", middleware.Protect(bookings.PrintTicket))
	router.PATCH("/api/v1/bookings/booking/:id", staff(bookings.Resource.UpdateOne()))
	router.DELETE("/api/v1/bookings/booking/:id", staff(bookings.Resource.DeleteOne()))
}

func AddViewRoutes(router *httprouter.Router) {
	router.GET("/", middleware.SoftAuth(views.Overview))
	router.GET("/tour/:slug", middleware.SoftAuth(views.TourDetail))
	router.GET("/login", middleware.SoftAuth(views.LoginForm))
	router.GET("/signup", middleware.SoftAuth(views.SignupForm))
	router.GET("/me", middleware.SoftAuth(views.RequireLogin(views.Account)))
	router.GET("/my-tours", middleware.SoftAuth(views.RequireLogin(views.MyTours)))
}
