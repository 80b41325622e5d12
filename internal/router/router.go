package router

import (
	"github.com/go-chi/chi/v5"

	"github.com/formhive/formhive/internal/auth"
	"github.com/formhive/formhive/internal/handler"
	mw "github.com/formhive/formhive/internal/middleware"
)

func New(
	jwtSecret string,
	authH *handler.AuthHandler,
	formH *handler.FormHandler,
	subH *handler.SubmissionHandler,
	dashH *handler.DashboardHandler,
	mediaH *handler.MediaHandler,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware. Resolve runs on every request and never fails
	// it; handlers decide whether anonymity is acceptable.
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS)
	r.Use(auth.Resolve(jwtSecret))

	// Public form routes: anonymous viewing and submission.
	r.Get("/f/{slug}", subH.PublicView)
	r.Post("/f/{slug}/responses", subH.Submit)

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/auth/signup", authH.Signup)
		r.Post("/auth/login", authH.Login)
		r.Post("/auth/logout", authH.Logout)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth)

			r.Get("/auth/me", authH.Me)
			r.Get("/profile", authH.GetProfile)
			r.Put("/profile", authH.UpdateProfile)

			r.Get("/dashboard", dashH.Dashboard)

			r.Post("/forms", formH.Create)
			r.Get("/forms/{slug}", formH.Get)
			r.Put("/forms/{slug}", formH.Update)
			r.Post("/forms/{slug}/share", formH.Share)
			r.Get("/forms/{slug}/responses", subH.List)

			r.Post("/media/delete", mediaH.Delete)
		})
	})

	return r
}
