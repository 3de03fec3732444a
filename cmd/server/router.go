package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	apimiddleware "github.com/lpfarias/essay-api/internal/api/middleware"
	"github.com/lpfarias/essay-api/internal/domain"
)

// router builds the route tree. Write access follows the permission model:
// students submit, correctors grade, admins manage the platform.
func (app *application) router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.TraceMiddleware)

	admin := apimiddleware.RequirePermission(domain.PermissionAdmin)
	corrector := apimiddleware.RequirePermission(domain.PermissionCorrector, domain.PermissionAdmin)
	student := apimiddleware.RequirePermission(domain.PermissionStudent)

	r.Route("/api", func(r chi.Router) {
		// Public endpoints.
		r.Post("/auth/login", app.authHandler.Login)
		r.Post("/auth/refresh", app.authHandler.Refresh)
		r.Post("/webhooks/payment", app.webhookHandler.Payment)

		r.Group(func(r chi.Router) {
			r.Use(app.authMiddleware.Authenticate)

			r.Route("/essays", func(r chi.Router) {
				r.With(student).Post("/", app.essayHandler.Create)
				r.Get("/", app.essayHandler.List)
				r.With(corrector).Get("/charts/sent", app.essayHandler.SentChart)
				r.Get("/{id}", app.essayHandler.Get)
				r.With(corrector).Patch("/{id}", app.essayHandler.PartialUpdate)
				r.With(corrector).Post("/{id}/cancel", app.essayHandler.CancelCorrection)
				r.With(student).Get("/{id}/resendable", app.essayHandler.CanResend)

				r.With(corrector).Post("/{id}/correction", app.correctionHandler.Create)
				r.Get("/{id}/correction", app.correctionHandler.GetByEssay)
				r.With(corrector).Post("/{id}/invalidation", app.invalidationHandler.Create)
				r.Get("/{id}/invalidation", app.invalidationHandler.GetByEssay)
			})

			r.Route("/themes", func(r chi.Router) {
				r.Get("/", app.themeHandler.List)
				r.Get("/active", app.themeHandler.Active)
				r.Get("/{id}", app.themeHandler.Get)
				r.With(admin).Post("/", app.themeHandler.Create)
				r.With(admin).Patch("/{id}", app.themeHandler.Update)
			})

			r.Route("/subscriptions", func(r chi.Router) {
				r.Get("/", app.subscriptionHandler.List)
				r.With(admin).Post("/", app.subscriptionHandler.Create)
				r.With(admin).Get("/charts/registrations", app.subscriptionHandler.ActiveChart)
				r.With(admin).Patch("/{id}", app.subscriptionHandler.Update)
				r.With(admin).Delete("/{id}", app.subscriptionHandler.Deactivate)
			})

			r.Route("/products", func(r chi.Router) {
				r.Get("/", app.productHandler.List)
				r.Get("/{id}", app.productHandler.Get)
				r.With(admin).Post("/", app.productHandler.Create)
				r.With(admin).Patch("/{id}", app.productHandler.Update)
				r.With(admin).Delete("/{id}", app.productHandler.Deactivate)
			})

			r.Route("/settings", func(r chi.Router) {
				r.Use(admin)
				r.Get("/", app.settingsHandler.Get)
				r.Put("/", app.settingsHandler.Update)
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/me", app.userHandler.Me)
				r.Group(func(r chi.Router) {
					r.Use(admin)
					r.Post("/", app.userHandler.Create)
					r.Get("/", app.userHandler.List)
					r.Get("/{id}", app.userHandler.Get)
					r.Patch("/{id}", app.userHandler.Update)
				})
			})

			r.Route("/tokens", func(r chi.Router) {
				r.Use(admin)
				r.Post("/", app.tokenHandler.Create)
				r.Get("/{token}", app.tokenHandler.Get)
			})
		})
	})

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
