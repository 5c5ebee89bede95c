package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/calebsw/lettermill-api/internal/api"
	apiMiddleware "github.com/calebsw/lettermill-api/internal/api/middleware"
)

// setupRouter configures the application router with all routes and
// middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	contactHandler := api.NewContactHandler(app.subscriptionService)
	trackingHandler := api.NewTrackingHandler(app.trackingService)
	campaignHandler := api.NewCampaignHandler(app.campaignService)
	taskHandler := api.NewTaskHandler(app.scheduler)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.config.Auth.JWTSecret)

	r.Route("/api", func(r chi.Router) {
		// Subscription endpoints are public. Subscribe forms and
		// unsubscribe links are hit by end recipients, not API clients.
		r.Post("/contacts/subscribe", contactHandler.Subscribe)
		r.Get("/contacts/unsubscribe", contactHandler.Unsubscribe)
		r.Post("/contacts/generate-unsubscribe-url", contactHandler.GenerateUnsubscribeURL)

		// Manual scheduler trigger, used by external cron as a backstop.
		r.Post("/tasks/process-due", taskHandler.ProcessDue)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Post("/campaigns", campaignHandler.Create)
			r.Get("/campaigns/{id}", campaignHandler.Get)
		})
	})

	// Click tracking redirect, embedded in outgoing email bodies.
	r.Get("/track/{id}", trackingHandler.Redirect)

	r.Handle("/metrics", promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
