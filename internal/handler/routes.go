package handler

import (
	"net/http"

	"github.com/Dan9191/bank-onboarding/internal/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/mux"
)

// Routes builds the router serving the UI and the onboarding API
func (h *Handler) Routes(allowedOrigins []string) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.Logging(h.log))

	r.Handle("/", http.RedirectHandler("/onboard", http.StatusFound)).Methods(http.MethodGet)
	r.HandleFunc("/onboard", h.OnboardPage).Methods(http.MethodGet)
	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         60 * 15,
	}))
	// OPTIONS must match a route for the CORS middleware to see preflights.
	api.HandleFunc("/basiq/connect", h.Connect).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/banks", h.ListBanks).Methods(http.MethodGet, http.MethodOptions)

	return r
}
