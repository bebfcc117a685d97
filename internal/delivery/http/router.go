package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(availability *AvailabilityController) *http.ServeMux {
	mux := http.NewServeMux()

	// API Routes
	mux.HandleFunc("GET /sports", availability.ListSportTypes)
	mux.HandleFunc("GET /sports/{sportType}/availability", availability.GetAvailability)
	mux.HandleFunc("GET /sports/{sportType}/raw", availability.GetRawRecords)

	// Health
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
