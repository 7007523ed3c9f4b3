package app

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gridcal/gridcal/internal/config"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Grid
	r.HandleFunc("/api/grid", deps.Handler.GetGrid).Methods("GET")
	r.HandleFunc("/api/grid/refresh", deps.Handler.Refresh).Methods("POST")
	r.HandleFunc("/api/grid/navigate", deps.Handler.Navigate).Methods("POST")
	r.HandleFunc("/api/grid/today", deps.Handler.Today).Methods("POST")
	r.HandleFunc("/api/grid/source/{sourceId}/visibility", deps.Handler.SetVisibility).Methods("PUT")
	r.HandleFunc("/api/grid/scroll", deps.Handler.GetScroll).Methods("GET")
	r.HandleFunc("/api/grid/scroll", deps.Handler.SaveScroll).Methods("PUT")

	// Operational
	r.Handle("/metrics", deps.Metrics.Handler()).Methods("GET")
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods("GET")
}
