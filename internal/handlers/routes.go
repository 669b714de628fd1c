package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes mounts the API on r.
func (h *Handlers) RegisterRoutes(r *mux.Router) {
	// Health check and version routes
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/categories", h.GetCategories).Methods("GET")

	// Catalog
	api.HandleFunc("/media", h.ListMedia).Methods("GET")
	api.HandleFunc("/media/{id}", h.GetMedia).Methods("GET")
	api.HandleFunc("/media/{id}", h.DeleteMedia).Methods("DELETE")
	api.HandleFunc("/media/{id}/favorite", h.ToggleFavorite).Methods("POST")
	api.HandleFunc("/media/{id}/describe", h.DescribeMedia).Methods("POST")
	api.HandleFunc("/media/{id}/describe", h.ClearDescription).Methods("DELETE")
	api.HandleFunc("/import", h.ImportMedia).Methods("POST")
	api.HandleFunc("/blob/{id}", h.ServeBlob).Methods("GET", "HEAD")

	// Albums
	api.HandleFunc("/albums", h.ListAlbums).Methods("GET")
	api.HandleFunc("/albums", h.CreateAlbum).Methods("POST")
	api.HandleFunc("/albums/{id}", h.DeleteAlbum).Methods("DELETE")
	api.HandleFunc("/albums/{id}/items", h.AddAlbumItem).Methods("POST")
	api.HandleFunc("/albums/{id}/items", h.RemoveAlbumItem).Methods("DELETE")

	// Network sources
	api.HandleFunc("/sources", h.ListSources).Methods("GET")
	api.HandleFunc("/sources", h.AddSource).Methods("POST")
	api.HandleFunc("/sources/{id}", h.DeleteSource).Methods("DELETE")
	api.HandleFunc("/sources/{id}/check", h.CheckSource).Methods("POST")

	// TV session
	api.HandleFunc("/session", h.GetSession).Methods("GET")
	api.HandleFunc("/session/key", h.PressKey).Methods("POST")
	api.HandleFunc("/session/view", h.SetViewMode).Methods("POST")
	api.HandleFunc("/session/album", h.SelectAlbum).Methods("POST")
	api.HandleFunc("/session/overlay", h.SetOverlay).Methods("POST")
	api.HandleFunc("/session/rotate", h.Rotate).Methods("POST")
	api.HandleFunc("/session/resolution", h.SetResolution).Methods("POST")
	api.HandleFunc("/session/bulk", h.StartBulk).Methods("POST")

	api.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSONError(w, "not found", http.StatusNotFound)
	})
}

// MetricsHandler returns the Prometheus metrics handler
func (h *Handlers) MetricsHandler() http.Handler {
	return promhttp.Handler()
}
