package handlers

import (
	"net/http"

	"lumina/internal/startup"
)

// VersionResponse is the build information plus the optional features the
// running server has enabled.
type VersionResponse struct {
	startup.BuildInfo
	Insight bool `json:"insight"`
}

// GetVersion returns the application version and build information
func (h *Handlers) GetVersion(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Cache-Control", "no-cache")
	writeJSONStatusCode(w, VersionResponse{
		BuildInfo: startup.GetBuildInfo(),
		Insight:   h.insightOn,
	}, http.StatusOK)
}
