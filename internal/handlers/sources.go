package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"lumina/internal/media"
	"lumina/internal/navigation"
)

type addSourceRequest struct {
	Name string           `json:"name"`
	URL  string           `json:"url"`
	Type media.SourceType `json:"type,omitempty"`
}

type addSourceResponse struct {
	Source media.NetworkSource `json:"source"`
	Item   media.Item          `json:"item"`
}

// ListSources returns the registered network sources.
func (h *Handlers) ListSources(w http.ResponseWriter, _ *http.Request) {
	srcs := h.state.Sources()
	if srcs == nil {
		srcs = []media.NetworkSource{}
	}
	writeJSONStatusCode(w, srcs, http.StatusOK)
}

// AddSource registers a stream source and its linked stream item. A
// successful add closes the stream overlay of the session.
func (h *Handlers) AddSource(w http.ResponseWriter, r *http.Request) {
	var req addSourceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	src, item, err := h.state.AddStream(r.Context(), req.Name, req.URL, req.Type)
	if src.ID != "" {
		h.session.CompleteOverlay(navigation.SectionStreamAdd)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSONStatusCode(w, addSourceResponse{Source: src, Item: item}, http.StatusCreated)
}

// DeleteSource removes a source and every stream item linked to it.
func (h *Handlers) DeleteSource(w http.ResponseWriter, r *http.Request) {
	if err := h.state.RemoveSource(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSONStatus(w, "ok")
}

// CheckSource probes a source and returns it with its new status.
func (h *Handlers) CheckSource(w http.ResponseWriter, r *http.Request) {
	src, err := h.prober.Check(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSONStatusCode(w, src, http.StatusOK)
}
