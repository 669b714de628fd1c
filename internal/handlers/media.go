package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"lumina/internal/catalog"
)

// GetCategories lists the sidebar categories in display order.
func (h *Handlers) GetCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSONStatusCode(w, catalog.Categories(), http.StatusOK)
}

// ListMedia returns the projection for ?category= (default "all") and the
// optional ?album= selection.
func (h *Handlers) ListMedia(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		category = catalog.CategoryAll
	}
	if catalog.CategoryIndex(category) < 0 {
		writeJSONError(w, "unknown category: "+category, http.StatusBadRequest)
		return
	}
	albumID := r.URL.Query().Get("album")
	if albumID != "" {
		if _, ok := h.state.Album(albumID); !ok {
			writeJSONError(w, "album not found: "+albumID, http.StatusNotFound)
			return
		}
	}
	writeJSONStatusCode(w, nonNilItems(h.state.Visible(category, albumID)), http.StatusOK)
}

// GetMedia returns one item.
func (h *Handlers) GetMedia(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	item, ok := h.state.Item(id)
	if !ok {
		writeJSONError(w, "media not found: "+id, http.StatusNotFound)
		return
	}
	writeJSONStatusCode(w, item, http.StatusOK)
}

// DeleteMedia removes a user item and releases its files.
func (h *Handlers) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	if err := h.state.RemoveUserItem(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSONStatus(w, "ok")
}

// ToggleFavorite flips the favorite flag of a user item.
func (h *Handlers) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	fav, err := h.state.ToggleFavorite(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSONStatusCode(w, map[string]any{"id": id, "isFavorite": fav}, http.StatusOK)
}

// DescribeMedia returns the AI caption of an item, asking the gateway when
// none is cached.
func (h *Handlers) DescribeMedia(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	desc, err := h.state.Describe(r.Context(), id, h.gateway)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSONStatusCode(w, map[string]string{"id": id, "description": desc}, http.StatusOK)
}

// ClearDescription drops the cached caption of an item.
func (h *Handlers) ClearDescription(w http.ResponseWriter, r *http.Request) {
	if err := h.state.ClearAIDescription(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSONStatus(w, "ok")
}
