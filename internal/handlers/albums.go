package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"lumina/internal/media"
	"lumina/internal/navigation"
)

type createAlbumRequest struct {
	Name string `json:"name"`
}

type albumItemRequest struct {
	MediaID string `json:"mediaId"`
}

// ListAlbums returns every album in creation order.
func (h *Handlers) ListAlbums(w http.ResponseWriter, _ *http.Request) {
	albums := h.state.Albums()
	if albums == nil {
		albums = []media.Album{}
	}
	writeJSONStatusCode(w, albums, http.StatusOK)
}

// CreateAlbum registers an empty album. A successful create closes the
// album overlay of the session.
func (h *Handlers) CreateAlbum(w http.ResponseWriter, r *http.Request) {
	var req createAlbumRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	album, err := h.state.CreateAlbum(r.Context(), req.Name)
	if album.ID != "" {
		h.session.CompleteOverlay(navigation.SectionAlbumCreate)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSONStatusCode(w, album, http.StatusCreated)
}

// DeleteAlbum removes an album. Its items stay in the catalog.
func (h *Handlers) DeleteAlbum(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.state.DeleteAlbum(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSONStatus(w, "ok")
}

// AddAlbumItem adds a media id to an album.
func (h *Handlers) AddAlbumItem(w http.ResponseWriter, r *http.Request) {
	h.changeAlbumItem(w, r, true)
}

// RemoveAlbumItem removes a media id from an album.
func (h *Handlers) RemoveAlbumItem(w http.ResponseWriter, r *http.Request) {
	h.changeAlbumItem(w, r, false)
}

func (h *Handlers) changeAlbumItem(w http.ResponseWriter, r *http.Request, add bool) {
	var req albumItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	albumID := mux.Vars(r)["id"]
	var err error
	if add {
		err = h.state.AddToAlbum(r.Context(), albumID, req.MediaID)
	} else {
		err = h.state.RemoveFromAlbum(r.Context(), albumID, req.MediaID)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	album, _ := h.state.Album(albumID)
	writeJSONStatusCode(w, album, http.StatusOK)
}
