package handlers

import (
	"fmt"
	"net/http"

	"lumina/internal/catalog"
	"lumina/internal/navigation"
	"lumina/internal/session"
)

type keyRequest struct {
	Key string `json:"key"`
}

// KeyResponse is the effect of a key and the view it produced.
type KeyResponse struct {
	Effect navigation.Effect `json:"effect"`
	View   session.View      `json:"view"`
}

type viewRequest struct {
	Mode session.ViewMode `json:"mode"`
}

type albumSelectRequest struct {
	AlbumID string `json:"albumId"`
}

type overlayRequest struct {
	Overlay navigation.Section `json:"overlay"`
}

type resolutionRequest struct {
	Resolution string `json:"resolution"`
}

// GetSession returns the current view of the TV session.
func (h *Handlers) GetSession(w http.ResponseWriter, _ *http.Request) {
	writeJSONStatusCode(w, h.session.Snapshot(), http.StatusOK)
}

// PressKey applies one remote key. Key names follow the DOM
// ("ArrowDown", "Enter", "Escape") or remote aliases ("ok", "back").
func (h *Handlers) PressKey(w http.ResponseWriter, r *http.Request) {
	var req keyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	key, ok := navigation.ParseKey(req.Key)
	if !ok {
		writeError(w, r, fmt.Errorf("%w: unknown key %q", catalog.ErrInvalid, req.Key))
		return
	}
	effect := h.session.HandleKey(key)
	writeJSONStatusCode(w, KeyResponse{Effect: effect, View: h.session.Snapshot()}, http.StatusOK)
}

// SetViewMode switches between grid and list layout.
func (h *Handlers) SetViewMode(w http.ResponseWriter, r *http.Request) {
	var req viewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	h.respondSession(w, r, h.session.SetViewMode(req.Mode))
}

// SelectAlbum focuses an album, or clears the selection for an empty id.
func (h *Handlers) SelectAlbum(w http.ResponseWriter, r *http.Request) {
	var req albumSelectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	h.respondSession(w, r, h.session.SelectAlbum(req.AlbumID))
}

// SetOverlay opens an overlay, or closes the open one for an empty value.
func (h *Handlers) SetOverlay(w http.ResponseWriter, r *http.Request) {
	var req overlayRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	h.respondSession(w, r, h.session.OpenOverlay(req.Overlay))
}

// Rotate turns the open image by 90 degrees.
func (h *Handlers) Rotate(w http.ResponseWriter, r *http.Request) {
	_, err := h.session.Rotate()
	h.respondSession(w, r, err)
}

// SetResolution picks a player resolution.
func (h *Handlers) SetResolution(w http.ResponseWriter, r *http.Request) {
	var req resolutionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	h.respondSession(w, r, h.session.SetResolution(req.Resolution))
}

// StartBulk starts captioning every undescribed item. It answers 202 with
// the session view; progress is reported in view.bulk.
func (h *Handlers) StartBulk(w http.ResponseWriter, r *http.Request) {
	n, err := h.session.StartBulkDescribe()
	if err != nil {
		writeError(w, r, err)
		return
	}
	status := http.StatusAccepted
	if n == 0 {
		status = http.StatusOK
	}
	writeJSONStatusCode(w, h.session.Snapshot(), status)
}

func (h *Handlers) respondSession(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSONStatusCode(w, h.session.Snapshot(), http.StatusOK)
}
