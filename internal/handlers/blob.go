package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"lumina/internal/logging"
)

// ServeBlob streams an imported file in a sandbox. Range requests are honored.
func (h *Handlers) ServeBlob(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	f, handle, err := h.registry.Open(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			logging.Debug("Failed to close blob %s: %v", id, cerr)
		}
	}()

	info, err := f.Stat()
	if err != nil {
		writeError(w, r, err)
		return
	}

	if handle.MIME != "" {
		w.Header().Set("Content-Type", handle.MIME)
	}
	// Imported bytes are untrusted; scripts in them must not run on this origin.
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Content-Security-Policy", "sandbox")
	w.Header().Set("Cache-Control", "private, max-age=86400, immutable")
	http.ServeContent(w, r, handle.Name, info.ModTime(), f)
}
