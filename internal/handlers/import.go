package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"lumina/internal/catalog"
	"lumina/internal/importer"
	"lumina/internal/logging"
	"lumina/internal/media"
)

// multipartMemory is the part of a multipart upload kept in memory; the rest
// spills to temporary files.
const multipartMemory = 32 << 20

// ImportResponse lists the items created by an import, in upload order.
type ImportResponse struct {
	Imported int          `json:"imported"`
	Skipped  int          `json:"skipped"`
	Items    []media.Item `json:"items"`
}

// ImportMedia imports the files of a multipart form. Files go in the
// "files" field; an optional "paths" field per file carries the relative
// path of a folder import.
func (h *Handlers) ImportMedia(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > h.maxUpload {
		writeJSONError(w, fmt.Sprintf("upload exceeds %d bytes", h.maxUpload), http.StatusRequestEntityTooLarge)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSONError(w, fmt.Sprintf("upload exceeds %d bytes", tooLarge.Limit), http.StatusRequestEntityTooLarge)
			return
		}
		writeJSONError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			logging.Debug("Failed to remove multipart temp files: %v", err)
		}
	}()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		writeError(w, r, fmt.Errorf("%w: no files in field \"files\"", catalog.ErrInvalid))
		return
	}
	paths := r.MultipartForm.Value["paths"]

	uploads := make([]importer.Upload, 0, len(files))
	for i, fh := range files {
		f, err := fh.Open()
		if err != nil {
			logging.Warn("Failed to open upload %q: %v", fh.Filename, err)
			continue
		}
		defer closeUpload(f)

		up := importer.Upload{
			Name: fh.Filename,
			MIME: fh.Header.Get("Content-Type"),
			Body: f,
		}
		if i < len(paths) {
			up.RelativePath = paths[i]
		}
		uploads = append(uploads, up)
	}

	items, err := h.importer.Import(r.Context(), uploads)
	if err != nil {
		writeError(w, r, err)
		return
	}

	status := http.StatusCreated
	if len(items) == 0 {
		status = http.StatusOK
	}
	writeJSONStatusCode(w, ImportResponse{
		Imported: len(items),
		Skipped:  len(files) - len(items),
		Items:    nonNilItems(items),
	}, status)
}

func closeUpload(f multipart.File) {
	if err := f.Close(); err != nil {
		logging.Debug("Failed to close upload: %v", err)
	}
}
