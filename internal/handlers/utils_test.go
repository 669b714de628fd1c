package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"lumina/internal/catalog"
	"lumina/internal/resources"
	"lumina/internal/session"
)

// =============================================================================
// writeJSON Tests
// =============================================================================

func TestWriteJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    interface{}
		expected string
	}{
		{name: "Simple map", input: map[string]string{"status": "ok"}, expected: `{"status":"ok"}`},
		{name: "String slice", input: []string{"a", "b"}, expected: `["a","b"]`},
		{name: "Null", input: nil, expected: `null`},
		{name: "Empty slice", input: []string{}, expected: `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			writeJSON(w, tt.input)

			body := w.Body.String()
			body = body[:len(body)-1] // Trim newline

			if body != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, body)
			}
		})
	}
}

func TestWriteJSONError(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	writeJSONError(w, "album not found", http.StatusNotFound)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected Content-Type application/json, got %q", ct)
	}
	if msg := errorMessage(t, w); msg != "album not found" {
		t.Errorf("error = %q", msg)
	}
}

// =============================================================================
// Error mapping Tests
// =============================================================================

func TestStatusFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: bad name", catalog.ErrInvalid), http.StatusBadRequest},
		{fmt.Errorf("%w: item x", catalog.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("open: %w", resources.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: 1", catalog.ErrImmutable), http.StatusConflict},
		{catalog.ErrDuplicate, http.StatusConflict},
		{session.ErrBusy, http.StatusConflict},
		{session.ErrNoPlayer, http.StatusConflict},
		{errors.New("disk full"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			if got := statusFor(tt.err); got != tt.want {
				t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestWriteErrorHidesServerErrors(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	writeError(w, httptest.NewRequest("POST", "/api/albums", http.NoBody), errors.New("sqlite: disk I/O error"))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if msg := errorMessage(t, w); msg != "internal error" {
		t.Errorf("error = %q, want internal error", msg)
	}
}

func TestDecodeJSONRejects(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"malformed":     `{"name":`,
		"unknown field": `{"name":"x","extra":1}`,
		"two objects":   `{"name":"x"}{"name":"y"}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			var req createAlbumRequest
			r := httptest.NewRequest("POST", "/", stringsReader(body))
			err := decodeJSON(httptest.NewRecorder(), r, &req)
			if !errors.Is(err, catalog.ErrInvalid) {
				t.Errorf("decodeJSON(%s) error = %v, want ErrInvalid", body, err)
			}
		})
	}
}
