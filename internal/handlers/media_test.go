package handlers

import (
	"net/http"
	"testing"

	"lumina/internal/catalog"
	"lumina/internal/media"
)

func itemIDs(items []media.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestGetCategories(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	w := env.do("GET", "/api/categories", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	cats := decode[[]catalog.Category](t, w)
	if len(cats) != len(catalog.Categories()) || cats[0].ID != catalog.CategoryAll {
		t.Errorf("categories = %+v", cats)
	}
}

func TestListMedia(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	tests := []struct {
		name   string
		query  string
		status int
		want   []string
	}{
		{"default is all", "", http.StatusOK, []string{"1", "2", "3", "4", "5", "6", "7", "8"}},
		{"images", "?category=image", http.StatusOK, []string{"1", "4", "7"}},
		{"albums without selection", "?category=albums", http.StatusOK, []string{}},
		{"sources empty", "?category=sources", http.StatusOK, []string{}},
		{"unknown category", "?category=podcasts", http.StatusBadRequest, nil},
		{"unknown album", "?category=albums&album=album-x", http.StatusNotFound, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do("GET", "/api/media"+tt.query, nil)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.status, w.Body.String())
			}
			if tt.want == nil {
				return
			}
			got := itemIDs(decode[[]media.Item](t, w))
			if len(got) != len(tt.want) {
				t.Fatalf("ids = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("ids = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestGetMedia(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	w := env.do("GET", "/api/media/4", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if it := decode[media.Item](t, w); it.ID != "4" || it.Type != "image" {
		t.Errorf("item = %+v", it)
	}

	if w := env.do("GET", "/api/media/nope", nil); w.Code != http.StatusNotFound {
		t.Errorf("missing item status = %d, want 404", w.Code)
	}
}

func TestSeedItemsAreImmutable(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	tests := []struct {
		method, path string
	}{
		{"DELETE", "/api/media/1"},
		{"POST", "/api/media/1/favorite"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := env.do(tt.method, tt.path, nil)
			if w.Code != http.StatusConflict {
				t.Errorf("status = %d, want 409", w.Code)
			}
		})
	}
	if _, ok := env.state.Item("1"); !ok {
		t.Error("seed item removed")
	}
}

func TestDescribeMediaCaches(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	w := env.do("POST", "/api/media/2/describe", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := decode[map[string]string](t, w)["description"]; got != "caption for 2" {
		t.Errorf("description = %q", got)
	}
	if it, _ := env.state.Item("2"); it.AIDescription != "caption for 2" {
		t.Errorf("caption not cached: %q", it.AIDescription)
	}

	if w := env.do("DELETE", "/api/media/2/describe", nil); w.Code != http.StatusOK {
		t.Fatalf("clear status = %d", w.Code)
	}
	if it, _ := env.state.Item("2"); it.AIDescription != "" {
		t.Errorf("caption not cleared: %q", it.AIDescription)
	}

	if w := env.do("POST", "/api/media/missing/describe", nil); w.Code != http.StatusNotFound {
		t.Errorf("missing item status = %d, want 404", w.Code)
	}
}

func TestPersistFailureIsServerError(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.store.failPut = errStoreDown

	w := env.do("POST", "/api/albums", map[string]string{"name": "Trips"})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	// Memory state is kept.
	if got := len(env.state.Albums()); got != 1 {
		t.Errorf("albums in memory = %d, want 1", got)
	}
}
