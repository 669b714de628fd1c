package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"lumina/internal/catalog"
	"lumina/internal/database"
	"lumina/internal/importer"
	"lumina/internal/insight"
	"lumina/internal/resources"
	"lumina/internal/session"
	"lumina/internal/sources"
	"lumina/internal/tasks"
)

// =============================================================================
// Test doubles
// =============================================================================

type memStore struct {
	mu      sync.Mutex
	blobs   map[string][]byte
	writes  int
	failPut error
}

func (m *memStore) GetBlob(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.blobs[key]
	if !ok {
		return nil, database.ErrNotFound
	}
	return v, nil
}

func (m *memStore) PutSnapshot(_ context.Context, blobs map[string][]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failPut != nil {
		return m.failPut
	}
	if m.blobs == nil {
		m.blobs = make(map[string][]byte)
	}
	for k, v := range blobs {
		m.blobs[k] = v
	}
	m.writes++
	return nil
}

type fakeSnapshots struct {
	last time.Time
	err  error
}

func (f fakeSnapshots) LastSnapshotAt(context.Context) (time.Time, error) {
	return f.last, f.err
}

var errStoreDown = errors.New("database is locked")

// =============================================================================
// Fixture
// =============================================================================

type testEnv struct {
	t        *testing.T
	store    *memStore
	state    *catalog.State
	registry *resources.Registry
	tracker  *tasks.Tracker
	session  *session.Session
	h        *Handlers
	router   *mux.Router
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	reg, err := resources.NewRegistry(t.TempDir())
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	store := &memStore{}
	state := catalog.New(store, reg)
	tracker := tasks.NewTracker(context.Background(), 2)
	t.Cleanup(tracker.Wait)

	gw := captionGateway{}
	sess := session.New(state, gw, tracker)
	h := New(Deps{
		State:    state,
		Session:  sess,
		Importer: importer.New(state, reg, gw, nil, tracker),
		Prober:   sources.NewProber(state, sources.WithTimeout(2*time.Second)),
		Registry: reg,
		Gateway:  gw,
		Store:    fakeSnapshots{},
		Pending:  tracker.Pending,
	}, nil)

	r := mux.NewRouter()
	h.RegisterRoutes(r)

	return &testEnv{
		t:        t,
		store:    store,
		state:    state,
		registry: reg,
		tracker:  tracker,
		session:  sess,
		h:        h,
		router:   r,
	}
}

// do sends a request through the router. body, when not nil, is JSON encoded.
func (e *testEnv) do(method, path string, body any) *httptest.ResponseRecorder {
	e.t.Helper()
	var rd io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			e.t.Fatalf("json.Marshal() error = %v", err)
		}
		rd = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
	return v
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, w)["error"]
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		img.Set(x, x, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode() error = %v", err)
	}
	return buf.Bytes()
}

func stringsReader(s string) io.Reader {
	return bytes.NewReader([]byte(s))
}

// captionGateway answers every describe with a caption derived from the id.
type captionGateway struct {
	insight.Static
}

func (captionGateway) DescribeMedia(_ context.Context, ref insight.MediaRef) string {
	return "caption for " + ref.ID
}
