package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"lumina/internal/catalog"
	"lumina/internal/importer"
	"lumina/internal/logging"
	"lumina/internal/media"
	"lumina/internal/resources"
	"lumina/internal/session"
	"lumina/internal/sources"
	"lumina/internal/startup"
)

// maxJSONBody bounds the size of JSON request bodies.
const maxJSONBody = 1 << 20

// SnapshotStore reports on the persisted snapshot for health checks.
// *database.Database implements it.
type SnapshotStore interface {
	LastSnapshotAt(ctx context.Context) (time.Time, error)
}

// Deps are the components the HTTP API serves.
type Deps struct {
	State    *catalog.State
	Session  *session.Session
	Importer *importer.Importer
	Prober   *sources.Prober
	Registry *resources.Registry
	Gateway  catalog.Describer
	Store    SnapshotStore
	Pending  func() int
}

// Handlers holds the HTTP handlers of the Lumina API.
type Handlers struct {
	state     *catalog.State
	session   *session.Session
	importer  *importer.Importer
	prober    *sources.Prober
	registry  *resources.Registry
	gateway   catalog.Describer
	store     SnapshotStore
	pending   func() int
	insightOn bool
	maxUpload int64
	startTime time.Time
}

// New creates the handlers. config may be nil in tests.
func New(deps Deps, config *startup.Config) *Handlers {
	h := &Handlers{
		state:     deps.State,
		session:   deps.Session,
		importer:  deps.Importer,
		prober:    deps.Prober,
		registry:  deps.Registry,
		gateway:   deps.Gateway,
		store:     deps.Store,
		pending:   deps.Pending,
		maxUpload: 512 << 20,
		startTime: time.Now(),
	}
	if config != nil {
		h.insightOn = config.InsightEnabled()
		if config.MaxUploadBytes > 0 {
			h.maxUpload = config.MaxUploadBytes
		}
	}
	return h
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, catalog.ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, catalog.ErrNotFound), errors.Is(err, resources.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, catalog.ErrImmutable),
		errors.Is(err, catalog.ErrDuplicate),
		errors.Is(err, session.ErrBusy),
		errors.Is(err, session.ErrNoPlayer):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes err as a JSON error with the mapped status. Server
// errors are logged and their details withheld.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logging.Error("%s %s failed: %v", r.Method, r.URL.Path, err)
		writeJSONError(w, "internal error", status)
		return
	}
	writeJSONError(w, err.Error(), status)
}

// decodeJSON reads a JSON request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: request body: %v", catalog.ErrInvalid, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: request body must hold a single object", catalog.ErrInvalid)
	}
	return nil
}

// nonNilItems keeps empty lists encoded as [] rather than null.
func nonNilItems(items []media.Item) []media.Item {
	if items == nil {
		return []media.Item{}
	}
	return items
}
