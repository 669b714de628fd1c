package resources

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"lumina/internal/filesystem"
	"lumina/internal/logging"
	"lumina/internal/mediatypes"
	"lumina/internal/metrics"
)

// URLPrefix is the path under which handle bytes are served.
const URLPrefix = "/api/blob/"

const octetStream = "application/octet-stream"

// ErrNotFound is returned for unknown or released handles.
var ErrNotFound = errors.New("resource handle not found")

// Handle is an acquired resource.
type Handle struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	MIME string `json:"mime"`
	Size int64  `json:"size"`
	URL  string `json:"url"`
	path string
}

// Registry owns the handle directory and the in-memory handle index.
type Registry struct {
	dir     string
	retry   filesystem.RetryConfig
	mu      sync.Mutex
	handles map[string]*Handle
}

// NewRegistry opens dir, creating it if needed, and indexes the handles
// already stored there.
func NewRegistry(dir string) (*Registry, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create resource directory: %w", err)
	}

	r := &Registry{
		dir:     dir,
		retry:   filesystem.DefaultRetryConfig(),
		handles: make(map[string]*Handle),
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read resource directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		if uuid.Validate(id) != nil {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		r.handles[id] = &Handle{
			ID:   id,
			Name: entry.Name(),
			MIME: detectMIME(path, entry.Name()),
			Size: info.Size(),
			URL:  URLFor(id),
			path: path,
		}
	}

	r.updateMetrics()
	logging.Debug("Resource registry at %s holds %d handles", dir, len(r.handles))
	return r, nil
}

// URLFor returns the served URL of a handle id.
func URLFor(id string) string {
	return URLPrefix + id
}

// IDFromURL returns the handle id of a handle URL, or "" when url is not one.
func IDFromURL(url string) string {
	id, ok := strings.CutPrefix(url, URLPrefix)
	if !ok || uuid.Validate(id) != nil {
		return ""
	}
	return id
}

// Acquire stores the bytes read from src and returns a new handle.
// An empty mime is detected from the content.
func (r *Registry) Acquire(name, mime string, src io.Reader) (*Handle, error) {
	id := uuid.NewString()

	tmp, err := os.CreateTemp(r.dir, ".acquire-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create resource file: %w", err)
	}
	tmpPath := tmp.Name()

	size, err := io.Copy(tmp, src)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmpPath)
		return nil, fmt.Errorf("failed to write resource %s: %w", name, err)
	}

	if mime == "" {
		mime = detectMIME(tmpPath, name)
	}

	path := filepath.Join(r.dir, id+extensionFor(mime))
	if err := filesystem.Rename(tmpPath, path, r.retry); err != nil {
		_ = os.Remove(tmpPath)
		return nil, fmt.Errorf("failed to store resource %s: %w", name, err)
	}

	h := &Handle{
		ID:   id,
		Name: name,
		MIME: mime,
		Size: size,
		URL:  URLFor(id),
		path: path,
	}

	r.mu.Lock()
	r.handles[id] = h
	r.updateMetricsLocked()
	r.mu.Unlock()

	logging.Debug("Acquired resource %s for %s (%s, %d bytes)", id, name, mime, size)
	return h, nil
}

// detectMIME sniffs the file content and falls back to the extension of name
// when the content is not recognized.
func detectMIME(path, name string) string {
	if detected, err := mimetype.DetectFile(path); err == nil && detected.String() != octetStream {
		return detected.String()
	}
	return mediatypes.GetMimeType(strings.ToLower(filepath.Ext(name)))
}

func extensionFor(mime string) string {
	if m := mimetype.Lookup(mime); m != nil {
		return m.Extension()
	}
	return ""
}

// Release removes the handle and its bytes. Releasing an unknown handle is a
// no-op.
func (r *Registry) Release(id string) error {
	r.mu.Lock()
	h, ok := r.handles[id]
	if ok {
		delete(r.handles, id)
		r.updateMetricsLocked()
	}
	r.mu.Unlock()

	if !ok {
		return nil
	}
	if err := filesystem.Remove(h.path, r.retry); err != nil {
		return fmt.Errorf("failed to release resource %s: %w", id, err)
	}
	logging.Debug("Released resource %s", id)
	return nil
}

// Get returns the handle for id.
func (r *Registry) Get(id string) (*Handle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.handles[id]
	if !ok {
		return nil, false
	}
	c := *h
	return &c, true
}

// Path returns the file holding the handle's bytes.
func (r *Registry) Path(id string) (string, bool) {
	h, ok := r.Get(id)
	if !ok {
		return "", false
	}
	return h.path, true
}

// Open returns the handle's bytes. The caller closes the file.
func (r *Registry) Open(id string) (*os.File, *Handle, error) {
	h, ok := r.Get(id)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	f, err := filesystem.Open(h.path, r.retry)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, nil, err
	}
	return f, h, nil
}

// ReadAll returns the handle's bytes.
func (r *Registry) ReadAll(id string) ([]byte, string, error) {
	f, h, err := r.Open(id)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", err
	}
	return data, h.MIME, nil
}

// Sweep releases every handle whose id is not in keep and returns how many
// were released.
func (r *Registry) Sweep(keep map[string]bool) int {
	r.mu.Lock()
	var orphans []string
	for id := range r.handles {
		if !keep[id] {
			orphans = append(orphans, id)
		}
	}
	r.mu.Unlock()

	released := 0
	for _, id := range orphans {
		if err := r.Release(id); err != nil {
			logging.Warn("Sweep: %v", err)
			continue
		}
		released++
	}
	if released > 0 {
		logging.Info("Released %d unreferenced resource handles", released)
	}
	return released
}

// Len returns the number of live handles.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handles)
}

func (r *Registry) updateMetrics() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updateMetricsLocked()
}

func (r *Registry) updateMetricsLocked() {
	var total int64
	for _, h := range r.handles {
		total += h.Size
	}
	metrics.ResourceHandlesOpen.Set(float64(len(r.handles)))
	metrics.ResourceHandleBytes.Set(float64(total))
}
