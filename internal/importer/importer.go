package importer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"lumina/internal/catalog"
	"lumina/internal/insight"
	"lumina/internal/logging"
	"lumina/internal/media"
	"lumina/internal/mediatypes"
	"lumina/internal/metrics"
	"lumina/internal/resources"
	"lumina/internal/tasks"
)

// Upload is one file offered for import. RelativePath is the optional path
// hint of a folder import ("Trips/2024/beach.jpg").
type Upload struct {
	Name         string
	MIME         string
	RelativePath string
	Body         io.Reader
}

// Registry stores imported bytes. *resources.Registry implements it.
type Registry interface {
	Acquire(name, mime string, src io.Reader) (*resources.Handle, error)
	Release(id string) error
	Path(id string) (string, bool)
}

// Importer imports uploads into a catalog.
type Importer struct {
	state    *catalog.State
	registry Registry
	gateway  insight.Gateway
	sampler  media.FrameSampler
	tasks    *tasks.Tracker
	now      func() time.Time
}

// New creates an Importer. sampler may be nil, in which case video keeps its
// placeholder thumbnail.
func New(state *catalog.State, registry Registry, gateway insight.Gateway, sampler media.FrameSampler, tracker *tasks.Tracker) *Importer {
	return &Importer{
		state:    state,
		registry: registry,
		gateway:  gateway,
		sampler:  sampler,
		tasks:    tracker,
		now:      time.Now,
	}
}

// Import stores every supported upload, inserts the new items at the front
// of the user collection and returns them in upload order. Files that fail
// are logged and skipped. The returned error only reports a failed snapshot
// write; the items are in the catalog regardless.
func (im *Importer) Import(ctx context.Context, uploads []Upload) ([]media.Item, error) {
	items := make([]media.Item, 0, len(uploads))
	for _, up := range uploads {
		item, err := im.prepare(up)
		if err != nil {
			logging.Warn("Import of %q failed: %v", up.Name, err)
			continue
		}
		if item == nil {
			continue
		}
		items = append(items, *item)
	}
	if len(items) == 0 {
		return items, nil
	}

	// Each file lands in front of the previous one.
	front := slices.Clone(items)
	slices.Reverse(front)
	if err := im.state.AddUserItems(ctx, front...); err != nil {
		if errors.Is(err, catalog.ErrDuplicate) || errors.Is(err, catalog.ErrInvalid) {
			for _, it := range items {
				im.releaseAll(it.Handles)
			}
			return nil, err
		}
		logging.Error("Imported %d files but the snapshot write failed: %v", len(items), err)
		im.scheduleCovers(items)
		return items, err
	}

	im.scheduleCovers(items)
	logging.Info("Imported %d of %d files", len(items), len(uploads))
	return items, nil
}

// prepare stores one upload. It returns nil, nil for unsupported kinds.
func (im *Importer) prepare(up Upload) (*media.Item, error) {
	body := up.Body
	mime := strings.ToLower(strings.TrimSpace(up.MIME))
	if mime == "" || mime == "application/octet-stream" {
		sniffed, rest, err := sniff(body)
		if err != nil {
			metrics.ImportFilesTotal.WithLabelValues("unknown", "error").Inc()
			return nil, err
		}
		mime, body = sniffed, rest
	}

	kind, ok := mediatypes.FromMIME(mime)
	if !ok {
		kind, ok = mediatypes.FromExtension(strings.ToLower(filepath.Ext(up.Name)))
	}
	if !ok || kind == mediatypes.TypeStream {
		logging.Debug("Skipping %q: unsupported type %q", up.Name, mime)
		metrics.ImportFilesTotal.WithLabelValues("unknown", "skipped").Inc()
		return nil, nil
	}

	h, err := im.registry.Acquire(up.Name, mime, body)
	if err != nil {
		metrics.ImportFilesTotal.WithLabelValues(string(kind), "error").Inc()
		return nil, err
	}

	now := im.now()
	item := media.Item{
		ID:          fmt.Sprintf("file-%d-%s", now.UnixMilli(), uuid.NewString()),
		Type:        kind,
		URL:         h.URL,
		Thumbnail:   media.DefaultThumbnail,
		Title:       up.Name,
		Description: "Imported from: " + orDefault(up.RelativePath, "Device"),
		Category:    "Local",
		Date:        media.Today(now),
		Source:      mediatypes.SourceUSB,
		Size:        h.Size,
		Folder:      folderOf(up.RelativePath),
		Handles:     []string{h.ID},
	}
	if kind == mediatypes.TypeImage {
		item.Thumbnail = h.URL
	}

	metrics.ImportFilesTotal.WithLabelValues(string(kind), "imported").Inc()
	return &item, nil
}

// sniff detects the MIME type from the head of r and returns a reader that
// still yields the whole content.
func sniff(r io.Reader) (string, io.Reader, error) {
	head := make([]byte, 3072)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", nil, fmt.Errorf("failed to read upload: %w", err)
	}
	head = head[:n]
	mime := mimetype.Detect(head).String()
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	return mime, io.MultiReader(bytes.NewReader(head), r), nil
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// folderOf returns the first segment of a relative path hint, or Root.
func folderOf(rel string) string {
	first, _, _ := strings.Cut(strings.TrimLeft(filepath.ToSlash(rel), "/"), "/")
	return orDefault(first, "Root")
}

func (im *Importer) scheduleCovers(items []media.Item) {
	for _, it := range items {
		if it.Type != mediatypes.TypeVideo {
			continue
		}
		if im.sampler == nil || im.tasks == nil {
			logging.Debug("No frame sampler, %s keeps its placeholder thumbnail", it.ID)
			continue
		}
		id, title, handle := it.ID, it.Title, it.Handles[0]
		im.tasks.Go(tasks.KindThumbnail, id, func(ctx context.Context) error {
			return im.generateCover(ctx, id, title, handle)
		})
	}
}

// generateCover samples a frame of the item's video, asks the gateway for a
// cover and swaps only that item's thumbnail.
func (im *Importer) generateCover(ctx context.Context, id, title, handle string) error {
	path, ok := im.registry.Path(handle)
	if !ok {
		metrics.ThumbnailGenerationsTotal.WithLabelValues("discarded").Inc()
		return nil
	}

	frame, err := im.sampler.SampleFrame(ctx, path)
	if err != nil {
		metrics.ThumbnailGenerationsTotal.WithLabelValues("frame_error").Inc()
		return fmt.Errorf("frame sampling for %s: %w", id, err)
	}

	cover := im.gateway.GenerateThumbnail(ctx, frame, title)
	if cover == nil {
		metrics.ThumbnailGenerationsTotal.WithLabelValues("no_image").Inc()
		return nil
	}
	if _, err := media.GetImageDimensions(cover); err != nil {
		metrics.ThumbnailGenerationsTotal.WithLabelValues("invalid_image").Inc()
		logging.Warn("Discarding undecodable AI cover for %s: %v", id, err)
		return nil
	}

	h, err := im.registry.Acquire(title+" (cover)", "", bytes.NewReader(cover))
	if err != nil {
		metrics.ThumbnailGenerationsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("storing cover for %s: %w", id, err)
	}

	if err := im.state.SetThumbnail(ctx, id, h.URL, h.ID); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			// The item was removed while the cover was generated.
			im.releaseAll([]string{h.ID})
			metrics.ThumbnailGenerationsTotal.WithLabelValues("discarded").Inc()
			return nil
		}
		metrics.ThumbnailGenerationsTotal.WithLabelValues("error").Inc()
		return err
	}

	metrics.ThumbnailGenerationsTotal.WithLabelValues("success").Inc()
	logging.Info("AI cover ready for %s", id)
	return nil
}

func (im *Importer) releaseAll(handles []string) {
	for _, h := range handles {
		if err := im.registry.Release(h); err != nil {
			logging.Warn("Failed to release %s: %v", h, err)
		}
	}
}
