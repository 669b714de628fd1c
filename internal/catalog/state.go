package catalog

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"lumina/internal/insight"
	"lumina/internal/logging"
	"lumina/internal/media"
	"lumina/internal/mediatypes"
	"lumina/internal/metrics"
	"lumina/internal/resources"
)

// Store persists snapshot blobs. *database.Database implements it.
type Store interface {
	GetBlob(ctx context.Context, key string) ([]byte, error)
	PutSnapshot(ctx context.Context, blobs map[string][]byte) error
}

// Resources releases and reads the bytes behind resource handles.
// *resources.Registry implements it.
type Resources interface {
	Release(id string) error
	ReadAll(id string) ([]byte, string, error)
}

// Describer is the caption half of the insight gateway.
type Describer interface {
	DescribeMedia(ctx context.Context, ref insight.MediaRef) string
}

// State owns the catalog, albums and sources.
type State struct {
	mu  sync.Mutex
	now func() time.Time

	store     Store
	resources Resources

	seed    []media.Item
	seedIDs map[string]struct{}
	user    []media.Item
	albums  []media.Album
	sources []media.NetworkSource
}

// Option configures a State.
type Option func(*State)

// WithClock overrides the clock used for dates and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *State) { s.now = now }
}

// WithSeed replaces the built-in seed items.
func WithSeed(items []media.Item) Option {
	return func(s *State) { s.seed = items }
}

// New creates a State over store. res may be nil when no item owns handles.
func New(store Store, res Resources, opts ...Option) *State {
	s := &State{
		now:       time.Now,
		store:     store,
		resources: res,
		seed:      media.SeedItems(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.seedIDs = make(map[string]struct{}, len(s.seed))
	for _, it := range s.seed {
		s.seedIDs[it.ID] = struct{}{}
	}
	return s
}

func (s *State) isSeed(id string) bool {
	_, ok := s.seedIDs[id]
	return ok
}

// Items returns the catalog in projection order: user items, newest first,
// then seed items.
func (s *State) Items() []media.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.itemsLocked()
}

func (s *State) itemsLocked() []media.Item {
	out := make([]media.Item, 0, len(s.user)+len(s.seed))
	for _, it := range s.user {
		out = append(out, it.Clone())
	}
	for _, it := range s.seed {
		out = append(out, it.Clone())
	}
	return out
}

// Item returns the item with id.
func (s *State) Item(id string) (media.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it := s.findLocked(id)
	if it == nil {
		return media.Item{}, false
	}
	return it.Clone(), true
}

func (s *State) findLocked(id string) *media.Item {
	for i := range s.user {
		if s.user[i].ID == id {
			return &s.user[i]
		}
	}
	for i := range s.seed {
		if s.seed[i].ID == id {
			return &s.seed[i]
		}
	}
	return nil
}

func (s *State) userIndexLocked(id string) int {
	return slices.IndexFunc(s.user, func(it media.Item) bool { return it.ID == id })
}

// Visible returns the projection for category and, for the albums category,
// the album with albumID.
func (s *State) Visible(category, albumID string) []media.Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	var album *media.Album
	if albumID != "" {
		if a := s.albumLocked(albumID); a != nil {
			c := a.Clone()
			album = &c
		}
	}
	return Project(s.itemsLocked(), category, album)
}

// AddUserItems validates items and inserts them at the front of the user
// collection, keeping their relative order.
func (s *State) AddUserItems(ctx context.Context, items ...media.Item) error {
	if len(items) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{}, len(items))
	for i := range items {
		if err := items[i].Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalid, err)
		}
		if _, dup := seen[items[i].ID]; dup || s.findLocked(items[i].ID) != nil {
			return fmt.Errorf("%w: %s", ErrDuplicate, items[i].ID)
		}
		seen[items[i].ID] = struct{}{}
	}

	added := make([]media.Item, 0, len(items)+len(s.user))
	for _, it := range items {
		added = append(added, it.Clone())
	}
	s.user = append(added, s.user...)

	return s.persistLocked(ctx)
}

// AddUserItem inserts item at the front of the user collection.
func (s *State) AddUserItem(ctx context.Context, item media.Item) error {
	return s.AddUserItems(ctx, item)
}

// RemoveUserItem drops a user item, releases its resource handles and
// removes it from every album.
func (s *State) RemoveUserItem(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isSeed(id) {
		return fmt.Errorf("%w: %s", ErrImmutable, id)
	}
	if !s.removeUserLocked(id) {
		return fmt.Errorf("%w: item %s", ErrNotFound, id)
	}
	return s.persistLocked(ctx)
}

func (s *State) removeUserLocked(id string) bool {
	idx := s.userIndexLocked(id)
	if idx < 0 {
		return false
	}
	removed := s.user[idx]
	s.user = slices.Delete(s.user, idx, idx+1)

	for i := range s.albums {
		s.albums[i].MediaIDs = slices.DeleteFunc(s.albums[i].MediaIDs, func(m string) bool { return m == id })
	}
	s.releaseLocked(removed.Handles)
	return true
}

func (s *State) releaseLocked(handles []string) {
	if s.resources == nil {
		return
	}
	for _, h := range handles {
		if err := s.resources.Release(h); err != nil {
			logging.Warn("Failed to release resource %s: %v", h, err)
		}
	}
}

// SetAIDescription caches desc on the item. Seed items accept captions too.
func (s *State) SetAIDescription(ctx context.Context, id, desc string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	it := s.findLocked(id)
	if it == nil {
		return fmt.Errorf("%w: item %s", ErrNotFound, id)
	}
	it.AIDescription = desc
	return s.persistLocked(ctx)
}

// ClearAIDescription drops the cached caption so the next open fetches a
// new one.
func (s *State) ClearAIDescription(ctx context.Context, id string) error {
	return s.SetAIDescription(ctx, id, "")
}

// SetThumbnail replaces a user item's thumbnail. handle, when not empty, is a
// resource handle the item takes ownership of; the handle behind the previous
// generated thumbnail is released.
func (s *State) SetThumbnail(ctx context.Context, id, url, handle string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isSeed(id) {
		return fmt.Errorf("%w: %s", ErrImmutable, id)
	}
	idx := s.userIndexLocked(id)
	if idx < 0 {
		return fmt.Errorf("%w: item %s", ErrNotFound, id)
	}

	it := &s.user[idx]
	if old := resources.IDFromURL(it.Thumbnail); old != "" && old != resources.IDFromURL(it.URL) {
		it.Handles = slices.DeleteFunc(it.Handles, func(h string) bool { return h == old })
		s.releaseLocked([]string{old})
	}
	it.Thumbnail = url
	if handle != "" && !slices.Contains(it.Handles, handle) {
		it.Handles = append(it.Handles, handle)
	}
	return s.persistLocked(ctx)
}

// ToggleFavorite flips the favorite flag of a user item and returns the new
// value.
func (s *State) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isSeed(id) {
		return false, fmt.Errorf("%w: %s", ErrImmutable, id)
	}
	idx := s.userIndexLocked(id)
	if idx < 0 {
		return false, fmt.Errorf("%w: item %s", ErrNotFound, id)
	}
	s.user[idx].IsFavorite = !s.user[idx].IsFavorite
	return s.user[idx].IsFavorite, s.persistLocked(ctx)
}

// Describe returns the item's caption. A cached caption is returned without
// calling gw; otherwise gw is called outside the lock and the result is
// cached by id, unless gw is the keyless Static gateway. The caption is returned even if the item was removed
// meanwhile.
func (s *State) Describe(ctx context.Context, id string, gw Describer) (string, error) {
	s.mu.Lock()
	it := s.findLocked(id)
	if it == nil {
		s.mu.Unlock()
		return "", fmt.Errorf("%w: item %s", ErrNotFound, id)
	}
	if it.HasDescription() {
		desc := it.AIDescription
		s.mu.Unlock()
		metrics.DescriptionCacheHits.Inc()
		return desc, nil
	}
	ref := s.refLocked(it)
	s.mu.Unlock()

	metrics.DescriptionCacheMisses.Inc()
	desc := gw.DescribeMedia(ctx, ref)

	// Placeholder captions are not cached, so the item stays in ai_hub until
	// a configured gateway describes it.
	if _, placeholder := gw.(insight.Static); placeholder {
		return desc, nil
	}
	if err := s.SetAIDescription(context.WithoutCancel(ctx), id, desc); err != nil {
		logging.Debug("Caption for %s not cached: %v", id, err)
	}
	return desc, nil
}

func (s *State) refLocked(it *media.Item) insight.MediaRef {
	ref := insight.MediaRef{
		ID:    it.ID,
		Type:  it.Type,
		Title: it.Title,
		URL:   it.URL,
	}
	if it.Type != mediatypes.TypeImage || s.resources == nil {
		return ref
	}
	if h := resources.IDFromURL(it.URL); h != "" {
		data, mime, err := s.resources.ReadAll(h)
		if err != nil {
			logging.Warn("Failed to read bytes of %s for captioning: %v", it.ID, err)
			return ref
		}
		ref.Data, ref.MIME = data, mime
	}
	return ref
}

// HandleIDs returns every resource handle referenced by a user item.
func (s *State) HandleIDs() map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	keep := make(map[string]bool)
	for _, it := range s.user {
		for _, h := range it.Handles {
			keep[h] = true
		}
	}
	return keep
}

// GetStats implements metrics.StatsProvider.
func (s *State) GetStats() metrics.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := metrics.Stats{
		ItemsByType: make(map[string]int),
		UserItems:   len(s.user),
		Albums:      len(s.albums),
		Sources:     make(map[string]int),
	}
	for _, it := range s.itemsLocked() {
		stats.ItemsByType[string(it.Type)]++
		if it.HasDescription() {
			stats.Described++
		}
		if it.IsFavorite {
			stats.Favorites++
		}
	}
	for _, src := range s.sources {
		stats.Sources[string(src.Status)]++
	}
	return stats
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
