package catalog

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"lumina/internal/media"
	"lumina/internal/mediatypes"
)

// Sources returns the source registry in registration order.
func (s *State) Sources() []media.NetworkSource {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.sources)
}

// Source returns the source with id.
func (s *State) Source(id string) (media.NetworkSource, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if src := s.sourceLocked(id); src != nil {
		return *src, true
	}
	return media.NetworkSource{}, false
}

func (s *State) sourceLocked(id string) *media.NetworkSource {
	for i := range s.sources {
		if s.sources[i].ID == id {
			return &s.sources[i]
		}
	}
	return nil
}

// AddStream registers a network source and a stream item linked to it.
func (s *State) AddStream(ctx context.Context, name, rawURL string, typ media.SourceType) (media.NetworkSource, media.Item, error) {
	name = strings.TrimSpace(name)
	rawURL = strings.TrimSpace(rawURL)
	if typ == "" {
		typ = media.SourceTypeIPTV
	}
	if name == "" {
		return media.NetworkSource{}, media.Item{}, fmt.Errorf("%w: stream name is required", ErrInvalid)
	}
	if !typ.Valid() {
		return media.NetworkSource{}, media.Item{}, fmt.Errorf("%w: unknown source type %q", ErrInvalid, typ)
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return media.NetworkSource{}, media.Item{}, fmt.Errorf("%w: stream url %q", ErrInvalid, rawURL)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	src := media.NetworkSource{
		ID:          "src-" + uuid.NewString(),
		Name:        name,
		URL:         rawURL,
		Status:      media.StatusUnknown,
		LastChecked: now.UTC().Format(time.RFC3339),
		Type:        typ,
	}

	source := mediatypes.SourceIPTV
	if typ == media.SourceTypeNetwork {
		source = mediatypes.SourceNetwork
	}
	item := media.Item{
		ID:          "stream-" + uuid.NewString(),
		Type:        mediatypes.TypeStream,
		URL:         rawURL,
		Thumbnail:   media.DefaultThumbnail,
		Title:       name,
		Description: "Live stream from " + u.Host,
		Category:    "Live",
		Date:        media.Today(now),
		Source:      source,
		Link:        &media.LinkDetails{SourceID: src.ID, IsLive: true},
	}

	s.sources = append(s.sources, src)
	s.user = append([]media.Item{item}, s.user...)
	return src, item.Clone(), s.persistLocked(ctx)
}

// RemoveSource removes the source and every user item linked to it.
func (s *State) RemoveSource(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := slices.IndexFunc(s.sources, func(src media.NetworkSource) bool { return src.ID == id })
	if idx < 0 {
		return fmt.Errorf("%w: source %s", ErrNotFound, id)
	}
	s.sources = slices.Delete(s.sources, idx, idx+1)

	var linked []string
	for _, it := range s.user {
		if it.SourceID() == id {
			linked = append(linked, it.ID)
		}
	}
	for _, itemID := range linked {
		s.removeUserLocked(itemID)
	}
	return s.persistLocked(ctx)
}

// SetSourceStatus records a probe result.
func (s *State) SetSourceStatus(ctx context.Context, id string, status media.ConnectionStatus, checkedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	src := s.sourceLocked(id)
	if src == nil {
		return fmt.Errorf("%w: source %s", ErrNotFound, id)
	}
	src.Status = status
	if !checkedAt.IsZero() {
		src.LastChecked = checkedAt.UTC().Format(time.RFC3339)
	}
	return s.persistLocked(ctx)
}
