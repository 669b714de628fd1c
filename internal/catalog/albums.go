package catalog

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"lumina/internal/media"
)

// Albums returns the album registry in creation order.
func (s *State) Albums() []media.Album {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]media.Album, len(s.albums))
	for i, a := range s.albums {
		out[i] = a.Clone()
	}
	return out
}

// Album returns the album with id.
func (s *State) Album(id string) (media.Album, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.albumLocked(id)
	if a == nil {
		return media.Album{}, false
	}
	return a.Clone(), true
}

func (s *State) albumLocked(id string) *media.Album {
	for i := range s.albums {
		if s.albums[i].ID == id {
			return &s.albums[i]
		}
	}
	return nil
}

// CreateAlbum registers an empty album.
func (s *State) CreateAlbum(ctx context.Context, name string) (media.Album, error) {
	if blank(name) {
		return media.Album{}, fmt.Errorf("%w: album name is required", ErrInvalid)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a := media.Album{
		ID:        "album-" + uuid.NewString(),
		Name:      strings.TrimSpace(name),
		MediaIDs:  []string{},
		CreatedAt: s.now().UTC().Format(time.RFC3339),
	}
	s.albums = append(s.albums, a)
	return a.Clone(), s.persistLocked(ctx)
}

// AddToAlbum appends mediaID to the album. Adding an id already present is a
// no-op.
func (s *State) AddToAlbum(ctx context.Context, albumID, mediaID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.albumLocked(albumID)
	if a == nil {
		return fmt.Errorf("%w: album %s", ErrNotFound, albumID)
	}
	if s.findLocked(mediaID) == nil {
		return fmt.Errorf("%w: item %s", ErrNotFound, mediaID)
	}
	if a.Contains(mediaID) {
		return nil
	}
	a.MediaIDs = append(a.MediaIDs, mediaID)
	return s.persistLocked(ctx)
}

// RemoveFromAlbum drops mediaID from the album.
func (s *State) RemoveFromAlbum(ctx context.Context, albumID, mediaID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.albumLocked(albumID)
	if a == nil {
		return fmt.Errorf("%w: album %s", ErrNotFound, albumID)
	}
	if !a.Contains(mediaID) {
		return fmt.Errorf("%w: item %s in album %s", ErrNotFound, mediaID, albumID)
	}
	a.MediaIDs = slices.DeleteFunc(a.MediaIDs, func(m string) bool { return m == mediaID })
	return s.persistLocked(ctx)
}

// DeleteAlbum removes the album. Its items stay in the catalog.
func (s *State) DeleteAlbum(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := slices.IndexFunc(s.albums, func(a media.Album) bool { return a.ID == id })
	if idx < 0 {
		return fmt.Errorf("%w: album %s", ErrNotFound, id)
	}
	s.albums = slices.Delete(s.albums, idx, idx+1)
	return s.persistLocked(ctx)
}
