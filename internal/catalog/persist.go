package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"lumina/internal/database"
	"lumina/internal/logging"
	"lumina/internal/media"
)

// Snapshot blob keys.
const (
	KeyMedia   = "lumina_media"
	KeyAlbums  = "lumina_albums"
	KeySources = "lumina_sources"
)

// Snapshot is the persisted form of the state. Media holds the full catalog
// in projection order; seed entries only carry their cached caption back.
type Snapshot struct {
	Media   []media.Item          `json:"media"`
	Albums  []media.Album         `json:"albums"`
	Sources []media.NetworkSource `json:"sources"`
}

// Encode serializes each part of the snapshot to its blob.
func (snap Snapshot) Encode() (map[string][]byte, error) {
	parts := map[string]any{
		KeyMedia:   nonNil(snap.Media),
		KeyAlbums:  nonNil(snap.Albums),
		KeySources: nonNil(snap.Sources),
	}
	blobs := make(map[string][]byte, len(parts))
	for key, v := range parts {
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", key, err)
		}
		blobs[key] = data
	}
	return blobs, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// DecodeSnapshot parses the blobs written by Encode. Missing keys decode to
// empty collections.
func DecodeSnapshot(blobs map[string][]byte) (Snapshot, error) {
	var snap Snapshot
	targets := map[string]any{
		KeyMedia:   &snap.Media,
		KeyAlbums:  &snap.Albums,
		KeySources: &snap.Sources,
	}
	for key, target := range targets {
		data, ok := blobs[key]
		if !ok || len(data) == 0 {
			continue
		}
		if err := json.Unmarshal(data, target); err != nil {
			return Snapshot{}, fmt.Errorf("%w: %s: %v", ErrInvalid, key, err)
		}
	}
	return snap, nil
}

// Snapshot returns a copy of the state in persisted form.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *State) snapshotLocked() Snapshot {
	snap := Snapshot{
		Media:   s.itemsLocked(),
		Albums:  make([]media.Album, len(s.albums)),
		Sources: append([]media.NetworkSource(nil), s.sources...),
	}
	for i, a := range s.albums {
		snap.Albums[i] = a.Clone()
	}
	return snap
}

// Load reads the three blobs from the store. Missing blobs leave the
// corresponding collection empty.
func (s *State) Load(ctx context.Context) error {
	blobs := make(map[string][]byte, 3)
	for _, key := range []string{KeyMedia, KeyAlbums, KeySources} {
		data, err := s.store.GetBlob(ctx, key)
		if errors.Is(err, database.ErrNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", key, err)
		}
		blobs[key] = data
	}

	snap, err := DecodeSnapshot(blobs)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.restoreLocked(snap)

	logging.Info("Loaded catalog: %d user items, %d albums, %d sources", len(s.user), len(s.albums), len(s.sources))
	return nil
}

// Replace swaps the whole state for snap and persists it.
func (s *State) Replace(ctx context.Context, snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.restoreLocked(snap)
	return s.persistLocked(ctx)
}

func (s *State) restoreLocked(snap Snapshot) {
	seed := make(map[string]int, len(s.seed))
	for i, it := range s.seed {
		seed[it.ID] = i
		s.seed[i].AIDescription = ""
	}

	s.user = s.user[:0]
	seen := make(map[string]struct{}, len(snap.Media))
	for _, it := range snap.Media {
		if _, dup := seen[it.ID]; dup {
			logging.Warn("Skipping duplicate persisted item %s", it.ID)
			continue
		}
		seen[it.ID] = struct{}{}

		if i, ok := seed[it.ID]; ok {
			s.seed[i].AIDescription = it.AIDescription
			continue
		}
		if err := it.Validate(); err != nil {
			logging.Warn("Skipping persisted item: %v", err)
			continue
		}
		s.user = append(s.user, it.Clone())
	}

	s.albums = make([]media.Album, 0, len(snap.Albums))
	for _, a := range snap.Albums {
		c := a.Clone()
		if c.MediaIDs == nil {
			c.MediaIDs = []string{}
		}
		s.albums = append(s.albums, c)
	}
	s.sources = append([]media.NetworkSource(nil), snap.Sources...)
}

// persistLocked writes the full snapshot. A failed write leaves the
// in-memory state as is. The write ignores cancellation of ctx because the
// mutation it records has already been applied.
func (s *State) persistLocked(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	ctx = context.WithoutCancel(ctx)
	blobs, err := s.snapshotLocked().Encode()
	if err != nil {
		return err
	}
	if err := s.store.PutSnapshot(ctx, blobs); err != nil {
		logging.Error("Failed to persist snapshot: %v", err)
		return fmt.Errorf("failed to persist snapshot: %w", err)
	}
	return nil
}
