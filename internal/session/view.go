package session

import (
	"lumina/internal/catalog"
	"lumina/internal/media"
	"lumina/internal/navigation"
)

// Player is the state of the full-screen player.
type Player struct {
	Item         media.Item `json:"item"`
	SettingsOpen bool       `json:"settingsOpen"`
	Rotation     int        `json:"rotation"`
	Resolution   string     `json:"resolution"`
	Resolutions  []string   `json:"resolutions"`
	Caption      string     `json:"caption"`
	Loading      bool       `json:"loading"`
}

// Bulk reports the progress of a bulk description run. Hidden is set when
// the overlay was dismissed while the run continues.
type Bulk struct {
	Running  bool `json:"running"`
	Hidden   bool `json:"hidden,omitempty"`
	Progress int  `json:"progress"`
	Total    int  `json:"total"`
}

// View is everything a renderer needs to draw the current screen.
type View struct {
	Focus    navigation.FocusState `json:"focus"`
	Category string                `json:"category"`
	ViewMode ViewMode              `json:"viewMode"`
	Columns  int                   `json:"columns"`
	Album    *media.Album          `json:"album,omitempty"`
	Items    []media.Item          `json:"items"`
	Player   *Player               `json:"player,omitempty"`
	Overlay  navigation.Section    `json:"overlay,omitempty"`
	Bulk     Bulk                  `json:"bulk"`
}

// Snapshot returns the current view. The content index is clamped to the
// visible items.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.syncLocked()
	items := s.visibleLocked()

	focus := s.focus
	switch {
	case len(items) == 0 || focus.ContentIndex < 0:
		focus.ContentIndex = 0
	case focus.ContentIndex >= len(items):
		focus.ContentIndex = len(items) - 1
	}

	v := View{
		Focus:    focus,
		Category: s.categoryLocked(),
		ViewMode: s.view,
		Columns:  s.view.Columns(),
		Items:    items,
		Overlay:  s.overlay,
		Bulk: Bulk{
			Running:  s.bulkRunning,
			Hidden:   s.bulkHidden,
			Progress: s.bulkProgress,
			Total:    s.bulkTotal,
		},
	}
	if v.Items == nil {
		v.Items = []media.Item{}
	}

	if v.Category == catalog.CategoryAlbums && s.albumID != "" {
		if a, ok := s.state.Album(s.albumID); ok {
			v.Album = &a
		}
	}

	if s.selectedID != "" {
		if it, ok := s.state.Item(s.selectedID); ok {
			v.Player = &Player{
				Item:         it,
				SettingsOpen: s.settingsOpen,
				Rotation:     s.rotation,
				Resolution:   s.resolution,
				Resolutions:  append([]string(nil), Resolutions...),
				Caption:      s.caption,
				Loading:      s.loading,
			}
		}
	}
	return v
}
