package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"lumina/internal/catalog"
	"lumina/internal/insight"
	"lumina/internal/logging"
	"lumina/internal/media"
	"lumina/internal/metrics"
	"lumina/internal/navigation"
	"lumina/internal/tasks"
)

// ViewMode is the layout of the content area.
type ViewMode string

const (
	ViewGrid ViewMode = "grid"
	ViewList ViewMode = "list"
)

// Columns returns the number of grid columns for the mode.
func (m ViewMode) Columns() int {
	if m == ViewList {
		return 1
	}
	return 4
}

// Resolutions lists the player resolution options in display order.
var Resolutions = []string{"Auto", "4K (2160p)", "1080p", "720p", "480p"}

// Rotations lists the image rotations the player cycles through, in degrees.
var Rotations = []int{0, 90, 180, 270}

var (
	// ErrBusy is returned while a bulk run suppresses input.
	ErrBusy = errors.New("bulk processing in progress")
	// ErrNoPlayer is returned by player operations when nothing is open.
	ErrNoPlayer = errors.New("no item open")
)

// State is the subset of catalog.State a session reads and writes.
type State interface {
	Visible(category, albumID string) []media.Item
	Item(id string) (media.Item, bool)
	Album(id string) (media.Album, bool)
	Describe(ctx context.Context, id string, gw catalog.Describer) (string, error)
}

// Session is the presentation state of one TV client.
type Session struct {
	mu sync.Mutex

	state   State
	gateway catalog.Describer
	tasks   *tasks.Tracker

	focus    navigation.FocusState
	returnTo navigation.Section
	view     ViewMode
	albumID  string

	selectedID   string
	settingsOpen bool
	rotation     int
	resolution   string
	caption      string
	loading      bool

	overlay      navigation.Section
	bulkRunning  bool
	bulkHidden   bool
	bulkProgress int
	bulkTotal    int
}

// New creates a session in its initial state: SIDEBAR focus, grid view,
// category "all".
func New(state State, gw catalog.Describer, tracker *tasks.Tracker) *Session {
	return &Session{
		state:      state,
		gateway:    gw,
		tasks:      tracker,
		focus:      navigation.Initial(),
		view:       ViewGrid,
		resolution: Resolutions[0],
	}
}

// categoryLocked returns the category the sidebar cursor points at.
func (s *Session) categoryLocked() string {
	return catalog.CategoryAt(s.focus.SidebarIndex)
}

func (s *Session) visibleLocked() []media.Item {
	return s.state.Visible(s.categoryLocked(), s.albumID)
}

// syncLocked closes the player when its item left the catalog and drops an
// album selection whose album was deleted.
func (s *Session) syncLocked() {
	if s.albumID != "" {
		if _, ok := s.state.Album(s.albumID); !ok {
			s.albumID = ""
		}
	}
	if s.selectedID == "" {
		return
	}
	if _, ok := s.state.Item(s.selectedID); !ok {
		logging.Debug("Open item %s is gone, closing player", s.selectedID)
		s.closePlayerLocked()
	}
}

func (s *Session) envLocked(visible int) navigation.Env {
	return navigation.Env{
		Visible:      visible,
		Columns:      s.view.Columns(),
		SidebarCount: len(catalog.Categories()),
		PlayerOpen:   s.selectedID != "",
		SettingsOpen: s.settingsOpen,
		ModalOpen:    s.overlay != "" || s.bulkShownLocked(),
	}
}

// HandleKey applies one remote key and returns the effect it produced.
func (s *Session) HandleKey(key navigation.Key) navigation.Effect {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.syncLocked()
	metrics.NavigationKeysTotal.WithLabelValues(string(key), string(s.focus.Section)).Inc()

	visible := s.visibleLocked()
	next, effect := navigation.Next(s.focus, key, s.envLocked(len(visible)))
	s.focus = next

	switch effect.Kind {
	case navigation.EffectOpenItem:
		if effect.Index < len(visible) {
			s.openLocked(visible[effect.Index])
		}
	case navigation.EffectToggleSettings:
		s.settingsOpen = !s.settingsOpen
		if s.settingsOpen {
			s.focus.Section = navigation.SectionPlayerSettings
		} else {
			s.focus.Section = navigation.SectionPlayer
		}
	case navigation.EffectCloseSettings:
		s.settingsOpen = false
		s.focus.Section = navigation.SectionPlayer
	case navigation.EffectClosePlayer:
		s.closePlayerLocked()
	case navigation.EffectCloseOverlay:
		s.closeOverlayLocked()
	}
	return effect
}

// openLocked opens item in the player and shows its caption, fetching it on
// a task when it is not cached yet.
func (s *Session) openLocked(item media.Item) {
	s.selectedID = item.ID
	s.settingsOpen = false
	s.rotation = 0
	s.focus.Section = navigation.SectionPlayer

	if item.HasDescription() {
		s.caption = item.AIDescription
		s.loading = false
		return
	}

	s.caption = insight.LoadingCaption
	s.loading = true
	s.requestCaption(item.ID)
}

func (s *Session) requestCaption(id string) {
	if s.tasks == nil {
		return
	}
	s.tasks.Go(tasks.KindDescribe, id, func(ctx context.Context) error {
		desc, err := s.state.Describe(ctx, id, s.gateway)
		if err != nil {
			s.resolveCaption(id, insight.FallbackDescription)
			return fmt.Errorf("describe %s: %w", id, err)
		}
		s.resolveCaption(id, desc)
		return nil
	})
}

// resolveCaption shows desc if id is still the open item.
func (s *Session) resolveCaption(id, desc string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selectedID != id {
		logging.Debug("Caption for %s arrived after it was closed", id)
		return
	}
	s.caption = desc
	s.loading = false
}

func (s *Session) closePlayerLocked() {
	s.selectedID = ""
	s.settingsOpen = false
	s.rotation = 0
	s.caption = ""
	s.loading = false
	s.focus.Section = navigation.SectionContent
}

// bulkShownLocked reports whether a bulk run holds the screen.
func (s *Session) bulkShownLocked() bool {
	return s.bulkRunning && !s.bulkHidden
}

// closeOverlayLocked dismisses the open overlay. The bulk overlay is only
// hidden; its run keeps going in the background.
func (s *Session) closeOverlayLocked() {
	switch {
	case s.overlay != "":
		s.overlay = ""
		if s.bulkShownLocked() {
			s.focus.Section = navigation.SectionBulkProcessing
			return
		}
	case s.bulkShownLocked():
		s.bulkHidden = true
		logging.Debug("Bulk overlay dismissed, run continues in the background")
	default:
		return
	}
	s.restoreSectionLocked()
}

func (s *Session) restoreSectionLocked() {
	switch {
	case s.selectedID != "" && s.settingsOpen:
		s.focus.Section = navigation.SectionPlayerSettings
	case s.selectedID != "":
		s.focus.Section = navigation.SectionPlayer
	case s.returnTo != "":
		s.focus.Section = s.returnTo
	default:
		s.focus.Section = navigation.SectionSidebar
	}
	s.returnTo = ""
}

// enterOverlayLocked remembers the base section and focuses section.
func (s *Session) enterOverlayLocked(section navigation.Section) {
	if !s.focus.Section.IsModal() && s.selectedID == "" {
		s.returnTo = s.focus.Section
	}
	s.focus.Section = section
}

// SetViewMode switches between grid and list layout.
func (s *Session) SetViewMode(mode ViewMode) error {
	if mode != ViewGrid && mode != ViewList {
		return fmt.Errorf("%w: view mode %q", catalog.ErrInvalid, mode)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = mode
	return nil
}

// SelectAlbum focuses the albums category on album id. An empty id clears
// the selection.
func (s *Session) SelectAlbum(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" {
		s.albumID = ""
		return nil
	}
	if _, ok := s.state.Album(id); !ok {
		return fmt.Errorf("%w: album %s", catalog.ErrNotFound, id)
	}
	s.albumID = id
	s.focus.SidebarIndex = catalog.CategoryIndex(catalog.CategoryAlbums)
	s.focus.ContentIndex = 0
	if s.overlay == navigation.SectionAlbumPick {
		s.closeOverlayLocked()
	}
	return nil
}

// OpenOverlay shows one of the stream-add, album-create or album-pick
// overlays. An empty section closes the current one.
func (s *Session) OpenOverlay(section navigation.Section) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if section == "" {
		s.closeOverlayLocked()
		return nil
	}
	switch section {
	case navigation.SectionStreamAdd, navigation.SectionAlbumCreate, navigation.SectionAlbumPick:
	default:
		return fmt.Errorf("%w: overlay %q", catalog.ErrInvalid, section)
	}
	if s.bulkShownLocked() {
		return ErrBusy
	}
	s.overlay = section
	s.enterOverlayLocked(section)
	return nil
}

// CompleteOverlay closes section if it is the open overlay. It is called
// after the action the overlay collected input for has succeeded.
func (s *Session) CompleteOverlay(section navigation.Section) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.overlay != section {
		return false
	}
	s.closeOverlayLocked()
	return true
}

// Rotate advances the image rotation of the open item by 90 degrees and
// returns the new angle.
func (s *Session) Rotate() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.syncLocked()
	if s.selectedID == "" {
		return 0, ErrNoPlayer
	}
	i := slices.Index(Rotations, s.rotation)
	s.rotation = Rotations[(i+1)%len(Rotations)]
	return s.rotation, nil
}

// SetResolution picks one of Resolutions for the player.
func (s *Session) SetResolution(res string) error {
	if !slices.Contains(Resolutions, res) {
		return fmt.Errorf("%w: resolution %q", catalog.ErrInvalid, res)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.syncLocked()
	if s.selectedID == "" {
		return ErrNoPlayer
	}
	s.resolution = res
	return nil
}
