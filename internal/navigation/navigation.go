package navigation

import "strings"

// Section is a logical focus region.
type Section string

// Base sections.
const (
	SectionSidebar Section = "SIDEBAR"
	SectionHeader  Section = "HEADER"
	SectionContent Section = "CONTENT"
)

// Overlay sections. While one is active, base navigation is suppressed.
const (
	SectionStreamAdd      Section = "STREAM_ADD"
	SectionAlbumCreate    Section = "ALBUM_CREATE"
	SectionAlbumPick      Section = "ALBUM_PICK"
	SectionBulkProcessing Section = "BULK_PROCESSING"
	SectionPlayer         Section = "PLAYER"
	SectionPlayerSettings Section = "PLAYER_SETTINGS"
)

// IsModal reports whether s is a text-entry, creation or bulk overlay.
func (s Section) IsModal() bool {
	switch s {
	case SectionStreamAdd, SectionAlbumCreate, SectionAlbumPick, SectionBulkProcessing:
		return true
	}
	return false
}

// FocusState is the navigation cursor. Indices of inactive sections keep
// their last value.
type FocusState struct {
	Section            Section `json:"section"`
	SidebarIndex       int     `json:"sidebarIndex"`
	ContentIndex       int     `json:"contentIndex"`
	HeaderIndex        int     `json:"headerIndex"`
	PickerIndex        int     `json:"pickerIndex,omitempty"`
	PlayerControlIndex int     `json:"playerControlIndex,omitempty"`
	PlayerOptionIndex  int     `json:"playerOptionIndex,omitempty"`
}

// Initial returns the start state: SIDEBAR with every index at 0.
func Initial() FocusState {
	return FocusState{Section: SectionSidebar}
}

// Key is a remote input.
type Key string

const (
	KeyUp    Key = "up"
	KeyDown  Key = "down"
	KeyLeft  Key = "left"
	KeyRight Key = "right"
	KeyEnter Key = "enter"
	KeyBack  Key = "back"
)

var keyNames = map[string]Key{
	"arrowup":    KeyUp,
	"up":         KeyUp,
	"arrowdown":  KeyDown,
	"down":       KeyDown,
	"arrowleft":  KeyLeft,
	"left":       KeyLeft,
	"arrowright": KeyRight,
	"right":      KeyRight,
	"enter":      KeyEnter,
	"ok":         KeyEnter,
	"escape":     KeyBack,
	"backspace":  KeyBack,
	"back":       KeyBack,
}

// ParseKey maps a DOM-style key name or a remote alias to a Key.
// Matching is case-insensitive.
func ParseKey(name string) (Key, bool) {
	k, ok := keyNames[strings.ToLower(strings.TrimSpace(name))]
	return k, ok
}

// Env describes the screen the key applies to.
type Env struct {
	Visible      int  // items in the current projection
	Columns      int  // 4 in grid mode, 1 in list mode
	SidebarCount int  // entries in the sidebar
	PlayerOpen   bool // an item is open in the player
	SettingsOpen bool // the player settings panel is open
	ModalOpen    bool // a text-entry, creation or bulk overlay is open
}

// EffectKind names what the caller must do after a transition.
type EffectKind string

const (
	EffectNone           EffectKind = ""
	EffectOpenItem       EffectKind = "open_item"
	EffectToggleSettings EffectKind = "toggle_settings"
	EffectCloseSettings  EffectKind = "close_settings"
	EffectClosePlayer    EffectKind = "close_player"
	EffectCloseOverlay   EffectKind = "close_overlay"
)

// Effect is the side effect of a transition. Index is the projection index of
// the item to open for EffectOpenItem.
type Effect struct {
	Kind  EffectKind `json:"kind,omitempty"`
	Index int        `json:"index,omitempty"`
}

// Next returns the state after key and the effect the caller must apply.
func Next(s FocusState, key Key, env Env) (FocusState, Effect) {
	cols := env.Columns
	if cols < 1 {
		cols = 1
	}

	switch {
	case env.ModalOpen:
		if key == KeyBack {
			return clamp(s, env), Effect{Kind: EffectCloseOverlay}
		}
		return clamp(s, env), Effect{}

	case env.PlayerOpen:
		switch key {
		case KeyBack:
			if env.SettingsOpen {
				return clamp(s, env), Effect{Kind: EffectCloseSettings}
			}
			return clamp(s, env), Effect{Kind: EffectClosePlayer}
		case KeyEnter:
			return clamp(s, env), Effect{Kind: EffectToggleSettings}
		}
		return clamp(s, env), Effect{}
	}

	var effect Effect
	s = clamp(s, env)

	switch key {
	case KeyUp:
		switch s.Section {
		case SectionContent:
			if s.ContentIndex < cols {
				s.Section = SectionHeader
			} else {
				s.ContentIndex -= cols
			}
		case SectionSidebar:
			s.SidebarIndex--
		}

	case KeyDown:
		switch s.Section {
		case SectionSidebar:
			s.SidebarIndex++
		case SectionHeader:
			s.Section = SectionContent
		case SectionContent:
			s.ContentIndex += cols
		}

	case KeyLeft:
		switch s.Section {
		case SectionContent:
			if s.ContentIndex%cols == 0 {
				s.Section = SectionSidebar
			} else {
				s.ContentIndex--
			}
		case SectionHeader:
			s.Section = SectionSidebar
		}

	case KeyRight:
		switch s.Section {
		case SectionSidebar:
			s.Section = SectionContent
		case SectionContent:
			s.ContentIndex++
		}

	case KeyEnter:
		if s.Section == SectionContent && s.ContentIndex < env.Visible {
			effect = Effect{Kind: EffectOpenItem, Index: s.ContentIndex}
		}
	}

	return clamp(s, env), effect
}

// clamp keeps the sidebar and content indices inside their collections.
func clamp(s FocusState, env Env) FocusState {
	s.SidebarIndex = bound(s.SidebarIndex, env.SidebarCount)
	s.ContentIndex = bound(s.ContentIndex, env.Visible)
	if s.Section == "" {
		s.Section = SectionSidebar
	}
	return s
}

func bound(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}
