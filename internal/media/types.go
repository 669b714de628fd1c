package media

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"lumina/internal/mediatypes"
)

// DateLayout is the layout of Item.Date.
const DateLayout = "2006-01-02"

// PlaybackDetails groups the fields that only timed media (video, audio) carry.
type PlaybackDetails struct {
	Duration string `json:"duration,omitempty"`
	Genre    string `json:"genre,omitempty"`
}

// LinkDetails groups the fields of items backed by a network endpoint.
type LinkDetails struct {
	SourceID string `json:"sourceId,omitempty"`
	IsLive   bool   `json:"isLive,omitempty"`
}

// Item is a unit of content in the gallery.
type Item struct {
	ID            string               `json:"id"`
	Type          mediatypes.MediaType `json:"type"`
	URL           string               `json:"url"`
	Thumbnail     string               `json:"thumbnail"`
	Title         string               `json:"title"`
	Description   string               `json:"description"`
	AIDescription string               `json:"aiDescription,omitempty"`
	Category      string               `json:"category"`
	Date          string               `json:"date"`
	Source        mediatypes.Source    `json:"source,omitempty"`
	Size          int64                `json:"size,omitempty"`
	Folder        string               `json:"folder,omitempty"`
	IsFavorite    bool                 `json:"isFavorite,omitempty"`

	Playback *PlaybackDetails `json:"playback,omitempty"`
	Link     *LinkDetails     `json:"link,omitempty"`

	// Handles lists resource handle ids owned by the item (imported bytes and
	// generated thumbnails). They are released when the item is removed.
	Handles []string `json:"handles,omitempty"`
}

// flatFields are the variant fields as they appear in the flat item layout,
// where they sit on the item itself instead of in a group.
type flatFields struct {
	Duration       string `json:"duration"`
	Genre          string `json:"genre"`
	SourceID       string `json:"sourceId"`
	IsLive         bool   `json:"isLive"`
	IsUserUploaded bool   `json:"isUserUploaded"`
}

// UnmarshalJSON decodes both the grouped and the flat item layout. A group
// present in the input wins over the flat fields it would otherwise be built
// from. Unknown fields are rejected.
func (i *Item) UnmarshalJSON(data []byte) error {
	type grouped Item
	var aux struct {
		grouped
		flatFields
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&aux); err != nil {
		return err
	}

	*i = Item(aux.grouped)
	if i.Playback == nil && (aux.Duration != "" || aux.Genre != "") {
		i.Playback = &PlaybackDetails{Duration: aux.Duration, Genre: aux.Genre}
	}
	if i.Link == nil && (aux.SourceID != "" || aux.IsLive) {
		i.Link = &LinkDetails{SourceID: aux.SourceID, IsLive: aux.IsLive}
	}
	return nil
}

// Duration returns the playback duration, if any.
func (i *Item) Duration() string {
	if i.Playback == nil {
		return ""
	}
	return i.Playback.Duration
}

// Genre returns the audio genre, if any.
func (i *Item) Genre() string {
	if i.Playback == nil {
		return ""
	}
	return i.Playback.Genre
}

// SourceID returns the id of the NetworkSource backing the item, if any.
func (i *Item) SourceID() string {
	if i.Link == nil {
		return ""
	}
	return i.Link.SourceID
}

// HasDescription reports whether an AI caption is cached on the item.
func (i *Item) HasDescription() bool {
	return i.AIDescription != ""
}

// Clone returns a deep copy of the item.
func (i Item) Clone() Item {
	if i.Playback != nil {
		p := *i.Playback
		i.Playback = &p
	}
	if i.Link != nil {
		l := *i.Link
		i.Link = &l
	}
	if i.Handles != nil {
		i.Handles = append([]string(nil), i.Handles...)
	}
	return i
}

// ErrInvalidItem is returned by Validate for malformed items.
var ErrInvalidItem = errors.New("invalid media item")

// Validate checks the item's identity and that its variant groups match its type.
func (i *Item) Validate() error {
	if i.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidItem)
	}
	if !i.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidItem, i.Type)
	}
	if !i.Source.Valid() {
		return fmt.Errorf("%w: unknown source %q", ErrInvalidItem, i.Source)
	}
	if i.Playback != nil && i.Type != mediatypes.TypeVideo && i.Type != mediatypes.TypeAudio {
		return fmt.Errorf("%w: playback details on %s item", ErrInvalidItem, i.Type)
	}
	if i.Playback != nil && i.Playback.Genre != "" && i.Type != mediatypes.TypeAudio {
		return fmt.Errorf("%w: genre on %s item", ErrInvalidItem, i.Type)
	}
	if i.Size < 0 {
		return fmt.Errorf("%w: negative size", ErrInvalidItem)
	}
	return nil
}

// ConnectionStatus is the advisory reachability of a NetworkSource.
type ConnectionStatus string

const (
	StatusOnline   ConnectionStatus = "online"
	StatusOffline  ConnectionStatus = "offline"
	StatusChecking ConnectionStatus = "checking"
	StatusUnknown  ConnectionStatus = "unknown"
)

// SourceType distinguishes stream endpoints from network shares.
type SourceType string

const (
	SourceTypeIPTV    SourceType = "iptv"
	SourceTypeNetwork SourceType = "network"
)

// Valid reports whether t is a known source type.
func (t SourceType) Valid() bool {
	return t == SourceTypeIPTV || t == SourceTypeNetwork
}

// NetworkSource is a registered remote endpoint.
type NetworkSource struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	URL         string           `json:"url"`
	Status      ConnectionStatus `json:"status"`
	LastChecked string           `json:"lastChecked"`
	Type        SourceType       `json:"type"`
}

// Album is a named, user-defined grouping of media ids.
type Album struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	MediaIDs  []string `json:"mediaIds"`
	CreatedAt string   `json:"createdAt"`
}

// Contains reports whether the album references the media id.
func (a *Album) Contains(id string) bool {
	for _, m := range a.MediaIDs {
		if m == id {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the album.
func (a Album) Clone() Album {
	if a.MediaIDs != nil {
		a.MediaIDs = append(make([]string, 0, len(a.MediaIDs)), a.MediaIDs...)
	}
	return a
}

// Today returns the current date formatted with DateLayout.
func Today(now time.Time) string {
	return now.Format(DateLayout)
}
