package insight

import (
	"context"

	"lumina/internal/mediatypes"
)

// Fixed captions returned instead of errors.
const (
	// FallbackDescription is returned when the model call fails.
	FallbackDescription = "Content integrated into your Lumina smart library."
	// EmptyDescription is returned when the model answers with no text.
	EmptyDescription = "An exceptional piece of your digital collection."
	// LoadingCaption is shown while a description is being fetched.
	LoadingCaption = "Consulting Lumina Brain..."
)

// MediaRef is what the gateway needs to know about an item.
// Data carries the item's bytes when they are available locally.
type MediaRef struct {
	ID    string
	Type  mediatypes.MediaType
	Title string
	URL   string
	Data  []byte
	MIME  string
}

// Gateway produces captions and cover images for media items.
// Neither operation returns an error: DescribeMedia degrades to
// FallbackDescription and GenerateThumbnail to nil.
type Gateway interface {
	DescribeMedia(ctx context.Context, ref MediaRef) string
	GenerateThumbnail(ctx context.Context, frame []byte, title string) []byte
}

// Static is the gateway used when no API key is configured.
type Static struct{}

// DescribeMedia always returns FallbackDescription.
func (Static) DescribeMedia(context.Context, MediaRef) string {
	return FallbackDescription
}

// GenerateThumbnail always returns nil.
func (Static) GenerateThumbnail(context.Context, []byte, string) []byte {
	return nil
}

var (
	_ Gateway = Static{}
	_ Gateway = (*Gemini)(nil)
)
