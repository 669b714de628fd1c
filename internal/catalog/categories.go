package catalog

// Sidebar category ids.
const (
	CategoryAll      = "all"
	CategoryAIHub    = "ai_hub"
	CategoryAlbums   = "albums"
	CategorySources  = "sources"
	CategoryImage    = "image"
	CategoryVideo    = "video"
	CategoryAudio    = "audio"
	CategoryFiles    = "files"
	CategorySettings = "settings"
)

// Category is a sidebar entry.
type Category struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

var categories = []Category{
	{ID: CategoryAll, Label: "Home"},
	{ID: CategoryAIHub, Label: "Intelligence"},
	{ID: CategoryAlbums, Label: "Collections"},
	{ID: CategorySources, Label: "Network Sources"},
	{ID: CategoryImage, Label: "Photos"},
	{ID: CategoryVideo, Label: "Videos"},
	{ID: CategoryAudio, Label: "Audio"},
	{ID: CategoryFiles, Label: "Files"},
	{ID: CategorySettings, Label: "Settings"},
}

// Categories returns the sidebar entries in display order.
func Categories() []Category {
	return append([]Category(nil), categories...)
}

// CategoryAt returns the category id at sidebar index i, or CategoryAll when
// i is out of range.
func CategoryAt(i int) string {
	if i < 0 || i >= len(categories) {
		return CategoryAll
	}
	return categories[i].ID
}

// CategoryIndex returns the sidebar index of id, or -1.
func CategoryIndex(id string) int {
	for i, c := range categories {
		if c.ID == id {
			return i
		}
	}
	return -1
}
