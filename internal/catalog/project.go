package catalog

import (
	"lumina/internal/media"
	"lumina/internal/mediatypes"
)

// Project returns the items visible under category, in input order.
// album is consulted only for CategoryAlbums; without one that category is
// empty. Album ids missing from items are skipped.
func Project(items []media.Item, category string, album *media.Album) []media.Item {
	var keep func(*media.Item) bool

	switch category {
	case CategoryAIHub:
		keep = func(it *media.Item) bool { return !it.HasDescription() }
	case CategoryAlbums:
		if album == nil {
			return []media.Item{}
		}
		ids := make(map[string]struct{}, len(album.MediaIDs))
		for _, id := range album.MediaIDs {
			ids[id] = struct{}{}
		}
		keep = func(it *media.Item) bool {
			_, ok := ids[it.ID]
			return ok
		}
	case CategorySources:
		keep = func(it *media.Item) bool { return it.SourceID() != "" || it.Type == mediatypes.TypeStream }
	case CategoryAll:
		keep = func(*media.Item) bool { return true }
	default:
		t := mediatypes.MediaType(category)
		keep = func(it *media.Item) bool { return it.Type == t }
	}

	out := make([]media.Item, 0, len(items))
	for i := range items {
		if keep(&items[i]) {
			out = append(out, items[i])
		}
	}
	return out
}
