package media

import "lumina/internal/mediatypes"

// DefaultThumbnail is the placeholder cover used for imported video and audio
// until (or unless) a generated thumbnail replaces it.
const DefaultThumbnail = "https://images.unsplash.com/photo-1594909122845-11baa439b7bf?w=400"

// SeedItems returns the static catalog shipped with the application. The
// returned slice is fresh on every call; seed items are never mutated in place.
func SeedItems() []Item {
	return []Item{
		{
			ID:          "1",
			Type:        mediatypes.TypeImage,
			URL:         "https://picsum.photos/id/10/1920/1080",
			Thumbnail:   "https://picsum.photos/id/10/400/225",
			Title:       "Aurora Borealis",
			Description: "A dazzling view of the northern lights.",
			Category:    "Nature",
			Date:        "2024-01-15",
			Source:      mediatypes.SourceSystem,
			Size:        2048576,
			Folder:      "Travel",
			IsFavorite:  true,
		},
		{
			ID:          "2",
			Type:        mediatypes.TypeVideo,
			URL:         "https://commondatastorage.googleapis.com/gtv-videos-bucket/sample/BigBuckBunny.mp4",
			Thumbnail:   "https://picsum.photos/id/20/400/225",
			Title:       "The Rabbit and the Woods",
			Description: "A short animation about life in the forest.",
			Category:    "Animation",
			Date:        "2024-02-10",
			Source:      mediatypes.SourceSystem,
			Size:        52428800,
			Folder:      "Movies",
			Playback:    &PlaybackDetails{Duration: "9:56"},
		},
		{
			ID:          "3",
			Type:        mediatypes.TypeAudio,
			URL:         "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-1.mp3",
			Thumbnail:   "https://picsum.photos/id/30/400/225",
			Title:       "Night Melody",
			Description: "An instrumental piece to unwind to.",
			Category:    "Music",
			Date:        "2024-03-05",
			Source:      mediatypes.SourceSystem,
			Folder:      "Playlist 1",
			IsFavorite:  true,
			Playback:    &PlaybackDetails{Duration: "7:12", Genre: "Relax"},
		},
		{
			ID:          "4",
			Type:        mediatypes.TypeImage,
			URL:         "https://picsum.photos/id/40/1920/1080",
			Thumbnail:   "https://picsum.photos/id/40/400/225",
			Title:       "Futuristic Metropolis",
			Description: "Modern urban architecture and city lights.",
			Category:    "Cities",
			Date:        "2024-03-12",
			Source:      mediatypes.SourceSystem,
			Size:        1048576,
			Folder:      "Work",
		},
		{
			ID:          "5",
			Type:        mediatypes.TypeVideo,
			URL:         "https://commondatastorage.googleapis.com/gtv-videos-bucket/sample/ElephantsDream.mp4",
			Thumbnail:   "https://picsum.photos/id/50/400/225",
			Title:       "Elephants Dream",
			Description: "A surreal exploration of machines and dreams.",
			Category:    "Animation",
			Date:        "2024-03-20",
			Source:      mediatypes.SourceSystem,
			Size:        83886080,
			Folder:      "Documentaries",
			Playback:    &PlaybackDetails{Duration: "10:53"},
		},
		{
			ID:          "6",
			Type:        mediatypes.TypeAudio,
			URL:         "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-2.mp3",
			Thumbnail:   "https://picsum.photos/id/60/400/225",
			Title:       "Ocean Symphony",
			Description: "Relaxing sounds of sea waves.",
			Category:    "Nature",
			Date:        "2024-04-01",
			Source:      mediatypes.SourceSystem,
			Folder:      "Relax",
			Playback:    &PlaybackDetails{Duration: "6:34", Genre: "Nature"},
		},
		{
			ID:          "7",
			Type:        mediatypes.TypeImage,
			URL:         "https://picsum.photos/id/70/1920/1080",
			Thumbnail:   "https://picsum.photos/id/70/400/225",
			Title:       "Snowy Mountains",
			Description: "White peaks under a deep blue sky.",
			Category:    "Nature",
			Date:        "2024-04-10",
			Source:      mediatypes.SourceSystem,
			Size:        3145728,
			Folder:      "Travel",
		},
		{
			ID:          "8",
			Type:        mediatypes.TypeVideo,
			URL:         "https://commondatastorage.googleapis.com/gtv-videos-bucket/sample/Sintel.mp4",
			Thumbnail:   "https://picsum.photos/id/80/400/225",
			Title:       "Sintel's Journey",
			Description: "An epic adventure in search of a dragon.",
			Category:    "Adventure",
			Date:        "2024-04-15",
			Source:      mediatypes.SourceSystem,
			Size:        104857600,
			Folder:      "Movies",
			Playback:    &PlaybackDetails{Duration: "14:48"},
		},
	}
}
