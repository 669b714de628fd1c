package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"lumina/internal/catalog"
	"lumina/internal/database"
	"lumina/internal/media"
	"lumina/internal/mediatypes"
)

// =============================================================================
// Unit Tests
// =============================================================================

func TestSanitizeCommand(t *testing.T) {
	tests := map[string]string{
		"status":        "status",
		"re-set_2":      "re-set_2",
		"rm -rf /":      "rm_-rf__",
		"\x1b[31mred":   "__31mred",
		"export;reboot": "export_reboot",
	}
	for in, want := range tests {
		if got := sanitizeCommand(in); got != want {
			t.Errorf("sanitizeCommand(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestAskYesNo(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"maybe\n", false},
	}
	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var out bytes.Buffer
			if got := askYesNo(strings.NewReader(tt.input), &out, "Replace?"); got != tt.want {
				t.Errorf("askYesNo(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if !strings.Contains(out.String(), "Replace? [y/N]") {
				t.Errorf("prompt = %q", out.String())
			}
		})
	}
}

// =============================================================================
// Integration Tests
// =============================================================================

// setupTestDB creates a test database for integration tests
func setupTestDB(t *testing.T) *database.Database {
	t.Helper()

	db, err := database.New(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("failed to close database: %v", err)
		}
	})
	return db
}

func seedState(t *testing.T, db *database.Database) {
	t.Helper()
	ctx := context.Background()
	state := catalog.New(db, nil)
	item := media.Item{
		ID:          "file-1-a",
		Type:        mediatypes.TypeImage,
		URL:         "/api/blob/a",
		Thumbnail:   "/api/blob/a",
		Title:       "beach.png",
		Description: "Imported from: Device",
		Category:    "Local",
		Date:        "2026-03-14",
		Source:      mediatypes.SourceUSB,
	}
	if err := state.AddUserItem(ctx, item); err != nil {
		t.Fatalf("AddUserItem() error = %v", err)
	}
	if _, err := state.CreateAlbum(ctx, "Summer"); err != nil {
		t.Fatalf("CreateAlbum() error = %v", err)
	}
	if err := state.SetAIDescription(ctx, "3", "A calm piano piece."); err != nil {
		t.Fatalf("SetAIDescription() error = %v", err)
	}
}

func TestShowStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("empty database", func(t *testing.T) {
		db := setupTestDB(t)
		var out bytes.Buffer
		if err := showStatus(ctx, db, &out); err != nil {
			t.Fatalf("showStatus() error = %v", err)
		}
		for _, want := range []string{"Schema version: " + database.SchemaVersion, "Last snapshot:  never", "(none)", "Items:          8 (0 imported)"} {
			if !strings.Contains(out.String(), want) {
				t.Errorf("status output missing %q:\n%s", want, out.String())
			}
		}
	})

	t.Run("with snapshot", func(t *testing.T) {
		db := setupTestDB(t)
		seedState(t, db)
		var out bytes.Buffer
		if err := showStatus(ctx, db, &out); err != nil {
			t.Fatalf("showStatus() error = %v", err)
		}
		for _, want := range []string{catalog.KeyMedia, catalog.KeyAlbums, "Items:          9 (1 imported)", "Albums:         1", "Described:      1"} {
			if !strings.Contains(out.String(), want) {
				t.Errorf("status output missing %q:\n%s", want, out.String())
			}
		}
	})
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := setupTestDB(t)
	seedState(t, src)

	var export bytes.Buffer
	if err := exportSnapshot(ctx, src, &export); err != nil {
		t.Fatalf("exportSnapshot() error = %v", err)
	}

	var decoded catalog.Snapshot
	if err := json.Unmarshal(export.Bytes(), &decoded); err != nil {
		t.Fatalf("export is not a snapshot: %v", err)
	}
	if len(decoded.Media) != 9 || decoded.Media[0].ID != "file-1-a" || len(decoded.Albums) != 1 {
		t.Fatalf("export = %d items, %d albums", len(decoded.Media), len(decoded.Albums))
	}

	dst := setupTestDB(t)
	var prompted string
	snap, err := importSnapshot(ctx, dst, bytes.NewReader(export.Bytes()), func(p string) bool {
		prompted = p
		return true
	})
	if err != nil {
		t.Fatalf("importSnapshot() error = %v", err)
	}
	if !strings.Contains(prompted, "9 items, 1 albums and 0 sources") {
		t.Errorf("prompt = %q", prompted)
	}
	if len(snap.Media) != 9 {
		t.Errorf("imported %d items", len(snap.Media))
	}

	restored := catalog.New(dst, nil)
	if err := restored.Load(ctx); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if it, ok := restored.Item("file-1-a"); !ok || it.Title != "beach.png" {
		t.Errorf("imported item missing: %+v", it)
	}
	if it, _ := restored.Item("3"); it.AIDescription != "A calm piano piece." {
		t.Errorf("seed caption = %q", it.AIDescription)
	}
}

func TestImportSnapshotRejects(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	yes := func(string) bool { return true }

	if _, err := importSnapshot(ctx, db, strings.NewReader(`{"media": [`), yes); err == nil {
		t.Error("expected error for truncated JSON")
	}
	if _, err := importSnapshot(ctx, db, strings.NewReader(`{"playlists": []}`), yes); err == nil {
		t.Error("expected error for unknown field")
	}

	_, err := importSnapshot(ctx, db, strings.NewReader(`{"media": [], "albums": [], "sources": []}`), func(string) bool { return false })
	if !errors.Is(err, errAborted) {
		t.Errorf("declined import error = %v, want errAborted", err)
	}
	if blobs, _ := db.ListBlobs(ctx); len(blobs) != 0 {
		t.Errorf("declined import wrote %d blobs", len(blobs))
	}
}

func TestImportFlatLayoutSnapshot(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)

	input := `{
		"media": [
			{"id": "live-1", "type": "stream", "url": "http://tv.example/news.m3u8", "thumbnail": "t.jpg",
			 "title": "News", "description": "", "category": "Live TV", "date": "2026-03-01",
			 "source": "iptv", "isLive": true, "sourceId": "src-1"},
			{"id": "file-9", "type": "video", "url": "/api/blob/x", "thumbnail": "t.jpg",
			 "title": "Clip", "description": "", "category": "Local", "date": "2026-03-01",
			 "source": "usb", "duration": "3:21", "isUserUploaded": true}
		],
		"albums": [],
		"sources": [{"id": "src-1", "name": "News", "url": "http://tv.example", "status": "online",
		             "lastChecked": "2026-03-01T10:00:00Z", "type": "iptv"}]
	}`
	if _, err := importSnapshot(ctx, db, strings.NewReader(input), func(string) bool { return true }); err != nil {
		t.Fatalf("importSnapshot failed: %v", err)
	}

	restored := catalog.New(db, nil)
	if err := restored.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	live, ok := restored.Item("live-1")
	if !ok || live.SourceID() != "src-1" {
		t.Errorf("stream item = %+v, %v; want sourceId src-1", live, ok)
	}
	clip, ok := restored.Item("file-9")
	if !ok || clip.Duration() != "3:21" {
		t.Errorf("video item = %+v, %v; want duration 3:21", clip, ok)
	}
}
