package catalog

import (
	"context"
	"errors"
	"reflect"
	"slices"
	"testing"
	"time"

	"lumina/internal/insight"
	"lumina/internal/media"
	"lumina/internal/mediatypes"
	"lumina/internal/resources"
)

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestState(t *testing.T) (*State, *fakeStore, *fakeResources) {
	t.Helper()
	store := newFakeStore()
	res := &fakeResources{data: make(map[string][]byte)}
	return New(store, res, WithClock(func() time.Time { return fixedNow })), store, res
}

func userVideo(id string, handles ...string) media.Item {
	return media.Item{
		ID:        id,
		Type:      mediatypes.TypeVideo,
		URL:       "/api/blob/" + id,
		Thumbnail: media.DefaultThumbnail,
		Title:     id + ".mp4",
		Category:  "Local",
		Date:      "2026-03-14",
		Source:    mediatypes.SourceUSB,
		Handles:   handles,
	}
}

func TestAddUserItemPrepends(t *testing.T) {
	t.Parallel()
	s, store, _ := newTestState(t)
	ctx := context.Background()

	if err := s.AddUserItem(ctx, userVideo("a")); err != nil {
		t.Fatalf("AddUserItem failed: %v", err)
	}
	if err := s.AddUserItem(ctx, userVideo("b")); err != nil {
		t.Fatalf("AddUserItem failed: %v", err)
	}

	got := ids(s.Items())
	want := []string{"b", "a", "1", "2", "3", "4", "5", "6", "7", "8"}
	if !equalIDs(got, want) {
		t.Errorf("Items() = %v, want %v", got, want)
	}
	if store.Writes() != 2 {
		t.Errorf("store writes = %d, want 2", store.Writes())
	}
}

func TestAddUserItemsKeepsBatchOrder(t *testing.T) {
	t.Parallel()
	s, store, _ := newTestState(t)

	if err := s.AddUserItems(context.Background(), userVideo("x"), userVideo("y")); err != nil {
		t.Fatalf("AddUserItems failed: %v", err)
	}
	if got := ids(s.Items())[:2]; !equalIDs(got, []string{"x", "y"}) {
		t.Errorf("first items = %v, want [x y]", got)
	}
	if store.Writes() != 1 {
		t.Errorf("batch should persist once, got %d writes", store.Writes())
	}
}

func TestAddUserItemRejects(t *testing.T) {
	t.Parallel()
	s, _, _ := newTestState(t)
	ctx := context.Background()

	if err := s.AddUserItem(ctx, userVideo("1")); !errors.Is(err, ErrDuplicate) {
		t.Errorf("seed id collision error = %v, want ErrDuplicate", err)
	}
	if err := s.AddUserItems(ctx, userVideo("z"), userVideo("z")); !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate in batch error = %v, want ErrDuplicate", err)
	}
	bad := userVideo("bad")
	bad.Type = "hologram"
	if err := s.AddUserItem(ctx, bad); !errors.Is(err, ErrInvalid) {
		t.Errorf("invalid item error = %v, want ErrInvalid", err)
	}
	if len(s.Items()) != 8 {
		t.Errorf("rejected items leaked into the catalog: %v", ids(s.Items()))
	}
}

func TestRemoveUserItem(t *testing.T) {
	t.Parallel()
	s, _, res := newTestState(t)
	ctx := context.Background()

	if err := s.AddUserItem(ctx, userVideo("v", "h1", "h2")); err != nil {
		t.Fatal(err)
	}
	album, err := s.CreateAlbum(ctx, "Trip")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.AddToAlbum(ctx, album.ID, "v"); err != nil {
		t.Fatal(err)
	}
	if err := s.AddToAlbum(ctx, album.ID, "1"); err != nil {
		t.Fatal(err)
	}

	if err := s.RemoveUserItem(ctx, "v"); err != nil {
		t.Fatalf("RemoveUserItem failed: %v", err)
	}
	if _, ok := s.Item("v"); ok {
		t.Error("removed item still present")
	}
	if !reflect.DeepEqual(res.released, []string{"h1", "h2"}) {
		t.Errorf("released = %v, want [h1 h2]", res.released)
	}
	a, _ := s.Album(album.ID)
	if !reflect.DeepEqual(a.MediaIDs, []string{"1"}) {
		t.Errorf("album ids = %v, want [1]", a.MediaIDs)
	}

	if err := s.RemoveUserItem(ctx, "v"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second remove error = %v, want ErrNotFound", err)
	}
	if err := s.RemoveUserItem(ctx, "1"); !errors.Is(err, ErrImmutable) {
		t.Errorf("seed remove error = %v, want ErrImmutable", err)
	}
}

func TestSetThumbnailTouchesOnlyThumbnail(t *testing.T) {
	t.Parallel()
	s, _, res := newTestState(t)
	ctx := context.Background()

	item := userVideo("v", "media-handle")
	item.AIDescription = "caption"
	if err := s.AddUserItem(ctx, item); err != nil {
		t.Fatal(err)
	}
	seedBefore := s.Items()[1:]

	first := "0b6c1f5e-6f5c-4f0e-9a43-8d1d0f4a9c21"
	if err := s.SetThumbnail(ctx, "v", resources.URLFor(first), first); err != nil {
		t.Fatalf("SetThumbnail failed: %v", err)
	}

	got, _ := s.Item("v")
	want := item.Clone()
	want.Thumbnail = resources.URLFor(first)
	want.Handles = []string{"media-handle", first}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("item after SetThumbnail = %+v, want %+v", got, want)
	}
	if !reflect.DeepEqual(s.Items()[1:], seedBefore) {
		t.Error("seed items changed")
	}

	// A second generated cover replaces and releases the first.
	second := "1c7d2a6f-7a6d-4a1f-8b54-9e2e1a5b0d32"
	if err := s.SetThumbnail(ctx, "v", resources.URLFor(second), second); err != nil {
		t.Fatal(err)
	}
	got, _ = s.Item("v")
	if !reflect.DeepEqual(got.Handles, []string{"media-handle", second}) {
		t.Errorf("handles = %v", got.Handles)
	}
	if !slices.Contains(res.released, first) {
		t.Errorf("previous cover handle not released: %v", res.released)
	}

	if err := s.SetThumbnail(ctx, "gone", "x", ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown id error = %v, want ErrNotFound", err)
	}
	if err := s.SetThumbnail(ctx, "1", "x", ""); !errors.Is(err, ErrImmutable) {
		t.Errorf("seed thumbnail error = %v, want ErrImmutable", err)
	}
}

func TestToggleFavorite(t *testing.T) {
	t.Parallel()
	s, _, _ := newTestState(t)
	ctx := context.Background()

	if err := s.AddUserItem(ctx, userVideo("v")); err != nil {
		t.Fatal(err)
	}
	on, err := s.ToggleFavorite(ctx, "v")
	if err != nil || !on {
		t.Fatalf("ToggleFavorite = %v, %v; want true, nil", on, err)
	}
	off, err := s.ToggleFavorite(ctx, "v")
	if err != nil || off {
		t.Fatalf("ToggleFavorite = %v, %v; want false, nil", off, err)
	}
	if _, err := s.ToggleFavorite(ctx, "3"); !errors.Is(err, ErrImmutable) {
		t.Errorf("seed favorite error = %v, want ErrImmutable", err)
	}
	if _, err := s.ToggleFavorite(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown favorite error = %v, want ErrNotFound", err)
	}
}

func TestDescribeCaches(t *testing.T) {
	t.Parallel()
	s, _, _ := newTestState(t)
	ctx := context.Background()
	gw := &countingGateway{reply: "A quiet lake at dawn."}

	desc, err := s.Describe(ctx, "1", gw)
	if err != nil {
		t.Fatalf("Describe failed: %v", err)
	}
	if desc != "A quiet lake at dawn." || gw.Calls() != 1 {
		t.Fatalf("first Describe = %q with %d calls", desc, gw.Calls())
	}

	again, err := s.Describe(ctx, "1", gw)
	if err != nil {
		t.Fatal(err)
	}
	if again != desc {
		t.Errorf("cached Describe = %q, want %q", again, desc)
	}
	if gw.Calls() != 1 {
		t.Errorf("cached Describe called the gateway: %d calls", gw.Calls())
	}

	for _, it := range s.Visible(CategoryAIHub, "") {
		if it.ID == "1" {
			t.Error("described item still listed in ai_hub")
		}
	}

	if err := s.ClearAIDescription(ctx, "1"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Describe(ctx, "1", gw); err != nil {
		t.Fatal(err)
	}
	if gw.Calls() != 2 {
		t.Errorf("Describe after clear should call the gateway again, calls = %d", gw.Calls())
	}

	if _, err := s.Describe(ctx, "missing", gw); !errors.Is(err, ErrNotFound) {
		t.Errorf("Describe(missing) error = %v, want ErrNotFound", err)
	}
}

func TestDescribeDoesNotCachePlaceholder(t *testing.T) {
	t.Parallel()
	s, store, _ := newTestState(t)
	ctx := context.Background()

	desc, err := s.Describe(ctx, "1", insight.Static{})
	if err != nil {
		t.Fatalf("Describe failed: %v", err)
	}
	if desc != insight.FallbackDescription {
		t.Errorf("Describe = %q, want the fallback caption", desc)
	}
	if it, _ := s.Item("1"); it.HasDescription() {
		t.Errorf("placeholder cached: %q", it.AIDescription)
	}
	if store.Writes() != 0 {
		t.Errorf("store writes = %d, want 0", store.Writes())
	}
	if !slices.ContainsFunc(s.Visible(CategoryAIHub, ""), func(it media.Item) bool { return it.ID == "1" }) {
		t.Error("item left ai_hub after a placeholder caption")
	}
}

func TestDescribeSendsLocalImageBytes(t *testing.T) {
	t.Parallel()
	s, _, res := newTestState(t)
	ctx := context.Background()

	handle := "0b6c1f5e-6f5c-4f0e-9a43-8d1d0f4a9c21"
	res.data[handle] = []byte("jpeg bytes")
	img := media.Item{
		ID: "img", Type: mediatypes.TypeImage,
		URL: resources.URLFor(handle), Thumbnail: resources.URLFor(handle),
		Title: "img.jpg", Source: mediatypes.SourceUSB, Handles: []string{handle},
	}
	if err := s.AddUserItem(ctx, img); err != nil {
		t.Fatal(err)
	}

	gw := &countingGateway{reply: "ok"}
	if _, err := s.Describe(ctx, "img", gw); err != nil {
		t.Fatal(err)
	}
	if string(gw.refs[0].Data) != "jpeg bytes" || gw.refs[0].MIME != "image/jpeg" {
		t.Errorf("ref = %+v, want local bytes", gw.refs[0])
	}

	// Remote seed images are described by type only.
	if _, err := s.Describe(ctx, "4", gw); err != nil {
		t.Fatal(err)
	}
	if gw.refs[1].Data != nil {
		t.Error("remote image should not carry bytes")
	}
}

func TestLateDescriptionForRemovedItemIsDropped(t *testing.T) {
	t.Parallel()
	s, _, _ := newTestState(t)
	ctx := context.Background()

	if err := s.AddUserItem(ctx, userVideo("v")); err != nil {
		t.Fatal(err)
	}
	if err := s.RemoveUserItem(ctx, "v"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetAIDescription(ctx, "v", "late"); !errors.Is(err, ErrNotFound) {
		t.Errorf("late SetAIDescription error = %v, want ErrNotFound", err)
	}
	if _, ok := s.Item("v"); ok {
		t.Error("late result resurrected a removed item")
	}
}

func TestAlbums(t *testing.T) {
	t.Parallel()
	s, _, _ := newTestState(t)
	ctx := context.Background()

	if _, err := s.CreateAlbum(ctx, "   "); !errors.Is(err, ErrInvalid) {
		t.Errorf("blank album name error = %v, want ErrInvalid", err)
	}

	a, err := s.CreateAlbum(ctx, " Summer ")
	if err != nil {
		t.Fatal(err)
	}
	if a.Name != "Summer" || a.CreatedAt != fixedNow.Format(time.RFC3339) || len(a.MediaIDs) != 0 {
		t.Errorf("album = %+v", a)
	}

	for _, id := range []string{"7", "1", "7"} {
		if err := s.AddToAlbum(ctx, a.ID, id); err != nil {
			t.Fatalf("AddToAlbum(%s) failed: %v", id, err)
		}
	}
	got, _ := s.Album(a.ID)
	if !reflect.DeepEqual(got.MediaIDs, []string{"7", "1"}) {
		t.Errorf("album ids = %v, want [7 1]", got.MediaIDs)
	}

	// Projection follows catalog order, not album order.
	if v := ids(s.Visible(CategoryAlbums, a.ID)); !equalIDs(v, []string{"1", "7"}) {
		t.Errorf("album projection = %v, want [1 7]", v)
	}

	if err := s.AddToAlbum(ctx, a.ID, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("AddToAlbum(ghost) error = %v, want ErrNotFound", err)
	}
	if err := s.AddToAlbum(ctx, "nope", "1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("AddToAlbum(unknown album) error = %v, want ErrNotFound", err)
	}

	if err := s.RemoveFromAlbum(ctx, a.ID, "7"); err != nil {
		t.Fatal(err)
	}
	if err := s.RemoveFromAlbum(ctx, a.ID, "7"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second RemoveFromAlbum error = %v, want ErrNotFound", err)
	}

	if err := s.DeleteAlbum(ctx, a.ID); err != nil {
		t.Fatal(err)
	}
	if len(s.Albums()) != 0 {
		t.Error("album not deleted")
	}
	if err := s.DeleteAlbum(ctx, a.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteAlbum error = %v, want ErrNotFound", err)
	}
	if len(s.Items()) != 8 {
		t.Error("deleting an album removed items")
	}
}

func TestSources(t *testing.T) {
	t.Parallel()
	s, _, _ := newTestState(t)
	ctx := context.Background()

	tests := []struct {
		name string
		url  string
		typ  media.SourceType
	}{
		{name: "", url: "http://tv.example/live.m3u8", typ: media.SourceTypeIPTV},
		{name: "News", url: "not a url", typ: media.SourceTypeIPTV},
		{name: "News", url: "http://tv.example/live.m3u8", typ: "satellite"},
	}
	for _, tt := range tests {
		if _, _, err := s.AddStream(ctx, tt.name, tt.url, tt.typ); !errors.Is(err, ErrInvalid) {
			t.Errorf("AddStream(%q, %q, %q) error = %v, want ErrInvalid", tt.name, tt.url, tt.typ, err)
		}
	}

	src, item, err := s.AddStream(ctx, "News", "http://tv.example/live.m3u8", "")
	if err != nil {
		t.Fatalf("AddStream failed: %v", err)
	}
	if src.Type != media.SourceTypeIPTV || src.Status != media.StatusUnknown {
		t.Errorf("source = %+v", src)
	}
	if item.Type != mediatypes.TypeStream || item.SourceID() != src.ID || item.Source != mediatypes.SourceIPTV {
		t.Errorf("stream item = %+v", item)
	}
	if v := ids(s.Visible(CategorySources, "")); !equalIDs(v, []string{item.ID}) {
		t.Errorf("sources projection = %v, want [%s]", v, item.ID)
	}

	checked := fixedNow.Add(time.Minute)
	if err := s.SetSourceStatus(ctx, src.ID, media.StatusOnline, checked); err != nil {
		t.Fatal(err)
	}
	got, _ := s.Source(src.ID)
	if got.Status != media.StatusOnline || got.LastChecked != checked.Format(time.RFC3339) {
		t.Errorf("source after status = %+v", got)
	}

	if err := s.RemoveSource(ctx, src.ID); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Item(item.ID); ok {
		t.Error("linked stream item survived RemoveSource")
	}
	if err := s.RemoveSource(ctx, src.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second RemoveSource error = %v, want ErrNotFound", err)
	}
	if err := s.SetSourceStatus(ctx, src.ID, media.StatusOffline, checked); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetSourceStatus on removed source error = %v, want ErrNotFound", err)
	}
}

func TestPersistFailureKeepsMemoryState(t *testing.T) {
	t.Parallel()
	s, store, _ := newTestState(t)
	store.fail = errors.New("disk full")

	err := s.AddUserItem(context.Background(), userVideo("v"))
	if err == nil {
		t.Fatal("expected persistence error")
	}
	if _, ok := s.Item("v"); !ok {
		t.Error("in-memory state rolled back after a failed write")
	}
}

func TestPersistSurvivesCancelledRequest(t *testing.T) {
	t.Parallel()
	s, store, _ := newTestState(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.AddUserItem(ctx, userVideo("v")); err != nil {
		t.Fatalf("AddUserItem with cancelled context failed: %v", err)
	}
	if _, err := s.ToggleFavorite(ctx, "v"); err != nil {
		t.Fatalf("ToggleFavorite with cancelled context failed: %v", err)
	}
	if store.Writes() != 2 {
		t.Errorf("store writes = %d, want 2", store.Writes())
	}

	reloaded := New(store, nil)
	if err := reloaded.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	item, ok := reloaded.Item("v")
	if !ok || !item.IsFavorite {
		t.Errorf("reloaded item = %+v, %v; want favorite v", item, ok)
	}
}

func TestHandleIDsAndStats(t *testing.T) {
	t.Parallel()
	s, _, _ := newTestState(t)
	ctx := context.Background()

	if err := s.AddUserItem(ctx, userVideo("v", "h1", "h2")); err != nil {
		t.Fatal(err)
	}
	if _, err := s.ToggleFavorite(ctx, "v"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetAIDescription(ctx, "2", "caption"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := s.AddStream(ctx, "News", "http://tv.example/a", media.SourceTypeIPTV); err != nil {
		t.Fatal(err)
	}

	if got := s.HandleIDs(); !reflect.DeepEqual(got, map[string]bool{"h1": true, "h2": true}) {
		t.Errorf("HandleIDs = %v", got)
	}

	stats := s.GetStats()
	if stats.UserItems != 2 || stats.Favorites != 1 || stats.Described != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.ItemsByType["video"] != 4 || stats.ItemsByType["stream"] != 1 {
		t.Errorf("items by type = %v", stats.ItemsByType)
	}
	if stats.Sources["unknown"] != 1 {
		t.Errorf("sources by status = %v", stats.Sources)
	}
}
