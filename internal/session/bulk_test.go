package session

import (
	"context"
	"errors"
	"testing"

	"lumina/internal/catalog"
	"lumina/internal/navigation"
)

func TestBulkDescribe(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	gate := f.gw.gate("8")

	f.press(navigation.KeyRight)
	n, err := f.s.StartBulkDescribe()
	if err != nil {
		t.Fatalf("StartBulkDescribe() error = %v", err)
	}
	if n != 8 {
		t.Fatalf("StartBulkDescribe() = %d, want 8", n)
	}

	v := f.s.Snapshot()
	if !v.Bulk.Running || v.Focus.Section != navigation.SectionBulkProcessing {
		t.Fatalf("bulk not running: %+v", v.Bulk)
	}
	if _, err := f.s.StartBulkDescribe(); !errors.Is(err, ErrBusy) {
		t.Errorf("second StartBulkDescribe() error = %v, want ErrBusy", err)
	}
	if err := f.s.OpenOverlay(navigation.SectionAlbumCreate); !errors.Is(err, ErrBusy) {
		t.Errorf("OpenOverlay() during bulk error = %v, want ErrBusy", err)
	}

	f.press(navigation.KeyEnter, navigation.KeyDown)
	if v := f.s.Snapshot(); v.Player != nil || v.Focus.Section != navigation.SectionBulkProcessing {
		t.Errorf("input leaked through bulk overlay: %+v", v)
	}

	close(gate)
	f.tracker.Wait()

	v = f.s.Snapshot()
	if v.Bulk.Running || v.Bulk.Progress != 100 || v.Bulk.Total != 8 {
		t.Errorf("Bulk = %+v, want finished at 100", v.Bulk)
	}
	if v.Focus.Section != navigation.SectionContent {
		t.Errorf("Section after bulk = %s, want CONTENT", v.Focus.Section)
	}
	if left := f.state.Visible(catalog.CategoryAIHub, ""); len(left) != 0 {
		t.Errorf("ai_hub still has %d items", len(left))
	}
	for _, id := range []string{"1", "4", "8"} {
		if f.gw.Calls(id) != 1 {
			t.Errorf("gateway calls for %s = %d, want 1", id, f.gw.Calls(id))
		}
	}
}

func TestBulkDescribeNothingPending(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	for _, it := range f.state.Items() {
		if err := f.state.SetAIDescription(ctx, it.ID, "done"); err != nil {
			t.Fatalf("SetAIDescription() error = %v", err)
		}
	}

	n, err := f.s.StartBulkDescribe()
	if err != nil || n != 0 {
		t.Fatalf("StartBulkDescribe() = %d, %v; want 0, nil", n, err)
	}
	v := f.s.Snapshot()
	if v.Bulk.Running || v.Bulk.Progress != 100 {
		t.Errorf("Bulk = %+v, want idle at 100", v.Bulk)
	}
}

func TestBulkUpdatesOpenCaption(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	gate := f.gw.gate("1")

	f.press(navigation.KeyRight, navigation.KeyEnter) // open 1, blocked
	if _, err := f.s.StartBulkDescribe(); err != nil {
		t.Fatalf("StartBulkDescribe() error = %v", err)
	}
	close(gate)
	f.tracker.Wait()

	v := f.s.Snapshot()
	if v.Player == nil || v.Player.Caption != "caption for 1" || v.Player.Loading {
		t.Errorf("Player = %+v, want resolved caption", v.Player)
	}
	if v.Focus.Section != navigation.SectionPlayer {
		t.Errorf("Section = %s, want PLAYER", v.Focus.Section)
	}
}

func TestBackHidesBulkOverlay(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	gate := f.gw.gate("8")

	f.press(navigation.KeyRight)
	if _, err := f.s.StartBulkDescribe(); err != nil {
		t.Fatalf("StartBulkDescribe() error = %v", err)
	}

	f.press(navigation.KeyBack)
	v := f.s.Snapshot()
	if !v.Bulk.Running || !v.Bulk.Hidden {
		t.Fatalf("Bulk = %+v, want running and hidden", v.Bulk)
	}
	if v.Focus.Section != navigation.SectionContent {
		t.Errorf("Section after Back = %s, want CONTENT", v.Focus.Section)
	}

	// Navigation works again while the run continues.
	f.press(navigation.KeyEnter)
	v = f.s.Snapshot()
	if v.Player == nil || v.Player.Item.ID != "1" {
		t.Errorf("Player = %+v, want item 1 open", v.Player)
	}
	if _, err := f.s.StartBulkDescribe(); !errors.Is(err, ErrBusy) {
		t.Errorf("StartBulkDescribe() during hidden run error = %v, want ErrBusy", err)
	}

	close(gate)
	f.tracker.Wait()

	v = f.s.Snapshot()
	if v.Bulk.Running || v.Bulk.Hidden || v.Bulk.Progress != 100 {
		t.Errorf("Bulk = %+v, want finished at 100", v.Bulk)
	}
	if v.Focus.Section != navigation.SectionPlayer {
		t.Errorf("Section after run = %s, want PLAYER", v.Focus.Section)
	}
}
