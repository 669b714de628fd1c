package session

import (
	"context"
	"errors"
	"fmt"

	"lumina/internal/catalog"
	"lumina/internal/logging"
	"lumina/internal/navigation"
	"lumina/internal/tasks"
)

// StartBulkDescribe describes every item of the ai_hub category in order on
// a background task and returns how many items it will process. Input is
// suppressed by the BULK_PROCESSING overlay until the run ends or Back
// dismisses the overlay.
func (s *Session) StartBulkDescribe() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.bulkRunning {
		return 0, ErrBusy
	}
	if s.tasks == nil {
		return 0, errors.New("no task tracker configured")
	}

	pending := s.state.Visible(catalog.CategoryAIHub, "")
	ids := make([]string, 0, len(pending))
	for _, it := range pending {
		ids = append(ids, it.ID)
	}

	s.bulkTotal = len(ids)
	if len(ids) == 0 {
		s.bulkProgress = 100
		return 0, nil
	}

	s.bulkRunning = true
	s.bulkHidden = false
	s.bulkProgress = 0
	s.enterOverlayLocked(navigation.SectionBulkProcessing)
	logging.Info("Bulk description started for %d items", len(ids))

	s.tasks.Go(tasks.KindBulk, "ai_hub", func(ctx context.Context) error {
		return s.runBulk(ctx, ids)
	})
	return len(ids), nil
}

func (s *Session) runBulk(ctx context.Context, ids []string) error {
	failed := 0
	for i, id := range ids {
		desc, err := s.state.Describe(ctx, id, s.gateway)
		if err != nil {
			failed++
			logging.Debug("Bulk description of %s skipped: %v", id, err)
		} else {
			s.resolveCaption(id, desc)
		}
		s.setBulkProgress((i + 1) * 100 / len(ids))
	}

	s.mu.Lock()
	s.bulkRunning = false
	s.bulkHidden = false
	switch {
	case s.overlay != "":
		s.focus.Section = s.overlay
	case s.focus.Section == navigation.SectionBulkProcessing:
		s.restoreSectionLocked()
	}
	s.mu.Unlock()

	logging.Info("Bulk description finished: %d items, %d skipped", len(ids), failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d descriptions failed", failed, len(ids))
	}
	return nil
}

func (s *Session) setBulkProgress(p int) {
	s.mu.Lock()
	s.bulkProgress = p
	s.mu.Unlock()
}
