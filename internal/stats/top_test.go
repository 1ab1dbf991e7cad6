package stats

import (
	"testing"

	"github.com/verte-zerg/tuiview/internal/model"
)

func TestTopCandidates(t *testing.T) {
	sessions := []model.Session{
		scored("a", 90),
		{ID: "b", Status: model.StatusInProgress},
		scored("c", 150),
		scored("d", 90),
	}
	top := TopCandidates(sessions, 3)
	if len(top) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(top))
	}
	if top[0].ID != "c" || top[1].ID != "a" || top[2].ID != "d" {
		t.Fatalf("unexpected order: %s %s %s", top[0].ID, top[1].ID, top[2].ID)
	}
	if got := TopCandidates(sessions, 0); got != nil {
		t.Fatalf("expected nil for n=0, got %v", got)
	}
}
