package stats

import (
	"sort"

	"github.com/verte-zerg/tuiview/internal/model"
)

// TopCandidates returns up to n completed sessions with the highest scores.
// Ties keep the earlier interview first.
func TopCandidates(sessions []model.Session, n int) []model.Session {
	if n <= 0 {
		return nil
	}
	scored := make([]model.Session, 0, len(sessions))
	for _, s := range sessions {
		if s.Status == model.StatusCompleted && s.Score != nil {
			scored = append(scored, s)
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return *scored[i].Score > *scored[j].Score
	})
	if n > len(scored) {
		n = len(scored)
	}
	return scored[:n]
}
