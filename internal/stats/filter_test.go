package stats

import (
	"testing"
	"time"

	"github.com/verte-zerg/tuiview/internal/model"
)

func candidate(id, name, email, phone string, status model.Status, score *int, started *time.Time) model.Session {
	return model.Session{
		ID:            id,
		CandidateInfo: model.CandidateInfo{Name: name, Email: email, Phone: phone},
		Status:        status,
		Score:         score,
		StartedAt:     started,
	}
}

func ids(sessions []model.Session) []string {
	out := make([]string, len(sessions))
	for i, s := range sessions {
		out[i] = s.ID
	}
	return out
}

func equalIDs(t *testing.T, got []model.Session, want ...string) {
	t.Helper()
	g := ids(got)
	if len(g) != len(want) {
		t.Fatalf("expected %v, got %v", want, g)
	}
	for i := range want {
		if g[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, g)
		}
	}
}

func samplePool() []model.Session {
	day := func(d int) *time.Time {
		v := time.Date(2024, 1, d, 9, 0, 0, 0, time.UTC)
		return &v
	}
	high, low := 150, 20
	return []model.Session{
		candidate("1", "Jane Doe", "jane@x.com", "5551234567", model.StatusCompleted, &high, day(3)),
		candidate("2", "john roe", "JOHN@corp.io", "5559990000", model.StatusInProgress, nil, day(1)),
		candidate("3", "Ann Lee", "ann@x.com", "4441112222", model.StatusCompleted, &low, nil),
	}
}

func TestFilterSearch(t *testing.T) {
	pool := samplePool()
	equalIDs(t, Filter(pool, model.DashboardConfig{Search: "JANE"}), "1")
	equalIDs(t, Filter(pool, model.DashboardConfig{Search: "corp"}), "2")
	equalIDs(t, Filter(pool, model.DashboardConfig{Search: "999"}), "2")
	equalIDs(t, Filter(pool, model.DashboardConfig{Search: "  "}), "1", "2", "3")
	equalIDs(t, Filter(pool, model.DashboardConfig{Search: "nobody"}))
}

func TestFilterStatus(t *testing.T) {
	pool := samplePool()
	equalIDs(t, Filter(pool, model.DashboardConfig{Status: "completed"}), "1", "3")
	equalIDs(t, Filter(pool, model.DashboardConfig{Status: StatusAll, Search: "x.com"}), "1", "3")
}

func TestSort(t *testing.T) {
	pool := samplePool()
	Sort(pool, SortName, OrderAsc)
	equalIDs(t, pool, "3", "1", "2")

	Sort(pool, SortScore, OrderDesc)
	equalIDs(t, pool, "1", "3", "2")

	pool = samplePool()
	Sort(pool, SortDate, OrderDesc)
	equalIDs(t, pool, "1", "2", "3")
	Sort(pool, SortDate, OrderAsc)
	equalIDs(t, pool, "3", "2", "1")
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	pool := samplePool()
	out := Apply(pool, model.DashboardConfig{SortBy: SortName, Order: OrderDesc})
	equalIDs(t, out, "2", "1", "3")
	equalIDs(t, pool, "1", "2", "3")
}

func TestValidateDashboardConfig(t *testing.T) {
	if err := ValidateDashboardConfig(DefaultDashboardConfig()); err != nil {
		t.Fatalf("default config rejected: %v", err)
	}
	bad := []model.DashboardConfig{
		{Status: StatusAll, SortBy: "age", Order: OrderAsc},
		{Status: StatusAll, SortBy: SortName, Order: "up"},
		{Status: "paused", SortBy: SortName, Order: OrderAsc},
	}
	for _, cfg := range bad {
		if err := ValidateDashboardConfig(cfg); err == nil {
			t.Fatalf("expected error for %+v", cfg)
		}
	}
}

func TestNext(t *testing.T) {
	if got := Next(SortKeys, SortScore); got != SortDate {
		t.Fatalf("expected wrap to %q, got %q", SortDate, got)
	}
	if got := Next(StatusFilters, "bogus"); got != StatusAll {
		t.Fatalf("expected fallback to %q, got %q", StatusAll, got)
	}
}
