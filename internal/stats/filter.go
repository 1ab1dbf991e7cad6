package stats

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/verte-zerg/tuiview/internal/model"
)

// Sort keys and orders accepted by the dashboard.
const (
	SortName  = "name"
	SortScore = "score"
	SortDate  = "date"

	OrderAsc  = "asc"
	OrderDesc = "desc"

	StatusAll = "all"
)

// SortKeys lists sort keys in cycling order.
var SortKeys = []string{SortDate, SortName, SortScore}

// StatusFilters lists status filters in cycling order.
var StatusFilters = []string{
	StatusAll,
	string(model.StatusNotStarted),
	string(model.StatusInProgress),
	string(model.StatusCompleted),
}

// DefaultDashboardConfig returns newest-first ordering with no filters.
func DefaultDashboardConfig() model.DashboardConfig {
	return model.DashboardConfig{Status: StatusAll, SortBy: SortDate, Order: OrderDesc}
}

// ValidateDashboardConfig rejects unknown sort keys, orders and statuses.
func ValidateDashboardConfig(cfg model.DashboardConfig) error {
	if !contains(SortKeys, cfg.SortBy) {
		return fmt.Errorf("unknown sort key %q (want one of %s)", cfg.SortBy, strings.Join(SortKeys, ", "))
	}
	if cfg.Order != OrderAsc && cfg.Order != OrderDesc {
		return fmt.Errorf("unknown sort order %q (want asc or desc)", cfg.Order)
	}
	if !contains(StatusFilters, cfg.Status) {
		return fmt.Errorf("unknown status %q (want one of %s)", cfg.Status, strings.Join(StatusFilters, ", "))
	}
	return nil
}

// Filter keeps sessions matching the search term and status filter. Name and
// email match case-insensitively, phone numbers by substring.
func Filter(sessions []model.Session, cfg model.DashboardConfig) []model.Session {
	term := strings.ToLower(strings.TrimSpace(cfg.Search))
	out := make([]model.Session, 0, len(sessions))
	for _, s := range sessions {
		if cfg.Status != "" && cfg.Status != StatusAll && string(s.Status) != cfg.Status {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(s.CandidateInfo.Name), term) &&
			!strings.Contains(strings.ToLower(s.CandidateInfo.Email), term) &&
			!strings.Contains(s.CandidateInfo.Phone, term) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Sort orders sessions in place. Missing scores sort as zero and missing
// dates as the zero time. Equal keys keep creation order.
func Sort(sessions []model.Session, by, order string) {
	less := func(a, b model.Session) bool {
		switch by {
		case SortName:
			return strings.ToLower(a.CandidateInfo.Name) < strings.ToLower(b.CandidateInfo.Name)
		case SortScore:
			return scoreOf(a) < scoreOf(b)
		default:
			return dateOf(a).Before(dateOf(b))
		}
	}
	sort.SliceStable(sessions, func(i, j int) bool {
		if order == OrderAsc {
			return less(sessions[i], sessions[j])
		}
		return less(sessions[j], sessions[i])
	})
}

// Apply filters a copy of sessions and sorts it.
func Apply(sessions []model.Session, cfg model.DashboardConfig) []model.Session {
	out := Filter(sessions, cfg)
	Sort(out, cfg.SortBy, cfg.Order)
	return out
}

// Next returns the value after current in values, wrapping around.
func Next(values []string, current string) string {
	for i, v := range values {
		if v == current {
			return values[(i+1)%len(values)]
		}
	}
	return values[0]
}

func scoreOf(s model.Session) int {
	if s.Score == nil {
		return 0
	}
	return *s.Score
}

func dateOf(s model.Session) time.Time {
	switch {
	case s.StartedAt != nil:
		return *s.StartedAt
	case s.CompletedAt != nil:
		return *s.CompletedAt
	default:
		return time.Time{}
	}
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
