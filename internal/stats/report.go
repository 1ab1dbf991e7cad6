package stats

import (
	"context"

	"github.com/verte-zerg/tuiview/internal/model"
)

// trendWindow is the moving-average window for the score sparkline.
const trendWindow = 3

// topCount bounds the leaderboard on the overview.
const topCount = 5

// Loader reads the persisted session snapshot.
type Loader interface {
	Load(ctx context.Context) (model.Snapshot, error)
}

// Report contains precomputed data for dashboard rendering.
type Report struct {
	All        []model.Session
	Candidates []model.Session
	Overview   Overview
	Difficulty []DifficultyRow
	Top        []model.Session
}

// BuildReport prepares dashboard data from sessions in creation order.
func BuildReport(sessions []model.Session, cfg model.DashboardConfig) Report {
	return Report{
		All:        sessions,
		Candidates: Apply(sessions, cfg),
		Overview:   Summarize(sessions, trendWindow),
		Difficulty: ByDifficulty(sessions),
		Top:        TopCandidates(sessions, topCount),
	}
}

// LoadReport loads persisted sessions and builds the report.
func LoadReport(ctx context.Context, l Loader, cfg model.DashboardConfig) (Report, error) {
	snap, err := l.Load(ctx)
	if err != nil {
		return Report{}, err
	}
	return BuildReport(snap.Sessions, cfg), nil
}
