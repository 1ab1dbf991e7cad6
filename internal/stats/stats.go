// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/tuiview/internal/model"
	"github.com/verte-zerg/tuiview/internal/scoring"
)

const sparkChars = " .:-=+*#%@"

// Tiers lists score tiers from best to worst.
var Tiers = []string{"Excellent", "Good", "Average", "Poor"}

// Overview aggregates the whole candidate pool.
type Overview struct {
	Total        int
	Completed    int
	InProgress   int
	NotStarted   int
	AverageScore float64
	BestScore    int
	TimedOut     int
	TierCounts   map[string]int
	Trend        string
}

// Summarize computes the overview for sessions in creation order.
func Summarize(sessions []model.Session, window int) Overview {
	ov := Overview{Total: len(sessions), TierCounts: map[string]int{}}
	var scores []float64
	for _, s := range sessions {
		switch s.Status {
		case model.StatusCompleted:
			ov.Completed++
		case model.StatusInProgress:
			ov.InProgress++
		default:
			ov.NotStarted++
		}
		for _, a := range s.Answers {
			if a.IsTimedOut {
				ov.TimedOut++
			}
		}
		if s.Status != model.StatusCompleted || s.Score == nil {
			continue
		}
		score := *s.Score
		scores = append(scores, float64(score))
		ov.TierCounts[scoring.Tier(score)]++
		if score > ov.BestScore {
			ov.BestScore = score
		}
	}
	if len(scores) > 0 {
		var sum float64
		for _, v := range scores {
			sum += v
		}
		ov.AverageScore = sum / float64(len(scores))
	}
	ov.Trend = Sparkline(MovingAverage(scores, window))
	return ov
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		out[i] = sum / float64(min(i+1, window))
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if math.Abs(hi-lo) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - lo) / (hi - lo)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderOverview prints the candidate pool summary.
func RenderOverview(w io.Writer, ov Overview) error {
	if ov.Total == 0 {
		_, err := fmt.Fprintln(w, "No interviews found.")
		return err
	}
	tiers := make([]string, 0, len(Tiers))
	for _, t := range Tiers {
		tiers = append(tiers, fmt.Sprintf("%s %d", t, ov.TierCounts[t]))
	}
	lines := []string{
		"Overview",
		fmt.Sprintf("Candidates: %d", ov.Total),
		fmt.Sprintf("Completed: %d", ov.Completed),
		fmt.Sprintf("In progress: %d", ov.InProgress),
		fmt.Sprintf("Not started: %d", ov.NotStarted),
		fmt.Sprintf("Average score: %.1f/%d", ov.AverageScore, scoring.MaxScore),
		fmt.Sprintf("Best score: %d/%d", ov.BestScore, scoring.MaxScore),
		fmt.Sprintf("Timed out answers: %d", ov.TimedOut),
		"Tiers: " + strings.Join(tiers, ", "),
	}
	if ov.Trend != "" {
		lines = append(lines, "Score trend: "+ov.Trend)
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
