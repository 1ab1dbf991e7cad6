// Package scoring computes interview scores and summaries.
package scoring

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/verte-zerg/tuiview/internal/model"
)

// MaxScore is the denominator shown with every score. The six-slot pattern
// earns at most 120 (2x10 + 2x20 + 2x30), so 180 is never reached.
const MaxScore = 180

// fullCreditLength is the answer length (in characters) that earns full credit.
const fullCreditLength = 100

// CalculateScore sums per-answer points weighted by difficulty, timeout and length.
// Answers referencing unknown questions contribute nothing.
func CalculateScore(answers []model.Answer, questions []model.Question) int {
	if len(answers) == 0 {
		return 0
	}
	byID := make(map[string]model.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}
	total := 0.0
	for _, a := range answers {
		q, ok := byID[a.QuestionID]
		if !ok {
			continue
		}
		base := q.Difficulty.BasePoints()
		if a.IsTimedOut {
			base *= 0.5
		}
		total += base * quality(a.Text)
	}
	return int(math.Floor(total + 0.5))
}

func quality(text string) float64 {
	n := utf8.RuneCountInString(strings.TrimSpace(text))
	return math.Min(float64(n)/fullCreditLength, 1)
}

// Tier classifies a score into a performance label.
func Tier(score int) string {
	switch {
	case score >= 80:
		return "Excellent"
	case score >= 60:
		return "Good"
	case score >= 40:
		return "Average"
	default:
		return "Poor"
	}
}

// GenerateSummary renders the fixed-format result sentence for a session.
func GenerateSummary(session model.Session, score int) string {
	timedOut := 0
	perDifficulty := map[model.Difficulty]int{}
	byID := make(map[string]model.Difficulty, len(session.Questions))
	for _, q := range session.Questions {
		byID[q.ID] = q.Difficulty
	}
	for _, a := range session.Answers {
		if a.IsTimedOut {
			timedOut++
		}
		if d, ok := byID[a.QuestionID]; ok {
			perDifficulty[d]++
		}
	}
	return fmt.Sprintf(
		"%s performance with %d/%d points. Completed %d/6 questions. %d questions timed out. Difficulty breakdown: Easy (%d/2), Medium (%d/2), Hard (%d/2).",
		Tier(score),
		score,
		MaxScore,
		len(session.Answers),
		timedOut,
		perDifficulty[model.Easy],
		perDifficulty[model.Medium],
		perDifficulty[model.Hard],
	)
}
