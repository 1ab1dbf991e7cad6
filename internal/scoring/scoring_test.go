package scoring

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/verte-zerg/tuiview/internal/model"
)

func sixQuestions() []model.Question {
	diffs := []model.Difficulty{model.Easy, model.Easy, model.Medium, model.Medium, model.Hard, model.Hard}
	qs := make([]model.Question, len(diffs))
	for i, d := range diffs {
		qs[i] = model.Question{ID: "q-" + string(rune('1'+i)), Difficulty: d, TimeLimit: d.TimeLimit()}
	}
	return qs
}

func answersWith(qs []model.Question, text string, timedOut bool) []model.Answer {
	out := make([]model.Answer, len(qs))
	for i, q := range qs {
		out[i] = model.Answer{QuestionID: q.ID, Text: text, IsTimedOut: timedOut}
	}
	return out
}

func TestCalculateScoreBounds(t *testing.T) {
	qs := sixQuestions()
	assert.Equal(t, 0, CalculateScore(nil, qs))
	assert.Equal(t, 0, CalculateScore(answersWith(qs, "   ", false), qs))
	assert.Equal(t, 120, CalculateScore(answersWith(qs, strings.Repeat("x", 100), false), qs))
	assert.Equal(t, 120, CalculateScore(answersWith(qs, strings.Repeat("x", 400), false), qs))
	assert.Equal(t, 60, CalculateScore(answersWith(qs, strings.Repeat("x", 100), true), qs))
	assert.Less(t, CalculateScore(answersWith(qs, strings.Repeat("x", 400), false), qs), MaxScore)
}

func TestCalculateScoreProportionalAndRounded(t *testing.T) {
	qs := sixQuestions()
	// 10 * 0.05 = 0.5 rounds half up.
	answers := []model.Answer{{QuestionID: "q-1", Text: "hello"}}
	assert.Equal(t, 1, CalculateScore(answers, qs))
	// Hard timed out: 15 * 0.5 = 7.5 -> 8.
	answers = []model.Answer{{QuestionID: "q-5", Text: strings.Repeat("y", 50), IsTimedOut: true}}
	assert.Equal(t, 8, CalculateScore(answers, qs))
}

func TestCalculateScoreSkipsUnknownQuestion(t *testing.T) {
	qs := sixQuestions()
	answers := []model.Answer{
		{QuestionID: "q-404", Text: strings.Repeat("x", 100)},
		{QuestionID: "q-3", Text: strings.Repeat("x", 100)},
	}
	assert.Equal(t, 20, CalculateScore(answers, qs))
}

func TestTierThresholds(t *testing.T) {
	assert.Equal(t, "Excellent", Tier(80))
	assert.Equal(t, "Good", Tier(79))
	assert.Equal(t, "Good", Tier(60))
	assert.Equal(t, "Average", Tier(40))
	assert.Equal(t, "Poor", Tier(39))
}

func TestGenerateSummaryFormat(t *testing.T) {
	qs := sixQuestions()
	answers := answersWith(qs, "x", false)
	answers[1].IsTimedOut = true
	answers[5].IsTimedOut = true
	session := model.Session{Questions: qs, Answers: answers}

	got := GenerateSummary(session, 62)
	want := "Good performance with 62/180 points. Completed 6/6 questions. 2 questions timed out. Difficulty breakdown: Easy (2/2), Medium (2/2), Hard (2/2)."
	assert.Equal(t, want, got)
	assert.Equal(t, got, GenerateSummary(session, 62))
}

func TestGenerateSummaryPartial(t *testing.T) {
	qs := sixQuestions()
	session := model.Session{Questions: qs, Answers: answersWith(qs[:3], "x", false)}
	got := GenerateSummary(session, 0)
	assert.Equal(t, "Poor performance with 0/180 points. Completed 3/6 questions. 0 questions timed out. Difficulty breakdown: Easy (2/2), Medium (1/2), Hard (0/2).", got)
}
