package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDifficultyLimitsAndPoints(t *testing.T) {
	assert.Equal(t, 20, Easy.TimeLimit())
	assert.Equal(t, 60, Medium.TimeLimit())
	assert.Equal(t, 120, Hard.TimeLimit())
	assert.Equal(t, 10.0, Easy.BasePoints())
	assert.Equal(t, 20.0, Medium.BasePoints())
	assert.Equal(t, 30.0, Hard.BasePoints())
	assert.Equal(t, 0, Difficulty("Trivial").TimeLimit())
}

func TestSessionCloneDoesNotAlias(t *testing.T) {
	score := 10
	remaining := 5
	started := time.Unix(100, 0)
	s := Session{
		ID:            "s1",
		Questions:     []Question{{ID: "q-1"}},
		Answers:       []Answer{{QuestionID: "q-1", Text: "a"}},
		Score:         &score,
		TimeRemaining: &remaining,
		StartedAt:     &started,
	}
	c := s.Clone()
	c.Questions[0].ID = "changed"
	c.Answers[0].Text = "changed"
	*c.Score = 99
	*c.TimeRemaining = 1
	*c.StartedAt = time.Unix(0, 0)

	assert.Equal(t, "q-1", s.Questions[0].ID)
	assert.Equal(t, "a", s.Answers[0].Text)
	assert.Equal(t, 10, *s.Score)
	assert.Equal(t, 5, *s.TimeRemaining)
	assert.Equal(t, time.Unix(100, 0), *s.StartedAt)
}

func TestCurrentQuestionBounds(t *testing.T) {
	s := Session{Questions: []Question{{ID: "q-1"}}}
	q, ok := s.CurrentQuestion()
	assert.True(t, ok)
	assert.Equal(t, "q-1", q.ID)

	s.CurrentQuestionIndex = 1
	_, ok = s.CurrentQuestion()
	assert.False(t, ok)
}
