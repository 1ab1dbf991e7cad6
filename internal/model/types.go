// Package model defines shared data structures.
package model

import "time"

// Difficulty classifies a question slot.
type Difficulty string

// Question difficulties.
const (
	Easy   Difficulty = "Easy"
	Medium Difficulty = "Medium"
	Hard   Difficulty = "Hard"
)

// Difficulties lists every difficulty in ascending order.
var Difficulties = []Difficulty{Easy, Medium, Hard}

// TimeLimit returns the answer time limit in seconds.
func (d Difficulty) TimeLimit() int {
	switch d {
	case Easy:
		return 20
	case Medium:
		return 60
	case Hard:
		return 120
	default:
		return 0
	}
}

// BasePoints returns the maximum score contribution of an answer.
func (d Difficulty) BasePoints() float64 {
	switch d {
	case Easy:
		return 10
	case Medium:
		return 20
	case Hard:
		return 30
	default:
		return 0
	}
}

// Status is the interview lifecycle state.
type Status string

// Session states, in lifecycle order.
const (
	StatusNotStarted Status = "not-started"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// Rank orders statuses so transitions can be checked for monotonicity.
func (s Status) Rank() int {
	switch s {
	case StatusNotStarted:
		return 0
	case StatusInProgress:
		return 1
	case StatusCompleted:
		return 2
	default:
		return -1
	}
}

// CandidateInfo identifies the interviewee.
type CandidateInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Question is one generated interview question.
type Question struct {
	ID         string     `json:"id"`
	Text       string     `json:"text"`
	Difficulty Difficulty `json:"difficulty"`
	TimeLimit  int        `json:"timeLimit"`
	Category   string     `json:"category"`
}

// Answer is the recorded response to a question.
type Answer struct {
	QuestionID string    `json:"questionId"`
	Text       string    `json:"text"`
	TimeSpent  int       `json:"timeSpent"`
	IsTimedOut bool      `json:"isTimedOut"`
	Timestamp  time.Time `json:"timestamp"`
}

// Session is one candidate's interview attempt.
type Session struct {
	ID                   string        `json:"id"`
	CandidateInfo        CandidateInfo `json:"candidateInfo"`
	Questions            []Question    `json:"questions"`
	Answers              []Answer      `json:"answers"`
	CurrentQuestionIndex int           `json:"currentQuestionIndex"`
	Status               Status        `json:"status"`
	Score                *int          `json:"score,omitempty"`
	Summary              *string       `json:"summary,omitempty"`
	StartedAt            *time.Time    `json:"startedAt,omitempty"`
	CompletedAt          *time.Time    `json:"completedAt,omitempty"`
	TimeRemaining        *int          `json:"timeRemaining,omitempty"`
}

// CurrentQuestion returns the question at CurrentQuestionIndex, if any.
func (s Session) CurrentQuestion() (Question, bool) {
	if s.CurrentQuestionIndex < 0 || s.CurrentQuestionIndex >= len(s.Questions) {
		return Question{}, false
	}
	return s.Questions[s.CurrentQuestionIndex], true
}

// Clone returns a deep copy that shares no memory with s.
func (s Session) Clone() Session {
	out := s
	out.Questions = append([]Question(nil), s.Questions...)
	out.Answers = append([]Answer(nil), s.Answers...)
	out.Score = cloneInt(s.Score)
	out.TimeRemaining = cloneInt(s.TimeRemaining)
	if s.Summary != nil {
		v := *s.Summary
		out.Summary = &v
	}
	out.StartedAt = cloneTime(s.StartedAt)
	out.CompletedAt = cloneTime(s.CompletedAt)
	return out
}

// Snapshot is the persisted record: every session plus the active pointer.
// An empty CurrentSessionID means no session is active.
type Snapshot struct {
	Sessions         []Session `json:"sessions"`
	CurrentSessionID string    `json:"currentSessionId"`
}

// Config defines interview run settings.
type Config struct {
	BankPath string
	Seed     int64
	DBPath   string
}

// DashboardConfig defines filters and ordering for the interviewer views.
type DashboardConfig struct {
	Search string
	Status string
	SortBy string
	Order  string
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

func cloneTime(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
