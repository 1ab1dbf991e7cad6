// Package interview drives the per-question countdown of an active session.
package interview

import (
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/verte-zerg/tuiview/internal/countdown"
	"github.com/verte-zerg/tuiview/internal/model"
	"github.com/verte-zerg/tuiview/internal/session"
)

// TimeoutPlaceholder is recorded when a question expires with an empty draft.
const TimeoutPlaceholder = "(No answer provided - time expired)"

// TickInterval is the countdown resolution.
const TickInterval = time.Second

var (
	// ErrEmptyDraft is returned when submitting a blank answer.
	ErrEmptyDraft = errors.New("answer is empty")
	// ErrNoActiveQuestion is returned when no countdown is running.
	ErrNoActiveQuestion = errors.New("no active question")
)

// SessionStore is the subset of the session store the controller mutates.
type SessionStore interface {
	Session(id string) (model.Session, bool)
	StartInterview(id string)
	UpdateSession(id string, p session.Patch)
	RecordAnswer(id string, answer model.Answer) bool
}

// Outcome describes what a tick or submission did.
type Outcome int

// Controller outcomes.
const (
	Ignored Outcome = iota
	Running
	Advanced
	Finished
)

// Controller owns at most one running countdown for a session.
type Controller struct {
	store     SessionStore
	sessionID string
	log       *zap.Logger

	task       *countdown.Task
	gen        int
	questionID string
	limit      int
	draft      string
}

// NewController creates a controller for the given session.
func NewController(store SessionStore, sessionID string, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		store:     store,
		sessionID: sessionID,
		log:       log.With(zap.String("session", sessionID)),
	}
}

// SessionID returns the controlled session.
func (c *Controller) SessionID() string {
	return c.sessionID
}

// Begin starts a not-started interview and activates its first question.
func (c *Controller) Begin(now time.Time) bool {
	c.store.StartInterview(c.sessionID)
	return c.Activate(now)
}

// Activate starts the countdown for the current question, resuming from the
// persisted remaining time when present. Any previous countdown is stopped.
func (c *Controller) Activate(now time.Time) bool {
	c.stopTask()
	sess, ok := c.store.Session(c.sessionID)
	if !ok || sess.Status != model.StatusInProgress {
		return false
	}
	q, ok := sess.CurrentQuestion()
	if !ok {
		return false
	}
	start := q.TimeLimit
	if sess.TimeRemaining != nil {
		start = min(max(*sess.TimeRemaining, 0), q.TimeLimit)
	}
	if c.questionID != q.ID {
		c.draft = ""
	}
	c.gen++
	c.task = countdown.Start(c.gen, now, start)
	c.questionID = q.ID
	c.limit = q.TimeLimit
	c.log.Debug("countdown started",
		zap.String("question", q.ID),
		zap.Int("remaining", start),
		zap.Int("gen", c.gen))
	return true
}

// Schedule returns the command delivering the next tick, or nil when idle.
func (c *Controller) Schedule() tea.Cmd {
	if c.task == nil {
		return nil
	}
	return c.task.Schedule(TickInterval)
}

// Remaining returns the countdown value of the running question.
func (c *Controller) Remaining() (int, bool) {
	if c.task == nil || c.task.Stopped() {
		return 0, false
	}
	return c.task.Remaining(), true
}

// Gen returns the generation stamped on ticks of the running countdown.
func (c *Controller) Gen() int {
	return c.gen
}

// QuestionID returns the question the countdown belongs to.
func (c *Controller) QuestionID() string {
	return c.questionID
}

// SetDraft replaces the in-progress answer text.
func (c *Controller) SetDraft(text string) {
	c.draft = text
}

// Draft returns the in-progress answer text.
func (c *Controller) Draft() string {
	return c.draft
}

// Tick applies a countdown tick. Changed values are persisted so a restart
// resumes where it left off; at zero the answer is recorded as timed out.
func (c *Controller) Tick(msg countdown.TickMsg) Outcome {
	if c.task == nil {
		return Ignored
	}
	ev := c.task.Tick(msg)
	switch ev.Kind {
	case countdown.Ticked:
		if ev.Changed {
			remaining := ev.Remaining
			c.store.UpdateSession(c.sessionID, session.Patch{TimeRemaining: &remaining})
		}
		return Running
	case countdown.Expired:
		return c.expire(msg.At)
	default:
		return Ignored
	}
}

// Submit records the draft as a manual answer.
func (c *Controller) Submit(now time.Time) (Outcome, error) {
	if c.task == nil || c.task.Stopped() {
		return Ignored, ErrNoActiveQuestion
	}
	text := strings.TrimSpace(c.draft)
	if text == "" {
		return Running, ErrEmptyDraft
	}
	c.task.Stop()
	answer := model.Answer{
		QuestionID: c.questionID,
		Text:       text,
		TimeSpent:  c.limit - c.task.Remaining(),
		Timestamp:  now,
	}
	if c.store.RecordAnswer(c.sessionID, answer) {
		c.log.Info("answer submitted",
			zap.String("question", answer.QuestionID),
			zap.Int("time_spent", answer.TimeSpent))
	}
	c.draft = ""
	return c.next(now), nil
}

// Stop cancels the running countdown.
func (c *Controller) Stop() {
	c.stopTask()
}

func (c *Controller) expire(now time.Time) Outcome {
	c.task.Stop()
	text := strings.TrimSpace(c.draft)
	if text == "" {
		text = TimeoutPlaceholder
	}
	answer := model.Answer{
		QuestionID: c.questionID,
		Text:       text,
		TimeSpent:  c.limit,
		IsTimedOut: true,
		Timestamp:  now,
	}
	if c.store.RecordAnswer(c.sessionID, answer) {
		c.log.Info("answer timed out", zap.String("question", answer.QuestionID))
	}
	c.draft = ""
	return c.next(now)
}

func (c *Controller) next(now time.Time) Outcome {
	if c.Activate(now) {
		return Advanced
	}
	return Finished
}

func (c *Controller) stopTask() {
	if c.task != nil {
		c.task.Stop()
	}
}
