// Package session owns interview sessions and every mutation applied to them.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/verte-zerg/tuiview/internal/model"
	"github.com/verte-zerg/tuiview/internal/scoring"
)

// Persister reads and writes the persisted snapshot.
type Persister interface {
	Load(ctx context.Context) (model.Snapshot, error)
	Save(ctx context.Context, snap model.Snapshot) error
}

// SessionSaver is implemented by persisters that can write one session
// without rewriting the whole snapshot.
type SessionSaver interface {
	SaveSession(ctx context.Context, seq int, sess model.Session, currentID string) error
}

// QuestionSource produces the question set for a new session.
type QuestionSource interface {
	Generate() []model.Question
}

// Option customizes a Store.
type Option func(*Store)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithIDFunc overrides session id generation.
func WithIDFunc(fn func() string) Option {
	return func(s *Store) {
		s.newID = fn
	}
}

// WithLogger sets the logger used for persistence failures.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		s.log = l
	}
}

// Patch is a shallow update of the fields callers may change directly.
// Nil fields are left alone.
type Patch struct {
	Status             *model.Status
	StartedAt          *time.Time
	TimeRemaining      *int
	ClearTimeRemaining bool
}

// Store is the single owner and mutator of all sessions. Every mutation is
// applied and persisted inside one critical section.
type Store struct {
	mu        sync.Mutex
	persister Persister
	questions QuestionSource
	now       func() time.Time
	newID     func() string
	log       *zap.Logger

	sessions  []model.Session
	currentID string
}

// Open loads the persisted snapshot and returns a ready Store.
func Open(ctx context.Context, p Persister, q QuestionSource, opts ...Option) (*Store, error) {
	s := &Store{
		persister: p,
		questions: q,
		now:       time.Now,
		newID:     uuid.NewString,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	snap, err := p.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}
	s.sessions = snap.Sessions
	s.currentID = snap.CurrentSessionID
	s.log.Info("session store loaded",
		zap.Int("sessions", len(s.sessions)),
		zap.String("current", s.currentID))
	return s, nil
}

// CreateSession starts a new not-started session and makes it active.
func (s *Store) CreateSession(info model.CandidateInfo) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	sess := model.Session{
		ID:            s.newID(),
		CandidateInfo: info,
		Questions:     s.questions.Generate(),
		Answers:       []model.Answer{},
		Status:        model.StatusNotStarted,
		StartedAt:     &now,
	}
	s.sessions = append(s.sessions, sess)
	s.currentID = sess.ID
	s.log.Info("session created", zap.String("session", sess.ID))
	s.persistLocked(sess.ID)
	return sess.ID
}

// UpdateSession merges p into the session. Unknown ids are ignored, as are
// status changes that would move backwards or complete the session.
func (s *Store) UpdateSession(id string, p Patch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.findLocked(id)
	if sess == nil {
		return
	}
	if p.Status != nil && *p.Status != model.StatusCompleted && p.Status.Rank() >= sess.Status.Rank() {
		sess.Status = *p.Status
	}
	if p.StartedAt != nil {
		v := *p.StartedAt
		sess.StartedAt = &v
	}
	switch {
	case p.ClearTimeRemaining:
		sess.TimeRemaining = nil
	case p.TimeRemaining != nil && sess.Status != model.StatusCompleted:
		v := *p.TimeRemaining
		sess.TimeRemaining = &v
	}
	s.persistLocked(id)
}

// StartInterview moves a not-started session to in-progress.
func (s *Store) StartInterview(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.findLocked(id)
	if sess == nil || sess.Status != model.StatusNotStarted {
		return
	}
	now := s.now()
	sess.Status = model.StatusInProgress
	sess.StartedAt = &now
	s.persistLocked(id)
}

// CurrentSession returns a copy of the active session.
func (s *Store) CurrentSession() (model.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.findLocked(s.currentID)
	if sess == nil {
		return model.Session{}, false
	}
	return sess.Clone(), true
}

// CurrentSessionID returns the active pointer, empty when none is set.
func (s *Store) CurrentSessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentID
}

// Session returns a copy of the session with the given id.
func (s *Store) Session(id string) (model.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.findLocked(id)
	if sess == nil {
		return model.Session{}, false
	}
	return sess.Clone(), true
}

// Sessions returns copies of every session in creation order.
func (s *Store) Sessions() []model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Session, len(s.sessions))
	for i := range s.sessions {
		out[i] = s.sessions[i].Clone()
	}
	return out
}

// SubmitAnswer appends an answer for the current question. It returns false
// when the session is unknown or completed, or when the answer does not
// belong to the current, still unanswered question.
func (s *Store) SubmitAnswer(id string, answer model.Answer) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.findLocked(id)
	if sess == nil || !acceptsAnswer(sess, answer) {
		return false
	}
	sess.Answers = append(sess.Answers, answer)
	s.persistLocked(id)
	return true
}

// MoveToNextQuestion advances to the next question, or completes the
// session when the last question has been reached.
func (s *Store) MoveToNextQuestion(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.findLocked(id)
	if sess == nil {
		return
	}
	if s.advanceLocked(sess) {
		s.persistLocked(id)
	}
}

// RecordAnswer appends the answer and advances in a single update. Of two
// submissions racing for the same question only the first is applied.
func (s *Store) RecordAnswer(id string, answer model.Answer) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.findLocked(id)
	if sess == nil || !acceptsAnswer(sess, answer) {
		return false
	}
	sess.Answers = append(sess.Answers, answer)
	s.advanceLocked(sess)
	s.persistLocked(id)
	return true
}

// CompleteInterview marks the session completed with the given results.
func (s *Store) CompleteInterview(id string, score int, summary string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.findLocked(id)
	if sess == nil {
		return
	}
	s.completeLocked(sess, score, summary)
	s.persistLocked(id)
}

// RestoreSession points the active pointer at an existing session.
func (s *Store) RestoreSession(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findLocked(id) == nil {
		return
	}
	s.currentID = id
	s.persistLocked(id)
}

func acceptsAnswer(sess *model.Session, answer model.Answer) bool {
	if sess.Status == model.StatusCompleted {
		return false
	}
	if len(sess.Answers) != sess.CurrentQuestionIndex {
		return false
	}
	q, ok := sess.CurrentQuestion()
	return ok && q.ID == answer.QuestionID
}

func (s *Store) advanceLocked(sess *model.Session) bool {
	if sess.Status == model.StatusCompleted {
		return false
	}
	if sess.CurrentQuestionIndex < len(sess.Questions)-1 {
		sess.CurrentQuestionIndex++
		sess.TimeRemaining = nil
		return true
	}
	score := scoring.CalculateScore(sess.Answers, sess.Questions)
	sess.CurrentQuestionIndex = len(sess.Questions)
	summary := scoring.GenerateSummary(*sess, score)
	s.completeLocked(sess, score, summary)
	return true
}

func (s *Store) completeLocked(sess *model.Session, score int, summary string) {
	if sess.Status != model.StatusCompleted || sess.CompletedAt == nil {
		now := s.now()
		sess.CompletedAt = &now
	}
	sess.Status = model.StatusCompleted
	sess.Score = &score
	sess.Summary = &summary
	sess.TimeRemaining = nil
	s.log.Info("session completed",
		zap.String("session", sess.ID),
		zap.Int("score", score),
		zap.Int("answers", len(sess.Answers)))
}

func (s *Store) findLocked(id string) *model.Session {
	if id == "" {
		return nil
	}
	for i := range s.sessions {
		if s.sessions[i].ID == id {
			return &s.sessions[i]
		}
	}
	return nil
}

// persistLocked writes the session with the given id, falling back to the
// full snapshot when the persister cannot save sessions individually.
func (s *Store) persistLocked(id string) {
	ctx := context.Background()
	if saver, ok := s.persister.(SessionSaver); ok {
		for i := range s.sessions {
			if s.sessions[i].ID != id {
				continue
			}
			if err := saver.SaveSession(ctx, i, s.sessions[i], s.currentID); err != nil {
				s.log.Error("failed to persist session", zap.String("session", id), zap.Error(err))
			}
			return
		}
	}
	snap := model.Snapshot{Sessions: s.sessions, CurrentSessionID: s.currentID}
	if err := s.persister.Save(ctx, snap); err != nil {
		s.log.Error("failed to persist sessions", zap.Error(err))
	}
}
