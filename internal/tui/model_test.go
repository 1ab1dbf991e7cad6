package tui

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/tuiview/internal/countdown"
	"github.com/verte-zerg/tuiview/internal/generator"
	"github.com/verte-zerg/tuiview/internal/interview"
	"github.com/verte-zerg/tuiview/internal/model"
	"github.com/verte-zerg/tuiview/internal/session"
	"github.com/verte-zerg/tuiview/internal/store"
)

var jane = model.CandidateInfo{Name: "Jane Doe", Email: "jane@example.com", Phone: "5551234567"}

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time {
	return c.now
}

func (c *testClock) advance(seconds int) {
	c.now = c.now.Add(time.Duration(seconds) * time.Second)
}

func openTestDB(t *testing.T) *store.Store {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "tuiview.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

func openSessions(t *testing.T, db *store.Store, clock *testClock) *session.Store {
	t.Helper()
	bank, err := generator.DefaultBank()
	if err != nil {
		t.Fatalf("bank: %v", err)
	}
	gen, err := generator.NewWithRand(bank, rand.New(rand.NewSource(5)))
	if err != nil {
		t.Fatalf("generator: %v", err)
	}
	st, err := session.Open(context.Background(), db, gen, session.WithClock(clock.Now))
	if err != nil {
		t.Fatalf("open sessions: %v", err)
	}
	return st
}

func newTestSessions(t *testing.T) (*session.Store, *testClock) {
	t.Helper()
	clock := &testClock{now: time.Unix(1_700_000_000, 0).UTC()}
	return openSessions(t, openTestDB(t), clock), clock
}

func press(m *Model, key tea.KeyType) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: key})
	return cmd
}

func typeText(m *Model, text string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func typeKey(m *Model, key string) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
	return cmd
}

func tick(m *Model, clock *testClock) tea.Cmd {
	_, cmd := m.Update(countdown.TickMsg{Gen: m.ctrl.Gen(), At: clock.Now()})
	return cmd
}

func mustSession(t *testing.T, st *session.Store, id string) model.Session {
	t.Helper()
	sess, ok := st.Session(id)
	if !ok {
		t.Fatalf("session %s not found", id)
	}
	return sess
}

func TestStartupShowsUploadWithoutSessions(t *testing.T) {
	st, clock := newTestSessions(t)
	m := NewModel(st, nil, WithClock(clock.Now))
	if m.view != viewUpload {
		t.Fatalf("expected upload view, got %d", m.view)
	}
	if m.Init() == nil {
		t.Fatalf("expected cursor blink command")
	}
	if !strings.Contains(m.View(), "Provide your resume") {
		t.Fatalf("unexpected upload view: %s", m.View())
	}
}

func TestResumeUploadFlowStartsInterview(t *testing.T) {
	st, clock := newTestSessions(t)
	path := filepath.Join(t.TempDir(), "resume.txt")
	data := "Jane Doe\nBackend Engineer\njane@example.com\n+1 (555) 123-4567\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write resume: %v", err)
	}

	m := NewModel(st, nil, WithClock(clock.Now))
	m.pathInput.SetValue(path)
	if cmd := press(m, tea.KeyEnter); cmd == nil || !m.parsing {
		t.Fatalf("expected parsing to start")
	}
	m.Update(parseResume(path)())

	if m.view != viewContact {
		t.Fatalf("expected contact view, got %d (err %q)", m.view, m.errMsg)
	}
	if got := m.contact[fieldName].Value(); got != "Jane Doe" {
		t.Fatalf("unexpected name %q", got)
	}
	if got := m.contact[fieldEmail].Value(); got != "jane@example.com" {
		t.Fatalf("unexpected email %q", got)
	}
	if got := m.contact[fieldPhone].Value(); got != "(555) 123-4567" {
		t.Fatalf("unexpected phone %q", got)
	}

	press(m, tea.KeyEnter)
	if m.view != viewReady {
		t.Fatalf("expected ready view, got %d (err %q)", m.view, m.errMsg)
	}
	sess, ok := st.CurrentSession()
	if !ok || sess.CandidateInfo.Phone != "5551234567" {
		t.Fatalf("expected session with cleaned phone, got %+v", sess.CandidateInfo)
	}
	if !strings.Contains(m.View(), "Ready to Start Your Interview?") {
		t.Fatalf("unexpected ready view: %s", m.View())
	}

	if cmd := press(m, tea.KeyEnter); cmd == nil {
		t.Fatalf("expected countdown to be scheduled")
	}
	if m.view != viewInterview {
		t.Fatalf("expected interview view, got %d", m.view)
	}
	if got := mustSession(t, st, sess.ID).Status; got != model.StatusInProgress {
		t.Fatalf("expected in-progress, got %s", got)
	}
	if remaining, ok := m.ctrl.Remaining(); !ok || remaining != 20 {
		t.Fatalf("expected 20s countdown, got %d", remaining)
	}
}

func TestUnsupportedResumeShowsError(t *testing.T) {
	st, clock := newTestSessions(t)
	path := filepath.Join(t.TempDir(), "resume.png")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	m := NewModel(st, nil, WithClock(clock.Now))
	m.pathInput.SetValue(path)
	press(m, tea.KeyEnter)
	m.Update(parseResume(path)())

	if m.view != viewUpload || !strings.Contains(m.errMsg, "Unsupported file type") {
		t.Fatalf("expected unsupported error on upload view, got view %d err %q", m.view, m.errMsg)
	}
	if len(st.Sessions()) != 0 {
		t.Fatalf("expected no sessions")
	}
}

func TestContactValidationBlocksSession(t *testing.T) {
	st, clock := newTestSessions(t)
	m := NewModel(st, nil, WithClock(clock.Now))
	press(m, tea.KeyTab)
	if m.view != viewContact || m.contactFocus != fieldName {
		t.Fatalf("expected manual contact entry on name field")
	}
	typeText(m, "Jane Doe")
	press(m, tea.KeyEnter)

	if m.view != viewContact {
		t.Fatalf("expected to stay on contact view")
	}
	if !strings.Contains(m.errMsg, "email") || !strings.Contains(m.errMsg, "phone") {
		t.Fatalf("expected missing email and phone, got %q", m.errMsg)
	}
	if m.contactFocus != fieldEmail {
		t.Fatalf("expected focus on email, got %d", m.contactFocus)
	}
	if len(st.Sessions()) != 0 {
		t.Fatalf("expected no sessions")
	}
}

func TestManualSubmitRecordsAnswer(t *testing.T) {
	st, clock := newTestSessions(t)
	id := st.CreateSession(jane)
	m := NewModel(st, nil, WithClock(clock.Now))
	press(m, tea.KeyEnter)

	typeText(m, "goroutines are cheap")
	if m.ctrl.Draft() != "goroutines are cheap" {
		t.Fatalf("draft not synced: %q", m.ctrl.Draft())
	}
	clock.advance(5)
	tick(m, clock)
	if got := *mustSession(t, st, id).TimeRemaining; got != 15 {
		t.Fatalf("expected persisted 15s, got %d", got)
	}

	if cmd := press(m, tea.KeyCtrlS); cmd == nil {
		t.Fatalf("expected next countdown to be scheduled")
	}
	sess := mustSession(t, st, id)
	if len(sess.Answers) != 1 || sess.CurrentQuestionIndex != 1 {
		t.Fatalf("expected one answer and index 1, got %d/%d", len(sess.Answers), sess.CurrentQuestionIndex)
	}
	got := sess.Answers[0]
	if got.Text != "goroutines are cheap" || got.TimeSpent != 5 || got.IsTimedOut {
		t.Fatalf("unexpected answer %+v", got)
	}
	if m.answer.Value() != "" {
		t.Fatalf("expected answer box to reset, got %q", m.answer.Value())
	}
}

func TestEmptySubmitKeepsCountdown(t *testing.T) {
	st, clock := newTestSessions(t)
	id := st.CreateSession(jane)
	m := NewModel(st, nil, WithClock(clock.Now))
	press(m, tea.KeyEnter)

	typeText(m, "   ")
	if cmd := press(m, tea.KeyCtrlS); cmd != nil {
		t.Fatalf("expected no new countdown for empty submit")
	}
	if m.errMsg == "" {
		t.Fatalf("expected an error message")
	}
	if len(mustSession(t, st, id).Answers) != 0 {
		t.Fatalf("expected no answers")
	}
	if _, ok := m.ctrl.Remaining(); !ok {
		t.Fatalf("expected countdown to keep running")
	}
}

func TestTimeoutRecordsPlaceholderAndStaleTicksAreIgnored(t *testing.T) {
	st, clock := newTestSessions(t)
	id := st.CreateSession(jane)
	m := NewModel(st, nil, WithClock(clock.Now))
	press(m, tea.KeyEnter)

	stale := countdown.TickMsg{Gen: m.ctrl.Gen() - 1, At: clock.Now().Add(time.Minute)}
	if _, cmd := m.Update(stale); cmd != nil {
		t.Fatalf("expected stale tick to be ignored")
	}

	clock.advance(20)
	if cmd := tick(m, clock); cmd == nil {
		t.Fatalf("expected next countdown to be scheduled")
	}
	sess := mustSession(t, st, id)
	if len(sess.Answers) != 1 {
		t.Fatalf("expected one answer, got %d", len(sess.Answers))
	}
	got := sess.Answers[0]
	if !got.IsTimedOut || got.Text != interview.TimeoutPlaceholder || got.TimeSpent != 20 {
		t.Fatalf("unexpected timeout answer %+v", got)
	}
	if m.view != viewInterview || sess.CurrentQuestionIndex != 1 {
		t.Fatalf("expected second question, got view %d index %d", m.view, sess.CurrentQuestionIndex)
	}
}

func TestFullInterviewShowsResults(t *testing.T) {
	st, clock := newTestSessions(t)
	id := st.CreateSession(jane)
	m := NewModel(st, nil, WithClock(clock.Now))
	press(m, tea.KeyEnter)

	for i := 0; i < 6; i++ {
		q, ok := mustSession(t, st, id).CurrentQuestion()
		if !ok {
			t.Fatalf("expected question %d", i+1)
		}
		clock.advance(q.TimeLimit)
		tick(m, clock)
	}

	sess := mustSession(t, st, id)
	if sess.Status != model.StatusCompleted || sess.Score == nil || *sess.Score != 21 {
		t.Fatalf("expected completed session scored 21, got %s", sess.Status)
	}
	if m.view != viewCompleted {
		t.Fatalf("expected completed view, got %d", m.view)
	}
	out := m.View()
	if !containsAll(out, []string{"Interview Completed!", "Final score: 21/180 (Poor)", "6/6 questions", "6 timed out"}) {
		t.Fatalf("unexpected results view: %s", out)
	}

	typeKey(m, "n")
	if m.view != viewUpload || m.ctrl != nil {
		t.Fatalf("expected fresh upload view")
	}
}

func TestCompletedSessionOpensOnResults(t *testing.T) {
	st, clock := newTestSessions(t)
	id := st.CreateSession(jane)
	for i := 0; i < 6; i++ {
		st.MoveToNextQuestion(id)
	}
	m := NewModel(st, nil, WithClock(clock.Now))
	if m.view != viewCompleted {
		t.Fatalf("expected completed view, got %d", m.view)
	}
	if m.Init() != nil {
		t.Fatalf("expected no startup command")
	}
}

func TestInProgressSessionResumesCountdown(t *testing.T) {
	st, clock := newTestSessions(t)
	id := st.CreateSession(jane)
	st.StartInterview(id)
	remaining := 7
	st.UpdateSession(id, session.Patch{TimeRemaining: &remaining})

	m := NewModel(st, nil, WithClock(clock.Now))
	if m.view != viewInterview {
		t.Fatalf("expected interview view, got %d", m.view)
	}
	if got, _ := m.ctrl.Remaining(); got != 7 {
		t.Fatalf("expected resumed 7s, got %d", got)
	}
	if m.Init() == nil {
		t.Fatalf("expected countdown to be scheduled")
	}
}

func interruptedSessions(t *testing.T) (*session.Store, *testClock, string) {
	t.Helper()
	clock := &testClock{now: time.Unix(1_700_000_000, 0).UTC()}
	db := openTestDB(t)
	first := openSessions(t, db, clock)
	id := first.CreateSession(jane)
	first.StartInterview(id)
	if err := db.Save(context.Background(), model.Snapshot{Sessions: first.Sessions()}); err != nil {
		t.Fatalf("save snapshot: %v", err)
	}
	return openSessions(t, db, clock), clock, id
}

func TestOfferAcceptResumesInterview(t *testing.T) {
	st, clock, id := interruptedSessions(t)
	m := NewModel(st, nil, WithClock(clock.Now))
	if m.view != viewOffer || m.offer.SessionID != id {
		t.Fatalf("expected offer for %s, got view %d", id, m.view)
	}
	if !strings.Contains(m.View(), "Welcome back, Jane Doe!") {
		t.Fatalf("unexpected offer view: %s", m.View())
	}

	if cmd := typeKey(m, "y"); cmd == nil {
		t.Fatalf("expected countdown to be scheduled")
	}
	if m.view != viewInterview || st.CurrentSessionID() != id {
		t.Fatalf("expected resumed interview, got view %d", m.view)
	}
	if m.offer.Pending() {
		t.Fatalf("expected offer to be cleared")
	}
}

func TestOfferDeclineLeavesSessions(t *testing.T) {
	st, clock, id := interruptedSessions(t)
	m := NewModel(st, nil, WithClock(clock.Now))
	typeKey(m, "n")

	if m.view != viewUpload {
		t.Fatalf("expected upload view, got %d", m.view)
	}
	if st.CurrentSessionID() != "" {
		t.Fatalf("expected no active session")
	}
	if got := mustSession(t, st, id).Status; got != model.StatusInProgress {
		t.Fatalf("expected session untouched, got %s", got)
	}
}

func TestCtrlCStopsCountdown(t *testing.T) {
	st, clock := newTestSessions(t)
	st.CreateSession(jane)
	m := NewModel(st, nil, WithClock(clock.Now))
	press(m, tea.KeyEnter)

	cmd := press(m, tea.KeyCtrlC)
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected quit message")
	}
	if _, ok := m.ctrl.Remaining(); ok {
		t.Fatalf("expected countdown to be stopped")
	}
}
