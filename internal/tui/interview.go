package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/tuiview/internal/interview"
	"github.com/verte-zerg/tuiview/internal/model"
	"github.com/verte-zerg/tuiview/internal/scoring"
	"github.com/verte-zerg/tuiview/internal/stats"
)

const (
	urgentSeconds = 10
	progressWidth = 30
)

func newAnswerArea() textarea.Model {
	ta := textarea.New()
	ta.Placeholder = "Type your answer..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(6)
	return ta
}

func (m *Model) showInterview() tea.Cmd {
	m.view = viewInterview
	m.errMsg = ""
	m.answer.Reset()
	m.answer.SetValue(m.ctrl.Draft())
	m.answer.SetWidth(m.contentWidth())
	return tea.Batch(m.ctrl.Schedule(), m.answer.Focus())
}

func (m *Model) updateInterview(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlS {
		m.ctrl.SetDraft(m.answer.Value())
		out, err := m.ctrl.Submit(m.now())
		switch {
		case errors.Is(err, interview.ErrEmptyDraft):
			m.errMsg = "Write an answer before submitting."
			return nil
		case err != nil:
			m.errMsg = err.Error()
			return nil
		}
		m.errMsg = ""
		return m.handleOutcome(out)
	}
	var cmd tea.Cmd
	m.answer, cmd = m.answer.Update(msg)
	m.ctrl.SetDraft(m.answer.Value())
	m.errMsg = ""
	return cmd
}

func (m *Model) currentSession() (model.Session, bool) {
	if m.ctrl == nil {
		return model.Session{}, false
	}
	return m.store.Session(m.ctrl.SessionID())
}

func (m *Model) interviewStatus() string {
	sess, ok := m.currentSession()
	if !ok {
		return ""
	}
	q, ok := sess.CurrentQuestion()
	if !ok {
		return ""
	}
	remaining, _ := m.ctrl.Remaining()
	return fmt.Sprintf("Question %d/%d · %s · %s left",
		sess.CurrentQuestionIndex+1, len(sess.Questions), q.Difficulty, formatClock(remaining))
}

func (m *Model) renderInterview() string {
	sess, ok := m.currentSession()
	if !ok {
		return ""
	}
	q, ok := sess.CurrentQuestion()
	if !ok {
		return ""
	}
	remaining, _ := m.ctrl.Remaining()
	timer := timerStyle.Render(formatClock(remaining))
	if remaining <= urgentSeconds {
		timer = urgentStyle.Render(formatClock(remaining))
	}
	header := fmt.Sprintf("Question %d of %d · %s · %s",
		sess.CurrentQuestionIndex+1, len(sess.Questions), q.Difficulty, q.Category)

	lines := []string{
		titleStyle.Render(header) + "  " + timer,
		progressBar(sess.CurrentQuestionIndex, len(sess.Questions), progressWidth),
		"",
		textStyle.Render(wrapText(q.Text, m.contentWidth())),
		"",
		m.answer.View(),
	}
	return joinLines(lines)
}

func (m *Model) renderReady() string {
	sess, ok := m.currentSession()
	if !ok {
		return ""
	}
	lines := []string{
		titleStyle.Render("Ready to Start Your Interview?"),
		"",
		textStyle.Render("Candidate: " + sess.CandidateInfo.Name),
		"",
		textStyle.Render(fmt.Sprintf("You will answer %d questions:", len(sess.Questions))),
	}
	for _, d := range model.Difficulties {
		n := 0
		for _, q := range sess.Questions {
			if q.Difficulty == d {
				n++
			}
		}
		if n == 0 {
			continue
		}
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("  %d %s (%ds each)", n, d, d.TimeLimit())))
	}
	lines = append(lines,
		"",
		mutedStyle.Render(wrapText("Answers are submitted automatically when time runs out. Progress is saved as you go.", m.contentWidth())),
	)
	return joinLines(lines)
}

func (m *Model) renderCompleted() string {
	sess, ok := m.currentSession()
	if !ok {
		return titleStyle.Render("Interview Completed!")
	}
	score := 0
	if sess.Score != nil {
		score = *sess.Score
	}
	lines := []string{
		titleStyle.Render("Interview Completed!"),
		"",
		textStyle.Render(fmt.Sprintf("Final score: %d/%d (%s)", score, scoring.MaxScore, scoring.Tier(score))),
		mutedStyle.Render(fmt.Sprintf("Answered %s · %d timed out",
			answeredText(len(sess.Answers), len(sess.Questions)), stats.TimedOutCount(sess))),
	}
	if sess.Summary != nil {
		lines = append(lines, "", textStyle.Render(wrapText(*sess.Summary, m.contentWidth())))
	}
	return joinLines(lines)
}

func progressBar(done, total, width int) string {
	if total <= 0 || width <= 0 {
		return ""
	}
	filled := min(done*width/total, width)
	return barFullStyle.Render(strings.Repeat("█", filled)) +
		mutedStyle.Render(strings.Repeat("░", width-filled))
}

func formatClock(seconds int) string {
	seconds = max(seconds, 0)
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func answeredText(answered, total int) string {
	return fmt.Sprintf("%d/%d questions", answered, total)
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
