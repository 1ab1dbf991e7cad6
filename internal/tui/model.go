// Package tui provides the Bubble Tea interview interface.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/tuiview/internal/countdown"
	"github.com/verte-zerg/tuiview/internal/interview"
	"github.com/verte-zerg/tuiview/internal/model"
	"github.com/verte-zerg/tuiview/internal/recovery"
)

// Store is the session store surface the interview UI drives.
type Store interface {
	interview.SessionStore
	recovery.Source
	recovery.Restorer
	CreateSession(info model.CandidateInfo) string
	CurrentSession() (model.Session, bool)
}

type view int

const (
	viewUpload view = iota
	viewContact
	viewOffer
	viewReady
	viewInterview
	viewCompleted
)

// Option customizes a Model.
type Option func(*Model)

// WithClock overrides the time source used for countdowns and answers.
func WithClock(now func() time.Time) Option {
	return func(m *Model) {
		m.now = now
	}
}

// Model implements the Bubble Tea interview UI.
type Model struct {
	store Store
	log   *zap.Logger
	now   func() time.Time

	view   view
	width  int
	height int
	errMsg string

	pathInput textinput.Model
	parsing   bool
	spin      spinner.Model

	contact      []textinput.Model
	contactFocus int

	offer recovery.Offer

	ctrl   *interview.Controller
	answer textarea.Model
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	textStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	timerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0F0F0"))
	urgentStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	barFullStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
)

// NewModel constructs the interview UI and picks the starting screen: the
// active session if there is one, a resume offer for an interrupted
// interview, or the resume upload prompt.
func NewModel(store Store, log *zap.Logger, opts ...Option) *Model {
	if log == nil {
		log = zap.NewNop()
	}
	m := &Model{
		store:   store,
		log:     log,
		now:     time.Now,
		spin:    spinner.New(spinner.WithSpinner(spinner.Dot)),
		contact: newContactInputs(),
		answer:  newAnswerArea(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.pathInput = textinput.New()
	m.pathInput.Placeholder = "~/resume.pdf"
	m.pathInput.Prompt = "Resume: "

	if sess, ok := store.CurrentSession(); ok {
		m.enterSession(sess)
		return m
	}
	if offer, ok := recovery.Check(store); ok {
		m.offer = offer
		m.view = viewOffer
		return m
	}
	m.showUpload()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	switch m.view {
	case viewUpload, viewContact:
		return textinput.Blink
	case viewInterview:
		return tea.Batch(m.ctrl.Schedule(), textarea.Blink)
	default:
		return nil
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.answer.SetWidth(m.contentWidth())
		return m, nil
	case countdown.TickMsg:
		if m.ctrl == nil || m.view != viewInterview {
			return m, nil
		}
		return m, m.handleOutcome(m.ctrl.Tick(msg))
	case resumeParsedMsg:
		return m, m.handleParsed(msg)
	case spinner.TickMsg:
		if !m.parsing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, m.quit()
		}
		switch m.view {
		case viewUpload:
			return m, m.updateUpload(msg)
		case viewContact:
			return m, m.updateContact(msg)
		case viewOffer:
			return m, m.updateOffer(msg)
		case viewReady:
			return m, m.updateReady(msg)
		case viewInterview:
			return m, m.updateInterview(msg)
		case viewCompleted:
			return m, m.updateCompleted(msg)
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	var body string
	switch m.view {
	case viewUpload:
		body = m.renderUpload()
	case viewContact:
		body = m.renderContact()
	case viewOffer:
		body = m.renderOffer()
	case viewReady:
		body = m.renderReady()
	case viewInterview:
		body = m.renderInterview()
	case viewCompleted:
		body = m.renderCompleted()
	}
	if m.errMsg != "" {
		body += "\n\n" + errorStyle.Render(wrapText(m.errMsg, m.contentWidth()))
	}
	if m.width == 0 || m.height == 0 {
		return body + "\n\n" + m.renderFooter()
	}
	content := lipgloss.NewStyle().Width(m.contentWidth()).Render(body)
	footer := m.renderFooter()
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 1
	placed := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return placed + "\n" + footerLine
}

func (m *Model) contentWidth() int {
	if m.width == 0 {
		return 72
	}
	return max(int(float64(m.width)*0.70), 1)
}

// enterSession shows the screen matching the session state. In-progress
// sessions resume their countdown right away.
func (m *Model) enterSession(sess model.Session) tea.Cmd {
	m.errMsg = ""
	m.ctrl = interview.NewController(m.store, sess.ID, m.log)
	switch sess.Status {
	case model.StatusNotStarted:
		m.view = viewReady
		return nil
	case model.StatusInProgress:
		if m.ctrl.Activate(m.now()) {
			return m.showInterview()
		}
	}
	m.ctrl.Stop()
	m.view = viewCompleted
	return nil
}

func (m *Model) handleOutcome(out interview.Outcome) tea.Cmd {
	switch out {
	case interview.Running:
		return m.ctrl.Schedule()
	case interview.Advanced:
		m.answer.Reset()
		return m.ctrl.Schedule()
	case interview.Finished:
		m.ctrl.Stop()
		m.answer.Blur()
		m.view = viewCompleted
		m.log.Info("interview finished", zap.String("session", m.ctrl.SessionID()))
		return nil
	default:
		return nil
	}
}

func (m *Model) quit() tea.Cmd {
	if m.ctrl != nil {
		m.ctrl.Stop()
	}
	return tea.Quit
}

func (m *Model) updateOffer(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "enter":
		recovery.Accept(m.store, m.offer)
		m.log.Info("interview resumed", zap.String("session", m.offer.SessionID))
		recovery.Decline(&m.offer)
		sess, ok := m.store.CurrentSession()
		if !ok {
			m.showUpload()
			return textinput.Blink
		}
		return m.enterSession(sess)
	case "n", "esc":
		recovery.Decline(&m.offer)
		m.showUpload()
		return textinput.Blink
	case "q":
		return m.quit()
	}
	return nil
}

func (m *Model) updateReady(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter", "s":
		if !m.ctrl.Begin(m.now()) {
			m.errMsg = "This interview can no longer be started."
			return nil
		}
		m.log.Info("interview started", zap.String("session", m.ctrl.SessionID()))
		return m.showInterview()
	case "q", "esc":
		return m.quit()
	}
	return nil
}

func (m *Model) updateCompleted(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "n":
		m.ctrl = nil
		m.showUpload()
		return textinput.Blink
	case "q", "esc":
		return m.quit()
	}
	return nil
}

func (m *Model) renderOffer() string {
	lines := []string{
		titleStyle.Render("Welcome back, " + m.offer.CandidateName + "!"),
		"",
		textStyle.Render(wrapText("You have an unfinished interview with "+
			answeredText(m.offer.Answered, m.offer.Total)+".", m.contentWidth())),
	}
	if !m.offer.StartedAt.IsZero() {
		lines = append(lines, mutedStyle.Render("Started "+m.offer.StartedAt.Local().Format("2006-01-02 15:04")))
	}
	lines = append(lines, "", textStyle.Render("Continue where you left off?"))
	return joinLines(lines)
}

func (m *Model) renderFooter() string {
	var hint string
	switch m.view {
	case viewUpload:
		hint = "enter read resume · tab enter details manually · esc quit"
	case viewContact:
		hint = "tab next field · enter start · esc back"
	case viewOffer:
		hint = "y resume · n start new"
	case viewReady:
		hint = "enter begin · q quit"
	case viewInterview:
		return footerStyle.Render(m.interviewStatus() + "  ctrl+s submit · ctrl+c pause")
	case viewCompleted:
		hint = "n new interview · q quit"
	}
	return footerStyle.Render(hint)
}
