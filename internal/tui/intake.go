package tui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/verte-zerg/tuiview/internal/model"
	"github.com/verte-zerg/tuiview/internal/resume"
)

const (
	fieldName = iota
	fieldEmail
	fieldPhone
)

var contactLabels = []string{"Name", "Email", "Phone"}

type resumeParsedMsg struct {
	path string
	info model.CandidateInfo
	err  error
}

func newContactInputs() []textinput.Model {
	inputs := make([]textinput.Model, len(contactLabels))
	placeholders := []string{"Jane Doe", "jane@example.com", "(555) 123-4567"}
	for i := range inputs {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = placeholders[i]
		in.CharLimit = 120
		inputs[i] = in
	}
	return inputs
}

func parseResume(path string) tea.Cmd {
	return func() tea.Msg {
		text, err := resume.ExtractText(path)
		if err != nil {
			return resumeParsedMsg{path: path, err: err}
		}
		return resumeParsedMsg{path: path, info: resume.ParseContact(text)}
	}
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func (m *Model) showUpload() {
	m.view = viewUpload
	m.parsing = false
	m.errMsg = ""
	m.pathInput.SetValue("")
	m.pathInput.Focus()
}

func (m *Model) updateUpload(msg tea.KeyMsg) tea.Cmd {
	if m.parsing {
		return nil
	}
	switch msg.Type {
	case tea.KeyEsc:
		return m.quit()
	case tea.KeyTab:
		m.showContact(model.CandidateInfo{})
		return textinput.Blink
	case tea.KeyEnter:
		path := strings.TrimSpace(m.pathInput.Value())
		if path == "" {
			m.errMsg = "Enter the path to a resume (.pdf, .docx or .txt)."
			return nil
		}
		m.errMsg = ""
		m.parsing = true
		return tea.Batch(parseResume(expandHome(path)), m.spin.Tick)
	}
	var cmd tea.Cmd
	m.pathInput, cmd = m.pathInput.Update(msg)
	return cmd
}

func (m *Model) handleParsed(msg resumeParsedMsg) tea.Cmd {
	if m.view != viewUpload || !m.parsing {
		return nil
	}
	m.parsing = false
	if msg.err != nil {
		m.log.Warn("resume extraction failed", zap.String("path", msg.path), zap.Error(msg.err))
		switch {
		case errors.Is(msg.err, resume.ErrUnsupportedFormat):
			m.errMsg = "Unsupported file type. Use a .pdf, .docx or .txt resume."
		case errors.Is(msg.err, resume.ErrNoText):
			m.errMsg = "No text could be read from that file."
		default:
			m.errMsg = "Could not read resume: " + msg.err.Error()
		}
		return nil
	}
	m.log.Info("resume parsed",
		zap.String("path", msg.path),
		zap.Bool("name", msg.info.Name != ""),
		zap.Bool("email", msg.info.Email != ""),
		zap.Bool("phone", msg.info.Phone != ""))
	m.showContact(msg.info)
	if err := resume.Validate(msg.info); err != nil {
		m.errMsg = "Please fill in what the resume was missing. " + capitalize(err.Error()) + "."
	}
	return textinput.Blink
}

func (m *Model) showContact(info model.CandidateInfo) {
	m.view = viewContact
	m.errMsg = ""
	m.contact[fieldName].SetValue(info.Name)
	m.contact[fieldEmail].SetValue(info.Email)
	m.contact[fieldPhone].SetValue(resume.FormatPhone(info.Phone))
	m.focusContact(firstEmpty(m.contact))
}

func (m *Model) focusContact(idx int) {
	m.contactFocus = (idx + len(m.contact)) % len(m.contact)
	for i := range m.contact {
		if i == m.contactFocus {
			m.contact[i].Focus()
		} else {
			m.contact[i].Blur()
		}
	}
}

func (m *Model) updateContact(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.showUpload()
		return textinput.Blink
	case tea.KeyTab, tea.KeyDown:
		m.focusContact(m.contactFocus + 1)
		return nil
	case tea.KeyShiftTab, tea.KeyUp:
		m.focusContact(m.contactFocus - 1)
		return nil
	case tea.KeyEnter:
		return m.submitContact()
	}
	var cmd tea.Cmd
	m.contact[m.contactFocus], cmd = m.contact[m.contactFocus].Update(msg)
	return cmd
}

func (m *Model) submitContact() tea.Cmd {
	info := resume.Clean(model.CandidateInfo{
		Name:  m.contact[fieldName].Value(),
		Email: m.contact[fieldEmail].Value(),
		Phone: m.contact[fieldPhone].Value(),
	})
	if err := resume.Validate(info); err != nil {
		m.errMsg = capitalize(err.Error()) + "."
		var missing *resume.MissingFieldsError
		if errors.As(err, &missing) && len(missing.Fields) > 0 {
			m.focusContact(fieldIndex(missing.Fields[0]))
		}
		return nil
	}
	id := m.store.CreateSession(info)
	m.log.Info("candidate registered", zap.String("session", id))
	sess, ok := m.store.CurrentSession()
	if !ok {
		m.errMsg = "Failed to create interview session."
		return nil
	}
	return m.enterSession(sess)
}

func (m *Model) renderUpload() string {
	lines := []string{
		titleStyle.Render("AI Interview Assistant"),
		"",
		textStyle.Render(wrapText("Provide your resume to begin. Name, email and phone are read from it.", m.contentWidth())),
		"",
		m.pathInput.View(),
	}
	if m.parsing {
		lines = append(lines, "", m.spin.View()+" "+mutedStyle.Render("Reading resume..."))
	}
	return joinLines(lines)
}

func (m *Model) renderContact() string {
	lines := []string{titleStyle.Render("Confirm your details"), ""}
	for i, in := range m.contact {
		label := mutedStyle.Render(contactLabels[i] + ":")
		if i == m.contactFocus {
			label = textStyle.Render(contactLabels[i] + ":")
		}
		lines = append(lines, label+" "+in.View())
	}
	return joinLines(lines)
}

func firstEmpty(inputs []textinput.Model) int {
	for i, in := range inputs {
		if strings.TrimSpace(in.Value()) == "" {
			return i
		}
	}
	return 0
}

func fieldIndex(name string) int {
	for i, label := range contactLabels {
		if strings.EqualFold(label, name) {
			return i
		}
	}
	return 0
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
