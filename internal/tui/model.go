// Package tui provides the Bubble Tea questionnaire wizard.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/tim-martinez/node-form/internal/models"
	"github.com/tim-martinez/node-form/internal/session"
)

const (
	sidebarWidth  = 32
	sidebarHeader = 2
	sidebarRow    = 3
)

type submitDoneMsg struct {
	id  string
	err error
}

// Model implements the wizard UI over a session controller.
type Model struct {
	ctrl   *session.Controller
	form   *models.Form
	logger *zap.Logger
	keys   keyMap
	help   help.Model

	width  int
	height int

	inputs  map[string]*textinput.Model
	focus   int
	pending bool
	warning string
	lastID  string
}

// NewModel constructs a wizard for the controller's form.
func NewModel(ctrl *session.Controller, logger *zap.Logger) *Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Model{
		ctrl:   ctrl,
		form:   ctrl.Form(),
		logger: logger,
		keys:   defaultKeyMap(),
		help:   help.New(),
		inputs: make(map[string]*textinput.Model),
	}
	for _, sec := range m.form.Sections {
		for _, q := range sec.Questions {
			if q.Type == models.KindSelect {
				continue
			}
			ti := textinput.New()
			ti.Prompt = "› "
			ti.Width = 40
			switch q.Type {
			case models.KindNumber:
				ti.Placeholder = "0"
			case models.KindDate:
				ti.Placeholder = "YYYY-MM-DD"
				ti.CharLimit = len(dateLayout)
			}
			m.inputs[q.ID] = &ti
		}
	}
	m.load()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// load copies the controller's answers into the inputs and resets focus.
func (m *Model) load() {
	answers := m.ctrl.Snapshot().Answers
	for id, ti := range m.inputs {
		s, _ := answers[id].(string)
		ti.SetValue(s)
	}
	m.setFocus(0)
}

func (m *Model) section() models.Section {
	return m.form.Sections[m.ctrl.Snapshot().Section]
}

func (m *Model) focused() (models.Question, bool) {
	qs := m.section().Questions
	if m.focus < 0 || m.focus >= len(qs) {
		return models.Question{}, false
	}
	return qs[m.focus], true
}

func (m *Model) setFocus(i int) {
	qs := m.section().Questions
	if len(qs) == 0 {
		m.focus = 0
		return
	}
	m.focus = (i%len(qs) + len(qs)) % len(qs)
	for _, ti := range m.inputs {
		ti.Blur()
	}
	if q, ok := m.focused(); ok {
		if ti, ok := m.inputs[q.ID]; ok {
			ti.Focus()
		}
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case submitDoneMsg:
		return m.handleSubmitDone(msg), nil
	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.NextField):
		m.setFocus(m.focus + 1)
		return m, nil
	case key.Matches(msg, m.keys.PrevField):
		m.setFocus(m.focus - 1)
		return m, nil
	case key.Matches(msg, m.keys.Next):
		m.ctrl.Next()
		m.afterNavigate()
		return m, nil
	case key.Matches(msg, m.keys.Previous):
		m.ctrl.Previous()
		m.afterNavigate()
		return m, nil
	case key.Matches(msg, m.keys.Jump):
		m.goTo(int(msg.Runes[0] - '1'))
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		if msg.Type == tea.KeyEnter && !m.onLastSection() {
			m.setFocus(m.focus + 1)
			return m, nil
		}
		return m, m.startSubmit()
	}

	q, ok := m.focused()
	if !ok {
		return m, nil
	}
	if q.Type == models.KindSelect {
		switch {
		case key.Matches(msg, m.keys.OptPrev):
			m.cycle(q, -1)
		case key.Matches(msg, m.keys.OptNext), msg.Type == tea.KeySpace:
			m.cycle(q, 1)
		}
		return m, nil
	}
	return m, m.edit(q, msg)
}

// edit forwards a key to the focused input and records the new answer.
// Keystrokes that would leave an unusable value are dropped.
func (m *Model) edit(q models.Question, msg tea.KeyMsg) tea.Cmd {
	ti := m.inputs[q.ID]
	before := ti.Value()
	updated, cmd := ti.Update(msg)
	after := updated.Value()
	if !acceptInput(q.Type, after) {
		return cmd
	}
	*ti = updated
	if after != before {
		m.warning = ""
		m.ctrl.SetAnswer(q.ID, after)
	}
	return cmd
}

func (m *Model) cycle(q models.Question, step int) {
	current := optionIndex(q.Options, m.ctrl.Snapshot().Answers[q.ID])
	next := cycleOption(current, len(q.Options), step)
	value := ""
	if next >= 0 {
		value = q.Options[next]
	}
	m.warning = ""
	m.ctrl.SetAnswer(q.ID, value)
}

func (m *Model) goTo(index int) {
	if _, err := m.ctrl.GoTo(index); err != nil {
		m.logger.Debug("section jump ignored", zap.Int("index", index), zap.Error(err))
		return
	}
	m.afterNavigate()
}

func (m *Model) afterNavigate() {
	m.warning = ""
	m.setFocus(0)
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return
	}
	if msg.X >= sidebarWidth || msg.Y < sidebarHeader {
		return
	}
	m.goTo((msg.Y - sidebarHeader) / sidebarRow)
}

func (m *Model) onLastSection() bool {
	return m.ctrl.Snapshot().Section == m.form.LastSection()
}

// startSubmit runs the checks an input form enforces before it lets the
// user submit, then hands the answers to the controller in the background.
func (m *Model) startSubmit() tea.Cmd {
	if m.pending || !m.onLastSection() {
		return nil
	}
	if missing := m.ctrl.Missing(); len(missing) > 0 {
		labels := make([]string, len(missing))
		for i, q := range missing {
			labels[i] = q.Label
		}
		m.warning = "Please fill in: " + strings.Join(labels, ", ")
		m.focusQuestion(missing[0].ID)
		return nil
	}
	answers := m.ctrl.Snapshot().Answers
	for _, sec := range m.form.Sections {
		for _, q := range sec.Questions {
			if err := checkValue(q, answers[q.ID]); err != nil {
				m.warning = err.Error()
				m.focusQuestion(q.ID)
				return nil
			}
		}
	}

	m.pending = true
	m.warning = ""
	ctrl := m.ctrl
	return func() tea.Msg {
		id, err := ctrl.Submit(context.Background())
		return submitDoneMsg{id: id, err: err}
	}
}

func (m *Model) handleSubmitDone(msg submitDoneMsg) *Model {
	m.pending = false
	if msg.err != nil {
		if errors.Is(msg.err, session.ErrSubmitInProgress) {
			m.logger.Debug("submit already in flight")
		}
		return m
	}
	m.lastID = msg.id
	m.load()
	return m
}

// focusQuestion moves to the section holding id and focuses it.
func (m *Model) focusQuestion(id string) {
	for si, sec := range m.form.Sections {
		for qi, q := range sec.Questions {
			if q.ID != id {
				continue
			}
			if _, err := m.ctrl.GoTo(si); err != nil {
				return
			}
			m.setFocus(qi)
			return
		}
	}
}

// Submitted returns the id of the last stored submission, if any.
func (m *Model) Submitted() string {
	return m.lastID
}

func percent(v int) string {
	return fmt.Sprintf("%d%%", v)
}
