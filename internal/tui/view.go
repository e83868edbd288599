package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/tim-martinez/node-form/internal/models"
)

const (
	barCells       = 20
	sidebarContent = sidebarWidth - 2
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0F0F0"))
	sidebarStyle  = lipgloss.NewStyle().Width(sidebarWidth).PaddingRight(2).BorderStyle(lipgloss.NormalBorder()).BorderRight(true).BorderForeground(lipgloss.Color("#3A3A3A"))
	activeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	completeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	focusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	requiredStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	mainStyle     = lipgloss.NewStyle().PaddingLeft(2)
)

// View implements tea.Model.
func (m *Model) View() string {
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		sidebarStyle.Render(m.renderSidebar()),
		mainStyle.Render(m.renderMain()),
	)
	return body + "\n" + m.renderFooter()
}

// renderSidebar draws one fixed-height row per section so mouse clicks map
// back to an index.
func (m *Model) renderSidebar() string {
	state := m.ctrl.Snapshot()
	progress := m.ctrl.Progress()

	var b strings.Builder
	b.WriteString(titleStyle.Render("Sections"))
	b.WriteString("\n\n")
	for i, sec := range m.form.Sections {
		pct := progress[sec.ID]
		marker := "  "
		style := labelStyle
		switch {
		case i == state.Section:
			marker = "▸ "
			style = activeStyle
		case pct == 100:
			marker = "✓ "
			style = completeStyle
		}
		title := runewidth.Truncate(marker+strconv.Itoa(i+1)+". "+sec.Title, sidebarContent, "…")
		b.WriteString(style.Render(title))
		b.WriteString("\n  ")
		b.WriteString(progressBar(pct, barCells-6))
		b.WriteString(" ")
		b.WriteString(mutedStyle.Render(percent(pct)))
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) renderMain() string {
	state := m.ctrl.Snapshot()
	sec := m.form.Sections[state.Section]

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.form.Title))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Overall Progress: " + percent(m.ctrl.OverallProgress())))
	b.WriteString(" ")
	b.WriteString(progressBar(m.ctrl.OverallProgress(), barCells))
	b.WriteString("\n\n")
	b.WriteString(activeStyle.Render(sec.Title))
	b.WriteString("\n\n")
	for i, q := range sec.Questions {
		b.WriteString(m.renderQuestion(q, state.Answers[q.ID], i == m.focus))
		b.WriteString("\n\n")
	}
	b.WriteString(m.renderNav(state.Section))
	if status := m.renderStatus(); status != "" {
		b.WriteString("\n\n")
		b.WriteString(status)
	}
	return b.String()
}

func (m *Model) renderQuestion(q models.Question, value any, focused bool) string {
	label := q.Label
	if focused {
		label = focusStyle.Render(label)
	} else {
		label = labelStyle.Render(label)
	}
	if q.Required {
		label += requiredStyle.Render(" *")
	}
	if q.Type != models.KindSelect {
		return label + "\n" + m.inputs[q.ID].View()
	}
	choice := "Select an option"
	if idx := optionIndex(q.Options, value); idx >= 0 {
		choice = q.Options[idx]
	}
	line := "‹ " + choice + " ›"
	if focused {
		line = focusStyle.Render(line)
	} else {
		line = mutedStyle.Render(line)
	}
	return label + "\n  " + line
}

func (m *Model) renderNav(section int) string {
	prev := "[ Previous ]"
	if section == 0 {
		prev = mutedStyle.Render(prev)
	}
	var next string
	switch {
	case section < m.form.LastSection():
		next = "[ Next ]"
	case m.submitting():
		next = mutedStyle.Render("[ Submitting... ]")
	default:
		next = activeStyle.Render("[ Submit ]")
	}
	return prev + "  " + next
}

func (m *Model) submitting() bool {
	return m.pending || m.ctrl.Snapshot().Submitting
}

// renderStatus shows a pending validation warning, otherwise the session's
// status message.
func (m *Model) renderStatus() string {
	if m.warning != "" {
		return errorStyle.Render(m.warning)
	}
	state := m.ctrl.Snapshot()
	switch {
	case state.Message == "":
		return ""
	case state.Succeeded():
		return successStyle.Render(state.Message)
	default:
		return errorStyle.Render(state.Message)
	}
}

func (m *Model) renderFooter() string {
	return footerStyle.Render(m.help.View(m.keys))
}

func progressBar(pct, cells int) string {
	filled := pct * cells / 100
	return completeStyle.Render(strings.Repeat("█", filled)) +
		mutedStyle.Render(strings.Repeat("░", cells-filled))
}
