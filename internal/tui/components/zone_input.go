package components

import (
	"strings"

	"github.com/Veraticus/la-lenera/internal/tui/themes"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ZoneInputModel is the neighborhood field with its suggestion list. Up and
// down move a highlight through the suggestions; the owner decides what enter
// does with it.
type ZoneInputModel struct {
	theme       themes.Theme
	suggestions []string
	input       textinput.Model
	cursor      int
	width       int
	height      int
	valid       bool
}

// NewZoneInputModel creates an empty, focused zone input.
func NewZoneInputModel(theme themes.Theme) ZoneInputModel {
	input := textinput.New()
	input.Placeholder = "Escribe tu barrio..."
	input.CharLimit = 60
	input.Prompt = "📍 "
	input.Focus()

	return ZoneInputModel{
		theme:  theme,
		input:  input,
		cursor: -1,
	}
}

// Update handles messages.
func (m ZoneInputModel) Update(msg tea.Msg) (ZoneInputModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !m.input.Focused() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	visible := m.Visible()
	switch keyMsg.String() {
	case "up":
		if m.cursor >= 0 {
			m.cursor--
		}
		return m, nil
	case "down":
		if m.cursor < len(visible)-1 {
			m.cursor++
		}
		return m, nil
	case "enter":
		return m, nil
	}

	var cmd tea.Cmd
	before := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.cursor = -1
	}
	return m, cmd
}

// Sync aligns the field with controller state. The text is only replaced
// when it differs, so the caret survives ordinary typing.
func (m *ZoneInputModel) Sync(zone string, suggestions []string, valid bool) {
	if m.input.Value() != zone {
		m.input.SetValue(zone)
		m.input.CursorEnd()
	}
	m.suggestions = suggestions
	m.valid = valid
	if valid || m.cursor >= len(m.Visible()) {
		m.cursor = -1
	}
}

// Visible returns the suggestions currently shown. The list hides once the
// zone is valid or the field loses focus.
func (m ZoneInputModel) Visible() []string {
	if m.valid || !m.input.Focused() {
		return nil
	}
	return m.suggestions
}

// Highlighted returns the suggestion under the cursor, if any.
func (m ZoneInputModel) Highlighted() (string, bool) {
	visible := m.Visible()
	if m.cursor < 0 || m.cursor >= len(visible) {
		return "", false
	}
	return visible[m.cursor], true
}

// Value returns the raw text.
func (m ZoneInputModel) Value() string {
	return m.input.Value()
}

// Focus gives the field keyboard focus.
func (m *ZoneInputModel) Focus() tea.Cmd {
	return m.input.Focus()
}

// Blur removes keyboard focus and clears the highlight.
func (m *ZoneInputModel) Blur() {
	m.input.Blur()
	m.cursor = -1
}

// Focused reports whether the field has focus.
func (m ZoneInputModel) Focused() bool {
	return m.input.Focused()
}

// IsComplete reports whether the text names a deliverable zone.
func (m ZoneInputModel) IsComplete() bool {
	return m.valid
}

// View renders the field and the suggestion list.
func (m ZoneInputModel) View() string {
	border := m.theme.Border
	if m.valid {
		border = m.theme.Success
	} else if m.input.Focused() {
		border = m.theme.Primary
	}

	field := m.input.View()
	if m.valid {
		field += " " + lipgloss.NewStyle().Foreground(m.theme.Success).Render("✓")
	}

	width := max(m.width-2, 20)
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(width).
		Render(field)

	visible := m.Visible()
	if len(visible) == 0 {
		return box
	}

	lines := make([]string, 0, len(visible))
	for i, s := range visible {
		line := "  " + s
		if i == m.cursor {
			line = m.theme.Selected.Render("> " + s)
		} else {
			line = lipgloss.NewStyle().Foreground(m.theme.Muted).Render(line)
		}
		lines = append(lines, line)
	}

	return lipgloss.JoinVertical(lipgloss.Left, box, strings.Join(lines, "\n"))
}

// Resize updates the component size.
func (m *ZoneInputModel) Resize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = max(width-8, 10)
}
