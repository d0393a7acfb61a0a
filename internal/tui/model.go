package tui

import (
	"github.com/Veraticus/la-lenera/internal/catalog"
	"github.com/Veraticus/la-lenera/internal/model"
	"github.com/Veraticus/la-lenera/internal/order"
	"github.com/Veraticus/la-lenera/internal/tui/components"
	"github.com/Veraticus/la-lenera/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Controller is the order flow the TUI drives. *order.Controller satisfies it.
type Controller interface {
	SelectBundle(id string) error
	SetZone(text string) error
	ChooseSuggestion(s string) error
	SetPayment(p model.PaymentMethod) error
	Submit() error
	Dismiss() error
	Confirm() error
	Snapshot() order.Snapshot
}

// State represents the current state of the TUI.
type State int

const (
	StateForm State = iota
	StateDialog
	StateHelp
)

// Field is the focused part of the order form.
type Field int

const (
	FieldBundle Field = iota
	FieldZone
	FieldPayment
	fieldCount
)

// Model holds the main TUI state.
type Model struct {
	theme       themes.Theme
	lastError   error
	controller  Controller
	testimonial *model.Testimonial
	help        help.Model
	bundles     []model.Bundle
	city        string
	zoneInput   components.ZoneInputModel
	dialog      components.ConfirmDialogModel
	snap        order.Snapshot
	config      Config
	keymap      KeyMap
	height      int
	width       int
	state       State
	focus       Field
	quitting    bool
}

// NewModel creates a model for cat driven by ctrl.
func NewModel(ctrl Controller, cat *catalog.Catalog, opts ...Option) Model {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return newModel(ctrl, cat, cfg)
}

// newModel creates a new model with the given configuration.
func newModel(ctrl Controller, cat *catalog.Catalog, cfg Config) Model {
	m := Model{
		state:      StateForm,
		focus:      FieldZone,
		config:     cfg,
		keymap:     DefaultKeyMap(),
		help:       help.New(),
		theme:      cfg.Theme,
		controller: ctrl,
		bundles:    cat.Bundles,
		city:       cat.City,
		zoneInput:  components.NewZoneInputModel(cfg.Theme),
		dialog:     components.NewConfirmDialogModel(cfg.Theme),
		width:      cfg.Width,
		height:     cfg.Height,
	}
	if cfg.Carousel != nil {
		if t, ok := cfg.Carousel.Current(); ok {
			m.testimonial = &t
		}
	}
	m.handleResize()
	m.apply(ctrl.Snapshot())
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.config.AltScreen {
		cmds = append(cmds, tea.EnterAltScreen)
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.handleResize()
		return m, nil

	case snapshotMsg:
		return m, m.apply(msg.snap)

	case testimonialMsg:
		t := msg.testimonial
		m.testimonial = &t
		return m, nil

	case errorMsg:
		m.lastError = msg.err
		return m, nil
	}

	// Blink and spinner ticks go to whichever component owns them.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.zoneInput, cmd = m.zoneInput.Update(msg)
	cmds = append(cmds, cmd)
	if m.state == StateDialog {
		m.dialog, cmd = m.dialog.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	switch m.state {
	case StateDialog:
		return m.dialog.View()
	case StateHelp:
		return m.renderHelp()
	}

	if m.width < 60 {
		return m.renderCompactView()
	}
	return m.renderFullView()
}

// State returns the current screen.
func (m Model) State() State {
	return m.state
}

// Focus returns the focused form field.
func (m Model) Focus() Field {
	return m.focus
}

// Snapshot returns the last controller state the model rendered.
func (m Model) Snapshot() order.Snapshot {
	return m.snap
}

// Err returns the last error shown to the user.
func (m Model) Err() error {
	return m.lastError
}

// handleKey routes a key press according to the current state.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keymap.ForceQuit) {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.state {
	case StateHelp:
		if key.Matches(msg, m.keymap.Help, m.keymap.Dismiss, m.keymap.Quit) {
			m.state = StateForm
		}
		return m, nil

	case StateDialog:
		return m.handleDialogKey(msg)
	}

	return m.handleFormKey(msg)
}

func (m Model) handleDialogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Dismiss):
		return m, m.do(m.controller.Dismiss())
	case key.Matches(msg, m.keymap.Left, m.keymap.Right, m.keymap.Next, m.keymap.Prev):
		return m, m.do(m.controller.SetPayment(m.otherPayment()))
	case key.Matches(msg, m.keymap.Submit):
		return m, m.do(m.controller.Confirm())
	}
	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	typing := m.focus == FieldZone

	switch {
	case key.Matches(msg, m.keymap.Next):
		return m, m.setFocus((m.focus + 1) % fieldCount)
	case key.Matches(msg, m.keymap.Prev):
		return m, m.setFocus((m.focus + fieldCount - 1) % fieldCount)
	case key.Matches(msg, m.keymap.Submit):
		if hl, ok := m.zoneInput.Highlighted(); ok && typing {
			return m, m.do(m.controller.ChooseSuggestion(hl))
		}
		return m, m.do(m.controller.Submit())
	case msg.String() == "f1":
		m.state = StateHelp
		return m, nil
	}

	if !typing {
		switch {
		case key.Matches(msg, m.keymap.Help):
			m.state = StateHelp
			return m, nil
		case key.Matches(msg, m.keymap.Quit, m.keymap.Dismiss):
			m.quitting = true
			return m, tea.Quit
		}
	}

	switch m.focus {
	case FieldBundle:
		switch {
		case key.Matches(msg, m.keymap.Left, m.keymap.Up):
			return m, m.do(m.controller.SelectBundle(m.bundleAt(-1)))
		case key.Matches(msg, m.keymap.Right, m.keymap.Down):
			return m, m.do(m.controller.SelectBundle(m.bundleAt(1)))
		}
	case FieldPayment:
		if key.Matches(msg, m.keymap.Left, m.keymap.Right, m.keymap.Up, m.keymap.Down) {
			return m, m.do(m.controller.SetPayment(m.otherPayment()))
		}
	case FieldZone:
		before := m.zoneInput.Value()
		var cmd tea.Cmd
		m.zoneInput, cmd = m.zoneInput.Update(msg)
		if after := m.zoneInput.Value(); after != before {
			return m, tea.Batch(cmd, m.do(m.controller.SetZone(after)))
		}
		return m, cmd
	}
	return m, nil
}

// do records the outcome of a controller call and renders the new state.
func (m *Model) do(err error) tea.Cmd {
	m.lastError = err
	return m.apply(m.controller.Snapshot())
}

// apply renders s unless a newer snapshot was already applied.
func (m *Model) apply(s order.Snapshot) tea.Cmd {
	if s.Version < m.snap.Version {
		return nil
	}
	m.snap = s
	m.zoneInput.Sync(s.Zone, s.Suggestions, s.ZoneValid)
	m.dialog.SetSnapshot(s)

	switch {
	case s.DialogOpen && m.state != StateDialog:
		m.state = StateDialog
		m.zoneInput.Blur()
		return m.dialog.Init()
	case !s.DialogOpen && m.state == StateDialog:
		m.state = StateForm
		if m.focus == FieldZone {
			return m.zoneInput.Focus()
		}
	}
	return nil
}

func (m *Model) setFocus(f Field) tea.Cmd {
	m.focus = f
	if f == FieldZone {
		return m.zoneInput.Focus()
	}
	m.zoneInput.Blur()
	return nil
}

// bundleAt returns the id of the bundle step positions from the selected one.
func (m Model) bundleAt(step int) string {
	if len(m.bundles) == 0 {
		return m.snap.Bundle.ID
	}
	idx := 0
	for i, b := range m.bundles {
		if b.ID == m.snap.Bundle.ID {
			idx = i
			break
		}
	}
	n := len(m.bundles)
	return m.bundles[((idx+step)%n+n)%n].ID
}

func (m Model) otherPayment() model.PaymentMethod {
	if m.snap.Payment == model.PaymentWallet {
		return model.PaymentCash
	}
	return model.PaymentWallet
}

// handleResize adjusts component sizes when terminal resizes.
func (m *Model) handleResize() {
	formWidth := min(m.width-4, 64)
	m.zoneInput.Resize(formWidth, 8)
	m.dialog.Resize(m.width, m.height)
	m.help.Width = m.width
}
