package components

import (
	"fmt"
	"strings"

	"github.com/Veraticus/la-lenera/internal/model"
	"github.com/Veraticus/la-lenera/internal/order"
	"github.com/Veraticus/la-lenera/internal/tui/themes"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ClosedNotice is shown in the dialog outside business hours.
const ClosedNotice = "Horario cerrado. Solicitud quedará programada para el primer turno de mañana."

// ConfirmDialogModel renders the validation dialog for one order attempt.
type ConfirmDialogModel struct {
	theme    themes.Theme
	snap     order.Snapshot
	progress progress.Model
	spinner  spinner.Model
	width    int
	height   int
}

// NewConfirmDialogModel creates a dialog.
func NewConfirmDialogModel(theme themes.Theme) ConfirmDialogModel {
	prog := progress.New(progress.WithDefaultGradient())
	prog.ShowPercentage = false
	prog.Width = 40

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(theme.Primary)

	return ConfirmDialogModel{
		theme:    theme,
		progress: prog,
		spinner:  s,
	}
}

// Init returns initial commands.
func (m ConfirmDialogModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages.
func (m ConfirmDialogModel) Update(msg tea.Msg) (ConfirmDialogModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		m.Resize(msg.Width, msg.Height)
	}
	return m, nil
}

// SetSnapshot replaces the state the dialog renders.
func (m *ConfirmDialogModel) SetSnapshot(s order.Snapshot) {
	m.snap = s
}

// IsComplete returns whether validation has finished and the order can be sent.
func (m ConfirmDialogModel) IsComplete() bool {
	return m.snap.CanConfirm()
}

// Resize updates the component size.
func (m *ConfirmDialogModel) Resize(width, height int) {
	m.width = width
	m.height = height
	m.progress.Width = min(max(width-12, 10), 40)
}

// View renders the dialog.
func (m ConfirmDialogModel) View() string {
	muted := lipgloss.NewStyle().Foreground(m.theme.Muted)

	sections := []string{
		m.renderHeader(),
		m.progress.ViewAs(float64(m.snap.Checkpoint.Progress) / 100),
		m.theme.StatusInfo.Render(strings.ToUpper(m.snap.Checkpoint.Label)),
		"",
		fmt.Sprintf("%s %s", muted.Render("Llevas:"), m.theme.Italic.Render(fmt.Sprintf("%q", m.snap.Bundle.Title))),
		fmt.Sprintf("%s %s", muted.Render("Para enviar a:"), m.theme.Bold.Render(m.snap.Zone)),
		"",
		fmt.Sprintf("%s %s", muted.Render("Compromiso de entrega:"), m.theme.StatusWarning.Render(strings.ToUpper(m.snap.Commitment()))),
		fmt.Sprintf("%s %s", muted.Render("Llegada estimada:"), m.theme.Bold.Render(m.snap.Estimate.ETA)),
		muted.Render(fmt.Sprintf("%d pedidos recientes en tu zona", m.snap.Estimate.RecentCount)),
		"",
		muted.Render("¿Cómo quieres pagar?"),
		m.renderPayment(),
		"",
		m.renderUpsell(),
	}

	if !m.snap.Open {
		sections = append(sections, "", m.theme.StatusWarning.Render("🕒 "+ClosedNotice))
	}

	sections = append(sections, "", m.renderButton(), "",
		muted.Render("[←→] Pago | [Enter] Solicitar | [Esc] Cerrar"))

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		m.theme.RoundedBox.Render(content),
	)
}

func (m ConfirmDialogModel) renderHeader() string {
	title := m.theme.Title.Render("🤝 PEDIDO SEGURO")
	reserve := m.theme.StatusWarning.Render("RESERVA: " + m.snap.ReservationClock())
	return lipgloss.JoinHorizontal(lipgloss.Top, title, "   ", reserve)
}

func (m ConfirmDialogModel) renderPayment() string {
	options := make([]string, 0, len(model.PaymentMethods))
	for _, p := range model.PaymentMethods {
		label := strings.ToUpper(p.Label())
		if p == m.snap.Payment {
			options = append(options, m.theme.Button.Render(label))
			continue
		}
		options = append(options, m.theme.ButtonOff.Render(label))
	}
	return strings.Join(options, " ")
}

func (m ConfirmDialogModel) renderUpsell() string {
	text := m.snap.Upsell()
	if m.snap.Bundle.ID == "asado" {
		return m.theme.StatusWarning.Render("⚡ " + text)
	}
	return m.theme.StatusSuccess.Render("✓ " + text)
}

func (m ConfirmDialogModel) renderButton() string {
	switch {
	case m.snap.Status == model.StatusCalculating:
		return m.spinner.View() + " " + m.theme.StatusPending.Render(m.snap.ButtonLabel())
	case m.snap.CanConfirm():
		return m.theme.Button.Background(m.theme.Success).Render("💬 " + m.snap.ConfirmLabel())
	default:
		return m.spinner.View() + " " + m.theme.ButtonOff.Render(m.snap.ConfirmLabel())
	}
}
