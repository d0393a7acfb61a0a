package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/la-lenera/internal/model"
	"github.com/Veraticus/la-lenera/internal/order"
	"github.com/Veraticus/la-lenera/internal/tui/themes"
	"github.com/charmbracelet/lipgloss"
)

// renderFullView renders the boxed form for regular terminals.
func (m Model) renderFullView() string {
	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		m.theme.RoundedBox.Render(m.renderForm()),
	)
}

// renderCompactView renders the form without decoration for narrow terminals.
func (m Model) renderCompactView() string {
	return m.renderForm()
}

func (m Model) renderForm() string {
	sections := []string{
		m.renderHeader(),
		m.renderBundles(),
		"",
		m.sectionLabel(FieldZone, "¿A qué barrio lo enviamos?"),
		m.zoneInput.View(),
		"",
		m.renderPayment(),
		"",
		m.renderButton(),
	}

	if m.lastError != nil {
		sections = append(sections, m.theme.StatusError.Render(errorText(m.lastError)))
	}

	if m.config.ShowTestimonials && m.testimonial != nil {
		sections = append(sections, "", m.renderTestimonial())
	}

	if m.config.ShowHelp {
		sections = append(sections, "", m.help.View(m.keymap))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderHeader renders the title, city and open/closed badge.
func (m Model) renderHeader() string {
	title := m.theme.Title.Render("🔥 LA LEÑERA")

	badge := m.theme.StatusError
	if m.snap.Open {
		badge = m.theme.StatusSuccess
	}
	status := badge.Render("● " + strings.ToUpper(m.snap.StatusLabel()))

	city := lipgloss.NewStyle().Foreground(m.theme.Muted).Render("📍 " + strings.ToUpper(m.city))

	return lipgloss.JoinVertical(lipgloss.Left, title, city+"  "+status, "")
}

// renderBundles renders the bundle picker.
func (m Model) renderBundles() string {
	lines := make([]string, 0, len(m.bundles)+1)
	lines = append(lines, m.sectionLabel(FieldBundle, "Elige tu pedido"))

	for _, b := range m.bundles {
		selected := b.ID == m.snap.Bundle.ID

		radio := "○"
		if selected {
			radio = lipgloss.NewStyle().Foreground(m.theme.Primary).Render("●")
		}

		title := lipgloss.NewStyle().Foreground(m.theme.Muted).Render(b.Title)
		if selected {
			title = m.theme.Bold.Render(b.Title)
		}

		line := fmt.Sprintf("%s %s %s  %s",
			radio,
			m.theme.BundleIcon.Render(themes.GetBundleIcon(b.IconID)),
			title,
			lipgloss.NewStyle().Foreground(m.theme.Muted).Render(b.Subtitle),
		)
		if b.Popular {
			line += " " + m.theme.StatusWarning.Render("POPULAR")
		}
		if selected && m.focus == FieldBundle {
			line = m.theme.Selected.Render(line)
		}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

// renderPayment renders the payment toggle.
func (m Model) renderPayment() string {
	options := make([]string, 0, len(model.PaymentMethods))
	for _, p := range model.PaymentMethods {
		label := strings.ToUpper(p.Label())
		if p == m.snap.Payment {
			options = append(options, m.theme.Button.Render(label))
			continue
		}
		options = append(options, m.theme.ButtonOff.Render(label))
	}
	return m.sectionLabel(FieldPayment, "Pago") + " " + strings.Join(options, " ")
}

// renderButton renders the primary action with its state caption.
func (m Model) renderButton() string {
	label := "💬 " + m.snap.ButtonLabel()
	if m.snap.CanSubmit() {
		return m.theme.Button.Render(label)
	}
	return m.theme.ButtonOff.Render(label)
}

// renderTestimonial renders the current testimonial.
func (m Model) renderTestimonial() string {
	t := m.testimonial
	quote := m.theme.Italic.Render(fmt.Sprintf("“%s”", t.Text))
	author := lipgloss.NewStyle().Foreground(m.theme.Muted).
		Render(fmt.Sprintf("%s · %s", t.Author, t.Location))
	return lipgloss.JoinVertical(lipgloss.Left, quote, author)
}

// renderHelp renders the full key reference.
func (m Model) renderHelp() string {
	full := m.help
	full.ShowAll = true

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		m.theme.Title.Render("Atajos"),
		full.View(m.keymap),
		"",
		lipgloss.NewStyle().Foreground(m.theme.Muted).Render("Pulsa ? o Esc para volver"),
	)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		m.theme.BorderedBox.Render(content),
	)
}

func (m Model) sectionLabel(f Field, text string) string {
	style := lipgloss.NewStyle().Foreground(m.theme.Muted)
	if m.focus == f && m.state == StateForm {
		style = lipgloss.NewStyle().Foreground(m.theme.Primary).Bold(true)
	}
	return style.Render(strings.ToUpper(text))
}

// errorText turns controller errors into short notices for the customer.
func errorText(err error) string {
	switch {
	case errors.Is(err, order.ErrInvalidZone):
		return "Elige un barrio de la lista."
	case errors.Is(err, order.ErrCoolingDown):
		return "Espera un momento antes de intentar de nuevo."
	case errors.Is(err, order.ErrBusy):
		return "Ya hay un pedido en curso."
	case errors.Is(err, order.ErrNotValidated):
		return "Aún estamos validando tu pedido."
	default:
		return err.Error()
	}
}
