package order

import (
	"fmt"

	"github.com/Veraticus/la-lenera/internal/compose"
	"github.com/Veraticus/la-lenera/internal/hours"
	"github.com/Veraticus/la-lenera/internal/model"
	"github.com/Veraticus/la-lenera/internal/sequencer"
)

// Snapshot is a copy of the controller state. Version increases with every
// change so observers can drop out-of-order deliveries.
type Snapshot struct {
	AttemptID   string
	Zone        string
	Payment     model.PaymentMethod
	Message     compose.Message
	Estimate    Estimate
	Checkpoint  sequencer.Checkpoint
	Suggestions []string
	Bundle      model.Bundle
	Version     uint64
	Status      model.OrderStatus
	Cooldown    int
	Reservation int
	Open        bool
	ZoneValid   bool
	DialogOpen  bool
}

// CanSubmit reports whether the primary button is enabled.
func (s Snapshot) CanSubmit() bool {
	return s.ZoneValid && s.Status == model.StatusIdle
}

// CanConfirm reports whether the dialog's send button is enabled.
func (s Snapshot) CanConfirm() bool {
	return s.DialogOpen && s.Status == model.StatusValidating && s.Checkpoint.Progress >= 100
}

// ButtonLabel is the caption of the primary button.
func (s Snapshot) ButtonLabel() string {
	switch s.Status {
	case model.StatusCalculating:
		return "ASISTENTE ANALIZANDO..."
	case model.StatusCooldown:
		return fmt.Sprintf("REINTENTO EN %ds", s.Cooldown)
	default:
		return "PREPARAR PEDIDO"
	}
}

// ConfirmLabel is the caption of the dialog's send button.
func (s Snapshot) ConfirmLabel() string {
	if s.Checkpoint.Progress < 100 {
		return "VALIDANDO PEDIDO..."
	}
	return "SOLICITAR DESPACHO"
}

// Commitment is the dispatch promise for the current status.
func (s Snapshot) Commitment() string {
	return hours.DeliveryCommitment(s.Open)
}

// StatusLabel is the open/closed badge.
func (s Snapshot) StatusLabel() string {
	return hours.StatusLabel(s.Open)
}

// Upsell is the hint for the selected bundle.
func (s Snapshot) Upsell() string {
	return Upsell(s.Bundle.ID)
}

// ReservationClock renders the reservation countdown as m:ss.
func (s Snapshot) ReservationClock() string {
	return FormatClock(s.Reservation)
}

// FormatClock renders seconds as m:ss.
func FormatClock(secs int) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
