// Package hours answers whether the business is open, evaluated in the
// business timezone rather than the viewer's.
package hours

import (
	"errors"
	"fmt"
	"time"
	_ "time/tzdata" // timezone database for hosts without one

	"github.com/Veraticus/la-lenera/internal/clock"
	"github.com/Veraticus/la-lenera/internal/model"
)

// PollInterval is how often the flow re-evaluates the open status.
const PollInterval = time.Minute

// ErrInvalidRange is returned for hour ranges outside [0,24] or empty ranges.
var ErrInvalidRange = errors.New("invalid opening hours")

// Gate evaluates the half-open range [open, close) in a named timezone.
type Gate struct {
	loc   *time.Location
	open  int
	close int
}

// New resolves tzName and returns a gate for [openHour, closeHour).
func New(openHour, closeHour int, tzName string) (*Gate, error) {
	if openHour < 0 || closeHour > 24 || openHour >= closeHour {
		return nil, fmt.Errorf("%w: %d-%d", ErrInvalidRange, openHour, closeHour)
	}
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", tzName, err)
	}
	return &Gate{loc: loc, open: openHour, close: closeHour}, nil
}

// FromSchedule builds a gate from catalog schedule data.
func FromSchedule(s model.Schedule) (*Gate, error) {
	return New(s.OpenHour, s.CloseHour, s.Timezone)
}

// IsOpen reports whether now falls inside business hours.
func (g *Gate) IsOpen(now time.Time) bool {
	h := now.In(g.loc).Hour()
	return h >= g.open && h < g.close
}

// Location returns the business timezone.
func (g *Gate) Location() *time.Location {
	return g.loc
}

// Poll evaluates the gate every interval and calls onChange with each result.
// The caller stops the returned timer.
func (g *Gate) Poll(sched clock.Scheduler, interval time.Duration, onChange func(open bool)) clock.Timer {
	return sched.Every(interval, func() {
		onChange(g.IsOpen(sched.Now()))
	})
}

// DeliveryCommitment is the dispatch promise shown for the current status.
func DeliveryCommitment(open bool) string {
	if open {
		return "Despacho Hoy"
	}
	return "Primer Turno"
}

// StatusLabel is the badge text for the current status.
func StatusLabel(open bool) string {
	if open {
		return "Abierto Ahora"
	}
	return "Cerrado"
}
