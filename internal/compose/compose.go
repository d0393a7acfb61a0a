// Package compose builds the pre-filled WhatsApp message and deep link for an
// order.
package compose

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/la-lenera/internal/model"
)

// BaseURL is the WhatsApp click-to-chat endpoint.
const BaseURL = "https://wa.me/"

// CoverageCheck replaces the sentinel zone in the message.
const CoverageCheck = "Verificar Cobertura"

// ClosedNote is appended to the first sentence outside business hours.
const ClosedNote = " (para coordinar mañana a primera hora)"

// ErrInvalidPhone is returned for phone numbers that are not digits only.
var ErrInvalidPhone = errors.New("phone must contain digits only")

// Order is the input to composition. Zone must already be a valid stored
// neighborhood name.
type Order struct {
	Zone    string
	Payment model.PaymentMethod
	Bundle  model.Bundle
	Open    bool
}

// Message is the composed text and its deep link.
type Message struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// Composer renders orders for one destination phone.
type Composer struct {
	phone    string
	sentinel string
}

// New returns a composer for phone. sentinel is the "unknown neighborhood"
// entry that must be rendered as a coverage check.
func New(phone, sentinel string) (*Composer, error) {
	if err := ValidatePhone(phone); err != nil {
		return nil, err
	}
	return &Composer{phone: phone, sentinel: sentinel}, nil
}

// Phone returns the destination number.
func (c *Composer) Phone() string {
	return c.phone
}

// Compose renders o at now. now is read in its own location.
func (c *Composer) Compose(o Order, now time.Time) Message {
	text := c.Text(o, now)
	return Message{Text: text, URL: BaseURL + c.phone + "?text=" + EncodeURIComponent(text)}
}

// Text renders the message body only.
func (c *Composer) Text(o Order, now time.Time) string {
	zone := o.Zone
	if zone == c.sentinel {
		zone = CoverageCheck
	}
	note := ""
	if !o.Open {
		note = ClosedNote
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s, quisiera confirmar el pedido de *%s* que vi en la web.%s", Greeting(now), o.Bundle.Title, note)
	fmt.Fprintf(&b, "\n\nMe encuentro en el barrio *%s* y me gustaría pagar *%s*.", zone, o.Payment.Phrase())
	b.WriteString("\n\n¿Me confirman si tienen disponibilidad para enviármelo? ¡Gracias!")
	return b.String()
}

// Greeting returns the salutation for the hour of now.
func Greeting(now time.Time) string {
	switch h := now.Hour(); {
	case h < 12:
		return "Buenos días"
	case h < 18:
		return "Buenas tardes"
	default:
		return "Buenas noches"
	}
}

// ValidatePhone checks that phone is a non-empty run of ASCII digits.
func ValidatePhone(phone string) error {
	if phone == "" {
		return fmt.Errorf("%w: empty", ErrInvalidPhone)
	}
	for _, r := range phone {
		if r < '0' || r > '9' {
			return fmt.Errorf("%w: %q", ErrInvalidPhone, phone)
		}
	}
	return nil
}
