package model

import "fmt"

// PaymentMethod is the customer's payment preference for one order attempt.
type PaymentMethod string

// Payment method constants.
const (
	PaymentCash   PaymentMethod = "efectivo"
	PaymentWallet PaymentMethod = "nequi"
)

// PaymentMethods lists the selectable methods in display order.
var PaymentMethods = []PaymentMethod{PaymentCash, PaymentWallet}

// Label returns the short display label.
func (p PaymentMethod) Label() string {
	switch p {
	case PaymentWallet:
		return "Nequi"
	default:
		return "Efectivo"
	}
}

// Phrase returns the phrase used inside the order message.
func (p PaymentMethod) Phrase() string {
	switch p {
	case PaymentWallet:
		return "por Nequi"
	default:
		return "en efectivo"
	}
}

// ParsePaymentMethod accepts the canonical values plus a few aliases.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch s {
	case "", "efectivo", "cash":
		return PaymentCash, nil
	case "nequi", "wallet", "mobile-wallet":
		return PaymentWallet, nil
	}
	return "", fmt.Errorf("unknown payment method %q", s)
}
