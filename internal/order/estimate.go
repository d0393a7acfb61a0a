package order

import (
	"fmt"
	"math/rand/v2"
)

// Estimate is the dispatch window and social proof shown in the dialog.
type Estimate struct {
	ETA         string `json:"eta"`
	RecentCount int    `json:"recent_count"`
}

// Fixed estimate for the "unknown neighborhood" entry.
const (
	UnknownZoneETA   = "Sujeto a zona"
	UnknownZoneCount = 12
)

// NewEstimate draws a dispatch window of min-(min+15) minutes with min in
// [25,40] and a recent-order count in [3,8].
func NewEstimate(rng *rand.Rand, unknownZone bool) Estimate {
	if unknownZone {
		return Estimate{ETA: UnknownZoneETA, RecentCount: UnknownZoneCount}
	}
	lo := 25 + rng.IntN(16)
	return Estimate{
		ETA:         fmt.Sprintf("%d-%d min", lo, lo+15),
		RecentCount: 3 + rng.IntN(6),
	}
}

// Upsell returns the hint shown below the order summary.
func Upsell(bundleID string) string {
	if bundleID == "asado" {
		return "Subiendo a Medio Viaje obtienes ENVÍO PRIORITARIO."
	}
	return "BONUS ACTIVO: Pack de astillas de inicio incluido."
}
