package tui

import (
	"github.com/Veraticus/la-lenera/internal/model"
	"github.com/Veraticus/la-lenera/internal/order"
)

// snapshotMsg carries controller state produced by a timer.
type snapshotMsg struct {
	snap order.Snapshot
}

// testimonialMsg rotates the testimonial strip.
type testimonialMsg struct {
	testimonial model.Testimonial
}

// errorMsg reports a failure from outside the update loop.
type errorMsg struct {
	err error
}
