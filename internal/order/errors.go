package order

import "errors"

// Controller errors. Callers treat them as disabled affordances rather than
// failures to report.
var (
	ErrInvalidZone   = errors.New("zone is not in the delivery list")
	ErrBusy          = errors.New("an order attempt is already in progress")
	ErrCoolingDown   = errors.New("order submission is cooling down")
	ErrNotValidated  = errors.New("validation has not finished")
	ErrNoDialog      = errors.New("no confirmation dialog is open")
	ErrUnknownBundle = errors.New("unknown bundle")
	ErrClosed        = errors.New("controller closed")
)
