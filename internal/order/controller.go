// Package order implements the order flow state machine:
// idle → validating → calculating → cooldown → idle.
//
// All timers run through a clock.Scheduler. State is guarded by one mutex and
// observers are called after it is released. Every state entry bumps an epoch
// so callbacks from a previous state are discarded even when their timer could
// not be stopped in time.
package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/la-lenera/internal/catalog"
	"github.com/Veraticus/la-lenera/internal/clock"
	"github.com/Veraticus/la-lenera/internal/compose"
	"github.com/Veraticus/la-lenera/internal/cooldown"
	"github.com/Veraticus/la-lenera/internal/hours"
	"github.com/Veraticus/la-lenera/internal/model"
	"github.com/Veraticus/la-lenera/internal/sequencer"
	"github.com/Veraticus/la-lenera/internal/zone"
)

// Flow timings.
const (
	ProcessingDelay    = time.Second
	ReservationSeconds = 300
	tick               = time.Second
)

// Deps are the collaborators a Controller needs. All are required.
type Deps struct {
	Catalog   *catalog.Catalog
	Matcher   *zone.Matcher
	Hours     *hours.Gate
	Composer  *compose.Composer
	Cooldown  *cooldown.Gate
	Navigator Navigator
	Scheduler clock.Scheduler
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithObserver registers a callback invoked with every new snapshot.
func WithObserver(fn func(Snapshot)) Option {
	return func(c *Controller) { c.observer = fn }
}

// WithRand sets the source for dispatch estimates.
func WithRand(r *rand.Rand) Option {
	return func(c *Controller) { c.rng = r }
}

// WithCooldown overrides the catalog rate limit.
func WithCooldown(d time.Duration) Option {
	return func(c *Controller) { c.cooldownFor = d }
}

// WithProcessingDelay overrides the simulated processing delay.
func WithProcessingDelay(d time.Duration) Option {
	return func(c *Controller) { c.processingDelay = d }
}

// Controller owns the state of one visitor's order flow.
type Controller struct {
	ctx        context.Context
	catalog    *catalog.Catalog
	matcher    *zone.Matcher
	hours      *hours.Gate
	composer   *compose.Composer
	gate       *cooldown.Gate
	navigator  Navigator
	sched      clock.Scheduler
	logger     *slog.Logger
	observer   func(Snapshot)
	rng        *rand.Rand
	seq        *sequencer.Sequencer
	pollTimer  clock.Timer
	reserveTmr clock.Timer
	processTmr clock.Timer
	coolTmr    clock.Timer
	unlockAt   time.Time
	snap       Snapshot

	cooldownFor     time.Duration
	processingDelay time.Duration
	epoch           uint64
	mu              sync.Mutex
	started         bool
	closed          bool
}

// New builds a controller in the idle state with the popular bundle selected
// and cash payment.
func New(d Deps, opts ...Option) (*Controller, error) {
	if d.Catalog == nil || d.Matcher == nil || d.Hours == nil || d.Composer == nil ||
		d.Cooldown == nil || d.Navigator == nil || d.Scheduler == nil {
		return nil, errors.New("order: missing dependency")
	}

	c := &Controller{
		ctx:             context.Background(),
		catalog:         d.Catalog,
		matcher:         d.Matcher,
		hours:           d.Hours,
		composer:        d.Composer,
		gate:            d.Cooldown,
		navigator:       d.Navigator,
		sched:           d.Scheduler,
		logger:          slog.Default(),
		seq:             sequencer.New(d.Scheduler),
		cooldownFor:     d.Catalog.RateLimit(),
		processingDelay: ProcessingDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x9e3779b97f4a7c15))
	}

	c.snap = Snapshot{
		Bundle:      d.Catalog.DefaultBundle(),
		Payment:     model.PaymentCash,
		Suggestions: c.matcher.Suggest(""),
		Checkpoint:  sequencer.Initial,
		Status:      model.StatusIdle,
		Open:        c.hours.IsOpen(c.sched.Now()),
	}
	return c, nil
}

// Start restores a persisted cooldown and begins polling business hours.
// ctx is used for every later store access.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.started {
		c.mu.Unlock()
		return nil
	}
	c.started = true
	c.ctx = ctx

	now := c.sched.Now()
	c.snap.Open = c.hours.IsOpen(now)
	if unlock, ok := c.gate.Load(ctx); ok {
		if secs := cooldown.Seconds(unlock, now); secs > 0 {
			c.logger.Info("restored cooldown", "remaining_seconds", secs)
			c.enterCooldownLocked(unlock, secs)
		} else if err := c.gate.Clear(ctx); err != nil {
			c.logger.Warn("failed to clear expired cooldown", "error", err)
		}
	}
	c.pollTimer = c.hours.Poll(c.sched, hours.PollInterval, c.onHours)
	snap := c.changedLocked()
	c.mu.Unlock()

	c.notify(snap)
	return nil
}

// SelectBundle picks the bundle to order.
func (c *Controller) SelectBundle(id string) error {
	return c.update(func() error {
		if c.inFlightLocked() {
			return ErrBusy
		}
		b, ok := c.catalog.Bundle(id)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownBundle, id)
		}
		c.snap.Bundle = b
		return nil
	})
}

// SetZone records free-text zone input and refreshes suggestions and validity.
func (c *Controller) SetZone(text string) error {
	return c.update(func() error {
		if c.inFlightLocked() {
			return ErrBusy
		}
		c.snap.Zone = text
		c.snap.Suggestions = c.matcher.Suggest(text)
		c.snap.ZoneValid = c.matcher.IsValid(text)
		return nil
	})
}

// ChooseSuggestion sets the zone to a listed neighborhood.
func (c *Controller) ChooseSuggestion(s string) error {
	return c.update(func() error {
		if c.inFlightLocked() {
			return ErrBusy
		}
		canonical, ok := c.matcher.Resolve(s)
		if !ok {
			return fmt.Errorf("%w: %q", ErrInvalidZone, s)
		}
		c.snap.Zone = canonical
		c.snap.Suggestions = c.matcher.Suggest(canonical)
		c.snap.ZoneValid = true
		return nil
	})
}

// SetPayment picks the payment method. It stays editable inside the dialog.
func (c *Controller) SetPayment(p model.PaymentMethod) error {
	return c.update(func() error {
		if c.snap.Status == model.StatusCalculating {
			return ErrBusy
		}
		c.snap.Payment = p
		return nil
	})
}

// Submit opens the confirmation dialog and starts validation.
func (c *Controller) Submit() error {
	return c.update(func() error {
		switch c.snap.Status {
		case model.StatusCooldown:
			return ErrCoolingDown
		case model.StatusValidating, model.StatusCalculating:
			return ErrBusy
		}
		canonical, ok := c.matcher.Resolve(c.snap.Zone)
		if !ok {
			return ErrInvalidZone
		}

		gen := c.bumpLocked()
		c.snap.Zone = canonical
		c.snap.AttemptID = uuid.NewString()
		c.snap.Status = model.StatusValidating
		c.snap.DialogOpen = true
		c.snap.Reservation = ReservationSeconds
		c.snap.Checkpoint = sequencer.Initial
		c.snap.Estimate = NewEstimate(c.rng, c.matcher.IsSentinel(canonical))
		c.snap.Message = compose.Message{}

		c.seq.Cancel()
		if err := c.seq.Start(func(cp sequencer.Checkpoint) { c.onCheckpoint(gen, cp) }); err != nil {
			c.resetDialogLocked()
			return fmt.Errorf("start validation: %w", err)
		}
		c.reserveTmr = c.sched.Every(tick, func() { c.onReservationTick(gen) })

		c.logger.Info("order attempt started",
			"attempt_id", c.snap.AttemptID,
			"bundle", c.snap.Bundle.ID,
			"zone", canonical,
			"open", c.snap.Open)
		return nil
	})
}

// Dismiss closes the dialog and returns to idle. A pending simulated
// processing step is abandoned.
func (c *Controller) Dismiss() error {
	return c.update(func() error {
		if !c.snap.DialogOpen {
			return ErrNoDialog
		}
		c.bumpLocked()
		c.logger.Info("order attempt dismissed",
			"attempt_id", c.snap.AttemptID,
			"progress", c.snap.Checkpoint.Progress)
		c.resetDialogLocked()
		return nil
	})
}

// Confirm starts the simulated processing step. It requires a finished
// validation run.
func (c *Controller) Confirm() error {
	return c.update(func() error {
		if !c.snap.DialogOpen {
			return ErrNoDialog
		}
		if c.snap.Status != model.StatusValidating {
			return ErrBusy
		}
		if !c.seq.Complete() {
			return ErrNotValidated
		}
		gen := c.epoch
		c.snap.Status = model.StatusCalculating
		c.processTmr = c.sched.AfterFunc(c.processingDelay, func() { c.finish(gen) })
		c.logger.Debug("order confirmed", "attempt_id", c.snap.AttemptID)
		return nil
	})
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copyLocked()
}

// Close cancels every timer. The controller rejects further calls.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.epoch++
	c.seq.Cancel()
	clock.StopAll(c.pollTimer, c.reserveTmr, c.processTmr, c.coolTmr)
	c.pollTimer, c.reserveTmr, c.processTmr, c.coolTmr = nil, nil, nil, nil
}

// update runs fn under the lock and publishes a snapshot when it succeeds.
func (c *Controller) update(fn func() error) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if err := fn(); err != nil {
		c.mu.Unlock()
		return err
	}
	snap := c.changedLocked()
	c.mu.Unlock()

	c.notify(snap)
	return nil
}

func (c *Controller) finish(gen uint64) {
	c.mu.Lock()
	if c.closed || gen != c.epoch || c.snap.Status != model.StatusCalculating {
		c.mu.Unlock()
		return
	}
	c.processTmr = nil

	now := c.sched.Now()
	msg := c.composer.Compose(compose.Order{
		Bundle:  c.snap.Bundle,
		Zone:    c.snap.Zone,
		Payment: c.snap.Payment,
		Open:    c.snap.Open,
	}, now)

	ctx, attemptID := c.ctx, c.snap.AttemptID
	if err := c.gate.Arm(ctx, now, c.cooldownFor); err != nil {
		c.logger.Warn("failed to persist cooldown", "attempt_id", attemptID, "error", err)
	}

	c.resetDialogLocked()
	c.snap.Message = msg
	c.enterCooldownLocked(now.Add(c.cooldownFor), cooldown.Seconds(now.Add(c.cooldownFor), now))
	snap := c.changedLocked()
	c.mu.Unlock()

	c.logger.Info("order composed", "attempt_id", attemptID, "url_length", len(msg.URL))
	if err := c.navigator.Open(ctx, msg.URL); err != nil {
		c.logger.Warn("failed to open deep link", "attempt_id", attemptID, "error", err)
	}
	c.notify(snap)
}

func (c *Controller) onCheckpoint(gen uint64, cp sequencer.Checkpoint) {
	c.mu.Lock()
	if c.closed || gen != c.epoch || c.snap.Status != model.StatusValidating {
		c.mu.Unlock()
		return
	}
	c.snap.Checkpoint = cp
	snap := c.changedLocked()
	c.mu.Unlock()

	c.notify(snap)
}

func (c *Controller) onReservationTick(gen uint64) {
	c.mu.Lock()
	if c.closed || gen != c.epoch || !c.snap.DialogOpen {
		c.mu.Unlock()
		return
	}
	c.snap.Reservation--
	if c.snap.Reservation <= 0 {
		// Display only: expiry does not change the flow.
		c.snap.Reservation = 0
		clock.StopAll(c.reserveTmr)
		c.reserveTmr = nil
	}
	snap := c.changedLocked()
	c.mu.Unlock()

	c.notify(snap)
}

func (c *Controller) onCooldownTick(gen uint64) {
	c.mu.Lock()
	if c.closed || gen != c.epoch || c.snap.Status != model.StatusCooldown {
		c.mu.Unlock()
		return
	}
	if secs := cooldown.Seconds(c.unlockAt, c.sched.Now()); secs > 0 {
		c.snap.Cooldown = secs
	} else {
		clock.StopAll(c.coolTmr)
		c.coolTmr = nil
		if err := c.gate.Clear(c.ctx); err != nil {
			c.logger.Warn("failed to clear cooldown", "error", err)
		}
		c.bumpLocked()
		c.snap.Cooldown = 0
		c.snap.Status = model.StatusIdle
		c.logger.Debug("cooldown elapsed")
	}
	snap := c.changedLocked()
	c.mu.Unlock()

	c.notify(snap)
}

func (c *Controller) onHours(open bool) {
	c.mu.Lock()
	if c.closed || c.snap.Open == open {
		c.mu.Unlock()
		return
	}
	c.snap.Open = open
	snap := c.changedLocked()
	c.mu.Unlock()

	c.logger.Info("business hours changed", "open", open)
	c.notify(snap)
}

func (c *Controller) enterCooldownLocked(unlock time.Time, secs int) {
	gen := c.bumpLocked()
	c.unlockAt = unlock
	c.snap.Status = model.StatusCooldown
	c.snap.Cooldown = secs
	c.coolTmr = c.sched.Every(tick, func() { c.onCooldownTick(gen) })
}

// resetDialogLocked closes the dialog and stops its timers.
func (c *Controller) resetDialogLocked() {
	c.seq.Cancel()
	clock.StopAll(c.reserveTmr, c.processTmr)
	c.reserveTmr, c.processTmr = nil, nil
	c.snap.Status = model.StatusIdle
	c.snap.DialogOpen = false
	c.snap.Reservation = 0
	c.snap.Checkpoint = sequencer.Initial
}

func (c *Controller) inFlightLocked() bool {
	return c.snap.Status == model.StatusValidating || c.snap.Status == model.StatusCalculating
}

func (c *Controller) bumpLocked() uint64 {
	c.epoch++
	return c.epoch
}

func (c *Controller) changedLocked() Snapshot {
	c.snap.Version++
	return c.copyLocked()
}

func (c *Controller) copyLocked() Snapshot {
	s := c.snap
	s.Suggestions = append([]string(nil), c.snap.Suggestions...)
	return s
}

func (c *Controller) notify(s Snapshot) {
	if c.observer != nil {
		c.observer(s)
	}
}
