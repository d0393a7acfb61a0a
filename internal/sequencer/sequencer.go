// Package sequencer emits the scripted validation checkpoints shown while an
// order is being "checked". The script is cosmetic and always succeeds.
package sequencer

import (
	"errors"
	"sync"
	"time"

	"github.com/Veraticus/la-lenera/internal/clock"
)

// Interval is the delay between consecutive checkpoints.
const Interval = 800 * time.Millisecond

// Sequencer errors.
var (
	ErrRunning     = errors.New("validation sequence already running")
	ErrEmptyScript = errors.New("validation script has no checkpoints")
)

// Checkpoint is one step of the validation script.
type Checkpoint struct {
	Label    string `json:"label"`
	Progress int    `json:"progress"`
}

// Initial is the checkpoint before the first step.
var Initial = Checkpoint{Progress: 0, Label: "Iniciando..."}

// DefaultCheckpoints is the validation script. Progress strictly increases and
// ends at 100.
var DefaultCheckpoints = []Checkpoint{
	{Progress: 15, Label: "Analizando pedido..."},
	{Progress: 35, Label: "Verificando stock..."},
	{Progress: 60, Label: "Asignando ruta de envío..."},
	{Progress: 85, Label: "Aplicando bonus exclusivo..."},
	{Progress: 100, Label: "Pedido Validado 100%"},
}

// Sequencer walks the checkpoint list on a scheduler. It is safe for
// concurrent use; onStep is called without internal locks held.
type Sequencer struct {
	sched   clock.Scheduler
	timer   clock.Timer
	steps   []Checkpoint
	current Checkpoint
	next    int
	gen     uint64
	mu      sync.Mutex
	running bool
}

// New returns a sequencer over DefaultCheckpoints.
func New(sched clock.Scheduler) *Sequencer {
	return NewWithSteps(sched, DefaultCheckpoints)
}

// NewWithSteps returns a sequencer over a custom script.
func NewWithSteps(sched clock.Scheduler, steps []Checkpoint) *Sequencer {
	return &Sequencer{sched: sched, steps: steps, current: Initial}
}

// Start begins a run from the first checkpoint. onStep receives every
// checkpoint in order; the run ends after the last one.
func (s *Sequencer) Start(onStep func(Checkpoint)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrRunning
	}
	if len(s.steps) == 0 {
		return ErrEmptyScript
	}
	s.gen++
	s.running = true
	s.next = 0
	s.current = Initial
	s.arm(s.gen, onStep)
	return nil
}

// arm schedules the next checkpoint. Callers hold s.mu.
func (s *Sequencer) arm(gen uint64, onStep func(Checkpoint)) {
	s.timer = s.sched.AfterFunc(Interval, func() { s.fire(gen, onStep) })
}

func (s *Sequencer) fire(gen uint64, onStep func(Checkpoint)) {
	s.mu.Lock()
	if gen != s.gen || !s.running {
		s.mu.Unlock()
		return
	}
	cp := s.steps[s.next]
	s.current = cp
	s.next++
	if s.next < len(s.steps) {
		s.arm(gen, onStep)
	} else {
		s.running = false
		s.timer = nil
	}
	s.mu.Unlock()

	if onStep != nil {
		onStep(cp)
	}
}

// Cancel stops the run and resets to the initial checkpoint.
func (s *Sequencer) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.running = false
	s.next = 0
	s.current = Initial
}

// Current returns the last emitted checkpoint.
func (s *Sequencer) Current() Checkpoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Complete reports whether the final checkpoint has been emitted.
func (s *Sequencer) Complete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.steps) > 0 && s.current == s.steps[len(s.steps)-1]
}

// Running reports whether a run is in progress.
func (s *Sequencer) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Script returns the checkpoints for clients that replay the sequence
// themselves.
func (s *Sequencer) Script() []Checkpoint {
	out := make([]Checkpoint, len(s.steps))
	copy(out, s.steps)
	return out
}

// Duration is how long a full run takes.
func (s *Sequencer) Duration() time.Duration {
	return time.Duration(len(s.steps)) * Interval
}

// At returns the checkpoint a run started elapsed ago would be showing.
func (s *Sequencer) At(elapsed time.Duration) Checkpoint {
	n := int(elapsed / Interval)
	switch {
	case elapsed < 0, n == 0, len(s.steps) == 0:
		return Initial
	case n >= len(s.steps):
		return s.steps[len(s.steps)-1]
	default:
		return s.steps[n-1]
	}
}
