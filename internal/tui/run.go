package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"sync"
	"time"

	"github.com/Veraticus/la-lenera/internal/model"
	"github.com/Veraticus/la-lenera/internal/order"
	"github.com/Veraticus/la-lenera/internal/testimonials"
	tea "github.com/charmbracelet/bubbletea"
)

// RunConfig holds the configuration for running the order flow with the TUI.
type RunConfig struct {
	Input             io.Reader
	Output            io.Writer
	Logger            *slog.Logger
	Deps              order.Deps
	Options           []Option
	ControllerOptions []order.Option
}

// Run drives one visitor's order flow in the terminal until the user quits
// or ctx is cancelled.
func Run(ctx context.Context, cfg RunConfig) error {
	if cfg.Deps.Catalog == nil {
		return fmt.Errorf("catalog is required")
	}
	if cfg.Deps.Scheduler == nil {
		return fmt.Errorf("scheduler is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pump := newSnapshotPump()
	ctrlOpts := append([]order.Option{
		order.WithLogger(logger),
		order.WithObserver(pump.Offer),
	}, cfg.ControllerOptions...)

	ctrl, err := order.New(cfg.Deps, ctrlOpts...)
	if err != nil {
		return fmt.Errorf("failed to create order controller: %w", err)
	}
	defer ctrl.Close()

	rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	carousel := testimonials.New(cfg.Deps.Catalog.Testimonials, rng)
	defer carousel.Stop()

	opts := append([]Option{WithCarousel(carousel)}, cfg.Options...)
	m := NewModel(ctrl, cfg.Deps.Catalog, opts...)

	progOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if cfg.Input != nil {
		progOpts = append(progOpts, tea.WithInput(cfg.Input))
	}
	if cfg.Output != nil {
		progOpts = append(progOpts, tea.WithOutput(cfg.Output))
	}
	p := tea.NewProgram(m, progOpts...)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		pump.Run(ctx, func(s order.Snapshot) { p.Send(snapshotMsg{snap: s}) })
	}()
	defer func() {
		cancel()
		wg.Wait()
	}()

	carousel.Start(cfg.Deps.Scheduler, func(t model.Testimonial) {
		p.Send(testimonialMsg{testimonial: t})
	})

	if err := ctrl.Start(ctx); err != nil {
		return fmt.Errorf("failed to start order controller: %w", err)
	}

	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) {
			cleanupTerminal()
			if ctx.Err() != nil {
				return ctx.Err()
			}
		}
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// cleanupTerminal restores the terminal after the program was killed.
func cleanupTerminal() {
	// Ignore errors as this is best-effort cleanup
	_, _ = os.Stdout.Write([]byte("\033[?1049l")) // Exit alternate screen
	_, _ = os.Stdout.Write([]byte("\033[?25h"))   // Show cursor
	_, _ = os.Stdout.Write([]byte("\033[m"))      // Reset colors
}

// snapshotPump hands controller snapshots to the program without blocking
// the controller. Only the newest pending snapshot is kept.
type snapshotPump struct {
	ready   chan struct{}
	latest  order.Snapshot
	mu      sync.Mutex
	pending bool
}

func newSnapshotPump() *snapshotPump {
	return &snapshotPump{ready: make(chan struct{}, 1)}
}

// Offer records s when it is newer than the pending snapshot.
func (p *snapshotPump) Offer(s order.Snapshot) {
	p.mu.Lock()
	if !p.pending || s.Version >= p.latest.Version {
		p.latest = s
		p.pending = true
	}
	p.mu.Unlock()

	select {
	case p.ready <- struct{}{}:
	default:
	}
}

// Run delivers pending snapshots until ctx is done.
func (p *snapshotPump) Run(ctx context.Context, deliver func(order.Snapshot)) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.ready:
		}

		p.mu.Lock()
		s, ok := p.latest, p.pending
		p.pending = false
		p.mu.Unlock()

		if ok {
			deliver(s)
		}
	}
}
