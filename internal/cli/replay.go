package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/schollz/progressbar/v3"

	"github.com/Veraticus/la-lenera/internal/sequencer"
)

// ReplayValidation runs seq and mirrors each checkpoint on a progress bar.
// It returns once the final checkpoint arrives or ctx is done, in which case
// the run is canceled.
func ReplayValidation(ctx context.Context, w io.Writer, seq *sequencer.Sequencer) error {
	bar := progressbar.NewOptions(100,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription(describe(sequencer.Initial)),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[yellow]=[reset]",
			SaucerHead:    "[yellow]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(w); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)

	steps := make(chan sequencer.Checkpoint, len(seq.Script()))
	if err := seq.Start(func(cp sequencer.Checkpoint) { steps <- cp }); err != nil {
		return fmt.Errorf("start validation: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			seq.Cancel()
			return ctx.Err()
		case cp := <-steps:
			bar.Describe(describe(cp))
			if err := bar.Set(cp.Progress); err != nil {
				slog.Warn("Failed to update progress bar", "error", err)
			}
			if cp.Progress >= 100 {
				return nil
			}
		}
	}
}

func describe(cp sequencer.Checkpoint) string {
	return fmt.Sprintf("[cyan][bold]%-28s[reset]", cp.Label)
}
