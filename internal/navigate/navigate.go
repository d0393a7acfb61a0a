// Package navigate hands deep links to the user: by opening the system
// browser or by printing them.
package navigate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"runtime"
)

// ErrUnsupportedPlatform is returned when no opener is known for the OS.
var ErrUnsupportedPlatform = errors.New("no browser opener for this platform")

// Browser opens URLs with the platform's default handler.
type Browser struct {
	start func(name string, args ...string) error
	goos  string
}

// NewBrowser returns an opener for the running platform.
func NewBrowser() *Browser {
	return &Browser{goos: runtime.GOOS, start: startDetached}
}

// Open launches the handler without waiting for it.
func (b *Browser) Open(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name, args, err := opener(b.goos, url)
	if err != nil {
		return err
	}
	if err := b.start(name, args...); err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	slog.Debug("Opened deep link in browser", "opener", name)
	return nil
}

func opener(goos, url string) (string, []string, error) {
	switch goos {
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{url}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}, nil
	case "darwin":
		return "open", []string{url}, nil
	}
	return "", nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, goos)
}

func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...) //nolint:gosec // fixed opener binary, URL is an argument
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}

// Printer writes URLs to w, one per line.
type Printer struct {
	w io.Writer
}

// NewPrinter returns a navigator that prints.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Open prints url.
func (p *Printer) Open(_ context.Context, url string) error {
	_, err := fmt.Fprintln(p.w, url)
	return err
}

// Opener is anything that can take a URL to the user.
type Opener interface {
	Open(ctx context.Context, url string) error
}

// Fallback tries Primary and prints the URL when it cannot be opened.
type Fallback struct {
	Primary Opener
	Printer *Printer
}

// Open implements the order navigator contract.
func (f Fallback) Open(ctx context.Context, url string) error {
	if err := f.Primary.Open(ctx, url); err != nil {
		slog.Debug("Failed to open browser", "error", err)
		return f.Printer.Open(ctx, url)
	}
	return nil
}
