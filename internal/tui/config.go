package tui

import (
	"github.com/Veraticus/la-lenera/internal/testimonials"
	"github.com/Veraticus/la-lenera/internal/tui/themes"
)

// Config holds TUI configuration.
type Config struct {
	Theme            themes.Theme
	Carousel         *testimonials.Carousel
	Width            int
	Height           int
	ShowHelp         bool
	ShowTestimonials bool
	AltScreen        bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:            themes.Default,
		Width:            80,
		Height:           24,
		ShowHelp:         true,
		ShowTestimonials: true,
		AltScreen:        true,
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithCarousel sets the testimonial carousel shown under the form.
func WithCarousel(c *testimonials.Carousel) Option {
	return func(cfg *Config) {
		cfg.Carousel = c
	}
}

// WithTestimonials toggles the testimonial strip.
func WithTestimonials(enabled bool) Option {
	return func(c *Config) {
		c.ShowTestimonials = enabled
	}
}

// WithHelp toggles the short help footer.
func WithHelp(enabled bool) Option {
	return func(c *Config) {
		c.ShowHelp = enabled
	}
}

// WithAltScreen controls whether the program takes over the full terminal.
func WithAltScreen(enabled bool) Option {
	return func(c *Config) {
		c.AltScreen = enabled
	}
}
