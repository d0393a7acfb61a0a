// Package catalog holds the static site configuration: bundles, neighborhoods,
// opening hours, testimonials and contact data. A Catalog is immutable once
// built and is shared by pointer.
package catalog

import (
	"errors"
	"fmt"
	"time"
	_ "time/tzdata" // timezone database for hosts without one

	"github.com/Veraticus/la-lenera/internal/model"
)

// Sentinel is the "I don't know my neighborhood" entry. It always ranks first
// in suggestions and counts as a valid zone.
const Sentinel = "No sé mi barrio (Consultar)"

// Catalog validation errors.
var (
	ErrNoBundles       = errors.New("catalog has no bundles")
	ErrDuplicateBundle = errors.New("duplicate bundle id")
	ErrMissingSentinel = errors.New("neighborhood list is missing the sentinel entry")
	ErrInvalidSchedule = errors.New("invalid schedule")
	ErrInvalidRate     = errors.New("rate limit must be positive")
)

// Catalog is the complete static configuration of the site.
type Catalog struct {
	Schedule         model.Schedule      `yaml:"schedule"`
	Phone            string              `yaml:"phone"`
	City             string              `yaml:"city"`
	Bundles          []model.Bundle      `yaml:"bundles"`
	Neighborhoods    []string            `yaml:"neighborhoods"`
	Testimonials     []model.Testimonial `yaml:"testimonials"`
	RateLimitSeconds int                 `yaml:"rate_limit_seconds"`
}

// Validate checks the invariants the rest of the application relies on.
func (c *Catalog) Validate() error {
	if len(c.Bundles) == 0 {
		return ErrNoBundles
	}

	seen := make(map[string]struct{}, len(c.Bundles))
	for _, b := range c.Bundles {
		if b.ID == "" || b.Title == "" {
			return fmt.Errorf("bundle %q: id and title are required", b.ID)
		}
		if _, ok := seen[b.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateBundle, b.ID)
		}
		seen[b.ID] = struct{}{}
	}

	hasSentinel := false
	for _, n := range c.Neighborhoods {
		if n == Sentinel {
			hasSentinel = true
			break
		}
	}
	if !hasSentinel {
		return ErrMissingSentinel
	}

	s := c.Schedule
	if s.OpenHour < 0 || s.CloseHour > 24 || s.OpenHour >= s.CloseHour {
		return fmt.Errorf("%w: hours %d-%d", ErrInvalidSchedule, s.OpenHour, s.CloseHour)
	}
	if _, err := time.LoadLocation(s.Timezone); err != nil || s.Timezone == "" {
		return fmt.Errorf("%w: timezone %q", ErrInvalidSchedule, s.Timezone)
	}

	if c.RateLimitSeconds <= 0 {
		return ErrInvalidRate
	}
	return nil
}

// Bundle looks a bundle up by id.
func (c *Catalog) Bundle(id string) (model.Bundle, bool) {
	for _, b := range c.Bundles {
		if b.ID == id {
			return b, true
		}
	}
	return model.Bundle{}, false
}

// DefaultBundle returns the popular bundle, or the first one when none is flagged.
func (c *Catalog) DefaultBundle() model.Bundle {
	for _, b := range c.Bundles {
		if b.Popular {
			return b
		}
	}
	if len(c.Bundles) == 0 {
		return model.Bundle{}
	}
	return c.Bundles[0]
}

// RateLimit returns the cooldown duration between submissions.
func (c *Catalog) RateLimit() time.Duration {
	return time.Duration(c.RateLimitSeconds) * time.Second
}

// Clone returns a deep copy, so callers can derive a catalog without touching
// a shared one.
func (c *Catalog) Clone() *Catalog {
	out := *c
	out.Bundles = append([]model.Bundle(nil), c.Bundles...)
	out.Neighborhoods = append([]string(nil), c.Neighborhoods...)
	out.Testimonials = append([]model.Testimonial(nil), c.Testimonials...)
	return &out
}
