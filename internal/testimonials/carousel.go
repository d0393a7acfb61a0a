// Package testimonials rotates customer quotes on a fixed interval.
package testimonials

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/Veraticus/la-lenera/internal/clock"
	"github.com/Veraticus/la-lenera/internal/model"
)

// RotateEvery is the display time of one quote.
const RotateEvery = 5 * time.Second

// Carousel is a shuffled, cyclic view over a testimonial pool.
type Carousel struct {
	timer clock.Timer
	items []model.Testimonial
	index int
	mu    sync.Mutex
}

// New shuffles a copy of pool once.
func New(pool []model.Testimonial, rng *rand.Rand) *Carousel {
	items := append([]model.Testimonial(nil), pool...)
	rng.Shuffle(len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })
	return &Carousel{items: items}
}

// Current returns the quote on display. ok is false for an empty pool.
func (c *Carousel) Current() (model.Testimonial, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.items) == 0 {
		return model.Testimonial{}, false
	}
	return c.items[c.index], true
}

// Next advances to the following quote, wrapping around.
func (c *Carousel) Next() (model.Testimonial, bool) {
	c.mu.Lock()
	if len(c.items) == 0 {
		c.mu.Unlock()
		return model.Testimonial{}, false
	}
	c.index = (c.index + 1) % len(c.items)
	t := c.items[c.index]
	c.mu.Unlock()
	return t, true
}

// Items returns the shuffled order.
func (c *Carousel) Items() []model.Testimonial {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.Testimonial(nil), c.items...)
}

// Start rotates every RotateEvery and reports each new quote. It is a no-op
// for an empty pool or when already started.
func (c *Carousel) Start(sched clock.Scheduler, onRotate func(model.Testimonial)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.items) == 0 || c.timer != nil {
		return
	}
	c.timer = sched.Every(RotateEvery, func() {
		if t, ok := c.Next(); ok && onRotate != nil {
			onRotate(t)
		}
	})
}

// Stop halts rotation.
func (c *Carousel) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clock.StopAll(c.timer)
	c.timer = nil
}
