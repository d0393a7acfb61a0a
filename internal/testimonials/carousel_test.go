package testimonials

import (
	"math/rand/v2"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/la-lenera/internal/catalog"
	"github.com/Veraticus/la-lenera/internal/clock"
	"github.com/Veraticus/la-lenera/internal/model"
)

func ids(items []model.Testimonial) []int {
	out := make([]int, len(items))
	for i, t := range items {
		out[i] = t.ID
	}
	return out
}

func TestNew_ShufflesPermutation(t *testing.T) {
	pool := catalog.Default().Testimonials
	c := New(pool, rand.New(rand.NewPCG(3, 4)))

	got := ids(c.Items())
	want := ids(pool)
	sort.Ints(got)
	sort.Ints(want)
	assert.Equal(t, want, got, "shuffle keeps every quote exactly once")
	assert.Equal(t, 1, pool[0].ID, "pool is not mutated")
}

func TestCarousel_Rotates(t *testing.T) {
	pool := catalog.Default().Testimonials
	c := New(pool, rand.New(rand.NewPCG(3, 4)))
	items := c.Items()
	fake := clock.NewFake(time.Unix(0, 0))

	var shown []model.Testimonial
	c.Start(fake, func(t model.Testimonial) { shown = append(shown, t) })
	c.Start(fake, nil)
	assert.Equal(t, 1, fake.Active(), "second start is ignored")

	first, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, items[0], first)

	fake.Advance(RotateEvery * time.Duration(len(items)))
	require.Len(t, shown, len(items))
	assert.Equal(t, items[1], shown[0])
	assert.Equal(t, items[0], shown[len(shown)-1], "wraps around")

	c.Stop()
	assert.Equal(t, 0, fake.Active())
	fake.Advance(time.Minute)
	assert.Len(t, shown, len(items))
}

func TestCarousel_Empty(t *testing.T) {
	c := New(nil, rand.New(rand.NewPCG(1, 1)))
	_, ok := c.Current()
	assert.False(t, ok)
	_, ok = c.Next()
	assert.False(t, ok)

	fake := clock.NewFake(time.Unix(0, 0))
	c.Start(fake, nil)
	assert.Equal(t, 0, fake.Active())
	c.Stop()
}
