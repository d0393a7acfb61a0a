package order

import (
	"context"
	"errors"
	"math/rand/v2"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Veraticus/la-lenera/internal/catalog"
	"github.com/Veraticus/la-lenera/internal/clock"
	"github.com/Veraticus/la-lenera/internal/compose"
	"github.com/Veraticus/la-lenera/internal/cooldown"
	"github.com/Veraticus/la-lenera/internal/hours"
	"github.com/Veraticus/la-lenera/internal/model"
	"github.com/Veraticus/la-lenera/internal/sequencer"
	"github.com/Veraticus/la-lenera/internal/testutil"
	"github.com/Veraticus/la-lenera/internal/zone"
)

type recorder struct {
	err  error
	urls []string
	mu   sync.Mutex
}

func (r *recorder) Open(_ context.Context, u string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.urls = append(r.urls, u)
	return r.err
}

func (r *recorder) opened() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.urls...)
}

type fixture struct {
	fake  *clock.Fake
	store *cooldown.MemoryStore
	nav   *recorder
	ctrl  *Controller
	snaps []Snapshot
	mu    sync.Mutex
}

func (f *fixture) observed() []Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Snapshot(nil), f.snaps...)
}

// newFixture builds a controller on a fake clock without starting it.
func newFixture(t *testing.T, now time.Time, opts ...Option) *fixture {
	t.Helper()

	cat := catalog.Default()
	gate, err := hours.FromSchedule(cat.Schedule)
	require.NoError(t, err)
	composer, err := compose.New(cat.Phone, catalog.Sentinel)
	require.NoError(t, err)

	f := &fixture{
		fake:  clock.NewFake(now),
		store: cooldown.NewMemoryStore(),
		nav:   &recorder{},
	}
	opts = append([]Option{
		WithLogger(testutil.QuietLogger()),
		WithRand(rand.New(rand.NewPCG(1, 2))),
		WithObserver(func(s Snapshot) {
			f.mu.Lock()
			f.snaps = append(f.snaps, s)
			f.mu.Unlock()
		}),
	}, opts...)

	f.ctrl, err = New(Deps{
		Catalog:   cat,
		Matcher:   zone.NewMatcher(cat.Neighborhoods, catalog.Sentinel),
		Hours:     gate,
		Composer:  composer,
		Cooldown:  cooldown.NewGate(f.store, cooldown.WithLogger(testutil.QuietLogger())),
		Navigator: f.nav,
		Scheduler: f.fake,
	}, opts...)
	require.NoError(t, err)
	t.Cleanup(f.ctrl.Close)
	return f
}

func startedFixture(t *testing.T, now time.Time, opts ...Option) *fixture {
	t.Helper()
	f := newFixture(t, now, opts...)
	require.NoError(t, f.ctrl.Start(context.Background()))
	return f
}

func TestController_EndToEnd(t *testing.T) {
	f := startedFixture(t, testutil.Bogota(t, 10, 0))
	c := f.ctrl

	require.NoError(t, c.SelectBundle("medio"))
	require.NoError(t, c.SetZone("cen"))

	snap := c.Snapshot()
	require.NotEmpty(t, snap.Suggestions)
	assert.Equal(t, catalog.Sentinel, snap.Suggestions[0])
	assert.Contains(t, snap.Suggestions, "Centro")
	assert.False(t, snap.ZoneValid)
	assert.False(t, snap.CanSubmit())

	require.NoError(t, c.ChooseSuggestion("Centro"))
	snap = c.Snapshot()
	assert.True(t, snap.ZoneValid)
	assert.True(t, snap.Open)
	assert.Equal(t, "PREPARAR PEDIDO", snap.ButtonLabel())

	require.NoError(t, c.Submit())
	snap = c.Snapshot()
	assert.Equal(t, model.StatusValidating, snap.Status)
	assert.True(t, snap.DialogOpen)
	assert.Equal(t, ReservationSeconds, snap.Reservation)
	assert.NotEmpty(t, snap.AttemptID)
	assert.ErrorIs(t, c.Confirm(), ErrNotValidated)
	assert.ErrorIs(t, c.Submit(), ErrBusy)

	f.fake.Advance(5 * sequencer.Interval)
	snap = c.Snapshot()
	assert.Equal(t, 100, snap.Checkpoint.Progress)
	assert.True(t, snap.CanConfirm())
	assert.Equal(t, "SOLICITAR DESPACHO", snap.ConfirmLabel())

	require.NoError(t, c.Confirm())
	snap = c.Snapshot()
	assert.Equal(t, model.StatusCalculating, snap.Status)
	assert.Equal(t, "ASISTENTE ANALIZANDO...", snap.ButtonLabel())
	assert.Empty(t, f.nav.opened())

	f.fake.Advance(ProcessingDelay)
	opened := f.nav.opened()
	require.Len(t, opened, 1)
	assert.Contains(t, opened[0], "Medio%20Viaje")
	assert.Contains(t, opened[0], "Centro")

	u, err := url.Parse(opened[0])
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u.Query().Get("text"), "Buenos días"))

	snap = c.Snapshot()
	assert.Equal(t, model.StatusCooldown, snap.Status)
	assert.False(t, snap.DialogOpen)
	assert.Equal(t, 3, snap.Cooldown)
	assert.Equal(t, "REINTENTO EN 3s", snap.ButtonLabel())
	assert.Equal(t, opened[0], snap.Message.URL)
	assert.ErrorIs(t, c.Submit(), ErrCoolingDown)

	_, ok, err := f.store.Get(context.Background(), cooldown.Key)
	require.NoError(t, err)
	assert.True(t, ok, "cooldown is persisted")

	f.fake.Advance(2 * time.Second)
	assert.Equal(t, 1, c.Snapshot().Cooldown)
	assert.ErrorIs(t, c.Submit(), ErrCoolingDown)

	f.fake.Advance(time.Second)
	snap = c.Snapshot()
	assert.Equal(t, model.StatusIdle, snap.Status)
	assert.Equal(t, 0, snap.Cooldown)
	_, ok, err = f.store.Get(context.Background(), cooldown.Key)
	require.NoError(t, err)
	assert.False(t, ok, "cooldown is cleared once elapsed")

	// Only the hours poll is left.
	assert.Equal(t, 1, f.fake.Active())
	require.NoError(t, c.Submit())

	c.Close()
	assert.Equal(t, 0, f.fake.Active())
}

func TestController_DismissResets(t *testing.T) {
	f := startedFixture(t, testutil.Bogota(t, 10, 0))
	c := f.ctrl
	require.NoError(t, c.ChooseSuggestion("Centro"))
	require.NoError(t, c.Submit())

	f.fake.Advance(2 * sequencer.Interval)
	assert.Equal(t, 35, c.Snapshot().Checkpoint.Progress)

	require.NoError(t, c.Dismiss())
	snap := c.Snapshot()
	assert.Equal(t, model.StatusIdle, snap.Status)
	assert.False(t, snap.DialogOpen)
	assert.Equal(t, sequencer.Initial, snap.Checkpoint)
	assert.Equal(t, 0, snap.Reservation)
	assert.Equal(t, 1, f.fake.Active(), "dismiss stops dialog timers")

	f.fake.Advance(10 * time.Second)
	assert.Equal(t, sequencer.Initial, c.Snapshot().Checkpoint)
	assert.ErrorIs(t, c.Dismiss(), ErrNoDialog)

	require.NoError(t, c.Submit())
	f.fake.Advance(sequencer.Interval)
	assert.Equal(t, 15, c.Snapshot().Checkpoint.Progress, "restart begins from the first checkpoint")
}

func TestController_DismissWhileCalculating(t *testing.T) {
	f := startedFixture(t, testutil.Bogota(t, 10, 0))
	c := f.ctrl
	require.NoError(t, c.ChooseSuggestion("Centro"))
	require.NoError(t, c.Submit())
	f.fake.Advance(5 * sequencer.Interval)
	require.NoError(t, c.Confirm())

	require.NoError(t, c.Dismiss())
	f.fake.Advance(5 * time.Second)

	assert.Empty(t, f.nav.opened())
	assert.Equal(t, model.StatusIdle, c.Snapshot().Status)
	locked := cooldown.NewGate(f.store).Locked(context.Background(), f.fake.Now())
	assert.False(t, locked)
}

func TestController_ZoneValidation(t *testing.T) {
	f := startedFixture(t, testutil.Bogota(t, 10, 0))
	c := f.ctrl

	require.NoError(t, c.SetZone("Atlantis"))
	assert.False(t, c.Snapshot().ZoneValid)
	assert.ErrorIs(t, c.Submit(), ErrInvalidZone)
	assert.ErrorIs(t, c.ChooseSuggestion("Atlantis"), ErrInvalidZone)

	require.NoError(t, c.SetZone("  centro "))
	assert.True(t, c.Snapshot().ZoneValid)
	require.NoError(t, c.Submit())
	assert.Equal(t, "Centro", c.Snapshot().Zone, "submission uses the stored spelling")
}

func TestController_BusyRules(t *testing.T) {
	f := startedFixture(t, testutil.Bogota(t, 10, 0))
	c := f.ctrl

	assert.ErrorIs(t, c.Confirm(), ErrNoDialog)
	assert.ErrorIs(t, c.SelectBundle("nope"), ErrUnknownBundle)

	require.NoError(t, c.ChooseSuggestion("Centro"))
	require.NoError(t, c.Submit())

	assert.ErrorIs(t, c.SelectBundle("full"), ErrBusy)
	assert.ErrorIs(t, c.SetZone("San Luis"), ErrBusy)
	assert.ErrorIs(t, c.ChooseSuggestion("San Luis"), ErrBusy)
	require.NoError(t, c.SetPayment(model.PaymentWallet), "payment stays editable in the dialog")

	f.fake.Advance(5 * sequencer.Interval)
	require.NoError(t, c.Confirm())
	assert.ErrorIs(t, c.Confirm(), ErrBusy)
	assert.ErrorIs(t, c.SetPayment(model.PaymentCash), ErrBusy)

	f.fake.Advance(ProcessingDelay)
	assert.Contains(t, c.Snapshot().Message.Text, "*por Nequi*")
	require.NoError(t, c.SelectBundle("full"), "bundle is editable during cooldown")
}

func TestController_ReservationIsDisplayOnly(t *testing.T) {
	f := startedFixture(t, testutil.Bogota(t, 10, 0))
	c := f.ctrl
	require.NoError(t, c.ChooseSuggestion("Centro"))
	require.NoError(t, c.Submit())

	f.fake.Advance(65 * time.Second)
	snap := c.Snapshot()
	assert.Equal(t, 235, snap.Reservation)
	assert.Equal(t, "3:55", snap.ReservationClock())

	f.fake.Advance(400 * time.Second)
	snap = c.Snapshot()
	assert.Equal(t, 0, snap.Reservation)
	assert.Equal(t, "0:00", snap.ReservationClock())
	assert.Equal(t, model.StatusValidating, snap.Status)
	assert.True(t, snap.DialogOpen)
	assert.Equal(t, 1, f.fake.Active(), "expired reservation stops ticking")

	require.NoError(t, c.Confirm())
}

func TestController_RestoresCooldown(t *testing.T) {
	now := testutil.Bogota(t, 10, 0)
	f := newFixture(t, now)
	require.NoError(t, f.store.Set(context.Background(), cooldown.Key, now.Add(2500*time.Millisecond).UnixMilli()))

	require.NoError(t, f.ctrl.Start(context.Background()))
	snap := f.ctrl.Snapshot()
	assert.Equal(t, model.StatusCooldown, snap.Status)
	assert.Equal(t, 3, snap.Cooldown)

	f.fake.Advance(time.Second)
	assert.Equal(t, 2, f.ctrl.Snapshot().Cooldown)
	f.fake.Advance(2 * time.Second)
	assert.Equal(t, model.StatusIdle, f.ctrl.Snapshot().Status)
}

func TestController_ExpiredCooldownIsCleared(t *testing.T) {
	now := testutil.Bogota(t, 10, 0)
	f := newFixture(t, now)
	require.NoError(t, f.store.Set(context.Background(), cooldown.Key, now.Add(-time.Second).UnixMilli()))

	require.NoError(t, f.ctrl.Start(context.Background()))
	assert.Equal(t, model.StatusIdle, f.ctrl.Snapshot().Status)
	_, ok, err := f.store.Get(context.Background(), cooldown.Key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestController_HoursPoll(t *testing.T) {
	f := startedFixture(t, testutil.Bogota(t, 17, 59))
	c := f.ctrl
	assert.True(t, c.Snapshot().Open)
	assert.Equal(t, "Despacho Hoy", c.Snapshot().Commitment())

	f.fake.Advance(hours.PollInterval)
	snap := c.Snapshot()
	assert.False(t, snap.Open)
	assert.Equal(t, "Primer Turno", snap.Commitment())
	assert.Equal(t, "Cerrado", snap.StatusLabel())

	require.NoError(t, c.ChooseSuggestion("Centro"))
	require.NoError(t, c.Submit())
	f.fake.Advance(5 * sequencer.Interval)
	require.NoError(t, c.Confirm())
	f.fake.Advance(ProcessingDelay)

	text := c.Snapshot().Message.Text
	assert.True(t, strings.HasPrefix(text, "Buenas noches"))
	assert.Contains(t, text, compose.ClosedNote)
}

func TestController_Estimates(t *testing.T) {
	f := startedFixture(t, testutil.Bogota(t, 10, 0))
	c := f.ctrl

	require.NoError(t, c.ChooseSuggestion(catalog.Sentinel))
	require.NoError(t, c.Submit())
	assert.Equal(t, Estimate{ETA: UnknownZoneETA, RecentCount: UnknownZoneCount}, c.Snapshot().Estimate)
	require.NoError(t, c.Dismiss())

	require.NoError(t, c.ChooseSuggestion("Centro"))
	require.NoError(t, c.Submit())
	est := c.Snapshot().Estimate
	assert.Regexp(t, regexp.MustCompile(`^\d{2}-\d{2} min$`), est.ETA)
	assert.GreaterOrEqual(t, est.RecentCount, 3)
	assert.LessOrEqual(t, est.RecentCount, 8)
}

func TestController_SentinelMessage(t *testing.T) {
	f := startedFixture(t, testutil.Bogota(t, 10, 0))
	c := f.ctrl
	require.NoError(t, c.ChooseSuggestion(catalog.Sentinel))
	require.NoError(t, c.Submit())
	f.fake.Advance(5 * sequencer.Interval)
	require.NoError(t, c.Confirm())
	f.fake.Advance(ProcessingDelay)

	text := c.Snapshot().Message.Text
	assert.Contains(t, text, compose.CoverageCheck)
	assert.NotContains(t, text, catalog.Sentinel)
}

func TestController_NavigationFailureStillCoolsDown(t *testing.T) {
	f := startedFixture(t, testutil.Bogota(t, 10, 0))
	f.nav.err = errors.New("no browser")
	c := f.ctrl

	require.NoError(t, c.ChooseSuggestion("Centro"))
	require.NoError(t, c.Submit())
	f.fake.Advance(5 * sequencer.Interval)
	require.NoError(t, c.Confirm())
	f.fake.Advance(ProcessingDelay)

	assert.Len(t, f.nav.opened(), 1)
	assert.Equal(t, model.StatusCooldown, c.Snapshot().Status)
}

func TestController_CustomCooldown(t *testing.T) {
	f := startedFixture(t, testutil.Bogota(t, 10, 0), WithCooldown(10*time.Second), WithProcessingDelay(100*time.Millisecond))
	c := f.ctrl
	require.NoError(t, c.ChooseSuggestion("Centro"))
	require.NoError(t, c.Submit())
	f.fake.Advance(5 * sequencer.Interval)
	require.NoError(t, c.Confirm())
	f.fake.Advance(100 * time.Millisecond)

	assert.Equal(t, 10, c.Snapshot().Cooldown)
	f.fake.Advance(9 * time.Second)
	assert.Equal(t, model.StatusCooldown, c.Snapshot().Status)
	f.fake.Advance(time.Second)
	assert.Equal(t, model.StatusIdle, c.Snapshot().Status)
}

func TestController_ObserverVersions(t *testing.T) {
	f := startedFixture(t, testutil.Bogota(t, 10, 0))
	c := f.ctrl
	require.NoError(t, c.ChooseSuggestion("Centro"))
	require.NoError(t, c.Submit())
	f.fake.Advance(5 * sequencer.Interval)

	snaps := f.observed()
	require.NotEmpty(t, snaps)
	for i := 1; i < len(snaps); i++ {
		assert.Greater(t, snaps[i].Version, snaps[i-1].Version)
	}

	var progress []int
	for _, s := range snaps {
		if s.Status == model.StatusValidating {
			progress = append(progress, s.Checkpoint.Progress)
		}
	}
	assert.IsNonDecreasing(t, progress)
	assert.Equal(t, 100, progress[len(progress)-1])
}

func TestController_CloseStopsEverything(t *testing.T) {
	f := startedFixture(t, testutil.Bogota(t, 10, 0))
	c := f.ctrl
	require.NoError(t, c.ChooseSuggestion("Centro"))
	require.NoError(t, c.Submit())
	f.fake.Advance(sequencer.Interval)

	c.Close()
	assert.Equal(t, 0, f.fake.Active())

	before := len(f.observed())
	f.fake.Advance(time.Hour)
	assert.Len(t, f.observed(), before, "no callbacks after close")

	assert.ErrorIs(t, c.Submit(), ErrClosed)
	assert.ErrorIs(t, c.SetZone("x"), ErrClosed)
	assert.ErrorIs(t, c.Start(context.Background()), ErrClosed)
	c.Close()
}

func TestController_RealSchedulerNoLeaks(t *testing.T) {
	defer goleak.VerifyNone(t)

	cat := catalog.Default()
	gate, err := hours.FromSchedule(cat.Schedule)
	require.NoError(t, err)
	composer, err := compose.New(cat.Phone, catalog.Sentinel)
	require.NoError(t, err)

	c, err := New(Deps{
		Catalog:   cat,
		Matcher:   zone.NewMatcher(cat.Neighborhoods, catalog.Sentinel),
		Hours:     gate,
		Composer:  composer,
		Cooldown:  cooldown.NewGate(cooldown.NewMemoryStore()),
		Navigator: &recorder{},
		Scheduler: clock.Real{},
	}, WithLogger(testutil.QuietLogger()))
	require.NoError(t, err)

	require.NoError(t, c.Start(context.Background()))
	require.NoError(t, c.ChooseSuggestion("Centro"))
	require.NoError(t, c.Submit())
	require.NoError(t, c.Dismiss())
	require.NoError(t, c.Submit())
	c.Close()
}

func TestNew_MissingDependency(t *testing.T) {
	_, err := New(Deps{})
	assert.Error(t, err)
}

func TestController_CooldownSurvivesRestart(t *testing.T) {
	store := testutil.SetupTestStore(t)
	fake := clock.NewFake(testutil.Bogota(t, 9, 0))
	cat := catalog.Default()
	gate, err := hours.FromSchedule(cat.Schedule)
	require.NoError(t, err)
	composer, err := compose.New(cat.Phone, catalog.Sentinel)
	require.NoError(t, err)

	newCtrl := func() *Controller {
		c, err := New(Deps{
			Catalog:   cat,
			Matcher:   zone.NewMatcher(cat.Neighborhoods, catalog.Sentinel),
			Hours:     gate,
			Composer:  composer,
			Cooldown:  cooldown.NewGate(store, cooldown.WithLogger(testutil.QuietLogger())),
			Navigator: &recorder{},
			Scheduler: fake,
		}, WithLogger(testutil.QuietLogger()), WithCooldown(10*time.Second))
		require.NoError(t, err)
		require.NoError(t, c.Start(context.Background()))
		return c
	}

	first := newCtrl()
	require.NoError(t, first.ChooseSuggestion("Centro"))
	require.NoError(t, first.Submit())
	fake.Advance(5 * sequencer.Interval)
	require.NoError(t, first.Confirm())
	fake.Advance(ProcessingDelay)
	require.Equal(t, model.StatusCooldown, first.Snapshot().Status)
	first.Close()

	fake.Advance(4 * time.Second)
	second := newCtrl()
	defer second.Close()
	snap := second.Snapshot()
	assert.Equal(t, model.StatusCooldown, snap.Status)
	assert.Equal(t, 6, snap.Cooldown)
	assert.ErrorIs(t, second.Submit(), ErrCoolingDown)
}
