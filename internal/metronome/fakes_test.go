package metronome

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jscyril/golang_metronome/api"
	metroerrors "github.com/jscyril/golang_metronome/pkg/errors"
)

const waitTimeout = 2 * time.Second

type firedTrigger struct {
	sound       api.Sound
	left, right float64
}

// fakeBackend records loads and triggers
type fakeBackend struct {
	route api.AudioRoute

	mu           sync.Mutex
	next         api.SoundHandle
	sounds       map[api.SoundHandle]api.Sound
	loads        []api.Sound
	released     int
	lateTriggers int
	failTrigger  error
	failLoad     map[api.Sound]error

	triggers chan firedTrigger
}

func (b *fakeBackend) Load(sound api.Sound) (api.SoundHandle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.failLoad[sound]; err != nil {
		return 0, err
	}
	b.next++
	b.sounds[b.next] = sound
	b.loads = append(b.loads, sound)
	return b.next, nil
}

func (b *fakeBackend) Trigger(handle api.SoundHandle, left, right float64) (api.StreamID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.released > 0 {
		b.lateTriggers++
		return 0, metroerrors.ErrBackendReleased
	}
	if b.failTrigger != nil {
		return 0, b.failTrigger
	}
	sound, ok := b.sounds[handle]
	if !ok {
		return 0, metroerrors.ErrSoundNotAvailable
	}
	b.triggers <- firedTrigger{sound: sound, left: left, right: right}
	return api.StreamID(handle), nil
}

func (b *fakeBackend) Release() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.released++
	return nil
}

func (b *fakeBackend) loaded() []api.Sound {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]api.Sound(nil), b.loads...)
}

func (b *fakeBackend) releaseCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.released
}

func (b *fakeBackend) lateTriggerCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lateTriggers
}

// fakeFactory hands out fakeBackends and can fail per route
type fakeFactory struct {
	mu          sync.Mutex
	created     []*fakeBackend
	fail        map[api.AudioRoute]error
	failTrigger error
	failLoad    map[api.Sound]error
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{
		fail:     make(map[api.AudioRoute]error),
		failLoad: make(map[api.Sound]error),
	}
}

func (f *fakeFactory) New(route api.AudioRoute) (api.AudioBackend, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.fail[route]; err != nil {
		return nil, err
	}
	b := &fakeBackend{
		route:       route,
		sounds:      make(map[api.SoundHandle]api.Sound),
		failTrigger: f.failTrigger,
		failLoad:    f.failLoad,
		triggers:    make(chan firedTrigger, 64),
	}
	f.created = append(f.created, b)
	return b, nil
}

func (f *fakeFactory) backends() []*fakeBackend {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*fakeBackend(nil), f.created...)
}

func (f *fakeFactory) last() *fakeBackend {
	all := f.backends()
	return all[len(all)-1]
}

// manualClock blocks every Sleep until the test ticks it
type manualClock struct {
	waits chan time.Duration
	ticks chan struct{}
}

func newManualClock() *manualClock {
	return &manualClock{
		waits: make(chan time.Duration, 64),
		ticks: make(chan struct{}),
	}
}

func (c *manualClock) Sleep(ctx context.Context, d time.Duration) error {
	c.waits <- d
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.ticks:
		return nil
	}
}

func (c *manualClock) tick(t *testing.T) {
	t.Helper()
	select {
	case c.ticks <- struct{}{}:
	case <-time.After(waitTimeout):
		t.Fatal("beat loop is not sleeping")
	}
}

func (c *manualClock) waitSleep(t *testing.T) time.Duration {
	t.Helper()
	select {
	case d := <-c.waits:
		return d
	case <-time.After(waitTimeout):
		t.Fatal("beat loop never slept")
		return 0
	}
}

func waitTrigger(t *testing.T, b *fakeBackend) firedTrigger {
	t.Helper()
	select {
	case tr := <-b.triggers:
		return tr
	case <-time.After(waitTimeout):
		t.Fatal("no trigger fired")
		return firedTrigger{}
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEngine(t *testing.T, factory *fakeFactory) (*Engine, *manualClock) {
	t.Helper()
	clock := newManualClock()
	e, err := New(factory.New, WithClock(clock), WithLogger(discardLogger()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	return e, clock
}
