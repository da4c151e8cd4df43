package metronome

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jscyril/golang_metronome/api"
	metroerrors "github.com/jscyril/golang_metronome/pkg/errors"
	"github.com/jscyril/golang_metronome/pkg/events"
)

// Ensure Engine implements Metronome interface at compile time
var _ api.Metronome = (*Engine)(nil)

// Engine owns the playback settings and the beat loop.
//
// Setters write under mu and the loop takes one snapshot per beat, so a
// change made mid-interval is heard from the next beat on. ctl serialises
// the calls that start or stop the loop or touch the backend (play, pause,
// sound loading, route swaps); it is never held by the loop itself.
type Engine struct {
	ctl sync.Mutex

	mu           sync.RWMutex
	state        api.PlaybackState
	resetPending bool // beat counter was reset after the current beat's snapshot
	backend      api.AudioBackend
	handles      map[api.Sound]api.SoundHandle
	cancel       context.CancelFunc
	done         chan struct{}
	closed       bool

	factory api.BackendFactory
	clock   Clock
	log     *slog.Logger
	bus     *events.EventBus
}

// Option configures an Engine
type Option func(*Engine)

// WithClock replaces the wall clock used between beats
func WithClock(c Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithLogger sets the structured logger
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// WithEventBus publishes engine events to b instead of a private bus
func WithEventBus(b *events.EventBus) Option {
	return func(e *Engine) {
		e.bus = b
	}
}

// WithRoute selects the route the first backend is created for
func WithRoute(r api.AudioRoute) Option {
	return func(e *Engine) {
		if r.Valid() {
			e.state.Route = r
		}
	}
}

// New creates a stopped engine with default settings and acquires a
// backend for the initial route.
func New(factory api.BackendFactory, opts ...Option) (*Engine, error) {
	if factory == nil {
		return nil, fmt.Errorf("metronome: nil backend factory")
	}

	e := &Engine{
		state:   api.DefaultPlaybackState(),
		handles: make(map[api.Sound]api.SoundHandle),
		factory: factory,
		clock:   realClock{},
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.bus == nil {
		e.bus = events.NewEventBus()
	}

	backend, err := factory(e.state.Route)
	if err != nil {
		return nil, metroerrors.NewEngineError("create backend", "", err)
	}
	e.backend = backend
	e.loadSelectedLocked()

	return e, nil
}

// Events returns a channel receiving every engine event
func (e *Engine) Events() <-chan api.AudioEvent {
	return e.bus.SubscribeAll()
}

// Bus returns the event bus the engine publishes to
func (e *Engine) Bus() *events.EventBus {
	return e.bus
}

// Play starts the beat loop from beat 0. It is a no-op while playing.
func (e *Engine) Play() {
	e.ctl.Lock()
	defer e.ctl.Unlock()
	e.playLocked()
}

// Pause stops the beat loop, keeping every setting. It returns once the
// loop has exited, which takes at most one beat interval.
func (e *Engine) Pause() {
	e.ctl.Lock()
	defer e.ctl.Unlock()
	e.pauseLocked()
}

// Stop is Pause under the name callers use for a full stop
func (e *Engine) Stop() {
	e.Pause()
}

// Toggle pauses when playing and plays otherwise
func (e *Engine) Toggle() {
	e.ctl.Lock()
	defer e.ctl.Unlock()

	if e.IsPlaying() {
		e.pauseLocked()
	} else {
		e.playLocked()
	}
}

// IsPlaying reports whether the beat loop is running
func (e *Engine) IsPlaying() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.Playing
}

// GetState returns a copy of the current settings
func (e *Engine) GetState() api.PlaybackState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// Close stops playback and releases the backend. It is safe to call more
// than once.
func (e *Engine) Close() error {
	e.ctl.Lock()
	defer e.ctl.Unlock()

	e.mu.RLock()
	closed := e.closed
	e.mu.RUnlock()
	if closed {
		return nil
	}

	e.pauseLocked()
	err := e.releaseBackendLocked()

	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()

	e.log.Info("metronome closed")
	e.bus.Close()
	return err
}

// playLocked requires ctl. The Playing check and the loop start happen
// under the same ctl hold, so two loops can never run.
func (e *Engine) playLocked() {
	e.mu.Lock()
	if e.state.Playing || e.closed {
		e.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	e.state.Playing = true
	e.state.Beat = 0
	e.resetPending = false
	e.cancel = cancel
	e.done = done
	state := e.state
	e.mu.Unlock()

	go e.run(ctx, done)

	e.log.Info("metronome playing",
		"tempo", state.Tempo,
		"mode", state.Mode.String(),
		"route", state.Route.String())
	e.publishState(state)
}

// pauseLocked requires ctl and must not hold mu: it waits for the loop,
// which takes mu once per beat.
func (e *Engine) pauseLocked() {
	e.mu.Lock()
	if !e.state.Playing {
		e.mu.Unlock()
		return
	}
	e.state.Playing = false
	cancel, done := e.cancel, e.done
	e.cancel, e.done = nil, nil
	state := e.state
	e.mu.Unlock()

	cancel()
	<-done

	e.log.Info("metronome paused", "beat", state.Beat)
	e.publishState(state)
}

func (e *Engine) publishState(state api.PlaybackState) {
	e.bus.Publish(api.AudioEvent{Type: api.EventStateChange, Payload: state})
}

func (e *Engine) publishError(err error) {
	e.bus.Publish(api.AudioEvent{Type: api.EventError, Payload: err})
}
