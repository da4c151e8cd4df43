package metronome

import (
	"fmt"

	"github.com/jscyril/golang_metronome/api"
	metroerrors "github.com/jscyril/golang_metronome/pkg/errors"
)

// SetAudioRoute recreates the backend for route. Playback is paused for
// the swap and resumed afterwards; the old backend is released before the
// new one is created and no beat reaches it once released.
//
// If the new backend cannot be created the engine goes back to the
// previous route, stays paused and returns a RouteError.
func (e *Engine) SetAudioRoute(route api.AudioRoute) error {
	if !route.Valid() {
		return fmt.Errorf("%w: %d", metroerrors.ErrUnknownRoute, int(route))
	}

	e.ctl.Lock()
	defer e.ctl.Unlock()

	e.mu.RLock()
	current := e.state.Route
	wasPlaying := e.state.Playing
	closed := e.closed
	e.mu.RUnlock()

	if route == current || closed {
		return nil
	}

	e.log.Info("switching audio route", "from", current.String(), "to", route.String())

	if wasPlaying {
		e.pauseLocked()
	}
	if err := e.releaseBackendLocked(); err != nil {
		e.log.Error("release audio backend", "route", current.String(), "error", err)
	}

	backend, err := e.factory(route)
	if err != nil {
		e.log.Error("create audio backend", "route", route.String(), "error", err)
		e.restoreRouteLocked(current)
		return &metroerrors.RouteError{From: current.String(), To: route.String(), Err: err}
	}

	e.mu.Lock()
	e.backend = backend
	e.state.Route = route
	state := e.state
	e.mu.Unlock()

	e.loadSelectedLocked()
	e.bus.Publish(api.AudioEvent{Type: api.EventRouteChange, Payload: state})

	if wasPlaying {
		e.playLocked()
	} else {
		e.publishState(state)
	}
	return nil
}

// restoreRouteLocked requires ctl. It brings back a backend for the
// previous route; if that fails too the engine stays without one and
// every beat is dropped until the next successful route change.
func (e *Engine) restoreRouteLocked(route api.AudioRoute) {
	backend, err := e.factory(route)
	if err != nil {
		e.log.Error("restore audio backend", "route", route.String(), "error", err)
		e.publishError(metroerrors.NewEngineError("restore backend", "", err))
		return
	}

	e.mu.Lock()
	e.backend = backend
	state := e.state
	e.mu.Unlock()

	e.loadSelectedLocked()
	e.publishState(state)
}

// releaseBackendLocked requires ctl and a stopped loop
func (e *Engine) releaseBackendLocked() error {
	e.mu.Lock()
	backend := e.backend
	e.backend = nil
	e.handles = make(map[api.Sound]api.SoundHandle)
	e.mu.Unlock()

	if backend == nil {
		return nil
	}
	if err := backend.Release(); err != nil {
		return metroerrors.NewEngineError("release backend", "", err)
	}
	return nil
}
