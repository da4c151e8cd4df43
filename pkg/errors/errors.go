package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	ErrInvalidPatternLength = errors.New("drum pattern must have exactly 8 steps")
	ErrInvalidStep          = errors.New("invalid pattern step")
	ErrSoundNotAvailable    = errors.New("sound not available")
	ErrAudioRouteSwap       = errors.New("audio route swap failed")
	ErrBackendReleased      = errors.New("audio backend released")
	ErrUnknownSound         = errors.New("unknown sound")
	ErrUnknownMode          = errors.New("unknown playback mode")
	ErrUnknownAccent        = errors.New("unknown accent pattern")
	ErrUnknownRoute         = errors.New("unknown audio route")
	ErrInvalidFormat        = errors.New("unsupported audio format")
)

// EngineError wraps errors with additional context
type EngineError struct {
	Op    string // Operation that failed
	Sound string // Sound name if applicable
	Err   error  // Underlying error
}

func (e *EngineError) Error() string {
	if e.Sound != "" {
		return fmt.Sprintf("%s failed for sound %s: %v", e.Op, e.Sound, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

// NewEngineError creates a new EngineError
func NewEngineError(op, sound string, err error) *EngineError {
	return &EngineError{Op: op, Sound: sound, Err: err}
}

// RouteError reports a failed audio route change. It matches both
// ErrAudioRouteSwap and the backend error that caused it.
type RouteError struct {
	From string
	To   string
	Err  error
}

func (e *RouteError) Error() string {
	return fmt.Sprintf("switch audio route %s -> %s: %v", e.From, e.To, e.Err)
}

func (e *RouteError) Unwrap() []error {
	return []error{ErrAudioRouteSwap, e.Err}
}
