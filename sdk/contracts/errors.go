package contracts

import (
	"errors"
	"fmt"
)

// Per-event errors. The dispatcher reports them and keeps polling.
var (
	ErrInvalidEventType = errors.New("invalid event type")
	ErrInvalidEventCode = errors.New("invalid event code")
	ErrSendFailure      = errors.New("could not send MIDI message")
)

// Worker and lifecycle errors, surfaced to the caller of Stop.
var (
	ErrSinkInit       = errors.New("could not open MIDI output")
	ErrSourceRead     = errors.New("could not read input events")
	ErrJoinFailure    = errors.New("worker terminated abnormally")
	ErrAlreadyStarted = errors.New("converter already started")
	ErrNotStarted     = errors.New("converter not started")
	ErrStopped        = errors.New("converter already stopped")
)

// ErrInvalidMapping is returned when a mapping document cannot be used.
var ErrInvalidMapping = errors.New("invalid mapping")

// TranslationError reports an event that could not be converted to MIDI.
type TranslationError struct {
	Event RawInputEvent
	Err   error
}

func (e *TranslationError) Error() string {
	return fmt.Sprintf("could not convert event %s: %v", e.Event, e.Err)
}

func (e *TranslationError) Unwrap() error { return e.Err }

// SendError reports a translated message the output refused.
type SendError struct {
	Event   RawInputEvent
	Message Message
	Err     error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("%v % X for event %s: %v", ErrSendFailure, e.Message[:], e.Event, e.Err)
}

func (e *SendError) Unwrap() []error { return []error{ErrSendFailure, e.Err} }

// JoinError reports a worker that panicked instead of returning.
type JoinError struct {
	Value interface{}
}

func (e *JoinError) Error() string {
	return fmt.Sprintf("%v: %v", ErrJoinFailure, e.Value)
}

func (e *JoinError) Unwrap() error { return ErrJoinFailure }
