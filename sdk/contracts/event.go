package contracts

import "fmt"

// Event types understood by the converter. Values follow linux/input-event-codes.h.
const (
	EventSync   uint16 = 0 // EV_SYN: separator, never translated
	EventButton uint16 = 1 // EV_KEY
	EventRotary uint16 = 3 // EV_ABS
)

// Rotary controls report absolute positions in [RotaryMin, RotaryMax].
const (
	RotaryMin int32 = 0
	RotaryMax int32 = 4095
)

// RawInputEvent is a single input event as read from the device.
type RawInputEvent struct {
	Type  uint16 `json:"type"`
	Code  uint16 `json:"code"`
	Value int32  `json:"value"`
}

func (e RawInputEvent) String() string {
	return fmt.Sprintf("{type: %d, code: %d, value: %d}", e.Type, e.Code, e.Value)
}

// EventSource yields raw input events in the order the device produced them.
//
// ReadBatch may block until events are available and may return an empty batch.
// A batch may come back together with an error: the events were read before
// the failure and are dispatched before the error ends the run.
// Any returned error is treated as fatal by the dispatcher.
type EventSource interface {
	ReadBatch() ([]RawInputEvent, error)
	Close() error
}
