// Package convert translates raw input events into MIDI messages.
package convert

import (
	"github.com/leandrodaf/evdev-midi/sdk/contracts"
)

// EventToMIDI converts ev into msg using mapping.
//
// Buttons become Note On (value != 0) or Note Off (value == 0) with velocity
// 127 or 0. Rotary controls become Control Change with the position scaled to
// 7 bits. msg is left untouched when an error is returned.
func EventToMIDI(mapping *contracts.Mapping, ev contracts.RawInputEvent, msg *contracts.Message) error {
	var status contracts.MIDICommand
	switch ev.Type {
	case contracts.EventButton:
		if ev.Value == 0 {
			status = contracts.NoteOff
		} else {
			status = contracts.NoteOn
		}
	case contracts.EventRotary:
		status = contracts.ControlChange
	default:
		return &contracts.TranslationError{Event: ev, Err: contracts.ErrInvalidEventType}
	}

	controller, ok := mapping.Controller(ev.Code)
	if !ok {
		return &contracts.TranslationError{Event: ev, Err: contracts.ErrInvalidEventCode}
	}

	var value byte
	switch ev.Type {
	case contracts.EventButton:
		if ev.Value == 0 {
			value = contracts.VelocityMin
		} else {
			value = contracts.VelocityMax
		}
	case contracts.EventRotary:
		value = ScaleRotary(ev.Value)
	default:
		return &contracts.TranslationError{Event: ev, Err: contracts.ErrInvalidEventType}
	}

	msg[0], msg[1], msg[2] = byte(status), controller, value
	return nil
}

// Translate is EventToMIDI returning a fresh message.
func Translate(mapping *contracts.Mapping, ev contracts.RawInputEvent) (contracts.Message, error) {
	var msg contracts.Message
	err := EventToMIDI(mapping, ev, &msg)
	return msg, err
}

// ScaleRotary maps a rotary position from [RotaryMin, RotaryMax] onto [0, 127],
// rounding down. Positions outside the range saturate.
func ScaleRotary(value int32) byte {
	if value < contracts.RotaryMin {
		value = contracts.RotaryMin
	}
	if value > contracts.RotaryMax {
		value = contracts.RotaryMax
	}
	span := int64(contracts.RotaryMax - contracts.RotaryMin)
	return byte(int64(value-contracts.RotaryMin) * int64(contracts.VelocityMax) / span)
}
