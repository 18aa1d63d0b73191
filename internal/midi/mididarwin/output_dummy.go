//go:build !darwin
// +build !darwin

package mididarwin

import (
	"github.com/leandrodaf/evdev-midi/sdk/contracts"
)

// NewMIDIOutput is unavailable outside macOS.
func NewMIDIOutput(options *contracts.ClientOptions) (contracts.MIDIOutput, error) {
	options.Logger.Warn("CoreMIDI output requested on a non-macOS system")
	return nil, contracts.ErrSinkInit
}
