//go:build !linux
// +build !linux

package midilinux

import (
	"github.com/leandrodaf/evdev-midi/sdk/contracts"
)

// NewMIDIOutput is unavailable outside Linux.
func NewMIDIOutput(options *contracts.ClientOptions) (contracts.MIDIOutput, error) {
	options.Logger.Warn("ALSA MIDI output requested on a non-Linux system")
	return nil, contracts.ErrSinkInit
}
