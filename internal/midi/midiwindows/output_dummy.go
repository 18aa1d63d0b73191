//go:build !windows
// +build !windows

package midiwindows

import (
	"github.com/leandrodaf/evdev-midi/sdk/contracts"
)

// NewMIDIOutput is unavailable outside Windows.
func NewMIDIOutput(options *contracts.ClientOptions) (contracts.MIDIOutput, error) {
	options.Logger.Warn("winmm output requested on a non-Windows system")
	return nil, contracts.ErrSinkInit
}
