package midi

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/leandrodaf/evdev-midi/internal/midi/mididarwin"
	"github.com/leandrodaf/evdev-midi/internal/midi/midilinux"
	"github.com/leandrodaf/evdev-midi/internal/midi/midiwindows"
	"github.com/leandrodaf/evdev-midi/sdk/contracts"
)

// ErrUnsupportedOS is returned when the operating system has no MIDI output.
var ErrUnsupportedOS = errors.New("unsupported operating system")

// outputInitializers maps OS names to corresponding MIDI output initializers.
var outputInitializers = map[string]func(*contracts.ClientOptions) (contracts.MIDIOutput, error){
	"linux":   midilinux.NewMIDIOutput,   // ALSA through rtmidi.
	"darwin":  mididarwin.NewMIDIOutput,  // CoreMIDI.
	"windows": midiwindows.NewMIDIOutput, // winmm.
}

// NewOutput initializes the MIDI output for the current operating system.
//
// opts *contracts.ClientOptions: Configuration options, with defaults applied.
//
// Returns:
//   - contracts.MIDIOutput: The platform MIDI output.
//   - error: ErrUnsupportedOS if the OS is unsupported, or the initializer's error.
func NewOutput(opts *contracts.ClientOptions) (contracts.MIDIOutput, error) {
	if initializer, exists := outputInitializers[runtime.GOOS]; exists {
		return initializer(opts)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedOS, runtime.GOOS)
}
