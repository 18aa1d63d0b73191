package midi

import (
	"io"

	"github.com/leandrodaf/evdev-midi/sdk/contracts"
)

// NewConverter creates a converter with the specified options.
// It applies default options and resolves the platform MIDI output unless one
// was supplied with contracts.WithMIDIOutput.
//
// opts ...contracts.Option: A variadic list of option functions to customize the converter configuration.
//
// Returns:
//   - *Converter: A converter ready to Start.
//   - error: An error, if the platform has no MIDI output or the output could not be created.
func NewConverter(opts ...contracts.Option) (*Converter, error) {
	options, err := applyDefaultOptions(opts...)
	if err != nil {
		return nil, err
	}

	owned := options.MIDIOutput == nil
	if owned {
		output, err := NewOutput(&options)
		if err != nil {
			return nil, err
		}
		options.MIDIOutput = output
	}

	c := newConverter(options)
	c.ownsOutput = owned
	return c, nil
}

// ListOutputs lists the MIDI output ports the converter could connect to.
func ListOutputs(opts ...contracts.Option) ([]contracts.DeviceInfo, error) {
	options, err := applyDefaultOptions(opts...)
	if err != nil {
		return nil, err
	}

	output := options.MIDIOutput
	if output == nil {
		if output, err = NewOutput(&options); err != nil {
			return nil, err
		}
		if closer, ok := output.(io.Closer); ok {
			defer closer.Close()
		}
	}
	return output.ListDevices()
}
