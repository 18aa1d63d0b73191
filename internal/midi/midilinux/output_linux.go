//go:build linux
// +build linux

package midilinux

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"github.com/leandrodaf/evdev-midi/sdk/contracts"
)

// Error definitions for MIDI output issues.
var (
	ErrNoOutputPorts = errors.New("no MIDI output ports found")
	ErrPortNotFound  = errors.New("MIDI output port not found")
)

// Output opens ALSA sequencer ports through rtmidi.
type Output struct {
	logger contracts.Logger
	port   contracts.OutputPortConfig
	mu     sync.Mutex
	drv    *rtmididrv.Driver
}

// NewMIDIOutput initializes the rtmidi driver.
func NewMIDIOutput(options *contracts.ClientOptions) (contracts.MIDIOutput, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("rtmididrv: %w", err)
	}
	options.Logger.Info("MIDI output created", options.Logger.Field().String("driver", drv.String()))

	return &Output{
		logger: options.Logger,
		port:   options.OutputPort,
		drv:    drv,
	}, nil
}

// ListDevices lists the output ports known to the driver.
func (o *Output) ListDevices() ([]contracts.DeviceInfo, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	outs, err := o.drv.Outs()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI outputs: %w", err)
	}
	if len(outs) == 0 {
		o.logger.Warn(ErrNoOutputPorts.Error())
		return nil, ErrNoOutputPorts
	}

	devices := make([]contracts.DeviceInfo, len(outs))
	for i, out := range outs {
		devices[i] = contracts.DeviceInfo{
			Name:       out.String(),
			EntityName: fmt.Sprintf("port %d", out.Number()),
		}
	}
	return devices, nil
}

// Open connects to the configured port. With a virtual port configuration a
// new port named identity is created for other applications to read from.
func (o *Output) Open(identity string) (contracts.Connection, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.port.Virtual {
		out, err := o.drv.OpenVirtualOut(identity)
		if err != nil {
			return nil, fmt.Errorf("open virtual port %q: %w", identity, err)
		}
		o.logger.Info("Virtual MIDI port created", o.logger.Field().String("port", identity))
		return &connection{out: out}, nil
	}

	out, err := o.selectPort()
	if err != nil {
		return nil, err
	}
	if err := out.Open(); err != nil {
		return nil, fmt.Errorf("open %q: %w", out.String(), err)
	}
	o.logger.Info("MIDI output connected",
		o.logger.Field().String("port", out.String()),
		o.logger.Field().String("identity", identity))
	return &connection{out: out}, nil
}

func (o *Output) selectPort() (drivers.Out, error) {
	outs, err := o.drv.Outs()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI outputs: %w", err)
	}
	if len(outs) == 0 {
		return nil, ErrNoOutputPorts
	}
	if o.port.Name != "" {
		want := strings.ToLower(o.port.Name)
		for _, out := range outs {
			if strings.Contains(strings.ToLower(out.String()), want) {
				return out, nil
			}
		}
		return nil, fmt.Errorf("%w: %q", ErrPortNotFound, o.port.Name)
	}
	if o.port.Index >= len(outs) {
		return nil, fmt.Errorf("%w: index %d, have %d ports", ErrPortNotFound, o.port.Index, len(outs))
	}
	return outs[o.port.Index], nil
}

// Close shuts the rtmidi driver down.
func (o *Output) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.drv.Close()
}

type connection struct {
	out drivers.Out
}

func (c *connection) Send(msg contracts.Message) error {
	return c.out.Send(gomidi.Message(msg[:]))
}

func (c *connection) Close() error {
	return c.out.Close()
}
