//go:build darwin
// +build darwin

package mididarwin

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/leandrodaf/evdev-midi/sdk/contracts"
	"github.com/youpy/go-coremidi"
)

// Error definitions for MIDI connection and handling issues.
var (
	ErrNoMIDIDestinations  = errors.New("no MIDI destinations found")
	ErrInvalidMIDIDevice   = errors.New("invalid MIDI destination")
	ErrCreateOutputPort    = errors.New("error creating output port")
	ErrVirtualNotSupported = errors.New("virtual output ports are not supported by CoreMIDI client")
)

// Output sends MIDI packets to CoreMIDI destinations.
type Output struct {
	logger contracts.Logger
	client coremidi.Client // CoreMIDI client instance for MIDI operations.
	port   contracts.OutputPortConfig
	mu     sync.Mutex
}

// NewMIDIOutput creates the CoreMIDI client named after options.ClientName.
func NewMIDIOutput(options *contracts.ClientOptions) (contracts.MIDIOutput, error) {
	client, err := coremidi.NewClient(options.ClientName)
	if err != nil {
		return nil, err
	}
	options.Logger.Info("MIDI client successfully created",
		options.Logger.Field().String("clientName", options.ClientName))

	return &Output{
		logger: options.Logger,
		client: client,
		port:   options.OutputPort,
	}, nil
}

// ListDevices retrieves and returns the available MIDI destinations.
func (o *Output) ListDevices() ([]contracts.DeviceInfo, error) {
	destinations, err := coremidi.AllDestinations()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI destinations: %w", err)
	}
	if len(destinations) == 0 {
		o.logger.Warn(ErrNoMIDIDestinations.Error())
		return nil, ErrNoMIDIDestinations
	}

	devices := make([]contracts.DeviceInfo, len(destinations))
	for i, destination := range destinations {
		entity := destination.Entity()
		devices[i] = contracts.DeviceInfo{
			Name:         destination.Name(),
			EntityName:   entity.Name(),
			Manufacturer: entity.Manufacturer(),
		}
	}
	return devices, nil
}

// Open creates an output port called identity and binds it to the selected destination.
func (o *Output) Open(identity string) (contracts.Connection, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.port.Virtual {
		return nil, ErrVirtualNotSupported
	}

	destination, err := o.selectDestination()
	if err != nil {
		return nil, err
	}

	port, err := coremidi.NewOutputPort(o.client, identity)
	if err != nil {
		o.logger.Error(ErrCreateOutputPort.Error())
		return nil, fmt.Errorf("%w: %v", ErrCreateOutputPort, err)
	}

	o.logger.Info("MIDI destination selected",
		o.logger.Field().String("identity", identity),
		o.logger.Field().String("deviceName", destination.Name()))
	return &connection{port: port, destination: destination}, nil
}

func (o *Output) selectDestination() (coremidi.Destination, error) {
	destinations, err := coremidi.AllDestinations()
	if err != nil {
		return coremidi.Destination{}, fmt.Errorf("error retrieving MIDI destinations: %w", err)
	}
	if o.port.Name != "" {
		want := strings.ToLower(o.port.Name)
		for _, destination := range destinations {
			if strings.Contains(strings.ToLower(destination.Name()), want) {
				return destination, nil
			}
		}
		return coremidi.Destination{}, fmt.Errorf("%w: %q", ErrInvalidMIDIDevice, o.port.Name)
	}
	if o.port.Index < 0 || o.port.Index >= len(destinations) {
		o.logger.Error(ErrInvalidMIDIDevice.Error(), o.logger.Field().Int("index", o.port.Index))
		return coremidi.Destination{}, ErrInvalidMIDIDevice
	}
	return destinations[o.port.Index], nil
}

type connection struct {
	port        coremidi.OutputPort
	destination coremidi.Destination
}

// Send delivers msg immediately (timestamp 0 means now).
func (c *connection) Send(msg contracts.Message) error {
	packet := coremidi.NewPacket(msg[:], 0)
	return packet.Send(&c.port, &c.destination)
}

// Close is a no-op: the port lives as long as the CoreMIDI client.
func (c *connection) Close() error { return nil }
