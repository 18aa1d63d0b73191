//go:build windows
// +build windows

package midiwindows

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"unsafe"

	"github.com/leandrodaf/evdev-midi/sdk/contracts"
	"golang.org/x/sys/windows"
)

// Type definitions for MIDI handles
type HMIDIOUT windows.Handle

// CALLBACK_NULL opens a device without a completion callback.
const CALLBACK_NULL = 0x00000000

// MMSYSERR_NOERROR is the success return of every winmm call.
const MMSYSERR_NOERROR = 0

// Struct representing MIDI output device capabilities (MIDIOUTCAPSW)
type midiOutCaps struct {
	wMid           uint16
	wPid           uint16
	vDriverVersion uint32
	szPname        [32]uint16
	wTechnology    uint16
	wVoices        uint16
	wNotes         uint16
	wChannelMask   uint16
	dwSupport      uint32
}

// Error definitions for winmm output issues.
var (
	ErrNoMIDIDevices       = errors.New("no MIDI output devices found")
	ErrInvalidMIDIDevice   = errors.New("invalid MIDI output device")
	ErrVirtualNotSupported = errors.New("virtual output ports are not supported by winmm")
)

// Load the winmm.dll library and required functions
var (
	winmm                 = windows.NewLazySystemDLL("winmm.dll")
	procMidiOutGetNumDevs = winmm.NewProc("midiOutGetNumDevs")
	procMidiOutGetDevCaps = winmm.NewProc("midiOutGetDevCapsW")
	procMidiOutOpen       = winmm.NewProc("midiOutOpen")
	procMidiOutShortMsg   = winmm.NewProc("midiOutShortMsg")
	procMidiOutReset      = winmm.NewProc("midiOutReset")
	procMidiOutClose      = winmm.NewProc("midiOutClose")
)

// Output manages winmm MIDI output devices.
type Output struct {
	logger contracts.Logger
	port   contracts.OutputPortConfig
	mu     sync.Mutex
}

// NewMIDIOutput creates a MIDI output for Windows
func NewMIDIOutput(options *contracts.ClientOptions) (contracts.MIDIOutput, error) {
	if err := winmm.Load(); err != nil {
		return nil, fmt.Errorf("load winmm.dll: %w", err)
	}
	options.Logger.Info("MIDI output created for Windows")

	return &Output{
		logger: options.Logger,
		port:   options.OutputPort,
	}, nil
}

// ListDevices lists the available MIDI output devices
func (o *Output) ListDevices() ([]contracts.DeviceInfo, error) {
	r0, _, _ := procMidiOutGetNumDevs.Call()
	numDevices := uint32(r0)
	if numDevices == 0 {
		o.logger.Warn("No MIDI output devices found")
		return nil, ErrNoMIDIDevices
	}

	devices := make([]contracts.DeviceInfo, 0, numDevices)
	for i := uint32(0); i < numDevices; i++ {
		caps, err := deviceCaps(i)
		if err != nil {
			o.logger.Warn("Failed to get information for MIDI device",
				o.logger.Field().Int("deviceID", int(i)),
				o.logger.Field().Error("error", err))
			continue
		}
		deviceName := windows.UTF16ToString(caps.szPname[:])
		devices = append(devices, contracts.DeviceInfo{
			Name:         deviceName,
			EntityName:   fmt.Sprintf("port %d", i),
			Manufacturer: fmt.Sprintf("MID: %d PID: %d", caps.wMid, caps.wPid),
		})
	}
	return devices, nil
}

func deviceCaps(id uint32) (midiOutCaps, error) {
	var caps midiOutCaps
	r1, _, _ := procMidiOutGetDevCaps.Call(
		uintptr(id),
		uintptr(unsafe.Pointer(&caps)),
		unsafe.Sizeof(caps),
	)
	if r1 != MMSYSERR_NOERROR {
		return caps, fmt.Errorf("midiOutGetDevCapsW returned %d", r1)
	}
	return caps, nil
}

// Open opens the configured output device. identity only shows up in logs,
// winmm has no notion of connection names.
func (o *Output) Open(identity string) (contracts.Connection, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.port.Virtual {
		return nil, ErrVirtualNotSupported
	}

	deviceID, err := o.selectDevice()
	if err != nil {
		return nil, err
	}

	var handle HMIDIOUT
	r1, _, _ := procMidiOutOpen.Call(
		uintptr(unsafe.Pointer(&handle)),
		uintptr(deviceID),
		0,
		0,
		CALLBACK_NULL,
	)
	if r1 != MMSYSERR_NOERROR {
		o.logger.Error("Failed to open MIDI device", o.logger.Field().Int("deviceID", int(deviceID)))
		return nil, fmt.Errorf("%w: midiOutOpen(%d) returned %d", ErrInvalidMIDIDevice, deviceID, r1)
	}

	o.logger.Info("MIDI device connected",
		o.logger.Field().Int("deviceID", int(deviceID)),
		o.logger.Field().String("identity", identity))
	return &connection{handle: handle}, nil
}

func (o *Output) selectDevice() (uint32, error) {
	r0, _, _ := procMidiOutGetNumDevs.Call()
	numDevices := uint32(r0)
	if numDevices == 0 {
		return 0, ErrNoMIDIDevices
	}
	if o.port.Name != "" {
		want := strings.ToLower(o.port.Name)
		for i := uint32(0); i < numDevices; i++ {
			caps, err := deviceCaps(i)
			if err != nil {
				continue
			}
			if strings.Contains(strings.ToLower(windows.UTF16ToString(caps.szPname[:])), want) {
				return i, nil
			}
		}
		return 0, fmt.Errorf("%w: %q", ErrInvalidMIDIDevice, o.port.Name)
	}
	if o.port.Index < 0 || uint32(o.port.Index) >= numDevices {
		return 0, fmt.Errorf("%w: index %d, have %d devices", ErrInvalidMIDIDevice, o.port.Index, numDevices)
	}
	return uint32(o.port.Index), nil
}

type connection struct {
	mu     sync.Mutex
	handle HMIDIOUT
}

// Send packs the three bytes into a short message: status | data1<<8 | data2<<16.
func (c *connection) Send(msg contracts.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.handle == 0 {
		return fmt.Errorf("invalid MIDI device handle")
	}
	packed := uint32(msg[0]) | uint32(msg[1])<<8 | uint32(msg[2])<<16
	r1, _, _ := procMidiOutShortMsg.Call(uintptr(c.handle), uintptr(packed))
	if r1 != MMSYSERR_NOERROR {
		return fmt.Errorf("midiOutShortMsg returned %d", r1)
	}
	return nil
}

// Close resets and releases the device.
func (c *connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.handle == 0 {
		return nil
	}
	procMidiOutReset.Call(uintptr(c.handle))
	r1, _, _ := procMidiOutClose.Call(uintptr(c.handle))
	c.handle = 0
	if r1 != MMSYSERR_NOERROR {
		return fmt.Errorf("midiOutClose returned %d", r1)
	}
	return nil
}
