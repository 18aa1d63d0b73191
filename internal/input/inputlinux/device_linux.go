//go:build linux
// +build linux

// Package inputlinux reads input events from Linux evdev device nodes.
package inputlinux

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/holoplot/go-evdev"
	"golang.org/x/sys/unix"

	"github.com/leandrodaf/evdev-midi/sdk/contracts"
)

// ErrDeviceGone is returned once the device has been unplugged.
var ErrDeviceGone = errors.New("input device disconnected")

// queueSize bounds the events buffered between the reader goroutine and ReadBatch.
const queueSize = 256

// Options configures Open.
type Options struct {
	Logger contracts.Logger
	Grab   bool // take exclusive access so other programs stop seeing the events
}

type eventReader interface {
	ReadOne() (*evdev.InputEvent, error)
	Close() error
}

// Device is a contracts.EventSource backed by /dev/input/event*.
type Device struct {
	logger contracts.Logger
	name   string
	path   string
	reader eventReader

	events    chan contracts.RawInputEvent
	errs      chan error
	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// Open opens the device node at path and starts reading from it.
func Open(path string, opts Options) (*Device, error) {
	dev, err := evdev.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input device %s: %w", path, err)
	}
	name, err := dev.Name()
	if err != nil {
		_ = dev.Close()
		return nil, fmt.Errorf("read name of %s: %w", path, err)
	}
	if opts.Grab {
		if err := dev.Grab(); err != nil {
			_ = dev.Close()
			return nil, fmt.Errorf("grab %s: %w", path, err)
		}
	}

	opts.Logger.Info("Input device opened",
		opts.Logger.Field().String("path", path),
		opts.Logger.Field().String("deviceName", name),
		opts.Logger.Field().Bool("grabbed", opts.Grab))
	return newDevice(dev, name, path, opts.Logger), nil
}

func newDevice(reader eventReader, name, path string, logger contracts.Logger) *Device {
	d := &Device{
		logger: logger,
		name:   name,
		path:   path,
		reader: reader,
		events: make(chan contracts.RawInputEvent, queueSize),
		errs:   make(chan error, 1),
		done:   make(chan struct{}),
	}
	go d.readLoop()
	return d
}

// Name is the name the kernel reports for the device.
func (d *Device) Name() string { return d.name }

// Path is the device node the events are read from.
func (d *Device) Path() string { return d.path }

// readLoop blocks on the device and forwards every event until the device
// fails or is closed.
func (d *Device) readLoop() {
	for {
		ev, err := d.reader.ReadOne()
		if err != nil {
			select {
			case <-d.done:
				return
			default:
			}
			if errors.Is(err, os.ErrClosed) {
				return
			}
			if errors.Is(err, unix.ENODEV) {
				err = fmt.Errorf("%w: %s: %w", ErrDeviceGone, d.path, err)
			}
			d.errs <- err
			return
		}

		select {
		case d.events <- contracts.RawInputEvent{Type: uint16(ev.Type), Code: uint16(ev.Code), Value: ev.Value}:
		case <-d.done:
			return
		}
	}
}

// ReadBatch returns every event read since the previous call without
// blocking. The read error, if any, is returned after all events that
// preceded it.
func (d *Device) ReadBatch() ([]contracts.RawInputEvent, error) {
	var batch []contracts.RawInputEvent
drain:
	for {
		select {
		case ev := <-d.events:
			batch = append(batch, ev)
		default:
			break drain
		}
	}
	if len(batch) > 0 {
		return batch, nil
	}

	select {
	case err := <-d.errs:
		// Keep reporting the failure on later calls.
		d.errs <- err
		return nil, err
	default:
		return nil, nil
	}
}

// Close stops the reader goroutine and closes the device. The grab, if any,
// is released by the kernel with the file.
func (d *Device) Close() error {
	d.closeOnce.Do(func() {
		close(d.done)
		d.closeErr = d.reader.Close()
		d.logger.Info("Input device closed", d.logger.Field().String("path", d.path))
	})
	return d.closeErr
}

// ListDevices enumerates the input devices the current user can see.
func ListDevices() ([]contracts.DeviceInfo, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return nil, fmt.Errorf("list input devices: %w", err)
	}
	devices := make([]contracts.DeviceInfo, len(paths))
	for i, p := range paths {
		devices[i] = contracts.DeviceInfo{Name: p.Name, EntityName: p.Path}
	}
	return devices, nil
}
