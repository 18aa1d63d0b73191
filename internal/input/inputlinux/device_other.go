//go:build !linux
// +build !linux

// Package inputlinux reads input events from Linux evdev device nodes.
package inputlinux

import (
	"errors"

	"github.com/leandrodaf/evdev-midi/sdk/contracts"
)

// ErrUnsupported is returned on systems without evdev.
var ErrUnsupported = errors.New("evdev input is only available on Linux")

// Options configures Open.
type Options struct {
	Logger contracts.Logger
	Grab   bool
}

// Device is never constructed outside Linux.
type Device struct{}

func (d *Device) Name() string                                  { return "" }
func (d *Device) Path() string                                  { return "" }
func (d *Device) ReadBatch() ([]contracts.RawInputEvent, error) { return nil, ErrUnsupported }
func (d *Device) Close() error                                  { return nil }

// Open always fails outside Linux.
func Open(path string, opts Options) (*Device, error) {
	opts.Logger.Warn("evdev input requested on a non-Linux system", opts.Logger.Field().String("path", path))
	return nil, ErrUnsupported
}

// ListDevices always fails outside Linux.
func ListDevices() ([]contracts.DeviceInfo, error) {
	return nil, ErrUnsupported
}
