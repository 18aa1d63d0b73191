package contracts

// DeviceInfo describes an input device or a MIDI output port.
type DeviceInfo struct {
	Name         string // Device name.
	Manufacturer string // Device manufacturer, when the platform reports one.
	EntityName   string // Entity (CoreMIDI) or device node path (evdev).
}
