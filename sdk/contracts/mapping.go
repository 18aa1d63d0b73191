package contracts

// Mapping associates input event codes with MIDI controller or note numbers.
// A Mapping is immutable once built and safe for concurrent reads.
type Mapping struct {
	deviceName string
	codes      map[uint16]uint8
}

// NewMapping builds a Mapping from a copy of codes.
func NewMapping(deviceName string, codes map[uint16]uint8) *Mapping {
	m := &Mapping{
		deviceName: deviceName,
		codes:      make(map[uint16]uint8, len(codes)),
	}
	for code, controller := range codes {
		m.codes[code] = controller
	}
	return m
}

// DeviceName is the name of the device the mapping was written for.
func (m *Mapping) DeviceName() string { return m.deviceName }

// Controller returns the controller mapped to code.
func (m *Mapping) Controller(code uint16) (uint8, bool) {
	controller, ok := m.codes[code]
	return controller, ok
}

// Len returns the number of mapped codes.
func (m *Mapping) Len() int { return len(m.codes) }

// Codes returns a copy of the code table.
func (m *Mapping) Codes() map[uint16]uint8 {
	out := make(map[uint16]uint8, len(m.codes))
	for code, controller := range m.codes {
		out[code] = controller
	}
	return out
}
