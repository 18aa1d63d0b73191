package contracts

// MIDICommand is the status byte of a channel voice message on channel 1.
type MIDICommand byte

const (
	// NoteOff is the MIDI command for a Note Off event (0x80).
	NoteOff MIDICommand = 0x80
	// NoteOn is the MIDI command for a Note On event (0x90).
	NoteOn MIDICommand = 0x90
	// ControlChange is the MIDI command for a Control Change event (0xB0).
	ControlChange MIDICommand = 0xB0
)

// Velocities used for button presses and releases.
const (
	VelocityMin byte = 0
	VelocityMax byte = 127
)

// Message is a 3-byte MIDI message: status, controller (or note), value.
type Message [3]byte

// Command returns the status byte as a MIDICommand.
func (m Message) Command() MIDICommand { return MIDICommand(m[0]) }

// Controller returns the controller or note number.
func (m Message) Controller() byte { return m[1] }

// Value returns the velocity or controller value.
func (m Message) Value() byte { return m[2] }

// Connection is an open MIDI output.
type Connection interface {
	Send(msg Message) error
	Close() error
}

// MIDIOutput discovers output ports and opens connections to them.
type MIDIOutput interface {
	ListDevices() ([]DeviceInfo, error) // Lists all available MIDI output ports.
	Open(identity string) (Connection, error)
}
