package contracts

import "time"

// Defaults applied when the corresponding option is not set.
const (
	DefaultPollInterval   = 5 * time.Millisecond
	DefaultClientName     = "evdev-midi"
	DefaultConnectionName = "evdev-midi-controller"
)

// OutputPortConfig selects the MIDI output port to connect to.
type OutputPortConfig struct {
	Name    string // Case-insensitive substring of the port name. Empty selects by Index.
	Index   int    // Port number, used when Name is empty.
	Virtual bool   // Create a virtual output port named after the connection instead.
}

// ClientOptions defines the configuration options for the converter.
type ClientOptions struct {
	Logger         Logger           // Logger for logging events and errors.
	LogLevel       LogLevel         // Level of logging to use.
	LogFilePath    string           // File path for logging if file logging is enabled.
	PollInterval   time.Duration    // Pause between two polls of the event source.
	ClientName     string           // Name the process registers with the MIDI system.
	ConnectionName string           // Identity used when opening the output connection.
	OutputPort     OutputPortConfig // Output port selection.
	MIDIOutput     MIDIOutput       // Overrides the platform MIDI output.
	ErrorHandler   func(error)      // Called for every dropped event, from the worker goroutine.
}

// Option is a function that modifies ClientOptions.
type Option func(*ClientOptions)

// WithLogger sets the logger for the converter.
func WithLogger(l Logger) Option {
	return func(opts *ClientOptions) {
		opts.Logger = l
	}
}

// WithLogLevel sets the logging level.
func WithLogLevel(level LogLevel) Option {
	return func(opts *ClientOptions) {
		opts.LogLevel = level
	}
}

// WithLogFile sends log output to path.
func WithLogFile(path string) Option {
	return func(opts *ClientOptions) {
		opts.LogFilePath = path
	}
}

// WithPollInterval sets the pause between two polls of the event source.
func WithPollInterval(d time.Duration) Option {
	return func(opts *ClientOptions) {
		opts.PollInterval = d
	}
}

// WithClientName sets the name registered with the MIDI system.
func WithClientName(name string) Option {
	return func(opts *ClientOptions) {
		opts.ClientName = name
	}
}

// WithConnectionName sets the identity of the output connection.
func WithConnectionName(name string) Option {
	return func(opts *ClientOptions) {
		opts.ConnectionName = name
	}
}

// WithOutputPort selects the MIDI output port.
func WithOutputPort(port OutputPortConfig) Option {
	return func(opts *ClientOptions) {
		opts.OutputPort = port
	}
}

// WithMIDIOutput replaces the platform MIDI output.
func WithMIDIOutput(out MIDIOutput) Option {
	return func(opts *ClientOptions) {
		opts.MIDIOutput = out
	}
}

// WithErrorHandler registers a callback for dropped events.
func WithErrorHandler(fn func(error)) Option {
	return func(opts *ClientOptions) {
		opts.ErrorHandler = fn
	}
}
