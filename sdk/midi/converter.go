package midi

import (
	"io"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/leandrodaf/evdev-midi/internal/dispatch"
	"github.com/leandrodaf/evdev-midi/sdk/contracts"
)

// Converter runs one dispatcher goroutine that turns input events into MIDI.
//
// A Converter is single use: Start it once, Stop it once. Restarting requires
// a new Converter.
type Converter struct {
	id         uuid.UUID
	options    contracts.ClientOptions
	logger     contracts.Logger
	ownsOutput bool // the output was created by NewConverter and is closed with the worker

	mu      sync.Mutex // guards started and stopped
	started bool
	stopped bool

	running atomic.Bool   // cleared by Stop, polled by the worker once per batch
	done    chan struct{} // closed when the worker has returned
	err     error         // worker result, written before done is closed
}

func newConverter(options contracts.ClientOptions) *Converter {
	return &Converter{
		id:      uuid.New(),
		options: options,
		logger:  options.Logger,
		done:    make(chan struct{}),
	}
}

// ID identifies this converter in log output.
func (c *Converter) ID() string { return c.id.String() }

// Start hands source and mapping to a new worker goroutine and returns
// immediately. The caller must not use source after Start succeeds.
func (c *Converter) Start(source contracts.EventSource, mapping *contracts.Mapping) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.stopped:
		return contracts.ErrStopped
	case c.started:
		return contracts.ErrAlreadyStarted
	}
	c.started = true
	c.running.Store(true)

	d := dispatch.New(dispatch.Config{
		Source:       source,
		Mapping:      mapping,
		Output:       c.options.MIDIOutput,
		Identity:     c.options.ConnectionName,
		PollInterval: c.options.PollInterval,
		Logger:       c.logger,
		ErrorHandler: c.options.ErrorHandler,
	})

	c.logger.Info("Starting converter",
		c.logger.Field().String("converterID", c.ID()),
		c.logger.Field().String("deviceName", mapping.DeviceName()),
		c.logger.Field().Int64("pollIntervalMicros", c.options.PollInterval.Microseconds()))

	go c.work(d)
	return nil
}

// work runs the dispatcher and records how it ended. A panic is converted to
// a JoinError so Stop can report it instead of crashing the process.
func (c *Converter) work(d *dispatch.Dispatcher) {
	defer close(c.done)
	defer c.closeOutput()
	defer func() {
		if r := recover(); r != nil {
			c.err = &contracts.JoinError{Value: r}
			c.logger.Error("Converter worker panicked",
				c.logger.Field().String("converterID", c.ID()),
				c.logger.Field().Error("error", c.err))
		}
	}()
	c.err = d.Run(&c.running)
	c.running.Store(false)
}

func (c *Converter) closeOutput() {
	if !c.ownsOutput {
		return
	}
	if closer, ok := c.options.MIDIOutput.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			c.logger.Warn("Failed to close MIDI output", c.logger.Field().Error("error", err))
		}
	}
}

// Done is closed once the worker has returned, whether it was stopped or failed.
func (c *Converter) Done() <-chan struct{} { return c.done }

// Err returns the worker result once Done is closed, nil before that.
func (c *Converter) Err() error {
	select {
	case <-c.done:
		return c.err
	default:
		return nil
	}
}

// Stop signals the worker to stop and waits for it. It returns the worker's
// error: a wrapped ErrSinkInit or ErrSourceRead if the worker failed on its
// own, a *contracts.JoinError if it panicked, nil after a clean stop.
func (c *Converter) Stop() error {
	c.mu.Lock()
	switch {
	case c.stopped:
		c.mu.Unlock()
		return contracts.ErrStopped
	case !c.started:
		c.mu.Unlock()
		return contracts.ErrNotStarted
	}
	c.stopped = true
	c.mu.Unlock()

	c.logger.Info("Stopping converter", c.logger.Field().String("converterID", c.ID()))
	c.running.Store(false)
	<-c.done

	if c.err != nil {
		c.logger.Warn("Converter worker ended with an error",
			c.logger.Field().String("converterID", c.ID()),
			c.logger.Field().Error("error", c.err))
	}
	return c.err
}
