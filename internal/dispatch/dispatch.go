// Package dispatch runs the poll, convert and send loop.
package dispatch

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"

	"github.com/leandrodaf/evdev-midi/internal/convert"
	"github.com/leandrodaf/evdev-midi/sdk/contracts"
)

// Config holds everything a Dispatcher needs. Source, Mapping and Output are
// owned by the dispatcher for the lifetime of Run.
type Config struct {
	Source       contracts.EventSource
	Mapping      *contracts.Mapping
	Output       contracts.MIDIOutput
	Identity     string
	PollInterval time.Duration
	Logger       contracts.Logger
	ErrorHandler func(error)
}

// Dispatcher drains an event source, translates each event and sends it.
type Dispatcher struct {
	cfg Config
}

// New returns a Dispatcher for cfg.
func New(cfg Config) *Dispatcher {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = contracts.DefaultPollInterval
	}
	return &Dispatcher{cfg: cfg}
}

// Run opens the output and polls until running is cleared or the source fails.
//
// The flag is checked once per batch, never in the middle of one. Translation
// and send failures are reported and skipped. Run returns nil after a
// requested stop, an ErrSinkInit error if the output cannot be opened and an
// ErrSourceRead error if the source fails. The source and the connection are
// closed before Run returns.
func (d *Dispatcher) Run(running *atomic.Bool) error {
	log := d.cfg.Logger
	defer func() {
		if cerr := d.cfg.Source.Close(); cerr != nil {
			log.Warn("Failed to close event source", log.Field().Error("error", cerr))
		}
	}()

	conn, err := d.cfg.Output.Open(d.cfg.Identity)
	if err != nil {
		log.Error("Could not create MIDI transmitter",
			log.Field().String("identity", d.cfg.Identity),
			log.Field().Error("error", err))
		return fmt.Errorf("%w: %w", contracts.ErrSinkInit, err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Warn("Failed to close MIDI connection", log.Field().Error("error", cerr))
		}
	}()

	log.Info("Polling new events. Press q to quit!",
		log.Field().String("identity", d.cfg.Identity),
		log.Field().Int("mappedCodes", d.cfg.Mapping.Len()))

	var msg contracts.Message
	for running.Load() {
		events, err := d.cfg.Source.ReadBatch()
		for _, ev := range events {
			if ev.Type == contracts.EventSync {
				continue
			}
			d.dispatch(conn, ev, &msg)
		}
		if err != nil {
			log.Error("Could not read input events",
				log.Field().Int("dispatchedBeforeError", len(events)),
				log.Field().Error("error", err))
			return fmt.Errorf("%w: %w", contracts.ErrSourceRead, err)
		}
		time.Sleep(d.cfg.PollInterval)
	}

	log.Info("Stopped polling events")
	return nil
}

// dispatch converts and sends a single event. Failures are reported, never returned.
func (d *Dispatcher) dispatch(conn contracts.Connection, ev contracts.RawInputEvent, msg *contracts.Message) {
	if err := convert.EventToMIDI(d.cfg.Mapping, ev, msg); err != nil {
		d.report("Could not convert event", ev, err)
		return
	}
	if err := conn.Send(*msg); err != nil {
		var serr *contracts.SendError
		if !errors.As(err, &serr) {
			err = &contracts.SendError{Event: ev, Message: *msg, Err: err}
		}
		d.report("Could not send event", ev, err)
		return
	}

	log := d.cfg.Logger
	log.Debug("MIDI message sent",
		log.Field().String("message", gomidi.Message(msg[:]).String()),
		log.Field().Uint16("type", ev.Type),
		log.Field().Uint16("code", ev.Code),
		log.Field().Int32("value", ev.Value))
}

func (d *Dispatcher) report(msg string, ev contracts.RawInputEvent, err error) {
	log := d.cfg.Logger
	log.Warn(msg,
		log.Field().Error("error", err),
		log.Field().Uint16("type", ev.Type),
		log.Field().Uint16("code", ev.Code),
		log.Field().Int32("value", ev.Value))
	if d.cfg.ErrorHandler != nil {
		d.cfg.ErrorHandler(err)
	}
}
