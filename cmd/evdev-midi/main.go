// Command evdev-midi turns a Linux input device into a MIDI controller.
//
//	evdev-midi [flags] <device> <mapping>
//
// device is an evdev node such as /dev/input/event5, or a JSON-lines
// recording of events. mapping is a JSON, YAML or TOML mapping file, or
// builtin:<name>. Type q and press enter to quit.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/leandrodaf/evdev-midi/internal/input/inputlinux"
	"github.com/leandrodaf/evdev-midi/internal/input/replay"
	"github.com/leandrodaf/evdev-midi/internal/logger"
	"github.com/leandrodaf/evdev-midi/internal/mapping"
	"github.com/leandrodaf/evdev-midi/sdk/contracts"
	"github.com/leandrodaf/evdev-midi/sdk/midi"
)

func main() {
	a := &app{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	os.Exit(a.run(os.Args[1:]))
}

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// options appended after the flag-derived ones
	options []contracts.Option
	log     contracts.Logger
}

type flags struct {
	logLevel  string
	logFile   string
	dev       bool
	port      string
	portIndex int
	virtual   bool
	grab      bool
	poll      time.Duration
	list      bool
	dump      bool
}

func (a *app) parse(args []string) (*flags, []string, error) {
	var f flags
	fs := flag.NewFlagSet("evdev-midi", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	fs.Usage = func() {
		fmt.Fprintln(a.stderr, "usage: evdev-midi [flags] <device> <mapping>")
		fmt.Fprintln(a.stderr, "       evdev-midi -list")
		fmt.Fprintln(a.stderr, "       evdev-midi -dump <mapping>")
		fs.PrintDefaults()
	}
	fs.StringVar(&f.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	fs.StringVar(&f.logFile, "log-file", "", "append logs to this file instead of stderr")
	fs.BoolVar(&f.dev, "dev", false, "human readable console logs")
	fs.StringVar(&f.port, "port", "", "MIDI output port name (case-insensitive substring)")
	fs.IntVar(&f.portIndex, "port-index", 0, "MIDI output port number, used when -port is empty")
	fs.BoolVar(&f.virtual, "virtual", false, "create a virtual MIDI output port instead of connecting to one")
	fs.BoolVar(&f.grab, "grab", false, "take exclusive access to the input device")
	fs.DurationVar(&f.poll, "poll", contracts.DefaultPollInterval, "pause between two polls of the input device")
	fs.BoolVar(&f.list, "list", false, "list input devices and MIDI output ports, then exit")
	fs.BoolVar(&f.dump, "dump", false, "print the mapping as JSON, then exit")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return &f, fs.Args(), nil
}

func (a *app) run(args []string) int {
	f, rest, err := a.parse(args)
	if err != nil {
		if err == flag.ErrHelp {
			return exitOK
		}
		return exitUsage
	}

	level, ok := contracts.ParseLogLevel(f.logLevel)
	if !ok {
		fmt.Fprintf(a.stderr, "unknown log level %q\n", f.logLevel)
		return exitUsage
	}
	if a.log == nil {
		if f.dev {
			a.log = logger.NewDevelopmentLogger()
		} else {
			a.log = logger.NewZapLogger()
		}
	}

	opts := []contracts.Option{
		contracts.WithLogger(a.log),
		contracts.WithLogLevel(level),
		contracts.WithLogFile(f.logFile),
		contracts.WithPollInterval(f.poll),
		contracts.WithOutputPort(contracts.OutputPortConfig{Name: f.port, Index: f.portIndex, Virtual: f.virtual}),
	}
	opts = append(opts, a.options...)

	switch {
	case f.list:
		return a.list(opts)
	case f.dump:
		if len(rest) != 1 {
			fmt.Fprintln(a.stderr, "-dump takes exactly one mapping path")
			return exitUsage
		}
		return a.dump(rest[0])
	}

	switch len(rest) {
	case 0:
		fmt.Fprintln(a.stderr, "No argument provided. Need a device path (/dev/input/event*) and a mapping path.")
		return exitUsage
	case 1:
		fmt.Fprintln(a.stderr, "Missing mapping path.")
		return exitUsage
	case 2:
	default:
		fmt.Fprintln(a.stderr, "Too many arguments provided.")
		return exitUsage
	}

	if err := a.convert(rest[0], rest[1], f.grab, opts); err != nil {
		a.log.Error("Converter failed", a.log.Field().Error("error", err))
		return exitError
	}
	return exitOK
}

func (a *app) convert(devicePath, mappingPath string, grab bool, opts []contracts.Option) error {
	m, err := mapping.Load(mappingPath)
	if err != nil {
		return err
	}

	source, err := a.openSource(devicePath, grab, m)
	if err != nil {
		return err
	}
	converter, err := midi.NewConverter(opts...)
	if err != nil {
		_ = source.Close()
		return err
	}
	if err := converter.Start(source, m); err != nil {
		_ = source.Close()
		return err
	}

	fmt.Fprintln(a.stdout, "Polling new events. Type q and press enter to quit.")
	a.waitForQuit(converter)
	return converter.Stop()
}

// openSource opens an evdev node, or a recording when path is a regular file.
func (a *app) openSource(path string, grab bool, m *contracts.Mapping) (contracts.EventSource, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Mode().IsRegular() {
		a.log.Info("Replaying recorded events", a.log.Field().String("path", path))
		return replay.Open(path)
	}

	dev, err := inputlinux.Open(path, inputlinux.Options{Logger: a.log, Grab: grab})
	if err != nil {
		return nil, err
	}
	if m.DeviceName() != "" && dev.Name() != m.DeviceName() {
		a.log.Warn("Mapping was written for another device",
			a.log.Field().String("mappingDevice", m.DeviceName()),
			a.log.Field().String("openedDevice", dev.Name()))
	}
	return dev, nil
}

// readLines forwards stdin lines until stdin ends or done is closed. A read
// blocked on stdin still holds the goroutine until the next line arrives.
func (a *app) readLines(lines chan<- string, done <-chan struct{}) {
	defer close(lines)
	scanner := bufio.NewScanner(a.stdin)
	for scanner.Scan() {
		select {
		case lines <- scanner.Text():
		case <-done:
			return
		}
	}
}

// waitForQuit returns when the user types q, a termination signal arrives or
// the converter stops on its own.
func (a *app) waitForQuit(converter *midi.Converter) {
	lines := make(chan string)
	done := make(chan struct{})
	defer close(done)
	go a.readLines(lines, done)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signals)

	for {
		select {
		case line, ok := <-lines:
			if !ok {
				// stdin closed: keep running until signalled
				lines = nil
				continue
			}
			if strings.TrimSpace(line) == "q" {
				return
			}
		case sig := <-signals:
			a.log.Info("Received signal", a.log.Field().String("signal", sig.String()))
			return
		case <-converter.Done():
			return
		}
	}
}

func (a *app) list(opts []contracts.Option) int {
	status := exitOK

	fmt.Fprintln(a.stdout, "Input devices:")
	inputs, err := inputlinux.ListDevices()
	if err != nil {
		fmt.Fprintf(a.stdout, "  unavailable: %v\n", err)
		status = exitError
	}
	for _, d := range inputs {
		fmt.Fprintf(a.stdout, "  %s: %s\n", d.EntityName, d.Name)
	}

	fmt.Fprintln(a.stdout, "MIDI outputs:")
	outputs, err := midi.ListOutputs(opts...)
	if err != nil {
		fmt.Fprintf(a.stdout, "  unavailable: %v\n", err)
		status = exitError
	}
	for i, d := range outputs {
		fmt.Fprintf(a.stdout, "  %d: %s\n", i, d.Name)
	}

	fmt.Fprintf(a.stdout, "Built-in mappings: %s\n", strings.Join(mapping.BuiltinNames(), ", "))
	return status
}

func (a *app) dump(path string) int {
	m, err := mapping.Load(path)
	if err != nil {
		fmt.Fprintln(a.stderr, err)
		return exitError
	}
	data, err := mapping.Marshal(m)
	if err != nil {
		fmt.Fprintln(a.stderr, err)
		return exitError
	}
	fmt.Fprintln(a.stdout, string(data))
	return exitOK
}
