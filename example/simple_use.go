package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/leandrodaf/evdev-midi/internal/input/inputlinux"
	"github.com/leandrodaf/evdev-midi/internal/logger"
	"github.com/leandrodaf/evdev-midi/internal/mapping"
	"github.com/leandrodaf/evdev-midi/sdk/contracts"
	"github.com/leandrodaf/evdev-midi/sdk/midi"
)

func main() {
	log := logger.NewDevelopmentLogger()

	if len(os.Args) != 2 {
		fmt.Println("usage: simple_use /dev/input/eventN")
		return
	}

	m, err := mapping.Builtin("traktor-x1")
	if err != nil {
		log.Error("Failed to load mapping", log.Field().Error("error", err))
		return
	}

	converter, err := midi.NewConverter(
		contracts.WithLogger(log),
		contracts.WithLogLevel(contracts.DebugLevel),
		contracts.WithOutputPort(contracts.OutputPortConfig{Virtual: true}),
		contracts.WithErrorHandler(func(err error) {
			fmt.Println("Dropped:", err)
		}),
	)
	if err != nil {
		log.Error("Failed to initialize converter", log.Field().Error("error", err))
		return
	}

	device, err := inputlinux.Open(os.Args[1], inputlinux.Options{Logger: log, Grab: true})
	if err != nil {
		log.Error("Failed to open input device", log.Field().Error("error", err))
		return
	}

	if err := converter.Start(device, m); err != nil {
		log.Error("Failed to start converter", log.Field().Error("error", err))
		_ = device.Close()
		return
	}

	fmt.Println("Converting input events to MIDI... Press Ctrl+C to exit.")
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	select {
	case <-interrupt:
	case <-converter.Done():
	}

	if err := converter.Stop(); err != nil {
		log.Error("Converter stopped with an error", log.Field().Error("error", err))
	}
}
