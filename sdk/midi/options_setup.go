package midi

import (
	"fmt"

	"github.com/leandrodaf/evdev-midi/internal/logger"
	"github.com/leandrodaf/evdev-midi/sdk/contracts"
)

// applyDefaultOptions sets default values for ClientOptions if not explicitly provided.
//
// opts ...contracts.Option: A variadic list of option functions that can modify ClientOptions.
//
// Returns:
//   - contracts.ClientOptions: A structure containing the finalized options with defaults applied.
//   - error: An error if the options are inconsistent.
func applyDefaultOptions(opts ...contracts.Option) (contracts.ClientOptions, error) {
	options := &contracts.ClientOptions{}
	for _, opt := range opts {
		opt(options)
	}

	if options.Logger == nil {
		options.Logger = logger.NewZapLogger()
	}
	if options.PollInterval < 0 {
		return contracts.ClientOptions{}, fmt.Errorf("poll interval must not be negative, got %s", options.PollInterval)
	}
	if options.PollInterval == 0 {
		options.PollInterval = contracts.DefaultPollInterval
	}
	if options.ClientName == "" {
		options.ClientName = contracts.DefaultClientName
	}
	if options.ConnectionName == "" {
		options.ConnectionName = contracts.DefaultConnectionName
	}
	if options.OutputPort.Index < 0 {
		return contracts.ClientOptions{}, fmt.Errorf("output port index must not be negative, got %d", options.OutputPort.Index)
	}

	options.Logger.SetLevel(options.LogLevel) // InfoLevel is the zero value
	if options.LogFilePath != "" {
		options.Logger.SetDestination(contracts.FileLog, options.LogFilePath)
	}
	return *options, nil
}
