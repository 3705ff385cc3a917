package midi

import (
	"github.com/leandrodaf/fifths/internal/logger"
	"github.com/leandrodaf/fifths/sdk/contracts"
)

// applyDefaultOptions resolves the device configuration: a zap logger at
// info level writing to stderr (a caller's logger keeps its level unless
// WithLogLevel is given), or to LogFilePath when one is given, and a
// CoreMIDI client named "Fifths".
//
// Returns an error only when the log file cannot be opened.
func applyDefaultOptions(opts ...contracts.Option) (contracts.ClientOptions, error) {
	var options contracts.ClientOptions
	for _, opt := range opts {
		opt(&options)
	}

	if options.Logger == nil {
		options.Logger = logger.NewZapLogger()
		options.HasLogLevel = true
	}
	if options.CoreMIDIConfig == nil {
		options.CoreMIDIConfig = &contracts.CoreMIDIConfig{ClientName: "Fifths"}
	}

	if options.HasLogLevel {
		options.Logger.SetLevel(options.LogLevel)
	}
	if options.LogFilePath != "" {
		if err := options.Logger.SetDestination(contracts.FileLog, options.LogFilePath); err != nil {
			return contracts.ClientOptions{}, err
		}
	}
	return options, nil
}
