package contracts

import "gitlab.com/gomidi/midi/v2/drivers"

// CoreMIDIConfig holds configuration for CoreMIDI.
type CoreMIDIConfig struct {
	ClientName string // Name of the MIDI client.
	PortName   string // Name of the output port created on the client.
}

// ClientOptions defines the configuration options for a sound device.
type ClientOptions struct {
	Logger         Logger          // Logger for logging events and errors.
	LogLevel       LogLevel        // Level of logging to use.
	HasLogLevel    bool            // Set by WithLogLevel; a caller's logger keeps its level otherwise.
	LogFilePath    string          // File path for logging if file logging is enabled.
	PortName       string          // Output port looked up in the registered gomidi drivers.
	OutPort        drivers.Out     // Output port used as is, bypassing lookup.
	DeviceIndex    int             // Index of the native output when no port is named.
	CoreMIDIConfig *CoreMIDIConfig // Configuration specific to CoreMIDI.
}

// Option is a function that modifies ClientOptions.
type Option func(*ClientOptions)

// WithLogger sets the logger for the sound device.
func WithLogger(l Logger) Option {
	return func(opts *ClientOptions) {
		opts.Logger = l
	}
}

// WithLogLevel sets the logging level for the sound device.
func WithLogLevel(level LogLevel) Option {
	return func(opts *ClientOptions) {
		opts.LogLevel = level
		opts.HasLogLevel = true
	}
}

// WithLogFile sends the device logs to a file instead of the console.
func WithLogFile(path string) Option {
	return func(opts *ClientOptions) {
		opts.LogFilePath = path
	}
}

// WithPortName opens the output port whose name contains name, searching the
// drivers registered with gitlab.com/gomidi/midi/v2.
func WithPortName(name string) Option {
	return func(opts *ClientOptions) {
		opts.PortName = name
	}
}

// WithOutPort uses an already constructed output port.
func WithOutPort(out drivers.Out) Option {
	return func(opts *ClientOptions) {
		opts.OutPort = out
	}
}

// WithDeviceIndex selects the native output by position in the platform's list.
func WithDeviceIndex(index int) Option {
	return func(opts *ClientOptions) {
		opts.DeviceIndex = index
	}
}

// WithCoreMIDIConfig sets the CoreMIDI configuration for the sound device.
func WithCoreMIDIConfig(config CoreMIDIConfig) Option {
	return func(opts *ClientOptions) {
		opts.CoreMIDIConfig = &config
	}
}
