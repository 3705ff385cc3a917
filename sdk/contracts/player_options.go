package contracts

// ControllerSetting is one controller value applied when a channel is initialised.
type ControllerSetting struct {
	Controller uint8
	Value      uint8
}

// PlayerOptions configures a playback mapper.
type PlayerOptions struct {
	Logger          Logger
	Clock           Clock
	Channel         uint8                 // Primary channel for notes and program changes.
	Program         uint8                 // Instrument selected at initialisation.
	InitControllers []ControllerSetting   // Sent once after SystemReset.
	EventSink       chan<- ScheduledEvent // Receives every batch as it is sent to the device.
}

// PlayerOption is a function that modifies PlayerOptions.
type PlayerOption func(*PlayerOptions)

// WithPlayerLogger sets the logger of the playback mapper.
func WithPlayerLogger(l Logger) PlayerOption {
	return func(opts *PlayerOptions) {
		opts.Logger = l
	}
}

// WithClock replaces the wall clock used to schedule note events.
func WithClock(c Clock) PlayerOption {
	return func(opts *PlayerOptions) {
		opts.Clock = c
	}
}

// WithChannel sets the primary MIDI channel (0-15).
func WithChannel(ch uint8) PlayerOption {
	return func(opts *PlayerOptions) {
		opts.Channel = ch & 0x0F
	}
}

// WithProgram sets the instrument selected when the device is initialised.
func WithProgram(program uint8) PlayerOption {
	return func(opts *PlayerOptions) {
		opts.Program = program & 0x7F
	}
}

// WithInitControllers replaces the controller defaults sent at initialisation.
func WithInitControllers(settings ...ControllerSetting) PlayerOption {
	return func(opts *PlayerOptions) {
		opts.InitControllers = settings
	}
}

// WithEventSink forwards every sent batch to ch. Sends never block; events are
// dropped when ch is full.
func WithEventSink(ch chan<- ScheduledEvent) PlayerOption {
	return func(opts *PlayerOptions) {
		opts.EventSink = ch
	}
}
