package playback

import (
	"time"

	"github.com/leandrodaf/fifths/internal/logger"
	"github.com/leandrodaf/fifths/sdk/contracts"
)

// Playback defaults.
const (
	DefaultVelocity            uint8 = 100
	DefaultNoteDuration              = 500 * time.Millisecond
	DefaultChordDuration             = 1500 * time.Millisecond
	DefaultProgressionStep           = 1000 * time.Millisecond
	DefaultProgressionVelocity uint8 = 90
	// ProgressionGap is the silence left between consecutive progression chords.
	ProgressionGap = 100 * time.Millisecond
)

// DefaultControllers are sent once when the device is initialised: volume
// 100, reverb depth 40, pan centred.
var DefaultControllers = []contracts.ControllerSetting{
	{Controller: contracts.ControllerVolume, Value: 100},
	{Controller: contracts.ControllerReverbDepth, Value: 40},
	{Controller: contracts.ControllerPan, Value: 64},
}

// applyDefaultOptions fills in whatever the caller left unset.
func applyDefaultOptions(opts ...contracts.PlayerOption) contracts.PlayerOptions {
	options := contracts.PlayerOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	if options.Logger == nil {
		options.Logger = logger.NewZapLogger()
	}
	if options.Clock == nil {
		options.Clock = SystemClock()
	}
	if options.InitControllers == nil {
		options.InitControllers = DefaultControllers
	}
	return options
}

// PlayOption adjusts a single playback request.
type PlayOption func(*playSettings)

type playSettings struct {
	velocity uint8
	duration time.Duration
	step     time.Duration
}

// WithVelocity sets the note-on velocity (1-127).
func WithVelocity(v uint8) PlayOption {
	return func(s *playSettings) {
		s.velocity = v & 0x7F
	}
}

// WithDuration sets how long a note or chord sounds.
func WithDuration(d time.Duration) PlayOption {
	return func(s *playSettings) {
		s.duration = d
	}
}

// WithStep sets the time between progression chords.
func WithStep(d time.Duration) PlayOption {
	return func(s *playSettings) {
		s.step = d
	}
}

func settings(velocity uint8, duration time.Duration, opts []PlayOption) playSettings {
	s := playSettings{velocity: velocity, duration: duration, step: DefaultProgressionStep}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}
