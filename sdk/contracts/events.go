package contracts

import "time"

// EventKind tells whether a scheduled event starts or releases its pitches.
type EventKind int

const (
	EventNoteOn EventKind = iota
	EventNoteOff
)

func (k EventKind) String() string {
	if k == EventNoteOff {
		return "off"
	}
	return "on"
}

// Command returns the channel voice command that carries events of this kind.
func (k EventKind) Command() MIDICommand {
	if k == EventNoteOff {
		return NoteOff
	}
	return NoteOn
}

// ScheduledEvent is one timed batch of simultaneous note-on or note-off
// commands produced by the playback mapper.
type ScheduledEvent struct {
	At       time.Duration `json:"at"`       // Offset from the moment playback was requested.
	Channel  uint8         `json:"channel"`  // MIDI channel, 0-based.
	Pitches  []uint8       `json:"pitches"`  // MIDI note numbers sounding together.
	Velocity uint8         `json:"velocity"` // Zero for note-off batches.
	Kind     EventKind     `json:"kind"`
}

// Timer is a pending callback created by a Clock.
type Timer interface {
	// Stop prevents the callback from firing. It reports false when the
	// callback already ran or was stopped before.
	Stop() bool
}

// Clock schedules callbacks. The playback mapper uses it for every delayed
// note-on and note-off so that tests can drive time by hand.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}
