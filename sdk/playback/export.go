package playback

import (
	"fmt"
	"io"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// ExportOptions describes how a progression is written to a MIDI file.
type ExportOptions struct {
	Channel  uint8
	Program  uint8
	Velocity uint8
	Step     time.Duration
}

// exportTicks is the file resolution; at the fixed 60 BPM tempo one quarter
// note is one second, so a tick is 1000/960 ms.
const (
	exportTicks = 960
	exportBPM   = 60.0
)

func durationTicks(d time.Duration) uint32 {
	return uint32(d * exportTicks / time.Second)
}

// ExportProgression writes chords as a single-track Standard MIDI File using
// the same timing PlayProgression uses: one chord per step, released
// ProgressionGap before the next one, each pitch once per chord. Unreadable
// note names become middle C.
func ExportProgression(w io.Writer, chords [][]string, opts ExportOptions) error {
	if opts.Step == 0 {
		opts.Step = DefaultProgressionStep
	}
	if opts.Velocity == 0 {
		opts.Velocity = DefaultProgressionVelocity
	}
	if opts.Step <= ProgressionGap {
		return fmt.Errorf("%w: %s", ErrInvalidStep, opts.Step)
	}
	ch := opts.Channel & 0x0F
	hold := durationTicks(opts.Step - ProgressionGap)
	gap := durationTicks(ProgressionGap)

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(exportTicks)

	var track smf.Track
	track.Add(0, smf.MetaMeter(4, 4))
	track.Add(0, smf.MetaTempo(exportBPM))
	track.Add(0, midi.ProgramChange(ch, opts.Program&0x7F))

	var delta uint32
	for _, names := range chords {
		keys := distinctPitches(names, nil)
		if len(keys) == 0 {
			delta += hold + gap
			continue
		}
		for i, key := range keys {
			if i == 0 {
				track.Add(delta, midi.NoteOn(ch, key, opts.Velocity))
			} else {
				track.Add(0, midi.NoteOn(ch, key, opts.Velocity))
			}
		}
		for i, key := range keys {
			if i == 0 {
				track.Add(hold, midi.NoteOff(ch, key))
			} else {
				track.Add(0, midi.NoteOff(ch, key))
			}
		}
		delta = gap
	}
	track.Close(delta)

	if err := s.Add(track); err != nil {
		return fmt.Errorf("adding track: %w", err)
	}
	if _, err := s.WriteTo(w); err != nil {
		return fmt.Errorf("writing MIDI file: %w", err)
	}
	return nil
}
