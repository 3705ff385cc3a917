package playback

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/leandrodaf/fifths/sdk/theory"
)

var (
	// ErrMalformedNoteName is returned for strings that are not a letter A-G,
	// an optional '#' or 'b' and an optional (possibly negative) octave.
	ErrMalformedNoteName = errors.New("malformed note name")
	// ErrPitchOutOfRange is returned when a note falls outside MIDI 0..127.
	ErrPitchOutOfRange = errors.New("pitch out of MIDI range")
)

// Pitch is a MIDI note number: (octave+1)*12 + semitone, middle C is 60.
type Pitch int

const (
	// MiddleC is C4, also the fallback of ResolvePitch.
	MiddleC Pitch = 60
	// DefaultOctave applies to note names written without an octave.
	DefaultOctave = 4

	minPitch Pitch = 0
	maxPitch Pitch = 127

	minOctave = -2
	maxOctave = 10
)

var noteNamePattern = regexp.MustCompile(`^([A-G][#b]?)(-?\d+)?$`)

// ParsePitch converts a note name such as "C4", "Db3" or "F#" to a pitch.
// Names without an octave are placed in DefaultOctave.
func ParsePitch(name string) (Pitch, error) {
	return ParsePitchInOctave(name, DefaultOctave)
}

// ParsePitchInOctave is ParsePitch with an explicit default octave.
func ParsePitchInOctave(name string, defaultOctave int) (Pitch, error) {
	m := noteNamePattern.FindStringSubmatch(name)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedNoteName, name)
	}

	octave := defaultOctave
	if m[2] != "" {
		n, err := strconv.Atoi(m[2])
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %v", ErrMalformedNoteName, name, err)
		}
		octave = n
	}

	// Octaves outside this window cannot hold a MIDI note and could
	// overflow the arithmetic below.
	if octave < minOctave || octave > maxOctave {
		return 0, fmt.Errorf("%w: %q has octave %d", ErrPitchOutOfRange, name, octave)
	}

	semitone, shift, ok := theory.Semitone(m[1])
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrMalformedNoteName, name)
	}

	p := Pitch((octave+shift+1)*12 + semitone)
	if !p.Valid() {
		return 0, fmt.Errorf("%w: %q is %d", ErrPitchOutOfRange, name, int(p))
	}
	return p, nil
}

// ResolvePitch never fails: names that cannot be parsed, or that land
// outside the MIDI range, resolve to MiddleC. Use ParsePitch to get the error.
func ResolvePitch(name string) Pitch {
	p, err := ParsePitch(name)
	if err != nil {
		return MiddleC
	}
	return p
}

// Valid reports whether p is a MIDI note number.
func (p Pitch) Valid() bool {
	return p >= minPitch && p <= maxPitch
}

// Name spells a valid pitch with sharps and its octave, 61 -> "C#4".
func (p Pitch) Name() string {
	if !p.Valid() {
		return strconv.Itoa(int(p))
	}
	return theory.SharpNames[int(p)%12] + strconv.Itoa(int(p)/12-1)
}
