package theory

// SharpNames lists the twelve pitch classes from C, spelled with sharps.
var SharpNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

type alias struct {
	name   string
	octave int // added to the written octave, Cb4 sounds as B3
}

// aliases folds flats and the rare enharmonics onto the sharp spelling.
var aliases = map[string]alias{
	"Db": {"C#", 0},
	"Eb": {"D#", 0},
	"Gb": {"F#", 0},
	"Ab": {"G#", 0},
	"Bb": {"A#", 0},
	"Cb": {"B", -1},
	"Fb": {"E", 0},
	"E#": {"F", 0},
	"B#": {"C", 1},
}

var semitones = map[string]int{
	"C": 0, "C#": 1, "D": 2, "D#": 3, "E": 4, "F": 5,
	"F#": 6, "G": 7, "G#": 8, "A": 9, "A#": 10, "B": 11,
}

// Normalize returns the sharp spelling of a pitch-class name. Names it does
// not know are returned unchanged.
func Normalize(name string) string {
	if a, ok := aliases[name]; ok {
		return a.name
	}
	return name
}

// Semitone returns the offset of a pitch-class name above C together with the
// octave correction its spelling implies (Cb belongs to the octave below, B#
// to the one above).
func Semitone(name string) (semitone, octaveShift int, ok bool) {
	shift := 0
	if a, found := aliases[name]; found {
		name, shift = a.name, a.octave
	}
	s, ok := semitones[name]
	if !ok {
		return 0, 0, false
	}
	return s, shift, true
}
