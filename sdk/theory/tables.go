package theory

import (
	"errors"
	"fmt"
	"strings"
)

// CircleSize is the number of positions on the circle of fifths.
const CircleSize = 12

// ErrMissingScaleSpelling means a tonic on the circle has no curated scale.
// It is raised while the package initialises, never at query time.
var ErrMissingScaleSpelling = errors.New("missing scale spelling")

// Clockwise from C at twelve o'clock.
var outerNotes = [CircleSize]string{"C", "G", "D", "A", "E", "B", "Gb", "Db", "Ab", "Eb", "Bb", "F"}

// Relative minors, same key signature as outerNotes at the same index.
var innerNotes = [CircleSize]string{"Am", "Em", "Bm", "F#m", "C#m", "G#m", "Ebm", "Bbm", "Fm", "Cm", "Gm", "Dm"}

// scaleSpellings is written out by hand. Transposing C major by semitones
// would spell Gb major with a B instead of Cb.
var scaleSpellings = map[string][7]string{
	"C":  {"C", "D", "E", "F", "G", "A", "B"},
	"G":  {"G", "A", "B", "C", "D", "E", "F#"},
	"D":  {"D", "E", "F#", "G", "A", "B", "C#"},
	"A":  {"A", "B", "C#", "D", "E", "F#", "G#"},
	"E":  {"E", "F#", "G#", "A", "B", "C#", "D#"},
	"B":  {"B", "C#", "D#", "E", "F#", "G#", "A#"},
	"Gb": {"Gb", "Ab", "Bb", "Cb", "Db", "Eb", "F"},
	"Db": {"Db", "Eb", "F", "Gb", "Ab", "Bb", "C"},
	"Ab": {"Ab", "Bb", "C", "Db", "Eb", "F", "G"},
	"Eb": {"Eb", "F", "G", "Ab", "Bb", "C", "D"},
	"Bb": {"Bb", "C", "D", "Eb", "F", "G", "A"},
	"F":  {"F", "G", "A", "Bb", "C", "D", "E"},
}

type degreeInfo struct {
	ordinal  string
	interval string
	roman    string
}

var degrees = [7]degreeInfo{
	{"1st", "Root", "I"},
	{"2nd", "Major 2nd", "ii"},
	{"3rd", "Major 3rd", "iii"},
	{"4th", "Perfect 4th", "IV"},
	{"5th", "Perfect 5th", "V"},
	{"6th", "Major 6th", "vi"},
	{"7th", "Major 7th", "vii°"},
}

// Ring selects one of the two rings of the circle.
type Ring int

const (
	OuterRing Ring = iota // major tonics
	InnerRing             // relative minors
)

// chordSpec describes one diatonic triad. The display name is read from the
// ring at the given circle offset from the tonic, which lands on the correct
// root because neighbouring positions are a fifth apart.
type chordSpec struct {
	roman    string
	function string
	quality  ChordQuality
	degrees  [3]int // 1-based scale degrees
	ring     Ring
	offset   int
}

// In the order I ii iii IV V vi.
var chordSpecs = [6]chordSpec{
	{"I", "Tonic", Major, [3]int{1, 3, 5}, OuterRing, 0},
	{"ii", "Supertonic", Minor, [3]int{2, 4, 6}, InnerRing, -1},
	{"iii", "Mediant", Minor, [3]int{3, 5, 7}, InnerRing, 1},
	{"IV", "Subdominant", Major, [3]int{4, 6, 1}, OuterRing, -1},
	{"V", "Dominant", Major, [3]int{5, 7, 2}, OuterRing, 1},
	{"vi", "Submediant", Minor, [3]int{6, 1, 3}, InnerRing, 0},
}

func init() {
	if err := validateTables(); err != nil {
		panic(err)
	}
}

// validateTables checks that every tonic on the outer ring has a complete
// spelling and that each inner entry is the relative minor of its tonic.
func validateTables() error {
	for i, tonic := range outerNotes {
		scale, ok := scaleSpellings[tonic]
		if !ok {
			return fmt.Errorf("%w: position %d (%s)", ErrMissingScaleSpelling, i, tonic)
		}
		if scale[0] != tonic {
			return fmt.Errorf("%w: scale of %s starts on %s", ErrMissingScaleSpelling, tonic, scale[0])
		}
		for d, note := range scale {
			if note == "" {
				return fmt.Errorf("%w: %s has no degree %d", ErrMissingScaleSpelling, tonic, d+1)
			}
		}
		if minor := strings.TrimSuffix(innerNotes[i], "m"); Normalize(minor) != Normalize(scale[5]) {
			return fmt.Errorf("inner ring %s is not the relative minor of %s", innerNotes[i], tonic)
		}
	}
	return nil
}
