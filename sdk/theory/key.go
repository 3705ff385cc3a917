package theory

// ChordQuality is the triad type of a diatonic chord.
type ChordQuality string

const (
	Major      ChordQuality = "major"
	Minor      ChordQuality = "minor"
	Diminished ChordQuality = "diminished"
)

// ScaleDegree is one note of a major scale with its labels.
type ScaleDegree struct {
	Ordinal  string `json:"degree"`   // "1st" .. "7th"
	Note     string `json:"note"`     // spelled for the key, e.g. "Cb"
	Interval string `json:"interval"` // "Root", "Major 2nd", ...
	Roman    string `json:"roman"`    // "I" .. "vii°"
}

// ChordDetail is a diatonic triad ready to be displayed or played.
type ChordDetail struct {
	Roman    string       `json:"roman"`
	Name     string       `json:"name"`
	Function string       `json:"function"`
	Quality  ChordQuality `json:"type"`
	Notes    [3]string    `json:"notes"`
}

// IsMajor reports whether the chord is a major triad.
func (c ChordDetail) IsMajor() bool { return c.Quality == Major }

// Chords holds the six commonly used triads of a major key. The leading-tone
// triad is left out on purpose.
type Chords struct {
	I   ChordDetail `json:"I"`
	II  ChordDetail `json:"ii"`
	III ChordDetail `json:"iii"`
	IV  ChordDetail `json:"IV"`
	V   ChordDetail `json:"V"`
	VI  ChordDetail `json:"vi"`
}

// List returns the chords in scale order: I ii iii IV V vi.
func (c Chords) List() []ChordDetail {
	return []ChordDetail{c.I, c.II, c.III, c.IV, c.V, c.VI}
}

// ByRoman looks a chord up by its numeral ("I", "ii", ...).
func (c Chords) ByRoman(roman string) (ChordDetail, bool) {
	for _, ch := range c.List() {
		if ch.Roman == roman {
			return ch, true
		}
	}
	return ChordDetail{}, false
}

// KeyState is everything derived from one circle position.
type KeyState struct {
	Tonic    string         `json:"tonic"`
	Position int            `json:"index"`
	Scale    [7]ScaleDegree `json:"scale"`
	Chords   Chords         `json:"chords"`
}

// ScaleNotes returns the seven note names of the key.
func (k KeyState) ScaleNotes() []string {
	notes := make([]string, len(k.Scale))
	for i, d := range k.Scale {
		notes[i] = d.Note
	}
	return notes
}

// Wrap maps any integer onto the circle, 0..11. Negative values wrap too.
func Wrap(p int) int {
	return ((p % CircleSize) + CircleSize) % CircleSize
}

// KeyAt derives the key at circle position p (taken modulo 12).
func KeyAt(p int) KeyState {
	pos := Wrap(p)
	tonic := outerNotes[pos]
	spelling := scaleSpellings[tonic]

	k := KeyState{Tonic: tonic, Position: pos}
	for i, info := range degrees {
		k.Scale[i] = ScaleDegree{
			Ordinal:  info.ordinal,
			Note:     spelling[i],
			Interval: info.interval,
			Roman:    info.roman,
		}
	}

	built := make([]ChordDetail, len(chordSpecs))
	for i, spec := range chordSpecs {
		built[i] = buildChord(spec, pos, spelling)
	}
	k.Chords = Chords{I: built[0], II: built[1], III: built[2], IV: built[3], V: built[4], VI: built[5]}
	return k
}

func buildChord(spec chordSpec, pos int, spelling [7]string) ChordDetail {
	ring := outerNotes
	if spec.ring == InnerRing {
		ring = innerNotes
	}
	c := ChordDetail{
		Roman:    spec.roman,
		Name:     ring[Wrap(pos+spec.offset)],
		Function: spec.function,
		Quality:  spec.quality,
	}
	for i, d := range spec.degrees {
		c.Notes[i] = spelling[d-1]
	}
	return c
}

// NeighborIndices returns the positions of IV, I and V around p.
func NeighborIndices(p int) []int {
	pos := Wrap(p)
	return []int{Wrap(pos - 1), pos, Wrap(pos + 1)}
}

// ScaleIndices returns the seven contiguous positions p-1 .. p+5 whose tonics
// are the notes of the key at p.
func ScaleIndices(p int) []int {
	pos := Wrap(p)
	out := make([]int, 7)
	for i := range out {
		out[i] = Wrap(pos - 1 + i)
	}
	return out
}

// OuterNotes returns the tonic spellings around the circle, from C clockwise.
func OuterNotes() []string { return append([]string(nil), outerNotes[:]...) }

// InnerNotes returns the relative minors around the circle.
func InnerNotes() []string { return append([]string(nil), innerNotes[:]...) }
