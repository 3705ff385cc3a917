package theory

import "strconv"

// GuitarString is an open string of the fretboard.
type GuitarString struct {
	Note   string
	Octave int
}

// StandardTuning lists the strings from high E to low E.
var StandardTuning = []GuitarString{
	{"E", 4}, {"B", 3}, {"G", 3}, {"D", 3}, {"A", 2}, {"E", 2},
}

// FretCount is the number of frets drawn, not counting the open string.
const FretCount = 12

// FretMarker is the inlay drawn under a fret.
type FretMarker int

const (
	NoMarker FretMarker = iota
	SingleDot
	DoubleDot
)

// FretInfo is one playable position on the neck.
type FretInfo struct {
	String int    `json:"string"` // 0 is the high E
	Fret   int    `json:"fret"`
	Note   string `json:"note"` // sharp spelling
	Octave int    `json:"octave"`
	Active bool   `json:"active"`
	Root   bool   `json:"root"`
}

// Name returns the note with its octave, ready for playback ("F#3").
func (f FretInfo) Name() string {
	return f.Note + strconv.Itoa(f.Octave)
}

// Fretboard returns, per string of StandardTuning, frets 0..FretCount with
// the notes of scale marked.
func Fretboard(scale []ScaleDegree) [][]FretInfo {
	active, root := highlightSet(scale)

	neck := make([][]FretInfo, len(StandardTuning))
	for s, open := range StandardTuning {
		start, _, _ := Semitone(open.Note)
		row := make([]FretInfo, FretCount+1)
		for fret := range row {
			abs := start + fret
			name := SharpNames[abs%12]
			row[fret] = FretInfo{
				String: s,
				Fret:   fret,
				Note:   name,
				Octave: open.Octave + abs/12,
				Active: active[name],
				Root:   name == root,
			}
		}
		neck[s] = row
	}
	return neck
}

// Marker returns the inlay for a fret: single dots on 3, 5, 7 and 9, a
// double dot on 12.
func Marker(fret int) FretMarker {
	switch fret {
	case 3, 5, 7, 9:
		return SingleDot
	case 12:
		return DoubleDot
	}
	return NoMarker
}
