package theory

import "strconv"

// PianoKey is one key of the two-octave reference keyboard.
type PianoKey struct {
	Note   string `json:"note"` // sharp spelling
	Octave int    `json:"octave"`
	Label  string `json:"label"` // octave marker on C, letter on other white keys, empty on black keys
	Black  bool   `json:"black"`
	Slot   int    `json:"slot"` // white keys: 0..13; black keys: the white-key boundary they sit on
	Active bool   `json:"active"`
	Root   bool   `json:"root"`
}

// Keyboard octaves, C3 to B4.
const (
	KeyboardLowOctave  = 3
	KeyboardHighOctave = 4
)

// PianoKeys lays out C3..B4 and marks the keys belonging to scale. Scale
// spellings are compared after folding onto sharps, so "Cb" lights up B.
func PianoKeys(scale []ScaleDegree) []PianoKey {
	active, root := highlightSet(scale)

	keys := make([]PianoKey, 0, 24)
	white := 0
	for octave := KeyboardLowOctave; octave <= KeyboardHighOctave; octave++ {
		for _, name := range SharpNames {
			k := PianoKey{
				Note:   name,
				Octave: octave,
				Active: active[name],
				Root:   name == root,
			}
			if len(name) == 2 {
				k.Black = true
				k.Slot = white
			} else {
				k.Slot = white
				k.Label = name
				if name == "C" {
					k.Label = name + strconv.Itoa(octave)
				}
				white++
			}
			keys = append(keys, k)
		}
	}
	return keys
}

func highlightSet(scale []ScaleDegree) (map[string]bool, string) {
	active := make(map[string]bool, len(scale))
	for _, d := range scale {
		active[Normalize(d.Note)] = true
	}
	root := ""
	if len(scale) > 0 {
		root = Normalize(scale[0].Note)
	}
	return active, root
}
