package theory

import "strings"

// RomanLabel returns the numeral shown on a circle segment when selected is
// the current position: I, V and IV on the outer ring, vi, iii and ii on the
// inner ring, and "" for segments outside the primary chords.
func RomanLabel(selected, index int, ring Ring) string {
	diff := Wrap(index - selected)
	labels := [2][3]string{
		OuterRing: {"I", "V", "IV"},
		InnerRing: {"vi", "iii", "ii"},
	}
	var slot int
	switch diff {
	case 0:
		slot = 0
	case 1:
		slot = 1
	case CircleSize - 1:
		slot = 2
	default:
		return ""
	}
	if ring != InnerRing {
		ring = OuterRing
	}
	return labels[ring][slot]
}

// MinorTonic strips the minor marker from an inner-ring name, "F#m" -> "F#".
func MinorTonic(name string) string {
	if len(name) > 1 {
		return strings.TrimSuffix(name, "m")
	}
	return name
}

// DiatonicProgression walks up the harmonised scale and back home:
// I ii iii IV V vi I.
func DiatonicProgression(k KeyState) [][]string {
	order := []ChordDetail{k.Chords.I, k.Chords.II, k.Chords.III, k.Chords.IV, k.Chords.V, k.Chords.VI, k.Chords.I}
	out := make([][]string, len(order))
	for i, c := range order {
		out[i] = append([]string(nil), c.Notes[:]...)
	}
	return out
}
