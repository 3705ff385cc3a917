package playback

// Instrument is a General MIDI preset offered for playback.
type Instrument struct {
	Name    string `json:"name"`
	Program uint8  `json:"program"`
}

var instruments = []Instrument{
	{"Grand Piano", 0},
	{"Bright Piano", 1},
	{"Electric Piano", 4},
	{"Harpsichord", 6},
	{"Drawbar Organ", 16},
	{"Nylon Guitar", 24},
	{"Steel Guitar", 25},
	{"Jazz Guitar", 26},
	{"Overdrive Gtr", 29},
	{"Acoustic Bass", 32},
	{"Violin", 40},
	{"Cello", 42},
	{"Orchestral Harp", 46},
	{"Strings", 48},
	{"Choir Aahs", 52},
	{"Trumpet", 56},
	{"Alto Sax", 65},
	{"Clarinet", 71},
	{"Flute", 73},
	{"Synth Pad (Warm)", 89},
}

// Instruments returns the presets in menu order.
func Instruments() []Instrument {
	return append([]Instrument(nil), instruments...)
}

// InstrumentByProgram finds a preset by its program number.
func InstrumentByProgram(program uint8) (Instrument, bool) {
	for _, in := range instruments {
		if in.Program == program {
			return in, true
		}
	}
	return Instrument{}, false
}
