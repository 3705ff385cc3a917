package contracts

// MIDICommand is the status nibble of a channel voice message.
type MIDICommand byte

const (
	// NoteOff is the MIDI command for a Note Off event (0x80).
	NoteOff MIDICommand = 0x80
	// NoteOn is the MIDI command for a Note On event (0x90).
	NoteOn MIDICommand = 0x90
)

// Status combines the command with a 0-based channel into a status byte.
func (c MIDICommand) Status(channel uint8) uint8 {
	return uint8(c) | channel&0x0F
}

// General MIDI controller numbers sent while initialising a channel.
const (
	ControllerVolume      uint8 = 7
	ControllerPan         uint8 = 10
	ControllerReverbDepth uint8 = 91
)

// SoundDevice is the black-box synthesiser the playback mapper drives.
//
// Implementations must tolerate Resume being called before every playback
// operation; the first call is expected to bring the output up and later calls
// to be cheap.
type SoundDevice interface {
	ProgramChange(channel, program uint8) error           // Selects the instrument of a channel.
	NoteOn(channel, key, velocity uint8) error            // Starts a note.
	NoteOff(channel, key uint8) error                     // Releases a note.
	SetController(channel, controller, value uint8) error // Sets a continuous controller.
	SystemReset() error                                   // Puts the synthesiser in General MIDI 2 mode.
	Resume() error                                        // Makes sure output is open and running.
	Close() error                                         // Releases the output.
}
