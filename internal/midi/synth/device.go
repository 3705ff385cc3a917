package synth

import (
	"errors"
	"fmt"
	"sync"

	"github.com/leandrodaf/fifths/sdk/contracts"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// ErrClosed is returned by every call made after Close.
var ErrClosed = errors.New("sound device closed")

// gm2SystemOn is the universal non-realtime sysex that switches a synthesiser
// into General MIDI 2 mode.
var gm2SystemOn = midi.Message{0xF0, 0x7E, 0x7F, 0x09, 0x03, 0xF7}

// Device implements contracts.SoundDevice by encoding channel messages with
// gomidi and writing them to an output port. The port is opened lazily by the
// first Resume or send.
type Device struct {
	logger contracts.Logger

	mu     sync.Mutex
	out    drivers.Out
	closed bool
}

// New wraps out. Ownership of the port moves to the device.
func New(out drivers.Out, logger contracts.Logger) *Device {
	return &Device{out: out, logger: logger}
}

// Resume opens the port if it is not open yet.
func (d *Device) Resume() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.openLocked()
}

func (d *Device) openLocked() error {
	if d.closed {
		return ErrClosed
	}
	if d.out.IsOpen() {
		return nil
	}
	if err := d.out.Open(); err != nil {
		d.logger.Error("opening MIDI output failed",
			d.logger.Field().String("port", d.out.String()),
			d.logger.Field().Error("error", err))
		return fmt.Errorf("opening %q: %w", d.out.String(), err)
	}
	d.logger.Info("MIDI output opened", d.logger.Field().String("port", d.out.String()))
	return nil
}

func (d *Device) send(msg midi.Message) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.openLocked(); err != nil {
		return err
	}
	if err := d.out.Send(msg); err != nil {
		return fmt.Errorf("sending %s: %w", msg, err)
	}
	return nil
}

// ProgramChange selects the instrument of channel.
func (d *Device) ProgramChange(channel, program uint8) error {
	return d.send(midi.ProgramChange(channel, program))
}

// NoteOn starts key on channel.
func (d *Device) NoteOn(channel, key, velocity uint8) error {
	return d.send(midi.NoteOn(channel, key, velocity))
}

// NoteOff releases key on channel.
func (d *Device) NoteOff(channel, key uint8) error {
	return d.send(midi.NoteOff(channel, key))
}

// SetController sends a control change.
func (d *Device) SetController(channel, controller, value uint8) error {
	return d.send(midi.ControlChange(channel, controller, value))
}

// SystemReset sends GM2 System On.
func (d *Device) SystemReset() error {
	return d.send(gm2SystemOn)
}

// Close closes the port. Further calls fail with ErrClosed.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true
	if !d.out.IsOpen() {
		return nil
	}
	d.logger.Info("MIDI output closed", d.logger.Field().String("port", d.out.String()))
	return d.out.Close()
}
