//go:build windows
// +build windows

package midiwindows

import (
	"errors"
	"fmt"
	"sync"
	"time"
	"unsafe"

	"github.com/leandrodaf/fifths/sdk/contracts"
	"gitlab.com/gomidi/midi/v2/drivers"
	"golang.org/x/sys/windows"
)

// Type definitions for MIDI handles
type HMIDIOUT windows.Handle

// Constants for midiOutOpen and long messages
const (
	CALLBACK_NULL = 0x00000000 // No callback
	MHDR_DONE     = 0x00000001 // Driver finished with the buffer
)

// longMsgTimeout bounds the wait for a sysex buffer to drain.
const longMsgTimeout = 500 * time.Millisecond

var (
	ErrNoMIDIDevices  = errors.New("no MIDI output devices found")
	ErrPortClosed     = errors.New("output port is not open")
	ErrLongMsgTimeout = errors.New("timed out sending system exclusive message")
)

// Struct representing MIDI output device capabilities
type midiOutCaps struct {
	wMid           uint16
	wPid           uint16
	vDriverVersion uint32
	szPname        [32]uint16
	wTechnology    uint16
	wVoices        uint16
	wNotes         uint16
	wChannelMask   uint16
	dwSupport      uint32
}

// Struct mirroring MIDIHDR
type midiHdr struct {
	lpData          uintptr
	dwBufferLength  uint32
	dwBytesRecorded uint32
	dwUser          uintptr
	dwFlags         uint32
	lpNext          uintptr
	reserved        uintptr
	dwOffset        uint32
	dwReserved      [8]uintptr
}

// Load the winmm.dll library and required functions
var (
	winmm                      = windows.NewLazySystemDLL("winmm.dll")
	procMidiOutGetNumDevs      = winmm.NewProc("midiOutGetNumDevs")
	procMidiOutGetDevCaps      = winmm.NewProc("midiOutGetDevCapsW")
	procMidiOutOpen            = winmm.NewProc("midiOutOpen")
	procMidiOutShortMsg        = winmm.NewProc("midiOutShortMsg")
	procMidiOutPrepareHeader   = winmm.NewProc("midiOutPrepareHeader")
	procMidiOutLongMsg         = winmm.NewProc("midiOutLongMsg")
	procMidiOutUnprepareHeader = winmm.NewProc("midiOutUnprepareHeader")
	procMidiOutReset           = winmm.NewProc("midiOutReset")
	procMidiOutClose           = winmm.NewProc("midiOutClose")
)

// OutPort writes MIDI to a winmm output device and satisfies drivers.Out.
type OutPort struct {
	logger contracts.Logger
	index  int

	mu     sync.Mutex
	handle HMIDIOUT
	name   string
	open   bool
}

// NewOutPort prepares the winmm output at options.DeviceIndex.
func NewOutPort(options *contracts.ClientOptions) (drivers.Out, error) {
	options.Logger.Info("Using winmm MIDI output",
		options.Logger.Field().Int("device", options.DeviceIndex))
	return &OutPort{
		logger: options.Logger,
		index:  options.DeviceIndex,
		name:   fmt.Sprintf("winmm output %d", options.DeviceIndex),
	}, nil
}

// ListDevices lists the available MIDI output devices
func ListDevices(options *contracts.ClientOptions) ([]contracts.DeviceInfo, error) {
	r0, _, _ := procMidiOutGetNumDevs.Call()
	numDevices := uint32(r0)
	if numDevices == 0 {
		options.Logger.Warn(ErrNoMIDIDevices.Error())
		return nil, ErrNoMIDIDevices
	}

	devices := make([]contracts.DeviceInfo, 0, numDevices)
	for i := uint32(0); i < numDevices; i++ {
		caps, err := deviceCaps(i)
		if err != nil {
			options.Logger.Warn(fmt.Sprintf("Failed to get information for MIDI output %d", i))
			continue
		}
		deviceName := windows.UTF16ToString(caps.szPname[:])
		devices = append(devices, contracts.DeviceInfo{
			Number:       int(i),
			Name:         deviceName,
			EntityName:   deviceName,
			Manufacturer: fmt.Sprintf("MID: %d PID: %d", caps.wMid, caps.wPid),
		})
	}
	return devices, nil
}

func deviceCaps(id uint32) (midiOutCaps, error) {
	var caps midiOutCaps
	r1, _, _ := procMidiOutGetDevCaps.Call(
		uintptr(id),
		uintptr(unsafe.Pointer(&caps)),
		unsafe.Sizeof(caps),
	)
	if r1 != 0 {
		return caps, fmt.Errorf("midiOutGetDevCaps failed with code %d", r1)
	}
	return caps, nil
}

// Open opens the output device
func (o *OutPort) Open() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.open {
		return nil
	}

	r1, _, err := procMidiOutOpen.Call(
		uintptr(unsafe.Pointer(&o.handle)),
		uintptr(o.index),
		0,
		0,
		CALLBACK_NULL,
	)
	if r1 != 0 {
		o.logger.Error(fmt.Sprintf("Failed to open MIDI output %d: %v", o.index, err))
		return fmt.Errorf("failed to open MIDI output %d: %v", o.index, err)
	}

	if caps, err := deviceCaps(uint32(o.index)); err == nil {
		o.name = windows.UTF16ToString(caps.szPname[:])
	}
	o.open = true
	o.logger.Info(fmt.Sprintf("MIDI output %d connected", o.index), o.logger.Field().String("name", o.name))
	return nil
}

// Send writes a channel message with midiOutShortMsg, or a sysex through a
// prepared header.
func (o *OutPort) Send(data []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.open {
		return ErrPortClosed
	}
	if len(data) == 0 {
		return nil
	}
	if data[0] == 0xF0 {
		return o.sendLong(data)
	}

	var packed uint32
	for i := 0; i < len(data) && i < 3; i++ {
		packed |= uint32(data[i]) << (8 * i)
	}
	r1, _, err := procMidiOutShortMsg.Call(uintptr(o.handle), uintptr(packed))
	if r1 != 0 {
		return fmt.Errorf("midiOutShortMsg failed: %v", err)
	}
	return nil
}

func (o *OutPort) sendLong(data []byte) error {
	buf := append([]byte(nil), data...)
	hdr := midiHdr{
		lpData:         uintptr(unsafe.Pointer(&buf[0])),
		dwBufferLength: uint32(len(buf)),
	}
	size := unsafe.Sizeof(hdr)

	if r1, _, err := procMidiOutPrepareHeader.Call(uintptr(o.handle), uintptr(unsafe.Pointer(&hdr)), size); r1 != 0 {
		return fmt.Errorf("midiOutPrepareHeader failed: %v", err)
	}
	defer procMidiOutUnprepareHeader.Call(uintptr(o.handle), uintptr(unsafe.Pointer(&hdr)), size)

	if r1, _, err := procMidiOutLongMsg.Call(uintptr(o.handle), uintptr(unsafe.Pointer(&hdr)), size); r1 != 0 {
		return fmt.Errorf("midiOutLongMsg failed: %v", err)
	}

	deadline := time.Now().Add(longMsgTimeout)
	for hdr.dwFlags&MHDR_DONE == 0 {
		if time.Now().After(deadline) {
			return ErrLongMsgTimeout
		}
		time.Sleep(time.Millisecond)
	}
	return nil
}

// Close silences the device and releases the handle
func (o *OutPort) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.open {
		return nil
	}

	if r1, _, err := procMidiOutReset.Call(uintptr(o.handle)); r1 != 0 {
		o.logger.Warn(fmt.Sprintf("Failed to reset MIDI output: %v", err))
	}
	r1, _, err := procMidiOutClose.Call(uintptr(o.handle))
	if r1 != 0 {
		o.logger.Error(fmt.Sprintf("Failed to close MIDI output: %v", err))
		return err
	}

	o.open = false
	o.handle = 0
	o.logger.Info("MIDI output closed")
	return nil
}

func (o *OutPort) IsOpen() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.open
}

func (o *OutPort) Number() int             { return o.index }
func (o *OutPort) String() string          { return o.name }
func (o *OutPort) Underlying() interface{} { return o.handle }
