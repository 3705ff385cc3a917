package midi

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/leandrodaf/fifths/internal/midi/mididarwin"
	"github.com/leandrodaf/fifths/internal/midi/midiwindows"
	"github.com/leandrodaf/fifths/sdk/contracts"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// ErrUnsupportedOS is returned when no native output exists for the operating system.
var ErrUnsupportedOS = errors.New("unsupported operating system")

// outInitializers maps OS names to the native output port constructors.
var outInitializers = map[string]func(*contracts.ClientOptions) (drivers.Out, error){
	"darwin":  mididarwin.NewOutPort,  // macOS (Darwin) CoreMIDI output.
	"windows": midiwindows.NewOutPort, // Windows winmm output.
}

// deviceListers maps OS names to the native output listings.
var deviceListers = map[string]func(*contracts.ClientOptions) ([]contracts.DeviceInfo, error){
	"darwin":  mididarwin.ListDevices,
	"windows": midiwindows.ListDevices,
}

// NewOutPort resolves the output port described by opts. An explicit port wins,
// then a named port of a registered gomidi driver, then the native output of
// the current operating system.
func NewOutPort(opts *contracts.ClientOptions) (drivers.Out, error) {
	if opts.OutPort != nil {
		return opts.OutPort, nil
	}
	if opts.PortName != "" {
		out, err := gomidi.FindOutPort(opts.PortName)
		if err != nil {
			return nil, fmt.Errorf("finding output port %q: %w", opts.PortName, err)
		}
		opts.Logger.Info("MIDI output port found", opts.Logger.Field().String("port", out.String()))
		return out, nil
	}
	if initializer, exists := outInitializers[runtime.GOOS]; exists {
		return initializer(opts)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedOS, runtime.GOOS)
}

func listDevices(opts *contracts.ClientOptions) ([]contracts.DeviceInfo, error) {
	var devices []contracts.DeviceInfo
	for _, out := range gomidi.GetOutPorts() {
		devices = append(devices, contracts.DeviceInfo{Number: -1, Name: out.String()})
	}

	lister, exists := deviceListers[runtime.GOOS]
	if !exists {
		if len(devices) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedOS, runtime.GOOS)
		}
		return devices, nil
	}

	native, err := lister(opts)
	if err != nil && len(devices) == 0 {
		return nil, err
	}
	return append(devices, native...), nil
}
