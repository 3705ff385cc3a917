//go:build !windows
// +build !windows

package midiwindows

import (
	"errors"

	"github.com/leandrodaf/fifths/sdk/contracts"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// ErrUnavailable is returned by every dummy call.
var ErrUnavailable = errors.New("winmm output is not available on this platform")

// NewOutPort always fails outside Windows.
func NewOutPort(options *contracts.ClientOptions) (drivers.Out, error) {
	options.Logger.Warn("NewOutPort called on dummy winmm backend")
	return nil, ErrUnavailable
}

// ListDevices always fails outside Windows.
func ListDevices(options *contracts.ClientOptions) ([]contracts.DeviceInfo, error) {
	options.Logger.Warn("ListDevices called on dummy winmm backend")
	return nil, ErrUnavailable
}
