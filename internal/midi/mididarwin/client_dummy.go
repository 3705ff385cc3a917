//go:build !darwin
// +build !darwin

package mididarwin

import (
	"errors"

	"github.com/leandrodaf/fifths/sdk/contracts"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// ErrUnavailable is returned by every dummy call.
var ErrUnavailable = errors.New("CoreMIDI output is not available on this platform")

// NewOutPort always fails outside macOS.
func NewOutPort(options *contracts.ClientOptions) (drivers.Out, error) {
	options.Logger.Warn("NewOutPort called on dummy CoreMIDI backend")
	return nil, ErrUnavailable
}

// ListDevices always fails outside macOS.
func ListDevices(options *contracts.ClientOptions) ([]contracts.DeviceInfo, error) {
	options.Logger.Warn("ListDevices called on dummy CoreMIDI backend")
	return nil, ErrUnavailable
}
