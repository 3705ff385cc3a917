package midi

import (
	"fmt"

	"github.com/leandrodaf/fifths/internal/midi/synth"
	"github.com/leandrodaf/fifths/sdk/contracts"
)

// NewSoundDevice builds the sound device a playback mapper drives. The output
// port is resolved by NewOutPort but not opened; the device opens it on the
// first Resume.
//
// Returns:
//   - contracts.SoundDevice: gomidi-encoded output ready for playback.mapper.
//   - error: the option or port resolution failure, e.g. ErrUnsupportedOS.
func NewSoundDevice(opts ...contracts.Option) (contracts.SoundDevice, error) {
	options, err := applyDefaultOptions(opts...)
	if err != nil {
		return nil, err
	}
	out, err := NewOutPort(&options)
	if err != nil {
		return nil, fmt.Errorf("resolving output port: %w", err)
	}
	return synth.New(out, options.Logger), nil
}

// ListDevices returns the outputs a sound device could be opened on: ports of
// the registered gomidi drivers first, then the native platform outputs.
func ListDevices(opts ...contracts.Option) ([]contracts.DeviceInfo, error) {
	options, err := applyDefaultOptions(opts...)
	if err != nil {
		return nil, err
	}
	return listDevices(&options)
}
