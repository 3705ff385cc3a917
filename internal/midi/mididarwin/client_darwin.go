//go:build darwin
// +build darwin

package mididarwin

import (
	"errors"
	"fmt"
	"sync"

	"github.com/leandrodaf/fifths/sdk/contracts"
	"github.com/youpy/go-coremidi"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// Error definitions for CoreMIDI output handling.
var (
	ErrNoMIDIDevices       = errors.New("no MIDI destinations found")
	ErrInvalidMIDIDevice   = errors.New("invalid MIDI destination")
	ErrCreateOutputPort    = errors.New("error creating output port")
	ErrMIDIConnectionError = errors.New("error connecting to MIDI destination")
	ErrPortClosed          = errors.New("output port is not open")
)

// OutPort sends MIDI bytes to a CoreMIDI destination. It satisfies
// drivers.Out so it can be handed to anything that speaks gomidi.
type OutPort struct {
	logger         contracts.Logger
	coreMIDIConfig *contracts.CoreMIDIConfig
	index          int

	mu     sync.Mutex
	client coremidi.Client
	port   coremidi.OutputPort
	dest   coremidi.Destination
	name   string
	open   bool
}

// NewOutPort prepares an output on the destination at options.DeviceIndex.
// Nothing is opened until Open.
func NewOutPort(options *contracts.ClientOptions) (drivers.Out, error) {
	options.Logger.Info("Using CoreMIDI output",
		options.Logger.Field().Int("device", options.DeviceIndex))
	return &OutPort{
		logger:         options.Logger,
		coreMIDIConfig: options.CoreMIDIConfig,
		index:          options.DeviceIndex,
		name:           fmt.Sprintf("CoreMIDI destination %d", options.DeviceIndex),
	}, nil
}

// ListDevices returns the CoreMIDI destinations a sound can be sent to.
func ListDevices(options *contracts.ClientOptions) ([]contracts.DeviceInfo, error) {
	destinations, err := coremidi.AllDestinations()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI destinations: %w", err)
	}
	if len(destinations) == 0 {
		options.Logger.Warn(ErrNoMIDIDevices.Error())
		return nil, ErrNoMIDIDevices
	}

	devices := make([]contracts.DeviceInfo, len(destinations))
	for i, destination := range destinations {
		entity := destination.Entity()
		devices[i] = contracts.DeviceInfo{
			Number:       i,
			Name:         destination.Name(),
			EntityName:   entity.Name(),
			Manufacturer: entity.Manufacturer(),
		}
	}
	return devices, nil
}

// Open creates the CoreMIDI client and output port and resolves the destination.
func (o *OutPort) Open() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.open {
		return nil
	}

	destinations, err := coremidi.AllDestinations()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMIDIConnectionError, err)
	}
	if o.index < 0 || o.index >= len(destinations) {
		o.logger.Error(ErrInvalidMIDIDevice.Error(), o.logger.Field().Int("device", o.index))
		return ErrInvalidMIDIDevice
	}

	client, err := coremidi.NewClient(o.coreMIDIConfig.ClientName)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMIDIConnectionError, err)
	}
	port, err := coremidi.NewOutputPort(client, o.portName())
	if err != nil {
		o.logger.Error(ErrCreateOutputPort.Error())
		return fmt.Errorf("%w: %v", ErrCreateOutputPort, err)
	}

	o.client = client
	o.port = port
	o.dest = destinations[o.index]
	o.name = o.dest.Name()
	o.open = true

	o.logger.Info("MIDI destination connected",
		o.logger.Field().String("name", o.name),
		o.logger.Field().String("manufacturer", o.dest.Entity().Manufacturer()))
	return nil
}

func (o *OutPort) portName() string {
	if o.coreMIDIConfig.PortName != "" {
		return o.coreMIDIConfig.PortName
	}
	return o.coreMIDIConfig.ClientName + " output"
}

// Send writes one complete MIDI message.
func (o *OutPort) Send(data []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.open {
		return ErrPortClosed
	}
	packet := coremidi.NewPacket(data, 0)
	return packet.Send(&o.port, &o.dest)
}

// Close marks the port closed. CoreMIDI releases the client with the process.
func (o *OutPort) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.open {
		o.open = false
		o.logger.Info("MIDI destination disconnected", o.logger.Field().String("name", o.name))
	}
	return nil
}

func (o *OutPort) IsOpen() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.open
}

func (o *OutPort) Number() int             { return o.index }
func (o *OutPort) String() string          { return o.name }
func (o *OutPort) Underlying() interface{} { return o.port }
