package contracts

// DeviceInfo describes a MIDI output a sound device can be opened on.
type DeviceInfo struct {
	Number       int    // Index to pass to WithDeviceIndex; -1 for ports of registered gomidi drivers.
	Name         string // Port name, usable with WithPortName.
	Manufacturer string // Device manufacturer, when the platform reports one.
	EntityName   string // Name of the entity to which the port belongs.
}
