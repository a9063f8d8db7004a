package contracts

// DeviceInfo describes an input device that can be selected by index.
type DeviceInfo struct {
	Name         string // Device name.
	Manufacturer string // Device manufacturer, when the platform reports one.
	EntityName   string // Name of the entity to which the device belongs.
	Path         string // Device node for file-backed sources (rawmidi, evdev).
}
