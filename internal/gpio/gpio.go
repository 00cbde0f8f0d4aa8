// Package gpio provides the rig's hardware pins with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// Port is the rig's view of the shutter hardware: one beam-break input and
// one solenoid output.
type Port interface {
	// ShutterOpen returns the sensed shutter position from the beam-break
	// input. The raw line is inverted: beam blocked (active) = closed.
	ShutterOpen() (bool, error)

	// SetSolenoid drives the solenoid (true = energize = open).
	SetSolenoid(open bool) error

	// Close de-energizes the solenoid and releases GPIO resources.
	Close() error
}

// Pin definitions (BCM numbering)
const (
	DefaultPinBeam     = 26 // beam-break receiver
	DefaultPinSolenoid = 16 // solenoid driver transistor
)
