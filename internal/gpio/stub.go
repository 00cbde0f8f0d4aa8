//go:build !linux

package gpio

import "errors"

// RealPort is not available on non-Linux platforms.
type RealPort struct{}

// NewRealPort returns an error on non-Linux platforms.
func NewRealPort(pinBeam, pinSolenoid int) (*RealPort, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

// ShutterOpen is not implemented on non-Linux platforms.
func (p *RealPort) ShutterOpen() (bool, error) {
	return false, errors.New("gpio: not supported")
}

// SetSolenoid is not implemented on non-Linux platforms.
func (p *RealPort) SetSolenoid(open bool) error {
	return errors.New("gpio: not supported")
}

// Close is not implemented on non-Linux platforms.
func (p *RealPort) Close() error {
	return nil
}
