//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealPort drives actual hardware through the Linux GPIO character device.
type RealPort struct {
	chip     *gpiocdev.Chip
	beam     *gpiocdev.Line
	solenoid *gpiocdev.Line
}

// NewRealPort opens the beam-break input and solenoid output lines.
// The solenoid starts de-energized (shutter closed).
func NewRealPort(pinBeam, pinSolenoid int) (*RealPort, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	// Pull-down matches Pi boot defaults and the open-collector output of
	// the beam-break receiver module.
	beam, err := chip.RequestLine(pinBeam, gpiocdev.AsInput, gpiocdev.WithPullDown)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request beam pin %d: %w", pinBeam, err)
	}

	solenoid, err := chip.RequestLine(pinSolenoid, gpiocdev.AsOutput(0))
	if err != nil {
		beam.Close()
		chip.Close()
		return nil, fmt.Errorf("request solenoid pin %d: %w", pinSolenoid, err)
	}

	return &RealPort{
		chip:     chip,
		beam:     beam,
		solenoid: solenoid,
	}, nil
}

// ShutterOpen returns the sensed shutter position.
// Inverts the raw line: beam blocked (raw 1) = closed, beam clear (raw 0) = open.
func (p *RealPort) ShutterOpen() (bool, error) {
	raw, err := p.beam.Value()
	if err != nil {
		return false, fmt.Errorf("read beam pin: %w", err)
	}
	return raw == 0, nil
}

// SetSolenoid energizes (open) or de-energizes (closed) the solenoid.
func (p *RealPort) SetSolenoid(open bool) error {
	v := 0
	if open {
		v = 1
	}
	if err := p.solenoid.SetValue(v); err != nil {
		return fmt.Errorf("set solenoid pin: %w", err)
	}
	return nil
}

// Close de-energizes the solenoid, reconfigures the lines to input with
// pull-down (matching Pi boot defaults), and releases GPIO resources.
func (p *RealPort) Close() error {
	var errs []error

	if p.solenoid != nil {
		if err := p.solenoid.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("de-energize solenoid: %w", err))
		}
		if err := p.solenoid.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure solenoid pin: %w", err))
		}
		if err := p.solenoid.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close solenoid pin: %w", err))
		}
	}
	if p.beam != nil {
		if err := p.beam.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure beam pin: %w", err))
		}
		if err := p.beam.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close beam pin: %w", err))
		}
	}
	if p.chip != nil {
		if err := p.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
