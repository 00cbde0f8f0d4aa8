// Package rig contains the pure cycle-test state machine for the shutter rig.
// This package has NO external dependencies (no GPIO, SPI, MQTT, OS, or
// time.Sleep). Time is always injectable via time.Time parameters.
package rig

import (
	"fmt"
	"time"
)

// Position represents the logical shutter position.
type Position string

const (
	Open   Position = "OPEN"
	Closed Position = "CLOSED"
)

// Stage identifies the active phase of the cycle state machine.
type Stage string

const (
	StageInit     Stage = "INIT"
	StageSlowWait Stage = "SLOW_WAIT"
	StageFastWait Stage = "FAST_WAIT"
	StageCooldown Stage = "COOLDOWN"
)

// Config is the timing profile for a test run. The profile is fixed at
// build time for the daemon (see DefaultConfig); tests construct their own.
type Config struct {
	// SlowToggle is the wait before the single slow toggle of each cycle.
	SlowToggle time.Duration
	// FastToggle is the cadence of the stress burst.
	FastToggle time.Duration
	// Settle is the grace period after any actuation during which
	// validation is suspended.
	Settle time.Duration
	// BurstLength is the number of fast toggles per burst. Must be >= 1.
	BurstLength int
	// ValidatePoll is the cadence of commanded-vs-sensed checks.
	ValidatePoll time.Duration
	// SamplePoll is the cadence of temperature/current sampling.
	SamplePoll time.Duration
}

// DefaultConfig is the burn-in profile the daemon runs: one slow toggle to
// verify basic operation, then a rapid burst to stress the actuator, then a
// short rest, repeating until a fault.
func DefaultConfig() Config {
	return Config{
		SlowToggle:   time.Second,
		FastToggle:   12 * time.Millisecond,
		Settle:       20 * time.Millisecond,
		BurstLength:  50,
		ValidatePoll: 5 * time.Millisecond,
		SamplePoll:   500 * time.Millisecond,
	}
}

// Input is one scheduler tick's worth of sensor state.
type Input struct {
	Time time.Time
	// ShutterOpen is the sensed position from the beam-break input.
	ShutterOpen bool
	// Temperature in °C and Current in A, already converted from raw
	// analog readings. Consumed only on sampler ticks.
	Temperature float64
	Current     float64
}

// Record is one sampler tick's log record.
type Record struct {
	Time        time.Time
	Elapsed     time.Duration
	Temperature float64
	Current     float64
	Successes   int
	Stage       Stage
}

// Mismatch describes the single fatal condition: the commanded shutter
// state disagrees with the sensed state after the settle window.
type Mismatch struct {
	Time      time.Time
	Commanded Position
	Sensed    Position
	// Successes at the moment of failure, for the diagnostic line.
	Successes int
}

func (m Mismatch) String() string {
	return fmt.Sprintf("shutter state mismatch: commanded %s, sensed %s (after %d successful actuations)",
		m.Commanded, m.Sensed, m.Successes)
}

// Output is what a single tick asks the outside world to do.
// All fields may be nil; after a fault every Output is zero.
type Output struct {
	// Solenoid, if non-nil, commands the actuator to the given state
	// (true = open).
	Solenoid *bool
	// Record, if non-nil, is a sample record to log and publish.
	Record *Record
	// Fault, if non-nil, is the terminal mismatch. It is emitted exactly
	// once; the rig is halted from this tick on.
	Fault *Mismatch
}

func positionOf(open bool) Position {
	if open {
		return Open
	}
	return Closed
}
