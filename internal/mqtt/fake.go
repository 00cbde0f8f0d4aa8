package mqtt

import (
	"github.com/sweeney/shutter-rig/internal/rig"
)

// FakePublisher records published telemetry for test assertions.
type FakePublisher struct {
	// Samples contains all sample records that were published.
	Samples []rig.Record

	// SamplePayloads contains the JSON payloads for sample records.
	SamplePayloads [][]byte

	// SystemEvents contains all system events that were published.
	SystemEvents []SystemEvent

	// SystemPayloads contains the JSON payloads for system events.
	SystemPayloads [][]byte

	// PublishSampleError, if set, will be returned by PublishSample.
	PublishSampleError error

	// PublishSystemError, if set, will be returned by PublishSystem.
	PublishSystemError error

	// Closed tracks if Close was called.
	Closed bool

	// Connected controls the return value of IsConnected.
	Connected bool
}

// NewFakePublisher creates a FakePublisher for testing.
func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

// PublishSample records the sample record.
func (f *FakePublisher) PublishSample(rec rig.Record) error {
	if f.PublishSampleError != nil {
		return f.PublishSampleError
	}

	f.Samples = append(f.Samples, rec)

	payload, err := FormatSamplePayload(rec)
	if err != nil {
		return err
	}
	f.SamplePayloads = append(f.SamplePayloads, payload)

	return nil
}

// PublishSystem records the system event.
func (f *FakePublisher) PublishSystem(event SystemEvent) error {
	if f.PublishSystemError != nil {
		return f.PublishSystemError
	}

	f.SystemEvents = append(f.SystemEvents, event)

	payload, err := FormatSystemPayload(event)
	if err != nil {
		return err
	}
	f.SystemPayloads = append(f.SystemPayloads, payload)

	return nil
}

// Close marks the publisher as closed.
func (f *FakePublisher) Close() error {
	f.Closed = true
	return nil
}

// IsConnected reports whether the fake publisher is "connected".
func (f *FakePublisher) IsConnected() bool {
	return f.Connected
}

// Reset clears recorded telemetry.
func (f *FakePublisher) Reset() {
	f.Samples = nil
	f.SamplePayloads = nil
	f.SystemEvents = nil
	f.SystemPayloads = nil
	f.Closed = false
	f.PublishSampleError = nil
	f.PublishSystemError = nil
	f.Connected = false
}
