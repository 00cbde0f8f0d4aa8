// Package mqtt provides telemetry publishing with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/shutter-rig/internal/rig"
)

// TopicSamples is the MQTT topic for periodic sample records.
const TopicSamples = "lab/shutter-rig/samples"

// TopicSystem is the MQTT topic for lifecycle and fault events.
const TopicSystem = "lab/shutter-rig/system"

// Publisher publishes rig telemetry.
type Publisher interface {
	// PublishSample sends one sample record to the broker.
	// Returns error if publishing fails (should not crash the process).
	PublishSample(rec rig.Record) error

	// PublishSystem sends a lifecycle or fault event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a lifecycle or fault event.
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // "STARTUP", "SHUTDOWN", "FAULT"
	Reason     string // signal name, or the mismatch diagnostic for FAULT
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// SamplePayload is the MQTT message payload for one sample record.
type SamplePayload struct {
	Shutter SampleInner `json:"shutter"`
}

// SampleInner contains the sample details.
type SampleInner struct {
	Timestamp    string  `json:"timestamp"`
	ElapsedMs    int64   `json:"elapsed_ms"`
	TemperatureC float64 `json:"temperature_c"`
	CurrentA     float64 `json:"current_a"`
	Successes    int     `json:"successes"`
	Stage        string  `json:"stage"`
}

// FormatSamplePayload creates the JSON payload for a sample record.
func FormatSamplePayload(rec rig.Record) ([]byte, error) {
	payload := SamplePayload{
		Shutter: SampleInner{
			Timestamp:    rec.Time.UTC().Format(time.RFC3339),
			ElapsedMs:    rec.Elapsed.Milliseconds(),
			TemperatureC: rec.Temperature,
			CurrentA:     rec.Current,
			Successes:    rec.Successes,
			Stage:        string(rec.Stage),
		},
	}
	return json.Marshal(payload)
}

// SystemPayload is the MQTT message payload for system events.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status
// snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
