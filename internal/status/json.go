package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string      `json:"event,omitempty"`
	Reason        string      `json:"reason,omitempty"`
	Stage         string      `json:"stage"`
	Commanded     string      `json:"commanded"`
	Settling      bool        `json:"settling"`
	Successes     int         `json:"successes"`
	FastCount     int         `json:"fast_count"`
	Faulted       bool        `json:"faulted"`
	FaultMessage  string      `json:"fault_message,omitempty"`
	UptimeSeconds int64       `json:"uptime_seconds"`
	StartTime     string      `json:"start_time"`
	Timestamp     string      `json:"timestamp"`
	MQTT          MQTTStatus  `json:"mqtt"`
	LastSample    *SampleJSON `json:"last_sample,omitempty"`
	Config        ConfigJSON  `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// SampleJSON is the JSON representation of the last sample record.
type SampleJSON struct {
	Timestamp    string  `json:"timestamp"`
	ElapsedMs    int64   `json:"elapsed_ms"`
	TemperatureC float64 `json:"temperature_c"`
	CurrentA     float64 `json:"current_a"`
	Successes    int     `json:"successes"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	TickMs      int64  `json:"tick_ms"`
	SlowMs      int64  `json:"slow_ms"`
	FastMs      int64  `json:"fast_ms"`
	SettleMs    int64  `json:"settle_ms"`
	BurstLength int    `json:"burst_length"`
	ValidateMs  int64  `json:"validate_ms"`
	SampleMs    int64  `json:"sample_ms"`
	Broker      string `json:"broker"`
	HTTPPort    string `json:"http_port"`
}

func buildInner(snap Snapshot) StatusInner {
	stage := string(snap.Stage)
	if stage == "" {
		stage = "UNKNOWN"
	}
	commanded := string(snap.Commanded)
	if commanded == "" {
		commanded = "UNKNOWN"
	}

	inner := StatusInner{
		Stage:         stage,
		Commanded:     commanded,
		Settling:      snap.SettlePending,
		Successes:     snap.Successes,
		FastCount:     snap.FastCount,
		Faulted:       snap.Faulted,
		FaultMessage:  snap.FaultMessage,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Config: ConfigJSON{
			TickMs:      snap.Config.TickMs,
			SlowMs:      snap.Config.SlowMs,
			FastMs:      snap.Config.FastMs,
			SettleMs:    snap.Config.SettleMs,
			BurstLength: snap.Config.BurstLength,
			ValidateMs:  snap.Config.ValidateMs,
			SampleMs:    snap.Config.SampleMs,
			Broker:      snap.Config.Broker,
			HTTPPort:    snap.Config.HTTPPort,
		},
	}

	if snap.LastSample != nil {
		inner.LastSample = &SampleJSON{
			Timestamp:    snap.LastSample.Time.UTC().Format(time.RFC3339),
			ElapsedMs:    snap.LastSample.Elapsed.Milliseconds(),
			TemperatureC: snap.LastSample.Temperature,
			CurrentA:     snap.LastSample.Current,
			Successes:    snap.LastSample.Successes,
		}
	}
	return inner
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
