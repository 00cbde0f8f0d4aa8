package mqtt

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sweeney/shutter-rig/internal/rig"
)

func sampleRecord() rig.Record {
	return rig.Record{
		Time:        time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC),
		Elapsed:     90500 * time.Millisecond,
		Temperature: 31.7,
		Current:     2.45,
		Successes:   181,
		Stage:       rig.StageFastWait,
	}
}

func TestFormatSamplePayload(t *testing.T) {
	payload, err := FormatSamplePayload(sampleRecord())
	if err != nil {
		t.Fatalf("FormatSamplePayload: %v", err)
	}

	var got SamplePayload
	if err := json.Unmarshal(payload, &got); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}

	s := got.Shutter
	if s.Timestamp != "2026-01-02T15:04:05Z" {
		t.Errorf("timestamp: got %q", s.Timestamp)
	}
	if s.ElapsedMs != 90500 {
		t.Errorf("elapsed_ms: got %d, want 90500", s.ElapsedMs)
	}
	if s.TemperatureC != 31.7 {
		t.Errorf("temperature_c: got %v, want 31.7", s.TemperatureC)
	}
	if s.CurrentA != 2.45 {
		t.Errorf("current_a: got %v, want 2.45", s.CurrentA)
	}
	if s.Successes != 181 {
		t.Errorf("successes: got %d, want 181", s.Successes)
	}
	if s.Stage != "FAST_WAIT" {
		t.Errorf("stage: got %q, want FAST_WAIT", s.Stage)
	}
}

func TestFormatSystemPayload(t *testing.T) {
	payload, err := FormatSystemPayload(SystemEvent{
		Timestamp: time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC),
		Event:     "FAULT",
		Reason:    "shutter state mismatch: commanded OPEN, sensed CLOSED (after 181 successful actuations)",
	})
	if err != nil {
		t.Fatalf("FormatSystemPayload: %v", err)
	}

	var got SystemPayload
	if err := json.Unmarshal(payload, &got); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if got.System.Event != "FAULT" {
		t.Errorf("event: got %q, want FAULT", got.System.Event)
	}
	if got.System.Reason == "" {
		t.Error("reason should carry the mismatch diagnostic")
	}
	if got.System.Timestamp != "2026-01-02T15:04:05Z" {
		t.Errorf("timestamp: got %q", got.System.Timestamp)
	}
}

func TestFormatSystemPayloadOmitsEmptyReason(t *testing.T) {
	payload, err := FormatSystemPayload(SystemEvent{
		Timestamp: time.Now(),
		Event:     "STARTUP",
	})
	if err != nil {
		t.Fatalf("FormatSystemPayload: %v", err)
	}

	var raw map[string]map[string]interface{}
	if err := json.Unmarshal(payload, &raw); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if _, present := raw["system"]["reason"]; present {
		t.Error("empty reason should be omitted")
	}
}

func TestFormatSystemPayloadRaw(t *testing.T) {
	raw := []byte(`{"status":{"event":"FAULT"}}`)
	payload, err := FormatSystemPayload(SystemEvent{Event: "FAULT", RawPayload: raw})
	if err != nil {
		t.Fatalf("FormatSystemPayload: %v", err)
	}
	if string(payload) != string(raw) {
		t.Errorf("raw payload not passed through: got %s", payload)
	}
}

func TestFakePublisherRecords(t *testing.T) {
	f := NewFakePublisher()

	if err := f.PublishSample(sampleRecord()); err != nil {
		t.Fatalf("PublishSample: %v", err)
	}
	if err := f.PublishSystem(SystemEvent{Event: "STARTUP"}); err != nil {
		t.Fatalf("PublishSystem: %v", err)
	}

	if len(f.Samples) != 1 || len(f.SamplePayloads) != 1 {
		t.Errorf("samples recorded: %d/%d, want 1/1", len(f.Samples), len(f.SamplePayloads))
	}
	if len(f.SystemEvents) != 1 || len(f.SystemPayloads) != 1 {
		t.Errorf("system events recorded: %d/%d, want 1/1", len(f.SystemEvents), len(f.SystemPayloads))
	}

	f.PublishSampleError = errors.New("down")
	if err := f.PublishSample(sampleRecord()); err == nil {
		t.Error("expected scripted publish error")
	}
	if len(f.Samples) != 1 {
		t.Errorf("failed publish should not be recorded, got %d", len(f.Samples))
	}

	f.Reset()
	if len(f.Samples) != 0 || len(f.SystemEvents) != 0 || f.Closed {
		t.Error("Reset should clear all recorded state")
	}
}
