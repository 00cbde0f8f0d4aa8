// Package status provides a thread-safe status tracker for the shutter-rig
// daemon. It is written by the run loop and read by HTTP handlers.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/shutter-rig/internal/rig"
)

// Config contains daemon configuration for display.
type Config struct {
	TickMs      int64
	SlowMs      int64
	FastMs      int64
	SettleMs    int64
	BurstLength int
	ValidateMs  int64
	SampleMs    int64
	Broker      string
	HTTPPort    string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	Stage         rig.Stage
	Commanded     rig.Position
	SettlePending bool
	Successes     int
	FastCount     int

	Faulted      bool
	FaultMessage string

	LastSample *rig.Record

	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update sets the cycle state fields. Called from runLoop on every tick.
func (t *Tracker) Update(stage rig.Stage, commanded rig.Position, settlePending bool, successes, fastCount int) {
	t.mu.Lock()
	t.snap.Stage = stage
	t.snap.Commanded = commanded
	t.snap.SettlePending = settlePending
	t.snap.Successes = successes
	t.snap.FastCount = fastCount
	t.mu.Unlock()
}

// SetSample records the most recent sample record.
func (t *Tracker) SetSample(rec rig.Record) {
	t.mu.Lock()
	t.snap.LastSample = &rec
	t.mu.Unlock()
}

// SetFault latches the terminal fault. The stage and counters freeze at
// their values from the final Update.
func (t *Tracker) SetFault(m rig.Mismatch) {
	t.mu.Lock()
	t.snap.Faulted = true
	t.snap.FaultMessage = m.String()
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
