package rig

import "time"

// Rig is the cycle-test aggregate: commanded shutter state, settle gate,
// validator and sampler deadlines, and the cycle state machine. It owns all
// mutable test state and is driven by a single caller; it is not safe for
// concurrent use.
type Rig struct {
	cfg   Config
	start time.Time

	commandedOpen  bool
	settlePending  bool
	settleDeadline time.Time

	stage     Stage
	fastCount int
	successes int

	slowDeadline     time.Time
	fastDeadline     time.Time
	sampleDeadline   time.Time
	validateDeadline time.Time

	halted bool
	fault  *Mismatch
}

// New creates a Rig with all free-running deadlines armed relative to start.
// The cycle machine begins in Init and forces the shutter open on the first
// tick.
func New(start time.Time, cfg Config) *Rig {
	return &Rig{
		cfg:              cfg,
		start:            start,
		stage:            StageInit,
		sampleDeadline:   start.Add(cfg.SamplePoll),
		validateDeadline: start.Add(cfg.ValidatePoll),
	}
}

// Tick evaluates one scheduler pass: settle gate, validator (only when not
// settle-pending), sampler, then the cycle state machine. Once a mismatch has
// been reported, Tick does nothing and returns a zero Output forever.
func (r *Rig) Tick(in Input) Output {
	var out Output
	if r.halted {
		return out
	}
	now := in.Time

	// Settle gate: clear the pending flag once the mechanism has had time
	// to physically reach the commanded position.
	if r.settlePending && !now.Before(r.settleDeadline) {
		r.settlePending = false
	}

	// Validator. A mismatch is fail-stop: report once, halt everything,
	// including the sampler and cycle machine on this same tick.
	if !r.settlePending && !now.Before(r.validateDeadline) {
		sensed := positionOf(in.ShutterOpen)
		commanded := positionOf(r.commandedOpen)
		if sensed != commanded {
			r.halted = true
			r.fault = &Mismatch{
				Time:      now,
				Commanded: commanded,
				Sensed:    sensed,
				Successes: r.successes,
			}
			out.Fault = r.fault
			return out
		}
		// Rearm from the consumed deadline, not from now, so the poll
		// cadence never drifts.
		r.validateDeadline = r.validateDeadline.Add(r.cfg.ValidatePoll)
	}

	// Sampler. Independent of the settle gate and the cycle machine.
	if !now.Before(r.sampleDeadline) {
		out.Record = &Record{
			Time:        now,
			Elapsed:     now.Sub(r.start),
			Temperature: in.Temperature,
			Current:     in.Current,
			Successes:   r.successes,
			Stage:       r.stage,
		}
		r.sampleDeadline = r.sampleDeadline.Add(r.cfg.SamplePoll)
	}

	r.advance(now, &out)
	return out
}

// advance runs the cycle state machine for one tick.
func (r *Rig) advance(now time.Time, out *Output) {
	switch r.stage {
	case StageInit:
		r.enterCycle(now, now, out)

	case StageSlowWait:
		if now.Before(r.slowDeadline) {
			return
		}
		r.command(!r.commandedOpen, now, out)
		// Chain the fast deadline off the consumed slow deadline so a
		// late tick does not shift the burst timeline.
		r.fastDeadline = r.slowDeadline.Add(r.cfg.FastToggle)
		r.fastCount = 1
		r.stage = StageFastWait

	case StageFastWait:
		if now.Before(r.fastDeadline) {
			return
		}
		r.command(!r.commandedOpen, now, out)
		r.fastCount++
		r.fastDeadline = r.fastDeadline.Add(r.cfg.FastToggle)
		if r.fastCount > r.cfg.BurstLength {
			r.fastCount = 0
			r.stage = StageCooldown
		}

	case StageCooldown:
		// One more fast period of rest, then restart the whole cycle.
		if now.Before(r.fastDeadline) {
			return
		}
		r.stage = StageInit
		r.enterCycle(now, r.fastDeadline, out)
	}
}

// enterCycle performs the Init stage: force the shutter open (arming the
// settle gate) and arm the slow deadline off base. At startup base is the
// tick time; on restart it is the consumed cooldown deadline, keeping the
// slow phase on the accumulated grid.
func (r *Rig) enterCycle(now, base time.Time, out *Output) {
	r.command(true, now, out)
	r.slowDeadline = base.Add(r.cfg.SlowToggle)
	r.stage = StageSlowWait
}

// command performs a toggle or forced-open: flip the commanded state, arm
// the settle gate, count the actuation, and ask the caller to drive the
// solenoid. Nothing here is reverted on failure; mismatches are the
// validator's job.
func (r *Rig) command(open bool, now time.Time, out *Output) {
	r.commandedOpen = open
	r.settlePending = true
	r.settleDeadline = now.Add(r.cfg.Settle)
	r.successes++
	v := open
	out.Solenoid = &v
}

// Commanded returns the shutter position the rig believes it has set.
func (r *Rig) Commanded() Position {
	return positionOf(r.commandedOpen)
}

// Stage returns the active cycle stage.
func (r *Rig) Stage() Stage {
	return r.stage
}

// SettlePending reports whether validation is currently suspended.
func (r *Rig) SettlePending() bool {
	return r.settlePending
}

// Successes returns the number of commanded actuations so far.
func (r *Rig) Successes() int {
	return r.successes
}

// FastCount returns the fast toggles counted in the current burst.
func (r *Rig) FastCount() int {
	return r.fastCount
}

// Halted reports whether a mismatch has permanently stopped the rig.
func (r *Rig) Halted() bool {
	return r.halted
}

// Fault returns the terminal mismatch, or nil while the rig is healthy.
func (r *Rig) Fault() *Mismatch {
	return r.fault
}
