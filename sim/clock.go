package sim

import (
	"time"

	"github.com/sirupsen/logrus"
)

// RunState of the orchestrator. Paused is a sub-state of Running: the clock
// reference keeps advancing but the compute phase is skipped, so elapsed
// simulation time does not jump on resume.
type RunState string

const (
	StateStopped RunState = "stopped"
	StateRunning RunState = "running"
	StatePaused  RunState = "paused"
)

// maxTimestep caps the per-tick dt in seconds. A single slow or backgrounded
// frame must not produce an unstable giant integration step.
const maxTimestep = 0.1

// Orchestrator drives the fixed-timestep loop: per tick it computes dt, runs
// the network's flow resolution, then lets every component integrate its own
// state. Rendering and notification are delegated outward through OnTick.
//
// The orchestrator assumes a single logical thread of control; it is the only
// mutator of network state per tick.
type Orchestrator struct {
	net   *FlowNetwork
	state RunState

	lastTick time.Time
	elapsed  float64
	ticks    uint64

	onTick func(elapsed, dt float64)
	// now is injectable for tests.
	now func() time.Time
}

// NewOrchestrator wraps a network in a stopped orchestrator.
func NewOrchestrator(net *FlowNetwork) *Orchestrator {
	return &Orchestrator{
		net:   net,
		state: StateStopped,
		now:   time.Now,
	}
}

// Network returns the orchestrated network.
func (o *Orchestrator) Network() *FlowNetwork { return o.net }

// SetOnTick registers the render/notify callback invoked after each computed
// tick.
func (o *Orchestrator) SetOnTick(fn func(elapsed, dt float64)) { o.onTick = fn }

// State returns the current run state.
func (o *Orchestrator) State() RunState { return o.state }

// Elapsed is the accumulated simulation time in seconds.
func (o *Orchestrator) Elapsed() float64 { return o.elapsed }

// Ticks is the number of computed ticks.
func (o *Orchestrator) Ticks() uint64 { return o.ticks }

// Start begins running from the current wall clock.
func (o *Orchestrator) Start() {
	o.state = StateRunning
	o.lastTick = o.now()
	logrus.Info("simulation started")
}

// Stop halts the loop. Elapsed time is retained until Reset.
func (o *Orchestrator) Stop() {
	o.state = StateStopped
	logrus.Info("simulation stopped")
}

// Pause suspends the compute phase while keeping the clock reference fresh.
func (o *Orchestrator) Pause() {
	if o.state == StateRunning {
		o.state = StatePaused
	}
}

// Resume re-enters Running and resets the wall-clock reference so the paused
// interval does not appear as one giant dt.
func (o *Orchestrator) Resume() {
	if o.state == StatePaused {
		o.state = StateRunning
		o.lastTick = o.now()
	}
}

// Reset stops the loop, restores every component, and zeroes the clocks.
func (o *Orchestrator) Reset() {
	o.state = StateStopped
	o.elapsed = 0
	o.ticks = 0
	o.net.Reset()
}

// Tick advances one wall-clock-driven step: dt is the time since the last
// tick, capped at maxTimestep. While paused the clock reference still moves
// forward but nothing is computed.
func (o *Orchestrator) Tick() {
	if o.state == StateStopped {
		return
	}
	t := o.now()
	dt := t.Sub(o.lastTick).Seconds()
	o.lastTick = t
	if o.state == StatePaused {
		return
	}
	if dt > maxTimestep {
		dt = maxTimestep
	}
	o.step(dt)
}

// Step advances one explicit fixed-size step, for headless runs and tests.
// Paused orchestrators skip the compute phase here too.
func (o *Orchestrator) Step(dt float64) {
	if o.state == StatePaused {
		return
	}
	o.step(dt)
}

func (o *Orchestrator) step(dt float64) {
	if dt <= 0 {
		return
	}
	o.net.CalculateFlows(dt)
	o.net.UpdateComponents(dt)
	o.elapsed += dt
	o.ticks++
	if o.onTick != nil {
		o.onTick(o.elapsed, dt)
	}
}

// Run executes a headless fixed-step simulation for the given duration in
// simulated seconds.
func (o *Orchestrator) Run(duration, dt float64) {
	if dt <= 0 {
		dt = maxTimestep
	}
	o.Start()
	for o.elapsed < duration-1e-9 {
		o.Step(dt)
	}
	o.Stop()
}
