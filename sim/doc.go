// Package sim provides the core engine of the process flow-network simulator.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - component.go: the Component contract and the closed set of component kinds
//   - network.go: the FlowNetwork arena, the per-tick flow pass, and edge bookkeeping
//   - clock.go: the fixed-timestep orchestrator (Stopped/Running/Paused)
//
// # Architecture
//
// A FlowNetwork owns every component and two derived maps (flows, pressures)
// that are rebuilt from scratch each tick. One tick is:
//
//	CalculateFlows(dt)   // fixed-kind-order output-flow pass, then pressures
//	UpdateComponents(dt) // each component integrates its own state
//
// The flow pass is a deterministic single pass in a fixed component-kind
// order, not an iterative conservation solve. Downstream components never
// feed back into upstream output within the same tick; this quasi-steady
// approximation is part of the observable behavior and is preserved on
// purpose.
//
// Component internals (tank volume, valve position, pump speed) are owned by
// the components themselves and are only written during their own Update.
// External callers read state through Info() and the typed accessors, and
// command components through the narrow surfaces (Pump.Start, Valve.Open,
// HeatExchanger.SetEnabled, ...).
//
// The engine is single-threaded and tick-driven. Topology mutation
// (AddComponent/RemoveComponent) must not overlap a running tick; hosts that
// drive ticks from a goroutine serialize mutations behind tick boundaries
// themselves.
package sim
